package main

import (
	"context"
	"net/http"

	"github.com/sushihentaime/blogfeed/internal/userservice"
)

type contextKey string

const userContextKey = contextKey("user")

func (app *application) contextSetUser(r *http.Request, user *userservice.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

// contextGetUser is only called behind authenticate, which always sets a user.
func (app *application) contextGetUser(r *http.Request) *userservice.User {
	user, ok := r.Context().Value(userContextKey).(*userservice.User)
	if !ok {
		panic("missing user value in request context")
	}
	return user
}

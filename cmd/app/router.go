package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	handle := func(method, path string, h http.HandlerFunc) {
		router.Handler(method, path, app.metrics.instrument(path, h))
	}

	handle(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	handle(http.MethodPost, "/v1/users/register", app.registerUserHandler)
	handle(http.MethodPost, "/v1/users/login", app.loginUserHandler)
	handle(http.MethodPost, "/v1/users/logout", app.requireAuthUser(app.logoutUserHandler))

	handle(http.MethodGet, "/v1/bloggers", app.requireAuthUser(app.listBloggersHandler))
	handle(http.MethodPost, "/v1/subscribe/:blog_id", app.requireAuthUser(app.toggleSubscriptionHandler))
	handle(http.MethodGet, "/v1/subscriptions", app.requireAuthUser(app.listSubscriptionsHandler))

	handle(http.MethodPost, "/v1/read/:post_id", app.requireAuthUser(app.toggleReadHandler))
	handle(http.MethodGet, "/v1/read", app.requireAuthUser(app.listReadPostsHandler))

	handle(http.MethodGet, "/v1/feed", app.requireAuthUser(app.newsFeedHandler))
	handle(http.MethodGet, "/v1/my-blog", app.requireAuthUser(app.personalBlogHandler))

	handle(http.MethodPost, "/v1/posts", app.requireAuthUser(app.createPostHandler))
	handle(http.MethodGet, "/v1/posts/:id", app.getPostHandler)

	if app.registry != nil {
		router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))
	}

	return app.recoverPanic(app.logRequest(app.rateLimit(app.requestTimeout(app.authenticate(router)))))
}

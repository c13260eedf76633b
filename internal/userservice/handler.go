package userservice

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sushihentaime/blogfeed/internal/common"
)

var (
	ErrAuthenticationFailure = errors.New("invalid authentication credentials")
)

func NewUserService(db *sql.DB, cache *common.Cache) *UserService {
	return &UserService{
		m: newUserModel(db),
		c: cache,
	}
}

// CreateUser registers a new account. No blog is created here; blogs appear on first use.
func (s *UserService) CreateUser(ctx context.Context, username, email, password string) (*User, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Username: username,
		Email:    email,
	}

	if err := u.Password.set(password); err != nil {
		return nil, err
	}

	if err := s.m.insertUser(ctx, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

// LoginUser checks the credentials and issues a new access token.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*AuthToken, error) {
	v := common.NewValidator()
	v.Check(username != "", "username", "must be provided")
	v.Check(password != "", "password", "must be provided")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getUserByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	ok, err := user.Password.matches(password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAuthenticationFailure
	}

	token, err := newAuthToken(user.ID, AccessTokenTime)
	if err != nil {
		return nil, err
	}

	if err := s.m.insertToken(ctx, token); err != nil {
		return nil, err
	}

	return token, nil
}

// GetUserByAccessToken resolves the current user of a request.
func (s *UserService) GetUserByAccessToken(ctx context.Context, token string) (*User, error) {
	v := common.NewValidator()
	validateToken(v, token)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	hash := hashToken(token)
	key := common.CacheKeyUserByAccessToken(hash)

	if u, ok := common.CacheGet[User](s.c, key); ok {
		return &u, nil
	}

	user, err := s.m.getUserByToken(ctx, hash)
	if err != nil {
		return nil, err
	}

	if s.c != nil {
		s.c.SetTTL(key, *user, time.Minute)
	}

	return user, nil
}

// GetUser returns a user by id.
func (s *UserService) GetUser(ctx context.Context, id int) (*User, error) {
	v := common.NewValidator()
	v.CheckID(id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getUserByID(ctx, id)
}

// LogoutUser revokes every access token of the user.
func (s *UserService) LogoutUser(ctx context.Context, userID int) error {
	v := common.NewValidator()
	v.CheckID(userID, "user_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	hashes, err := s.m.deleteTokens(ctx, userID)
	if err != nil {
		return err
	}

	if s.c != nil {
		for _, h := range hashes {
			s.c.Delete(common.CacheKeyUserByAccessToken(h))
		}
	}

	return nil
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}

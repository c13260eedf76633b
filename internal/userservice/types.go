package userservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/blogfeed/internal/common"
)

const (
	AccessTokenTime time.Duration = 7 * 24 * time.Hour

	// tokenLength is the length of a base32 encoded 16 byte token.
	tokenLength = 26
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m *DBModel
	c *common.Cache
}

type DBModel struct {
	db *sql.DB
}

// User is the identity the rest of the system consumes: an id and an email.
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  Password  `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte
}

type AuthToken struct {
	AccessToken string    `json:"access_token"`
	Hash        []byte    `json:"-"`
	UserID      int       `json:"user_id"`
	Expiry      time.Time `json:"expiry"`
}

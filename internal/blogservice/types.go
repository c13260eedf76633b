package blogservice

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/sushihentaime/blogfeed/internal/common"
)

const (
	MaxTitleLength = 100
	MaxTextLength  = 3000
)

// Blog is the single blog a user owns.
type Blog struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Post struct {
	ID     int    `json:"id"`
	BlogID int    `json:"blog_id"`
	Title  string `json:"title"`
	Text   string `json:"text"`
	// CreatedAt is assigned by the database and never changes.
	CreatedAt time.Time `json:"created_at"`
}

type BlogModel struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

type BlogService struct {
	m *BlogModel
	c *common.Cache
}

package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sushihentaime/blogfeed/internal/common"
)

var (
	ErrUserForeignKey = errors.New("user_id does not exist")
	ErrBlogForeignKey = errors.New("blog_id does not exist")
)

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// insertBlogIfAbsent relies on the unique user_id constraint, so racing callers never create two blogs.
func (m *BlogModel) insertBlogIfAbsent(ctx context.Context, userID int) error {
	query := `
		INSERT INTO blogs (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`

	_, err := m.db.ExecContext(ctx, query, userID)
	if err != nil {
		switch {
		case common.ForeignKeyViolation(err, "blogs_user_id_fkey"):
			return ErrUserForeignKey
		default:
			return common.StoreError(err)
		}
	}

	return nil
}

func (m *BlogModel) getBlogByUserID(ctx context.Context, userID int) (*Blog, error) {
	query := `
		SELECT id, user_id, created_at
		FROM blogs
		WHERE user_id = $1`

	var blog Blog
	err := m.db.QueryRowContext(ctx, query, userID).Scan(&blog.ID, &blog.UserID, &blog.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, common.StoreError(err)
		}
	}

	return &blog, nil
}

func (m *BlogModel) getBlogByID(ctx context.Context, id int) (*Blog, error) {
	query := `
		SELECT id, user_id, created_at
		FROM blogs
		WHERE id = $1`

	var blog Blog
	err := m.db.QueryRowContext(ctx, query, id).Scan(&blog.ID, &blog.UserID, &blog.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, common.StoreError(err)
		}
	}

	return &blog, nil
}

func (m *BlogModel) insertPost(tx *sql.Tx, ctx context.Context, post *Post) error {
	query := `
		INSERT INTO posts (blog_id, title, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := tx.QueryRowContext(ctx, query, post.BlogID, post.Title, post.Text).Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		switch {
		case common.ForeignKeyViolation(err, "posts_blog_id_fkey"):
			return ErrBlogForeignKey
		default:
			return common.StoreError(err)
		}
	}

	return nil
}

// insertOutbox records that subscribers of the post's blog still have to be notified.
func (m *BlogModel) insertOutbox(tx *sql.Tx, ctx context.Context, postID int) error {
	query := `
		INSERT INTO outbox (event_id, post_id)
		VALUES ($1, $2)`

	_, err := tx.ExecContext(ctx, query, uuid.New(), postID)
	return common.StoreError(err)
}

func (m *BlogModel) getPostByID(ctx context.Context, id int) (*Post, error) {
	query := `
		SELECT id, blog_id, title, text, created_at
		FROM posts
		WHERE id = $1`

	var post Post
	err := m.db.QueryRowContext(ctx, query, id).Scan(&post.ID, &post.BlogID, &post.Title, &post.Text, &post.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, common.StoreError(err)
		}
	}

	return &post, nil
}

// listPosts returns up to limit posts of the given blogs, newest first. Ties on
// created_at are broken by id so paging is deterministic.
func (m *BlogModel) listPosts(ctx context.Context, blogIDs []int, limit, offset int) ([]Post, error) {
	ids := make([]int64, len(blogIDs))
	for i, id := range blogIDs {
		ids[i] = int64(id)
	}

	query, args, err := m.sb.
		Select("id", "blog_id", "title", "text", "created_at").
		From("posts").
		Where(squirrel.Expr("blog_id = ANY(?)", pq.Array(ids))).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.StoreError(err)
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		var post Post
		err := rows.Scan(&post.ID, &post.BlogID, &post.Title, &post.Text, &post.CreatedAt)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, common.StoreError(err)
	}

	return posts, nil
}

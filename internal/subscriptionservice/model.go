package subscriptionservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"

	"github.com/sushihentaime/blogfeed/internal/common"
)

var ErrBlogForeignKey = errors.New("blog_id does not exist")

func newSubscriptionModel(db *sql.DB) *SubscriptionModel {
	return &SubscriptionModel{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (m *SubscriptionModel) deleteSubscription(tx *sql.Tx, ctx context.Context, userID, blogID int) (bool, error) {
	query := `
		DELETE FROM subscriptions
		WHERE user_id = $1 AND blog_id = $2`

	res, err := tx.ExecContext(ctx, query, userID, blogID)
	if err != nil {
		return false, common.StoreError(err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}

// insertSubscription reports false when a concurrent toggle already created the edge.
func (m *SubscriptionModel) insertSubscription(tx *sql.Tx, ctx context.Context, userID, blogID int) (bool, error) {
	query := `
		INSERT INTO subscriptions (user_id, blog_id)
		VALUES ($1, $2)
		ON CONFLICT ON CONSTRAINT subscriptions_pkey DO NOTHING`

	res, err := tx.ExecContext(ctx, query, userID, blogID)
	if err != nil {
		switch {
		case common.ForeignKeyViolation(err, "subscriptions_blog_id_fkey"):
			return false, ErrBlogForeignKey
		case common.ForeignKeyViolation(err, "subscriptions_user_id_fkey"):
			return false, common.ErrRecordNotFound
		default:
			return false, common.StoreError(err)
		}
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}

func (m *SubscriptionModel) exists(ctx context.Context, userID, blogID int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions WHERE user_id = $1 AND blog_id = $2
		)`

	var ok bool
	err := m.db.QueryRowContext(ctx, query, userID, blogID).Scan(&ok)
	if err != nil {
		return false, common.StoreError(err)
	}

	return ok, nil
}

func (m *SubscriptionModel) listFollowedBlogs(ctx context.Context, userID int) ([]int, error) {
	query := `
		SELECT blog_id
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY blog_id`

	rows, err := m.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, common.StoreError(err)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, common.StoreError(err)
	}

	return ids, nil
}

func (m *SubscriptionModel) listSubscriberEmails(ctx context.Context, blogID int) ([]string, error) {
	query := `
		SELECT u.email
		FROM subscriptions s
		JOIN users u ON u.id = s.user_id
		WHERE s.blog_id = $1`

	rows, err := m.db.QueryContext(ctx, query, blogID)
	if err != nil {
		return nil, common.StoreError(err)
	}
	defer rows.Close()

	emails := []string{}
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}

	if err := rows.Err(); err != nil {
		return nil, common.StoreError(err)
	}

	return emails, nil
}

// listBloggers lists every blog except the viewer's own, with the viewer's subscription flag.
func (m *SubscriptionModel) listBloggers(ctx context.Context, viewerID, limit, offset int) ([]Blogger, error) {
	query, args, err := m.sb.
		Select("b.id", "u.id", "u.username", "(s.user_id IS NOT NULL) AS subscribed").
		From("blogs b").
		Join("users u ON u.id = b.user_id").
		LeftJoin("subscriptions s ON s.blog_id = b.id AND s.user_id = ?", viewerID).
		Where(squirrel.NotEq{"b.user_id": viewerID}).
		OrderBy("u.username", "b.id").
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

	bloggers := []Blogger{}
	for rows.Next() {
		var b Blogger
		if err := rows.Scan(&b.BlogID, &b.UserID, &b.Username, &b.Subscribed); err != nil {
			return nil, err
		}
		bloggers = append(bloggers, b)
	}

	if err := rows.Err(); err != nil {
		return nil, common.StoreError(err)
	}

	return bloggers, nil
}

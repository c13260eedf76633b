package readservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/sushihentaime/blogfeed/internal/common"
)

var ErrPostForeignKey = errors.New("post_id does not exist")

func newReadModel(db *sql.DB) *ReadModel {
	return &ReadModel{db: db}
}

func (m *ReadModel) deleteMarker(tx *sql.Tx, ctx context.Context, userID, postID int) (bool, error) {
	query := `
		DELETE FROM read_markers
		WHERE user_id = $1 AND post_id = $2`

	res, err := tx.ExecContext(ctx, query, userID, postID)
	if err != nil {
		return false, common.StoreError(err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}

// insertMarker reports false when a concurrent toggle already inserted the same marker.
func (m *ReadModel) insertMarker(tx *sql.Tx, ctx context.Context, userID, postID int) (bool, error) {
	query := `
		INSERT INTO read_markers (user_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT ON CONSTRAINT read_markers_pkey DO NOTHING`

	res, err := tx.ExecContext(ctx, query, userID, postID)
	if err != nil {
		switch {
		case common.ForeignKeyViolation(err, "read_markers_post_id_fkey"):
			return false, ErrPostForeignKey
		case common.ForeignKeyViolation(err, "read_markers_user_id_fkey"):
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

func (m *ReadModel) purgeForBlog(tx *sql.Tx, ctx context.Context, userID, blogID int) (int64, error) {
	query := `
		DELETE FROM read_markers rm
		USING posts p
		WHERE rm.post_id = p.id AND rm.user_id = $1 AND p.blog_id = $2`

	res, err := tx.ExecContext(ctx, query, userID, blogID)
	if err != nil {
		return 0, common.StoreError(err)
	}

	return res.RowsAffected()
}

func (m *ReadModel) listReadPosts(ctx context.Context, userID int) ([]int, error) {
	query := `
		SELECT post_id
		FROM read_markers
		WHERE user_id = $1
		ORDER BY post_id`

	rows, err := m.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, common.StoreError(err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

func (m *ReadModel) listReadAmong(ctx context.Context, userID int, postIDs []int) ([]int, error) {
	ids := make([]int64, len(postIDs))
	for i, id := range postIDs {
		ids[i] = int64(id)
	}

	query := `
		SELECT post_id
		FROM read_markers
		WHERE user_id = $1 AND post_id = ANY($2)`

	rows, err := m.db.QueryContext(ctx, query, userID, pq.Array(ids))
	if err != nil {
		return nil, common.StoreError(err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

func scanIDs(rows *sql.Rows) ([]int, error) {
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

package notifyservice

import (
	"cmp"
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/sushihentaime/blogfeed/internal/common"
)

// claimDue leases up to limit due outbox entries together with the post and
// its author. The lease is taken in a single statement, so no row lock is
// held while the entries are dispatched; a relay that dies mid-batch only
// delays its entries until the lease runs out.
func claimDue(ctx context.Context, db *sql.DB, limit int, lease time.Duration) ([]outboxEntry, error) {
	query := `
		WITH due AS (
			SELECT id
			FROM outbox
			WHERE dispatched_at IS NULL AND failed_at IS NULL AND next_attempt_at <= now()
			ORDER BY id
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		UPDATE outbox o
		SET next_attempt_at = now() + make_interval(secs => $2)
		FROM due, posts p, blogs b, users u
		WHERE o.id = due.id AND p.id = o.post_id AND b.id = p.blog_id AND u.id = b.user_id
		RETURNING o.id, o.event_id, o.attempts,
			u.id, u.username, u.email,
			p.id, p.blog_id, p.title, p.text, p.created_at`

	rows, err := db.QueryContext(ctx, query, limit, lease.Seconds())
	if err != nil {
		return nil, common.StoreError(err)
	}
	defer rows.Close()

	var entries []outboxEntry
	for rows.Next() {
		var e outboxEntry
		err := rows.Scan(
			&e.id, &e.eventID, &e.attempts,
			&e.author.ID, &e.author.Username, &e.author.Email,
			&e.post.ID, &e.post.BlogID, &e.post.Title, &e.post.Text, &e.post.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, common.StoreError(err)
	}

	// RETURNING does not keep the CTE order
	slices.SortFunc(entries, func(a, b outboxEntry) int { return cmp.Compare(a.id, b.id) })

	return entries, nil
}

func markDispatched(ctx context.Context, db *sql.DB, id int) error {
	query := `
		UPDATE outbox
		SET dispatched_at = now()
		WHERE id = $1`

	_, err := db.ExecContext(ctx, query, id)
	return common.StoreError(err)
}

// markFailedAttempt records a failed attempt. The entry becomes due again
// after retryIn, or is retired for good when giveUp is set.
func markFailedAttempt(ctx context.Context, db *sql.DB, id int, reason string, giveUp bool, retryIn time.Duration) error {
	query := `
		UPDATE outbox
		SET attempts = attempts + 1,
			last_error = $2,
			failed_at = CASE WHEN $3 THEN now() ELSE NULL END,
			next_attempt_at = now() + make_interval(secs => $4)
		WHERE id = $1`

	_, err := db.ExecContext(ctx, query, id, reason, giveUp, retryIn.Seconds())
	return common.StoreError(err)
}

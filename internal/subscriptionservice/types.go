package subscriptionservice

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
)

// SubscriptionState is the outcome of a toggle, derived from whether the edge exists afterwards.
type SubscriptionState string

const (
	StateSubscribed   SubscriptionState = "subscribed"
	StateUnsubscribed SubscriptionState = "unsubscribed"
)

// ReadMarkerPurger clears a user's read markers for one blog on the given transaction.
type ReadMarkerPurger interface {
	PurgeForBlog(ctx context.Context, tx *sql.Tx, userID, blogID int) (int64, error)
}

// Blogger is an entry of the bloggers directory as seen by one viewer.
type Blogger struct {
	BlogID     int    `json:"blog_id"`
	UserID     int    `json:"user_id"`
	Username   string `json:"username"`
	Subscribed bool   `json:"subscribed"`
}

type SubscriptionModel struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

type SubscriptionService struct {
	m      *SubscriptionModel
	purger ReadMarkerPurger
}

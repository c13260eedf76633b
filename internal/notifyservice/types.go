package notifyservice

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sushihentaime/blogfeed/internal/common"
)

const (
	DefaultInterval    = 2 * time.Second
	DefaultBatchSize   = 50
	DefaultMaxAttempts = 5
	DefaultRetryDelay  = 5 * time.Second
	DefaultLease       = time.Minute

	// maxRetryDelay caps the exponential backoff between attempts.
	maxRetryDelay = 10 * time.Minute
)

// Dispatcher delivers the news of a freshly created post to its blog's subscribers.
type Dispatcher interface {
	SendNewPostNotification(ctx context.Context, eventID string, author common.EventAuthor, post common.EventPost, recipients []string) error
}

type SubscriberLister interface {
	ListSubscriberEmails(ctx context.Context, blogID int) ([]string, error)
}

type BrokerDispatcher struct {
	mb common.MessageProducer
}

type RelayConfig struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
	// RetryDelay is the wait after the first failed attempt; it doubles
	// with every further failure.
	RetryDelay time.Duration
	// Lease is how long a claimed entry stays hidden from other relays
	// before it is considered abandoned.
	Lease time.Duration
}

// Relay drains the outbox written by post creation.
type Relay struct {
	db          *sql.DB
	subscribers SubscriberLister
	dispatcher  Dispatcher
	logger      *slog.Logger
	metrics     *RelayMetrics
	cfg         RelayConfig
}

type RelayMetrics struct {
	Dispatched prometheus.Counter
	Failed     prometheus.Counter
	Skipped    prometheus.Counter
}

type outboxEntry struct {
	id       int
	eventID  string
	attempts int
	author   common.EventAuthor
	post     common.EventPost
}

package notifyservice

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

func NewRelay(db *sql.DB, subscribers SubscriberLister, dispatcher Dispatcher, metrics *RelayMetrics, logger *slog.Logger, cfg RelayConfig) *Relay {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.Lease <= 0 {
		cfg.Lease = DefaultLease
	}

	return &Relay{
		db:          db,
		subscribers: subscribers,
		dispatcher:  dispatcher,
		logger:      logger,
		metrics:     metrics,
		cfg:         cfg,
	}
}

// Run processes the outbox every interval until ctx is cancelled. Errors are
// logged and retried on the next tick.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	r.logger.Info("outbox relay started", slog.Duration("interval", r.cfg.Interval))

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return
		case <-ticker.C:
			for {
				n, err := r.ProcessBatch(ctx)
				if err != nil {
					r.logger.Error("could not process outbox", slog.String("error", err.Error()))
					break
				}
				// only a fully settled batch suggests more rows are waiting;
				// failed rows are not due again until their retry delay passes
				if n < r.cfg.BatchSize {
					break
				}
			}
		}
	}
}

// ProcessBatch leases up to BatchSize due entries and settles each of them.
// It returns the number of entries that left the outbox for good, either
// dispatched or skipped for lack of subscribers.
func (r *Relay) ProcessBatch(ctx context.Context) (int, error) {
	entries, err := claimDue(ctx, r.db, r.cfg.BatchSize, r.cfg.Lease)
	if err != nil {
		return 0, err
	}

	settled := 0
	for _, e := range entries {
		ok, err := r.settle(ctx, e)
		if err != nil {
			return settled, err
		}
		if ok {
			settled++
		}
	}

	return settled, nil
}

func (r *Relay) settle(ctx context.Context, e outboxEntry) (bool, error) {
	recipients, err := r.subscribers.ListSubscriberEmails(ctx, e.post.BlogID)
	if err != nil {
		return false, r.fail(ctx, e, err)
	}

	if len(recipients) == 0 {
		r.metrics.Skipped.Inc()
		return true, markDispatched(ctx, r.db, e.id)
	}

	err = r.dispatcher.SendNewPostNotification(ctx, e.eventID, e.author, e.post, recipients)
	if err != nil {
		return false, r.fail(ctx, e, err)
	}

	r.metrics.Dispatched.Inc()
	r.logger.Info("new post notification dispatched",
		slog.Int("post_id", e.post.ID),
		slog.Int("recipients", len(recipients)))

	return true, markDispatched(ctx, r.db, e.id)
}

func (r *Relay) fail(ctx context.Context, e outboxEntry, cause error) error {
	r.metrics.Failed.Inc()

	attempt := e.attempts + 1
	giveUp := attempt >= r.cfg.MaxAttempts
	retryIn := r.retryDelay(attempt)

	if giveUp {
		r.logger.Error("giving up on new post notification",
			slog.Int("post_id", e.post.ID),
			slog.Int("attempts", attempt),
			slog.String("error", cause.Error()))
	} else {
		r.logger.Warn("new post notification failed",
			slog.Int("post_id", e.post.ID),
			slog.Int("attempts", attempt),
			slog.Duration("retry_in", retryIn),
			slog.String("error", cause.Error()))
	}

	return markFailedAttempt(ctx, r.db, e.id, cause.Error(), giveUp, retryIn)
}

// retryDelay doubles RetryDelay for every attempt after the first, up to maxRetryDelay.
func (r *Relay) retryDelay(attempt int) time.Duration {
	d := r.cfg.RetryDelay
	for i := 1; i < attempt && d < maxRetryDelay; i++ {
		d *= 2
	}

	return min(d, maxRetryDelay)
}

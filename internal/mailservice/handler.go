package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
	"unicode/utf8"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sushihentaime/blogfeed/internal/common"
	"golang.org/x/exp/rand"
)

const (
	maxRetries = 5
	baseDelay  = 500 * time.Millisecond
	seenTTL    = 24 * time.Hour
)

func NewMailService(mb common.MessageConsumer, host, username, password, sender string, port int, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:     mb,
		m:      NewMailer(host, port, username, password, sender, NewTemplate()),
		logger: logger,
		seen:   common.NewCache(seenTTL, time.Hour),
		ctx:    ctx,
		cancel: cancel,
	}
}

// SendNewPostEmails consumes post.created events in the background and mails
// every recipient of each event.
func (s *MailService) SendNewPostEmails() error {
	msgs, err := s.mb.Consume(common.PostCreatedKey, common.PostExchange, common.PostCreatedQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return err
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				s.handle(msg)

			case <-s.ctx.Done():
				s.logger.Info("stopping SendNewPostEmails due to context cancellation")
				return
			}
		}
	}()

	return nil
}

func (s *MailService) handle(msg amqp.Delivery) {
	// a message that cannot be decoded will never succeed, so it is dropped
	defer msg.Ack(false)

	var event common.NewPostEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
		return
	}

	if event.EventID != "" {
		if s.seen.Has(common.CacheKeySeenEvent(event.EventID)) {
			s.logger.Info("dropping redelivered event", slog.String("event_id", event.EventID))
			return
		}
	}

	data := newPostData{
		Author:  event.Author.Username,
		Title:   event.Post.Title,
		Excerpt: excerpt(event.Post.Text),
	}

	for _, recipient := range event.Recipients {
		s.deliver(recipient, data)
	}

	if event.EventID != "" {
		s.seen.Set(common.CacheKeySeenEvent(event.EventID), struct{}{})
	}
}

// deliver retries with exponential backoff and full jitter. A recipient that
// still fails after maxRetries is logged and skipped.
func (s *MailService) deliver(recipient string, data newPostData) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := s.m.send(recipient, data, newPostTemplate)
		if err == nil {
			s.logger.Info("new post email sent", slog.String("email", recipient))
			return
		}

		delay := time.Duration(rand.Int63n(int64(baseDelay) << uint(attempt)))
		s.logger.Info("delaying new post email", slog.String("email", recipient), slog.Int("attempt", attempt), slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return
		}
	}

	s.logger.Error("could not send new post email", slog.String("email", recipient))
}

func excerpt(text string) string {
	if utf8.RuneCountInString(text) <= excerptLength {
		return text
	}

	r := []rune(text)
	return string(r[:excerptLength]) + "..."
}

func (s *MailService) Close() {
	s.cancel()
}

package notifyservice

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"
	"github.com/sushihentaime/blogfeed/internal/common"
)

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) SendNewPostNotification(ctx context.Context, eventID string, author common.EventAuthor, post common.EventPost, recipients []string) error {
	args := m.Called(ctx, eventID, author, post, recipients)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
	published amqp.Publishing
}

func (m *MockProducer) Publish(ctx context.Context, msg []byte, key common.BindingKey, exchange common.Exchange, opts ...common.PublishOption) error {
	m.published = amqp.Publishing{Body: msg}
	for _, opt := range opts {
		opt(&m.published)
	}

	args := m.Called(ctx, key, exchange)
	return args.Error(0)
}

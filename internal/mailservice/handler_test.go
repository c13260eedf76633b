package mailservice

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/blogfeed/internal/common"
)

func setupTestEnvironment(t *testing.T, deliveries ...amqp.Delivery) (*MailService, *MockMessageConsumer, *MockMailer, *MockLogger) {
	mockMC := &MockMessageConsumer{Deliveries: deliveries}
	mockMC.On("Consume", common.PostCreatedKey, common.PostExchange, common.PostCreatedQueue).Return(nil)

	mockMailer := new(MockMailer)
	mockLogger := new(MockLogger)
	mockLogger.On("Info", mock.Anything).Maybe()
	mockLogger.On("Error", mock.Anything).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	s := &MailService{
		mb:     mockMC,
		m:      mockMailer,
		logger: mockLogger,
		seen:   common.NewCache(time.Hour, time.Hour),
		ctx:    ctx,
		cancel: cancel,
	}

	t.Cleanup(func() {
		s.Close()
	})

	return s, mockMC, mockMailer, mockLogger
}

func newDelivery(t *testing.T, ack *MockAcknowledger, tag uint64, event any) amqp.Delivery {
	body, err := json.Marshal(event)
	require.NoError(t, err)

	ack.On("Ack", tag, false).Return(nil)

	return amqp.Delivery{Acknowledger: ack, DeliveryTag: tag, Body: body}
}

func testEvent(id string) common.NewPostEvent {
	return common.NewPostEvent{
		EventID:    id,
		Author:     common.EventAuthor{ID: 1, Username: "alice", Email: "alice@example.com"},
		Post:       common.EventPost{ID: 10, BlogID: 2, Title: "Hello", Text: "World"},
		Recipients: []string{"bob@example.com", "carol@example.com"},
	}
}

var testData = newPostData{Author: "alice", Title: "Hello", Excerpt: "World"}

func TestSendNewPostEmails(t *testing.T) {
	ack := new(MockAcknowledger)
	s, mockMC, mockMailer, _ := setupTestEnvironment(t, newDelivery(t, ack, 1, testEvent("evt-1")))

	mockMailer.On("send", "bob@example.com", testData, "new_post.html").Return(nil).Once()
	mockMailer.On("send", "carol@example.com", testData, "new_post.html").Return(nil).Once()

	require.NoError(t, s.SendNewPostEmails())

	assert.Eventually(t, func() bool {
		return ack.Acks() == 1
	}, 5*time.Second, 10*time.Millisecond)

	mockMC.AssertExpectations(t)
	mockMailer.AssertExpectations(t)
	ack.AssertExpectations(t)
}

func TestSendNewPostEmailsDropsRedelivery(t *testing.T) {
	ack := new(MockAcknowledger)
	s, _, mockMailer, _ := setupTestEnvironment(t,
		newDelivery(t, ack, 1, testEvent("evt-1")),
		newDelivery(t, ack, 2, testEvent("evt-1")),
	)

	mockMailer.On("send", mock.Anything, testData, "new_post.html").Return(nil)

	require.NoError(t, s.SendNewPostEmails())

	assert.Eventually(t, func() bool {
		return ack.Acks() == 2
	}, 5*time.Second, 10*time.Millisecond)

	mockMailer.AssertNumberOfCalls(t, "send", 2)
}

func TestSendNewPostEmailsRetries(t *testing.T) {
	ack := new(MockAcknowledger)
	event := testEvent("evt-1")
	event.Recipients = []string{"bob@example.com"}
	s, _, mockMailer, _ := setupTestEnvironment(t, newDelivery(t, ack, 1, event))

	mockMailer.On("send", "bob@example.com", testData, "new_post.html").Return(errors.New("smtp down")).Once()
	mockMailer.On("send", "bob@example.com", testData, "new_post.html").Return(nil).Once()

	require.NoError(t, s.SendNewPostEmails())

	assert.Eventually(t, func() bool {
		return ack.Acks() == 1
	}, 5*time.Second, 10*time.Millisecond)

	mockMailer.AssertNumberOfCalls(t, "send", 2)
}

func TestSendNewPostEmailsMalformedMessage(t *testing.T) {
	ack := new(MockAcknowledger)
	ack.On("Ack", uint64(1), false).Return(nil)
	bad := amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte("{not json")}

	s, _, mockMailer, mockLogger := setupTestEnvironment(t, bad)

	require.NoError(t, s.SendNewPostEmails())

	assert.Eventually(t, func() bool {
		return ack.Acks() == 1
	}, 5*time.Second, 10*time.Millisecond)

	mockMailer.AssertNotCalled(t, "send", mock.Anything, mock.Anything, mock.Anything)
	mockLogger.AssertCalled(t, "Error", "could not unmarshal message")
}

func TestSendNewPostEmailsConsumeError(t *testing.T) {
	mockMC := new(MockMessageConsumer)
	mockMC.On("Consume", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("channel closed"))
	mockLogger := new(MockLogger)
	mockLogger.On("Error", "could not consume message").Once()

	s := &MailService{mb: mockMC, logger: mockLogger, ctx: context.Background(), cancel: func() {}}

	assert.EqualError(t, s.SendNewPostEmails(), "channel closed")
	mockLogger.AssertExpectations(t)
}

func TestExcerpt(t *testing.T) {
	long := strings.Repeat("é", 300)

	assert.Equal(t, "short", excerpt("short"))
	assert.Equal(t, strings.Repeat("é", 280)+"...", excerpt(long))
}

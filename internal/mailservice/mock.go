package mailservice

import (
	"bytes"
	"sync/atomic"

	"github.com/go-mail/mail/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"
	"github.com/sushihentaime/blogfeed/internal/common"
)

type MockTemplate struct {
	mock.Mock
}

func (m *MockTemplate) ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error) {
	args := m.Called(name, data)
	return args.Get(0).(*bytes.Buffer), args.Get(1).(*bytes.Buffer), args.Get(2).(*bytes.Buffer), args.Error(3)
}

type MockDialer struct {
	mock.Mock
}

func (d *MockDialer) DialAndSend(m ...*mail.Message) error {
	args := d.Called(m)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) send(recipient string, data any, templateFile string) error {
	args := m.Called(recipient, data, templateFile)
	return args.Error(0)
}

type MockLogger struct {
	mock.Mock
}

func (l *MockLogger) Error(msg string, args ...any) {
	l.Called(msg)
}

func (l *MockLogger) Info(msg string, args ...any) {
	l.Called(msg)
}

// MockMessageConsumer hands out Deliveries and then closes the channel.
type MockMessageConsumer struct {
	mock.Mock
	Deliveries []amqp.Delivery
}

func (m *MockMessageConsumer) Consume(key common.BindingKey, exchange common.Exchange, queue common.Queue) (<-chan amqp.Delivery, error) {
	args := m.Called(key, exchange, queue)
	if err := args.Error(0); err != nil {
		return nil, err
	}

	msgsChan := make(chan amqp.Delivery)
	go func() {
		defer close(msgsChan)
		for _, d := range m.Deliveries {
			msgsChan <- d
		}
	}()

	return msgsChan, nil
}

// MockAcknowledger records acks of deliveries.
type MockAcknowledger struct {
	mock.Mock
	acks atomic.Int32
}

func (a *MockAcknowledger) Ack(tag uint64, multiple bool) error {
	err := a.Called(tag, multiple).Error(0)
	a.acks.Add(1)
	return err
}

func (a *MockAcknowledger) Acks() int {
	return int(a.acks.Load())
}

func (a *MockAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	return a.Called(tag, multiple, requeue).Error(0)
}

func (a *MockAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Called(tag, requeue).Error(0)
}

package mailservice

import (
	"bytes"

	"github.com/go-mail/mail/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"
	"github.com/sushihentaime/bloglist/internal/common"
)

type MockTemplate struct {
	mock.Mock
}

func (m *MockTemplate) ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error) {
	args := m.Called(name, data)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
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

type MockMessageConsumer struct {
	mock.Mock
}

func (m *MockMessageConsumer) Consume(key common.BindingKey, exchange common.Exchange, queue common.Queue) (<-chan amqp.Delivery, error) {
	args := m.Called(key, exchange, queue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(chan amqp.Delivery), args.Error(1)
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

type MockAcknowledger struct {
	mock.Mock
}

func (a *MockAcknowledger) Ack(tag uint64, multiple bool) error {
	args := a.Called(tag, multiple)
	return args.Error(0)
}

func (a *MockAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	args := a.Called(tag, multiple, requeue)
	return args.Error(0)
}

func (a *MockAcknowledger) Reject(tag uint64, requeue bool) error {
	args := a.Called(tag, requeue)
	return args.Error(0)
}

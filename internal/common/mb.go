package common

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Exchange string

type Queue string

type BindingKey string

type MessageProducer interface {
	Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error
}

type MessageConsumer interface {
	Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error)
}

const (
	BlogExchange        Exchange   = "blog_exchange"
	CommentCreatedQueue Queue      = "comment_created_queue"
	CommentCreatedKey   BindingKey = "comment.created"
)

type MessageBroker struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewMessageBroker(URI string) (*MessageBroker, error) {
	conn, ch, err := connectAMQP(URI)
	if err != nil {
		return nil, err
	}

	return &MessageBroker{
		conn: conn,
		ch:   ch,
	}, nil
}

func connectAMQP(URI string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(URI)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("could not open channel: %w", err)
	}

	return conn, ch, nil
}

// Close closes the connection and channel of the message broker.
func (mb *MessageBroker) Close() error {
	err := mb.ch.Close()
	if err != nil {
		return err
	}

	err = mb.conn.Close()
	if err != nil {
		return err
	}

	return nil
}

// SetupBlogExchange declares the blog exchange and binds the comment.created queue to it.
func SetupBlogExchange(mb *MessageBroker) error {
	err := mb.ch.ExchangeDeclare(string(BlogExchange), "direct", true, false, false, false, nil)
	if err != nil {
		return err
	}

	_, err = mb.ch.QueueDeclare(string(CommentCreatedQueue), true, false, false, false, nil)
	if err != nil {
		return err
	}

	err = mb.ch.QueueBind(string(CommentCreatedQueue), string(CommentCreatedKey), string(BlogExchange), false, nil)
	if err != nil {
		return err
	}

	return nil
}

func (mb *MessageBroker) Publish(ctx context.Context, msg []byte, key BindingKey, exchange Exchange) error {
	err := mb.ch.PublishWithContext(ctx, string(exchange), string(key), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         msg,
	})
	if err != nil {
		return fmt.Errorf("could not publish message: %w", err)
	}

	return nil
}

func (mb *MessageBroker) Consume(key BindingKey, exchange Exchange, queue Queue) (<-chan amqp.Delivery, error) {
	msgs, err := mb.ch.Consume(string(queue), "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("could not consume message from %s bound to %s/%s: %w", queue, exchange, key, err)
	}

	return msgs, nil
}

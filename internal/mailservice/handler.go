package mailservice

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sushihentaime/bloglist/internal/commentservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"golang.org/x/exp/rand"
)

const (
	commentNotificationTemplate = "comment_notification.html"

	defaultMaxRetries = 5
	defaultBaseDelay  = 500 * time.Millisecond
)

func NewMailService(mb common.MessageConsumer, host, username, password, sender, moderator string, port int, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:         mb,
		m:          NewMailer(host, port, username, password, sender, NewTemplate()),
		moderator:  moderator,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		maxRetries: defaultMaxRetries,
		baseDelay:  defaultBaseDelay,
	}
}

// NotifyModerator consumes comment.created events and mails each new comment
// to the moderator address. It returns once the consumer goroutine is started.
func (s *MailService) NotifyModerator() error {
	msgs, err := s.mb.Consume(common.CommentCreatedKey, common.BlogExchange, common.CommentCreatedQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				s.handleDelivery(msg)

			case <-s.ctx.Done():
				s.logger.Info("stopping NotifyModerator due to context cancellation")
				return
			}
		}
	}()

	return nil
}

func (s *MailService) handleDelivery(msg amqp.Delivery) {
	var event commentservice.CommentCreatedEvent

	err := json.Unmarshal(msg.Body, &event)
	if err != nil {
		s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
		s.settle(msg, msg.Nack(false, false))
		return
	}

	err = s.sendWithRetry(&event)
	switch {
	case err == nil:
		s.logger.Info("comment notification sent", slog.String("comment_id", event.CommentID))
		s.settle(msg, msg.Ack(false))
	case errors.Is(err, context.Canceled):
		// shutting down: hand the message back to the broker
		s.logger.Info("requeueing comment notification", slog.String("comment_id", event.CommentID))
		s.settle(msg, msg.Nack(false, true))
	default:
		s.logger.Error("could not send comment notification", slog.String("comment_id", event.CommentID), slog.String("error", err.Error()))
		s.settle(msg, msg.Ack(false))
	}
}

func (s *MailService) settle(msg amqp.Delivery, err error) {
	if err != nil {
		s.logger.Error("could not acknowledge message", slog.Uint64("delivery_tag", msg.DeliveryTag), slog.String("error", err.Error()))
	}
}

// sendWithRetry uses exponential backoff with jitter between attempts. It
// returns the context error when the service is closed before the mail is sent.
func (s *MailService) sendWithRetry(event *commentservice.CommentCreatedEvent) error {
	var err error

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if ctxErr := s.ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		err = s.m.send(s.moderator, event, commentNotificationTemplate)
		if err == nil {
			return nil
		}
		if attempt == s.maxRetries-1 {
			break
		}

		delay := time.Duration(rand.Int63n(int64(s.baseDelay) << uint(attempt)))
		s.logger.Info("delaying comment notification", slog.String("comment_id", event.CommentID), slog.Int("attempt", attempt), slog.Duration("delay", delay), slog.String("error", err.Error()))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return s.ctx.Err()
		}
	}

	return err
}

// Close stops the consumer and waits for the in-flight notification to finish.
func (s *MailService) Close() {
	s.cancel()
	s.wg.Wait()
}

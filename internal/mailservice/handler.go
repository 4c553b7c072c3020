package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/rand"

	"github.com/sushihentaime/bloglist/internal/common"
)

const (
	maxRetries = 5
	baseDelay  = 500 * time.Millisecond
)

func NewMailService(mb common.MessageConsumer, cfg MailConfig, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:        mb,
		m:         NewMailer(cfg, NewTemplate()),
		recipient: cfg.Recipient,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// NotifyUserCreated consumes user.created events in the background and mails
// a notification for each to the configured recipient.
func (s *MailService) NotifyUserCreated() error {
	msgs, err := s.mb.Consume(common.UserCreatedKey, common.UserExchange, common.UserCreatedQueue)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				s.handleUserCreated(msg)

			case <-s.ctx.Done():
				s.logger.Info("stopping user created consumer")
				return
			}
		}
	}()

	return nil
}

// handleUserCreated sends one notification, retrying with jittered
// exponential backoff. The message is acked either way so a broken mail
// server cannot wedge the queue.
func (s *MailService) handleUserCreated(msg amqp.Delivery) {
	defer msg.Ack(false)

	var event common.UserCreatedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
		return
	}

	if s.recipient == "" {
		return
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := s.m.send(s.recipient, event, userCreatedTemplate)
		if err == nil {
			s.logger.Info("user created notification sent", slog.String("username", event.Username))
			return
		}

		delay := time.Duration(rand.Int63n(int64(baseDelay) << uint(attempt)))
		s.logger.Info("delaying user created notification", slog.String("username", event.Username), slog.Int("attempt", attempt), slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			return
		}
	}

	s.logger.Error("could not send user created notification", slog.String("username", event.Username))
}

func (s *MailService) Close() {
	s.cancel()
}

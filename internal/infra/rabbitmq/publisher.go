// Package rabbitmq publishes quiz events to a topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"smarttest-quiz-service/internal/domain"
)

const (
	DefaultExchange         = "quiz.events"
	RoutingKeyQuizCompleted = "quiz.completed"
	eventTypeHeader         = "event_type"
	eventTypeQuizCompleted  = "quiz_completed"
)

// Publisher implements app.EventPublisher. With an empty URL it is disabled and drops events.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	enabled  bool
	logger   *slog.Logger

	mu sync.Mutex
}

func NewPublisher(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if exchange == "" {
		exchange = DefaultExchange
	}
	if url == "" {
		logger.Warn("rabbitmq url is empty, event publishing is disabled")
		return &Publisher{exchange: exchange, logger: logger}, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	logger.Info("event publisher ready", "exchange", exchange)
	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		enabled:  true,
		logger:   logger,
	}, nil
}

// Enabled reports whether events reach a broker.
func (p *Publisher) Enabled() bool {
	return p.enabled
}

func (p *Publisher) PublishQuizCompleted(ctx context.Context, event domain.QuizCompleted) error {
	if !p.enabled {
		p.logger.Debug("event publishing disabled, skipping", "event", eventTypeQuizCompleted, "user_id", event.UserID)
		return nil
	}
	msg, err := quizCompletedMessage(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.channel.PublishWithContext(ctx, p.exchange, RoutingKeyQuizCompleted, false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", RoutingKeyQuizCompleted, err)
	}
	return nil
}

func quizCompletedMessage(event domain.QuizCompleted) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("marshal event: %w", err)
	}
	ts := event.CompletedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ts,
		Body:         body,
		Headers: amqp.Table{
			eventTypeHeader: eventTypeQuizCompleted,
			"user_id":       event.UserID,
			"subject":       event.Subject,
			"points":        strconv.Itoa(event.Points),
		},
	}, nil
}

func (p *Publisher) Close() error {
	if !p.enabled {
		return nil
	}
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Warn("close rabbitmq channel", "error", err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("close rabbitmq connection: %w", err)
		}
	}
	return nil
}

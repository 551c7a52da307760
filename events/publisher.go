package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const (
	QuizCreated = "quiz.created"
	QuizUpdated = "quiz.updated"
	QuizDeleted = "quiz.deleted"
)

// QuizEvent is emitted after a quiz write has been committed.
type QuizEvent struct {
	Type       string    `json:"type"`
	QuizID     uint      `json:"quiz_id"`
	UserID     uint      `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishQuizEvent(ctx context.Context, event QuizEvent) error
	Close() error
}

type AMQPPublisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	enabled  bool
	logger   *slog.Logger
}

// NewAMQPPublisher connects to RabbitMQ and declares a durable topic
// exchange. An empty URL yields a disabled publisher that drops events.
func NewAMQPPublisher(url, exchange string, logger *slog.Logger) (*AMQPPublisher, error) {
	if url == "" {
		logger.Warn("RabbitMQ URL is empty, event publishing is disabled")
		return &AMQPPublisher{exchange: exchange, logger: logger}, nil
	}

	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	logger.Info("event publisher initialized", "exchange", exchange)

	return &AMQPPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		enabled:  true,
		logger:   logger,
	}, nil
}

func (p *AMQPPublisher) PublishQuizEvent(ctx context.Context, event QuizEvent) error {
	if !p.enabled {
		p.logger.Debug("event publishing disabled, skipping event", "type", event.Type, "quiz_id", event.QuizID)
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange, // exchange
		event.Type, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    event.OccurredAt,
			Body:         body,
			Headers: amqp091.Table{
				"event_type": event.Type,
				"quiz_id":    int64(event.QuizID),
				"user_id":    int64(event.UserID),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("published event", "type", event.Type, "quiz_id", event.QuizID)
	return nil
}

func (p *AMQPPublisher) Close() error {
	if !p.enabled {
		return nil
	}
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

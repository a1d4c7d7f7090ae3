package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Publisher interface {
	Publish(ctx context.Context, queue string, event BookingEvent) error
	Close() error
}

// AMQPPublisher keeps one connection and channel open. amqp channels are not
// safe for concurrent use, so publishes are serialized.
type AMQPPublisher struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
	log  *zap.Logger
}

// NewAMQPPublisher dials url and declares the durable booking queues.
func NewAMQPPublisher(url string, log *zap.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	for _, name := range []string{BookingConfirmedQueue, BookingCancelledQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("declare queue %s: %w", name, err)
		}
	}

	return &AMQPPublisher{
		conn: conn,
		ch:   ch,
		log:  log.With(zap.String("publisher", "rabbitmq")),
	}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, queue string, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", queue, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		p.log.Error("Failed to publish event",
			zap.Error(err),
			zap.String("queue", queue),
			zap.String("booking_id", event.BookingID),
		)
		return fmt.Errorf("publish %s event: %w", queue, err)
	}

	p.log.Debug("Event published", zap.String("queue", queue), zap.String("booking_id", event.BookingID))
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return fmt.Errorf("close rabbitmq channel: %w", err)
	}
	return p.conn.Close()
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, BookingEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }

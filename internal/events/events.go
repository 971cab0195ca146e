// Package events publishes application outcomes to a message broker.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"jobpilot/internal/domain"
	"jobpilot/internal/infra"
)

// ApplicationEvent describes one auto-apply outcome.
type ApplicationEvent struct {
	ApplicationID string                   `json:"applicationId,omitempty"`
	UserID        string                   `json:"userId"`
	JobTitle      string                   `json:"jobTitle"`
	Company       string                   `json:"company"`
	Status        domain.ApplicationStatus `json:"status"`
	Error         string                   `json:"error,omitempty"`
	OccurredAt    time.Time                `json:"occurredAt"`
}

// RoutingKey is application.<status>.
func (e ApplicationEvent) RoutingKey() string {
	return "application." + string(e.Status)
}

// Publisher emits application events.
type Publisher interface {
	Publish(ctx context.Context, ev ApplicationEvent) error
	Close() error
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, ApplicationEvent) error { return nil }
func (Nop) Close() error                                   { return nil }

// New dials RabbitMQ when a URL is configured and returns Nop otherwise.
func New(cfg *infra.Config, logger infra.Logger) (Publisher, error) {
	if strings.TrimSpace(cfg.RabbitMQURL) == "" {
		logger.Info().Msg("RABBITMQ_URL not set; application events disabled")
		return Nop{}, nil
	}
	return DialAMQP(cfg.RabbitMQURL, cfg.RabbitMQExchange)
}

type amqpChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes JSON events to a topic exchange. A channel is not
// safe for concurrent use so publishes are serialised.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       amqpChannel
	exchange string
}

// DialAMQP connects, opens a channel and declares a durable topic exchange.
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	if exchange == "" {
		return nil, errors.New("events: exchange is required")
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("events: dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("events: open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("events: declare exchange: %w", err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, ev ApplicationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("events: encode: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.Publish(p.exchange, ev.RoutingKey(), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    ev.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("events: publish: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

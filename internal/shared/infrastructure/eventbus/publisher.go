// Package eventbus carries domain events from the scheduling engine to the
// collaborators that deliver notifications, either in process or over RabbitMQ.
package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/shared/domain"
	"github.com/google/uuid"
)

// Publisher defines the interface for publishing events to a message broker.
type Publisher interface {
	// Publish sends a message to the event bus.
	Publish(ctx context.Context, routingKey string, payload []byte) error

	// Close closes the publisher connection.
	Close() error
}

// eventEnvelope is the wire form of a domain event: routing metadata plus the
// event's own fields as an opaque payload.
type eventEnvelope struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// PublishDomainEvents wraps each domain event in its envelope and publishes it.
func PublishDomainEvents(ctx context.Context, p Publisher, events []domain.DomainEvent) error {
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		body, err := json.Marshal(eventEnvelope{
			EventID:       event.EventID(),
			AggregateID:   event.AggregateID(),
			AggregateType: event.AggregateType(),
			RoutingKey:    event.RoutingKey(),
			OccurredAt:    event.OccurredAt(),
			Payload:       payload,
		})
		if err != nil {
			return err
		}
		if err := p.Publish(ctx, event.RoutingKey(), body); err != nil {
			return err
		}
	}
	return nil
}

// NoopPublisher discards events; used in tests and CLI dry runs.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a publisher that does nothing.
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

// Publish logs the message without delivering it.
func (p *NoopPublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	p.logger.Debug("event discarded", "routing_key", routingKey, "size", len(payload))
	return nil
}

// Close is a no-op.
func (p *NoopPublisher) Close() error { return nil }

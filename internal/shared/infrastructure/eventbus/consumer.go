package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventConsumer handles specific event types by routing key.
type EventConsumer interface {
	// EventTypes returns the routing keys this consumer handles,
	// e.g. ["scheduling.reminder.scheduled"].
	EventTypes() []string

	// Handle processes the event.
	Handle(ctx context.Context, event *ConsumedEvent) error
}

// ConsumedEvent represents an event received from the message bus.
type ConsumedEvent struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// ConsumerRegistry manages event consumers and dispatches events to them.
type ConsumerRegistry struct {
	consumers map[string][]EventConsumer
	mu        sync.RWMutex
	logger    *slog.Logger
}

// NewConsumerRegistry creates a new consumer registry.
func NewConsumerRegistry(logger *slog.Logger) *ConsumerRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsumerRegistry{
		consumers: make(map[string][]EventConsumer),
		logger:    logger,
	}
}

// Register adds a consumer for its declared event types.
func (r *ConsumerRegistry) Register(consumer EventConsumer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, eventType := range consumer.EventTypes() {
		r.consumers[eventType] = append(r.consumers[eventType], consumer)
		r.logger.Debug("registered consumer", "event_type", eventType)
	}
}

// Dispatch sends an event to every consumer registered for its routing key.
// All consumers run even when one fails; the last error is returned.
func (r *ConsumerRegistry) Dispatch(ctx context.Context, event *ConsumedEvent) error {
	r.mu.RLock()
	consumers := r.consumers[event.RoutingKey]
	r.mu.RUnlock()

	if len(consumers) == 0 {
		r.logger.Debug("no consumers for event", "routing_key", event.RoutingKey)
		return nil
	}

	var lastErr error
	for _, consumer := range consumers {
		if err := consumer.Handle(ctx, event); err != nil {
			r.logger.Error("consumer failed to handle event",
				"routing_key", event.RoutingKey,
				"event_id", event.EventID,
				"error", err,
			)
			lastErr = err
		}
	}
	return lastErr
}

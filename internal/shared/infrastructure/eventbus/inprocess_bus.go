package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// InProcessEventBus is an in-memory event bus for local mode (no RabbitMQ).
// Events are delivered synchronously to registered consumers.
type InProcessEventBus struct {
	registry *ConsumerRegistry
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewInProcessEventBus creates a new in-process event bus.
func NewInProcessEventBus(logger *slog.Logger) *InProcessEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessEventBus{
		registry: NewConsumerRegistry(logger),
		logger:   logger,
	}
}

// RegisterConsumer registers an event consumer.
func (b *InProcessEventBus) RegisterConsumer(consumer EventConsumer) {
	b.registry.Register(consumer)
}

// Publish dispatches the payload synchronously to registered consumers.
// Dispatch failures are logged, not surfaced; local mode prefers losing a
// notification over failing the scheduling call.
func (b *InProcessEventBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	event := &ConsumedEvent{}
	if err := json.Unmarshal(payload, event); err != nil {
		b.logger.Error("failed to unmarshal event payload",
			"routing_key", routingKey,
			"error", err,
		)
		return nil
	}
	if event.RoutingKey == "" {
		event.RoutingKey = routingKey
	}

	if err := b.registry.Dispatch(ctx, event); err != nil {
		b.logger.Error("event dispatch failed",
			"routing_key", routingKey,
			"event_id", event.EventID,
			"error", err,
		)
	}
	return nil
}

// Close is a no-op for the in-process bus.
func (b *InProcessEventBus) Close() error { return nil }

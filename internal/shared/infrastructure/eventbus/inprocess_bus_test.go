package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	schedDomain "github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/felixgeelhaar/touchbase/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingConsumer struct {
	routingKeys []string
	events      []*ConsumedEvent
	err         error
}

func (c *capturingConsumer) EventTypes() []string {
	return c.routingKeys
}

func (c *capturingConsumer) Handle(_ context.Context, event *ConsumedEvent) error {
	c.events = append(c.events, event)
	return c.err
}

func TestInProcessEventBus_DeliversEnvelope(t *testing.T) {
	bus := NewInProcessEventBus(nil)
	consumer := &capturingConsumer{routingKeys: []string{schedDomain.RoutingKeyReminderScheduled}}
	bus.RegisterConsumer(consumer)

	at := time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC)
	reminder := schedDomain.NewReminder(uuid.New(), uuid.New(), at, schedDomain.ReminderTypeScheduled)

	err := PublishDomainEvents(context.Background(), bus, reminder.DomainEvents())
	require.NoError(t, err)

	require.Len(t, consumer.events, 1)
	got := consumer.events[0]
	assert.Equal(t, reminder.ID(), got.AggregateID)
	assert.Equal(t, schedDomain.AggregateType, got.AggregateType)
	assert.Equal(t, schedDomain.RoutingKeyReminderScheduled, got.RoutingKey)
	assert.NotEqual(t, uuid.Nil, got.EventID)
	assert.False(t, got.OccurredAt.IsZero())

	var payload struct {
		ContactID     uuid.UUID `json:"contact_id"`
		UserID        uuid.UUID `json:"user_id"`
		ScheduledTime time.Time `json:"scheduled_time"`
	}
	require.NoError(t, json.Unmarshal(got.Payload, &payload))
	assert.Equal(t, reminder.ContactID(), payload.ContactID)
	assert.Equal(t, reminder.UserID(), payload.UserID)
	assert.True(t, payload.ScheduledTime.Equal(at))
}

func TestInProcessEventBus_IgnoresUnroutedEvents(t *testing.T) {
	bus := NewInProcessEventBus(nil)
	consumer := &capturingConsumer{routingKeys: []string{schedDomain.RoutingKeyReminderDue}}
	bus.RegisterConsumer(consumer)

	reminder := schedDomain.NewReminder(uuid.New(), uuid.New(), time.Now(), schedDomain.ReminderTypeScheduled)
	err := PublishDomainEvents(context.Background(), bus, reminder.DomainEvents())
	require.NoError(t, err)

	assert.Empty(t, consumer.events)
}

func TestInProcessEventBus_ConsumerErrorDoesNotFailPublish(t *testing.T) {
	bus := NewInProcessEventBus(nil)
	consumer := &capturingConsumer{
		routingKeys: []string{schedDomain.RoutingKeyReminderScheduled},
		err:         errors.New("boom"),
	}
	bus.RegisterConsumer(consumer)

	reminder := schedDomain.NewReminder(uuid.New(), uuid.New(), time.Now(), schedDomain.ReminderTypeScheduled)
	err := PublishDomainEvents(context.Background(), bus, reminder.DomainEvents())
	assert.NoError(t, err)
	assert.Len(t, consumer.events, 1)
}

func TestConsumerRegistry_DispatchFanOut(t *testing.T) {
	registry := NewConsumerRegistry(nil)
	first := &capturingConsumer{routingKeys: []string{"a.b.c"}}
	second := &capturingConsumer{routingKeys: []string{"a.b.c"}, err: errors.New("boom")}
	registry.Register(first)
	registry.Register(second)

	event := &ConsumedEvent{EventID: uuid.New(), RoutingKey: "a.b.c"}
	err := registry.Dispatch(context.Background(), event)

	assert.Error(t, err)
	assert.Len(t, first.events, 1)
	assert.Len(t, second.events, 1)
}

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher(nil)
	assert.NoError(t, p.Publish(context.Background(), "any.key", []byte("{}")))
	assert.NoError(t, p.Close())
}

var _ domain.DomainEvent = schedDomain.ReminderScheduled{}

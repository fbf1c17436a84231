package workers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type capturingPublisher struct {
	routingKeys []string
	payloads    [][]byte
	err         error
}

func (p *capturingPublisher) Publish(_ context.Context, routingKey string, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.routingKeys = append(p.routingKeys, routingKey)
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func TestDueSweeper_PublishesOverdueReminders(t *testing.T) {
	reminders := persistence.NewInMemoryReminderRepository()
	publisher := &capturingPublisher{}
	sweeper := NewDueSweeper(reminders, publisher, testLogger())

	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	sweeper.now = func() time.Time { return now }

	overdue := domain.NewReminder(uuid.New(), uuid.New(), now.Add(-time.Hour), domain.ReminderTypeScheduled)
	future := domain.NewReminder(uuid.New(), uuid.New(), now.Add(time.Hour), domain.ReminderTypeScheduled)
	require.NoError(t, reminders.Save(context.Background(), overdue))
	require.NoError(t, reminders.Save(context.Background(), future))

	published, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, published)
	require.Len(t, publisher.routingKeys, 1)
	assert.Equal(t, domain.RoutingKeyReminderDue, publisher.routingKeys[0])

	var envelope struct {
		AggregateID uuid.UUID `json:"aggregate_id"`
		RoutingKey  string    `json:"routing_key"`
	}
	require.NoError(t, json.Unmarshal(publisher.payloads[0], &envelope))
	assert.Equal(t, overdue.ID(), envelope.AggregateID)
	assert.Equal(t, domain.RoutingKeyReminderDue, envelope.RoutingKey)
}

func TestDueSweeper_SkipsNotifiedAndInactive(t *testing.T) {
	reminders := persistence.NewInMemoryReminderRepository()
	publisher := &capturingPublisher{}
	sweeper := NewDueSweeper(reminders, publisher, testLogger())

	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	sweeper.now = func() time.Time { return now }

	notified := domain.NewReminder(uuid.New(), uuid.New(), now.Add(-time.Hour), domain.ReminderTypeScheduled)
	notified.MarkNotified()
	skipped := domain.NewReminder(uuid.New(), uuid.New(), now.Add(-time.Hour), domain.ReminderTypeScheduled)
	skipped.Skip()
	require.NoError(t, reminders.Save(context.Background(), notified))
	require.NoError(t, reminders.Save(context.Background(), skipped))

	published, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, published)
	assert.Empty(t, publisher.routingKeys)
}

func TestDueSweeper_PublishFailureSkipsReminder(t *testing.T) {
	reminders := persistence.NewInMemoryReminderRepository()
	publisher := &capturingPublisher{err: errors.New("broker down")}
	sweeper := NewDueSweeper(reminders, publisher, testLogger())

	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	sweeper.now = func() time.Time { return now }

	overdue := domain.NewReminder(uuid.New(), uuid.New(), now.Add(-time.Hour), domain.ReminderTypeScheduled)
	require.NoError(t, reminders.Save(context.Background(), overdue))

	published, err := sweeper.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, published)
}

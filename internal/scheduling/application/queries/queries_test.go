package queries

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/application/services"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestUpcomingRemindersHandler_Handle(t *testing.T) {
	reminders := persistence.NewInMemoryReminderRepository()
	contacts := persistence.NewInMemoryContactRepository()
	handler := NewUpcomingRemindersHandler(reminders, contacts)

	userID := uuid.New()
	contact := &domain.ContactProfile{ID: uuid.New(), UserID: userID, Name: "Grace"}
	contacts.Put(contact)

	from := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	near := domain.NewReminder(contact.ID, userID, from.Add(30*time.Hour), domain.ReminderTypeScheduled)
	sooner := domain.NewReminder(contact.ID, userID, from.Add(10*time.Hour), domain.ReminderTypeScheduled)
	farOut := domain.NewReminder(contact.ID, userID, from.AddDate(0, 0, 10), domain.ReminderTypeScheduled)
	otherUser := domain.NewReminder(uuid.New(), uuid.New(), from.Add(12*time.Hour), domain.ReminderTypeScheduled)
	for _, r := range []*domain.Reminder{near, sooner, farOut, otherUser} {
		require.NoError(t, reminders.Save(context.Background(), r))
	}

	rows, err := handler.Handle(context.Background(), UpcomingRemindersQuery{UserID: userID, From: from, Days: 7})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, sooner.ID(), rows[0].ReminderID)
	assert.Equal(t, near.ID(), rows[1].ReminderID)
	assert.Equal(t, "Grace", rows[0].ContactName)
	assert.False(t, rows[0].Snoozed)
}

func TestUpcomingRemindersHandler_MissingContactName(t *testing.T) {
	reminders := persistence.NewInMemoryReminderRepository()
	handler := NewUpcomingRemindersHandler(reminders, persistence.NewInMemoryContactRepository())

	userID := uuid.New()
	from := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	r := domain.NewReminder(uuid.New(), userID, from.Add(2*time.Hour), domain.ReminderTypeScheduled)
	require.NoError(t, reminders.Save(context.Background(), r))

	rows, err := handler.Handle(context.Background(), UpcomingRemindersQuery{UserID: userID, From: from})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].ContactName)
}

func TestSnoozeOptionsHandler_Handle(t *testing.T) {
	reminders := persistence.NewInMemoryReminderRepository()
	contacts := persistence.NewInMemoryContactRepository()
	history := services.NewSchedulingHistory(persistence.NewInMemoryPatternRepository(), testLogger())
	snoozer := services.NewSnoozeHandler(
		contacts, reminders, persistence.NewInMemoryPreferencesRepository(),
		history, services.SchedulerConfig{Timezone: "UTC", Seed: 1}, testLogger(),
	)
	handler := NewSnoozeOptionsHandler(snoozer)

	contact := &domain.ContactProfile{ID: uuid.New(), UserID: uuid.New(), Frequency: domain.FrequencyWeekly}
	contacts.Put(contact)
	reminder := domain.NewReminder(contact.ID, contact.UserID, time.Now().Add(time.Hour), domain.ReminderTypeScheduled)
	require.NoError(t, reminders.Save(context.Background(), reminder))

	options, err := handler.Handle(context.Background(), SnoozeOptionsQuery{ReminderID: reminder.ID()})
	require.NoError(t, err)
	assert.Len(t, options, 4)

	_, err = handler.Handle(context.Background(), SnoozeOptionsQuery{ReminderID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrReminderNotFound)
}

func TestContactPatternsHandler_Handle(t *testing.T) {
	patterns := persistence.NewInMemoryPatternRepository()
	history := services.NewSchedulingHistory(patterns, testLogger())
	handler := NewContactPatternsHandler(history)

	contactID := uuid.New()
	now := time.Now().UTC()
	for i := 1; i <= 5; i++ {
		require.NoError(t, history.TrackCompletion(context.Background(), contactID, now.AddDate(0, 0, -i)))
	}

	result, err := handler.Handle(context.Background(), ContactPatternsQuery{ContactID: contactID})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 5, result.TotalAttempts)
	assert.False(t, result.Stale)
	assert.Equal(t, 5, result.ByType["completed"].Successes)
	assert.Greater(t, result.Confidence, 0.0)
}

func TestContactPatternsHandler_NoHistory(t *testing.T) {
	history := services.NewSchedulingHistory(persistence.NewInMemoryPatternRepository(), testLogger())
	handler := NewContactPatternsHandler(history)

	result, err := handler.Handle(context.Background(), ContactPatternsQuery{ContactID: uuid.New()})
	require.NoError(t, err)
	assert.Nil(t, result)
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snoozeFixture struct {
	handler   *SnoozeHandler
	contacts  *persistence.InMemoryContactRepository
	reminders *persistence.InMemoryReminderRepository
	patterns  *persistence.InMemoryPatternRepository
	contact   *domain.ContactProfile
	reminder  *domain.Reminder
}

func newSnoozeFixture(t *testing.T, frequency domain.Frequency, snoozeCount int) *snoozeFixture {
	t.Helper()

	contacts := persistence.NewInMemoryContactRepository()
	reminders := persistence.NewInMemoryReminderRepository()
	patterns := persistence.NewInMemoryPatternRepository()
	history := NewSchedulingHistory(patterns, testLogger())

	contact := &domain.ContactProfile{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Name:        "Ada",
		Frequency:   frequency,
		SnoozeCount: snoozeCount,
		Status:      domain.StatusScheduled,
	}
	contacts.Put(contact)

	reminder := domain.NewReminder(contact.ID, contact.UserID, time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC), domain.ReminderTypeScheduled)
	require.NoError(t, reminders.Save(context.Background(), reminder))

	handler := NewSnoozeHandler(
		contacts,
		reminders,
		persistence.NewInMemoryPreferencesRepository(),
		history,
		SchedulerConfig{Timezone: "UTC", Seed: 7},
		testLogger(),
	)

	return &snoozeFixture{
		handler:   handler,
		contacts:  contacts,
		reminders: reminders,
		patterns:  patterns,
		contact:   contact,
		reminder:  reminder,
	}
}

func TestSnoozeHandler_HandleTomorrow(t *testing.T) {
	fx := newSnoozeFixture(t, domain.FrequencyWeekly, 0)
	current := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

	target, err := fx.handler.HandleTomorrow(context.Background(), fx.contact.ID, current)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC), target)

	updated, err := fx.contacts.FindByID(context.Background(), fx.contact.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.SnoozeCount)
	assert.Equal(t, domain.StatusSnoozed, updated.Status)
	assert.Equal(t, SnoozeTomorrow, updated.LastSnoozeType)
	require.NotNil(t, updated.CustomNextDate)
	assert.Equal(t, target, *updated.CustomNextDate)

	reminder, err := fx.reminders.FindByID(context.Background(), fx.reminder.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSnoozed, reminder.Status())
	assert.Equal(t, target, reminder.ScheduledTime())
}

func TestSnoozeHandler_HandleNextWeek(t *testing.T) {
	fx := newSnoozeFixture(t, domain.FrequencyMonthly, 0)
	current := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

	target, err := fx.handler.HandleNextWeek(context.Background(), fx.contact.ID, current)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC), target)
}

func TestSnoozeHandler_HandleLaterToday(t *testing.T) {
	fx := newSnoozeFixture(t, domain.FrequencyWeekly, 0)
	current := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

	target, err := fx.handler.HandleLaterToday(context.Background(), fx.contact.ID, current)
	require.NoError(t, err)

	assert.Equal(t, current.Day(), target.Day())
	assert.True(t, target.After(current), "target %s should be after %s", target, current)
	assert.True(t, domain.DefaultActiveHours().Contains(domain.TimeOfDayFrom(target)))
}

func TestSnoozeHandler_HandleLaterToday_FallsBackWhenDaysSaturated(t *testing.T) {
	fx := newSnoozeFixture(t, domain.FrequencyWeekly, 0)
	current := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

	// Every slot today and tomorrow is taken, so the slot search has nowhere
	// to put the snooze.
	fillDay(t, fx.reminders, fx.contact.UserID, current)
	fillDay(t, fx.reminders, fx.contact.UserID, current.AddDate(0, 0, 1))

	target, err := fx.handler.HandleLaterToday(context.Background(), fx.contact.ID, current)
	require.NoError(t, err)

	assert.Equal(t, current.Day()+1, target.Day())
	assert.GreaterOrEqual(t, target.Hour(), 2)
	assert.LessOrEqual(t, target.Hour(), 5)
	assert.Equal(t, 0, target.Minute())

	updated, err := fx.contacts.FindByID(context.Background(), fx.contact.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSnoozed, updated.Status)
	require.NotNil(t, updated.CustomNextDate)
	assert.Equal(t, target, *updated.CustomNextDate)
}

func TestSnoozeHandler_HandleSkip(t *testing.T) {
	fx := newSnoozeFixture(t, domain.FrequencyWeekly, 0)
	current := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

	require.NoError(t, fx.handler.HandleSkip(context.Background(), fx.contact.ID, current))

	updated, err := fx.contacts.FindByID(context.Background(), fx.contact.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSkipped, updated.Status)
	assert.Equal(t, SnoozeSkip, updated.LastSnoozeType)
	assert.Nil(t, updated.CustomNextDate)
	assert.Equal(t, 0, updated.SnoozeCount)

	reminder, err := fx.reminders.FindByID(context.Background(), fx.reminder.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSkipped, reminder.Status())

	record, err := fx.patterns.Get(context.Background(), fx.contact.ID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, domain.BucketStats{Attempts: 1, Successes: 0}, record.ByType[PatternTypeSkip])
}

func TestSnoozeHandler_HandleSnooze_Dispatch(t *testing.T) {
	fx := newSnoozeFixture(t, domain.FrequencyWeekly, 0)
	current := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

	target, err := fx.handler.HandleSnooze(context.Background(), fx.contact.ID, SnoozeTomorrow, current)
	require.NoError(t, err)
	assert.False(t, target.IsZero())

	skipped, err := fx.handler.HandleSnooze(context.Background(), fx.contact.ID, SnoozeSkip, current)
	require.NoError(t, err)
	assert.True(t, skipped.IsZero())

	_, err = fx.handler.HandleSnooze(context.Background(), fx.contact.ID, "whenever", current)
	assert.ErrorIs(t, err, domain.ErrInvalidSnoozeOption)
}

func TestSnoozeHandler_SnoozeRecordsPatternAttempt(t *testing.T) {
	fx := newSnoozeFixture(t, domain.FrequencyWeekly, 0)
	current := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

	_, err := fx.handler.HandleTomorrow(context.Background(), fx.contact.ID, current)
	require.NoError(t, err)

	record, err := fx.patterns.Get(context.Background(), fx.contact.ID)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, domain.BucketStats{Attempts: 1, Successes: 0}, record.ByType["snooze_tomorrow"])
	// The attempt is recorded at the original instant, not the new one.
	assert.Equal(t, domain.BucketStats{Attempts: 1, Successes: 0}, record.ByHour[10])
}

func TestSnoozeHandler_GetAvailableSnoozeOptions_Weekly(t *testing.T) {
	fx := newSnoozeFixture(t, domain.FrequencyWeekly, 0)

	options, err := fx.handler.GetAvailableSnoozeOptions(context.Background(), fx.reminder.ID())
	require.NoError(t, err)

	ids := make([]string, 0, len(options))
	for _, o := range options {
		ids = append(ids, o.ID)
		assert.False(t, o.IsExhausted)
	}
	assert.Equal(t, []string{SnoozeLaterToday, SnoozeTomorrow, SnoozeNextWeek, SnoozeSkip}, ids)
}

func TestSnoozeHandler_GetAvailableSnoozeOptions_DailyOmitsNextWeek(t *testing.T) {
	fx := newSnoozeFixture(t, domain.FrequencyDaily, 0)

	options, err := fx.handler.GetAvailableSnoozeOptions(context.Background(), fx.reminder.ID())
	require.NoError(t, err)

	for _, o := range options {
		assert.NotEqual(t, SnoozeNextWeek, o.ID)
	}
}

func TestSnoozeHandler_GetAvailableSnoozeOptions_ExhaustedWeekly(t *testing.T) {
	fx := newSnoozeFixture(t, domain.FrequencyWeekly, MaxSnoozeAttempts)

	options, err := fx.handler.GetAvailableSnoozeOptions(context.Background(), fx.reminder.ID())
	require.NoError(t, err)

	var sawReschedule bool
	for _, o := range options {
		if o.ID == SnoozeReschedule {
			sawReschedule = true
			assert.NotEmpty(t, o.Description)
			continue
		}
		assert.True(t, o.IsExhausted, "option %s should be exhausted", o.ID)
	}
	assert.True(t, sawReschedule)
}

func TestSnoozeHandler_GetAvailableSnoozeOptions_ExhaustedDaily(t *testing.T) {
	fx := newSnoozeFixture(t, domain.FrequencyDaily, MaxSnoozeAttempts+1)

	options, err := fx.handler.GetAvailableSnoozeOptions(context.Background(), fx.reminder.ID())
	require.NoError(t, err)

	var sawContactNow bool
	for _, o := range options {
		if o.ID == SnoozeContactNow {
			sawContactNow = true
		}
		assert.NotEqual(t, SnoozeReschedule, o.ID)
	}
	assert.True(t, sawContactNow)
}

func TestSnoozeHandler_UnknownContact(t *testing.T) {
	fx := newSnoozeFixture(t, domain.FrequencyWeekly, 0)

	_, err := fx.handler.HandleTomorrow(context.Background(), uuid.New(), time.Now())
	assert.ErrorIs(t, err, domain.ErrContactNotFound)
}

func TestLaterTodayDelayRange(t *testing.T) {
	cases := []struct {
		hour     int
		min, max int
	}{
		{2, 20, 40},
		{10, 150, 210},
		{16, 150, 210},
		{17, 120, 150},
		{18, 120, 150},
		{19, 50, 80},
		{20, 50, 80},
		{21, 20, 40},
		{23, 20, 40},
	}
	for _, tc := range cases {
		lo, hi := laterTodayDelayRange(tc.hour)
		assert.Equal(t, tc.min, lo, "hour %d", tc.hour)
		assert.Equal(t, tc.max, hi, "hour %d", tc.hour)
	}
}

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

func TestSchedulingHistory_StoreAndAnalyze(t *testing.T) {
	history := NewSchedulingHistory(persistence.NewInMemoryPatternRepository(), testLogger())
	contactID := uuid.New()
	now := time.Now().UTC()

	for i := 1; i <= 3; i++ {
		require.NoError(t, history.TrackCompletion(context.Background(), contactID, now.AddDate(0, 0, -i)))
	}

	analysis, err := history.AnalyzeContactPatterns(context.Background(), contactID, domain.PatternWindowDays)
	require.NoError(t, err)
	require.NotNil(t, analysis)
	assert.Equal(t, 3, analysis.TotalAttempts)
	assert.Equal(t, contactID, analysis.ContactID)
	assert.Equal(t, domain.BucketStats{Attempts: 3, Successes: 3}, analysis.ByType[PatternTypeCompleted])
}

func TestSchedulingHistory_AnalyzeWithoutRecord(t *testing.T) {
	history := NewSchedulingHistory(persistence.NewInMemoryPatternRepository(), testLogger())

	analysis, err := history.AnalyzeContactPatterns(context.Background(), uuid.New(), domain.PatternWindowDays)
	require.NoError(t, err)
	assert.Nil(t, analysis)
}

func TestSchedulingHistory_SuggestOptimalTime_WithoutRecord(t *testing.T) {
	history := NewSchedulingHistory(persistence.NewInMemoryPatternRepository(), testLogger())
	base := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)

	suggested, err := history.SuggestOptimalTime(context.Background(), uuid.New(), base)
	require.NoError(t, err)
	assert.Equal(t, base.Add(3*time.Hour), suggested)
}

func TestSchedulingHistory_SuggestOptimalTime_UsesHourStats(t *testing.T) {
	history := NewSchedulingHistory(persistence.NewInMemoryPatternRepository(), testLogger())
	contactID := uuid.New()
	now := time.Now().UTC()

	// Evenings worked, mornings did not.
	for i := 1; i <= 3; i++ {
		morning := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, time.UTC).AddDate(0, 0, -i)
		evening := time.Date(now.Year(), now.Month(), now.Day(), 19, 0, 0, 0, time.UTC).AddDate(0, 0, -i)
		require.NoError(t, history.StoreReschedulingPattern(context.Background(), contactID, "snooze_later_today", morning, false))
		require.NoError(t, history.TrackCompletion(context.Background(), contactID, evening))
	}

	base := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	suggested, err := history.SuggestOptimalTime(context.Background(), contactID, base)
	require.NoError(t, err)
	assert.Equal(t, 19, suggested.Hour())
	assert.Equal(t, base.Day(), suggested.Day())
}

func TestSchedulingHistory_TrackSnoozeRecordsFailureAtOrigin(t *testing.T) {
	patterns := persistence.NewInMemoryPatternRepository()
	history := NewSchedulingHistory(patterns, testLogger())

	contactID := uuid.New()
	from := time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	require.NoError(t, history.TrackSnooze(context.Background(), contactID, from, to, "tomorrow"))

	record, err := patterns.Get(context.Background(), contactID)
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Len(t, record.Attempts, 1)
	assert.Equal(t, from, record.Attempts[0].Timestamp)
	assert.False(t, record.Attempts[0].Success)
	assert.Equal(t, "snooze_tomorrow", record.Attempts[0].Type)
}

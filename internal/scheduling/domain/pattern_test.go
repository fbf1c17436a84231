package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateConfidenceScore(t *testing.T) {
	assert.Equal(t, 0.0, CalculateConfidenceScore(0, 90))
	assert.Equal(t, 0.0, CalculateConfidenceScore(-1, 90))

	// 10 attempts in 30 days: frequency capped at 1.0, volume 0.5, breadth 1/3.
	assert.InDelta(t, 0.67, CalculateConfidenceScore(10, 30), 0.001)

	// 2 attempts in 90 days: sparse but wide.
	assert.InDelta(t, 0.27, CalculateConfidenceScore(2, 90), 0.001)

	// Recent activity counts for more than the same volume spread thin.
	assert.Greater(t, CalculateConfidenceScore(10, 30), CalculateConfidenceScore(2, 90))

	// All three components saturated.
	assert.Equal(t, 1.0, CalculateConfidenceScore(100, 90))

	// Zero window falls back to the default window.
	assert.Equal(t, CalculateConfidenceScore(20, PatternWindowDays), CalculateConfidenceScore(20, 0))
}

func TestPatternRecord_RecordUpdatesAggregates(t *testing.T) {
	record := NewPatternRecord(uuid.New())

	at := time.Date(2026, 8, 12, 16, 30, 0, 0, time.UTC) // a Wednesday
	record.Record("completed", at, true)
	record.Record("snooze_tomorrow", at.Add(time.Hour), false)

	assert.Len(t, record.Attempts, 2)
	assert.Equal(t, BucketStats{Attempts: 1, Successes: 1}, record.ByHour[16])
	assert.Equal(t, BucketStats{Attempts: 1, Successes: 0}, record.ByHour[17])
	assert.Equal(t, BucketStats{Attempts: 2, Successes: 1}, record.ByDay[int(time.Wednesday)])
	assert.Equal(t, BucketStats{Attempts: 1, Successes: 1}, record.ByType["completed"])
	assert.Equal(t, BucketStats{Attempts: 1, Successes: 0}, record.ByType["snooze_tomorrow"])
}

func TestPatternRecord_Analyze_WindowFiltering(t *testing.T) {
	record := NewPatternRecord(uuid.New())
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	record.Record("completed", now.AddDate(0, 0, -10), true)
	record.Record("completed", now.AddDate(0, 0, -100), true) // outside the window

	analysis := record.Analyze(now, PatternWindowDays)
	require.NotNil(t, analysis)
	assert.Equal(t, 1, analysis.TotalAttempts)
	assert.Equal(t, now.AddDate(0, 0, -10), analysis.LastAttempt)
	assert.Equal(t, CalculateConfidenceScore(1, PatternWindowDays), analysis.Confidence)
}

func TestPatternRecord_Analyze_EmptyWindowIsNil(t *testing.T) {
	record := NewPatternRecord(uuid.New())
	now := time.Now()

	assert.Nil(t, record.Analyze(now, PatternWindowDays))

	record.Record("completed", now.AddDate(0, 0, -200), true)
	assert.Nil(t, record.Analyze(now, PatternWindowDays))
}

func TestPatternAnalysis_IsStale(t *testing.T) {
	record := NewPatternRecord(uuid.New())
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	record.Record("completed", now.AddDate(0, 0, -45), true)
	analysis := record.Analyze(now, PatternWindowDays)
	require.NotNil(t, analysis)
	assert.True(t, analysis.IsStale(now))

	record.Record("completed", now.AddDate(0, 0, -5), true)
	analysis = record.Analyze(now, PatternWindowDays)
	require.NotNil(t, analysis)
	assert.False(t, analysis.IsStale(now))
}

func TestSuggestOptimalHour_PicksBestLaterHour(t *testing.T) {
	analysis := &PatternAnalysis{
		ByHour: map[int]BucketStats{
			10: {Attempts: 4, Successes: 1},
			16: {Attempts: 4, Successes: 4},
			19: {Attempts: 4, Successes: 2},
		},
	}
	base := time.Date(2026, 8, 12, 11, 30, 0, 0, time.UTC)

	suggested := analysis.SuggestOptimalHour(base)
	assert.Equal(t, time.Date(2026, 8, 12, 16, 30, 0, 0, time.UTC), suggested)
}

func TestSuggestOptimalHour_RollsToNextDay(t *testing.T) {
	analysis := &PatternAnalysis{
		ByHour: map[int]BucketStats{
			9:  {Attempts: 4, Successes: 4},
			11: {Attempts: 4, Successes: 1},
		},
	}
	base := time.Date(2026, 8, 12, 20, 0, 0, 0, time.UTC)

	suggested := analysis.SuggestOptimalHour(base)
	assert.Equal(t, time.Date(2026, 8, 13, 9, 0, 0, 0, time.UTC), suggested)
}

func TestSuggestOptimalHour_NoStatsDefaultsToThreeHours(t *testing.T) {
	analysis := &PatternAnalysis{ByHour: map[int]BucketStats{}}
	base := time.Date(2026, 8, 12, 11, 0, 0, 0, time.UTC)

	assert.Equal(t, base.Add(3*time.Hour), analysis.SuggestOptimalHour(base))
}

func TestBucketStats_SuccessRate(t *testing.T) {
	assert.Equal(t, 0.0, BucketStats{}.SuccessRate())
	assert.Equal(t, 0.75, BucketStats{Attempts: 4, Successes: 3}.SuccessRate())
}

package services

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBlockingPolicy_DefaultMarks(t *testing.T) {
	policy := NewBlockingPolicy(time.UTC, domain.DefaultSchedulingPreferences())
	contact := &domain.ContactProfile{ID: uuid.New()}
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	blocked := []time.Time{
		day.Add(9 * time.Hour),
		day.Add(9*time.Hour + 5*time.Minute),
		day.Add(8*time.Hour + 55*time.Minute),
		day.Add(15 * time.Hour),
		day.Add(18*time.Hour + 3*time.Minute),
	}
	for _, at := range blocked {
		assert.True(t, policy.IsBlocked(at, contact), "expected %s blocked", at.Format("15:04"))
	}

	free := []time.Time{
		day.Add(9*time.Hour + 6*time.Minute),
		day.Add(10 * time.Hour),
		day.Add(14*time.Hour + 54*time.Minute),
		day.Add(18*time.Hour + 6*time.Minute),
	}
	for _, at := range free {
		assert.False(t, policy.IsBlocked(at, contact), "expected %s free", at.Format("15:04"))
	}
}

func TestBlockingPolicy_ContactExcludedWindows(t *testing.T) {
	policy := NewBlockingPolicy(time.UTC, domain.DefaultSchedulingPreferences())
	contact := &domain.ContactProfile{
		ID:             uuid.New(),
		CustomSchedule: true,
		CustomPreferences: &domain.RelationshipPreferences{
			ActiveHours: domain.DefaultActiveHours(),
			ExcludedTimes: []domain.ExcludedWindow{
				{
					Days:  domain.NewWeekdaySet(time.Wednesday),
					Start: domain.NewTimeOfDay(12, 0),
					End:   domain.NewTimeOfDay(13, 0),
				},
			},
		},
	}

	wednesday := time.Date(2026, 3, 11, 12, 30, 0, 0, time.UTC)
	assert.True(t, policy.IsBlocked(wednesday, contact))

	thursday := wednesday.AddDate(0, 0, 1)
	assert.False(t, policy.IsBlocked(thursday, contact))
}

func TestBlockingPolicy_ContactWindowDoesNotWrapMidnight(t *testing.T) {
	policy := NewBlockingPolicy(time.UTC, domain.DefaultSchedulingPreferences())
	contact := &domain.ContactProfile{
		ID:             uuid.New(),
		CustomSchedule: true,
		CustomPreferences: &domain.RelationshipPreferences{
			ActiveHours: domain.DefaultActiveHours(),
			ExcludedTimes: []domain.ExcludedWindow{
				{Start: domain.NewTimeOfDay(22, 0), End: domain.NewTimeOfDay(6, 0)},
			},
		},
	}

	// An inverted contact window matches nothing; only global windows wrap.
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	assert.False(t, policy.IsBlocked(day.Add(23*time.Hour), contact))
	assert.False(t, policy.IsBlocked(day.Add(5*time.Hour), contact))
}

func TestBlockingPolicy_GlobalExcludedWindowWrapsMidnight(t *testing.T) {
	prefs := domain.DefaultSchedulingPreferences()
	prefs.GlobalExcludedTimes = []domain.ExcludedWindow{
		{Start: domain.NewTimeOfDay(22, 0), End: domain.NewTimeOfDay(6, 0)},
	}
	policy := NewBlockingPolicy(time.UTC, prefs)
	contact := &domain.ContactProfile{ID: uuid.New()}

	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	assert.True(t, policy.IsBlocked(day.Add(23*time.Hour), contact))
	assert.True(t, policy.IsBlocked(day.Add(5*time.Hour), contact))
	assert.False(t, policy.IsBlocked(day.Add(12*time.Hour), contact))
}

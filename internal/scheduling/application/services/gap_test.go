package services

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func reminderAt(at time.Time) *domain.Reminder {
	return domain.NewReminder(uuid.New(), uuid.New(), at, domain.ReminderTypeScheduled)
}

func TestHasGapConflict(t *testing.T) {
	base := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	existing := []*domain.Reminder{reminderAt(base)}

	assert.True(t, HasGapConflict(base, existing, 20))
	assert.True(t, HasGapConflict(base.Add(19*time.Minute), existing, 20))
	assert.True(t, HasGapConflict(base.Add(-19*time.Minute), existing, 20))

	// Exactly at the boundary is allowed.
	assert.False(t, HasGapConflict(base.Add(20*time.Minute), existing, 20))
	assert.False(t, HasGapConflict(base.Add(-20*time.Minute), existing, 20))
	assert.False(t, HasGapConflict(base.Add(time.Hour), existing, 20))
}

func TestHasGapConflict_NoExisting(t *testing.T) {
	assert.False(t, HasGapConflict(time.Now(), nil, 20))
}

func TestHasGapConflict_ZeroGapUsesDefault(t *testing.T) {
	base := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	existing := []*domain.Reminder{reminderAt(base)}

	assert.True(t, HasGapConflict(base.Add(19*time.Minute), existing, 0))
	assert.False(t, HasGapConflict(base.Add(20*time.Minute), existing, 0))
}

func TestMinimumGapToExisting(t *testing.T) {
	base := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, -1.0, minimumGapToExisting(base, nil))

	existing := []*domain.Reminder{
		reminderAt(base.Add(-90 * time.Minute)),
		reminderAt(base.Add(45 * time.Minute)),
	}
	assert.Equal(t, 45.0, minimumGapToExisting(base, existing))
}

package services

import (
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
)

// HasGapConflict reports whether any existing reminder sits closer than
// minimumGapMinutes to the candidate instant, measured as absolute wall-clock
// minutes. A reminder exactly at the gap boundary does not conflict.
func HasGapConflict(candidate time.Time, existing []*domain.Reminder, minimumGapMinutes int) bool {
	if minimumGapMinutes <= 0 {
		minimumGapMinutes = domain.DefaultMinimumGapMinutes
	}
	for _, r := range existing {
		diff := candidate.Sub(r.ScheduledTime())
		if diff < 0 {
			diff = -diff
		}
		if diff.Minutes() < float64(minimumGapMinutes) {
			return true
		}
	}
	return false
}

// minimumGapToExisting returns the smallest distance in minutes between the
// candidate and any existing reminder, or -1 when there are none.
func minimumGapToExisting(candidate time.Time, existing []*domain.Reminder) float64 {
	if len(existing) == 0 {
		return -1
	}
	best := -1.0
	for _, r := range existing {
		diff := candidate.Sub(r.ScheduledTime())
		if diff < 0 {
			diff = -diff
		}
		minutes := diff.Minutes()
		if best < 0 || minutes < best {
			best = minutes
		}
	}
	return best
}

package services

import (
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
)

// defaultBlockedMarks are the wall-clock times most mobile platforms use for
// their own built-in reminder defaults. Check-ins keep a buffer around them so
// two notifications never land together.
var defaultBlockedMarks = []domain.TimeOfDay{
	{Hour: 9, Minute: 0},
	{Hour: 15, Minute: 0},
	{Hour: 18, Minute: 0},
}

const blockedMarkBufferMinutes = 5

// BlockingPolicy decides whether a candidate instant is disallowed for a contact.
type BlockingPolicy struct {
	loc   *time.Location
	prefs domain.SchedulingPreferences
}

// NewBlockingPolicy creates a blocking policy for one user's preferences.
func NewBlockingPolicy(loc *time.Location, prefs domain.SchedulingPreferences) *BlockingPolicy {
	if loc == nil {
		loc = time.Local
	}
	return &BlockingPolicy{loc: loc, prefs: prefs}
}

// IsBlocked checks, in order: the contact's excluded windows (plain same-day
// intervals), the default reminder marks with their buffer, and the user's
// global excluded windows (which may wrap past midnight). Short-circuits on
// the first match.
func (p *BlockingPolicy) IsBlocked(instant time.Time, contact *domain.ContactProfile) bool {
	local := instant.In(p.loc)
	weekday := local.Weekday()
	tod := domain.TimeOfDayFrom(local)

	eff := domain.ResolvePreferences(contact, p.prefs)
	for _, window := range eff.ExcludedTimes {
		if window.CoversWithinDay(weekday, tod) {
			return true
		}
	}

	minutes := tod.Minutes()
	for _, mark := range defaultBlockedMarks {
		diff := minutes - mark.Minutes()
		if diff < 0 {
			diff = -diff
		}
		if diff <= blockedMarkBufferMinutes {
			return true
		}
	}

	for _, window := range p.prefs.GlobalExcludedTimes {
		if window.Covers(weekday, tod) {
			return true
		}
	}

	return false
}

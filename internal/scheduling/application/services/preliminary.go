package services

import (
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
)

// PreliminaryDateCalculator computes the naive next-contact instant from the
// last contact date and a check-in frequency.
type PreliminaryDateCalculator struct {
	loc *time.Location
}

// NewPreliminaryDateCalculator creates a calculator operating in the given zone.
func NewPreliminaryDateCalculator(loc *time.Location) *PreliminaryDateCalculator {
	if loc == nil {
		loc = time.Local
	}
	return &PreliminaryDateCalculator{loc: loc}
}

// Calculate maps the frequency to a day offset (daily=1, weekly=7, biweekly=14,
// monthly=30, quarterly=90, yearly=365) and adds it to lastContactDate in the
// configured zone. When the addition crosses a daylight-saving transition the
// result is shifted by the UTC-offset delta so the user keeps the same
// wall-clock hour: result += offsetBefore - offsetAfter.
func (c *PreliminaryDateCalculator) Calculate(lastContactDate time.Time, frequency string) (time.Time, error) {
	freq, err := domain.ParseFrequency(frequency)
	if err != nil {
		return time.Time{}, err
	}
	days, err := freq.OffsetDays()
	if err != nil {
		return time.Time{}, err
	}

	origin := lastContactDate.In(c.loc)
	result := origin.Add(time.Duration(days) * 24 * time.Hour)

	_, offsetBefore := origin.Zone()
	_, offsetAfter := result.Zone()
	if offsetBefore != offsetAfter {
		result = result.Add(time.Duration(offsetBefore-offsetAfter) * time.Second)
	}

	return result, nil
}

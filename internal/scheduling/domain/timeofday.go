package domain

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time without a date, compared as minutes since midnight.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// NewTimeOfDay creates a TimeOfDay, normalizing out-of-range values into [0,24h).
func NewTimeOfDay(hour, minute int) TimeOfDay {
	total := ((hour*60+minute)%(24*60) + 24*60) % (24 * 60)
	return TimeOfDay{Hour: total / 60, Minute: total % 60}
}

// TimeOfDayFrom extracts the wall-clock time from an instant.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t is earlier in the day than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// On anchors the wall-clock time onto the calendar day of the given instant.
func (t TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// DayWindow is an active-hours interval in local wall-clock time.
type DayWindow struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// Contains reports whether a wall-clock time falls within the window (inclusive).
func (w DayWindow) Contains(t TimeOfDay) bool {
	return t.Minutes() >= w.Start.Minutes() && t.Minutes() <= w.End.Minutes()
}

// Midpoint returns the minutes-since-midnight value at the center of the window.
func (w DayWindow) Midpoint() int {
	return (w.Start.Minutes() + w.End.Minutes()) / 2
}

// Span returns the window length in minutes.
func (w DayWindow) Span() int {
	return w.End.Minutes() - w.Start.Minutes()
}

// Expand widens the window by the given number of hours on each side,
// clamped to the day boundaries.
func (w DayWindow) Expand(hours int) DayWindow {
	start := w.Start.Minutes() - hours*60
	if start < 0 {
		start = 0
	}
	end := w.End.Minutes() + hours*60
	if end > 23*60+59 {
		end = 23*60 + 59
	}
	return DayWindow{
		Start: NewTimeOfDay(start/60, start%60),
		End:   NewTimeOfDay(end/60, end%60),
	}
}

func (w DayWindow) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// WeekdaySet is a set of days of the week.
type WeekdaySet map[time.Weekday]bool

// NewWeekdaySet builds a set from the given days.
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	set := make(WeekdaySet, len(days))
	for _, d := range days {
		set[d] = true
	}
	return set
}

// Weekdays returns the Monday through Friday set.
func Weekdays() WeekdaySet {
	return NewWeekdaySet(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
}

// Contains reports whether the set includes the given day.
func (s WeekdaySet) Contains(d time.Weekday) bool {
	return s[d]
}

// IsEmpty reports whether the set has no days.
func (s WeekdaySet) IsEmpty() bool {
	return len(s) == 0
}

// ExcludedWindow marks a wall-clock interval on a set of weekdays as off-limits.
// A window with End before Start spans midnight.
type ExcludedWindow struct {
	Days  WeekdaySet `json:"days,omitempty"`
	Start TimeOfDay  `json:"start"`
	End   TimeOfDay  `json:"end"`
}

// Covers reports whether the window excludes the given weekday and wall-clock time.
// Midnight-wrapping windows match when the time is at or after Start or at or
// before End.
func (w ExcludedWindow) Covers(day time.Weekday, t TimeOfDay) bool {
	if !w.Days.IsEmpty() && !w.Days.Contains(day) {
		return false
	}
	m := t.Minutes()
	start, end := w.Start.Minutes(), w.End.Minutes()
	if end < start {
		return m >= start || m <= end
	}
	return m >= start && m <= end
}

// CoversWithinDay is Covers without the midnight wrap: the window is a plain
// [Start, End] interval and an inverted window matches nothing. Contact-level
// exclusions use this form; only user-global windows may wrap.
func (w ExcludedWindow) CoversWithinDay(day time.Weekday, t TimeOfDay) bool {
	if !w.Days.IsEmpty() && !w.Days.Contains(day) {
		return false
	}
	m := t.Minutes()
	return m >= w.Start.Minutes() && m <= w.End.Minutes()
}

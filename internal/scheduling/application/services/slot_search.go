package services

import (
	"context"
	"sort"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
)

const (
	// SlotIntervalMinutes is the granularity of the scheduling grid.
	SlotIntervalMinutes = 15
	// maxSearchOffsets bounds the expanding bidirectional slot search.
	maxSearchOffsets = 31
	// maxSaturationHops bounds the next-day fallback when a day is full.
	maxSaturationHops = 1
)

// Candidate slot score weights.
const (
	weightDistance = 2.0
	weightPosition = 1.5
	weightPriority = 1.0
)

// roundToSlot rounds an instant down to the nearest grid boundary.
func roundToSlot(t time.Time) time.Time {
	return t.Truncate(time.Duration(SlotIntervalMinutes) * time.Minute)
}

// slotKey identifies a grid slot within one calendar day.
func slotKey(t time.Time) string {
	return roundToSlot(t).Format("15:04")
}

// slotsInWindow returns how many grid slots the active-hours window admits.
func slotsInWindow(window domain.DayWindow) int {
	return window.Span() / SlotIntervalMinutes
}

// FindAvailableSlot returns the best free grid slot for the candidate instant.
// When the candidate's day is saturated the search falls over to the next
// calendar day at the start of active hours; only after that second day is
// also exhausted does it fail with ErrNoSlotAvailable.
func (s *Scheduler) FindAvailableSlot(ctx context.Context, candidate time.Time, contact *domain.ContactProfile) (time.Time, error) {
	return s.findAvailableSlot(ctx, candidate, contact, 0)
}

func (s *Scheduler) findAvailableSlot(ctx context.Context, candidate time.Time, contact *domain.ContactProfile, hop int) (time.Time, error) {
	local := candidate.In(s.loc)
	eff := domain.ResolvePreferences(contact, s.prefs)

	existing, err := s.remindersOnDay(ctx, local)
	if err != nil {
		return time.Time{}, err
	}

	used := make(map[string]bool, len(existing))
	for _, r := range existing {
		used[slotKey(r.ScheduledTime().In(s.loc))] = true
	}

	if len(used) >= slotsInWindow(eff.ActiveHours) {
		if hop >= maxSaturationHops {
			return time.Time{}, domain.ErrNoSlotAvailable
		}
		next := eff.ActiveHours.Start.On(local.AddDate(0, 0, 1))
		return s.findAvailableSlot(ctx, next, contact, hop+1)
	}

	requested := roundToSlot(local)
	if s.slotFits(requested, eff, contact, existing) {
		return requested, nil
	}

	step := time.Duration(SlotIntervalMinutes) * time.Minute
	for offset := 1; offset <= maxSearchOffsets; offset++ {
		for _, dir := range []time.Duration{1, -1} {
			probe := requested.Add(dir * time.Duration(offset) * step)
			if probe.Day() != local.Day() {
				continue
			}
			if s.slotFits(probe, eff, contact, existing) {
				return probe, nil
			}
		}
	}

	return time.Time{}, domain.ErrNoSlotAvailable
}

// slotFits reports whether the probe lies in the active-hours window and
// clears both the blocking and gap policies.
func (s *Scheduler) slotFits(probe time.Time, eff domain.EffectivePreferences, contact *domain.ContactProfile, existing []*domain.Reminder) bool {
	if !eff.ActiveHours.Contains(domain.TimeOfDayFrom(probe)) {
		return false
	}
	if s.blocking.IsBlocked(probe, contact) {
		return false
	}
	return !HasGapConflict(probe, existing, s.prefs.MinimumGap())
}

// scoredSlot pairs a candidate instant with its ranking score.
type scoredSlot struct {
	at    time.Time
	score float64
}

// scoreSlot ranks a candidate: distance to existing reminders (normalized
// between the minimum and optimal gaps), proximity to the midpoint of the
// active-hours window, and the contact's fixed priority weight.
func (s *Scheduler) scoreSlot(candidate time.Time, eff domain.EffectivePreferences, contact *domain.ContactProfile, existing []*domain.Reminder) float64 {
	minGap := float64(s.prefs.MinimumGap())
	optGap := float64(s.prefs.OptimalGap())

	distance := 1.0
	if gap := minimumGapToExisting(candidate, existing); gap >= 0 {
		switch {
		case gap <= minGap:
			distance = 0
		case gap >= optGap:
			distance = 1
		default:
			distance = (gap - minGap) / (optGap - minGap)
		}
	}

	position := 0.0
	tod := domain.TimeOfDayFrom(candidate.In(s.loc))
	if eff.ActiveHours.Contains(tod) {
		mid := float64(eff.ActiveHours.Midpoint())
		half := float64(eff.ActiveHours.Span()) / 2
		if half > 0 {
			off := float64(tod.Minutes()) - mid
			if off < 0 {
				off = -off
			}
			position = 1 - off/half
			if position < 0 {
				position = 0
			}
		}
	}

	priority := contact.EffectivePriority().Score()

	return distance*weightDistance + position*weightPosition + priority*weightPriority
}

// generateDayCandidates walks the active-hours grid of the candidate's day,
// filters slots through both policies, and returns survivors ranked best first.
func (s *Scheduler) generateDayCandidates(ctx context.Context, day time.Time, contact *domain.ContactProfile) ([]scoredSlot, error) {
	local := day.In(s.loc)
	eff := domain.ResolvePreferences(contact, s.prefs)

	existing, err := s.remindersOnDay(ctx, local)
	if err != nil {
		return nil, err
	}

	var slots []scoredSlot
	for m := eff.ActiveHours.Start.Minutes(); m+SlotIntervalMinutes <= eff.ActiveHours.End.Minutes(); m += SlotIntervalMinutes {
		at := domain.NewTimeOfDay(m/60, m%60).On(local)
		if s.blocking.IsBlocked(at, contact) {
			continue
		}
		if HasGapConflict(at, existing, s.prefs.MinimumGap()) {
			continue
		}
		slots = append(slots, scoredSlot{at: at, score: s.scoreSlot(at, eff, contact, existing)})
	}

	sort.SliceStable(slots, func(i, j int) bool { return slots[i].score > slots[j].score })
	return slots, nil
}

// pickCandidate chooses randomly among the top three candidates and jitters
// the result within its grid slot, keeping schedules from looking mechanical
// while still favoring better slots. The jittered instant must still clear
// both policies; otherwise the bare slot time is used.
func (s *Scheduler) pickCandidate(slots []scoredSlot, contact *domain.ContactProfile, existing []*domain.Reminder) time.Time {
	top := slots
	if len(top) > 3 {
		top = top[:3]
	}
	chosen := top[s.rng.Intn(len(top))]

	jitter := time.Duration(s.rng.Intn(SlotIntervalMinutes)) * time.Minute
	jittered := chosen.at.Add(jitter)
	if !s.blocking.IsBlocked(jittered, contact) && !HasGapConflict(jittered, existing, s.prefs.MinimumGap()) {
		return jittered
	}
	return chosen.at
}

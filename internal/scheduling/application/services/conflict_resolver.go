package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
)

// MaxResolveAttempts bounds the total candidate instants the resolver probes
// before giving up with ErrMaxAttemptsExceeded.
const MaxResolveAttempts = 32

// afternoonShiftStart is where the within-day shift strategy begins scanning.
var afternoonShiftStart = domain.TimeOfDay{Hour: 14, Minute: 0}

// ConflictResolver applies ordered fallback strategies when the direct slot
// search fails: shift within the day, drift to the nearest preferred day,
// widen the active-hours window, then priority-bounded day drift.
type ConflictResolver struct {
	svc    *Scheduler
	logger *slog.Logger
}

// NewConflictResolver creates a resolver bound to one scheduler instance.
func NewConflictResolver(svc *Scheduler, logger *slog.Logger) *ConflictResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConflictResolver{svc: svc, logger: logger}
}

// Resolve tries each strategy once and returns the first hit. Whatever a
// strategy returns is passed through the within-day shift once more before
// returning; when the original day still has an afternoon slot free this
// overrides a day-drift strategy's day choice. That bias is intentional and
// kept from the engine's first release.
func (r *ConflictResolver) Resolve(ctx context.Context, instant time.Time, contact *domain.ContactProfile) (time.Time, error) {
	local := instant.In(r.svc.loc)
	eff := domain.ResolvePreferences(contact, r.svc.prefs)

	existing, err := r.svc.remindersOnDay(ctx, local)
	if err != nil {
		return time.Time{}, err
	}
	used := make(map[string]bool, len(existing))
	for _, x := range existing {
		used[slotKey(x.ScheduledTime().In(r.svc.loc))] = true
	}
	if len(used) >= slotsInWindow(eff.ActiveHours) {
		return time.Time{}, domain.ErrMaxAttemptsExceeded
	}

	attempts := 0
	strategies := []struct {
		name string
		run  func() (time.Time, bool)
	}{
		{"shift_within_day", func() (time.Time, bool) {
			return r.shiftWithinDay(ctx, local, eff, contact, &attempts)
		}},
		{"nearest_preferred_day", func() (time.Time, bool) {
			return r.findNearestPreferredDay(ctx, local, eff, contact, &attempts)
		}},
		{"expand_time_range", func() (time.Time, bool) {
			return r.expandTimeRange(ctx, local, eff, contact, &attempts)
		}},
		{"adjust_for_priority", func() (time.Time, bool) {
			return r.adjustForPriority(ctx, local, contact, &attempts)
		}},
	}

	for _, strategy := range strategies {
		if attempts >= MaxResolveAttempts {
			break
		}
		result, ok := strategy.run()
		if !ok {
			continue
		}

		// Re-apply the within-day shift to the strategy's result. When the
		// originally requested day still has afternoon room this overrides a
		// day-drift strategy's day choice; see the note on Resolve.
		if shifted, shiftedOK := r.shiftWithinDay(ctx, local, eff, contact, &attempts); shiftedOK {
			result = shifted
		}

		r.logger.Debug("conflict resolved",
			"contact_id", contact.ID,
			"strategy", strategy.name,
			"resolved_time", result,
			"attempts", attempts,
		)
		return result, nil
	}

	return time.Time{}, domain.ErrMaxAttemptsExceeded
}

// probe charges one attempt and reports whether the instant is free.
func (r *ConflictResolver) probe(ctx context.Context, at time.Time, contact *domain.ContactProfile, attempts *int) bool {
	if *attempts >= MaxResolveAttempts {
		return false
	}
	*attempts++

	if r.svc.blocking.IsBlocked(at, contact) {
		return false
	}
	existing, err := r.svc.remindersOnDay(ctx, at.In(r.svc.loc))
	if err != nil {
		return false
	}
	return !HasGapConflict(at, existing, r.svc.prefs.MinimumGap())
}

// shiftWithinDay scans forward from 14:00 to the end of active hours in grid
// steps, returning the first free instant.
func (r *ConflictResolver) shiftWithinDay(ctx context.Context, day time.Time, eff domain.EffectivePreferences, contact *domain.ContactProfile, attempts *int) (time.Time, bool) {
	start := afternoonShiftStart.Minutes()
	if start < eff.ActiveHours.Start.Minutes() {
		start = eff.ActiveHours.Start.Minutes()
	}
	for m := start; m <= eff.ActiveHours.End.Minutes(); m += SlotIntervalMinutes {
		at := domain.NewTimeOfDay(m/60, m%60).On(day)
		if *attempts >= MaxResolveAttempts {
			return time.Time{}, false
		}
		if r.probe(ctx, at, contact, attempts) {
			return at, true
		}
	}
	return time.Time{}, false
}

// findNearestPreferredDay drifts outward day by day, alternating direction,
// bounded by the contact's priority flexibility, and delegates placement on
// each candidate day to the slot search. Requires day preferences.
func (r *ConflictResolver) findNearestPreferredDay(ctx context.Context, local time.Time, eff domain.EffectivePreferences, contact *domain.ContactProfile, attempts *int) (time.Time, bool) {
	if eff.PreferredDays.IsEmpty() {
		return time.Time{}, false
	}
	flex := contact.EffectivePriority().FlexibilityDays()
	for offset := 1; offset <= flex; offset++ {
		for _, dir := range []int{1, -1} {
			if *attempts >= MaxResolveAttempts {
				return time.Time{}, false
			}
			candidate := local.AddDate(0, 0, dir*offset)
			if !eff.PreferredDays.Contains(candidate.Weekday()) {
				continue
			}
			*attempts++
			slot, err := r.svc.FindAvailableSlot(ctx, candidate, contact)
			if err == nil {
				return slot, true
			}
		}
	}
	return time.Time{}, false
}

// expandTimeRange widens the active-hours window by one hour on each side and
// rescans the original day in grid steps.
func (r *ConflictResolver) expandTimeRange(ctx context.Context, day time.Time, eff domain.EffectivePreferences, contact *domain.ContactProfile, attempts *int) (time.Time, bool) {
	expanded := eff.ActiveHours.Expand(1)
	for m := expanded.Start.Minutes(); m <= expanded.End.Minutes(); m += SlotIntervalMinutes {
		at := domain.NewTimeOfDay(m/60, m%60).On(day)
		if *attempts >= MaxResolveAttempts {
			return time.Time{}, false
		}
		if r.probe(ctx, at, contact, attempts) {
			return at, true
		}
	}
	return time.Time{}, false
}

// adjustForPriority is the last-resort day drift: like the preferred-day
// strategy but accepting any weekday.
func (r *ConflictResolver) adjustForPriority(ctx context.Context, local time.Time, contact *domain.ContactProfile, attempts *int) (time.Time, bool) {
	flex := contact.EffectivePriority().FlexibilityDays()
	for offset := 1; offset <= flex; offset++ {
		for _, dir := range []int{1, -1} {
			if *attempts >= MaxResolveAttempts {
				return time.Time{}, false
			}
			candidate := local.AddDate(0, 0, dir*offset)
			*attempts++
			slot, err := r.svc.FindAvailableSlot(ctx, candidate, contact)
			if err == nil {
				return slot, true
			}
		}
	}
	return time.Time{}, false
}

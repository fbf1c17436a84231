package services

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/google/uuid"
)

// PatternAnalyzer is the slice of the pattern store the scheduler consumes for
// recurring-schedule enhancement.
type PatternAnalyzer interface {
	AnalyzeContactPatterns(ctx context.Context, contactID uuid.UUID, windowDays int) (*domain.PatternAnalysis, error)
	SuggestOptimalTime(ctx context.Context, contactID uuid.UUID, base time.Time) (time.Time, error)
}

// SchedulerConfig configures a Scheduler instance.
type SchedulerConfig struct {
	// Timezone is an IANA zone identifier. Invalid or empty values fall back
	// to the host's local zone.
	Timezone string
	// Seed drives the randomized candidate pick and slot jitter. Zero means
	// time-based seeding.
	Seed int64
}

// SlotsFilledDetails carries context for a fully booked response.
type SlotsFilledDetails struct {
	Date             time.Time `json:"date"`
	WorkingHours     string    `json:"working_hours"`
	NextAvailableDay time.Time `json:"next_available_day"`
}

// SlotsFilledResponse is the structured alternate success returned when a day
// or week has no capacity left. It is not an error.
type SlotsFilledResponse struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Options []string           `json:"options"`
	Details SlotsFilledDetails `json:"details"`
}

// SlotsFilledStatus is the Status value of every SlotsFilledResponse.
const SlotsFilledStatus = "SLOTS_FILLED"

func newSlotsFilledResponse(date time.Time, workingHours string, nextDay time.Time) *SlotsFilledResponse {
	return &SlotsFilledResponse{
		Status:  SlotsFilledStatus,
		Message: "This day is fully booked. Would you like to:",
		Options: []string{"Try the next available day", "Schedule for next week"},
		Details: SlotsFilledDetails{
			Date:             date,
			WorkingHours:     workingHours,
			NextAvailableDay: nextDay,
		},
	}
}

// ScheduleOutcome is the result of a schedule request: either a reminder or a
// structured slots-filled response.
type ScheduleOutcome struct {
	Reminder    *domain.Reminder
	SlotsFilled *SlotsFilledResponse
}

// IsSlotsFilled reports whether the outcome is a capacity response.
func (o *ScheduleOutcome) IsSlotsFilled() bool {
	return o.SlotsFilled != nil
}

// RecurringOutcome extends ScheduleOutcome with pattern-adjustment metadata.
type RecurringOutcome struct {
	ScheduleOutcome
	PatternAdjusted bool
	Confidence      float64
}

// Scheduler is the check-in scheduling engine for one user. Each instance
// tracks its own in-flight placements so a batch of schedule calls through the
// same instance never double-books; sharing one instance across goroutines is
// not supported.
type Scheduler struct {
	userID      uuid.UUID
	loc         *time.Location
	prefs       domain.SchedulingPreferences
	reminders   domain.ReminderRepository
	patterns    PatternAnalyzer
	preliminary *PreliminaryDateCalculator
	blocking    *BlockingPolicy
	resolver    *ConflictResolver
	rng         *rand.Rand
	logger      *slog.Logger

	// placed holds reminders scheduled through this instance and not yet
	// visible through the repository.
	placed []*domain.Reminder
}

// NewScheduler creates a scheduling engine for one user.
func NewScheduler(
	userID uuid.UUID,
	prefs domain.SchedulingPreferences,
	reminders domain.ReminderRepository,
	patterns PatternAnalyzer,
	cfg SchedulerConfig,
	logger *slog.Logger,
) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	loc := time.Local
	if cfg.Timezone != "" {
		parsed, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			logger.Warn("invalid timezone, falling back to system zone",
				"timezone", cfg.Timezone,
				"error", err,
			)
		} else {
			loc = parsed
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Scheduler{
		userID:      userID,
		loc:         loc,
		prefs:       prefs,
		reminders:   reminders,
		patterns:    patterns,
		preliminary: NewPreliminaryDateCalculator(loc),
		blocking:    NewBlockingPolicy(loc, prefs),
		rng:         rand.New(rand.NewSource(seed)),
		logger:      logger,
	}
	s.resolver = NewConflictResolver(s, logger)
	return s
}

// Location returns the scheduler's resolved time zone.
func (s *Scheduler) Location() *time.Location { return s.loc }

// CalculatePreliminaryDate exposes the frequency arithmetic for external callers.
func (s *Scheduler) CalculatePreliminaryDate(lastContactDate time.Time, frequency string) (time.Time, error) {
	return s.preliminary.Calculate(lastContactDate, frequency)
}

// IsTimeBlocked exposes the blocking policy for external callers.
func (s *Scheduler) IsTimeBlocked(instant time.Time, contact *domain.ContactProfile) bool {
	return s.blocking.IsBlocked(instant, contact)
}

// HasTimeConflict reports whether the instant violates the minimum gap against
// the user's reminders on that day.
func (s *Scheduler) HasTimeConflict(ctx context.Context, instant time.Time) (bool, error) {
	existing, err := s.remindersOnDay(ctx, instant.In(s.loc))
	if err != nil {
		return false, err
	}
	return HasGapConflict(instant, existing, s.prefs.MinimumGap()), nil
}

// ResolveConflict exposes the fallback strategies for external callers.
func (s *Scheduler) ResolveConflict(ctx context.Context, instant time.Time, contact *domain.ContactProfile) (time.Time, error) {
	return s.resolver.Resolve(ctx, instant, contact)
}

// ScheduleReminder computes the next check-in for a contact and places it into
// the best available slot. A saturated day or week yields a SlotsFilled
// outcome rather than an error.
func (s *Scheduler) ScheduleReminder(ctx context.Context, contact *domain.ContactProfile, lastContactDate time.Time, frequency string) (*ScheduleOutcome, error) {
	prelim, err := s.preliminary.Calculate(lastContactDate, frequency)
	if err != nil {
		return nil, err
	}

	eff := domain.ResolvePreferences(contact, s.prefs)
	prelim = s.adjustToPreferredDay(prelim, eff)
	day := prelim.In(s.loc)

	filled, err := s.capacityCheck(ctx, day, eff)
	if err != nil {
		return nil, err
	}
	if filled != nil {
		s.logger.Info("schedule capacity exhausted",
			"contact_id", contact.ID,
			"date", day.Format("2006-01-02"),
		)
		return &ScheduleOutcome{SlotsFilled: filled}, nil
	}

	slots, err := s.generateDayCandidates(ctx, day, contact)
	if err != nil {
		return nil, err
	}

	var scheduledAt time.Time
	if len(slots) > 0 {
		existing, err := s.remindersOnDay(ctx, day)
		if err != nil {
			return nil, err
		}
		scheduledAt = s.pickCandidate(slots, contact, existing)
	} else {
		scheduledAt, err = s.resolver.Resolve(ctx, prelim, contact)
		if err != nil {
			return nil, err
		}
	}

	reminder := domain.NewReminder(contact.ID, s.userID, scheduledAt, domain.ReminderTypeScheduled)
	s.placed = append(s.placed, reminder)

	s.logger.Debug("reminder scheduled",
		"contact_id", contact.ID,
		"scheduled_time", scheduledAt,
	)

	return &ScheduleOutcome{Reminder: reminder}, nil
}

// ScheduleRecurringReminder schedules the next check-in and, when the contact's
// pattern history is fresh and confident enough, nudges the slot toward the
// historically most successful hour. Pattern lookups are best effort: any
// failure leaves the base schedule untouched.
func (s *Scheduler) ScheduleRecurringReminder(ctx context.Context, contact *domain.ContactProfile, lastContactDate time.Time, frequency string) (*RecurringOutcome, error) {
	base, err := s.ScheduleReminder(ctx, contact, lastContactDate, frequency)
	if err != nil {
		return nil, err
	}
	outcome := &RecurringOutcome{ScheduleOutcome: *base}
	if base.IsSlotsFilled() || s.patterns == nil {
		return outcome, nil
	}

	analysis, err := s.patterns.AnalyzeContactPatterns(ctx, contact.ID, domain.PatternWindowDays)
	if err != nil {
		s.logger.Debug("pattern analysis unavailable, keeping base schedule",
			"contact_id", contact.ID,
			"error", err,
		)
		return outcome, nil
	}
	if analysis == nil || analysis.IsStale(time.Now()) || analysis.Confidence < domain.MinPatternConfidence {
		return outcome, nil
	}

	suggested, err := s.patterns.SuggestOptimalTime(ctx, contact.ID, base.Reminder.ScheduledTime())
	if err != nil {
		s.logger.Debug("pattern suggestion unavailable, keeping base schedule",
			"contact_id", contact.ID,
			"error", err,
		)
		return outcome, nil
	}

	if s.blocking.IsBlocked(suggested, contact) {
		return outcome, nil
	}
	conflict, err := s.HasTimeConflict(ctx, suggested)
	if err != nil || conflict {
		return outcome, nil
	}

	adjusted := domain.NewReminder(contact.ID, s.userID, suggested, domain.ReminderTypeScheduled)
	s.replacePlaced(base.Reminder, adjusted)
	outcome.Reminder = adjusted
	outcome.PatternAdjusted = true
	outcome.Confidence = analysis.Confidence

	s.logger.Info("recurring schedule pattern-adjusted",
		"contact_id", contact.ID,
		"scheduled_time", suggested,
		"confidence", analysis.Confidence,
	)

	return outcome, nil
}

// ScheduleCustomDate schedules a reminder at a user-chosen instant. Instants
// outside active hours try 14:00 the same day and fall back to slot search.
func (s *Scheduler) ScheduleCustomDate(ctx context.Context, contact *domain.ContactProfile, customDate time.Time) (*domain.Reminder, error) {
	if customDate.IsZero() {
		return nil, domain.ErrInvalidDate
	}

	local := customDate.In(s.loc)
	eff := domain.ResolvePreferences(contact, s.prefs)
	scheduledAt := local

	if !eff.ActiveHours.Contains(domain.TimeOfDayFrom(local)) {
		afternoon := domain.NewTimeOfDay(14, 0).On(local)
		existing, err := s.remindersOnDay(ctx, local)
		if err != nil {
			return nil, err
		}
		if !s.blocking.IsBlocked(afternoon, contact) && !HasGapConflict(afternoon, existing, s.prefs.MinimumGap()) {
			scheduledAt = afternoon
		} else {
			slot, err := s.FindAvailableSlot(ctx, afternoon, contact)
			if err != nil {
				return nil, err
			}
			scheduledAt = slot
		}
	}

	reminder := domain.NewReminder(contact.ID, s.userID, scheduledAt, domain.ReminderTypeCustomDate)
	s.placed = append(s.placed, reminder)
	return reminder, nil
}

// adjustToPreferredDay moves the preliminary instant to the nearest preferred
// day when the contact has day preferences, searching outward and preferring
// the later day on ties.
func (s *Scheduler) adjustToPreferredDay(prelim time.Time, eff domain.EffectivePreferences) time.Time {
	if eff.PreferredDays.IsEmpty() {
		return prelim
	}
	local := prelim.In(s.loc)
	if eff.PreferredDays.Contains(local.Weekday()) {
		return prelim
	}
	for offset := 1; offset <= 6; offset++ {
		forward := local.AddDate(0, 0, offset)
		if eff.PreferredDays.Contains(forward.Weekday()) {
			return forward
		}
		backward := local.AddDate(0, 0, -offset)
		if eff.PreferredDays.Contains(backward.Weekday()) {
			return backward
		}
	}
	return prelim
}

// capacityCheck returns a SlotsFilled response when the target day, or the
// whole working week around it, has no grid capacity left.
func (s *Scheduler) capacityCheck(ctx context.Context, day time.Time, eff domain.EffectivePreferences) (*SlotsFilledResponse, error) {
	perDay := slotsInWindow(eff.ActiveHours)
	if perDay <= 0 {
		return nil, nil
	}

	existing, err := s.remindersOnDay(ctx, day)
	if err != nil {
		return nil, err
	}
	used := make(map[string]bool, len(existing))
	for _, r := range existing {
		used[slotKey(r.ScheduledTime().In(s.loc))] = true
	}
	nextDay := eff.ActiveHours.Start.On(day.AddDate(0, 0, 1))
	if len(used) >= perDay {
		return newSlotsFilledResponse(day, eff.ActiveHours.String(), nextDay), nil
	}

	weekStart, weekEnd := workingWeekBounds(day)
	weekReminders, err := s.remindersInWindow(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	if len(weekReminders) >= perDay*5 {
		return newSlotsFilledResponse(day, eff.ActiveHours.String(), nextDay), nil
	}

	return nil, nil
}

// workingWeekBounds returns the Monday 00:00 to Saturday 00:00 range around t.
func workingWeekBounds(t time.Time) (time.Time, time.Time) {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	monday := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, -daysSinceMonday)
	return monday, monday.AddDate(0, 0, 5)
}

// remindersOnDay returns the user's reminders on the candidate's calendar day,
// including placements made through this instance.
func (s *Scheduler) remindersOnDay(ctx context.Context, local time.Time) ([]*domain.Reminder, error) {
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	return s.remindersInWindow(ctx, dayStart, dayStart.AddDate(0, 0, 1))
}

// remindersInWindow merges repository reminders with in-flight placements.
func (s *Scheduler) remindersInWindow(ctx context.Context, start, end time.Time) ([]*domain.Reminder, error) {
	stored, err := s.reminders.ListInWindow(ctx, s.userID, start, end)
	if err != nil {
		return nil, err
	}
	merged := make([]*domain.Reminder, 0, len(stored)+len(s.placed))
	seen := make(map[uuid.UUID]bool, len(stored))
	for _, r := range stored {
		merged = append(merged, r)
		seen[r.ID()] = true
	}
	for _, r := range s.placed {
		at := r.ScheduledTime()
		if seen[r.ID()] || at.Before(start) || !at.Before(end) {
			continue
		}
		merged = append(merged, r)
	}
	return merged, nil
}

// replacePlaced swaps an in-flight placement for its pattern-adjusted version.
func (s *Scheduler) replacePlaced(old, updated *domain.Reminder) {
	for i, r := range s.placed {
		if r == old {
			s.placed[i] = updated
			return
		}
	}
	s.placed = append(s.placed, updated)
}

// IsRetryableOutcome reports whether an error is one of the engine's
// exhaustion failures, which callers may retry on a different day.
func IsRetryableOutcome(err error) bool {
	return errors.Is(err, domain.ErrNoSlotAvailable) || errors.Is(err, domain.ErrMaxAttemptsExceeded)
}

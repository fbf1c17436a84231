package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/google/uuid"
)

// Snooze option identifiers.
const (
	SnoozeLaterToday = "later_today"
	SnoozeTomorrow   = "tomorrow"
	SnoozeNextWeek   = "next_week"
	SnoozeSkip       = "skip"
	SnoozeReschedule = "reschedule"
	SnoozeContactNow = "contact_now"
)

// MaxSnoozeAttempts is how many snoozes a reminder takes before its options
// are marked exhausted.
const MaxSnoozeAttempts = 4

// SnoozeOption describes one action available on a reminder notification.
type SnoozeOption struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	IsExhausted bool   `json:"is_exhausted"`
}

// SnoozeHandler translates user snooze and skip actions into new reminder
// instants, delegating slot placement to a per-user Scheduler created lazily
// on first use.
type SnoozeHandler struct {
	contacts   domain.ContactRepository
	reminders  domain.ReminderRepository
	prefsRepo  domain.PreferencesRepository
	history    *SchedulingHistory
	cfg        SchedulerConfig
	rng        *rand.Rand
	logger     *slog.Logger
	schedulers map[uuid.UUID]*Scheduler
}

// NewSnoozeHandler creates a snooze handler.
func NewSnoozeHandler(
	contacts domain.ContactRepository,
	reminders domain.ReminderRepository,
	prefsRepo domain.PreferencesRepository,
	history *SchedulingHistory,
	cfg SchedulerConfig,
	logger *slog.Logger,
) *SnoozeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SnoozeHandler{
		contacts:   contacts,
		reminders:  reminders,
		prefsRepo:  prefsRepo,
		history:    history,
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(seed)),
		logger:     logger,
		schedulers: make(map[uuid.UUID]*Scheduler),
	}
}

// HandleSnooze dispatches a snooze action by option ID.
func (h *SnoozeHandler) HandleSnooze(ctx context.Context, contactID uuid.UUID, optionID string, currentTime time.Time) (time.Time, error) {
	switch optionID {
	case SnoozeLaterToday:
		return h.HandleLaterToday(ctx, contactID, currentTime)
	case SnoozeTomorrow:
		return h.HandleTomorrow(ctx, contactID, currentTime)
	case SnoozeNextWeek:
		return h.HandleNextWeek(ctx, contactID, currentTime)
	case SnoozeSkip:
		return time.Time{}, h.HandleSkip(ctx, contactID, currentTime)
	default:
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidSnoozeOption, optionID)
	}
}

// HandleLaterToday pushes the check-in later the same day. The delay window
// depends on the current hour so late-evening snoozes stay short while
// mid-day snoozes give the user a real break. This action never fails: when
// the slot search cannot place the proposed instant, a quiet early-morning
// slot the next day is used instead.
func (h *SnoozeHandler) HandleLaterToday(ctx context.Context, contactID uuid.UUID, currentTime time.Time) (time.Time, error) {
	contact, err := h.contacts.FindByID(ctx, contactID)
	if err != nil {
		return time.Time{}, err
	}

	sched, err := h.schedulerFor(ctx, contact.UserID)
	if err != nil {
		return time.Time{}, err
	}

	local := currentTime.In(sched.Location())
	minDelay, maxDelay := laterTodayDelayRange(local.Hour())
	delay := time.Duration(minDelay+h.rng.Intn(maxDelay-minDelay+1)) * time.Minute
	proposed := local.Add(delay)

	target, err := sched.FindAvailableSlot(ctx, proposed, contact)
	if err != nil {
		// Later Today must always land somewhere; fall back to a quiet
		// early-morning instant the next day.
		hour := 2 + h.rng.Intn(4)
		next := local.AddDate(0, 0, 1)
		target = time.Date(next.Year(), next.Month(), next.Day(), hour, 0, 0, 0, sched.Location())
		h.logger.Warn("later-today slot search failed, using early-morning fallback",
			"contact_id", contactID,
			"fallback_time", target,
			"error", err,
		)
	}

	if err := h.applySnooze(ctx, contact, target, SnoozeLaterToday, local); err != nil {
		return time.Time{}, err
	}
	return target, nil
}

// HandleTomorrow moves the check-in to the same wall-clock time one day later.
func (h *SnoozeHandler) HandleTomorrow(ctx context.Context, contactID uuid.UUID, currentTime time.Time) (time.Time, error) {
	return h.snoozeByDays(ctx, contactID, currentTime, 1, SnoozeTomorrow)
}

// HandleNextWeek moves the check-in to the same wall-clock time seven days later.
func (h *SnoozeHandler) HandleNextWeek(ctx context.Context, contactID uuid.UUID, currentTime time.Time) (time.Time, error) {
	return h.snoozeByDays(ctx, contactID, currentTime, 7, SnoozeNextWeek)
}

// HandleSkip clears any custom next date and marks the contact skipped.
func (h *SnoozeHandler) HandleSkip(ctx context.Context, contactID uuid.UUID, currentTime time.Time) error {
	contact, err := h.contacts.FindByID(ctx, contactID)
	if err != nil {
		return err
	}

	status := domain.StatusSkipped
	snoozeType := SnoozeSkip
	if _, err := h.contacts.UpdateScheduling(ctx, contactID, domain.SchedulingPatch{
		ClearCustomNextDate: true,
		LastSnoozeType:      &snoozeType,
		Status:              &status,
	}); err != nil {
		return err
	}

	if r := h.activeReminder(ctx, contact); r != nil {
		r.Skip()
		if err := h.reminders.Save(ctx, r); err != nil {
			return err
		}
	}

	if err := h.history.TrackSkip(ctx, contactID, currentTime); err != nil {
		h.logger.Warn("failed to record skip pattern", "contact_id", contactID, "error", err)
	}
	return nil
}

// GetAvailableSnoozeOptions returns the option set for a reminder, shaped by
// the contact's frequency and how many times it has already been snoozed.
func (h *SnoozeHandler) GetAvailableSnoozeOptions(ctx context.Context, reminderID uuid.UUID) ([]SnoozeOption, error) {
	reminder, err := h.reminders.FindByID(ctx, reminderID)
	if err != nil {
		return nil, err
	}
	contact, err := h.contacts.FindByID(ctx, reminder.ContactID())
	if err != nil {
		return nil, err
	}

	exhausted := contact.SnoozeCount >= MaxSnoozeAttempts
	options := []SnoozeOption{
		{ID: SnoozeLaterToday, Label: "Later today", IsExhausted: exhausted},
		{ID: SnoozeTomorrow, Label: "Tomorrow", IsExhausted: exhausted},
	}
	if contact.Frequency != domain.FrequencyDaily {
		options = append(options, SnoozeOption{ID: SnoozeNextWeek, Label: "Next week", IsExhausted: exhausted})
	}
	options = append(options, SnoozeOption{ID: SnoozeSkip, Label: "Skip this check-in", IsExhausted: exhausted})

	if exhausted {
		if contact.Frequency == domain.FrequencyDaily {
			options = append(options, SnoozeOption{
				ID:          SnoozeContactNow,
				Label:       "Reach out now",
				Description: "You've put off this daily check-in a few times. A quick message now beats another snooze.",
			})
		} else {
			options = append(options, SnoozeOption{
				ID:          SnoozeReschedule,
				Label:       "Pick a new date",
				Description: fmt.Sprintf("This %s check-in has been snoozed %d times. Choose a date that actually works.", contact.Frequency, contact.SnoozeCount),
			})
		}
	}

	return options, nil
}

// snoozeByDays shifts the check-in by whole days at the same wall-clock time,
// then slot-searches the proposed instant.
func (h *SnoozeHandler) snoozeByDays(ctx context.Context, contactID uuid.UUID, currentTime time.Time, days int, optionID string) (time.Time, error) {
	contact, err := h.contacts.FindByID(ctx, contactID)
	if err != nil {
		return time.Time{}, err
	}

	sched, err := h.schedulerFor(ctx, contact.UserID)
	if err != nil {
		return time.Time{}, err
	}

	local := currentTime.In(sched.Location())
	proposed := local.AddDate(0, 0, days)

	target, err := sched.FindAvailableSlot(ctx, proposed, contact)
	if err != nil {
		return time.Time{}, err
	}

	if err := h.applySnooze(ctx, contact, target, optionID, local); err != nil {
		return time.Time{}, err
	}
	return target, nil
}

// applySnooze persists the new instant on the contact and its active reminder
// and records the pattern entry.
func (h *SnoozeHandler) applySnooze(ctx context.Context, contact *domain.ContactProfile, target time.Time, optionID string, fromTime time.Time) error {
	status := domain.StatusSnoozed
	snoozeType := optionID
	if _, err := h.contacts.UpdateScheduling(ctx, contact.ID, domain.SchedulingPatch{
		CustomNextDate:   &target,
		LastSnoozeType:   &snoozeType,
		SnoozeCountDelta: 1,
		Status:           &status,
	}); err != nil {
		return err
	}

	if r := h.activeReminder(ctx, contact); r != nil {
		r.Snooze(target, optionID)
		if err := h.reminders.Save(ctx, r); err != nil {
			return err
		}
	}

	if err := h.history.TrackSnooze(ctx, contact.ID, fromTime, target, optionID); err != nil {
		h.logger.Warn("failed to record snooze pattern", "contact_id", contact.ID, "error", err)
	}

	h.logger.Info("reminder snoozed",
		"contact_id", contact.ID,
		"option", optionID,
		"new_time", target,
	)
	return nil
}

// activeReminder returns the contact's current scheduled or snoozed reminder,
// or nil when none exists.
func (h *SnoozeHandler) activeReminder(ctx context.Context, contact *domain.ContactProfile) *domain.Reminder {
	list, err := h.reminders.ListByContact(ctx, contact.ID, contact.UserID)
	if err != nil {
		h.logger.Warn("failed to load contact reminders", "contact_id", contact.ID, "error", err)
		return nil
	}
	for _, r := range list {
		switch r.Status() {
		case domain.StatusScheduled, domain.StatusSnoozed:
			return r
		}
	}
	return nil
}

// schedulerFor lazily creates the per-user scheduler.
func (h *SnoozeHandler) schedulerFor(ctx context.Context, userID uuid.UUID) (*Scheduler, error) {
	if sched, ok := h.schedulers[userID]; ok {
		return sched, nil
	}
	prefs, err := h.prefsRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	sched := NewScheduler(userID, prefs, h.reminders, h.history, h.cfg, h.logger)
	h.schedulers[userID] = sched
	return sched, nil
}

// laterTodayDelayRange returns the inclusive delay bounds in minutes for a
// later-today snooze requested at the given hour.
func laterTodayDelayRange(hour int) (int, int) {
	switch {
	case hour < 4:
		return 20, 40
	case hour >= 17 && hour < 19:
		return 120, 150
	case hour >= 19 && hour < 21:
		return 50, 80
	case hour >= 21:
		return 20, 40
	default: // 04:00-16:59
		return 150, 210
	}
}

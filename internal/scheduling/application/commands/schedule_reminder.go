package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/application/services"
	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/felixgeelhaar/touchbase/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// ScheduleReminderCommand contains the data needed to schedule a check-in.
type ScheduleReminderCommand struct {
	UserID          uuid.UUID
	ContactID       uuid.UUID
	LastContactDate time.Time
	Frequency       string
	// Recurring enables pattern-based time adjustment.
	Recurring bool
	// CustomDate, when set, schedules that explicit instant instead of
	// computing one from the frequency.
	CustomDate *time.Time
}

// ScheduleReminderResult is the outcome of a schedule command.
type ScheduleReminderResult struct {
	Reminder        *domain.Reminder
	SlotsFilled     *services.SlotsFilledResponse
	PatternAdjusted bool
	Confidence      float64
}

// ScheduleReminderHandler handles the ScheduleReminderCommand.
type ScheduleReminderHandler struct {
	contacts  domain.ContactRepository
	reminders domain.ReminderRepository
	prefsRepo domain.PreferencesRepository
	history   *services.SchedulingHistory
	publisher eventbus.Publisher
	cfg       services.SchedulerConfig
	logger    *slog.Logger
}

// NewScheduleReminderHandler creates a new ScheduleReminderHandler.
func NewScheduleReminderHandler(
	contacts domain.ContactRepository,
	reminders domain.ReminderRepository,
	prefsRepo domain.PreferencesRepository,
	history *services.SchedulingHistory,
	publisher eventbus.Publisher,
	cfg services.SchedulerConfig,
	logger *slog.Logger,
) *ScheduleReminderHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleReminderHandler{
		contacts:  contacts,
		reminders: reminders,
		prefsRepo: prefsRepo,
		history:   history,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// Handle executes the ScheduleReminderCommand: it runs the scheduling engine,
// persists the reminder, updates the contact's scheduling state, and publishes
// the resulting domain events for the notification collaborator.
func (h *ScheduleReminderHandler) Handle(ctx context.Context, cmd ScheduleReminderCommand) (*ScheduleReminderResult, error) {
	contact, err := h.contacts.FindByID(ctx, cmd.ContactID)
	if err != nil {
		return nil, err
	}

	prefs, err := h.prefsRepo.Get(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	scheduler := services.NewScheduler(cmd.UserID, prefs, h.reminders, h.history, h.cfg, h.logger)

	result := &ScheduleReminderResult{}
	switch {
	case cmd.CustomDate != nil:
		reminder, err := scheduler.ScheduleCustomDate(ctx, contact, *cmd.CustomDate)
		if err != nil {
			return nil, err
		}
		result.Reminder = reminder
	case cmd.Recurring:
		outcome, err := scheduler.ScheduleRecurringReminder(ctx, contact, cmd.LastContactDate, cmd.Frequency)
		if err != nil {
			return nil, err
		}
		result.Reminder = outcome.Reminder
		result.SlotsFilled = outcome.SlotsFilled
		result.PatternAdjusted = outcome.PatternAdjusted
		result.Confidence = outcome.Confidence
	default:
		outcome, err := scheduler.ScheduleReminder(ctx, contact, cmd.LastContactDate, cmd.Frequency)
		if err != nil {
			return nil, err
		}
		result.Reminder = outcome.Reminder
		result.SlotsFilled = outcome.SlotsFilled
	}

	if result.SlotsFilled != nil {
		return result, nil
	}

	if err := h.reminders.Save(ctx, result.Reminder); err != nil {
		return nil, err
	}

	status := domain.StatusScheduled
	if _, err := h.contacts.UpdateScheduling(ctx, contact.ID, domain.SchedulingPatch{Status: &status}); err != nil {
		return nil, err
	}

	events := result.Reminder.DomainEvents()
	if err := eventbus.PublishDomainEvents(ctx, h.publisher, events); err != nil {
		return nil, err
	}
	result.Reminder.ClearDomainEvents()

	h.logger.Info("check-in scheduled",
		"user_id", cmd.UserID,
		"contact_id", cmd.ContactID,
		"scheduled_time", result.Reminder.ScheduledTime(),
		"pattern_adjusted", result.PatternAdjusted,
	)

	return result, nil
}

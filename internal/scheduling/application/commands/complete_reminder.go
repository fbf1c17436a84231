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

// CompleteReminderCommand marks a check-in as done.
type CompleteReminderCommand struct {
	ReminderID  uuid.UUID
	CompletedAt time.Time
}

// CompleteReminderHandler handles the CompleteReminderCommand.
type CompleteReminderHandler struct {
	reminders domain.ReminderRepository
	contacts  domain.ContactRepository
	history   *services.SchedulingHistory
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewCompleteReminderHandler creates a new CompleteReminderHandler.
func NewCompleteReminderHandler(
	reminders domain.ReminderRepository,
	contacts domain.ContactRepository,
	history *services.SchedulingHistory,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *CompleteReminderHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompleteReminderHandler{
		reminders: reminders,
		contacts:  contacts,
		history:   history,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle marks the reminder completed, records the success in the contact's
// pattern history, and publishes the completion event.
func (h *CompleteReminderHandler) Handle(ctx context.Context, cmd CompleteReminderCommand) error {
	reminder, err := h.reminders.FindByID(ctx, cmd.ReminderID)
	if err != nil {
		return err
	}

	completedAt := cmd.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	reminder.Complete()
	if err := h.reminders.Save(ctx, reminder); err != nil {
		return err
	}

	status := domain.StatusCompleted
	if _, err := h.contacts.UpdateScheduling(ctx, reminder.ContactID(), domain.SchedulingPatch{Status: &status}); err != nil {
		return err
	}

	// Pattern tracking is best effort; a cache hiccup must not undo the completion.
	if err := h.history.TrackCompletion(ctx, reminder.ContactID(), completedAt); err != nil {
		h.logger.Warn("failed to record completion pattern",
			"contact_id", reminder.ContactID(),
			"error", err,
		)
	}

	if err := eventbus.PublishDomainEvents(ctx, h.publisher, reminder.DomainEvents()); err != nil {
		return err
	}
	reminder.ClearDomainEvents()

	h.logger.Info("check-in completed",
		"reminder_id", cmd.ReminderID,
		"contact_id", reminder.ContactID(),
	)
	return nil
}

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

// SnoozeReminderCommand contains the data needed to snooze or skip a check-in.
type SnoozeReminderCommand struct {
	ContactID   uuid.UUID
	OptionID    string
	CurrentTime time.Time
}

// SnoozeReminderResult is the outcome of a snooze command. NewTime is zero for
// skips.
type SnoozeReminderResult struct {
	NewTime time.Time
	Skipped bool
}

// SnoozeReminderHandler handles the SnoozeReminderCommand.
type SnoozeReminderHandler struct {
	snoozer   *services.SnoozeHandler
	reminders domain.ReminderRepository
	publisher eventbus.Publisher
	logger    *slog.Logger
}

// NewSnoozeReminderHandler creates a new SnoozeReminderHandler.
func NewSnoozeReminderHandler(
	snoozer *services.SnoozeHandler,
	reminders domain.ReminderRepository,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *SnoozeReminderHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnoozeReminderHandler{
		snoozer:   snoozer,
		reminders: reminders,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the SnoozeReminderCommand and publishes the domain events
// recorded on the contact's active reminder.
func (h *SnoozeReminderHandler) Handle(ctx context.Context, cmd SnoozeReminderCommand) (*SnoozeReminderResult, error) {
	currentTime := cmd.CurrentTime
	if currentTime.IsZero() {
		currentTime = time.Now()
	}

	newTime, err := h.snoozer.HandleSnooze(ctx, cmd.ContactID, cmd.OptionID, currentTime)
	if err != nil {
		return nil, err
	}

	result := &SnoozeReminderResult{
		NewTime: newTime,
		Skipped: cmd.OptionID == services.SnoozeSkip,
	}

	h.logger.Info("snooze handled",
		"contact_id", cmd.ContactID,
		"option", cmd.OptionID,
		"new_time", newTime,
	)

	return result, nil
}

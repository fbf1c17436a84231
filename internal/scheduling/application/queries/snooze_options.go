package queries

import (
	"context"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/application/services"
	"github.com/google/uuid"
)

// SnoozeOptionsQuery lists the snooze menu for a reminder.
type SnoozeOptionsQuery struct {
	ReminderID uuid.UUID
}

// SnoozeOptionsHandler handles the SnoozeOptionsQuery.
type SnoozeOptionsHandler struct {
	snoozer *services.SnoozeHandler
}

// NewSnoozeOptionsHandler creates a new SnoozeOptionsHandler.
func NewSnoozeOptionsHandler(snoozer *services.SnoozeHandler) *SnoozeOptionsHandler {
	return &SnoozeOptionsHandler{snoozer: snoozer}
}

// Handle returns the snooze options available for the reminder's contact,
// taking frequency and the contact's snooze count into account.
func (h *SnoozeOptionsHandler) Handle(ctx context.Context, q SnoozeOptionsQuery) ([]services.SnoozeOption, error) {
	return h.snoozer.GetAvailableSnoozeOptions(ctx, q.ReminderID)
}

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/felixgeelhaar/touchbase/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// duePayload is the slice of the ReminderDue event the consumer needs.
type duePayload struct {
	ContactID     uuid.UUID `json:"contact_id"`
	UserID        uuid.UUID `json:"user_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
}

// DueReminderConsumer turns reminder-due events into outbound notifications
// and marks the reminder notified once a channel accepts it.
type DueReminderConsumer struct {
	dispatcher *Dispatcher
	reminders  domain.ReminderRepository
	contacts   domain.ContactRepository
	logger     *slog.Logger
}

// NewDueReminderConsumer creates a consumer for reminder-due events.
func NewDueReminderConsumer(
	dispatcher *Dispatcher,
	reminders domain.ReminderRepository,
	contacts domain.ContactRepository,
	logger *slog.Logger,
) *DueReminderConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &DueReminderConsumer{
		dispatcher: dispatcher,
		reminders:  reminders,
		contacts:   contacts,
		logger:     logger,
	}
}

// EventTypes returns the routing keys this consumer handles.
func (c *DueReminderConsumer) EventTypes() []string {
	return []string{domain.RoutingKeyReminderDue}
}

// Handle dispatches the notification. The contact name is best effort; a
// missing contact row still produces a notification.
func (c *DueReminderConsumer) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	var payload duePayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to decode reminder due event: %w", err)
	}

	contactName := ""
	if contact, err := c.contacts.FindByID(ctx, payload.ContactID); err == nil {
		contactName = contact.Name
	}

	message := "Time to check in"
	if contactName != "" {
		message = fmt.Sprintf("Time to check in with %s", contactName)
	}

	notification := Notification{
		ReminderID:  event.AggregateID.String(),
		ContactID:   payload.ContactID.String(),
		UserID:      payload.UserID.String(),
		ContactName: contactName,
		DueAt:       payload.ScheduledTime,
		Message:     message,
	}

	if err := c.dispatcher.Dispatch(ctx, notification); err != nil {
		return err
	}

	reminder, err := c.reminders.FindByID(ctx, event.AggregateID)
	if err != nil {
		return err
	}
	reminder.MarkNotified()
	return c.reminders.Save(ctx, reminder)
}

package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/touchbase/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Reminder"

	RoutingKeyReminderScheduled = "scheduling.reminder.scheduled"
	RoutingKeyReminderSnoozed   = "scheduling.reminder.snoozed"
	RoutingKeyReminderSkipped   = "scheduling.reminder.skipped"
	RoutingKeyReminderCompleted = "scheduling.reminder.completed"
	RoutingKeyReminderDue       = "scheduling.reminder.due"
)

// ReminderScheduled is emitted when a reminder gets a scheduled instant.
type ReminderScheduled struct {
	sharedDomain.BaseEvent
	ContactID     uuid.UUID    `json:"contact_id"`
	UserID        uuid.UUID    `json:"user_id"`
	ScheduledTime time.Time    `json:"scheduled_time"`
	ReminderType  ReminderType `json:"reminder_type"`
}

// NewReminderScheduled creates a ReminderScheduled event.
func NewReminderScheduled(r *Reminder) ReminderScheduled {
	return ReminderScheduled{
		BaseEvent:     sharedDomain.NewBaseEvent(r.ID(), AggregateType, RoutingKeyReminderScheduled),
		ContactID:     r.ContactID(),
		UserID:        r.UserID(),
		ScheduledTime: r.ScheduledTime(),
		ReminderType:  r.Type(),
	}
}

// ReminderSnoozed is emitted when a reminder is pushed to a later instant.
type ReminderSnoozed struct {
	sharedDomain.BaseEvent
	ContactID  uuid.UUID `json:"contact_id"`
	UserID     uuid.UUID `json:"user_id"`
	OldTime    time.Time `json:"old_time"`
	NewTime    time.Time `json:"new_time"`
	SnoozeType string    `json:"snooze_type"`
}

// NewReminderSnoozed creates a ReminderSnoozed event.
func NewReminderSnoozed(r *Reminder, oldTime time.Time, snoozeType string) ReminderSnoozed {
	return ReminderSnoozed{
		BaseEvent:  sharedDomain.NewBaseEvent(r.ID(), AggregateType, RoutingKeyReminderSnoozed),
		ContactID:  r.ContactID(),
		UserID:     r.UserID(),
		OldTime:    oldTime,
		NewTime:    r.ScheduledTime(),
		SnoozeType: snoozeType,
	}
}

// ReminderSkipped is emitted when the user skips a check-in.
type ReminderSkipped struct {
	sharedDomain.BaseEvent
	ContactID uuid.UUID `json:"contact_id"`
	UserID    uuid.UUID `json:"user_id"`
}

// NewReminderSkipped creates a ReminderSkipped event.
func NewReminderSkipped(r *Reminder) ReminderSkipped {
	return ReminderSkipped{
		BaseEvent: sharedDomain.NewBaseEvent(r.ID(), AggregateType, RoutingKeyReminderSkipped),
		ContactID: r.ContactID(),
		UserID:    r.UserID(),
	}
}

// ReminderCompleted is emitted when the user completes a check-in.
type ReminderCompleted struct {
	sharedDomain.BaseEvent
	ContactID   uuid.UUID `json:"contact_id"`
	UserID      uuid.UUID `json:"user_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewReminderCompleted creates a ReminderCompleted event.
func NewReminderCompleted(r *Reminder) ReminderCompleted {
	return ReminderCompleted{
		BaseEvent:   sharedDomain.NewBaseEvent(r.ID(), AggregateType, RoutingKeyReminderCompleted),
		ContactID:   r.ContactID(),
		UserID:      r.UserID(),
		CompletedAt: time.Now().UTC(),
	}
}

// ReminderDue is emitted by the worker sweep when a reminder's instant passes.
type ReminderDue struct {
	sharedDomain.BaseEvent
	ContactID     uuid.UUID `json:"contact_id"`
	UserID        uuid.UUID `json:"user_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
}

// NewReminderDue creates a ReminderDue event.
func NewReminderDue(r *Reminder) ReminderDue {
	return ReminderDue{
		BaseEvent:     sharedDomain.NewBaseEvent(r.ID(), AggregateType, RoutingKeyReminderDue),
		ContactID:     r.ContactID(),
		UserID:        r.UserID(),
		ScheduledTime: r.ScheduledTime(),
	}
}

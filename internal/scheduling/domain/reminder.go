package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/touchbase/internal/shared/domain"
	"github.com/google/uuid"
)

// ReminderType distinguishes engine-scheduled reminders from explicit user dates.
type ReminderType string

const (
	ReminderTypeScheduled  ReminderType = "SCHEDULED"
	ReminderTypeCustomDate ReminderType = "CUSTOM_DATE"
)

// Reminder is a single scheduled check-in for a contact.
type Reminder struct {
	sharedDomain.BaseAggregateRoot
	contactID     uuid.UUID
	userID        uuid.UUID
	scheduledTime time.Time
	reminderType  ReminderType
	status        SchedulingStatus
	notified      bool
	snoozed       bool
}

// NewReminder creates a reminder for the given contact at the given instant.
func NewReminder(contactID, userID uuid.UUID, scheduledTime time.Time, reminderType ReminderType) *Reminder {
	r := &Reminder{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		contactID:         contactID,
		userID:            userID,
		scheduledTime:     scheduledTime,
		reminderType:      reminderType,
		status:            StatusScheduled,
	}
	r.AddDomainEvent(NewReminderScheduled(r))
	return r
}

func (r *Reminder) ContactID() uuid.UUID      { return r.contactID }
func (r *Reminder) UserID() uuid.UUID         { return r.userID }
func (r *Reminder) ScheduledTime() time.Time  { return r.scheduledTime }
func (r *Reminder) Type() ReminderType        { return r.reminderType }
func (r *Reminder) Status() SchedulingStatus  { return r.status }
func (r *Reminder) IsNotified() bool          { return r.notified }
func (r *Reminder) IsSnoozed() bool           { return r.snoozed }

// MarkNotified records that the notification collaborator accepted the reminder.
func (r *Reminder) MarkNotified() {
	r.notified = true
	r.Touch()
}

// Snooze replaces the scheduled instant and moves the reminder to snoozed state.
func (r *Reminder) Snooze(newTime time.Time, snoozeType string) {
	oldTime := r.scheduledTime
	r.scheduledTime = newTime
	r.status = StatusSnoozed
	r.snoozed = true
	r.Touch()
	r.AddDomainEvent(NewReminderSnoozed(r, oldTime, snoozeType))
}

// Skip marks the reminder as skipped without computing a new instant.
func (r *Reminder) Skip() {
	r.status = StatusSkipped
	r.Touch()
	r.AddDomainEvent(NewReminderSkipped(r))
}

// Complete marks the reminder as completed.
func (r *Reminder) Complete() {
	r.status = StatusCompleted
	r.Touch()
	r.AddDomainEvent(NewReminderCompleted(r))
}

// RehydrateReminder recreates a reminder from persisted state.
func RehydrateReminder(
	id uuid.UUID,
	contactID, userID uuid.UUID,
	scheduledTime time.Time,
	reminderType ReminderType,
	status SchedulingStatus,
	notified, snoozed bool,
	createdAt, updatedAt time.Time,
) *Reminder {
	return &Reminder{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		),
		contactID:     contactID,
		userID:        userID,
		scheduledTime: scheduledTime,
		reminderType:  reminderType,
		status:        status,
		notified:      notified,
		snoozed:       snoozed,
	}
}

package queries

import (
	"context"
	"sort"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/google/uuid"
)

// UpcomingRemindersQuery lists a user's reminders within a forward-looking window.
type UpcomingRemindersQuery struct {
	UserID uuid.UUID
	From   time.Time
	Days   int
}

// UpcomingReminder is one row of the upcoming-reminders view.
type UpcomingReminder struct {
	ReminderID    uuid.UUID
	ContactID     uuid.UUID
	ContactName   string
	ScheduledTime time.Time
	Type          domain.ReminderType
	Status        domain.SchedulingStatus
	Snoozed       bool
}

// UpcomingRemindersHandler handles the UpcomingRemindersQuery.
type UpcomingRemindersHandler struct {
	reminders domain.ReminderRepository
	contacts  domain.ContactRepository
}

// NewUpcomingRemindersHandler creates a new UpcomingRemindersHandler.
func NewUpcomingRemindersHandler(reminders domain.ReminderRepository, contacts domain.ContactRepository) *UpcomingRemindersHandler {
	return &UpcomingRemindersHandler{reminders: reminders, contacts: contacts}
}

// Handle returns upcoming reminders sorted by scheduled time. A missing
// contact row does not fail the listing; the name is simply left empty.
func (h *UpcomingRemindersHandler) Handle(ctx context.Context, q UpcomingRemindersQuery) ([]UpcomingReminder, error) {
	from := q.From
	if from.IsZero() {
		from = time.Now()
	}
	days := q.Days
	if days <= 0 {
		days = 7
	}

	reminders, err := h.reminders.ListInWindow(ctx, q.UserID, from, from.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(reminders))
	rows := make([]UpcomingReminder, 0, len(reminders))
	for _, r := range reminders {
		name, ok := names[r.ContactID()]
		if !ok {
			if contact, err := h.contacts.FindByID(ctx, r.ContactID()); err == nil {
				name = contact.Name
			}
			names[r.ContactID()] = name
		}
		rows = append(rows, UpcomingReminder{
			ReminderID:    r.ID(),
			ContactID:     r.ContactID(),
			ContactName:   name,
			ScheduledTime: r.ScheduledTime(),
			Type:          r.Type(),
			Status:        r.Status(),
			Snoozed:       r.IsSnoozed(),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ScheduledTime.Before(rows[j].ScheduledTime)
	})
	return rows, nil
}

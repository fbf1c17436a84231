package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReminderRepository defines the interface for reminder persistence.
// The scheduler only ever reads reminders through ListInWindow so that
// cross-instance consistency stays the caller's responsibility.
type ReminderRepository interface {
	// Save persists a reminder (create or update).
	Save(ctx context.Context, reminder *Reminder) error

	// FindByID finds a reminder by its ID. Returns ErrReminderNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Reminder, error)

	// ListInWindow returns a user's active reminders scheduled within [start, end).
	ListInWindow(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*Reminder, error)

	// ListByContact returns all reminders for a contact.
	ListByContact(ctx context.Context, contactID, userID uuid.UUID) ([]*Reminder, error)

	// ListDue returns active reminders whose scheduled instant is at or before now.
	ListDue(ctx context.Context, now time.Time) ([]*Reminder, error)

	// Delete removes a reminder.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContactRepository defines persistence for contact scheduling profiles.
type ContactRepository interface {
	// FindByID finds a contact by its ID. Returns ErrContactNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*ContactProfile, error)

	// UpdateScheduling applies a partial scheduling update and returns the
	// updated profile.
	UpdateScheduling(ctx context.Context, contactID uuid.UUID, patch SchedulingPatch) (*ContactProfile, error)
}

// PreferencesRepository defines persistence for user scheduling preferences.
type PreferencesRepository interface {
	// Get returns a user's preferences, or the defaults when none are stored.
	Get(ctx context.Context, userID uuid.UUID) (SchedulingPreferences, error)

	// Save stores a user's preferences.
	Save(ctx context.Context, userID uuid.UUID, prefs SchedulingPreferences) error
}

// PatternRepository defines persistence for per-contact scheduling patterns.
type PatternRepository interface {
	// Get returns the pattern record for a contact, or nil when none exists.
	Get(ctx context.Context, contactID uuid.UUID) (*PatternRecord, error)

	// Save stores a contact's pattern record.
	Save(ctx context.Context, record *PatternRecord) error
}

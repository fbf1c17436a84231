package persistence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/google/uuid"
)

// InMemoryReminderRepository is a map-backed domain.ReminderRepository for
// tests and dry runs.
type InMemoryReminderRepository struct {
	mu        sync.RWMutex
	reminders map[uuid.UUID]*domain.Reminder
}

// NewInMemoryReminderRepository creates an empty in-memory reminder repository.
func NewInMemoryReminderRepository() *InMemoryReminderRepository {
	return &InMemoryReminderRepository{reminders: make(map[uuid.UUID]*domain.Reminder)}
}

func (r *InMemoryReminderRepository) Save(_ context.Context, reminder *domain.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reminders[reminder.ID()] = reminder
	return nil
}

func (r *InMemoryReminderRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reminder, ok := r.reminders[id]
	if !ok {
		return nil, domain.ErrReminderNotFound
	}
	return reminder, nil
}

func (r *InMemoryReminderRepository) ListInWindow(_ context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Reminder, 0)
	for _, reminder := range r.reminders {
		if reminder.UserID() != userID || !isActive(reminder) {
			continue
		}
		t := reminder.ScheduledTime()
		if !t.Before(start) && t.Before(end) {
			out = append(out, reminder)
		}
	}
	sortByScheduledTime(out)
	return out, nil
}

func (r *InMemoryReminderRepository) ListByContact(_ context.Context, contactID, userID uuid.UUID) ([]*domain.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Reminder, 0)
	for _, reminder := range r.reminders {
		if reminder.ContactID() == contactID && reminder.UserID() == userID {
			out = append(out, reminder)
		}
	}
	sortByScheduledTime(out)
	return out, nil
}

func (r *InMemoryReminderRepository) ListDue(_ context.Context, now time.Time) ([]*domain.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Reminder, 0)
	for _, reminder := range r.reminders {
		if isActive(reminder) && !reminder.IsNotified() && !reminder.ScheduledTime().After(now) {
			out = append(out, reminder)
		}
	}
	sortByScheduledTime(out)
	return out, nil
}

func (r *InMemoryReminderRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reminders[id]; !ok {
		return domain.ErrReminderNotFound
	}
	delete(r.reminders, id)
	return nil
}

func isActive(reminder *domain.Reminder) bool {
	return reminder.Status() == domain.StatusScheduled || reminder.Status() == domain.StatusSnoozed
}

func sortByScheduledTime(reminders []*domain.Reminder) {
	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].ScheduledTime().Before(reminders[j].ScheduledTime())
	})
}

// InMemoryContactRepository is a map-backed domain.ContactRepository.
type InMemoryContactRepository struct {
	mu       sync.RWMutex
	contacts map[uuid.UUID]*domain.ContactProfile
}

// NewInMemoryContactRepository creates an empty in-memory contact repository.
func NewInMemoryContactRepository() *InMemoryContactRepository {
	return &InMemoryContactRepository{contacts: make(map[uuid.UUID]*domain.ContactProfile)}
}

// Put stores a contact profile.
func (r *InMemoryContactRepository) Put(contact *domain.ContactProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts[contact.ID] = contact
}

func (r *InMemoryContactRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.ContactProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	contact, ok := r.contacts[id]
	if !ok {
		return nil, domain.ErrContactNotFound
	}
	copied := *contact
	return &copied, nil
}

func (r *InMemoryContactRepository) UpdateScheduling(_ context.Context, contactID uuid.UUID, patch domain.SchedulingPatch) (*domain.ContactProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	contact, ok := r.contacts[contactID]
	if !ok {
		return nil, domain.ErrContactNotFound
	}

	if patch.ClearCustomNextDate {
		contact.CustomNextDate = nil
	} else if patch.CustomNextDate != nil {
		t := *patch.CustomNextDate
		contact.CustomNextDate = &t
	}
	if patch.LastSnoozeType != nil {
		contact.LastSnoozeType = *patch.LastSnoozeType
	}
	contact.SnoozeCount += patch.SnoozeCountDelta
	if patch.Status != nil {
		contact.Status = *patch.Status
	}

	copied := *contact
	return &copied, nil
}

// InMemoryPatternRepository is a map-backed domain.PatternRepository.
type InMemoryPatternRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*domain.PatternRecord
}

// NewInMemoryPatternRepository creates an empty in-memory pattern repository.
func NewInMemoryPatternRepository() *InMemoryPatternRepository {
	return &InMemoryPatternRepository{records: make(map[uuid.UUID]*domain.PatternRecord)}
}

func (r *InMemoryPatternRepository) Get(_ context.Context, contactID uuid.UUID) (*domain.PatternRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records[contactID], nil
}

func (r *InMemoryPatternRepository) Save(_ context.Context, record *domain.PatternRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.ContactID] = record
	return nil
}

// InMemoryPreferencesRepository is a map-backed domain.PreferencesRepository.
type InMemoryPreferencesRepository struct {
	mu    sync.RWMutex
	prefs map[uuid.UUID]domain.SchedulingPreferences
}

// NewInMemoryPreferencesRepository creates an empty in-memory preferences repository.
func NewInMemoryPreferencesRepository() *InMemoryPreferencesRepository {
	return &InMemoryPreferencesRepository{prefs: make(map[uuid.UUID]domain.SchedulingPreferences)}
}

func (r *InMemoryPreferencesRepository) Get(_ context.Context, userID uuid.UUID) (domain.SchedulingPreferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	prefs, ok := r.prefs[userID]
	if !ok {
		return domain.DefaultSchedulingPreferences(), nil
	}
	return prefs, nil
}

func (r *InMemoryPreferencesRepository) Save(_ context.Context, userID uuid.UUID, prefs domain.SchedulingPreferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[userID] = prefs
	return nil
}

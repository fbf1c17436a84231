package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/google/uuid"
)

// SQLiteContactRepository implements domain.ContactRepository using SQLite.
type SQLiteContactRepository struct {
	dbConn *sql.DB
}

// NewSQLiteContactRepository creates a new SQLite contact repository.
func NewSQLiteContactRepository(dbConn *sql.DB) *SQLiteContactRepository {
	return &SQLiteContactRepository{dbConn: dbConn}
}

// Save inserts or replaces a contact's scheduling profile. Used by local mode
// to seed contacts; the scheduling engine itself only patches existing rows.
func (r *SQLiteContactRepository) Save(ctx context.Context, contact *domain.ContactProfile) error {
	var customPreferences any
	if contact.CustomPreferences != nil {
		blob, err := json.Marshal(contact.CustomPreferences)
		if err != nil {
			return err
		}
		customPreferences = string(blob)
	}

	var customNextDate any
	if contact.CustomNextDate != nil {
		customNextDate = contact.CustomNextDate.Format(time.RFC3339)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO contacts (
			id, user_id, name, relationship_type, custom_schedule, custom_preferences,
			priority, frequency, custom_next_date, snooze_count, last_snooze_type, status,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			relationship_type = excluded.relationship_type,
			custom_schedule = excluded.custom_schedule,
			custom_preferences = excluded.custom_preferences,
			priority = excluded.priority,
			frequency = excluded.frequency,
			custom_next_date = excluded.custom_next_date,
			snooze_count = excluded.snooze_count,
			last_snooze_type = excluded.last_snooze_type,
			status = excluded.status,
			updated_at = excluded.updated_at
	`
	_, err := r.dbConn.ExecContext(ctx, query,
		contact.ID.String(),
		contact.UserID.String(),
		contact.Name,
		contact.RelationshipType,
		boolToInt64(contact.CustomSchedule),
		customPreferences,
		string(contact.EffectivePriority()),
		string(contact.Frequency),
		customNextDate,
		contact.SnoozeCount,
		contact.LastSnoozeType,
		string(contact.Status),
		now,
		now,
	)
	return err
}

// FindByID retrieves a contact's scheduling profile by its ID.
func (r *SQLiteContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ContactProfile, error) {
	return findSQLiteContact(ctx, r.dbConn, id)
}

// UpdateScheduling applies a partial scheduling update and returns the updated
// profile. The patch is applied read-modify-write inside a transaction.
func (r *SQLiteContactRepository) UpdateScheduling(ctx context.Context, contactID uuid.UUID, patch domain.SchedulingPatch) (*domain.ContactProfile, error) {
	tx, err := r.dbConn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	contact, err := findSQLiteContact(ctx, tx, contactID)
	if err != nil {
		return nil, err
	}

	if patch.ClearCustomNextDate {
		contact.CustomNextDate = nil
	} else if patch.CustomNextDate != nil {
		contact.CustomNextDate = patch.CustomNextDate
	}
	if patch.LastSnoozeType != nil {
		contact.LastSnoozeType = *patch.LastSnoozeType
	}
	contact.SnoozeCount += patch.SnoozeCountDelta
	if patch.Status != nil {
		contact.Status = *patch.Status
	}

	var customNextDate any
	if contact.CustomNextDate != nil {
		customNextDate = contact.CustomNextDate.Format(time.RFC3339)
	}

	query := `
		UPDATE contacts SET
			custom_next_date = ?,
			last_snooze_type = ?,
			snooze_count = ?,
			status = ?,
			updated_at = ?
		WHERE id = ?
	`
	_, err = tx.ExecContext(ctx, query,
		customNextDate,
		contact.LastSnoozeType,
		contact.SnoozeCount,
		string(contact.Status),
		time.Now().UTC().Format(time.RFC3339),
		contactID.String(),
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return contact, nil
}

type sqliteQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func findSQLiteContact(ctx context.Context, q sqliteQuerier, id uuid.UUID) (*domain.ContactProfile, error) {
	query := `
		SELECT id, user_id, name, relationship_type, custom_schedule, custom_preferences,
		       priority, frequency, custom_next_date, snooze_count, last_snooze_type, status
		FROM contacts
		WHERE id = ?
	`

	var (
		idStr, userIDStr, name, relType string
		customSchedule                  int64
		customPreferences               sql.NullString
		priority, frequency             string
		customNextDate                  sql.NullString
		snoozeCount                     int
		lastSnoozeType                  sql.NullString
		status                          string
	)
	err := q.QueryRowContext(ctx, query, id.String()).Scan(
		&idStr, &userIDStr, &name, &relType, &customSchedule, &customPreferences,
		&priority, &frequency, &customNextDate, &snoozeCount, &lastSnoozeType, &status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrContactNotFound
		}
		return nil, err
	}

	contactID, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}

	var custom *domain.RelationshipPreferences
	if customPreferences.Valid && customPreferences.String != "" {
		custom = &domain.RelationshipPreferences{}
		if err := json.Unmarshal([]byte(customPreferences.String), custom); err != nil {
			return nil, err
		}
	}

	var nextDate *time.Time
	if customNextDate.Valid && customNextDate.String != "" {
		parsed, err := time.Parse(time.RFC3339, customNextDate.String)
		if err != nil {
			return nil, err
		}
		nextDate = &parsed
	}

	return &domain.ContactProfile{
		ID:                contactID,
		UserID:            userID,
		Name:              name,
		RelationshipType:  relType,
		CustomSchedule:    customSchedule != 0,
		CustomPreferences: custom,
		Priority:          domain.Priority(priority),
		Frequency:         domain.Frequency(frequency),
		CustomNextDate:    nextDate,
		SnoozeCount:       snoozeCount,
		LastSnoozeType:    lastSnoozeType.String,
		Status:            domain.SchedulingStatus(status),
	}, nil
}

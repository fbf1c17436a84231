package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresContactRepository implements domain.ContactRepository using PostgreSQL.
// The custom preferences override is stored as a JSONB column.
type PostgresContactRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresContactRepository creates a new PostgreSQL contact repository.
func NewPostgresContactRepository(pool *pgxpool.Pool) *PostgresContactRepository {
	return &PostgresContactRepository{pool: pool}
}

type contactRow struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Name              string
	RelationshipType  string
	CustomSchedule    bool
	CustomPreferences []byte
	Priority          string
	Frequency         string
	CustomNextDate    *time.Time
	SnoozeCount       int
	LastSnoozeType    *string
	Status            string
}

const contactColumns = `
	id, user_id, name, relationship_type, custom_schedule, custom_preferences,
	priority, frequency, custom_next_date, snooze_count, last_snooze_type, status
`

// FindByID retrieves a contact's scheduling profile by its ID.
func (r *PostgresContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ContactProfile, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	var row contactRow
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&row.ID,
		&row.UserID,
		&row.Name,
		&row.RelationshipType,
		&row.CustomSchedule,
		&row.CustomPreferences,
		&row.Priority,
		&row.Frequency,
		&row.CustomNextDate,
		&row.SnoozeCount,
		&row.LastSnoozeType,
		&row.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrContactNotFound
		}
		return nil, err
	}

	return rowToContact(row)
}

// UpdateScheduling applies a partial scheduling update and returns the updated profile.
func (r *PostgresContactRepository) UpdateScheduling(ctx context.Context, contactID uuid.UUID, patch domain.SchedulingPatch) (*domain.ContactProfile, error) {
	query := `
		UPDATE contacts SET
			custom_next_date = CASE
				WHEN $2::boolean THEN NULL
				WHEN $3::timestamptz IS NOT NULL THEN $3
				ELSE custom_next_date
			END,
			last_snooze_type = COALESCE($4, last_snooze_type),
			snooze_count = snooze_count + $5,
			status = COALESCE($6, status),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + contactColumns

	var statusArg *string
	if patch.Status != nil {
		s := string(*patch.Status)
		statusArg = &s
	}

	var row contactRow
	err := r.pool.QueryRow(ctx, query,
		contactID,
		patch.ClearCustomNextDate,
		patch.CustomNextDate,
		patch.LastSnoozeType,
		patch.SnoozeCountDelta,
		statusArg,
	).Scan(
		&row.ID,
		&row.UserID,
		&row.Name,
		&row.RelationshipType,
		&row.CustomSchedule,
		&row.CustomPreferences,
		&row.Priority,
		&row.Frequency,
		&row.CustomNextDate,
		&row.SnoozeCount,
		&row.LastSnoozeType,
		&row.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrContactNotFound
		}
		return nil, err
	}

	return rowToContact(row)
}

func rowToContact(row contactRow) (*domain.ContactProfile, error) {
	var custom *domain.RelationshipPreferences
	if len(row.CustomPreferences) > 0 {
		custom = &domain.RelationshipPreferences{}
		if err := json.Unmarshal(row.CustomPreferences, custom); err != nil {
			return nil, err
		}
	}

	lastSnoozeType := ""
	if row.LastSnoozeType != nil {
		lastSnoozeType = *row.LastSnoozeType
	}

	return &domain.ContactProfile{
		ID:                row.ID,
		UserID:            row.UserID,
		Name:              row.Name,
		RelationshipType:  row.RelationshipType,
		CustomSchedule:    row.CustomSchedule,
		CustomPreferences: custom,
		Priority:          domain.Priority(row.Priority),
		Frequency:         domain.Frequency(row.Frequency),
		CustomNextDate:    row.CustomNextDate,
		SnoozeCount:       row.SnoozeCount,
		LastSnoozeType:    lastSnoozeType,
		Status:            domain.SchedulingStatus(row.Status),
	}, nil
}

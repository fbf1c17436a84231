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

// SQLitePatternRepository implements domain.PatternRepository for local mode.
// The record is stored whole as a JSON blob; pattern analysis always operates
// on the full attempt log anyway.
type SQLitePatternRepository struct {
	dbConn *sql.DB
}

// NewSQLitePatternRepository creates a new SQLite pattern repository.
func NewSQLitePatternRepository(dbConn *sql.DB) *SQLitePatternRepository {
	return &SQLitePatternRepository{dbConn: dbConn}
}

// Get returns the pattern record for a contact, or nil when none exists.
func (r *SQLitePatternRepository) Get(ctx context.Context, contactID uuid.UUID) (*domain.PatternRecord, error) {
	var blob []byte
	err := r.dbConn.QueryRowContext(ctx,
		`SELECT record FROM contact_patterns WHERE contact_id = ?`,
		contactID.String(),
	).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var record domain.PatternRecord
	if err := json.Unmarshal(blob, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Save stores a contact's pattern record.
func (r *SQLitePatternRepository) Save(ctx context.Context, record *domain.PatternRecord) error {
	blob, err := json.Marshal(record)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO contact_patterns (contact_id, record, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (contact_id) DO UPDATE SET
			record = excluded.record,
			updated_at = excluded.updated_at
	`
	_, err = r.dbConn.ExecContext(ctx, query,
		record.ContactID.String(),
		blob,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

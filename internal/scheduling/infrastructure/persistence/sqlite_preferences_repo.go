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

// SQLitePreferencesRepository implements domain.PreferencesRepository for local
// mode, storing the whole policy as one JSON document per user.
type SQLitePreferencesRepository struct {
	dbConn *sql.DB
}

// NewSQLitePreferencesRepository creates a new SQLite preferences repository.
func NewSQLitePreferencesRepository(dbConn *sql.DB) *SQLitePreferencesRepository {
	return &SQLitePreferencesRepository{dbConn: dbConn}
}

// Get returns a user's preferences, or the defaults when none are stored.
func (r *SQLitePreferencesRepository) Get(ctx context.Context, userID uuid.UUID) (domain.SchedulingPreferences, error) {
	var blob []byte
	err := r.dbConn.QueryRowContext(ctx,
		`SELECT preferences FROM user_preferences WHERE user_id = ?`,
		userID.String(),
	).Scan(&blob)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultSchedulingPreferences(), nil
		}
		return domain.SchedulingPreferences{}, err
	}

	var prefs domain.SchedulingPreferences
	if err := json.Unmarshal(blob, &prefs); err != nil {
		return domain.SchedulingPreferences{}, err
	}
	if prefs.RelationshipTypes == nil {
		prefs.RelationshipTypes = map[string]domain.RelationshipPreferences{}
	}
	return prefs, nil
}

// Save stores a user's preferences.
func (r *SQLitePreferencesRepository) Save(ctx context.Context, userID uuid.UUID, prefs domain.SchedulingPreferences) error {
	blob, err := json.Marshal(prefs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO user_preferences (user_id, preferences, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			preferences = excluded.preferences,
			updated_at = excluded.updated_at
	`
	_, err = r.dbConn.ExecContext(ctx, query,
		userID.String(),
		blob,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

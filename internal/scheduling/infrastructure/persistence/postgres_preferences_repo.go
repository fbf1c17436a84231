package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresPreferencesRepository implements domain.PreferencesRepository on
// database/sql with the pq driver. Gap settings and excluded windows live in
// user_preferences; per-relationship policies live in relationship_preferences
// with the preferred days as an integer array column.
type PostgresPreferencesRepository struct {
	dbConn *sql.DB
}

// NewPostgresPreferencesRepository creates a new PostgreSQL preferences repository.
func NewPostgresPreferencesRepository(dbConn *sql.DB) *PostgresPreferencesRepository {
	return &PostgresPreferencesRepository{dbConn: dbConn}
}

// Get returns a user's preferences, or the defaults when none are stored.
func (r *PostgresPreferencesRepository) Get(ctx context.Context, userID uuid.UUID) (domain.SchedulingPreferences, error) {
	query := `
		SELECT minimum_gap_minutes, optimal_gap_minutes, global_excluded_times
		FROM user_preferences
		WHERE user_id = $1
	`

	prefs := domain.DefaultSchedulingPreferences()

	var globalExcluded []byte
	err := r.dbConn.QueryRowContext(ctx, query, userID).Scan(
		&prefs.MinimumGapMinutes,
		&prefs.OptimalGapMinutes,
		&globalExcluded,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultSchedulingPreferences(), nil
		}
		return domain.SchedulingPreferences{}, err
	}

	if len(globalExcluded) > 0 {
		if err := json.Unmarshal(globalExcluded, &prefs.GlobalExcludedTimes); err != nil {
			return domain.SchedulingPreferences{}, err
		}
	}

	relationshipTypes, err := r.loadRelationshipTypes(ctx, userID)
	if err != nil {
		return domain.SchedulingPreferences{}, err
	}
	prefs.RelationshipTypes = relationshipTypes

	return prefs, nil
}

// Save stores a user's preferences, replacing the relationship-type rows.
func (r *PostgresPreferencesRepository) Save(ctx context.Context, userID uuid.UUID, prefs domain.SchedulingPreferences) error {
	tx, err := r.dbConn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	globalExcluded, err := json.Marshal(prefs.GlobalExcludedTimes)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO user_preferences (user_id, minimum_gap_minutes, optimal_gap_minutes, global_excluded_times, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			minimum_gap_minutes = EXCLUDED.minimum_gap_minutes,
			optimal_gap_minutes = EXCLUDED.optimal_gap_minutes,
			global_excluded_times = EXCLUDED.global_excluded_times,
			updated_at = NOW()
	`
	if _, err := tx.ExecContext(ctx, query, userID, prefs.MinimumGapMinutes, prefs.OptimalGapMinutes, globalExcluded); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM relationship_preferences WHERE user_id = $1`, userID); err != nil {
		return err
	}

	relQuery := `
		INSERT INTO relationship_preferences (
			user_id, relationship_type, active_start_hour, active_start_minute,
			active_end_hour, active_end_minute, preferred_days, excluded_times
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for relType, rel := range prefs.RelationshipTypes {
		excluded, err := json.Marshal(rel.ExcludedTimes)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, relQuery,
			userID,
			relType,
			rel.ActiveHours.Start.Hour,
			rel.ActiveHours.Start.Minute,
			rel.ActiveHours.End.Hour,
			rel.ActiveHours.End.Minute,
			pq.Array(weekdaysToInts(rel.PreferredDays)),
			excluded,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresPreferencesRepository) loadRelationshipTypes(ctx context.Context, userID uuid.UUID) (map[string]domain.RelationshipPreferences, error) {
	query := `
		SELECT relationship_type, active_start_hour, active_start_minute,
		       active_end_hour, active_end_minute, preferred_days, excluded_times
		FROM relationship_preferences
		WHERE user_id = $1
	`

	rows, err := r.dbConn.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	relationshipTypes := make(map[string]domain.RelationshipPreferences)
	for rows.Next() {
		var (
			relType                string
			startHour, startMinute int
			endHour, endMinute     int
			preferredDays          pq.Int64Array
			excludedTimes          []byte
		)
		err := rows.Scan(&relType, &startHour, &startMinute, &endHour, &endMinute, &preferredDays, &excludedTimes)
		if err != nil {
			return nil, err
		}

		rel := domain.RelationshipPreferences{
			ActiveHours: domain.DayWindow{
				Start: domain.NewTimeOfDay(startHour, startMinute),
				End:   domain.NewTimeOfDay(endHour, endMinute),
			},
			PreferredDays: intsToWeekdays(preferredDays),
		}
		if len(excludedTimes) > 0 {
			if err := json.Unmarshal(excludedTimes, &rel.ExcludedTimes); err != nil {
				return nil, err
			}
		}
		relationshipTypes[relType] = rel
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return relationshipTypes, nil
}

func weekdaysToInts(days domain.WeekdaySet) []int64 {
	out := make([]int64, 0, len(days))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if days.Contains(d) {
			out = append(out, int64(d))
		}
	}
	return out
}

func intsToWeekdays(days pq.Int64Array) domain.WeekdaySet {
	set := make(domain.WeekdaySet, len(days))
	for _, d := range days {
		set[time.Weekday(d)] = true
	}
	return set
}

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresReminderRepository implements domain.ReminderRepository using PostgreSQL.
type PostgresReminderRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresReminderRepository creates a new PostgreSQL reminder repository.
func NewPostgresReminderRepository(pool *pgxpool.Pool) *PostgresReminderRepository {
	return &PostgresReminderRepository{pool: pool}
}

// reminderRow represents a database row for reminders.
type reminderRow struct {
	ID            uuid.UUID
	ContactID     uuid.UUID
	UserID        uuid.UUID
	ScheduledTime time.Time
	ReminderType  string
	Status        string
	Notified      bool
	Snoozed       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Save persists a reminder to the database.
func (r *PostgresReminderRepository) Save(ctx context.Context, reminder *domain.Reminder) error {
	query := `
		INSERT INTO reminders (
			id, contact_id, user_id, scheduled_time, reminder_type,
			status, notified, snoozed, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			scheduled_time = EXCLUDED.scheduled_time,
			reminder_type = EXCLUDED.reminder_type,
			status = EXCLUDED.status,
			notified = EXCLUDED.notified,
			snoozed = EXCLUDED.snoozed,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		reminder.ID(),
		reminder.ContactID(),
		reminder.UserID(),
		reminder.ScheduledTime(),
		string(reminder.Type()),
		string(reminder.Status()),
		reminder.IsNotified(),
		reminder.IsSnoozed(),
		reminder.CreatedAt(),
		reminder.UpdatedAt(),
	)
	return err
}

// FindByID retrieves a reminder by its ID.
func (r *PostgresReminderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Reminder, error) {
	query := `
		SELECT id, contact_id, user_id, scheduled_time, reminder_type,
		       status, notified, snoozed, created_at, updated_at
		FROM reminders
		WHERE id = $1
	`

	var row reminderRow
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&row.ID,
		&row.ContactID,
		&row.UserID,
		&row.ScheduledTime,
		&row.ReminderType,
		&row.Status,
		&row.Notified,
		&row.Snoozed,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReminderNotFound
		}
		return nil, err
	}

	return rowToReminder(row), nil
}

// ListInWindow retrieves a user's active reminders scheduled within [start, end).
func (r *PostgresReminderRepository) ListInWindow(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Reminder, error) {
	query := `
		SELECT id, contact_id, user_id, scheduled_time, reminder_type,
		       status, notified, snoozed, created_at, updated_at
		FROM reminders
		WHERE user_id = $1
		  AND scheduled_time >= $2 AND scheduled_time < $3
		  AND status IN ('scheduled', 'snoozed')
		ORDER BY scheduled_time
	`

	rows, err := r.pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReminders(rows)
}

// ListByContact retrieves all reminders for a contact.
func (r *PostgresReminderRepository) ListByContact(ctx context.Context, contactID, userID uuid.UUID) ([]*domain.Reminder, error) {
	query := `
		SELECT id, contact_id, user_id, scheduled_time, reminder_type,
		       status, notified, snoozed, created_at, updated_at
		FROM reminders
		WHERE contact_id = $1 AND user_id = $2
		ORDER BY scheduled_time DESC
	`

	rows, err := r.pool.Query(ctx, query, contactID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReminders(rows)
}

// ListDue retrieves active reminders whose scheduled instant is at or before now.
func (r *PostgresReminderRepository) ListDue(ctx context.Context, now time.Time) ([]*domain.Reminder, error) {
	query := `
		SELECT id, contact_id, user_id, scheduled_time, reminder_type,
		       status, notified, snoozed, created_at, updated_at
		FROM reminders
		WHERE scheduled_time <= $1
		  AND status IN ('scheduled', 'snoozed')
		  AND notified = FALSE
		ORDER BY scheduled_time
	`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReminders(rows)
}

// Delete removes a reminder from the database.
func (r *PostgresReminderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrReminderNotFound
	}
	return nil
}

func scanReminders(rows pgx.Rows) ([]*domain.Reminder, error) {
	reminders := make([]*domain.Reminder, 0)

	for rows.Next() {
		var row reminderRow
		err := rows.Scan(
			&row.ID,
			&row.ContactID,
			&row.UserID,
			&row.ScheduledTime,
			&row.ReminderType,
			&row.Status,
			&row.Notified,
			&row.Snoozed,
			&row.CreatedAt,
			&row.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, rowToReminder(row))
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reminders, nil
}

func rowToReminder(row reminderRow) *domain.Reminder {
	return domain.RehydrateReminder(
		row.ID,
		row.ContactID,
		row.UserID,
		row.ScheduledTime,
		domain.ReminderType(row.ReminderType),
		domain.SchedulingStatus(row.Status),
		row.Notified,
		row.Snoozed,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

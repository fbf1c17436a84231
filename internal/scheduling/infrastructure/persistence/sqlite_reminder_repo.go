package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/felixgeelhaar/touchbase/internal/scheduling/domain"
	"github.com/google/uuid"
)

// SQLiteReminderRepository implements domain.ReminderRepository using SQLite.
// Timestamps are stored as RFC 3339 strings and UUIDs as their text form,
// matching the rest of the local-mode schema.
type SQLiteReminderRepository struct {
	dbConn *sql.DB
}

// NewSQLiteReminderRepository creates a new SQLite reminder repository.
func NewSQLiteReminderRepository(dbConn *sql.DB) *SQLiteReminderRepository {
	return &SQLiteReminderRepository{dbConn: dbConn}
}

// Save persists a reminder to the database.
func (r *SQLiteReminderRepository) Save(ctx context.Context, reminder *domain.Reminder) error {
	query := `
		INSERT INTO reminders (
			id, contact_id, user_id, scheduled_time, reminder_type,
			status, notified, snoozed, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			scheduled_time = excluded.scheduled_time,
			reminder_type = excluded.reminder_type,
			status = excluded.status,
			notified = excluded.notified,
			snoozed = excluded.snoozed,
			updated_at = excluded.updated_at
	`

	_, err := r.dbConn.ExecContext(ctx, query,
		reminder.ID().String(),
		reminder.ContactID().String(),
		reminder.UserID().String(),
		reminder.ScheduledTime().Format(time.RFC3339),
		string(reminder.Type()),
		string(reminder.Status()),
		boolToInt64(reminder.IsNotified()),
		boolToInt64(reminder.IsSnoozed()),
		reminder.CreatedAt().Format(time.RFC3339),
		reminder.UpdatedAt().Format(time.RFC3339),
	)
	return err
}

// FindByID retrieves a reminder by its ID.
func (r *SQLiteReminderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Reminder, error) {
	query := `
		SELECT id, contact_id, user_id, scheduled_time, reminder_type,
		       status, notified, snoozed, created_at, updated_at
		FROM reminders
		WHERE id = ?
	`

	reminder, err := scanSQLiteReminder(r.dbConn.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReminderNotFound
		}
		return nil, err
	}
	return reminder, nil
}

// ListInWindow retrieves a user's active reminders scheduled within [start, end).
func (r *SQLiteReminderRepository) ListInWindow(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Reminder, error) {
	query := `
		SELECT id, contact_id, user_id, scheduled_time, reminder_type,
		       status, notified, snoozed, created_at, updated_at
		FROM reminders
		WHERE user_id = ?
		  AND scheduled_time >= ? AND scheduled_time < ?
		  AND status IN ('scheduled', 'snoozed')
		ORDER BY scheduled_time
	`

	rows, err := r.dbConn.QueryContext(ctx, query,
		userID.String(),
		start.Format(time.RFC3339),
		end.Format(time.RFC3339),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteReminders(rows)
}

// ListByContact retrieves all reminders for a contact.
func (r *SQLiteReminderRepository) ListByContact(ctx context.Context, contactID, userID uuid.UUID) ([]*domain.Reminder, error) {
	query := `
		SELECT id, contact_id, user_id, scheduled_time, reminder_type,
		       status, notified, snoozed, created_at, updated_at
		FROM reminders
		WHERE contact_id = ? AND user_id = ?
		ORDER BY scheduled_time DESC
	`

	rows, err := r.dbConn.QueryContext(ctx, query, contactID.String(), userID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteReminders(rows)
}

// ListDue retrieves active reminders whose scheduled instant is at or before now.
func (r *SQLiteReminderRepository) ListDue(ctx context.Context, now time.Time) ([]*domain.Reminder, error) {
	query := `
		SELECT id, contact_id, user_id, scheduled_time, reminder_type,
		       status, notified, snoozed, created_at, updated_at
		FROM reminders
		WHERE scheduled_time <= ?
		  AND status IN ('scheduled', 'snoozed')
		  AND notified = 0
		ORDER BY scheduled_time
	`

	rows, err := r.dbConn.QueryContext(ctx, query, now.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSQLiteReminders(rows)
}

// Delete removes a reminder from the database.
func (r *SQLiteReminderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.dbConn.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id.String())
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrReminderNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteReminder(row rowScanner) (*domain.Reminder, error) {
	var (
		id, contactID, userID       string
		scheduledTime, reminderType string
		status                      string
		notified, snoozed           int64
		createdAt, updatedAt        string
	)
	err := row.Scan(&id, &contactID, &userID, &scheduledTime, &reminderType,
		&status, &notified, &snoozed, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	reminderID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	cID, err := uuid.Parse(contactID)
	if err != nil {
		return nil, err
	}
	uID, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	scheduled, err := time.Parse(time.RFC3339, scheduledTime)
	if err != nil {
		return nil, err
	}
	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateReminder(
		reminderID,
		cID,
		uID,
		scheduled,
		domain.ReminderType(reminderType),
		domain.SchedulingStatus(status),
		notified != 0,
		snoozed != 0,
		created,
		updated,
	), nil
}

func scanSQLiteReminders(rows *sql.Rows) ([]*domain.Reminder, error) {
	reminders := make([]*domain.Reminder, 0)
	for rows.Next() {
		reminder, err := scanSQLiteReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reminders, nil
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

package persistence

import (
	"context"
	"database/sql"
)

// sqliteSchema is the local-mode schema. Applied idempotently on startup so
// the CLI works against a fresh database file without a migration step.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	relationship_type TEXT NOT NULL DEFAULT '',
	custom_schedule INTEGER NOT NULL DEFAULT 0,
	custom_preferences TEXT,
	priority TEXT NOT NULL DEFAULT 'normal',
	frequency TEXT NOT NULL DEFAULT 'monthly',
	custom_next_date TEXT,
	snooze_count INTEGER NOT NULL DEFAULT 0,
	last_snooze_type TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contacts_user_id ON contacts(user_id);

CREATE TABLE IF NOT EXISTS reminders (
	id TEXT PRIMARY KEY,
	contact_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	scheduled_time TEXT NOT NULL,
	reminder_type TEXT NOT NULL,
	status TEXT NOT NULL,
	notified INTEGER NOT NULL DEFAULT 0,
	snoozed INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reminders_user_time ON reminders(user_id, scheduled_time);
CREATE INDEX IF NOT EXISTS idx_reminders_contact ON reminders(contact_id);

CREATE TABLE IF NOT EXISTS contact_patterns (
	contact_id TEXT PRIMARY KEY,
	record TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS user_preferences (
	user_id TEXT PRIMARY KEY,
	preferences TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

// EnsureSQLiteSchema creates the local-mode tables if they do not exist.
func EnsureSQLiteSchema(ctx context.Context, dbConn *sql.DB) error {
	_, err := dbConn.ExecContext(ctx, sqliteSchema)
	return err
}

// ABOUTME: SQLite storage engine using modernc.org/sqlite with single-writer locking
// ABOUTME: Owns schema creation, additive migrations and the exclusive store lock

package engine

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrLocked is returned when another process holds the exclusive
// single-writer lock on the store file.
var ErrLocked = errors.New("store is locked by another instance")

// ErrDuplicate is returned on unique-constraint violations.
var ErrDuplicate = errors.New("already exists")

// Engine is the exclusive owner of one on-device SQLite store. It is
// constructed explicitly and injected into the host; it must only be
// driven from a single goroutine (the host loop serializes access).
type Engine struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens (creating if needed) the store at path and takes the
// exclusive file lock. Parent directories are created. Returns
// ErrLocked when another process already holds the lock, so callers
// can degrade instead of blocking.
func Open(path string) (*Engine, error) {
	logger := slog.Default().With("component", "engine")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	// One connection: the engine is single-writer by construction and
	// the exclusive lock lives on the connection.
	db.SetMaxOpenConns(1)

	// Fail immediately on contention instead of waiting; a second
	// instance must detect the lock during initialization.
	if _, err := db.Exec("PRAGMA busy_timeout=0"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy_timeout: %w", err)
	}

	if _, err := db.Exec("PRAGMA locking_mode=EXCLUSIVE"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting locking_mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	e := &Engine{db: db, path: path, logger: logger}

	// SQLITE_BUSY here means another instance owns the store.
	if err := e.createSchema(); err != nil {
		db.Close()
		if isLockedErr(err) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// On an existing store the schema statements are all no-op reads,
	// which under EXCLUSIVE locking hold only a shared lock. The write
	// below upgrades to the exclusive lock on every open, so a second
	// instance is rejected even when no migration ran.
	if err := e.acquireLock(); err != nil {
		db.Close()
		if isLockedErr(err) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("acquiring store lock: %w", err)
	}

	if err := e.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logger.Info("store opened", "path", path)
	return e, nil
}

// Close releases the store and its exclusive lock.
func (e *Engine) Close() error {
	e.logger.Info("closing store")
	return e.db.Close()
}

// Path returns the store file location.
func (e *Engine) Path() string {
	return e.path
}

// createSchema creates all tables and indices if they don't exist.
// Safe to run on every startup.
func (e *Engine) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS habits (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			emoji        TEXT NOT NULL DEFAULT '',
			color        TEXT NOT NULL DEFAULT '',
			type         TEXT NOT NULL,
			target_value REAL NOT NULL DEFAULT 0,
			unit         TEXT NOT NULL DEFAULT '',
			paused_until TEXT,
			archived_at  TEXT,
			tags         TEXT NOT NULL DEFAULT '[]',
			annotations  TEXT NOT NULL DEFAULT '{}',
			created_at   TEXT NOT NULL,
			updated_at   TEXT NOT NULL,

			CHECK (type IN ('BOOLEAN', 'NUMERIC', 'LIMIT'))
		);

		CREATE INDEX IF NOT EXISTS idx_habits_archived ON habits(archived_at);

		CREATE TABLE IF NOT EXISTS habit_schedules (
			id              TEXT PRIMARY KEY,
			habit_id        TEXT NOT NULL UNIQUE REFERENCES habits(id) ON DELETE CASCADE,
			schedule_type   TEXT NOT NULL,
			frequency_count INTEGER NOT NULL DEFAULT 0,
			days_of_week    TEXT NOT NULL DEFAULT '[]',
			due_time        TEXT NOT NULL DEFAULT '',

			CHECK (schedule_type IN ('DAILY', 'WEEKLY_FLEX', 'SPECIFIC_DAYS'))
		);

		CREATE TABLE IF NOT EXISTS completions (
			id         TEXT PRIMARY KEY,
			habit_id   TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
			date       TEXT NOT NULL,
			created_at TEXT NOT NULL,

			UNIQUE (habit_id, date)
		);

		CREATE INDEX IF NOT EXISTS idx_completions_date ON completions(date);

		CREATE TABLE IF NOT EXISTS habit_logs (
			id         TEXT PRIMARY KEY,
			habit_id   TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
			date       TEXT NOT NULL,
			value      REAL NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_habit_logs_habit_date ON habit_logs(habit_id, date);
		CREATE INDEX IF NOT EXISTS idx_habit_logs_date ON habit_logs(date);

		CREATE TABLE IF NOT EXISTS reminders (
			id           TEXT PRIMARY KEY,
			habit_id     TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
			trigger_time TEXT NOT NULL,
			days_active  TEXT NOT NULL DEFAULT '[]'
		);

		CREATE INDEX IF NOT EXISTS idx_reminders_habit ON reminders(habit_id);

		CREATE TABLE IF NOT EXISTS checkin_templates (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			archived_at TEXT,
			created_at  TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS checkin_questions (
			id          TEXT PRIMARY KEY,
			template_id TEXT NOT NULL REFERENCES checkin_templates(id) ON DELETE CASCADE,
			prompt      TEXT NOT NULL,
			position    INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_checkin_questions_template
			ON checkin_questions(template_id, position);

		CREATE TABLE IF NOT EXISTS checkin_responses (
			id          TEXT PRIMARY KEY,
			question_id TEXT NOT NULL REFERENCES checkin_questions(id) ON DELETE CASCADE,
			date        TEXT NOT NULL,
			response    TEXT NOT NULL,

			UNIQUE (question_id, date)
		);

		CREATE INDEX IF NOT EXISTS idx_checkin_responses_date ON checkin_responses(date);

		CREATE TABLE IF NOT EXISTS checkin_entries (
			date       TEXT PRIMARY KEY,
			body       TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS checkin_reminders (
			id           TEXT PRIMARY KEY,
			template_id  TEXT NOT NULL REFERENCES checkin_templates(id) ON DELETE CASCADE,
			trigger_time TEXT NOT NULL,
			days_active  TEXT NOT NULL DEFAULT '[]'
		);

		CREATE TABLE IF NOT EXISTS scribbles (
			id          TEXT PRIMARY KEY,
			body        TEXT NOT NULL,
			tags        TEXT NOT NULL DEFAULT '[]',
			annotations TEXT NOT NULL DEFAULT '{}',
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS todos (
			id                TEXT PRIMARY KEY,
			title             TEXT NOT NULL,
			notes             TEXT NOT NULL DEFAULT '',
			due_date          TEXT,
			priority          TEXT NOT NULL DEFAULT 'MEDIUM',
			recurrence        TEXT NOT NULL DEFAULT '',
			show_in_bored     INTEGER NOT NULL DEFAULT 0,
			estimate_minutes  INTEGER,
			bored_category_id TEXT,
			done_at           TEXT,
			archived_at       TEXT,
			created_at        TEXT NOT NULL,
			updated_at        TEXT NOT NULL,

			CHECK (priority IN ('LOW', 'MEDIUM', 'HIGH')),
			CHECK (recurrence IN ('', 'DAILY', 'WEEKLY', 'MONTHLY'))
		);

		CREATE INDEX IF NOT EXISTS idx_todos_due ON todos(due_date);
		CREATE INDEX IF NOT EXISTS idx_todos_bored ON todos(show_in_bored);

		CREATE TABLE IF NOT EXISTS bored_categories (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			archived_at TEXT
		);

		CREATE TABLE IF NOT EXISTS bored_activities (
			id               TEXT PRIMARY KEY,
			category_id      TEXT NOT NULL REFERENCES bored_categories(id) ON DELETE CASCADE,
			title            TEXT NOT NULL,
			estimate_minutes INTEGER,
			done_count       INTEGER NOT NULL DEFAULT 0,
			is_done          INTEGER NOT NULL DEFAULT 0,
			recurring        INTEGER NOT NULL DEFAULT 0,
			archived_at      TEXT,
			created_at       TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_bored_activities_category
			ON bored_activities(category_id);
	`

	_, err := e.db.Exec(schema)
	return err
}

// acquireLock performs an unconditional write so the connection holds
// the exclusive lock for its whole lifetime. Under EXCLUSIVE locking
// mode the lock, once taken by a write, is only released on close.
func (e *Engine) acquireLock() error {
	_, err := e.db.Exec(`
		INSERT INTO meta (key, value) VALUES ('opened_at', ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		now(),
	)
	return err
}

// runMigrations applies schema migrations for stores created by older
// versions. Additive only, and idempotent - safe to run multiple times.
// SQLite has no ADD COLUMN IF NOT EXISTS, so each one checks first.
func (e *Engine) runMigrations() error {
	migrations := []struct {
		check  string
		apply  string
		table  string
		column string
	}{
		{
			check:  `SELECT 1 FROM pragma_table_info('habits') WHERE name = 'unit'`,
			apply:  `ALTER TABLE habits ADD COLUMN unit TEXT NOT NULL DEFAULT ''`,
			table:  "habits",
			column: "unit",
		},
		{
			check:  `SELECT 1 FROM pragma_table_info('todos') WHERE name = 'estimate_minutes'`,
			apply:  `ALTER TABLE todos ADD COLUMN estimate_minutes INTEGER`,
			table:  "todos",
			column: "estimate_minutes",
		},
		{
			check:  `SELECT 1 FROM pragma_table_info('scribbles') WHERE name = 'annotations'`,
			apply:  `ALTER TABLE scribbles ADD COLUMN annotations TEXT NOT NULL DEFAULT '{}'`,
			table:  "scribbles",
			column: "annotations",
		},
	}

	for _, m := range migrations {
		var exists int
		err := e.db.QueryRow(m.check).Scan(&exists)
		if err == nil {
			continue
		}
		if _, err := e.db.Exec(m.apply); err != nil {
			return fmt.Errorf("adding %s column to %s: %w", m.column, m.table, err)
		}
		e.logger.Info("applied migration", "column", m.column, "table", m.table)
	}

	return nil
}

// isLockedErr checks whether err is SQLite lock contention.
func isLockedErr(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "SQLITE_BUSY")
}

// isConstraintViolation checks whether err is a constraint failure.
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "constraint failed")
}

// now returns the current instant as an RFC 3339 UTC timestamp.
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// today returns the current calendar date as YYYY-MM-DD.
func today() string {
	return time.Now().Format("2006-01-02")
}

// nullable maps empty strings to NULL for insertion.
func nullable(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

// strPtr converts a scanned NULL-able column into an optional string.
func strPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// Package engine owns the SQLite store and implements every domain
// operation against it.
//
// # Overview
//
// Exactly one Engine may hold a store at a time: Open takes an
// exclusive lock and returns ErrLocked when another instance already
// holds it. All reads and writes go through Engine methods; no other
// package touches the database.
//
// # Schema
//
// Open creates the schema idempotently (CREATE TABLE IF NOT EXISTS)
// and applies additive column migrations guarded by pragma_table_info
// checks, so reopening an old store upgrades it in place. Foreign keys
// and WAL are enabled per connection.
//
// # Conventions
//
//   - Ids are UUID strings assigned on insert.
//   - Timestamps are RFC3339 UTC strings; calendar dates are
//     YYYY-MM-DD strings, which order lexicographically the same as
//     chronologically.
//   - Deletes are soft where history matters (archived_at) and hard
//     where it does not (scribbles, reminders).
//   - Missing rows surface as ErrNotFound.
//
// # Domain Areas
//
// Habits and their schedules, completions (toggle and streaks), habit
// logs (additive values and absolute day totals), todos with
// recurrence, check-in templates/questions/responses/entries,
// reminders, scribbles, the bored suggestion pool, export/import and
// maintenance (integrity check, diagnostics).
package engine

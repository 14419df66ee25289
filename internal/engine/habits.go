// ABOUTME: Habit and schedule persistence plus the pause-window state machine
// ABOUTME: Maintains the one-active-schedule-per-habit invariant transactionally

package engine

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/tendril-app/tendril/internal/protocol"
)

const habitColumns = `id, name, emoji, color, type, target_value, unit,
	paused_until, archived_at, tags, annotations, created_at, updated_at`

// CreateHabit inserts a habit together with its schedule in one
// transaction, so every non-archived habit has exactly one schedule
// from its first moment.
func (e *Engine) CreateHabit(ctx context.Context, p *protocol.CreateHabitParams) (*protocol.Habit, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	ts := now()
	h := &protocol.Habit{
		ID:          uuid.New().String(),
		Name:        p.Name,
		Emoji:       p.Emoji,
		Color:       p.Color,
		Type:        p.Type,
		TargetValue: p.TargetValue,
		Unit:        p.Unit,
		Tags:        p.Tags,
		Annotations: p.Annotations,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	tags, annotations, err := marshalTagsAnnotations(h.Tags, h.Annotations)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO habits (id, name, emoji, color, type, target_value, unit, tags, annotations, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, h.ID, h.Name, h.Emoji, h.Color, h.Type, h.TargetValue, h.Unit, tags, annotations, ts, ts)
	if err != nil {
		return nil, fmt.Errorf("inserting habit: %w", err)
	}

	if err := insertSchedule(ctx, tx, h.ID, &p.Schedule); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing habit: %w", err)
	}

	e.logger.Debug("created habit", "id", h.ID, "type", h.Type)
	return h, nil
}

// UpdateHabit replaces a habit's display attributes, target, tags and
// annotations. Returns ErrNotFound if the habit doesn't exist.
func (e *Engine) UpdateHabit(ctx context.Context, p *protocol.UpdateHabitParams) (*protocol.Habit, error) {
	tags, annotations, err := marshalTagsAnnotations(p.Tags, p.Annotations)
	if err != nil {
		return nil, err
	}

	result, err := e.db.ExecContext(ctx, `
		UPDATE habits
		SET name = ?, emoji = ?, color = ?, target_value = ?, unit = ?,
		    tags = ?, annotations = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, p.Emoji, p.Color, p.TargetValue, p.Unit, tags, annotations, now(), p.ID)
	if err != nil {
		return nil, fmt.Errorf("updating habit: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	return e.GetHabit(ctx, p.ID)
}

// ArchiveHabit soft-deletes a habit. The row and its history stay.
func (e *Engine) ArchiveHabit(ctx context.Context, id string) error {
	result, err := e.db.ExecContext(ctx,
		`UPDATE habits SET archived_at = ?, updated_at = ? WHERE id = ? AND archived_at IS NULL`,
		now(), now(), id)
	if err != nil {
		return fmt.Errorf("archiving habit: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetHabit retrieves one habit by id, archived or not.
func (e *Engine) GetHabit(ctx context.Context, id string) (*protocol.Habit, error) {
	row := e.db.QueryRowContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	return scanHabit(row)
}

// ListHabits returns habits ordered by creation time, newest last.
// Archived habits are excluded unless includeArchived is set.
func (e *Engine) ListHabits(ctx context.Context, includeArchived bool) ([]protocol.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits`
	if !includeArchived {
		query += ` WHERE archived_at IS NULL`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying habits: %w", err)
	}
	defer rows.Close()

	habits := []protocol.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

// PauseHabit sets paused_until. The habit counts as paused while
// paused_until >= today.
func (e *Engine) PauseHabit(ctx context.Context, id, until string) error {
	result, err := e.db.ExecContext(ctx,
		`UPDATE habits SET paused_until = ?, updated_at = ? WHERE id = ?`,
		until, now(), id)
	if err != nil {
		return fmt.Errorf("pausing habit: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ResumeHabit clears paused_until.
func (e *Engine) ResumeHabit(ctx context.Context, id string) error {
	result, err := e.db.ExecContext(ctx,
		`UPDATE habits SET paused_until = NULL, updated_at = ? WHERE id = ?`,
		now(), id)
	if err != nil {
		return fmt.Errorf("resuming habit: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// PauseAll pauses every non-archived habit until the given date.
func (e *Engine) PauseAll(ctx context.Context, until string) error {
	_, err := e.db.ExecContext(ctx,
		`UPDATE habits SET paused_until = ?, updated_at = ? WHERE archived_at IS NULL`,
		until, now())
	if err != nil {
		return fmt.Errorf("pausing all habits: %w", err)
	}
	return nil
}

// ResumeAll clears the pause window on every non-archived habit.
func (e *Engine) ResumeAll(ctx context.Context) error {
	_, err := e.db.ExecContext(ctx,
		`UPDATE habits SET paused_until = NULL, updated_at = ? WHERE archived_at IS NULL AND paused_until IS NOT NULL`,
		now())
	if err != nil {
		return fmt.Errorf("resuming all habits: %w", err)
	}
	return nil
}

// IsPaused reports the pause predicate for a habit as of date:
// paused_until is set and >= date. ISO dates compare lexicographically
// in chronological order, so plain string comparison is correct.
func IsPaused(h *protocol.Habit, date string) bool {
	return h.PausedUntil != nil && *h.PausedUntil >= date
}

// IsHabitDone evaluates the per-type done predicate for one date:
// BOOLEAN habits need a completion row, NUMERIC habits need the summed
// logs to reach target_value, LIMIT habits need the sum to stay under.
func (e *Engine) IsHabitDone(ctx context.Context, habitID, date string) (bool, error) {
	h, err := e.GetHabit(ctx, habitID)
	if err != nil {
		return false, err
	}

	switch h.Type {
	case protocol.HabitBoolean:
		var exists int
		err := e.db.QueryRowContext(ctx,
			`SELECT 1 FROM completions WHERE habit_id = ? AND date = ?`,
			habitID, date).Scan(&exists)
		if err == sql.ErrNoRows {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("checking completion: %w", err)
		}
		return true, nil

	case protocol.HabitNumeric:
		total, err := e.DayTotal(ctx, habitID, date)
		if err != nil {
			return false, err
		}
		return total >= h.TargetValue, nil

	case protocol.HabitLimit:
		total, err := e.DayTotal(ctx, habitID, date)
		if err != nil {
			return false, err
		}
		return total < h.TargetValue, nil
	}

	return false, fmt.Errorf("unknown habit type %q", h.Type)
}

// ReplaceSchedule swaps the habit's active schedule for a new one in a
// single transaction, preserving the one-schedule invariant.
func (e *Engine) ReplaceSchedule(ctx context.Context, habitID string, p *protocol.ScheduleParams) (*protocol.HabitSchedule, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM habits WHERE id = ?`, habitID).Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("checking habit: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM habit_schedules WHERE habit_id = ?`, habitID); err != nil {
		return nil, fmt.Errorf("clearing schedule: %w", err)
	}
	if err := insertSchedule(ctx, tx, habitID, p); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing schedule: %w", err)
	}
	return e.GetSchedule(ctx, habitID)
}

// GetSchedule returns the active schedule for a habit.
func (e *Engine) GetSchedule(ctx context.Context, habitID string) (*protocol.HabitSchedule, error) {
	row := e.db.QueryRowContext(ctx, `
		SELECT id, habit_id, schedule_type, frequency_count, days_of_week, due_time
		FROM habit_schedules WHERE habit_id = ?
	`, habitID)

	var s protocol.HabitSchedule
	var days string
	err := row.Scan(&s.ID, &s.HabitID, &s.ScheduleType, &s.FrequencyCount, &days, &s.DueTime)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying schedule: %w", err)
	}
	if err := json.Unmarshal([]byte(days), &s.DaysOfWeek); err != nil {
		return nil, fmt.Errorf("parsing days_of_week: %w", err)
	}
	return &s, nil
}

func insertSchedule(ctx context.Context, tx *sql.Tx, habitID string, p *protocol.ScheduleParams) error {
	days, err := json.Marshal(emptyIfNilInts(p.DaysOfWeek))
	if err != nil {
		return fmt.Errorf("encoding days_of_week: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO habit_schedules (id, habit_id, schedule_type, frequency_count, days_of_week, due_time)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), habitID, p.ScheduleType, p.FrequencyCount, string(days), p.DueTime)
	if err != nil {
		return fmt.Errorf("inserting schedule: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (*protocol.Habit, error) {
	var h protocol.Habit
	var pausedUntil, archivedAt sql.NullString
	var tags, annotations string

	err := row.Scan(&h.ID, &h.Name, &h.Emoji, &h.Color, &h.Type, &h.TargetValue,
		&h.Unit, &pausedUntil, &archivedAt, &tags, &annotations, &h.CreatedAt, &h.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning habit: %w", err)
	}

	h.PausedUntil = strPtr(pausedUntil)
	h.ArchivedAt = strPtr(archivedAt)
	if err := json.Unmarshal([]byte(tags), &h.Tags); err != nil {
		return nil, fmt.Errorf("parsing tags: %w", err)
	}
	if err := json.Unmarshal([]byte(annotations), &h.Annotations); err != nil {
		return nil, fmt.Errorf("parsing annotations: %w", err)
	}
	return &h, nil
}

func marshalTagsAnnotations(tags []string, annotations map[string]string) (string, string, error) {
	if tags == nil {
		tags = []string{}
	}
	if annotations == nil {
		annotations = map[string]string{}
	}
	t, err := json.Marshal(tags)
	if err != nil {
		return "", "", fmt.Errorf("encoding tags: %w", err)
	}
	a, err := json.Marshal(annotations)
	if err != nil {
		return "", "", fmt.Errorf("encoding annotations: %w", err)
	}
	return string(t), string(a), nil
}

func emptyIfNilInts(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

// ABOUTME: Numeric habit log persistence with additive daily-sum semantics
// ABOUTME: SetLogTotal is the delete-then-insert path for absolute values

package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tendril-app/tendril/internal/protocol"
)

// AddLog always inserts a new log row; daily totals accumulate by
// summation, so repeated logs on one date add up.
func (e *Engine) AddLog(ctx context.Context, habitID, date string, value float64) (*protocol.HabitLog, error) {
	l := &protocol.HabitLog{
		ID:        uuid.New().String(),
		HabitID:   habitID,
		Date:      date,
		Value:     value,
		CreatedAt: now(),
	}

	_, err := e.db.ExecContext(ctx,
		`INSERT INTO habit_logs (id, habit_id, date, value, created_at) VALUES (?, ?, ?, ?, ?)`,
		l.ID, l.HabitID, l.Date, l.Value, l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting log: %w", err)
	}
	return l, nil
}

// SetLogTotal replaces the day's accumulated value with an absolute
// one: delete existing rows for (habit, date), then insert a single
// row. The two statements run in one transaction so a failure can't
// leave the day half-cleared.
func (e *Engine) SetLogTotal(ctx context.Context, habitID, date string, value float64) (*protocol.HabitLog, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM habit_logs WHERE habit_id = ? AND date = ?`, habitID, date); err != nil {
		return nil, fmt.Errorf("clearing logs: %w", err)
	}

	l := &protocol.HabitLog{
		ID:        uuid.New().String(),
		HabitID:   habitID,
		Date:      date,
		Value:     value,
		CreatedAt: now(),
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO habit_logs (id, habit_id, date, value, created_at) VALUES (?, ?, ?, ?, ?)`,
		l.ID, l.HabitID, l.Date, l.Value, l.CreatedAt); err != nil {
		return nil, fmt.Errorf("inserting log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing log total: %w", err)
	}
	return l, nil
}

// DayTotal sums the day's log values. Missing rows sum to zero.
func (e *Engine) DayTotal(ctx context.Context, habitID, date string) (float64, error) {
	var total float64
	err := e.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(value), 0) FROM habit_logs WHERE habit_id = ? AND date = ?`,
		habitID, date).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing logs: %w", err)
	}
	return total, nil
}

// ListLogsForHabit returns a habit's logs, newest first.
func (e *Engine) ListLogsForHabit(ctx context.Context, habitID string) ([]protocol.HabitLog, error) {
	return e.listLogs(ctx,
		`SELECT id, habit_id, date, value, created_at FROM habit_logs WHERE habit_id = ? ORDER BY date DESC, created_at DESC`,
		habitID)
}

// ListLogsForDate returns every log on one date.
func (e *Engine) ListLogsForDate(ctx context.Context, date string) ([]protocol.HabitLog, error) {
	return e.listLogs(ctx,
		`SELECT id, habit_id, date, value, created_at FROM habit_logs WHERE date = ? ORDER BY habit_id, created_at`,
		date)
}

func (e *Engine) listLogs(ctx context.Context, query string, arg any) ([]protocol.HabitLog, error) {
	rows, err := e.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("querying logs: %w", err)
	}
	defer rows.Close()

	logs := []protocol.HabitLog{}
	for rows.Next() {
		var l protocol.HabitLog
		if err := rows.Scan(&l.ID, &l.HabitID, &l.Date, &l.Value, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// DeleteLogsForDate removes every log row for (habit, date).
func (e *Engine) DeleteLogsForDate(ctx context.Context, habitID, date string) error {
	_, err := e.db.ExecContext(ctx,
		`DELETE FROM habit_logs WHERE habit_id = ? AND date = ?`, habitID, date)
	if err != nil {
		return fmt.Errorf("deleting logs: %w", err)
	}
	return nil
}

// ABOUTME: Completion toggling for boolean habits and the derived streak walk
// ABOUTME: Toggle is an idempotent involution on the (habit, date) key

package engine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tendril-app/tendril/internal/protocol"
)

// ToggleCompletion flips the done mark for (habit, date): an existing
// row is deleted, a missing one inserted. Runs in one transaction;
// host-side serialization makes concurrent toggles for the same key
// safe by construction.
func (e *Engine) ToggleCompletion(ctx context.Context, habitID, date string) (bool, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM completions WHERE habit_id = ? AND date = ?`,
		habitID, date).Scan(&id)

	completed := false
	switch {
	case err == sql.ErrNoRows:
		_, err = tx.ExecContext(ctx,
			`INSERT INTO completions (id, habit_id, date, created_at) VALUES (?, ?, ?, ?)`,
			uuid.New().String(), habitID, date, now())
		if err != nil {
			return false, fmt.Errorf("inserting completion: %w", err)
		}
		completed = true
	case err != nil:
		return false, fmt.Errorf("checking completion: %w", err)
	default:
		if _, err = tx.ExecContext(ctx, `DELETE FROM completions WHERE id = ?`, id); err != nil {
			return false, fmt.Errorf("deleting completion: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing toggle: %w", err)
	}

	e.logger.Debug("toggled completion", "habit_id", habitID, "date", date, "completed", completed)
	return completed, nil
}

// ListCompletionsForDate returns every completion on one date.
func (e *Engine) ListCompletionsForDate(ctx context.Context, date string) ([]protocol.Completion, error) {
	return e.listCompletions(ctx,
		`SELECT id, habit_id, date, created_at FROM completions WHERE date = ? ORDER BY habit_id`, date)
}

// ListCompletionsForHabit returns a habit's completions, newest first.
func (e *Engine) ListCompletionsForHabit(ctx context.Context, habitID string) ([]protocol.Completion, error) {
	return e.listCompletions(ctx,
		`SELECT id, habit_id, date, created_at FROM completions WHERE habit_id = ? ORDER BY date DESC`, habitID)
}

func (e *Engine) listCompletions(ctx context.Context, query string, arg any) ([]protocol.Completion, error) {
	rows, err := e.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("querying completions: %w", err)
	}
	defer rows.Close()

	completions := []protocol.Completion{}
	for rows.Next() {
		var c protocol.Completion
		if err := rows.Scan(&c.ID, &c.HabitID, &c.Date, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// Streak walks backward day-by-day from the given date while a
// completion exists, stopping at the first gap. Purely derived, never
// stored. Meaningful for boolean habits only.
func (e *Engine) Streak(ctx context.Context, habitID, from string) (int, error) {
	day, err := time.Parse("2006-01-02", from)
	if err != nil {
		return 0, fmt.Errorf("parsing date %q: %w", from, err)
	}

	streak := 0
	for {
		var exists int
		err := e.db.QueryRowContext(ctx,
			`SELECT 1 FROM completions WHERE habit_id = ? AND date = ?`,
			habitID, day.Format("2006-01-02")).Scan(&exists)
		if err == sql.ErrNoRows {
			return streak, nil
		}
		if err != nil {
			return 0, fmt.Errorf("checking completion: %w", err)
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// ABOUTME: Todo persistence including recurrence advance on completion
// ABOUTME: Recurring todos roll their due date forward instead of being marked done

package engine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tendril-app/tendril/internal/protocol"
)

const todoColumns = `id, title, notes, due_date, priority, recurrence, show_in_bored,
	estimate_minutes, bored_category_id, done_at, archived_at, created_at, updated_at`

// CreateTodo adds a task.
func (e *Engine) CreateTodo(ctx context.Context, p *protocol.CreateTodoParams) (*protocol.Todo, error) {
	ts := now()
	t := &protocol.Todo{
		ID:              uuid.New().String(),
		Title:           p.Title,
		Notes:           p.Notes,
		DueDate:         p.DueDate,
		Priority:        p.Priority,
		Recurrence:      p.Recurrence,
		ShowInBored:     p.ShowInBored,
		EstimateMinutes: p.EstimateMinutes,
		CategoryID:      p.CategoryID,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}

	_, err := e.db.ExecContext(ctx, `
		INSERT INTO todos (id, title, notes, due_date, priority, recurrence, show_in_bored,
			estimate_minutes, bored_category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, t.Notes, nullable(t.DueDate), t.Priority, t.Recurrence,
		boolToInt(t.ShowInBored), intOrNil(t.EstimateMinutes), nullable(t.CategoryID), ts, ts)
	if err != nil {
		return nil, fmt.Errorf("inserting todo: %w", err)
	}
	return t, nil
}

// UpdateTodo replaces a task's mutable fields.
func (e *Engine) UpdateTodo(ctx context.Context, p *protocol.UpdateTodoParams) (*protocol.Todo, error) {
	result, err := e.db.ExecContext(ctx, `
		UPDATE todos
		SET title = ?, notes = ?, due_date = ?, priority = ?, recurrence = ?,
		    show_in_bored = ?, estimate_minutes = ?, bored_category_id = ?, updated_at = ?
		WHERE id = ?
	`, p.Title, p.Notes, nullable(p.DueDate), p.Priority, p.Recurrence,
		boolToInt(p.ShowInBored), intOrNil(p.EstimateMinutes), nullable(p.CategoryID), now(), p.ID)
	if err != nil {
		return nil, fmt.Errorf("updating todo: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return e.GetTodo(ctx, p.ID)
}

// CompleteTodo marks a task done. A recurring task is not marked done;
// its due date advances by the recurrence interval instead, anchored
// on the current due date (or today when none is set).
func (e *Engine) CompleteTodo(ctx context.Context, id string) (*protocol.Todo, error) {
	t, err := e.GetTodo(ctx, id)
	if err != nil {
		return nil, err
	}

	if t.Recurrence == "" {
		_, err = e.db.ExecContext(ctx,
			`UPDATE todos SET done_at = ?, updated_at = ? WHERE id = ?`, now(), now(), id)
		if err != nil {
			return nil, fmt.Errorf("completing todo: %w", err)
		}
		return e.GetTodo(ctx, id)
	}

	anchor := today()
	if t.DueDate != nil && *t.DueDate != "" {
		anchor = *t.DueDate
	}
	next, err := advanceDate(anchor, t.Recurrence)
	if err != nil {
		return nil, err
	}

	_, err = e.db.ExecContext(ctx,
		`UPDATE todos SET due_date = ?, updated_at = ? WHERE id = ?`, next, now(), id)
	if err != nil {
		return nil, fmt.Errorf("advancing todo: %w", err)
	}
	return e.GetTodo(ctx, id)
}

// advanceDate rolls an ISO date forward by one recurrence interval.
func advanceDate(date, recurrence string) (string, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("parsing date %q: %w", date, err)
	}
	switch recurrence {
	case protocol.RecurrenceDaily:
		d = d.AddDate(0, 0, 1)
	case protocol.RecurrenceWeekly:
		d = d.AddDate(0, 0, 7)
	case protocol.RecurrenceMonthly:
		d = d.AddDate(0, 1, 0)
	default:
		return "", fmt.Errorf("unknown recurrence %q", recurrence)
	}
	return d.Format("2006-01-02"), nil
}

// ArchiveTodo soft-deletes a task.
func (e *Engine) ArchiveTodo(ctx context.Context, id string) error {
	result, err := e.db.ExecContext(ctx,
		`UPDATE todos SET archived_at = ?, updated_at = ? WHERE id = ? AND archived_at IS NULL`,
		now(), now(), id)
	if err != nil {
		return fmt.Errorf("archiving todo: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetTodo retrieves one task by id.
func (e *Engine) GetTodo(ctx context.Context, id string) (*protocol.Todo, error) {
	row := e.db.QueryRowContext(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = ?`, id)
	return scanTodo(row)
}

// ListTodos returns tasks ordered by due date then creation. Done and
// archived tasks are excluded unless requested.
func (e *Engine) ListTodos(ctx context.Context, includeDone, includeArchived bool) ([]protocol.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE 1=1`
	if !includeDone {
		query += ` AND done_at IS NULL`
	}
	if !includeArchived {
		query += ` AND archived_at IS NULL`
	}
	query += ` ORDER BY due_date IS NULL, due_date, created_at`

	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}
	defer rows.Close()

	todos := []protocol.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *t)
	}
	return todos, rows.Err()
}

func scanTodo(row rowScanner) (*protocol.Todo, error) {
	var t protocol.Todo
	var dueDate, categoryID, doneAt, archivedAt sql.NullString
	var estimate sql.NullInt64
	var showInBored int

	err := row.Scan(&t.ID, &t.Title, &t.Notes, &dueDate, &t.Priority, &t.Recurrence,
		&showInBored, &estimate, &categoryID, &doneAt, &archivedAt, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning todo: %w", err)
	}

	t.DueDate = strPtr(dueDate)
	t.CategoryID = strPtr(categoryID)
	t.DoneAt = strPtr(doneAt)
	t.ArchivedAt = strPtr(archivedAt)
	t.ShowInBored = showInBored != 0
	if estimate.Valid {
		v := int(estimate.Int64)
		t.EstimateMinutes = &v
	}
	return &t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

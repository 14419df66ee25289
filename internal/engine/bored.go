// ABOUTME: Bored suggestion pool with the weighted-random oracle draw
// ABOUTME: Draws uniformly from eligible activities plus show-in-bored todos

package engine

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/tendril-app/tendril/internal/protocol"
)

// CreateBoredCategory adds a suggestion category.
func (e *Engine) CreateBoredCategory(ctx context.Context, name string) (*protocol.BoredCategory, error) {
	c := &protocol.BoredCategory{ID: uuid.New().String(), Name: name}
	_, err := e.db.ExecContext(ctx,
		`INSERT INTO bored_categories (id, name) VALUES (?, ?)`, c.ID, c.Name)
	if err != nil {
		return nil, fmt.Errorf("inserting category: %w", err)
	}
	return c, nil
}

// RenameBoredCategory updates a category's name.
func (e *Engine) RenameBoredCategory(ctx context.Context, id, name string) error {
	result, err := e.db.ExecContext(ctx,
		`UPDATE bored_categories SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("renaming category: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ArchiveBoredCategory soft-deletes a category; its activities drop
// out of the draw pool but stay in the store.
func (e *Engine) ArchiveBoredCategory(ctx context.Context, id string) error {
	result, err := e.db.ExecContext(ctx,
		`UPDATE bored_categories SET archived_at = ? WHERE id = ? AND archived_at IS NULL`,
		now(), id)
	if err != nil {
		return fmt.Errorf("archiving category: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBoredCategories returns non-archived categories by name.
func (e *Engine) ListBoredCategories(ctx context.Context) ([]protocol.BoredCategory, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT id, name, archived_at FROM bored_categories WHERE archived_at IS NULL ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	categories := []protocol.BoredCategory{}
	for rows.Next() {
		var c protocol.BoredCategory
		var archivedAt sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &archivedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		c.ArchivedAt = strPtr(archivedAt)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

const activityColumns = `id, category_id, title, estimate_minutes, done_count,
	is_done, recurring, archived_at, created_at`

// CreateBoredActivity adds a suggestion-pool item.
func (e *Engine) CreateBoredActivity(ctx context.Context, p *protocol.CreateActivityParams) (*protocol.BoredActivity, error) {
	a := &protocol.BoredActivity{
		ID:              uuid.New().String(),
		CategoryID:      p.CategoryID,
		Title:           p.Title,
		EstimateMinutes: p.EstimateMinutes,
		Recurring:       p.Recurring,
		CreatedAt:       now(),
	}
	_, err := e.db.ExecContext(ctx, `
		INSERT INTO bored_activities (id, category_id, title, estimate_minutes, recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.ID, a.CategoryID, a.Title, intOrNil(a.EstimateMinutes), boolToInt(a.Recurring), a.CreatedAt)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("category %s: %w", p.CategoryID, ErrNotFound)
		}
		return nil, fmt.Errorf("inserting activity: %w", err)
	}
	return a, nil
}

// UpdateBoredActivity replaces an activity's fields.
func (e *Engine) UpdateBoredActivity(ctx context.Context, p *protocol.UpdateActivityParams) error {
	result, err := e.db.ExecContext(ctx, `
		UPDATE bored_activities
		SET category_id = ?, title = ?, estimate_minutes = ?, recurring = ?
		WHERE id = ?
	`, p.CategoryID, p.Title, intOrNil(p.EstimateMinutes), boolToInt(p.Recurring), p.ID)
	if err != nil {
		return fmt.Errorf("updating activity: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ArchiveBoredActivity soft-deletes an activity.
func (e *Engine) ArchiveBoredActivity(ctx context.Context, id string) error {
	result, err := e.db.ExecContext(ctx,
		`UPDATE bored_activities SET archived_at = ? WHERE id = ? AND archived_at IS NULL`,
		now(), id)
	if err != nil {
		return fmt.Errorf("archiving activity: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBoredActivities returns non-archived activities by category.
func (e *Engine) ListBoredActivities(ctx context.Context) ([]protocol.BoredActivity, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT `+activityColumns+` FROM bored_activities WHERE archived_at IS NULL ORDER BY category_id, title`)
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer rows.Close()

	activities := []protocol.BoredActivity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

// MarkActivityDone increments done_count and flips is_done. Recurring
// activities are reset by an outside process, not by the draw.
func (e *Engine) MarkActivityDone(ctx context.Context, id string) (*protocol.BoredActivity, error) {
	result, err := e.db.ExecContext(ctx,
		`UPDATE bored_activities SET done_count = done_count + 1, is_done = 1 WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("marking activity done: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	row := e.db.QueryRowContext(ctx,
		`SELECT `+activityColumns+` FROM bored_activities WHERE id = ?`, id)
	return scanActivity(row)
}

// Draw builds the eligible candidate set from activities (not
// archived, not done, category not excluded or archived, estimate
// within maxMinutes if given) and show-in-bored todos (not done, not
// archived, same filters), then picks uniformly at random from the
// union. Returns an empty result when the union is empty.
func (e *Engine) Draw(ctx context.Context, excludedCategoryIDs []string, maxMinutes *int) (*protocol.DrawResult, error) {
	activityQuery := `
		SELECT ` + prefixColumns("a", activityColumns) + `
		FROM bored_activities a
		JOIN bored_categories c ON c.id = a.category_id
		WHERE a.archived_at IS NULL AND a.is_done = 0 AND c.archived_at IS NULL`
	args := []any{}

	if len(excludedCategoryIDs) > 0 {
		activityQuery += ` AND a.category_id NOT IN (` + placeholders(len(excludedCategoryIDs)) + `)`
		for _, id := range excludedCategoryIDs {
			args = append(args, id)
		}
	}
	if maxMinutes != nil {
		activityQuery += ` AND a.estimate_minutes IS NOT NULL AND a.estimate_minutes <= ?`
		args = append(args, *maxMinutes)
	}

	rows, err := e.db.QueryContext(ctx, activityQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying draw activities: %w", err)
	}
	defer rows.Close()

	var activities []protocol.BoredActivity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	todoQuery := `SELECT ` + todoColumns + ` FROM todos
		WHERE show_in_bored = 1 AND done_at IS NULL AND archived_at IS NULL`
	todoArgs := []any{}
	if len(excludedCategoryIDs) > 0 {
		todoQuery += ` AND (bored_category_id IS NULL OR bored_category_id NOT IN (` +
			placeholders(len(excludedCategoryIDs)) + `))`
		for _, id := range excludedCategoryIDs {
			todoArgs = append(todoArgs, id)
		}
	}
	if maxMinutes != nil {
		todoQuery += ` AND estimate_minutes IS NOT NULL AND estimate_minutes <= ?`
		todoArgs = append(todoArgs, *maxMinutes)
	}

	todoRows, err := e.db.QueryContext(ctx, todoQuery, todoArgs...)
	if err != nil {
		return nil, fmt.Errorf("querying draw todos: %w", err)
	}
	defer todoRows.Close()

	var todos []protocol.Todo
	for todoRows.Next() {
		t, err := scanTodo(todoRows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *t)
	}
	if err := todoRows.Err(); err != nil {
		return nil, err
	}

	total := len(activities) + len(todos)
	if total == 0 {
		return &protocol.DrawResult{}, nil
	}

	pick := rand.IntN(total)
	if pick < len(activities) {
		return &protocol.DrawResult{Activity: &activities[pick]}, nil
	}
	return &protocol.DrawResult{Todo: &todos[pick-len(activities)]}, nil
}

func scanActivity(row rowScanner) (*protocol.BoredActivity, error) {
	var a protocol.BoredActivity
	var estimate sql.NullInt64
	var archivedAt sql.NullString
	var isDone, recurring int

	err := row.Scan(&a.ID, &a.CategoryID, &a.Title, &estimate, &a.DoneCount,
		&isDone, &recurring, &archivedAt, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning activity: %w", err)
	}

	a.IsDone = isDone != 0
	a.Recurring = recurring != 0
	a.ArchivedAt = strPtr(archivedAt)
	if estimate.Valid {
		v := int(estimate.Int64)
		a.EstimateMinutes = &v
	}
	return &a, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// prefixColumns qualifies a comma-separated column list with a table
// alias for joined queries.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// ABOUTME: Check-in templates, ordered questions, per-date responses and daily entries
// ABOUTME: Responses upsert by (question, date); the free-text entry upserts by date

package engine

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/tendril-app/tendril/internal/protocol"
)

// CreateCheckinTemplate adds a named template with no questions yet.
func (e *Engine) CreateCheckinTemplate(ctx context.Context, name string) (*protocol.CheckinTemplate, error) {
	t := &protocol.CheckinTemplate{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now(),
	}
	_, err := e.db.ExecContext(ctx,
		`INSERT INTO checkin_templates (id, name, created_at) VALUES (?, ?, ?)`,
		t.ID, t.Name, t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting template: %w", err)
	}
	return t, nil
}

// RenameCheckinTemplate updates a template's name.
func (e *Engine) RenameCheckinTemplate(ctx context.Context, id, name string) error {
	result, err := e.db.ExecContext(ctx,
		`UPDATE checkin_templates SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("renaming template: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ArchiveCheckinTemplate soft-deletes a template. Its questions and
// responses stay for history.
func (e *Engine) ArchiveCheckinTemplate(ctx context.Context, id string) error {
	result, err := e.db.ExecContext(ctx,
		`UPDATE checkin_templates SET archived_at = ? WHERE id = ? AND archived_at IS NULL`,
		now(), id)
	if err != nil {
		return fmt.Errorf("archiving template: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCheckinTemplates returns non-archived templates, oldest first.
func (e *Engine) ListCheckinTemplates(ctx context.Context) ([]protocol.CheckinTemplate, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT id, name, archived_at, created_at FROM checkin_templates WHERE archived_at IS NULL ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	templates := []protocol.CheckinTemplate{}
	for rows.Next() {
		var t protocol.CheckinTemplate
		var archivedAt sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &archivedAt, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		t.ArchivedAt = strPtr(archivedAt)
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// CreateCheckinQuestion appends a question to a template.
func (e *Engine) CreateCheckinQuestion(ctx context.Context, p *protocol.CreateQuestionParams) (*protocol.CheckinQuestion, error) {
	q := &protocol.CheckinQuestion{
		ID:         uuid.New().String(),
		TemplateID: p.TemplateID,
		Prompt:     p.Prompt,
		Position:   p.Position,
	}
	_, err := e.db.ExecContext(ctx,
		`INSERT INTO checkin_questions (id, template_id, prompt, position) VALUES (?, ?, ?, ?)`,
		q.ID, q.TemplateID, q.Prompt, q.Position)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("template %s: %w", p.TemplateID, ErrNotFound)
		}
		return nil, fmt.Errorf("inserting question: %w", err)
	}
	return q, nil
}

// UpdateCheckinQuestion rewrites a question's prompt and position.
func (e *Engine) UpdateCheckinQuestion(ctx context.Context, p *protocol.UpdateQuestionParams) error {
	result, err := e.db.ExecContext(ctx,
		`UPDATE checkin_questions SET prompt = ?, position = ? WHERE id = ?`,
		p.Prompt, p.Position, p.ID)
	if err != nil {
		return fmt.Errorf("updating question: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCheckinQuestion hard-deletes a question and, via cascade, its
// responses.
func (e *Engine) DeleteCheckinQuestion(ctx context.Context, id string) error {
	result, err := e.db.ExecContext(ctx, `DELETE FROM checkin_questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting question: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCheckinQuestions returns a template's questions in order.
func (e *Engine) ListCheckinQuestions(ctx context.Context, templateID string) ([]protocol.CheckinQuestion, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT id, template_id, prompt, position FROM checkin_questions WHERE template_id = ? ORDER BY position, id`,
		templateID)
	if err != nil {
		return nil, fmt.Errorf("querying questions: %w", err)
	}
	defer rows.Close()

	questions := []protocol.CheckinQuestion{}
	for rows.Next() {
		var q protocol.CheckinQuestion
		if err := rows.Scan(&q.ID, &q.TemplateID, &q.Prompt, &q.Position); err != nil {
			return nil, fmt.Errorf("scanning question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// UpsertCheckinResponse records the answer for (question, date),
// replacing any earlier answer for the same key.
func (e *Engine) UpsertCheckinResponse(ctx context.Context, p *protocol.UpsertResponseParams) (*protocol.CheckinResponse, error) {
	r := &protocol.CheckinResponse{
		ID:         uuid.New().String(),
		QuestionID: p.QuestionID,
		Date:       p.Date,
		Response:   p.Response,
	}
	_, err := e.db.ExecContext(ctx, `
		INSERT INTO checkin_responses (id, question_id, date, response)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (question_id, date) DO UPDATE SET response = excluded.response
	`, r.ID, r.QuestionID, r.Date, r.Response)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("question %s: %w", p.QuestionID, ErrNotFound)
		}
		return nil, fmt.Errorf("upserting response: %w", err)
	}

	// Re-read so the caller sees the row id that actually won.
	row := e.db.QueryRowContext(ctx,
		`SELECT id, question_id, date, response FROM checkin_responses WHERE question_id = ? AND date = ?`,
		p.QuestionID, p.Date)
	if err := row.Scan(&r.ID, &r.QuestionID, &r.Date, &r.Response); err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return r, nil
}

// ListCheckinResponsesForDate returns every response on one date.
func (e *Engine) ListCheckinResponsesForDate(ctx context.Context, date string) ([]protocol.CheckinResponse, error) {
	return e.listResponses(ctx,
		`SELECT id, question_id, date, response FROM checkin_responses WHERE date = ? ORDER BY question_id`, date)
}

// ListCheckinResponsesForQuestion returns a question's response
// history, newest first.
func (e *Engine) ListCheckinResponsesForQuestion(ctx context.Context, questionID string) ([]protocol.CheckinResponse, error) {
	return e.listResponses(ctx,
		`SELECT id, question_id, date, response FROM checkin_responses WHERE question_id = ? ORDER BY date DESC`, questionID)
}

func (e *Engine) listResponses(ctx context.Context, query string, arg any) ([]protocol.CheckinResponse, error) {
	rows, err := e.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("querying responses: %w", err)
	}
	defer rows.Close()

	responses := []protocol.CheckinResponse{}
	for rows.Next() {
		var r protocol.CheckinResponse
		if err := rows.Scan(&r.ID, &r.QuestionID, &r.Date, &r.Response); err != nil {
			return nil, fmt.Errorf("scanning response: %w", err)
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

// UpsertCheckinEntry records the free-text daily entry for a date.
func (e *Engine) UpsertCheckinEntry(ctx context.Context, date, body string) (*protocol.CheckinEntry, error) {
	entry := &protocol.CheckinEntry{Date: date, Body: body, UpdatedAt: now()}
	_, err := e.db.ExecContext(ctx, `
		INSERT INTO checkin_entries (date, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`, entry.Date, entry.Body, entry.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upserting entry: %w", err)
	}
	return entry, nil
}

// GetCheckinEntry returns the daily entry for one date.
func (e *Engine) GetCheckinEntry(ctx context.Context, date string) (*protocol.CheckinEntry, error) {
	var entry protocol.CheckinEntry
	err := e.db.QueryRowContext(ctx,
		`SELECT date, body, updated_at FROM checkin_entries WHERE date = ?`, date).
		Scan(&entry.Date, &entry.Body, &entry.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying entry: %w", err)
	}
	return &entry, nil
}

// ListCheckinEntries returns every daily entry, newest first.
func (e *Engine) ListCheckinEntries(ctx context.Context) ([]protocol.CheckinEntry, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT date, body, updated_at FROM checkin_entries ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	entries := []protocol.CheckinEntry{}
	for rows.Next() {
		var entry protocol.CheckinEntry
		if err := rows.Scan(&entry.Date, &entry.Body, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

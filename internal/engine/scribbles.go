// ABOUTME: Freeform scribble notes with tags and annotations
// ABOUTME: Hard-deleted on remove; no archive state to filter on

package engine

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/tendril-app/tendril/internal/protocol"
)

// CreateScribble adds a freeform note.
func (e *Engine) CreateScribble(ctx context.Context, p *protocol.CreateScribbleParams) (*protocol.Scribble, error) {
	tags, annotations, err := marshalTagsAnnotations(p.Tags, p.Annotations)
	if err != nil {
		return nil, err
	}

	ts := now()
	s := &protocol.Scribble{
		ID:          uuid.New().String(),
		Body:        p.Body,
		Tags:        p.Tags,
		Annotations: p.Annotations,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	_, err = e.db.ExecContext(ctx,
		`INSERT INTO scribbles (id, body, tags, annotations, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.Body, tags, annotations, ts, ts)
	if err != nil {
		return nil, fmt.Errorf("inserting scribble: %w", err)
	}
	return s, nil
}

// UpdateScribble replaces a scribble's body, tags and annotations.
func (e *Engine) UpdateScribble(ctx context.Context, p *protocol.UpdateScribbleParams) (*protocol.Scribble, error) {
	tags, annotations, err := marshalTagsAnnotations(p.Tags, p.Annotations)
	if err != nil {
		return nil, err
	}

	result, err := e.db.ExecContext(ctx,
		`UPDATE scribbles SET body = ?, tags = ?, annotations = ?, updated_at = ? WHERE id = ?`,
		p.Body, tags, annotations, now(), p.ID)
	if err != nil {
		return nil, fmt.Errorf("updating scribble: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return e.GetScribble(ctx, p.ID)
}

// DeleteScribble hard-deletes a scribble.
func (e *Engine) DeleteScribble(ctx context.Context, id string) error {
	result, err := e.db.ExecContext(ctx, `DELETE FROM scribbles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting scribble: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetScribble retrieves one scribble by id.
func (e *Engine) GetScribble(ctx context.Context, id string) (*protocol.Scribble, error) {
	row := e.db.QueryRowContext(ctx,
		`SELECT id, body, tags, annotations, created_at, updated_at FROM scribbles WHERE id = ?`, id)
	return scanScribble(row)
}

// ListScribbles returns every scribble, newest first.
func (e *Engine) ListScribbles(ctx context.Context) ([]protocol.Scribble, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT id, body, tags, annotations, created_at, updated_at FROM scribbles ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying scribbles: %w", err)
	}
	defer rows.Close()

	scribbles := []protocol.Scribble{}
	for rows.Next() {
		s, err := scanScribble(rows)
		if err != nil {
			return nil, err
		}
		scribbles = append(scribbles, *s)
	}
	return scribbles, rows.Err()
}

func scanScribble(row rowScanner) (*protocol.Scribble, error) {
	var s protocol.Scribble
	var tags, annotations string
	err := row.Scan(&s.ID, &s.Body, &tags, &annotations, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning scribble: %w", err)
	}
	if err := unmarshalTagsAnnotations(tags, annotations, &s.Tags, &s.Annotations); err != nil {
		return nil, err
	}
	return &s, nil
}

func unmarshalTagsAnnotations(tags, annotations string, tagsOut *[]string, annotationsOut *map[string]string) error {
	if err := json.Unmarshal([]byte(tags), tagsOut); err != nil {
		return fmt.Errorf("parsing tags: %w", err)
	}
	if err := json.Unmarshal([]byte(annotations), annotationsOut); err != nil {
		return fmt.Errorf("parsing annotations: %w", err)
	}
	return nil
}

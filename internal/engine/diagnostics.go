// ABOUTME: Store self-inspection for support bundles and consistency checks
// ABOUTME: Integrity check relays PRAGMA integrity_check output verbatim

package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tendril-app/tendril/internal/protocol"
)

// CheckIntegrity runs the storage engine's full consistency check.
// OK is true only when the engine reports the single line "ok"; any
// other output is surfaced untouched in Detail so it can be pasted
// into a support report.
func (e *Engine) CheckIntegrity(ctx context.Context) (*protocol.IntegrityResult, error) {
	rows, err := e.db.QueryContext(ctx, "PRAGMA integrity_check")
	if err != nil {
		return nil, fmt.Errorf("running integrity check: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scanning integrity result: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	detail := strings.Join(lines, "\n")
	return &protocol.IntegrityResult{OK: detail == "ok", Detail: detail}, nil
}

// Diagnostics snapshots the store layout: schema version plus every
// table and index with its creation SQL.
func (e *Engine) Diagnostics(ctx context.Context) (*protocol.Diagnostics, error) {
	d := &protocol.Diagnostics{
		Tables:  []protocol.SchemaObject{},
		Indexes: []protocol.SchemaObject{},
	}

	if err := e.db.QueryRowContext(ctx, "PRAGMA schema_version").Scan(&d.SchemaVersion); err != nil {
		return nil, fmt.Errorf("reading schema version: %w", err)
	}

	rows, err := e.db.QueryContext(ctx, `
		SELECT type, name, sql FROM sqlite_master
		WHERE type IN ('table', 'index') AND name NOT LIKE 'sqlite_%'
		ORDER BY type, name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying schema objects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var typ, name string
		var ddl sql.NullString
		if err := rows.Scan(&typ, &name, &ddl); err != nil {
			return nil, fmt.Errorf("scanning schema object: %w", err)
		}
		obj := protocol.SchemaObject{Name: name, SQL: ddl.String}
		if typ == "table" {
			d.Tables = append(d.Tables, obj)
		} else {
			d.Indexes = append(d.Indexes, obj)
		}
	}
	return d, rows.Err()
}

// ABOUTME: Whole-table export to the versioned backup document and import back
// ABOUTME: Import runs in one transaction, replace clears first, merge upserts by id

package engine

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/tendril-app/tendril/internal/protocol"
)

// exportTables is every table name the backup document carries, in
// dependency order so replace-mode import can insert parents first.
var exportTables = []string{
	"habits",
	"habit_schedules",
	"completions",
	"habit_logs",
	"reminders",
	"checkin_templates",
	"checkin_questions",
	"checkin_responses",
	"checkin_reminders",
	"checkin_entries",
	"scribbles",
}

// Export serializes the selected tables (all of them when the
// selection is empty) into a backup document. Archived and done rows
// are included; an export is a faithful copy, not a view.
func (e *Engine) Export(ctx context.Context, tables []string) (*protocol.ExportDocument, error) {
	selected := map[string]bool{}
	if len(tables) == 0 {
		for _, t := range exportTables {
			selected[t] = true
		}
	} else {
		known := map[string]bool{}
		for _, t := range exportTables {
			known[t] = true
		}
		for _, t := range tables {
			if !known[t] {
				return nil, fmt.Errorf("unknown export table %q", t)
			}
			selected[t] = true
		}
	}

	doc := &protocol.ExportDocument{
		Version:          protocol.ExportVersion,
		ExportedAt:       now(),
		Habits:           []protocol.Habit{},
		Completions:      []protocol.Completion{},
		HabitLogs:        []protocol.HabitLog{},
		HabitSchedules:   []protocol.HabitSchedule{},
		CheckinTemplates: []protocol.CheckinTemplate{},
		CheckinQuestions: []protocol.CheckinQuestion{},
		CheckinResponses: []protocol.CheckinResponse{},
		Reminders:        []protocol.Reminder{},
		CheckinReminders: []protocol.CheckinReminder{},
		Scribbles:        []protocol.Scribble{},
		CheckinEntries:   []protocol.CheckinEntry{},
	}

	var err error
	if selected["habits"] {
		doc.Habits, err = e.exportHabits(ctx)
		if err != nil {
			return nil, err
		}
	}
	if selected["habit_schedules"] {
		doc.HabitSchedules, err = e.exportSchedules(ctx)
		if err != nil {
			return nil, err
		}
	}
	if selected["completions"] {
		doc.Completions, err = e.ListCompletionsOrdered(ctx)
		if err != nil {
			return nil, err
		}
	}
	if selected["habit_logs"] {
		doc.HabitLogs, err = e.exportLogs(ctx)
		if err != nil {
			return nil, err
		}
	}
	if selected["reminders"] {
		doc.Reminders, err = e.ListReminders(ctx)
		if err != nil {
			return nil, err
		}
	}
	if selected["checkin_templates"] {
		doc.CheckinTemplates, err = e.exportTemplates(ctx)
		if err != nil {
			return nil, err
		}
	}
	if selected["checkin_questions"] {
		doc.CheckinQuestions, err = e.exportQuestions(ctx)
		if err != nil {
			return nil, err
		}
	}
	if selected["checkin_responses"] {
		doc.CheckinResponses, err = e.exportResponses(ctx)
		if err != nil {
			return nil, err
		}
	}
	if selected["checkin_reminders"] {
		doc.CheckinReminders, err = e.exportCheckinReminders(ctx)
		if err != nil {
			return nil, err
		}
	}
	if selected["checkin_entries"] {
		doc.CheckinEntries, err = e.ListCheckinEntries(ctx)
		if err != nil {
			return nil, err
		}
	}
	if selected["scribbles"] {
		doc.Scribbles, err = e.ListScribbles(ctx)
		if err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// Import applies a backup document in a single transaction. Replace
// mode clears every table the document can populate, then inserts;
// merge mode upserts row by row on the primary key so local rows not
// present in the document survive. Partial application never happens.
func (e *Engine) Import(ctx context.Context, doc *protocol.ExportDocument, mode string) (*protocol.ImportResult, error) {
	if doc.Version != protocol.ExportVersion {
		return nil, fmt.Errorf("unsupported export document version %d", doc.Version)
	}
	if mode != protocol.ImportModeReplace && mode != protocol.ImportModeMerge {
		return nil, fmt.Errorf("unknown import mode %q", mode)
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if mode == protocol.ImportModeReplace {
		// Children before parents so foreign keys never dangle mid-way.
		for i := len(exportTables) - 1; i >= 0; i-- {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+exportTables[i]); err != nil {
				return nil, fmt.Errorf("clearing %s: %w", exportTables[i], err)
			}
		}
	}

	inserted := map[string]int{}

	for _, h := range doc.Habits {
		tags, annotations, err := marshalTagsAnnotations(h.Tags, h.Annotations)
		if err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO habits (id, name, emoji, color, type, target_value, unit,
				paused_until, archived_at, tags, annotations, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name, emoji = excluded.emoji, color = excluded.color,
				type = excluded.type, target_value = excluded.target_value,
				unit = excluded.unit, paused_until = excluded.paused_until,
				archived_at = excluded.archived_at, tags = excluded.tags,
				annotations = excluded.annotations, updated_at = excluded.updated_at
		`, h.ID, h.Name, h.Emoji, h.Color, h.Type, h.TargetValue, h.Unit,
			nullable(h.PausedUntil), nullable(h.ArchivedAt), tags, annotations,
			h.CreatedAt, h.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("importing habit %s: %w", h.ID, err)
		}
		inserted["habits"]++
	}

	for _, s := range doc.HabitSchedules {
		days, err := json.Marshal(emptyIfNilInts(s.DaysOfWeek))
		if err != nil {
			return nil, fmt.Errorf("encoding days_of_week: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO habit_schedules (id, habit_id, schedule_type, frequency_count, days_of_week, due_time)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				habit_id = excluded.habit_id, schedule_type = excluded.schedule_type,
				frequency_count = excluded.frequency_count,
				days_of_week = excluded.days_of_week, due_time = excluded.due_time
		`, s.ID, s.HabitID, s.ScheduleType, s.FrequencyCount, string(days), s.DueTime)
		if err != nil {
			return nil, fmt.Errorf("importing schedule %s: %w", s.ID, err)
		}
		inserted["habit_schedules"]++
	}

	for _, c := range doc.Completions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO completions (id, habit_id, date, created_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				habit_id = excluded.habit_id, date = excluded.date
		`, c.ID, c.HabitID, c.Date, c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("importing completion %s: %w", c.ID, err)
		}
		inserted["completions"]++
	}

	for _, l := range doc.HabitLogs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO habit_logs (id, habit_id, date, value, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				habit_id = excluded.habit_id, date = excluded.date, value = excluded.value
		`, l.ID, l.HabitID, l.Date, l.Value, l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("importing habit log %s: %w", l.ID, err)
		}
		inserted["habit_logs"]++
	}

	for _, r := range doc.Reminders {
		days, err := json.Marshal(emptyIfNilInts(r.DaysActive))
		if err != nil {
			return nil, fmt.Errorf("encoding days_active: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO reminders (id, habit_id, trigger_time, days_active)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				habit_id = excluded.habit_id, trigger_time = excluded.trigger_time,
				days_active = excluded.days_active
		`, r.ID, r.HabitID, r.TriggerTime, string(days))
		if err != nil {
			return nil, fmt.Errorf("importing reminder %s: %w", r.ID, err)
		}
		inserted["reminders"]++
	}

	for _, t := range doc.CheckinTemplates {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO checkin_templates (id, name, archived_at, created_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				name = excluded.name, archived_at = excluded.archived_at
		`, t.ID, t.Name, nullable(t.ArchivedAt), t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("importing template %s: %w", t.ID, err)
		}
		inserted["checkin_templates"]++
	}

	for _, q := range doc.CheckinQuestions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO checkin_questions (id, template_id, prompt, position)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				template_id = excluded.template_id, prompt = excluded.prompt,
				position = excluded.position
		`, q.ID, q.TemplateID, q.Prompt, q.Position)
		if err != nil {
			return nil, fmt.Errorf("importing question %s: %w", q.ID, err)
		}
		inserted["checkin_questions"]++
	}

	for _, r := range doc.CheckinResponses {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO checkin_responses (id, question_id, date, response)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				question_id = excluded.question_id, date = excluded.date,
				response = excluded.response
		`, r.ID, r.QuestionID, r.Date, r.Response)
		if err != nil {
			return nil, fmt.Errorf("importing response %s: %w", r.ID, err)
		}
		inserted["checkin_responses"]++
	}

	for _, r := range doc.CheckinReminders {
		days, err := json.Marshal(emptyIfNilInts(r.DaysActive))
		if err != nil {
			return nil, fmt.Errorf("encoding days_active: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO checkin_reminders (id, template_id, trigger_time, days_active)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				template_id = excluded.template_id, trigger_time = excluded.trigger_time,
				days_active = excluded.days_active
		`, r.ID, r.TemplateID, r.TriggerTime, string(days))
		if err != nil {
			return nil, fmt.Errorf("importing checkin reminder %s: %w", r.ID, err)
		}
		inserted["checkin_reminders"]++
	}

	for _, en := range doc.CheckinEntries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO checkin_entries (date, body, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT (date) DO UPDATE SET
				body = excluded.body, updated_at = excluded.updated_at
		`, en.Date, en.Body, en.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("importing entry %s: %w", en.Date, err)
		}
		inserted["checkin_entries"]++
	}

	for _, s := range doc.Scribbles {
		tags, annotations, err := marshalTagsAnnotations(s.Tags, s.Annotations)
		if err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO scribbles (id, body, tags, annotations, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				body = excluded.body, tags = excluded.tags,
				annotations = excluded.annotations, updated_at = excluded.updated_at
		`, s.ID, s.Body, tags, annotations, s.CreatedAt, s.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("importing scribble %s: %w", s.ID, err)
		}
		inserted["scribbles"]++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing import: %w", err)
	}

	e.logger.Info("import applied", "mode", mode, "tables", len(inserted))
	return &protocol.ImportResult{Inserted: inserted}, nil
}

func (e *Engine) exportHabits(ctx context.Context) ([]protocol.Habit, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT `+habitColumns+` FROM habits ORDER BY created_at, id`)
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

func (e *Engine) exportSchedules(ctx context.Context) ([]protocol.HabitSchedule, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT id, habit_id, schedule_type, frequency_count, days_of_week, due_time
		FROM habit_schedules ORDER BY habit_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying schedules: %w", err)
	}
	defer rows.Close()

	schedules := []protocol.HabitSchedule{}
	for rows.Next() {
		var s protocol.HabitSchedule
		var days string
		if err := rows.Scan(&s.ID, &s.HabitID, &s.ScheduleType, &s.FrequencyCount, &days, &s.DueTime); err != nil {
			return nil, fmt.Errorf("scanning schedule: %w", err)
		}
		if err := json.Unmarshal([]byte(days), &s.DaysOfWeek); err != nil {
			return nil, fmt.Errorf("parsing days_of_week: %w", err)
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// ListCompletionsOrdered returns every completion row in a stable
// order, for export.
func (e *Engine) ListCompletionsOrdered(ctx context.Context) ([]protocol.Completion, error) {
	return e.listCompletionsAll(ctx,
		`SELECT id, habit_id, date, created_at FROM completions ORDER BY date, habit_id`)
}

func (e *Engine) listCompletionsAll(ctx context.Context, query string) ([]protocol.Completion, error) {
	rows, err := e.db.QueryContext(ctx, query)
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

func (e *Engine) exportLogs(ctx context.Context) ([]protocol.HabitLog, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT id, habit_id, date, value, created_at FROM habit_logs ORDER BY date, habit_id, created_at`)
	if err != nil {
		return nil, fmt.Errorf("querying habit logs: %w", err)
	}
	defer rows.Close()

	logs := []protocol.HabitLog{}
	for rows.Next() {
		var l protocol.HabitLog
		if err := rows.Scan(&l.ID, &l.HabitID, &l.Date, &l.Value, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning habit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (e *Engine) exportTemplates(ctx context.Context) ([]protocol.CheckinTemplate, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT id, name, archived_at, created_at FROM checkin_templates ORDER BY created_at, id`)
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

func (e *Engine) exportQuestions(ctx context.Context) ([]protocol.CheckinQuestion, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT id, template_id, prompt, position FROM checkin_questions ORDER BY template_id, position, id`)
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

func (e *Engine) exportResponses(ctx context.Context) ([]protocol.CheckinResponse, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT id, question_id, date, response FROM checkin_responses ORDER BY date, question_id`)
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

func (e *Engine) exportCheckinReminders(ctx context.Context) ([]protocol.CheckinReminder, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT id, template_id, trigger_time, days_active FROM checkin_reminders ORDER BY template_id, trigger_time`)
	if err != nil {
		return nil, fmt.Errorf("querying checkin reminders: %w", err)
	}
	defer rows.Close()

	reminders := []protocol.CheckinReminder{}
	for rows.Next() {
		var r protocol.CheckinReminder
		var days string
		if err := rows.Scan(&r.ID, &r.TemplateID, &r.TriggerTime, &days); err != nil {
			return nil, fmt.Errorf("scanning checkin reminder: %w", err)
		}
		if err := json.Unmarshal([]byte(days), &r.DaysActive); err != nil {
			return nil, fmt.Errorf("parsing days_active: %w", err)
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// ABOUTME: Reminder rows for habits and check-in templates
// ABOUTME: days_active is a JSON subset of weekdays 0..6; empty means every day

package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/tendril-app/tendril/internal/protocol"
)

// CreateReminder adds a trigger for a habit. Multiple reminders per
// habit are allowed.
func (e *Engine) CreateReminder(ctx context.Context, p *protocol.CreateReminderParams) (*protocol.Reminder, error) {
	days, err := json.Marshal(emptyIfNilInts(p.DaysActive))
	if err != nil {
		return nil, fmt.Errorf("encoding days_active: %w", err)
	}

	r := &protocol.Reminder{
		ID:          uuid.New().String(),
		HabitID:     p.HabitID,
		TriggerTime: p.TriggerTime,
		DaysActive:  p.DaysActive,
	}
	_, err = e.db.ExecContext(ctx,
		`INSERT INTO reminders (id, habit_id, trigger_time, days_active) VALUES (?, ?, ?, ?)`,
		r.ID, r.HabitID, r.TriggerTime, string(days))
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("habit %s: %w", p.HabitID, ErrNotFound)
		}
		return nil, fmt.Errorf("inserting reminder: %w", err)
	}
	return r, nil
}

// UpdateReminder replaces a reminder's trigger time and active days.
func (e *Engine) UpdateReminder(ctx context.Context, p *protocol.UpdateReminderParams) error {
	days, err := json.Marshal(emptyIfNilInts(p.DaysActive))
	if err != nil {
		return fmt.Errorf("encoding days_active: %w", err)
	}
	result, err := e.db.ExecContext(ctx,
		`UPDATE reminders SET trigger_time = ?, days_active = ? WHERE id = ?`,
		p.TriggerTime, string(days), p.ID)
	if err != nil {
		return fmt.Errorf("updating reminder: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteReminder hard-deletes a reminder.
func (e *Engine) DeleteReminder(ctx context.Context, id string) error {
	result, err := e.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting reminder: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRemindersForHabit returns a habit's reminders ordered by time.
func (e *Engine) ListRemindersForHabit(ctx context.Context, habitID string) ([]protocol.Reminder, error) {
	return e.listReminders(ctx,
		`SELECT id, habit_id, trigger_time, days_active FROM reminders WHERE habit_id = ? ORDER BY trigger_time`,
		habitID)
}

// ListReminders returns every reminder ordered by time.
func (e *Engine) ListReminders(ctx context.Context) ([]protocol.Reminder, error) {
	return e.listReminders(ctx,
		`SELECT id, habit_id, trigger_time, days_active FROM reminders ORDER BY trigger_time`)
}

func (e *Engine) listReminders(ctx context.Context, query string, args ...any) ([]protocol.Reminder, error) {
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reminders: %w", err)
	}
	defer rows.Close()

	reminders := []protocol.Reminder{}
	for rows.Next() {
		var r protocol.Reminder
		var days string
		if err := rows.Scan(&r.ID, &r.HabitID, &r.TriggerTime, &days); err != nil {
			return nil, fmt.Errorf("scanning reminder: %w", err)
		}
		if err := json.Unmarshal([]byte(days), &r.DaysActive); err != nil {
			return nil, fmt.Errorf("parsing days_active: %w", err)
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// CreateCheckinReminder adds a trigger for a check-in template.
func (e *Engine) CreateCheckinReminder(ctx context.Context, p *protocol.CreateCheckinReminderParams) (*protocol.CheckinReminder, error) {
	days, err := json.Marshal(emptyIfNilInts(p.DaysActive))
	if err != nil {
		return nil, fmt.Errorf("encoding days_active: %w", err)
	}

	r := &protocol.CheckinReminder{
		ID:          uuid.New().String(),
		TemplateID:  p.TemplateID,
		TriggerTime: p.TriggerTime,
		DaysActive:  p.DaysActive,
	}
	_, err = e.db.ExecContext(ctx,
		`INSERT INTO checkin_reminders (id, template_id, trigger_time, days_active) VALUES (?, ?, ?, ?)`,
		r.ID, r.TemplateID, r.TriggerTime, string(days))
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("template %s: %w", p.TemplateID, ErrNotFound)
		}
		return nil, fmt.Errorf("inserting checkin reminder: %w", err)
	}
	return r, nil
}

// DeleteCheckinReminder hard-deletes a check-in reminder.
func (e *Engine) DeleteCheckinReminder(ctx context.Context, id string) error {
	result, err := e.db.ExecContext(ctx, `DELETE FROM checkin_reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting checkin reminder: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCheckinReminders returns a template's reminders ordered by time.
func (e *Engine) ListCheckinReminders(ctx context.Context, templateID string) ([]protocol.CheckinReminder, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT id, template_id, trigger_time, days_active FROM checkin_reminders WHERE template_id = ? ORDER BY trigger_time`,
		templateID)
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

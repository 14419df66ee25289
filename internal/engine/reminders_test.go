// ABOUTME: Tests for habit reminder triggers and their day masks
// ABOUTME: Deleting a habit's reminders happens explicitly, never implicitly

package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/tendril-app/tendril/internal/protocol"
)

func TestReminderLifecycle(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	h := mustCreateHabit(t, e, "Meditate", protocol.HabitBoolean, 0)

	r, err := e.CreateReminder(ctx, &protocol.CreateReminderParams{
		HabitID:     h.ID,
		TriggerTime: "08:30",
		DaysActive:  []int{1, 2, 3, 4, 5},
	})
	if err != nil {
		t.Fatalf("CreateReminder failed: %v", err)
	}

	if err := e.UpdateReminder(ctx, &protocol.UpdateReminderParams{
		ID:          r.ID,
		TriggerTime: "09:00",
	}); err != nil {
		t.Fatalf("UpdateReminder failed: %v", err)
	}

	reminders, err := e.ListRemindersForHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("ListRemindersForHabit failed: %v", err)
	}
	if len(reminders) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(reminders))
	}
	if reminders[0].TriggerTime != "09:00" {
		t.Errorf("TriggerTime mismatch: got %q", reminders[0].TriggerTime)
	}
	// Clearing days_active means every day.
	if len(reminders[0].DaysActive) != 0 {
		t.Errorf("DaysActive mismatch: got %v", reminders[0].DaysActive)
	}

	if err := e.DeleteReminder(ctx, r.ID); err != nil {
		t.Fatalf("DeleteReminder failed: %v", err)
	}
	if err := e.DeleteReminder(ctx, r.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestCreateReminder_UnknownHabit(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.CreateReminder(context.Background(), &protocol.CreateReminderParams{
		HabitID:     "missing",
		TriggerTime: "08:00",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestListReminders_AllHabits(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	a := mustCreateHabit(t, e, "A", protocol.HabitBoolean, 0)
	b := mustCreateHabit(t, e, "B", protocol.HabitBoolean, 0)

	for _, habitID := range []string{a.ID, b.ID} {
		if _, err := e.CreateReminder(ctx, &protocol.CreateReminderParams{
			HabitID:     habitID,
			TriggerTime: "08:00",
		}); err != nil {
			t.Fatalf("CreateReminder failed: %v", err)
		}
	}

	reminders, err := e.ListReminders(ctx)
	if err != nil {
		t.Fatalf("ListReminders failed: %v", err)
	}
	if len(reminders) != 2 {
		t.Errorf("expected 2 reminders, got %d", len(reminders))
	}
}

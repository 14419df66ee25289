// ABOUTME: Tests for completion toggling and derived streak counting
// ABOUTME: Toggle is an involution: two toggles restore the prior state

package engine

import (
	"context"
	"testing"

	"github.com/tendril-app/tendril/internal/protocol"
)

func TestToggleCompletion_Involution(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	h := mustCreateHabit(t, e, "Meditate", protocol.HabitBoolean, 0)

	completed, err := e.ToggleCompletion(ctx, h.ID, "2026-03-01")
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !completed {
		t.Error("first toggle should complete")
	}

	completed, err = e.ToggleCompletion(ctx, h.ID, "2026-03-01")
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if completed {
		t.Error("second toggle should clear the completion")
	}

	rows, err := e.ListCompletionsForHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("ListCompletionsForHabit failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no completion rows after double toggle, got %d", len(rows))
	}
}

func TestToggleCompletion_OneRowPerDate(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	h := mustCreateHabit(t, e, "Meditate", protocol.HabitBoolean, 0)

	for i := 0; i < 3; i++ {
		if _, err := e.ToggleCompletion(ctx, h.ID, "2026-03-01"); err != nil {
			t.Fatalf("toggle %d failed: %v", i, err)
		}
	}

	rows, err := e.ListCompletionsForHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("ListCompletionsForHabit failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly one completion row, got %d", len(rows))
	}
	if rows[0].Date != "2026-03-01" {
		t.Errorf("Date mismatch: got %q", rows[0].Date)
	}
}

func TestListCompletionsForDate(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	a := mustCreateHabit(t, e, "A", protocol.HabitBoolean, 0)
	b := mustCreateHabit(t, e, "B", protocol.HabitBoolean, 0)

	if _, err := e.ToggleCompletion(ctx, a.ID, "2026-03-01"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if _, err := e.ToggleCompletion(ctx, b.ID, "2026-03-01"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if _, err := e.ToggleCompletion(ctx, a.ID, "2026-03-02"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	rows, err := e.ListCompletionsForDate(ctx, "2026-03-01")
	if err != nil {
		t.Fatalf("ListCompletionsForDate failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 completions for 2026-03-01, got %d", len(rows))
	}
}

func TestStreak(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	h := mustCreateHabit(t, e, "Meditate", protocol.HabitBoolean, 0)

	// Three consecutive days, then a gap, then one more.
	for _, date := range []string{"2026-03-03", "2026-03-04", "2026-03-05", "2026-03-01"} {
		if _, err := e.ToggleCompletion(ctx, h.ID, date); err != nil {
			t.Fatalf("toggle failed: %v", err)
		}
	}

	streak, err := e.Streak(ctx, h.ID, "2026-03-05")
	if err != nil {
		t.Fatalf("Streak failed: %v", err)
	}
	if streak != 3 {
		t.Errorf("got streak %d, want 3", streak)
	}

	// The gap on 03-02 stops the count regardless of 03-01.
	streak, err = e.Streak(ctx, h.ID, "2026-03-02")
	if err != nil {
		t.Fatalf("Streak failed: %v", err)
	}
	if streak != 0 {
		t.Errorf("got streak %d from gap date, want 0", streak)
	}
}

func TestStreak_ZeroWithoutCompletions(t *testing.T) {
	e := newTestEngine(t)
	h := mustCreateHabit(t, e, "Meditate", protocol.HabitBoolean, 0)

	streak, err := e.Streak(context.Background(), h.ID, "2026-03-05")
	if err != nil {
		t.Fatalf("Streak failed: %v", err)
	}
	if streak != 0 {
		t.Errorf("got streak %d, want 0", streak)
	}
}

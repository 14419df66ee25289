// ABOUTME: Tests for numeric habit logs: additive entries and day totals
// ABOUTME: Day totals are order-independent sums; setTotal is absolute

package engine

import (
	"context"
	"testing"

	"github.com/tendril-app/tendril/internal/protocol"
)

func TestAddLog_SumsPerDay(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	h := mustCreateHabit(t, e, "Water", protocol.HabitNumeric, 8)

	for _, v := range []float64{2, 3, 1.5} {
		if _, err := e.AddLog(ctx, h.ID, "2026-03-01", v); err != nil {
			t.Fatalf("AddLog failed: %v", err)
		}
	}

	total, err := e.DayTotal(ctx, h.ID, "2026-03-01")
	if err != nil {
		t.Fatalf("DayTotal failed: %v", err)
	}
	if total != 6.5 {
		t.Errorf("got total %g, want 6.5", total)
	}
}

func TestAddLog_OrderIndependent(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	a := mustCreateHabit(t, e, "A", protocol.HabitNumeric, 0)
	b := mustCreateHabit(t, e, "B", protocol.HabitNumeric, 0)

	forward := []float64{1, 2, 3, 4}
	for _, v := range forward {
		if _, err := e.AddLog(ctx, a.ID, "2026-03-01", v); err != nil {
			t.Fatalf("AddLog failed: %v", err)
		}
	}
	for i := len(forward) - 1; i >= 0; i-- {
		if _, err := e.AddLog(ctx, b.ID, "2026-03-01", forward[i]); err != nil {
			t.Fatalf("AddLog failed: %v", err)
		}
	}

	totalA, err := e.DayTotal(ctx, a.ID, "2026-03-01")
	if err != nil {
		t.Fatalf("DayTotal failed: %v", err)
	}
	totalB, err := e.DayTotal(ctx, b.ID, "2026-03-01")
	if err != nil {
		t.Fatalf("DayTotal failed: %v", err)
	}
	if totalA != totalB {
		t.Errorf("totals differ by insertion order: %g vs %g", totalA, totalB)
	}
}

func TestSetLogTotal_Absolute(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	h := mustCreateHabit(t, e, "Steps", protocol.HabitNumeric, 8000)

	if _, err := e.AddLog(ctx, h.ID, "2026-03-01", 3000); err != nil {
		t.Fatalf("AddLog failed: %v", err)
	}
	if _, err := e.AddLog(ctx, h.ID, "2026-03-01", 2000); err != nil {
		t.Fatalf("AddLog failed: %v", err)
	}

	if _, err := e.SetLogTotal(ctx, h.ID, "2026-03-01", 7500); err != nil {
		t.Fatalf("SetLogTotal failed: %v", err)
	}

	total, err := e.DayTotal(ctx, h.ID, "2026-03-01")
	if err != nil {
		t.Fatalf("DayTotal failed: %v", err)
	}
	if total != 7500 {
		t.Errorf("got total %g after setTotal, want 7500", total)
	}

	// setTotal collapses the day into a single entry.
	logs, err := e.ListLogsForDate(ctx, "2026-03-01")
	if err != nil {
		t.Fatalf("ListLogsForDate failed: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("expected 1 log row after setTotal, got %d", len(logs))
	}
}

func TestDayTotal_ZeroWithoutLogs(t *testing.T) {
	e := newTestEngine(t)
	h := mustCreateHabit(t, e, "Water", protocol.HabitNumeric, 8)

	total, err := e.DayTotal(context.Background(), h.ID, "2026-03-01")
	if err != nil {
		t.Fatalf("DayTotal failed: %v", err)
	}
	if total != 0 {
		t.Errorf("got total %g, want 0", total)
	}
}

func TestDeleteLogsForDate(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	h := mustCreateHabit(t, e, "Water", protocol.HabitNumeric, 8)

	if _, err := e.AddLog(ctx, h.ID, "2026-03-01", 4); err != nil {
		t.Fatalf("AddLog failed: %v", err)
	}
	if _, err := e.AddLog(ctx, h.ID, "2026-03-02", 5); err != nil {
		t.Fatalf("AddLog failed: %v", err)
	}

	if err := e.DeleteLogsForDate(ctx, h.ID, "2026-03-01"); err != nil {
		t.Fatalf("DeleteLogsForDate failed: %v", err)
	}

	total, err := e.DayTotal(ctx, h.ID, "2026-03-01")
	if err != nil {
		t.Fatalf("DayTotal failed: %v", err)
	}
	if total != 0 {
		t.Errorf("got total %g after delete, want 0", total)
	}

	// Other dates are untouched.
	total, err = e.DayTotal(ctx, h.ID, "2026-03-02")
	if err != nil {
		t.Fatalf("DayTotal failed: %v", err)
	}
	if total != 5 {
		t.Errorf("got total %g for untouched date, want 5", total)
	}
}

func TestListLogsForHabit(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	h := mustCreateHabit(t, e, "Water", protocol.HabitNumeric, 8)
	other := mustCreateHabit(t, e, "Steps", protocol.HabitNumeric, 8000)

	if _, err := e.AddLog(ctx, h.ID, "2026-03-01", 4); err != nil {
		t.Fatalf("AddLog failed: %v", err)
	}
	if _, err := e.AddLog(ctx, other.ID, "2026-03-01", 100); err != nil {
		t.Fatalf("AddLog failed: %v", err)
	}

	logs, err := e.ListLogsForHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("ListLogsForHabit failed: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 log, got %d", len(logs))
	}
	if logs[0].Value != 4 {
		t.Errorf("Value mismatch: got %g", logs[0].Value)
	}
}

// ABOUTME: Tests for versioned export documents and both import modes
// ABOUTME: Replace clears tables first; merge upserts rows by primary key

package engine

import (
	"context"
	"testing"

	"github.com/tendril-app/tendril/internal/protocol"
)

// seedData creates a small cross-table fixture and returns the habit.
func seedData(t *testing.T, e *Engine) *protocol.Habit {
	t.Helper()
	ctx := context.Background()

	h := mustCreateHabit(t, e, "Meditate", protocol.HabitBoolean, 0)
	if _, err := e.ToggleCompletion(ctx, h.ID, "2026-03-01"); err != nil {
		t.Fatalf("ToggleCompletion failed: %v", err)
	}
	if _, err := e.CreateScribble(ctx, &protocol.CreateScribbleParams{Body: "note"}); err != nil {
		t.Fatalf("CreateScribble failed: %v", err)
	}
	if _, err := e.UpsertCheckinEntry(ctx, "2026-03-01", "a fine day"); err != nil {
		t.Fatalf("UpsertCheckinEntry failed: %v", err)
	}
	return h
}

func TestExport_AllTables(t *testing.T) {
	e := newTestEngine(t)
	seedData(t, e)

	doc, err := e.Export(context.Background(), nil)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if doc.Version != protocol.ExportVersion {
		t.Errorf("Version mismatch: got %d", doc.Version)
	}
	if doc.ExportedAt == "" {
		t.Error("expected ExportedAt set")
	}
	if len(doc.Habits) != 1 {
		t.Errorf("expected 1 habit, got %d", len(doc.Habits))
	}
	if len(doc.HabitSchedules) != 1 {
		t.Errorf("expected 1 schedule, got %d", len(doc.HabitSchedules))
	}
	if len(doc.Completions) != 1 {
		t.Errorf("expected 1 completion, got %d", len(doc.Completions))
	}
	if len(doc.Scribbles) != 1 {
		t.Errorf("expected 1 scribble, got %d", len(doc.Scribbles))
	}
	if len(doc.CheckinEntries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(doc.CheckinEntries))
	}
}

func TestExport_SelectedTables(t *testing.T) {
	e := newTestEngine(t)
	seedData(t, e)

	doc, err := e.Export(context.Background(), []string{"scribbles"})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(doc.Scribbles) != 1 {
		t.Errorf("expected 1 scribble, got %d", len(doc.Scribbles))
	}
	// Unselected tables stay empty, not null.
	if doc.Habits == nil || len(doc.Habits) != 0 {
		t.Errorf("expected empty habits slice, got %v", doc.Habits)
	}
}

func TestExport_UnknownTable(t *testing.T) {
	e := newTestEngine(t)

	if _, err := e.Export(context.Background(), []string{"no_such_table"}); err == nil {
		t.Fatal("expected error for unknown table")
	}
}

func TestImport_ReplaceRoundTrip(t *testing.T) {
	src := newTestEngine(t)
	h := seedData(t, src)
	ctx := context.Background()

	doc, err := src.Export(ctx, nil)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := newTestEngine(t)
	// Pre-existing data in the destination must be cleared by replace.
	mustCreateHabit(t, dst, "Stale", protocol.HabitBoolean, 0)

	result, err := dst.Import(ctx, doc, protocol.ImportModeReplace)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Inserted["habits"] != 1 {
		t.Errorf("habits inserted: got %d, want 1", result.Inserted["habits"])
	}

	habits, err := dst.ListHabits(ctx, true)
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(habits) != 1 || habits[0].Name != "Meditate" {
		t.Errorf("expected only the imported habit, got %+v", habits)
	}

	got, err := dst.GetHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.Name != "Meditate" {
		t.Errorf("Name mismatch: got %q", got.Name)
	}

	done, err := dst.IsHabitDone(ctx, h.ID, "2026-03-01")
	if err != nil {
		t.Fatalf("IsHabitDone failed: %v", err)
	}
	if !done {
		t.Error("completion should survive the round trip")
	}
}

func TestImport_MergeUpsertsById(t *testing.T) {
	src := newTestEngine(t)
	h := seedData(t, src)
	ctx := context.Background()

	doc, err := src.Export(ctx, nil)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	dst := newTestEngine(t)
	kept := mustCreateHabit(t, dst, "Local only", protocol.HabitBoolean, 0)

	if _, err := dst.Import(ctx, doc, protocol.ImportModeMerge); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	habits, err := dst.ListHabits(ctx, true)
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(habits) != 2 {
		t.Fatalf("merge should keep local data, got %d habits", len(habits))
	}
	if _, err := dst.GetHabit(ctx, kept.ID); err != nil {
		t.Errorf("local habit lost in merge: %v", err)
	}

	// Importing again with a changed name must win on the same id.
	doc.Habits[0].Name = "Meditate longer"
	if _, err := dst.Import(ctx, doc, protocol.ImportModeMerge); err != nil {
		t.Fatalf("second Import failed: %v", err)
	}
	got, err := dst.GetHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.Name != "Meditate longer" {
		t.Errorf("merge should upsert by id: got %q", got.Name)
	}
}

func TestImport_WrongVersion(t *testing.T) {
	e := newTestEngine(t)

	doc := &protocol.ExportDocument{Version: 99}
	if _, err := e.Import(context.Background(), doc, protocol.ImportModeMerge); err == nil {
		t.Fatal("expected error for unsupported version")
	}
}

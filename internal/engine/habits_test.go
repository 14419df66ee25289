// ABOUTME: Tests for habit CRUD, pause windows, schedules and done predicates
// ABOUTME: Covers all three habit types and the paused-until boundary

package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/tendril-app/tendril/internal/protocol"
)

func TestCreateAndGetHabit(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	h, err := e.CreateHabit(ctx, &protocol.CreateHabitParams{
		Name:        "Meditate",
		Emoji:       "🧘",
		Type:        protocol.HabitBoolean,
		Tags:        []string{"health", "morning"},
		Annotations: map[string]string{"source": "cli"},
		Schedule:    protocol.ScheduleParams{ScheduleType: protocol.ScheduleDaily},
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	if h.ID == "" {
		t.Error("expected generated id")
	}

	got, err := e.GetHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.Name != "Meditate" {
		t.Errorf("Name mismatch: got %q", got.Name)
	}
	if got.Emoji != "🧘" {
		t.Errorf("Emoji mismatch: got %q", got.Emoji)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "health" {
		t.Errorf("Tags mismatch: got %v", got.Tags)
	}
	if got.Annotations["source"] != "cli" {
		t.Errorf("Annotations mismatch: got %v", got.Annotations)
	}
}

func TestGetHabit_NotFound(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.GetHabit(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestCreateHabit_StoresSchedule(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	h, err := e.CreateHabit(ctx, &protocol.CreateHabitParams{
		Name: "Gym",
		Type: protocol.HabitBoolean,
		Schedule: protocol.ScheduleParams{
			ScheduleType: protocol.ScheduleSpecificDays,
			DaysOfWeek:   []int{1, 3, 5},
			DueTime:      "07:00",
		},
	})
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	s, err := e.GetSchedule(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetSchedule failed: %v", err)
	}
	if s.ScheduleType != protocol.ScheduleSpecificDays {
		t.Errorf("ScheduleType mismatch: got %q", s.ScheduleType)
	}
	if len(s.DaysOfWeek) != 3 || s.DaysOfWeek[1] != 3 {
		t.Errorf("DaysOfWeek mismatch: got %v", s.DaysOfWeek)
	}
	if s.DueTime != "07:00" {
		t.Errorf("DueTime mismatch: got %q", s.DueTime)
	}
}

func TestReplaceSchedule_KeepsSingleActive(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	h := mustCreateHabit(t, e, "Read", protocol.HabitBoolean, 0)

	s, err := e.ReplaceSchedule(ctx, h.ID, &protocol.ScheduleParams{
		ScheduleType:   protocol.ScheduleWeeklyFlex,
		FrequencyCount: 3,
	})
	if err != nil {
		t.Fatalf("ReplaceSchedule failed: %v", err)
	}
	if s.FrequencyCount != 3 {
		t.Errorf("FrequencyCount mismatch: got %d", s.FrequencyCount)
	}

	// The replacement must be the one and only schedule.
	got, err := e.GetSchedule(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetSchedule failed: %v", err)
	}
	if got.ScheduleType != protocol.ScheduleWeeklyFlex {
		t.Errorf("ScheduleType mismatch after replace: got %q", got.ScheduleType)
	}
	if got.ID != s.ID {
		t.Errorf("expected replaced schedule id %s, got %s", s.ID, got.ID)
	}
}

func TestUpdateHabit(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	h := mustCreateHabit(t, e, "Walk", protocol.HabitNumeric, 5000)

	updated, err := e.UpdateHabit(ctx, &protocol.UpdateHabitParams{
		ID:          h.ID,
		Name:        "Walk more",
		TargetValue: 8000,
		Unit:        "steps",
	})
	if err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}
	if updated.Name != "Walk more" {
		t.Errorf("Name mismatch: got %q", updated.Name)
	}
	if updated.TargetValue != 8000 {
		t.Errorf("TargetValue mismatch: got %g", updated.TargetValue)
	}
	// Type never changes through update.
	if updated.Type != protocol.HabitNumeric {
		t.Errorf("Type changed: got %q", updated.Type)
	}
}

func TestArchiveHabit_HidesFromDefaultList(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	h := mustCreateHabit(t, e, "Old", protocol.HabitBoolean, 0)
	mustCreateHabit(t, e, "Current", protocol.HabitBoolean, 0)

	if err := e.ArchiveHabit(ctx, h.ID); err != nil {
		t.Fatalf("ArchiveHabit failed: %v", err)
	}

	active, err := e.ListHabits(ctx, false)
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(active) != 1 || active[0].Name != "Current" {
		t.Errorf("expected only Current, got %d habits", len(active))
	}

	all, err := e.ListHabits(ctx, true)
	if err != nil {
		t.Fatalf("ListHabits(archived) failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 habits including archived, got %d", len(all))
	}

	// Archived history stays queryable by id.
	got, err := e.GetHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetHabit after archive failed: %v", err)
	}
	if got.ArchivedAt == nil {
		t.Error("expected ArchivedAt to be set")
	}
}

func TestPauseHabit_InclusiveBoundary(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	h := mustCreateHabit(t, e, "Run", protocol.HabitBoolean, 0)

	if err := e.PauseHabit(ctx, h.ID, "2026-03-10"); err != nil {
		t.Fatalf("PauseHabit failed: %v", err)
	}

	got, err := e.GetHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}

	// Paused through the until date, active the day after.
	if !IsPaused(got, "2026-03-09") {
		t.Error("expected paused on 2026-03-09")
	}
	if !IsPaused(got, "2026-03-10") {
		t.Error("expected paused on the until date itself")
	}
	if IsPaused(got, "2026-03-11") {
		t.Error("expected active the day after until")
	}
}

func TestResumeHabit(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	h := mustCreateHabit(t, e, "Run", protocol.HabitBoolean, 0)

	if err := e.PauseHabit(ctx, h.ID, "2099-01-01"); err != nil {
		t.Fatalf("PauseHabit failed: %v", err)
	}
	if err := e.ResumeHabit(ctx, h.ID); err != nil {
		t.Fatalf("ResumeHabit failed: %v", err)
	}

	got, err := e.GetHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if got.PausedUntil != nil {
		t.Errorf("expected PausedUntil cleared, got %v", *got.PausedUntil)
	}
}

func TestPauseAllResumeAll(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	a := mustCreateHabit(t, e, "A", protocol.HabitBoolean, 0)
	b := mustCreateHabit(t, e, "B", protocol.HabitBoolean, 0)
	archived := mustCreateHabit(t, e, "C", protocol.HabitBoolean, 0)
	if err := e.ArchiveHabit(ctx, archived.ID); err != nil {
		t.Fatalf("ArchiveHabit failed: %v", err)
	}

	if err := e.PauseAll(ctx, "2099-01-01"); err != nil {
		t.Fatalf("PauseAll failed: %v", err)
	}

	for _, id := range []string{a.ID, b.ID} {
		h, err := e.GetHabit(ctx, id)
		if err != nil {
			t.Fatalf("GetHabit failed: %v", err)
		}
		if h.PausedUntil == nil {
			t.Errorf("habit %s not paused", h.Name)
		}
	}

	// Archived habits are left alone.
	c, err := e.GetHabit(ctx, archived.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if c.PausedUntil != nil {
		t.Error("archived habit should not be paused by PauseAll")
	}

	if err := e.ResumeAll(ctx); err != nil {
		t.Fatalf("ResumeAll failed: %v", err)
	}
	h, err := e.GetHabit(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetHabit failed: %v", err)
	}
	if h.PausedUntil != nil {
		t.Error("expected PausedUntil cleared after ResumeAll")
	}
}

func TestIsHabitDone_Boolean(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	h := mustCreateHabit(t, e, "Meditate", protocol.HabitBoolean, 0)

	done, err := e.IsHabitDone(ctx, h.ID, "2026-03-01")
	if err != nil {
		t.Fatalf("IsHabitDone failed: %v", err)
	}
	if done {
		t.Error("expected not done before any completion")
	}

	if _, err := e.ToggleCompletion(ctx, h.ID, "2026-03-01"); err != nil {
		t.Fatalf("ToggleCompletion failed: %v", err)
	}

	done, err = e.IsHabitDone(ctx, h.ID, "2026-03-01")
	if err != nil {
		t.Fatalf("IsHabitDone failed: %v", err)
	}
	if !done {
		t.Error("expected done after completion")
	}
}

func TestIsHabitDone_NumericReachesTarget(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	h := mustCreateHabit(t, e, "Meditate minutes", protocol.HabitNumeric, 10)

	if _, err := e.AddLog(ctx, h.ID, "2026-03-01", 4); err != nil {
		t.Fatalf("AddLog failed: %v", err)
	}
	done, err := e.IsHabitDone(ctx, h.ID, "2026-03-01")
	if err != nil {
		t.Fatalf("IsHabitDone failed: %v", err)
	}
	if done {
		t.Error("4 of 10 should not be done")
	}

	if _, err := e.AddLog(ctx, h.ID, "2026-03-01", 6); err != nil {
		t.Fatalf("AddLog failed: %v", err)
	}
	done, err = e.IsHabitDone(ctx, h.ID, "2026-03-01")
	if err != nil {
		t.Fatalf("IsHabitDone failed: %v", err)
	}
	if !done {
		t.Error("10 of 10 should be done")
	}
}

func TestIsHabitDone_LimitStaysUnder(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	h := mustCreateHabit(t, e, "Screen time", protocol.HabitLimit, 120)

	// No usage logged yet: under the cap counts as done.
	done, err := e.IsHabitDone(ctx, h.ID, "2026-03-01")
	if err != nil {
		t.Fatalf("IsHabitDone failed: %v", err)
	}
	if !done {
		t.Error("zero usage should be done for a limit habit")
	}

	if _, err := e.AddLog(ctx, h.ID, "2026-03-01", 119); err != nil {
		t.Fatalf("AddLog failed: %v", err)
	}
	done, err = e.IsHabitDone(ctx, h.ID, "2026-03-01")
	if err != nil {
		t.Fatalf("IsHabitDone failed: %v", err)
	}
	if !done {
		t.Error("119 of 120 should still be done")
	}

	// Hitting the cap exactly fails the limit.
	if _, err := e.AddLog(ctx, h.ID, "2026-03-01", 1); err != nil {
		t.Fatalf("AddLog failed: %v", err)
	}
	done, err = e.IsHabitDone(ctx, h.ID, "2026-03-01")
	if err != nil {
		t.Fatalf("IsHabitDone failed: %v", err)
	}
	if done {
		t.Error("120 of 120 should not be done")
	}
}

// ABOUTME: Tests for the bored oracle: categories, activities and draws
// ABOUTME: Draw filters by category, archive state, done state and estimate

package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/tendril-app/tendril/internal/protocol"
)

func mustCreateCategory(t *testing.T, e *Engine, name string) *protocol.BoredCategory {
	t.Helper()
	c, err := e.CreateBoredCategory(context.Background(), name)
	if err != nil {
		t.Fatalf("CreateBoredCategory failed: %v", err)
	}
	return c
}

func mustCreateActivity(t *testing.T, e *Engine, categoryID, title string, estimate *int) *protocol.BoredActivity {
	t.Helper()
	a, err := e.CreateBoredActivity(context.Background(), &protocol.CreateActivityParams{
		CategoryID:      categoryID,
		Title:           title,
		EstimateMinutes: estimate,
	})
	if err != nil {
		t.Fatalf("CreateBoredActivity failed: %v", err)
	}
	return a
}

func intp(n int) *int { return &n }

func TestCreateBoredActivity_UnknownCategory(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.CreateBoredActivity(context.Background(), &protocol.CreateActivityParams{
		CategoryID: "missing",
		Title:      "Juggle",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestDraw_EmptyPool(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.Draw(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if result.Activity != nil || result.Todo != nil {
		t.Errorf("expected empty draw result, got %+v", result)
	}
}

func TestDraw_SingleCandidate(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	c := mustCreateCategory(t, e, "Crafts")
	a := mustCreateActivity(t, e, c.ID, "Paint", nil)

	result, err := e.Draw(ctx, nil, nil)
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if result.Activity == nil || result.Activity.ID != a.ID {
		t.Errorf("expected the only activity, got %+v", result)
	}
}

func TestDraw_ExcludedCategoriesEmptyPool(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	c1 := mustCreateCategory(t, e, "Crafts")
	c2 := mustCreateCategory(t, e, "Outdoors")
	mustCreateActivity(t, e, c1.ID, "Paint", nil)
	mustCreateActivity(t, e, c2.ID, "Hike", nil)

	result, err := e.Draw(ctx, []string{c1.ID, c2.ID}, nil)
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if result.Activity != nil || result.Todo != nil {
		t.Errorf("expected empty result with every category excluded, got %+v", result)
	}
}

func TestDraw_RespectsMaxMinutes(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	c := mustCreateCategory(t, e, "Crafts")
	quick := mustCreateActivity(t, e, c.ID, "Sketch", intp(10))
	mustCreateActivity(t, e, c.ID, "Oil painting", intp(180))

	// Draw repeatedly; the long activity must never surface.
	for i := 0; i < 20; i++ {
		result, err := e.Draw(ctx, nil, intp(30))
		if err != nil {
			t.Fatalf("Draw failed: %v", err)
		}
		if result.Activity == nil {
			t.Fatal("expected an activity")
		}
		if result.Activity.ID != quick.ID {
			t.Fatalf("draw returned activity over the estimate cap: %s", result.Activity.Title)
		}
	}
}

func TestDraw_SkipsArchivedAndDone(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	c := mustCreateCategory(t, e, "Crafts")
	archived := mustCreateActivity(t, e, c.ID, "Old", nil)
	done := mustCreateActivity(t, e, c.ID, "Finished", nil)
	alive := mustCreateActivity(t, e, c.ID, "Fresh", nil)

	if err := e.ArchiveBoredActivity(ctx, archived.ID); err != nil {
		t.Fatalf("ArchiveBoredActivity failed: %v", err)
	}
	if _, err := e.MarkActivityDone(ctx, done.ID); err != nil {
		t.Fatalf("MarkActivityDone failed: %v", err)
	}

	for i := 0; i < 20; i++ {
		result, err := e.Draw(ctx, nil, nil)
		if err != nil {
			t.Fatalf("Draw failed: %v", err)
		}
		if result.Activity == nil || result.Activity.ID != alive.ID {
			t.Fatalf("expected only the live activity, got %+v", result)
		}
	}
}

func TestDraw_IncludesEligibleTodos(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	est := 15
	created, err := e.CreateTodo(ctx, &protocol.CreateTodoParams{
		Title:           "Sort photos",
		Priority:        protocol.PriorityLow,
		ShowInBored:     true,
		EstimateMinutes: &est,
	})
	if err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}
	// A todo not flagged for the pool must never be drawn.
	if _, err := e.CreateTodo(ctx, &protocol.CreateTodoParams{
		Title:    "Pay rent",
		Priority: protocol.PriorityHigh,
	}); err != nil {
		t.Fatalf("CreateTodo failed: %v", err)
	}

	for i := 0; i < 20; i++ {
		result, err := e.Draw(ctx, nil, nil)
		if err != nil {
			t.Fatalf("Draw failed: %v", err)
		}
		if result.Todo == nil || result.Todo.ID != created.ID {
			t.Fatalf("expected the pool-flagged todo, got %+v", result)
		}
	}
}

func TestMarkActivityDone(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	c := mustCreateCategory(t, e, "Chores")

	a, err := e.CreateBoredActivity(ctx, &protocol.CreateActivityParams{
		CategoryID: c.ID,
		Title:      "Water plants",
		Recurring:  true,
	})
	if err != nil {
		t.Fatalf("CreateBoredActivity failed: %v", err)
	}

	marked, err := e.MarkActivityDone(ctx, a.ID)
	if err != nil {
		t.Fatalf("MarkActivityDone failed: %v", err)
	}
	if marked.DoneCount != 1 {
		t.Errorf("DoneCount mismatch: got %d", marked.DoneCount)
	}
	if !marked.IsDone {
		t.Error("expected IsDone set")
	}

	marked, err = e.MarkActivityDone(ctx, a.ID)
	if err != nil {
		t.Fatalf("second MarkActivityDone failed: %v", err)
	}
	if marked.DoneCount != 2 {
		t.Errorf("DoneCount mismatch after second done: got %d", marked.DoneCount)
	}

	// Done activities leave the pool until something resets them.
	result, err := e.Draw(ctx, nil, nil)
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if result.Activity != nil {
		t.Errorf("done activity must not be drawn, got %+v", result)
	}
}

func TestArchiveBoredCategory_HidesActivities(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	c := mustCreateCategory(t, e, "Crafts")
	mustCreateActivity(t, e, c.ID, "Paint", nil)

	if err := e.ArchiveBoredCategory(ctx, c.ID); err != nil {
		t.Fatalf("ArchiveBoredCategory failed: %v", err)
	}

	result, err := e.Draw(ctx, nil, nil)
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if result.Activity != nil {
		t.Errorf("activities in archived categories must not be drawn, got %+v", result)
	}
}

// ABOUTME: Tests for scribble notes: create, update, delete and ordering
// ABOUTME: Tags and annotations round-trip through their JSON columns

package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/tendril-app/tendril/internal/protocol"
)

func TestScribbleLifecycle(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	s, err := e.CreateScribble(ctx, &protocol.CreateScribbleParams{
		Body:        "# Idea\n\nbuild a birdhouse",
		Tags:        []string{"diy"},
		Annotations: map[string]string{"mood": "inspired"},
	})
	if err != nil {
		t.Fatalf("CreateScribble failed: %v", err)
	}

	got, err := e.GetScribble(ctx, s.ID)
	if err != nil {
		t.Fatalf("GetScribble failed: %v", err)
	}
	if got.Body != s.Body {
		t.Errorf("Body mismatch: got %q", got.Body)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "diy" {
		t.Errorf("Tags mismatch: got %v", got.Tags)
	}
	if got.Annotations["mood"] != "inspired" {
		t.Errorf("Annotations mismatch: got %v", got.Annotations)
	}

	updated, err := e.UpdateScribble(ctx, &protocol.UpdateScribbleParams{
		ID:   s.ID,
		Body: "# Idea\n\nbuild two birdhouses",
		Tags: []string{"diy", "weekend"},
	})
	if err != nil {
		t.Fatalf("UpdateScribble failed: %v", err)
	}
	if len(updated.Tags) != 2 {
		t.Errorf("Tags mismatch after update: got %v", updated.Tags)
	}

	if err := e.DeleteScribble(ctx, s.ID); err != nil {
		t.Fatalf("DeleteScribble failed: %v", err)
	}
	if _, err := e.GetScribble(ctx, s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v after delete, want ErrNotFound", err)
	}
}

func TestListScribbles_NewestFirst(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	for _, body := range []string{"first", "second", "third"} {
		if _, err := e.CreateScribble(ctx, &protocol.CreateScribbleParams{Body: body}); err != nil {
			t.Fatalf("CreateScribble failed: %v", err)
		}
	}

	scribbles, err := e.ListScribbles(ctx)
	if err != nil {
		t.Fatalf("ListScribbles failed: %v", err)
	}
	if len(scribbles) != 3 {
		t.Fatalf("expected 3 scribbles, got %d", len(scribbles))
	}
	for i := 1; i < len(scribbles); i++ {
		if scribbles[i-1].CreatedAt < scribbles[i].CreatedAt {
			t.Errorf("scribbles not in newest-first order at index %d", i)
		}
	}
}

// ABOUTME: Golden-file test for HTML journal rendering
// ABOUTME: Fixes ordering and markdown conversion of entries and scribbles

package backup

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/tendril-app/tendril/internal/protocol"
)

func TestRenderJournal(t *testing.T) {
	doc := &protocol.ExportDocument{
		Version:    protocol.ExportVersion,
		ExportedAt: "2026-03-10T08:00:00Z",
		CheckinEntries: []protocol.CheckinEntry{
			{Date: "2026-03-01", Body: "Slept well. **Good** day."},
			{Date: "2026-03-02", Body: "Short walk at lunch."},
		},
		Scribbles: []protocol.Scribble{
			{
				ID:        "s1",
				Body:      "# Ideas\n\n- one\n- two",
				Tags:      []string{"ideas", "someday"},
				CreatedAt: "2026-03-01T09:00:00Z",
			},
			{
				ID:        "s2",
				Body:      "Buy more coffee filters",
				CreatedAt: "2026-03-02T18:30:00Z",
			},
		},
	}

	out, err := RenderJournal(doc)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "journal", out)
}

func TestRenderJournal_Empty(t *testing.T) {
	out, err := RenderJournal(&protocol.ExportDocument{Version: protocol.ExportVersion})
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "journal_empty", out)
}

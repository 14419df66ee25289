// ABOUTME: Tests for backup file reading and writing
// ABOUTME: Covers plaintext and sealed files plus version and passphrase errors

package backup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendril-app/tendril/internal/protocol"
)

func testDocument() *protocol.ExportDocument {
	return &protocol.ExportDocument{
		Version:    protocol.ExportVersion,
		ExportedAt: "2026-03-10T08:00:00Z",
		Habits: []protocol.Habit{
			{ID: "h1", Name: "stretch", Type: protocol.HabitBoolean},
		},
		Scribbles: []protocol.Scribble{
			{ID: "s1", Body: "note", CreatedAt: "2026-03-09T12:00:00Z"},
		},
	}
}

func TestDefaultFileName(t *testing.T) {
	ts := time.Date(2026, 3, 10, 8, 30, 15, 0, time.UTC)
	assert.Equal(t, "tendril-2026-03-10T08-30-15.json", DefaultFileName(ts))
}

func TestWriteRead_Plaintext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backups", "out.json")

	require.NoError(t, Write(path, testDocument(), ""))

	// No leftover temp file from the write-then-rename.
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	doc, err := Read(path, "")
	require.NoError(t, err)
	assert.Equal(t, protocol.ExportVersion, doc.Version)
	require.Len(t, doc.Habits, 1)
	assert.Equal(t, "stretch", doc.Habits[0].Name)
}

func TestWriteRead_Sealed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, Write(path, testDocument(), "hunter2"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, IsSealed(raw))

	doc, err := Read(path, "hunter2")
	require.NoError(t, err)
	require.Len(t, doc.Scribbles, 1)
	assert.Equal(t, "note", doc.Scribbles[0].Body)
}

func TestRead_SealedWithoutPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, Write(path, testDocument(), "hunter2"))

	_, err := Read(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passphrase required")
}

func TestRead_SealedWrongPassphrase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, Write(path, testDocument(), "hunter2"))

	_, err := Read(path, "wrong")
	assert.ErrorIs(t, err, ErrWrongPassphrase)
}

func TestRead_UnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":99}`), 0600))

	_, err := Read(path, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export document version 99")
}

func TestExportDocumentShape(t *testing.T) {
	// Pins the on-disk JSON layout so a field rename shows up as a diff
	// against the golden file, not as a silently incompatible backup.
	data, err := json.MarshalIndent(testDocument(), "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "document", data)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.json"), "")
	require.Error(t, err)
}

// ABOUTME: Reads and writes export documents as JSON backup files
// ABOUTME: Optionally seals backups with a passphrase via the crypto layer

package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tendril-app/tendril/internal/protocol"
)

// DefaultFileName names a backup file by export time.
func DefaultFileName(t time.Time) string {
	return fmt.Sprintf("tendril-%s.json", t.UTC().Format("2006-01-02T15-04-05"))
}

// Write stores a document as pretty-printed JSON at path, creating
// parent directories. Pass a non-empty passphrase to seal the file.
func Write(path string, doc *protocol.ExportDocument, passphrase string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding export document: %w", err)
	}

	if passphrase != "" {
		data, err = Seal(data, passphrase)
		if err != nil {
			return fmt.Errorf("sealing backup: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating backup directory: %w", err)
	}

	// Write-then-rename so a crash never leaves a truncated backup.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalizing backup: %w", err)
	}
	return nil
}

// Read loads a backup file. Sealed files need the passphrase they
// were written with; plaintext files ignore it.
func Read(path, passphrase string) (*protocol.ExportDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}

	if IsSealed(data) {
		if passphrase == "" {
			return nil, fmt.Errorf("backup is sealed, passphrase required")
		}
		data, err = Open(data, passphrase)
		if err != nil {
			return nil, fmt.Errorf("opening sealed backup: %w", err)
		}
	}

	var doc protocol.ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing export document: %w", err)
	}
	if doc.Version != protocol.ExportVersion {
		return nil, fmt.Errorf("unsupported export document version %d", doc.Version)
	}
	return &doc, nil
}

// Package backup reads and writes export documents as files.
//
// # Overview
//
// A backup is the engine's versioned export document as pretty-printed
// JSON, written atomically (write-then-rename). Read accepts both
// plaintext and sealed files and rejects unknown document versions.
//
// # Sealing
//
// Pass a passphrase to Write and the file is encrypted: Argon2id
// derives the key, XChaCha20-Poly1305 seals the payload, and a magic
// prefix lets Read tell sealed files from plain JSON. The KDF
// parameters are stored in the file header, so later parameter changes
// do not break old backups. A wrong passphrase surfaces as
// ErrWrongPassphrase.
//
// # Journal
//
// RenderJournal turns the journal-ish parts of an export (daily
// check-in entries and scribbles) into a single standalone HTML page,
// treating bodies as markdown.
package backup

// ABOUTME: Passphrase sealing for backup files
// ABOUTME: Argon2id key derivation with XChaCha20-Poly1305 authenticated encryption

package backup

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// magic prefixes sealed backup files so Read can tell them from
// plaintext JSON.
var magic = []byte("TENDRIL1")

// Argon2id parameters. Changing these breaks old backups, so they are
// stored per-file after the magic.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4
	saltSize     = 16
)

// ErrWrongPassphrase is returned when decryption fails, which with an
// AEAD means a bad passphrase or a corrupted file.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted backup")

// IsSealed reports whether data is a sealed backup.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}

// Seal encrypts plaintext under a passphrase-derived key. Layout:
// magic, time, memory, threads (uint32 each), salt, nonce, ciphertext.
func Seal(plaintext []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, chacha20poly1305.KeySize)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(magic)
	for _, v := range []uint32{argonTime, argonMemory, argonThreads} {
		if err := binary.Write(&buf, binary.BigEndian, v); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}
	buf.Write(salt)
	buf.Write(nonce)
	buf.Write(aead.Seal(nil, nonce, plaintext, magic))
	return buf.Bytes(), nil
}

// Open decrypts a sealed backup. Returns ErrWrongPassphrase when the
// key does not verify.
func Open(sealed []byte, passphrase string) ([]byte, error) {
	if !IsSealed(sealed) {
		return nil, fmt.Errorf("not a sealed backup")
	}
	r := bytes.NewReader(sealed[len(magic):])

	var time, memory, threads uint32
	for _, v := range []*uint32{&time, &memory, &threads} {
		if err := binary.Read(r, binary.BigEndian, v); err != nil {
			return nil, fmt.Errorf("reading header: %w", err)
		}
	}
	if threads == 0 || threads > 255 {
		return nil, fmt.Errorf("invalid key derivation parameters")
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(r, salt); err != nil {
		return nil, fmt.Errorf("reading salt: %w", err)
	}

	key := argon2.IDKey([]byte(passphrase), salt, time, memory, uint8(threads), chacha20poly1305.KeySize)
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(r, nonce); err != nil {
		return nil, fmt.Errorf("reading nonce: %w", err)
	}

	ciphertext := make([]byte, r.Len())
	if _, err := io.ReadFull(r, ciphertext); err != nil {
		return nil, fmt.Errorf("reading ciphertext: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, magic)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return plaintext, nil
}

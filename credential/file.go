package credential

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// ErrInvalidSecret is an exported constant or variable used by the credential slot.
var ErrInvalidSecret = errors.New("file store secret must not be empty")

// ErrCorruptSlot is an exported constant or variable used by the credential slot.
var ErrCorruptSlot = errors.New("credential slot corrupt")

const fileKeyInfo = "deemo-token-store"

// FileStore keeps the token encrypted at rest in a single file.
//
// The encryption key is derived from an app-scoped secret with HKDF-SHA256
// and the token is sealed with XChaCha20-Poly1305, nonce prepended. Writes go
// through a temp file followed by rename so a crash never leaves a partially
// written slot.
type FileStore struct {
	path string
	key  []byte
}

// NewFileStore derives the sealing key from secret and binds the store to
// path. The secret is typically a per-install random value kept by the host
// application; it must be non-empty.
func NewFileStore(path string, secret []byte) (*FileStore, error) {
	if len(secret) == 0 {
		return nil, ErrInvalidSecret
	}

	h := hkdf.New(sha256.New, secret, nil, []byte(fileKeyInfo))
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, fmt.Errorf("derive file store key: %w", err)
	}

	return &FileStore{path: path, key: key}, nil
}

// Save seals token and overwrites the slot file with 0600 permissions.
func (s *FileStore) Save(_ context.Context, token string) error {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return fmt.Errorf("init cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(token), nil)

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("create temp slot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(sealed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write slot: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod slot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close slot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("commit slot: %w", err)
	}

	return nil
}

// Load opens and decrypts the slot file. A missing file is [ErrNoToken]; a
// present but undecryptable file is [ErrCorruptSlot].
func (s *FileStore) Load(_ context.Context) (string, error) {
	sealed, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("read slot: %w", err)
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}

	if len(sealed) < aead.NonceSize() {
		return "", ErrCorruptSlot
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	token, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrCorruptSlot
	}

	return string(token), nil
}

// Clear removes the slot file. Clearing an already-empty slot succeeds.
func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove slot: %w", err)
	}
	return nil
}

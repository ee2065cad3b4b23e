package credential

import (
	"context"
	"sync"
)

// MemoryStore is an in-process token slot used in tests and throwaway
// sessions. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	set   bool
}

// NewMemoryStore describes the newmemorystore operation and its observable behavior.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save overwrites the held token.
func (s *MemoryStore) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.set = true
	return nil
}

// Load returns the held token or [ErrNoToken].
func (s *MemoryStore) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return "", ErrNoToken
	}
	return s.token, nil
}

// Clear drops the held token. Idempotent.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.set = false
	return nil
}

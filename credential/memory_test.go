package credential

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Load(ctx); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken on empty store, got %v", err)
	}

	if err := store.Save(ctx, "tok-1"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	token, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("expected tok-1, got %q", token)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken after clear, got %v", err)
	}
}

func TestMemoryStoreEmptyTokenIsStillAToken(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Save(ctx, ""); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	token, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("expected empty string to load, got %v", err)
	}
	if token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Save(ctx, "tok")
			_, _ = store.Load(ctx)
			_ = store.Clear(ctx)
		}()
	}
	wg.Wait()
}

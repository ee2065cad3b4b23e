package deemo

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/deemo-app/deemo-go/credential"
)

func TestLogoutClearsSessionAndSlot(t *testing.T) {
	engine, store, done := newTestEngine(t, volunteerBackend(t))
	defer done()

	if err := engine.Login(context.Background(), testEmail, testPassword); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	waitAutoFetch(engine)

	engine.Logout(context.Background())

	snap := engine.Snapshot()
	if snap.LoggedIn {
		t.Fatal("expected LoggedIn false after logout")
	}
	if snap.Profile != nil {
		t.Fatal("expected profile cleared after logout")
	}
	if snap.LastError != nil {
		t.Fatalf("expected LastError cleared, got %+v", snap.LastError)
	}

	if _, err := store.Load(context.Background()); !errors.Is(err, credential.ErrNoToken) {
		t.Fatalf("expected empty credential slot, got %v", err)
	}
}

func TestLogoutFromLoggedOutStateIsNoOp(t *testing.T) {
	engine, _, done := newTestEngine(t, volunteerBackend(t))
	defer done()

	engine.Logout(context.Background())
	engine.Logout(context.Background())

	snap := engine.Snapshot()
	if snap.LoggedIn || snap.Profile != nil || snap.LastError != nil {
		t.Fatalf("expected clean logged-out state, got %+v", snap)
	}
	if got := engine.MetricsSnapshot().Counters[MetricLogout]; got != 2 {
		t.Fatalf("expected 2 logout operations counted, got %d", got)
	}
}

func TestLogoutSucceedsWhenClearFails(t *testing.T) {
	srv := httptest.NewServer(volunteerBackend(t))
	defer srv.Close()

	store := &failingStore{
		inner:    credential.NewMemoryStore(),
		clearErr: errors.New("permission denied"),
	}

	engine, err := New().
		WithBaseURL(srv.URL).
		WithHTTPClient(srv.Client()).
		WithCredentialStore(store).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if err := engine.Login(context.Background(), testEmail, testPassword); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	waitAutoFetch(engine)

	// Clear failing must not keep the session alive.
	engine.Logout(context.Background())

	snap := engine.Snapshot()
	if snap.LoggedIn || snap.Profile != nil {
		t.Fatalf("expected logged-out state despite clear failure, got %+v", snap)
	}
}

func TestLoginAfterLogoutStartsFreshSession(t *testing.T) {
	engine, _, done := newTestEngine(t, volunteerBackend(t))
	defer done()

	if err := engine.Login(context.Background(), testEmail, testPassword); err != nil {
		t.Fatalf("first Login failed: %v", err)
	}
	waitAutoFetch(engine)

	engine.Logout(context.Background())

	if err := engine.Login(context.Background(), testEmail, testPassword); err != nil {
		t.Fatalf("second Login failed: %v", err)
	}
	waitAutoFetch(engine)

	snap := engine.Snapshot()
	if !snap.LoggedIn || snap.Profile == nil {
		t.Fatalf("expected fresh logged-in session, got %+v", snap)
	}
}

package deemo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deemo-app/deemo-go/credential"
)

func TestLoginSuccessPersistsTokenAndFetchesProfile(t *testing.T) {
	engine, store, done := newTestEngine(t, volunteerBackend(t))
	defer done()

	if err := engine.Login(context.Background(), testEmail, testPassword); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	token, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if token != testToken {
		t.Fatalf("expected token %q persisted, got %q", testToken, token)
	}

	waitAutoFetch(engine)

	snap := engine.Snapshot()
	if !snap.LoggedIn {
		t.Fatal("expected LoggedIn after successful login")
	}
	if snap.LastError != nil {
		t.Fatalf("expected nil LastError, got %+v", snap.LastError)
	}
	if snap.Profile == nil {
		t.Fatal("expected profile populated by automatic fetch")
	}
	if snap.Profile.Name != testProfile.Name || snap.Profile.Age != testProfile.Age {
		t.Fatalf("unexpected profile: %+v", snap.Profile)
	}

	if got := engine.MetricsSnapshot().Counters[MetricLoginSuccess]; got != 1 {
		t.Fatalf("expected 1 login success, got %d", got)
	}
	if got := engine.MetricsSnapshot().Counters[MetricProfileFetchSuccess]; got != 1 {
		t.Fatalf("expected 1 profile fetch success, got %d", got)
	}
}

func TestLoginRejectedNeverPersistsToken(t *testing.T) {
	engine, store, done := newTestEngine(t, volunteerBackend(t))
	defer done()

	err := engine.Login(context.Background(), "bad@example.com", "pw")
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed, got %v", err)
	}

	if _, err := store.Load(context.Background()); !errors.Is(err, credential.ErrNoToken) {
		t.Fatalf("expected empty credential slot, got %v", err)
	}

	snap := engine.Snapshot()
	if snap.LoggedIn {
		t.Fatal("expected LoggedIn false after rejected login")
	}
	if snap.LastError == nil || snap.LastError.Kind != KindAuthFailed {
		t.Fatalf("expected AuthFailed detail, got %+v", snap.LastError)
	}
	if snap.LastError.Message == "" {
		t.Fatal("expected human-readable failure message")
	}

	if got := engine.MetricsSnapshot().Counters[MetricLoginFailure]; got != 1 {
		t.Fatalf("expected 1 login failure, got %d", got)
	}
}

func TestLoginTransportFailureMapsToAuthFailed(t *testing.T) {
	srv := httptest.NewServer(volunteerBackend(t))
	store := credential.NewMemoryStore()

	engine, err := New().
		WithBaseURL(srv.URL).
		WithHTTPClient(srv.Client()).
		WithCredentialStore(store).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	// Take the backend down before the call.
	srv.Close()

	if err := engine.Login(context.Background(), testEmail, testPassword); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed for transport failure during login, got %v", err)
	}

	snap := engine.Snapshot()
	if snap.LoggedIn {
		t.Fatal("expected LoggedIn false")
	}
	if snap.LastError == nil || snap.LastError.Kind != KindAuthFailed {
		t.Fatalf("expected AuthFailed detail, got %+v", snap.LastError)
	}
	if _, err := store.Load(context.Background()); !errors.Is(err, credential.ErrNoToken) {
		t.Fatalf("expected empty credential slot, got %v", err)
	}
}

func TestLoginMissingTokenInResponseFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"token":""}`))
	})

	engine, store, done := newTestEngine(t, mux)
	defer done()

	if err := engine.Login(context.Background(), testEmail, testPassword); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("expected ErrAuthFailed for tokenless response, got %v", err)
	}
	if _, err := store.Load(context.Background()); !errors.Is(err, credential.ErrNoToken) {
		t.Fatalf("expected empty credential slot, got %v", err)
	}
}

func TestLoginPersistFailureDoesNotFlipLoggedIn(t *testing.T) {
	srv := httptest.NewServer(volunteerBackend(t))
	defer srv.Close()

	store := &failingStore{
		inner:   credential.NewMemoryStore(),
		saveErr: errors.New("disk full"),
	}

	engine, err := New().
		WithBaseURL(srv.URL).
		WithHTTPClient(srv.Client()).
		WithCredentialStore(store).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if err := engine.Login(context.Background(), testEmail, testPassword); !errors.Is(err, ErrTokenPersistFailed) {
		t.Fatalf("expected ErrTokenPersistFailed, got %v", err)
	}
	if store.saveCalls != 1 {
		t.Fatalf("expected exactly one save attempt, got %d", store.saveCalls)
	}

	snap := engine.Snapshot()
	if snap.LoggedIn {
		t.Fatal("expected LoggedIn false when persist fails")
	}
	if snap.LastError == nil || snap.LastError.Kind != KindTransport {
		t.Fatalf("expected Transport detail, got %+v", snap.LastError)
	}
	if got := engine.MetricsSnapshot().Counters[MetricTokenPersistFailure]; got != 1 {
		t.Fatalf("expected 1 persist failure, got %d", got)
	}
}

func TestLoginSupersededByLogoutDiscardsResult(t *testing.T) {
	gate := newGatedHandler(volunteerBackend(t), "/api/auth/login")
	engine, store, done := newTestEngine(t, gate)
	defer done()

	result := make(chan error, 1)
	go func() {
		result <- engine.Login(context.Background(), testEmail, testPassword)
	}()

	<-gate.started
	engine.Logout(context.Background())
	close(gate.release)

	if err := <-result; !errors.Is(err, ErrSessionSuperseded) {
		t.Fatalf("expected ErrSessionSuperseded, got %v", err)
	}

	if _, err := store.Load(context.Background()); !errors.Is(err, credential.ErrNoToken) {
		t.Fatalf("expected token never persisted, got %v", err)
	}

	snap := engine.Snapshot()
	if snap.LoggedIn {
		t.Fatal("expected logged-out state to win")
	}
	if snap.Profile != nil {
		t.Fatal("expected no profile after logout")
	}
	if got := engine.MetricsSnapshot().Counters[MetricStaleResponseDiscarded]; got != 1 {
		t.Fatalf("expected 1 stale discard, got %d", got)
	}
}

func TestLoginOnNilEngine(t *testing.T) {
	var engine *Engine
	if err := engine.Login(context.Background(), testEmail, testPassword); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
}

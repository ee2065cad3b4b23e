package deemo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/deemo-app/deemo-go/api"
	"github.com/deemo-app/deemo-go/credential"
)

const (
	testEmail    = "alice@example.com"
	testPassword = "pw123"
	testToken    = "tok-alice"
)

var testProfile = api.Profile{
	Name:        "Alice",
	Role:        "volunteer",
	PhoneNumber: "555-0199",
	Age:         29,
	About:       "Weekend shifts only.",
}

// volunteerBackend is a canned httptest handler speaking the service wire
// protocol: one known account, bearer-token profile access, signup that
// rejects the taken address.
func volunteerBackend(t *testing.T) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "malformed request body", http.StatusBadRequest)
			return
		}
		if req.Email != testEmail || req.Password != testPassword {
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": testToken})
	})
	mux.HandleFunc("/api/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "malformed request body", http.StatusBadRequest)
			return
		}
		if req.Email == "taken@example.com" {
			http.Error(w, "an account with that email already exists", http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/api/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(testProfile)
	})
	return mux
}

// gatedHandler wraps an inner handler and blocks matching requests until the
// gate is released. Used to interleave a logout with an in-flight response.
type gatedHandler struct {
	inner      http.Handler
	pathPrefix string

	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func newGatedHandler(inner http.Handler, pathPrefix string) *gatedHandler {
	return &gatedHandler{
		inner:      inner,
		pathPrefix: pathPrefix,
		started:    make(chan struct{}),
		release:    make(chan struct{}),
	}
}

func (g *gatedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, g.pathPrefix) {
		g.once.Do(func() { close(g.started) })
		<-g.release
	}
	g.inner.ServeHTTP(w, r)
}

func newTestEngine(t *testing.T, handler http.Handler) (*Engine, *credential.MemoryStore, func()) {
	t.Helper()

	srv := httptest.NewServer(handler)
	store := credential.NewMemoryStore()

	engine, err := New().
		WithBaseURL(srv.URL).
		WithHTTPClient(srv.Client()).
		WithCredentialStore(store).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		srv.Close()
		t.Fatalf("Build failed: %v", err)
	}

	return engine, store, func() {
		engine.Close()
		srv.Close()
	}
}

// waitAutoFetch blocks until the login-triggered profile fetch has published
// its result.
func waitAutoFetch(e *Engine) {
	e.autoFetch.Wait()
}

// failingStore rejects writes, loads, or clears on demand.
type failingStore struct {
	inner     credential.Store
	saveErr   error
	loadErr   error
	clearErr  error
	saveCalls int
}

func (s *failingStore) Save(ctx context.Context, token string) error {
	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.inner.Save(ctx, token)
}

func (s *failingStore) Load(ctx context.Context) (string, error) {
	if s.loadErr != nil {
		return "", s.loadErr
	}
	return s.inner.Load(ctx)
}

func (s *failingStore) Clear(ctx context.Context) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	return s.inner.Clear(ctx)
}

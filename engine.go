package deemo

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/deemo-app/deemo-go/api"
	"github.com/deemo-app/deemo-go/credential"
)

// Engine is the session state machine. It owns the observable fields
// LoggedIn, Profile, and LastError, serializes every mutation behind a
// single lock, and guards result handling with a generation counter so a
// response from before a Logout or a newer Login can never resurrect stale
// state.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config    Config
	apiClient *api.Client
	creds     credential.Store
	audit     *auditDispatcher
	metrics   *Metrics

	autoFetch sync.WaitGroup

	mu             sync.Mutex
	generation     uint64
	loggedIn       bool
	profile        *Profile
	lastError      *ErrorDetail
	observers      map[int]Observer
	nextObserverID int
}

// Close describes the close operation and its observable behavior.
//
// Close waits for any in-flight automatic profile fetch and flushes the
// audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.autoFetch.Wait()
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

// Subscribe registers obs to receive a [Snapshot] synchronously after every
// state change, on the goroutine that performed the mutation and in mutation
// order. The returned cancel function removes the subscription and is
// idempotent.
//
// Observers run under the engine's state lock: they must not call back into
// Engine methods, only consume the snapshot (typically by handing it to a
// render loop).
func (e *Engine) Subscribe(obs Observer) func() {
	if e == nil || obs == nil {
		return func() {}
	}

	e.mu.Lock()
	id := e.nextObserverID
	e.nextObserverID++
	e.observers[id] = obs
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.observers, id)
			e.mu.Unlock()
		})
	}
}

// Snapshot returns an immutable copy of the current session state.
func (e *Engine) Snapshot() Snapshot {
	if e == nil {
		return Snapshot{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	snap := Snapshot{
		LoggedIn:   e.loggedIn,
		Generation: e.generation,
	}
	if e.profile != nil {
		p := *e.profile
		snap.Profile = &p
	}
	if e.lastError != nil {
		d := *e.lastError
		snap.LastError = &d
	}
	return snap
}

func (e *Engine) notifyLocked() {
	if len(e.observers) == 0 {
		return
	}
	snap := e.snapshotLocked()
	for _, obs := range e.observers {
		obs(snap)
	}
}

// Login authenticates with the service and, on success, persists the issued
// token and flips LoggedIn before automatically triggering a profile fetch.
// The fetch is fire-and-forget from the caller's perspective; its result is
// still published to observers.
//
// A login failure never persists a token: LoggedIn is forced false, LastError
// carries the auth failure, and the credential slot is left untouched.
func (e *Engine) Login(ctx context.Context, email, password string) error {
	if e == nil || e.apiClient == nil || e.creds == nil {
		return ErrEngineNotReady
	}

	// A new login cycle supersedes everything in flight.
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.lastError = nil
	e.notifyLocked()
	e.mu.Unlock()

	token, err := e.apiClient.Login(ctx, email, password)

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		e.discardStaleLocked(ctx, auditEventLoginFailure, email, gen)
		return ErrSessionSuperseded
	}

	if err != nil {
		e.loggedIn = false
		e.lastError = &ErrorDetail{Kind: KindAuthFailed, Message: err.Error()}
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, email, gen, ErrAuthFailed, nil)
		e.notifyLocked()
		return ErrAuthFailed
	}

	if err := e.creds.Save(ctx, token); err != nil {
		// The session is only real once the token is persisted.
		e.loggedIn = false
		e.lastError = &ErrorDetail{Kind: KindTransport, Message: "persist token: " + err.Error()}
		e.metricInc(MetricTokenPersistFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, email, gen, ErrTokenPersistFailed, nil)
		e.notifyLocked()
		return ErrTokenPersistFailed
	}

	e.loggedIn = true
	e.lastError = nil
	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, email, gen, nil, nil)
	e.notifyLocked()

	fetchCtx := context.WithoutCancel(ctx)
	e.autoFetch.Add(1)
	go func() {
		defer e.autoFetch.Done()
		_ = e.fetchProfile(fetchCtx, gen)
	}()

	return nil
}

// Signup registers a new account. Success does not log the user in; the
// caller is expected to follow up with [Engine.Login]. Failures are absorbed
// into LastError like every other operation.
func (e *Engine) Signup(ctx context.Context, name, email, password string) error {
	if e == nil || e.apiClient == nil {
		return ErrEngineNotReady
	}

	e.mu.Lock()
	gen := e.generation
	e.lastError = nil
	e.notifyLocked()
	e.mu.Unlock()

	err := e.apiClient.Signup(ctx, name, email, password)

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		e.discardStaleLocked(ctx, auditEventSignupFailure, email, gen)
		return ErrSessionSuperseded
	}

	if err != nil {
		kind := KindTransport
		if errors.Is(err, api.ErrSignupRejected) {
			kind = KindAuthFailed
		}
		e.lastError = &ErrorDetail{Kind: kind, Message: err.Error()}
		e.metricInc(MetricSignupFailure)
		e.emitAudit(ctx, auditEventSignupFailure, false, email, gen, ErrSignupFailed, nil)
		e.notifyLocked()
		return ErrSignupFailed
	}

	e.metricInc(MetricSignupSuccess)
	e.emitAudit(ctx, auditEventSignupSuccess, true, email, gen, nil, nil)
	return nil
}

// FetchProfile retrieves the profile for the stored token and publishes it.
// Without a stored token it sets LastError to the not-authenticated detail
// and never touches the network.
//
// A fetch failure flips LoggedIn false as a conservative signal that the
// profile view is unusable, but never deletes the persisted token: a retry
// can succeed without re-entering credentials.
func (e *Engine) FetchProfile(ctx context.Context) error {
	if e == nil || e.apiClient == nil || e.creds == nil {
		return ErrEngineNotReady
	}

	e.mu.Lock()
	gen := e.generation
	e.lastError = nil
	e.notifyLocked()
	e.mu.Unlock()

	return e.fetchProfile(ctx, gen)
}

// fetchProfile is the shared second step of the login pipeline and the
// user-triggered refresh. The caller supplies the generation the result must
// still belong to.
func (e *Engine) fetchProfile(ctx context.Context, gen uint64) error {
	token, err := e.creds.Load(ctx)
	if err != nil {
		e.mu.Lock()
		defer e.mu.Unlock()

		if gen != e.generation {
			e.discardStaleLocked(ctx, auditEventProfileFetchFailure, "", gen)
			return ErrSessionSuperseded
		}

		if errors.Is(err, credential.ErrNoToken) {
			e.lastError = &ErrorDetail{Kind: KindNotAuthenticated, Message: "no token stored"}
			e.metricInc(MetricNotAuthenticated)
			e.emitAudit(ctx, auditEventProfileFetchFailure, false, "", gen, ErrNotAuthenticated, nil)
			e.notifyLocked()
			return ErrNotAuthenticated
		}

		e.lastError = &ErrorDetail{Kind: KindTransport, Message: "load token: " + err.Error()}
		e.metricInc(MetricProfileFetchFailure)
		e.emitAudit(ctx, auditEventProfileFetchFailure, false, "", gen, ErrTransportFailure, nil)
		e.notifyLocked()
		return ErrTransportFailure
	}

	var start time.Time
	if e.metrics.LatencyEnabled() {
		start = time.Now()
	}

	profile, err := e.apiClient.FetchProfile(ctx, token)

	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricProfileFetchLatency, time.Since(start))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if gen != e.generation {
		e.discardStaleLocked(ctx, auditEventProfileFetchFailure, "", gen)
		return ErrSessionSuperseded
	}

	if err != nil {
		e.loggedIn = false
		e.lastError = &ErrorDetail{Kind: KindTransport, Message: err.Error()}
		e.metricInc(MetricProfileFetchFailure)
		e.emitAudit(ctx, auditEventProfileFetchFailure, false, "", gen, ErrTransportFailure, nil)
		e.notifyLocked()
		return ErrTransportFailure
	}

	e.profile = profile
	e.lastError = nil
	e.metricInc(MetricProfileFetchSuccess)
	e.emitAudit(ctx, auditEventProfileFetchSuccess, true, "", gen, nil, nil)
	e.notifyLocked()
	return nil
}

// Logout clears the credential slot and resets the session to the logged-out
// state. It always succeeds, synchronously and unconditionally, from any
// prior state; clearing an already-empty slot is a no-op.
func (e *Engine) Logout(ctx context.Context) {
	if e == nil || e.creds == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.generation++

	// Slot clear is best-effort and must not block the state reset.
	if err := e.creds.Clear(ctx); err != nil {
		log.Print("deemo: credential clear failed on logout")
	}

	e.loggedIn = false
	e.profile = nil
	e.lastError = nil
	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, true, "", e.generation, nil, nil)
	e.notifyLocked()
}

func (e *Engine) discardStaleLocked(ctx context.Context, eventType, email string, gen uint64) {
	e.metricInc(MetricStaleResponseDiscarded)
	e.emitAudit(ctx, auditEventStaleResponseDiscarded, false, email, gen, ErrSessionSuperseded, func() map[string]string {
		return map[string]string{
			"origin": eventType,
		}
	})
}

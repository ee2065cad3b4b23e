package deemo

import "errors"

var (
	// ErrAuthFailed is an exported constant or variable used by the session engine.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrSignupFailed is an exported constant or variable used by the session engine.
	ErrSignupFailed = errors.New("signup failed")
	// ErrNotAuthenticated is an exported constant or variable used by the session engine.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrTransportFailure is an exported constant or variable used by the session engine.
	ErrTransportFailure = errors.New("transport failure")
	// ErrInvalidInput is an exported constant or variable used by the session engine.
	ErrInvalidInput = errors.New("invalid input")
	// ErrSessionSuperseded is an exported constant or variable used by the session engine.
	ErrSessionSuperseded = errors.New("session superseded")
	// ErrTokenPersistFailed is an exported constant or variable used by the session engine.
	ErrTokenPersistFailed = errors.New("token persist failed")
	// ErrEngineNotReady is an exported constant or variable used by the session engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

package deemo

import (
	"github.com/deemo-app/deemo-go/api"
)

// Profile is the immutable account record fetched from the service.
// The UI may hold an edited draft copy, but a draft is never written back
// into the session state; there is no save-profile operation in the service
// contract.
type Profile = api.Profile

// ErrorKind classifies the most recent session failure for the UI.
type ErrorKind uint8

const (
	// KindNone is an exported constant or variable used by the session engine.
	KindNone ErrorKind = iota
	// KindInvalidInput is an exported constant or variable used by the session engine.
	KindInvalidInput
	// KindAuthFailed is an exported constant or variable used by the session engine.
	KindAuthFailed
	// KindNotAuthenticated is an exported constant or variable used by the session engine.
	KindNotAuthenticated
	// KindTransport is an exported constant or variable used by the session engine.
	KindTransport
)

// String describes the string operation and its observable behavior.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidInput:
		return "invalid_input"
	case KindAuthFailed:
		return "auth_failed"
	case KindNotAuthenticated:
		return "not_authenticated"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// ErrorDetail is the observable description of the most recent failure.
// Message is human-readable, server- or transport-supplied.
type ErrorDetail struct {
	Kind    ErrorKind
	Message string
}

// Snapshot is an immutable copy of the session state handed to observers and
// returned by [Engine.Snapshot].
//
// LoggedIn true implies a token is present in the credential slot. The
// converse does not hold: a token may survive a failed profile fetch so a
// retry can succeed without re-entering credentials.
type Snapshot struct {
	LoggedIn   bool
	Profile    *Profile
	LastError  *ErrorDetail
	Generation uint64
}

// Observer receives a [Snapshot] synchronously, on the goroutine that
// performed the mutation, after every session state change.
type Observer func(Snapshot)

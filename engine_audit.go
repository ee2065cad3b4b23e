package deemo

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventLoginSuccess           = "login_success"
	auditEventLoginFailure           = "login_failure"
	auditEventSignupSuccess          = "signup_success"
	auditEventSignupFailure          = "signup_failure"
	auditEventProfileFetchSuccess    = "profile_fetch_success"
	auditEventProfileFetchFailure    = "profile_fetch_failure"
	auditEventLogout                 = "logout"
	auditEventStaleResponseDiscarded = "stale_response_discarded"
)

// AuditErrorCode defines a public type used by deemo APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrAuthFailed        AuditErrorCode = "auth_failed"
	auditErrSignupFailed      AuditErrorCode = "signup_failed"
	auditErrNotAuthenticated  AuditErrorCode = "not_authenticated"
	auditErrTransportFailure  AuditErrorCode = "transport_failure"
	auditErrInvalidInput      AuditErrorCode = "invalid_input"
	auditErrSessionSuperseded AuditErrorCode = "session_superseded"
	auditErrTokenPersist      AuditErrorCode = "token_persist_failed"
	auditErrInternal          AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	email string,
	generation uint64,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp:  time.Now().UTC(),
		EventType:  eventType,
		Email:      email,
		Generation: generation,
		Success:    success,
		Metadata:   metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrAuthFailed):
		return auditErrAuthFailed
	case errors.Is(err, ErrSignupFailed):
		return auditErrSignupFailed
	case errors.Is(err, ErrNotAuthenticated):
		return auditErrNotAuthenticated
	case errors.Is(err, ErrTransportFailure):
		return auditErrTransportFailure
	case errors.Is(err, ErrInvalidInput):
		return auditErrInvalidInput
	case errors.Is(err, ErrSessionSuperseded):
		return auditErrSessionSuperseded
	case errors.Is(err, ErrTokenPersistFailed):
		return auditErrTokenPersist
	default:
		return auditErrInternal
	}
}

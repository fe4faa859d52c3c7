// Package audit emits structured audit events for authorization decisions
// and administrative mutations. Denials are recorded with their internal
// reason so "does not exist" and "exists but not yours" stay distinguishable
// even when the HTTP responses are identical.
package audit

import "go.uber.org/zap"

// Event names.
const (
	EventAuthzDenied        = "authz.denied"
	EventLogin              = "auth.login"
	EventLoginFailed        = "auth.login_failed"
	EventFirmCreated        = "firm.created"
	EventFirmDeactivated    = "firm.deactivated"
	EventAssignmentCreated  = "firm.assignment.created"
	EventAssignmentRevoked  = "firm.assignment.revoked"
	EventPasswordChanged    = "auth.password_changed"
)

// Log writes audit events through the application logger.
type Log struct {
	logger *zap.Logger
}

// New creates an audit log. A nil logger degrades to a no-op.
func New(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger.Named("audit")}
}

// Event records an audit event with structured fields.
func (l *Log) Event(event string, fields ...zap.Field) {
	l.logger.Info(event, fields...)
}

// Denied records an authorization denial with its internal reason.
func (l *Log) Denied(reason string, fields ...zap.Field) {
	l.logger.Warn(EventAuthzDenied, append(fields, zap.String("reason", reason))...)
}

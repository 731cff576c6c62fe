package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/wardenhq/warden/core/operation"
)

// EventType categorizes a security-relevant event. These are distinct from
// ordinary approval records: they capture bypass attempts, fail-safe
// triggers, timeouts and system failures.
type EventType string

const (
	// EventBypassAttempt indicates a detected attempt to act without the gate.
	EventBypassAttempt EventType = "bypass_attempt"
	// EventSecurityViolation indicates the bypass threshold was reached.
	EventSecurityViolation EventType = "security_violation"
	// EventFailSafe indicates an internal fault was converted to a denial.
	EventFailSafe EventType = "fail_safe"
	// EventTimeout indicates an interactive confirmation timed out.
	EventTimeout EventType = "timeout"
	// EventUIFailure indicates the approval UI collaborator failed.
	EventUIFailure EventType = "ui_failure"
	// EventSecurityReset indicates an administrative reset of the
	// escalated security state.
	EventSecurityReset EventType = "security_reset"
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	return string(t)
}

// IsSevere returns true for event types that warrant an immediate
// operator alert.
func (t EventType) IsSevere() bool {
	switch t {
	case EventSecurityViolation, EventFailSafe:
		return true
	default:
		return false
	}
}

// SecurityEvent records a security-relevant occurrence inside the gate.
type SecurityEvent struct {
	// ID is the unique identifier for this event.
	ID uuid.UUID `json:"id"`
	// Timestamp is when the event occurred (UTC).
	Timestamp time.Time `json:"timestamp"`
	// EventType is the category of the event.
	EventType EventType `json:"event_type"`
	// Message is a human-readable description.
	Message string `json:"message"`
	// Operation is the related operation, if any.
	Operation *operation.Info `json:"operation,omitempty"`
	// Details contains event-specific data.
	Details map[string]any `json:"details,omitempty"`
	// BypassAttempts is a snapshot of the gate's bypass counter at the
	// time of the event.
	BypassAttempts int `json:"bypass_attempts"`
}

// NewSecurityEvent creates a SecurityEvent with a generated UUID and
// current timestamp.
func NewSecurityEvent(eventType EventType, message string) *SecurityEvent {
	return &SecurityEvent{
		ID:        uuid.New(),
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Message:   message,
	}
}

// WithOperation sets the related operation.
func (e *SecurityEvent) WithOperation(op *operation.Info) *SecurityEvent {
	e.Operation = op
	return e
}

// WithDetails sets the event details.
func (e *SecurityEvent) WithDetails(details map[string]any) *SecurityEvent {
	e.Details = details
	return e
}

// WithBypassAttempts sets the bypass counter snapshot.
func (e *SecurityEvent) WithBypassAttempts(count int) *SecurityEvent {
	e.BypassAttempts = count
	return e
}

package approval

import (
	"fmt"
	"time"
)

// Error kinds embedded in Response.Details["error_kind"] so callers can
// observe why a denial happened without the gate ever raising across its
// public boundary.
const (
	ErrorKindValidation        = "validation"
	ErrorKindConfiguration     = "configuration"
	ErrorKindTimeout           = "timeout"
	ErrorKindCancelled         = "cancelled"
	ErrorKindUIFailure         = "ui_failure"
	ErrorKindBypassAttempt     = "bypass_attempt"
	ErrorKindSecurityViolation = "security_violation"
	ErrorKindInternal          = "internal"
)

// TimeoutError indicates the interactive confirmation did not complete in
// time. It is converted to a denial at the gate boundary.
type TimeoutError struct {
	Timeout time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("approval timed out after %s", e.Timeout)
}

// CancelledError indicates the caller's context was cancelled before a
// decision was made. It is converted to a denial at the gate boundary,
// distinct from a timeout that actually elapsed.
type CancelledError struct {
	Err error
}

// Error implements the error interface.
func (e *CancelledError) Error() string {
	return fmt.Sprintf("approval request cancelled: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *CancelledError) Unwrap() error {
	return e.Err
}

// UIError indicates the approval UI collaborator failed.
type UIError struct {
	Err error
}

// Error implements the error interface.
func (e *UIError) Error() string {
	return fmt.Sprintf("approval UI failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *UIError) Unwrap() error {
	return e.Err
}

// BypassAttemptError indicates a detected attempt to act without going
// through the gate. Always a denial, always logged.
type BypassAttemptError struct {
	Count  int
	Reason string
}

// Error implements the error interface.
func (e *BypassAttemptError) Error() string {
	return fmt.Sprintf("bypass attempt detected (%d so far): %s", e.Count, e.Reason)
}

// SecurityViolationError indicates the bypass threshold was reached. The
// denial is sticky until an explicit administrative reset.
type SecurityViolationError struct {
	Attempts  int
	Threshold int
}

// Error implements the error interface.
func (e *SecurityViolationError) Error() string {
	return fmt.Sprintf("security violation: %d bypass attempts reached threshold %d", e.Attempts, e.Threshold)
}

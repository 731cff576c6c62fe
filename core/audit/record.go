// Package audit provides the capped approval and security logs and the
// recorder that fans decisions out to durable sinks and operator alerts.
package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/wardenhq/warden/core/operation"
)

const (
	// DefaultApprovalLogCap is the maximum number of approval records kept
	// in memory; the oldest are evicted first.
	DefaultApprovalLogCap = 100
	// DefaultSecurityLogCap is the maximum number of security events kept
	// in memory.
	DefaultSecurityLogCap = 500
)

// Record is an audit record of a single approval decision.
type Record struct {
	// ID is the unique identifier for this record.
	ID uuid.UUID `json:"id"`
	// Timestamp is when the decision was made (UTC).
	Timestamp time.Time `json:"timestamp"`
	// Operation is the analyzed operation the decision was about.
	Operation *operation.Info `json:"operation"`
	// Approved is the decision outcome.
	Approved bool `json:"approved"`
	// Reason is the stated reason for the decision.
	Reason string `json:"reason,omitempty"`
	// ResponseTimeSeconds is how long the decision took, never negative.
	ResponseTimeSeconds float64 `json:"response_time_seconds"`
	// SessionID identifies the agent session that requested the operation.
	SessionID string `json:"session_id"`
}

// NewRecord creates a Record with a generated UUID and current timestamp.
// Negative response times are clamped to zero.
func NewRecord(op *operation.Info, approved bool, reason string, responseTime time.Duration, sessionID string) *Record {
	seconds := responseTime.Seconds()
	if seconds < 0 {
		seconds = 0
	}
	return &Record{
		ID:                  uuid.New(),
		Timestamp:           time.Now().UTC(),
		Operation:           op,
		Approved:            approved,
		Reason:              reason,
		ResponseTimeSeconds: seconds,
		SessionID:           sessionID,
	}
}

// Package storage provides durable persistence for approval decisions and
// security events.
package storage

import (
	"context"
	"time"

	"github.com/wardenhq/warden/core/audit"
	"github.com/wardenhq/warden/core/operation"
)

// ApprovalFilter selects approval records for queries.
type ApprovalFilter struct {
	Since         *time.Time
	Until         *time.Time
	SessionID     string
	OperationType operation.Type
	DeniedOnly    bool
	Limit         int
	Offset        int
}

// SecurityEventFilter selects security events for queries.
type SecurityEventFilter struct {
	Since     *time.Time
	EventType audit.EventType
	Limit     int
}

// Store defines durable persistence for the gate's audit trail. It also
// satisfies audit.Sink so a store can be attached directly to a Recorder.
type Store interface {
	// SaveApproval persists an approval decision.
	SaveApproval(ctx context.Context, record *audit.Record) error

	// QueryApprovals retrieves approval records matching the filter,
	// newest first.
	QueryApprovals(ctx context.Context, filter *ApprovalFilter) ([]*audit.Record, error)

	// CountApprovals returns the count of records matching the filter.
	CountApprovals(ctx context.Context, filter *ApprovalFilter) (int, error)

	// SaveSecurityEvent persists a security event.
	SaveSecurityEvent(ctx context.Context, event *audit.SecurityEvent) error

	// QuerySecurityEvents retrieves security events matching the filter,
	// newest first.
	QuerySecurityEvents(ctx context.Context, filter *SecurityEventFilter) ([]*audit.SecurityEvent, error)

	// CountSecurityEvents returns the count of events matching the filter.
	CountSecurityEvents(ctx context.Context, filter *SecurityEventFilter) (int, error)

	// DeleteApprovalsBefore deletes approval records older than the given
	// time and returns how many were removed.
	DeleteApprovalsBefore(ctx context.Context, before time.Time) (int, error)

	// DeleteSecurityEventsBefore deletes security events older than the
	// given time and returns how many were removed.
	DeleteSecurityEventsBefore(ctx context.Context, before time.Time) (int, error)

	// GetDatabaseInfo describes the backing database.
	GetDatabaseInfo(ctx context.Context) (*DatabaseInfo, error)

	// Init initializes the database schema.
	Init(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}

// DatabaseInfo describes the state of the backing database.
type DatabaseInfo struct {
	Path               string
	SizeBytes          int64
	ApprovalCount      int
	SecurityEventCount int
	OldestApproval     time.Time
	NewestApproval     time.Time
}

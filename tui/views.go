package tui

import (
	"time"

	"github.com/wardenhq/warden/core/audit"
)

// StatusView represents the gate status output data.
type StatusView struct {
	Version           string           `json:"version"`
	Mode              string           `json:"mode"`
	BypassAttempts    int              `json:"bypass_attempts"`
	SecurityViolation bool             `json:"security_violation"`
	Database          DatabaseView     `json:"database"`
	Config            ConfigStatusView `json:"config"`
}

// DatabaseView represents audit database information.
type DatabaseView struct {
	Location           string    `json:"location"`
	SizeBytes          int64     `json:"size_bytes"`
	SizeHuman          string    `json:"size_human"`
	ApprovalCount      int       `json:"approval_count"`
	SecurityEventCount int       `json:"security_event_count"`
	OldestApproval     time.Time `json:"oldest_approval,omitempty"`
	NewestApproval     time.Time `json:"newest_approval,omitempty"`
}

// ConfigStatusView represents configuration status.
type ConfigStatusView struct {
	Location          string    `json:"location"`
	Mode              string    `json:"mode"`
	TimeoutSeconds    int       `json:"timeout_seconds"`
	MaxBypassAttempts int       `json:"max_bypass_attempts"`
	RetentionDays     int       `json:"retention_days"`
	RecordsToClean    int       `json:"records_to_clean"`
	RetentionCutoff   time.Time `json:"retention_cutoff,omitempty"`
}

// ApprovalView represents an approval decision for display.
type ApprovalView struct {
	ID                  string    `json:"id"`
	ShortID             string    `json:"short_id"`
	Timestamp           time.Time `json:"timestamp"`
	SessionID           string    `json:"session_id"`
	ShortSessionID      string    `json:"short_session_id"`
	OperationType       string    `json:"operation_type"`
	Target              string    `json:"target"`
	RiskLevel           string    `json:"risk_level"`
	Approved            bool      `json:"approved"`
	Reason              string    `json:"reason"`
	ResponseTimeSeconds float64   `json:"response_time_seconds"`
}

// NewApprovalView builds an ApprovalView from an audit record.
func NewApprovalView(record *audit.Record) *ApprovalView {
	view := &ApprovalView{
		ID:                  record.ID.String(),
		ShortID:             FormatShortID(record.ID.String()),
		Timestamp:           record.Timestamp,
		SessionID:           record.SessionID,
		ShortSessionID:      FormatShortID(record.SessionID),
		Approved:            record.Approved,
		Reason:              record.Reason,
		ResponseTimeSeconds: record.ResponseTimeSeconds,
	}

	if record.Operation != nil {
		view.OperationType = string(record.Operation.OperationType)
		view.Target = record.Operation.Target
		view.RiskLevel = record.Operation.RiskLevel.String()
	}

	return view
}

// SecurityEventView represents a security event for display.
type SecurityEventView struct {
	ID             string         `json:"id"`
	ShortID        string         `json:"short_id"`
	Timestamp      time.Time      `json:"timestamp"`
	EventType      string         `json:"event_type"`
	Severe         bool           `json:"severe"`
	Message        string         `json:"message"`
	OperationType  string         `json:"operation_type,omitempty"`
	Target         string         `json:"target,omitempty"`
	BypassAttempts int            `json:"bypass_attempts"`
	Details        map[string]any `json:"details,omitempty"`
}

// NewSecurityEventView builds a SecurityEventView from a security event.
func NewSecurityEventView(event *audit.SecurityEvent) *SecurityEventView {
	view := &SecurityEventView{
		ID:             event.ID.String(),
		ShortID:        FormatShortID(event.ID.String()),
		Timestamp:      event.Timestamp,
		EventType:      string(event.EventType),
		Severe:         event.EventType.IsSevere(),
		Message:        event.Message,
		BypassAttempts: event.BypassAttempts,
		Details:        event.Details,
	}

	if event.Operation != nil {
		view.OperationType = string(event.Operation.OperationType)
		view.Target = event.Operation.Target
	}

	return view
}

// RetentionView represents retention enforcement results for display.
type RetentionView struct {
	Enabled          bool      `json:"enabled"`
	RetentionDays    int       `json:"retention_days"`
	Cutoff           time.Time `json:"cutoff,omitempty"`
	DryRun           bool      `json:"dry_run"`
	ApprovalsDeleted int       `json:"approvals_deleted"`
	EventsDeleted    int       `json:"events_deleted"`
}

// DoctorView represents doctor check results.
type DoctorView struct {
	Checks []DoctorCheck `json:"checks"`
	AllOK  bool          `json:"all_ok"`
}

// DoctorCheck represents a single doctor check.
type DoctorCheck struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Status      CheckStatus `json:"status"`
	Message     string      `json:"message"`
	Suggestion  string      `json:"suggestion,omitempty"`
}

// CheckStatus represents the status of a doctor check.
type CheckStatus string

const (
	CheckOK   CheckStatus = "ok"
	CheckWarn CheckStatus = "warn"
	CheckFail CheckStatus = "fail"
)

// ConfigView represents configuration for display.
type ConfigView struct {
	Location string         `json:"location"`
	Values   map[string]any `json:"values"`
}

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wardenhq/warden/core/audit"
	"github.com/wardenhq/warden/core/operation"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS approvals (
	id TEXT PRIMARY KEY,
	timestamp DATETIME NOT NULL,
	session_id TEXT NOT NULL,
	operation_type TEXT,
	target TEXT,
	risk_level TEXT,
	operation TEXT,
	approved INTEGER NOT NULL,
	reason TEXT,
	response_time_seconds REAL NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_approvals_timestamp ON approvals (timestamp);
CREATE INDEX IF NOT EXISTS idx_approvals_session ON approvals (session_id);

CREATE TABLE IF NOT EXISTS security_events (
	id TEXT PRIMARY KEY,
	timestamp DATETIME NOT NULL,
	event_type TEXT NOT NULL,
	message TEXT NOT NULL,
	operation TEXT,
	details TEXT,
	bypass_attempts INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_security_events_timestamp ON security_events (timestamp);
`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLite store at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Use _pragma=foreign_keys(1) for modernc.org/sqlite
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_pragma=foreign_keys(1)", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &SQLiteStore{
		db:   db,
		path: path,
	}, nil
}

// Init initializes the database schema.
func (s *SQLiteStore) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveApproval persists an approval decision.
func (s *SQLiteStore) SaveApproval(ctx context.Context, record *audit.Record) error {
	var opType, target, risk string
	opJSON := []byte("null")

	if record.Operation != nil {
		opType = string(record.Operation.OperationType)
		target = record.Operation.Target
		risk = record.Operation.RiskLevel.String()

		data, err := json.Marshal(record.Operation)
		if err != nil {
			return fmt.Errorf("failed to marshal operation: %w", err)
		}
		opJSON = data
	}

	approved := 0
	if record.Approved {
		approved = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO approvals
			(id, timestamp, session_id, operation_type, target, risk_level, operation, approved, reason, response_time_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID.String(),
		record.Timestamp.UTC(),
		record.SessionID,
		opType,
		target,
		risk,
		string(opJSON),
		approved,
		record.Reason,
		record.ResponseTimeSeconds,
	)
	if err != nil {
		return fmt.Errorf("failed to save approval record: %w", err)
	}

	return nil
}

// QueryApprovals retrieves approval records matching the filter, newest first.
func (s *SQLiteStore) QueryApprovals(ctx context.Context, filter *ApprovalFilter) ([]*audit.Record, error) {
	where, args := buildApprovalWhere(filter)

	query := `
		SELECT id, timestamp, session_id, operation, approved, reason, response_time_seconds
		FROM approvals` + where + ` ORDER BY timestamp DESC, id DESC`

	if filter != nil && filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query approval records: %w", err)
	}
	defer rows.Close()

	var records []*audit.Record
	for rows.Next() {
		record, err := scanApproval(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// CountApprovals returns the count of records matching the filter.
func (s *SQLiteStore) CountApprovals(ctx context.Context, filter *ApprovalFilter) (int, error) {
	where, args := buildApprovalWhere(filter)

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM approvals"+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count approval records: %w", err)
	}

	return count, nil
}

// SaveSecurityEvent persists a security event.
func (s *SQLiteStore) SaveSecurityEvent(ctx context.Context, event *audit.SecurityEvent) error {
	opJSON := []byte("null")
	if event.Operation != nil {
		data, err := json.Marshal(event.Operation)
		if err != nil {
			return fmt.Errorf("failed to marshal operation: %w", err)
		}
		opJSON = data
	}

	detailsJSON := []byte("null")
	if event.Details != nil {
		data, err := json.Marshal(event.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal details: %w", err)
		}
		detailsJSON = data
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO security_events
			(id, timestamp, event_type, message, operation, details, bypass_attempts)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID.String(),
		event.Timestamp.UTC(),
		string(event.EventType),
		event.Message,
		string(opJSON),
		string(detailsJSON),
		event.BypassAttempts,
	)
	if err != nil {
		return fmt.Errorf("failed to save security event: %w", err)
	}

	return nil
}

// QuerySecurityEvents retrieves security events matching the filter, newest first.
func (s *SQLiteStore) QuerySecurityEvents(ctx context.Context, filter *SecurityEventFilter) ([]*audit.SecurityEvent, error) {
	where, args := buildSecurityEventWhere(filter)

	query := `
		SELECT id, timestamp, event_type, message, operation, details, bypass_attempts
		FROM security_events` + where + ` ORDER BY timestamp DESC, id DESC`

	if filter != nil && filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query security events: %w", err)
	}
	defer rows.Close()

	var events []*audit.SecurityEvent
	for rows.Next() {
		event, err := scanSecurityEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// CountSecurityEvents returns the count of events matching the filter.
func (s *SQLiteStore) CountSecurityEvents(ctx context.Context, filter *SecurityEventFilter) (int, error) {
	where, args := buildSecurityEventWhere(filter)

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM security_events"+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count security events: %w", err)
	}

	return count, nil
}

// DeleteApprovalsBefore deletes approval records older than the given time.
func (s *SQLiteStore) DeleteApprovalsBefore(ctx context.Context, before time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM approvals WHERE timestamp < ?", before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete approval records: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted records: %w", err)
	}

	return int(deleted), nil
}

// DeleteSecurityEventsBefore deletes security events older than the given time.
func (s *SQLiteStore) DeleteSecurityEventsBefore(ctx context.Context, before time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM security_events WHERE timestamp < ?", before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete security events: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted events: %w", err)
	}

	return int(deleted), nil
}

// GetDatabaseInfo returns information about the database.
func (s *SQLiteStore) GetDatabaseInfo(ctx context.Context) (*DatabaseInfo, error) {
	info := &DatabaseInfo{
		Path: s.path,
	}

	if stat, err := os.Stat(s.path); err == nil {
		info.SizeBytes = stat.Size()
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM approvals").Scan(&info.ApprovalCount); err != nil {
		return nil, fmt.Errorf("failed to count approval records: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM security_events").Scan(&info.SecurityEventCount); err != nil {
		return nil, fmt.Errorf("failed to count security events: %w", err)
	}

	var oldest, newest sql.NullTime
	err := s.db.QueryRowContext(ctx, "SELECT MIN(timestamp), MAX(timestamp) FROM approvals").Scan(&oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("failed to read approval time range: %w", err)
	}
	if oldest.Valid {
		info.OldestApproval = oldest.Time
	}
	if newest.Valid {
		info.NewestApproval = newest.Time
	}

	return info, nil
}

func buildApprovalWhere(filter *ApprovalFilter) (string, []any) {
	if filter == nil {
		return "", nil
	}

	var clauses []string
	var args []any

	if filter.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.Since.UTC())
	}
	if filter.Until != nil {
		clauses = append(clauses, "timestamp <= ?")
		args = append(args, filter.Until.UTC())
	}
	if filter.SessionID != "" {
		clauses = append(clauses, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.OperationType != "" {
		clauses = append(clauses, "operation_type = ?")
		args = append(args, string(filter.OperationType))
	}
	if filter.DeniedOnly {
		clauses = append(clauses, "approved = 0")
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func buildSecurityEventWhere(filter *SecurityEventFilter) (string, []any) {
	if filter == nil {
		return "", nil
	}

	var clauses []string
	var args []any

	if filter.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, filter.Since.UTC())
	}
	if filter.EventType != "" {
		clauses = append(clauses, "event_type = ?")
		args = append(args, string(filter.EventType))
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanApproval(rows *sql.Rows) (*audit.Record, error) {
	var (
		id        string
		timestamp time.Time
		sessionID string
		opJSON    sql.NullString
		approved  int
		reason    sql.NullString
		respTime  float64
	)

	if err := rows.Scan(&id, &timestamp, &sessionID, &opJSON, &approved, &reason, &respTime); err != nil {
		return nil, fmt.Errorf("failed to scan approval record: %w", err)
	}

	recordID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid approval record id %q: %w", id, err)
	}

	record := &audit.Record{
		ID:                  recordID,
		Timestamp:           timestamp,
		SessionID:           sessionID,
		Approved:            approved != 0,
		Reason:              reason.String,
		ResponseTimeSeconds: respTime,
	}

	if opJSON.Valid && opJSON.String != "" && opJSON.String != "null" {
		var op operation.Info
		if err := json.Unmarshal([]byte(opJSON.String), &op); err != nil {
			return nil, fmt.Errorf("failed to unmarshal operation: %w", err)
		}
		record.Operation = &op
	}

	return record, nil
}

func scanSecurityEvent(rows *sql.Rows) (*audit.SecurityEvent, error) {
	var (
		id          string
		timestamp   time.Time
		eventType   string
		message     string
		opJSON      sql.NullString
		detailsJSON sql.NullString
		attempts    int
	)

	if err := rows.Scan(&id, &timestamp, &eventType, &message, &opJSON, &detailsJSON, &attempts); err != nil {
		return nil, fmt.Errorf("failed to scan security event: %w", err)
	}

	eventID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid security event id %q: %w", id, err)
	}

	event := &audit.SecurityEvent{
		ID:             eventID,
		Timestamp:      timestamp,
		EventType:      audit.EventType(eventType),
		Message:        message,
		BypassAttempts: attempts,
	}

	if opJSON.Valid && opJSON.String != "" && opJSON.String != "null" {
		var op operation.Info
		if err := json.Unmarshal([]byte(opJSON.String), &op); err != nil {
			return nil, fmt.Errorf("failed to unmarshal operation: %w", err)
		}
		event.Operation = &op
	}

	if detailsJSON.Valid && detailsJSON.String != "" && detailsJSON.String != "null" {
		if err := json.Unmarshal([]byte(detailsJSON.String), &event.Details); err != nil {
			return nil, fmt.Errorf("failed to unmarshal details: %w", err)
		}
	}

	return event, nil
}

// Ensure SQLiteStore implements Store and can serve as an audit sink.
var (
	_ Store      = (*SQLiteStore)(nil)
	_ audit.Sink = (*SQLiteStore)(nil)
)

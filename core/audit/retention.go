package audit

import (
	"time"
)

// RetentionPolicy defines how long durable audit data is kept.
type RetentionPolicy struct {
	// RetentionDays is the number of days to keep records (0 = never delete).
	RetentionDays int
	// KeepSecurityEvents exempts security events from retention pruning.
	KeepSecurityEvents bool
}

// NewRetentionPolicy creates a RetentionPolicy with the given retention days.
func NewRetentionPolicy(days int) *RetentionPolicy {
	return &RetentionPolicy{
		RetentionDays:      days,
		KeepSecurityEvents: true, // Security events are never pruned by default
	}
}

// DefaultRetentionPolicy returns the default retention policy (90 days).
func DefaultRetentionPolicy() *RetentionPolicy {
	return NewRetentionPolicy(90)
}

// CutoffTime returns the time before which records should be deleted.
// Returns zero time if retention is disabled (RetentionDays == 0).
func (p *RetentionPolicy) CutoffTime() time.Time {
	if p.RetentionDays == 0 {
		return time.Time{}
	}
	return time.Now().AddDate(0, 0, -p.RetentionDays)
}

// IsEnabled returns true if retention is enabled.
func (p *RetentionPolicy) IsEnabled() bool {
	return p.RetentionDays > 0
}

// ShouldDelete returns true if a record with the given timestamp should be
// deleted.
func (p *RetentionPolicy) ShouldDelete(recordTime time.Time) bool {
	if !p.IsEnabled() {
		return false
	}
	cutoff := p.CutoffTime()
	return recordTime.Before(cutoff)
}

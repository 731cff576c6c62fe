// Package alert delivers severe security events to operator-facing targets.
package alert

import (
	"context"

	"github.com/wardenhq/warden/core/audit"
)

// Target type names usable in configuration.
const (
	TargetTypeStdout = "stdout"
	TargetTypeNop    = "nop"
)

// Target defines the interface for an alert destination.
type Target interface {
	// Name returns the name of the alert target.
	Name() string
	// Type returns the target type name.
	Type() string
	// Enabled returns true if the target is enabled.
	Enabled() bool
	// Send delivers one security event to the target.
	Send(ctx context.Context, event *audit.SecurityEvent) error
	// Close allows the target to clean up any resources.
	Close() error
}

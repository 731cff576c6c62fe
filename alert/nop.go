package alert

import (
	"context"

	"github.com/wardenhq/warden/core/audit"
)

// NopTarget discards every event. Useful for disabling alerts in tests and
// headless environments without changing the wiring.
type NopTarget struct {
	name    string
	enabled bool
}

// NewNopTarget creates a new no-op alert target.
func NewNopTarget(name string, enabled bool) *NopTarget {
	return &NopTarget{
		name:    name,
		enabled: enabled,
	}
}

func (t *NopTarget) Name() string  { return t.name }
func (t *NopTarget) Type() string  { return TargetTypeNop }
func (t *NopTarget) Enabled() bool { return t.enabled }

func (t *NopTarget) Send(_ context.Context, _ *audit.SecurityEvent) error {
	return nil
}

func (t *NopTarget) Close() error { return nil }

var _ Target = (*NopTarget)(nil)

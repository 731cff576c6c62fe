package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardenhq/warden/config"
	"github.com/wardenhq/warden/core/audit"
)

type failingTarget struct {
	name  string
	sends int
}

func (t *failingTarget) Name() string  { return t.name }
func (t *failingTarget) Type() string  { return "failing" }
func (t *failingTarget) Enabled() bool { return true }
func (t *failingTarget) Close() error  { return nil }

func (t *failingTarget) Send(_ context.Context, _ *audit.SecurityEvent) error {
	t.sends++
	return errors.New("unreachable")
}

func TestRegistryFansOutToEnabledTargets(t *testing.T) {
	var buf bytes.Buffer

	registry := NewRegistry()
	registry.Register(NewWriterTarget("console", true, &buf))
	registry.Register(NewNopTarget("disabled", false))

	event := audit.NewSecurityEvent(audit.EventSecurityViolation, "threshold reached")
	registry.Alert(context.Background(), event)

	var decoded audit.SecurityEvent
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, audit.EventSecurityViolation, decoded.EventType)
}

func TestRegistryDeliveryFailureIsSwallowed(t *testing.T) {
	target := &failingTarget{name: "flaky"}

	registry := NewRegistry()
	registry.Register(target)

	// Alert never propagates delivery errors.
	registry.Alert(context.Background(), audit.NewSecurityEvent(audit.EventFailSafe, "fault"))
	assert.Equal(t, 1, target.sends)
}

func TestFromConfig(t *testing.T) {
	registry, err := FromConfig(config.AlertsConfig{
		Targets: []config.AlertTargetConfig{
			{Name: "console", Type: "stdout", Enabled: true},
			{Name: "muted", Type: "nop", Enabled: false},
		},
	})
	require.NoError(t, err)

	assert.Len(t, registry.All(), 2)
	assert.Len(t, registry.Enabled(), 1)

	target, ok := registry.Get("console")
	require.True(t, ok)
	assert.Equal(t, TargetTypeStdout, target.Type())
}

func TestFromConfigRejectsUnknownType(t *testing.T) {
	_, err := FromConfig(config.AlertsConfig{
		Targets: []config.AlertTargetConfig{
			{Name: "pager", Type: "webhook", Enabled: true},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook")
}

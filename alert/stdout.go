package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/wardenhq/warden/core/audit"
)

// StdoutTarget implements Target by printing JSON to a writer, stdout by
// default.
type StdoutTarget struct {
	name    string
	enabled bool
	out     io.Writer
}

// NewStdoutTarget creates a new stdout alert target.
func NewStdoutTarget(name string, enabled bool) *StdoutTarget {
	return &StdoutTarget{
		name:    name,
		enabled: enabled,
		out:     os.Stdout,
	}
}

// NewWriterTarget creates a stdout-style target writing to w.
func NewWriterTarget(name string, enabled bool, w io.Writer) *StdoutTarget {
	return &StdoutTarget{
		name:    name,
		enabled: enabled,
		out:     w,
	}
}

func (t *StdoutTarget) Name() string  { return t.name }
func (t *StdoutTarget) Type() string  { return TargetTypeStdout }
func (t *StdoutTarget) Enabled() bool { return t.enabled }

func (t *StdoutTarget) Send(_ context.Context, event *audit.SecurityEvent) error {
	enc := json.NewEncoder(t.out)
	enc.SetIndent("", "  ")

	if err := enc.Encode(event); err != nil {
		return fmt.Errorf("failed to encode security event: %w", err)
	}

	return nil
}

func (t *StdoutTarget) Close() error { return nil }

var _ Target = (*StdoutTarget)(nil)

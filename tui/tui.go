// Package tui provides the presentation layer for terminal output and the
// interactive approval prompt.
package tui

import (
	"io"
	"os"
)

// Format represents the output format.
type Format string

const (
	// FormatTable is the default table format.
	FormatTable Format = "table"
	// FormatJSON is JSON format.
	FormatJSON Format = "json"
	// FormatJSONL is newline-delimited JSON format.
	FormatJSONL Format = "jsonl"
)

// Presenter defines the interface for output rendering.
type Presenter interface {
	// RenderStatus renders the gate status.
	RenderStatus(status *StatusView) error

	// RenderApprovals renders a list of approval decisions.
	RenderApprovals(approvals []*ApprovalView) error

	// RenderSecurityEvents renders a list of security events.
	RenderSecurityEvents(events []*SecurityEventView) error

	// RenderRetention renders retention enforcement results.
	RenderRetention(result *RetentionView) error

	// RenderDoctor renders the doctor check results.
	RenderDoctor(result *DoctorView) error

	// RenderConfig renders the configuration.
	RenderConfig(config *ConfigView) error

	// RenderError renders an error message.
	RenderError(err error) error

	// RenderMessage renders a simple message.
	RenderMessage(message string) error
}

// PresenterOptions configures presenter behavior.
type PresenterOptions struct {
	// Writer is the output destination.
	Writer io.Writer
	// UseColors indicates if colors should be used.
	UseColors bool
	// TerminalWidth is the width of the terminal for table rendering.
	// If 0, the width will be auto-detected.
	TerminalWidth int
}

// NewPresenter creates a new presenter for the given format.
func NewPresenter(format Format, opts PresenterOptions) Presenter {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch format {
	case FormatJSON:
		return NewJSONPresenter(opts)
	case FormatJSONL:
		return NewJSONLPresenter(opts)
	default:
		return NewTablePresenter(opts)
	}
}

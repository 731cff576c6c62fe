package tui

import (
	"encoding/json"
	"io"
)

// JSONPresenter renders output as JSON.
type JSONPresenter struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewJSONPresenter creates a new JSON presenter.
func NewJSONPresenter(opts PresenterOptions) *JSONPresenter {
	encoder := json.NewEncoder(opts.Writer)
	encoder.SetIndent("", "  ")
	return &JSONPresenter{
		w:       opts.Writer,
		encoder: encoder,
	}
}

// RenderStatus renders the gate status as JSON.
func (p *JSONPresenter) RenderStatus(status *StatusView) error {
	return p.encoder.Encode(status)
}

// RenderApprovals renders a list of approval decisions as JSON.
func (p *JSONPresenter) RenderApprovals(approvals []*ApprovalView) error {
	return p.encoder.Encode(approvals)
}

// RenderSecurityEvents renders a list of security events as JSON.
func (p *JSONPresenter) RenderSecurityEvents(events []*SecurityEventView) error {
	return p.encoder.Encode(events)
}

// RenderRetention renders retention enforcement results as JSON.
func (p *JSONPresenter) RenderRetention(result *RetentionView) error {
	return p.encoder.Encode(result)
}

// RenderDoctor renders the doctor check results as JSON.
func (p *JSONPresenter) RenderDoctor(result *DoctorView) error {
	return p.encoder.Encode(result)
}

// RenderConfig renders the configuration as JSON.
func (p *JSONPresenter) RenderConfig(config *ConfigView) error {
	return p.encoder.Encode(config)
}

// RenderError renders an error message as JSON.
func (p *JSONPresenter) RenderError(err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return p.encoder.Encode(output)
}

// RenderMessage renders a simple message as JSON.
func (p *JSONPresenter) RenderMessage(message string) error {
	output := struct {
		Message string `json:"message"`
	}{
		Message: message,
	}
	return p.encoder.Encode(output)
}

// Ensure JSONPresenter implements Presenter
var _ Presenter = (*JSONPresenter)(nil)

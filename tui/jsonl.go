package tui

import (
	"encoding/json"
	"io"
)

// JSONLPresenter renders output as newline-delimited JSON.
type JSONLPresenter struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewJSONLPresenter creates a new JSONL presenter.
func NewJSONLPresenter(opts PresenterOptions) *JSONLPresenter {
	// No indentation for JSONL
	return &JSONLPresenter{
		w:       opts.Writer,
		encoder: json.NewEncoder(opts.Writer),
	}
}

// RenderStatus renders the gate status as JSONL.
func (p *JSONLPresenter) RenderStatus(status *StatusView) error {
	return p.encoder.Encode(status)
}

// RenderApprovals renders approval decisions as JSONL (one per line).
func (p *JSONLPresenter) RenderApprovals(approvals []*ApprovalView) error {
	for _, a := range approvals {
		if err := p.encoder.Encode(a); err != nil {
			return err
		}
	}
	return nil
}

// RenderSecurityEvents renders security events as JSONL (one per line).
func (p *JSONLPresenter) RenderSecurityEvents(events []*SecurityEventView) error {
	for _, e := range events {
		if err := p.encoder.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

// RenderRetention renders retention enforcement results as JSONL.
func (p *JSONLPresenter) RenderRetention(result *RetentionView) error {
	return p.encoder.Encode(result)
}

// RenderDoctor renders the doctor check results as JSONL (one per line).
func (p *JSONLPresenter) RenderDoctor(result *DoctorView) error {
	for _, check := range result.Checks {
		if err := p.encoder.Encode(check); err != nil {
			return err
		}
	}
	return nil
}

// RenderConfig renders the configuration as JSONL.
func (p *JSONLPresenter) RenderConfig(config *ConfigView) error {
	return p.encoder.Encode(config)
}

// RenderError renders an error message as JSONL.
func (p *JSONLPresenter) RenderError(err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return p.encoder.Encode(output)
}

// RenderMessage renders a simple message as JSONL.
func (p *JSONLPresenter) RenderMessage(message string) error {
	output := struct {
		Message string `json:"message"`
	}{
		Message: message,
	}
	return p.encoder.Encode(output)
}

// Ensure JSONLPresenter implements Presenter
var _ Presenter = (*JSONLPresenter)(nil)

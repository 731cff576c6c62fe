package operation

import (
	"fmt"
	"time"
)

// ValidationError indicates a malformed operation request. The operation
// never proceeds past analysis when this is returned.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid operation: %s: %s", e.Field, e.Reason)
}

// Info is an immutable description of an analyzed operation.
type Info struct {
	// OperationType is the kind of operation requested.
	OperationType Type `json:"operation_type"`
	// Target is the file path or command the operation acts on.
	Target string `json:"target"`
	// Description is a human-readable summary of the operation.
	Description string `json:"description"`
	// RiskLevel is the classified risk after dangerous-path escalation.
	RiskLevel RiskLevel `json:"risk_level"`
	// Details contains operation-specific data from the request params.
	Details map[string]any `json:"details,omitempty"`
	// Preview is optional content shown to the user before deciding.
	Preview string `json:"preview,omitempty"`
	// AnalyzedAt is when the analysis happened (UTC).
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// NewInfo creates a validated Info. It fails with a ValidationError if the
// operation type, target or description is empty, or the risk level is not
// a recognized value.
func NewInfo(opType Type, target, description string, risk RiskLevel, details map[string]any) (*Info, error) {
	if opType == "" {
		return nil, &ValidationError{Field: "operation_type", Reason: "must not be empty"}
	}
	if target == "" {
		return nil, &ValidationError{Field: "target", Reason: "must not be empty"}
	}
	if description == "" {
		return nil, &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if !risk.IsValid() {
		return nil, &ValidationError{Field: "risk_level", Reason: fmt.Sprintf("unrecognized value %d", risk)}
	}

	return &Info{
		OperationType: opType,
		Target:        target,
		Description:   description,
		RiskLevel:     risk,
		Details:       details,
		AnalyzedAt:    time.Now().UTC(),
	}, nil
}

// WithPreview returns a copy of the Info with the preview set.
func (i *Info) WithPreview(preview string) *Info {
	clone := *i
	clone.Preview = preview
	return &clone
}

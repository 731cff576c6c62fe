// Package approval provides the approval gate: the single, non-bypassable
// decision point every risky operation must pass before it runs.
package approval

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wardenhq/warden/core/operation"
)

// Request is a single approval request handed to the UI collaborator.
type Request struct {
	// ID is the unique identifier for this request.
	ID uuid.UUID `json:"id"`
	// Operation is the analyzed operation awaiting a decision.
	Operation *operation.Info `json:"operation"`
	// Message is the prompt shown to the user.
	Message string `json:"message"`
	// Timestamp is when the request was created (UTC).
	Timestamp time.Time `json:"timestamp"`
	// SessionID identifies the agent session requesting the operation.
	SessionID string `json:"session_id"`
	// Stage is the 1-based confirmation stage for multi-stage approvals.
	Stage int `json:"stage"`
	// TotalStages is the total number of confirmation stages.
	TotalStages int `json:"total_stages"`
	// StatedRisks is the cumulative list of risks restated at this stage.
	StatedRisks []string `json:"stated_risks,omitempty"`
	// TimeoutWarning is a pre-warning shown for long timeouts, if any.
	TimeoutWarning string `json:"timeout_warning,omitempty"`
}

// NewRequest creates a validated single-stage Request.
func NewRequest(op *operation.Info, message, sessionID string) (*Request, error) {
	if op == nil {
		return nil, fmt.Errorf("approval request requires an operation")
	}
	if message == "" {
		return nil, fmt.Errorf("approval request requires a message")
	}
	if sessionID == "" {
		return nil, fmt.Errorf("approval request requires a session id")
	}

	return &Request{
		ID:          uuid.New(),
		Operation:   op,
		Message:     message,
		Timestamp:   time.Now().UTC(),
		SessionID:   sessionID,
		Stage:       1,
		TotalStages: 1,
	}, nil
}

// forStage returns a copy of the request restated for the given
// confirmation stage.
func (r *Request) forStage(stage, total int, risks []string) *Request {
	clone := *r
	clone.Stage = stage
	clone.TotalStages = total
	clone.StatedRisks = risks
	if total > 1 {
		clone.Message = fmt.Sprintf("[confirmation %d of %d] %s", stage, total, r.Message)
	}
	return &clone
}

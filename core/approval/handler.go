package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wardenhq/warden/core/operation"
)

// timeoutWarnThreshold is the timeout above which a pre-warning is shown.
const timeoutWarnThreshold = 60 * time.Second

// UI is the interactive approval collaborator. Implementations block until
// a human responds and return a UIError-compatible error rather than
// crashing the process.
type UI interface {
	// ShowApprovalRequest presents one confirmation stage and blocks for
	// the decision.
	ShowApprovalRequest(ctx context.Context, req *Request) (*Response, error)

	// OfferAlternatives presents the alternatives menu after a rejection
	// and returns the selected label, or "" when the user declines all.
	OfferAlternatives(ctx context.Context, req *Request, alternatives []Alternative) (string, error)
}

// ResponseHandler wraps the UI collaborator with timeout enforcement,
// multi-stage confirmation for elevated risk, and alternative-action
// suggestions on rejection.
type ResponseHandler struct {
	ui                          UI
	requireCriticalConfirmation bool
}

// NewResponseHandler creates a ResponseHandler around a UI collaborator.
func NewResponseHandler(ui UI, requireCriticalConfirmation bool) *ResponseHandler {
	return &ResponseHandler{
		ui:                          ui,
		requireCriticalConfirmation: requireCriticalConfirmation,
	}
}

// HandleWithTimeout runs the interactive confirmation off the calling
// goroutine with a hard deadline. On expiry the confirmation is abandoned:
// a late result is discarded and the outcome is a TimeoutError. A UI panic
// is recovered into a UIError. No retries: a timeout or UI failure is
// terminal for this request.
func (h *ResponseHandler) HandleWithTimeout(ctx context.Context, req *Request, timeout time.Duration) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if timeout > timeoutWarnThreshold {
		req.TimeoutWarning = fmt.Sprintf("you have %s to respond before this request is denied", timeout)
	}

	type outcome struct {
		resp *Response
		err  error
	}

	// Buffered so a late completion never blocks the abandoned goroutine.
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{nil, &UIError{Err: fmt.Errorf("panic in approval UI: %v", r)}}
			}
		}()

		resp, err := h.confirmStages(ctx, req)
		done <- outcome{resp, err}
	}()

	select {
	case <-ctx.Done():
		// Only a deadline expiry is a timeout; a cancelled parent context
		// (host shutdown, upstream cancel) must not be audited as one.
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{Timeout: timeout}
		}
		return nil, &CancelledError{Err: ctx.Err()}
	case out := <-done:
		if out.err != nil {
			return nil, out.err
		}
		return out.resp, nil
	}
}

// confirmStages runs the risk-dependent confirmation sequence: one stage
// for low risk, two for high, three for critical with a cumulative list of
// stated risks. Any "no" aborts immediately without later stages.
func (h *ResponseHandler) confirmStages(ctx context.Context, req *Request) (*Response, error) {
	total := h.stageCount(req.Operation.RiskLevel)
	risks := riskStatements(req.Operation)

	var resp *Response
	for stage := 1; stage <= total; stage++ {
		stated := risks
		if len(risks) > stage {
			stated = risks[:stage]
		}

		stageReq := req.forStage(stage, total, stated)

		var err error
		resp, err = h.ui.ShowApprovalRequest(ctx, stageReq)
		if err != nil {
			return nil, &UIError{Err: err}
		}
		if resp == nil {
			return nil, &UIError{Err: fmt.Errorf("approval UI returned no response")}
		}

		if !resp.Approved {
			return h.handleRejection(ctx, req, resp, stage, total), nil
		}
	}

	resp.normalize()
	resp.WithDetail("stages_completed", total)
	return resp, nil
}

// handleRejection offers the alternatives menu and annotates the denial.
func (h *ResponseHandler) handleRejection(ctx context.Context, req *Request, resp *Response, stage, total int) *Response {
	resp.normalize()
	resp.WithDetail("rejected_at_stage", stage)
	resp.WithDetail("total_stages", total)

	alternatives := AlternativesFor(req.Operation.OperationType)
	if len(alternatives) == 0 {
		return resp
	}

	resp.AlternativeSuggested = true
	resp.Reason = appendSuggestions(resp.Reason, alternatives)
	resp.WithDetail("alternatives", alternativeLabels(alternatives))

	// A failing menu never changes the denial, only the annotation.
	if selected, err := h.ui.OfferAlternatives(ctx, req, alternatives); err == nil && selected != "" {
		resp.WithDetail("selected_alternative", selected)
	}

	return resp
}

// stageCount maps risk to the number of sequential confirmations.
func (h *ResponseHandler) stageCount(risk operation.RiskLevel) int {
	switch risk {
	case operation.RiskCritical:
		if !h.requireCriticalConfirmation {
			return 1
		}
		return 3
	case operation.RiskHigh:
		return 2
	default:
		return 1
	}
}

// riskStatements builds the cumulative risk list restated across critical
// confirmation stages.
func riskStatements(op *operation.Info) []string {
	statements := []string{
		fmt.Sprintf("this %s operation modifies state on this machine", op.OperationType.DisplayName()),
	}

	if op.RiskLevel >= operation.RiskHigh {
		statements = append(statements, fmt.Sprintf("the target %q may not be recoverable afterwards", op.Target))
	}

	if op.RiskLevel >= operation.RiskCritical {
		statements = append(statements, "critical-risk operations can affect system integrity or credentials")
	}

	return statements
}

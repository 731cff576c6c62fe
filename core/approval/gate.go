package approval

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/safedep/dry/log"
	"github.com/wardenhq/warden/config"
	"github.com/wardenhq/warden/core/audit"
	"github.com/wardenhq/warden/core/operation"
)

// Gate is the single public entry point for approval decisions. Every
// operation classified as risky must pass through RequestApproval; the
// gate always returns a Response and never lets an internal fault escape
// as approval.
type Gate struct {
	cfg      *config.Config
	analyzer *operation.Analyzer
	policy   *config.PathPolicy
	handler  *ResponseHandler
	recorder *audit.Recorder
	detector *Detector
	tickets  *TicketIssuer

	// One approval flow in flight at a time per gate instance.
	mu sync.Mutex

	uiNeedsReinit atomic.Bool
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithRecorder replaces the gate's audit recorder.
func WithRecorder(recorder *audit.Recorder) GateOption {
	return func(g *Gate) {
		g.recorder = recorder
	}
}

// WithTicketTTL overrides the ticket time-to-live.
func WithTicketTTL(ttl time.Duration) GateOption {
	return func(g *Gate) {
		g.tickets = NewTicketIssuer(ttl)
	}
}

// NewGate creates a Gate from explicit configuration and a UI collaborator.
// The config is injected at construction; there is no process-wide state.
func NewGate(cfg *config.Config, ui UI, opts ...GateOption) *Gate {
	if cfg == nil {
		cfg = config.Default()
	}

	g := &Gate{
		cfg:      cfg,
		analyzer: operation.NewAnalyzer(cfg.Policy.DangerousPaths, cfg.Display.MaxPreviewLength),
		policy:   cfg.PathPolicy(),
		handler:  NewResponseHandler(ui, cfg.Approval.RequireConfirmationForCritical),
		recorder: audit.NewRecorder(),
		detector: NewDetector(cfg.Approval.MaxBypassAttempts),
		tickets:  NewTicketIssuer(DefaultTicketTTL),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// RequestApproval runs one operation through the full decision flow:
// analyze, bypass check, policy check, interactive approval when required,
// audit. Every internal fault resolves to a denial before crossing this
// boundary (fail-closed).
func (g *Gate) RequestApproval(ctx context.Context, opType operation.Type, params map[string]any, sessionID string) (resp *Response) {
	g.mu.Lock()
	defer g.mu.Unlock()

	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			resp = g.failSafe(ctx, fmt.Sprintf("panic in approval flow: %v", r))
		}
		if resp == nil {
			resp = g.failSafe(ctx, "approval flow produced no response")
		}
		resp.normalize()
	}()

	// Analyze
	info, err := g.analyzer.Analyze(opType, params)
	if err != nil {
		resp = NewDeniedResponse(fmt.Sprintf("invalid operation request: %v", err)).
			WithDetail("error_kind", ErrorKindValidation)
		g.record(ctx, nil, resp, started, sessionID)
		return resp
	}

	// Bypass check
	if denied := g.checkBypass(ctx, info, sessionID); denied != nil {
		g.record(ctx, info, denied, started, sessionID)
		return denied
	}

	// Policy check
	if !g.IsApprovalRequired(info) {
		resp = NewApprovedResponse(g.autoApproveReason(info))
		resp.Ticket = g.tickets.Issue(info, sessionID)
		g.record(ctx, info, resp, started, sessionID)
		return resp
	}

	// Interactive approval
	resp = g.interactiveApproval(ctx, info, sessionID)
	if resp.Approved {
		resp.Ticket = g.tickets.Issue(info, sessionID)
	}

	g.record(ctx, info, resp, started, sessionID)
	return resp
}

// IsApprovalRequired reports whether the operation needs interactive
// approval. Path exclusion is checked first and always overrides the mode;
// any configuration fault degrades to "approval required".
func (g *Gate) IsApprovalRequired(info *operation.Info) bool {
	if info == nil {
		return true
	}
	if g.policy != nil && g.policy.IsPathExcluded(info.Target) {
		return false
	}
	if g.cfg == nil {
		return true
	}
	return g.cfg.IsApprovalRequired(info.RiskLevel)
}

// Redeem consumes an execution ticket. Redeeming an unknown, used, or
// expired ticket is itself treated as a bypass attempt.
func (g *Gate) Redeem(ctx context.Context, ticketID uuid.UUID) (*Ticket, error) {
	ticket, err := g.tickets.Redeem(ticketID)
	if err != nil {
		count := g.detector.Flag()
		g.recorder.RecordSecurityEvent(ctx, audit.NewSecurityEvent(
			audit.EventBypassAttempt,
			fmt.Sprintf("invalid ticket redemption: %v", err),
		).WithBypassAttempts(count))

		if g.detector.Violated() {
			g.recordViolation(ctx, nil)
		}

		return nil, err
	}
	return ticket, nil
}

// ResetSecurityState clears the sticky violation state and the bypass
// counter. This is the explicit administrative reset; nothing else leaves
// the escalated state.
func (g *Gate) ResetSecurityState(ctx context.Context) {
	g.detector.Reset()
	g.recorder.RecordSecurityEvent(ctx, audit.NewSecurityEvent(
		audit.EventSecurityReset,
		"security state reset by administrator",
	))
}

// UINeedsReinit reports whether a prior UI failure flagged the UI for
// reinitialization.
func (g *Gate) UINeedsReinit() bool {
	return g.uiNeedsReinit.Load()
}

// Recorder exposes the gate's audit recorder for observability surfaces.
func (g *Gate) Recorder() *audit.Recorder {
	return g.recorder
}

// BypassAttempts returns the current bypass attempt count.
func (g *Gate) BypassAttempts() int {
	return g.detector.Attempts()
}

// checkBypass runs the bypass detector and returns a denial when the
// request must not proceed, or nil when it may.
func (g *Gate) checkBypass(ctx context.Context, info *operation.Info, sessionID string) *Response {
	if g.detector.Violated() {
		verr := &SecurityViolationError{Attempts: g.detector.Attempts(), Threshold: g.detector.Threshold()}
		g.recorder.RecordSecurityEvent(ctx, audit.NewSecurityEvent(
			audit.EventSecurityViolation,
			"request denied: gate is in security violation state until reset",
		).WithOperation(info).WithBypassAttempts(g.detector.Attempts()))

		return NewDeniedResponse(verr.Error()).
			WithDetail("error_kind", ErrorKindSecurityViolation)
	}

	if !g.detector.Observe(sessionID, info.OperationType) {
		return nil
	}

	attempts := g.detector.Attempts()
	berr := &BypassAttemptError{
		Count:  attempts,
		Reason: fmt.Sprintf("%d %s requests within the rate window", bypassBurstThreshold, info.OperationType),
	}
	g.recorder.RecordSecurityEvent(ctx, audit.NewSecurityEvent(
		audit.EventBypassAttempt,
		berr.Error(),
	).WithOperation(info).WithBypassAttempts(attempts))

	if g.detector.Violated() {
		g.recordViolation(ctx, info)
		verr := &SecurityViolationError{Attempts: attempts, Threshold: g.detector.Threshold()}
		return NewDeniedResponse(verr.Error()).
			WithDetail("error_kind", ErrorKindSecurityViolation)
	}

	return NewDeniedResponse(berr.Error()).
		WithDetail("error_kind", ErrorKindBypassAttempt)
}

// interactiveApproval builds the request and runs it through the response
// handler, converting every failure into a denial.
func (g *Gate) interactiveApproval(ctx context.Context, info *operation.Info, sessionID string) *Response {
	req, err := NewRequest(info, g.promptMessage(info), sessionID)
	if err != nil {
		return g.failSafe(ctx, fmt.Sprintf("failed to build approval request: %v", err))
	}

	timeout := g.cfg.TimeoutFor(info.RiskLevel)

	resp, err := g.handler.HandleWithTimeout(ctx, req, timeout)
	if err == nil {
		return resp
	}

	var terr *TimeoutError
	if errors.As(err, &terr) {
		g.recorder.RecordSecurityEvent(ctx, audit.NewSecurityEvent(
			audit.EventTimeout,
			fmt.Sprintf("approval request timed out after %s", terr.Timeout),
		).WithOperation(info).WithBypassAttempts(g.detector.Attempts()))

		return NewDeniedResponse(fmt.Sprintf("denied: no response within %s", terr.Timeout)).
			WithDetail("error_kind", ErrorKindTimeout)
	}

	var cerr *CancelledError
	if errors.As(err, &cerr) {
		return NewDeniedResponse("denied: request cancelled before a decision").
			WithDetail("error_kind", ErrorKindCancelled)
	}

	var uerr *UIError
	if errors.As(err, &uerr) {
		g.recorder.RecordSecurityEvent(ctx, audit.NewSecurityEvent(
			audit.EventUIFailure,
			uerr.Error(),
		).WithOperation(info).WithBypassAttempts(g.detector.Attempts()))

		// Best-effort recovery: flag the UI for reinitialization. Even a
		// successful recovery only restores future requests; this one is
		// already denied.
		g.uiNeedsReinit.Store(true)
		log.Errorf("approval UI failed, flagged for reinitialization: %v", uerr)

		return NewDeniedResponse("denied: approval UI unavailable").
			WithDetail("error_kind", ErrorKindUIFailure)
	}

	return g.failSafe(ctx, fmt.Sprintf("unexpected approval handler error: %v", err))
}

// failSafe converts an internal fault into a denial with a fail-safe
// marker and records the event for the operator.
func (g *Gate) failSafe(ctx context.Context, message string) *Response {
	g.recorder.RecordSecurityEvent(ctx, audit.NewSecurityEvent(
		audit.EventFailSafe,
		message,
	).WithBypassAttempts(g.detector.Attempts()))

	return NewDeniedResponse("denied: internal error (fail-safe)").
		WithDetail("error_kind", ErrorKindInternal).
		WithDetail("fail_safe", true)
}

// record appends the decision to the audit log.
func (g *Gate) record(ctx context.Context, info *operation.Info, resp *Response, started time.Time, sessionID string) {
	g.recorder.RecordApproval(ctx, audit.NewRecord(
		info,
		resp.Approved,
		resp.Reason,
		time.Since(started),
		sessionID,
	))
}

// recordViolation emits the severe violation event when the threshold is
// crossed.
func (g *Gate) recordViolation(ctx context.Context, info *operation.Info) {
	g.recorder.RecordSecurityEvent(ctx, audit.NewSecurityEvent(
		audit.EventSecurityViolation,
		fmt.Sprintf("bypass attempts reached threshold %d; denying until reset", g.detector.Threshold()),
	).WithOperation(info).WithBypassAttempts(g.detector.Attempts()))
}

// promptMessage renders the user-facing prompt for an operation.
func (g *Gate) promptMessage(info *operation.Info) string {
	message := fmt.Sprintf("The agent wants to: %s [risk: %s]", info.Description, info.RiskLevel)
	if g.cfg.Display.ShowPreview && info.Preview != "" {
		message += "\n" + info.Preview
	}
	return message
}

// autoApproveReason explains why no interactive approval was needed.
func (g *Gate) autoApproveReason(info *operation.Info) string {
	if g.policy != nil && g.policy.IsPathExcluded(info.Target) {
		return "auto-approved: target is excluded by path policy"
	}
	return fmt.Sprintf("auto-approved: %s risk does not require approval in %s mode", info.RiskLevel, g.cfg.Approval.Mode)
}

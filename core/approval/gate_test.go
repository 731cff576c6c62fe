package approval

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardenhq/warden/config"
	"github.com/wardenhq/warden/core/audit"
	"github.com/wardenhq/warden/core/operation"
)

// scriptedUI answers confirmation stages from a pre-seeded decision list
// and records every request it was shown.
type scriptedUI struct {
	mu          sync.Mutex
	decisions   []bool
	requests    []*Request
	altRequests []*Request
	selection   string
	panicOnShow bool
}

func (u *scriptedUI) ShowApprovalRequest(ctx context.Context, req *Request) (*Response, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.requests = append(u.requests, req)

	if u.panicOnShow {
		panic("terminal went away")
	}

	approved := true
	if len(u.decisions) > 0 {
		approved = u.decisions[0]
		u.decisions = u.decisions[1:]
	}

	if approved {
		return NewApprovedResponse("approved by user"), nil
	}
	return NewDeniedResponse(""), nil
}

func (u *scriptedUI) OfferAlternatives(ctx context.Context, req *Request, alternatives []Alternative) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.altRequests = append(u.altRequests, req)
	return u.selection, nil
}

func (u *scriptedUI) shown() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.requests)
}

func newTestGate(t *testing.T, cfg *config.Config, ui UI) *Gate {
	t.Helper()
	return NewGate(cfg, ui)
}

func TestGateAutoApprovesBelowModeThreshold(t *testing.T) {
	cfg := config.Default()
	cfg.Approval.Mode = config.ModeTrusted

	ui := &scriptedUI{}
	gate := newTestGate(t, cfg, ui)

	resp := gate.RequestApproval(context.Background(), operation.TypeFileWrite, map[string]any{
		"target":  "/tmp/app.go",
		"content": "package main",
	}, "session-1")

	require.NotNil(t, resp)
	assert.True(t, resp.Approved)
	assert.NotNil(t, resp.Ticket, "auto-approval must still issue an execution ticket")
	assert.Equal(t, 0, ui.shown(), "trusted mode must not prompt for high-risk operations")

	records := gate.Recorder().Approvals()
	require.Len(t, records, 1)
	assert.True(t, records[0].Approved)
}

func TestGatePathExclusionOverridesStrictMode(t *testing.T) {
	cfg := config.Default()
	cfg.Approval.Mode = config.ModeStrict

	ui := &scriptedUI{}
	gate := newTestGate(t, cfg, ui)

	// .md is in the default excluded extensions.
	resp := gate.RequestApproval(context.Background(), operation.TypeFileWrite, map[string]any{
		"target":  "/home/dev/project/README.md",
		"content": "# readme",
	}, "session-1")

	require.NotNil(t, resp)
	assert.True(t, resp.Approved)
	assert.Equal(t, 0, ui.shown())
	assert.Contains(t, resp.Reason, "excluded by path policy")
}

func TestGateDangerousPathRunsCriticalConfirmation(t *testing.T) {
	cfg := config.Default() // standard mode, critical confirmation on

	ui := &scriptedUI{decisions: []bool{true, true, true}}
	gate := newTestGate(t, cfg, ui)

	resp := gate.RequestApproval(context.Background(), operation.TypeFileCreate, map[string]any{
		"target":  "/etc/passwd",
		"content": "root::0:0::/root:/bin/sh",
	}, "session-1")

	require.NotNil(t, resp)
	assert.True(t, resp.Approved)
	assert.Equal(t, 3, ui.shown(), "dangerous path escalates create to critical, which takes three confirmations")
	assert.Equal(t, 3, resp.Details["stages_completed"])
	require.NotNil(t, resp.Ticket)
	assert.Equal(t, "/etc/passwd", resp.Ticket.Target)
}

func TestGateStageDenialStopsRemainingStages(t *testing.T) {
	cfg := config.Default()

	ui := &scriptedUI{decisions: []bool{true, false, true}}
	gate := newTestGate(t, cfg, ui)

	resp := gate.RequestApproval(context.Background(), operation.TypePackageInstall, map[string]any{
		"target": "leftpad",
	}, "session-1")

	require.NotNil(t, resp)
	assert.False(t, resp.Approved)
	assert.Nil(t, resp.Ticket)
	assert.Equal(t, 2, ui.shown(), "a denial at stage two must skip stage three")
	assert.Equal(t, 2, resp.Details["rejected_at_stage"])
	assert.Equal(t, 3, resp.Details["total_stages"])
}

func TestGateCreateRejectionSuggestsAlternatives(t *testing.T) {
	cfg := config.Default()

	ui := &scriptedUI{decisions: []bool{false}, selection: "preview"}
	gate := newTestGate(t, cfg, ui)

	resp := gate.RequestApproval(context.Background(), operation.TypeFileCreate, map[string]any{
		"target":  "/home/dev/project/main.go",
		"content": "package main",
	}, "session-1")

	require.NotNil(t, resp)
	assert.False(t, resp.Approved)
	assert.True(t, resp.AlternativeSuggested)
	assert.Contains(t, resp.Reason, "denied by user")
	assert.Contains(t, resp.Reason, "preview")
	assert.Contains(t, resp.Reason, "different location/name")
	assert.Equal(t, "preview", resp.Details["selected_alternative"])
	require.Len(t, ui.altRequests, 1)
}

func TestGateDeniesInvalidRequests(t *testing.T) {
	cfg := config.Default()
	gate := newTestGate(t, cfg, &scriptedUI{})

	tests := []struct {
		name   string
		opType operation.Type
		params map[string]any
	}{
		{"unknown type", operation.Type("format_disk"), map[string]any{"target": "/dev/sda"}},
		{"empty type", operation.Type(""), map[string]any{"target": "/tmp/x"}},
		{"nil params", operation.TypeFileWrite, nil},
		{"missing target", operation.TypeFileWrite, map[string]any{"content": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := gate.RequestApproval(context.Background(), tt.opType, tt.params, "session-1")
			require.NotNil(t, resp)
			assert.False(t, resp.Approved)
			assert.Equal(t, ErrorKindValidation, resp.Details["error_kind"])
			assert.Nil(t, resp.Ticket)
		})
	}
}

func TestGateUIFailureDeniesAndFlagsReinit(t *testing.T) {
	cfg := config.Default()

	ui := &scriptedUI{panicOnShow: true}
	gate := newTestGate(t, cfg, ui)

	resp := gate.RequestApproval(context.Background(), operation.TypeFileDelete, map[string]any{
		"target": "/home/dev/project/main.go",
	}, "session-1")

	require.NotNil(t, resp)
	assert.False(t, resp.Approved)
	assert.Equal(t, ErrorKindUIFailure, resp.Details["error_kind"])
	assert.True(t, gate.UINeedsReinit())

	events := gate.Recorder().SecurityEvents()
	require.NotEmpty(t, events)
	assert.Equal(t, audit.EventUIFailure, events[len(events)-1].EventType)
}

func TestGateCancelledContextDeniesWithoutTimeoutEvent(t *testing.T) {
	cfg := config.Default()

	gate := newTestGate(t, cfg, &blockingUI{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	resp := gate.RequestApproval(ctx, operation.TypeFileDelete, map[string]any{
		"target": "/home/dev/project/main.go",
	}, "session-1")

	require.NotNil(t, resp)
	assert.False(t, resp.Approved)
	assert.Equal(t, ErrorKindCancelled, resp.Details["error_kind"])

	for _, event := range gate.Recorder().SecurityEvents() {
		assert.NotEqual(t, audit.EventTimeout, event.EventType,
			"cancellation must not be audited as a timeout")
	}
}

func TestGateBypassEscalationAndReset(t *testing.T) {
	cfg := config.Default()
	cfg.Approval.Mode = config.ModeTrusted
	cfg.Approval.MaxBypassAttempts = 2

	ui := &scriptedUI{}
	gate := newTestGate(t, cfg, ui)

	params := map[string]any{"target": "/tmp/notes.go"}
	ctx := context.Background()

	// The first four identical requests pass the rate heuristic.
	for i := 0; i < 4; i++ {
		resp := gate.RequestApproval(ctx, operation.TypeFileRead, params, "session-1")
		require.True(t, resp.Approved, "request %d should auto-approve", i+1)
	}

	// The fifth trips the burst threshold: one bypass attempt, below the limit.
	resp := gate.RequestApproval(ctx, operation.TypeFileRead, params, "session-1")
	assert.False(t, resp.Approved)
	assert.Equal(t, ErrorKindBypassAttempt, resp.Details["error_kind"])
	assert.Equal(t, 1, gate.BypassAttempts())

	// The sixth reaches max_bypass_attempts and escalates to a violation.
	resp = gate.RequestApproval(ctx, operation.TypeFileRead, params, "session-1")
	assert.False(t, resp.Approved)
	assert.Equal(t, ErrorKindSecurityViolation, resp.Details["error_kind"])
	assert.Equal(t, 2, gate.BypassAttempts())

	// The violation is sticky: even an unrelated low-risk request is denied.
	resp = gate.RequestApproval(ctx, operation.TypeFileList, map[string]any{"target": "/tmp"}, "session-2")
	assert.False(t, resp.Approved)
	assert.Equal(t, ErrorKindSecurityViolation, resp.Details["error_kind"])

	var kinds []audit.EventType
	for _, ev := range gate.Recorder().SecurityEvents() {
		kinds = append(kinds, ev.EventType)
	}
	assert.Contains(t, kinds, audit.EventBypassAttempt)
	assert.Contains(t, kinds, audit.EventSecurityViolation)

	// Only the explicit reset leaves the escalated state.
	gate.ResetSecurityState(ctx)
	assert.Equal(t, 0, gate.BypassAttempts())

	resp = gate.RequestApproval(ctx, operation.TypeFileRead, params, "session-1")
	assert.True(t, resp.Approved)

	events := gate.Recorder().SecurityEvents()
	assert.Equal(t, audit.EventSecurityReset, events[len(events)-1].EventType)
}

func TestGateTicketSingleUse(t *testing.T) {
	cfg := config.Default()
	cfg.Approval.Mode = config.ModeTrusted

	gate := newTestGate(t, cfg, &scriptedUI{})
	ctx := context.Background()

	resp := gate.RequestApproval(ctx, operation.TypeFileRead, map[string]any{"target": "/tmp/a.go"}, "session-1")
	require.True(t, resp.Approved)
	require.NotNil(t, resp.Ticket)

	ticket, err := gate.Redeem(ctx, resp.Ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, operation.TypeFileRead, ticket.OperationType)

	// A second redemption fails and counts as a bypass attempt.
	before := gate.BypassAttempts()
	_, err = gate.Redeem(ctx, resp.Ticket.ID)
	require.Error(t, err)
	assert.Equal(t, before+1, gate.BypassAttempts())

	events := gate.Recorder().SecurityEvents()
	require.NotEmpty(t, events)
	assert.Equal(t, audit.EventBypassAttempt, events[len(events)-1].EventType)
}

func TestGateDenialsNeverCarryTickets(t *testing.T) {
	cfg := config.Default()

	ui := &scriptedUI{decisions: []bool{false}}
	gate := newTestGate(t, cfg, ui)

	resp := gate.RequestApproval(context.Background(), operation.TypeFileWrite, map[string]any{
		"target":  "/home/dev/project/main.go",
		"content": "x",
	}, "session-1")

	assert.False(t, resp.Approved)
	assert.Nil(t, resp.Ticket)
	assert.NotEmpty(t, resp.Reason)
}

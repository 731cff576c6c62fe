package approval

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardenhq/warden/core/operation"
)

// blockingUI never answers; it waits for the context to expire.
type blockingUI struct{}

func (u *blockingUI) ShowApprovalRequest(ctx context.Context, req *Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (u *blockingUI) OfferAlternatives(ctx context.Context, req *Request, alternatives []Alternative) (string, error) {
	return "", nil
}

// slowUI answers after a fixed delay.
type slowUI struct {
	delay time.Duration
}

func (u *slowUI) ShowApprovalRequest(ctx context.Context, req *Request) (*Response, error) {
	time.Sleep(u.delay)
	return NewApprovedResponse("approved by user"), nil
}

func (u *slowUI) OfferAlternatives(ctx context.Context, req *Request, alternatives []Alternative) (string, error) {
	return "", nil
}

// capturingUI records each stage request and approves everything.
type capturingUI struct {
	mu       sync.Mutex
	requests []*Request
}

func (u *capturingUI) ShowApprovalRequest(ctx context.Context, req *Request) (*Response, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.requests = append(u.requests, req)
	return NewApprovedResponse("approved by user"), nil
}

func (u *capturingUI) OfferAlternatives(ctx context.Context, req *Request, alternatives []Alternative) (string, error) {
	return "", nil
}

func testOperation(t *testing.T, risk operation.RiskLevel) *operation.Info {
	t.Helper()
	return &operation.Info{
		OperationType: operation.TypeFileWrite,
		Target:        "/home/dev/project/main.go",
		Description:   "modify file: /home/dev/project/main.go",
		RiskLevel:     risk,
		AnalyzedAt:    time.Now().UTC(),
	}
}

func testRequest(t *testing.T, risk operation.RiskLevel) *Request {
	t.Helper()
	req, err := NewRequest(testOperation(t, risk), "approve this?", "session-1")
	require.NoError(t, err)
	return req
}

func TestHandleWithTimeoutExpires(t *testing.T) {
	h := NewResponseHandler(&blockingUI{}, true)

	start := time.Now()
	_, err := h.HandleWithTimeout(context.Background(), testRequest(t, operation.RiskLow), 30*time.Millisecond)
	require.Error(t, err)

	var terr *TimeoutError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 30*time.Millisecond, terr.Timeout)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestHandleWithTimeoutCancellationIsNotTimeout(t *testing.T) {
	h := NewResponseHandler(&blockingUI{}, true)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := h.HandleWithTimeout(ctx, testRequest(t, operation.RiskLow), time.Minute)
	require.Error(t, err)

	var cerr *CancelledError
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, context.Canceled)

	var terr *TimeoutError
	assert.False(t, errors.As(err, &terr), "a cancelled parent context must not be reported as a timeout")
}

func TestHandleWithTimeoutDiscardsLateResult(t *testing.T) {
	h := NewResponseHandler(&slowUI{delay: 100 * time.Millisecond}, true)

	resp, err := h.HandleWithTimeout(context.Background(), testRequest(t, operation.RiskLow), 10*time.Millisecond)
	require.Error(t, err)
	assert.Nil(t, resp, "a response arriving after the deadline must be discarded")

	var terr *TimeoutError
	assert.ErrorAs(t, err, &terr)
}

func TestHandleWithTimeoutWarnsForLongTimeouts(t *testing.T) {
	tests := []struct {
		name       string
		timeout    time.Duration
		wantWarned bool
	}{
		{"above threshold", 90 * time.Second, true},
		{"at threshold", 60 * time.Second, false},
		{"below threshold", 30 * time.Second, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ui := &capturingUI{}
			h := NewResponseHandler(ui, true)

			req := testRequest(t, operation.RiskLow)
			_, err := h.HandleWithTimeout(context.Background(), req, tt.timeout)
			require.NoError(t, err)

			require.Len(t, ui.requests, 1)
			if tt.wantWarned {
				assert.NotEmpty(t, ui.requests[0].TimeoutWarning)
			} else {
				assert.Empty(t, ui.requests[0].TimeoutWarning)
			}
		})
	}
}

func TestStageCountByRisk(t *testing.T) {
	withConfirm := NewResponseHandler(&capturingUI{}, true)
	withoutConfirm := NewResponseHandler(&capturingUI{}, false)

	assert.Equal(t, 1, withConfirm.stageCount(operation.RiskLow))
	assert.Equal(t, 2, withConfirm.stageCount(operation.RiskHigh))
	assert.Equal(t, 3, withConfirm.stageCount(operation.RiskCritical))
	assert.Equal(t, 1, withoutConfirm.stageCount(operation.RiskCritical))
}

func TestConfirmStagesRestatesCumulativeRisks(t *testing.T) {
	ui := &capturingUI{}
	h := NewResponseHandler(ui, true)

	req := testRequest(t, operation.RiskCritical)
	resp, err := h.HandleWithTimeout(context.Background(), req, 5*time.Second)
	require.NoError(t, err)
	require.True(t, resp.Approved)

	require.Len(t, ui.requests, 3)
	for i, stageReq := range ui.requests {
		assert.Equal(t, i+1, stageReq.Stage)
		assert.Equal(t, 3, stageReq.TotalStages)
		assert.Len(t, stageReq.StatedRisks, i+1, "stage %d restates all prior risks plus one", i+1)
		assert.Contains(t, stageReq.Message, "confirmation")
	}
}

func TestUIPanicBecomesUIError(t *testing.T) {
	ui := &scriptedUI{panicOnShow: true}
	h := NewResponseHandler(ui, true)

	_, err := h.HandleWithTimeout(context.Background(), testRequest(t, operation.RiskLow), 5*time.Second)
	require.Error(t, err)

	var uerr *UIError
	assert.ErrorAs(t, err, &uerr)
}

func TestNilUIResponseIsUIError(t *testing.T) {
	ui := uiFunc(func(ctx context.Context, req *Request) (*Response, error) {
		return nil, nil
	})
	h := NewResponseHandler(ui, true)

	_, err := h.HandleWithTimeout(context.Background(), testRequest(t, operation.RiskLow), 5*time.Second)
	require.Error(t, err)

	var uerr *UIError
	assert.ErrorAs(t, err, &uerr)
}

func TestUIErrorIsWrapped(t *testing.T) {
	cause := errors.New("tty closed")
	ui := uiFunc(func(ctx context.Context, req *Request) (*Response, error) {
		return nil, cause
	})
	h := NewResponseHandler(ui, true)

	_, err := h.HandleWithTimeout(context.Background(), testRequest(t, operation.RiskLow), 5*time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
}

// uiFunc adapts a function to the UI interface for tests.
type uiFunc func(ctx context.Context, req *Request) (*Response, error)

func (f uiFunc) ShowApprovalRequest(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

func (f uiFunc) OfferAlternatives(ctx context.Context, req *Request, alternatives []Alternative) (string, error) {
	return "", nil
}

package audit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardenhq/warden/core/operation"
)

func testInfo(t *testing.T) *operation.Info {
	t.Helper()
	info, err := operation.NewInfo(operation.TypeFileWrite, "app.py", "Write to file app.py", operation.RiskHigh, nil)
	require.NoError(t, err)
	return info
}

func TestRing_AppendBelowCap(t *testing.T) {
	ring := NewRing[int](3)
	ring.Append(1)
	ring.Append(2)

	assert.Equal(t, 2, ring.Len())
	assert.Equal(t, []int{1, 2}, ring.Items())
}

func TestRing_EvictsOldestFIFO(t *testing.T) {
	ring := NewRing[int](3)
	for i := 1; i <= 5; i++ {
		ring.Append(i)
	}

	assert.Equal(t, 3, ring.Len())
	assert.Equal(t, []int{3, 4, 5}, ring.Items())
}

func TestRing_ItemsIsSnapshot(t *testing.T) {
	ring := NewRing[int](3)
	ring.Append(1)

	snapshot := ring.Items()
	ring.Append(2)

	assert.Equal(t, []int{1}, snapshot)
}

func TestNewRecord_ClampsNegativeResponseTime(t *testing.T) {
	rec := NewRecord(testInfo(t), false, "denied by user", -3*time.Second, "sess-1")

	assert.Equal(t, float64(0), rec.ResponseTimeSeconds)
	assert.False(t, rec.Timestamp.IsZero())
	assert.NotEqual(t, "", rec.ID.String())
}

func TestEventType_IsSevere(t *testing.T) {
	assert.True(t, EventSecurityViolation.IsSevere())
	assert.True(t, EventFailSafe.IsSevere())
	assert.False(t, EventBypassAttempt.IsSevere())
	assert.False(t, EventTimeout.IsSevere())
	assert.False(t, EventUIFailure.IsSevere())
}

func TestRecorder_ApprovalLogCappedAt100(t *testing.T) {
	r := NewRecorder()

	for i := 0; i < 150; i++ {
		rec := NewRecord(testInfo(t), true, fmt.Sprintf("approval %d", i), time.Second, "sess-1")
		r.RecordApproval(context.Background(), rec)
	}

	approvals := r.Approvals()
	require.Len(t, approvals, 100)
	// Oldest evicted first: the first surviving record is approval 50.
	assert.Equal(t, "approval 50", approvals[0].Reason)
	assert.Equal(t, "approval 149", approvals[99].Reason)
}

func TestRecorder_SecurityLogCappedAt500(t *testing.T) {
	r := NewRecorder()

	for i := 0; i < 520; i++ {
		r.RecordSecurityEvent(context.Background(), NewSecurityEvent(EventTimeout, fmt.Sprintf("event %d", i)))
	}

	events := r.SecurityEvents()
	require.Len(t, events, 500)
	assert.Equal(t, "event 20", events[0].Message)
	assert.Equal(t, "event 519", events[499].Message)
}

type captureSink struct {
	approvals []*Record
	events    []*SecurityEvent
	fail      bool
}

func (s *captureSink) SaveApproval(_ context.Context, record *Record) error {
	if s.fail {
		return errors.New("sink unavailable")
	}
	s.approvals = append(s.approvals, record)
	return nil
}

func (s *captureSink) SaveSecurityEvent(_ context.Context, event *SecurityEvent) error {
	if s.fail {
		return errors.New("sink unavailable")
	}
	s.events = append(s.events, event)
	return nil
}

type captureAlerter struct {
	alerts []*SecurityEvent
}

func (a *captureAlerter) Alert(_ context.Context, event *SecurityEvent) {
	a.alerts = append(a.alerts, event)
}

func TestRecorder_FansOutToSink(t *testing.T) {
	sink := &captureSink{}
	r := NewRecorder(WithSink(sink))

	r.RecordApproval(context.Background(), NewRecord(testInfo(t), true, "ok", time.Second, "sess-1"))
	r.RecordSecurityEvent(context.Background(), NewSecurityEvent(EventBypassAttempt, "suspicious rate"))

	assert.Len(t, sink.approvals, 1)
	assert.Len(t, sink.events, 1)
}

func TestRecorder_SinkFailureDoesNotAffectRings(t *testing.T) {
	sink := &captureSink{fail: true}
	r := NewRecorder(WithSink(sink))

	r.RecordApproval(context.Background(), NewRecord(testInfo(t), false, "denied", time.Second, "sess-1"))

	assert.Len(t, r.Approvals(), 1)
}

func TestRecorder_AlertsOnlyForSevereEvents(t *testing.T) {
	alerter := &captureAlerter{}
	r := NewRecorder(WithAlerter(alerter))

	r.RecordSecurityEvent(context.Background(), NewSecurityEvent(EventTimeout, "timed out"))
	r.RecordSecurityEvent(context.Background(), NewSecurityEvent(EventSecurityViolation, "threshold reached"))
	r.RecordSecurityEvent(context.Background(), NewSecurityEvent(EventFailSafe, "internal fault"))

	require.Len(t, alerter.alerts, 2)
	assert.Equal(t, EventSecurityViolation, alerter.alerts[0].EventType)
	assert.Equal(t, EventFailSafe, alerter.alerts[1].EventType)
}

func TestRetentionPolicy(t *testing.T) {
	policy := NewRetentionPolicy(30)
	assert.True(t, policy.IsEnabled())
	assert.True(t, policy.ShouldDelete(time.Now().AddDate(0, 0, -60)))
	assert.False(t, policy.ShouldDelete(time.Now().AddDate(0, 0, -10)))

	disabled := NewRetentionPolicy(0)
	assert.False(t, disabled.IsEnabled())
	assert.True(t, disabled.CutoffTime().IsZero())
	assert.False(t, disabled.ShouldDelete(time.Now().AddDate(-10, 0, 0)))
}

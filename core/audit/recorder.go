package audit

import (
	"context"

	"github.com/safedep/dry/log"
)

// Sink is a durable destination for audit data. The in-memory rings remain
// authoritative for the gate's own caps; a sink is an observability add-on
// and its failures never affect the decision path.
type Sink interface {
	SaveApproval(ctx context.Context, record *Record) error
	SaveSecurityEvent(ctx context.Context, event *SecurityEvent) error
}

// Alerter delivers severe security events to an operator immediately.
type Alerter interface {
	Alert(ctx context.Context, event *SecurityEvent)
}

// Recorder appends decisions to the capped logs and fans them out to the
// optional durable sink and operator alerter.
type Recorder struct {
	approvals *Ring[*Record]
	events    *Ring[*SecurityEvent]
	sink      Sink
	alerter   Alerter
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithSink attaches a durable sink.
func WithSink(sink Sink) RecorderOption {
	return func(r *Recorder) {
		r.sink = sink
	}
}

// WithAlerter attaches an operator alerter.
func WithAlerter(alerter Alerter) RecorderOption {
	return func(r *Recorder) {
		r.alerter = alerter
	}
}

// NewRecorder creates a Recorder with the default log caps.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{
		approvals: NewRing[*Record](DefaultApprovalLogCap),
		events:    NewRing[*SecurityEvent](DefaultSecurityLogCap),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecordApproval appends an approval decision to the capped log and the
// durable sink if one is attached. Sink failures are logged, never returned.
func (r *Recorder) RecordApproval(ctx context.Context, record *Record) {
	r.approvals.Append(record)

	if r.sink != nil {
		if err := r.sink.SaveApproval(ctx, record); err != nil {
			log.Errorf("failed to persist approval record: %v", err)
		}
	}
}

// RecordSecurityEvent appends a security event to the capped log, persists
// it if a sink is attached, and alerts the operator for severe event types.
func (r *Recorder) RecordSecurityEvent(ctx context.Context, event *SecurityEvent) {
	r.events.Append(event)

	if r.sink != nil {
		if err := r.sink.SaveSecurityEvent(ctx, event); err != nil {
			log.Errorf("failed to persist security event: %v", err)
		}
	}

	if r.alerter != nil && event.EventType.IsSevere() {
		r.alerter.Alert(ctx, event)
	}
}

// Approvals returns a snapshot of the approval log, oldest first.
func (r *Recorder) Approvals() []*Record {
	return r.approvals.Items()
}

// SecurityEvents returns a snapshot of the security log, oldest first.
func (r *Recorder) SecurityEvents() []*SecurityEvent {
	return r.events.Items()
}

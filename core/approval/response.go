package approval

import (
	"time"
)

// DefaultDenialReason is used when a denial carries no explicit reason.
const DefaultDenialReason = "denied by user"

// Response is the outcome of an approval request. The gate always returns
// a Response; it never lets an internal fault escape as approval.
type Response struct {
	// Approved is the decision. Callers must not proceed unless true.
	Approved bool `json:"approved"`
	// Reason explains the decision. Defaults to "denied by user" for
	// denials without an explicit reason.
	Reason string `json:"reason"`
	// Timestamp is when the decision was made (UTC).
	Timestamp time.Time `json:"timestamp"`
	// AlternativeSuggested is true when alternative actions were offered.
	AlternativeSuggested bool `json:"alternative_suggested"`
	// Details contains decision metadata (error kinds, stages, selections).
	Details map[string]any `json:"details,omitempty"`
	// Ticket is the single-use execution ticket, present only on approval.
	Ticket *Ticket `json:"ticket,omitempty"`
}

// NewApprovedResponse creates an approved Response.
func NewApprovedResponse(reason string) *Response {
	return &Response{
		Approved:  true,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	}
}

// NewDeniedResponse creates a denied Response. An empty reason becomes
// the default denial reason.
func NewDeniedResponse(reason string) *Response {
	if reason == "" {
		reason = DefaultDenialReason
	}
	return &Response{
		Approved:  false,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	}
}

// WithDetail sets a detail entry, allocating the map on first use.
func (r *Response) WithDetail(key string, value any) *Response {
	if r.Details == nil {
		r.Details = make(map[string]any)
	}
	r.Details[key] = value
	return r
}

// normalize enforces the response invariants before it crosses the gate's
// public boundary.
func (r *Response) normalize() *Response {
	if !r.Approved && r.Reason == "" {
		r.Reason = DefaultDenialReason
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	if !r.Approved {
		// A denial never carries a ticket.
		r.Ticket = nil
	}
	return r
}

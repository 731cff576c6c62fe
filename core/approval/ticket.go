package approval

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wardenhq/warden/core/operation"
)

// DefaultTicketTTL is how long an issued ticket stays redeemable.
const DefaultTicketTTL = 30 * time.Second

// Ticket is a single-use, short-lived authorization token issued only by a
// successful approval decision. A privileged operation may only execute if
// it presents a redeemable ticket.
type Ticket struct {
	// ID is the unique identifier presented at redemption.
	ID uuid.UUID `json:"id"`
	// OperationType is the approved operation type.
	OperationType operation.Type `json:"operation_type"`
	// Target is the approved target.
	Target string `json:"target"`
	// SessionID identifies the session the approval was granted to.
	SessionID string `json:"session_id"`
	// IssuedAt is when the ticket was issued (UTC).
	IssuedAt time.Time `json:"issued_at"`
	// ExpiresAt is when the ticket stops being redeemable (UTC).
	ExpiresAt time.Time `json:"expires_at"`
}

// TicketError explains why a ticket could not be redeemed.
type TicketError struct {
	ID     uuid.UUID
	Reason string
}

// Error implements the error interface.
func (e *TicketError) Error() string {
	return fmt.Sprintf("ticket %s: %s", e.ID, e.Reason)
}

// TicketIssuer issues and redeems single-use tickets.
type TicketIssuer struct {
	mu          sync.Mutex
	ttl         time.Duration
	outstanding map[uuid.UUID]*Ticket
	now         func() time.Time
}

// NewTicketIssuer creates a TicketIssuer with the given time-to-live.
func NewTicketIssuer(ttl time.Duration) *TicketIssuer {
	if ttl <= 0 {
		ttl = DefaultTicketTTL
	}
	return &TicketIssuer{
		ttl:         ttl,
		outstanding: make(map[uuid.UUID]*Ticket),
		now:         time.Now,
	}
}

// Issue creates a ticket for an approved operation.
func (i *TicketIssuer) Issue(op *operation.Info, sessionID string) *Ticket {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now().UTC()
	ticket := &Ticket{
		ID:            uuid.New(),
		OperationType: op.OperationType,
		Target:        op.Target,
		SessionID:     sessionID,
		IssuedAt:      now,
		ExpiresAt:     now.Add(i.ttl),
	}
	i.outstanding[ticket.ID] = ticket

	return ticket
}

// Redeem consumes a ticket. It fails for unknown, already-used, or expired
// tickets; success removes the ticket so it can never be redeemed twice.
func (i *TicketIssuer) Redeem(id uuid.UUID) (*Ticket, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	ticket, ok := i.outstanding[id]
	if !ok {
		return nil, &TicketError{ID: id, Reason: "unknown or already redeemed"}
	}

	delete(i.outstanding, id)

	if i.now().UTC().After(ticket.ExpiresAt) {
		return nil, &TicketError{ID: id, Reason: "expired"}
	}

	return ticket, nil
}

// Outstanding returns the number of unredeemed tickets, expired included.
func (i *TicketIssuer) Outstanding() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.outstanding)
}

package approval

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardenhq/warden/core/operation"
)

func ticketOperation() *operation.Info {
	return &operation.Info{
		OperationType: operation.TypeFileWrite,
		Target:        "/home/dev/project/main.go",
		Description:   "modify file: /home/dev/project/main.go",
		RiskLevel:     operation.RiskHigh,
		AnalyzedAt:    time.Now().UTC(),
	}
}

func TestTicketIssueAndRedeem(t *testing.T) {
	issuer := NewTicketIssuer(DefaultTicketTTL)

	ticket := issuer.Issue(ticketOperation(), "session-1")
	require.NotNil(t, ticket)
	assert.Equal(t, "/home/dev/project/main.go", ticket.Target)
	assert.Equal(t, "session-1", ticket.SessionID)
	assert.True(t, ticket.ExpiresAt.After(ticket.IssuedAt))
	assert.Equal(t, 1, issuer.Outstanding())

	redeemed, err := issuer.Redeem(ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, redeemed.ID)
	assert.Equal(t, 0, issuer.Outstanding())
}

func TestTicketIsSingleUse(t *testing.T) {
	issuer := NewTicketIssuer(DefaultTicketTTL)
	ticket := issuer.Issue(ticketOperation(), "session-1")

	_, err := issuer.Redeem(ticket.ID)
	require.NoError(t, err)

	_, err = issuer.Redeem(ticket.ID)
	require.Error(t, err)

	var terr *TicketError
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, terr.Reason, "already redeemed")
}

func TestUnknownTicketFailsRedemption(t *testing.T) {
	issuer := NewTicketIssuer(DefaultTicketTTL)

	_, err := issuer.Redeem(uuid.New())
	require.Error(t, err)

	var terr *TicketError
	assert.ErrorAs(t, err, &terr)
}

func TestExpiredTicketFailsRedemption(t *testing.T) {
	issuer := NewTicketIssuer(DefaultTicketTTL)

	clock := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return clock }

	ticket := issuer.Issue(ticketOperation(), "session-1")

	clock = clock.Add(DefaultTicketTTL + time.Second)
	_, err := issuer.Redeem(ticket.ID)
	require.Error(t, err)

	var terr *TicketError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "expired", terr.Reason)

	// Expiry consumes the ticket; a retry is "unknown", not "expired".
	_, err = issuer.Redeem(ticket.ID)
	require.ErrorAs(t, err, &terr)
	assert.Contains(t, terr.Reason, "unknown")
}

func TestTicketTTLDefaultsWhenInvalid(t *testing.T) {
	issuer := NewTicketIssuer(0)
	ticket := issuer.Issue(ticketOperation(), "session-1")
	assert.Equal(t, DefaultTicketTTL, ticket.ExpiresAt.Sub(ticket.IssuedAt))
}

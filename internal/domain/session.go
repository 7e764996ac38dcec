// Package domain defines the payment session model for the Paystack adapter.
package domain

import (
	"math"

	"github.com/google/uuid"
)

// SessionStatus is the checkout-facing state of a payment session. It is
// always derived from the last-observed Paystack transaction snapshot plus
// local validation, never stored independently of that snapshot.
type SessionStatus string

const (
	StatusPending    SessionStatus = "PENDING"
	StatusAuthorized SessionStatus = "AUTHORIZED"
	StatusCaptured   SessionStatus = "CAPTURED"
	StatusError      SessionStatus = "ERROR"
)

// Session is the provider-owned blob attached to a checkout session. The
// host platform persists it; the adapter only receives it as input and
// returns a new value, never mutating shared state.
type Session struct {
	// Reference is the idempotency/correlation token for one payment
	// attempt. It is never reused across two distinct checkout amounts.
	Reference        string
	AccessCode       string
	AuthorizationURL string

	// TransactionID is the Paystack-assigned identifier, populated only
	// after verification reaches a final status.
	TransactionID *int64

	// Amount and currency recorded at initiation. AuthorizePayment checks
	// the gateway-reported charge against these.
	AmountSubunits int64
	Currency       string
	Email          string

	// SessionID is the checkout correlation id embedded in gateway-side
	// transaction metadata and recovered from webhook events.
	SessionID string

	// TxData is the last-known raw gateway transaction snapshot, kept for
	// auditing and idempotent re-reads.
	TxData map[string]any
}

// NewReference mints a collision-resistant transaction reference for a
// fresh initiation attempt.
func NewReference() string {
	return uuid.NewString()
}

// WithSnapshot returns a copy of the session carrying the given gateway
// snapshot. The input session is left untouched.
func (s Session) WithSnapshot(snapshot map[string]any) Session {
	s.TxData = cloneMap(snapshot)
	return s
}

// WithTransactionID returns a copy of the session with the transaction id
// set. Passing nil clears it.
func (s Session) WithTransactionID(id *int64) Session {
	if id == nil {
		s.TransactionID = nil
		return s
	}
	v := *id
	s.TransactionID = &v
	return s
}

// RoundSubunits converts a gateway-reported JSON number to an integer
// sub-unit amount. All amount comparisons happen on these integers, never
// on floating-point major units.
func RoundSubunits(amount float64) int64 {
	return int64(math.Round(amount))
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

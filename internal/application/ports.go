package application

import (
	"context"
	"errors"
)

// Ports onto the host commerce platform. The adapter never owns durable
// state; all cross-request coordination goes through these.

// ErrOrderNotFound is returned by OrderService lookups when no order exists
// for the given identifier.
var ErrOrderNotFound = errors.New("order not found")

type OrderPayment struct {
	ProviderID string `json:"provider_id"`
}

type Order struct {
	ID       string         `json:"id"`
	CartID   string         `json:"cart_id"`
	Payments []OrderPayment `json:"payments"`
}

// PaidWithPaystack reports whether any of the order's payments went through
// this provider.
func (o *Order) PaidWithPaystack() bool {
	for _, p := range o.Payments {
		if p.ProviderID == "paystack" {
			return true
		}
	}
	return false
}

// OrderService is the host platform's order lookup and capture surface.
type OrderService interface {
	RetrieveByCartID(ctx context.Context, cartID string) (*Order, error)
	Retrieve(ctx context.Context, orderID string) (*Order, error)
	CapturePayment(ctx context.Context, orderID string) error
}

type CompletionResult struct {
	ResponseCode int    `json:"response_code"`
	Message      string `json:"message"`
}

// CartCompleter completes a checkout cart into an order. The host platform
// runs the completion inside its own transaction.
type CartCompleter interface {
	Complete(ctx context.Context, cartID, idempotencyKey string) (*CompletionResult, error)
}

// IdempotencyStore is the host-side arbiter giving at-most-once semantics
// keyed by cart/session identifier. Acquire returns false when the key is
// already held or completed; the caller must then treat the work as done.
type IdempotencyStore interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

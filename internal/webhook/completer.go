package webhook

import (
	"context"
	"errors"
	"log/slog"

	"github.com/commercekit/paystack-adapter/internal/application"
)

// Completer is the self-hosted completion path: it turns a validated
// charge.success event into a completed order. It races against the
// storefront's synchronous confirmation; the idempotency store keyed by
// cart id is the arbiter, so whichever path loses becomes a no-op.
type Completer struct {
	orders      application.OrderService
	carts       application.CartCompleter
	idempotency application.IdempotencyStore
	logger      *slog.Logger
}

func NewCompleter(
	orders application.OrderService,
	carts application.CartCompleter,
	idempotency application.IdempotencyStore,
	logger *slog.Logger,
) *Completer {
	return &Completer{
		orders:      orders,
		carts:       carts,
		idempotency: idempotency,
		logger:      logger,
	}
}

// HandleChargeSuccess completes the cart behind a paid checkout session.
// An already-placed order or an already-held idempotency key means the
// synchronous path won the race and there is nothing to do.
func (c *Completer) HandleChargeSuccess(ctx context.Context, cartID string) error {
	order, err := c.orders.RetrieveByCartID(ctx, cartID)
	if err != nil && !errors.Is(err, application.ErrOrderNotFound) {
		return application.NewInternalError(err)
	}

	if order != nil {
		c.logger.Debug("order already placed for cart, skipping completion", "cart_id", cartID)
		return nil
	}

	acquired, err := c.idempotency.Acquire(ctx, cartID)
	if err != nil {
		return application.NewInternalError(err)
	}
	if !acquired {
		c.logger.Debug("cart completion already in flight", "cart_id", cartID)
		return nil
	}

	result, err := c.carts.Complete(ctx, cartID, cartID)
	if err != nil {
		return application.NewInternalError(err)
	}

	if result.ResponseCode != 200 {
		c.logger.Error("error completing cart from webhook event",
			"cart_id", cartID,
			"response_code", result.ResponseCode,
			"message", result.Message,
		)
		return application.NewCompletionFailedError(cartID, result.ResponseCode, result.Message)
	}

	if err := c.idempotency.Release(ctx, cartID); err != nil {
		// Completion succeeded; a stuck key only means later duplicates
		// fall through to the order-exists check.
		c.logger.Warn("failed to mark idempotency key completed", "cart_id", cartID, "error", err)
	}

	c.logger.Info("completed cart from webhook event", "cart_id", cartID)
	return nil
}

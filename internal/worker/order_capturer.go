package worker

import (
	"context"
	"log/slog"

	"github.com/commercekit/paystack-adapter/internal/application"
)

// OrderCapturer marks host-side payments as captured once an order is
// placed. Paystack settles funds at charge time, so the host's capture step
// is bookkeeping; still, orders paid through other providers are skipped.
type OrderCapturer struct {
	orders application.OrderService
	queue  chan string
	logger *slog.Logger
}

func NewOrderCapturer(orders application.OrderService, queueSize int, logger *slog.Logger) *OrderCapturer {
	return &OrderCapturer{
		orders: orders,
		queue:  make(chan string, queueSize),
		logger: logger,
	}
}

// NotifyOrderPlaced feeds an order-placed notification from the host
// platform. Reports false when the queue is full.
func (c *OrderCapturer) NotifyOrderPlaced(orderID string) bool {
	select {
	case c.queue <- orderID:
		return true
	default:
		return false
	}
}

func (c *OrderCapturer) Start(ctx context.Context) {
	c.logger.Info("starting order capture worker")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("stopping order capture worker")
			return
		case orderID := <-c.queue:
			c.capture(ctx, orderID)
		}
	}
}

func (c *OrderCapturer) capture(ctx context.Context, orderID string) {
	order, err := c.orders.Retrieve(ctx, orderID)
	if err != nil {
		c.logger.Error("failed to retrieve placed order", "order_id", orderID, "error", err)
		return
	}

	if !order.PaidWithPaystack() {
		return
	}

	if err := c.orders.CapturePayment(ctx, order.ID); err != nil {
		c.logger.Error("error capturing paystack order", "order_id", order.ID, "error", err)
		return
	}

	c.logger.Debug("captured paystack order", "order_id", order.ID)
}

package worker_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/commercekit/paystack-adapter/internal/application"
	"github.com/commercekit/paystack-adapter/internal/webhook"
	"github.com/commercekit/paystack-adapter/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubOrderService struct {
	RetrieveByCartIDFn func(ctx context.Context, cartID string) (*application.Order, error)
	RetrieveFn         func(ctx context.Context, orderID string) (*application.Order, error)
	CapturePaymentFn   func(ctx context.Context, orderID string) error
}

func (s *stubOrderService) RetrieveByCartID(ctx context.Context, cartID string) (*application.Order, error) {
	return s.RetrieveByCartIDFn(ctx, cartID)
}

func (s *stubOrderService) Retrieve(ctx context.Context, orderID string) (*application.Order, error) {
	return s.RetrieveFn(ctx, orderID)
}

func (s *stubOrderService) CapturePayment(ctx context.Context, orderID string) error {
	return s.CapturePaymentFn(ctx, orderID)
}

type stubCartCompleter struct {
	completed chan string
}

func (s *stubCartCompleter) Complete(ctx context.Context, cartID, idempotencyKey string) (*application.CompletionResult, error) {
	s.completed <- cartID
	return &application.CompletionResult{ResponseCode: 200}, nil
}

type openIdempotencyStore struct{}

func (openIdempotencyStore) Acquire(ctx context.Context, key string) (bool, error) { return true, nil }
func (openIdempotencyStore) Release(ctx context.Context, key string) error         { return nil }

func newTestCompleter(completed chan string) *webhook.Completer {
	return webhook.NewCompleter(
		&stubOrderService{
			RetrieveByCartIDFn: func(ctx context.Context, cartID string) (*application.Order, error) {
				return nil, application.ErrOrderNotFound
			},
		},
		&stubCartCompleter{completed: completed},
		openIdempotencyStore{},
		discardLogger(),
	)
}

func TestDispatchWorker_CompletesQueuedEvent(t *testing.T) {
	completed := make(chan string, 1)
	w := worker.NewDispatchWorker(newTestCompleter(completed), 4, 0, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.True(t, w.Enqueue(webhook.DispatchJob{
		Event:          webhook.EventChargeSuccess,
		SessionID:      "cart-1",
		AmountSubunits: 2000,
	}))

	select {
	case cartID := <-completed:
		assert.Equal(t, "cart-1", cartID)
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch worker never completed the cart")
	}
}

func TestDispatchWorker_WaitsConfiguredDelayBeforeCompleting(t *testing.T) {
	completed := make(chan string, 1)
	delay := 50 * time.Millisecond
	w := worker.NewDispatchWorker(newTestCompleter(completed), 4, delay, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	start := time.Now()
	require.True(t, w.Enqueue(webhook.DispatchJob{Event: webhook.EventChargeSuccess, SessionID: "cart-1"}))

	select {
	case <-completed:
		assert.GreaterOrEqual(t, time.Since(start), delay)
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch worker never completed the cart")
	}
}

func TestDispatchWorker_BurstDelaysRunConcurrently(t *testing.T) {
	completed := make(chan string, 3)
	delay := 100 * time.Millisecond
	w := worker.NewDispatchWorker(newTestCompleter(completed), 4, delay, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	start := time.Now()
	for _, cartID := range []string{"cart-1", "cart-2", "cart-3"} {
		require.True(t, w.Enqueue(webhook.DispatchJob{Event: webhook.EventChargeSuccess, SessionID: cartID}))
	}

	for i := 0; i < 3; i++ {
		select {
		case <-completed:
		case <-time.After(2 * time.Second):
			t.Fatal("dispatch worker never completed all carts")
		}
	}

	// Serial dispatch would take at least three full delays.
	assert.Less(t, time.Since(start), 3*delay)
}

func TestDispatchWorker_IgnoresUnknownEvents(t *testing.T) {
	completed := make(chan string, 2)
	w := worker.NewDispatchWorker(newTestCompleter(completed), 4, 0, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.True(t, w.Enqueue(webhook.DispatchJob{Event: "transfer.success", SessionID: "cart-ignored"}))
	require.True(t, w.Enqueue(webhook.DispatchJob{Event: webhook.EventChargeSuccess, SessionID: "cart-1"}))

	select {
	case cartID := <-completed:
		// Only the charge.success job reaches the completer.
		assert.Equal(t, "cart-1", cartID)
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch worker never completed the cart")
	}
}

func TestDispatchWorker_EnqueueReportsFullQueue(t *testing.T) {
	// No Start: nothing drains the queue.
	w := worker.NewDispatchWorker(newTestCompleter(make(chan string)), 1, 0, discardLogger())

	assert.True(t, w.Enqueue(webhook.DispatchJob{Event: webhook.EventChargeSuccess, SessionID: "cart-1"}))
	assert.False(t, w.Enqueue(webhook.DispatchJob{Event: webhook.EventChargeSuccess, SessionID: "cart-2"}))
}

func TestDispatchWorker_CancellationCutsDelayShort(t *testing.T) {
	completed := make(chan string, 1)
	w := worker.NewDispatchWorker(newTestCompleter(completed), 4, time.Hour, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)

	require.True(t, w.Enqueue(webhook.DispatchJob{Event: webhook.EventChargeSuccess, SessionID: "cart-1"}))
	cancel()

	select {
	case <-completed:
		t.Fatal("completion should not run after shutdown")
	case <-time.After(100 * time.Millisecond):
	}
}

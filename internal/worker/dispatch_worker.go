// Package worker runs the adapter's background loops: delayed webhook
// dispatch and order capture.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/commercekit/paystack-adapter/internal/webhook"
)

// DispatchWorker drains the webhook queue, waiting a fixed delay before
// each completion so the storefront's synchronous confirmation usually
// wins the race. The delay reduces, but does not eliminate, the race; the
// idempotency store is what makes the outcome correct either way.
type DispatchWorker struct {
	completer *webhook.Completer
	queue     chan webhook.DispatchJob
	delay     time.Duration
	logger    *slog.Logger
}

func NewDispatchWorker(completer *webhook.Completer, queueSize int, delay time.Duration, logger *slog.Logger) *DispatchWorker {
	return &DispatchWorker{
		completer: completer,
		queue:     make(chan webhook.DispatchJob, queueSize),
		delay:     delay,
		logger:    logger,
	}
}

// Enqueue accepts a validated event without blocking. It reports false
// when the queue is full.
func (w *DispatchWorker) Enqueue(job webhook.DispatchJob) bool {
	select {
	case w.queue <- job:
		return true
	default:
		return false
	}
}

// Start drains the queue until the context is cancelled. Each job runs
// its delay independently, so a burst of deliveries completes about one
// delay after receipt instead of queueing behind each other.
func (w *DispatchWorker) Start(ctx context.Context) {
	w.logger.Info("starting webhook dispatch worker", "delay", w.delay)

	var wg sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			w.logger.Info("stopping webhook dispatch worker")
			return
		case job := <-w.queue:
			wg.Add(1)
			go func() {
				defer wg.Done()
				w.dispatch(ctx, job)
			}()
		}
	}
}

func (w *DispatchWorker) dispatch(ctx context.Context, job webhook.DispatchJob) {
	if w.delay > 0 {
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.delay):
		}
	}

	switch job.Event {
	case webhook.EventChargeSuccess:
		if err := w.completer.HandleChargeSuccess(ctx, job.SessionID); err != nil {
			// Left for manual or alternate reconciliation; the
			// synchronous authorize path remains the fallback.
			w.logger.Error("failed to complete cart from webhook event",
				"session_id", job.SessionID,
				"error", err,
			)
		}
	default:
	}
}

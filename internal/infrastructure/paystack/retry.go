package paystack

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/commercekit/paystack-adapter/internal/config"
)

// RetryClient decorates a GatewayAPI with bounded retries. All wrapped
// operations are safe to retry: the GETs are read-only and the POSTs are
// idempotent by reference on the Paystack side.
type RetryClient struct {
	inner      GatewayAPI
	baseDelay  time.Duration
	maxRetries int
	disabled   bool
}

func NewRetryClient(inner GatewayAPI, cfg config.RetryConfig) GatewayAPI {
	return &RetryClient{
		inner:      inner,
		baseDelay:  time.Duration(cfg.BaseDelay) * time.Second,
		maxRetries: int(cfg.MaxRetries),
		disabled:   cfg.Disabled,
	}
}

// InitializeTransaction with retry logic
func (r *RetryClient) InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	return retry(
		r,
		ctx,
		func(ctx context.Context) (*InitializeResponse, error) {
			return r.inner.InitializeTransaction(ctx, req)
		},
	)
}

// VerifyTransaction with retry logic
func (r *RetryClient) VerifyTransaction(ctx context.Context, reference string) (*TransactionResponse, error) {
	return retry(
		r,
		ctx,
		func(ctx context.Context) (*TransactionResponse, error) {
			return r.inner.VerifyTransaction(ctx, reference)
		},
	)
}

// GetTransaction with retry logic
func (r *RetryClient) GetTransaction(ctx context.Context, id int64) (*TransactionResponse, error) {
	return retry(
		r,
		ctx,
		func(ctx context.Context) (*TransactionResponse, error) {
			return r.inner.GetTransaction(ctx, id)
		},
	)
}

// CreateRefund with retry logic
func (r *RetryClient) CreateRefund(ctx context.Context, req RefundRequest) (*RefundResponse, error) {
	return retry(
		r,
		ctx,
		func(ctx context.Context) (*RefundResponse, error) {
			return r.inner.CreateRefund(ctx, req)
		},
	)
}

// Generic retry helper. maxRetries counts retries, not attempts, so the
// operation runs at most maxRetries+1 times.
func retry[T any](r *RetryClient, ctx context.Context, operation func(ctx context.Context) (*T, error)) (*T, error) {
	attempts := r.maxRetries + 1
	if r.disabled {
		attempts = 1
	}

	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		resp, err := operation(ctx)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		if attempt < attempts-1 {
			time.Sleep(r.backoff(attempt))
		}
	}

	if r.disabled {
		return nil, lastErr
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

// Helper: to check retryable errors
func isRetryable(err error) bool {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		// 4xx errors surface immediately, only 5xx is transient.
		return gwErr.IsRetryable()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// Network-level failures are treated as transient.
	return true
}

// Backoff calculation with exponential delay and jitter
func (r *RetryClient) backoff(attempt int) time.Duration {
	base := r.baseDelay * time.Duration(1<<attempt)

	jitter := time.Duration(rand.Intn(1000)) * time.Millisecond

	return base + jitter
}

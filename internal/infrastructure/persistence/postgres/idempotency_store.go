package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/commercekit/paystack-adapter/internal/application"
)

// requestPath scopes webhook completion keys away from any other keys the
// host platform stores in the same table.
const requestPath = "/paystack/hooks"

type idempotencyStore struct {
	db *DB
}

// NewIdempotencyStore returns a pgx-backed idempotency store keyed by
// cart/session id. The unique constraint on (request_path, key) is what
// gives the at-most-once guarantee under concurrent completion attempts.
func NewIdempotencyStore(db *DB) application.IdempotencyStore {
	return &idempotencyStore{db: db}
}

func (s *idempotencyStore) Acquire(ctx context.Context, key string) (bool, error) {
	query := `
		INSERT INTO webhook_idempotency_keys (request_path, key, locked_at)
		VALUES ($1, $2, $3)
	`

	_, err := s.db.Pool.Exec(ctx, query, requestPath, key, time.Now())
	if err != nil {
		if IsUniqueViolation(err) {
			// Another completion attempt holds or finished this key.
			return false, nil
		}
		return false, fmt.Errorf("failed to acquire idempotency lock: %w", err)
	}

	return true, nil
}

func (s *idempotencyStore) Release(ctx context.Context, key string) error {
	query := `
		UPDATE webhook_idempotency_keys
		SET completed_at = $1
		WHERE request_path = $2 AND key = $3
	`

	_, err := s.db.Pool.Exec(ctx, query, time.Now(), requestPath, key)
	if err != nil {
		return fmt.Errorf("failed to mark idempotency key completed: %w", err)
	}

	return nil
}

// Package redishost provides a Redis-backed idempotency store for hosts
// that coordinate through Redis instead of Postgres.
package redishost

import (
	"context"
	"fmt"
	"time"

	"github.com/commercekit/paystack-adapter/internal/application"
	"github.com/commercekit/paystack-adapter/internal/config"
	"github.com/redis/go-redis/v9"
)

const (
	statusInProgress = "IN_PROGRESS"
	statusCompleted  = "COMPLETED"

	// An in-progress key expires quickly so a crashed completion attempt
	// cannot wedge the cart forever; completed keys linger for a day.
	inProgressExpiry = 30 * time.Second
	completedExpiry  = 24 * time.Hour
)

type Store struct {
	client *redis.Client
}

func NewStore(cfg config.RedisConfig) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// Acquire atomically claims the key with SET NX. A key that already exists,
// in progress or completed, means the work is someone else's.
func (s *Store) Acquire(ctx context.Context, key string) (bool, error) {
	set, err := s.client.SetNX(ctx, s.key(key), statusInProgress, inProgressExpiry).Result()
	if err != nil {
		return false, fmt.Errorf("redis SETNX error: %w", err)
	}
	return set, nil
}

func (s *Store) Release(ctx context.Context, key string) error {
	if err := s.client.Set(ctx, s.key(key), statusCompleted, completedExpiry).Err(); err != nil {
		return fmt.Errorf("redis SET error: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(key string) string {
	return fmt.Sprintf("paystack:hooks:%s", key)
}

var _ application.IdempotencyStore = (*Store)(nil)

package redishost_test

import (
	"context"
	"testing"
	"time"

	"github.com/commercekit/paystack-adapter/internal/config"
	"github.com/commercekit/paystack-adapter/internal/infrastructure/persistence/redishost"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestStore(t *testing.T) *redishost.Store {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor: wait.ForLog("Ready to accept connections").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(context.Background()))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	store := redishost.NewStore(config.RedisConfig{Addr: host + ":" + port.Port()})
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

func TestStore_AcquireClaimsKeyOnce(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	key := "cart-" + uuid.NewString()

	acquired, err := store.Acquire(ctx, key)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = store.Acquire(ctx, key)
	require.NoError(t, err)
	assert.False(t, acquired)
}

func TestStore_ReleasedKeyStaysClaimed(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	key := "cart-" + uuid.NewString()

	acquired, err := store.Acquire(ctx, key)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, store.Release(ctx, key))

	// A completed cart must never be completed again.
	acquired, err = store.Acquire(ctx, key)
	require.NoError(t, err)
	assert.False(t, acquired)
}

func TestStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	first, err := store.Acquire(ctx, "cart-"+uuid.NewString())
	require.NoError(t, err)
	second, err := store.Acquire(ctx, "cart-"+uuid.NewString())
	require.NoError(t, err)

	assert.True(t, first)
	assert.True(t, second)
}

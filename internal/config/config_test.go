package config_test

import (
	"testing"
	"time"

	"github.com/commercekit/paystack-adapter/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PAYSTACK_PRIMARY__ENV", "test")
	t.Setenv("PAYSTACK_SERVER__PORT", "8080")
	t.Setenv("PAYSTACK_SERVER__READ_TIMEOUT", "10s")
	t.Setenv("PAYSTACK_SERVER__WRITE_TIMEOUT", "10s")
	t.Setenv("PAYSTACK_SERVER__IDLE_TIMEOUT", "60s")
	t.Setenv("PAYSTACK_PAYSTACK__SECRET_KEY", "sk_test_secret")
	t.Setenv("PAYSTACK_HOST__BASE_URL", "http://localhost:9000")
}

func TestLoadConfig_ReadsEnvironmentAndAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Primary.Env)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sk_test_secret", cfg.Paystack.SecretKey)

	assert.Equal(t, int32(config.DefaultMaxRetries), cfg.Retry.MaxRetries)
	assert.False(t, cfg.Retry.Disabled)
	assert.Equal(t, config.DefaultDispatchDelay, cfg.Webhook.DispatchDelay)
	assert.Equal(t, config.DefaultQueueSize, cfg.Webhook.QueueSize)
	assert.Equal(t, "postgres", cfg.Webhook.Store)
	assert.Equal(t, config.DefaultPaystackTimeout, cfg.Paystack.ConnTimeout)
}

func TestLoadConfig_FailsWithoutSecretKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PAYSTACK_PAYSTACK__SECRET_KEY", "")

	_, err := config.LoadConfig()

	require.Error(t, err)
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PAYSTACK_WEBHOOK__DISPATCH_DELAY", "2s")
	t.Setenv("PAYSTACK_WEBHOOK__STORE", "redis")
	t.Setenv("PAYSTACK_RETRY__DISABLE_RETRIES", "true")
	t.Setenv("PAYSTACK_RETRY__MAX_RETRIES", "5")
	t.Setenv("PAYSTACK_PAYSTACK__DEBUG", "true")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Webhook.DispatchDelay)
	assert.Equal(t, "redis", cfg.Webhook.Store)
	assert.True(t, cfg.Retry.Disabled)
	assert.Equal(t, int32(5), cfg.Retry.MaxRetries)
	assert.True(t, cfg.Paystack.Debug)
}

package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
)

type Config struct {
	Primary  Primary        `koanf:"primary"`
	Server   ServerConfig   `koanf:"server"`
	Paystack PaystackConfig `koanf:"paystack"`
	Retry    RetryConfig    `koanf:"retry"`
	Webhook  WebhookConfig  `koanf:"webhook"`
	Host     HostConfig     `koanf:"host"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Logger   LoggerConfig   `koanf:"logger"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
}

type PaystackConfig struct {
	// SecretKey authenticates every gateway call and signs webhook events.
	// sk_test_... or sk_live_..., from the Paystack dashboard.
	SecretKey   string        `koanf:"secret_key" validate:"required"`
	BaseURL     string        `koanf:"base_url"`
	ConnTimeout time.Duration `koanf:"conn_timeout"`
	Debug       bool          `koanf:"debug"`
}

type RetryConfig struct {
	BaseDelay  int32 `koanf:"base_delay"`
	MaxRetries int32 `koanf:"max_retries"`
	Disabled   bool  `koanf:"disable_retries"`
}

type WebhookConfig struct {
	// DispatchDelay is waited before a validated event is handed to the
	// completion path, so the storefront's synchronous confirmation
	// usually wins the race. Best-effort mitigation only.
	DispatchDelay time.Duration `koanf:"dispatch_delay"`
	QueueSize     int           `koanf:"queue_size"`
	// Store selects the idempotency arbiter: "postgres" or "redis".
	Store string `koanf:"store"`
}

type HostConfig struct {
	BaseURL     string        `koanf:"base_url" validate:"required"`
	ConnTimeout time.Duration `koanf:"conn_timeout"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type LoggerConfig struct {
	Level string `koanf:"level"`
}

const (
	DefaultRetryBaseDelay  = 1
	DefaultMaxRetries      = 3
	DefaultDispatchDelay   = 5 * time.Second
	DefaultQueueSize       = 64
	DefaultPaystackTimeout = 30 * time.Second
)

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	err := k.Load(env.Provider("PAYSTACK_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "PAYSTACK_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	mainConfig.applyDefaults()

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}

func (c *Config) applyDefaults() {
	if c.Retry.BaseDelay == 0 {
		c.Retry.BaseDelay = DefaultRetryBaseDelay
	}
	if c.Retry.MaxRetries == 0 {
		c.Retry.MaxRetries = DefaultMaxRetries
	}
	if c.Webhook.DispatchDelay == 0 {
		c.Webhook.DispatchDelay = DefaultDispatchDelay
	}
	if c.Webhook.QueueSize == 0 {
		c.Webhook.QueueSize = DefaultQueueSize
	}
	if c.Webhook.Store == "" {
		c.Webhook.Store = "postgres"
	}
	if c.Paystack.ConnTimeout == 0 {
		c.Paystack.ConnTimeout = DefaultPaystackTimeout
	}
	if c.Host.ConnTimeout == 0 {
		c.Host.ConnTimeout = DefaultPaystackTimeout
	}
}

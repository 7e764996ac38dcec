package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/commercekit/paystack-adapter/internal/application"
	"github.com/commercekit/paystack-adapter/internal/config"
	"github.com/commercekit/paystack-adapter/internal/infrastructure/hostapi"
	"github.com/commercekit/paystack-adapter/internal/infrastructure/persistence/postgres"
	"github.com/commercekit/paystack-adapter/internal/infrastructure/persistence/redishost"
	"github.com/commercekit/paystack-adapter/internal/middleware"
	"github.com/commercekit/paystack-adapter/internal/webhook"
	"github.com/commercekit/paystack-adapter/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting paystack webhook service",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"idempotency_store", cfg.Webhook.Store,
	)

	ctx := context.Background()

	var idempotencyStore application.IdempotencyStore
	switch cfg.Webhook.Store {
	case "redis":
		store := redishost.NewStore(cfg.Redis)
		defer store.Close()
		idempotencyStore = store
	default:
		db, err := postgres.Connect(ctx, &cfg.Database, logger)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		idempotencyStore = postgres.NewIdempotencyStore(db)
	}

	hostClient := hostapi.NewClient(cfg.Host)

	dispatcher, err := webhook.NewDispatcher(cfg.Paystack.SecretKey, logger, cfg.Paystack.Debug)
	if err != nil {
		logger.Error("failed to build webhook dispatcher", "error", err)
		os.Exit(1)
	}

	completer := webhook.NewCompleter(hostClient, hostClient, idempotencyStore, logger)

	dispatchWorker := worker.NewDispatchWorker(
		completer,
		cfg.Webhook.QueueSize,
		cfg.Webhook.DispatchDelay,
		logger,
	)

	orderCapturer := worker.NewOrderCapturer(hostClient, cfg.Webhook.QueueSize, logger)

	webhookHandler := webhook.NewHandler(cfg.Paystack.SecretKey, dispatcher, dispatchWorker, logger)

	mux := http.NewServeMux()
	mux.Handle("/paystack/hooks", webhookHandler)
	mux.HandleFunc("POST /internal/orders/placed", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			OrderID string `json:"order_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OrderID == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if !orderCapturer.NotifyOrderPlaced(req.OrderID) {
			logger.Warn("order capture queue full, dropping notification", "order_id", req.OrderID)
		}
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go dispatchWorker.Start(workerCtx)
	go orderCapturer.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

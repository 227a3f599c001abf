// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"home-quote-workers/internal/api"
	"home-quote-workers/internal/common/camunda"
	"home-quote-workers/internal/common/config"
	"home-quote-workers/internal/common/database"
	"home-quote-workers/internal/common/logger"
	"home-quote-workers/internal/common/observability"

	bdd "home-quote-workers/internal/workers/quote/build-dashboard-data"
	cpq "home-quote-workers/internal/workers/quote/calculate-premium-quote"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting quote worker manager",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("observability init failed, otel metrics disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]api.ReadinessCheck{}

	// --- Redis quote cache (optional) ---
	var cache *database.QuoteCache
	if cfg.Redis.Address != "" && cfg.Quote.CacheTTL > 0 {
		redis := database.NewRedis(cfg.Redis)
		err = retryWithBackoff(func() error {
			return redis.Ping(ctx)
		}, 5, time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Warn("redis unavailable, quote cache disabled", zap.Error(err))
			redis.Close()
		} else {
			defer redis.Close()
			cache = database.NewQuoteCache(redis.Client, cfg.Quote.CacheTTLDuration())
			checks["redis"] = redis.Ping
			zapLog.Info("Redis connected, quote cache enabled",
				zap.Duration("ttl", cfg.Quote.CacheTTLDuration()),
			)
		}
	}

	quoteWorker := cpq.NewHandler(
		&cpq.Config{
			Timeout:      config.GetDuration(config.GetWorkerConfig(cfg, cpq.TaskType).Timeout),
			StrictRanges: cfg.Quote.StrictRanges,
		},
		cache, obs, log,
	)
	dashboardWorker := bdd.NewHandler(
		&bdd.Config{
			Timeout:       config.GetDuration(config.GetWorkerConfig(cfg, bdd.TaskType).Timeout),
			TopRiskStates: cfg.Quote.TopRiskStates,
		},
		obs, log,
	)

	// --- Zeebe job workers (optional) ---
	workers := camunda.NewWorkers(log)
	if cfg.Camunda.Enabled {
		client, err := camunda.NewClient(ctx, camunda.ConfigFrom(cfg.Camunda), log)
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		defer client.Close()
		checks["zeebe"] = client.HealthCheck

		workers.Start(client.GetClient(), cpq.TaskType, config.GetWorkerConfig(cfg, cpq.TaskType), quoteWorker)
		workers.Start(client.GetClient(), bdd.TaskType, config.GetWorkerConfig(cfg, bdd.TaskType), dashboardWorker)
		zapLog.Info("Workers registered", zap.Int("count", workers.Len()))
	} else {
		zapLog.Info("Camunda disabled, serving HTTP API only")
	}

	// --- Quote API, health & metrics ---
	server := api.NewServer(cfg.HTTP, quoteWorker, dashboardWorker, checks, log)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case <-ctx.Done():
		zapLog.Info("Shutdown signal received, stopping workers...")
	case err := <-serverErr:
		if err != nil {
			zapLog.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.HTTP.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	workers.Close()

	zapLog.Info("Worker manager stopped gracefully")
}

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"spendtrack/internal/amqp"
	"spendtrack/internal/categorize"
	"spendtrack/internal/cli"
	"spendtrack/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting spendtrack-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	// The worker needs the shared SQLite store; the memory backend has no
	// state to share between processes.
	if cfg.DataBackend != "sqlite" {
		logger.Error("spendtrack-worker requires DATA_BACKEND=sqlite", "backend", cfg.DataBackend)
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	if cfg.GeminiAPIKey == "" {
		logger.Error("GEMINI_API_KEY is required for the categorize worker")
		os.Exit(1)
	}
	gemini, err := categorize.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Error("Failed to initialize Gemini client", "error", err)
		os.Exit(1)
	}
	defer gemini.Close()

	// Initialize AMQP client for consuming retry messages
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	// Cancel on SIGINT/SIGTERM; the errgroup context propagates the stop
	// to the consumer and the sweep loop.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	categorizeWorker := worker.NewCategorizeWorker(repo, gemini, cfg.RetryBatchSize)

	// On startup, retry anything that was left pending while the worker
	// was down.
	logger.Info("Performing startup categorization check...")
	if err := categorizeWorker.StartupCheck(ctx); err != nil {
		logger.Error("Failed startup categorization check", "error", err)
		// Don't exit - continue with normal operation
	}

	g, gctx := errgroup.WithContext(ctx)

	// Message consumption
	g.Go(func() error {
		return amqpClient.ConsumeCategorizeRetries(gctx, categorizeWorker.HandleCategorizeMessage)
	})

	// Periodic sweep for any missed messages
	g.Go(func() error {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := categorizeWorker.ProcessPending(gctx); err != nil {
					logger.Error("Periodic categorization sweep failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

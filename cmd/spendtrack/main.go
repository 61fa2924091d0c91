package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spendtrack/internal/amqp"
	"spendtrack/internal/categorize"
	"spendtrack/internal/cli"
	apphttp "spendtrack/internal/http"
	"spendtrack/internal/services"
	"spendtrack/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	// Choose data backend (default: memory)
	var repo storage.Repository
	switch cfg.DataBackend {
	case "sqlite":
		repo = cli.InitSQLite(logger, cfg.SQLiteDBPath)
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)
	default:
		repo = storage.NewMemoryRepository()
		logger.Info("Initialized memory backend")
	}
	defer repo.Close()

	// Exchange rate cache backed by bbolt
	rateCache, rateStore := cli.InitRatesCache(logger, cfg)
	defer rateStore.Close()

	// Gemini categorizer is optional; without an API key every expense
	// lands in Other.
	var categorizer categorize.Categorizer
	if cfg.GeminiAPIKey != "" {
		gemini, err := categorize.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("Failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		defer gemini.Close()
		categorizer = gemini
		logger.Info("Gemini categorizer initialized", "model", cfg.GeminiModel)
	} else {
		logger.Info("Gemini disabled - no GEMINI_API_KEY provided")
	}

	// AMQP publisher for categorize retries (optional)
	var publisher services.RetryPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, categorize retries rely on the worker sweep", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	expenseService := services.NewExpenseService(repo, categorizer, publisher)
	importExportService := services.NewImportExportService(repo)
	reportService := services.NewReportService(repo, rateCache)

	srv := apphttp.NewServer(":"+cfg.Port, expenseService, importExportService, reportService, rateCache, cfg.BaseCurrency)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting spendtrack server", "port", cfg.Port, "backend", cfg.DataBackend, "base_currency", cfg.BaseCurrency)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

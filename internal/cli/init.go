// Package cli provides common CLI initialization utilities.
// This package consolidates repeated initialization patterns across
// cmd/spendtrack, cmd/spendtrack-worker, and cmd/rates-worker.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"spendtrack/internal/config"
	"spendtrack/internal/rates"
	"spendtrack/internal/storage"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitSQLite initializes a SQLite repository with the given path.
// Returns the repository or exits the process on failure.
func InitSQLite(logger *slog.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}

// InitRatesCache opens the bbolt rate store and wires it to the HTTP
// provider. Returns the cache and the store (for Close), or exits the
// process on failure.
func InitRatesCache(logger *slog.Logger, cfg *config.Config) (*rates.Cache, *rates.BoltStore) {
	store, err := rates.NewBoltStore(cfg.RatesDBPath)
	if err != nil {
		logger.Error("Failed to open rates database", "error", err, "path", cfg.RatesDBPath)
		os.Exit(1)
	}
	provider := rates.NewHTTPProvider(cfg.RatesProviderURL, nil)
	return rates.NewCache(store, provider, cfg.RatesTTL), store
}

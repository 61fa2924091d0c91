package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spendtrack/internal/cli"
)

// rates-worker periodically refreshes the exchange rate snapshot for the
// configured base currency so interactive requests rarely pay for a
// provider round trip.
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting rates-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	cache, store := cli.InitRatesCache(logger, cfg)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	refresh := func() {
		snapshot := cache.GetRates(ctx, cfg.BaseCurrency)
		if snapshot == nil {
			logger.Warn("No rates available", "base_currency", cfg.BaseCurrency)
			return
		}
		logger.Info("Rates snapshot refreshed",
			"base_currency", snapshot.BaseCode,
			"currencies", len(snapshot.Rates),
			"last_update_unix", snapshot.TimeLastUpdateUnix)
	}

	// Refresh once at startup, then on a fraction of the TTL so a snapshot
	// never goes stale between runs.
	refresh()

	interval := cfg.RatesTTL / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				refresh()
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutdown signal received", "signal", sig.String())

	cancel()
	logger.Info("Rates worker stopped")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"acadesk/internal/config"
	"acadesk/internal/log"
	"acadesk/internal/services"
	"acadesk/internal/storage"
)

// feegen-worker keeps the fee table current: it generates the
// wall-clock month's records once per interval and flips pending
// records from past months to overdue.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     log.DefaultConfig().Level,
		Component: log.ComponentFees,
	})
	log.SetDefault(logger)

	logger.Info("Starting feegen-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	// No publisher: generated records start pending, exports happen on
	// payment through the API server.
	feeService := services.NewFeeService(store, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runPass := func() {
		summary, ran, err := feeService.EnsureCurrentMonth(ctx)
		if err != nil {
			logger.Error("Fee generation failed", "error", err)
		} else if ran {
			logger.Info("Generated fee records",
				"month", summary.Month, "year", summary.Year,
				"created", summary.Created, "skipped", summary.Skipped)
		}

		flipped, err := feeService.MarkOverdue(ctx)
		if err != nil {
			logger.Error("Overdue pass failed", "error", err)
		} else if flipped > 0 {
			logger.Info("Marked records overdue", "count", flipped)
		}
	}

	logger.Info("Fee generation configured",
		"interval", cfg.GenInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	runPass()

	ticker := time.NewTicker(cfg.GenInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Feegen-worker shutdown complete")
			return
		case <-ticker.C:
			runPass()
		}
	}
}

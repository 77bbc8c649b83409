package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"acadesk/internal/amqp"
	"acadesk/internal/auth"
	"acadesk/internal/config"
	"acadesk/internal/httpapi"
	"acadesk/internal/log"
	"acadesk/internal/services"
	"acadesk/internal/storage"
	"acadesk/internal/storage/memstore"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Choose data backend (default: sqlite).
	var store storage.Store
	switch cfg.DataBackend {
	case "memory":
		store = memstore.New()
		logger.Info("Initialized memory backend", "backend", cfg.DataBackend)
	default:
		sqliteStore, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		store = sqliteStore
		logger.Info("Initialized SQLite backend", "backend", cfg.DataBackend, "path", cfg.SQLiteDBPath)
	}
	defer store.Close()

	// AMQP is optional: without it paid records wait for the worker's
	// periodic sweep instead of being exported immediately.
	var publisher services.ExportPublisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, exports rely on the periodic sweep", "error", err)
	} else {
		publisher = amqpClient
		defer amqpClient.Close()
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	feeService := services.NewFeeService(store, publisher)

	// Make sure the wall-clock month has records before serving traffic.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	summary, ran, err := feeService.EnsureCurrentMonth(startupCtx)
	startupCancel()
	if err != nil {
		logger.Error("Startup fee generation failed", "error", err)
		os.Exit(1)
	}
	if ran {
		logger.Info("Generated fee records for current month",
			"month", summary.Month, "year", summary.Year,
			"created", summary.Created, "skipped", summary.Skipped)
	}

	authn := auth.New(cfg.AdminUsername, cfg.AdminPasswordHash, cfg.SessionSecret, cfg.SessionTTL)

	srv := httpapi.NewServer(":"+cfg.Port, store, feeService, authn, httpapi.Options{
		DefaulterLimit:          cfg.DefaulterLimit,
		DefaulterContactVisible: cfg.DefaulterContactVisible,
	})

	// Request-scoped logger for every handler.
	srv.Handler = log.Middleware(logger.WithComponent(log.ComponentHTTP))(srv.Handler)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

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

	logger.Info("Starting acadesk server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

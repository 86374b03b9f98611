package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"spendbook/internal/config"
	"spendbook/internal/currency"
	apphttp "spendbook/internal/http"
	applog "spendbook/internal/log"
	"spendbook/internal/storage"
	"spendbook/internal/tracker"
)

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: slog.LevelInfo, Component: applog.ComponentApp})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err)
		os.Exit(1)
	}

	var kv storage.KV
	switch cfg.DataBackend {
	case "memory":
		kv = storage.NewMemoryKV()
		logger.Info("Initialized memory backend")
	default:
		sqliteKV, err := storage.NewSQLiteKV(cfg.DBPath)
		if err != nil {
			logger.Error("Failed to open database", applog.FieldError, err, "path", cfg.DBPath)
			os.Exit(1)
		}
		kv = sqliteKV
		logger.Info("Initialized sqlite backend", "path", cfg.DBPath)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logger.Error("Closing store failed", applog.FieldError, err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	trk, err := tracker.New(ctx, storage.New(kv))
	if err != nil {
		logger.Error("Failed to load collections", applog.FieldError, err)
		os.Exit(1)
	}

	fmtr, err := currency.NewFormatter(cfg.Currency)
	if err != nil {
		logger.Error("Invalid display currency", applog.FieldError, err, applog.FieldCurrency, cfg.Currency)
		os.Exit(1)
	}

	srv, err := apphttp.NewServer(":"+cfg.Port, trk, fmtr)
	if err != nil {
		logger.Error("Failed to build server", applog.FieldError, err)
		os.Exit(1)
	}
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting spendbook server", "port", cfg.Port, "backend", cfg.DataBackend, applog.FieldCurrency, cfg.Currency)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

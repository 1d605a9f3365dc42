package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_cinema/internal/config"
	"github.com/fjod/go_cinema/internal/simulator"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadSimulator()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	store, err := simulator.NewCatalogStore(cfg.SQLitePath)
	if err != nil {
		logger.Fatal("failed to open catalog store", zap.Error(err))
	}
	defer store.Close()

	if err := store.RunMigrations(cfg.MigrationsDirPath); err != nil {
		logger.Fatal("failed to run catalog migrations", zap.Error(err))
	}
	logger.Info("catalog store ready", zap.String("path", cfg.SQLitePath))

	handler := simulator.NewHandler(store, simulator.NewCardDrivenOutcome(), logger)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("collaborator simulator listening", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down simulator")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	logger.Info("simulator stopped")
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if parsed, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = parsed
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return logger
}

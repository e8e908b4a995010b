package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/deusflow/vnnews/internal/app"
	"github.com/deusflow/vnnews/internal/config"
	"github.com/deusflow/vnnews/internal/logger"
	"github.com/deusflow/vnnews/internal/server"
)

func main() {
	envErr := godotenv.Load()

	if err := run(envErr); err != nil {
		logger.Error("vnnews stopped", "error", err)
		os.Exit(1)
	}
}

func run(envErr error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Configure(os.Stdout, cfg.Debug, cfg.LogFormat)
	if envErr != nil && !os.IsNotExist(envErr) {
		logger.Warn("failed to load .env", "error", envErr)
	}
	logger.Info("configuration loaded", "port", cfg.Port, "providers", cfg.Providers, "region_boost", cfg.RegionBoost)
	logger.Debug("request limits",
		"request_budget", cfg.RequestBudget,
		"provider_timeout", cfg.ProviderTimeout,
		"translate_workers", cfg.TranslateWorkers,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	svc, closeFn, err := app.Build(ctx, cfg, logger.Logger)
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}
	defer closeFn()

	srv := server.New(svc, server.Options{
		BaseURL:        cfg.BaseURL,
		RequestTimeout: cfg.RequestBudget + cfg.ProviderTimeout,
		Usage:          svc.TranslationUsage,
		Logger:         logger.Logger,
	})
	return srv.ListenAndServe(ctx, ":"+cfg.Port)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/drivecreds/internal/api"
	"github.com/mcoot/drivecreds/internal/config"
	"github.com/mcoot/drivecreds/internal/factory"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup always happens
func run() int {
	configPath := flag.String("config", "", "Path to a YAML config file (env: DRIVECREDS_CONFIG)")
	envFile := flag.String("env-file", config.DefaultEnvFile, "Path to a dotenv file")
	flag.Parse()

	cfg, err := config.Load(config.LoadOptions{Path: *configPath, EnvFile: *envFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		return 1
	}

	// Set up logging
	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create application factory
	app, err := factory.New(ctx, cfg.FactoryConfig(logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
	})

	server := api.NewServer(router, cfg.Server, logger)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
		}
	}

	logger.Info("server stopped")
	return 0
}

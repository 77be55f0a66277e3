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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/projectdash/config"
	"github.com/GoSim-25-26J-441/projectdash/internal/bootstrap"
	"github.com/GoSim-25-26J-441/projectdash/internal/logging"
	"github.com/GoSim-25-26J-441/projectdash/internal/projects/repository"
	projectservice "github.com/GoSim-25-26J-441/projectdash/internal/projects/service"
	settingsservice "github.com/GoSim-25-26J-441/projectdash/internal/settings/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.App.LogLevel, cfg.App.LogFormat)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("service", cfg.App.ServiceName), zap.String("env", cfg.App.Environment))

	bootstrap.SetGinMode(cfg.App.Environment)

	coll, closeStore, err := bootstrap.OpenDocStore(ctx, cfg, repository.CollectionName, logger)
	if err != nil {
		return fmt.Errorf("opening document store: %w", err)
	}
	defer closeStore()

	settingsRepo, closeSettings, err := bootstrap.OpenSettingsRepo(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("opening settings store: %w", err)
	}
	defer closeSettings()

	sessions, err := bootstrap.NewSessionResolver(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing sessions: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    cfg.App.ServiceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		Logger:         logger,
		Registry:       reg,
		Sessions:       sessions,
		Projects:       projectservice.NewProjectService(repository.NewProjectRepository(coll), logger),
		Settings:       settingsservice.NewSettingsService(settingsRepo, logger),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr), zap.String("docstore", cfg.DocStore.Driver), zap.String("auth", cfg.Auth.Mode))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

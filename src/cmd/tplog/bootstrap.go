// FILE: tplog/src/cmd/tplog/bootstrap.go
package main

import (
	"context"
	"fmt"
	"time"

	"tplog/src/internal/admin"
	"tplog/src/internal/config"
	"tplog/src/internal/service"
	"tplog/src/internal/version"

	"github.com/lixenwraith/log"
)

// application groups the running components in shutdown order
type application struct {
	registry *service.Registry
	admin    *admin.Server
}

// bootstrapService builds the logger registry and starts its periodic tasks and the admin endpoint
func bootstrapService(ctx context.Context, cfg *config.Config, rotation <-chan struct{}) (*application, error) {
	registry, err := service.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	registry.StartFlushScheduler(time.Duration(cfg.FlushIntervalMs) * time.Millisecond)
	go registry.RunRotationListener(ctx, rotation)

	app := &application{registry: registry}

	if cfg.Admin != nil && cfg.Admin.Enabled {
		srv, err := admin.NewServer(cfg.Admin, registry, logger)
		if err != nil {
			registry.Shutdown()
			return nil, fmt.Errorf("failed to create admin server: %w", err)
		}
		if err := srv.Start(); err != nil {
			registry.Shutdown()
			return nil, err
		}
		app.admin = srv
		Print("Admin endpoint listening on http://%s\n", cfg.Admin.Addr)
	}

	logger.Info("msg", "tplog started",
		"version", version.Short(),
		"loggers", registry.Names(),
		"default_logger", cfg.DefaultLogger,
		"flush_interval_ms", cfg.FlushIntervalMs,
		"admin", app.admin != nil)

	return app, nil
}

// shutdown stops the admin endpoint first so no request races the registry teardown
func (a *application) shutdown() {
	if a.admin != nil {
		logger.Info("msg", "Shutting down admin server...")
		if err := a.admin.Shutdown(); err != nil {
			logger.Warn("msg", "Admin server shutdown failed", "error", err)
		}
	}
	a.registry.Shutdown()
}

// initializeLogger sets up the diagnostics logger from the [logging] config
func initializeLogger(cfg *config.Config) error {
	logger = log.NewLogger()
	logCfg := log.DefaultConfig()

	if cfg.Quiet {
		logCfg.EnableConsole = false
		logCfg.EnableFile = false
		return startLogger(logCfg)
	}

	level, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logCfg.Level = level

	switch cfg.Logging.Output {
	case "none":
		logCfg.EnableConsole = false
		logCfg.EnableFile = false
	case "stdout", "stderr":
		logCfg.EnableConsole = true
		logCfg.ConsoleTarget = cfg.Logging.Output
		logCfg.EnableFile = false
	case "file":
		logCfg.EnableConsole = false
		logCfg.EnableFile = true
		configureFileLogging(logCfg, cfg.Logging)
	case "both":
		logCfg.EnableConsole = true
		logCfg.ConsoleTarget = "stderr"
		logCfg.EnableFile = true
		configureFileLogging(logCfg, cfg.Logging)
	default:
		return fmt.Errorf("invalid log output mode: %s", cfg.Logging.Output)
	}

	if cfg.Logging.Format != "" {
		logCfg.Format = cfg.Logging.Format
	}

	return startLogger(logCfg)
}

func configureFileLogging(logCfg *log.Config, lc *config.LogConfig) {
	if lc.Directory != "" {
		logCfg.Directory = lc.Directory
	}
	if lc.Name != "" {
		logCfg.Name = lc.Name
	}
}

func startLogger(logCfg *log.Config) error {
	if err := logger.ApplyConfig(logCfg); err != nil {
		return fmt.Errorf("failed to apply logger config: %w", err)
	}
	return logger.Start()
}

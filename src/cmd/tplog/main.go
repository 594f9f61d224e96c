// FILE: tplog/src/cmd/tplog/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"tplog/src/cmd/tplog/commands"
	"tplog/src/internal/config"
	"tplog/src/internal/version"

	"github.com/lixenwraith/log"
)

const shutdownTimeout = 10 * time.Second

var logger *log.Logger

func main() {
	// Subcommands run before any daemon initialization
	router := commands.NewCommandRouter()
	handled, err := router.Route(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if handled {
		os.Exit(0)
	}

	flagCfg, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	InitOutputHandler(flagCfg.Quiet)

	if flagCfg.ShowVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if flagCfg.ConfigFile != "" && strings.Contains(err.Error(), "not found") {
			FatalError(2, "Config file not found: %s\n", flagCfg.ConfigFile)
		}
		FatalError(1, "Failed to load config: %v\n", err)
	}

	if err := applyFlagOverrides(cfg, flagCfg); err != nil {
		FatalError(1, "Invalid configuration: %v\n", err)
	}

	if err := initializeLogger(cfg); err != nil {
		FatalError(1, "Failed to initialize logger: %v\n", err)
	}
	defer shutdownLogger()

	logger.Info("msg", "tplog starting",
		"version", version.String(),
		"config_file", flagCfg.ConfigFile,
		"log_output", cfg.Logging.Output,
		"loggers", len(cfg.Loggers))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := NewSignalHandler(logger)
	defer signals.Stop()

	app, err := bootstrapService(ctx, cfg, signals.RotationTrigger())
	if err != nil {
		logger.Error("msg", "Failed to bootstrap service", "error", err)
		Error("Failed to start: %v\n", err)
		shutdownLogger()
		os.Exit(1)
	}

	if enableStatusReporter(cfg) {
		go statusReporter(ctx, app.registry, time.Duration(cfg.StatusIntervalSec)*time.Second)
	}

	sig := signals.Handle(ctx)
	logger.Info("msg", "Shutdown signal received, starting graceful shutdown",
		"signal", fmt.Sprint(sig))

	done := make(chan struct{})
	go func() {
		app.shutdown()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("msg", "Shutdown complete")
	case <-time.After(shutdownTimeout):
		logger.Error("msg", "Shutdown timeout exceeded - forcing exit")
		shutdownLogger()
		os.Exit(1)
	}
}

func shutdownLogger() {
	if logger != nil {
		if err := logger.Shutdown(2 * time.Second); err != nil {
			// Best effort, the logger itself is gone
			Error("Logger shutdown error: %v\n", err)
		}
	}
}

func enableStatusReporter(cfg *config.Config) bool {
	if os.Getenv("TPLOG_DISABLE_STATUS_REPORTER") == "1" {
		return false
	}
	return cfg.StatusIntervalSec > 0
}

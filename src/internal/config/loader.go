// FILE: tplog/src/internal/config/loader.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

const (
	DefaultLoggerName      = "default"
	DefaultTaskProcessor   = "fs-task-processor"
	DefaultQueueSize       = 65536
	DefaultFlushIntervalMs = 2000
)

// DefaultLoggerConfig returns the values a logger entry starts from
func DefaultLoggerConfig(name string) LoggerConfig {
	return LoggerConfig{
		Name:             name,
		FilePath:         "@stderr",
		Level:            "info",
		FlushLevel:       "warning",
		Format:           "tskv",
		MessageQueueSize: DefaultQueueSize,
		OverflowBehavior: "discard",
		BufferSize:       64 * 1024,
	}
}

func defaults() *Config {
	return &Config{
		DefaultLogger:   DefaultLoggerName,
		FSTaskProcessor: DefaultTaskProcessor,
		FlushIntervalMs: DefaultFlushIntervalMs,
		TaskProcessors: []TaskProcessorConfig{
			{Name: DefaultTaskProcessor, WorkerThreads: 4},
		},
		Loggers: []LoggerConfig{
			DefaultLoggerConfig(DefaultLoggerName),
		},
		Admin: &AdminConfig{
			Enabled:           false,
			Addr:              "127.0.0.1:8089",
			RequestsPerSecond: 10,
			Burst:             20,
		},
		Logging:           DefaultLogConfig(),
		StatusIntervalSec: 30,
	}
}

// Defaults returns a ready-to-use configuration with a single stderr logger
func Defaults() *Config {
	return defaults()
}

// Load is the single entry point for loading all configuration
func Load(args []string) (*Config, error) {
	configPath, isExplicit := resolveConfigPath(args)

	cfg, err := lconfig.NewBuilder().
		WithDefaults(defaults()).
		WithEnvPrefix("TPLOG_").
		WithFile(configPath).
		WithArgs(args).
		WithEnvTransform(customEnvTransform).
		WithSources(
			lconfig.SourceCLI,
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		// A missing default config file is fine, a missing explicit one is not
		if !strings.Contains(err.Error(), "not found") || isExplicit {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if cfg == nil {
		return nil, errors.New("failed to load config: no configuration produced")
	}

	finalConfig := &Config{}
	if err := cfg.Scan("", finalConfig); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	applyLoggerDefaults(finalConfig)
	return finalConfig, Validate(finalConfig)
}

// applyLoggerDefaults fills fields a config file left empty on each logger entry
func applyLoggerDefaults(cfg *Config) {
	for i := range cfg.Loggers {
		lc := &cfg.Loggers[i]
		def := DefaultLoggerConfig(lc.Name)
		if lc.FilePath == "" {
			lc.FilePath = def.FilePath
		}
		if lc.Level == "" {
			lc.Level = def.Level
		}
		if lc.FlushLevel == "" {
			lc.FlushLevel = def.FlushLevel
		}
		if lc.Format == "" {
			lc.Format = def.Format
		}
		if lc.MessageQueueSize == 0 {
			lc.MessageQueueSize = def.MessageQueueSize
		}
		if lc.OverflowBehavior == "" {
			lc.OverflowBehavior = def.OverflowBehavior
		}
		if lc.BufferSize == 0 {
			lc.BufferSize = def.BufferSize
		}
	}
	if cfg.Logging == nil {
		cfg.Logging = DefaultLogConfig()
	}
	if cfg.Admin == nil {
		cfg.Admin = defaults().Admin
	}
}

func resolveConfigPath(args []string) (path string, isExplicit bool) {
	// CLI flag takes precedence
	for i, arg := range args {
		if arg == "-config" || arg == "--config" {
			if i+1 < len(args) {
				return args[i+1], true
			}
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config="), true
		}
		if strings.HasPrefix(arg, "-config=") {
			return strings.TrimPrefix(arg, "-config="), true
		}
	}

	if configFile := os.Getenv("TPLOG_CONFIG_FILE"); configFile != "" {
		if filepath.IsAbs(configFile) {
			return configFile, true
		}
		if configDir := os.Getenv("TPLOG_CONFIG_DIR"); configDir != "" {
			return filepath.Join(configDir, configFile), true
		}
		return configFile, true
	}

	if configDir := os.Getenv("TPLOG_CONFIG_DIR"); configDir != "" {
		return filepath.Join(configDir, "tplog.toml"), false
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "tplog.toml"), false
	}

	return "tplog.toml", false
}

func customEnvTransform(path string) string {
	env := strings.ReplaceAll(path, ".", "_")
	env = strings.ToUpper(env)
	env = "TPLOG_" + env
	return env
}

// FILE: tplog/src/cmd/tplog/flags.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"tplog/src/internal/config"

	"github.com/lixenwraith/log"
)

// FlagConfig holds the daemon command-line options
type FlagConfig struct {
	ConfigFile  string
	ShowVersion bool
	Quiet       bool
	LogLevel    string
	LogOutput   string
}

var validOutputs = map[string]bool{
	"file": true, "stdout": true, "stderr": true,
	"both": true, "none": true,
}

func customUsage(fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "tplog - asynchronous log delivery daemon\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [command] [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nRun '%s help' for commands, signals and environment variables\n", os.Args[0])
	}
}

func parseFlags() (*FlagConfig, error) {
	return parseFlagArgs(os.Args[1:])
}

func parseFlagArgs(args []string) (*FlagConfig, error) {
	fc := &FlagConfig{}

	fs := flag.NewFlagSet("tplog", flag.ContinueOnError)
	fs.StringVar(&fc.ConfigFile, "config", "", "Config file path")
	fs.BoolVar(&fc.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&fc.Quiet, "quiet", false, "Suppress all console output")
	fs.StringVar(&fc.LogLevel, "log-level", "", "Diagnostics level: debug, info, warn, error (overrides config)")
	fs.StringVar(&fc.LogOutput, "log-output", "", "Diagnostics output: file, stdout, stderr, both, none (overrides config)")
	fs.Usage = customUsage(fs)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fc.LogOutput != "" && !validOutputs[fc.LogOutput] {
		return nil, fmt.Errorf("invalid log-output: %s (valid: file, stdout, stderr, both, none)", fc.LogOutput)
	}

	if fc.LogLevel != "" {
		if _, err := parseLogLevel(fc.LogLevel); err != nil {
			return nil, fmt.Errorf("invalid log-level: %s (valid: debug, info, warn, error)", fc.LogLevel)
		}
	}

	return fc, nil
}

// applyFlagOverrides copies command-line settings onto the loaded config and revalidates it
func applyFlagOverrides(cfg *config.Config, fc *FlagConfig) error {
	cfg.Quiet = fc.Quiet
	cfg.ShowVersion = fc.ShowVersion

	if cfg.Logging == nil {
		cfg.Logging = config.DefaultLogConfig()
	}
	if fc.LogLevel != "" {
		level := strings.ToLower(fc.LogLevel)
		if level == "warning" {
			level = "warn"
		}
		cfg.Logging.Level = level
	}
	if fc.LogOutput != "" {
		cfg.Logging.Output = fc.LogOutput
	}

	return config.Validate(cfg)
}

func parseLogLevel(level string) (int64, error) {
	switch strings.ToLower(level) {
	case "debug":
		return log.LevelDebug, nil
	case "info":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}

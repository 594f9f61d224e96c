// FILE: tplog/src/internal/config/validation.go
package config

import (
	"fmt"
	"net"
	"strings"

	"tplog/src/internal/core"
	"tplog/src/internal/format"
	"tplog/src/internal/queue"
	"tplog/src/internal/sink"

	lconfig "github.com/lixenwraith/config"
)

// Validate is the centralized validator for the entire configuration
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if len(cfg.Loggers) == 0 {
		return fmt.Errorf("no loggers configured")
	}

	if cfg.Logging != nil {
		if err := validateLogConfig(cfg.Logging); err != nil {
			return fmt.Errorf("logging config: %w", err)
		}
	}

	if cfg.FlushIntervalMs <= 0 {
		return fmt.Errorf("flush_interval_ms must be positive: %d", cfg.FlushIntervalMs)
	}

	processors, err := validateTaskProcessors(cfg.TaskProcessors)
	if err != nil {
		return err
	}
	if _, ok := processors[cfg.FSTaskProcessor]; !ok {
		return fmt.Errorf("fs_task_processor '%s' is not a configured task processor", cfg.FSTaskProcessor)
	}

	if !hasLogger(cfg, cfg.DefaultLogger) {
		return fmt.Errorf("default logger '%s' is not configured", cfg.DefaultLogger)
	}

	loggerNames := make(map[string]bool)
	consumers := make(map[string]int64)
	for i := range cfg.Loggers {
		lc := &cfg.Loggers[i]
		if err := validateLogger(i, lc, lc.Name == cfg.DefaultLogger, loggerNames); err != nil {
			return err
		}

		proc := cfg.ConsumerProcessor(lc)
		if _, ok := processors[proc]; !ok {
			return fmt.Errorf("logger '%s': task processor '%s' is not configured", lc.Name, proc)
		}
		consumers[proc]++
	}

	// Every consumer pins a worker for its lifetime; reopen tasks need at least one more
	for name, n := range consumers {
		if processors[name] <= n {
			return fmt.Errorf("task processor '%s': worker_threads %d must exceed the %d logger consumers assigned to it",
				name, processors[name], n)
		}
	}

	if cfg.Admin != nil && cfg.Admin.Enabled {
		if err := validateAdmin(cfg.Admin); err != nil {
			return fmt.Errorf("admin: %w", err)
		}
	}

	return nil
}

func hasLogger(cfg *Config, name string) bool {
	_, ok := cfg.FindLogger(name)
	return ok
}

func validateTaskProcessors(tps []TaskProcessorConfig) (map[string]int64, error) {
	processors := make(map[string]int64, len(tps))
	for i, tp := range tps {
		if err := lconfig.NonEmpty(tp.Name); err != nil {
			return nil, fmt.Errorf("task processor %d: missing name", i)
		}
		if _, dup := processors[tp.Name]; dup {
			return nil, fmt.Errorf("task processor %d: duplicate name '%s'", i, tp.Name)
		}
		if tp.WorkerThreads <= 0 {
			return nil, fmt.Errorf("task processor '%s': worker_threads must be positive", tp.Name)
		}
		processors[tp.Name] = tp.WorkerThreads
	}
	return processors, nil
}

func validateLogger(index int, lc *LoggerConfig, isDefault bool, names map[string]bool) error {
	if err := lconfig.NonEmpty(lc.Name); err != nil {
		return fmt.Errorf("logger %d: missing name", index)
	}
	if names[lc.Name] {
		return fmt.Errorf("duplicate logger '%s'", lc.Name)
	}
	names[lc.Name] = true

	if err := lconfig.NonEmpty(lc.FilePath); err != nil {
		return fmt.Errorf("logger '%s': missing file_path", lc.Name)
	}
	if strings.HasPrefix(lc.FilePath, sink.UnixPathPrefix) && strings.TrimPrefix(lc.FilePath, sink.UnixPathPrefix) == "" {
		return fmt.Errorf("logger '%s': unix socket path is empty", lc.Name)
	}

	if _, err := core.ParseLevel(lc.Level); err != nil {
		return fmt.Errorf("logger '%s': %w", lc.Name, err)
	}
	if _, err := core.ParseLevel(lc.FlushLevel); err != nil {
		return fmt.Errorf("logger '%s': flush_level: %w", lc.Name, err)
	}

	if !validFormat(lc.Format) {
		return fmt.Errorf("logger '%s': invalid format '%s' (valid: %s)",
			lc.Name, lc.Format, strings.Join(format.Names(), ", "))
	}

	if !queue.IsPowerOfTwo(int(lc.MessageQueueSize)) {
		return fmt.Errorf("logger '%s': message_queue_size must be a power of two, got %d", lc.Name, lc.MessageQueueSize)
	}

	overflow, err := core.ParseOverflowBehavior(lc.OverflowBehavior)
	if err != nil {
		return fmt.Errorf("logger '%s': %w", lc.Name, err)
	}
	if isDefault && overflow == core.OverflowBlock {
		return fmt.Errorf("logger '%s': 'default' logger should not be set to 'overflow_behavior: block'! "+
			"Default logger is used by the internal failure reporting, blocking it may deadlock the service. "+
			"Use a separate logger with 'block' for messages that must not be lost", lc.Name)
	}

	if lc.BufferSize < 0 {
		return fmt.Errorf("logger '%s': buffer_size must not be negative", lc.Name)
	}

	if lc.TestsuiteCapture != nil {
		if !isDefault {
			return fmt.Errorf("logger '%s': testsuite capture can only be set up for the default logger", lc.Name)
		}
		if err := lconfig.NonEmpty(lc.TestsuiteCapture.Host); err != nil {
			return fmt.Errorf("logger '%s': testsuite_capture requires 'host'", lc.Name)
		}
		if err := lconfig.Port(lc.TestsuiteCapture.Port); err != nil {
			return fmt.Errorf("logger '%s': testsuite_capture: %w", lc.Name, err)
		}
	}

	return nil
}

func validFormat(name string) bool {
	for _, f := range format.Names() {
		if f == name {
			return true
		}
	}
	return false
}

func validateAdmin(cfg *AdminConfig) error {
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return fmt.Errorf("invalid addr '%s': %w", cfg.Addr, err)
	}
	if cfg.RequestsPerSecond < 0 || cfg.Burst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}
	if cfg.RequestsPerSecond > 0 && cfg.Burst == 0 {
		return fmt.Errorf("burst must be positive when requests_per_second is set")
	}
	return nil
}

// FILE: tplog/src/internal/config/config.go
package config

// Config is the full daemon configuration
type Config struct {
	// Logger installed as the process-wide default
	DefaultLogger string `toml:"default_logger"`

	// Task processor for reopen tasks and, unless overridden, logger consumers
	FSTaskProcessor string `toml:"fs_task_processor"`

	// Period of the flush scheduler
	FlushIntervalMs int64 `toml:"flush_interval_ms"`

	TaskProcessors []TaskProcessorConfig `toml:"task_processors"`
	Loggers        []LoggerConfig        `toml:"loggers"`

	Admin   *AdminConfig `toml:"admin"`
	Logging *LogConfig   `toml:"logging"`

	// Periodic statistics dump through the diagnostics logger
	StatusIntervalSec int64 `toml:"status_interval_sec"`

	// Runtime flags, not saved
	Quiet       bool `toml:"-"`
	ShowVersion bool `toml:"-"`
}

// TaskProcessorConfig names a worker pool
type TaskProcessorConfig struct {
	Name          string `toml:"name"`
	WorkerThreads int64  `toml:"worker_threads"`
}

// LoggerConfig describes one logger engine
type LoggerConfig struct {
	Name string `toml:"name"`

	// "@null", "@stderr", "@stdout", "unix:<socket>" or a file path
	FilePath string `toml:"file_path"`

	// trace, debug, info, warning, error, critical, none
	Level      string `toml:"level"`
	FlushLevel string `toml:"flush_level"`

	// tskv, ltsv, raw, txt, json
	Format string `toml:"format"`

	// Must be a power of two
	MessageQueueSize int64 `toml:"message_queue_size"`

	// discard or block, block is rejected on the default logger
	OverflowBehavior string `toml:"overflow_behavior"`

	// Optional per-logger consumer executor, falls back to the global fs_task_processor
	FSTaskProcessor string `toml:"fs_task_processor"`

	// File sink write buffer in bytes
	BufferSize int64 `toml:"buffer_size"`

	// Extra TCP sink for test observation, default logger only
	TestsuiteCapture *CaptureConfig `toml:"testsuite_capture"`
}

// CaptureConfig is the testsuite capture socket target
type CaptureConfig struct {
	Host string `toml:"host"`
	Port int64  `toml:"port"`
}

// AdminConfig configures the HTTP control endpoint
type AdminConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`

	// HS256 secret, empty disables authentication
	JWTSecret string `toml:"jwt_secret"`

	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int64   `toml:"burst"`
}

// ConsumerProcessor returns the task processor running this logger's consumer
func (c *Config) ConsumerProcessor(lc *LoggerConfig) string {
	if lc.FSTaskProcessor != "" {
		return lc.FSTaskProcessor
	}
	return c.FSTaskProcessor
}

// FindLogger returns the logger config named name
func (c *Config) FindLogger(name string) (*LoggerConfig, bool) {
	for i := range c.Loggers {
		if c.Loggers[i].Name == name {
			return &c.Loggers[i], true
		}
	}
	return nil, false
}

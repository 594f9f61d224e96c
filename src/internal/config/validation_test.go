// FILE: tplog/src/internal/config/validation_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := Defaults()
	other := DefaultLoggerConfig("access")
	other.FilePath = "/var/log/app/access.log"
	other.OverflowBehavior = "block"
	cfg.Loggers = append(cfg.Loggers, other)
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	require.NoError(t, Validate(Defaults()))
	require.NoError(t, Validate(validConfig()))
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "NoLoggers",
			mutate:  func(c *Config) { c.Loggers = nil },
			wantErr: "no loggers configured",
		},
		{
			name: "DuplicateLogger",
			mutate: func(c *Config) {
				c.Loggers = append(c.Loggers, DefaultLoggerConfig("access"))
			},
			wantErr: "duplicate logger 'access'",
		},
		{
			name:    "EmptyName",
			mutate:  func(c *Config) { c.Loggers[1].Name = "" },
			wantErr: "missing name",
		},
		{
			name:    "BadLevel",
			mutate:  func(c *Config) { c.Loggers[1].Level = "loud" },
			wantErr: "unknown log level",
		},
		{
			name:    "BadFlushLevel",
			mutate:  func(c *Config) { c.Loggers[1].FlushLevel = "sometimes" },
			wantErr: "flush_level",
		},
		{
			name:    "BadFormat",
			mutate:  func(c *Config) { c.Loggers[1].Format = "xml" },
			wantErr: "invalid format 'xml'",
		},
		{
			name:    "QueueNotPowerOfTwo",
			mutate:  func(c *Config) { c.Loggers[1].MessageQueueSize = 1000 },
			wantErr: "power of two",
		},
		{
			name:    "BadOverflow",
			mutate:  func(c *Config) { c.Loggers[1].OverflowBehavior = "wait" },
			wantErr: "invalid overflow_behavior",
		},
		{
			name:    "DefaultLoggerBlock",
			mutate:  func(c *Config) { c.Loggers[0].OverflowBehavior = "block" },
			wantErr: "'default' logger should not be set to 'overflow_behavior: block'",
		},
		{
			name: "CaptureOnNonDefault",
			mutate: func(c *Config) {
				c.Loggers[1].TestsuiteCapture = &CaptureConfig{Host: "localhost", Port: 9999}
			},
			wantErr: "testsuite capture can only be set up for the default logger",
		},
		{
			name: "CaptureMissingHost",
			mutate: func(c *Config) {
				c.Loggers[0].TestsuiteCapture = &CaptureConfig{Port: 9999}
			},
			wantErr: "requires 'host'",
		},
		{
			name:    "EmptyUnixPath",
			mutate:  func(c *Config) { c.Loggers[1].FilePath = "unix:" },
			wantErr: "unix socket path is empty",
		},
		{
			name:    "MissingDefault",
			mutate:  func(c *Config) { c.DefaultLogger = "main" },
			wantErr: "default logger 'main' is not configured",
		},
		{
			name:    "UnknownFSProcessor",
			mutate:  func(c *Config) { c.FSTaskProcessor = "io" },
			wantErr: "fs_task_processor 'io'",
		},
		{
			name:    "UnknownLoggerProcessor",
			mutate:  func(c *Config) { c.Loggers[1].FSTaskProcessor = "io" },
			wantErr: "task processor 'io' is not configured",
		},
		{
			name:    "TooFewWorkers",
			mutate:  func(c *Config) { c.TaskProcessors[0].WorkerThreads = 2 },
			wantErr: "must exceed the 2 logger consumers",
		},
		{
			name:    "ZeroFlushInterval",
			mutate:  func(c *Config) { c.FlushIntervalMs = 0 },
			wantErr: "flush_interval_ms",
		},
		{
			name: "AdminBadAddr",
			mutate: func(c *Config) {
				c.Admin.Enabled = true
				c.Admin.Addr = "no-port"
			},
			wantErr: "invalid addr",
		},
		{
			name:    "BadDiagnosticsLevel",
			mutate:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: "logging config",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidate_CaptureOnDefault(t *testing.T) {
	cfg := validConfig()
	cfg.Loggers[0].TestsuiteCapture = &CaptureConfig{Host: "localhost", Port: 9999}
	assert.NoError(t, Validate(cfg))
}

func TestConsumerProcessor(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, DefaultTaskProcessor, cfg.ConsumerProcessor(&cfg.Loggers[0]))

	cfg.Loggers[1].FSTaskProcessor = "dedicated"
	assert.Equal(t, "dedicated", cfg.ConsumerProcessor(&cfg.Loggers[1]))
}

func TestApplyLoggerDefaults(t *testing.T) {
	cfg := &Config{Loggers: []LoggerConfig{{Name: "sparse"}}}
	applyLoggerDefaults(cfg)

	lc := cfg.Loggers[0]
	assert.Equal(t, "@stderr", lc.FilePath)
	assert.Equal(t, "info", lc.Level)
	assert.Equal(t, "warning", lc.FlushLevel)
	assert.Equal(t, "tskv", lc.Format)
	assert.Equal(t, int64(DefaultQueueSize), lc.MessageQueueSize)
	assert.Equal(t, "discard", lc.OverflowBehavior)
	assert.NotNil(t, cfg.Logging)
	assert.NotNil(t, cfg.Admin)
}

func TestResolveConfigPath(t *testing.T) {
	path, explicit := resolveConfigPath([]string{"-config", "/etc/tplog.toml"})
	assert.Equal(t, "/etc/tplog.toml", path)
	assert.True(t, explicit)

	path, explicit = resolveConfigPath([]string{"--config=/tmp/x.toml"})
	assert.Equal(t, "/tmp/x.toml", path)
	assert.True(t, explicit)

	t.Setenv("TPLOG_CONFIG_FILE", "")
	t.Setenv("TPLOG_CONFIG_DIR", "/opt/tplog")
	path, explicit = resolveConfigPath(nil)
	assert.Equal(t, "/opt/tplog/tplog.toml", path)
	assert.False(t, explicit)

	t.Setenv("TPLOG_CONFIG_FILE", "custom.toml")
	path, explicit = resolveConfigPath(nil)
	assert.Equal(t, "/opt/tplog/custom.toml", path)
	assert.True(t, explicit)
}

func TestCustomEnvTransform(t *testing.T) {
	assert.Equal(t, "TPLOG_ADMIN_JWT_SECRET", customEnvTransform("admin.jwt_secret"))
}

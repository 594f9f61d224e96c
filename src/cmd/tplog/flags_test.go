// FILE: tplog/src/cmd/tplog/flags_test.go
package main

import (
	"testing"

	"tplog/src/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlagArgs(t *testing.T) {
	fc, err := parseFlagArgs([]string{"-config", "/etc/tplog.toml", "-quiet", "-log-level", "warning", "-log-output", "both"})
	require.NoError(t, err)
	assert.Equal(t, "/etc/tplog.toml", fc.ConfigFile)
	assert.True(t, fc.Quiet)
	assert.Equal(t, "warning", fc.LogLevel)
	assert.Equal(t, "both", fc.LogOutput)

	_, err = parseFlagArgs([]string{"-log-output", "syslog"})
	assert.ErrorContains(t, err, "invalid log-output")

	_, err = parseFlagArgs([]string{"-log-level", "trace"})
	assert.ErrorContains(t, err, "invalid log-level")
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := config.Defaults()
	require.NoError(t, applyFlagOverrides(cfg, &FlagConfig{LogLevel: "WARNING", LogOutput: "none", Quiet: true}))

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "none", cfg.Logging.Output)
	assert.True(t, cfg.Quiet)
}

// FILE: tplog/src/internal/config/saver.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

// SaveToFile writes c as TOML to path, creating the parent directory.
// An existing file is only replaced when overwrite is set.
func (c *Config) SaveToFile(path string, overwrite bool) error {
	if path == "" {
		return fmt.Errorf("cannot save config: path is empty")
	}

	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("cannot save config: '%s' already exists", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("cannot save config: %w", err)
	}

	lcfg, err := lconfig.NewBuilder().
		WithFile(path).
		WithTarget(c).
		WithFileFormat("toml").
		Build()
	// The target file usually does not exist yet
	if err != nil && (lcfg == nil || !strings.Contains(err.Error(), "not found")) {
		return fmt.Errorf("failed to create config builder: %w", err)
	}

	if err := lcfg.Save(path); err != nil {
		return fmt.Errorf("failed to save config to '%s': %w", path, err)
	}
	return nil
}

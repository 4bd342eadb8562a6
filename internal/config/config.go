// Package config provides functions for loading and saving ci-bot configuration files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alan/ci-bot/cmd"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads the configuration from the specified file. Keys missing from
// the file keep their defaults, and a missing file yields the defaults.
func LoadConfig(filename string) (*cmd.Config, error) {
	config := cmd.DefaultConfig()

	data, err := os.ReadFile(filename) //nolint:gosec // Config filename is from command-line flag
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("Config file not found, using defaults", "file", filename)
		return &config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}

	return &config, nil
}

// SaveConfig saves the configuration to the specified file
func SaveConfig(filename string, config *cmd.Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

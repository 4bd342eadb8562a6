// Package cmd defines the ci-bot configuration shared by the subcommands.
package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/alan/ci-bot/internal/slash"
)

// DefaultConfigFile is where the bot looks for its configuration in a repository
const DefaultConfigFile = ".github/ci-bot.yaml"

// DefaultRetryableKey holds the workflow allow-list used by repositories without their own entry
const DefaultRetryableKey = "default"

// Config represents the structure of ci-bot.yaml
type Config struct {
	Enabled              bool                `yaml:"enabled"`
	AdminUsers           []string            `yaml:"admin_users,omitempty"`
	AutoRetry            bool                `yaml:"auto_retry"`
	MaxAutoRetryAttempts int                 `yaml:"max_auto_retry_attempts"`
	AdminOnlyCommands    []string            `yaml:"admin_only_commands,omitempty"`
	RetryableWorkflows   map[string][]string `yaml:"retryable_workflows,omitempty"` // "default" or owner/repo -> workflow names
	CallTimeout          time.Duration       `yaml:"call_timeout"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() Config {
	return Config{
		Enabled:              true,
		AutoRetry:            false,
		MaxAutoRetryAttempts: 1,
		CallTimeout:          30 * time.Second,
	}
}

// Validate checks the configuration for values the bot cannot run with
func (c *Config) Validate() error {
	if c.MaxAutoRetryAttempts < 0 {
		return fmt.Errorf("max_auto_retry_attempts must not be negative, got %d", c.MaxAutoRetryAttempts)
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("call_timeout must be positive, got %s", c.CallTimeout)
	}
	for _, command := range c.AdminOnlyCommands {
		if !slash.IsWord(command) {
			return fmt.Errorf("unknown command %q in admin_only_commands", command)
		}
	}
	for _, user := range c.AdminUsers {
		if strings.TrimSpace(user) == "" {
			return fmt.Errorf("admin_users must not contain empty names")
		}
	}
	return nil
}

// RetryableFor returns the workflow allow-list for owner/repo, falling back to
// the default entry. An empty result allows every workflow.
func (c *Config) RetryableFor(fullName string) []string {
	for key, names := range c.RetryableWorkflows {
		if strings.EqualFold(key, fullName) {
			return names
		}
	}
	return c.RetryableWorkflows[DefaultRetryableKey]
}

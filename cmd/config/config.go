// Package config implements the config command for initializing and updating the ci-bot configuration.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alan/ci-bot/cmd"
	"github.com/alan/ci-bot/internal/commands"
	internalconfig "github.com/alan/ci-bot/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configOptions holds the flag values of the config command
type configOptions struct {
	repository        string
	adminUsers        []string
	workflows         []string
	adminOnlyCommands []string
	autoRetry         bool
	maxAttempts       int
	show              bool
}

// NewConfigCmd creates and returns the config command
func NewConfigCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error), saveConfig func(string, *cmd.Config) error) *cobra.Command {
	opts := &configOptions{}

	cobraCmd := &cobra.Command{
		Use:   "config",
		Short: "Initialize or update the ci-bot configuration file",
		Long: `Config creates or updates the ci-bot configuration file (.github/ci-bot.yaml by default).

Retryable workflows are stored for the repository given with --repo. When run
from a git repository it is detected from the remote origin, and without either
the list becomes the default for every repository.

Use --show to print the effective configuration without changing it.`,
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			if opts.show {
				return runShow(cobraCmd.OutOrStdout(), *globalConfigFile, loadConfig)
			}
			return runConfig(cobraCmd, *globalConfigFile, opts, loadConfig, saveConfig)
		},
	}

	addConfigFlags(cobraCmd, opts)
	return cobraCmd
}

// addConfigFlags adds all flags to the config command
func addConfigFlags(cobraCmd *cobra.Command, opts *configOptions) {
	cobraCmd.Flags().StringVarP(&opts.repository, "repo", "r", "", "Repository (owner/repo) the workflow list applies to (auto-detected from git if available)")
	cobraCmd.Flags().StringSliceVarP(&opts.adminUsers, "admin", "a", nil, "Bot admin login (repeatable)")
	cobraCmd.Flags().StringSliceVarP(&opts.workflows, "workflows", "w", nil, "Workflow names that may be retried (empty allows all)")
	cobraCmd.Flags().StringSliceVar(&opts.adminOnlyCommands, "admin-only", nil, "Command words only bot admins may run (retry, test, status, help)")
	cobraCmd.Flags().BoolVar(&opts.autoRetry, "auto-retry", false, "Re-run failed workflows automatically")
	cobraCmd.Flags().IntVar(&opts.maxAttempts, "max-attempts", 0, "Maximum automatic retries per run")
	cobraCmd.Flags().BoolVar(&opts.show, "show", false, "Print the effective configuration")
}

// runConfig merges the provided flags into the configuration and saves it
func runConfig(cobraCmd *cobra.Command, configFile string, opts *configOptions, loadConfig func(string) (*cmd.Config, error), saveConfig func(string, *cmd.Config) error) error {
	config, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load existing configuration: %w", err)
	}
	isUpdate := fileExists(configFile)

	flags := cobraCmd.Flags()
	if flags.Changed("admin") {
		config.AdminUsers = opts.adminUsers
	}
	if flags.Changed("admin-only") {
		config.AdminOnlyCommands = opts.adminOnlyCommands
	}
	if flags.Changed("auto-retry") {
		config.AutoRetry = opts.autoRetry
	}
	if flags.Changed("max-attempts") {
		config.MaxAutoRetryAttempts = opts.maxAttempts
	}
	if flags.Changed("workflows") {
		key := resolveWorkflowKey(opts.repository)
		if config.RetryableWorkflows == nil {
			config.RetryableWorkflows = make(map[string][]string)
		}
		config.RetryableWorkflows[key] = opts.workflows
		slog.Info("Updated retryable workflows", "repository", key, "workflows", strings.Join(opts.workflows, ","))
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := saveConfig(configFile, config); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	displayConfigSuccess(cobraCmd.OutOrStdout(), configFile, config, isUpdate)
	return nil
}

// resolveWorkflowKey picks the retryable_workflows entry to write
func resolveWorkflowKey(repository string) string {
	if repository != "" {
		return repository
	}

	if owner, repo, err := commands.DetectRepository(&internalconfig.Environment{}); err == nil {
		slog.Info("Auto-detected repository", "repo", owner+"/"+repo)
		return owner + "/" + repo
	}
	return cmd.DefaultRetryableKey
}

// runShow prints the effective configuration as YAML
func runShow(w io.Writer, configFile string, loadConfig func(string) (*cmd.Config, error)) error {
	config, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	fmt.Fprintf(w, "# %s\n%s", configFile, data)
	return nil
}

// displayConfigSuccess shows the configuration success message
func displayConfigSuccess(w io.Writer, configFile string, config *cmd.Config, isUpdate bool) {
	action := "initialized"
	if isUpdate {
		action = "updated"
	}

	fmt.Fprintf(w, "✅ Configuration %s in %s\n", action, configFile)
	fmt.Fprintf(w, "  Enabled: %t\n", config.Enabled)
	if len(config.AdminUsers) > 0 {
		fmt.Fprintf(w, "  Admins: %s\n", strings.Join(config.AdminUsers, ", "))
	}
	fmt.Fprintf(w, "  Auto-retry: %t (max %d)\n", config.AutoRetry, config.MaxAutoRetryAttempts)
	for key, workflows := range config.RetryableWorkflows {
		fmt.Fprintf(w, "  Retryable workflows (%s): %s\n", key, strings.Join(workflows, ", "))
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// package main is the entry point for the ci-bot tool
package main

import (
	"log/slog"
	"os"

	"github.com/alan/ci-bot/cmd"
	configcmd "github.com/alan/ci-bot/cmd/config"
	"github.com/alan/ci-bot/cmd/handle"
	"github.com/alan/ci-bot/cmd/retry"
	"github.com/alan/ci-bot/cmd/status"
	"github.com/alan/ci-bot/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	var configFile string
	var logLevel string
	var logFormat string

	rootCmd := &cobra.Command{
		Use:   "ci-bot",
		Short: "A GitHub Actions bot that re-runs workflows from pull request comments",
		Long: `ci-bot runs inside a GitHub Actions workflow and answers /retry, /test,
/status and /help comments on pull requests. It can also keep a summary comment
up to date and re-run failed workflows automatically.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogger(logLevel, logFormat)
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", cmd.DefaultConfigFile, "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&logFormat, "log-format", "f", "text", "Log format (text, json)")

	// Create commands with access to the global config file
	rootCmd.AddCommand(handle.NewHandleCmd(&configFile, config.LoadConfig))
	rootCmd.AddCommand(status.NewStatusCmd(&configFile, config.LoadConfig))
	rootCmd.AddCommand(retry.NewRetryCmd(&configFile, config.LoadConfig))
	rootCmd.AddCommand(configcmd.NewConfigCmd(&configFile, config.LoadConfig, config.SaveConfig))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger(level, format string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	// stdout carries reports
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	}

	slog.SetDefault(slog.New(handler))
}

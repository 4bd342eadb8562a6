// Package handle implements the handle command, the entry point the GitHub Actions workflow runs for each event.
package handle

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alan/ci-bot/cmd"
	"github.com/alan/ci-bot/internal/bot"
	"github.com/alan/ci-bot/internal/commands"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// HandleCommand encapsulates the handle command
type HandleCommand struct {
	commands.BaseCommand
	EventName string
	EventPath string
}

// NewHandleCmd creates the handle command
func NewHandleCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	handleCmd := &HandleCommand{}

	builder := &commands.CommandBuilder{
		Use:   "handle",
		Short: "Handle the GitHub event that triggered the workflow",
		Long: `Handle reads the event named by GITHUB_EVENT_NAME from the payload at
GITHUB_EVENT_PATH and reacts to it:

  issue_comment  runs a /retry, /test, /status or /help command
  pull_request   creates or refreshes the PR summary comment
  workflow_run   re-runs a failed workflow when auto_retry is enabled

Other events are ignored.`,
		MinArgs: 0,
		MaxArgs: 0,
		ExampleUsage: []string{
			"ci-bot handle",
			"ci-bot handle --event-name issue_comment --event-path event.json",
		},
	}

	cobraCmd := builder.BuildCommand(func(cobraCmd *cobra.Command, _ []string) error {
		handleCmd.ConfigFile = globalConfigFile
		handleCmd.LoadConfig = loadConfig
		if err := handleCmd.Init(); err != nil {
			return err
		}
		if handleCmd.EventName == "" {
			handleCmd.EventName = handleCmd.Env.EventName
		}
		if handleCmd.EventPath == "" {
			handleCmd.EventPath = handleCmd.Env.EventPath
		}

		payload, err := handleCmd.readPayload()
		if err != nil {
			return err
		}

		outcome, err := handleCmd.Run(cobraCmd.Context(), handleCmd.GitHubClient, payload)
		if err != nil {
			return err
		}
		fmt.Fprintf(cobraCmd.OutOrStdout(), "%s: %s\n", handleCmd.EventName, outcome)
		return nil
	})

	cobraCmd.Flags().StringVar(&handleCmd.EventName, "event-name", "", "Event name (defaults to GITHUB_EVENT_NAME)")
	cobraCmd.Flags().StringVar(&handleCmd.EventPath, "event-path", "", "Path to the event payload (defaults to GITHUB_EVENT_PATH)")

	return cobraCmd
}

func (hc *HandleCommand) readPayload() ([]byte, error) {
	if hc.EventName == "" {
		return nil, fmt.Errorf("event name is required (set GITHUB_EVENT_NAME or --event-name)")
	}
	if hc.EventPath == "" {
		return nil, fmt.Errorf("event payload path is required (set GITHUB_EVENT_PATH or --event-path)")
	}

	payload, err := os.ReadFile(hc.EventPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload: %w", err)
	}
	return payload, nil
}

// Run parses the payload and hands the event to the controller
func (hc *HandleCommand) Run(ctx context.Context, api bot.API, payload []byte) (bot.Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := slog.Default().With("invocation_id", uuid.NewString(), "event", hc.EventName)
	previous := slog.Default()
	slog.SetDefault(logger)
	defer slog.SetDefault(previous)

	event, err := bot.ParseEvent(hc.EventName, payload)
	if err != nil {
		return "", err
	}

	fullName := hc.FullName()
	if event.Owner != "" && event.Repo != "" {
		fullName = event.Owner + "/" + event.Repo
	}

	controller := bot.New(api, commands.BotSettings(hc.Config, fullName))
	outcome, err := controller.HandleEvent(ctx, event)
	if err != nil {
		slog.Error("Failed to handle event", "outcome", outcome, "error", err)
		return outcome, err
	}

	slog.Info("Handled event", "outcome", outcome, "pr", event.Number)
	return outcome, nil
}

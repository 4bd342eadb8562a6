// Package retry implements the retry command for re-running workflows of a pull request from the command line.
package retry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alan/ci-bot/cmd"
	"github.com/alan/ci-bot/internal/commands"
	"github.com/alan/ci-bot/internal/github"
	"github.com/alan/ci-bot/internal/report"
	"github.com/alan/ci-bot/internal/retry"
	"github.com/alan/ci-bot/internal/slash"
	"github.com/spf13/cobra"
)

// retryAPI is the GitHub surface the retry command uses
type retryAPI interface {
	retry.RunLister
	retry.Rerunner
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequestContext, error)
	PostComment(ctx context.Context, owner, repo string, number int, body string) error
}

// RetryCommand encapsulates the retry command with common functionality
type RetryCommand struct {
	commands.BaseCommand
	PRNumber int
	Command  slash.Command
	Comment  bool
}

// NewRetryCmd creates the retry command
func NewRetryCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	retryCmd := &RetryCommand{}
	var all bool

	builder := &commands.CommandBuilder{
		Use:   "retry <pr-number> [workflow]",
		Short: "Re-run workflows of a pull request",
		Long: `Re-run workflows on the head commit of a pull request, the same way the
bot handles /retry and /test comments.

Without a workflow name only failed runs are re-run. --all re-runs every
retryable workflow. --comment posts the report on the pull request.`,
		MinArgs: 1,
		MaxArgs: 2,
		ExampleUsage: []string{
			"ci-bot retry 123                # Re-run failed workflows of PR #123",
			"ci-bot retry 123 backend-ci     # Re-run the backend-ci workflow",
			"ci-bot retry 123 --all          # Re-run every workflow",
			"ci-bot retry 123 --comment      # Also post the report on the PR",
		},
	}

	cobraCmd := builder.BuildCommand(func(cobraCmd *cobra.Command, args []string) error {
		// Parse arguments using common utilities
		prNumber, err := commands.ParsePRNumberFromArgs(args, true)
		if err != nil {
			return err
		}
		retryCmd.PRNumber = prNumber
		retryCmd.Command = commands.RetryCommandFromArgs(args, all)

		// Initialize base command
		retryCmd.ConfigFile = globalConfigFile
		retryCmd.LoadConfig = loadConfig
		if err := retryCmd.Init(); err != nil {
			return err
		}

		output, err := retryCmd.Run(retryCmd.Context, retryCmd.GitHubClient)
		if err != nil {
			return err
		}
		commands.DisplayReport(cobraCmd.OutOrStdout(), output)
		if retryCmd.Comment {
			commands.DisplayPostedMessage(cobraCmd.OutOrStdout(), retryCmd.FullName(), retryCmd.PRNumber)
		}
		return nil
	})

	cobraCmd.Flags().BoolVar(&all, "all", false, "Re-run every retryable workflow, not only failed ones")
	cobraCmd.Flags().BoolVar(&retryCmd.Comment, "comment", false, "Post the report as a comment on the pull request")

	return cobraCmd
}

// Run executes the retry and returns the rendered report
func (rc *RetryCommand) Run(ctx context.Context, api retryAPI) (string, error) {
	settings := commands.BotSettings(rc.Config, rc.FullName())

	var pr *github.PullRequestContext
	err := retry.Do(ctx, settings.CallTimeout, func(callCtx context.Context) error {
		var err error
		pr, err = api.GetPullRequest(callCtx, rc.Owner, rc.Repo, rc.PRNumber)
		return err
	})
	if err != nil {
		return "", err
	}

	runs, err := retry.NewCache(api, settings.CallTimeout).Fetch(ctx, *pr)
	if err != nil {
		return "", err
	}

	orchestrator := retry.NewOrchestrator(api,
		retry.WithCallTimeout(settings.CallTimeout),
		retry.WithRetryable(settings.RetryableWorkflows),
	)
	slog.Info("Retrying workflows", "command", rc.Command.String(), "pr", pr.Number, "sha", pr.ShortSHA())
	results := orchestrator.Execute(ctx, *pr, rc.Command, runs)
	body := report.Compose(rc.Command, results, runs)

	if rc.Comment {
		err := retry.Do(ctx, settings.CallTimeout, func(callCtx context.Context) error {
			return api.PostComment(callCtx, pr.Owner, pr.Repo, pr.Number, body)
		})
		if err != nil {
			return body, fmt.Errorf("failed to post comment on PR #%d: %w", pr.Number, err)
		}
	}

	return body, nil
}

// Package status implements the status command for displaying the workflow runs of a pull request.
package status

import (
	"context"
	"fmt"

	"github.com/alan/ci-bot/cmd"
	"github.com/alan/ci-bot/internal/commands"
	"github.com/alan/ci-bot/internal/github"
	"github.com/alan/ci-bot/internal/report"
	"github.com/alan/ci-bot/internal/retry"
	"github.com/alan/ci-bot/internal/slash"
	"github.com/spf13/cobra"
)

// statusAPI is the GitHub surface the status command reads from
type statusAPI interface {
	retry.RunLister
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequestContext, error)
}

// StatusCommand encapsulates the status command
type StatusCommand struct {
	commands.BaseCommand
	PRNumber int
	Summary  bool
}

// NewStatusCmd creates and returns the status command
func NewStatusCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	statusCmd := &StatusCommand{}

	builder := &commands.CommandBuilder{
		Use:   "status <pr-number>",
		Short: "Show the workflow runs of a pull request",
		Long: `Show the workflow runs on the head commit of a pull request, in the same
format the bot uses to answer /status.`,
		MinArgs: 1,
		MaxArgs: 1,
		ExampleUsage: []string{
			"ci-bot status 123            # Show workflow status for PR #123",
			"ci-bot status 123 --summary  # Render the PR summary comment",
		},
	}

	cobraCmd := builder.BuildCommand(func(cobraCmd *cobra.Command, args []string) error {
		prNumber, err := commands.ParsePRNumberFromArgs(args, true)
		if err != nil {
			return err
		}
		statusCmd.PRNumber = prNumber

		statusCmd.ConfigFile = globalConfigFile
		statusCmd.LoadConfig = loadConfig
		if err := statusCmd.Init(); err != nil {
			return err
		}

		output, err := statusCmd.Run(statusCmd.Context, statusCmd.GitHubClient)
		if err != nil {
			return err
		}
		commands.DisplayReport(cobraCmd.OutOrStdout(), output)
		return nil
	})

	cobraCmd.Flags().BoolVar(&statusCmd.Summary, "summary", false, "Render the PR summary comment instead of the status report")

	return cobraCmd
}

// Run renders the status report for the pull request
func (sc *StatusCommand) Run(ctx context.Context, api statusAPI) (string, error) {
	timeout := retry.DefaultCallTimeout
	if sc.Config != nil {
		timeout = sc.Config.CallTimeout
	}

	var pr *github.PullRequestContext
	err := retry.Do(ctx, timeout, func(callCtx context.Context) error {
		var err error
		pr, err = api.GetPullRequest(callCtx, sc.Owner, sc.Repo, sc.PRNumber)
		return err
	})
	if err != nil {
		return "", err
	}

	runs, err := retry.NewCache(api, timeout).Fetch(ctx, *pr)
	if err != nil {
		return "", err
	}

	if sc.Summary {
		return report.PRSummary(*pr, runs), nil
	}
	return fmt.Sprintf("%s#%d (%s)\n%s", pr.FullName(), pr.Number, pr.ShortSHA(),
		report.Compose(slash.Command{Kind: slash.StatusQuery}, nil, runs)), nil
}

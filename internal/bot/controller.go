// Package bot handles one GitHub event per invocation: it authorizes the
// actor, runs the command and posts the reply.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/alan/ci-bot/internal/github"
	"github.com/alan/ci-bot/internal/report"
	"github.com/alan/ci-bot/internal/retry"
	"github.com/alan/ci-bot/internal/slash"
)

// API is the GitHub surface the controller uses
type API interface {
	retry.RunLister
	retry.Rerunner
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*github.PullRequestContext, error)
	GetPermissionLevel(ctx context.Context, owner, repo, username string) (github.PermissionLevel, error)
	ListComments(ctx context.Context, owner, repo string, number int) ([]github.Comment, error)
	PostComment(ctx context.Context, owner, repo string, number int, body string) error
	UpdateComment(ctx context.Context, owner, repo string, commentID int64, body string) error
}

// Settings are the resolved configuration values for one repository
type Settings struct {
	Enabled              bool
	AdminUsers           []string
	AutoRetry            bool
	MaxAutoRetryAttempts int
	// AdminOnlyCommands lists command words only bot admins may run
	AdminOnlyCommands  []string
	RetryableWorkflows []string
	CallTimeout        time.Duration
}

// Outcome describes what the controller did with an event
type Outcome string

const (
	OutcomeSkipped        Outcome = "skipped"
	OutcomeIgnored        Outcome = "ignored"
	OutcomeCommented      Outcome = "commented"
	OutcomeUnauthorized   Outcome = "unauthorized"
	OutcomeFetchFailed    Outcome = "fetch_failed"
	OutcomeSummaryCreated Outcome = "summary_created"
	OutcomeSummaryUpdated Outcome = "summary_updated"
	OutcomeAutoRetried    Outcome = "auto_retried"
)

// Controller routes events to the command pipeline
type Controller struct {
	api      API
	settings Settings
}

// New creates a controller
func New(api API, settings Settings) *Controller {
	if settings.CallTimeout <= 0 {
		settings.CallTimeout = retry.DefaultCallTimeout
	}
	return &Controller{
		api:      api,
		settings: settings,
	}
}

// HandleEvent processes one event. The returned error is set only when the
// reply could not be delivered.
func (c *Controller) HandleEvent(ctx context.Context, event Event) (Outcome, error) {
	if !c.settings.Enabled {
		slog.Info("Bot is disabled, skipping event", "event", event.Name)
		return OutcomeSkipped, nil
	}

	slog.Debug("Handling event", "event", event.Name, "action", event.Action, "repo", event.Owner+"/"+event.Repo, "pr", event.Number)

	switch event.Kind {
	case EventComment:
		return c.handleComment(ctx, event)
	case EventPullRequest:
		return c.handlePullRequest(ctx, event)
	case EventWorkflowRun:
		return c.handleWorkflowRun(ctx, event)
	}

	slog.Debug("Ignoring unsupported event", "event", event.Name)
	return OutcomeIgnored, nil
}

func (c *Controller) handleComment(ctx context.Context, event Event) (Outcome, error) {
	if event.Action != "created" || !event.IsPullRequest {
		return OutcomeIgnored, nil
	}
	if event.ActorIsBot {
		slog.Debug("Ignoring comment from bot", "user", event.Actor)
		return OutcomeIgnored, nil
	}

	cmd := slash.Parse(event.Body)
	if cmd.Kind == slash.Unrecognized {
		slog.Debug("No command in comment", "pr", event.Number)
		return OutcomeIgnored, nil
	}
	slog.Info("Received command", "command", cmd.String(), "user", event.Actor, "pr", event.Number)

	if c.requiresAuthorization(cmd) {
		actor := c.resolveActor(ctx, event.Owner, event.Repo, event.Actor)
		if !c.allowed(actor, cmd) {
			slog.Info("Refusing command from unauthorized user", "command", cmd.String(), "user", actor.Login, "permission", actor.Permission)
			if err := c.post(ctx, event.Owner, event.Repo, event.Number, report.Unauthorized(cmd, actor.Login)); err != nil {
				return OutcomeUnauthorized, err
			}
			return OutcomeUnauthorized, nil
		}
	}

	if cmd.Kind == slash.HelpQuery {
		return c.reply(ctx, event, report.Compose(cmd, nil, nil))
	}

	pr, err := c.pullRequest(ctx, event)
	if err != nil {
		slog.Warn("Failed to load pull request", "pr", event.Number, "error", err)
		return c.replyFailure(ctx, event, cmd, err)
	}

	cache := retry.NewCache(c.api, c.settings.CallTimeout)
	runs, err := cache.Fetch(ctx, *pr)
	if err != nil {
		slog.Warn("Failed to fetch workflow runs", "sha", pr.ShortSHA(), "error", err)
		return c.replyFailure(ctx, event, cmd, err)
	}

	results := c.orchestrator().Execute(ctx, *pr, cmd, runs)
	return c.reply(ctx, event, report.Compose(cmd, results, runs))
}

func (c *Controller) handlePullRequest(ctx context.Context, event Event) (Outcome, error) {
	switch event.Action {
	case "opened", "synchronize", "reopened":
	default:
		return OutcomeIgnored, nil
	}
	if event.PullRequest == nil {
		return OutcomeIgnored, nil
	}
	pr := *event.PullRequest

	runs, err := retry.NewCache(c.api, c.settings.CallTimeout).Fetch(ctx, pr)
	if err != nil {
		return OutcomeFetchFailed, err
	}
	body := report.PRSummary(pr, runs)

	var comments []github.Comment
	err = retry.Do(ctx, c.settings.CallTimeout, func(callCtx context.Context) error {
		var listErr error
		comments, listErr = c.api.ListComments(callCtx, pr.Owner, pr.Repo, pr.Number)
		return listErr
	})
	if err != nil {
		return OutcomeFetchFailed, fmt.Errorf("failed to list comments on PR #%d: %w", pr.Number, err)
	}

	idx := slices.IndexFunc(comments, func(comment github.Comment) bool {
		return strings.Contains(comment.Body, report.SummaryMarker)
	})
	if idx >= 0 {
		commentID := comments[idx].ID
		err = retry.Do(ctx, c.settings.CallTimeout, func(callCtx context.Context) error {
			return c.api.UpdateComment(callCtx, pr.Owner, pr.Repo, commentID, body)
		})
		if err != nil {
			return OutcomeSummaryUpdated, fmt.Errorf("failed to update PR summary: %w", err)
		}
		slog.Info("Updated PR summary", "pr", pr.Number, "comment_id", commentID)
		return OutcomeSummaryUpdated, nil
	}

	if err := c.post(ctx, pr.Owner, pr.Repo, pr.Number, body); err != nil {
		return OutcomeSummaryCreated, err
	}
	slog.Info("Posted PR summary", "pr", pr.Number)
	return OutcomeSummaryCreated, nil
}

func (c *Controller) handleWorkflowRun(ctx context.Context, event Event) (Outcome, error) {
	if !c.settings.AutoRetry || event.Action != "completed" || event.WorkflowRun == nil {
		return OutcomeIgnored, nil
	}
	run := *event.WorkflowRun
	if !run.IsFailed() || event.Number == 0 {
		return OutcomeIgnored, nil
	}

	orchestrator := c.orchestrator()
	if !orchestrator.IsRetryable(run.Name) {
		slog.Debug("Workflow is not retryable", "workflow", run.Name)
		return OutcomeIgnored, nil
	}
	if run.RunAttempt > c.settings.MaxAutoRetryAttempts {
		slog.Info("Auto-retry limit reached", "workflow", run.Name, "run_id", run.ID, "attempt", run.RunAttempt, "max", c.settings.MaxAutoRetryAttempts)
		return OutcomeIgnored, nil
	}

	pr := github.PullRequestContext{
		Owner:      event.Owner,
		Repo:       event.Repo,
		Number:     event.Number,
		HeadSHA:    run.HeadSHA,
		HeadBranch: run.HeadBranch,
	}

	result := orchestrator.RetryRun(ctx, pr, run)
	if err := c.post(ctx, pr.Owner, pr.Repo, pr.Number, report.AutoRetry(run, result, c.settings.MaxAutoRetryAttempts)); err != nil {
		return OutcomeAutoRetried, err
	}
	return OutcomeAutoRetried, nil
}

// requiresAuthorization reports whether cmd needs an authorization check
func (c *Controller) requiresAuthorization(cmd slash.Command) bool {
	return cmd.Mutating() || c.adminOnly(cmd)
}

// allowed applies the admin-only list on top of the actor's authorization
func (c *Controller) allowed(actor Actor, cmd slash.Command) bool {
	if c.adminOnly(cmd) {
		return actor.IsAdmin
	}
	return actor.IsAuthorized
}

func (c *Controller) adminOnly(cmd slash.Command) bool {
	word := cmd.Word()
	for _, adminOnly := range c.settings.AdminOnlyCommands {
		if strings.EqualFold(strings.TrimPrefix(adminOnly, "/"), word) {
			return true
		}
	}
	return false
}

func (c *Controller) orchestrator() *retry.Orchestrator {
	return retry.NewOrchestrator(c.api,
		retry.WithCallTimeout(c.settings.CallTimeout),
		retry.WithRetryable(c.settings.RetryableWorkflows),
	)
}

func (c *Controller) pullRequest(ctx context.Context, event Event) (*github.PullRequestContext, error) {
	var pr *github.PullRequestContext
	err := retry.Do(ctx, c.settings.CallTimeout, func(callCtx context.Context) error {
		var err error
		pr, err = c.api.GetPullRequest(callCtx, event.Owner, event.Repo, event.Number)
		return err
	})
	return pr, err
}

func (c *Controller) reply(ctx context.Context, event Event, body string) (Outcome, error) {
	if err := c.post(ctx, event.Owner, event.Repo, event.Number, body); err != nil {
		return OutcomeCommented, err
	}
	return OutcomeCommented, nil
}

func (c *Controller) replyFailure(ctx context.Context, event Event, cmd slash.Command, cause error) (Outcome, error) {
	var fetchErr *retry.FetchError
	if !errors.As(cause, &fetchErr) {
		cause = fmt.Errorf("failed to load PR #%d: %w", event.Number, cause)
	}
	if err := c.post(ctx, event.Owner, event.Repo, event.Number, report.FetchFailure(cmd, cause)); err != nil {
		return OutcomeFetchFailed, err
	}
	return OutcomeFetchFailed, nil
}

// post creates a comment, re-attempting once on a transient failure
func (c *Controller) post(ctx context.Context, owner, repo string, number int, body string) error {
	err := retry.Do(ctx, c.settings.CallTimeout, func(callCtx context.Context) error {
		return c.api.PostComment(callCtx, owner, repo, number, body)
	})
	if err != nil {
		return fmt.Errorf("failed to post comment on PR #%d: %w", number, err)
	}
	return nil
}

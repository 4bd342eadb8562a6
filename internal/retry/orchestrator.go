package retry

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/alan/ci-bot/internal/github"
	"github.com/alan/ci-bot/internal/slash"
)

// Rerunner re-triggers a workflow run
type Rerunner interface {
	RerunWorkflow(ctx context.Context, owner, repo string, runID int64, failedOnly bool) error
}

// Status is the outcome of one retry target
type Status string

const (
	// StatusTriggered means the rerun request was accepted
	StatusTriggered Status = "triggered"
	// StatusNotFound means no run matched the requested workflow name
	StatusNotFound Status = "not_found"
	// StatusAlreadyRunning means the run is still queued or in progress
	StatusAlreadyRunning Status = "already_running"
	// StatusFailedToTrigger means the rerun request failed
	StatusFailedToTrigger Status = "failed_to_trigger"
)

// Result is the outcome of retrying one run. RunID is 0 for not_found.
type Result struct {
	RunID    int64
	Workflow string
	Status   Status
	Err      string
}

// Orchestrator maps commands to target runs and re-triggers them
type Orchestrator struct {
	rerunner    Rerunner
	callTimeout time.Duration
	retryable   map[string]bool
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithCallTimeout bounds each rerun call
func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.callTimeout = d
	}
}

// WithRetryable limits /retry and /test to the named workflows.
// An empty list allows every workflow.
func WithRetryable(names []string) Option {
	return func(o *Orchestrator) {
		if len(names) == 0 {
			o.retryable = nil
			return
		}
		o.retryable = make(map[string]bool, len(names))
		for _, name := range names {
			o.retryable[strings.ToLower(name)] = true
		}
	}
}

// NewOrchestrator creates an orchestrator that reruns through rerunner
func NewOrchestrator(rerunner Rerunner, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		rerunner:    rerunner,
		callTimeout: DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Execute carries out cmd against a snapshot of runs. Results follow the order
// of runs; targets are processed one at a time and a failed target does not stop
// the rest. Query commands produce no results.
func (o *Orchestrator) Execute(ctx context.Context, pr github.PullRequestContext, cmd slash.Command, runs []github.WorkflowRun) []Result {
	results := []Result{}

	switch cmd.Kind {
	case slash.RetryAll:
		for _, run := range runs {
			if !run.IsFailed() || !o.IsRetryable(run.Name) {
				continue
			}
			results = append(results, o.rerun(ctx, pr, run, true))
		}

	case slash.RetryNamed:
		for _, run := range runs {
			if !strings.EqualFold(run.Name, cmd.Workflow) {
				continue
			}
			results = append(results, o.rerun(ctx, pr, run, run.IsFailed()))
		}
		if len(results) == 0 {
			slog.Info("No workflow run matches", "workflow", cmd.Workflow, "sha", pr.ShortSHA())
			results = append(results, Result{Workflow: cmd.Workflow, Status: StatusNotFound})
		}

	case slash.RetestAll:
		for _, run := range runs {
			if !o.IsRetryable(run.Name) {
				continue
			}
			results = append(results, o.rerun(ctx, pr, run, false))
		}
	}

	return results
}

// RetryRun reruns the failed jobs of a single run
func (o *Orchestrator) RetryRun(ctx context.Context, pr github.PullRequestContext, run github.WorkflowRun) Result {
	return o.rerun(ctx, pr, run, true)
}

// rerun triggers one run unless it is still running
func (o *Orchestrator) rerun(ctx context.Context, pr github.PullRequestContext, run github.WorkflowRun, failedOnly bool) Result {
	result := Result{RunID: run.ID, Workflow: run.Name}

	if run.IsRunning() {
		slog.Info("Workflow run already running", "workflow", run.Name, "run_id", run.ID, "status", run.Status)
		result.Status = StatusAlreadyRunning
		return result
	}

	err := Do(ctx, o.callTimeout, func(callCtx context.Context) error {
		return o.rerunner.RerunWorkflow(callCtx, pr.Owner, pr.Repo, run.ID, failedOnly)
	})
	if err != nil {
		slog.Warn("Failed to trigger workflow rerun", "workflow", run.Name, "run_id", run.ID, "error", err)
		result.Status = StatusFailedToTrigger
		result.Err = err.Error()
		return result
	}

	slog.Info("Triggered workflow rerun", "workflow", run.Name, "run_id", run.ID, "failed_only", failedOnly)
	result.Status = StatusTriggered
	return result
}

// IsRetryable reports whether the allow-list permits retrying the workflow
func (o *Orchestrator) IsRetryable(name string) bool {
	if o.retryable == nil {
		return true
	}
	return o.retryable[strings.ToLower(name)]
}

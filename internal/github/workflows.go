package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v57/github"
)

// ListWorkflowRunsForSHA returns every workflow run GitHub reports for a head commit,
// in the order the API returns them (newest first)
func (c *Client) ListWorkflowRunsForSHA(ctx context.Context, owner, repo, sha string) ([]WorkflowRun, error) {
	opts := &github.ListWorkflowRunsOptions{
		HeadSHA: sha,
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}

	runs := []WorkflowRun{}
	for {
		slog.Debug("GitHub API: Listing workflow runs", "owner", owner, "repo", repo, "sha", sha, "page", opts.Page)
		result, resp, err := c.client.Actions.ListRepositoryWorkflowRuns(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list workflow runs for commit %s: %w", sha, err)
		}
		logRateLimit(resp, owner+"/"+repo+"/actions/runs")

		for _, run := range result.WorkflowRuns {
			runs = append(runs, mapWorkflowRun(run))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return runs, nil
}

// RerunWorkflow re-runs a workflow run. With failedOnly set it re-runs just the
// failed jobs and falls back to a full re-run when GitHub rejects that request.
func (c *Client) RerunWorkflow(ctx context.Context, owner, repo string, runID int64, failedOnly bool) error {
	if failedOnly {
		slog.Debug("GitHub API: Rerunning failed jobs", "owner", owner, "repo", repo, "run_id", runID)
		_, err := c.client.Actions.RerunFailedJobsByID(ctx, owner, repo, runID)
		if err == nil {
			return nil
		}
		if IsTransient(err) {
			return fmt.Errorf("failed to rerun failed jobs of run %d: %w", runID, err)
		}
		slog.Debug("Failed-jobs rerun rejected, falling back to full rerun", "run_id", runID, "error", err)
	}

	slog.Debug("GitHub API: Rerunning entire workflow", "owner", owner, "repo", repo, "run_id", runID)
	if _, err := c.client.Actions.RerunWorkflowByID(ctx, owner, repo, runID); err != nil {
		return fmt.Errorf("failed to rerun workflow run %d: %w", runID, err)
	}

	return nil
}

// mapWorkflowRun converts a go-github WorkflowRun using its nil-safe getters
func mapWorkflowRun(run *github.WorkflowRun) WorkflowRun {
	return WorkflowRun{
		ID:         run.GetID(),
		Name:       run.GetName(),
		Status:     run.GetStatus(),
		Conclusion: run.GetConclusion(),
		HeadSHA:    run.GetHeadSHA(),
		HeadBranch: run.GetHeadBranch(),
		WorkflowID: run.GetWorkflowID(),
		RunAttempt: run.GetRunAttempt(),
		Event:      run.GetEvent(),
		URL:        run.GetHTMLURL(),
	}
}

// MapWorkflowRun converts a run embedded in a webhook payload
func MapWorkflowRun(run *github.WorkflowRun) WorkflowRun {
	return mapWorkflowRun(run)
}

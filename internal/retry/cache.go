package retry

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/alan/ci-bot/internal/github"
)

// RunLister lists the workflow runs of a commit
type RunLister interface {
	ListWorkflowRunsForSHA(ctx context.Context, owner, repo, sha string) ([]github.WorkflowRun, error)
}

// FetchError reports that the run set of a commit could not be read
type FetchError struct {
	SHA string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch workflow runs for commit %s: %v", e.SHA, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Guidance tells the requester what to do next
func (e *FetchError) Guidance() string {
	if github.IsTransient(e.Err) {
		return "GitHub did not answer in time. Please try the command again in a few minutes."
	}
	return "Check that the bot token can read Actions for this repository, then try again."
}

// Cache memoizes the run set of one pull request head for a single invocation
type Cache struct {
	lister      RunLister
	callTimeout time.Duration

	key    string
	runs   []github.WorkflowRun
	loaded bool
}

// NewCache creates an empty cache. A zero timeout disables the per-call limit.
func NewCache(lister RunLister, callTimeout time.Duration) *Cache {
	return &Cache{
		lister:      lister,
		callTimeout: callTimeout,
	}
}

// Fetch returns the runs for the pull request head, querying the API only on
// first use or after Invalidate. A successful empty listing yields an empty slice.
func (c *Cache) Fetch(ctx context.Context, pr github.PullRequestContext) ([]github.WorkflowRun, error) {
	key := pr.FullName() + "@" + pr.HeadSHA
	if c.loaded && c.key == key {
		slog.Debug("Using cached workflow runs", "repo", pr.FullName(), "sha", pr.ShortSHA(), "count", len(c.runs))
		return slices.Clone(c.runs), nil
	}

	var runs []github.WorkflowRun
	err := Do(ctx, c.callTimeout, func(callCtx context.Context) error {
		var err error
		runs, err = c.lister.ListWorkflowRunsForSHA(callCtx, pr.Owner, pr.Repo, pr.HeadSHA)
		return err
	})
	if err != nil {
		return nil, &FetchError{SHA: pr.HeadSHA, Err: err}
	}
	if runs == nil {
		runs = []github.WorkflowRun{}
	}

	c.key = key
	c.runs = runs
	c.loaded = true

	return slices.Clone(runs), nil
}

// Invalidate forces the next Fetch to query the API
func (c *Cache) Invalidate() {
	c.loaded = false
	c.runs = nil
}

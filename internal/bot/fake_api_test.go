package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/alan/ci-bot/internal/github"
)

var errTransient = fmt.Errorf("request timed out: %w", context.DeadlineExceeded)

type postedComment struct {
	number int
	body   string
}

type updatedComment struct {
	id   int64
	body string
}

// fakeAPI is an in-memory GitHub that records every call
type fakeAPI struct {
	pr          *github.PullRequestContext
	runs        []github.WorkflowRun
	permissions map[string]github.PermissionLevel
	comments    []github.Comment

	listErrs      []error
	permissionErr error
	prErr         error
	rerunErrs     map[int64][]error
	postErr       error

	listCalls       int
	permissionCalls int
	prCalls         int
	reruns          []int64
	failedOnly      []bool
	posted          []postedComment
	updated         []updatedComment
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		pr: &github.PullRequestContext{
			Owner:      "octo",
			Repo:       "app",
			Number:     12,
			HeadSHA:    "abc1234def",
			HeadBranch: "feature",
			BaseBranch: "main",
			Title:      "Add retries",
			Author:     "alice",
		},
		permissions: map[string]github.PermissionLevel{},
		rerunErrs:   map[int64][]error{},
	}
}

func (f *fakeAPI) totalCalls() int {
	return f.listCalls + f.permissionCalls + f.prCalls + len(f.reruns) + len(f.posted) + len(f.updated)
}

func (f *fakeAPI) ListWorkflowRunsForSHA(_ context.Context, _, _, _ string) ([]github.WorkflowRun, error) {
	f.listCalls++
	if len(f.listErrs) > 0 {
		err := f.listErrs[0]
		f.listErrs = f.listErrs[1:]
		return nil, err
	}
	return f.runs, nil
}

func (f *fakeAPI) RerunWorkflow(_ context.Context, _, _ string, runID int64, failedOnly bool) error {
	f.reruns = append(f.reruns, runID)
	f.failedOnly = append(f.failedOnly, failedOnly)
	if queue := f.rerunErrs[runID]; len(queue) > 0 {
		f.rerunErrs[runID] = queue[1:]
		return queue[0]
	}
	return nil
}

func (f *fakeAPI) GetPullRequest(_ context.Context, _, _ string, _ int) (*github.PullRequestContext, error) {
	f.prCalls++
	if f.prErr != nil {
		return nil, f.prErr
	}
	pr := *f.pr
	return &pr, nil
}

func (f *fakeAPI) GetPermissionLevel(_ context.Context, _, _, username string) (github.PermissionLevel, error) {
	f.permissionCalls++
	if f.permissionErr != nil {
		return github.PermissionNone, f.permissionErr
	}
	if level, ok := f.permissions[username]; ok {
		return level, nil
	}
	return github.PermissionRead, nil
}

func (f *fakeAPI) ListComments(_ context.Context, _, _ string, _ int) ([]github.Comment, error) {
	return f.comments, nil
}

func (f *fakeAPI) PostComment(_ context.Context, _, _ string, number int, body string) error {
	if f.postErr != nil {
		return f.postErr
	}
	f.posted = append(f.posted, postedComment{number: number, body: body})
	return nil
}

func (f *fakeAPI) UpdateComment(_ context.Context, _, _ string, commentID int64, body string) error {
	f.updated = append(f.updated, updatedComment{id: commentID, body: body})
	return nil
}

var errForbidden = errors.New("403 Resource not accessible by integration")

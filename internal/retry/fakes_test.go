package retry

import (
	"context"
	"errors"
	"fmt"

	"github.com/alan/ci-bot/internal/github"
)

var (
	errTransient = fmt.Errorf("request timed out: %w", context.DeadlineExceeded)
	errPermanent = errors.New("403 Resource not accessible by integration")
)

// fakeLister returns runs, or the queued errors first
type fakeLister struct {
	runs   []github.WorkflowRun
	errs   []error
	calls  int
	gotSHA string
}

func (f *fakeLister) ListWorkflowRunsForSHA(_ context.Context, _, _, sha string) ([]github.WorkflowRun, error) {
	f.calls++
	f.gotSHA = sha
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return f.runs, nil
}

type rerunCall struct {
	runID      int64
	failedOnly bool
}

// fakeRerunner records rerun calls and fails runs listed in errs, one error per call
type fakeRerunner struct {
	errs  map[int64][]error
	calls []rerunCall
}

func (f *fakeRerunner) RerunWorkflow(_ context.Context, _, _ string, runID int64, failedOnly bool) error {
	f.calls = append(f.calls, rerunCall{runID: runID, failedOnly: failedOnly})
	queue := f.errs[runID]
	if len(queue) == 0 {
		return nil
	}
	f.errs[runID] = queue[1:]
	return queue[0]
}

func (f *fakeRerunner) callCount(runID int64) int {
	count := 0
	for _, call := range f.calls {
		if call.runID == runID {
			count++
		}
	}
	return count
}

func testPR() github.PullRequestContext {
	return github.PullRequestContext{Owner: "octo", Repo: "app", Number: 12, HeadSHA: "abc1234def"}
}

func run(id int64, name, status, conclusion string) github.WorkflowRun {
	return github.WorkflowRun{ID: id, Name: name, Status: status, Conclusion: conclusion, HeadSHA: "abc1234def"}
}

package report

import (
	"strings"
	"testing"

	"github.com/alan/ci-bot/internal/github"
	"github.com/charmbracelet/x/exp/golden"
	"github.com/stretchr/testify/assert"
)

func testPR() github.PullRequestContext {
	return github.PullRequestContext{
		Owner:      "octo",
		Repo:       "app",
		Number:     12,
		HeadSHA:    "abc1234def",
		HeadBranch: "feature",
		BaseBranch: "main",
		Title:      "Add retries",
		Author:     "alice",
	}
}

func TestPRSummary(t *testing.T) {
	runs := []github.WorkflowRun{
		{ID: 3, Name: "lint", Status: github.StatusInProgress},
		{ID: 2, Name: "frontend-ci", Status: github.StatusCompleted, Conclusion: github.ConclusionSuccess},
		{ID: 1, Name: "backend-ci", Status: github.StatusCompleted, Conclusion: github.ConclusionFailure, URL: "https://github.com/octo/app/actions/runs/1"},
	}

	out := PRSummary(testPR(), runs)
	golden.RequireEqual(t, []byte(out))
}

func TestPRSummary_NoRuns(t *testing.T) {
	out := PRSummary(testPR(), nil)

	assert.True(t, strings.HasPrefix(out, SummaryMarker))
	assert.Contains(t, out, "CI checks are starting")
	assert.NotContains(t, out, "Quick Actions")
}

func TestPRSummary_AllPassingHasNoQuickActions(t *testing.T) {
	runs := []github.WorkflowRun{
		{ID: 1, Name: "backend-ci", Status: github.StatusCompleted, Conclusion: github.ConclusionSuccess},
	}

	out := PRSummary(testPR(), runs)

	assert.Contains(t, out, "### 📊 CI Status: passing")
	assert.Contains(t, out, "**Summary:** 1/1 passed, 0 failed, 0 in progress")
	assert.NotContains(t, out, "Quick Actions")
}

func TestPRSummary_SanitizesTitle(t *testing.T) {
	pr := testPR()
	pr.Title = "Fix <script>alert(1)</script>retries"

	out := PRSummary(pr, nil)

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "**PR:** #12 - Fix retries")
}

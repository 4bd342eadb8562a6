package report

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/alan/ci-bot/internal/github"
)

// helpText lists the supported commands
const helpText = `Available commands:
/retry - re-run all failed workflows
/retry <workflow> - re-run the named workflow (e.g. /retry backend-ci)
/test - re-run every workflow
/status - show the current workflow status
/help - show this message`

// Help returns the command reference
func Help() string {
	return helpText
}

func composeStatus(runs []github.WorkflowRun) string {
	if len(runs) == 0 {
		return "No workflow runs found for this commit."
	}

	lines := []string{"Workflow status:"}
	for _, run := range sortByName(runs) {
		lines = append(lines, fmt.Sprintf("%s: %s", run.Name, runState(run)))
	}

	counts := github.CountRuns(runs)
	lines = append(lines, fmt.Sprintf("Summary: %d succeeded, %d failed, %d running",
		counts.Succeeded, counts.Failed, counts.Running))

	return strings.Join(lines, "\n")
}

// runState renders status/conclusion, or just the status while running
func runState(run github.WorkflowRun) string {
	if run.Conclusion == "" {
		return run.Status
	}
	return run.Status + "/" + run.Conclusion
}

// sortByName returns a copy ordered by name, then run id
func sortByName(runs []github.WorkflowRun) []github.WorkflowRun {
	sorted := slices.Clone(runs)
	slices.SortStableFunc(sorted, func(a, b github.WorkflowRun) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return sorted
}

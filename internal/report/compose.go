// Package report renders the comments the bot posts on pull requests.
//
// Every renderer is deterministic and returns text without a trailing newline.
package report

import (
	"fmt"
	"strings"

	"github.com/alan/ci-bot/internal/github"
	"github.com/alan/ci-bot/internal/retry"
	"github.com/alan/ci-bot/internal/slash"
	"github.com/microcosm-cc/bluemonday"
)

// strict removes every HTML element from text that came from a comment
var strict = bluemonday.StrictPolicy()

// outcomeOrder is the order result groups appear in a retry report
var outcomeOrder = []retry.Status{
	retry.StatusTriggered,
	retry.StatusAlreadyRunning,
	retry.StatusNotFound,
	retry.StatusFailedToTrigger,
}

// Compose renders the reply to a command. Retry commands get a per-run report,
// /status a run listing and /help the command reference.
func Compose(cmd slash.Command, results []retry.Result, runs []github.WorkflowRun) string {
	switch cmd.Kind {
	case slash.StatusQuery:
		return composeStatus(runs)
	case slash.HelpQuery:
		return Help()
	case slash.RetryAll, slash.RetryNamed, slash.RetestAll:
		return composeRetry(cmd, results)
	}
	return ""
}

func composeRetry(cmd slash.Command, results []retry.Result) string {
	lines := []string{fmt.Sprintf("Results for %s:", sanitize(cmd.String()))}

	if len(results) == 0 {
		if cmd.Kind == slash.RetryAll {
			lines = append(lines, "No failed workflows to retry (0 failed workflows).")
		} else {
			lines = append(lines, "No workflow runs to retry.")
		}
		return strings.Join(lines, "\n")
	}

	counts := make(map[retry.Status]int)
	for _, status := range outcomeOrder {
		for _, result := range results {
			if result.Status != status {
				continue
			}
			counts[status]++
			lines = append(lines, resultLine(result))
		}
	}

	lines = append(lines, fmt.Sprintf("Summary: %d triggered, %d failed, %d already running, %d not found",
		counts[retry.StatusTriggered],
		counts[retry.StatusFailedToTrigger],
		counts[retry.StatusAlreadyRunning],
		counts[retry.StatusNotFound],
	))

	return strings.Join(lines, "\n")
}

// resultLine renders one result as "<status>: <workflow>"
func resultLine(result retry.Result) string {
	name := sanitize(result.Workflow)
	line := fmt.Sprintf("%s: %s", result.Status, name)

	switch result.Status {
	case retry.StatusNotFound:
		line += fmt.Sprintf(" (no workflow named %s found)", name)
	case retry.StatusFailedToTrigger:
		if result.Err != "" {
			line += fmt.Sprintf(" (%s)", sanitize(result.Err))
		}
	}

	return line
}

// textEntities undoes the escaping bluemonday applies to plain text. &lt; and
// &gt; stay escaped so a stripped tag cannot be rebuilt from entities.
var textEntities = strings.NewReplacer("&amp;", "&", "&#39;", "'", "&#34;", `"`)

// sanitize strips HTML from comment-supplied text and keeps the rest verbatim
func sanitize(s string) string {
	return textEntities.Replace(strict.Sanitize(s))
}

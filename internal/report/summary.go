package report

import (
	"fmt"
	"strings"

	"github.com/alan/ci-bot/internal/github"
)

// SummaryMarker identifies the bot's PR summary comment so it can be updated in place
const SummaryMarker = "<!-- ci-bot:pr-summary -->"

// PRSummary renders the markdown overview posted when a pull request opens or changes
func PRSummary(pr github.PullRequestContext, runs []github.WorkflowRun) string {
	var b strings.Builder

	b.WriteString(SummaryMarker + "\n")
	b.WriteString("## 🤖 CI Bot - PR Summary\n\n")
	fmt.Fprintf(&b, "**PR:** #%d - %s\n", pr.Number, sanitize(pr.Title))
	fmt.Fprintf(&b, "**Author:** @%s\n", pr.Author)
	fmt.Fprintf(&b, "**Branch:** `%s` → `%s`\n", pr.HeadBranch, pr.BaseBranch)
	fmt.Fprintf(&b, "**Commit:** `%s`\n", pr.ShortSHA())

	if len(runs) == 0 {
		b.WriteString("\n⏳ CI checks are starting...\n")
	} else {
		counts := github.CountRuns(runs)

		fmt.Fprintf(&b, "\n### 📊 CI Status: %s\n\n", github.AggregateState(runs))
		b.WriteString("| Workflow | Status |\n")
		b.WriteString("|----------|--------|\n")
		for _, run := range sortByName(runs) {
			name := fmt.Sprintf("`%s`", run.Name)
			if run.URL != "" {
				name = fmt.Sprintf("[%s](%s)", name, run.URL)
			}
			fmt.Fprintf(&b, "| %s | %s |\n", name, statusBadge(run))
		}

		fmt.Fprintf(&b, "\n**Summary:** %d/%d passed, %d failed, %d in progress\n",
			counts.Succeeded, counts.Total(), counts.Failed, counts.Running)

		if counts.Failed > 0 {
			b.WriteString("\n### 🔧 Quick Actions\n\n")
			b.WriteString("- `/retry` - Retry all failed workflows\n")
			b.WriteString("- `/retry <workflow>` - Retry a specific workflow\n")
			b.WriteString("- `/status` - Check current status\n")
		}
	}

	b.WriteString("\n### 📚 Useful Commands\n\n")
	b.WriteString("- `/help` - Show all available commands\n")
	b.WriteString("- `/status` - Get current CI status\n")
	b.WriteString("- `/test` - Re-run every workflow")

	return b.String()
}

func statusBadge(run github.WorkflowRun) string {
	var emoji string
	switch {
	case run.Conclusion == github.ConclusionSuccess:
		emoji = "✅"
	case run.Conclusion == github.ConclusionCancelled:
		emoji = "⚠️"
	case run.IsFailed():
		emoji = "❌"
	case run.Status == github.StatusInProgress:
		emoji = "🔄"
	default:
		emoji = "⏳"
	}

	state := run.Conclusion
	if state == "" {
		state = run.Status
	}
	return emoji + " " + strings.ToUpper(state)
}

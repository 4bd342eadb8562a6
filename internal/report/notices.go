package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alan/ci-bot/internal/github"
	"github.com/alan/ci-bot/internal/retry"
	"github.com/alan/ci-bot/internal/slash"
)

// Unauthorized explains why a command was refused
func Unauthorized(cmd slash.Command, login string) string {
	return fmt.Sprintf("@%s is not authorized to run %s. Retrying workflows requires write access to this repository or a bot admin.",
		login, sanitize(cmd.String()))
}

// FetchFailure apologizes for a command that could not read the run set
func FetchFailure(cmd slash.Command, err error) string {
	lines := []string{
		fmt.Sprintf("Sorry, %s could not be completed: %s", sanitize(cmd.String()), sanitize(err.Error())),
	}

	var fetchErr *retry.FetchError
	if errors.As(err, &fetchErr) {
		lines = append(lines, fetchErr.Guidance())
	}

	return strings.Join(lines, "\n")
}

// AutoRetry reports an automatic rerun of a failed workflow run
func AutoRetry(run github.WorkflowRun, result retry.Result, maxAttempts int) string {
	lines := []string{
		fmt.Sprintf("Workflow %s failed on attempt %d of %d; retrying automatically.", run.Name, run.RunAttempt, maxAttempts+1),
		resultLine(result),
	}
	if run.URL != "" {
		lines = append(lines, "Run: "+run.URL)
	}
	return strings.Join(lines, "\n")
}

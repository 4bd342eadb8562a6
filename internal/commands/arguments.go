package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alan/ci-bot/internal/slash"
)

// ParsePRNumberFromArgs parses PR number from command arguments
func ParsePRNumberFromArgs(args []string, required bool) (int, error) {
	if len(args) == 0 {
		if required {
			return 0, fmt.Errorf("PR number is required")
		}
		return 0, nil
	}

	prNumber, err := strconv.Atoi(strings.TrimPrefix(args[0], "#"))
	if err != nil {
		return 0, fmt.Errorf("invalid PR number: %w", err)
	}
	if prNumber <= 0 {
		return 0, fmt.Errorf("invalid PR number: %d", prNumber)
	}
	return prNumber, nil
}

// GetWorkflowFromArgs extracts the optional workflow name following the PR number
func GetWorkflowFromArgs(args []string) string {
	if len(args) > 1 {
		return strings.TrimSpace(strings.Join(args[1:], " "))
	}
	return ""
}

// RetryCommandFromArgs builds the command an operator-side retry runs
func RetryCommandFromArgs(args []string, all bool) slash.Command {
	if all {
		return slash.Command{Kind: slash.RetestAll}
	}
	if workflow := GetWorkflowFromArgs(args); workflow != "" {
		return slash.Command{Kind: slash.RetryNamed, Workflow: workflow}
	}
	return slash.Command{Kind: slash.RetryAll}
}

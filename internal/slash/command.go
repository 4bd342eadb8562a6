// Package slash turns pull request comment bodies into bot commands.
package slash

import "strings"

// Kind identifies which command a comment asked for
type Kind string

const (
	// RetryAll re-runs every failed workflow run
	RetryAll Kind = "retry_all"
	// RetryNamed re-runs the runs of one workflow
	RetryNamed Kind = "retry_named"
	// RetestAll re-runs every workflow run regardless of conclusion
	RetestAll Kind = "retest_all"
	// StatusQuery reports the current run states
	StatusQuery Kind = "status"
	// HelpQuery lists the supported commands
	HelpQuery Kind = "help"
	// Unrecognized means the comment held no command
	Unrecognized Kind = "unrecognized"
)

// Command words as typed in a comment, without the leading slash
const (
	WordRetry  = "retry"
	WordTest   = "test"
	WordStatus = "status"
	WordHelp   = "help"
)

// Command is a parsed slash command. Workflow is only set for RetryNamed.
type Command struct {
	Kind     Kind
	Workflow string
}

// Mutating reports whether the command triggers workflow runs
func (c Command) Mutating() bool {
	switch c.Kind {
	case RetryAll, RetryNamed, RetestAll:
		return true
	}
	return false
}

// Word returns the command word the comment used, or "" for Unrecognized
func (c Command) Word() string {
	switch c.Kind {
	case RetryAll, RetryNamed:
		return WordRetry
	case RetestAll:
		return WordTest
	case StatusQuery:
		return WordStatus
	case HelpQuery:
		return WordHelp
	}
	return ""
}

// String renders the canonical comment form of the command
func (c Command) String() string {
	word := c.Word()
	if word == "" {
		return ""
	}
	if c.Kind == RetryNamed {
		return "/" + word + " " + c.Workflow
	}
	return "/" + word
}

// IsWord reports whether s names one of the supported command words
func IsWord(s string) bool {
	switch strings.ToLower(strings.TrimPrefix(s, "/")) {
	case WordRetry, WordTest, WordStatus, WordHelp:
		return true
	}
	return false
}

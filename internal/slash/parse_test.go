package slash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected Command
	}{
		{name: "retry all", body: "/retry", expected: Command{Kind: RetryAll}},
		{name: "retry with trailing spaces", body: "/retry   ", expected: Command{Kind: RetryAll}},
		{name: "retry named", body: "/retry backend-ci", expected: Command{Kind: RetryNamed, Workflow: "backend-ci"}},
		{name: "retry named keeps case", body: "/RETRY Backend CI ", expected: Command{Kind: RetryNamed, Workflow: "Backend CI"}},
		{name: "retry named tab separated", body: "/retry\tlint", expected: Command{Kind: RetryNamed, Workflow: "lint"}},
		{name: "test", body: "/test", expected: Command{Kind: RetestAll}},
		{name: "test ignores arguments", body: "/test everything", expected: Command{Kind: RetestAll}},
		{name: "status mixed case", body: "/Status", expected: Command{Kind: StatusQuery}},
		{name: "help", body: "  /help  ", expected: Command{Kind: HelpQuery}},
		{name: "command inside prose", body: "please /retry backend-ci\nthanks", expected: Command{Kind: RetryNamed, Workflow: "backend-ci"}},
		{name: "slash inside a word", body: "see https://example.com/retry", expected: Command{Kind: Unrecognized}},
		{name: "unknown inline slash then known", body: "and /or maybe /status", expected: Command{Kind: StatusQuery}},
		{name: "command on its own line", body: "please\n/retry backend-ci\nthanks", expected: Command{Kind: RetryNamed, Workflow: "backend-ci"}},
		{name: "first command wins", body: "/status\n/retry", expected: Command{Kind: StatusQuery}},
		{name: "unknown slash skipped", body: "/deploy prod\n/help", expected: Command{Kind: HelpQuery}},
		{name: "only unknown slash", body: "/deploy prod", expected: Command{Kind: Unrecognized}},
		{name: "word must end", body: "/retryfoo", expected: Command{Kind: Unrecognized}},
		{name: "bare slash", body: "/", expected: Command{Kind: Unrecognized}},
		{name: "no slash", body: "looks good to me", expected: Command{Kind: Unrecognized}},
		{name: "empty", body: "", expected: Command{Kind: Unrecognized}},
		{name: "CRLF", body: "thanks\r\n/retry lint\r\n", expected: Command{Kind: RetryNamed, Workflow: "lint"}},
		{name: "quoted command ignored", body: "> /retry\nagreed", expected: Command{Kind: Unrecognized}},
		{name: "fenced command ignored", body: "```\n/retry\n```\n/status", expected: Command{Kind: StatusQuery}},
		{name: "unterminated fence", body: "```\n/retry", expected: Command{Kind: Unrecognized}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Parse(tt.body))
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	bodies := []string{
		"/retry",
		"/retry backend-ci",
		"hello\n/status\n/help",
		"nothing here",
		"```\n/test\n```",
		"/unknown",
	}

	for _, body := range bodies {
		assert.Equal(t, Parse(body), Parse(body), "body: %q", body)
	}
}

func TestParse_NoSlashIsUnrecognized(t *testing.T) {
	bodies := []string{
		"LGTM",
		"retry please",
		"see https://example.com/retry",
		"path/to/status",
		"a/b/c",
		"\n\n\t",
	}

	for _, body := range bodies {
		assert.Equal(t, Unrecognized, Parse(body).Kind, "body: %q", body)
	}
}

func TestCommand_String(t *testing.T) {
	tests := []struct {
		cmd      Command
		expected string
		mutating bool
	}{
		{cmd: Command{Kind: RetryAll}, expected: "/retry", mutating: true},
		{cmd: Command{Kind: RetryNamed, Workflow: "lint"}, expected: "/retry lint", mutating: true},
		{cmd: Command{Kind: RetestAll}, expected: "/test", mutating: true},
		{cmd: Command{Kind: StatusQuery}, expected: "/status"},
		{cmd: Command{Kind: HelpQuery}, expected: "/help"},
		{cmd: Command{Kind: Unrecognized}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.cmd.Kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cmd.String())
			assert.Equal(t, tt.mutating, tt.cmd.Mutating())
			// the text form parses back to the same command
			assert.Equal(t, tt.cmd, Parse(tt.cmd.String()))
		})
	}
}

func TestIsWord(t *testing.T) {
	assert.True(t, IsWord("retry"))
	assert.True(t, IsWord("/TEST"))
	assert.False(t, IsWord("deploy"))
}

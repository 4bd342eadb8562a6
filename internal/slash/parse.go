package slash

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse returns the first recognized command in a comment body.
// A command is a slash token at the start of a line or after whitespace; its
// argument is the rest of that line. Unknown slash words are skipped, as are
// lines inside fenced code blocks and quoted lines.
func Parse(body string) Command {
	inFence := false

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))

		if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence || strings.HasPrefix(line, ">") {
			continue
		}

		if cmd, ok := parseLine(line); ok {
			return cmd
		}
	}

	return Command{Kind: Unrecognized}
}

// parseLine tries every slash token of a line in order
func parseLine(line string) (Command, bool) {
	for i := 0; i < len(line); i++ {
		if line[i] != '/' {
			continue
		}
		if i > 0 {
			prev, _ := utf8.DecodeLastRuneInString(line[:i])
			if !unicode.IsSpace(prev) {
				continue
			}
		}

		if cmd, ok := parseToken(line[i+1:]); ok {
			return cmd, true
		}
	}

	return Command{}, false
}

// parseToken interprets text following a slash
func parseToken(text string) (Command, bool) {
	word, rest := splitWord(text)

	switch strings.ToLower(word) {
	case WordRetry:
		if rest == "" {
			return Command{Kind: RetryAll}, true
		}
		return Command{Kind: RetryNamed, Workflow: rest}, true
	case WordTest:
		return Command{Kind: RetestAll}, true
	case WordStatus:
		return Command{Kind: StatusQuery}, true
	case WordHelp:
		return Command{Kind: HelpQuery}, true
	}

	return Command{}, false
}

// splitWord splits at the first whitespace; rest is trimmed
func splitWord(text string) (string, string) {
	idx := strings.IndexFunc(text, unicode.IsSpace)
	if idx < 0 {
		return text, ""
	}
	return text[:idx], strings.TrimSpace(text[idx:])
}

package commands

import (
	"fmt"
	"io"
	"strings"
)

// formatPostedMessage creates a standardized message for a posted comment
func formatPostedMessage(fullName string, prNumber int) string {
	return fmt.Sprintf("✅ Posted comment on %s#%d\n", fullName, prNumber)
}

// DisplayPostedMessage displays a confirmation that a comment was posted
func DisplayPostedMessage(w io.Writer, fullName string, prNumber int) {
	fmt.Fprint(w, formatPostedMessage(fullName, prNumber))
}

// DisplayReport prints a rendered report followed by a newline
func DisplayReport(w io.Writer, report string) {
	if !strings.HasSuffix(report, "\n") {
		report += "\n"
	}
	fmt.Fprint(w, report)
}

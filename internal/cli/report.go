package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/Colin-McGrath/generatepytest/internal/parser"
	"github.com/fatih/color"
)

// ReportParseIssues prints one line per issue, colored by severity.
func ReportParseIssues(w io.Writer, issues []parser.ParseIssue) {
	if len(issues) == 0 {
		return
	}
	for _, issue := range issues {
		label := color.YellowString("warning")
		if issue.Severity == "error" {
			label = color.RedString("error")
		}
		fmt.Fprintf(w, "%s %s: %s\n", label, issue.File, issue.Message)
	}
	fmt.Fprintln(w, color.RedString("✗ %d file(s) could not be processed", len(issues)))
}

// PrintError reports a command failure. Usage errors are followed by the
// parameter help.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "%s %v\n", color.RedString("error:"), err)
	if errors.Is(err, ErrUsage) {
		PrintUsage(w)
	}
}

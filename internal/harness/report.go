package harness

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	failColor    = lipgloss.Color("#FF0000")
	mutedColor   = lipgloss.Color("#666666")
	successColor = lipgloss.Color("#00CC66")
)

// Styles
var (
	successStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(failColor).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
)

// WriteOutcome prints one transcript line for a finished scenario, with
// an indented detail line on failure. Best-effort failures render muted
// so they read as notes, not verdicts.
func WriteOutcome(w io.Writer, o Outcome) {
	switch {
	case o.Failed() && o.BestEffort:
		fmt.Fprintf(w, "%s %s\n", mutedStyle.Render("~"), o.Title)
		fmt.Fprintf(w, "  %s\n", mutedStyle.Render("cleanup failed (ignored): "+o.Detail))
	case o.Failed():
		fmt.Fprintf(w, "%s %s\n", failStyle.Render("✗"), o.Title)
		fmt.Fprintf(w, "  %s\n", o.Detail)
	default:
		fmt.Fprintf(w, "%s %s\n", successStyle.Render("✓"), o.Title)
	}
}

// WriteSummary prints the final tally line and the verdict.
func WriteSummary(w io.Writer, report *RunReport) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Results: %d passed, %d failed, %d total\n", report.Passed, report.Failed, report.Total)
	if report.Failed > 0 {
		fmt.Fprintln(w, failStyle.Render("FAILED"))
		return
	}
	fmt.Fprintln(w, successStyle.Render("ALL PASSED"))
}

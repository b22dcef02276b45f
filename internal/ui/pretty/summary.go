package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/incremental"
	"github.com/yaklabco/gocst/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 issues (2 errors, 1 warning) in 2 files, 1 fixable".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.DiagnosticsTotal == 0 {
		msg := s.Success.Render("No issues found") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles)))
		// Fixes may have cleared every issue.
		if stats.DiagnosticsFixed > 0 {
			msg += ", " + s.Success.Render(fmt.Sprintf("%d fixed in %d %s",
				stats.DiagnosticsFixed, stats.FilesModified, plural(stats.FilesModified, wordFile, wordFiles)))
		}
		return msg + "\n"
	}

	var parts []string

	var severityParts []string
	if n := stats.DiagnosticsBySeverity[config.SeverityError]; n > 0 {
		severityParts = append(severityParts, s.Error.Render(fmt.Sprintf("%d %s", n, plural(n, "error", "errors"))))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityWarning]; n > 0 {
		severityParts = append(severityParts, s.Warning.Render(fmt.Sprintf("%d %s", n, plural(n, "warning", "warnings"))))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityInfo]; n > 0 {
		severityParts = append(severityParts, s.Info.Render(fmt.Sprintf("%d info", n)))
	}

	issues := fmt.Sprintf("%d %s", stats.DiagnosticsTotal, plural(stats.DiagnosticsTotal, "issue", "issues"))
	if len(severityParts) > 0 {
		issues += " (" + strings.Join(severityParts, ", ") + ")"
	}
	parts = append(parts, issues+fmt.Sprintf(" in %d %s",
		stats.FilesWithIssues, plural(stats.FilesWithIssues, wordFile, wordFiles)))

	if stats.DiagnosticsFixable > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d fixable", stats.DiagnosticsFixable)))
	}

	if stats.DiagnosticsFixed > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d fixed in %d %s",
			stats.DiagnosticsFixed, stats.FilesModified, plural(stats.FilesModified, wordFile, wordFiles))))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, value string) {
		fmt.Fprintf(&builder, "  %-19s%s\n", label+":", value)
	}

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row("Files checked", s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)))
	if stats.FilesWithIssues > 0 {
		row("Files with issues", s.Failure.Render(strconv.Itoa(stats.FilesWithIssues)))
	}
	if stats.FilesModified > 0 {
		row("Files modified", s.Success.Render(strconv.Itoa(stats.FilesModified)))
	}
	if stats.FilesSkipped > 0 {
		row("Files skipped", s.Dim.Render(strconv.Itoa(stats.FilesSkipped)))
	}
	if stats.SnippetBlocks > 0 {
		row("Code blocks", s.SummaryValue.Render(strconv.Itoa(stats.SnippetBlocks)))
	}

	builder.WriteString("\n")

	row("Total issues", s.SummaryValue.Render(strconv.Itoa(stats.DiagnosticsTotal)))
	if n := stats.DiagnosticsBySeverity[config.SeverityError]; n > 0 {
		row("  Errors", s.Error.Render(strconv.Itoa(n)))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityWarning]; n > 0 {
		row("  Warnings", s.Warning.Render(strconv.Itoa(n)))
	}
	if n := stats.DiagnosticsBySeverity[config.SeverityInfo]; n > 0 {
		row("  Info", s.Info.Render(strconv.Itoa(n)))
	}

	if stats.DiagnosticsFixed > 0 {
		builder.WriteString("\n")
		row("Fixes applied", s.Success.Render(strconv.Itoa(stats.DiagnosticsFixed)))
		for _, mode := range []incremental.Mode{incremental.ModeIncremental, incremental.ModeFull} {
			if n := stats.Reparses[mode]; n > 0 {
				row("  "+mode.String()+" reparses", s.SummaryValue.Render(strconv.Itoa(n)))
			}
		}
	}

	builder.WriteString("\n")

	switch {
	case stats.DiagnosticsBySeverity[config.SeverityError] > 0:
		builder.WriteString(s.Failure.Render("Check failed with errors"))
	case stats.DiagnosticsBySeverity[config.SeverityWarning] > 0:
		builder.WriteString(s.Warning.Render("Check completed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Check passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}

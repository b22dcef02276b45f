package pretty

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"
	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/gocst/pkg/check"
	"github.com/yaklabco/gocst/pkg/config"
)

// sourceIndent aligns source context under the diagnostic line.
const sourceIndent = "        "

// DiagnosticFormat controls FormatDiagnostic.
type DiagnosticFormat struct {
	KindFormat config.KindFormat

	// ShowContext prints the source line with a caret under the column.
	ShowContext bool

	// TabWidth expands tabs in the source line. 0 means config.DefaultTabWidth.
	TabWidth int
}

// FormatDiagnostic formats a single diagnostic for terminal output.
// sourceLine is the diagnostic's start line, without its line break.
func (s *Styles) FormatDiagnostic(diag *check.Diagnostic, sourceLine string, opts DiagnosticFormat) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(diag.FilePath),
		diag.StartLine,
		diag.StartColumn,
	)
	kind := config.FormatKind(opts.KindFormat, diag.Kind.ID(), diag.Kind.Name())

	fmt.Fprintf(&builder, "  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
		s.Kind.Render("("+kind+")"),
	)

	if opts.ShowContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, diag.StartColumn, opts.TabWidth))
	}

	if diag.Suggestion != "" {
		builder.WriteString("    " + s.Dim.Render("Suggestion:") + " " +
			s.Suggestion.Render(diag.Suggestion) + "\n")
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render("error")
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	case config.SeverityInfo:
		return s.Info.Render("info")
	default:
		return string(sev)
	}
}

// FormatSourceContext formats the source line with a caret under column,
// a 1-based grapheme column. Tabs are expanded to tabWidth stops so the
// caret lines up with what the terminal shows.
func (s *Styles) FormatSourceContext(line string, column, tabWidth int) string {
	expanded, caret := ExpandTabs(line, column, tabWidth)

	var builder strings.Builder
	builder.WriteString(sourceIndent + s.SourceLine.Render(expanded) + "\n")
	if column > 0 {
		builder.WriteString(sourceIndent + strings.Repeat(" ", caret) + s.Caret.Render("^") + "\n")
	}
	return builder.String()
}

// ExpandTabs replaces tabs in line with spaces up to the next tab stop and
// returns the display cell offset of the 1-based grapheme column.
func ExpandTabs(line string, column, tabWidth int) (string, int) {
	if tabWidth <= 0 {
		tabWidth = config.DefaultTabWidth
	}

	var out strings.Builder
	cells, caret := 0, -1
	scanner := bufio.NewScanner(strings.NewReader(line))
	scanner.Buffer(make([]byte, 0, len(line)+1), len(line)+1)
	scanner.Split(textseg.ScanGraphemeClusters)

	for g := 1; scanner.Scan(); g++ {
		if g == column {
			caret = cells
		}
		cluster := scanner.Text()
		if cluster == "\t" {
			n := tabWidth - cells%tabWidth
			out.WriteString(strings.Repeat(" ", n))
			cells += n
			continue
		}
		out.WriteString(cluster)
		cells += lipgloss.Width(cluster)
	}
	if caret < 0 {
		// Column just past the end of the line.
		caret = cells
	}
	return out.String(), caret
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}

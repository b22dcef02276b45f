// Package pretty renders diagnostics, change spans, summaries and tables
// for the terminal with Lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/yaklabco/gocst/pkg/config"
)

// Styles holds one renderer per kind of output element.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	FilePath   lipgloss.Style
	Location   lipgloss.Style
	Kind       lipgloss.Style
	Message    lipgloss.Style
	Suggestion lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	// Unified diffs and change spans.
	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	// NodeKind marks syntax node and grammar rule names.
	NodeKind lipgloss.Style

	SummaryTitle   lipgloss.Style
	SummaryValue   lipgloss.Style
	Success        lipgloss.Style
	Failure        lipgloss.Style
	TableHeader    lipgloss.Style
	TableErrorRow  lipgloss.Style
	TableWarnRow   lipgloss.Style
	TableSeparator lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// palette is the set of ANSI colors the styles are built from.
type palette struct {
	red, yellow, blue, green, cyan, gray, light lipgloss.Color
}

//nolint:gochecknoglobals // Read-only color table.
var ansiPalette = palette{
	red:    lipgloss.Color("9"),
	yellow: lipgloss.Color("11"),
	blue:   lipgloss.Color("12"),
	green:  lipgloss.Color("10"),
	cyan:   lipgloss.Color("14"),
	gray:   lipgloss.Color("8"),
	light:  lipgloss.Color("7"),
}

// NewStyles returns colored styles, or plain ones that render text
// unchanged when colorEnabled is false.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return plainStyles()
	}
	return paletteStyles(ansiPalette)
}

func paletteStyles(p palette) *Styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	bold := lipgloss.NewStyle().Bold(true)

	return &Styles{
		Error:   fg(p.red).Bold(true),
		Warning: fg(p.yellow).Bold(true),
		Info:    fg(p.blue).Bold(true),

		FilePath:   bold,
		Location:   fg(p.gray),
		Kind:       fg(p.gray),
		Message:    lipgloss.NewStyle(),
		Suggestion: fg(p.green).Italic(true),
		SourceLine: fg(p.light),
		Caret:      fg(p.red),

		DiffHeader:  bold,
		DiffHunk:    fg(p.cyan),
		DiffAdd:     fg(p.green),
		DiffRemove:  fg(p.red),
		DiffContext: fg(p.gray),

		NodeKind: fg(p.blue),

		SummaryTitle:   bold,
		SummaryValue:   lipgloss.NewStyle(),
		Success:        fg(p.green).Bold(true),
		Failure:        fg(p.red).Bold(true),
		TableHeader:    fg(p.light).Bold(true),
		TableErrorRow:  fg(p.red),
		TableWarnRow:   fg(p.yellow),
		TableSeparator: fg(p.gray),

		Dim:  fg(p.gray),
		Bold: bold,
	}
}

func plainStyles() *Styles {
	s := lipgloss.NewStyle()
	return &Styles{
		Error: s, Warning: s, Info: s,
		FilePath: s, Location: s, Kind: s, Message: s, Suggestion: s, SourceLine: s, Caret: s,
		DiffHeader: s, DiffHunk: s, DiffAdd: s, DiffRemove: s, DiffContext: s,
		NodeKind: s,
		SummaryTitle: s, SummaryValue: s, Success: s, Failure: s,
		TableHeader: s, TableErrorRow: s, TableWarnRow: s, TableSeparator: s,
		Dim: s, Bold: s,
	}
}

// IsColorEnabled resolves mode for writer. Auto enables color only on a
// terminal, and never when NO_COLOR is set (https://no-color.org/).
func IsColorEnabled(mode config.ColorMode, writer io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

package pretty

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/gocst/pkg/config"
)

// Table formatting constants.
const (
	tablePadding     = 2
	heavySeparator   = "="
	lightSeparator   = "-"
	defaultTermWidth = 100
	ellipsis         = "..."
)

// Align is the alignment of a column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Column describes one table column.
type Column struct {
	Header   string
	MinWidth int
	Align    Align

	// Flex columns shrink, down to MinWidth, when the table is wider
	// than the terminal.
	Flex bool

	// KeepEnd truncates from the left, for file paths.
	KeepEnd bool
}

type tableRow struct {
	cells     []string
	severity  config.Severity
	separator bool
}

// Table renders rows under a header with severity-based row styling.
type Table struct {
	styles    *Styles
	columns   []Column
	rows      []tableRow
	termWidth int
}

// NewTable creates a table. termWidth <= 0 uses a default width.
func NewTable(styles *Styles, termWidth int, columns ...Column) *Table {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &Table{styles: styles, columns: columns, termWidth: termWidth}
}

// AddRow appends a row. severity may be empty for unstyled rows.
// Missing cells render empty and extra cells are dropped.
func (t *Table) AddRow(severity config.Severity, cells ...string) {
	t.rows = append(t.rows, tableRow{cells: cells, severity: severity})
}

// AddSeparator appends a light separator line between row groups.
func (t *Table) AddSeparator() {
	if len(t.rows) == 0 || t.rows[len(t.rows)-1].separator {
		return
	}
	t.rows = append(t.rows, tableRow{separator: true})
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	n := 0
	for _, r := range t.rows {
		if !r.separator {
			n++
		}
	}
	return n
}

// String renders the table. An empty table renders as "".
func (t *Table) String() string {
	if t.Len() == 0 {
		return ""
	}

	widths := t.widths()
	total := t.totalWidth(widths)

	var builder strings.Builder
	headers := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = col.Header
	}
	builder.WriteString(t.styles.TableHeader.Render(t.line(headers, widths)))
	builder.WriteString("\n")
	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, total)))
	builder.WriteString("\n")

	rows := t.rows
	if rows[len(rows)-1].separator {
		rows = rows[:len(rows)-1]
	}
	for _, row := range rows {
		if row.separator {
			builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(lightSeparator, total)))
		} else {
			builder.WriteString(t.rowStyle(row.severity).Render(t.line(row.cells, widths)))
		}
		builder.WriteString("\n")
	}

	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, total)))
	builder.WriteString("\n")
	return builder.String()
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.columns))
	for i, col := range t.columns {
		widths[i] = max(col.MinWidth, lipgloss.Width(col.Header))
	}
	for _, row := range t.rows {
		for i := range min(len(row.cells), len(widths)) {
			widths[i] = max(widths[i], lipgloss.Width(row.cells[i]))
		}
	}

	// Shrink flex columns, rightmost first.
	for i := len(t.columns) - 1; i >= 0; i-- {
		excess := t.totalWidth(widths) - t.termWidth
		if excess <= 0 {
			break
		}
		col := t.columns[i]
		if !col.Flex {
			continue
		}
		floor := max(col.MinWidth, lipgloss.Width(col.Header), len(ellipsis)+1)
		widths[i] = max(floor, widths[i]-excess)
	}
	return widths
}

func (t *Table) totalWidth(widths []int) int {
	total := 1
	for _, w := range widths {
		total += w
	}
	return total + tablePadding*(len(widths)-1)
}

func (t *Table) line(cells []string, widths []int) string {
	var builder strings.Builder
	builder.WriteString(" ")
	for i, col := range t.columns {
		if i > 0 {
			builder.WriteString(strings.Repeat(" ", tablePadding))
		}
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		if col.KeepEnd {
			cell = truncateStart(cell, widths[i])
		} else {
			cell = truncateEnd(cell, widths[i])
		}
		pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		if col.Align == AlignRight {
			builder.WriteString(pad + cell)
		} else if i < len(t.columns)-1 {
			builder.WriteString(cell + pad)
		} else {
			builder.WriteString(cell)
		}
	}
	return builder.String()
}

func (t *Table) rowStyle(severity config.Severity) lipgloss.Style {
	switch severity {
	case config.SeverityError:
		return t.styles.TableErrorRow
	case config.SeverityWarning:
		return t.styles.TableWarnRow
	default:
		return lipgloss.NewStyle()
	}
}

// truncateEnd shortens str to width cells, ending in "..." if truncated.
func truncateEnd(str string, width int) string {
	if lipgloss.Width(str) <= width {
		return str
	}
	runes := []rune(str)
	if width <= len(ellipsis) {
		return string(runes[:min(width, len(runes))])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+len(ellipsis) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipsis
}

// truncateStart shortens str to width cells, keeping the end.
func truncateStart(str string, width int) string {
	if lipgloss.Width(str) <= width {
		return str
	}
	runes := []rune(str)
	if width <= len(ellipsis) {
		return string(runes[max(0, len(runes)-width):])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+len(ellipsis) > width {
		runes = runes[1:]
	}
	return ellipsis + string(runes)
}

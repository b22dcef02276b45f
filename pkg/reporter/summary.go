package reporter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yaklabco/gocst/internal/ui/pretty"
	"github.com/yaklabco/gocst/pkg/analysis"
	"github.com/yaklabco/gocst/pkg/config"
)

const (
	fixableMark     = "yes"
	minKindColWidth = 20
	minFileColWidth = 30
)

// SummaryRenderer formats results as aggregated tables, one row per
// diagnostic kind and one per file.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
	out    io.Writer
}

// NewSummaryRenderer creates a new summary renderer.
func NewSummaryRenderer(opts Options) *SummaryRenderer {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		out:    opts.Writer,
	}
}

// Render implements Renderer.
func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) error {
	if report.Totals.Issues == 0 {
		fmt.Fprintln(r.out, r.styles.Success.Render("No issues found")+
			r.styles.Dim.Render(fmt.Sprintf(" (%d files checked)", report.Totals.Files)))
		return nil
	}

	var builder strings.Builder
	r.renderKindTable(&builder, report.ByKind)
	builder.WriteString("\n")
	r.renderFileTable(&builder, report.ByFile)
	builder.WriteString("\n")
	r.renderTotals(&builder, report.Totals)

	_, err := io.WriteString(r.out, builder.String())
	return err
}

func (r *SummaryRenderer) renderKindTable(builder *strings.Builder, kinds []analysis.KindAnalysis) {
	table := pretty.NewTable(r.styles, r.opts.TermWidth,
		pretty.Column{Header: "KIND", MinWidth: minKindColWidth, Flex: true},
		pretty.Column{Header: "COUNT", Align: pretty.AlignRight},
		pretty.Column{Header: "ERRORS", Align: pretty.AlignRight},
		pretty.Column{Header: "WARNINGS", Align: pretty.AlignRight},
		pretty.Column{Header: "FIXABLE"},
	)
	for _, kind := range kinds {
		fixable := ""
		if kind.Fixable {
			fixable = fixableMark
		}
		table.AddRow(rowSeverity(kind.Errors, kind.Warnings),
			config.FormatKind(r.opts.KindFormat, kind.KindID, kind.KindName),
			strconv.Itoa(kind.Issues),
			strconv.Itoa(kind.Errors),
			strconv.Itoa(kind.Warnings),
			fixable,
		)
	}
	if table.Len() == 0 {
		return
	}
	builder.WriteString(r.styles.Bold.Render("Kinds Summary") + "\n")
	builder.WriteString(table.String())
}

func (r *SummaryRenderer) renderFileTable(builder *strings.Builder, files []analysis.FileAnalysis) {
	table := pretty.NewTable(r.styles, r.opts.TermWidth,
		pretty.Column{Header: "FILE", MinWidth: minFileColWidth, Flex: true, KeepEnd: true},
		pretty.Column{Header: "COUNT", Align: pretty.AlignRight},
		pretty.Column{Header: "ERRORS", Align: pretty.AlignRight},
		pretty.Column{Header: "WARNINGS", Align: pretty.AlignRight},
	)
	for _, file := range files {
		table.AddRow(rowSeverity(file.Errors, file.Warnings),
			file.Path,
			strconv.Itoa(file.Issues),
			strconv.Itoa(file.Errors),
			strconv.Itoa(file.Warnings),
		)
	}
	if table.Len() == 0 {
		return
	}
	builder.WriteString(r.styles.Bold.Render("Files Summary") + "\n")
	builder.WriteString(table.String())
}

func (r *SummaryRenderer) renderTotals(builder *strings.Builder, totals analysis.Totals) {
	issues := fmt.Sprintf("%d %s", totals.Issues, plural(totals.Issues, "issue", "issues"))

	var severityParts []string
	if totals.Errors > 0 {
		severityParts = append(severityParts, r.styles.Error.Render(
			fmt.Sprintf("%d %s", totals.Errors, plural(totals.Errors, "error", "errors"))))
	}
	if totals.Warnings > 0 {
		severityParts = append(severityParts, r.styles.Warning.Render(
			fmt.Sprintf("%d %s", totals.Warnings, plural(totals.Warnings, "warning", "warnings"))))
	}
	if totals.Infos > 0 {
		severityParts = append(severityParts, r.styles.Info.Render(fmt.Sprintf("%d info", totals.Infos)))
	}
	if len(severityParts) > 0 {
		issues += " (" + strings.Join(severityParts, ", ") + ")"
	}

	line := fmt.Sprintf("%s in %d %s", issues, totals.FilesWithIssues,
		plural(totals.FilesWithIssues, "file", "files"))
	if totals.Fixable > 0 {
		line += ", " + r.styles.Success.Render(fmt.Sprintf("%d fixable", totals.Fixable))
	}
	builder.WriteString(r.styles.Bold.Render("Total: ") + line + "\n")
}

func rowSeverity(errors, warnings int) config.Severity {
	switch {
	case errors > 0:
		return config.SeverityError
	case warnings > 0:
		return config.SeverityWarning
	default:
		return ""
	}
}

package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/gocst/internal/ui/pretty"
	"github.com/yaklabco/gocst/pkg/analysis"
	"github.com/yaklabco/gocst/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(ctx context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to check."))
		}
		return 0, nil
	}

	var total int
	for _, file := range result.Files {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		total += r.reportFile(file)
	}

	for _, runErr := range result.Errors {
		fmt.Fprintln(r.bw, r.styles.Error.Render(fmt.Sprintf("error: %v", runErr)))
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats))
	}

	return total, nil
}

func (r *TextReporter) reportFile(file runner.FileOutcome) int {
	path := analysis.RelativePath(file.Path, r.opts.WorkingDir)

	if file.Error != nil {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
		)
		return 0
	}

	res := file.Result
	if res == nil {
		return 0
	}
	if res.Skipped && res.SkipReason != "" {
		fmt.Fprintf(r.bw, "%s: %s\n",
			r.styles.FilePath.Render(path),
			r.styles.Dim.Render("skipped: "+res.SkipReason),
		)
	}
	if res.FileResult == nil || len(res.Diagnostics) == 0 {
		return 0
	}

	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, len(res.Diagnostics)))
	}

	format := pretty.DiagnosticFormat{
		KindFormat:  r.opts.KindFormat,
		ShowContext: r.opts.ShowContext,
		TabWidth:    file.TabWidth,
	}
	for _, diag := range res.Diagnostics {
		var sourceLine string
		if r.opts.ShowContext && res.Source != nil {
			sourceLine = res.Source.LineContent(diag.StartLine)
		}
		diag.FilePath = path
		fmt.Fprint(r.bw, r.styles.FormatDiagnostic(&diag, sourceLine, format))
	}

	if r.opts.GroupByFile {
		fmt.Fprintln(r.bw)
	}
	return len(res.Diagnostics)
}

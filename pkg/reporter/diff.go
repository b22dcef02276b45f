package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/gocst/internal/ui/pretty"
	"github.com/yaklabco/gocst/pkg/analysis"
	"github.com/yaklabco/gocst/pkg/changes"
	"github.com/yaklabco/gocst/pkg/runner"
)

// DiffReporter writes the pending fixes of a dry run as git-style unified diffs.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter. It returns the number of files with changes.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var files, additions, deletions int
	for _, file := range result.Files {
		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(analysis.RelativePath(file.Path, r.opts.WorkingDir)),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}
		if file.Result == nil || !file.Result.Diff.HasChanges() {
			continue
		}

		diff := *file.Result.Diff
		diff.Path = analysis.RelativePath(diff.Path, r.opts.WorkingDir)
		r.writeDiff(&diff)

		files++
		additions += diff.Additions
		deletions += diff.Deletions
	}

	if files > 0 && r.opts.ShowSummary {
		r.writeSummary(files, additions, deletions)
	}

	return files, nil
}

func (r *DiffReporter) writeDiff(diff *changes.Unified) {
	fmt.Fprintln(r.bw, r.styles.DiffHeader.Render(diff.GitHeader()))

	for line := range strings.Lines(diff.String()) {
		fmt.Fprintln(r.bw, r.styles.FormatDiffLine(strings.TrimSuffix(line, "\n")))
	}

	fmt.Fprintln(r.bw)
}

// writeSummary writes a git-style shortstat line.
func (r *DiffReporter) writeSummary(files, additions, deletions int) {
	parts := []string{fmt.Sprintf("%d %s changed", files, plural(files, "file", "files"))}

	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(
			fmt.Sprintf("%d %s(+)", additions, plural(additions, "insertion", "insertions"))))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(
			fmt.Sprintf("%d %s(-)", deletions, plural(deletions, "deletion", "deletions"))))
	}

	fmt.Fprintln(r.bw, strings.Join(parts, ", "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

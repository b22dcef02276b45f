package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gocst/internal/ui/pretty"
	"github.com/yaklabco/gocst/pkg/changes"
	"github.com/yaklabco/gocst/pkg/check"
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/fsutil"
	"github.com/yaklabco/gocst/pkg/incremental"
	"github.com/yaklabco/gocst/pkg/script"
	"github.com/yaklabco/gocst/pkg/source"
	"github.com/yaklabco/gocst/pkg/syntax"
)

// stdinPath names standard input on the command line.
const stdinPath = "-"

// readSource reads path from fsys, or standard input when path is "-".
func readSource(cmd *cobra.Command, fsys afero.Fs, path string) ([]byte, error) {
	if path == stdinPath {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, _, err := fsutil.ReadFile(cmd.Context(), fsys, path)
	return data, err
}

// displayPath is the name used for path in diagnostics.
func displayPath(path string) string {
	if path == stdinPath {
		return "<stdin>"
	}
	return path
}

// treePrinter writes the diagnostics and changes of single trees, for the
// commands that work on one document rather than a file set.
type treePrinter struct {
	out    io.Writer
	styles *pretty.Styles
	engine *check.Engine
	format pretty.DiagnosticFormat
}

func newTreePrinter(out io.Writer, cfg *config.Config, showContext bool) *treePrinter {
	return &treePrinter{
		out:    out,
		styles: pretty.NewStyles(pretty.IsColorEnabled(cfg.Color, out)),
		engine: check.NewEngine(cfg),
		format: pretty.DiagnosticFormat{
			KindFormat:  cfg.KindFormat,
			ShowContext: showContext,
			TabWidth:    cfg.TabWidth,
		},
	}
}

// diagnostics prints the enabled diagnostics of tree and returns how many
// of them are errors.
func (p *treePrinter) diagnostics(tree *syntax.Tree) int {
	result := p.engine.CheckTree(tree)
	buf := tree.Buffer()
	for _, diag := range result.Diagnostics {
		fmt.Fprint(p.out, p.styles.FormatDiagnostic(&diag, buf.LineContent(diag.StartLine), p.format))
	}
	return result.CountSeverity(config.SeverityError)
}

// changes prints one line per change span.
func (p *treePrinter) changes(spans []changes.Span, oldBuf, newBuf *source.Buffer) {
	if len(spans) == 0 {
		fmt.Fprintln(p.out, p.styles.Dim.Render("  no changes"))
		return
	}
	for _, span := range spans {
		fmt.Fprint(p.out, p.styles.FormatChange(span, oldBuf, newBuf))
	}
}

// unified prints a colored unified diff.
func (p *treePrinter) unified(u *changes.Unified) {
	if !u.HasChanges() {
		return
	}
	fmt.Fprintln(p.out, p.styles.DiffHeader.Render(u.GitHeader()))
	for line := range strings.Lines(u.String()) {
		fmt.Fprintln(p.out, p.styles.FormatDiffLine(strings.TrimSuffix(line, "\n")))
	}
}

// reparse prints how one edit was absorbed into the tree.
func (p *treePrinter) reparse(edit source.Edit, rr incremental.Result) {
	mode := p.styles.Success.Render(rr.Mode.String())
	if rr.Mode == incremental.ModeFull {
		mode = p.styles.Warning.Render(rr.Mode.String())
	}
	fmt.Fprintf(p.out, "  edit [%d,%d) %q: %s reparse as %s in %s, -%d +%d nodes, %d %s, %d %s\n",
		edit.StartOffset, edit.EndOffset, edit.NewText,
		mode,
		p.styles.Kind.Render(rr.Context.String()),
		p.styles.NodeKind.Render(rr.Parent.String()),
		rr.Replaced, rr.Inserted,
		rr.Tokens, plural(rr.Tokens, "token", "tokens"),
		rr.Attempts, plural(rr.Attempts, "attempt", "attempts"),
	)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// step prints one replayed or typed step: its reparses, its change spans
// and the diagnostics of the tree it produced.
func (p *treePrinter) step(label string, res script.StepResult) {
	status := ""
	if res.Verified {
		status = " " + p.styles.Success.Render("verified")
	}
	fmt.Fprintf(p.out, "%s%s\n", p.styles.Bold.Render(label), status)
	for i, rr := range res.Reparses {
		p.reparse(res.Edits[i], rr)
	}
	p.changes(res.Spans, res.Before.Buffer(), res.After.Buffer())
	p.diagnostics(res.After)
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocst/internal/logging"
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/fsutil"
	"github.com/yaklabco/gocst/pkg/lexer"
	"github.com/yaklabco/gocst/pkg/parser"
	"github.com/yaklabco/gocst/pkg/source"
	"github.com/yaklabco/gocst/pkg/syntax"
)

// Parse output formats.
const (
	parseFormatTree   = "tree"
	parseFormatJSON   = "json"
	parseFormatTokens = "tokens"
)

type parseFlags struct {
	format    string
	trivia    bool
	noContext bool
	compact   bool
}

func newParseCommand() *cobra.Command {
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the syntax tree of a file",
		Long: `Parse one file and print its concrete syntax tree.

The tree format indents one node per line. Tokens show their text, and
with --trivia their leading and trailing whitespace and comments. The
json format prints the same tree with byte offsets. The tokens format
prints the raw token stream without parsing.

Diagnostics are printed to stderr. Use - to read standard input.

Examples:
  gocst parse main.c
  gocst parse --trivia main.c
  gocst parse --format json main.c | jq .
  echo 'int x = ;' | gocst parse -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", parseFormatTree, "output format: tree, json, tokens")
	cmd.Flags().BoolVar(&flags.trivia, "trivia", false, "show token trivia in tree output")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source lines in diagnostics")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "unindented JSON")

	return cmd
}

func runParse(cmd *cobra.Command, path string, flags *parseFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	switch flags.format {
	case parseFormatTree, parseFormatJSON, parseFormatTokens:
	default:
		return fmt.Errorf("invalid format %q: must be tree, json, or tokens", flags.format)
	}

	cfg, _, err := loadConfig(cmd, &config.Config{})
	if err != nil {
		return err
	}

	content, err := readSource(cmd, fsutil.OS(), path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if flags.format == parseFormatTokens {
		return writeTokens(out, string(content), flags.trivia)
	}

	tree, err := parser.Parse(ctx, source.FromBytes(displayPath(path), content),
		parser.WithCheckInterval(cfg.CheckInterval))
	if err != nil {
		return fmt.Errorf("parse %s: %w", displayPath(path), err)
	}
	logger.Debug("parsed", logging.FieldFile, displayPath(path), logging.FieldCount, len(tree.Diagnostics()))

	switch flags.format {
	case parseFormatJSON:
		enc := json.NewEncoder(out)
		if !flags.compact {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(syntax.ToJSON(tree.Root())); err != nil {
			return fmt.Errorf("encode tree: %w", err)
		}
	default:
		if err := syntax.Dump(out, tree.Root(), syntax.DumpOptions{ShowTrivia: flags.trivia}); err != nil {
			return fmt.Errorf("dump tree: %w", err)
		}
	}

	printer := newTreePrinter(cmd.ErrOrStderr(), cfg, !flags.noContext)
	if printer.diagnostics(tree) > 0 {
		return ErrIssuesFound
	}
	return nil
}

// writeTokens prints one token per line: offset, kind and quoted text.
func writeTokens(w io.Writer, text string, trivia bool) error {
	for tok := range lexer.All(text) {
		line := fmt.Sprintf("%6d  %-14s %q", tok.TextSpan().Start, tok.Kind, tok.Text)
		if trivia {
			line += fmt.Sprintf("  leading=%q trailing=%q", joinTrivia(tok.Leading), joinTrivia(tok.Trailing))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write tokens: %w", err)
		}
	}
	return nil
}

func joinTrivia(list []syntax.Trivia) string {
	var sb strings.Builder
	for _, tr := range list {
		sb.WriteString(tr.Text)
	}
	return sb.String()
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocst/internal/logging"
	"github.com/yaklabco/gocst/pkg/changes"
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/fsutil"
	"github.com/yaklabco/gocst/pkg/parser"
	"github.com/yaklabco/gocst/pkg/source"
)

type diffFlags struct {
	unified bool
}

func newDiffCommand() *cobra.Command {
	flags := &diffFlags{}

	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Report the changed regions between two files",
		Long: `Parse two files and report where their trees differ.

Each change is printed as the line and column in OLD, the byte offset in
OLD, the number of bytes removed and the number inserted, followed by the
removed and inserted text. Subtrees with identical text are skipped
without being visited. Differences in whitespace and comments are
changes too, since they are part of the tree.

Exits with 1 when the files differ, like diff(1).

Examples:
  gocst diff old.c new.c
  gocst diff --unified old.c new.c`,
		Args: cobra.ExactArgs(2), //nolint:mnd // OLD and NEW
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, args[0], args[1], flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.unified, "unified", "u", false, "also print a unified diff of the changed lines")

	return cmd
}

func runDiff(cmd *cobra.Command, oldPath, newPath string, flags *diffFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	cfg, _, err := loadConfig(cmd, &config.Config{})
	if err != nil {
		return err
	}

	fsys := fsutil.OS()
	var bufs [2]*source.Buffer
	for i, path := range []string{oldPath, newPath} {
		content, err := readSource(cmd, fsys, path)
		if err != nil {
			return err
		}
		bufs[i] = source.FromBytes(displayPath(path), content)
	}

	oldTree, err := parser.Parse(ctx, bufs[0], parser.WithCheckInterval(cfg.CheckInterval))
	if err != nil {
		return fmt.Errorf("parse %s: %w", bufs[0].Path, err)
	}
	newTree, err := parser.Parse(ctx, bufs[1], parser.WithCheckInterval(cfg.CheckInterval))
	if err != nil {
		return fmt.Errorf("parse %s: %w", bufs[1].Path, err)
	}

	spans, err := changes.Diff(ctx, oldTree, newTree, changes.WithCheckInterval(cfg.CheckInterval))
	if err != nil {
		return fmt.Errorf("diff trees: %w", err)
	}
	logger.Debug("diffed", logging.FieldSpans, len(spans))

	printer := newTreePrinter(cmd.OutOrStdout(), cfg, false)
	printer.changes(spans, bufs[0], bufs[1])
	if flags.unified {
		printer.unified(changes.Unify(bufs[1].Path, bufs[0], bufs[1], spans))
	}

	if len(spans) > 0 {
		return ErrIssuesFound
	}
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gocst/internal/logging"
	"github.com/yaklabco/gocst/pkg/changes"
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/format"
	"github.com/yaklabco/gocst/pkg/fsutil"
	"github.com/yaklabco/gocst/pkg/parser"
	"github.com/yaklabco/gocst/pkg/source"
	"github.com/yaklabco/gocst/pkg/syntax"
)

var errWriteStdin = errors.New("cannot write standard input in place")

type fmtFlags struct {
	write bool
	list  bool
	diff  bool
}

func newFmtCommand() *cobra.Command {
	var cfg config.Config
	flags := &fmtFlags{}

	cmd := &cobra.Command{
		Use:   "fmt [files...]",
		Short: "Rewrite the whitespace of C files into one layout",
		Long: `Lay out C files canonically, keeping every token and comment.

Each declaration and statement goes on its own line, indented one level
per block. A single blank line between items is kept. Statements with
syntax errors keep their inner spacing. The result always parses to the
same tokens and diagnostics as the input.

Without files, reads standard input. Without --write, --list or --diff,
prints the formatted text.

Exits with 1 when --list or --diff finds a file that is not formatted.

Examples:
  gocst fmt main.c                 # Print main.c formatted
  gocst fmt -w src/*.c             # Rewrite files in place
  gocst fmt -l src/*.c             # List files that would change
  gocst fmt -d --tabs main.c       # Show the changes as a diff`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, &cfg, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "write the result to each file")
	cmd.Flags().BoolVarP(&flags.list, "list", "l", false, "list files whose layout differs")
	cmd.Flags().BoolVarP(&flags.diff, "diff", "d", false, "print a unified diff of the changes")
	cmd.Flags().BoolVar(&cfg.Backups, "backups", false, "keep a backup of each rewritten file")
	cmd.Flags().IntVar(&cfg.Layout.IndentWidth, "indent", 0, "spaces per indentation level")
	cmd.Flags().BoolVar(&cfg.Layout.UseTabs, "tabs", false, "indent with tabs")

	return cmd
}

func runFmt(cmd *cobra.Command, args []string, cli *config.Config, flags *fmtFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	if len(args) == 0 {
		args = []string{stdinPath}
	}
	if flags.write && slices.Contains(args, stdinPath) {
		return errWriteStdin
	}

	cfg, _, err := loadConfig(cmd, cli)
	if err != nil {
		return err
	}
	opts := format.Options{Indent: cfg.Layout.Indent()}

	fsys := fsutil.OS()
	printer := newTreePrinter(cmd.OutOrStdout(), cfg, false)
	unformatted := 0

	for _, path := range args {
		content, info, err := readWithInfo(cmd, fsys, path)
		if err != nil {
			return err
		}
		tree, err := parser.Parse(ctx, source.FromBytes(displayPath(path), content),
			parser.WithCheckInterval(cfg.CheckInterval))
		if err != nil {
			return fmt.Errorf("parse %s: %w", displayPath(path), err)
		}
		formatted, err := format.Normalize(ctx, tree, opts)
		if err != nil {
			return fmt.Errorf("format %s: %w", displayPath(path), err)
		}
		changed := formatted != tree
		if changed {
			unformatted++
		}
		logger.Debug("formatted", logging.FieldFile, displayPath(path), logging.FieldModified, changed)

		switch {
		case flags.list:
			if changed {
				fmt.Fprintln(cmd.OutOrStdout(), displayPath(path))
			}
		case flags.diff:
			if err := printLayoutDiff(ctx, printer, tree, formatted); err != nil {
				return err
			}
		case flags.write:
			if changed {
				if err := writeFormatted(ctx, fsys, info, formatted, cfg.Backups); err != nil {
					return err
				}
			}
		default:
			fmt.Fprint(cmd.OutOrStdout(), formatted.Text())
		}
	}

	logger.Info("fmt finished", logging.FieldFilesProcessed, len(args), logging.FieldFilesModified, unformatted)
	if unformatted > 0 && (flags.list || flags.diff) {
		return ErrIssuesFound
	}
	return nil
}

// readWithInfo is readSource that also returns the file state, which is
// nil for standard input.
func readWithInfo(cmd *cobra.Command, fsys afero.Fs, path string) ([]byte, *fsutil.FileInfo, error) {
	if path == stdinPath {
		content, err := readSource(cmd, fsys, path)
		return content, nil, err
	}
	return fsutil.ReadFile(cmd.Context(), fsys, path)
}

func printLayoutDiff(ctx context.Context, printer *treePrinter, before, after *syntax.Tree) error {
	if before == after {
		return nil
	}
	spans, err := changes.Diff(ctx, before, after)
	if err != nil {
		return fmt.Errorf("diff trees: %w", err)
	}
	printer.unified(changes.Unify(before.Buffer().Path, before.Buffer(), after.Buffer(), spans))
	return nil
}

// writeFormatted replaces the file described by info with tree's text.
// The write is abandoned when the file changed since it was read, and a
// failed write restores the backup.
func writeFormatted(ctx context.Context, fsys afero.Fs, info *fsutil.FileInfo, tree *syntax.Tree, backup bool) error {
	modified, err := fsutil.CheckModified(ctx, fsys, info, false)
	if err != nil {
		return fmt.Errorf("check modified: %w", err)
	}
	if modified {
		return fmt.Errorf("%s: file modified during formatting", info.Path)
	}

	created := false
	if backup {
		if created, err = fsutil.CreateBackup(ctx, fsys, info.Path); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	}
	if err := fsutil.WriteAtomic(ctx, fsys, info.Path, []byte(tree.Text()), info.Mode); err != nil {
		err = fmt.Errorf("write %s: %w", info.Path, err)
		if created {
			if _, restoreErr := fsutil.RestoreBackup(ctx, fsys, info.Path); restoreErr != nil {
				err = errors.Join(err, restoreErr)
			}
		}
		return err
	}
	return nil
}

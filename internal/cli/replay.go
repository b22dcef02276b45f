package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocst/internal/logging"
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/fsutil"
	"github.com/yaklabco/gocst/pkg/script"
)

// outputFilePermissions is the mode of files written by replay.
const outputFilePermissions os.FileMode = 0o644

type replayFlags struct {
	verify    bool
	write     string
	quiet     bool
	noContext bool
}

func newReplayCommand() *cobra.Command {
	flags := &replayFlags{}

	cmd := &cobra.Command{
		Use:   "replay SCRIPT",
		Short: "Play an edit script through the incremental reparser",
		Long: `Load a YAML edit script, parse its initial text, and apply each step's
edits with incremental reparsing. For every edit the reparse mode and the
grammar rule it was anchored on are printed, then the regions that changed
in the step and the diagnostics of the resulting tree.

With --verify (the default), every incremental tree is compared against a
full parse of the same text, and the first divergence fails the replay.

Script format:
  path: example.c
  initial: |
    int x = 1;
  steps:
    - name: widen constant
      edits:
        - {start: 8, end: 9, text: "12"}
      expect: |
        int x = 12;
    - edits:
        - {find: "x", text: "y"}

Examples:
  gocst replay edits.yml
  gocst replay --write out.c edits.yml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.verify, "verify", true, "compare each step against a full parse")
	cmd.Flags().StringVarP(&flags.write, "write", "w", "", "write the final document to this file")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "print only failures")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source lines in diagnostics")

	return cmd
}

func runReplay(cmd *cobra.Command, path string, flags *replayFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	cfg, _, err := loadConfig(cmd, &config.Config{})
	if err != nil {
		return err
	}

	fsys := fsutil.OS()
	data, err := readSource(cmd, fsys, path)
	if err != nil {
		return err
	}
	sc, err := script.LoadBytes(data)
	if err != nil {
		return fmt.Errorf("load script %s: %w", displayPath(path), err)
	}
	if sc.Path == "" {
		sc.Path = "document.c"
	}

	sess, results, playErr := script.Play(ctx, sc,
		script.WithVerify(flags.verify),
		script.WithCheckInterval(cfg.CheckInterval),
	)

	printer := newTreePrinter(cmd.OutOrStdout(), cfg, !flags.noContext)
	if !flags.quiet {
		for i, res := range results {
			printer.step(sc.Steps[i].Label(i), res)
		}
	}
	if playErr != nil {
		var stepErr *script.StepError
		if errors.As(playErr, &stepErr) {
			logger.Error("replay failed", logging.FieldStep, stepErr.Index+1, logging.FieldError, stepErr.Err)
		}
		return fmt.Errorf("replay %s: %w", displayPath(path), playErr)
	}
	logger.Info("replay finished", logging.FieldCount, len(results))

	if flags.write != "" {
		if err := fsutil.WriteAtomic(ctx, fsys, flags.write, []byte(sess.Text()), outputFilePermissions); err != nil {
			return fmt.Errorf("write %s: %w", flags.write, err)
		}
		logger.Info("wrote document", logging.FieldPath, flags.write)
	}

	if sess.Tree().HasErrors() {
		return ErrIssuesFound
	}
	return nil
}

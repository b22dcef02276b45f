package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gocst/internal/logging"
	"github.com/yaklabco/gocst/pkg/check"
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/reporter"
	"github.com/yaklabco/gocst/pkg/runner"
)

type checkFlags struct {
	format     string
	kindFormat string
	ignore     []string
	include    []string
	enable     []string
	disable    []string
	languages  []string
	strict     bool
	noContext  bool
	compact    bool
}

func newCheckCommand() *cobra.Command {
	var cfg config.Config
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check C sources for syntax errors",
		Long:  checkLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, &cfg, flags)
		},
	}

	addCheckFlags(cmd, &cfg, flags)

	return cmd
}

const checkLongDescription = `Parse C files and report syntax errors.

By default, checks every .c and .h file under the current directory.
Headers that look like C++ are skipped. With --snippets, fenced C code
blocks in Markdown files are checked too and reported at their position
in the Markdown file.

Missing semicolons, parentheses and brackets carry a fix. --fix applies
fixes in passes, reparsing incrementally after each one, and writes files
atomically.

Examples:
  gocst check                      # Check current directory
  gocst check src/ include/        # Check two directories
  gocst check --fix                # Apply fixes in place
  gocst check --fix --dry-run      # Print fixes as a unified diff
  gocst check --format sarif       # SARIF for code scanning
  gocst check --snippets docs/     # Check C blocks in Markdown`

func runCheck(cmd *cobra.Command, args []string, cli *config.Config, flags *checkFlags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}
	if cmd.Flags().Changed("format") {
		cli.Format = format
	}
	if flags.kindFormat != "" {
		cli.KindFormat = config.KindFormat(flags.kindFormat)
	}
	cli.Ignore = flags.ignore
	cli.Include = flags.include
	cli.Enable = flags.enable
	cli.Disable = flags.disable
	if len(flags.languages) > 0 {
		cli.Snippets.Languages = flags.languages
	}

	cfg, workDir, err := loadConfig(cmd, cli)
	if err != nil {
		return err
	}
	// --dry-run alone previews fixes.
	if cfg.DryRun {
		cfg.Fix = true
	}
	if cfg.DryRun && !cmd.Flags().Changed("format") && cfg.Format == config.FormatText {
		cfg.Format = config.FormatDiff
	}

	logger.Debug("configuration loaded",
		logging.FieldFix, cfg.Fix,
		logging.FieldDryRun, cfg.DryRun,
		logging.FieldJobs, cfg.Jobs,
	)

	pipeline := check.NewPipeline(check.NewEngine(cfg), nil)
	checkRunner := runner.New(pipeline)

	runOpts := runner.OptionsFromConfig(cfg, args)
	runOpts.WorkingDir = workDir

	start := time.Now()
	result, err := checkRunner.Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("check run failed: %w", err)
	}
	logger.Info("check finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
		logging.FieldFilesModified, result.Stats.FilesModified,
		logging.FieldDuration, time.Since(start),
	)

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      cfg.Format,
		Color:       cfg.Color,
		ShowContext: !flags.noContext,
		ShowSummary: true,
		GroupByFile: true,
		Compact:     flags.compact,
		KindFormat:  cfg.KindFormat,
		WorkingDir:  workDir,
		Version:     cmd.Root().Version,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	for _, runErr := range result.Errors {
		logger.Error("check failed", logging.FieldError, runErr)
	}

	switch ExitCodeFromResult(result, flags.strict) {
	case ExitError:
		return errFilesFailed
	case ExitIssues:
		return ErrIssuesFound
	default:
		return nil
	}
}

func addCheckFlags(cmd *cobra.Command, cfg *config.Config, flags *checkFlags) {
	cmd.Flags().BoolVar(&cfg.Fix, "fix", false, "apply fixes in place")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show fixes without writing them")
	cmd.Flags().BoolVar(&cfg.Backups, "backups", false, "keep a backup of each fixed file")
	cmd.Flags().IntVar(&cfg.MaxFixPasses, "max-fix-passes", 0, "upper bound on fix passes per file")
	cmd.Flags().StringVar(&flags.format, "format", string(config.FormatText),
		"output format: text, json, sarif, summary, diff")
	cmd.Flags().StringVar(&flags.kindFormat, "kind-format", "",
		"diagnostic kind format in output: name, id, or combined")
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = one per CPU)")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "glob patterns of files to check")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&cfg.FollowSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "diagnostic IDs or names to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "diagnostic IDs or names to disable")
	cmd.Flags().BoolVar(&cfg.Snippets.Enabled, "snippets", false, "check C code blocks in Markdown files")
	cmd.Flags().BoolVar(&cfg.Snippets.Detect, "detect", false, "classify untagged code blocks by content")
	cmd.Flags().StringSliceVar(&flags.languages, "languages", nil, "fence tags treated as C")
	cmd.Flags().IntVar(&cfg.TabWidth, "tab-width", 0, "tab width for caret alignment without .editorconfig")
	cmd.Flags().IntVar(&cfg.CheckInterval, "check-interval", 0, "tokens between cancellation checks")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "fail on warnings as well as errors")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source lines in text output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "unindented JSON and SARIF")
}

package check

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/afero"

	"github.com/yaklabco/gocst/internal/logging"
	"github.com/yaklabco/gocst/pkg/changes"
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/fsutil"
	"github.com/yaklabco/gocst/pkg/incremental"
	"github.com/yaklabco/gocst/pkg/source"
	"github.com/yaklabco/gocst/pkg/syntax"
)

// DefaultMaxFixPasses bounds the fix loop. Each pass can only insert
// punctuation the previous tree was missing, so a handful is plenty.
const DefaultMaxFixPasses = config.DefaultMaxFixPasses

// Pipeline error types for categorization.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrParseFailure     = errors.New("parse failure")
	ErrWriteFailure     = errors.New("write failure")
)

// Result contains the outcome of processing one file.
type Result struct {
	// FileResult reflects the final tree, after all fix passes.
	*FileResult

	Path string

	// Source is the text the diagnostics refer to: the final content of a
	// C file, or the whole document for Markdown snippets.
	Source *source.Buffer

	// OriginalInfo is the file state before processing. Nil for content
	// that did not come from the filesystem.
	OriginalInfo *fsutil.FileInfo

	// Original is the tree of the content as read.
	Original *syntax.Tree

	// Modified is true if fixes changed the content.
	Modified bool

	// ModifiedContent is the fixed content (nil if not modified).
	ModifiedContent []byte

	// Changes are the spans where the fixed tree differs from the original.
	Changes []changes.Span

	// Diff is the unified diff, set in dry-run mode.
	Diff *changes.Unified

	// Skipped is true if the write was abandoned.
	Skipped    bool
	SkipReason string

	BackupCreated bool
	Written       bool

	FixPasses         int
	TotalEditsApplied int

	// Reparses counts how fix edits were reparsed, by mode.
	Reparses map[incremental.Mode]int
}

// Summary returns a short description of what happened to the file.
func (r *Result) Summary() string {
	switch {
	case r.Skipped:
		return "skipped: " + r.SkipReason
	case r.Written && r.BackupCreated:
		return "fixed (backup created)"
	case r.Written:
		return "fixed"
	case r.Modified:
		return "changes pending"
	case r.FileResult != nil && r.HasIssues():
		return "issues found"
	default:
		return "ok"
	}
}

// Options controls pipeline behavior.
type Options struct {
	Fix    bool
	DryRun bool
	Backup bool

	// StrictRaceDetection re-hashes the file before writing; otherwise
	// only mod time and size are compared.
	StrictRaceDetection bool

	// MaxFixPasses limits fix iterations. 0 means DefaultMaxFixPasses.
	MaxFixPasses int
}

// OptionsFromConfig creates Options from configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{StrictRaceDetection: true}
	}
	return Options{
		Fix:                 cfg.Fix,
		DryRun:              cfg.DryRun,
		Backup:              cfg.Backups,
		StrictRaceDetection: true,
		MaxFixPasses:        cfg.MaxFixPasses,
	}
}

// Pipeline checks, fixes and writes files.
type Pipeline struct {
	Engine *Engine
	Fs     afero.Fs
}

// NewPipeline creates a pipeline over fsys. A nil fsys means the OS
// filesystem.
func NewPipeline(engine *Engine, fsys afero.Fs) *Pipeline {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Pipeline{Engine: engine, Fs: fsys}
}

// ProcessFile reads path, checks it and, in fix mode, repairs it:
//  1. Read and hash the file.
//  2. Parse, check, and apply fix edits with incremental reparses until no
//     fixes remain or the pass limit is hit.
//  3. In dry-run mode, produce a unified diff and stop.
//  4. Abandon the write if the file changed meanwhile.
//  5. Create a backup if enabled, then write atomically.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, opts Options) (*Result, error) {
	content, info, err := fsutil.ReadFile(ctx, p.Fs, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, content, opts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = info
	if !result.Modified || opts.DryRun {
		return result, nil
	}

	modified, err := fsutil.CheckModified(ctx, p.Fs, info, opts.StrictRaceDetection)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	if opts.Backup {
		created, err := fsutil.CreateBackup(ctx, p.Fs, path)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
	}

	if err := fsutil.WriteAtomic(ctx, p.Fs, path, result.ModifiedContent, info.Mode); err != nil {
		err = fmt.Errorf("%w: %w", ErrWriteFailure, err)
		if result.BackupCreated {
			if _, restoreErr := fsutil.RestoreBackup(ctx, p.Fs, path); restoreErr != nil {
				err = errors.Join(err, restoreErr)
			}
		}
		return nil, err
	}
	result.Written = true
	return result, nil
}

// ProcessContent checks and fixes in-memory content without file I/O.
func (p *Pipeline) ProcessContent(ctx context.Context, path string, content []byte, opts Options) (*Result, error) {
	first, err := p.Engine.CheckFile(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
	}

	result := &Result{
		FileResult: first,
		Path:       path,
		Source:     first.Tree.Buffer(),
		Original:   first.Tree,
		Reparses:   make(map[incremental.Mode]int),
	}
	if !opts.Fix || !p.Engine.Fixing() {
		return result, nil
	}

	maxPasses := opts.MaxFixPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxFixPasses
	}

	current := first
	for range maxPasses {
		if len(current.Edits) == 0 {
			break
		}
		tree, err := p.applyEdits(ctx, current.Tree, current.Edits, result)
		if err != nil {
			return nil, err
		}
		result.FixPasses++
		result.TotalEditsApplied += len(current.Edits)
		logging.FromContext(ctx).Debug("fix pass",
			logging.FieldPass, result.FixPasses,
			logging.FieldCount, len(current.Edits),
		)
		current = p.Engine.CheckTree(tree)
	}
	result.FileResult = current
	result.Source = current.Tree.Buffer()

	if result.TotalEditsApplied == 0 {
		return result, nil
	}

	result.Modified = true
	result.ModifiedContent = []byte(current.Tree.Text())

	spans, err := changes.Diff(ctx, result.Original, current.Tree,
		changes.WithCheckInterval(p.Engine.CheckInterval()))
	if err != nil {
		return nil, fmt.Errorf("diff fixes: %w", err)
	}
	result.Changes = spans
	if opts.DryRun {
		result.Diff = changes.Unify(path, result.Original.Buffer(), current.Tree.Buffer(), spans)
	}
	return result, nil
}

// applyEdits applies sorted, non-overlapping edits from last to first so
// each edit's offsets stay valid, reparsing incrementally after each one.
func (p *Pipeline) applyEdits(ctx context.Context, tree *syntax.Tree, edits []source.Edit, result *Result) (*syntax.Tree, error) {
	for _, edit := range slices.Backward(edits) {
		next, rr, err := incremental.Reparse(ctx, tree, edit,
			incremental.WithCheckInterval(p.Engine.CheckInterval()))
		if err != nil {
			return nil, fmt.Errorf("apply fix %s: %w", edit, err)
		}
		result.Reparses[rr.Mode]++
		tree = next
	}
	return tree, nil
}

// categorizeError wraps an error with the matching pipeline error type.
func categorizeError(err error) error {
	switch {
	case errors.Is(err, fsutil.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrParseFailure) ||
		errors.Is(err, ErrWriteFailure)
}

package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/yaklabco/gocst/internal/logging"
	"github.com/yaklabco/gocst/pkg/check"
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/fsutil"
	"github.com/yaklabco/gocst/pkg/incremental"
	"github.com/yaklabco/gocst/pkg/langdetect"
	"github.com/yaklabco/gocst/pkg/snippets"
	"github.com/yaklabco/gocst/pkg/source"
)

// Runner checks files concurrently through a check.Pipeline.
type Runner struct {
	Pipeline *check.Pipeline
}

// New creates a Runner with the given pipeline.
func New(pipeline *check.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files under opts.Paths and processes them with a bounded
// worker pool. Outcomes are ordered by path whatever order workers finish
// in. A cancelled context stops the feed; the partial result is returned
// with the context error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Fs == nil {
		opts.Fs = r.Pipeline.Fs
	}
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered files", logging.FieldCount, len(files))

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	w := &worker{
		pipeline: r.Pipeline,
		opts:     check.OptionsFromConfig(opts.Config),
		snippets: opts.Snippets,
		tabs:     newTabWidths(opts.fs(), tabWidth(opts.Config)),
	}
	if opts.Config != nil {
		w.snippetOpts = snippets.OptionsFromConfig(opts.Config.Snippets)
	} else {
		w.snippetOpts = snippets.OptionsFromConfig(config.SnippetsConfig{})
	}

	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Go(func() {
			for path := range workCh {
				outcome := w.process(ctx, path)
				select {
				case <-ctx.Done():
					return
				case outCh <- outcome:
				}
			}
		})
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

type worker struct {
	pipeline    *check.Pipeline
	opts        check.Options
	snippets    bool
	snippetOpts snippets.Options
	tabs        *tabWidths
}

func (w *worker) process(ctx context.Context, path string) FileOutcome {
	ctx = logging.With(ctx, logging.FieldFile, path)
	logger := logging.FromContext(ctx)
	start := time.Now()

	outcome := FileOutcome{Path: path, TabWidth: w.tabs.forFile(path)}
	switch {
	case w.snippets && isMarkdown(path):
		outcome.Result, outcome.Blocks, outcome.Error = w.processMarkdown(ctx, path)
	case !isCSource(path):
		outcome.Result, outcome.Error = w.processHeader(ctx, path)
	default:
		outcome.Result, outcome.Error = w.pipeline.ProcessFile(ctx, path, w.opts)
	}

	if outcome.Error != nil {
		logger.Debug("file failed", logging.FieldError, outcome.Error)
		return outcome
	}
	logger.Debug("checked file",
		logging.FieldCount, outcome.Result.IssueCount(),
		logging.FieldDuration, time.Since(start),
	)
	for mode, n := range outcome.Result.Reparses {
		logger.Debug("fix reparses", logging.FieldMode, mode, logging.FieldCount, n)
	}
	return outcome
}

// processHeader checks files whose extension does not settle the language,
// such as ".h", which may be C++.
func (w *worker) processHeader(ctx context.Context, path string) (*check.Result, error) {
	content, _, err := fsutil.ReadFile(ctx, w.pipeline.Fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !langdetect.IsC(path, content) {
		return &check.Result{
			FileResult: &check.FileResult{},
			Path:       path,
			Skipped:    true,
			SkipReason: "not C source",
			Reparses:   make(map[incremental.Mode]int),
		}, nil
	}
	return w.pipeline.ProcessFile(ctx, path, w.opts)
}

func (w *worker) processMarkdown(ctx context.Context, path string) (*check.Result, int, error) {
	content, _, err := fsutil.ReadFile(ctx, w.pipeline.Fs, path)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	sr, err := snippets.Check(ctx, w.pipeline.Engine, path, content, w.snippetOpts)
	if err != nil {
		return nil, 0, err
	}
	return &check.Result{
		FileResult: sr.FileResult,
		Path:       path,
		Source:     source.FromBytes(path, content),
		Reparses:   make(map[incremental.Mode]int),
	}, len(sr.Blocks), nil
}

func isCSource(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".c")
}

func tabWidth(cfg *config.Config) int {
	if cfg == nil || cfg.TabWidth <= 0 {
		return config.DefaultTabWidth
	}
	return cfg.TabWidth
}

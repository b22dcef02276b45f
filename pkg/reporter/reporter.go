// Package reporter writes check results in the supported output formats.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/gocst/pkg/analysis"
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/runner"
)

// Compile-time interface check for reporterFacade.
var _ Reporter = (*reporterFacade)(nil)

// Reporter formats and writes check results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of issues reported and any write error.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// Renderer formats an analysis.Report.
type Renderer interface {
	Render(ctx context.Context, report *analysis.Report) error
}

// reporterFacade runs the analysis step in front of a Renderer.
type reporterFacade struct {
	renderer     Renderer
	analysisOpts analysis.Options
}

// Report implements Reporter by analyzing the result and rendering it.
func (f *reporterFacade) Report(ctx context.Context, result *runner.Result) (int, error) {
	report := analysis.Analyze(result, f.analysisOpts)
	if err := f.renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return report.Totals.Issues, nil
}

func newRendererFacade(renderer Renderer, opts Options) *reporterFacade {
	return &reporterFacade{
		renderer: renderer,
		analysisOpts: analysis.Options{
			IncludeDiagnostics: true,
			IncludeByFile:      true,
			IncludeByKind:      true,
			SortBy:             analysis.SortByCount,
			SortDesc:           true,
			KindFormat:         opts.KindFormat,
			WorkingDir:         opts.WorkingDir,
		},
	}
}

// New creates a Reporter for the format in opts.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	if opts.Version == "" {
		opts.Version = DefaultOptions().Version
	}

	format := opts.Format
	if format == "" {
		format = config.FormatText
	}

	switch format {
	case config.FormatText:
		return NewTextReporter(opts), nil
	case config.FormatJSON:
		return newRendererFacade(NewJSONRenderer(opts), opts), nil
	case config.FormatSARIF:
		return NewSARIFReporter(opts), nil
	case config.FormatSummary:
		return newRendererFacade(NewSummaryRenderer(opts), opts), nil
	case config.FormatDiff:
		return NewDiffReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

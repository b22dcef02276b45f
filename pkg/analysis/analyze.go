package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/gocst/pkg/check"
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/runner"
)

// ReportVersion is the version of the JSON report layout.
const ReportVersion = "1.0.0"

// RelativePath returns absPath relative to workDir, or absPath unchanged
// when workDir is empty or unrelated.
func RelativePath(absPath, workDir string) string {
	if workDir == "" {
		return absPath
	}
	rel, err := filepath.Rel(workDir, absPath)
	if err != nil {
		return absPath
	}
	return rel
}

type analysisContext struct {
	kindMap   map[string]*KindAnalysis
	fileMap   map[string]*FileAnalysis
	kindFiles map[string]map[string]bool
	fileKinds map[string]map[string]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		kindMap:   make(map[string]*KindAnalysis),
		fileMap:   make(map[string]*FileAnalysis),
		kindFiles: make(map[string]map[string]bool),
		fileKinds: make(map[string]map[string]bool),
	}
}

func (ctx *analysisContext) file(path string) *FileAnalysis {
	if _, ok := ctx.fileMap[path]; !ok {
		ctx.fileMap[path] = &FileAnalysis{Path: path}
		ctx.fileKinds[path] = make(map[string]bool)
	}
	return ctx.fileMap[path]
}

func (ctx *analysisContext) kind(id, name string) *KindAnalysis {
	if _, ok := ctx.kindMap[id]; !ok {
		ctx.kindMap[id] = &KindAnalysis{KindID: id, KindName: name}
		ctx.kindFiles[id] = make(map[string]bool)
	}
	return ctx.kindMap[id]
}

// counts adds one diagnostic of severity to the counters.
func counts(severity config.Severity, errors, warnings, infos *int) {
	switch severity {
	case config.SeverityError:
		*errors++
	case config.SeverityWarning:
		*warnings++
	case config.SeverityInfo:
		*infos++
	}
}

func newEntry(path string, severity config.Severity, d *check.Diagnostic, format config.KindFormat) DiagnosticEntry {
	entry := DiagnosticEntry{
		FilePath:    path,
		KindID:      d.Kind.ID(),
		KindName:    d.Kind.Name(),
		Label:       config.FormatKind(format, d.Kind.ID(), d.Kind.Name()),
		Severity:    string(severity),
		Message:     d.Message,
		StartOffset: d.Span.Start,
		EndOffset:   d.Span.End,
		StartLine:   d.StartLine,
		StartColumn: d.StartColumn,
		EndLine:     d.EndLine,
		EndColumn:   d.EndColumn,
		Suggestion:  d.Suggestion,
		Fixable:     d.HasFix(),
	}
	for _, edit := range d.FixEdits {
		entry.Fixes = append(entry.Fixes, FixEntry{
			StartOffset: edit.StartOffset,
			EndOffset:   edit.EndOffset,
			NewText:     edit.NewText,
		})
	}
	return entry
}

// Analyze builds a Report from a runner result.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}
	if result == nil {
		return report
	}

	report.Totals.FilesModified = result.Stats.FilesModified
	report.Totals.FilesSkipped = result.Stats.FilesSkipped
	report.Totals.FilesErrored = result.Stats.FilesErrored
	report.Totals.Fixed = result.Stats.DiagnosticsFixed
	report.Totals.SnippetBlocks = result.Stats.SnippetBlocks

	ctx := newAnalysisContext()
	for _, file := range result.Files {
		report.Totals.Files++
		if file.Result == nil || file.Result.FileResult == nil {
			continue
		}
		if file.Result.HasIssues() {
			report.Totals.FilesWithIssues++
		}

		path := RelativePath(file.Path, opts.WorkingDir)
		fa := ctx.file(path)

		for i := range file.Result.Diagnostics {
			d := &file.Result.Diagnostics[i]
			severity := d.Severity
			if severity == "" {
				severity = config.SeverityWarning
			}
			id := d.Kind.ID()

			report.Totals.Issues++
			counts(severity, &report.Totals.Errors, &report.Totals.Warnings, &report.Totals.Infos)
			if d.HasFix() {
				report.Totals.Fixable++
			}

			fa.Issues++
			counts(severity, &fa.Errors, &fa.Warnings, &fa.Infos)
			ctx.fileKinds[path][id] = true

			ka := ctx.kind(id, d.Kind.Name())
			ka.Issues++
			counts(severity, &ka.Errors, &ka.Warnings, &ka.Infos)
			ka.Fixable = ka.Fixable || d.HasFix()
			ctx.kindFiles[id][path] = true

			if opts.IncludeDiagnostics {
				report.Diagnostics = append(report.Diagnostics, newEntry(path, severity, d, opts.KindFormat))
			}
		}
	}

	if opts.IncludeByKind {
		report.ByKind = ctx.buildByKind(opts)
	}
	if opts.IncludeByFile {
		report.ByFile = ctx.buildByFile(opts)
	}
	return report
}

func (ctx *analysisContext) buildByKind(opts Options) []KindAnalysis {
	out := make([]KindAnalysis, 0, len(ctx.kindMap))
	for id, ka := range ctx.kindMap {
		for f := range ctx.kindFiles[id] {
			ka.Files = append(ka.Files, f)
		}
		slices.Sort(ka.Files)
		out = append(out, *ka)
	}
	sortBy(out, opts, func(k KindAnalysis) (string, int, int, int) {
		return k.KindID, k.Issues, k.Errors, k.Warnings
	})
	return out
}

func (ctx *analysisContext) buildByFile(opts Options) []FileAnalysis {
	var out []FileAnalysis
	for path, fa := range ctx.fileMap {
		if fa.Issues == 0 {
			continue
		}
		for k := range ctx.fileKinds[path] {
			fa.Kinds = append(fa.Kinds, k)
		}
		slices.Sort(fa.Kinds)
		out = append(out, *fa)
	}
	sortBy(out, opts, func(f FileAnalysis) (string, int, int, int) {
		return f.Path, f.Issues, f.Errors, f.Warnings
	})
	return out
}

// sortBy orders items by opts.SortBy. Alphabetical order is always
// ascending and severity order always puts errors first; ties fall back
// to the key so output is deterministic.
func sortBy[T any](items []T, opts Options, fields func(T) (key string, issues, errors, warnings int)) {
	slices.SortFunc(items, func(left, right T) int {
		lk, li, le, lw := fields(left)
		rk, ri, re, rw := fields(right)

		var c int
		switch opts.SortBy {
		case SortByAlpha:
		case SortBySeverity:
			c = cmp.Or(cmp.Compare(re, le), cmp.Compare(rw, lw), cmp.Compare(ri, li))
		default:
			c = cmp.Compare(li, ri)
			if opts.SortDesc {
				c = -c
			}
		}
		return cmp.Or(c, cmp.Compare(lk, rk))
	})
}

package check

import (
	"context"
	"fmt"
	"slices"

	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/parser"
	"github.com/yaklabco/gocst/pkg/source"
	"github.com/yaklabco/gocst/pkg/syntax"
)

// FileResult contains the results of checking a single file.
type FileResult struct {
	// Tree is the parse of the checked content.
	Tree *syntax.Tree

	// Diagnostics contains every enabled diagnostic, ordered by position.
	Diagnostics []Diagnostic

	// Edits contains validated, sorted fix edits. Empty unless fixing.
	Edits []source.Edit

	// SkippedEdits were dropped because they conflict with an earlier edit.
	// A later fix pass usually picks them up.
	SkippedEdits []source.Edit
}

// HasIssues returns true if any diagnostics were found.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Diagnostics) > 0
}

// HasFixes returns true if any fixes are available.
func (fr *FileResult) HasFixes() bool {
	return len(fr.Edits) > 0
}

// IssueCount returns the total number of diagnostics.
func (fr *FileResult) IssueCount() int {
	return len(fr.Diagnostics)
}

// CountSeverity returns the number of diagnostics with severity s.
func (fr *FileResult) CountSeverity(s config.Severity) int {
	n := 0
	for _, d := range fr.Diagnostics {
		if d.Severity == s {
			n++
		}
	}
	return n
}

// FixableCount returns the number of diagnostics with fixes.
func (fr *FileResult) FixableCount() int {
	n := 0
	for _, d := range fr.Diagnostics {
		if d.HasFix() {
			n++
		}
	}
	return n
}

// Engine converts trees into diagnostics under one configuration.
// An Engine is immutable after construction and safe for concurrent use.
type Engine struct {
	kinds         map[syntax.DiagnosticKind]ResolvedKind
	fix           bool
	checkInterval int
}

// NewEngine resolves cfg into an engine. A nil cfg uses the defaults.
func NewEngine(cfg *config.Config) *Engine {
	e := &Engine{
		kinds:         ResolveKinds(cfg),
		checkInterval: parser.DefaultCheckInterval,
	}
	if cfg != nil {
		e.fix = cfg.Fix
		if cfg.CheckInterval > 0 {
			e.checkInterval = cfg.CheckInterval
		}
	}
	return e
}

// CheckInterval returns the cancellation interval for parsing.
func (e *Engine) CheckInterval() int { return e.checkInterval }

// Fixing reports whether fix edits are collected.
func (e *Engine) Fixing() bool { return e.fix }

// Kind returns the resolved settings for kind.
func (e *Engine) Kind(kind syntax.DiagnosticKind) ResolvedKind {
	return e.kinds[kind]
}

// CheckFile parses content and checks the resulting tree.
func (e *Engine) CheckFile(ctx context.Context, path string, content []byte) (*FileResult, error) {
	tree, err := parser.Parse(ctx, source.FromBytes(path, content), parser.WithCheckInterval(e.checkInterval))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return e.CheckTree(tree), nil
}

// CheckTree collects the diagnostics of tree. Disabled kinds are dropped
// and severities follow the configuration.
func (e *Engine) CheckTree(tree *syntax.Tree) *FileResult {
	buf := tree.Buffer()
	result := &FileResult{Tree: tree}

	var edits []source.Edit
	var parents []syntax.Kind

	enter := func(r syntax.Ref) error {
		if !r.Node.ContainsDiagnostics() {
			return syntax.SkipChildren
		}
		for _, nd := range r.Node.Diagnostics() {
			rk := e.kinds[nd.Kind]
			if !rk.Enabled {
				continue
			}
			start := r.Offset + nd.Offset
			d := Diagnostic{
				Kind:     nd.Kind,
				Severity: rk.Severity,
				Message:  nd.Message,
				FilePath: buf.Path,
				Span:     source.Span{Start: start, End: start + nd.Length},
			}
			d.setPosition(buf)
			if edit, suggestion, ok := punctuationFix(tree, r, parents); ok {
				d.Suggestion = suggestion
				d.FixEdits = []source.Edit{edit}
				if e.fix {
					edits = append(edits, edit)
				}
			}
			result.Diagnostics = append(result.Diagnostics, d)
		}
		parents = append(parents, r.Kind())
		return nil
	}
	leave := func(syntax.Ref) error {
		parents = parents[:len(parents)-1]
		return nil
	}

	//nolint:errcheck // The callbacks never fail.
	_ = syntax.WalkWithContext(tree.Root(), enter, leave)

	slices.SortStableFunc(result.Diagnostics, func(a, b Diagnostic) int {
		return a.Span.Start - b.Span.Start
	})

	if len(edits) > 0 {
		accepted, skipped, err := source.PrepareEditsFiltered(edits, buf.Len())
		if err == nil {
			result.Edits = accepted
			result.SkippedEdits = skipped
		}
	}
	return result
}

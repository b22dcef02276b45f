// Package check turns parse trees into positioned, configurable diagnostics
// and applies punctuation fixes through incremental reparsing.
package check

import (
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/source"
	"github.com/yaklabco/gocst/pkg/syntax"
)

// Diagnostic is a single problem found in a file.
type Diagnostic struct {
	Kind syntax.DiagnosticKind

	// Severity is the configured severity, not necessarily the kind's default.
	Severity config.Severity

	Message  string
	FilePath string

	// Span is the byte range in the file.
	Span source.Span

	// 1-based positions. Columns count grapheme clusters.
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int

	// Suggestion is a human-readable description of FixEdits.
	Suggestion string

	// FixEdits repair the problem when applied (may be empty).
	FixEdits []source.Edit
}

// HasFix returns true if this diagnostic has associated fix edits.
func (d *Diagnostic) HasFix() bool {
	return len(d.FixEdits) > 0
}

// SourcePosition returns the diagnostic position as a SourcePosition.
func (d *Diagnostic) SourcePosition() source.SourcePosition {
	return source.SourcePosition{
		StartLine:   d.StartLine,
		StartColumn: d.StartColumn,
		EndLine:     d.EndLine,
		EndColumn:   d.EndColumn,
	}
}

// Shift moves the diagnostic into a host file, as for a code block inside
// a Markdown document. delta is the byte offset of the block and host
// converts offsets to positions.
func (d *Diagnostic) Shift(delta int, host *source.Buffer, path string) {
	d.Span = source.Span{Start: d.Span.Start + delta, End: d.Span.End + delta}
	for i := range d.FixEdits {
		d.FixEdits[i].StartOffset += delta
		d.FixEdits[i].EndOffset += delta
	}
	d.setPosition(host)
	d.FilePath = path
}

func (d *Diagnostic) setPosition(buf *source.Buffer) {
	pos := buf.SpanPosition(d.Span)
	d.StartLine, d.StartColumn = pos.StartLine, pos.StartColumn
	d.EndLine, d.EndColumn = pos.EndLine, pos.EndColumn
}

package source

import "fmt"

// Span is a half-open byte range [Start, End) in a buffer.
type Span struct {
	Start int
	End   int
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty returns true if the span has zero length.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Contains returns true if the given offset is within this span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Covers returns true if other lies entirely inside s.
func (s Span) Covers(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Position represents a 1-based line and column in a buffer.
type Position struct {
	Line   int
	Column int
}

// IsValid returns true if this position has valid (positive) values.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// SourcePosition represents a range in terms of line/column positions.
type SourcePosition struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Start returns the start position.
func (sp SourcePosition) Start() Position {
	return Position{Line: sp.StartLine, Column: sp.StartColumn}
}

// End returns the end position.
func (sp SourcePosition) End() Position {
	return Position{Line: sp.EndLine, Column: sp.EndColumn}
}

// IsSingleLine returns true if start and end are on the same line.
func (sp SourcePosition) IsSingleLine() bool {
	return sp.StartLine == sp.EndLine
}

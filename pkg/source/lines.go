package source

import (
	"sort"

	"github.com/apparentlymart/go-textseg/v13/textseg"
)

// LineInfo holds metadata for a single line in a buffer.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// NewlineStart is the byte index where newline characters begin.
	// For lines without a trailing newline (e.g., last line), this equals EndOffset.
	NewlineStart int

	// EndOffset is the byte index just after the newline (or end of text).
	EndOffset int
}

// BuildLines constructs line metadata from text.
// It handles both LF (\n) and CRLF (\r\n) line endings.
// An empty text has a single empty line.
func BuildLines(text string) []LineInfo {
	var lines []LineInfo
	lineStart := 0

	for idx := range len(text) {
		if text[idx] != '\n' {
			continue
		}
		newlineStart := idx
		if idx > 0 && text[idx-1] == '\r' {
			newlineStart = idx - 1
		}
		lines = append(lines, LineInfo{
			StartOffset:  lineStart,
			NewlineStart: newlineStart,
			EndOffset:    idx + 1,
		})
		lineStart = idx + 1
	}

	return append(lines, LineInfo{
		StartOffset:  lineStart,
		NewlineStart: len(text),
		EndOffset:    len(text),
	})
}

// LineCount returns the number of lines in the buffer.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// LineAt converts a byte offset to 1-based line and column numbers.
// Column counts bytes, not runes. Offsets past the end map to the end of
// the last line. Returns (0, 0) for negative offsets.
func (b *Buffer) LineAt(offset int) (int, int) {
	if offset < 0 {
		return 0, 0
	}
	idx := b.lineIndex(offset)
	return idx + 1, min(offset, len(b.text)) - b.lines[idx].StartOffset + 1
}

// Position converts a byte offset to a line and display column, where the
// column counts grapheme clusters so that combined characters and emoji
// occupy one column.
func (b *Buffer) Position(offset int) Position {
	if offset < 0 {
		return Position{}
	}
	idx := b.lineIndex(offset)
	line := b.lines[idx]
	prefix := b.text[line.StartOffset:min(offset, len(b.text))]
	return Position{Line: idx + 1, Column: graphemeCount(prefix) + 1}
}

// SpanPosition converts a byte span to a line/column range.
func (b *Buffer) SpanPosition(span Span) SourcePosition {
	start := b.Position(span.Start)
	end := b.Position(span.End)
	return SourcePosition{
		StartLine:   start.Line,
		StartColumn: start.Column,
		EndLine:     end.Line,
		EndColumn:   end.Column,
	}
}

// Offset converts 1-based line and byte column numbers to a byte offset.
// Returns (offset, true) on success, or (0, false) if out of range.
func (b *Buffer) Offset(line, col int) (int, bool) {
	if line < 1 || line > len(b.lines) || col < 1 {
		return 0, false
	}

	info := b.lines[line-1]
	offset := info.StartOffset + col - 1

	// Allow column to point to end of line (for cursor positioning).
	if offset > info.EndOffset {
		return 0, false
	}
	return offset, true
}

// LineContent returns the content of a 1-based line number, excluding the newline.
// Returns "" if the line number is out of range.
func (b *Buffer) LineContent(line int) string {
	if line < 1 || line > len(b.lines) {
		return ""
	}
	info := b.lines[line-1]
	return b.text[info.StartOffset:info.NewlineStart]
}

func (b *Buffer) lineIndex(offset int) int {
	idx := sort.Search(len(b.lines), func(i int) bool {
		return b.lines[i].EndOffset > offset
	})
	if idx >= len(b.lines) {
		idx = len(b.lines) - 1
	}
	return idx
}

func graphemeCount(s string) int {
	if s == "" {
		return 0
	}
	n, err := textseg.TokenCount([]byte(s), textseg.ScanGraphemeClusters)
	if err != nil {
		return len(s)
	}
	return n
}

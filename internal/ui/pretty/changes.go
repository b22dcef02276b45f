package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gocst/pkg/changes"
	"github.com/yaklabco/gocst/pkg/source"
)

// maxChangeText is the longest quoted text shown for one side of a change.
const maxChangeText = 40

// FormatChange formats one change span as its old position, its byte
// coordinates, and the removed and inserted text:
//
//	1:9 @8 -1 +2 "1" => "12"
func (s *Styles) FormatChange(span changes.Span, oldBuf, newBuf *source.Buffer) string {
	pos := oldBuf.Position(span.Start)
	removed := oldBuf.Slice(span.Start, span.Start+span.OldLength)
	inserted := newBuf.Slice(span.NewStart, span.NewStart+span.NewLength)

	var builder strings.Builder
	builder.WriteString("  ")
	builder.WriteString(s.Location.Render(fmt.Sprintf("%d:%d", pos.Line, pos.Column)))
	builder.WriteString(" ")
	builder.WriteString(s.DiffHunk.Render(span.String()))
	builder.WriteString(" ")
	builder.WriteString(s.DiffRemove.Render(quoteChange(removed)))
	builder.WriteString(" => ")
	builder.WriteString(s.DiffAdd.Render(quoteChange(inserted)))
	builder.WriteString("\n")
	return builder.String()
}

func quoteChange(text string) string {
	runes := []rune(text)
	if len(runes) > maxChangeText {
		return strconv.Quote(string(runes[:maxChangeText])) + ellipsis
	}
	return strconv.Quote(text)
}

// FormatDiffLine styles one line of a unified diff by its prefix.
func (s *Styles) FormatDiffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "@@"):
		return s.DiffHunk.Render(line)
	case strings.HasPrefix(line, "+"):
		return s.DiffAdd.Render(line)
	case strings.HasPrefix(line, "-"):
		return s.DiffRemove.Render(line)
	default:
		return s.DiffContext.Render(line)
	}
}

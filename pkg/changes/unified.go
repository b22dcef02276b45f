package changes

import (
	"fmt"
	"strings"

	"github.com/yaklabco/gocst/pkg/source"
)

// contextLines is the number of unchanged lines shown around a change.
const contextLines = 3

// Unified is a line-oriented rendering of change spans.
type Unified struct {
	// Path is the file path for the diff header.
	Path string

	// Hunks contains the diff hunks.
	Hunks []Hunk

	// Additions is the number of lines added.
	Additions int

	// Deletions is the number of lines deleted.
	Deletions int
}

// Hunk is a run of changed lines with surrounding context.
type Hunk struct {
	// OldStart and NewStart are 1-based line numbers.
	OldStart int
	OldCount int
	NewStart int
	NewCount int

	Lines []Line
}

// Line is one line of a hunk.
type Line struct {
	Kind    LineKind
	Content string
}

// LineKind marks a hunk line as context, addition or removal.
type LineKind int

const (
	LineContext LineKind = iota
	LineAdd
	LineRemove
)

// lineBlock is a changed region in whole lines, as half-open line index
// ranges on both sides.
type lineBlock struct {
	oldLo, oldHi int
	newLo, newHi int
}

// textLines splits a buffer into lines that keep their line breaks. A
// final empty line after a trailing newline is not a line of its own.
type textLines struct {
	buf   *source.Buffer
	lines []string
}

func newTextLines(buf *source.Buffer) textLines {
	infos := source.BuildLines(buf.Text())
	if last := infos[len(infos)-1]; last.StartOffset == last.EndOffset {
		infos = infos[:len(infos)-1]
	}
	lines := make([]string, len(infos))
	for i, info := range infos {
		lines[i] = buf.Text()[info.StartOffset:info.EndOffset]
	}
	return textLines{buf: buf, lines: lines}
}

// index returns the 0-based line containing offset, clamped to the line
// count so that the end of a newline-terminated text maps past the end.
func (t textLines) index(offset int) int {
	line, _ := t.buf.LineAt(offset)
	return min(line-1, len(t.lines))
}

// Unify renders spans from Diff(old, new) as a unified diff. It returns
// nil when the spans change nothing.
func Unify(path string, oldBuf, newBuf *source.Buffer, spans []Span) *Unified {
	oldLines, newLines := newTextLines(oldBuf), newTextLines(newBuf)

	var blocks []lineBlock
	for _, s := range spans {
		b := lineBlock{
			oldLo: oldLines.index(s.Start),
			oldHi: min(oldLines.index(s.Start+s.OldLength)+1, len(oldLines.lines)),
			newLo: newLines.index(s.NewStart),
			newHi: min(newLines.index(s.NewStart+s.NewLength)+1, len(newLines.lines)),
		}
		if n := len(blocks); n > 0 && b.oldLo < blocks[n-1].oldHi {
			last := &blocks[n-1]
			last.oldHi = max(last.oldHi, b.oldHi)
			last.newHi = max(last.newHi, b.newHi)
			continue
		}
		blocks = append(blocks, b)
	}

	var kept []lineBlock
	for _, b := range blocks {
		if b = trimBlock(b, oldLines.lines, newLines.lines); b.oldLo < b.oldHi || b.newLo < b.newHi {
			kept = append(kept, b)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	u := &Unified{Path: path}
	for start := 0; start < len(kept); {
		end := start + 1
		for end < len(kept) && kept[end].oldLo-kept[end-1].oldHi <= 2*contextLines {
			end++
		}
		u.Hunks = append(u.Hunks, buildHunk(kept[start:end], oldLines.lines, newLines.lines))
		start = end
	}

	for _, hunk := range u.Hunks {
		for _, line := range hunk.Lines {
			switch line.Kind {
			case LineAdd:
				u.Additions++
			case LineRemove:
				u.Deletions++
			}
		}
	}
	return u
}

// trimBlock drops identical lines from both ends of a block. A span that
// ends at a line break touches the next line without changing it.
func trimBlock(b lineBlock, oldLines, newLines []string) lineBlock {
	for b.oldLo < b.oldHi && b.newLo < b.newHi && oldLines[b.oldLo] == newLines[b.newLo] {
		b.oldLo++
		b.newLo++
	}
	for b.oldLo < b.oldHi && b.newLo < b.newHi && oldLines[b.oldHi-1] == newLines[b.newHi-1] {
		b.oldHi--
		b.newHi--
	}
	return b
}

func buildHunk(blocks []lineBlock, oldLines, newLines []string) Hunk {
	first, last := blocks[0], blocks[len(blocks)-1]
	lead := min(contextLines, first.oldLo)
	trail := min(contextLines, len(oldLines)-last.oldHi)

	hunk := Hunk{
		OldStart: first.oldLo - lead + 1,
		NewStart: first.newLo - lead + 1,
	}
	context := func(lines []string) {
		for _, l := range lines {
			hunk.Lines = append(hunk.Lines, Line{Kind: LineContext, Content: l})
			hunk.OldCount++
			hunk.NewCount++
		}
	}

	context(oldLines[first.oldLo-lead : first.oldLo])
	for i, b := range blocks {
		if i > 0 {
			context(oldLines[blocks[i-1].oldHi:b.oldLo])
		}
		for _, l := range oldLines[b.oldLo:b.oldHi] {
			hunk.Lines = append(hunk.Lines, Line{Kind: LineRemove, Content: l})
			hunk.OldCount++
		}
		for _, l := range newLines[b.newLo:b.newHi] {
			hunk.Lines = append(hunk.Lines, Line{Kind: LineAdd, Content: l})
			hunk.NewCount++
		}
	}
	context(oldLines[last.oldHi : last.oldHi+trail])
	return hunk
}

// GitHeader returns the "diff --git" header line.
func (u *Unified) GitHeader() string {
	if u == nil {
		return ""
	}
	path := strings.TrimPrefix(u.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String returns the diff in unified format without the git header.
func (u *Unified) String() string {
	if u == nil || len(u.Hunks) == 0 {
		return ""
	}

	path := strings.TrimPrefix(u.Path, "/")

	var builder strings.Builder
	fmt.Fprintf(&builder, "--- a/%s\n", path)
	fmt.Fprintf(&builder, "+++ b/%s\n", path)

	for _, hunk := range u.Hunks {
		fmt.Fprintf(&builder, "@@ -%d,%d +%d,%d @@\n",
			hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)

		for _, line := range hunk.Lines {
			prefix := " "
			switch line.Kind {
			case LineAdd:
				prefix = "+"
			case LineRemove:
				prefix = "-"
			}
			content, hasNewline := strings.CutSuffix(line.Content, "\n")
			builder.WriteString(prefix + strings.TrimSuffix(content, "\r") + "\n")
			if !hasNewline {
				builder.WriteString("\\ No newline at end of file\n")
			}
		}
	}

	return builder.String()
}

// FullString returns the diff including the git header.
func (u *Unified) FullString() string {
	if u == nil || len(u.Hunks) == 0 {
		return ""
	}
	return u.GitHeader() + "\n" + u.String()
}

// HasChanges reports whether the diff contains any hunks.
func (u *Unified) HasChanges() bool {
	return u != nil && len(u.Hunks) > 0
}

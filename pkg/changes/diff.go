// Package changes reports the text regions that differ between two
// syntax trees.
//
// Diff walks both trees in parallel and skips every subtree the trees
// share by reference, so comparing a tree with its incremental reparse
// costs time proportional to the rebuilt path, not to the file.
package changes

import (
	"context"
	"fmt"

	"gitlab.com/tozd/go/errors"

	"github.com/yaklabco/gocst/pkg/source"
	"github.com/yaklabco/gocst/pkg/syntax"
)

// DefaultCheckInterval is how many node pairs are compared between checks
// of the context for cancellation.
const DefaultCheckInterval = 256

// Span is a changed region. Start and OldLength locate it in the old
// tree's text; NewStart and NewLength locate the replacement in the new
// tree's text.
type Span struct {
	Start     int `json:"start"     yaml:"start"`
	OldLength int `json:"oldLength" yaml:"old_length"`
	NewStart  int `json:"newStart"  yaml:"new_start"`
	NewLength int `json:"newLength" yaml:"new_length"`
}

// Old returns the changed range in the old text.
func (s Span) Old() source.Span {
	return source.Span{Start: s.Start, End: s.Start + s.OldLength}
}

// New returns the replacement range in the new text.
func (s Span) New() source.Span {
	return source.Span{Start: s.NewStart, End: s.NewStart + s.NewLength}
}

func (s Span) String() string {
	return fmt.Sprintf("@%d -%d +%d", s.Start, s.OldLength, s.NewLength)
}

// Option configures Diff.
type Option func(*differ)

// WithCheckInterval sets how many node pairs are compared between
// cancellation checks.
func WithCheckInterval(n int) Option {
	return func(d *differ) {
		if n > 0 {
			d.interval = n
		}
	}
}

type differ struct {
	ctx      context.Context
	interval int
	counter  int
	err      error
	spans    []Span
}

// Diff returns the ordered, non-overlapping change spans that turn a's
// text into b's text. Adjacent spans are merged. Trees that share no
// nodes are compared structurally and, where their shapes diverge, by
// text. The error is non-nil only when ctx is cancelled.
func Diff(ctx context.Context, a, b *syntax.Tree, opts ...Option) ([]Span, error) {
	d := &differ{ctx: ctx, interval: DefaultCheckInterval}
	for _, opt := range opts {
		opt(d)
	}

	d.compare(a.Root(), b.Root())
	if d.err != nil {
		return nil, d.err
	}
	return merge(d.spans), nil
}

// Edits converts spans from Diff(a, b) into edits that transform a's text
// into b's text.
func Edits(spans []Span, b *syntax.Tree) []source.Edit {
	edits := make([]source.Edit, 0, len(spans))
	for _, s := range spans {
		edits = append(edits, source.Edit{
			StartOffset: s.Start,
			EndOffset:   s.Start + s.OldLength,
			NewText:     b.Buffer().Slice(s.NewStart, s.NewStart+s.NewLength),
		})
	}
	return edits
}

func (d *differ) compare(a, b syntax.Ref) {
	if a.Node == b.Node || d.cancelled() {
		return
	}

	switch {
	case a.Node.IsToken() && b.Node.IsToken():
		if !a.Token().Equal(b.Token()) {
			d.compareText(a.Offset, a.Text(), b.Offset, b.Text())
		}
	case a.Kind() == b.Kind() && !a.Kind().IsLeaf():
		d.compareChildren(a, b)
	case a.Kind() == syntax.KindMissing && b.Kind() == syntax.KindMissing:
		// Both are zero width.
	default:
		d.compareText(a.Offset, a.Text(), b.Offset, b.Text())
	}
}

func (d *differ) compareChildren(a, b syntax.Ref) {
	ac, bc := a.Children(), b.Children()

	// Shared children at either end cannot differ.
	lo := 0
	for lo < len(ac) && lo < len(bc) && ac[lo].Node == bc[lo].Node {
		lo++
	}
	ha, hb := len(ac), len(bc)
	for ha > lo && hb > lo && ac[ha-1].Node == bc[hb-1].Node {
		ha--
		hb--
	}
	ac, bc = ac[lo:ha], bc[lo:hb]

	if sameShape(ac, bc) {
		for i := range ac {
			d.compare(ac[i], bc[i])
		}
		return
	}

	aStart, aText := joined(ac, a, lo)
	bStart, bText := joined(bc, b, lo)
	d.compareText(aStart, aText, bStart, bText)
}

func sameShape(ac, bc []syntax.Ref) bool {
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if ac[i].Kind() != bc[i].Kind() {
			return false
		}
	}
	return true
}

// joined returns the start offset and concatenated text of a child run.
// An empty run sits where child index lo would be.
func joined(run []syntax.Ref, parent syntax.Ref, lo int) (int, string) {
	if len(run) == 0 {
		if lo < parent.ChildCount() {
			return parent.Child(lo).Offset, ""
		}
		return parent.End(), ""
	}
	start := run[0].Offset
	end := run[len(run)-1].End()
	text := make([]byte, 0, end-start)
	for _, r := range run {
		text = append(text, r.Text()...)
	}
	return start, string(text)
}

// compareText records the difference between two texts after trimming
// their common prefix and suffix.
func (d *differ) compareText(aStart int, aText string, bStart int, bText string) {
	prefix := 0
	for prefix < len(aText) && prefix < len(bText) && aText[prefix] == bText[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(aText)-prefix && suffix < len(bText)-prefix &&
		aText[len(aText)-1-suffix] == bText[len(bText)-1-suffix] {
		suffix++
	}

	oldLen := len(aText) - prefix - suffix
	newLen := len(bText) - prefix - suffix
	if oldLen == 0 && newLen == 0 {
		return
	}
	d.spans = append(d.spans, Span{
		Start:     aStart + prefix,
		OldLength: oldLen,
		NewStart:  bStart + prefix,
		NewLength: newLen,
	})
}

func (d *differ) cancelled() bool {
	if d.err != nil {
		return true
	}
	d.counter++
	if d.counter%d.interval != 0 {
		return false
	}
	if err := d.ctx.Err(); err != nil {
		d.err = errors.Errorf("diff cancelled: %w", err)
		return true
	}
	return false
}

// merge joins spans that touch in the old text. Unchanged text between
// spans has the same length on both sides, so spans that touch in the old
// text also touch in the new text.
func merge(spans []Span) []Span {
	if len(spans) < 2 {
		return spans
	}
	out := spans[:1]
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.Start != last.Start+last.OldLength {
			out = append(out, s)
			continue
		}
		last.OldLength += s.OldLength
		last.NewLength = s.NewStart + s.NewLength - last.NewStart
	}
	return out
}

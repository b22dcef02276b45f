package incremental

import (
	"slices"

	"github.com/yaklabco/gocst/pkg/parser"
	"github.com/yaklabco/gocst/pkg/source"
	"github.com/yaklabco/gocst/pkg/syntax"
)

// candidate is a run of consecutive children [first, last) of the last
// node in ancestors that may be re-parsed on its own.
type candidate struct {
	// ancestors runs from the root to the parent of the run. indices[k] is
	// the position of ancestors[k+1] among the children of ancestors[k].
	ancestors []syntax.Ref
	indices   []int

	first, last int
	context     parser.Context
}

func (c candidate) parent() syntax.Ref {
	return c.ancestors[len(c.ancestors)-1]
}

// collectCandidates returns the runs that cover the edit, deepest first.
// At each list level the run of children overlapping the edit comes
// before the wider run that also includes the children it only touches.
func collectCandidates(root syntax.Ref, edit source.Edit) []candidate {
	var out []candidate
	collect(root, nil, nil, edit.StartOffset, edit.EndOffset, &out)
	slices.SortStableFunc(out, func(a, b candidate) int {
		return len(b.ancestors) - len(a.ancestors)
	})
	return out
}

func collect(r syntax.Ref, ancestors []syntax.Ref, indices []int, start, end int, out *[]candidate) {
	ancestors = append(slices.Clip(ancestors), r)
	children := r.Children()
	n := len(children)

	add := func(first, last int, c parser.Context) {
		*out = append(*out, candidate{
			ancestors: ancestors,
			indices:   slices.Clone(indices),
			first:     first,
			last:      last,
			context:   c,
		})
	}

	switch r.Kind() {
	case syntax.KindTranslationUnit:
		// The last child is the EOF leaf.
		addRuns(children, 0, n-1, start, end, parser.ContextExternalDecl, add)
	case syntax.KindBlock:
		// The first child is '{' and the last is '}' or its missing leaf.
		if n >= 2 {
			addRuns(children, 1, n-1, start, end, parser.ContextBlockItem, add)
		}
	case syntax.KindFunctionDecl:
		if last := children[n-1]; last.Kind() == syntax.KindBlock && covers(last, start, end) {
			add(n-1, n, parser.ContextFunctionBody)
		}
	}

	for i, child := range children {
		if child.Kind().IsLeaf() || !covers(child, start, end) {
			continue
		}
		collect(child, ancestors, append(slices.Clip(indices), i), start, end, out)
	}
}

// addRuns proposes runs among the list items children[lo:hi].
func addRuns(children []syntax.Ref, lo, hi, start, end int, c parser.Context, add func(int, int, parser.Context)) {
	if lo >= hi {
		return
	}
	items := children[lo:hi]

	overlaps := func(r syntax.Ref) bool {
		if start == end {
			return r.Offset < start && start < r.End()
		}
		return r.Offset < end && start < r.End()
	}
	touches := func(r syntax.Ref) bool {
		return r.Offset <= end && start <= r.End()
	}

	coreFirst, coreLast, okCore := runOf(items, overlaps)
	wideFirst, wideLast, okWide := runOf(items, touches)

	if okCore && runCovers(items, coreFirst, coreLast, start, end) {
		add(lo+coreFirst, lo+coreLast, c)
	}
	if okWide && (!okCore || wideFirst != coreFirst || wideLast != coreLast) &&
		runCovers(items, wideFirst, wideLast, start, end) {
		add(lo+wideFirst, lo+wideLast, c)
	}
}

func runOf(items []syntax.Ref, match func(syntax.Ref) bool) (int, int, bool) {
	first, last := -1, -1
	for i, item := range items {
		if !match(item) {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i + 1
	}
	if first < 0 {
		return 0, 0, false
	}
	// A run must hold at least one real token so that its start can be
	// checked against the re-lexed text.
	if items[first].Node.FirstToken() == nil {
		return 0, 0, false
	}
	return first, last, true
}

func runCovers(items []syntax.Ref, first, last, start, end int) bool {
	return items[first].Offset <= start && end <= items[last-1].End()
}

func covers(r syntax.Ref, start, end int) bool {
	return r.Offset <= start && end <= r.End()
}

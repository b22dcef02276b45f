package format

import "github.com/yaklabco/gocst/pkg/syntax"

// placed is a token with the layout decided for it.
type placed struct {
	tok    *syntax.Token
	parent syntax.Kind
	indent int

	// line is set when the token starts a line; item when it also starts
	// a declaration or statement, where one blank line may be kept.
	line bool
	item bool

	// keepLeading and keepTrailing copy trivia as written.
	keepLeading  bool
	keepTrailing bool
}

// layouter flattens a tree into placed tokens.
type layouter struct {
	toks     []placed
	verbatim bool
}

func (l *layouter) walk(n *syntax.Node, parent syntax.Kind, indent int) {
	switch {
	case n.IsMissing():
		return
	case n.IsToken():
		l.toks = append(l.toks, placed{
			tok:          n.Token(),
			parent:       parent,
			indent:       indent,
			keepLeading:  l.verbatim,
			keepTrailing: l.verbatim,
		})
		return
	}

	switch n.Kind() {
	case syntax.KindTranslationUnit:
		for i := range n.ChildCount() {
			start := len(l.toks)
			l.unit(n.Child(i), n.Kind(), 0)
			l.breakAt(start, 0, true)
		}
	case syntax.KindBlock, syntax.KindFieldList:
		l.list(n, indent)
	case syntax.KindIfStmt:
		l.ifStmt(n, indent)
	case syntax.KindWhileStmt, syntax.KindForStmt:
		last := n.ChildCount() - 1
		for i := range last {
			l.walk(n.Child(i), n.Kind(), indent)
		}
		l.embedded(n.Child(last), n.Kind(), indent)
	case syntax.KindDoStmt:
		l.walk(n.Child(0), n.Kind(), indent)
		body := n.Child(1)
		l.embedded(body, n.Kind(), indent)
		start := len(l.toks)
		for i := 2; i < n.ChildCount(); i++ {
			l.walk(n.Child(i), n.Kind(), indent)
		}
		if body.Kind() != syntax.KindBlock {
			l.breakAt(start, indent, false)
		}
	default:
		for i := range n.ChildCount() {
			l.walk(n.Child(i), n.Kind(), indent)
		}
	}
}

// unit lays out one list item. An item with errors outside its nested
// blocks keeps its inner trivia.
func (l *layouter) unit(n *syntax.Node, parent syntax.Kind, indent int) {
	if l.verbatim || n.Kind() == syntax.KindBlock || !damaged(n) {
		l.walk(n, parent, indent)
		return
	}

	start := len(l.toks)
	l.verbatim = true
	l.walk(n, parent, indent)
	l.verbatim = false
	if start < len(l.toks) {
		l.toks[start].keepLeading = false
		l.toks[len(l.toks)-1].keepTrailing = false
	}
}

// list lays out a braced list of items, one per line.
func (l *layouter) list(n *syntax.Node, indent int) {
	last := n.ChildCount() - 1
	empty := true
	for i := range n.ChildCount() {
		child := n.Child(i)
		start := len(l.toks)
		switch {
		case i == 0:
			l.walk(child, n.Kind(), indent)
		case i == last && closesList(child):
			l.walk(child, n.Kind(), indent)
			if !empty || l.commentBefore(start) {
				l.breakAt(start, indent, false)
			}
		default:
			l.unit(child, n.Kind(), indent+1)
			l.breakAt(start, indent+1, true)
			if start < len(l.toks) {
				empty = false
			}
		}
	}
}

func (l *layouter) ifStmt(n *syntax.Node, indent int) {
	const thenIndex = 4 // if ( cond ) then

	var then *syntax.Node
	for i := range n.ChildCount() {
		child := n.Child(i)
		switch {
		case child.Kind() == syntax.KindElseClause:
			start := len(l.toks)
			l.walk(child.Child(0), child.Kind(), indent)
			if body := child.Child(1); body.Kind() == syntax.KindIfStmt {
				l.walk(body, child.Kind(), indent)
			} else {
				l.embedded(body, child.Kind(), indent)
			}
			if then == nil || then.Kind() != syntax.KindBlock {
				l.breakAt(start, indent, false)
			}
		case i == thenIndex:
			then = child
			l.embedded(child, n.Kind(), indent)
		default:
			l.walk(child, n.Kind(), indent)
		}
	}
}

// embedded lays out the body of a control statement: a block stays on
// the statement's line, anything else goes on its own line one level in.
func (l *layouter) embedded(n *syntax.Node, parent syntax.Kind, indent int) {
	if n.Kind() == syntax.KindBlock {
		l.walk(n, parent, indent)
		return
	}
	start := len(l.toks)
	l.unit(n, parent, indent+1)
	l.breakAt(start, indent+1, false)
}

func (l *layouter) breakAt(i, indent int, item bool) {
	if i < len(l.toks) {
		l.toks[i].line = true
		l.toks[i].indent = indent
		l.toks[i].item = item
	}
}

// commentBefore reports whether a comment sits between token i and the
// one before it.
func (l *layouter) commentBefore(i int) bool {
	if i == 0 || i >= len(l.toks) {
		return false
	}
	return hasComment(l.toks[i-1].tok.Trailing) || hasComment(l.toks[i].tok.Leading)
}

func closesList(n *syntax.Node) bool {
	return n.IsMissing() || (n.IsToken() && n.Token().Kind == syntax.TokenRBrace)
}

// damaged reports whether n has a diagnostic, a missing or a skipped
// token outside the blocks and member lists nested in it.
func damaged(n *syntax.Node) bool {
	if !n.ContainsDiagnostics() && !n.ContainsErrors() {
		return false
	}
	if n.IsMissing() || n.Kind() == syntax.KindSkipped || len(n.Diagnostics()) > 0 {
		return true
	}
	for i := range n.ChildCount() {
		child := n.Child(i)
		if child.Kind() == syntax.KindBlock || child.Kind() == syntax.KindFieldList {
			continue
		}
		if damaged(child) {
			return true
		}
	}
	return false
}

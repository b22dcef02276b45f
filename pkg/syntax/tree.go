package syntax

import (
	"fmt"
	"slices"

	"github.com/yaklabco/gocst/pkg/source"
)

// Tree is an immutable root node plus the buffer version it was parsed
// from. Trees of different versions may share subtrees.
type Tree struct {
	root *Node
	buf  *source.Buffer
}

// NewTree pairs a root with its buffer. A root whose width differs from
// the buffer length is a construction defect and panics.
func NewTree(root *Node, buf *source.Buffer) *Tree {
	if root.width != buf.Len() {
		panic(fmt.Sprintf("syntax: root width %d does not match buffer length %d", root.width, buf.Len()))
	}
	return &Tree{root: root, buf: buf}
}

// Root returns the positioned root.
func (t *Tree) Root() Ref { return Ref{Node: t.root} }

// RootNode returns the root node.
func (t *Tree) RootNode() *Node { return t.root }

// Buffer returns the source buffer the tree was derived from.
func (t *Tree) Buffer() *source.Buffer { return t.buf }

// Text reassembles the source text from the tree's tokens and trivia.
func (t *Tree) Text() string { return t.root.Text() }

// HasErrors reports whether any diagnostic has error severity.
func (t *Tree) HasErrors() bool {
	for _, d := range t.Diagnostics() {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Diagnostics collects all diagnostics with absolute spans, ordered by
// start offset. Subtrees without diagnostics are not visited.
func (t *Tree) Diagnostics() []Diagnostic {
	var out []Diagnostic
	collectDiagnostics(t.Root(), &out)
	slices.SortStableFunc(out, func(a, b Diagnostic) int {
		return a.Span.Start - b.Span.Start
	})
	return out
}

func collectDiagnostics(r Ref, out *[]Diagnostic) {
	if !r.Node.ContainsDiagnostics() {
		return
	}
	for _, d := range r.Node.diags {
		start := r.Offset + d.Offset
		*out = append(*out, Diagnostic{
			Kind:     d.Kind,
			Severity: d.Kind.DefaultSeverity(),
			Span:     source.Span{Start: start, End: start + d.Length},
			Message:  d.Message,
		})
	}
	for _, child := range r.Children() {
		collectDiagnostics(child, out)
	}
}

// PathTo returns the chain of nodes from the root down to the leaf whose
// full span contains offset. It returns nil for offsets outside the buffer.
func (t *Tree) PathTo(offset int) []Ref {
	if offset < 0 || offset > t.root.width {
		return nil
	}
	cur := t.Root()
	path := []Ref{cur}
	for !cur.Node.kind.IsLeaf() {
		next, ok := cur.childContaining(offset)
		if !ok {
			break
		}
		path = append(path, next)
		cur = next
	}
	return path
}

// NodeAt returns the innermost composite node containing offset.
func (t *Tree) NodeAt(offset int) (Ref, bool) {
	path := t.PathTo(offset)
	for i := len(path) - 1; i >= 0; i-- {
		if !path[i].Node.kind.IsLeaf() {
			return path[i], true
		}
	}
	return Ref{}, false
}

// TokenAt returns the token whose full span contains offset. The end of
// the buffer maps to the EOF token.
func (t *Tree) TokenAt(offset int) (Ref, bool) {
	path := t.PathTo(offset)
	if len(path) == 0 {
		return Ref{}, false
	}
	leaf := path[len(path)-1]
	if leaf.Node.kind != KindToken {
		return Ref{}, false
	}
	return leaf, true
}

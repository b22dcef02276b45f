package syntax

import "github.com/yaklabco/gocst/pkg/source"

// Ref is a positioned view of a node: the node plus the absolute offset at
// which its full span (leading trivia included) starts. Refs are cheap
// values computed while descending from a tree root.
type Ref struct {
	Node   *Node
	Offset int
}

// IsZero reports whether r refers to no node.
func (r Ref) IsZero() bool { return r.Node == nil }

// Kind returns the node kind.
func (r Ref) Kind() Kind { return r.Node.kind }

// End returns the offset just after the node's full span.
func (r Ref) End() int { return r.Offset + r.Node.width }

// FullSpan covers the node including leading and trailing trivia.
func (r Ref) FullSpan() source.Span {
	return source.Span{Start: r.Offset, End: r.End()}
}

// Span covers the node without the leading trivia of its first token and
// the trailing trivia of its last token.
func (r Ref) Span() source.Span {
	first := r.Node.FirstToken()
	if first == nil {
		return source.Span{Start: r.Offset, End: r.Offset}
	}
	last := r.Node.LastToken()
	return source.Span{
		Start: r.Offset + first.LeadingWidth(),
		End:   r.End() - last.TrailingWidth(),
	}
}

// Text reproduces the source covered by the full span.
func (r Ref) Text() string { return r.Node.Text() }

// Token returns the terminal for token leaves, or nil.
func (r Ref) Token() *Token { return r.Node.token }

// ChildCount returns the number of children.
func (r Ref) ChildCount() int { return len(r.Node.children) }

// Children enumerates the children with their absolute offsets.
func (r Ref) Children() []Ref {
	refs := make([]Ref, len(r.Node.children))
	pos := r.Offset
	for i, child := range r.Node.children {
		refs[i] = Ref{Node: child, Offset: pos}
		pos += child.width
	}
	return refs
}

// Child returns the i-th child with its absolute offset.
func (r Ref) Child(i int) Ref {
	pos := r.Offset
	for _, child := range r.Node.children[:i] {
		pos += child.width
	}
	return Ref{Node: r.Node.children[i], Offset: pos}
}

// childContaining returns the child whose full span contains offset. An
// offset equal to r.End() selects the last child.
func (r Ref) childContaining(offset int) (Ref, bool) {
	children := r.Node.children
	if len(children) == 0 {
		return Ref{}, false
	}
	if offset == r.End() {
		last := len(children) - 1
		return Ref{Node: children[last], Offset: r.End() - children[last].width}, true
	}
	pos := r.Offset
	for _, child := range children {
		end := pos + child.width
		if offset >= pos && offset < end {
			return Ref{Node: child, Offset: pos}, true
		}
		pos = end
	}
	return Ref{}, false
}

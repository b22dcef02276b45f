package syntax

import (
	"fmt"
	"slices"
	"strings"
)

type nodeFlags uint8

const (
	flagContainsDiagnostics nodeFlags = 1 << iota
	flagContainsMissing
	flagContainsSkipped
)

// Node is an immutable syntax tree node. It stores its width in bytes but
// no absolute offset, so it can be reused wherever its text reappears.
// The zero value is not useful; build nodes with NewToken, NewMissing and
// NewNode.
type Node struct {
	kind     Kind
	width    int
	height   int
	flags    nodeFlags
	token    *Token
	expected TokenKind
	children []*Node
	diags    []NodeDiagnostic
}

// NewToken wraps a token as a leaf node.
func NewToken(tok Token, diags ...NodeDiagnostic) *Node {
	n := &Node{
		kind:  KindToken,
		width: tok.FullWidth(),
		token: &tok,
		diags: diags,
	}
	if len(diags) > 0 {
		n.flags |= flagContainsDiagnostics
	}
	return n
}

// NewMissing creates a zero-width leaf standing in for a terminal of kind
// expected that the parser could not find.
func NewMissing(expected TokenKind, diags ...NodeDiagnostic) *Node {
	n := &Node{
		kind:     KindMissing,
		expected: expected,
		flags:    flagContainsMissing,
		diags:    diags,
	}
	if len(diags) > 0 {
		n.flags |= flagContainsDiagnostics
	}
	return n
}

// NewNode creates a composite node. Nil children are dropped, which lets
// callers pass optional parts directly.
func NewNode(kind Kind, children []*Node, diags ...NodeDiagnostic) *Node {
	if kind.IsLeaf() {
		panic(fmt.Sprintf("syntax: NewNode called with leaf kind %s", kind))
	}

	kept := children[:0:0]
	for _, child := range children {
		if child != nil {
			kept = append(kept, child)
		}
	}

	n := &Node{kind: kind, children: kept, diags: diags, height: 1}
	if len(diags) > 0 {
		n.flags |= flagContainsDiagnostics
	}
	if kind == KindSkipped {
		n.flags |= flagContainsSkipped
	}
	for _, child := range kept {
		n.width += child.width
		n.height = max(n.height, child.height+1)
		n.flags |= child.flags
	}
	return n
}

// WithChild returns a copy of n whose i-th child is replaced. Every other
// child is shared with n.
func (n *Node) WithChild(i int, child *Node) *Node {
	children := slices.Clone(n.children)
	children[i] = child
	return NewNode(n.kind, children, n.diags...)
}

// Replace returns a copy of n whose children [i, j) are replaced by
// nodes. Children outside the range are shared with n.
func (n *Node) Replace(i, j int, nodes ...*Node) *Node {
	children := make([]*Node, 0, len(n.children)-(j-i)+len(nodes))
	children = append(children, n.children[:i]...)
	children = append(children, nodes...)
	children = append(children, n.children[j:]...)
	return NewNode(n.kind, children, n.diags...)
}

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// Width returns the number of source bytes covered, trivia included.
func (n *Node) Width() int { return n.width }

// Height returns the number of composite levels from n down to its
// deepest leaf. Leaves have height 0.
func (n *Node) Height() int { return n.height }

// Token returns the terminal of a KindToken leaf, or nil.
// The returned token must not be modified.
func (n *Node) Token() *Token { return n.token }

// Expected returns the terminal kind a KindMissing leaf stands in for.
func (n *Node) Expected() TokenKind { return n.expected }

// IsToken reports whether n is a token leaf.
func (n *Node) IsToken() bool { return n.kind == KindToken }

// IsMissing reports whether n is a missing-token leaf.
func (n *Node) IsMissing() bool { return n.kind == KindMissing }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Diagnostics returns the diagnostics stored on n itself, with offsets
// relative to n's start.
func (n *Node) Diagnostics() []NodeDiagnostic { return slices.Clone(n.diags) }

// ContainsDiagnostics reports whether n or any descendant has diagnostics.
func (n *Node) ContainsDiagnostics() bool { return n.flags&flagContainsDiagnostics != 0 }

// ContainsErrors reports whether the subtree has missing or skipped tokens.
func (n *Node) ContainsErrors() bool {
	return n.flags&(flagContainsMissing|flagContainsSkipped) != 0
}

// FirstToken returns the first real token in the subtree, or nil when the
// subtree holds only missing leaves.
func (n *Node) FirstToken() *Token {
	if n.kind == KindToken {
		return n.token
	}
	for _, child := range n.children {
		if tok := child.FirstToken(); tok != nil {
			return tok
		}
	}
	return nil
}

// LastToken returns the last real token in the subtree, or nil.
func (n *Node) LastToken() *Token {
	if n.kind == KindToken {
		return n.token
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if tok := n.children[i].LastToken(); tok != nil {
			return tok
		}
	}
	return nil
}

// Text reproduces the exact source covered by n.
func (n *Node) Text() string {
	var sb strings.Builder
	sb.Grow(n.width)
	n.writeText(&sb)
	return sb.String()
}

func (n *Node) writeText(sb *strings.Builder) {
	if n.kind == KindToken {
		n.token.writeTo(sb)
		return
	}
	for _, child := range n.children {
		child.writeText(sb)
	}
}

func (n *Node) String() string {
	switch n.kind {
	case KindToken:
		return fmt.Sprintf("%s %q", n.token.Kind, n.token.Text)
	case KindMissing:
		return fmt.Sprintf("Missing(%s)", n.expected)
	default:
		return fmt.Sprintf("%s(%d)", n.kind, n.width)
	}
}

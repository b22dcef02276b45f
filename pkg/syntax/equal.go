package syntax

import "slices"

// Equal reports whether two subtrees are structurally equal: same kinds,
// widths, tokens with trivia, missing-token expectations and diagnostics.
// Shared subtrees compare equal without being visited.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.kind != b.kind || a.width != b.width || a.expected != b.expected {
		return false
	}
	if !slices.Equal(a.diags, b.diags) {
		return false
	}
	if a.kind == KindToken {
		return a.token.Equal(b.token)
	}
	if len(a.children) != len(b.children) {
		return false
	}
	for i := range a.children {
		if !Equal(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}

// FirstDifference returns the first pair of positioned nodes, in
// pre-order, at which the two subtrees stop being structurally equal.
// It returns false when the subtrees are equal.
func FirstDifference(a, b Ref) (Ref, Ref, bool) {
	if Equal(a.Node, b.Node) {
		return Ref{}, Ref{}, false
	}
	if a.Node == nil || b.Node == nil || a.Node.kind != b.Node.kind ||
		a.Node.kind.IsLeaf() || len(a.Node.children) != len(b.Node.children) ||
		!slices.Equal(a.Node.diags, b.Node.diags) {
		return a, b, true
	}
	ac, bc := a.Children(), b.Children()
	for i := range ac {
		if da, db, ok := FirstDifference(ac[i], bc[i]); ok {
			return da, db, true
		}
	}
	return a, b, true
}

package syntax

import (
	"errors"
	"iter"
)

// WalkFunc is the function signature for Walk callbacks.
// Return SkipChildren to skip the node's subtree, or any other non-nil
// error to stop the walk.
type WalkFunc func(r Ref) error

// SkipChildren may be returned by a WalkFunc to skip a subtree.
var SkipChildren = errors.New("skip children")

// Walk performs a pre-order traversal starting at root.
func Walk(root Ref, walkFunc WalkFunc) error {
	if root.IsZero() {
		return nil
	}
	err := walk(root, walkFunc)
	if errors.Is(err, SkipChildren) {
		return nil
	}
	return err
}

func walk(r Ref, walkFunc WalkFunc) error {
	if err := walkFunc(r); err != nil {
		return err
	}
	pos := r.Offset
	for _, child := range r.Node.children {
		err := walk(Ref{Node: child, Offset: pos}, walkFunc)
		if err != nil && !errors.Is(err, SkipChildren) {
			return err
		}
		pos += child.width
	}
	return nil
}

// WalkWithContext performs a traversal with enter and leave callbacks.
// Enter is called before visiting children, leave is called after.
// Either callback may be nil. When enter returns SkipChildren, neither the
// children nor leave are visited for that node.
func WalkWithContext(root Ref, enter, leave WalkFunc) error {
	if root.IsZero() {
		return nil
	}

	if enter != nil {
		if err := enter(root); err != nil {
			if errors.Is(err, SkipChildren) {
				return nil
			}
			return err
		}
	}

	for _, child := range root.Children() {
		if err := WalkWithContext(child, enter, leave); err != nil {
			return err
		}
	}

	if leave != nil {
		if err := leave(root); err != nil {
			return err
		}
	}
	return nil
}

// FindAll returns all nodes matching the predicate.
func FindAll(root Ref, predicate func(r Ref) bool) []Ref {
	var result []Ref

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(r Ref) error {
		if predicate(r) {
			result = append(result, r)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node matching the predicate in pre-order.
func FindFirst(root Ref, predicate func(r Ref) bool) (Ref, bool) {
	var found Ref

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(root, func(r Ref) error {
		if predicate(r) {
			found = r
			return errStopWalk
		}
		return nil
	})

	return found, !found.IsZero()
}

// FindByKind returns all nodes of the specified kind.
func FindByKind(root Ref, kind Kind) []Ref {
	return FindAll(root, func(r Ref) bool {
		return r.Node.kind == kind
	})
}

// Tokens yields every token leaf under root in source order.
func Tokens(root Ref) iter.Seq[Ref] {
	return func(yield func(Ref) bool) {
		//nolint:errcheck,revive // errStopWalk only signals an early break
		Walk(root, func(r Ref) error {
			if r.Node.kind != KindToken {
				return nil
			}
			if !yield(r) {
				return errStopWalk
			}
			return nil
		})
	}
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{}

type stopWalkError struct{}

func (e *stopWalkError) Error() string {
	return "stop walk"
}

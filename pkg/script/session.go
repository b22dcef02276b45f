package script

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/gocst/pkg/changes"
	"github.com/yaklabco/gocst/pkg/incremental"
	"github.com/yaklabco/gocst/pkg/parser"
	"github.com/yaklabco/gocst/pkg/source"
	"github.com/yaklabco/gocst/pkg/syntax"
)

var (
	// ErrDivergence means an incremental reparse produced a tree that is
	// not equal to a full parse of the same text.
	ErrDivergence = errors.New("incremental tree differs from full parse")

	// ErrUnexpectedText means a step's expect text did not match.
	ErrUnexpectedText = errors.New("document text does not match expectation")
)

// StepError reports which step of a script failed.
type StepError struct {
	Index int
	Name  string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", Step{Name: e.Name}.Label(e.Index), e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// StepResult describes one applied batch of edits.
type StepResult struct {
	Index int
	Name  string

	// Edits are the resolved edits in application order.
	Edits []source.Edit

	// Reparses holds one entry per edit.
	Reparses []incremental.Result

	// Spans are the changes between the tree before and after the step.
	Spans []changes.Span

	// Before and After are the trees on either side of the step.
	Before *syntax.Tree
	After  *syntax.Tree

	// Verified is set when After was checked against a full parse.
	Verified bool
}

// Session holds a document tree and applies edits to it.
type Session struct {
	tree          *syntax.Tree
	verify        bool
	checkInterval int
	steps         int
}

// Option configures a Session.
type Option func(*Session)

// WithVerify compares every incremental result against a full parse.
func WithVerify(verify bool) Option {
	return func(s *Session) {
		s.verify = verify
	}
}

// WithCheckInterval sets the cancellation check interval passed to the
// parser, reparser and differ.
func WithCheckInterval(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.checkInterval = n
		}
	}
}

// NewSession parses text and returns a session positioned on it.
func NewSession(ctx context.Context, path, text string, opts ...Option) (*Session, error) {
	s := &Session{checkInterval: parser.DefaultCheckInterval}
	for _, opt := range opts {
		opt(s)
	}
	tree, err := parser.Parse(ctx, source.New(path, text), parser.WithCheckInterval(s.checkInterval))
	if err != nil {
		return nil, fmt.Errorf("parse initial text: %w", err)
	}
	s.tree = tree
	return s, nil
}

// Tree returns the current tree.
func (s *Session) Tree() *syntax.Tree { return s.tree }

// Text returns the current document text.
func (s *Session) Text() string { return s.tree.Buffer().Text() }

// Apply resolves and applies specs in order and returns the step summary.
// On error the session keeps the tree it had before the call.
func (s *Session) Apply(ctx context.Context, name string, specs ...EditSpec) (StepResult, error) {
	index := s.steps
	res := StepResult{Index: index, Name: name, Before: s.tree}

	tree := s.tree
	for _, spec := range specs {
		edit, err := spec.Resolve(tree.Buffer().Text())
		if err != nil {
			return res, &StepError{Index: index, Name: name, Err: err}
		}
		next, rr, err := incremental.Reparse(ctx, tree, edit, incremental.WithCheckInterval(s.checkInterval))
		if err != nil {
			return res, &StepError{Index: index, Name: name, Err: err}
		}
		res.Edits = append(res.Edits, edit)
		res.Reparses = append(res.Reparses, rr)
		tree = next
	}

	if s.verify {
		if err := s.verifyTree(ctx, tree); err != nil {
			return res, &StepError{Index: index, Name: name, Err: err}
		}
		res.Verified = true
	}

	spans, err := changes.Diff(ctx, s.tree, tree, changes.WithCheckInterval(s.checkInterval))
	if err != nil {
		return res, &StepError{Index: index, Name: name, Err: err}
	}
	res.Spans = spans
	res.After = tree

	s.tree = tree
	s.steps++
	return res, nil
}

// Replace swaps the whole document for text, which the caller has typed
// or loaded afresh. The edit is the smallest single replacement between
// the current and the new text.
func (s *Session) Replace(ctx context.Context, name, text string) (StepResult, error) {
	old := s.Text()
	prefix := 0
	for prefix < len(old) && prefix < len(text) && old[prefix] == text[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(old)-prefix && suffix < len(text)-prefix &&
		old[len(old)-1-suffix] == text[len(text)-1-suffix] {
		suffix++
	}
	start, end := prefix, len(old)-suffix
	return s.Apply(ctx, name, EditSpec{Start: &start, End: &end, Text: text[prefix : len(text)-suffix]})
}

func (s *Session) verifyTree(ctx context.Context, tree *syntax.Tree) error {
	full, err := parser.Parse(ctx, tree.Buffer(), parser.WithCheckInterval(s.checkInterval))
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if a, b, differ := syntax.FirstDifference(tree.Root(), full.Root()); differ {
		return fmt.Errorf("%w: %s at %s, full parse has %s at %s",
			ErrDivergence, a.Kind(), a.FullSpan(), b.Kind(), b.FullSpan())
	}
	return nil
}

// Play runs every step of sc and returns the per-step results. It stops at
// the first failing step; the results of the steps before it are returned
// with the error.
func Play(ctx context.Context, sc *Script, opts ...Option) (*Session, []StepResult, error) {
	sess, err := NewSession(ctx, sc.Path, sc.Initial, opts...)
	if err != nil {
		return nil, nil, err
	}
	results := make([]StepResult, 0, len(sc.Steps))
	for i, step := range sc.Steps {
		res, err := sess.Apply(ctx, step.Name, step.Edits...)
		if err != nil {
			return sess, results, err
		}
		results = append(results, res)
		if step.Expect != nil && sess.Text() != *step.Expect {
			return sess, results, &StepError{
				Index: i,
				Name:  step.Name,
				Err:   fmt.Errorf("%w: got %q, want %q", ErrUnexpectedText, sess.Text(), *step.Expect),
			}
		}
	}
	return sess, results, nil
}

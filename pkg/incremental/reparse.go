// Package incremental re-parses an edited buffer by replacing only the
// smallest run of declarations or statements whose text the edit touched.
//
// Every node outside the replaced run is shared by reference with the old
// tree; every ancestor of the run is rebuilt. The result is always
// structurally equal to a full parse of the new text. When the edit cannot
// be confined (for example an unterminated comment that swallows the rest
// of the file), Reparse falls back to a full parse.
package incremental

import (
	"context"
	"fmt"

	"gitlab.com/tozd/go/errors"

	"github.com/yaklabco/gocst/pkg/parser"
	"github.com/yaklabco/gocst/pkg/source"
	"github.com/yaklabco/gocst/pkg/syntax"
)

// ErrContract is wrapped by every error caused by an edit that does not
// fit the old tree. Such errors are never retried or recovered.
var ErrContract = errors.New("reparse contract violation")

// Mode tells how a reparse was carried out.
type Mode uint8

const (
	// ModeIncremental means a run of nodes was re-parsed and spliced in.
	ModeIncremental Mode = iota
	// ModeFull means the whole buffer was parsed again.
	ModeFull
)

func (m Mode) String() string {
	switch m {
	case ModeIncremental:
		return "incremental"
	case ModeFull:
		return "full"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Result describes the work done by a reparse.
type Result struct {
	Mode Mode

	// Context is the grammar rule the replaced run was parsed with.
	Context parser.Context

	// Parent is the kind of the node whose children were replaced.
	Parent syntax.Kind

	// Span is the full span of the replacement in the new buffer.
	Span source.Span

	// Replaced and Inserted count the old and new nodes of the run.
	Replaced int
	Inserted int

	// Tokens is the number of tokens lexed for the replacement.
	Tokens int

	// Attempts is the number of candidate runs tried.
	Attempts int
}

// Option configures a reparse.
type Option func(*options)

type options struct {
	checkInterval int
}

// WithCheckInterval sets how many tokens are lexed or parsed between
// cancellation checks.
func WithCheckInterval(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.checkInterval = n
		}
	}
}

// Reparse applies edit to old's buffer and returns the tree of the
// resulting buffer version.
func Reparse(ctx context.Context, old *syntax.Tree, edit source.Edit, opts ...Option) (*syntax.Tree, Result, error) {
	if old == nil {
		return nil, Result{}, errors.Errorf("%w: old tree is nil", ErrContract)
	}
	newBuf, err := old.Buffer().Apply(edit)
	if err != nil {
		return nil, Result{}, errors.Errorf("%w: %w", ErrContract, err)
	}
	return reparse(ctx, old, newBuf, edit, opts)
}

// ReparseBuffer is Reparse for callers that already hold the edited
// buffer. newBuf must be the direct successor of old's buffer and must
// contain the edit's replacement text at the edit's position.
func ReparseBuffer(
	ctx context.Context, old *syntax.Tree, newBuf *source.Buffer, edit source.Edit, opts ...Option,
) (*syntax.Tree, Result, error) {
	if old == nil || newBuf == nil {
		return nil, Result{}, errors.Errorf("%w: nil tree or buffer", ErrContract)
	}
	oldBuf := old.Buffer()
	if err := source.ValidateEdits([]source.Edit{edit}, oldBuf.Len()); err != nil {
		return nil, Result{}, errors.Errorf("%w: %w", ErrContract, err)
	}
	if !newBuf.IsSuccessorOf(oldBuf) {
		return nil, Result{}, errors.Errorf("%w: buffer %s does not follow %s", ErrContract, newBuf, oldBuf)
	}
	if newBuf.Len() != oldBuf.Len()+edit.Delta() {
		return nil, Result{}, errors.Errorf("%w: buffer length %d does not match edit %s", ErrContract, newBuf.Len(), edit)
	}
	span := edit.NewSpan()
	if newBuf.Slice(span.Start, span.End) != edit.NewText {
		return nil, Result{}, errors.Errorf("%w: buffer does not contain the replacement text of %s", ErrContract, edit)
	}
	return reparse(ctx, old, newBuf, edit, opts)
}

func reparse(
	ctx context.Context, old *syntax.Tree, newBuf *source.Buffer, edit source.Edit, opts []Option,
) (*syntax.Tree, Result, error) {
	o := options{checkInterval: parser.DefaultCheckInterval}
	for _, opt := range opts {
		opt(&o)
	}
	cands := collectCandidates(old.Root(), edit)
	for i, cand := range cands {
		root, res, ok, err := tryCandidate(ctx, old, newBuf, edit, cand, o)
		if err != nil {
			return nil, Result{}, err
		}
		if ok {
			res.Attempts = i + 1
			return syntax.NewTree(root, newBuf), res, nil
		}
	}

	tree, err := parser.Parse(ctx, newBuf, parser.WithCheckInterval(o.checkInterval))
	if err != nil {
		return nil, Result{}, errors.Errorf("full reparse: %w", err)
	}
	return tree, Result{
		Mode:     ModeFull,
		Context:  parser.ContextTranslationUnit,
		Parent:   syntax.KindTranslationUnit,
		Span:     source.Span{Start: 0, End: newBuf.Len()},
		Attempts: len(cands),
	}, nil
}

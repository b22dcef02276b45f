// Package format rewrites the whitespace of a syntax tree into one
// canonical layout while keeping every token and comment.
//
// Each declaration, statement and struct member starts its own line,
// indented by its nesting depth. Spacing inside a line follows the token
// kinds and their parent nodes. A blank line between two items survives,
// runs of blank lines shrink to one. A declaration or statement that
// carries a syntax error keeps its inner spacing as written; only the
// break before it and the comments after it are normalized.
//
// Normalize reparses the rewritten text incrementally, so nodes outside
// the first and last changed byte are shared with the input tree, and it
// checks that the result has the same tokens and diagnostic kinds.
package format

import (
	"context"
	"slices"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/yaklabco/gocst/pkg/incremental"
	"github.com/yaklabco/gocst/pkg/source"
	"github.com/yaklabco/gocst/pkg/syntax"
)

// DefaultIndent is one indentation level unless Options says otherwise.
const DefaultIndent = "    "

// ErrNotPreserved is wrapped when the rewritten text parses to different
// tokens or diagnostics than the input.
var ErrNotPreserved = errors.New("layout changed the parse")

// Options controls the layout.
type Options struct {
	// Indent is the text of one indentation level. Empty selects
	// DefaultIndent.
	Indent string
}

func (o Options) indent() string {
	if o.Indent == "" {
		return DefaultIndent
	}
	return o.Indent
}

// Text returns the text of tree laid out canonically.
func Text(tree *syntax.Tree, opts Options) string {
	var l layouter
	l.walk(tree.RootNode(), syntax.KindTranslationUnit, 0)
	e := emitter{indent: opts.indent()}
	return e.emit(l.toks)
}

// Normalize returns the tree of tree's text laid out canonically. When
// the text is already canonical tree itself is returned.
func Normalize(ctx context.Context, tree *syntax.Tree, opts Options) (*syntax.Tree, error) {
	before := tree.Text()
	after := Text(tree, opts)
	if after == before {
		return tree, nil
	}

	next, _, err := incremental.Reparse(ctx, tree, minimalEdit(before, after))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := samePhrases(tree, next); err != nil {
		return nil, err
	}
	return next, nil
}

// minimalEdit is the single edit that turns a into b, with the common
// prefix and suffix left out.
func minimalEdit(a, b string) source.Edit {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}
	return source.Edit{
		StartOffset: prefix,
		EndOffset:   len(a) - suffix,
		NewText:     b[prefix : len(b)-suffix],
	}
}

// samePhrases checks that a and b hold the same token kinds in the same
// order and the same diagnostic kinds.
func samePhrases(a, b *syntax.Tree) error {
	ka, kb := tokenKinds(a), tokenKinds(b)
	for i := range min(len(ka), len(kb)) {
		if ka[i] != kb[i] {
			return errors.Errorf("%w: token %d is %s, was %s", ErrNotPreserved, i, kb[i], ka[i])
		}
	}
	if len(ka) != len(kb) {
		return errors.Errorf("%w: %d tokens, was %d", ErrNotPreserved, len(kb), len(ka))
	}

	da, db := diagnosticKinds(a), diagnosticKinds(b)
	if !slices.Equal(da, db) {
		return errors.Errorf("%w: diagnostics %v, was %v", ErrNotPreserved, db, da)
	}
	return nil
}

// diagnosticKinds lists the kinds of tree's diagnostics, sorted. Two
// diagnostics may trade places when the space between them changes.
func diagnosticKinds(tree *syntax.Tree) []syntax.DiagnosticKind {
	var kinds []syntax.DiagnosticKind
	for _, diag := range tree.Diagnostics() {
		kinds = append(kinds, diag.Kind)
	}
	slices.Sort(kinds)
	return kinds
}

func tokenKinds(tree *syntax.Tree) []syntax.TokenKind {
	var kinds []syntax.TokenKind
	for ref := range syntax.Tokens(tree.Root()) {
		kinds = append(kinds, ref.Token().Kind)
	}
	return kinds
}

func isComment(tr syntax.Trivia) bool {
	return tr.Kind == syntax.TriviaLineComment || tr.Kind == syntax.TriviaBlockComment
}

func hasComment(list []syntax.Trivia) bool {
	for _, tr := range list {
		if isComment(tr) {
			return true
		}
	}
	return false
}

// unterminated reports whether tr is a block comment that runs to the end
// of the file.
func unterminated(tr syntax.Trivia) bool {
	return tr.Kind == syntax.TriviaBlockComment && (len(tr.Text) < 4 || !strings.HasSuffix(tr.Text, "*/"))
}

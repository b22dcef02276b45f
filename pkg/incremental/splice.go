package incremental

import (
	"context"
	"slices"

	"gitlab.com/tozd/go/errors"

	"github.com/yaklabco/gocst/pkg/lexer"
	"github.com/yaklabco/gocst/pkg/parser"
	"github.com/yaklabco/gocst/pkg/source"
	"github.com/yaklabco/gocst/pkg/syntax"
)

// depthSlack covers the levels the parser counts but the tree does not
// show, such as an operand's own unary frame.
const depthSlack = 4

// tryCandidate re-lexes and re-parses one run. It reports false when the
// run cannot be replaced in isolation; the error is non-nil only when ctx
// is cancelled.
func tryCandidate(
	ctx context.Context, old *syntax.Tree, newBuf *source.Buffer, edit source.Edit, cand candidate, o options,
) (*syntax.Node, Result, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, Result{}, false, errors.Errorf("reparse cancelled: %w", err)
	}

	parent := cand.parent()
	runStart := parent.Child(cand.first).Offset
	runEnd := parent.Child(cand.last - 1).End()
	newEnd := runEnd + edit.Delta()
	oldFirst := parent.Node.Child(cand.first).FirstToken()

	// Tokens before the run are lexed again from far enough back that the
	// lexer is known to be on a token boundary.
	before := precedingTokens(old, runStart)
	start := runStart
	if len(before) > 0 {
		start = before[0].Offset
	}

	lx := lexer.New(newBuf.Text(), start)
	for _, ref := range before {
		tok := lx.Next()
		if tok.Offset != ref.Offset || !tok.Equal(ref.Token()) {
			return nil, Result{}, false, nil
		}
	}

	var region []lexer.Token
	for lx.Pos() < newEnd {
		if len(region)%o.checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, Result{}, false, errors.Errorf("reparse cancelled: %w", err)
			}
		}
		tok := lx.Next()
		if tok.Kind == syntax.TokenEOF {
			return nil, Result{}, false, nil
		}
		region = append(region, tok)
	}
	if lx.Pos() != newEnd {
		return nil, Result{}, false, nil
	}
	if len(region) == 0 && cand.context != parser.ContextExternalDecl && cand.context != parser.ContextBlockItem {
		return nil, Result{}, false, nil
	}

	src := &replay{toks: region, lx: lx}
	if next := src.peek(); !sameBoundary(oldFirst, &next.Token) {
		return nil, Result{}, false, nil
	}

	var prev *syntax.Token
	if len(before) > 0 {
		prev = before[len(before)-1].Token()
	}

	items, consumed, err := parser.ParseItems(ctx, src, cand.context, len(region),
		parser.WithPreviousToken(prev),
		parser.WithCheckInterval(o.checkInterval))
	if err != nil {
		return nil, Result{}, false, errors.Errorf("reparse %s: %w", cand.context, err)
	}
	if consumed != len(region) {
		return nil, Result{}, false, nil
	}
	// Near the parser's depth limit the outcome depends on how many levels
	// enclose the run, which a fragment parse does not see.
	for _, item := range items {
		if len(cand.ancestors)+item.Height()+depthSlack >= parser.MaxDepth {
			return nil, Result{}, false, nil
		}
	}

	root := splice(cand, items)
	return root, Result{
		Mode:     ModeIncremental,
		Context:  cand.context,
		Parent:   parent.Kind(),
		Span:     source.Span{Start: runStart, End: newEnd},
		Replaced: cand.last - cand.first,
		Inserted: len(items),
		Tokens:   len(before) + len(region),
	}, true, nil
}

// splice rebuilds the ancestors of the run bottom-up. Every node off the
// path is shared with the old tree.
func splice(cand candidate, items []*syntax.Node) *syntax.Node {
	node := cand.parent().Node.Replace(cand.first, cand.last, items...)
	for k := len(cand.ancestors) - 2; k >= 0; k-- {
		node = cand.ancestors[k].Node.WithChild(cand.indices[k], node)
	}
	return node
}

// precedingTokens returns the tokens that end at offset, going back until
// they span at least lexer.MaxLookahead bytes or reach the buffer start.
func precedingTokens(tree *syntax.Tree, offset int) []syntax.Ref {
	var out []syntax.Ref
	width := 0
	for pos := offset; pos > 0 && width < lexer.MaxLookahead; {
		ref, ok := tree.TokenAt(pos - 1)
		if !ok {
			break
		}
		out = append(out, ref)
		width += ref.Node.Width()
		pos = ref.Offset
	}
	slices.Reverse(out)
	return out
}

// sameBoundary reports whether the parser would treat two tokens alike
// when it merely peeks at them: it looks only at the kind and at whether
// a line break precedes the token.
func sameBoundary(a, b *syntax.Token) bool {
	return a.Kind == b.Kind && hasNewline(a.Leading) == hasNewline(b.Leading)
}

func hasNewline(trivia []syntax.Trivia) bool {
	for _, tr := range trivia {
		if tr.Kind == syntax.TriviaNewline {
			return true
		}
	}
	return false
}

// replay feeds already lexed tokens to the parser, then continues with
// the lexer.
type replay struct {
	toks []lexer.Token
	lx   *lexer.Lexer
}

func (r *replay) Next() lexer.Token {
	if len(r.toks) > 0 {
		tok := r.toks[0]
		r.toks = r.toks[1:]
		return tok
	}
	return r.lx.Next()
}

// peek returns the next token without consuming it.
func (r *replay) peek() lexer.Token {
	if len(r.toks) == 0 {
		r.toks = append(r.toks, r.lx.Next())
	}
	return r.toks[0]
}

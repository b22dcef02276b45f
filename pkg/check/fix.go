package check

import (
	"github.com/yaklabco/gocst/pkg/source"
	"github.com/yaklabco/gocst/pkg/syntax"
)

// fixable lists the punctuation a fix may insert. Closing braces are left
// out: where a block should end is a guess.
//
//nolint:gochecknoglobals // Read-only lookup table.
var fixable = map[syntax.TokenKind]bool{
	syntax.TokenSemicolon: true,
	syntax.TokenRParen:    true,
	syntax.TokenRBracket:  true,
}

// IsFixable reports whether diagnostics of kind can carry a fix. Only some
// of them do: a missing closing brace never has one.
func IsFixable(kind syntax.DiagnosticKind) bool {
	return kind == syntax.DiagExpectedToken
}

// punctuationFix returns the edit that supplies the punctuation a missing
// leaf stands for. The text goes right after the preceding token's text,
// before its trailing trivia, so "x = 1\n" becomes "x = 1;\n". Missing
// statements (an empty statement with no ';') are not fixed.
func punctuationFix(tree *syntax.Tree, r syntax.Ref, parents []syntax.Kind) (source.Edit, string, bool) {
	if !r.Node.IsMissing() || !fixable[r.Node.Expected()] {
		return source.Edit{}, "", false
	}
	if len(parents) > 0 && parents[len(parents)-1] == syntax.KindEmptyStmt {
		return source.Edit{}, "", false
	}

	at := r.Offset
	if at > 0 {
		if prev, ok := tree.TokenAt(at - 1); ok {
			at = prev.Span().End
		}
	}
	text := r.Node.Expected().Spelling()
	return source.Edit{StartOffset: at, EndOffset: at, NewText: text}, "insert " + r.Node.Expected().Describe(), true
}

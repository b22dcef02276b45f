package format

import (
	"strings"

	"github.com/yaklabco/gocst/pkg/lexer"
	"github.com/yaklabco/gocst/pkg/syntax"
)

// emitter writes placed tokens with their trivia rebuilt.
type emitter struct {
	sb     strings.Builder
	indent string

	// newlines counts the line breaks in the source since the last
	// token or comment written.
	newlines int

	// afterComment is set when a comment was the last thing written, and
	// mustBreak when that comment was a line comment.
	afterComment bool
	mustBreak    bool

	// open is set once an unterminated block comment has been written.
	open bool
}

func (e *emitter) emit(toks []placed) string {
	var prev *placed
	for i := range toks {
		t := &toks[i]
		if t.keepLeading {
			for _, tr := range t.tok.Leading {
				e.sb.WriteString(tr.Text)
			}
		} else {
			e.leading(prev, t)
		}
		e.sb.WriteString(t.tok.Text)
		e.trailing(t)
		prev = t
	}
	return e.sb.String()
}

// gapComment is a comment of a leading trivia list with the number of
// line breaks before it.
type gapComment struct {
	trivia syntax.Trivia
	breaks int
}

func (e *emitter) leading(prev, t *placed) {
	var comments []gapComment
	breaks := e.newlines
	for _, tr := range t.tok.Leading {
		switch {
		case tr.Kind == syntax.TriviaNewline:
			breaks++
		case isComment(tr):
			comments = append(comments, gapComment{trivia: tr, breaks: breaks})
			breaks = 0
		}
	}

	level := t.indent
	if !t.line {
		level++
	}
	commentLevel := level
	if t.line && t.tok.Kind == syntax.TokenRBrace {
		commentLevel++
	}
	blankAllowed := t.item && (prev == nil || prev.tok.Kind != syntax.TokenLBrace)

	for _, c := range comments {
		switch {
		case e.sb.Len() == 0:
		case c.breaks > 0 || e.mustBreak:
			e.sb.WriteString("\n")
			if blankAllowed && c.breaks > 1 {
				e.sb.WriteString("\n")
			}
			e.writeIndent(commentLevel)
		default:
			e.sb.WriteString(" ")
		}
		e.comment(c.trivia)
	}

	switch {
	case e.open:
	case t.tok.Kind == syntax.TokenEOF:
		if e.sb.Len() > 0 {
			e.sb.WriteString("\n")
		}
	case e.sb.Len() == 0:
	case t.line || e.mustBreak:
		e.sb.WriteString("\n")
		if blankAllowed && breaks > 1 {
			e.sb.WriteString("\n")
		}
		e.writeIndent(level)
	case e.afterComment:
		e.sb.WriteString(" ")
	case spaceBetween(prev, t) || !lexesApart(prev.tok.Text, t.tok.Text):
		e.sb.WriteString(" ")
	}
	e.afterComment = false
	e.mustBreak = false
}

func (e *emitter) trailing(t *placed) {
	e.newlines = 0
	if t.keepTrailing {
		for _, tr := range t.tok.Trailing {
			e.sb.WriteString(tr.Text)
		}
		return
	}
	for _, tr := range t.tok.Trailing {
		switch {
		case tr.Kind == syntax.TriviaNewline:
			e.newlines++
		case isComment(tr):
			e.sb.WriteString(" ")
			e.comment(tr)
		}
	}
}

func (e *emitter) comment(tr syntax.Trivia) {
	e.sb.WriteString(tr.Text)
	e.afterComment = true
	e.mustBreak = tr.Kind == syntax.TriviaLineComment
	if unterminated(tr) {
		e.open = true
	}
}

func (e *emitter) writeIndent(level int) {
	for range level {
		e.sb.WriteString(e.indent)
	}
}

// spaceBetween decides the separator between two tokens on one line.
func spaceBetween(prev, cur *placed) bool {
	pk, ck := prev.tok.Kind, cur.tok.Kind

	switch ck {
	case syntax.TokenComma, syntax.TokenSemicolon, syntax.TokenRParen, syntax.TokenRBracket,
		syntax.TokenLBracket, syntax.TokenDot, syntax.TokenArrow:
		return false
	case syntax.TokenRBrace:
		if pk == syntax.TokenLBrace || cur.parent == syntax.KindInitList {
			return false
		}
	case syntax.TokenIncrement, syntax.TokenDecrement:
		if cur.parent == syntax.KindPostfixExpr {
			return false
		}
	case syntax.TokenLParen:
		switch pk {
		case syntax.TokenIdent, syntax.TokenRParen, syntax.TokenRBracket, syntax.TokenSizeof:
			return false
		}
	}

	switch pk {
	case syntax.TokenLParen, syntax.TokenLBracket, syntax.TokenDot, syntax.TokenArrow,
		syntax.TokenNot, syntax.TokenBitNot:
		return false
	case syntax.TokenLBrace:
		return prev.parent != syntax.KindInitList
	case syntax.TokenStar:
		return prev.parent != syntax.KindUnaryExpr && prev.parent != syntax.KindDeclarator
	case syntax.TokenMinus, syntax.TokenPlus, syntax.TokenBitAnd, syntax.TokenIncrement, syntax.TokenDecrement:
		return prev.parent != syntax.KindUnaryExpr
	case syntax.TokenRParen:
		return prev.parent != syntax.KindCastExpr
	}
	return true
}

// lexesApart reports whether a and b written without a space between
// them still lex as the two tokens a and b.
func lexesApart(a, b string) bool {
	lx := lexer.New(a+b, 0)
	first := lx.Next()
	if first.Text != a || len(first.Trailing) > 0 {
		return false
	}
	second := lx.Next()
	return second.Text == b && len(second.Leading) == 0
}

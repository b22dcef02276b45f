package lexer

import (
	"unicode/utf8"

	"github.com/yaklabco/gocst/pkg/syntax"
)

// scanTrivia consumes whitespace, line breaks and comments. Trailing trivia
// stops after the first line break so that the next line's indentation and
// comments lead the following token.
func (l *Lexer) scanTrivia(trailing bool) []syntax.Trivia {
	var out []syntax.Trivia
	for l.pos < len(l.text) {
		start := l.pos
		ch := l.peek()

		switch {
		case ch == ' ' || ch == '\t' || ch == '\f' || ch == '\v':
			for isSpace(l.peek()) {
				l.pos++
			}
			out = append(out, syntax.Trivia{Kind: syntax.TriviaWhitespace, Text: l.text[start:l.pos]})

		case ch == '\n' || ch == '\r':
			if ch == '\r' && l.peekN(1) == '\n' {
				l.pos++
			}
			l.pos++
			out = append(out, syntax.Trivia{Kind: syntax.TriviaNewline, Text: l.text[start:l.pos]})
			if trailing {
				return out
			}

		case ch == '/' && l.peekN(1) == '/':
			for l.pos < len(l.text) && l.peek() != '\n' && l.peek() != '\r' {
				l.pos++
			}
			out = append(out, syntax.Trivia{Kind: syntax.TriviaLineComment, Text: l.text[start:l.pos]})

		case ch == '/' && l.peekN(1) == '*':
			l.scanBlockComment()
			out = append(out, syntax.Trivia{Kind: syntax.TriviaBlockComment, Text: l.text[start:l.pos]})

		default:
			return out
		}
	}
	return out
}

func (l *Lexer) scanBlockComment() {
	l.pos += 2
	for l.pos < len(l.text) {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.pos += 2
			return
		}
		l.pos++
	}
	l.flags |= syntax.FlagUnterminatedComment
}

// scanToken consumes one token's text and returns its kind. It always
// consumes at least one byte.
func (l *Lexer) scanToken() syntax.TokenKind {
	ch := l.peek()

	switch {
	case isLetter(ch):
		return l.scanIdentOrKeyword()
	case isDigit(ch), ch == '.' && isDigit(l.peekN(1)):
		return l.scanNumber()
	case ch == '\'':
		return l.scanQuoted('\'', syntax.TokenCharLiteral)
	case ch == '"':
		return l.scanQuoted('"', syntax.TokenStringLiteral)
	case ch >= utf8.RuneSelf:
		_, size := utf8.DecodeRuneInString(l.text[l.pos:])
		l.pos += size
		return syntax.TokenInvalid
	default:
		return l.scanOperator()
	}
}

func (l *Lexer) scanIdentOrKeyword() syntax.TokenKind {
	start := l.pos
	for isLetter(l.peek()) || isDigit(l.peek()) {
		l.pos++
	}
	return syntax.LookupKeyword(l.text[start:l.pos])
}

func (l *Lexer) scanNumber() syntax.TokenKind {
	kind := syntax.TokenIntLiteral

	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X') {
		l.pos += 2
		for isHexDigit(l.peek()) {
			l.pos++
		}
		l.scanSuffix()
		return kind
	}

	for isDigit(l.peek()) {
		l.pos++
	}
	if l.peek() == '.' {
		kind = syntax.TokenFloatLiteral
		l.pos++
		for isDigit(l.peek()) {
			l.pos++
		}
	}
	if ch := l.peek(); ch == 'e' || ch == 'E' {
		kind = syntax.TokenFloatLiteral
		l.pos++
		if ch := l.peek(); ch == '+' || ch == '-' {
			l.pos++
		}
		for isDigit(l.peek()) {
			l.pos++
		}
	}
	l.scanSuffix()
	return kind
}

// scanSuffix consumes integer and float suffixes such as "u", "UL" or "f".
// Any other trailing letters are swallowed too so "12abc" stays one token.
func (l *Lexer) scanSuffix() {
	for isLetter(l.peek()) || isDigit(l.peek()) {
		l.pos++
	}
}

// scanQuoted consumes a character or string literal. A literal with no
// closing quote before the end of the line becomes an invalid token.
func (l *Lexer) scanQuoted(quote byte, kind syntax.TokenKind) syntax.TokenKind {
	l.pos++
	for l.pos < len(l.text) {
		switch l.peek() {
		case quote:
			l.pos++
			return kind
		case '\\':
			if next := l.peekN(1); next != 0 && next != '\n' && next != '\r' {
				l.pos += 2
				continue
			}
			l.pos++
		case '\n', '\r':
			l.flags |= syntax.FlagUnterminatedLiteral
			return syntax.TokenInvalid
		default:
			l.pos++
		}
	}
	l.flags |= syntax.FlagUnterminatedLiteral
	return syntax.TokenInvalid
}

//nolint:cyclop,funlen // A flat operator table reads best as one switch.
func (l *Lexer) scanOperator() syntax.TokenKind {
	ch := l.peek()
	next := l.peekN(1)
	l.pos++

	// two returns kind2 and consumes one more byte when the next byte is want.
	two := func(want byte, kind2, kind1 syntax.TokenKind) syntax.TokenKind {
		if next == want {
			l.pos++
			return kind2
		}
		return kind1
	}

	switch ch {
	case '(':
		return syntax.TokenLParen
	case ')':
		return syntax.TokenRParen
	case '{':
		return syntax.TokenLBrace
	case '}':
		return syntax.TokenRBrace
	case '[':
		return syntax.TokenLBracket
	case ']':
		return syntax.TokenRBracket
	case ';':
		return syntax.TokenSemicolon
	case ',':
		return syntax.TokenComma
	case '?':
		return syntax.TokenQuestion
	case ':':
		return syntax.TokenColon
	case '~':
		return syntax.TokenBitNot
	case '.':
		if next == '.' && l.peekN(1) == '.' {
			l.pos += 2
			return syntax.TokenEllipsis
		}
		return syntax.TokenDot
	case '=':
		return two('=', syntax.TokenEQ, syntax.TokenAssign)
	case '!':
		return two('=', syntax.TokenNE, syntax.TokenNot)
	case '*':
		return two('=', syntax.TokenStarAssign, syntax.TokenStar)
	case '/':
		return two('=', syntax.TokenSlashAssign, syntax.TokenSlash)
	case '%':
		return two('=', syntax.TokenPercentAssign, syntax.TokenPercent)
	case '^':
		return two('=', syntax.TokenXorAssign, syntax.TokenBitXor)
	case '+':
		switch next {
		case '+':
			l.pos++
			return syntax.TokenIncrement
		case '=':
			l.pos++
			return syntax.TokenPlusAssign
		}
		return syntax.TokenPlus
	case '-':
		switch next {
		case '-':
			l.pos++
			return syntax.TokenDecrement
		case '=':
			l.pos++
			return syntax.TokenMinusAssign
		case '>':
			l.pos++
			return syntax.TokenArrow
		}
		return syntax.TokenMinus
	case '&':
		switch next {
		case '&':
			l.pos++
			return syntax.TokenAnd
		case '=':
			l.pos++
			return syntax.TokenAndAssign
		}
		return syntax.TokenBitAnd
	case '|':
		switch next {
		case '|':
			l.pos++
			return syntax.TokenOr
		case '=':
			l.pos++
			return syntax.TokenOrAssign
		}
		return syntax.TokenBitOr
	case '<':
		switch {
		case next == '<' && l.peekN(1) == '=':
			l.pos += 2
			return syntax.TokenShlAssign
		case next == '<':
			l.pos++
			return syntax.TokenShl
		case next == '=':
			l.pos++
			return syntax.TokenLE
		}
		return syntax.TokenLT
	case '>':
		switch {
		case next == '>' && l.peekN(1) == '=':
			l.pos += 2
			return syntax.TokenShrAssign
		case next == '>':
			l.pos++
			return syntax.TokenShr
		case next == '=':
			l.pos++
			return syntax.TokenGE
		}
		return syntax.TokenGT
	default:
		return syntax.TokenInvalid
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\f' || ch == '\v'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

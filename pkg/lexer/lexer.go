// Package lexer turns source text into a lazy stream of tokens with trivia.
//
// Lexing never fails. Bytes that cannot start a token become
// syntax.TokenInvalid, and the stream always ends with a zero-length
// syntax.TokenEOF that carries any trailing trivia of the file. A Lexer can
// start at any token boundary, which is what incremental reparsing uses to
// re-lex a region of an edited buffer.
package lexer

import (
	"iter"

	"github.com/yaklabco/gocst/pkg/source"
	"github.com/yaklabco/gocst/pkg/syntax"
)

// MaxLookahead is the largest number of bytes past a token's end that can
// influence how the token is lexed ("." versus "...").
const MaxLookahead = 3

// Token is a syntax.Token positioned in a buffer.
type Token struct {
	syntax.Token

	// Offset is where the token's full span, leading trivia included, starts.
	Offset int
}

// End returns the offset just after the token's trailing trivia.
func (t Token) End() int {
	return t.Offset + t.FullWidth()
}

// TextSpan covers the token text without trivia.
func (t Token) TextSpan() source.Span {
	start := t.Offset + t.LeadingWidth()
	return source.Span{Start: start, End: start + len(t.Text)}
}

// Lexer produces tokens on demand.
type Lexer struct {
	text  string
	pos   int
	flags syntax.TokenFlags
	eof   bool
}

// New creates a lexer that starts at offset. The offset must be a token
// boundary for the result to match lexing from the start of text.
func New(text string, offset int) *Lexer {
	return &Lexer{text: text, pos: max(0, min(offset, len(text)))}
}

// Pos returns the offset at which the next token will start.
func (l *Lexer) Pos() int { return l.pos }

// Next returns the next token. Once EOF has been returned, every further
// call returns an EOF token at the end of the text.
func (l *Lexer) Next() Token {
	if l.eof {
		return Token{Token: syntax.Token{Kind: syntax.TokenEOF}, Offset: len(l.text)}
	}

	start := l.pos
	l.flags = 0
	leading := l.scanTrivia(false)

	if l.pos >= len(l.text) {
		l.eof = true
		return Token{
			Token:  syntax.Token{Kind: syntax.TokenEOF, Leading: leading, Flags: l.flags},
			Offset: start,
		}
	}

	textStart := l.pos
	kind := l.scanToken()
	text := l.text[textStart:l.pos]
	trailing := l.scanTrivia(true)

	return Token{
		Token: syntax.Token{
			Kind:     kind,
			Text:     text,
			Leading:  leading,
			Trailing: trailing,
			Flags:    l.flags,
		},
		Offset: start,
	}
}

// All returns the token sequence of text, EOF included.
func All(text string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		l := New(text, 0)
		for {
			tok := l.Next()
			if !yield(tok) || tok.Kind == syntax.TokenEOF {
				return
			}
		}
	}
}

// Tokenize lexes all of text, EOF included.
func Tokenize(text string) []Token {
	var toks []Token
	for tok := range All(text) {
		toks = append(toks, tok)
	}
	return toks
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.text) {
		return 0
	}
	return l.text[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.text) {
		return 0
	}
	return l.text[l.pos+n]
}

// Package parser builds concrete syntax trees for mini-C by recursive
// descent, with precedence climbing for binary expressions.
//
// The parser never fails on malformed input. Missing terminals become
// zero-width syntax.KindMissing leaves and unusable tokens are wrapped in
// syntax.KindSkipped nodes; both carry diagnostics. Every loop consumes at
// least one token per iteration, so parsing terminates on any input and the
// tree always covers the whole buffer.
package parser

import (
	"context"
	"fmt"

	"gitlab.com/tozd/go/errors"

	"github.com/yaklabco/gocst/pkg/lexer"
	"github.com/yaklabco/gocst/pkg/source"
	"github.com/yaklabco/gocst/pkg/syntax"
)

// DefaultCheckInterval is how many tokens are consumed between checks of
// the context for cancellation.
const DefaultCheckInterval = 256

// MaxDepth bounds how deeply statements, expressions, initializer lists
// and struct member lists may nest. A construct that would open a deeper
// level is skipped with a nesting-too-deep diagnostic, which also bounds
// the height of every tree the parser builds.
const MaxDepth = 1000

// TokenSource supplies positioned tokens. *lexer.Lexer implements it.
type TokenSource interface {
	Next() lexer.Token
}

// Context names the grammar rule a node was produced by, so that a node can
// be re-parsed in isolation with the same rule.
type Context uint8

const (
	// ContextTranslationUnit parses a whole file.
	ContextTranslationUnit Context = iota
	// ContextExternalDecl parses one child of a translation unit.
	ContextExternalDecl
	// ContextBlockItem parses one statement or local declaration of a block.
	ContextBlockItem
	// ContextFunctionBody parses the block of a function definition.
	ContextFunctionBody
)

func (c Context) String() string {
	switch c {
	case ContextTranslationUnit:
		return "translation-unit"
	case ContextExternalDecl:
		return "external-declaration"
	case ContextBlockItem:
		return "block-item"
	case ContextFunctionBody:
		return "function-body"
	default:
		return fmt.Sprintf("Context(%d)", uint8(c))
	}
}

// Option configures a parse.
type Option func(*Parser)

// WithCheckInterval sets how many tokens are consumed between cancellation
// checks. Values below 1 select DefaultCheckInterval.
func WithCheckInterval(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.interval = n
		}
	}
}

// WithPreviousToken tells a fragment parse which token precedes its input.
// Statement recovery looks at the previous token's trailing line break.
func WithPreviousToken(tok *syntax.Token) Option {
	return func(p *Parser) {
		p.prev = tok
	}
}

// Parser holds the state of a single parse. It is not reusable.
type Parser struct {
	ctx      context.Context
	src      TokenSource
	ahead    []lexer.Token
	prev     *syntax.Token
	consumed int
	depth    int
	interval int
	counter  int
	err      error
}

func newParser(ctx context.Context, src TokenSource, opts []Option) *Parser {
	p := &Parser{ctx: ctx, src: src, interval: DefaultCheckInterval}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses the whole buffer. The returned error is non-nil only when
// ctx is cancelled; syntax errors are reported through tree.Diagnostics.
func Parse(ctx context.Context, buf *source.Buffer, opts ...Option) (*syntax.Tree, error) {
	p := newParser(ctx, lexer.New(buf.Text(), 0), opts)
	root := p.parseTranslationUnit()
	if p.err != nil {
		return nil, p.err
	}
	return syntax.NewTree(root, buf), nil
}

// ParseText is a convenience wrapper that parses text in a fresh buffer.
func ParseText(ctx context.Context, text string, opts ...Option) (*syntax.Tree, error) {
	return Parse(ctx, source.New("", text), opts...)
}

// ParseNode parses a single construct of the given context from src and
// reports how many tokens it consumed. Tokens read as lookahead but not
// consumed do not count.
func ParseNode(ctx context.Context, src TokenSource, c Context, opts ...Option) (*syntax.Node, int, error) {
	p := newParser(ctx, src, opts)

	var node *syntax.Node
	switch c {
	case ContextTranslationUnit:
		node = p.parseTranslationUnit()
	case ContextExternalDecl:
		node = p.parseExternalDecl()
	case ContextBlockItem:
		node = p.parseStatement()
	case ContextFunctionBody:
		node = p.parseBlock()
	default:
		return nil, 0, errors.Errorf("unknown parse context %d", uint8(c))
	}

	if p.err != nil {
		return nil, 0, p.err
	}
	return node, p.consumed, nil
}

// ParseItems parses consecutive items of a list context until at least
// limit tokens have been consumed, and reports the exact count. Items are
// declarations for ContextExternalDecl and statements for
// ContextBlockItem; the list ends early at end of input or, for block
// items, at a closing brace. Other contexts parse a single node.
func ParseItems(ctx context.Context, src TokenSource, c Context, limit int, opts ...Option) ([]*syntax.Node, int, error) {
	p := newParser(ctx, src, opts)

	var items []*syntax.Node
	switch c {
	case ContextExternalDecl:
		for p.consumed < limit && !p.check(syntax.TokenEOF) {
			items = append(items, p.parseExternalDecl())
		}
	case ContextBlockItem:
		for p.consumed < limit && !p.check(syntax.TokenRBrace) && !p.check(syntax.TokenEOF) {
			items = append(items, p.parseStatement())
		}
	case ContextFunctionBody:
		items = append(items, p.parseBlock())
	case ContextTranslationUnit:
		items = append(items, p.parseTranslationUnit())
	default:
		return nil, 0, errors.Errorf("unknown parse context %d", uint8(c))
	}

	if p.err != nil {
		return nil, 0, p.err
	}
	return items, p.consumed, nil
}

// fill makes sure at least n tokens are buffered. Once the context is
// cancelled the parser sees only EOF so that every rule unwinds quickly.
func (p *Parser) fill(n int) {
	for len(p.ahead) < n {
		if p.err != nil {
			p.ahead = append(p.ahead, lexer.Token{Token: syntax.Token{Kind: syntax.TokenEOF}})
			continue
		}
		p.ahead = append(p.ahead, p.src.Next())
	}
}

func (p *Parser) peek() lexer.Token {
	p.fill(1)
	return p.ahead[0]
}

func (p *Parser) peekN(n int) lexer.Token {
	p.fill(n + 1)
	return p.ahead[n]
}

func (p *Parser) check(kind syntax.TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...syntax.TokenKind) bool {
	k := p.peek().Kind
	for _, kind := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// advance consumes the next token and returns it as a leaf.
func (p *Parser) advance() *syntax.Node {
	tok := p.peek()
	p.ahead = p.ahead[1:]
	p.consumed++
	p.prev = &tok.Token
	p.checkCancel()
	return leafFor(tok)
}

func (p *Parser) checkCancel() {
	p.counter++
	if p.counter < p.interval || p.err != nil {
		return
	}
	p.counter = 0
	if err := p.ctx.Err(); err != nil {
		p.err = errors.Errorf("parse cancelled: %w", err)
		p.ahead = p.ahead[:0]
	}
}

// enter opens one nesting level. It reports false, without opening one,
// when MaxDepth levels are already open.
func (p *Parser) enter() bool {
	if p.depth >= MaxDepth {
		return false
	}
	p.depth++
	return true
}

func (p *Parser) leave() { p.depth-- }

// expect consumes a token of the given kind, or returns a missing leaf
// with an "expected" diagnostic without consuming anything.
func (p *Parser) expect(kind syntax.TokenKind) *syntax.Node {
	if p.check(kind) {
		return p.advance()
	}
	return missing(kind)
}

// mustProgress returns a function that reports whether the parser has
// advanced since mustProgress was called. When it has not, the returned
// function skips one token so the caller's loop still terminates.
func (p *Parser) mustProgress() func() *syntax.Node {
	saved := p.consumed
	return func() *syntax.Node {
		if p.consumed != saved || p.check(syntax.TokenEOF) {
			return nil
		}
		return p.skip(skipOptions{})
	}
}

func missing(kind syntax.TokenKind) *syntax.Node {
	return syntax.NewMissing(kind, syntax.NodeDiagnostic{
		Kind:    syntax.DiagExpectedToken,
		Message: "expected " + kind.Describe(),
	})
}

// leafFor converts a lexer token into a leaf, attaching diagnostics for
// lexical anomalies.
func leafFor(tok lexer.Token) *syntax.Node {
	var diags []syntax.NodeDiagnostic

	if tok.Kind == syntax.TokenInvalid {
		d := syntax.NodeDiagnostic{
			Kind:    syntax.DiagInvalidCharacter,
			Offset:  tok.LeadingWidth(),
			Length:  len(tok.Text),
			Message: fmt.Sprintf("invalid character %q", tok.Text),
		}
		if tok.Flags&syntax.FlagUnterminatedLiteral != 0 {
			d.Kind = syntax.DiagUnterminatedChar
			d.Message = "unterminated character literal"
			if tok.Text[0] == '"' {
				d.Kind = syntax.DiagUnterminatedString
				d.Message = "unterminated string literal"
			}
		}
		diags = append(diags, d)
	}

	if tok.Flags&syntax.FlagUnterminatedComment != 0 {
		offset, length := unterminatedComment(&tok.Token)
		diags = append(diags, syntax.NodeDiagnostic{
			Kind:    syntax.DiagUnterminatedComment,
			Offset:  offset,
			Length:  length,
			Message: "unterminated block comment",
		})
	}

	return syntax.NewToken(tok.Token, diags...)
}

// unterminatedComment locates the block comment that runs to end of input
// within a token's trivia, relative to the token's full span.
func unterminatedComment(tok *syntax.Token) (int, int) {
	offset := 0
	for _, tr := range tok.Leading {
		if isOpenComment(tr) {
			return offset, len(tr.Text)
		}
		offset += len(tr.Text)
	}
	offset += len(tok.Text)
	for _, tr := range tok.Trailing {
		if isOpenComment(tr) {
			return offset, len(tr.Text)
		}
		offset += len(tr.Text)
	}
	return 0, 0
}

func isOpenComment(tr syntax.Trivia) bool {
	if tr.Kind != syntax.TriviaBlockComment {
		return false
	}
	return len(tr.Text) < len("/**/") || tr.Text[len(tr.Text)-2:] != "*/"
}

package parser

import (
	"fmt"

	"github.com/yaklabco/gocst/pkg/syntax"
)

// skipOptions controls how far skip discards tokens.
type skipOptions struct {
	// stopBefore ends the skip when the next token matches. A nil
	// stopBefore skips exactly one token.
	stopBefore func(syntax.TokenKind) bool

	// stopAfter ends the skip right after consuming a matching token.
	stopAfter func(syntax.TokenKind) bool

	// stopAtNewline ends the skip before a token that starts a new line.
	stopAtNewline bool

	// expected describes what the parser wanted, for the diagnostic.
	expected string
}

// skip consumes the current token and then every token up to a stopping
// point, wrapping them in a KindSkipped node. The node carries one
// "unexpected" diagnostic unless every skipped token is invalid, in which
// case the tokens already carry their own diagnostics.
func (p *Parser) skip(opts skipOptions) *syntax.Node {
	first := p.peek()
	children := []*syntax.Node{p.advance()}
	allInvalid := first.Kind == syntax.TokenInvalid
	last := first.Kind

	for !p.check(syntax.TokenEOF) {
		if opts.stopAfter != nil && opts.stopAfter(last) {
			break
		}
		if opts.stopBefore == nil || opts.stopBefore(p.peek().Kind) {
			break
		}
		if opts.stopAtNewline && p.onNewLine() {
			break
		}
		tok := p.peek()
		last = tok.Kind
		allInvalid = allInvalid && tok.Kind == syntax.TokenInvalid
		children = append(children, p.advance())
	}

	if allInvalid {
		return syntax.NewNode(syntax.KindSkipped, children)
	}

	msg := "unexpected " + first.Kind.Describe()
	if opts.expected != "" {
		msg += ", expected " + opts.expected
	}
	return skipped(children, syntax.DiagUnexpectedToken, msg)
}

// skipped wraps consumed leaves in a KindSkipped node whose diagnostic
// covers them without their outer trivia.
func skipped(children []*syntax.Node, kind syntax.DiagnosticKind, msg string) *syntax.Node {
	width := 0
	for _, child := range children {
		width += child.Width()
	}
	leading := children[0].Token().LeadingWidth()
	trailing := children[len(children)-1].Token().TrailingWidth()
	return syntax.NewNode(syntax.KindSkipped, children, syntax.NodeDiagnostic{
		Kind:    kind,
		Offset:  leading,
		Length:  width - leading - trailing,
		Message: msg,
	})
}

// skipTooDeep discards a construct that would nest past MaxDepth: every
// token up to end of input, a ';', or a closing bracket that the skipped
// tokens did not open. It returns nil when the next token already ends
// the construct.
func (p *Parser) skipTooDeep() *syntax.Node {
	var children []*syntax.Node
	open := 0
	for {
		k := p.peek().Kind
		if k == syntax.TokenEOF {
			break
		}
		if open == 0 && (k == syntax.TokenSemicolon || isCloser(k)) {
			break
		}
		switch {
		case isOpener(k):
			open++
		case isCloser(k):
			open--
		}
		children = append(children, p.advance())
	}
	if len(children) == 0 {
		return nil
	}
	return skipped(children, syntax.DiagNestingTooDeep, fmt.Sprintf("nesting exceeds %d levels", MaxDepth))
}

// operandTooDeep stands in for an operand past MaxDepth.
func (p *Parser) operandTooDeep() *syntax.Node {
	if node := p.skipTooDeep(); node != nil {
		return node
	}
	return missingOperand()
}

// statementTooDeep stands in for a statement past MaxDepth. Like
// parseStatement it consumes a token unless the next one is '}' or the
// end of input.
func (p *Parser) statementTooDeep() *syntax.Node {
	if node := p.skipTooDeep(); node != nil {
		return node
	}
	switch p.peek().Kind {
	case syntax.TokenRBrace, syntax.TokenEOF:
		return p.missingStatement()
	case syntax.TokenSemicolon:
		return syntax.NewNode(syntax.KindEmptyStmt, []*syntax.Node{p.advance()})
	default:
		return p.skip(skipOptions{expected: "statement"})
	}
}

func isOpener(k syntax.TokenKind) bool {
	return k == syntax.TokenLParen || k == syntax.TokenLBracket || k == syntax.TokenLBrace
}

func isCloser(k syntax.TokenKind) bool {
	return k == syntax.TokenRParen || k == syntax.TokenRBracket || k == syntax.TokenRBrace
}

// terminate appends the statement terminator. When the next token cannot
// continue the construct, tokens on the same line are skipped up to a
// semicolon or a token that begins a new construct. A terminator that is
// simply absent at a line break or construct boundary becomes a missing
// leaf.
func (p *Parser) terminate(children []*syntax.Node) []*syntax.Node {
	if p.check(syntax.TokenSemicolon) {
		return append(children, p.advance())
	}
	if p.atBoundary() || p.onNewLine() {
		return append(children, missing(syntax.TokenSemicolon))
	}

	children = append(children, p.skip(skipOptions{
		stopBefore:    func(k syntax.TokenKind) bool { return k == syntax.TokenSemicolon || isStatementSync(k) },
		stopAtNewline: true,
		expected:      "';'",
	}))
	if p.check(syntax.TokenSemicolon) {
		return append(children, p.advance())
	}
	// The skipped tokens already produced a diagnostic.
	return append(children, syntax.NewMissing(syntax.TokenSemicolon))
}

// atBoundary reports whether the next token starts or closes a construct.
func (p *Parser) atBoundary() bool {
	return isStatementSync(p.peek().Kind)
}

// onNewLine reports whether a line break separates the previous token from
// the next one.
func (p *Parser) onNewLine() bool {
	if p.prev != nil && endsWithNewline(p.prev.Trailing) {
		return true
	}
	for _, tr := range p.peek().Leading {
		if tr.Kind == syntax.TriviaNewline {
			return true
		}
	}
	return false
}

func endsWithNewline(trivia []syntax.Trivia) bool {
	return len(trivia) > 0 && trivia[len(trivia)-1].Kind == syntax.TriviaNewline
}

// isStatementSync reports tokens at which statement-level recovery stops:
// closers, the end of input, and tokens that begin a statement or a
// declaration.
func isStatementSync(k syntax.TokenKind) bool {
	switch k {
	case syntax.TokenRBrace, syntax.TokenLBrace, syntax.TokenEOF,
		syntax.TokenIf, syntax.TokenWhile, syntax.TokenDo, syntax.TokenFor,
		syntax.TokenReturn, syntax.TokenBreak, syntax.TokenContinue:
		return true
	default:
		return k.IsTypeKeyword()
	}
}

// canStartExpression reports tokens that begin an expression. Invalid
// tokens count so that they are absorbed where an operand is expected.
func canStartExpression(k syntax.TokenKind) bool {
	switch k {
	case syntax.TokenIdent, syntax.TokenIntLiteral, syntax.TokenFloatLiteral,
		syntax.TokenCharLiteral, syntax.TokenStringLiteral, syntax.TokenLParen,
		syntax.TokenMinus, syntax.TokenPlus, syntax.TokenNot, syntax.TokenBitNot,
		syntax.TokenStar, syntax.TokenBitAnd, syntax.TokenIncrement, syntax.TokenDecrement,
		syntax.TokenSizeof, syntax.TokenInvalid:
		return true
	default:
		return false
	}
}

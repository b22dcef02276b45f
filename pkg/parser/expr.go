package parser

import (
	"github.com/yaklabco/gocst/pkg/syntax"
)

// binaryPrecedence returns the binding power of a binary operator, or 0
// when k is not one. Higher binds tighter.
func binaryPrecedence(k syntax.TokenKind) int {
	switch k {
	case syntax.TokenOr:
		return 1
	case syntax.TokenAnd:
		return 2
	case syntax.TokenBitOr:
		return 3
	case syntax.TokenBitXor:
		return 4
	case syntax.TokenBitAnd:
		return 5
	case syntax.TokenEQ, syntax.TokenNE:
		return 6
	case syntax.TokenLT, syntax.TokenLE, syntax.TokenGT, syntax.TokenGE:
		return 7
	case syntax.TokenShl, syntax.TokenShr:
		return 8
	case syntax.TokenPlus, syntax.TokenMinus:
		return 9
	case syntax.TokenStar, syntax.TokenSlash, syntax.TokenPercent:
		return 10
	default:
		return 0
	}
}

// parseExpression parses a comma-separated expression list.
func (p *Parser) parseExpression() *syntax.Node {
	left := p.parseAssignment()
	for chain := 0; p.check(syntax.TokenComma); chain++ {
		if p.depth+chain >= MaxDepth {
			return syntax.NewNode(syntax.KindBinaryExpr, []*syntax.Node{left, p.skipTooDeep()})
		}
		comma := p.advance()
		left = syntax.NewNode(syntax.KindBinaryExpr, []*syntax.Node{left, comma, p.parseAssignment()})
	}
	return left
}

// parseAssignment parses an assignment, which groups to the right.
func (p *Parser) parseAssignment() *syntax.Node {
	left := p.parseConditional()
	if !p.peek().Kind.IsAssignment() {
		return left
	}
	op := p.advance()
	if !p.enter() {
		return syntax.NewNode(syntax.KindAssignExpr, []*syntax.Node{left, op, p.operandTooDeep()})
	}
	defer p.leave()
	return syntax.NewNode(syntax.KindAssignExpr, []*syntax.Node{left, op, p.parseAssignment()})
}

func (p *Parser) parseConditional() *syntax.Node {
	cond := p.parseBinary(1)
	if !p.check(syntax.TokenQuestion) {
		return cond
	}
	if !p.enter() {
		return syntax.NewNode(syntax.KindConditionalExpr, []*syntax.Node{cond, p.skipTooDeep()})
	}
	defer p.leave()
	children := []*syntax.Node{cond, p.advance(), p.parseExpression(), p.expect(syntax.TokenColon)}
	children = append(children, p.parseConditional())
	return syntax.NewNode(syntax.KindConditionalExpr, children)
}

// parseBinary climbs precedence levels starting at minPrec. Operators of
// equal precedence group to the left, so each one in a chain adds a level
// to the tree.
func (p *Parser) parseBinary(minPrec int) *syntax.Node {
	left := p.parseUnary()
	for chain := 0; ; chain++ {
		prec := binaryPrecedence(p.peek().Kind)
		if prec == 0 || prec < minPrec {
			return left
		}
		if p.depth+chain >= MaxDepth {
			return syntax.NewNode(syntax.KindBinaryExpr, []*syntax.Node{left, p.skipTooDeep()})
		}
		op := p.advance()
		left = syntax.NewNode(syntax.KindBinaryExpr, []*syntax.Node{left, op, p.parseBinary(prec + 1)})
	}
}

func (p *Parser) parseUnary() *syntax.Node {
	if !p.enter() {
		return p.operandTooDeep()
	}
	defer p.leave()

	switch p.peek().Kind {
	case syntax.TokenMinus, syntax.TokenPlus, syntax.TokenNot, syntax.TokenBitNot,
		syntax.TokenStar, syntax.TokenBitAnd, syntax.TokenIncrement, syntax.TokenDecrement:
		op := p.advance()
		return syntax.NewNode(syntax.KindUnaryExpr, []*syntax.Node{op, p.parseUnary()})
	case syntax.TokenSizeof:
		kw := p.advance()
		if p.check(syntax.TokenLParen) && p.peekN(1).Kind.IsTypeKeyword() {
			return syntax.NewNode(syntax.KindSizeofExpr, p.parseTypeName([]*syntax.Node{kw}))
		}
		return syntax.NewNode(syntax.KindSizeofExpr, []*syntax.Node{kw, p.parseUnary()})
	case syntax.TokenLParen:
		if p.peekN(1).Kind.IsTypeKeyword() {
			children := p.parseTypeName(nil)
			children = append(children, p.parseUnary())
			return syntax.NewNode(syntax.KindCastExpr, children)
		}
	}
	return p.parsePostfix(p.parsePrimary())
}

// parseTypeName parses "( type-spec abstract-declarator? )" and appends
// the parts to children.
func (p *Parser) parseTypeName(children []*syntax.Node) []*syntax.Node {
	children = append(children, p.advance())
	spec, _ := p.parseTypeSpec()
	children = append(children, spec, p.parseDeclarator(false))
	return append(children, p.expect(syntax.TokenRParen))
}

func (p *Parser) parsePostfix(base *syntax.Node) *syntax.Node {
	for chain := 0; ; chain++ {
		if isPostfixOperator(p.peek().Kind) && p.depth+chain >= MaxDepth {
			return syntax.NewNode(syntax.KindPostfixExpr, []*syntax.Node{base, p.skipTooDeep()})
		}
		switch p.peek().Kind {
		case syntax.TokenLParen:
			base = syntax.NewNode(syntax.KindCallExpr, []*syntax.Node{base, p.parseArgList()})
		case syntax.TokenLBracket:
			open := p.advance()
			index := p.parseExpression()
			base = syntax.NewNode(syntax.KindIndexExpr, []*syntax.Node{base, open, index, p.expect(syntax.TokenRBracket)})
		case syntax.TokenDot, syntax.TokenArrow:
			op := p.advance()
			base = syntax.NewNode(syntax.KindMemberExpr, []*syntax.Node{base, op, p.expect(syntax.TokenIdent)})
		case syntax.TokenIncrement, syntax.TokenDecrement:
			base = syntax.NewNode(syntax.KindPostfixExpr, []*syntax.Node{base, p.advance()})
		default:
			return base
		}
	}
}

func isPostfixOperator(k syntax.TokenKind) bool {
	switch k {
	case syntax.TokenLParen, syntax.TokenLBracket, syntax.TokenDot, syntax.TokenArrow,
		syntax.TokenIncrement, syntax.TokenDecrement:
		return true
	default:
		return false
	}
}

func (p *Parser) parseArgList() *syntax.Node {
	children := []*syntax.Node{p.advance()}
	if !p.check(syntax.TokenRParen) {
		children = append(children, p.parseAssignment())
		for p.check(syntax.TokenComma) {
			children = append(children, p.advance(), p.parseAssignment())
		}
	}
	children = append(children, p.expect(syntax.TokenRParen))
	return syntax.NewNode(syntax.KindArgList, children)
}

// parsePrimary parses an operand. When none is present it returns a name
// expression around a missing identifier and consumes nothing.
func (p *Parser) parsePrimary() *syntax.Node {
	tok := p.peek()
	switch {
	case tok.Kind == syntax.TokenIdent:
		return syntax.NewNode(syntax.KindNameExpr, []*syntax.Node{p.advance()})
	case tok.Kind == syntax.TokenStringLiteral:
		children := []*syntax.Node{p.advance()}
		for p.check(syntax.TokenStringLiteral) {
			children = append(children, p.advance())
		}
		return syntax.NewNode(syntax.KindLiteralExpr, children)
	case tok.Kind.IsLiteral():
		return syntax.NewNode(syntax.KindLiteralExpr, []*syntax.Node{p.advance()})
	case tok.Kind == syntax.TokenLParen:
		open := p.advance()
		inner := p.parseExpression()
		return syntax.NewNode(syntax.KindParenExpr, []*syntax.Node{open, inner, p.expect(syntax.TokenRParen)})
	case tok.Kind == syntax.TokenInvalid:
		return syntax.NewNode(syntax.KindSkipped, []*syntax.Node{p.advance()})
	default:
		return missingOperand()
	}
}

func missingOperand() *syntax.Node {
	return syntax.NewNode(syntax.KindNameExpr, []*syntax.Node{
		syntax.NewMissing(syntax.TokenIdent, syntax.NodeDiagnostic{
			Kind:    syntax.DiagExpectedExpression,
			Message: "expected expression",
		}),
	})
}

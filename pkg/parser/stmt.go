package parser

import (
	"github.com/yaklabco/gocst/pkg/syntax"
)

// parseBlock parses a braced statement list. A block whose opening brace
// is absent still gets a missing '{' so that the node always has one.
func (p *Parser) parseBlock() *syntax.Node {
	children := []*syntax.Node{p.expect(syntax.TokenLBrace)}
	for !p.check(syntax.TokenRBrace) && !p.check(syntax.TokenEOF) {
		progressed := p.mustProgress()
		children = append(children, p.parseStatement())
		if skipped := progressed(); skipped != nil {
			children = append(children, skipped)
		}
	}
	children = append(children, p.expect(syntax.TokenRBrace))
	return syntax.NewNode(syntax.KindBlock, children)
}

// parseStatement parses one block item. Unless the next token is '}' or
// end of input it consumes at least one token.
func (p *Parser) parseStatement() *syntax.Node {
	if !p.enter() {
		return p.statementTooDeep()
	}
	defer p.leave()

	tok := p.peek()
	switch tok.Kind {
	case syntax.TokenLBrace:
		return p.parseBlock()
	case syntax.TokenIf:
		return p.parseIf()
	case syntax.TokenWhile:
		return p.parseWhile()
	case syntax.TokenDo:
		return p.parseDo()
	case syntax.TokenFor:
		return p.parseFor()
	case syntax.TokenReturn:
		children := []*syntax.Node{p.advance()}
		if canStartExpression(p.peek().Kind) {
			children = append(children, p.parseExpression())
		}
		return syntax.NewNode(syntax.KindReturnStmt, p.terminate(children))
	case syntax.TokenBreak:
		return syntax.NewNode(syntax.KindBreakStmt, p.terminate([]*syntax.Node{p.advance()}))
	case syntax.TokenContinue:
		return syntax.NewNode(syntax.KindContinueStmt, p.terminate([]*syntax.Node{p.advance()}))
	case syntax.TokenSemicolon:
		return syntax.NewNode(syntax.KindEmptyStmt, []*syntax.Node{p.advance()})
	}

	if tok.Kind.IsTypeKeyword() {
		return p.parseDeclaration()
	}
	if canStartExpression(tok.Kind) {
		return syntax.NewNode(syntax.KindExprStmt, p.terminate([]*syntax.Node{p.parseExpression()}))
	}
	if tok.Kind == syntax.TokenRBrace || tok.Kind == syntax.TokenEOF {
		return p.missingStatement()
	}

	return p.skip(skipOptions{
		stopBefore: func(k syntax.TokenKind) bool {
			return canStartExpression(k) || isStatementSync(k)
		},
		stopAfter: func(k syntax.TokenKind) bool { return k == syntax.TokenSemicolon },
		expected:  "statement",
	})
}

// parseEmbedded parses the body of a control statement.
func (p *Parser) parseEmbedded() *syntax.Node {
	if p.check(syntax.TokenRBrace) || p.check(syntax.TokenEOF) {
		return p.missingStatement()
	}
	return p.parseStatement()
}

func (p *Parser) missingStatement() *syntax.Node {
	return syntax.NewNode(syntax.KindEmptyStmt, []*syntax.Node{
		syntax.NewMissing(syntax.TokenSemicolon, syntax.NodeDiagnostic{
			Kind:    syntax.DiagExpectedToken,
			Message: "expected statement",
		}),
	})
}

// parseCondition parses a parenthesized controlling expression and appends
// it to children.
func (p *Parser) parseCondition(children []*syntax.Node) []*syntax.Node {
	children = append(children, p.expect(syntax.TokenLParen), p.parseExpression())
	return append(children, p.expect(syntax.TokenRParen))
}

func (p *Parser) parseIf() *syntax.Node {
	children := p.parseCondition([]*syntax.Node{p.advance()})
	children = append(children, p.parseEmbedded())
	if p.check(syntax.TokenElse) {
		elseKw := p.advance()
		children = append(children, syntax.NewNode(syntax.KindElseClause, []*syntax.Node{elseKw, p.parseEmbedded()}))
	}
	return syntax.NewNode(syntax.KindIfStmt, children)
}

func (p *Parser) parseWhile() *syntax.Node {
	children := p.parseCondition([]*syntax.Node{p.advance()})
	children = append(children, p.parseEmbedded())
	return syntax.NewNode(syntax.KindWhileStmt, children)
}

func (p *Parser) parseDo() *syntax.Node {
	children := []*syntax.Node{p.advance(), p.parseEmbedded(), p.expect(syntax.TokenWhile)}
	children = p.parseCondition(children)
	return syntax.NewNode(syntax.KindDoStmt, p.terminate(children))
}

func (p *Parser) parseFor() *syntax.Node {
	children := []*syntax.Node{p.advance(), p.expect(syntax.TokenLParen)}

	switch {
	case p.peek().Kind.IsTypeKeyword():
		children = append(children, p.parseDeclaration())
	case p.check(syntax.TokenSemicolon):
		children = append(children, syntax.NewNode(syntax.KindEmptyStmt, []*syntax.Node{p.advance()}))
	default:
		init := p.parseExpression()
		children = append(children, syntax.NewNode(syntax.KindExprStmt, []*syntax.Node{init, p.expect(syntax.TokenSemicolon)}))
	}

	if !p.check(syntax.TokenSemicolon) {
		children = append(children, p.parseExpression())
	}
	children = append(children, p.expect(syntax.TokenSemicolon))

	if !p.check(syntax.TokenRParen) {
		children = append(children, p.parseExpression())
	}
	children = append(children, p.expect(syntax.TokenRParen), p.parseEmbedded())
	return syntax.NewNode(syntax.KindForStmt, children)
}

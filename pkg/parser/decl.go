package parser

import (
	"github.com/yaklabco/gocst/pkg/syntax"
)

func (p *Parser) parseTranslationUnit() *syntax.Node {
	var children []*syntax.Node
	for !p.check(syntax.TokenEOF) {
		progressed := p.mustProgress()
		children = append(children, p.parseExternalDecl())
		if skipped := progressed(); skipped != nil {
			children = append(children, skipped)
		}
	}
	children = append(children, p.advance())
	return syntax.NewNode(syntax.KindTranslationUnit, children)
}

// parseExternalDecl parses one file-scope construct. It always consumes at
// least one token.
func (p *Parser) parseExternalDecl() *syntax.Node {
	tok := p.peek()
	switch {
	case tok.Kind == syntax.TokenSemicolon:
		return syntax.NewNode(syntax.KindEmptyDecl, []*syntax.Node{p.advance()}, syntax.NodeDiagnostic{
			Kind:    syntax.DiagEmptyDeclaration,
			Offset:  tok.LeadingWidth(),
			Length:  len(tok.Text),
			Message: "empty declaration",
		})
	case tok.Kind.IsTypeKeyword():
		return p.parseDeclaration()
	default:
		return p.skip(skipOptions{
			stopBefore: func(k syntax.TokenKind) bool { return k.IsTypeKeyword() },
			stopAfter: func(k syntax.TokenKind) bool {
				return k == syntax.TokenSemicolon || k == syntax.TokenRBrace
			},
			expected: "declaration",
		})
	}
}

// parseDeclaration parses a variable, function or struct declaration. The
// current token must be a type keyword.
func (p *Parser) parseDeclaration() *syntax.Node {
	spec, isStruct := p.parseTypeSpec()

	if isStruct && p.check(syntax.TokenSemicolon) {
		return syntax.NewNode(syntax.KindStructDecl, []*syntax.Node{spec, p.advance()})
	}

	decl := p.parseDeclarator(true)

	if p.check(syntax.TokenLParen) {
		children := []*syntax.Node{spec, decl, p.parseParamList()}
		if p.check(syntax.TokenLBrace) {
			children = append(children, p.parseBlock())
		} else {
			children = p.terminate(children)
		}
		return syntax.NewNode(syntax.KindFunctionDecl, children)
	}

	children := []*syntax.Node{spec, p.parseInitDeclarator(decl)}
	for p.check(syntax.TokenComma) {
		children = append(children, p.advance(), p.parseInitDeclarator(p.parseDeclarator(true)))
	}
	return syntax.NewNode(syntax.KindVarDecl, p.terminate(children))
}

// parseTypeSpec parses a run of type keywords and qualifiers, including a
// struct specifier with an optional member list. It reports whether a
// struct specifier was seen.
func (p *Parser) parseTypeSpec() (*syntax.Node, bool) {
	var children []*syntax.Node
	isStruct := false

	for p.peek().Kind.IsTypeKeyword() {
		if !p.check(syntax.TokenStruct) {
			children = append(children, p.advance())
			continue
		}
		isStruct = true
		children = append(children, p.advance())
		if p.check(syntax.TokenIdent) {
			children = append(children, p.advance())
		}
		if p.check(syntax.TokenLBrace) {
			children = append(children, p.parseFieldList())
		}
	}
	return syntax.NewNode(syntax.KindTypeSpec, children), isStruct
}

func (p *Parser) parseFieldList() *syntax.Node {
	if !p.enter() {
		return p.skipTooDeep()
	}
	defer p.leave()

	children := []*syntax.Node{p.advance()}
	for !p.check(syntax.TokenRBrace) && !p.check(syntax.TokenEOF) {
		if p.peek().Kind.IsTypeKeyword() {
			children = append(children, p.parseDeclaration())
			continue
		}
		children = append(children, p.skip(skipOptions{
			stopBefore: func(k syntax.TokenKind) bool {
				return k.IsTypeKeyword() || k == syntax.TokenRBrace
			},
			stopAfter: func(k syntax.TokenKind) bool { return k == syntax.TokenSemicolon },
			expected:  "member declaration",
		}))
	}
	children = append(children, p.expect(syntax.TokenRBrace))
	return syntax.NewNode(syntax.KindFieldList, children)
}

// parseDeclarator parses pointer stars, a name, and array suffixes. When
// requireName is false an abstract declarator without a name is accepted.
func (p *Parser) parseDeclarator(requireName bool) *syntax.Node {
	var children []*syntax.Node
	for p.match(syntax.TokenStar, syntax.TokenConst) {
		children = append(children, p.advance())
	}

	switch {
	case p.check(syntax.TokenIdent):
		children = append(children, p.advance())
	case requireName:
		children = append(children, syntax.NewMissing(syntax.TokenIdent, syntax.NodeDiagnostic{
			Kind:    syntax.DiagExpectedToken,
			Message: "expected identifier",
		}))
	}

	for p.check(syntax.TokenLBracket) {
		children = append(children, p.advance())
		if !p.check(syntax.TokenRBracket) {
			children = append(children, p.parseExpression())
		}
		children = append(children, p.expect(syntax.TokenRBracket))
	}

	if len(children) == 0 {
		return nil
	}
	return syntax.NewNode(syntax.KindDeclarator, children)
}

func (p *Parser) parseInitDeclarator(decl *syntax.Node) *syntax.Node {
	children := []*syntax.Node{decl}
	if p.check(syntax.TokenAssign) {
		children = append(children, p.advance(), p.parseInitializer())
	}
	return syntax.NewNode(syntax.KindInitDeclarator, children)
}

func (p *Parser) parseInitializer() *syntax.Node {
	if !p.check(syntax.TokenLBrace) {
		return p.parseAssignment()
	}
	if !p.enter() {
		return p.skipTooDeep()
	}
	defer p.leave()

	children := []*syntax.Node{p.advance()}
	for !p.check(syntax.TokenRBrace) && !p.check(syntax.TokenEOF) {
		children = append(children, p.parseInitializer())
		if !p.check(syntax.TokenComma) {
			break
		}
		children = append(children, p.advance())
	}
	children = append(children, p.expect(syntax.TokenRBrace))
	return syntax.NewNode(syntax.KindInitList, children)
}

func (p *Parser) parseParamList() *syntax.Node {
	children := []*syntax.Node{p.advance()}

	if !p.check(syntax.TokenRParen) {
		for {
			switch {
			case p.check(syntax.TokenEllipsis):
				children = append(children, p.advance())
			case p.peek().Kind.IsTypeKeyword():
				spec, _ := p.parseTypeSpec()
				children = append(children, syntax.NewNode(syntax.KindParam, []*syntax.Node{spec, p.parseDeclarator(false)}))
			case isParamStop(p.peek().Kind):
				children = append(children, syntax.NewMissing(syntax.TokenIdent, syntax.NodeDiagnostic{
					Kind:    syntax.DiagExpectedToken,
					Message: "expected parameter declaration",
				}))
			default:
				children = append(children, p.skip(skipOptions{
					stopBefore: isParamStop,
					expected:   "parameter declaration",
				}))
			}
			if !p.check(syntax.TokenComma) {
				break
			}
			children = append(children, p.advance())
		}
	}

	children = append(children, p.expect(syntax.TokenRParen))
	return syntax.NewNode(syntax.KindParamList, children)
}

func isParamStop(k syntax.TokenKind) bool {
	switch k {
	case syntax.TokenComma, syntax.TokenRParen, syntax.TokenLBrace,
		syntax.TokenRBrace, syntax.TokenSemicolon, syntax.TokenEOF:
		return true
	default:
		return false
	}
}

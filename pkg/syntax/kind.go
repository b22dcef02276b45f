// Package syntax defines the immutable concrete syntax tree for gocst.
//
// Nodes store only their width, never an absolute offset, so a subtree can
// be shared by every tree version in which it did not change. Absolute
// positions are recovered on demand by Ref, which pairs a node with the
// offset at which it starts.
package syntax

// Kind classifies a syntax node. The set is closed: every switch over Kind
// in this module handles each value explicitly.
type Kind uint16

const (
	// Leaves and error nodes.
	KindToken   Kind = iota // a terminal; see Node.Token
	KindMissing             // a zero-width placeholder for an expected terminal
	KindSkipped             // tokens discarded during error recovery

	// Declarations.
	KindTranslationUnit
	KindFunctionDecl
	KindVarDecl
	KindStructDecl
	KindEmptyDecl
	KindTypeSpec
	KindDeclarator
	KindInitDeclarator
	KindInitList
	KindParamList
	KindParam
	KindFieldList

	// Statements.
	KindBlock
	KindExprStmt
	KindIfStmt
	KindElseClause
	KindWhileStmt
	KindDoStmt
	KindForStmt
	KindReturnStmt
	KindBreakStmt
	KindContinueStmt
	KindEmptyStmt

	// Expressions.
	KindNameExpr
	KindLiteralExpr
	KindParenExpr
	KindUnaryExpr
	KindSizeofExpr
	KindCastExpr
	KindPostfixExpr
	KindBinaryExpr
	KindAssignExpr
	KindConditionalExpr
	KindCallExpr
	KindArgList
	KindIndexExpr
	KindMemberExpr

	kindCount
)

//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = [kindCount]string{
	KindToken:           "Token",
	KindMissing:         "Missing",
	KindSkipped:         "Skipped",
	KindTranslationUnit: "TranslationUnit",
	KindFunctionDecl:    "FunctionDecl",
	KindVarDecl:         "VarDecl",
	KindStructDecl:      "StructDecl",
	KindEmptyDecl:       "EmptyDecl",
	KindTypeSpec:        "TypeSpec",
	KindDeclarator:      "Declarator",
	KindInitDeclarator:  "InitDeclarator",
	KindInitList:        "InitList",
	KindParamList:       "ParamList",
	KindParam:           "Param",
	KindFieldList:       "FieldList",
	KindBlock:           "Block",
	KindExprStmt:        "ExprStmt",
	KindIfStmt:          "IfStmt",
	KindElseClause:      "ElseClause",
	KindWhileStmt:       "WhileStmt",
	KindDoStmt:          "DoStmt",
	KindForStmt:         "ForStmt",
	KindReturnStmt:      "ReturnStmt",
	KindBreakStmt:       "BreakStmt",
	KindContinueStmt:    "ContinueStmt",
	KindEmptyStmt:       "EmptyStmt",
	KindNameExpr:        "NameExpr",
	KindLiteralExpr:     "LiteralExpr",
	KindParenExpr:       "ParenExpr",
	KindUnaryExpr:       "UnaryExpr",
	KindSizeofExpr:      "SizeofExpr",
	KindCastExpr:        "CastExpr",
	KindPostfixExpr:     "PostfixExpr",
	KindBinaryExpr:      "BinaryExpr",
	KindAssignExpr:      "AssignExpr",
	KindConditionalExpr: "ConditionalExpr",
	KindCallExpr:        "CallExpr",
	KindArgList:         "ArgList",
	KindIndexExpr:       "IndexExpr",
	KindMemberExpr:      "MemberExpr",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Unknown"
}

// IsLeaf returns true for token and missing-token nodes.
func (k Kind) IsLeaf() bool {
	return k == KindToken || k == KindMissing
}

// IsDeclaration returns true for top-level and local declarations.
func (k Kind) IsDeclaration() bool {
	switch k {
	case KindFunctionDecl, KindVarDecl, KindStructDecl, KindEmptyDecl:
		return true
	default:
		return false
	}
}

// IsStatement returns true for statement kinds, including blocks.
func (k Kind) IsStatement() bool {
	return k >= KindBlock && k <= KindEmptyStmt && k != KindElseClause
}

// IsExpression returns true for expression kinds.
func (k Kind) IsExpression() bool {
	return k >= KindNameExpr && k <= KindMemberExpr && k != KindArgList
}

package parser_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocst/pkg/lexer"
	"github.com/yaklabco/gocst/pkg/parser"
	"github.com/yaklabco/gocst/pkg/source"
	"github.com/yaklabco/gocst/pkg/syntax"
)

//nolint:gochecknoglobals // Shared read-only corpus.
var corpus = []string{
	"",
	"   \n\n",
	"// only a comment\n",
	"int x;",
	"int x = 1;\nint y = x + 2 * 3;\n",
	"static const char *names[3] = { \"a\", \"b\", \"c\", };\n",
	"struct point { int x; int y; };\n",
	"struct point p;\n",
	"int add(int a, int b) {\n\treturn a + b;\n}\n",
	"void log(const char *fmt, ...);\n",
	"int main(void) {\n  int i;\n  for (i = 0; i < 10; i++) {\n    if (i % 2) continue; else break;\n  }\n  while (i) i--;\n  do { i++; } while (i < 3);\n  return sizeof(int) + sizeof i + (long)i;\n}\n",
	"int f() { a = b ? c : d ? e : g; p->x.y[2](1, 2)++; return -~!*&x; }\n",
	"int s = \"con\" \"cat\";\n",
	"/* header */\nint x; // trailing\n/* footer */",
	"int x = ;",
	"int x = 1\nint y;",
	"x y z;",
	"}}}{{{",
	"int f( { return; }",
	"int f() { if (x) }",
	"int f() { return 1 }",
	"int x = @;",
	"char *s = \"abc",
	"char c = 'a",
	"int x; /* never closed",
	"int été = 1;",
	"int f() { for (;;) ; while () ; }",
	"struct { int a } s;",
	"int a[] = { 1, 2, ;",
	"((((((",
	"int f() { } }",
	";;",
	"int f(int, ,) ;",
	"\r\nint x;\r\n",
}

func parse(t *testing.T, text string) *syntax.Tree {
	t.Helper()

	tree, err := parser.ParseText(context.Background(), text)
	require.NoError(t, err)
	return tree
}

func TestParse_FullFidelity(t *testing.T) {
	t.Parallel()

	for _, text := range corpus {
		tree := parse(t, text)
		assert.Equal(t, text, tree.Text(), "round trip of %q", text)
		assert.Equal(t, len(text), tree.RootNode().Width())
		assert.Equal(t, syntax.KindTranslationUnit, tree.Root().Kind())

		last := tree.Root().Child(tree.Root().ChildCount() - 1)
		require.NotNil(t, last.Token(), "last child of %q must be a token", text)
		assert.Equal(t, syntax.TokenEOF, last.Token().Kind)
	}
}

func TestParse_TokensMatchLexer(t *testing.T) {
	t.Parallel()

	for _, text := range corpus {
		tree := parse(t, text)

		var fromTree []syntax.TokenKind
		for ref := range syntax.Tokens(tree.Root()) {
			fromTree = append(fromTree, ref.Token().Kind)
		}

		var fromLexer []syntax.TokenKind
		for tok := range lexer.All(text) {
			fromLexer = append(fromLexer, tok.Kind)
		}
		assert.Equal(t, fromLexer, fromTree, "tokens of %q", text)
	}
}

func TestParse_ValidProgramsHaveNoDiagnostics(t *testing.T) {
	t.Parallel()

	for _, text := range corpus[:14] {
		tree := parse(t, text)
		assert.Empty(t, tree.Diagnostics(), "diagnostics for %q", text)
		assert.False(t, tree.HasErrors())
	}
}

func TestParse_MissingInitializer(t *testing.T) {
	t.Parallel()

	tree := parse(t, "int x = ;")

	diags := tree.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, syntax.DiagExpectedExpression, diags[0].Kind)
	assert.Equal(t, syntax.SeverityError, diags[0].Severity)
	assert.Equal(t, source.Span{Start: 8, End: 8}, diags[0].Span)

	decl := tree.Root().Child(0)
	assert.Equal(t, syntax.KindVarDecl, decl.Kind())
	semi := decl.Child(decl.ChildCount() - 1)
	require.NotNil(t, semi.Token())
	assert.Equal(t, syntax.TokenSemicolon, semi.Token().Kind)

	missing, ok := syntax.FindFirst(tree.Root(), func(r syntax.Ref) bool { return r.Node.IsMissing() })
	require.True(t, ok)
	assert.Equal(t, 8, missing.Offset)
	assert.Equal(t, syntax.TokenIdent, missing.Node.Expected())
}

func TestParse_Recovery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		kinds []syntax.DiagnosticKind
		decls int
	}{
		{
			name:  "missing semicolon before next line",
			text:  "int x = 1\nint y;",
			kinds: []syntax.DiagnosticKind{syntax.DiagExpectedToken},
			decls: 2,
		},
		{
			name:  "missing semicolon before closing brace",
			text:  "int f() { return 1 }",
			kinds: []syntax.DiagnosticKind{syntax.DiagExpectedToken},
			decls: 1,
		},
		{
			name:  "statement missing after if",
			text:  "int f() { if (x) }",
			kinds: []syntax.DiagnosticKind{syntax.DiagExpectedToken},
			decls: 1,
		},
		{
			name:  "garbage at file scope",
			text:  "x y z;\nint a;",
			kinds: []syntax.DiagnosticKind{syntax.DiagUnexpectedToken},
			decls: 2,
		},
		{
			name:  "invalid character",
			text:  "int x = @;",
			kinds: []syntax.DiagnosticKind{syntax.DiagInvalidCharacter},
			decls: 1,
		},
		{
			name:  "unterminated string",
			text:  "char *s = \"abc",
			kinds: []syntax.DiagnosticKind{syntax.DiagUnterminatedString, syntax.DiagExpectedToken},
			decls: 1,
		},
		{
			name:  "unterminated comment",
			text:  "int x; /* never closed",
			kinds: []syntax.DiagnosticKind{syntax.DiagUnterminatedComment},
			decls: 1,
		},
		{
			name:  "stray semicolon",
			text:  "int x;;",
			kinds: []syntax.DiagnosticKind{syntax.DiagEmptyDeclaration},
			decls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree := parse(t, tt.text)
			assert.Equal(t, tt.text, tree.Text())

			var kinds []syntax.DiagnosticKind
			for _, d := range tree.Diagnostics() {
				kinds = append(kinds, d.Kind)
			}
			assert.Equal(t, tt.kinds, kinds)

			// The EOF leaf is the last child, every other child is a declaration
			// or a skipped run.
			assert.Equal(t, tt.decls+1, tree.Root().ChildCount())
		})
	}
}

func TestParse_SkippedSpanExcludesTrivia(t *testing.T) {
	t.Parallel()

	tree := parse(t, "  x y ;  \nint a;")

	diags := tree.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, syntax.DiagUnexpectedToken, diags[0].Kind)
	assert.Equal(t, source.Span{Start: 2, End: 7}, diags[0].Span)
	assert.Equal(t, "unexpected identifier, expected declaration", diags[0].Message)
}

func TestParse_Precedence(t *testing.T) {
	t.Parallel()

	tree := parse(t, "int x = a + b * c == d || e;")

	init, ok := syntax.FindFirst(tree.Root(), func(r syntax.Ref) bool {
		return r.Kind() == syntax.KindInitDeclarator
	})
	require.True(t, ok)

	or := init.Child(2)
	assert.Equal(t, syntax.KindBinaryExpr, or.Kind())
	assert.Equal(t, syntax.TokenOr, or.Child(1).Token().Kind)

	eq := or.Child(0)
	assert.Equal(t, syntax.TokenEQ, eq.Child(1).Token().Kind)

	plus := eq.Child(0)
	assert.Equal(t, syntax.TokenPlus, plus.Child(1).Token().Kind)
	assert.Equal(t, syntax.KindBinaryExpr, plus.Child(2).Kind())
	assert.Equal(t, syntax.TokenStar, plus.Child(2).Child(1).Token().Kind)
}

func TestParse_LeftAndRightAssociativity(t *testing.T) {
	t.Parallel()

	tree := parse(t, "int f() { a = b = c - d - e; }")

	assign, ok := syntax.FindFirst(tree.Root(), func(r syntax.Ref) bool {
		return r.Kind() == syntax.KindAssignExpr
	})
	require.True(t, ok)
	assert.Equal(t, "a ", assign.Child(0).Text())
	assert.Equal(t, syntax.KindAssignExpr, assign.Child(2).Kind())

	sub := assign.Child(2).Child(2)
	assert.Equal(t, syntax.KindBinaryExpr, sub.Kind())
	assert.Equal(t, "c - d ", sub.Child(0).Text())
	assert.Equal(t, "e", sub.Child(2).Text())
}

func TestParse_CastAndSizeof(t *testing.T) {
	t.Parallel()

	tree := parse(t, "long n = (long)sizeof(int) + sizeof n;")
	assert.Empty(t, tree.Diagnostics())
	assert.Len(t, syntax.FindByKind(tree.Root(), syntax.KindCastExpr), 1)
	assert.Len(t, syntax.FindByKind(tree.Root(), syntax.KindSizeofExpr), 2)
}

func TestParse_DeclarationShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		kind syntax.Kind
	}{
		{"int x;", syntax.KindVarDecl},
		{"int f(void);", syntax.KindFunctionDecl},
		{"int f(void) {}", syntax.KindFunctionDecl},
		{"struct s { int a; };", syntax.KindStructDecl},
		{"struct s v;", syntax.KindVarDecl},
		{";", syntax.KindEmptyDecl},
	}

	for _, tt := range tests {
		tree := parse(t, tt.text)
		assert.Equal(t, tt.kind, tree.Root().Child(0).Kind(), "text %q", tt.text)
	}
}

func TestParse_TerminatesOnGarbage(t *testing.T) {
	t.Parallel()

	inputs := []string{
		strings.Repeat("(", 500),
		strings.Repeat("}", 500),
		strings.Repeat("else ", 200),
		strings.Repeat("int ", 200),
		strings.Repeat("= ", 200),
		strings.Repeat("@#$", 100),
		strings.Repeat("for (", 100),
		strings.Repeat("struct {", 100),
	}

	for _, text := range inputs {
		tree := parse(t, text)
		assert.Equal(t, text, tree.Text())
		assert.True(t, tree.HasErrors())
	}
}

func TestParse_DeepNestingIsBounded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
	}{
		{"parentheses", "int x = " + strings.Repeat("(", 2_000_000) + ";"},
		{"blocks", "void f() " + strings.Repeat("{", 200_000)},
		{"balanced blocks", "void f() {" + strings.Repeat("{", 5000) + "x;" + strings.Repeat("}", 5001)},
		{"initializer lists", "int a[] = " + strings.Repeat("{", 5000) + "1" + strings.Repeat("}", 5000) + ";"},
		{"unary operators", "int x = " + strings.Repeat("-", 50_000) + "1;"},
		{"binary chain", "int x = 1" + strings.Repeat(" + 1", 50_000) + ";"},
		{"comma chain", "int f() { x" + strings.Repeat(", x", 50_000) + "; }"},
		{"assignments", "int f() { " + strings.Repeat("x = ", 50_000) + "1; }"},
		{"conditionals", "int x = " + strings.Repeat("a ? b : ", 50_000) + "c;"},
		{"call chain", "int x = f" + strings.Repeat("()", 50_000) + ";"},
		{"nested calls", "int x = " + strings.Repeat("f(", 50_000) + ";"},
		{"statements", "void f() { " + strings.Repeat("if (x) ", 50_000) + "y; }"},
		{"structs", strings.Repeat("struct { ", 50_000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree := parse(t, tt.text)
			assert.Equal(t, tt.text, tree.Text())
			assert.LessOrEqual(t, tree.RootNode().Height(), 4*parser.MaxDepth)

			var tooDeep int
			for _, d := range tree.Diagnostics() {
				if d.Kind == syntax.DiagNestingTooDeep {
					tooDeep++
				}
			}
			assert.Positive(t, tooDeep)
		})
	}
}

func TestParse_NestingBelowLimit(t *testing.T) {
	t.Parallel()

	const depth = parser.MaxDepth - 100
	text := "int x = " + strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth) + ";\n" +
		"void f() {" + strings.Repeat("{", depth) + "x;" + strings.Repeat("}", depth) + "}\n"

	tree := parse(t, text)
	assert.Equal(t, text, tree.Text())
	assert.Empty(t, tree.Diagnostics())
}

func TestParse_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	text := strings.Repeat("int x = 1;\n", 100)
	_, err := parser.Parse(ctx, source.New("", text), parser.WithCheckInterval(8))
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
}

func TestParseNode_ConsumedCount(t *testing.T) {
	t.Parallel()

	text := "x = 1; y = 2;"
	node, consumed, err := parser.ParseNode(context.Background(), lexer.New(text, 0), parser.ContextBlockItem)
	require.NoError(t, err)
	assert.Equal(t, syntax.KindExprStmt, node.Kind())
	assert.Equal(t, 4, consumed)
	assert.Equal(t, "x = 1; ", node.Text())
}

func TestParseNode_UnknownContext(t *testing.T) {
	t.Parallel()

	_, _, err := parser.ParseNode(context.Background(), lexer.New("", 0), parser.Context(99))
	require.Error(t, err)
}

func TestContext_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "block-item", parser.ContextBlockItem.String())
	assert.Equal(t, "Context(99)", parser.Context(99).String())
}

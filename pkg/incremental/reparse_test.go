package incremental_test

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocst/pkg/incremental"
	"github.com/yaklabco/gocst/pkg/parser"
	"github.com/yaklabco/gocst/pkg/source"
	"github.com/yaklabco/gocst/pkg/syntax"
)

//nolint:gochecknoglobals // Shared read-only corpus.
var programs = []string{
	"int a;\nint x = 1;\nint b;\n",
	"int f(int n) {\n  int i = 0;\n  while (i < n) {\n    i = i + 1; // step\n  }\n  return i;\n}\n",
	"struct s { int a; char *b; };\nstatic int g(void);\n/* c */ int h() { if (a) b(); else { c--; } }\n",
	"int main() {\n  for (;;) { break; }\n  do x++; while (x < 3);\n  return sizeof(int) ? (long)x : -1;\n}",
	"int x = ;\nint y = 1\nint z;\n}\n",
}

//nolint:gochecknoglobals // Shared read-only fragments.
var insertions = []string{"", " ", "\n", "x", "1", ";", "{", "}", "(", ")", "/*", "*/", "//", "\"", "'", "int ", ".", "=", "+"}

func parse(t *testing.T, text string) *syntax.Tree {
	t.Helper()

	tree, err := parser.Parse(context.Background(), source.New("test.c", text))
	require.NoError(t, err)
	return tree
}

func requireEquivalent(t *testing.T, got *syntax.Tree, edit source.Edit, before string) {
	t.Helper()

	want := parse(t, got.Buffer().Text())
	if syntax.Equal(got.RootNode(), want.RootNode()) {
		return
	}
	a, b, _ := syntax.FirstDifference(got.Root(), want.Root())
	require.Failf(t, "reparse differs from full parse",
		"text %q, edit %s: got %s at %d, want %s at %d", before, edit, a.Node, a.Offset, b.Node, b.Offset)
}

func TestReparse_EquivalentToFullParse(t *testing.T) {
	t.Parallel()

	for _, text := range programs {
		old := parse(t, text)

		for start := 0; start <= len(text); start++ {
			for _, ins := range insertions {
				for _, del := range []int{0, 1, 3} {
					end := min(start+del, len(text))
					if ins == "" && end == start {
						continue
					}
					edit := source.Edit{StartOffset: start, EndOffset: end, NewText: ins}

					got, _, err := incremental.Reparse(context.Background(), old, edit)
					require.NoError(t, err)
					requireEquivalent(t, got, edit, text)
				}
			}
		}
	}
}

func TestReparse_EditChainStaysEquivalent(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	tree := parse(t, programs[1])

	for range 400 {
		text := tree.Buffer().Text()
		start := rng.IntN(len(text) + 1)
		end := min(len(text), start+rng.IntN(3))
		edit := source.Edit{StartOffset: start, EndOffset: end, NewText: insertions[rng.IntN(len(insertions))]}

		next, _, err := incremental.Reparse(context.Background(), tree, edit)
		require.NoError(t, err)
		requireEquivalent(t, next, edit, text)
		assert.True(t, next.Buffer().IsSuccessorOf(tree.Buffer()))
		tree = next
	}
}

func TestReparse_NearDepthLimitStaysEquivalent(t *testing.T) {
	t.Parallel()

	const depth = parser.MaxDepth - 6
	text := "int a;\nvoid f() {" + strings.Repeat("{", depth) + "x = (y);" + strings.Repeat("}", depth) + "}\nint b;\n"
	old := parse(t, text)
	require.Empty(t, old.Diagnostics())

	inner := strings.Index(text, "x =")
	sawTooDeep := false
	for _, start := range []int{inner - 2, inner - 1, inner, inner + 4, inner + 5, inner + 8} {
		for _, ins := range []string{"{", "(", "-", "{{", "((((", "{{{{{{", "x;", "}"} {
			edit := source.Edit{StartOffset: start, EndOffset: start, NewText: ins}

			got, _, err := incremental.Reparse(context.Background(), old, edit)
			require.NoError(t, err)
			requireEquivalent(t, got, edit, text)

			for _, d := range got.Diagnostics() {
				sawTooDeep = sawTooDeep || d.Kind == syntax.DiagNestingTooDeep
			}
		}
	}
	assert.True(t, sawTooDeep, "some edit crosses the depth limit")
}

func TestReparse_ReusesSiblings(t *testing.T) {
	t.Parallel()

	old := parse(t, "int a;\nint x = 1;\nint b;\n")

	edit := source.Edit{StartOffset: 15, EndOffset: 16, NewText: "12"}
	got, res, err := incremental.Reparse(context.Background(), old, edit)
	require.NoError(t, err)

	assert.Equal(t, "int a;\nint x = 12;\nint b;\n", got.Text())
	assert.Equal(t, incremental.ModeIncremental, res.Mode)
	assert.Equal(t, parser.ContextExternalDecl, res.Context)
	assert.Equal(t, source.Span{Start: 7, End: 19}, res.Span)
	assert.Equal(t, 1, res.Replaced)
	assert.Equal(t, 1, res.Inserted)

	oldRoot, newRoot := old.RootNode(), got.RootNode()
	assert.NotSame(t, oldRoot, newRoot)
	assert.Same(t, oldRoot.Child(0), newRoot.Child(0))
	assert.NotSame(t, oldRoot.Child(1), newRoot.Child(1))
	assert.Same(t, oldRoot.Child(2), newRoot.Child(2))
	assert.Same(t, oldRoot.Child(3), newRoot.Child(3), "EOF leaf")
}

func TestReparse_ReplacesSingleStatement(t *testing.T) {
	t.Parallel()

	old := parse(t, "int f() {\n  a = 1;\n  b = 2;\n}\n")

	got, res, err := incremental.Reparse(context.Background(), old, source.Edit{StartOffset: 16, EndOffset: 17, NewText: "3"})
	require.NoError(t, err)
	requireEquivalent(t, got, source.Edit{}, old.Text())

	assert.Equal(t, incremental.ModeIncremental, res.Mode)
	assert.Equal(t, parser.ContextBlockItem, res.Context)
	assert.Equal(t, syntax.KindBlock, res.Parent)

	oldBlock := syntax.FindByKind(old.Root(), syntax.KindBlock)[0].Node
	newBlock := syntax.FindByKind(got.Root(), syntax.KindBlock)[0].Node
	assert.Same(t, oldBlock.Child(0), newBlock.Child(0))
	assert.NotSame(t, oldBlock.Child(1), newBlock.Child(1))
	assert.Same(t, oldBlock.Child(2), newBlock.Child(2))
	assert.Same(t, oldBlock.Child(3), newBlock.Child(3))

	// The declaration's type and name are untouched.
	assert.Same(t, old.RootNode().Child(0).Child(0), got.RootNode().Child(0).Child(0))
}

func TestReparse_InsertDeclarationBetweenSiblings(t *testing.T) {
	t.Parallel()

	old := parse(t, "int a;\nint c;\n")

	got, res, err := incremental.Reparse(context.Background(), old, source.Edit{StartOffset: 7, EndOffset: 7, NewText: "int b;\n"})
	require.NoError(t, err)
	requireEquivalent(t, got, source.Edit{}, old.Text())

	assert.Equal(t, incremental.ModeIncremental, res.Mode)
	assert.Equal(t, 2, res.Replaced)
	assert.Equal(t, 3, res.Inserted)
	assert.Equal(t, 4, got.Root().ChildCount())
}

func TestReparse_UnterminatedCommentFallsBack(t *testing.T) {
	t.Parallel()

	old := parse(t, "int a;\nint b;\nint c;\n")

	got, res, err := incremental.Reparse(context.Background(), old, source.Edit{StartOffset: 7, EndOffset: 7, NewText: "/*"})
	require.NoError(t, err)
	requireEquivalent(t, got, source.Edit{}, old.Text())

	assert.Equal(t, incremental.ModeFull, res.Mode)
	assert.Equal(t, source.Span{Start: 0, End: got.Buffer().Len()}, res.Span)

	var kinds []syntax.DiagnosticKind
	for _, d := range got.Diagnostics() {
		kinds = append(kinds, d.Kind)
	}
	assert.Contains(t, kinds, syntax.DiagUnterminatedComment)
}

func TestReparse_ContractViolations(t *testing.T) {
	t.Parallel()

	old := parse(t, "int x;")

	tests := []struct {
		name string
		edit source.Edit
	}{
		{"past end", source.Edit{StartOffset: 3, EndOffset: 7}},
		{"negative", source.Edit{StartOffset: -1, EndOffset: 0}},
		{"reversed", source.Edit{StartOffset: 4, EndOffset: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := incremental.Reparse(context.Background(), old, tt.edit)
			require.Error(t, err)
			require.ErrorIs(t, err, incremental.ErrContract)
		})
	}
}

func TestReparseBuffer_RejectsForeignBuffer(t *testing.T) {
	t.Parallel()

	old := parse(t, "int x;")
	edit := source.Edit{StartOffset: 4, EndOffset: 5, NewText: "y"}

	_, _, err := incremental.ReparseBuffer(context.Background(), old, source.New("", "int y;"), edit)
	require.ErrorIs(t, err, incremental.ErrContract)

	next, err := old.Buffer().Apply(edit)
	require.NoError(t, err)

	_, _, err = incremental.ReparseBuffer(context.Background(), old, next, source.Edit{StartOffset: 4, EndOffset: 5, NewText: "zz"})
	require.ErrorIs(t, err, incremental.ErrContract, "length does not match")

	skipped, err := next.Apply(source.Edit{StartOffset: 0, EndOffset: 0, NewText: " "})
	require.NoError(t, err)
	_, _, err = incremental.ReparseBuffer(context.Background(), old, skipped, edit)
	require.ErrorIs(t, err, incremental.ErrContract, "version gap")

	got, _, err := incremental.ReparseBuffer(context.Background(), old, next, edit)
	require.NoError(t, err)
	assert.Equal(t, "int y;", got.Text())
	assert.Same(t, next, got.Buffer())
}

func TestReparse_Cancelled(t *testing.T) {
	t.Parallel()

	old := parse(t, "int a;\nint b;\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := incremental.Reparse(ctx, old, source.Edit{StartOffset: 4, EndOffset: 5, NewText: "c"})
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, incremental.ErrContract)
}

func TestMode_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "incremental", incremental.ModeIncremental.String())
	assert.Equal(t, "full", incremental.ModeFull.String())
}

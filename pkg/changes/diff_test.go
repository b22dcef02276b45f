package changes_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocst/pkg/changes"
	"github.com/yaklabco/gocst/pkg/incremental"
	"github.com/yaklabco/gocst/pkg/parser"
	"github.com/yaklabco/gocst/pkg/source"
	"github.com/yaklabco/gocst/pkg/syntax"
)

//nolint:gochecknoglobals // Shared read-only corpus.
var texts = []string{
	"",
	"int x;",
	"int x = 1;",
	"int x = 12;",
	"int a;\nint x = 1;\nint b;\n",
	"int f() {\n  return a + b;\n}\n",
	"int f() {\n  return a - b;\n}\nint g;\n",
	"struct s { int a; };",
	"garbage @ here",
	"int x = ;",
}

func parse(t *testing.T, text string) *syntax.Tree {
	t.Helper()

	tree, err := parser.ParseText(context.Background(), text)
	require.NoError(t, err)
	return tree
}

func diff(t *testing.T, a, b *syntax.Tree) []changes.Span {
	t.Helper()

	spans, err := changes.Diff(context.Background(), a, b)
	require.NoError(t, err)
	return spans
}

func TestDiff_IndependentParsesOfSameTextAreEqual(t *testing.T) {
	t.Parallel()

	for _, text := range texts {
		assert.Empty(t, diff(t, parse(t, text), parse(t, text)), "text %q", text)
	}
}

func TestDiff_SameTreeIsEqual(t *testing.T) {
	t.Parallel()

	tree := parse(t, texts[4])
	assert.Empty(t, diff(t, tree, tree))
}

func TestDiff_EditsReproduceTarget(t *testing.T) {
	t.Parallel()

	for _, from := range texts {
		for _, to := range texts {
			a, b := parse(t, from), parse(t, to)
			spans := diff(t, a, b)

			got := source.ApplyEdits(from, changes.Edits(spans, b))
			assert.Equal(t, to, got, "from %q to %q", from, to)
			assertOrdered(t, spans)
		}
	}
}

func assertOrdered(t *testing.T, spans []changes.Span) {
	t.Helper()

	for i := 1; i < len(spans); i++ {
		prev, cur := spans[i-1], spans[i]
		assert.Greater(t, cur.Start, prev.Start+prev.OldLength, "spans must be disjoint and not adjacent")
		assert.Greater(t, cur.NewStart, prev.NewStart+prev.NewLength)
	}
}

func TestDiff_SingleCharacterInsertion(t *testing.T) {
	t.Parallel()

	old := parse(t, "int x = 1;")
	next, res, err := incremental.Reparse(context.Background(), old, source.Edit{StartOffset: 8, EndOffset: 9, NewText: "12"})
	require.NoError(t, err)
	require.Equal(t, incremental.ModeIncremental, res.Mode)

	spans := diff(t, old, next)
	require.Len(t, spans, 1)
	assert.Equal(t, changes.Span{Start: 9, OldLength: 0, NewStart: 9, NewLength: 1}, spans[0])
}

func TestDiff_IncrementalReparseTouchesOnlyChangedDeclaration(t *testing.T) {
	t.Parallel()

	old := parse(t, "int a = 1;\nint b = 2;\nint c = 3;\n")
	next, _, err := incremental.Reparse(context.Background(), old, source.Edit{StartOffset: 19, EndOffset: 20, NewText: "42"})
	require.NoError(t, err)

	spans := diff(t, old, next)
	require.Len(t, spans, 1)
	assert.Equal(t, source.Span{Start: 19, End: 20}, spans[0].Old())
	assert.Equal(t, source.Span{Start: 19, End: 21}, spans[0].New())
	assert.Equal(t, "42", next.Buffer().Slice(spans[0].NewStart, spans[0].NewStart+spans[0].NewLength))
}

func TestDiff_MergesAdjacentChanges(t *testing.T) {
	t.Parallel()

	// The operand and the operator are separate tokens that both change.
	spans := diff(t, parse(t, "int x = a+b;"), parse(t, "int x = c-b;"))
	require.Len(t, spans, 1)
	assert.Equal(t, changes.Span{Start: 8, OldLength: 2, NewStart: 8, NewLength: 2}, spans[0])
}

func TestDiff_ReshapedSubtreeComparedAsText(t *testing.T) {
	t.Parallel()

	spans := diff(t, parse(t, "int f() { ab; }"), parse(t, "int f() { cd(); }"))
	require.Len(t, spans, 1)
	assert.Equal(t, changes.Span{Start: 10, OldLength: 2, NewStart: 10, NewLength: 4}, spans[0])
}

func TestDiff_UnrelatedTreesReportTrimmedSpans(t *testing.T) {
	t.Parallel()

	from, to := "int a = 1;\nint b = 2;\n", "int a = 1;\nint b = 3;\n"
	a, b := parse(t, from), parse(t, to)
	require.NotSame(t, a.RootNode().Child(0), b.RootNode().Child(0))

	spans := diff(t, a, b)
	require.Len(t, spans, 1)
	assert.Equal(t, changes.Span{Start: 19, OldLength: 1, NewStart: 19, NewLength: 1}, spans[0])
	assert.Equal(t, to, source.ApplyEdits(from, changes.Edits(spans, b)))
}

func TestDiff_SeparateChangesStaySeparate(t *testing.T) {
	t.Parallel()

	spans := diff(t,
		parse(t, "int a = 1;\nint b = 2;\nint c = 3;\n"),
		parse(t, "int a = 7;\nint b = 2;\nint c = 9;\n"))
	require.Len(t, spans, 2)
	assert.Equal(t, 8, spans[0].Start)
	assert.Equal(t, 30, spans[1].Start)
}

func TestDiff_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := changes.Diff(ctx, parse(t, texts[4]), parse(t, texts[5]), changes.WithCheckInterval(1))
	require.ErrorIs(t, err, context.Canceled)
}

func TestSpan_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "@9 -0 +1", changes.Span{Start: 9, NewStart: 9, NewLength: 1}.String())
}

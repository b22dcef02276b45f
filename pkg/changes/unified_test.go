package changes_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocst/pkg/changes"
	"github.com/yaklabco/gocst/pkg/source"
)

func unify(t *testing.T, from, to string) *changes.Unified {
	t.Helper()

	a, b := parse(t, from), parse(t, to)
	spans, err := changes.Diff(context.Background(), a, b)
	require.NoError(t, err)
	return changes.Unify("x.c", a.Buffer(), b.Buffer(), spans)
}

func TestUnify_NoChanges(t *testing.T) {
	t.Parallel()

	u := unify(t, "int x;\n", "int x;\n")
	assert.Nil(t, u)
	assert.False(t, u.HasChanges())
	assert.Empty(t, u.String())
}

func TestUnify_SingleLine(t *testing.T) {
	t.Parallel()

	u := unify(t, "int a;\nint b = 1\nint c;\n", "int a;\nint b = 1;\nint c;\n")
	require.NotNil(t, u)
	require.Len(t, u.Hunks, 1)
	assert.Equal(t, 1, u.Additions)
	assert.Equal(t, 1, u.Deletions)

	want := "--- a/x.c\n" +
		"+++ b/x.c\n" +
		"@@ -1,3 +1,3 @@\n" +
		" int a;\n" +
		"-int b = 1\n" +
		"+int b = 1;\n" +
		" int c;\n"
	assert.Equal(t, want, u.String())
	assert.Equal(t, "diff --git a/x.c b/x.c\n"+want, u.FullString())
}

func TestUnify_SeparateHunks(t *testing.T) {
	t.Parallel()

	from := "int a = 1;\nint b;\nint c;\nint d;\nint e;\nint f;\nint g;\nint h;\nint i = 1;\n"
	to := "int a = 2;\nint b;\nint c;\nint d;\nint e;\nint f;\nint g;\nint h;\nint i = 2;\n"

	u := unify(t, from, to)
	require.NotNil(t, u)
	require.Len(t, u.Hunks, 2)
	assert.Equal(t, 1, u.Hunks[0].OldStart)
	assert.Equal(t, 4, u.Hunks[0].OldCount)
	assert.Equal(t, 6, u.Hunks[1].OldStart)
	assert.Equal(t, 4, u.Hunks[1].OldCount)
}

func TestUnify_MissingFinalNewline(t *testing.T) {
	t.Parallel()

	u := unify(t, "int x", "int x;")
	require.NotNil(t, u)
	assert.Contains(t, u.String(), "-int x\n\\ No newline at end of file\n+int x;\n\\ No newline at end of file\n")
}

func TestUnify_AppendedLines(t *testing.T) {
	t.Parallel()

	oldBuf := source.New("x.c", "int a;\n")
	newBuf := source.New("x.c", "int a;\nint b;\n")
	spans := []changes.Span{{Start: 7, OldLength: 0, NewStart: 7, NewLength: 7}}

	u := changes.Unify("x.c", oldBuf, newBuf, spans)
	require.NotNil(t, u)
	assert.Equal(t, 1, u.Additions)
	assert.Zero(t, u.Deletions)
	assert.Contains(t, u.String(), "@@ -1,1 +1,2 @@\n int a;\n+int b;\n")
}

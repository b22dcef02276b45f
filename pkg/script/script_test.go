package script_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocst/pkg/changes"
	"github.com/yaklabco/gocst/pkg/incremental"
	"github.com/yaklabco/gocst/pkg/script"
	"github.com/yaklabco/gocst/pkg/source"
)

const widenScript = `
path: widen.c
initial: |
  int a;
  int x = 1;
  int b;
steps:
  - name: widen constant
    edits:
      - {start: 15, end: 16, text: "12"}
    expect: |
      int a;
      int x = 12;
      int b;
  - edits:
      - {find: "b", text: "c"}
      - {find: "a", text: "d"}
`

func intp(n int) *int { return &n }

func strp(s string) *string { return &s }

func TestLoad(t *testing.T) {
	t.Parallel()

	sc, err := script.LoadBytes([]byte(widenScript))
	require.NoError(t, err)

	assert.Equal(t, "widen.c", sc.Path)
	assert.Equal(t, "int a;\nint x = 1;\nint b;\n", sc.Initial)
	require.Len(t, sc.Steps, 2)
	assert.Equal(t, "widen constant", sc.Steps[0].Label(0))
	assert.Equal(t, "step 2", sc.Steps[1].Label(1))
	require.NotNil(t, sc.Steps[0].Expect)
	assert.Nil(t, sc.Steps[1].Expect)
	assert.Equal(t, 15, *sc.Steps[0].Edits[0].Start)
	assert.Equal(t, "b", sc.Steps[1].Edits[0].Find)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty", "", "empty script"},
		{"unknown field", "initial: x\nbogus: 1\n", "bogus"},
		{"no edits", "initial: x\nsteps:\n  - name: s\n", "s: no edits"},
		{"no position", "initial: x\nsteps:\n  - edits: [{text: y}]\n", "either start or find"},
		{"find with start", "initial: x\nsteps:\n  - edits: [{find: x, start: 0, text: y}]\n", "cannot be combined"},
		{"end before start", "initial: x\nsteps:\n  - edits: [{start: 2, end: 1, text: y}]\n", "before start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := script.LoadBytes([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEditSpec_Resolve(t *testing.T) {
	t.Parallel()

	text := "int x = x + x;"
	tests := []struct {
		name string
		spec script.EditSpec
		want source.Edit
	}{
		{"insertion", script.EditSpec{Start: intp(3), Text: "!"}, source.Edit{StartOffset: 3, EndOffset: 3, NewText: "!"}},
		{"range", script.EditSpec{Start: intp(4), End: intp(5), Text: "y"}, source.Edit{StartOffset: 4, EndOffset: 5, NewText: "y"}},
		{"first match", script.EditSpec{Find: "x", Text: "y"}, source.Edit{StartOffset: 4, EndOffset: 5, NewText: "y"}},
		{"third match", script.EditSpec{Find: "x", Occurrence: 3, Text: "y"}, source.Edit{StartOffset: 12, EndOffset: 13, NewText: "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.spec.Resolve(text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := script.EditSpec{Find: "x", Occurrence: 4, Text: "y"}.Resolve(text)
	require.ErrorIs(t, err, script.ErrNotFound)

	_, err = script.EditSpec{Start: intp(20), Text: "y"}.Resolve(text)
	require.Error(t, err)
}

func TestPlay(t *testing.T) {
	t.Parallel()

	sc, err := script.LoadBytes([]byte(widenScript))
	require.NoError(t, err)

	sess, results, err := script.Play(context.Background(), sc, script.WithVerify(true))
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results[0]
	assert.True(t, first.Verified)
	require.Len(t, first.Reparses, 1)
	assert.Equal(t, incremental.ModeIncremental, first.Reparses[0].Mode)
	assert.Equal(t, []changes.Span{{Start: 16, OldLength: 0, NewStart: 16, NewLength: 1}}, first.Spans)
	assert.Same(t, first.Before.RootNode().Child(0), first.After.RootNode().Child(0))

	second := results[1]
	assert.Len(t, second.Edits, 2)
	assert.Len(t, second.Spans, 2)
	assert.Equal(t, "int d;\nint x = 12;\nint c;\n", sess.Text())
}

func TestPlay_UnexpectedText(t *testing.T) {
	t.Parallel()

	sc := &script.Script{
		Initial: "int x;",
		Steps: []script.Step{{
			Name:   "rename",
			Edits:  []script.EditSpec{{Find: "x", Text: "y"}},
			Expect: strp("int z;"),
		}},
	}

	_, results, err := script.Play(context.Background(), sc)
	require.ErrorIs(t, err, script.ErrUnexpectedText)
	assert.Len(t, results, 1)

	var stepErr *script.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 0, stepErr.Index)
	assert.True(t, strings.HasPrefix(err.Error(), "rename: "))
}

func TestSession_FailedStepKeepsTree(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sess, err := script.NewSession(ctx, "", "int x;")
	require.NoError(t, err)
	before := sess.Tree()

	_, err = sess.Apply(ctx, "", script.EditSpec{Find: "zzz", Text: "y"})
	require.ErrorIs(t, err, script.ErrNotFound)
	assert.Same(t, before, sess.Tree())
}

func TestSession_Replace(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sess, err := script.NewSession(ctx, "", "int x = 1;\nint y;\n", script.WithVerify(true))
	require.NoError(t, err)

	res, err := sess.Replace(ctx, "", "int x = 1;\nint y = 2;\nint z;\n")
	require.NoError(t, err)
	require.Len(t, res.Edits, 1)
	assert.Equal(t, source.Edit{StartOffset: 16, EndOffset: 16, NewText: " = 2;\nint z"}, res.Edits[0])
	assert.True(t, res.Verified)
	assert.Equal(t, "int x = 1;\nint y = 2;\nint z;\n", sess.Text())
}

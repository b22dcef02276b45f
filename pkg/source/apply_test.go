package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocst/pkg/source"
)

func TestApplyEdits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		edits   []source.Edit
		want    string
	}{
		{
			name:    "empty edits returns original",
			content: "int x;",
			want:    "int x;",
		},
		{
			name:    "single replacement",
			content: "int x = 1;",
			edits:   []source.Edit{{StartOffset: 8, EndOffset: 9, NewText: "42"}},
			want:    "int x = 42;",
		},
		{
			name:    "insertion and deletion",
			content: "return x y",
			edits: []source.Edit{
				{StartOffset: 8, EndOffset: 10, NewText: ""},
				{StartOffset: 10, EndOffset: 10, NewText: ";"},
			},
			want: "return x;",
		},
		{
			name:    "two insertions at one offset keep order",
			content: "f(",
			edits: []source.Edit{
				{StartOffset: 2, EndOffset: 2, NewText: ")"},
				{StartOffset: 2, EndOffset: 2, NewText: ";"},
			},
			want: "f();",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			prepared, err := source.PrepareEdits(testCase.edits, len(testCase.content))
			require.NoError(t, err)
			assert.Equal(t, testCase.want, source.ApplyEdits(testCase.content, prepared))
		})
	}
}

func TestPrepareEditsFiltered(t *testing.T) {
	t.Parallel()

	edits := []source.Edit{
		{StartOffset: 4, EndOffset: 4, NewText: ";"},
		{StartOffset: 0, EndOffset: 3, NewText: "abc"},
		{StartOffset: 4, EndOffset: 4, NewText: ")"},
		{StartOffset: 1, EndOffset: 2, NewText: "x"},
	}

	accepted, skipped, err := source.PrepareEditsFiltered(edits, 10)
	require.NoError(t, err)
	assert.Equal(t, []source.Edit{
		{StartOffset: 0, EndOffset: 3, NewText: "abc"},
		{StartOffset: 4, EndOffset: 4, NewText: ";"},
	}, accepted)
	assert.Len(t, skipped, 2)

	_, _, err = source.PrepareEditsFiltered([]source.Edit{{StartOffset: 5, EndOffset: 20}}, 10)
	require.Error(t, err)
}

func TestEdit_Delta(t *testing.T) {
	t.Parallel()

	edit := source.Edit{StartOffset: 3, EndOffset: 5, NewText: "hello"}
	assert.Equal(t, 3, edit.Delta())
	assert.Equal(t, source.Span{Start: 3, End: 5}, edit.Span())
	assert.Equal(t, source.Span{Start: 3, End: 8}, edit.NewSpan())
}

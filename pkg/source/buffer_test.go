package source_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocst/pkg/source"
)

func TestBuffer_ApplyCreatesSuccessor(t *testing.T) {
	t.Parallel()

	v1 := source.New("x.c", "int x = 1;")
	v2, err := v1.Apply(source.Edit{StartOffset: 8, EndOffset: 9, NewText: "12"})
	require.NoError(t, err)

	assert.Equal(t, "int x = 1;", v1.Text(), "old version must stay intact")
	assert.Equal(t, "int x = 12;", v2.Text())
	assert.Equal(t, 1, v1.Version())
	assert.Equal(t, 2, v2.Version())
	assert.Equal(t, v1.Lineage(), v2.Lineage())
	assert.True(t, v2.IsSuccessorOf(v1))
	assert.False(t, v1.IsSuccessorOf(v2))
	assert.Equal(t, "x.c", v2.Path)
}

func TestBuffer_ApplyRejectsOutOfBounds(t *testing.T) {
	t.Parallel()

	buf := source.New("", "abc")

	tests := []source.Edit{
		{StartOffset: -1, EndOffset: 0},
		{StartOffset: 2, EndOffset: 1},
		{StartOffset: 0, EndOffset: 4},
	}
	for _, edit := range tests {
		_, err := buf.Apply(edit)
		require.Error(t, err, "edit %v", edit)

		var verr *source.ValidationError
		assert.True(t, errors.As(err, &verr))
	}
}

func TestBuffer_IndependentBuffersHaveDistinctLineage(t *testing.T) {
	t.Parallel()

	a := source.New("", "x;")
	b := source.New("", "x;")
	assert.False(t, a.SameLineage(b))
	assert.False(t, b.IsSuccessorOf(a))
}

func TestBuffer_ApplyAll(t *testing.T) {
	t.Parallel()

	buf := source.New("", "f(a b)")
	next, err := buf.ApplyAll([]source.Edit{
		{StartOffset: 6, EndOffset: 6, NewText: ";"},
		{StartOffset: 3, EndOffset: 3, NewText: ","},
	})
	require.NoError(t, err)
	assert.Equal(t, "f(a, b);", next.Text())

	_, err = buf.ApplyAll([]source.Edit{
		{StartOffset: 0, EndOffset: 3, NewText: "g"},
		{StartOffset: 2, EndOffset: 4, NewText: "h"},
	})
	var cerr *source.ConflictError
	assert.True(t, errors.As(err, &cerr))
}

func TestBuffer_Slice(t *testing.T) {
	t.Parallel()

	buf := source.New("", "hello")
	assert.Equal(t, "ell", buf.Slice(1, 4))
	assert.Equal(t, "hello", buf.Slice(-3, 99))
	assert.Empty(t, buf.Slice(4, 2))
}

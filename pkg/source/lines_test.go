package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gocst/pkg/source"
)

func TestBuildLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected []source.LineInfo
	}{
		{
			name:    "empty content",
			content: "",
			expected: []source.LineInfo{
				{StartOffset: 0, NewlineStart: 0, EndOffset: 0},
			},
		},
		{
			name:    "single line no newline",
			content: "int x;",
			expected: []source.LineInfo{
				{StartOffset: 0, NewlineStart: 6, EndOffset: 6},
			},
		},
		{
			name:    "single line with CRLF",
			content: "x;\r\n",
			expected: []source.LineInfo{
				{StartOffset: 0, NewlineStart: 2, EndOffset: 4},
				{StartOffset: 4, NewlineStart: 4, EndOffset: 4},
			},
		},
		{
			name:    "multiple lines LF",
			content: "a\nbb\nccc",
			expected: []source.LineInfo{
				{StartOffset: 0, NewlineStart: 1, EndOffset: 2},
				{StartOffset: 2, NewlineStart: 4, EndOffset: 5},
				{StartOffset: 5, NewlineStart: 8, EndOffset: 8},
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, testCase.expected, source.BuildLines(testCase.content))
		})
	}
}

func TestBuffer_LineAt(t *testing.T) {
	t.Parallel()

	buf := source.New("a.c", "int x;\nint y;\n")

	tests := []struct {
		offset   int
		wantLine int
		wantCol  int
	}{
		{offset: 0, wantLine: 1, wantCol: 1},
		{offset: 4, wantLine: 1, wantCol: 5},
		{offset: 6, wantLine: 1, wantCol: 7},
		{offset: 7, wantLine: 2, wantCol: 1},
		{offset: 14, wantLine: 3, wantCol: 1},
		{offset: 99, wantLine: 3, wantCol: 1},
		{offset: -1, wantLine: 0, wantCol: 0},
	}

	for _, testCase := range tests {
		line, col := buf.LineAt(testCase.offset)
		assert.Equal(t, testCase.wantLine, line, "offset %d", testCase.offset)
		assert.Equal(t, testCase.wantCol, col, "offset %d", testCase.offset)
	}
}

func TestBuffer_PositionCountsGraphemes(t *testing.T) {
	t.Parallel()

	// An e followed by a combining acute accent is one grapheme but three bytes.
	buf := source.New("", "s = \"e\u0301\"; y")
	offset := len("s = \"e\u0301\"; ")

	pos := buf.Position(offset)
	assert.Equal(t, 1, pos.Line)
	assert.Equal(t, 10, pos.Column)

	_, byteCol := buf.LineAt(offset)
	assert.Equal(t, offset+1, byteCol)
}

func TestBuffer_OffsetRoundTrip(t *testing.T) {
	t.Parallel()

	buf := source.New("", "one\ntwo\nthree")
	for offset := range buf.Len() + 1 {
		line, col := buf.LineAt(offset)
		got, ok := buf.Offset(line, col)
		assert.True(t, ok)
		assert.Equal(t, offset, got)
	}

	_, ok := buf.Offset(0, 1)
	assert.False(t, ok)
	_, ok = buf.Offset(1, 10)
	assert.False(t, ok)
}

func TestBuffer_LineContent(t *testing.T) {
	t.Parallel()

	buf := source.New("", "first\r\nsecond\n")
	assert.Equal(t, "first", buf.LineContent(1))
	assert.Equal(t, "second", buf.LineContent(2))
	assert.Empty(t, buf.LineContent(3))
	assert.Empty(t, buf.LineContent(9))
	assert.Equal(t, 3, buf.LineCount())
}

package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gocst/internal/ui/pretty"
	"github.com/yaklabco/gocst/pkg/changes"
	"github.com/yaklabco/gocst/pkg/source"
)

func TestFormatChange(t *testing.T) {
	styles := pretty.NewStyles(false)

	oldBuf := source.New("a.c", "int x = 1;\n")
	newBuf := source.New("a.c", "int x = 12;\n")
	span := changes.Span{Start: 8, OldLength: 1, NewStart: 8, NewLength: 2}

	assert.Equal(t, "  1:9 @8 -1 +2 \"1\" => \"12\"\n", styles.FormatChange(span, oldBuf, newBuf))
}

func TestFormatChange_Insertion(t *testing.T) {
	styles := pretty.NewStyles(false)

	oldBuf := source.New("a.c", "int x = 1\nint y;\n")
	newBuf := source.New("a.c", "int x = 1;\nint y;\n")
	span := changes.Span{Start: 9, OldLength: 0, NewStart: 9, NewLength: 1}

	result := styles.FormatChange(span, oldBuf, newBuf)
	assert.Contains(t, result, "1:10")
	assert.Contains(t, result, `"" => ";"`)
}

func TestFormatChange_LongTextTruncated(t *testing.T) {
	styles := pretty.NewStyles(false)

	long := strings.Repeat("x", 100)
	oldBuf := source.New("a.c", "")
	newBuf := source.New("a.c", long)
	span := changes.Span{NewLength: 100}

	result := styles.FormatChange(span, oldBuf, newBuf)
	assert.Contains(t, result, `"`+strings.Repeat("x", 40)+`"...`)
	assert.NotContains(t, result, strings.Repeat("x", 41))
}

func TestFormatDiffLine(t *testing.T) {
	styles := pretty.NewStyles(false)

	for _, line := range []string{"@@ -1,1 +1,1 @@", "+int x;", "-int x", " int y;"} {
		assert.Equal(t, line, styles.FormatDiffLine(line))
	}
}

package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gocst/internal/ui/pretty"
	"github.com/yaklabco/gocst/pkg/check"
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/syntax"
)

func missingSemicolon() *check.Diagnostic {
	return &check.Diagnostic{
		Kind:        syntax.DiagExpectedToken,
		Message:     "expected ';'",
		Severity:    config.SeverityError,
		FilePath:    "main.c",
		StartLine:   2,
		StartColumn: 1,
		EndLine:     2,
		EndColumn:   1,
	}
}

func TestFormatDiagnostic_Basic(t *testing.T) {
	styles := pretty.NewStyles(false) // No colors for easier testing

	result := styles.FormatDiagnostic(missingSemicolon(), "", pretty.DiagnosticFormat{})

	assert.Contains(t, result, "main.c:2:1")
	assert.Contains(t, result, "error")
	assert.Contains(t, result, "expected ';'")
	assert.Contains(t, result, "(expected-token)")
}

func TestFormatDiagnostic_WithContext(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatDiagnostic(missingSemicolon(), "int y;", pretty.DiagnosticFormat{ShowContext: true})

	assert.Contains(t, result, "int y;")
	assert.Contains(t, result, "^")
}

func TestFormatDiagnostic_WithSuggestion(t *testing.T) {
	styles := pretty.NewStyles(false)

	diag := missingSemicolon()
	diag.Suggestion = "insert ';'"

	result := styles.FormatDiagnostic(diag, "", pretty.DiagnosticFormat{})

	assert.Contains(t, result, "Suggestion:")
	assert.Contains(t, result, "insert ';'")
}

func TestFormatDiagnostic_WithKindFormat(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		format   config.KindFormat
		contains string
		excludes string
	}{
		{config.KindFormatName, "(expected-token)", "CST002"},
		{config.KindFormatID, "(CST002)", "expected-token"},
		{config.KindFormatCombined, "(CST002/expected-token)", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			result := styles.FormatDiagnostic(missingSemicolon(), "", pretty.DiagnosticFormat{KindFormat: tt.format})
			assert.Contains(t, result, tt.contains)
			if tt.excludes != "" {
				assert.NotContains(t, result, tt.excludes)
			}
		})
	}
}

func TestFormatSeverity_AllLevels(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		severity config.Severity
		expected string
	}{
		{config.SeverityError, "error"},
		{config.SeverityWarning, "warning"},
		{config.SeverityInfo, "info"},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			assert.Equal(t, tt.expected, styles.FormatSeverity(tt.severity))
		})
	}
}

func TestFormatSourceContext_CaretColumn(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSourceContext("int x = 1", 5, 0)

	lines := strings.Split(strings.TrimSuffix(result, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, strings.Index(lines[0], "x"), strings.Index(lines[1], "^"))
}

func TestFormatSourceContext_ZeroColumn(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSourceContext("int x", 0, 0)

	assert.Contains(t, result, "int x")
	assert.NotContains(t, result, "^")
}

func TestExpandTabs(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		column   int
		tabWidth int
		expanded string
		caret    int
	}{
		{"no tabs", "int x", 5, 4, "int x", 4},
		{"leading tab", "\tint x", 2, 4, "    int x", 4},
		{"mid tab", "a\tb", 3, 4, "a   b", 4},
		{"tab width 8", "\tx", 2, 8, "        x", 8},
		{"default width", "\tx", 2, 0, "    x", 4},
		{"combining mark", "e\u0301 x", 3, 4, "e\u0301 x", 2},
		{"wide rune", "世 x", 3, 4, "世 x", 3},
		{"past end", "ab", 3, 4, "ab", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expanded, caret := pretty.ExpandTabs(tt.line, tt.column, tt.tabWidth)
			assert.Equal(t, tt.expanded, expanded)
			assert.Equal(t, tt.caret, caret)
		})
	}
}

func TestFormatFileHeader_WithIssues(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatFileHeader("src/main.c", 5)

	assert.Contains(t, result, "src/main.c")
	assert.Contains(t, result, "(5 issues)")
}

func TestFormatFileHeader_NoIssues(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatFileHeader("src/main.c", 0)

	assert.Contains(t, result, "src/main.c")
	assert.NotContains(t, result, "issues")
}

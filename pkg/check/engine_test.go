package check_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocst/pkg/check"
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/source"
	"github.com/yaklabco/gocst/pkg/syntax"
)

func boolp(b bool) *bool    { return &b }
func strp(s string) *string { return &s }

func fixConfig() *config.Config {
	cfg := config.NewConfig()
	cfg.Fix = true
	return cfg
}

func TestEngine_CheckFile_Clean(t *testing.T) {
	t.Parallel()

	engine := check.NewEngine(nil)
	result, err := engine.CheckFile(t.Context(), "ok.c", []byte("int main() { return 0; }\n"))
	require.NoError(t, err)

	assert.False(t, result.HasIssues())
	assert.False(t, result.HasFixes())
	assert.Equal(t, 0, result.IssueCount())
}

func TestEngine_CheckFile_MissingSemicolon(t *testing.T) {
	t.Parallel()

	engine := check.NewEngine(nil)
	result, err := engine.CheckFile(t.Context(), "a.c", []byte("int x = 1\nint y;\n"))
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)

	d := result.Diagnostics[0]
	assert.Equal(t, syntax.DiagExpectedToken, d.Kind)
	assert.Equal(t, config.SeverityError, d.Severity)
	assert.Equal(t, "expected ';'", d.Message)
	assert.Equal(t, "a.c", d.FilePath)
	assert.Equal(t, 2, d.StartLine)
	assert.Equal(t, 1, d.StartColumn)
	assert.Equal(t, "insert ';'", d.Suggestion)
	assert.Equal(t, []source.Edit{{StartOffset: 9, EndOffset: 9, NewText: ";"}}, d.FixEdits)
	assert.Equal(t, 1, result.FixableCount())

	// Edits are only collected in fix mode.
	assert.Empty(t, result.Edits)
}

func TestEngine_CheckFile_FixMode(t *testing.T) {
	t.Parallel()

	engine := check.NewEngine(fixConfig())
	result, err := engine.CheckFile(t.Context(), "a.c", []byte("int a = 1\nint b = 2\n"))
	require.NoError(t, err)

	assert.Equal(t, []source.Edit{
		{StartOffset: 9, EndOffset: 9, NewText: ";"},
		{StartOffset: 19, EndOffset: 19, NewText: ";"},
	}, result.Edits)
	assert.Empty(t, result.SkippedEdits)
}

func TestEngine_CheckTree_Configuration(t *testing.T) {
	t.Parallel()

	const text = "int x;;\nint y = 1\n"

	tests := []struct {
		name     string
		cfg      func() *config.Config
		kinds    []syntax.DiagnosticKind
		severity []config.Severity
	}{
		{
			name:     "defaults",
			cfg:      config.NewConfig,
			kinds:    []syntax.DiagnosticKind{syntax.DiagEmptyDeclaration, syntax.DiagExpectedToken},
			severity: []config.Severity{config.SeverityWarning, config.SeverityError},
		},
		{
			name: "disabled by id",
			cfg: func() *config.Config {
				cfg := config.NewConfig()
				cfg.Diagnostics = map[string]config.DiagnosticConfig{"CST008": {Enabled: boolp(false)}}
				return cfg
			},
			kinds:    []syntax.DiagnosticKind{syntax.DiagExpectedToken},
			severity: []config.Severity{config.SeverityError},
		},
		{
			name: "severity by name",
			cfg: func() *config.Config {
				cfg := config.NewConfig()
				cfg.Diagnostics = map[string]config.DiagnosticConfig{"expected-token": {Severity: strp("info")}}
				return cfg
			},
			kinds:    []syntax.DiagnosticKind{syntax.DiagEmptyDeclaration, syntax.DiagExpectedToken},
			severity: []config.Severity{config.SeverityWarning, config.SeverityInfo},
		},
		{
			name: "disable flag wins over map",
			cfg: func() *config.Config {
				cfg := config.NewConfig()
				cfg.Diagnostics = map[string]config.DiagnosticConfig{"CST002": {Enabled: boolp(true)}}
				cfg.Disable = []string{"expected-token"}
				return cfg
			},
			kinds:    []syntax.DiagnosticKind{syntax.DiagEmptyDeclaration},
			severity: []config.Severity{config.SeverityWarning},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := check.NewEngine(tt.cfg()).CheckFile(t.Context(), "a.c", []byte(text))
			require.NoError(t, err)

			var kinds []syntax.DiagnosticKind
			var severity []config.Severity
			for _, d := range result.Diagnostics {
				kinds = append(kinds, d.Kind)
				severity = append(severity, d.Severity)
			}
			assert.Equal(t, tt.kinds, kinds)
			assert.Equal(t, tt.severity, severity)
		})
	}
}

func TestEngine_MissingStatementHasNoFix(t *testing.T) {
	t.Parallel()

	engine := check.NewEngine(fixConfig())
	result, err := engine.CheckFile(t.Context(), "a.c", []byte("int f() { if (x) }\n"))
	require.NoError(t, err)
	require.NotEmpty(t, result.Diagnostics)

	for _, d := range result.Diagnostics {
		assert.False(t, d.HasFix(), d.Message)
	}
	assert.Empty(t, result.Edits)
}

func TestResolveKinds(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Enable = []string{"cst008"}
	cfg.Diagnostics = map[string]config.DiagnosticConfig{
		"empty-declaration": {Enabled: boolp(false), Severity: strp("error")},
	}

	kinds := check.ResolveKinds(cfg)
	require.Len(t, kinds, len(syntax.AllDiagnosticKinds()))

	empty := kinds[syntax.DiagEmptyDeclaration]
	assert.True(t, empty.Enabled)
	assert.Equal(t, config.SeverityError, empty.Severity)

	assert.Equal(t, config.SeverityError, kinds[syntax.DiagInvalidCharacter].Severity)
}

func TestDiagnostic_Shift(t *testing.T) {
	t.Parallel()

	result, err := check.NewEngine(nil).CheckFile(t.Context(), "block", []byte("int x = 1\n"))
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 1)

	host := source.New("doc.md", "# Title\n\n```c\nint x = 1\n```\n")
	d := result.Diagnostics[0]
	d.Shift(14, host, "doc.md")

	assert.Equal(t, "doc.md", d.FilePath)
	assert.Equal(t, []source.Edit{{StartOffset: 23, EndOffset: 23, NewText: ";"}}, d.FixEdits)
	assert.Equal(t, source.Span{Start: 24, End: 24}, d.Span)
	assert.Equal(t, 5, d.StartLine)
	assert.Equal(t, 1, d.StartColumn)
}

func TestIsFixable(t *testing.T) {
	t.Parallel()

	for _, kind := range syntax.AllDiagnosticKinds() {
		assert.Equal(t, kind == syntax.DiagExpectedToken, check.IsFixable(kind), kind.ID())
	}
}

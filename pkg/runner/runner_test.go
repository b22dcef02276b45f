package runner_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocst/pkg/check"
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/runner"
)

func setup(t *testing.T, cfg *config.Config, files map[string]string) (*runner.Runner, afero.Fs) {
	t.Helper()

	fsys := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
	return runner.New(check.NewPipeline(check.NewEngine(cfg), fsys)), fsys
}

func TestRunner_Run_Empty(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	r, fsys := setup(t, cfg, nil)
	require.NoError(t, fsys.MkdirAll("/repo", 0o755))

	result, err := r.Run(t.Context(), runner.Options{WorkingDir: "/repo", Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Stats.FilesDiscovered)
	assert.Empty(t, result.Files)
	assert.False(t, result.HasIssues())
}

func TestRunner_Run_Check(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	r, _ := setup(t, cfg, map[string]string{
		"/repo/a.c":       "int a;\n",
		"/repo/b.c":       "int b = 1\n",
		"/repo/src/c.c":   "int c;;\n",
		"/repo/src/d.c":   "int d = ;\n",
		"/repo/docs/x.md": "```c\nint x = 1\n```\n",
	})

	opts := runner.OptionsFromConfig(cfg, nil)
	opts.WorkingDir = "/repo"

	result, err := r.Run(t.Context(), opts)
	require.NoError(t, err)

	paths := make([]string, 0, len(result.Files))
	for _, f := range result.Files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"/repo/a.c", "/repo/b.c", "/repo/src/c.c", "/repo/src/d.c"}, paths)

	assert.Equal(t, 4, result.Stats.FilesProcessed)
	assert.Equal(t, 3, result.Stats.FilesWithIssues)
	assert.Equal(t, 3, result.Stats.DiagnosticsTotal)
	assert.Equal(t, 2, result.Stats.DiagnosticsBySeverity[config.SeverityError])
	assert.Equal(t, 1, result.Stats.DiagnosticsBySeverity[config.SeverityWarning])
	assert.Equal(t, 1, result.Stats.DiagnosticsFixable)
	assert.True(t, result.HasFailures())
	assert.False(t, result.HasErrors())
}

func TestRunner_Run_Fix(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Fix = true
	r, fsys := setup(t, cfg, map[string]string{
		"/repo/a.c": "int a = 1\nint b = 2\n",
		"/repo/b.c": "int ok;\n",
	})

	opts := runner.OptionsFromConfig(cfg, nil)
	opts.WorkingDir = "/repo"
	opts.Jobs = 1

	result, err := r.Run(t.Context(), opts)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.FilesModified)
	assert.Equal(t, 2, result.Stats.DiagnosticsFixed)
	assert.Equal(t, 0, result.Stats.DiagnosticsTotal)

	got, err := afero.ReadFile(fsys, "/repo/a.c")
	require.NoError(t, err)
	assert.Equal(t, "int a = 1;\nint b = 2;\n", string(got))
}

func TestRunner_Run_Snippets(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Snippets.Enabled = true
	r, _ := setup(t, cfg, map[string]string{
		"/repo/README.md": "# Demo\n\n```c\nint x = 1\n```\n\n```c\nint y;\n```\n",
	})

	opts := runner.OptionsFromConfig(cfg, nil)
	opts.WorkingDir = "/repo"

	result, err := r.Run(t.Context(), opts)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	outcome := result.Files[0]
	require.NoError(t, outcome.Error)
	assert.Equal(t, 2, outcome.Blocks)
	assert.Equal(t, 2, result.Stats.SnippetBlocks)
	require.Len(t, outcome.Result.Diagnostics, 1)
	assert.Equal(t, 5, outcome.Result.Diagnostics[0].StartLine)
	assert.Equal(t, "/repo/README.md", outcome.Result.Diagnostics[0].FilePath)
}

func TestRunner_Run_CPlusPlusHeaderSkipped(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	r, _ := setup(t, cfg, map[string]string{
		"/repo/c.h":   "int add(int a, int b);\n",
		"/repo/cpp.h": "namespace util { class Helper {}; }\n",
	})

	opts := runner.OptionsFromConfig(cfg, nil)
	opts.WorkingDir = "/repo"

	result, err := r.Run(t.Context(), opts)
	require.NoError(t, err)
	require.Len(t, result.Files, 2)

	assert.False(t, result.Files[0].Result.Skipped)
	assert.True(t, result.Files[1].Result.Skipped)
	assert.Equal(t, "not C source", result.Files[1].Result.SkipReason)
	assert.Equal(t, 1, result.Stats.FilesSkipped)
	assert.Equal(t, 0, result.Stats.DiagnosticsTotal)
}

func TestRunner_Run_Cancelled(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	r, _ := setup(t, cfg, map[string]string{"/repo/a.c": "int a;\n"})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := r.Run(ctx, runner.Options{WorkingDir: "/repo", Config: cfg})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunner_TabWidthFallback(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.TabWidth = 8
	r, _ := setup(t, cfg, map[string]string{"/repo/a.c": "int a;\n"})

	opts := runner.OptionsFromConfig(cfg, nil)
	opts.WorkingDir = "/repo"

	result, err := r.Run(t.Context(), opts)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, 8, result.Files[0].TabWidth)
}

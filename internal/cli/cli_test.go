package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gocst/internal/cli"
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/runner"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)

	assert.Equal(t, "gocst", cmd.Use)
	assert.Equal(t, "1.2.3", cmd.Version)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"check", "parse", "diff", "fmt", "replay", "repl", "kinds", "init", "version"} {
		sub, _, err := cmd.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, sub.Name())
		}
	}
}

func TestCheckCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	checkCmd, _, err := cmd.Find([]string{"check"})
	require.NoError(t, err)

	for _, name := range []string{
		"fix", "dry-run", "backups", "max-fix-passes", "format", "kind-format",
		"jobs", "include", "ignore", "follow-symlinks", "enable", "disable",
		"snippets", "detect", "languages", "tab-width", "check-interval",
		"strict", "no-context", "compact",
	} {
		assert.NotNil(t, checkCmd.Flags().Lookup(name), name)
	}

	require.NoError(t, checkCmd.Args(checkCmd, []string{"a.c", "src/", "include/"}))
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	for _, name := range []string{"debug", "verbose", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestPositionalArgs(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	tests := []struct {
		command string
		args    []string
		wantErr bool
	}{
		{"parse", []string{"a.c"}, false},
		{"parse", nil, true},
		{"parse", []string{"a.c", "b.c"}, true},
		{"diff", []string{"a.c", "b.c"}, false},
		{"diff", []string{"a.c"}, true},
		{"fmt", nil, false},
		{"fmt", []string{"a.c", "b.c"}, false},
		{"replay", []string{"s.yml"}, false},
		{"repl", nil, false},
		{"repl", []string{"a.c"}, false},
		{"repl", []string{"a.c", "b.c"}, true},
		{"kinds", []string{"x"}, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.command, len(tt.args)), func(t *testing.T) {
			t.Parallel()

			sub, _, err := cmd.Find([]string{tt.command})
			require.NoError(t, err)
			if tt.wantErr {
				assert.Error(t, sub.Args(sub, tt.args))
			} else {
				assert.NoError(t, sub.Args(sub, tt.args))
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "full", args: []string{"version"}, want: []string{"gocst", "version=1.2.3", "commit=abc123"}},
		{name: "short", args: []string{"version", "--short"}, want: []string{"1.2.3\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := cli.NewRootCommand(testInfo())
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetArgs(tt.args)

			require.NoError(t, cmd.Execute())
			for _, want := range tt.want {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cli.ExitSuccess, cli.ExitCode(nil))
	assert.Equal(t, cli.ExitIssues, cli.ExitCode(cli.ErrIssuesFound))
	assert.Equal(t, cli.ExitIssues, cli.ExitCode(fmt.Errorf("wrapped: %w", cli.ErrIssuesFound)))
	assert.Equal(t, cli.ExitError, cli.ExitCode(errors.New("boom")))
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	withCounts := func(errs, warnings, infos int) *runner.Result {
		return &runner.Result{Stats: runner.Stats{DiagnosticsBySeverity: map[config.Severity]int{
			config.SeverityError:   errs,
			config.SeverityWarning: warnings,
			config.SeverityInfo:    infos,
		}}}
	}

	tests := []struct {
		name   string
		result *runner.Result
		strict bool
		want   int
	}{
		{name: "nil", result: nil, want: cli.ExitSuccess},
		{name: "clean", result: withCounts(0, 0, 0), want: cli.ExitSuccess},
		{name: "errors", result: withCounts(2, 0, 0), want: cli.ExitIssues},
		{name: "warnings", result: withCounts(0, 1, 0), want: cli.ExitSuccess},
		{name: "warnings strict", result: withCounts(0, 1, 0), strict: true, want: cli.ExitIssues},
		{name: "info strict", result: withCounts(0, 0, 3), strict: true, want: cli.ExitSuccess},
		{
			name:   "file errors",
			result: &runner.Result{Errors: []error{errors.New("walk failed")}},
			want:   cli.ExitError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCodeFromResult(tt.result, tt.strict))
		})
	}
}

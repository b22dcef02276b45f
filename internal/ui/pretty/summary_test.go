package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gocst/internal/ui/pretty"
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/incremental"
	"github.com/yaklabco/gocst/pkg/runner"
)

func severities(errors, warnings, infos int) map[config.Severity]int {
	m := map[config.Severity]int{}
	if errors > 0 {
		m[config.SeverityError] = errors
	}
	if warnings > 0 {
		m[config.SeverityWarning] = warnings
	}
	if infos > 0 {
		m[config.SeverityInfo] = infos
	}
	return m
}

func TestFormatSummary(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name     string
		stats    runner.Stats
		contains []string
		excludes []string
	}{
		{
			name: "errors and warnings",
			stats: runner.Stats{
				FilesProcessed:        10,
				FilesWithIssues:       3,
				DiagnosticsTotal:      15,
				DiagnosticsBySeverity: severities(5, 10, 0),
			},
			contains: []string{"Summary", "Files checked:", "Files with issues:", "Total issues:", "15",
				"Errors:", "Warnings:", "Check failed with errors"},
		},
		{
			name:     "clean",
			stats:    runner.Stats{FilesProcessed: 5, DiagnosticsBySeverity: severities(0, 0, 0)},
			contains: []string{"Check passed"},
			excludes: []string{"Files with issues:", "Fixes applied:"},
		},
		{
			name: "warnings only",
			stats: runner.Stats{
				FilesProcessed:        10,
				FilesWithIssues:       2,
				DiagnosticsTotal:      5,
				DiagnosticsBySeverity: severities(0, 5, 0),
			},
			contains: []string{"Check completed with warnings"},
		},
		{
			name: "info only passes",
			stats: runner.Stats{
				FilesProcessed:        10,
				FilesWithIssues:       1,
				DiagnosticsTotal:      3,
				DiagnosticsBySeverity: severities(0, 0, 3),
			},
			contains: []string{"Info:", "Check passed"},
		},
		{
			name: "fixes with reparse modes",
			stats: runner.Stats{
				FilesProcessed:        4,
				FilesModified:         2,
				DiagnosticsFixed:      3,
				DiagnosticsBySeverity: severities(0, 0, 0),
				Reparses: map[incremental.Mode]int{
					incremental.ModeIncremental: 2,
					incremental.ModeFull:        1,
				},
			},
			contains: []string{"Files modified:", "Fixes applied:", "incremental reparses:", "full reparses:"},
		},
		{
			name: "skipped files and code blocks",
			stats: runner.Stats{
				FilesProcessed:        3,
				FilesSkipped:          1,
				SnippetBlocks:         4,
				DiagnosticsBySeverity: severities(0, 0, 0),
			},
			contains: []string{"Files skipped:", "Code blocks:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := styles.FormatSummary(tt.stats)
			for _, want := range tt.contains {
				assert.Contains(t, result, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, result, unwanted)
			}
		})
	}
}

func TestFormatSummaryOneLine(t *testing.T) {
	styles := pretty.NewStyles(false)

	tests := []struct {
		name     string
		stats    runner.Stats
		contains []string
		excludes []string
	}{
		{
			name:     "no issues",
			stats:    runner.Stats{FilesProcessed: 5, DiagnosticsBySeverity: severities(0, 0, 0)},
			contains: []string{"No issues found", "5 files checked"},
		},
		{
			name: "fixed everything",
			stats: runner.Stats{
				FilesProcessed:        2,
				FilesModified:         1,
				DiagnosticsFixed:      2,
				DiagnosticsBySeverity: severities(0, 0, 0),
			},
			contains: []string{"No issues found", "2 fixed in 1 file"},
		},
		{
			name: "mixed severities",
			stats: runner.Stats{
				FilesProcessed:        10,
				FilesWithIssues:       3,
				DiagnosticsTotal:      12,
				DiagnosticsFixable:    8,
				DiagnosticsBySeverity: severities(4, 8, 0),
			},
			contains: []string{"12 issues", "4 errors", "8 warnings", "in 3 files", "8 fixable"},
		},
		{
			name: "single issue",
			stats: runner.Stats{
				FilesProcessed:        1,
				FilesWithIssues:       1,
				DiagnosticsTotal:      1,
				DiagnosticsFixable:    1,
				DiagnosticsBySeverity: severities(1, 0, 0),
			},
			contains: []string{"1 issue (1 error)", "in 1 file", "1 fixable"},
		},
		{
			name: "nothing fixable",
			stats: runner.Stats{
				FilesProcessed:        5,
				FilesWithIssues:       2,
				DiagnosticsTotal:      3,
				DiagnosticsBySeverity: severities(3, 0, 0),
			},
			contains: []string{"3 issues", "3 errors"},
			excludes: []string{"fixable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := styles.FormatSummaryOneLine(tt.stats)
			for _, want := range tt.contains {
				assert.Contains(t, result, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, result, unwanted)
			}
		})
	}
}

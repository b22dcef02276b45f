package runner

import (
	"github.com/yaklabco/gocst/pkg/check"
	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/incremental"
)

// FileOutcome is the result of processing one discovered file.
type FileOutcome struct {
	Path string

	// Result is nil if the file could not be processed.
	Result *check.Result

	// Blocks is the number of code blocks checked in a Markdown file.
	Blocks int

	// TabWidth is the editorconfig tab width for the file, for caret
	// alignment in reports.
	TabWidth int

	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int

	// FilesSkipped counts files whose write was abandoned or that turned
	// out not to be C.
	FilesSkipped int
	FilesErrored int

	DiagnosticsTotal      int
	DiagnosticsFixable    int
	DiagnosticsBySeverity map[config.Severity]int

	FilesWithIssues int
	FilesModified   int

	// DiagnosticsFixed is the number of fix edits applied.
	DiagnosticsFixed int

	// Reparses counts fix reparses by mode.
	Reparses map[incremental.Mode]int

	SnippetBlocks int
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome
	Stats Stats

	// Errors are failures not tied to one file.
	Errors []error
}

// HasFailures reports whether any error-severity diagnostic occurred.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsBySeverity[config.SeverityError] > 0
}

// HasIssues reports whether any diagnostics were found.
func (r *Result) HasIssues() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsTotal > 0
}

// HasErrors reports whether any file failed to process.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || len(r.Errors) > 0
}

func newStats() Stats {
	return Stats{
		DiagnosticsBySeverity: make(map[config.Severity]int),
		Reparses:              make(map[incremental.Mode]int),
	}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	res := outcome.Result
	if res == nil {
		return
	}

	r.Stats.FilesProcessed++
	r.Stats.SnippetBlocks += outcome.Blocks
	if res.Skipped {
		r.Stats.FilesSkipped++
	}
	if res.Written {
		r.Stats.FilesModified++
	}
	r.Stats.DiagnosticsFixed += res.TotalEditsApplied
	for mode, n := range res.Reparses {
		r.Stats.Reparses[mode] += n
	}

	if res.FileResult == nil {
		return
	}
	n := len(res.Diagnostics)
	r.Stats.DiagnosticsTotal += n
	r.Stats.DiagnosticsFixable += res.FixableCount()
	if n > 0 {
		r.Stats.FilesWithIssues++
	}
	for _, d := range res.Diagnostics {
		severity := d.Severity
		if severity == "" {
			severity = config.SeverityWarning
		}
		r.Stats.DiagnosticsBySeverity[severity]++
	}
}

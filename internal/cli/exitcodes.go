package cli

import (
	"errors"

	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/runner"
)

// Exit codes for gocst.
const (
	// ExitSuccess means the command ran and found nothing to report.
	ExitSuccess = 0

	// ExitIssues means the command ran and found diagnostics (or, for
	// diff, changes).
	ExitIssues = 1

	// ExitError means the command could not do its work.
	ExitError = 2
)

// ErrIssuesFound signals ExitIssues. It carries no message worth logging.
var ErrIssuesFound = errors.New("issues found")

// errFilesFailed is returned after reporting when some files could not be
// read or written. The per-file errors are already in the report.
var errFilesFailed = errors.New("some files could not be processed")

// ExitCode maps the error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrIssuesFound):
		return ExitIssues
	default:
		return ExitError
	}
}

// ExitCodeFromResult reports ExitIssues when a check found errors, or
// warnings in strict mode. Info diagnostics never fail a run.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}
	if result.HasErrors() {
		return ExitError
	}

	bySeverity := result.Stats.DiagnosticsBySeverity
	if bySeverity[config.SeverityError] > 0 {
		return ExitIssues
	}
	if strict && bySeverity[config.SeverityWarning] > 0 {
		return ExitIssues
	}
	return ExitSuccess
}

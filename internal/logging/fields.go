// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldFile       = "file"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldDuration   = "duration"
	FieldCount      = "count"

	// Configuration fields.
	FieldConfig = "config"
	FieldFix    = "fix"
	FieldDryRun = "dry_run"
	FieldJobs   = "jobs"

	// Parse and reparse fields.
	FieldAnchor   = "anchor"
	FieldMode     = "mode"
	FieldSpans    = "spans"
	FieldAttempts = "attempts"
	FieldStep     = "step"
	FieldPass     = "pass"
	FieldModified = "modified"

	// Statistics fields.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesWithIssues  = "files_with_issues"
	FieldDiagnosticsTotal = "diagnostics_total"
	FieldFilesModified    = "files_modified"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)

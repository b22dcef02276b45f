// Package analysis turns a runner result into the aggregate views shared
// by the reporters.
package analysis

import "time"

// Report contains pre-computed views of a check run.
type Report struct {
	Diagnostics []DiagnosticEntry `json:"diagnostics,omitempty"`
	ByFile      []FileAnalysis    `json:"byFile,omitempty"`
	ByKind      []KindAnalysis    `json:"byKind,omitempty"`
	Totals      Totals            `json:"summary"`
	Version     string            `json:"version"`
	Timestamp   time.Time         `json:"timestamp"`
}

// DiagnosticEntry is a single diagnostic in the report.
type DiagnosticEntry struct {
	FilePath string `json:"filePath"`
	KindID   string `json:"kindId"`
	KindName string `json:"kindName"`

	// Label is the kind as configured by KindFormat.
	Label string `json:"-"`

	Severity    string     `json:"severity"`
	Message     string     `json:"message"`
	StartOffset int        `json:"startOffset"`
	EndOffset   int        `json:"endOffset"`
	StartLine   int        `json:"startLine"`
	StartColumn int        `json:"startColumn"`
	EndLine     int        `json:"endLine"`
	EndColumn   int        `json:"endColumn"`
	Suggestion  string     `json:"suggestion,omitempty"`
	Fixable     bool       `json:"fixable"`
	Fixes       []FixEntry `json:"fixes,omitempty"`
}

// FixEntry is a text edit that repairs a diagnostic.
type FixEntry struct {
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	NewText     string `json:"newText"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Files           int `json:"filesChecked"`
	FilesWithIssues int `json:"filesWithIssues"`
	FilesModified   int `json:"filesModified"`
	FilesSkipped    int `json:"filesSkipped"`
	FilesErrored    int `json:"filesErrored"`
	Issues          int `json:"totalIssues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Infos           int `json:"infos"`
	Fixable         int `json:"fixable"`
	Fixed           int `json:"fixed"`
	SnippetBlocks   int `json:"snippetBlocks,omitempty"`
}

// HasIssues returns true if there are any issues.
func (t Totals) HasIssues() bool {
	return t.Issues > 0
}

// HasErrors returns true if there are any error-severity issues.
func (t Totals) HasErrors() bool {
	return t.Errors > 0
}

// FileAnalysis aggregates one file.
type FileAnalysis struct {
	Path     string   `json:"path"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Infos    int      `json:"infos"`
	Kinds    []string `json:"kinds,omitempty"`
}

// KindAnalysis aggregates one diagnostic kind.
type KindAnalysis struct {
	KindID   string   `json:"kindId"`
	KindName string   `json:"kindName"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Infos    int      `json:"infos"`
	Fixable  bool     `json:"fixable"`
	Files    []string `json:"files,omitempty"`
}

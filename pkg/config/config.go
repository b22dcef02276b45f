// Package config defines the configuration types for gocst.
// These are plain data; loading and layering live in internal/configloader.
package config

import "strings"

// Severity names a diagnostic severity in configuration.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IsValid reports whether s is a known severity.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// DiagnosticConfig overrides the defaults of one diagnostic kind.
type DiagnosticConfig struct {
	Enabled  *bool   `yaml:"enabled,omitempty"`
	Severity *string `yaml:"severity,omitempty"`
}

// SnippetsConfig controls checking of C code blocks inside Markdown files.
type SnippetsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Languages are the fence info strings treated as C.
	Languages []string `yaml:"languages,omitempty"`

	// Detect classifies untagged blocks by content.
	Detect bool `yaml:"detect"`
}

// LayoutConfig controls the whitespace written by gocst fmt.
type LayoutConfig struct {
	// IndentWidth is the number of spaces per nesting level.
	IndentWidth int `yaml:"indent_width"`

	// UseTabs indents with one tab per level instead.
	UseTabs bool `yaml:"use_tabs"`
}

// Indent returns the text of one indentation level.
func (l LayoutConfig) Indent() string {
	if l.UseTabs {
		return "\t"
	}
	return strings.Repeat(" ", l.IndentWidth)
}

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatSummary OutputFormat = "summary"
	FormatDiff    OutputFormat = "diff"
)

// IsValid reports whether f is a known output format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSARIF, FormatSummary, FormatDiff:
		return true
	default:
		return false
	}
}

// KindFormat controls how diagnostic kinds appear in output.
type KindFormat string

const (
	KindFormatName     KindFormat = "name"     // "expected-token"
	KindFormatID       KindFormat = "id"       // "CST002"
	KindFormatCombined KindFormat = "combined" // "CST002/expected-token"
)

// ColorMode selects when output is styled.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config is the root configuration structure.
type Config struct {
	Format     OutputFormat `yaml:"format,omitempty"`
	KindFormat KindFormat   `yaml:"kind_format,omitempty"`
	Color      ColorMode    `yaml:"color,omitempty"`

	// Jobs is the number of files checked in parallel. 0 means one per CPU.
	Jobs int `yaml:"jobs"`

	// Include and Ignore are doublestar patterns relative to the root
	// being walked.
	Include        []string `yaml:"include,omitempty"`
	Ignore         []string `yaml:"ignore,omitempty"`
	FollowSymlinks bool     `yaml:"follow_symlinks"`

	// CheckInterval is the number of tokens between cancellation checks.
	CheckInterval int `yaml:"check_interval"`

	// Diagnostics is keyed by diagnostic ID ("CST002") or name ("expected-token").
	Diagnostics map[string]DiagnosticConfig `yaml:"diagnostics,omitempty"`

	Fix          bool `yaml:"fix"`
	DryRun       bool `yaml:"dry_run"`
	Backups      bool `yaml:"backups"`
	MaxFixPasses int  `yaml:"max_fix_passes"`

	Snippets SnippetsConfig `yaml:"snippets"`

	// TabWidth is used for column alignment when .editorconfig does not
	// set one for a file.
	TabWidth int `yaml:"tab_width"`

	Layout LayoutConfig `yaml:"fmt"`

	// CLI-level options (not persisted to config files).

	// Enable and Disable list diagnostic IDs or names toggled on the
	// command line.
	Enable  []string `yaml:"-"`
	Disable []string `yaml:"-"`
}

// Default values.
const (
	DefaultCheckInterval = 256
	DefaultMaxFixPasses  = 10
	DefaultTabWidth      = 4
	DefaultIndentWidth   = 4
)

// DefaultIgnore lists directories that are never checked.
func DefaultIgnore() []string {
	return []string{".git/**", "vendor/**", "node_modules/**", "build/**"}
}

// DefaultIncludes lists the files checked when no include is configured.
func DefaultIncludes() []string {
	return []string{"**/*.c", "**/*.h"}
}

// DefaultSnippetLanguages lists the fence tags checked as C.
func DefaultSnippetLanguages() []string {
	return []string{"c", "h"}
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Format:        FormatText,
		KindFormat:    KindFormatName,
		Color:         ColorAuto,
		Jobs:          0,
		Include:       DefaultIncludes(),
		Ignore:        DefaultIgnore(),
		CheckInterval: DefaultCheckInterval,
		Diagnostics:   make(map[string]DiagnosticConfig),
		MaxFixPasses:  DefaultMaxFixPasses,
		Snippets: SnippetsConfig{
			Enabled:   false,
			Languages: DefaultSnippetLanguages(),
			Detect:    false,
		},
		TabWidth: DefaultTabWidth,
		Layout:   LayoutConfig{IndentWidth: DefaultIndentWidth},
	}
}

package configloader

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yaklabco/gocst/pkg/config"
	"github.com/yaklabco/gocst/pkg/syntax"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "diagnostics.CST001.severity").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the problem.
	Message string

	// FilePath is the config file containing the error, if known.
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors prevent loading.
	Errors []ValidationError

	// Warnings are reported but do not stop the run.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// AllMessages returns all error and warning messages.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Format != "" && !IsValidFormat(cfg.Format) {
		result.fail("format", cfg.Format,
			"invalid format %q; must be one of: text, json, sarif, summary, diff", cfg.Format)
	}
	switch cfg.KindFormat {
	case "", config.KindFormatName, config.KindFormatID, config.KindFormatCombined:
	default:
		result.fail("kind_format", cfg.KindFormat,
			"invalid kind format %q; must be one of: name, id, combined", cfg.KindFormat)
	}
	switch cfg.Color {
	case "", config.ColorAuto, config.ColorAlways, config.ColorNever:
	default:
		result.fail("color", cfg.Color, "invalid color mode %q; must be one of: auto, always, never", cfg.Color)
	}

	for field, v := range map[string]int{
		"jobs":             cfg.Jobs,
		"check_interval":   cfg.CheckInterval,
		"max_fix_passes":   cfg.MaxFixPasses,
		"tab_width":        cfg.TabWidth,
		"fmt.indent_width": cfg.Layout.IndentWidth,
	} {
		if v < 0 {
			result.fail(field, v, "%s must be >= 0", field)
		}
	}

	if cfg.DryRun && !cfg.Fix {
		result.warn("dry_run", cfg.DryRun, "dry_run has no effect without fix")
	}

	validateDiagnostics(cfg, result)
	validatePatterns("include", cfg.Include, result)
	validatePatterns("ignore", cfg.Ignore, result)
	for _, key := range append(append([]string(nil), cfg.Enable...), cfg.Disable...) {
		if _, ok := syntax.LookupDiagnosticKind(key); !ok {
			result.warn("diagnostics", key, "unknown diagnostic kind %q; it will be ignored", key)
		}
	}

	return result
}

func validateDiagnostics(cfg *config.Config, result *ValidationResult) {
	for key, dc := range cfg.Diagnostics {
		if _, ok := syntax.LookupDiagnosticKind(key); !ok {
			result.warn("diagnostics."+key, key, "unknown diagnostic kind %q; it will be ignored", key)
		}
		if dc.Severity != nil && !config.Severity(*dc.Severity).IsValid() {
			result.fail("diagnostics."+key+".severity", *dc.Severity,
				"invalid severity %q; must be one of: error, warning, info", *dc.Severity)
		}
	}
}

func validatePatterns(field string, patterns []string, result *ValidationResult) {
	for i, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			result.fail(fmt.Sprintf("%s[%d]", field, i), pattern, "invalid glob pattern %q", pattern)
		}
	}
}

// ValidateWithFile validates cfg and records filePath on every finding.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}

// IsValidFormat returns true if the format is known.
func IsValidFormat(f config.OutputFormat) bool {
	switch f {
	case config.FormatText, config.FormatJSON, config.FormatSARIF, config.FormatSummary, config.FormatDiff:
		return true
	default:
		return false
	}
}

package config

import (
	"bytes"
	"fmt"

	"github.com/yaklabco/gocst/pkg/syntax"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full lists every diagnostic kind with its default severity.
	Full bool
}

// GenerateTemplate creates a commented configuration file.
func GenerateTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Output format: text, json, sarif, summary, or diff
format: text

# How kinds are shown: name, id, or combined
# kind_format: name

# Styled output: auto, always, or never
# color: auto

# Number of parallel workers (0 = auto)
jobs: 0

# Files to check and to skip (doublestar patterns)
include:
  - "**/*.c"
  - "**/*.h"
ignore:
  - ".git/**"
  - "vendor/**"
  - "node_modules/**"
  - "build/**"

# follow_symlinks: false

# Tokens between cancellation checks
# check_interval: 256

# Insert missing punctuation, then re-check, up to max_fix_passes times
fix: false
# dry_run: false
# backups: false
# max_fix_passes: 10

# Check C code blocks in Markdown files
snippets:
  enabled: false
  languages: [c, h]
  detect: false

# Column width of a tab when .editorconfig does not say
# tab_width: 4

# Layout written by gocst fmt
# fmt:
#   indent_width: 4
#   use_tabs: false
`)

	buf.WriteString("\n# Per-kind overrides, keyed by ID or name\n")
	if !opts.Full {
		buf.WriteString(`# diagnostics:
#   empty-declaration:
#     enabled: false
#   CST003:
#     severity: warning
`)
		return buf.Bytes()
	}

	buf.WriteString("diagnostics:\n")
	for _, kind := range syntax.AllDiagnosticKinds() {
		fmt.Fprintf(&buf, "  # %s\n", kind.Summary())
		fmt.Fprintf(&buf, "  %s:\n", kind.Name())
		buf.WriteString("    enabled: true\n")
		fmt.Fprintf(&buf, "    severity: %s\n", kind.DefaultSeverity())
	}
	return buf.Bytes()
}

// DefaultTemplateHeader returns the header for generated configs.
func DefaultTemplateHeader() string {
	return `# gocst configuration
# See: https://github.com/yaklabco/gocst`
}

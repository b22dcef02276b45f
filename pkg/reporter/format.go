package reporter

import (
	"fmt"

	"github.com/yaklabco/gocst/pkg/config"
)

// ParseFormat parses a format name. The empty string selects text.
func ParseFormat(name string) (config.OutputFormat, error) {
	if name == "" {
		return config.FormatText, nil
	}
	format := config.OutputFormat(name)
	if !format.IsValid() {
		return "", fmt.Errorf("unknown format %q; valid formats: text, json, sarif, summary, diff", name)
	}
	return format, nil
}

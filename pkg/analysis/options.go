package analysis

import "github.com/yaklabco/gocst/pkg/config"

// SortField specifies how to sort analysis results.
type SortField string

const (
	// SortByCount sorts by issue count (descending by default).
	SortByCount SortField = "count"
	// SortByAlpha sorts alphabetically.
	SortByAlpha SortField = "alpha"
	// SortBySeverity sorts by severity (errors first).
	SortBySeverity SortField = "severity"
)

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha, SortBySeverity:
		return true
	default:
		return false
	}
}

// Options configures Analyze.
type Options struct {
	IncludeDiagnostics bool
	IncludeByFile      bool
	IncludeByKind      bool

	// SortBy orders ByFile and ByKind.
	SortBy   SortField
	SortDesc bool

	// KindFormat controls how kinds are labelled in entries.
	KindFormat config.KindFormat

	// WorkingDir makes paths relative. Empty keeps them as they are.
	WorkingDir string
}

// DefaultOptions returns Options with every view enabled.
func DefaultOptions() Options {
	return Options{
		IncludeDiagnostics: true,
		IncludeByFile:      true,
		IncludeByKind:      true,
		SortBy:             SortByCount,
		SortDesc:           true,
		KindFormat:         config.KindFormatName,
	}
}

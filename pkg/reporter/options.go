package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/gocst/pkg/config"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// ErrorWriter is the destination for errors (typically os.Stderr).
	ErrorWriter io.Writer

	Format config.OutputFormat
	Color  config.ColorMode

	// ShowContext includes the source line and a caret under each diagnostic.
	ShowContext bool

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// GroupByFile groups text diagnostics under a file header.
	GroupByFile bool

	// Compact disables JSON and SARIF indentation.
	Compact bool

	KindFormat config.KindFormat

	// WorkingDir is the directory paths are shown relative to.
	// If empty, paths are kept as-is.
	WorkingDir string

	// Version is the tool version written into JSON and SARIF output.
	Version string

	// TermWidth bounds summary tables. 0 uses a default width.
	TermWidth int
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
		Format:      config.FormatText,
		Color:       config.ColorAuto,
		ShowContext: true,
		ShowSummary: true,
		GroupByFile: true,
		KindFormat:  config.KindFormatName,
		Version:     "dev",
	}
}

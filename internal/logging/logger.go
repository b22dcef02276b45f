package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// EnvLevel names the environment variable that selects the log level.
const EnvLevel = "GOCST_LOG_LEVEL"

//nolint:gochecknoglobals // Package-level logger is intentional for convenience
var (
	defaultLogger     *log.Logger
	defaultLoggerOnce sync.Once
	defaultLoggerMu   sync.RWMutex
)

// Options configures a logger.
type Options struct {
	// Level is one of "debug", "info", "warn", "error". Empty means info.
	Level string

	// Output defaults to os.Stderr.
	Output io.Writer

	// Timestamps adds a time column to every line.
	Timestamps bool

	// Prefix is printed before every message.
	Prefix string
}

// New creates a logger from opts.
func New(opts Options) *log.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: opts.Timestamps,
		ReportCaller:    false,
		Prefix:          opts.Prefix,
	})
	logger.SetLevel(ParseLevel(opts.Level))
	return logger
}

// NewFromEnv creates a stderr logger whose level comes from GOCST_LOG_LEVEL,
// or fallback when the variable is unset.
func NewFromEnv(fallback string) *log.Logger {
	level := fallback
	if v, ok := os.LookupEnv(EnvLevel); ok && v != "" {
		level = v
	}
	return New(Options{Level: level})
}

// ParseLevel maps a level name to a log.Level. Unknown names give info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Default returns the package-level default logger.
func Default() *log.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLoggerMu.Lock()
		if defaultLogger == nil {
			defaultLogger = NewFromEnv("info")
		}
		defaultLoggerMu.Unlock()
	})
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the package-level default logger.
func SetDefault(logger *log.Logger) {
	Default()
	defaultLoggerMu.Lock()
	defaultLogger = logger
	defaultLoggerMu.Unlock()
}

// SetLevel updates the log level of the default logger.
func SetLevel(level string) {
	Default().SetLevel(ParseLevel(level))
}

// Package runner checks many files concurrently.
package runner

import (
	"slices"

	"github.com/spf13/afero"

	"github.com/yaklabco/gocst/pkg/config"
)

// Options controls a multi-file run.
type Options struct {
	// Paths are the user-specified files or directories. Empty means ".".
	Paths []string

	// WorkingDir is the base for relative Paths and for pattern matching.
	// Empty means the process working directory.
	WorkingDir string

	// Fs is the filesystem to discover and read files on. Nil means the
	// OS filesystem.
	Fs afero.Fs

	// IncludeGlobs select files found by walking directories, as
	// doublestar patterns relative to WorkingDir. Empty means
	// config.DefaultIncludes().
	IncludeGlobs []string

	// ExcludeGlobs skip files or whole directories.
	ExcludeGlobs []string

	// FollowSymlinks traverses symlinked directories.
	FollowSymlinks bool

	// Snippets also discovers Markdown files and checks their C blocks.
	Snippets bool

	// Jobs is the worker count. 0 or negative means runtime.NumCPU().
	Jobs int

	// Config is the resolved configuration for this run.
	Config *config.Config
}

// OptionsFromConfig fills Options from cfg.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	opts := Options{Paths: paths, Config: cfg}
	if cfg == nil {
		return opts
	}
	opts.IncludeGlobs = slices.Clone(cfg.Include)
	opts.ExcludeGlobs = slices.Clone(cfg.Ignore)
	opts.FollowSymlinks = cfg.FollowSymlinks
	opts.Snippets = cfg.Snippets.Enabled
	opts.Jobs = cfg.Jobs
	return opts
}

// MarkdownExtensions lists the extensions searched for snippets.
func MarkdownExtensions() []string {
	return []string{".md", ".markdown"}
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) effectiveIncludes() []string {
	includes := o.IncludeGlobs
	if len(includes) == 0 {
		includes = config.DefaultIncludes()
	}
	if o.Snippets {
		includes = slices.Clone(includes)
		for _, ext := range MarkdownExtensions() {
			includes = append(includes, "**/*"+ext)
		}
	}
	return includes
}

func (o Options) fs() afero.Fs {
	if o.Fs == nil {
		return afero.NewOsFs()
	}
	return o.Fs
}

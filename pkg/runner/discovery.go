package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/yaklabco/gocst/pkg/langdetect"
)

// ErrNoMatch is returned for an explicit file argument that is neither C
// source nor, with snippets enabled, Markdown.
var ErrNoMatch = errors.New("not a C or Markdown file")

// Discover finds the files selected by opts. It returns a sorted list of
// absolute, deduplicated paths.
//
// Explicit file arguments are taken when they look like C (or Markdown
// with snippets on) and are not excluded. Directories are walked, hidden
// entries skipped, and files kept when they match an include pattern.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		fsys:     opts.fs(),
		workDir:  workDir,
		opts:     opts,
		includes: opts.effectiveIncludes(),
		seen:     make(map[string]struct{}),
		visited:  make(map[string]struct{}),
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := input
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(workDir, abs)
		}
		abs = filepath.Clean(abs)

		info, err := d.fsys.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if info.IsDir() {
			if err := d.walk(ctx, abs, abs); err != nil {
				return nil, err
			}
			continue
		}
		if d.excluded(abs) {
			continue
		}
		if !d.explicitFile(abs) {
			return nil, fmt.Errorf("%w: %s", ErrNoMatch, input)
		}
		d.add(abs)
	}

	slices.Sort(d.files)
	return d.files, nil
}

type discoverer struct {
	fsys     afero.Fs
	workDir  string
	opts     Options
	includes []string
	files    []string
	seen     map[string]struct{}
	visited  map[string]struct{}
}

func (d *discoverer) add(path string) {
	if _, ok := d.seen[path]; ok {
		return
	}
	d.seen[path] = struct{}{}
	d.files = append(d.files, path)
}

// walk walks root. Paths are reported under alias, which differs from
// root when root is the target of a followed directory symlink.
func (d *discoverer) walk(ctx context.Context, root, alias string) error {
	if _, ok := d.visited[root]; ok {
		return nil
	}
	d.visited[root] = struct{}{}

	err := afero.Walk(d.fsys, root, func(walked string, info fs.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := alias + strings.TrimPrefix(walked, root)
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		hidden := walked != root && strings.HasPrefix(info.Name(), ".")
		if info.IsDir() {
			if hidden || (walked != root && d.excludedDir(path)) {
				return filepath.SkipDir
			}
			return nil
		}

		if info.Mode()&fs.ModeSymlink != 0 {
			return d.walkSymlink(ctx, walked, path)
		}

		if hidden || d.excluded(path) || !d.included(path) {
			return nil
		}
		d.add(path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// walkSymlink adds a symlinked file, or walks a symlinked directory when
// FollowSymlinks is set. Broken links are skipped.
func (d *discoverer) walkSymlink(ctx context.Context, walked, path string) error {
	target, ok := d.resolveLink(walked)
	if !ok {
		return nil
	}
	info, err := d.fsys.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // Broken symlink.
	}
	if info.IsDir() {
		if !d.opts.FollowSymlinks {
			return nil
		}
		return d.walk(ctx, target, path)
	}
	if strings.HasPrefix(filepath.Base(path), ".") || d.excluded(path) || !d.included(path) {
		return nil
	}
	d.add(path)
	return nil
}

func (d *discoverer) resolveLink(path string) (string, bool) {
	reader, ok := d.fsys.(afero.LinkReader)
	if !ok {
		return path, true
	}
	target, err := reader.ReadlinkIfPossible(path)
	if err != nil {
		return "", false
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), true
}

func (d *discoverer) explicitFile(path string) bool {
	if d.included(path) {
		return true
	}
	if d.opts.Snippets && isMarkdown(path) {
		return true
	}
	return langdetect.IsC(path, nil)
}

func (d *discoverer) rel(path string) string {
	rel, err := filepath.Rel(d.workDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (d *discoverer) excluded(path string) bool {
	return matchAny(d.rel(path), d.opts.ExcludeGlobs)
}

// excludedDir also tries rel with a trailing slash so "build/**" prunes
// the build directory itself.
func (d *discoverer) excludedDir(path string) bool {
	rel := d.rel(path)
	return matchAny(rel, d.opts.ExcludeGlobs) || matchAny(rel+"/", d.opts.ExcludeGlobs)
}

func (d *discoverer) included(path string) bool {
	return matchAny(d.rel(path), d.includes)
}

// matchAny matches rel against doublestar patterns. A pattern without a
// slash also matches the base name, so "*.h" works at any depth.
func matchAny(rel string, patterns []string) bool {
	base := pathBase(rel)
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := doublestar.Match(pattern, base); ok {
				return true
			}
		}
	}
	return false
}

func pathBase(rel string) string {
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		return rel[i+1:]
	}
	return rel
}

func isMarkdown(path string) bool {
	return slices.Contains(MarkdownExtensions(), strings.ToLower(filepath.Ext(path)))
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

package runner

import (
	"strconv"
	"sync"

	"github.com/editorconfig/editorconfig-core-go/v2"
	"github.com/spf13/afero"
)

// tabWidths resolves the tab width of each file from .editorconfig files,
// falling back to a configured default. Editorconfig lookups read the OS
// filesystem, so they are only done when the run uses it.
type tabWidths struct {
	enabled  bool
	fallback int

	mu     sync.Mutex
	parser editorconfig.Parser
}

func newTabWidths(fsys afero.Fs, fallback int) *tabWidths {
	_, onDisk := fsys.(*afero.OsFs)
	return &tabWidths{
		enabled:  onDisk,
		fallback: fallback,
		parser:   editorconfig.NewCachedParser(),
	}
}

func (t *tabWidths) forFile(path string) int {
	if !t.enabled {
		return t.fallback
	}
	t.mu.Lock()
	def, err := editorconfig.GetDefinitionForFilenameWithParser(t.parser, path)
	t.mu.Unlock()
	if err != nil || def == nil {
		return t.fallback
	}
	if def.TabWidth > 0 {
		return def.TabWidth
	}
	if n, err := strconv.Atoi(def.IndentSize); err == nil && n > 0 {
		return n
	}
	return t.fallback
}

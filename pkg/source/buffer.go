// Package source provides immutable, versioned text buffers for gocst.
// A Buffer is a snapshot of a document at one version. Editing a Buffer
// produces a new Buffer of the same lineage; the old one stays valid.
package source

import (
	"fmt"

	"github.com/google/uuid"
	"gitlab.com/tozd/go/errors"
)

// Buffer is an immutable, versioned snapshot of source text.
// Substrings handed out by a Buffer share its backing storage.
type Buffer struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	lineage uuid.UUID
	version int
	text    string
	lines   []LineInfo
}

// New creates the first version of a new buffer lineage.
func New(path, text string) *Buffer {
	return &Buffer{
		Path:    path,
		lineage: uuid.New(),
		version: 1,
		text:    text,
		lines:   BuildLines(text),
	}
}

// FromBytes creates a buffer from file content.
func FromBytes(path string, content []byte) *Buffer {
	return New(path, string(content))
}

// Text returns the full buffer text.
func (b *Buffer) Text() string { return b.text }

// Len returns the buffer length in bytes.
func (b *Buffer) Len() int { return len(b.text) }

// Lineage identifies the chain of versions this buffer belongs to.
func (b *Buffer) Lineage() uuid.UUID { return b.lineage }

// Version is 1 for a fresh buffer and increases by one per edit.
func (b *Buffer) Version() int { return b.version }

// Slice returns the text in [start, end). Out-of-range bounds are clamped.
func (b *Buffer) Slice(start, end int) string {
	start = max(0, min(start, len(b.text)))
	end = max(start, min(end, len(b.text)))
	return b.text[start:end]
}

// String implements fmt.Stringer for logging.
func (b *Buffer) String() string {
	name := b.Path
	if name == "" {
		name = "<buffer>"
	}
	return fmt.Sprintf("%s@%s/v%d", name, b.lineage.String()[:8], b.version)
}

// Apply returns the successor buffer produced by a single edit.
// The edit must lie within the buffer.
func (b *Buffer) Apply(edit Edit) (*Buffer, error) {
	if err := ValidateEdits([]Edit{edit}, len(b.text)); err != nil {
		return nil, errors.WithStack(err)
	}
	return b.successor(ApplyEdits(b.text, []Edit{edit})), nil
}

// ApplyAll applies a batch of non-overlapping edits, all expressed in this
// buffer's coordinates, and returns a single successor version.
func (b *Buffer) ApplyAll(edits []Edit) (*Buffer, error) {
	prepared, err := PrepareEdits(edits, len(b.text))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return b.successor(ApplyEdits(b.text, prepared)), nil
}

// IsSuccessorOf reports whether b is the version directly following prev.
func (b *Buffer) IsSuccessorOf(prev *Buffer) bool {
	return prev != nil && b.lineage == prev.lineage && b.version == prev.version+1
}

// SameLineage reports whether both buffers descend from the same New call.
func (b *Buffer) SameLineage(other *Buffer) bool {
	return other != nil && b.lineage == other.lineage
}

func (b *Buffer) successor(text string) *Buffer {
	return &Buffer{
		Path:    b.Path,
		lineage: b.lineage,
		version: b.version + 1,
		text:    text,
		lines:   BuildLines(text),
	}
}

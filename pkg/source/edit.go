package source

import "fmt"

// Edit replaces the bytes [StartOffset, EndOffset) of a buffer with NewText.
type Edit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int `json:"start" yaml:"start"`

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int `json:"end" yaml:"end"`

	// NewText is the replacement text.
	NewText string `json:"text" yaml:"text"`
}

// Span returns the replaced range in the old buffer.
func (e Edit) Span() Span {
	return Span{Start: e.StartOffset, End: e.EndOffset}
}

// Delta is the change in buffer length caused by the edit.
func (e Edit) Delta() int {
	return len(e.NewText) - (e.EndOffset - e.StartOffset)
}

// NewSpan returns the range the replacement occupies in the new buffer.
func (e Edit) NewSpan() Span {
	return Span{Start: e.StartOffset, End: e.StartOffset + len(e.NewText)}
}

func (e Edit) String() string {
	return fmt.Sprintf("[%d:%d]->%q", e.StartOffset, e.EndOffset, e.NewText)
}

// EditBuilder accumulates text edits for a buffer.
type EditBuilder struct {
	Edits []Edit
}

// NewEditBuilder creates a new EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{
		Edits: make([]Edit, 0),
	}
}

// ReplaceRange adds an edit that replaces bytes [start, end) with newText.
func (b *EditBuilder) ReplaceRange(start, end int, newText string) {
	b.Edits = append(b.Edits, Edit{
		StartOffset: start,
		EndOffset:   end,
		NewText:     newText,
	})
}

// Insert adds an edit that inserts text at the given offset.
func (b *EditBuilder) Insert(offset int, text string) {
	b.ReplaceRange(offset, offset, text)
}

// Delete adds an edit that deletes bytes [start, end).
func (b *EditBuilder) Delete(start, end int) {
	b.ReplaceRange(start, end, "")
}

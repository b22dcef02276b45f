package source

import "strings"

// ApplyEdits applies a sorted, validated slice of edits to text.
// Edits must be prepared with PrepareEdits before calling.
func ApplyEdits(text string, edits []Edit) string {
	if len(edits) == 0 {
		return text
	}

	delta := 0
	for _, e := range edits {
		delta += e.Delta()
	}

	var out strings.Builder
	out.Grow(len(text) + delta)

	cursor := 0
	for _, e := range edits {
		out.WriteString(text[cursor:e.StartOffset])
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	out.WriteString(text[cursor:])

	return out.String()
}

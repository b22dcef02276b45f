package source

import (
	"fmt"
	"slices"
)

// ValidationError describes an invalid edit.
type ValidationError struct {
	Edit    Edit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Message)
}

// ConflictError describes overlapping edits.
type ConflictError struct {
	Edit1 Edit
	Edit2 Edit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.Edit1.StartOffset, e.Edit1.EndOffset,
		e.Edit2.StartOffset, e.Edit2.EndOffset)
}

// ValidateEdits checks that all edits have valid ranges for the given content length.
// Returns nil if all edits are valid, or the first validation error encountered.
func ValidateEdits(edits []Edit, contentLen int) error {
	for _, edit := range edits {
		if edit.StartOffset < 0 {
			return &ValidationError{Edit: edit, Message: "start offset is negative"}
		}
		if edit.EndOffset < edit.StartOffset {
			return &ValidationError{Edit: edit, Message: "end offset is before start offset"}
		}
		if edit.EndOffset > contentLen {
			return &ValidationError{
				Edit:    edit,
				Message: fmt.Sprintf("end offset %d exceeds content length %d", edit.EndOffset, contentLen),
			}
		}
	}
	return nil
}

// SortEdits sorts edits by start offset, then by end offset.
// The sort is stable so insertions at the same offset keep their order.
func SortEdits(edits []Edit) {
	slices.SortStableFunc(edits, func(a, b Edit) int {
		if a.StartOffset != b.StartOffset {
			return a.StartOffset - b.StartOffset
		}
		return a.EndOffset - b.EndOffset
	})
}

// DetectConflicts checks for overlapping edits in a sorted slice.
// Edits must be sorted by SortEdits before calling.
func DetectConflicts(edits []Edit) error {
	for i := 1; i < len(edits); i++ {
		prev := edits[i-1]
		curr := edits[i]
		if curr.StartOffset < prev.EndOffset {
			return &ConflictError{Edit1: prev, Edit2: curr}
		}
	}
	return nil
}

// PrepareEdits validates, sorts, and checks for conflicts.
// Returns the sorted edits and any error encountered.
func PrepareEdits(edits []Edit, contentLen int) ([]Edit, error) {
	if len(edits) == 0 {
		return edits, nil
	}

	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, err
	}

	result := slices.Clone(edits)
	SortEdits(result)

	if err := DetectConflicts(result); err != nil {
		return nil, err
	}
	return result, nil
}

// FilterConflicts drops edits that overlap an earlier one, or that insert
// at the same offset as an earlier edit, from a sorted slice.
// Returns the accepted and the skipped edits.
func FilterConflicts(edits []Edit) ([]Edit, []Edit) {
	if len(edits) == 0 {
		return nil, nil
	}

	accepted := make([]Edit, 0, len(edits))
	var skipped []Edit

	accepted = append(accepted, edits[0])
	last := edits[0]

	for _, edit := range edits[1:] {
		sameInsertPoint := edit.StartOffset == last.StartOffset && edit.StartOffset == edit.EndOffset
		if edit.StartOffset >= last.EndOffset && !sameInsertPoint {
			accepted = append(accepted, edit)
			last = edit
			continue
		}
		skipped = append(skipped, edit)
	}

	return accepted, skipped
}

// PrepareEditsFiltered validates and sorts edits and drops conflicting ones
// instead of failing. It only errors for invalid ranges.
func PrepareEditsFiltered(edits []Edit, contentLen int) ([]Edit, []Edit, error) {
	if len(edits) == 0 {
		return nil, nil, nil
	}

	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, nil, err
	}

	sorted := slices.Clone(edits)
	SortEdits(sorted)

	accepted, skipped := FilterConflicts(sorted)
	return accepted, skipped, nil
}

package textdoc

import (
	"fmt"
	"sort"
	"strings"

	lenserrors "github.com/conneroisu/vuelens/internal/errors"
)

// TextEdit replaces the half-open byte span [Start, End) of the original
// text with NewText.
type TextEdit struct {
	Start   int    `json:"start"`
	End     int    `json:"end"`
	NewText string `json:"newText"`
}

// LSPTextEdit is a TextEdit expressed in editor positions.
type LSPTextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// SortEdits orders edits by start offset, keeping the input order for ties.
func SortEdits(edits []TextEdit) {
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Start < edits[j].Start
	})
}

// Apply applies every edit in one pass against the original text. All
// offsets refer to text as given; edits must not overlap.
func Apply(text string, edits []TextEdit) (string, error) {
	if len(edits) == 0 {
		return text, nil
	}

	sorted := make([]TextEdit, len(edits))
	copy(sorted, edits)
	SortEdits(sorted)

	var b strings.Builder
	b.Grow(len(text))

	cursor := 0
	for _, edit := range sorted {
		if edit.Start < 0 || edit.End < edit.Start || edit.End > len(text) {
			return "", lenserrors.NewValidationError(lenserrors.ErrCodeOverlappingEdits,
				fmt.Sprintf("edit [%d,%d) outside document of length %d", edit.Start, edit.End, len(text)))
		}
		if edit.Start < cursor {
			return "", lenserrors.NewValidationError(lenserrors.ErrCodeOverlappingEdits,
				fmt.Sprintf("edit [%d,%d) overlaps previous edit ending at %d", edit.Start, edit.End, cursor))
		}
		b.WriteString(text[cursor:edit.Start])
		b.WriteString(edit.NewText)
		cursor = edit.End
	}
	b.WriteString(text[cursor:])

	return b.String(), nil
}

// ToLSP converts byte-offset edits to position-based edits for d.
func (d *Document) ToLSP(edits []TextEdit) []LSPTextEdit {
	out := make([]LSPTextEdit, 0, len(edits))
	for _, edit := range edits {
		out = append(out, LSPTextEdit{
			Range:   d.RangeOf(edit.Start, edit.End),
			NewText: edit.NewText,
		})
	}
	return out
}

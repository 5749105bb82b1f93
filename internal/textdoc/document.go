// Package textdoc maps byte offsets in a document to editor positions and
// applies batches of text edits.
//
// Positions follow the language server protocol: zero-based lines and
// characters counted in UTF-16 code units.
package textdoc

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"
)

// Position is a zero-based line/character location.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range is a half-open span between two positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Document indexes line starts of a text for offset conversion.
type Document struct {
	text       string
	lineStarts []int
}

// NewDocument builds the line index for text.
func NewDocument(text string) *Document {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Document{text: text, lineStarts: starts}
}

// Text returns the indexed text.
func (d *Document) Text() string {
	return d.text
}

// LineCount returns the number of lines, counting a trailing empty line.
func (d *Document) LineCount() int {
	return len(d.lineStarts)
}

// PositionAt converts a byte offset to a Position. Offsets are clamped to
// the document bounds.
func (d *Document) PositionAt(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(d.text) {
		offset = len(d.text)
	}

	// last line start <= offset
	line := sort.Search(len(d.lineStarts), func(i int) bool {
		return d.lineStarts[i] > offset
	}) - 1

	start := d.lineStarts[line]
	return Position{Line: line, Character: utf16Len(d.text[start:offset])}
}

// OffsetAt converts a Position back to a byte offset.
func (d *Document) OffsetAt(pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(d.lineStarts) {
		return len(d.text)
	}

	start := d.lineStarts[pos.Line]
	end := len(d.text)
	if pos.Line+1 < len(d.lineStarts) {
		end = d.lineStarts[pos.Line+1] - 1
	}

	units := 0
	for i, r := range d.text[start:end] {
		if units >= pos.Character {
			return start + i
		}
		units += utf16.RuneLen(r)
	}
	return end
}

// RangeOf converts a byte span to a Range.
func (d *Document) RangeOf(start, end int) Range {
	return Range{Start: d.PositionAt(start), End: d.PositionAt(end)}
}

func utf16Len(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if r == utf8.RuneError && size == 1 {
			n++
			continue
		}
		n += utf16.RuneLen(r)
	}
	return n
}

package annotate

import (
	"sort"
	"unicode/utf8"
)

// Position is a zero-based line and column. Character counts UTF-16 code
// units, which is what LSP clients expect by default.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Before reports whether p sorts strictly before q.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Character < q.Character
}

// Document maps byte offsets in a text to line/column positions.
type Document struct {
	text       string
	lineStarts []int
}

// NewDocument indexes the line starts of text.
func NewDocument(text string) *Document {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Document{text: text, lineStarts: starts}
}

// PositionAt converts a byte offset into a Position. Out-of-range offsets
// are clamped to the text bounds.
func (d *Document) PositionAt(offset int) Position {
	offset = max(0, min(offset, len(d.text)))
	line := sort.Search(len(d.lineStarts), func(i int) bool {
		return d.lineStarts[i] > offset
	}) - 1
	start := d.lineStarts[line]
	return Position{Line: line, Character: utf16Len(d.text[start:offset])}
}

// utf16Len counts UTF-16 code units in s. Invalid bytes count as one unit,
// matching how they decode to U+FFFD.
func utf16Len(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
		s = s[size:]
	}
	return n
}

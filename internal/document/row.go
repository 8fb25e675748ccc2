package document

import "unicode/utf8"

// Row is one line of document text. Columns are counted in runes.
type Row struct {
	text   string
	length int
}

// NewRow builds a row from a line without its line terminator.
func NewRow(text string) Row {
	return Row{text: text, length: utf8.RuneCountInString(text)}
}

// Len returns the number of addressable columns.
func (r Row) Len() int {
	return r.length
}

// String returns the full text of the row.
func (r Row) String() string {
	return r.text
}

// Render returns the text between columns start and end, clipped to the
// row. Out of range or inverted bounds give "".
func (r Row) Render(start, end int) string {
	end = min(end, r.length)
	start = max(start, 0)
	if start >= end {
		return ""
	}
	if len(r.text) == r.length {
		return r.text[start:end]
	}
	return r.text[r.byteOffset(start):r.byteOffset(end)]
}

// byteOffset converts a column to a byte index into text.
func (r Row) byteOffset(col int) int {
	if col >= r.length {
		return len(r.text)
	}
	n := 0
	for i := range r.text {
		if n == col {
			return i
		}
		n++
	}
	return len(r.text)
}

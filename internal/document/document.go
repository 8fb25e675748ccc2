// Package document holds the text being viewed as an ordered, immutable
// sequence of rows.
package document

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// ErrInvalidEncoding is returned when the source is not valid UTF-8.
var ErrInvalidEncoding = errors.New("document is not valid UTF-8")

// Document is an ordered sequence of rows in on-disk line order.
type Document struct {
	rows []Row
	path string
}

// Empty returns a document with no rows.
func Empty() *Document {
	return &Document{}
}

// FromLines builds a document from already split lines.
func FromLines(lines ...string) *Document {
	rows := make([]Row, len(lines))
	for i, l := range lines {
		rows[i] = NewRow(l)
	}
	return &Document{rows: rows}
}

// Open loads the file at path.
func Open(path string) (*Document, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is the file the user asked to view
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	doc.path = path
	return doc, nil
}

// Load reads rows from r. Lines end at "\n" with an optional preceding
// "\r"; a trailing newline does not start an extra row.
func Load(r io.Reader) (*Document, error) {
	br := bufio.NewReader(r)
	doc := &Document{}
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			if !utf8.ValidString(line) {
				return nil, fmt.Errorf("line %d: %w", len(doc.rows)+1, ErrInvalidEncoding)
			}
			doc.rows = append(doc.rows, NewRow(line))
		}
		if errors.Is(err, io.EOF) {
			return doc, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading document: %w", err)
		}
	}
}

// Row returns the row at index, or false past the end.
func (d *Document) Row(index int) (Row, bool) {
	if index < 0 || index >= len(d.rows) {
		return Row{}, false
	}
	return d.rows[index], true
}

// RowLen returns the length of the row at index; rows past the end have
// length 0.
func (d *Document) RowLen(index int) int {
	row, ok := d.Row(index)
	if !ok {
		return 0
	}
	return row.Len()
}

// Len returns the number of rows.
func (d *Document) Len() int {
	return len(d.rows)
}

// IsEmpty reports whether the document has no rows.
func (d *Document) IsEmpty() bool {
	return len(d.rows) == 0
}

// Path returns the file the document was opened from, or "".
func (d *Document) Path() string {
	return d.path
}

package editor

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// refresh draws one frame. Nothing is visible until the final Flush.
func (e *Editor) refresh() error {
	e.term.HideCursor()
	e.term.MoveTo(0, 0)
	if e.state == StateQuitting {
		e.term.ClearScreen()
		e.term.Print(e.opts.Farewell)
	} else {
		e.drawRows()
		e.term.MoveTo(satSub(e.cursor.X, e.offset.X), satSub(e.cursor.Y, e.offset.Y))
	}
	e.term.ShowCursor()
	return e.term.Flush()
}

func (e *Editor) drawRows() {
	size := e.term.Size()
	last := size.Height - 1
	for r := 0; r < last; r++ {
		e.term.MoveTo(0, r)
		e.term.ClearLine()
		if row, ok := e.doc.Row(r + e.offset.Y); ok {
			e.term.Print(row.Render(e.offset.X, e.offset.X+size.Width))
		} else if e.opts.ShowWelcome && e.doc.IsEmpty() && r == size.Height/3 {
			e.term.Print(e.welcomeMessage(size.Width))
		} else {
			e.term.Print(e.opts.Marker)
		}
	}
	if last >= 0 {
		e.term.MoveTo(0, last)
		e.term.ClearLine()
	}
}

// welcomeMessage centres the banner in width cells, keeping the marker in
// the first column.
func (e *Editor) welcomeMessage(width int) string {
	msg := fmt.Sprintf("Mercury Editor. v %s", e.opts.Version)
	padding := satSub(width, runewidth.StringWidth(msg)) / 2
	line := e.opts.Marker + strings.Repeat(" ", satSub(padding, 1)) + msg
	return runewidth.Truncate(line, width, "")
}

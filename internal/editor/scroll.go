package editor

import "github.com/zjrosen/mercury/internal/terminal"

// Scroll returns the smallest change to offset that keeps cursor inside a
// view of the given size. Each axis is handled on its own: a cursor before
// the window pulls the window back to it, a cursor past the window pushes
// the window just far enough to show it on the last row or column.
//
// A view dimension below 1 is treated as 1.
func Scroll(cursor, offset Position, view terminal.Size) Position {
	return Position{
		X: scrollAxis(cursor.X, offset.X, view.Width),
		Y: scrollAxis(cursor.Y, offset.Y, view.Height),
	}
}

func scrollAxis(pos, off, span int) int {
	span = max(span, 1)
	switch {
	case pos < off:
		return pos
	case pos >= off+span:
		return satSub(pos+1, span)
	default:
		return off
	}
}

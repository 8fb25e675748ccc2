package editor

// Direction is a navigation command.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
	DirPageUp
	DirPageDown
	DirHome
	DirEnd
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirPageUp:
		return "page-up"
	case DirPageDown:
		return "page-down"
	case DirHome:
		return "home"
	case DirEnd:
		return "end"
	default:
		return "none"
	}
}

// MoveCursor returns the cursor after applying dir. docLen is the number of
// rows; y == docLen is the end-of-document position below the last row.
// rowLen reports the length of row y and must return 0 for y >= docLen.
//
// After every move x is clamped to the length of the resulting row, so
// moving from a long line onto a short one lands at the short line's end.
// DirNone returns cur unchanged.
func MoveCursor(cur Position, dir Direction, docLen int, rowLen func(y int) int) Position {
	if dir == DirNone {
		return cur
	}

	x, y := cur.X, cur.Y
	switch dir {
	case DirUp:
		y = satDec(y)
	case DirDown:
		if y < docLen {
			y++
		}
	case DirLeft:
		x = satDec(x)
	case DirRight:
		if x < rowLen(y) {
			x++
		}
	case DirPageUp:
		y = 0
	case DirPageDown:
		y = docLen
	case DirHome:
		x = 0
	case DirEnd:
		x = rowLen(y)
	}

	if width := rowLen(y); x > width {
		x = width
	}
	return Position{X: x, Y: y}
}

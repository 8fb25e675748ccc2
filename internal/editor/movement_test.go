package editor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// lengths returns a rowLen func over fixed row lengths; rows past the end
// have length 0.
func lengths(ls ...int) func(int) int {
	return func(y int) int {
		if y < 0 || y >= len(ls) {
			return 0
		}
		return ls[y]
	}
}

func TestMoveCursor(t *testing.T) {
	rowLen := lengths(10, 3, 0, 20, 5)
	const docLen = 5

	tests := []struct {
		name string
		from Position
		dir  Direction
		want Position
	}{
		{"up onto empty row clamps x", Position{X: 2, Y: 3}, DirUp, Position{X: 0, Y: 2}},
		{"up", Position{X: 2, Y: 1}, DirUp, Position{X: 2, Y: 0}},
		{"up at top saturates", Position{X: 0, Y: 0}, DirUp, Position{X: 0, Y: 0}},
		{"down", Position{X: 2, Y: 0}, DirDown, Position{X: 2, Y: 1}},
		{"down onto end-of-document row", Position{X: 4, Y: 4}, DirDown, Position{X: 0, Y: 5}},
		{"down at end-of-document is a no-op", Position{X: 0, Y: 5}, DirDown, Position{X: 0, Y: 5}},
		{"left", Position{X: 2, Y: 0}, DirLeft, Position{X: 1, Y: 0}},
		{"left at column zero saturates", Position{X: 0, Y: 3}, DirLeft, Position{X: 0, Y: 3}},
		{"right", Position{X: 2, Y: 0}, DirRight, Position{X: 3, Y: 0}},
		{"right at end of row is a no-op", Position{X: 3, Y: 1}, DirRight, Position{X: 3, Y: 1}},
		{"right on end-of-document row", Position{X: 0, Y: 5}, DirRight, Position{X: 0, Y: 5}},
		{"page down jumps to end", Position{X: 7, Y: 0}, DirPageDown, Position{X: 0, Y: 5}},
		{"page up jumps to start", Position{X: 4, Y: 4}, DirPageUp, Position{X: 4, Y: 0}},
		{"page up clamps x", Position{X: 15, Y: 3}, DirPageUp, Position{X: 10, Y: 0}},
		{"home", Position{X: 15, Y: 3}, DirHome, Position{X: 0, Y: 3}},
		{"end", Position{X: 1, Y: 3}, DirEnd, Position{X: 20, Y: 3}},
		{"end on empty row", Position{X: 0, Y: 2}, DirEnd, Position{X: 0, Y: 2}},
		{"none returns current", Position{X: 9, Y: 1}, DirNone, Position{X: 9, Y: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, MoveCursor(tt.from, tt.dir, docLen, rowLen))
		})
	}
}

func TestMoveCursor_DownOntoShortRowClamps(t *testing.T) {
	// Row 1 has length 3 and row 2 is empty, so x clamps all the way to 0.
	got := MoveCursor(Position{X: 8, Y: 1}, DirDown, 5, lengths(10, 3, 0, 20, 5))
	require.Equal(t, Position{X: 0, Y: 2}, got)
}

func TestMoveCursor_ClampRunsWithoutYChange(t *testing.T) {
	// A cursor left past the end of its row is pulled back by any move.
	got := MoveCursor(Position{X: 12, Y: 1}, DirLeft, 5, lengths(10, 3, 0, 20, 5))
	require.Equal(t, Position{X: 3, Y: 1}, got)
}

func TestMoveCursor_EmptyDocument(t *testing.T) {
	rowLen := lengths()
	for _, dir := range []Direction{DirUp, DirDown, DirLeft, DirRight, DirPageUp, DirPageDown, DirHome, DirEnd} {
		t.Run(dir.String(), func(t *testing.T) {
			require.Equal(t, Position{}, MoveCursor(Position{}, dir, 0, rowLen))
		})
	}
}

func TestMoveCursor_StaysInBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ls := rapid.SliceOfN(rapid.IntRange(0, 40), 0, 30).Draw(rt, "rowLengths")
		rowLen := lengths(ls...)
		docLen := len(ls)

		y := rapid.IntRange(0, docLen).Draw(rt, "y")
		x := rapid.IntRange(0, rowLen(y)).Draw(rt, "x")
		cur := Position{X: x, Y: y}

		dirs := rapid.SliceOf(rapid.IntRange(int(DirNone), int(DirEnd))).Draw(rt, "dirs")
		for _, d := range dirs {
			cur = MoveCursor(cur, Direction(d), docLen, rowLen)

			require.GreaterOrEqual(rt, cur.X, 0)
			require.GreaterOrEqual(rt, cur.Y, 0)
			require.LessOrEqual(rt, cur.Y, docLen)
			require.LessOrEqual(rt, cur.X, rowLen(cur.Y))
		}
	})
}

func TestMoveCursor_EndUsesResultingRow(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ls := rapid.SliceOfN(rapid.IntRange(0, 40), 1, 20).Draw(rt, "rowLengths")
		rowLen := lengths(ls...)
		y := rapid.IntRange(0, len(ls)).Draw(rt, "y")

		got := MoveCursor(Position{X: 0, Y: y}, DirEnd, len(ls), rowLen)
		require.Equal(rt, Position{X: rowLen(y), Y: y}, got)
	})
}

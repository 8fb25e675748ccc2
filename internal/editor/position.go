package editor

// Position is a column (X) and row (Y) pair. Both the cursor, in document
// coordinates, and the scroll offset use it. Neither field is ever negative.
type Position struct {
	X int
	Y int
}

// satDec decrements v, stopping at 0.
func satDec(v int) int {
	if v <= 0 {
		return 0
	}
	return v - 1
}

// satSub returns a-b, stopping at 0.
func satSub(a, b int) int {
	if a <= b {
		return 0
	}
	return a - b
}

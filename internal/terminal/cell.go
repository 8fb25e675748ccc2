package terminal

import "unicode"

// placeholder is drawn in place of control runes.
const placeholder = '?'

// displayRune returns the rune drawn for r. Control runes never reach the
// terminal: a tab becomes a space and every other control rune the
// placeholder, so each still fills exactly one cell.
func displayRune(r rune) rune {
	switch {
	case r == '\t':
		return ' '
	case unicode.IsControl(r):
		return placeholder
	default:
		return r
	}
}

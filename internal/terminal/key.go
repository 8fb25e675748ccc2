package terminal

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Key is a decoded key press, named the way bubbletea names keys ("up",
// "pgdown", "ctrl+p", "j") so that bubbles/key bindings match against it.
type Key string

// Named keys produced by the backends.
const (
	KeyNone      Key = ""
	KeyUp        Key = "up"
	KeyDown      Key = "down"
	KeyLeft      Key = "left"
	KeyRight     Key = "right"
	KeyPgUp      Key = "pgup"
	KeyPgDown    Key = "pgdown"
	KeyHome      Key = "home"
	KeyEnd       Key = "end"
	KeyEnter     Key = "enter"
	KeyTab       Key = "tab"
	KeyEsc       Key = "esc"
	KeyBackspace Key = "backspace"
	KeyDelete    Key = "delete"

	// KeyResize is delivered when the terminal dimensions change so the
	// caller redraws with the new size.
	KeyResize Key = "resize"
)

var namedKeys = map[Key]bool{
	KeyUp: true, KeyDown: true, KeyLeft: true, KeyRight: true,
	KeyPgUp: true, KeyPgDown: true, KeyHome: true, KeyEnd: true,
	KeyEnter: true, KeyTab: true, KeyEsc: true, KeyBackspace: true, KeyDelete: true,
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return string(k)
}

// RuneKey returns the key for a printable rune.
func RuneKey(r rune) Key {
	return Key(string(r))
}

// CtrlKey returns the key for r pressed with control held.
func CtrlKey(r rune) Key {
	return Key("ctrl+" + string(unicode.ToLower(r)))
}

// AltKey returns the key for r pressed with alt held.
func AltKey(r rune) Key {
	return Key("alt+" + string(r))
}

// IsValidKeyName reports whether name is a key a backend can produce:
// a named key, a single printable rune, or ctrl+/alt+ followed by one rune.
func IsValidKeyName(name string) bool {
	if namedKeys[Key(name)] {
		return true
	}
	if rest, ok := strings.CutPrefix(name, "ctrl+"); ok {
		r, n := utf8.DecodeRuneInString(rest)
		return n == len(rest) && r >= 'a' && r <= 'z'
	}
	if rest, ok := strings.CutPrefix(name, "alt+"); ok {
		return isSingleRune(rest)
	}
	return isSingleRune(name)
}

func isSingleRune(s string) bool {
	r, n := utf8.DecodeRuneInString(s)
	return n > 0 && n == len(s) && r != utf8.RuneError && unicode.IsPrint(r)
}

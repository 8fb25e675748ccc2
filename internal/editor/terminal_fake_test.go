package editor

import (
	"errors"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/mercury/internal/terminal"
)

var errScriptDone = errors.New("no more scripted keys")

// fakeTerminal is an in-memory terminal. Drawing goes to a back buffer that
// Flush copies to the front, mirroring how the real backends only show a
// frame once it is flushed.
type fakeTerminal struct {
	size terminal.Size
	keys []terminal.Key

	readErr  error
	flushErr error

	back, front [][]rune
	x, y        int

	cursorVisible bool
	shownCursor   Position
	committed     Position
	committedVis  bool

	flushes int
	reads   int
	closed  bool
}

func newFakeTerminal(w, h int, keys ...terminal.Key) *fakeTerminal {
	f := &fakeTerminal{size: terminal.Size{Width: w, Height: h}, keys: keys}
	f.back = blankGrid(w, h)
	f.front = blankGrid(w, h)
	return f
}

func blankGrid(w, h int) [][]rune {
	g := make([][]rune, h)
	for i := range g {
		g[i] = []rune(strings.Repeat(" ", w))
	}
	return g
}

func (f *fakeTerminal) Size() terminal.Size { return f.size }

func (f *fakeTerminal) ReadKey() (terminal.Key, error) {
	f.reads++
	if f.readErr != nil {
		return terminal.KeyNone, f.readErr
	}
	if len(f.keys) == 0 {
		return terminal.KeyNone, errScriptDone
	}
	k := f.keys[0]
	f.keys = f.keys[1:]
	return k, nil
}

func (f *fakeTerminal) HideCursor() { f.cursorVisible = false }

func (f *fakeTerminal) ShowCursor() {
	f.cursorVisible = true
	f.shownCursor = Position{X: f.x, Y: f.y}
}

func (f *fakeTerminal) MoveTo(x, y int) { f.x, f.y = x, y }

func (f *fakeTerminal) ClearScreen() { f.back = blankGrid(f.size.Width, f.size.Height) }

func (f *fakeTerminal) ClearLine() {
	if f.y >= 0 && f.y < len(f.back) {
		f.back[f.y] = []rune(strings.Repeat(" ", f.size.Width))
	}
}

func (f *fakeTerminal) Print(s string) {
	if f.y < 0 || f.y >= len(f.back) {
		return
	}
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if f.x+w > f.size.Width {
			return
		}
		f.back[f.y][f.x] = r
		f.x += max(w, 1)
	}
}

func (f *fakeTerminal) Flush() error {
	if f.flushErr != nil {
		return f.flushErr
	}
	f.flushes++
	for i := range f.back {
		f.front[i] = append([]rune(nil), f.back[i]...)
	}
	f.committed = f.shownCursor
	f.committedVis = f.cursorVisible
	return nil
}

func (f *fakeTerminal) Interrupt() {}

func (f *fakeTerminal) Close() error {
	f.closed = true
	return nil
}

// line returns a flushed screen line without trailing spaces.
func (f *fakeTerminal) line(y int) string {
	return strings.TrimRight(string(f.front[y]), " ")
}

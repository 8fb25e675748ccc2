package terminal

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// TcellTerminal adapts a tcell.Screen to the Terminal interface.
type TcellTerminal struct {
	screen tcell.Screen
	style  tcell.Style

	// write position
	x, y int

	closeOnce sync.Once
}

// OpenTcell creates and initializes a screen for the controlling terminal.
func OpenTcell() (*TcellTerminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	return NewTcell(screen)
}

// NewTcell initializes screen and wraps it. Tests pass a
// tcell.SimulationScreen here.
func NewTcell(screen tcell.Screen) (*TcellTerminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	style := tcell.StyleDefault
	screen.SetStyle(style)
	screen.Clear()
	return &TcellTerminal{screen: screen, style: style}, nil
}

func (t *TcellTerminal) Size() Size {
	w, h := t.screen.Size()
	return Size{Width: w, Height: h}
}

func (t *TcellTerminal) ReadKey() (Key, error) {
	for {
		switch ev := t.screen.PollEvent().(type) {
		case nil:
			return KeyNone, ErrClosed
		case *tcell.EventInterrupt:
			return KeyNone, ErrInterrupted
		case *tcell.EventResize:
			t.screen.Sync()
			return KeyResize, nil
		case *tcell.EventKey:
			if k, ok := keyFromEvent(ev); ok {
				return k, nil
			}
		}
	}
}

func (t *TcellTerminal) HideCursor() {
	t.screen.HideCursor()
}

func (t *TcellTerminal) ShowCursor() {
	t.screen.ShowCursor(t.x, t.y)
}

func (t *TcellTerminal) MoveTo(x, y int) {
	t.x, t.y = x, y
}

func (t *TcellTerminal) ClearScreen() {
	t.screen.Clear()
}

func (t *TcellTerminal) ClearLine() {
	w, _ := t.screen.Size()
	for col := 0; col < w; col++ {
		t.screen.SetContent(col, t.y, ' ', nil, t.style)
	}
}

func (t *TcellTerminal) Print(s string) {
	w, _ := t.screen.Size()
	for _, r := range s {
		r = displayRune(r)
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if t.x+rw > w {
			return
		}
		t.screen.SetContent(t.x, t.y, r, nil, t.style)
		t.x += rw
	}
}

// Flush pushes the frame to the terminal. tcell reports no write errors.
func (t *TcellTerminal) Flush() error {
	t.screen.Show()
	return nil
}

func (t *TcellTerminal) Interrupt() {
	_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

func (t *TcellTerminal) Close() error {
	t.closeOnce.Do(t.screen.Fini)
	return nil
}

// keyFromEvent names a tcell key event. Events with no useful name report
// false and are skipped by ReadKey.
func keyFromEvent(ev *tcell.EventKey) (Key, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return KeyUp, true
	case tcell.KeyDown:
		return KeyDown, true
	case tcell.KeyLeft:
		return KeyLeft, true
	case tcell.KeyRight:
		return KeyRight, true
	case tcell.KeyPgUp:
		return KeyPgUp, true
	case tcell.KeyPgDn:
		return KeyPgDown, true
	case tcell.KeyHome:
		return KeyHome, true
	case tcell.KeyEnd:
		return KeyEnd, true
	case tcell.KeyEnter:
		return KeyEnter, true
	case tcell.KeyTab:
		return KeyTab, true
	case tcell.KeyEscape:
		return KeyEsc, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyBackspace, true
	case tcell.KeyDelete:
		return KeyDelete, true
	case tcell.KeyRune:
		r := ev.Rune()
		mod := ev.Modifiers()
		switch {
		case mod&tcell.ModCtrl != 0:
			return CtrlKey(r), true
		case mod&tcell.ModAlt != 0:
			return AltKey(r), true
		default:
			return RuneKey(r), true
		}
	}

	k := ev.Key()
	switch {
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return CtrlKey('a' + rune(k-tcell.KeyCtrlA)), true
	case k >= tcell.KeySOH && k <= tcell.KeySUB:
		// NewEventKey turns a bare control character into its ASCII code
		// (KeyDLE for 0x10), not into KeyCtrlA..KeyCtrlZ.
		return CtrlKey('a' + rune(k-tcell.KeySOH)), true
	}
	return KeyNone, false
}

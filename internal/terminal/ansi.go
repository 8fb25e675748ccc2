package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// escTimeout is how long a lone ESC waits for the rest of a sequence before
// it is reported as the esc key.
const escTimeout = 50 * time.Millisecond

// fallbackSize is used when the output is not a terminal.
var fallbackSize = Size{Width: 80, Height: 24}

type chunk struct {
	b   []byte
	err error
}

// ANSITerminal drives a VT100-compatible terminal with escape sequences
// written to a buffered writer. Unlike the tcell backend it surfaces write
// errors from Flush.
type ANSITerminal struct {
	out     *bufio.Writer
	size    func() Size
	restore func() error

	keys      *keyDecoder
	chunks    chan chunk
	interrupt chan struct{}
	done      chan struct{}
	pending   []byte

	// write position and the width it is clipped to
	x, y  int
	width int

	closeOnce sync.Once
	closeErr  error
}

// OpenANSI puts stdin into raw mode, switches stdout to the alternate screen
// and returns a terminal drawing on it.
func OpenANSI() (*ANSITerminal, error) {
	inFd := int(os.Stdin.Fd())
	outFd := int(os.Stdout.Fd())
	if !term.IsTerminal(inFd) {
		return nil, errors.New("stdin is not a terminal")
	}
	state, err := term.MakeRaw(inFd)
	if err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}

	t := NewANSI(os.Stdin, os.Stdout, func() Size {
		w, h, err := term.GetSize(outFd)
		if err != nil {
			return fallbackSize
		}
		return Size{Width: w, Height: h}
	})
	t.restore = func() error {
		return term.Restore(inFd, state)
	}

	_, _ = t.out.WriteString(ansi.SetModeAltScreenSaveCursor)
	if err := t.out.Flush(); err != nil {
		_ = t.restore()
		return nil, fmt.Errorf("entering alternate screen: %w", err)
	}
	return t, nil
}

// NewANSI returns a terminal reading keys from in and drawing to out. It
// does not touch terminal modes; OpenANSI does that.
func NewANSI(in io.Reader, out io.Writer, size func() Size) *ANSITerminal {
	if size == nil {
		size = func() Size { return fallbackSize }
	}
	t := &ANSITerminal{
		out:       bufio.NewWriter(out),
		size:      size,
		keys:      newKeyDecoder(),
		chunks:    make(chan chunk),
		interrupt: make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	go t.readLoop(in)
	return t
}

// readLoop forwards input to ReadKey until the input fails or the terminal
// is closed. A Read already blocked when Close runs returns on the next
// input.
func (t *ANSITerminal) readLoop(in io.Reader) {
	buf := make([]byte, 256)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			b := make([]byte, n)
			copy(b, buf[:n])
			if !t.send(chunk{b: b}) {
				return
			}
		}
		if err != nil {
			t.send(chunk{err: err})
			return
		}
	}
}

func (t *ANSITerminal) send(c chunk) bool {
	select {
	case t.chunks <- c:
		return true
	case <-t.done:
		return false
	}
}

func (t *ANSITerminal) Size() Size {
	return t.size()
}

func (t *ANSITerminal) ReadKey() (Key, error) {
	for {
		if len(t.pending) > 0 {
			k, n, complete := t.keys.decode(t.pending)
			if complete {
				t.pending = t.pending[n:]
				if k != KeyNone {
					return k, nil
				}
				continue
			}
			select {
			case c := <-t.chunks:
				if c.err != nil {
					return KeyNone, readErr(c.err)
				}
				t.pending = append(t.pending, c.b...)
			case <-time.After(escTimeout):
				lead := t.pending[0]
				t.pending = t.pending[1:]
				if lead == ansi.ESC {
					return KeyEsc, nil
				}
			case <-t.interrupt:
				return KeyNone, ErrInterrupted
			case <-t.done:
				return KeyNone, ErrClosed
			}
			continue
		}

		select {
		case c := <-t.chunks:
			if c.err != nil {
				return KeyNone, readErr(c.err)
			}
			t.pending = append(t.pending, c.b...)
		case <-t.interrupt:
			return KeyNone, ErrInterrupted
		case <-t.done:
			return KeyNone, ErrClosed
		}
	}
}

func readErr(err error) error {
	if errors.Is(err, io.EOF) {
		return ErrClosed
	}
	return fmt.Errorf("reading key: %w", err)
}

func (t *ANSITerminal) HideCursor() {
	_, _ = t.out.WriteString(ansi.HideCursor)
}

func (t *ANSITerminal) ShowCursor() {
	_, _ = t.out.WriteString(ansi.ShowCursor)
}

func (t *ANSITerminal) MoveTo(x, y int) {
	t.x, t.y = x, y
	_, _ = t.out.WriteString(ansi.CursorPosition(x+1, y+1))
}

func (t *ANSITerminal) ClearScreen() {
	_, _ = t.out.WriteString(ansi.EraseEntireScreen)
}

func (t *ANSITerminal) ClearLine() {
	_, _ = t.out.WriteString(ansi.EraseEntireLine)
	t.width = t.size().Width
}

func (t *ANSITerminal) Print(s string) {
	if t.width == 0 {
		t.width = t.size().Width
	}
	for _, r := range s {
		r = displayRune(r)
		rw := runewidth.RuneWidth(r)
		if t.x+rw > t.width {
			return
		}
		_, _ = t.out.WriteRune(r)
		t.x += rw
	}
}

// Flush writes the buffered frame. bufio keeps the first write error, so a
// failure anywhere in the frame is reported here.
func (t *ANSITerminal) Flush() error {
	if err := t.out.Flush(); err != nil {
		return fmt.Errorf("flushing frame: %w", err)
	}
	return nil
}

func (t *ANSITerminal) Interrupt() {
	select {
	case t.interrupt <- struct{}{}:
	default:
	}
}

func (t *ANSITerminal) Close() error {
	t.closeOnce.Do(func() {
		close(t.done)
		_, _ = t.out.WriteString(ansi.ShowCursor)
		_, _ = t.out.WriteString(ansi.ResetModeAltScreenSaveCursor)
		t.closeErr = t.out.Flush()
		if t.restore != nil {
			if err := t.restore(); err != nil && t.closeErr == nil {
				t.closeErr = fmt.Errorf("restoring terminal: %w", err)
			}
		}
	})
	return t.closeErr
}

// keyDecoder splits raw input into keys. Escape sequences are delimited by
// ansi.DecodeSequence; the decoder only names them.
type keyDecoder struct {
	parser *ansi.Parser
}

func newKeyDecoder() *keyDecoder {
	p := ansi.NewParser()
	p.SetDataSize(256)
	return &keyDecoder{parser: p}
}

// decode decodes the first key in b. complete is false when b holds the
// start of a sequence that needs more bytes. A complete decode may yield
// KeyNone for sequences that are recognised but not named.
func (d *keyDecoder) decode(b []byte) (k Key, n int, complete bool) {
	switch c := b[0]; {
	case c == ansi.ESC:
		return d.decodeEscape(b)
	case c == '\r' || c == '\n':
		return KeyEnter, 1, true
	case c == '\t':
		return KeyTab, 1, true
	case c == ansi.DEL || c == ansi.BS:
		return KeyBackspace, 1, true
	case c >= 1 && c <= 26:
		return CtrlKey(rune('a' + c - 1)), 1, true
	case c < 0x20:
		return KeyNone, 1, true
	}

	if !utf8.FullRune(b) {
		return KeyNone, 0, false
	}
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError {
		return KeyNone, size, true
	}
	return RuneKey(r), size, true
}

func (d *keyDecoder) decodeEscape(b []byte) (Key, int, bool) {
	seq, _, n, state := ansi.DecodeSequence(b, ansi.NormalState, d.parser)
	if state != ansi.NormalState {
		return KeyNone, 0, false
	}

	switch {
	case len(seq) == 1:
		// ESC followed by a byte that cannot continue a sequence.
		return KeyEsc, n, true
	case ansi.HasCsiPrefix(seq):
		return d.csiKey(), n, true
	case len(seq) == 2 && seq[1] == 'O':
		// SS3: the key is the byte after the introducer.
		if len(b) < 3 {
			return KeyNone, 0, false
		}
		return finalKey(b[2]), 3, true
	case len(seq) == 2:
		return AltKey(rune(seq[1])), n, true
	}
	return KeyNone, n, true
}

func (d *keyDecoder) csiKey() Key {
	cmd := ansi.Cmd(d.parser.Command())
	if cmd.Prefix() != 0 || cmd.Intermediate() != 0 {
		return KeyNone
	}
	if cmd.Final() != '~' {
		return finalKey(cmd.Final())
	}

	// Only the first parameter names the key; the rest are modifiers.
	code, _ := d.parser.Param(0, 0)
	switch code {
	case 1, 7:
		return KeyHome
	case 4, 8:
		return KeyEnd
	case 5:
		return KeyPgUp
	case 6:
		return KeyPgDown
	case 3:
		return KeyDelete
	}
	return KeyNone
}

func finalKey(final byte) Key {
	switch final {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	case 'H':
		return KeyHome
	case 'F':
		return KeyEnd
	}
	return KeyNone
}

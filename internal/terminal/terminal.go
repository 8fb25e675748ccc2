// Package terminal is the screen and keyboard side of the viewer. A Terminal
// owns the process-wide terminal device from Open until Close: raw mode and
// the alternate screen are acquired on open and restored on close.
//
// Drawing is buffered. Nothing written through Print, ClearLine or the
// cursor calls is visible until Flush, so a frame is shown atomically.
package terminal

import (
	"errors"
	"fmt"
)

var (
	// ErrInterrupted is returned by ReadKey after Interrupt is called.
	ErrInterrupted = errors.New("terminal: interrupted")
	// ErrClosed is returned by ReadKey once the terminal has been closed.
	ErrClosed = errors.New("terminal: closed")
)

// Size is the visible terminal area in character cells.
type Size struct {
	Width  int
	Height int
}

// Terminal is the collaborator the render loop draws through.
type Terminal interface {
	// Size returns the current dimensions. It may change between frames.
	Size() Size
	// ReadKey blocks until a key is pressed.
	ReadKey() (Key, error)

	HideCursor()
	ShowCursor()
	// MoveTo sets the write position and the native cursor position.
	MoveTo(x, y int)
	ClearScreen()
	// ClearLine blanks the line at the write position.
	ClearLine()
	// Print writes s at the write position, clipped to the terminal width.
	Print(s string)
	Flush() error

	// Interrupt wakes a blocked ReadKey with ErrInterrupted. Safe to call
	// from another goroutine.
	Interrupt()
	// Close restores the terminal. Safe to call more than once.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendTcell = "tcell"
	BackendANSI  = "ansi"
)

// Backends lists the valid backend names.
func Backends() []string {
	return []string{BackendTcell, BackendANSI}
}

// Open acquires the controlling terminal using the named backend.
func Open(backend string) (Terminal, error) {
	switch backend {
	case "", BackendTcell:
		return OpenTcell()
	case BackendANSI:
		return OpenANSI()
	default:
		return nil, fmt.Errorf("unknown terminal backend %q", backend)
	}
}

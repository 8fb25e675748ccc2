// Package editor is the viewer core: it owns the cursor and scroll offset
// over a read-only document and runs the render/input loop against a
// terminal.
package editor

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/zjrosen/mercury/internal/document"
	"github.com/zjrosen/mercury/internal/keys"
	"github.com/zjrosen/mercury/internal/log"
	"github.com/zjrosen/mercury/internal/terminal"
)

// State is the render loop state.
type State int

const (
	// StateNormal draws the document and reads keys.
	StateNormal State = iota
	// StateQuitting draws the farewell frame and stops the loop.
	StateQuitting
)

// FatalError is returned by Run when terminal I/O fails. The frame in
// progress was not shown.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Options configures an Editor. Empty strings and an unset key map fall
// back to DefaultOptions.
type Options struct {
	Version     string
	Keys        keys.KeyMap
	Marker      string
	Farewell    string
	ShowWelcome bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Version:     "dev",
		Keys:        keys.DefaultKeyMap(),
		Marker:      "|",
		Farewell:    "Bye Now!",
		ShowWelcome: true,
	}
}

// Editor tracks the cursor and scroll offset over a document.
type Editor struct {
	term terminal.Terminal
	doc  *document.Document
	opts Options

	cursor Position
	offset Position
	state  State
}

// New returns an editor drawing doc on term.
func New(term terminal.Terminal, doc *document.Document, opts Options) *Editor {
	if doc == nil {
		doc = document.Empty()
	}
	defaults := DefaultOptions()
	if opts.Marker == "" {
		opts.Marker = defaults.Marker
	}
	if opts.Farewell == "" {
		opts.Farewell = defaults.Farewell
	}
	if opts.Version == "" {
		opts.Version = defaults.Version
	}
	if len(opts.Keys.Quit.Keys()) == 0 {
		opts.Keys = defaults.Keys
	}
	return &Editor{
		term: term,
		doc:  doc,
		opts: opts,
	}
}

// Cursor returns the cursor in document coordinates.
func (e *Editor) Cursor() Position {
	return e.cursor
}

// Offset returns the document coordinate shown at the top-left of the screen.
func (e *Editor) Offset() Position {
	return e.offset
}

// State returns the loop state.
func (e *Editor) State() State {
	return e.state
}

// Run draws frames and handles keys until the quit key is pressed or the
// terminal is interrupted, then draws a farewell frame and returns nil.
// Terminal I/O failures end the loop with a *FatalError.
func (e *Editor) Run() error {
	log.Info(log.CatEditor, "Editor started", "rows", e.doc.Len(), "path", e.doc.Path())
	for {
		if err := e.refresh(); err != nil {
			log.ErrorErr(log.CatEditor, "Frame flush failed", err)
			return &FatalError{Op: "refreshing screen", Err: err}
		}
		if e.state == StateQuitting {
			log.Info(log.CatEditor, "Editor stopped")
			return nil
		}
		if err := e.processKeypress(); err != nil {
			log.ErrorErr(log.CatEditor, "Reading key failed", err)
			return &FatalError{Op: "reading key", Err: err}
		}
	}
}

func (e *Editor) processKeypress() error {
	k, err := e.term.ReadKey()
	if errors.Is(err, terminal.ErrInterrupted) {
		log.Info(log.CatEditor, "Interrupted, quitting")
		e.state = StateQuitting
		return nil
	}
	if err != nil {
		return err
	}

	e.HandleKey(k)
	return nil
}

// HandleKey applies one key press: quit, move, then scroll.
func (e *Editor) HandleKey(k terminal.Key) {
	if key.Matches(k, e.opts.Keys.Quit) {
		e.state = StateQuitting
		return
	}
	if dir := e.direction(k); dir != DirNone {
		e.cursor = MoveCursor(e.cursor, dir, e.doc.Len(), e.doc.RowLen)
		log.Debug(log.CatEditor, "Cursor moved", "dir", dir, "x", e.cursor.X, "y", e.cursor.Y)
	}
	e.scroll()
}

func (e *Editor) direction(k terminal.Key) Direction {
	km := e.opts.Keys
	switch {
	case key.Matches(k, km.Up):
		return DirUp
	case key.Matches(k, km.Down):
		return DirDown
	case key.Matches(k, km.Left):
		return DirLeft
	case key.Matches(k, km.Right):
		return DirRight
	case key.Matches(k, km.PageUp):
		return DirPageUp
	case key.Matches(k, km.PageDown):
		return DirPageDown
	case key.Matches(k, km.Home):
		return DirHome
	case key.Matches(k, km.End):
		return DirEnd
	default:
		return DirNone
	}
}

func (e *Editor) scroll() {
	e.offset = Scroll(e.cursor, e.offset, e.viewport())
}

// viewport is the text area: the full width and every line but the last,
// which is reserved for a status line.
func (e *Editor) viewport() terminal.Size {
	size := e.term.Size()
	return terminal.Size{Width: size.Width, Height: satSub(size.Height, 1)}
}

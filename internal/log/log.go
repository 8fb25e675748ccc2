// Package log writes mercury's debug log.
//
// The render loop owns the terminal while the viewer runs, so entries only
// ever go to a file, and nothing is written until the log is opened with
// --debug or MERCURY_DEBUG. Every entry is one line:
//
//	2025-12-06T10:45:00 [INFO] [editor] Cursor moved dir=down x=0 y=3
package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps the log.level config value to a Level. Unknown values
// map to LevelDebug.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelDebug
	}
}

// Category names the part of the viewer an entry comes from.
type Category string

const (
	CatConfig   Category = "config"   // flags, env and config file
	CatDocument Category = "document" // loading the file being viewed
	CatTerminal Category = "terminal" // backend setup, signals, I/O
	CatEditor   Category = "editor"   // render loop and cursor movement
	CatKeys     Category = "keys"     // quit key resolution
)

// sink is an open log destination.
type sink struct {
	mu  sync.Mutex
	w   io.Writer
	min Level
}

var active atomic.Pointer[sink]

// OpenFile starts logging entries at min and above to path. The file is
// opened with tea.LogToFile, so output from the standard library logger
// lands in it too. The returned func closes the file and stops logging.
func OpenFile(path, prefix string, min Level) (func(), error) {
	f, err := tea.LogToFile(path, prefix)
	if err != nil {
		return nil, fmt.Errorf("opening debug log %s: %w", path, err)
	}
	stop := ToWriter(f, min)
	return func() {
		stop()
		_ = f.Close()
	}, nil
}

// ToWriter sends entries at min and above to w until the returned func is
// called.
func ToWriter(w io.Writer, min Level) func() {
	s := &sink{w: w, min: min}
	active.Store(s)
	return func() { active.CompareAndSwap(s, nil) }
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	write(LevelDebug, cat, msg, fields)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	write(LevelInfo, cat, msg, fields)
}

// Warn logs a recoverable problem the viewer worked around.
func Warn(cat Category, msg string, fields ...any) {
	write(LevelWarn, cat, msg, fields)
}

// ErrorErr logs err at error level as the "error" field.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	write(LevelError, cat, msg, fields)
}

func write(level Level, cat Category, msg string, fields []any) {
	s := active.Load()
	if s == nil || level < s.min {
		return
	}
	line := format(time.Now(), level, cat, msg, fields)

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.w, line)
}

func format(ts time.Time, level Level, cat Category, msg string, fields []any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] [%s] %s", ts.Format("2006-01-02T15:04:05"), level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		fmt.Fprintf(&b, " %v=<missing>", fields[len(fields)-1])
	}
	b.WriteByte('\n')
	return b.String()
}

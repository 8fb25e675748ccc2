// Package keys contains keybinding definitions.
package keys

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/key"

	"github.com/zjrosen/mercury/internal/terminal"
)

// DefaultQuitKeys are the keys bound to quit when the config names none.
var DefaultQuitKeys = []string{"ctrl+p"}

// KeyMap defines the keybindings for the viewer.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Shortcuts
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// General
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "move right"),
		),

		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "start of document"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "end of document"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "start of line"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "end of line"),
		),

		Quit: key.NewBinding(
			key.WithKeys(DefaultQuitKeys...),
			key.WithHelp(DefaultQuitKeys[0], "quit"),
		),
	}
}

// WithQuitKeys returns a copy of k with Quit rebound to quitKeys. An empty
// list keeps the current binding.
func (k KeyMap) WithQuitKeys(quitKeys []string) KeyMap {
	if len(quitKeys) == 0 {
		return k
	}
	k.Quit = key.NewBinding(
		key.WithKeys(quitKeys...),
		key.WithHelp(quitKeys[0], "quit"),
	)
	return k
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},       // Navigation
		{k.PageUp, k.PageDown, k.Home, k.End}, // Shortcuts
		{k.Quit},                              // General
	}
}

// navigationKeys returns every key bound to movement in the default map.
func navigationKeys() []string {
	var out []string
	for _, row := range DefaultKeyMap().FullHelp()[:2] {
		for _, b := range row {
			out = append(out, b.Keys()...)
		}
	}
	return out
}

// ValidateQuitKeys checks that every quit key is a key the terminal can
// report, that none shadows a navigation key, and that none repeats.
func ValidateQuitKeys(quitKeys []string) error {
	nav := navigationKeys()
	seen := make(map[string]bool, len(quitKeys))
	for i, k := range quitKeys {
		if !terminal.IsValidKeyName(k) {
			return fmt.Errorf("quit key %d: invalid key format %q", i, k)
		}
		if slices.Contains(nav, k) {
			return fmt.Errorf("quit key %d: %q is reserved for navigation", i, k)
		}
		if seen[k] {
			return fmt.Errorf("quit key %d: %q bound more than once", i, k)
		}
		seen[k] = true
	}
	return nil
}

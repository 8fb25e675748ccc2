// Package config provides configuration types and defaults for mercury.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/mercury/internal/keys"
	"github.com/zjrosen/mercury/internal/terminal"
)

// Config holds all configuration options for mercury.
type Config struct {
	Terminal TerminalConfig `mapstructure:"terminal" yaml:"terminal"`
	Keys     KeysConfig     `mapstructure:"keys" yaml:"keys"`
	UI       UIConfig       `mapstructure:"ui" yaml:"ui"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// TerminalConfig selects how the screen is driven.
type TerminalConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"` // "tcell" (default) or "ansi"
}

// KeysConfig holds keybinding overrides.
type KeysConfig struct {
	Quit []string `mapstructure:"quit" yaml:"quit"` // e.g. ["ctrl+p", "ctrl+q"]
}

// UIConfig holds the strings drawn by the viewer.
type UIConfig struct {
	// Marker is drawn at the start of lines past the end of the document.
	// Must be exactly one cell wide.
	Marker string `mapstructure:"marker" yaml:"marker"`

	// Farewell is printed on the final frame after quitting.
	Farewell string `mapstructure:"farewell" yaml:"farewell"`

	// ShowWelcome toggles the banner shown for an empty document.
	ShowWelcome bool `mapstructure:"show_welcome" yaml:"show_welcome"`
}

// LogConfig holds debug logging options.
type LogConfig struct {
	Debug bool   `mapstructure:"debug" yaml:"debug"`
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn, error
}

// DefaultLogFile returns the default debug log path (~/.mercury/debug.log).
func DefaultLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "mercury-debug.log"
	}
	return filepath.Join(home, ".mercury", "debug.log")
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Terminal: TerminalConfig{
			Backend: terminal.BackendTcell,
		},
		Keys: KeysConfig{
			Quit: slices.Clone(keys.DefaultQuitKeys),
		},
		UI: UIConfig{
			Marker:      "|",
			Farewell:    "Bye Now!",
			ShowWelcome: true,
		},
		Log: LogConfig{
			Debug: false,
			File:  DefaultLogFile(),
			Level: "debug",
		},
	}
}

// ValidateTerminal checks the backend name.
func ValidateTerminal(tc TerminalConfig) error {
	if tc.Backend == "" {
		return nil
	}
	if !slices.Contains(terminal.Backends(), tc.Backend) {
		return fmt.Errorf("terminal.backend must be one of %v, got %q", terminal.Backends(), tc.Backend)
	}
	return nil
}

// ValidateKeys checks keybinding overrides.
func ValidateKeys(kc KeysConfig) error {
	if err := keys.ValidateQuitKeys(kc.Quit); err != nil {
		return fmt.Errorf("keys: %w", err)
	}
	return nil
}

// ValidateUI checks the drawn strings.
func ValidateUI(ui UIConfig) error {
	if w := runewidth.StringWidth(ui.Marker); w != 1 {
		return fmt.Errorf("ui.marker must be one cell wide, got %q (width %d)", ui.Marker, w)
	}
	return nil
}

// ValidateLog checks logging options.
func ValidateLog(lc LogConfig) error {
	switch lc.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", lc.Level)
	}
	if lc.Debug && lc.File == "" {
		return fmt.Errorf("log.file is required when log.debug is enabled")
	}
	return nil
}

// Validate runs every section validator.
func Validate(c Config) error {
	if err := ValidateTerminal(c.Terminal); err != nil {
		return err
	}
	if err := ValidateKeys(c.Keys); err != nil {
		return err
	}
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	return ValidateLog(c.Log)
}

// QuitKeys returns the configured quit keys, falling back to the defaults.
func (c Config) QuitKeys() []string {
	if len(c.Keys.Quit) == 0 {
		return keys.DefaultQuitKeys
	}
	return c.Keys.Quit
}

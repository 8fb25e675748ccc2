package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/mercury/internal/config"
	"github.com/zjrosen/mercury/internal/document"
	"github.com/zjrosen/mercury/internal/editor"
	"github.com/zjrosen/mercury/internal/terminal"
)

func fixedSize(w, h int) func() terminal.Size {
	return func() terminal.Size { return terminal.Size{Width: w, Height: h} }
}

func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

// executeRoot runs the root command with args and returns what it printed.
// Global viper and flag state is reset afterwards.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		viper.Reset()
		resetFlags(rootCmd.PersistentFlags())
		resetFlags(rootCmd.Flags())
		cfg = config.Config{}
		configErr = nil
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLoadDocument_NoArgsIsEmpty(t *testing.T) {
	doc := loadDocument(nil)
	require.True(t, doc.IsEmpty())
}

func TestLoadDocument_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0o644))

	doc := loadDocument([]string{path})
	require.Equal(t, 2, doc.Len())
	require.Equal(t, path, doc.Path())
}

func TestLoadDocument_MissingFileFallsBackToEmpty(t *testing.T) {
	doc := loadDocument([]string{filepath.Join(t.TempDir(), "nope.txt")})
	require.True(t, doc.IsEmpty())
}

func TestEditorOptions_MapsConfig(t *testing.T) {
	c := config.Defaults()
	c.Keys.Quit = []string{"q"}
	c.UI.Marker = "~"
	c.UI.Farewell = "later"
	c.UI.ShowWelcome = false

	opts := editorOptions(c)
	require.Equal(t, []string{"q"}, opts.Keys.Quit.Keys())
	require.Equal(t, "~", opts.Marker)
	require.Equal(t, "later", opts.Farewell)
	require.False(t, opts.ShowWelcome)
}

func TestEditorOptions_EmptyQuitKeysUseDefault(t *testing.T) {
	c := config.Defaults()
	c.Keys.Quit = nil

	opts := editorOptions(c)
	require.Equal(t, []string{"ctrl+p"}, opts.Keys.Quit.Keys())
}

func TestRunEditor_QuitRestoresTerminal(t *testing.T) {
	var out bytes.Buffer
	term := terminal.NewANSI(strings.NewReader("j\x10"), &out, fixedSize(20, 5))

	err := runEditor(context.Background(), term, document.FromLines("a", "b"), editorOptions(config.Defaults()))
	require.NoError(t, err)

	got := out.String()
	require.Contains(t, got, "Bye Now!")
	require.True(t, strings.HasSuffix(got, ansi.ShowCursor+ansi.ResetModeAltScreenSaveCursor),
		"terminal restored last")
}

func TestRunEditor_ClosedInputIsFatal(t *testing.T) {
	var out bytes.Buffer
	term := terminal.NewANSI(strings.NewReader(""), &out, fixedSize(20, 5))

	err := runEditor(context.Background(), term, document.Empty(), editorOptions(config.Defaults()))

	var fatal *editor.FatalError
	require.ErrorAs(t, err, &fatal)
	require.ErrorIs(t, err, terminal.ErrClosed)
	require.Contains(t, out.String(), ansi.EraseEntireScreen, "screen cleared before reporting")
}

func TestRunEditor_CancelledContextQuits(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	// A pipe that never delivers input, so only the interrupt can end the loop.
	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pw.Close()
		_ = pr.Close()
	})
	term := terminal.NewANSI(pr, &out, fixedSize(20, 5))

	require.NoError(t, runEditor(ctx, term, document.Empty(), editorOptions(config.Defaults())))
	require.Contains(t, out.String(), "Bye Now!")
}

func TestRoot_RejectsTwoFiles(t *testing.T) {
	_, err := executeRoot(t, "a.txt", "b.txt")
	require.Error(t, err)
	require.Contains(t, err.Error(), "accepts at most 1 arg")
}

func TestConfigShow_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := executeRoot(t, "config", "show")
	require.NoError(t, err)
	require.Contains(t, out, "backend: tcell")
	require.Contains(t, out, "- ctrl+p")
	require.Contains(t, out, "farewell: Bye Now!")
}

func TestConfigShow_FileEnvAndFlagPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("terminal:\n  backend: ansi\nui:\n  marker: \"~\"\n"), 0o644))
	t.Setenv("MERCURY_UI_FAREWELL", "ciao")

	out, err := executeRoot(t, "config", "show", "--config", path, "--debug")
	require.NoError(t, err)
	require.Contains(t, out, "backend: ansi")
	require.Regexp(t, `marker: ['"]~['"]`, out)
	require.Contains(t, out, "farewell: ciao")
	require.Contains(t, out, "debug: true")
}

func TestConfigShow_MissingExplicitFileErrors(t *testing.T) {
	_, err := executeRoot(t, "config", "show", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading config")
}

func TestConfigInit_WritesTemplateOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mercury", "config.yaml")

	out, err := executeRoot(t, "config", "init", path)
	require.NoError(t, err)
	require.Contains(t, out, "Wrote "+path)
	require.FileExists(t, path)

	_, err = executeRoot(t, "config", "init", path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")
}

func TestRunApp_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("terminal:\n  backend: curses\n"), 0o644))

	_, err := executeRoot(t, "--config", path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid configuration")
}

func TestRunApp_UsesConfiguredBackend(t *testing.T) {
	var gotBackend string
	var out bytes.Buffer
	openTerminal = func(backend string) (terminal.Terminal, error) {
		gotBackend = backend
		return terminal.NewANSI(strings.NewReader("\x10"), &out, fixedSize(20, 5)), nil
	}
	t.Cleanup(func() { openTerminal = terminal.Open })

	t.Chdir(t.TempDir())
	_, err := executeRoot(t, "--backend", "ansi")
	require.NoError(t, err)
	require.Equal(t, "ansi", gotBackend)
	require.Contains(t, out.String(), "Mercury Editor. v dev")
}

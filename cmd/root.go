package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/mercury/internal/config"
	"github.com/zjrosen/mercury/internal/document"
	"github.com/zjrosen/mercury/internal/editor"
	"github.com/zjrosen/mercury/internal/keys"
	"github.com/zjrosen/mercury/internal/log"
	"github.com/zjrosen/mercury/internal/terminal"
)

var (
	version   = "dev"
	cfgFile   string
	cfg       config.Config
	configErr error

	// openTerminal is replaced in tests.
	openTerminal = terminal.Open
)

var rootCmd = &cobra.Command{
	Use:          "mercury [file]",
	Short:        "A minimal terminal text viewer",
	Long:         `Mercury opens a text file read-only in the terminal and lets you move around it with the arrow keys, h/j/k/l, PgUp/PgDn and Home/End. Press ctrl+p to quit.`,
	Version:      version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/mercury/config.yaml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false,
		"write a debug log (also MERCURY_DEBUG=1)")
	rootCmd.PersistentFlags().String("log-file", "",
		"debug log path (default: ~/.mercury/debug.log)")
	rootCmd.Flags().String("backend", "",
		"terminal backend: tcell or ansi")
}

func initConfig() {
	// Bind flags to viper
	_ = viper.BindPFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag("terminal.backend", rootCmd.Flags().Lookup("backend"))

	defaults := config.Defaults()
	viper.SetDefault("terminal.backend", defaults.Terminal.Backend)
	viper.SetDefault("keys.quit", defaults.Keys.Quit)
	viper.SetDefault("ui.marker", defaults.UI.Marker)
	viper.SetDefault("ui.farewell", defaults.UI.Farewell)
	viper.SetDefault("ui.show_welcome", defaults.UI.ShowWelcome)
	viper.SetDefault("log.debug", defaults.Log.Debug)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("log.level", defaults.Log.Level)

	viper.SetEnvPrefix("MERCURY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	_ = viper.BindEnv("log.debug", "MERCURY_DEBUG", "MERCURY_LOG_DEBUG")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .mercury/config.yaml (current directory)
		// 2. ~/.config/mercury/config.yaml (user config)
		if _, err := os.Stat(".mercury/config.yaml"); err == nil {
			viper.SetConfigFile(".mercury/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "mercury"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	configErr = nil
	if err := viper.ReadInConfig(); err != nil {
		// No config file is fine; everything has a default.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configErr = fmt.Errorf("reading config: %w", err)
		}
	}

	cfg = config.Config{}
	if err := viper.Unmarshal(&cfg); err != nil && configErr == nil {
		configErr = fmt.Errorf("decoding config: %w", err)
	}
}

func runApp(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Log.Debug {
		closeLog, err := log.OpenFile(cfg.Log.File, "mercury", log.ParseLevel(cfg.Log.Level))
		if err != nil {
			return err
		}
		defer closeLog()
	}
	log.Info(log.CatConfig, "Configuration loaded",
		"file", viper.ConfigFileUsed(), "backend", cfg.Terminal.Backend)

	doc := loadDocument(args)

	term, err := openTerminal(cfg.Terminal.Backend)
	if err != nil {
		log.ErrorErr(log.CatTerminal, "Failed to open terminal", err, "backend", cfg.Terminal.Backend)
		return fmt.Errorf("opening terminal: %w", err)
	}

	return runEditor(cmd.Context(), term, doc, editorOptions(cfg))
}

// loadDocument opens the file named on the command line. A file that cannot
// be loaded is logged and replaced by an empty document.
func loadDocument(args []string) *document.Document {
	if len(args) == 0 {
		return document.Empty()
	}
	doc, err := document.Open(args[0])
	if err != nil {
		log.Warn(log.CatDocument, "Cannot load document, starting empty", "path", args[0], "error", err)
		return document.Empty()
	}
	log.Info(log.CatDocument, "Loaded document", "path", args[0], "rows", doc.Len())
	return doc
}

func editorOptions(c config.Config) editor.Options {
	km := keys.DefaultKeyMap().WithQuitKeys(c.QuitKeys())
	log.Debug(log.CatKeys, "Quit keys bound", "keys", strings.Join(km.Quit.Keys(), ","))
	return editor.Options{
		Version:     version,
		Keys:        km,
		Marker:      c.UI.Marker,
		Farewell:    c.UI.Farewell,
		ShowWelcome: c.UI.ShowWelcome,
	}
}

// runEditor runs the render loop on term and always restores the terminal
// afterwards: on normal quit, on a fatal I/O error and on panic. SIGTERM,
// SIGHUP and SIGINT end the loop the same way the quit key does.
func runEditor(ctx context.Context, term terminal.Terminal, doc *document.Document, opts editor.Options) (err error) {
	defer func() {
		if r := recover(); r != nil {
			term.ClearScreen()
			_ = term.Flush()
			_ = term.Close()
			panic(r)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGHUP, os.Interrupt)
	defer stop()
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			log.Info(log.CatTerminal, "Signal received, interrupting")
			term.Interrupt()
		case <-done:
		}
	}()

	runErr := editor.New(term, doc, opts).Run()
	if runErr != nil {
		// Leave a clean screen behind before the error is printed.
		term.ClearScreen()
		_ = term.Flush()
	}
	if closeErr := term.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}
	return runErr
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version shown in the welcome banner and the full
// version string reported by --version (called from main with ldflags).
func SetVersion(short, full string) {
	version = short
	rootCmd.Version = full
}

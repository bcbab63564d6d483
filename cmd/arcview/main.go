package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"arcview/internal/app"
)

// flags holds values bound to the persistent command line flags. They are
// applied over the loaded config only when set.
type flags struct {
	configPath string
	dataDir    string
	remoteURL  string
	listPath   string
	puzzle     string
	logPath    string
	logLevel   string
	style      string
	statePath  string
	noHistory  bool
	noWatch    bool
	noDigits   bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "arcview:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "arcview",
		Short: "Browse and solve ARC grid puzzles in the terminal",
		Long: `arcview shows the training examples of an ARC puzzle side by side and
lets you paint your answer for the test input with mouse or keyboard.

Puzzles come from a directory of <id>.json files (--data) or from a server
exposing the list endpoint and /data/<id>.json (--remote).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.config(cmd)
			if err != nil {
				return err
			}
			return runViewer(cmd.Context(), cfg)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/arcview/config.yaml)")
	pf.StringVar(&f.dataDir, "data", "", "directory of <id>.json puzzle documents")
	pf.StringVar(&f.remoteURL, "remote", "", "base URL of a puzzle server")
	pf.StringVar(&f.listPath, "list-path", "", "path of the list endpoint")
	pf.StringVar(&f.puzzle, "puzzle", "", "puzzle to open first")
	pf.StringVar(&f.logPath, "log-file", "", "write JSON logs to this file")
	pf.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&f.style, "style", "", "studio or retro_terminal")
	pf.StringVar(&f.statePath, "state", "", "history database path")
	pf.BoolVar(&f.noHistory, "no-history", false, "do not record visits and submissions")
	pf.BoolVar(&f.noWatch, "no-watch", false, "do not watch the data directory for new puzzles")
	pf.BoolVar(&f.noDigits, "no-digits", false, "hide color digits inside cells")

	root.AddCommand(newServeCmd(f), newListCmd(f), newCheckCmd(f))
	return root
}

// config loads the file and environment layers, applies explicitly set
// flags and validates the result.
func (f *flags) config(cmd *cobra.Command) (app.Config, error) {
	cfg, err := app.LoadConfig(f.configPath)
	if err != nil {
		return cfg, err
	}
	set := cmd.Flags().Changed
	if set("data") {
		cfg.DataDir = f.dataDir
		if !set("remote") {
			cfg.RemoteURL = ""
		}
	}
	if set("remote") {
		cfg.RemoteURL = f.remoteURL
		if !set("data") {
			cfg.DataDir = ""
		}
	}
	if set("list-path") {
		cfg.ListPath = f.listPath
	}
	if set("puzzle") {
		cfg.StartPuzzle = f.puzzle
	}
	if set("log-file") {
		cfg.LogPath = f.logPath
	}
	if set("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if set("style") {
		cfg.UI.StyleVariant = f.style
	}
	if set("state") {
		cfg.StatePath = f.statePath
	}
	if f.noHistory {
		cfg.History = false
	}
	if f.noWatch {
		cfg.Watch = false
	}
	if f.noDigits {
		cfg.UI.Digits = false
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runViewer(ctx context.Context, cfg app.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run(ctx)
}

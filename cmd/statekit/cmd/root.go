// Package cmd implements the statekit CLI commands.
//
// The root command dispatches to theme (show, select, mode, toggle, watch)
// and animate. Every command resolves statekit.yaml, opens the configured
// store and builds a fresh registry for the duration of the run.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-drift/statekit/pkg/theme"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// SystemBrightnessEnv supplies the platform brightness when --system is unset.
const SystemBrightnessEnv = "STATEKIT_SYSTEM_BRIGHTNESS"

type globalOptions struct {
	dir     string
	store   string
	system  string
	verbose bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "statekit",
		Short: "Inspect and drive persisted state from the terminal",
		Long: `statekit reads the project's statekit.yaml, opens the configured store
(memory, sqlite, badger or yaml) and exposes the theme selection and an
animation preview on top of it.

Use "statekit <command> --help" for more information about a command.`,
		Version:       fmt.Sprintf("%s (built %s)", Version, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.dir, "dir", ".", "project directory, searched upward for statekit.yaml or go.mod")
	pf.StringVar(&opts.store, "store", "", "override store.driver (memory, sqlite, badger or yaml)")
	pf.StringVar(&opts.system, "system", "", "platform brightness for system mode: light or dark (default $"+SystemBrightnessEnv+")")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug records")

	root.AddCommand(newThemeCmd(opts), newAnimateCmd(opts))
	return root
}

// Execute runs the CLI with os.Args.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

func (o *globalOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *globalOptions) systemBrightness() (theme.Brightness, error) {
	raw := o.system
	if raw == "" {
		raw = os.Getenv(SystemBrightnessEnv)
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "light":
		return theme.BrightnessLight, nil
	case "dark":
		return theme.BrightnessDark, nil
	}
	return theme.BrightnessLight, fmt.Errorf("invalid system brightness %q (use light or dark)", raw)
}

// Package cli wires configuration, storage and the interactive front ends
// into the tally command tree.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/tally/internal/config"
	"github.com/idilsaglam/tally/internal/logging"
	"github.com/idilsaglam/tally/internal/ui"
)

// app carries what every subcommand needs once the root flags are parsed.
type app struct {
	in          io.Reader
	out, errOut io.Writer

	cfgFile string
	dataDir string
	theme   string
	verbose bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand builds the command tree reading from in and writing to out
// and errOut.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "tally",
		Short: "Tasks and inventory kept in plain text files",
		Long: `tally keeps two small record sets on disk:

  tasks      - to-do items with a due date and a priority
  inventory  - products with a category, price and stock level

Run a subcommand without arguments for its numbered menu.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./tally.toml, then ~/.config/tally/config.toml)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "directory holding the data files")
	root.PersistentFlags().StringVar(&a.theme, "theme", "", "colour theme: classic, neon or mono")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose logging")

	root.AddCommand(
		a.tasksCommand(),
		a.inventoryCommand(),
		a.tuiCommand(),
		versionCommand(),
	)
	return root
}

// Execute runs tally against the process's standard streams.
func Execute() error {
	root := NewRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		ui.Fail(os.Stderr, err.Error())
		return err
	}
	return nil
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, path, err := config.Discover(a.cfgFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if a.dataDir != "" {
		cfg.General.DataDir = a.dataDir
	}
	if a.theme != "" {
		cfg.General.Theme = a.theme
	}
	if a.verbose {
		cfg.General.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.cfg = cfg
	a.logger = logging.NewLogger(a.errOut, cfg.General.LogLevel)
	ui.SetTheme(cfg.General.Theme)

	a.logger.Debug("configuration loaded",
		slog.String("path", path),
		slog.String("format", cfg.Storage.Format),
		slog.String("data_dir", cfg.General.DataDir))
	return nil
}

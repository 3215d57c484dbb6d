package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ownership/internal/config"
	"ownership/internal/diag"
	"ownership/internal/version"
)

// app holds state shared by every subcommand of one invocation.
type app struct {
	verbose    bool
	color      string
	configPath string

	cfg    config.Config
	logger *zap.Logger
}

// main builds the command tree and exits with status 1 when it fails.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), logger: zap.NewNop()}
	runOpts := &runOptions{}

	rootCmd := &cobra.Command{
		Use:   "ownership",
		Short: "Walk through copy, move and borrow rules",
		Long: `ownership prints a four-part walkthrough of value ownership: scalar copies,
buffer moves, passing values through functions and borrowing them by reference.

Run without arguments to print the whole walkthrough.`,
		Version:       version.Version,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLessons(cmd, a, runOpts)
		},
	}
	addRunFlags(rootCmd, runOpts)

	rootCmd.PersistentFlags().StringVar(&a.color, "color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to ownership.toml (default: search upwards from the working directory)")

	rootCmd.AddCommand(newRunCmd(a))
	rootCmd.AddCommand(newExplainCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))
	return rootCmd
}

// init builds the logger and loads the config file. Config diagnostics are
// printed to stderr in short form.
func (a *app) init(cmd *cobra.Command) error {
	zcfg := zap.NewProductionConfig()
	if a.verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger

	if cmd.Context() == nil {
		cmd.SetContext(context.Background())
	}

	path := a.configPath
	if path == "" {
		found, ok, err := config.Find(".")
		if err != nil {
			return err
		}
		if !ok {
			a.logger.Debug("no config file found", zap.String("name", config.FileName))
			return nil
		}
		path = found
	}

	bag := diag.NewBag(32)
	cfg, loadErr := config.Load(path, diag.BagReporter{Bag: bag})
	printConfigDiagnostics(cmd.ErrOrStderr(), bag)
	if loadErr != nil {
		return loadErr
	}
	a.cfg = cfg
	a.logger.Debug("config loaded", zap.String("path", path), zap.Int("warnings", bag.Len()))
	return nil
}

func printConfigDiagnostics(w io.Writer, bag *diag.Bag) {
	if bag.Len() == 0 {
		return
	}
	fmt.Fprintln(w, diag.FormatShortDiagnostics(bag.Items(), false))
}

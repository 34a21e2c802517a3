// Package cmd contains the CLI commands for rxdemo.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/xinjiayu/rxcore"
	"github.com/xinjiayu/rxcore/internal/config"
)

var (
	// Version info (set from main)
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// options are the global flags shared by every subcommand.
type options struct {
	cfgFile string
	verbose bool
}

// Execute builds the root command and runs it.
func Execute() error {
	return newRootCmd().Execute()
}

// SetVersionInfo sets version information from the main package.
func SetVersionInfo(v, bt, gc string) {
	version = v
	buildTime = bt
	gitCommit = gc
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "rxdemo",
		Short: "Walk through the rxcore examples",
		Long: `rxdemo runs the rxcore example walkthrough: creating observables,
disposing subscriptions, transforming and combining sequences, and the
publish, behavior and replay subjects.

Each example prints the events it observes, one per line.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default: ./rxdemo.yaml or ~/.rxdemo/rxdemo.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newRunCmd(opts))
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig reads the configuration and installs the logger it describes.
func loadConfig(opts *options, stderr io.Writer) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	log := newLogger(stderr, cfg.Logging, opts.verbose)
	rxcore.SetLogger(log)

	log.Debug().
		Str("config", opts.cfgFile).
		Strs("examples", cfg.Demo.Examples).
		Msg("configuration loaded")

	return cfg, log, nil
}

// newLogger builds the process logger from the logging config.
func newLogger(w io.Writer, cfg config.LoggingConfig, verbose bool) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}

	if w == nil {
		w = os.Stderr
	}
	if cfg.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// newVersionCmd displays version information.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rxdemo %s\n", version)
			fmt.Fprintf(out, "  Build time: %s\n", buildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", gitCommit)
		},
	}
}

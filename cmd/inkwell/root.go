package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
)

type rootOptions struct {
	noColor bool
	verbose bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "inkwell",
		Short:         "Dive deep into Stylus contract gas analysis",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
			level := zerolog.WarnLevel
			if opts.verbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")

	cmd.AddCommand(newDipCommand(opts))
	cmd.AddCommand(newInstrumentCommand(opts))
	return cmd
}

func newLogger(opts *rootOptions) zerolog.Logger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: opts.noColor}
	return zerolog.New(writer).With().Timestamp().Logger()
}

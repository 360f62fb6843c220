// Package cli implements the vsim command tree.
//
package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
//
type RootOptions struct {
	Verbose bool

	log *slog.Logger
}

// Logger returns the command logger. Records go to w, at debug level in
// verbose mode and info level otherwise.
//
func (o *RootOptions) Logger(w io.Writer) *slog.Logger {
	if o.log == nil {
		lvl := slog.LevelInfo
		if o.Verbose {
			lvl = slog.LevelDebug
		}
		o.log = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	}
	return o.log
}

// NewRootCommand creates the root command for the vsim CLI.
//
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "vsim",
		Short: "vsim - combinational circuit simulator",
		Long: `Simulate combinational circuit models until their signals settle.

Models come from the built-in library (see "vsim list"). Test vectors are
YAML files listing input values and expected outputs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/db47h/vsim"
	"github.com/db47h/vsim/hwlib"
)

// CheckOptions holds flags for the check command.
//
type CheckOptions struct {
	*RootOptions
	Set   []string
	Debug bool
}

// NewCheckCommand creates the check command.
//
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <design>",
		Short: "Evaluate a model once and print its signals",
		Long: `Set the inputs of a model, evaluate it once and print the value of every
signal.

Example:
  vsim check FullAdder --set I0=1 --set CIN=1
  vsim check Adder8 --set a=0x7f --set b=1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "set input `name=value`, may be repeated")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "check input widths")

	return cmd
}

func parseAssign(s string) (string, uint64, error) {
	i := strings.IndexByte(s, '=')
	if i <= 0 {
		return "", 0, errors.Errorf("invalid assignment %q, expected name=value", s)
	}
	v, err := strconv.ParseUint(s[i+1:], 0, 64)
	if err != nil {
		return "", 0, errors.Errorf("invalid value in %q", s)
	}
	return s[:i], v, nil
}

func runCheck(opts *CheckOptions, design string, cmd *cobra.Command) error {
	log := opts.Logger(cmd.ErrOrStderr())
	m, err := hwlib.New(design)
	if err != nil {
		return err
	}
	c, err := vsim.NewCircuit(m, vsim.WithDebug(opts.Debug), vsim.WithLogger(log))
	if err != nil {
		return err
	}
	for _, s := range opts.Set {
		name, v, err := parseAssign(s)
		if err != nil {
			return err
		}
		if err = c.SetName(name, v); err != nil {
			return err
		}
	}
	if err = c.Eval(); err != nil {
		return err
	}
	log.Debug("evaluated", "circuit", c.Name(), "iterations", c.Outcome().Iterations)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for n, s := range c.Signals() {
		fmt.Fprintf(w, "%s\t%s[%d]\t%#x\n", s.Name, s.Kind, s.Width, c.Get(n))
	}
	return w.Flush()
}

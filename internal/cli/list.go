package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/db47h/vsim/hwlib"
)

// NewListCommand creates the list command.
//
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available models",
		Long: `List the models of the built-in library.

Parametric models are shown with an <N> suffix: replace it with the size,
as in Adder16 or Ring3.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, n := range hwlib.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

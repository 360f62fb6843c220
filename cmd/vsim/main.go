// Command vsim runs combinational circuit models from the hwlib library
// against test vector files.
//
//	vsim list
//	vsim run hwtest/testdata/fulladder.yaml --trace fa.vcd
//	vsim check Adder4 --set a=3 --set b=5
//
package main

import (
	"fmt"
	"os"

	"github.com/db47h/vsim/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "vsim:", err)
		os.Exit(1)
	}
}

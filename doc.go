/*
Package vsim provides a small simulation kernel for combinational logic.

A circuit is described by a Model: a set of named signals, each with a width
of 1 to 64 bits, and an Eval function computing outputs from inputs. The host
program mounts the model into a Circuit, sets inputs, calls Eval and reads
outputs:

	c, err := vsim.NewCircuit(hwlib.NewFullAdder())
	if err != nil {
		// handle error
	}
	i0, i1, cin := c.Pin("I0"), c.Pin("I1"), c.Pin("CIN")
	c.Set(i0, 1)
	c.Set(i1, 1)
	c.Set(cin, 0)
	if err := c.Eval(); err != nil {
		// non-convergence is fatal
	}
	sum, carry := c.Get(c.Pin("O")), c.Get(c.Pin("COUT"))

Eval repeatedly evaluates the model until no signal changes. Combinational
logic without feedback settles after a single pass; logic that never settles
(for example an unintended combinational loop) is reported after a bounded
number of passes with a *NonConvergenceError.

There is no notion of time in the kernel. Hosts that record waveforms (see
package vcd) keep their own time counter.

*/
package vsim

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing circuits.
//
package hwtest

import (
	"fmt"
	"io"

	"github.com/db47h/vsim"
	"github.com/db47h/vsim/vcd"
	"github.com/pkg/errors"
)

// Mismatch is returned by Bench.Expect when an output does not hold the
// expected value.
//
type Mismatch struct {
	Port     string // circuit.signal
	Got      uint64
	Expected uint64
	Index    int // check number, counting from 0
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("port %s: got %#x, expected %#x (check %d)", m.Port, m.Got, m.Expected, m.Index)
}

// Bench drives a circuit: it owns the simulation time counter and the
// optional waveform trace.
//
// Bench implements vsim.Tracer and attaches itself to the circuit, so that a
// non-convergent circuit gets its last state dumped to the trace.
//
type Bench struct {
	C    *vsim.Circuit
	Time uint64

	trace  *vcd.Writer
	checks int
}

// NewBench mounts m into a new circuit.
//
func NewBench(m vsim.Model, opts ...vsim.Option) (*Bench, error) {
	b := new(Bench)
	c, err := vsim.NewCircuit(m, append(opts, vsim.WithTracer(b))...)
	if err != nil {
		return nil, err
	}
	b.C = c
	return b, nil
}

// Trace starts a VCD trace of all the circuit's signals to w.
//
func (b *Bench) Trace(w io.Writer, opts ...vcd.Option) error {
	if b.trace != nil {
		return errors.New("trace already started")
	}
	tw, err := vcd.NewWriter(w, b.C.Name(), b.C.Store(), opts...)
	if err != nil {
		return err
	}
	b.trace = tw
	return nil
}

// Snapshot advances the time by one and dumps all signals to the trace, if
// any. It implements vsim.Tracer.
//
func (b *Bench) Snapshot() error {
	b.Time++
	if b.trace == nil {
		return nil
	}
	return b.trace.Dump(b.Time)
}

// Close closes the trace, if any. It implements vsim.Tracer.
//
func (b *Bench) Close() error {
	if b.trace == nil {
		return nil
	}
	return b.trace.Close()
}

// Set sets the named input.
//
func (b *Bench) Set(name string, v uint64) error {
	return b.C.SetName(name, v)
}

// Step evaluates the circuit then takes a snapshot.
//
func (b *Bench) Step() error {
	if err := b.C.Eval(); err != nil {
		return err
	}
	return b.Snapshot()
}

// Expect checks the value of the named signal. On mismatch, it dumps one more
// time step so that the trace shows the current values, closes the trace and
// returns a *Mismatch.
//
func (b *Bench) Expect(name string, want uint64) error {
	got, err := b.C.GetName(name)
	if err != nil {
		return err
	}
	i := b.checks
	b.checks++
	if got == want {
		return nil
	}
	if err := b.Snapshot(); err != nil {
		return err
	}
	if err := b.Close(); err != nil {
		return err
	}
	return &Mismatch{Port: b.C.Name() + "." + name, Got: got, Expected: want, Index: i}
}

// Final finalizes the circuit and closes the trace.
//
func (b *Bench) Final() error {
	b.C.Final()
	return b.Close()
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vsim

import (
	"log/slog"

	"github.com/pkg/errors"
)

// A Tracer records the signal values of a circuit, usually to a waveform file.
//
// The circuit itself only calls a Tracer on the non-convergence path: it takes
// one last Snapshot of the failing state, then closes the trace. Regular
// snapshots are the business of the host, which owns the simulation time.
//
type Tracer interface {
	Snapshot() error
	Close() error
}

// Outcome describes the result of the last call to Circuit.Eval.
//
type Outcome struct {
	Converged  bool
	Iterations int // settle passes in the final phase
	Phase      Phase
	Err        error
}

// Stats holds evaluation counters.
//
type Stats struct {
	Evals  uint64 // calls to Eval
	Passes uint64 // settle passes, including the initial settle loop
}

// Circuit is a runnable combinational circuit simulation.
//
// A Circuit is not safe for concurrent use. Distinct circuits share no state
// and may be evaluated concurrently.
//
type Circuit struct {
	m   Model
	st  *Store
	cfg Config
	tr  Tracer
	log *slog.Logger

	initialized bool
	finalized   bool
	fatal       error
	out         Outcome
	stats       Stats
	snap        []uint64
}

// NewCircuit mounts m into a new circuit.
//
// All the model's signals are declared during the call. Declaration errors
// (duplicate names, invalid widths) are reported here; no evaluation happens
// until the first call to Eval.
//
func NewCircuit(m Model, opts ...Option) (*Circuit, error) {
	if m == nil {
		return nil, errors.New("nil model")
	}
	c := &Circuit{
		m:   m,
		st:  newStore(),
		cfg: DefaultConfig(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.cfg.MaxIterations <= 0 {
		c.cfg.MaxIterations = DefaultMaxIterations
	}
	if c.log == nil {
		c.log = discardLogger()
	}
	c.log = c.log.With("circuit", m.Name())

	if err := m.Mount(&Socket{st: c.st}); err != nil {
		return nil, errors.Wrap(err, "failed to mount "+m.Name())
	}
	if c.st.Len() == 0 {
		return nil, errors.New(m.Name() + ": no signals declared")
	}
	return c, nil
}

// Name returns the model name.
//
func (c *Circuit) Name() string { return c.m.Name() }

// Config returns the circuit configuration.
//
func (c *Circuit) Config() Config { return c.cfg }

// Store returns the circuit's signal store. It is intended for trace
// collaborators; hosts should use Get and Set.
//
func (c *Circuit) Store() *Store { return c.st }

// Signals returns the descriptors of all signals, in pin number order.
//
func (c *Circuit) Signals() []Signal {
	return append([]Signal(nil), c.st.sigs...)
}

// Pin returns the pin number of the named signal.
// This function panics if the signal does not exist.
//
func (c *Circuit) Pin(name string) int {
	n, ok := c.st.Lookup(name)
	if !ok {
		panic("circuit " + c.Name() + ": signal " + name + " does not exist")
	}
	return n
}

// Lookup returns the pin number of the named signal.
//
func (c *Circuit) Lookup(name string) (int, bool) { return c.st.Lookup(name) }

// Get returns the value of signal n.
//
func (c *Circuit) Get(n int) uint64 { return c.st.v[n] }

// Set sets input signal n to v. Set panics if n is not an input.
//
// In debug mode, v is stored as is and checked against the signal width by
// the next call to Eval. Otherwise it is truncated to the signal width.
//
func (c *Circuit) Set(n int, v uint64) {
	if c.st.Kind(n) != Input {
		panic("circuit " + c.Name() + ": signal " + c.st.Name(n) + " is not an input")
	}
	if c.cfg.Debug {
		c.st.setRaw(n, v)
		return
	}
	c.st.setRaw(n, v&c.st.masks[n])
}

// GetName returns the value of the named signal.
//
func (c *Circuit) GetName(name string) (uint64, error) {
	n, ok := c.st.Lookup(name)
	if !ok {
		return 0, errors.Errorf("%s: unknown signal %q", c.Name(), name)
	}
	return c.Get(n), nil
}

// SetName sets the value of the named input signal.
//
func (c *Circuit) SetName(name string, v uint64) error {
	n, ok := c.st.Lookup(name)
	if !ok {
		return errors.Errorf("%s: unknown signal %q", c.Name(), name)
	}
	if c.st.Kind(n) != Input {
		return errors.Errorf("%s: signal %q is not an input", c.Name(), name)
	}
	c.Set(n, v)
	return nil
}

// Outcome returns the outcome of the last call to Eval.
//
func (c *Circuit) Outcome() Outcome { return c.out }

// Stats returns the evaluation counters.
//
func (c *Circuit) Stats() Stats { return c.stats }

// Final runs the model's end of simulation logic. Calling Final more than
// once has no effect. Eval returns an error once the circuit is finalized.
//
func (c *Circuit) Final() {
	if c.finalized {
		return
	}
	c.finalized = true
	if f, ok := c.m.(Finalizer); ok {
		f.Final(c.st)
	}
	c.log.Debug("final")
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vsim

import (
	"log/slog"
	"math/rand"
)

// Eval evaluates the circuit until it settles.
//
// On the first call, the circuit is initialized: non-input signals are reset
// according to the reset policy, the model's Initial function runs, then an
// initial settle loop brings the circuit to a stable state. After that, and on
// every subsequent call, the model is evaluated until no signal changes.
//
// If the circuit does not settle within the iteration ceiling, Eval runs one
// last diagnostic pass, snapshots and closes the attached Tracer, and returns a
// *NonConvergenceError. This error is fatal: the simulation is invalid from
// that point and every subsequent call returns the same error.
//
// In debug mode, inputs are checked against their declared width first; a
// violation aborts the evaluation with an *OverWidthError.
//
func (c *Circuit) Eval() error {
	if c.fatal != nil {
		return c.fatal
	}
	if c.finalized {
		return errFinalized
	}
	c.stats.Evals++
	if c.cfg.Debug {
		if err := c.checkWidths(); err != nil {
			c.out = Outcome{Err: err}
			c.log.Debug("eval aborted", "err", err)
			return err
		}
	}
	if !c.initialized {
		if err := c.initialize(); err != nil {
			return err
		}
	}
	return c.settle(PhaseSettle)
}

func (c *Circuit) initialize() error {
	// set first: Initial and Settle may call back into the circuit.
	c.initialized = true
	if c.cfg.Reset == ResetRandom {
		rnd := rand.New(rand.NewSource(c.cfg.Seed))
		for n := range c.st.v {
			if c.st.sigs[n].Kind != Input {
				c.st.v[n] = rnd.Uint64() & c.st.masks[n]
			}
		}
	}
	if i, ok := c.m.(Initializer); ok {
		i.Initial(c.st)
	}
	c.log.Debug("initial settle", "reset", c.cfg.Reset)
	return c.settle(PhaseInit)
}

// settle runs passes until one reports no change. The pass that goes past the
// iteration ceiling is a diagnostic pass and always fails.
//
func (c *Circuit) settle(ph Phase) error {
	for i := 1; ; i++ {
		diag := i > c.cfg.MaxIterations
		changed := c.pass(ph, diag)
		if diag {
			return c.fail(ph, i)
		}
		if !changed {
			c.out = Outcome{Converged: true, Iterations: i, Phase: ph}
			c.log.Debug("stable", "phase", ph, "iterations", i)
			return nil
		}
	}
}

func (c *Circuit) pass(ph Phase, diag bool) bool {
	var before []uint64
	if diag || c.cfg.Detector == DetectSnapshot {
		before = c.st.Snapshot(c.snap[:0])
		c.snap = before
	}

	c.st.begin()
	if ph == PhaseInit {
		if s, ok := c.m.(Settler); ok {
			s.Settle(c.st)
		}
	}
	c.m.Eval(c.st)
	changed := c.st.end()
	c.stats.Passes++

	if c.cfg.Detector == DetectSnapshot {
		changed = !c.st.Equal(before)
	}
	if r, ok := c.m.(ChangeRequester); ok && r.ChangeRequest(c.st) {
		changed = true
	}
	if diag {
		c.logUnsettled(before)
	}
	return changed
}

// logUnsettled logs every signal that changed during the diagnostic pass.
// Records are emitted at warning level so that they show without debug
// logging.
//
func (c *Circuit) logUnsettled(before []uint64) {
	for n, v := range c.st.v {
		if before[n] != v {
			c.log.Warn("signal not settling",
				slog.String("signal", c.st.sigs[n].Name),
				slog.Uint64("was", before[n]),
				slog.Uint64("now", v))
		}
	}
}

func (c *Circuit) fail(ph Phase, iterations int) error {
	err := &NonConvergenceError{Circuit: c.Name(), Phase: ph, Iterations: iterations}
	if c.tr != nil {
		if terr := c.tr.Snapshot(); terr != nil {
			c.log.Error("trace snapshot failed", "err", terr)
		}
		if terr := c.tr.Close(); terr != nil {
			c.log.Error("trace close failed", "err", terr)
		}
	}
	c.fatal = err
	c.out = Outcome{Iterations: iterations, Phase: ph, Err: err}
	c.log.Error("did not converge", "phase", ph, "iterations", iterations)
	return err
}

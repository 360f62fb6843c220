package vsim_test

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/db47h/vsim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// toggle returns a model whose wire x flips on every pass while en is set, or
// always if free is true. Each call to its Eval function increments *evals.
//
func toggle(free bool, evals *int) vsim.Model {
	return (&vsim.PartSpec{
		Name:    "toggle",
		Inputs:  "en",
		Outputs: "out",
		Wires:   "x",
		Mount: func(s *vsim.Socket) ([]vsim.Component, error) {
			en, x, out := s.Pin("en"), s.Pin("x"), s.Pin("out")
			return []vsim.Component{
				func(s *vsim.Store) {
					*evals++
					if free || s.Bool(en) {
						s.Set(x, ^s.Get(x))
					}
					s.Set(out, s.Get(x))
				},
			}, nil
		}}).New()
}

type tracer struct {
	snapshots, closes int
}

func (t *tracer) Snapshot() error { t.snapshots++; return nil }
func (t *tracer) Close() error    { t.closes++; return nil }

func TestEval_settleCeiling(t *testing.T) {
	var evals int
	tr := new(tracer)
	c, err := vsim.NewCircuit(toggle(false, &evals), vsim.WithMaxIterations(10), vsim.WithTracer(tr))
	require.NoError(t, err)

	require.NoError(t, c.Eval())
	assert.Equal(t, 2, evals, "initial settle + settle")
	assert.Zero(t, tr.snapshots)

	c.Set(c.Pin("en"), 1)
	evals = 0
	err = c.Eval()
	require.Error(t, err)
	assert.True(t, vsim.IsNonConvergence(err))
	assert.EqualError(t, err, "toggle: model did not converge after 11 iterations")
	assert.Equal(t, 11, evals)
	assert.Equal(t, 1, tr.snapshots)
	assert.Equal(t, 1, tr.closes)

	o := c.Outcome()
	assert.False(t, o.Converged)
	assert.Equal(t, vsim.PhaseSettle, o.Phase)
	assert.Equal(t, 11, o.Iterations)

	// fatal errors are sticky
	c.Set(c.Pin("en"), 0)
	assert.Equal(t, err, c.Eval())
	assert.Equal(t, 11, evals)
	assert.Equal(t, 1, tr.snapshots)
	assert.Equal(t, 1, tr.closes)
}

func TestEval_initCeiling(t *testing.T) {
	var evals int
	c, err := vsim.NewCircuit(toggle(true, &evals), vsim.WithMaxIterations(5))
	require.NoError(t, err)
	assert.Zero(t, evals, "evaluation on construction")

	err = c.Eval()
	require.Error(t, err)
	assert.EqualError(t, err, "toggle: model did not DC converge after 6 iterations")
	ne, ok := err.(*vsim.NonConvergenceError)
	require.True(t, ok)
	assert.Equal(t, vsim.PhaseInit, ne.Phase)
	assert.Equal(t, 6, evals)
}

func TestEval_defaultCeiling(t *testing.T) {
	var evals int
	c, err := vsim.NewCircuit(toggle(true, &evals), vsim.WithMaxIterations(0))
	require.NoError(t, err)
	assert.Equal(t, vsim.DefaultMaxIterations, c.Config().MaxIterations)
	require.Error(t, c.Eval())
	assert.Equal(t, vsim.DefaultMaxIterations+1, evals)
}

func TestEval_unsettledLog(t *testing.T) {
	var (
		buf   bytes.Buffer
		evals int
	)
	log := slog.New(slog.NewTextHandler(&buf, nil))
	c, err := vsim.NewCircuit(toggle(true, &evals), vsim.WithMaxIterations(3), vsim.WithLogger(log))
	require.NoError(t, err)
	require.Error(t, c.Eval())
	out := buf.String()
	assert.Contains(t, out, `msg="signal not settling" circuit=toggle signal=x`)
	assert.Contains(t, out, `msg="signal not settling" circuit=toggle signal=out`)
	assert.Contains(t, out, `level=ERROR msg="did not converge"`)
	assert.NotContains(t, out, "signal=en")
}

// probe is a pass-through model implementing all optional model interfaces.
//
type probe struct {
	A int `vsim:"in[8],a"`
	B int `vsim:"out[8],b"`

	extra int

	evals, inits, settles, requests, finals int
}

func (*probe) Name() string                     { return "probe" }
func (p *probe) Mount(s *vsim.Socket) error     { return vsim.Bind(s, p) }
func (p *probe) Eval(s *vsim.Store)             { p.evals++; s.Set(p.B, s.Get(p.A)) }
func (p *probe) Initial(s *vsim.Store)          { p.inits++ }
func (p *probe) Settle(s *vsim.Store)           { p.settles++ }
func (p *probe) Final(s *vsim.Store)            { p.finals++ }
func (p *probe) ChangeRequest(*vsim.Store) bool { p.requests++; return p.requests <= p.extra }

func TestEval_hooks(t *testing.T) {
	p := &probe{extra: 2}
	c, err := vsim.NewCircuit(p)
	require.NoError(t, err)
	assert.Zero(t, p.inits)

	c.Set(p.A, 42)
	require.NoError(t, c.Eval())
	assert.Equal(t, 1, p.inits)
	assert.Equal(t, 3, p.settles, "Settle runs on initial settle passes only")
	assert.Equal(t, 4, p.evals)
	assert.Equal(t, uint64(42), c.Get(p.B))
	assert.Equal(t, vsim.Outcome{Converged: true, Iterations: 1, Phase: vsim.PhaseSettle}, c.Outcome())

	p.extra = p.requests + 1
	require.NoError(t, c.Eval())
	assert.Equal(t, 1, p.inits)
	assert.Equal(t, 3, p.settles)
	assert.Equal(t, 2, c.Outcome().Iterations)
	assert.Equal(t, vsim.Stats{Evals: 2, Passes: 6}, c.Stats())

	c.Final()
	c.Final()
	assert.Equal(t, 1, p.finals)
	err = c.Eval()
	assert.Error(t, err)
	assert.False(t, vsim.IsNonConvergence(err))
	assert.Equal(t, 6, p.evals)
}

func TestEval_reentrant(t *testing.T) {
	var (
		c     *vsim.Circuit
		inits int
		inner error
	)
	spec := &vsim.PartSpec{
		Name:    "reentrant",
		Inputs:  "a",
		Outputs: "b",
		Mount: func(s *vsim.Socket) ([]vsim.Component, error) {
			a, b := s.Pin("a"), s.Pin("b")
			return []vsim.Component{func(s *vsim.Store) { s.Set(b, s.Get(a)) }}, nil
		},
		Initial: func(s *vsim.Store) {
			inits++
			inner = c.Eval()
		},
	}
	var err error
	c, err = vsim.NewCircuit(spec.New())
	require.NoError(t, err)
	c.Set(c.Pin("a"), 1)
	require.NoError(t, c.Eval())
	require.NoError(t, inner)
	assert.Equal(t, 1, inits)
	assert.Equal(t, uint64(1), c.Get(c.Pin("b")))
}

func inverter(bits string) *vsim.PartSpec {
	return &vsim.PartSpec{
		Name:    "not",
		Inputs:  "a" + bits,
		Outputs: "b" + bits,
		Mount: func(s *vsim.Socket) ([]vsim.Component, error) {
			a, b := s.Pin("a"), s.Pin("b")
			return []vsim.Component{func(s *vsim.Store) { s.Set(b, ^s.Get(a)) }}, nil
		}}
}

func TestEval_overWidth(t *testing.T) {
	c, err := vsim.NewCircuit(inverter("").New(), vsim.WithDebug(true))
	require.NoError(t, err)
	a, b := c.Pin("a"), c.Pin("b")

	c.Set(a, 2)
	err = c.Eval()
	require.Error(t, err)
	assert.True(t, vsim.IsOverWidth(err))
	assert.EqualError(t, err, "signal a: value 0x2 over width 1")
	assert.Equal(t, err, c.Outcome().Err)

	// not fatal
	c.Set(a, 1)
	require.NoError(t, c.Eval())
	assert.Equal(t, uint64(0), c.Get(b))

	// truncated in non-debug mode
	c, err = vsim.NewCircuit(inverter("").New())
	require.NoError(t, err)
	a, b = c.Pin("a"), c.Pin("b")
	c.Set(a, 2)
	assert.Equal(t, uint64(0), c.Get(a))
	require.NoError(t, c.Eval())
	assert.Equal(t, uint64(1), c.Get(b))
}

func TestEval_detectors(t *testing.T) {
	for _, d := range []struct {
		det        vsim.Detector
		init, step int
	}{
		{vsim.DetectReads, 1, 1},
		{vsim.DetectSnapshot, 2, 2},
	} {
		t.Run(d.det.String(), func(t *testing.T) {
			c, err := vsim.NewCircuit(inverter("[4]").New(), vsim.WithDetector(d.det))
			require.NoError(t, err)
			a, b := c.Pin("a"), c.Pin("b")
			require.NoError(t, c.Eval())
			assert.Equal(t, uint64(0xf), c.Get(b))
			assert.Equal(t, 1, c.Outcome().Iterations)
			assert.Equal(t, uint64(d.init+1), c.Stats().Passes)

			c.Set(a, 5)
			require.NoError(t, c.Eval())
			assert.Equal(t, uint64(0xa), c.Get(b))
			assert.Equal(t, d.step, c.Outcome().Iterations)

			// idempotent
			require.NoError(t, c.Eval())
			assert.Equal(t, uint64(0xa), c.Get(b))
			assert.Equal(t, 1, c.Outcome().Iterations)
		})
	}
}

func TestEval_randomReset(t *testing.T) {
	spec := &vsim.PartSpec{Name: "floating", Inputs: "a[64]", Wires: "w0[64], w1[3]"}
	values := func(seed int64) []uint64 {
		c, err := vsim.NewCircuit(spec.New(), vsim.WithReset(vsim.ResetRandom, seed))
		require.NoError(t, err)
		c.Set(c.Pin("a"), 7)
		require.NoError(t, c.Eval())
		return c.Store().Snapshot(nil)
	}
	v := values(42)
	assert.Equal(t, uint64(7), v[0], "inputs are not reset")
	assert.LessOrEqual(t, v[2], uint64(7))
	assert.Equal(t, v, values(42))
}

func TestCircuit_isolation(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for i := 0; i < cap(errs); i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			c, err := vsim.NewCircuit(inverter("[8]").New())
			if err != nil {
				errs <- err.Error()
				return
			}
			a, b := c.Pin("a"), c.Pin("b")
			for n := uint64(0); n < 256; n++ {
				c.Set(a, n^v)
				if err := c.Eval(); err != nil {
					errs <- err.Error()
					return
				}
				if c.Get(b) != ^(n^v)&0xff {
					errs <- "unexpected output"
					return
				}
			}
		}(uint64(i))
	}
	wg.Wait()
	close(errs)
	var msgs []string
	for e := range errs {
		msgs = append(msgs, e)
	}
	assert.Empty(t, strings.Join(msgs, "\n"))
}

func TestConfig_parse(t *testing.T) {
	d, err := vsim.ParseDetector("Snapshot")
	require.NoError(t, err)
	assert.Equal(t, vsim.DetectSnapshot, d)
	_, err = vsim.ParseDetector("magic")
	assert.EqualError(t, err, `unknown change detector "magic"`)

	r, err := vsim.ParseReset("random")
	require.NoError(t, err)
	assert.Equal(t, vsim.ResetRandom, r)
	_, err = vsim.ParseReset("x")
	assert.Error(t, err)
	assert.Equal(t, "zero", vsim.ResetZero.String())
}

package hwlib_test

import (
	"math/bits"
	"strconv"
	"testing"
	"testing/quick"

	"github.com/db47h/vsim"
	hl "github.com/db47h/vsim/hwlib"
	"github.com/db47h/vsim/hwtest"
)

// gate-level full adder, made of two half adders.
var fullAdder = &vsim.PartSpec{
	Name:    "myFullAdder",
	Inputs:  "I0, I1, CIN",
	Outputs: "O, COUT",
	Wires:   "s0, c0, c1",
	Mount: func(s *vsim.Socket) ([]vsim.Component, error) {
		i0, i1, cin := s.Pin("I0"), s.Pin("I1"), s.Pin("CIN")
		o, cout := s.Pin("O"), s.Pin("COUT")
		s0, c0, c1 := s.Pin("s0"), s.Pin("c0"), s.Pin("c1")
		return []vsim.Component{
			func(s *vsim.Store) { s.Set(s0, s.Get(i0)^s.Get(i1)) },
			func(s *vsim.Store) { s.Set(c0, s.Get(i0)&s.Get(i1)) },
			func(s *vsim.Store) { s.Set(o, s.Get(s0)^s.Get(cin)) },
			func(s *vsim.Store) { s.Set(c1, s.Get(s0)&s.Get(cin)) },
			func(s *vsim.Store) { s.Set(cout, s.Get(c0)|s.Get(c1)) },
		}, nil
	}}

func TestFullAdder(t *testing.T) {
	hwtest.CompareModels(t, hl.NewFullAdder(), fullAdder.New())
}

func TestFullAdder_scenarios(t *testing.T) {
	c, err := vsim.NewCircuit(hl.NewFullAdder(), vsim.WithDebug(true))
	if err != nil {
		t.Fatal(err)
	}
	i0, i1, cin, o, cout := c.Pin("I0"), c.Pin("I1"), c.Pin("CIN"), c.Pin("O"), c.Pin("COUT")
	td := []struct {
		i0, i1, cin uint64
		o, cout     uint64
	}{
		{1, 1, 1, 1, 1},
		{0, 0, 0, 0, 0},
		{1, 0, 0, 1, 0},
	}
	for _, d := range td {
		c.Set(i0, d.i0)
		c.Set(i1, d.i1)
		c.Set(cin, d.cin)
		if err := c.Eval(); err != nil {
			t.Fatal(err)
		}
		if c.Get(o) != d.o || c.Get(cout) != d.cout {
			t.Errorf("I0=%d, I1=%d, CIN=%d: expected O=%d, COUT=%d, got O=%d, COUT=%d",
				d.i0, d.i1, d.cin, d.o, d.cout, c.Get(o), c.Get(cout))
		}
	}
}

// rippleAdder returns a ripple carry adder made of 1-bit full adder steps.
func rippleAdder(n int) vsim.Model {
	return (&vsim.PartSpec{
		Name:    "Ripple" + strconv.Itoa(n),
		Inputs:  "a[" + strconv.Itoa(n) + "], b[" + strconv.Itoa(n) + "], cin",
		Outputs: "out[" + strconv.Itoa(n) + "], cout",
		Mount: func(s *vsim.Socket) ([]vsim.Component, error) {
			a, b, cin, out, cout := s.Pin("a"), s.Pin("b"), s.Pin("cin"), s.Pin("out"), s.Pin("cout")
			return []vsim.Component{func(s *vsim.Store) {
				va, vb, c := s.Get(a), s.Get(b), s.Get(cin)
				var sum uint64
				for i := 0; i < n; i++ {
					x, y := va>>uint(i)&1, vb>>uint(i)&1
					sum |= (x ^ y ^ c) << uint(i)
					c = x&y | y&c | c&x
				}
				s.Set(out, sum)
				s.Set(cout, c)
			}}, nil
		}}).New()
}

func TestAdder(t *testing.T) {
	for _, n := range []int{1, 4, 16, 64} {
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			hwtest.CompareModels(t, hl.Adder(n), rippleAdder(n))
		})
	}
}

func TestAdder_combinational(t *testing.T) {
	c, err := vsim.NewCircuit(hl.Adder(16))
	if err != nil {
		t.Fatal(err)
	}
	c.Set(c.Pin("a"), 76)
	c.Set(c.Pin("b"), 43)
	if err := c.Eval(); err != nil {
		t.Fatal(err)
	}
	if out := c.Get(c.Pin("out")); out != 76+43 {
		t.Fatalf("out = %d, expected %d", out, 76+43)
	}
	c.Set(c.Pin("a"), 0xffff)
	c.Set(c.Pin("b"), 1)
	if err := c.Eval(); err != nil {
		t.Fatal(err)
	}
	if out, cout := c.Get(c.Pin("out")), c.Get(c.Pin("cout")); out != 0 || cout != 1 {
		t.Fatalf("out = %#x, cout = %d, expected 0, 1", out, cout)
	}
}

func TestSimpleALU(t *testing.T) {
	c, err := vsim.NewCircuit(hl.NewSimpleALU(), vsim.WithDebug(true))
	if err != nil {
		t.Fatal(err)
	}
	a, b, op, out := c.Pin("a"), c.Pin("b"), c.Pin("opcode"), c.Pin("out")
	td := []struct {
		a, b, op, out uint64
	}{
		{3, 2, 0, 5},
		{3, 2, 1, 1},
		{3, 2, 2, 3},
		{3, 2, 3, 2},
		{15, 1, 0, 0},
		{2, 3, 1, 15},
	}
	for _, d := range td {
		c.Set(a, d.a)
		c.Set(b, d.b)
		c.Set(op, d.op)
		if err := c.Eval(); err != nil {
			t.Fatal(err)
		}
		if got := c.Get(out); got != d.out {
			t.Errorf("a=%d, b=%d, opcode=%d: expected %d, got %d", d.a, d.b, d.op, d.out, got)
		}
		if it := c.Outcome().Iterations; it != 1 {
			t.Errorf("settled in %d passes, expected 1", it)
		}
	}
}

func TestPopcount(t *testing.T) {
	c, err := vsim.NewCircuit(hl.Popcount(8))
	if err != nil {
		t.Fatal(err)
	}
	in, out := c.Pin("in"), c.Pin("out")
	if w := c.Store().Width(out); w != 4 {
		t.Fatalf("out width = %d, expected 4", w)
	}
	f := func(x uint8) bool {
		c.Set(in, uint64(x))
		if err := c.Eval(); err != nil {
			t.Fatal(err)
		}
		return c.Get(out) == uint64(bits.OnesCount8(x))
	}
	if err = quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

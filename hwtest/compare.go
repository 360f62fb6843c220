// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/vsim"
)

// maxExhaustive is the maximum number of input bits tested exhaustively.
const maxExhaustive = 12

type port struct {
	name  string
	width uint
	pins  [2]int
}

// ports returns the signals of kind k in c1, matched by name in c2.
//
func ports(t testing.TB, c1, c2 *vsim.Circuit, k vsim.Kind) []port {
	t.Helper()
	var ps []port
	for n1, s := range c1.Signals() {
		if s.Kind != k {
			continue
		}
		n2, ok := c2.Lookup(s.Name)
		if !ok {
			t.Fatalf("%s %s of %s missing in %s", k, s.Name, c1.Name(), c2.Name())
		}
		s2 := c2.Store().Signal(n2)
		if s2.Kind != k || s2.Width != s.Width {
			t.Fatalf("%s: %s[%d] in %s, %s[%d] in %s", s.Name, k, s.Width, c1.Name(), s2.Kind, s2.Width, c2.Name())
		}
		ps = append(ps, port{s.Name, s.Width, [2]int{n1, n2}})
	}
	return ps
}

// CompareModels takes two models and compares their outputs given the same
// inputs. Both models must have the same input and output signals, with the
// same widths; internal signals are ignored.
//
// Inputs are tested exhaustively when they add up to 12 bits or less.
// Otherwise, all zeros, all ones and 4096 random combinations are tested.
//
func CompareModels(t testing.TB, m1, m2 vsim.Model, opts ...vsim.Option) {
	t.Helper()

	c1, err := vsim.NewCircuit(m1, opts...)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := vsim.NewCircuit(m2, opts...)
	if err != nil {
		t.Fatal(err)
	}
	ins := ports(t, c1, c2, vsim.Input)
	outs := ports(t, c1, c2, vsim.Output)
	if len(ports(t, c2, c1, vsim.Input)) != len(ins) || len(ports(t, c2, c1, vsim.Output)) != len(outs) {
		t.Fatalf("%s and %s have different interfaces", c1.Name(), c2.Name())
	}

	var total uint
	for _, p := range ins {
		total += p.width
	}

	values := make([]uint64, len(ins))
	errString := func(o port, ex, got uint64) string {
		var b strings.Builder
		for i, p := range ins {
			if b.Len() > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%#x", p.name, values[i])
		}
		return fmt.Sprintf("\nExpected %s => %s=%#x\nGot %#x", b.String(), o.name, ex, got)
	}

	check := func() {
		t.Helper()
		for i, p := range ins {
			c1.Set(p.pins[0], values[i])
			c2.Set(p.pins[1], values[i])
		}
		if err := c1.Eval(); err != nil {
			t.Fatal(err)
		}
		if err := c2.Eval(); err != nil {
			t.Fatal(err)
		}
		for _, o := range outs {
			ex, got := c1.Get(o.pins[0]), c2.Get(o.pins[1])
			if ex != got {
				t.Fatal(errString(o, ex, got))
			}
		}
	}

	start := time.Now()
	var count int

	if total <= maxExhaustive {
		for v := uint64(0); v < 1<<total; v++ {
			x := v
			for i, p := range ins {
				values[i] = x & vsim.Mask(p.width)
				x >>= p.width
			}
			check()
			count++
		}
	} else {
		seed := time.Now().UnixNano()
		rnd := rand.New(rand.NewSource(seed))
		t.Logf("random seed %d", seed)

		// try all 0, then all 1
		check()
		for i, p := range ins {
			values[i] = vsim.Mask(p.width)
		}
		check()
		count = 2
		for ; count < 1<<maxExhaustive+2; count++ {
			for i, p := range ins {
				values[i] = rnd.Uint64() & vsim.Mask(p.width)
			}
			check()
		}
	}

	elapsed := time.Since(start)
	s1, s2 := c1.Stats(), c2.Stats()
	t.Logf("%d input combinations in %v. passes: %s=%d, %s=%d", count, elapsed, c1.Name(), s1.Passes, c2.Name(), s2.Passes)
}

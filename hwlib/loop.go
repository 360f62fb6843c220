package hwlib

import (
	"strconv"

	"github.com/db47h/vsim"
)

// Chain returns a buffer chain of n internal wires, evaluated from the output
// back to the input. Each pass only moves a new input value one wire further,
// so the chain needs n+1 passes to settle after an input change.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Wires: w_0[bits] ... w_n-1[bits]
//	Function: out = in
//
func Chain(n, bits int) vsim.Model {
	ws := make([]string, n)
	for i := range ws {
		ws[i] = vsim.Indexed("w", i)
	}
	return (&vsim.PartSpec{
		Name:    "Chain" + strconv.Itoa(n),
		Inputs:  decl(bits, pIn),
		Outputs: decl(bits, pOut),
		Wires:   decl(bits, ws...),
		Mount: func(s *vsim.Socket) ([]vsim.Component, error) {
			pins := append([]int{s.Pin(pIn)}, s.Pins(ws...)...)
			pins = append(pins, s.Pin(pOut))
			cs := make([]vsim.Component, 0, len(pins)-1)
			for i := len(pins) - 1; i > 0; i-- {
				src, dst := pins[i-1], pins[i]
				cs = append(cs, func(s *vsim.Store) { s.Set(dst, s.Get(src)) })
			}
			return cs, nil
		}}).New()
}

// Ring returns a ring oscillator made of a NAND gate followed by n-1
// inverters. With an odd n, the ring has no stable state when enabled: it is
// a combinational loop that never converges.
//
//	Inputs: enable
//	Outputs: out
//	Wires: w_0 ... w_n-1
//	Function: w_0 = !(enable && w_n-1); w_i = !w_i-1; out = w_n-1
//
func Ring(n int) vsim.Model {
	if n < 1 {
		n = 1
	}
	ws := make([]string, n)
	for i := range ws {
		ws[i] = vsim.Indexed("w", i)
	}
	return (&vsim.PartSpec{
		Name:    "Ring" + strconv.Itoa(n),
		Inputs:  "enable",
		Outputs: pOut,
		Wires:   decl(1, ws...),
		Mount: func(s *vsim.Socket) ([]vsim.Component, error) {
			en, out, w := s.Pin("enable"), s.Pin(pOut), s.Pins(ws...)
			cs := []vsim.Component{
				func(s *vsim.Store) { s.Set(w[0], ^(s.Get(en) & s.Get(w[n-1]))) },
			}
			for i := 1; i < n; i++ {
				src, dst := w[i-1], w[i]
				cs = append(cs, func(s *vsim.Store) { s.Set(dst, ^s.Get(src)) })
			}
			cs = append(cs, func(s *vsim.Store) { s.Set(out, s.Get(w[n-1])) })
			return cs, nil
		}}).New()
}

// SRLatch is a set/reset latch made of two cross-coupled NOR gates.
//
//	Inputs: s, r
//	Outputs: q, qn
//	Function: q = !(r || qn); qn = !(s || q)
//
// The latch powers up reset (q = 0, qn = 1). It keeps a shadow copy of q and
// reports a change whenever q differs from the value seen on the previous
// pass.
//
type SRLatch struct {
	S  int `vsim:"in,s"`
	R  int `vsim:"in,r"`
	Q  int `vsim:"out,q"`
	Qn int `vsim:"out,qn"`

	shadow uint64
}

// NewSRLatch returns a new SRLatch model.
//
func NewSRLatch() *SRLatch { return new(SRLatch) }

// Name implements vsim.Model.
//
func (*SRLatch) Name() string { return "SRLatch" }

// Mount implements vsim.Model.
//
func (l *SRLatch) Mount(s *vsim.Socket) error { return vsim.Bind(s, l) }

// Initial implements vsim.Initializer.
//
func (l *SRLatch) Initial(s *vsim.Store) {
	s.Set(l.Q, 0)
	s.Set(l.Qn, 1)
	l.shadow = 0
}

// Eval implements vsim.Model.
//
func (l *SRLatch) Eval(s *vsim.Store) {
	s.Set(l.Q, ^(s.Get(l.R) | s.Get(l.Qn)))
	s.Set(l.Qn, ^(s.Get(l.S) | s.Get(l.Q)))
}

// ChangeRequest implements vsim.ChangeRequester.
//
func (l *SRLatch) ChangeRequest(s *vsim.Store) bool {
	q := s.Get(l.Q)
	changed := q != l.shadow
	l.shadow = q
	return changed
}

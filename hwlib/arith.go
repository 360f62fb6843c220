// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"math/bits"
	"strconv"

	"github.com/db47h/vsim"
)

// FullAdder is a 1-bit full adder.
//
//	Inputs: I0, I1, CIN
//	Outputs: O, COUT
//	Function: O = I0 ^ I1 ^ CIN
//	          COUT = I0&I1 | I1&CIN | CIN&I0
//
type FullAdder struct {
	I0   int `vsim:"in"`
	I1   int `vsim:"in"`
	CIN  int `vsim:"in"`
	O    int `vsim:"out"`
	COUT int `vsim:"out"`
}

// NewFullAdder returns a new FullAdder model.
//
func NewFullAdder() *FullAdder { return new(FullAdder) }

// Name implements vsim.Model.
//
func (*FullAdder) Name() string { return "FullAdder" }

// Mount implements vsim.Model.
//
func (a *FullAdder) Mount(s *vsim.Socket) error { return vsim.Bind(s, a) }

// Eval implements vsim.Model.
//
func (a *FullAdder) Eval(s *vsim.Store) {
	i0, i1, cin := s.Get(a.I0), s.Get(a.I1), s.Get(a.CIN)
	s.Set(a.COUT, i0&i1|i1&cin|cin&i0)
	s.Set(a.O, i0^i1^cin)
}

var hAdder = &vsim.PartSpec{
	Name:    "HalfAdder",
	Inputs:  "a, b",
	Outputs: "s, c",
	Mount: func(s *vsim.Socket) ([]vsim.Component, error) {
		a, b := s.Pin(pA), s.Pin(pB)
		sum, cout := s.Pin("s"), s.Pin("c")
		return []vsim.Component{
			func(s *vsim.Store) {
				va, vb := s.Get(a), s.Get(b)
				s.Set(sum, va^vb)
				s.Set(cout, va&vb)
			}}, nil
	}}

// HalfAdder returns a half adder.
//
//	Inputs: a, b
//	Outputs: s, c
//	Function: s = lsb(a + b)
//	          c = msb(a + b)
//
func HalfAdder() vsim.Model {
	return hAdder.New()
}

// Adder returns a N-bits adder with carry in and carry out.
//
//	Inputs: a[bits], b[bits], cin
//	Outputs: out[bits], cout
//	Function: out = lsb(a + b + cin)
//	          cout = carry(a + b + cin)
//
func Adder(n int) vsim.Model {
	w := uint(n)
	return (&vsim.PartSpec{
		Name:    "Adder" + strconv.Itoa(n),
		Inputs:  decl(n, pA, pB) + ", " + pCin,
		Outputs: decl(n, pOut) + ", " + pCout,
		Mount: func(s *vsim.Socket) ([]vsim.Component, error) {
			a, b, cin := s.Pin(pA), s.Pin(pB), s.Pin(pCin)
			out, cout := s.Pin(pOut), s.Pin(pCout)
			return []vsim.Component{
				func(s *vsim.Store) {
					sum, carry := bits.Add64(s.Get(a), s.Get(b), s.Get(cin))
					if w < vsim.MaxWidth {
						carry = sum >> w & 1
					}
					s.Set(out, sum)
					s.Set(cout, carry)
				}}, nil
		}}).New()
}

// SimpleALU is a 4-bit ALU.
//
//	Inputs: a[4], b[4], opcode[2]
//	Outputs: out[4]
//	Function: opcode 0: out = a + b
//	          opcode 1: out = a - b
//	          opcode 2: out = a
//	          opcode 3: out = b
//
// The intermediate results are exposed as internal signals.
//
type SimpleALU struct {
	A      int `vsim:"in[4],a"`
	B      int `vsim:"in[4],b"`
	Opcode int `vsim:"in[2],opcode"`
	Sum    int `vsim:"wire[4],op0_out"`
	Diff   int `vsim:"wire[4],op1_out"`
	Out    int `vsim:"out[4],out"`
}

// NewSimpleALU returns a new SimpleALU model.
//
func NewSimpleALU() *SimpleALU { return new(SimpleALU) }

// Name implements vsim.Model.
//
func (*SimpleALU) Name() string { return "SimpleALU" }

// Mount implements vsim.Model.
//
func (u *SimpleALU) Mount(s *vsim.Socket) error { return vsim.Bind(s, u) }

// Eval implements vsim.Model.
//
func (u *SimpleALU) Eval(s *vsim.Store) {
	a, b := s.Get(u.A), s.Get(u.B)
	s.Set(u.Sum, a+b)
	s.Set(u.Diff, a-b)
	switch s.Get(u.Opcode) {
	case 0:
		s.Set(u.Out, s.Get(u.Sum))
	case 1:
		s.Set(u.Out, s.Get(u.Diff))
	case 2:
		s.Set(u.Out, a)
	default:
		s.Set(u.Out, b)
	}
}

// Popcount returns a population counter.
//
//	Inputs: in[bits]
//	Outputs: out[log2(bits)+1]
//	Function: out = number of bits set in "in"
//
func Popcount(n int) vsim.Model {
	ow := bits.Len(uint(n))
	return (&vsim.PartSpec{
		Name:    "Popcount" + strconv.Itoa(n),
		Inputs:  decl(n, pIn),
		Outputs: decl(ow, pOut),
		Mount: func(s *vsim.Socket) ([]vsim.Component, error) {
			in, out := s.Pin(pIn), s.Pin(pOut)
			return []vsim.Component{
				func(s *vsim.Store) { s.Set(out, uint64(bits.OnesCount64(s.Get(in)))) },
			}, nil
		}}).New()
}

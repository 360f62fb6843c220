// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwlib

import (
	"strconv"

	"github.com/db47h/vsim"
)

// Mux returns a N-bits multiplexer.
//
//	Inputs: a[bits], b[bits], sel
//	Outputs: out[bits]
//	Function: if sel == 0 { out = a } else { out = b }
//
func Mux(bits int) vsim.Model {
	return (&vsim.PartSpec{
		Name:    "Mux" + strconv.Itoa(bits),
		Inputs:  decl(bits, pA, pB) + ", " + pSel,
		Outputs: decl(bits, pOut),
		Mount: func(s *vsim.Socket) ([]vsim.Component, error) {
			a, b, sel, out := s.Pin(pA), s.Pin(pB), s.Pin(pSel), s.Pin(pOut)
			return []vsim.Component{func(s *vsim.Store) {
				if s.Bool(sel) {
					s.Set(out, s.Get(b))
				} else {
					s.Set(out, s.Get(a))
				}
			}}, nil
		}}).New()
}

// DMux returns a N-bits demultiplexer.
//
//	Inputs: in[bits], sel
//	Outputs: a[bits], b[bits]
//	Function: if sel == 0 { a = in; b = 0 } else { a = 0; b = in }
//
func DMux(bits int) vsim.Model {
	return (&vsim.PartSpec{
		Name:    "DMux" + strconv.Itoa(bits),
		Inputs:  decl(bits, pIn) + ", " + pSel,
		Outputs: decl(bits, pA, pB),
		Mount: func(s *vsim.Socket) ([]vsim.Component, error) {
			in, sel, a, b := s.Pin(pIn), s.Pin(pSel), s.Pin(pA), s.Pin(pB)
			return []vsim.Component{func(s *vsim.Store) {
				if s.Bool(sel) {
					s.Set(a, 0)
					s.Set(b, s.Get(in))
				} else {
					s.Set(a, s.Get(in))
					s.Set(b, 0)
				}
			}}, nil
		}}).New()
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwlib provides a library of reusable models for vsim.
//
// Copyright 2018 Denis Bernard <db047h@gmail.com>
//
// This package is licensed under the MIT license. See license text in the LICENSE file.
//
package hwlib

import (
	"strconv"

	"github.com/db47h/vsim"
)

// common pin names
const (
	pA    = "a"
	pB    = "b"
	pIn   = "in"
	pSel  = "sel"
	pOut  = "out"
	pCin  = "cin"
	pCout = "cout"
)

// decl returns a declaration string for the given names with a width of bits.
//
func decl(bits int, names ...string) string {
	var s string
	for i, n := range names {
		if i > 0 {
			s += ", "
		}
		s += n
		if bits > 1 {
			s += "[" + strconv.Itoa(bits) + "]"
		}
	}
	return s
}

type gate func(a, b uint64) uint64

func (g gate) mount(s *vsim.Socket) ([]vsim.Component, error) {
	a, b, out := s.Pin(pA), s.Pin(pB), s.Pin(pOut)
	return []vsim.Component{
		func(s *vsim.Store) { s.Set(out, g(s.Get(a), s.Get(b))) },
	}, nil
}

func newGate(name string, bits int, fn func(a, b uint64) uint64) *vsim.PartSpec {
	if bits > 1 {
		name += strconv.Itoa(bits)
	}
	return &vsim.PartSpec{
		Name:    name,
		Inputs:  decl(bits, pA, pB),
		Outputs: decl(bits, pOut),
		Mount:   gate(fn).mount,
	}
}

// Not returns a bitwise NOT gate.
//
//	Inputs: in[bits]
//	Outputs: out[bits]
//	Function: out = ^in
//
func Not(bits int) vsim.Model {
	name := "NOT"
	if bits > 1 {
		name += strconv.Itoa(bits)
	}
	return (&vsim.PartSpec{
		Name:    name,
		Inputs:  decl(bits, pIn),
		Outputs: decl(bits, pOut),
		Mount: func(s *vsim.Socket) ([]vsim.Component, error) {
			in, out := s.Pin(pIn), s.Pin(pOut)
			return []vsim.Component{
				func(s *vsim.Store) { s.Set(out, ^s.Get(in)) },
			}, nil
		}}).New()
}

// And returns a bitwise AND gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: out = a & b
//
func And(bits int) vsim.Model {
	return newGate("AND", bits, func(a, b uint64) uint64 { return a & b }).New()
}

// Nand returns a bitwise NAND gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: out = ^(a & b)
//
func Nand(bits int) vsim.Model {
	return newGate("NAND", bits, func(a, b uint64) uint64 { return ^(a & b) }).New()
}

// Or returns a bitwise OR gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: out = a | b
//
func Or(bits int) vsim.Model {
	return newGate("OR", bits, func(a, b uint64) uint64 { return a | b }).New()
}

// Nor returns a bitwise NOR gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: out = ^(a | b)
//
func Nor(bits int) vsim.Model {
	return newGate("NOR", bits, func(a, b uint64) uint64 { return ^(a | b) }).New()
}

// Xor returns a bitwise XOR gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: out = a ^ b
//
func Xor(bits int) vsim.Model {
	return newGate("XOR", bits, func(a, b uint64) uint64 { return a ^ b }).New()
}

// Xnor returns a bitwise XNOR gate.
//
//	Inputs: a[bits], b[bits]
//	Outputs: out[bits]
//	Function: out = ^(a ^ b)
//
func Xnor(bits int) vsim.Model {
	return newGate("XNOR", bits, func(a, b uint64) uint64 { return ^(a ^ b) }).New()
}

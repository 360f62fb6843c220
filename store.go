// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vsim

import "strconv"

// MaxWidth is the maximum width of a signal, in bits.
//
const MaxWidth = 64

// Kind identifies the role of a signal in a circuit.
//
type Kind uint8

// Signal kinds.
//
const (
	Input    Kind = iota // driven by the host
	Output               // driven by the model, read by the host
	Internal             // driven and read by the model only
)

func (k Kind) String() string {
	switch k {
	case Input:
		return "input"
	case Output:
		return "output"
	case Internal:
		return "wire"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Mask returns the value mask for a signal of the given width: 2^width - 1.
//
func Mask(width uint) uint64 {
	if width >= MaxWidth {
		return ^uint64(0)
	}
	return 1<<width - 1
}

// Signal describes a declared signal.
//
type Signal struct {
	Name  string
	Width uint
	Kind  Kind
}

// Store holds the current value of every signal in a circuit. Signals are
// addressed by pin number, as returned by Socket.Pin or Circuit.Pin.
//
// Within an evaluation pass, the store records which signals have been read.
// Writing a different value to a signal that was already read during the same
// pass flags the pass as changed: some step of the pass consumed a stale value
// and another pass is needed.
//
type Store struct {
	sigs  []Signal
	masks []uint64
	v     []uint64
	read  []uint64 // pass number of the last read of each signal
	names map[string]int

	pass    uint64
	track   bool
	changed bool
}

func newStore() *Store {
	return &Store{names: make(map[string]int)}
}

// alloc declares a new signal and returns its pin number.
//
func (s *Store) alloc(name string, width uint, k Kind) int {
	n := len(s.sigs)
	s.sigs = append(s.sigs, Signal{Name: name, Width: width, Kind: k})
	s.masks = append(s.masks, Mask(width))
	s.v = append(s.v, 0)
	s.read = append(s.read, 0)
	s.names[name] = n
	return n
}

// Len returns the number of signals in the store.
//
func (s *Store) Len() int { return len(s.sigs) }

// Lookup returns the pin number of the named signal.
//
func (s *Store) Lookup(name string) (int, bool) {
	n, ok := s.names[name]
	return n, ok
}

// Signal returns the descriptor of signal n.
//
func (s *Store) Signal(n int) Signal { return s.sigs[n] }

// Name returns the name of signal n.
//
func (s *Store) Name(n int) string { return s.sigs[n].Name }

// Width returns the width in bits of signal n.
//
func (s *Store) Width(n int) uint { return s.sigs[n].Width }

// Kind returns the kind of signal n.
//
func (s *Store) Kind(n int) Kind { return s.sigs[n].Kind }

// Get returns the value of signal n.
//
func (s *Store) Get(n int) uint64 {
	if s.track {
		s.read[n] = s.pass
	}
	return s.v[n]
}

// Bool returns true if signal n is not zero.
//
func (s *Store) Bool(n int) bool {
	return s.Get(n) != 0
}

// Set sets the value of signal n. The value is truncated to the signal's
// width.
//
func (s *Store) Set(n int, v uint64) {
	v &= s.masks[n]
	if v == s.v[n] {
		return
	}
	if s.track && s.read[n] == s.pass {
		s.changed = true
	}
	s.v[n] = v
}

// SetBool sets signal n to 1 if b is true, 0 otherwise.
//
func (s *Store) SetBool(n int, b bool) {
	if b {
		s.Set(n, 1)
	} else {
		s.Set(n, 0)
	}
}

// setRaw stores v without truncation. Only the width guard may observe such
// values.
//
func (s *Store) setRaw(n int, v uint64) {
	s.v[n] = v
}

// Snapshot appends the current value of all signals to dst and returns the
// extended slice.
//
func (s *Store) Snapshot(dst []uint64) []uint64 {
	return append(dst, s.v...)
}

// Equal returns true if the current values of all signals match snap.
//
func (s *Store) Equal(snap []uint64) bool {
	if len(snap) != len(s.v) {
		return false
	}
	for i, v := range s.v {
		if snap[i] != v {
			return false
		}
	}
	return true
}

// begin starts a new evaluation pass.
//
func (s *Store) begin() {
	s.pass++
	s.track = true
	s.changed = false
}

// end ends the current pass and reports whether a signal was written with a
// new value after being read within the pass.
//
func (s *Store) end() bool {
	s.track = false
	return s.changed
}

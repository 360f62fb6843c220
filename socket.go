package vsim

import (
	"strconv"

	"github.com/db47h/vsim/internal/hdl"
	"github.com/pkg/errors"
)

// A Socket is used by a Model to declare its signals while being mounted into
// a circuit, and to get their pin numbers.
//
type Socket struct {
	st *Store
}

// In declares input signals. See Declare.
//
func (s *Socket) In(decls string) error { return s.Declare(Input, decls) }

// Out declares output signals. See Declare.
//
func (s *Socket) Out(decls string) error { return s.Declare(Output, decls) }

// Wire declares internal signals. See Declare.
//
func (s *Socket) Wire(decls string) error { return s.Declare(Internal, decls) }

// Declare declares signals of kind k. decls is a comma separated list of
// signal names, each with an optional width in bits (defaults to 1):
//
//	s.Declare(vsim.Input, "a[4], b[4], cin")
//
func (s *Socket) Declare(k Kind, decls string) error {
	ds, err := hdl.ParseDecls(decls)
	if err != nil {
		return errors.Wrap(err, "parse "+k.String()+" declarations")
	}
	for _, d := range ds {
		if _, err := s.declare(d.Name, d.Width, k); err != nil {
			return err
		}
	}
	return nil
}

// Add declares a single signal and returns its pin number.
//
func (s *Socket) Add(name string, width int, k Kind) (int, error) {
	ds, err := hdl.ParseDecls(name)
	if err != nil || len(ds) != 1 || ds[0].Name != name {
		return 0, errors.Errorf("invalid signal name %q", name)
	}
	return s.declare(name, width, k)
}

func (s *Socket) declare(name string, width int, k Kind) (int, error) {
	if width < 1 || width > MaxWidth {
		return 0, errors.Errorf("signal %s: invalid width %d", name, width)
	}
	if _, ok := s.st.names[name]; ok {
		return 0, errors.New("duplicate signal name " + name)
	}
	return s.st.alloc(name, uint(width), k), nil
}

// Pin returns the pin number allocated to the given signal name.
// This function panics if the signal does not exist.
//
func (s *Socket) Pin(name string) int {
	n, ok := s.st.names[name]
	if !ok {
		panic("signal " + name + " does not exist")
	}
	return n
}

// Pins returns the pin numbers of the named signals, in order.
// It panics if any of them does not exist.
//
func (s *Socket) Pins(names ...string) []int {
	out := make([]int, len(names))
	for i, n := range names {
		out[i] = s.Pin(n)
	}
	return out
}

// Indexed returns the name of the i-th signal of a group: "w" and 3 give "w_3".
//
func Indexed(name string, i int) string {
	return name + "_" + strconv.Itoa(i)
}

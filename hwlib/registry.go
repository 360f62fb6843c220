package hwlib

import (
	"sort"
	"strconv"
	"strings"

	"github.com/db47h/vsim"
	"github.com/pkg/errors"
)

var fixed = map[string]func() vsim.Model{
	"FullAdder": func() vsim.Model { return NewFullAdder() },
	"HalfAdder": HalfAdder,
	"SimpleALU": func() vsim.Model { return NewSimpleALU() },
	"SRLatch":   func() vsim.Model { return NewSRLatch() },
}

// parametric models. The size is given as a numeric suffix: "Adder16".
var sized = map[string]func(n int) vsim.Model{
	"Adder":    Adder,
	"Popcount": Popcount,
	"Mux":      Mux,
	"DMux":     DMux,
	"Ring":     Ring,
	"Chain":    func(n int) vsim.Model { return Chain(n, 1) },
	"NOT":      Not,
	"AND":      And,
	"NAND":     Nand,
	"OR":       Or,
	"NOR":      Nor,
	"XOR":      Xor,
	"XNOR":     Xnor,
}

// New returns a new instance of the named model. Parametric models take their
// size as a numeric suffix, for example "Adder8" or "Ring3".
//
func New(name string) (vsim.Model, error) {
	if f, ok := fixed[name]; ok {
		return f(), nil
	}
	i := strings.IndexAny(name, "0123456789")
	if i > 0 {
		if f, ok := sized[name[:i]]; ok {
			n, err := strconv.Atoi(name[i:])
			if err != nil || n < 1 || n > vsim.MaxWidth {
				return nil, errors.Errorf("invalid size in model name %q", name)
			}
			return f(n), nil
		}
	}
	return nil, errors.Errorf("unknown model %q", name)
}

// Names returns the names of all available models, sorted. Parametric models
// are listed with an "<N>" suffix.
//
func Names() []string {
	names := make([]string, 0, len(fixed)+len(sized))
	for n := range fixed {
		names = append(names, n)
	}
	for n := range sized {
		names = append(names, n+"<N>")
	}
	sort.Strings(names)
	return names
}

// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package vsim

// A Model is the combinational logic of a circuit.
//
// Mount is called once by NewCircuit. It must declare all the model's signals
// in s and keep the pin numbers it needs.
//
// Eval computes the outputs and internal signals from the inputs. It must be
// deterministic and its steps must be ordered so that, for acyclic logic, no
// signal is read before it has been computed within the same call. Eval may be
// called any number of times per evaluation; once the circuit is stable,
// calling it again must not change any signal.
//
// A Model value belongs to a single Circuit.
//
type Model interface {
	Name() string
	Mount(s *Socket) error
	Eval(s *Store)
}

// An Initializer is a Model with one-time initial value assignments. Initial
// is called during the first evaluation of a circuit, before the initial
// settle loop.
//
type Initializer interface {
	Initial(s *Store)
}

// A Settler is a Model with extra logic to run on each pass of the initial
// settle loop, before Eval.
//
type Settler interface {
	Settle(s *Store)
}

// A Finalizer is a Model with end of simulation logic. See Circuit.Final.
//
type Finalizer interface {
	Final(s *Store)
}

// A ChangeRequester is a Model that reports changes on its own, typically by
// comparing signals that feed back into the logic with shadow copies.
// Its result is combined with the circuit's change detector: a pass is
// considered stable only if both report no change.
//
type ChangeRequester interface {
	ChangeRequest(s *Store) bool
}

// A Component is a single combinational step.
//
type Component func(s *Store)

// A MountFn declares signals in s and returns the components of a model, in
// evaluation order.
//
// For example, a 1-bit inverter can be defined like this:
//
//	func(s *vsim.Socket) ([]vsim.Component, error) {
//		if err := s.In("in"); err != nil {
//			return nil, err
//		}
//		if err := s.Out("out"); err != nil {
//			return nil, err
//		}
//		in, out := s.Pin("in"), s.Pin("out")
//		return []vsim.Component{
//			func(s *vsim.Store) { s.Set(out, ^s.Get(in)) },
//		}, nil
//	}
//
type MountFn func(s *Socket) ([]Component, error)

// A PartSpec is the blueprint of a model built from closures.
//
// Custom models are implemented by creating a PartSpec:
//
//	notSpec := &vsim.PartSpec{
//		Name:    "Not",
//		Inputs:  "in",
//		Outputs: "out",
//		Mount: func(s *vsim.Socket) ([]vsim.Component, error) {
//			in, out := s.Pin("in"), s.Pin("out")
//			return []vsim.Component{
//				func(s *vsim.Store) { s.Set(out, ^s.Get(in)) },
//			}, nil
//		}}
//
// Then get a new Model for each circuit with notSpec.New().
//
type PartSpec struct {
	// Model name.
	Name string
	// Input, output and internal signal declarations (see Socket.Declare).
	// They are declared before Mount is called.
	Inputs  string
	Outputs string
	Wires   string

	// Mount function (see MountFn).
	Mount MountFn
	// Optional one-time initial assignments.
	Initial Component
	// Optional end of simulation logic.
	Final Component
}

// New returns a new Model instance for p.
//
func (p *PartSpec) New() Model {
	return &part{spec: p}
}

type part struct {
	spec *PartSpec
	cs   []Component
}

func (p *part) Name() string { return p.spec.Name }

func (p *part) Mount(s *Socket) (err error) {
	if err = s.In(p.spec.Inputs); err != nil {
		return err
	}
	if err = s.Out(p.spec.Outputs); err != nil {
		return err
	}
	if err = s.Wire(p.spec.Wires); err != nil {
		return err
	}
	if p.spec.Mount != nil {
		p.cs, err = p.spec.Mount(s)
	}
	return err
}

func (p *part) Eval(s *Store) {
	for _, c := range p.cs {
		c(s)
	}
}

func (p *part) Initial(s *Store) {
	if p.spec.Initial != nil {
		p.spec.Initial(s)
	}
}

func (p *part) Final(s *Store) {
	if p.spec.Final != nil {
		p.spec.Final(s)
	}
}

package vsim

import (
	"fmt"

	"github.com/pkg/errors"
)

// Phase identifies the settle loop in which an evaluation ended.
//
type Phase uint8

// Evaluation phases.
//
const (
	PhaseSettle Phase = iota // ordinary settling
	PhaseInit                // initial settle, on the first evaluation
)

func (p Phase) String() string {
	if p == PhaseInit {
		return "initial settle"
	}
	return "settle"
}

// NonConvergenceError is returned by Circuit.Eval when the circuit does not
// reach a stable state within the iteration ceiling. It is fatal: the circuit
// returns the same error on every subsequent call to Eval.
//
type NonConvergenceError struct {
	Circuit    string
	Phase      Phase
	Iterations int
}

func (e *NonConvergenceError) Error() string {
	if e.Phase == PhaseInit {
		return fmt.Sprintf("%s: model did not DC converge after %d iterations", e.Circuit, e.Iterations)
	}
	return fmt.Sprintf("%s: model did not converge after %d iterations", e.Circuit, e.Iterations)
}

// OverWidthError is returned by Circuit.Eval in debug mode when an input holds
// a value that does not fit its declared width. The evaluation is aborted but
// the circuit remains usable once the input is fixed.
//
type OverWidthError struct {
	Signal string
	Width  uint
	Value  uint64
}

func (e *OverWidthError) Error() string {
	return fmt.Sprintf("signal %s: value %#x over width %d", e.Signal, e.Value, e.Width)
}

// IsNonConvergence returns true if the cause of err is a *NonConvergenceError.
//
func IsNonConvergence(err error) bool {
	_, ok := errors.Cause(err).(*NonConvergenceError)
	return ok
}

// IsOverWidth returns true if the cause of err is an *OverWidthError.
//
func IsOverWidth(err error) bool {
	_, ok := errors.Cause(err).(*OverWidthError)
	return ok
}

var errFinalized = errors.New("circuit finalized")

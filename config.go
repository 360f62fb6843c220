package vsim

import (
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
)

// DefaultMaxIterations is the default settle loop iteration ceiling.
//
const DefaultMaxIterations = 100

// Detector selects how the settle loop decides whether a pass changed the
// circuit state.
//
type Detector uint8

// Change detectors.
//
const (
	// DetectReads flags a pass as changed when a signal is written with a new
	// value after having been read in the same pass. Acyclic logic evaluated
	// in order settles in a single pass.
	DetectReads Detector = iota
	// DetectSnapshot compares the full state before and after each pass. Any
	// state change triggers another pass.
	DetectSnapshot
)

var detectorNames = [...]string{
	DetectReads:    "reads",
	DetectSnapshot: "snapshot",
}

func (d Detector) String() string {
	if int(d) < len(detectorNames) {
		return detectorNames[d]
	}
	return "unknown"
}

// ParseDetector returns the Detector with the given name.
//
func ParseDetector(name string) (Detector, error) {
	for i, n := range detectorNames {
		if strings.EqualFold(n, name) {
			return Detector(i), nil
		}
	}
	return 0, errors.Errorf("unknown change detector %q", name)
}

// ResetPolicy selects the power-on value of outputs and internal signals.
//
type ResetPolicy uint8

// Reset policies.
//
const (
	ResetZero   ResetPolicy = iota // all zeros
	ResetRandom                    // random values, seeded with Config.Seed
)

var resetNames = [...]string{
	ResetZero:   "zero",
	ResetRandom: "random",
}

func (r ResetPolicy) String() string {
	if int(r) < len(resetNames) {
		return resetNames[r]
	}
	return "unknown"
}

// ParseReset returns the ResetPolicy with the given name.
//
func ParseReset(name string) (ResetPolicy, error) {
	for i, n := range resetNames {
		if strings.EqualFold(n, name) {
			return ResetPolicy(i), nil
		}
	}
	return 0, errors.Errorf("unknown reset policy %q", name)
}

// Config holds the evaluation settings of a circuit.
//
type Config struct {
	// Debug enables input width checking on every evaluation.
	// In non-debug mode, host writes are truncated to the signal width.
	Debug bool
	// MaxIterations is the settle loop ceiling. A value <= 0 selects
	// DefaultMaxIterations.
	MaxIterations int
	Detector      Detector
	Reset         ResetPolicy
	Seed          int64
}

// DefaultConfig returns the default configuration.
//
func DefaultConfig() Config {
	return Config{MaxIterations: DefaultMaxIterations}
}

// An Option configures a circuit in NewCircuit.
//
type Option func(c *Circuit)

// WithConfig replaces the whole configuration.
//
func WithConfig(cfg Config) Option {
	return func(c *Circuit) { c.cfg = cfg }
}

// WithDebug enables or disables debug mode.
//
func WithDebug(debug bool) Option {
	return func(c *Circuit) { c.cfg.Debug = debug }
}

// WithMaxIterations sets the settle loop ceiling.
//
func WithMaxIterations(n int) Option {
	return func(c *Circuit) { c.cfg.MaxIterations = n }
}

// WithDetector sets the change detector.
//
func WithDetector(d Detector) Option {
	return func(c *Circuit) { c.cfg.Detector = d }
}

// WithReset sets the reset policy and random seed.
//
func WithReset(r ResetPolicy, seed int64) Option {
	return func(c *Circuit) {
		c.cfg.Reset = r
		c.cfg.Seed = seed
	}
}

// WithTracer attaches a trace collaborator to the circuit.
//
func WithTracer(t Tracer) Option {
	return func(c *Circuit) { c.tr = t }
}

// WithLogger sets the logger. By default, nothing is logged.
//
func WithLogger(l *slog.Logger) Option {
	return func(c *Circuit) { c.log = l }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

package hwtest

import (
	"os"
	"sort"

	"github.com/db47h/vsim"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Vectors is a test vector file:
//
//	design: FullAdder
//	config:
//	  debug: true
//	vectors:
//	  - in: {I0: 1, I1: 1, CIN: 1}
//	    out: {O: 1, COUT: 1}
//
type Vectors struct {
	// Design is the name of the model under test (see hwlib.New).
	Design string `yaml:"design"`
	// Config optionally overrides the default circuit configuration.
	Config *Config `yaml:"config,omitempty"`
	// Vectors are applied in order.
	Vectors []Vector `yaml:"vectors"`
}

// Config is the circuit configuration section of a vector file.
//
type Config struct {
	Debug         bool   `yaml:"debug"`
	MaxIterations int    `yaml:"max_iterations"`
	Detector      string `yaml:"detector"`
	Reset         string `yaml:"reset"`
	Seed          int64  `yaml:"seed"`
}

// Vector is a set of input values to apply and the expected output values
// once the circuit has settled.
//
type Vector struct {
	In  map[string]uint64 `yaml:"in"`
	Out map[string]uint64 `yaml:"out"`
}

// ParseVectors decodes a YAML vector file.
//
func ParseVectors(b []byte) (*Vectors, error) {
	var v Vectors
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, errors.Wrap(err, "parse vectors")
	}
	return &v, nil
}

// LoadVectors reads and decodes the YAML vector file at path.
//
func LoadVectors(path string) (*Vectors, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "load vectors")
	}
	v, err := ParseVectors(b)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return v, nil
}

// Options converts the config section into circuit options. A nil config
// returns no options.
//
func (c *Config) Options() ([]vsim.Option, error) {
	if c == nil {
		return nil, nil
	}
	cfg := vsim.DefaultConfig()
	cfg.Debug = c.Debug
	if c.MaxIterations > 0 {
		cfg.MaxIterations = c.MaxIterations
	}
	if c.Detector != "" {
		d, err := vsim.ParseDetector(c.Detector)
		if err != nil {
			return nil, err
		}
		cfg.Detector = d
	}
	if c.Reset != "" {
		r, err := vsim.ParseReset(c.Reset)
		if err != nil {
			return nil, err
		}
		cfg.Reset = r
	}
	cfg.Seed = c.Seed
	return []vsim.Option{vsim.WithConfig(cfg)}, nil
}

// Check verifies that all signals named in v exist in c, that values in "in"
// sections are inputs and that expected values fit the signal widths.
//
func (v *Vectors) Check(c *vsim.Circuit) error {
	for i, vec := range v.Vectors {
		for name := range vec.In {
			n, ok := c.Lookup(name)
			if !ok {
				return errors.Errorf("vector %d: unknown input %q", i, name)
			}
			if c.Store().Kind(n) != vsim.Input {
				return errors.Errorf("vector %d: %q is not an input", i, name)
			}
		}
		for name, want := range vec.Out {
			n, ok := c.Lookup(name)
			if !ok {
				return errors.Errorf("vector %d: unknown signal %q", i, name)
			}
			if want&^vsim.Mask(c.Store().Width(n)) != 0 {
				return errors.Errorf("vector %d: expected value %#x does not fit %q", i, want, name)
			}
		}
	}
	return nil
}

func sortedKeys(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Run applies the vectors v to the bench. It stops at the first mismatch or
// evaluation error.
//
func (b *Bench) Run(v *Vectors) error {
	if err := v.Check(b.C); err != nil {
		return err
	}
	for i, vec := range v.Vectors {
		for _, name := range sortedKeys(vec.In) {
			if err := b.Set(name, vec.In[name]); err != nil {
				return err
			}
		}
		if err := b.Step(); err != nil {
			return errors.Wrapf(err, "vector %d", i)
		}
		for _, name := range sortedKeys(vec.Out) {
			if err := b.Expect(name, vec.Out[name]); err != nil {
				return errors.Wrapf(err, "vector %d", i)
			}
		}
	}
	return nil
}

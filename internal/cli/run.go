package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/db47h/vsim"
	"github.com/db47h/vsim/hwlib"
	"github.com/db47h/vsim/hwtest"
	"github.com/db47h/vsim/vcd"
)

// RunOptions holds flags for the run command.
//
type RunOptions struct {
	*RootOptions
	Design   string
	Trace    string
	Debug    bool
	MaxIter  int
	Detector string
	Reset    string
	Seed     int64

	// NewID generates run identifiers. Defaults to UUIDv7.
	NewID func() string
}

// NewRunCommand creates the run command.
//
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <vectors.yaml>",
		Short: "Apply test vectors to a model",
		Long: `Apply the test vectors of a YAML file to a model and check its outputs.

The model is named by the "design" key of the file, or by --design. Circuit
settings from the file's "config" section can be overridden with flags.
The command fails on the first output mismatch or if the circuit does not
settle.

Example:
  vsim run hwtest/testdata/fulladder.yaml
  vsim run --design Adder8 --trace adder.vcd vectors.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVectors(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Design, "design", "", "model name, overrides the vector file")
	cmd.Flags().StringVar(&opts.Trace, "trace", "", "write a VCD trace to `file`")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "check input widths on every evaluation")
	cmd.Flags().IntVar(&opts.MaxIter, "max-iter", 0, "settle loop iteration ceiling (default 100)")
	cmd.Flags().StringVar(&opts.Detector, "detector", "", "change detector (reads|snapshot)")
	cmd.Flags().StringVar(&opts.Reset, "reset", "", "reset policy (zero|random)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random reset seed, implies --reset random unless --reset is given")

	return cmd
}

// circuitOptions returns the circuit options from the vector file config,
// overridden by the flags set on the command line.
//
func (o *RunOptions) circuitOptions(cmd *cobra.Command, v *hwtest.Vectors) ([]vsim.Option, error) {
	opts, err := v.Config.Options()
	if err != nil {
		return nil, err
	}
	fl := cmd.Flags()
	if fl.Changed("debug") {
		opts = append(opts, vsim.WithDebug(o.Debug))
	}
	if fl.Changed("max-iter") {
		opts = append(opts, vsim.WithMaxIterations(o.MaxIter))
	}
	if fl.Changed("detector") {
		d, err := vsim.ParseDetector(o.Detector)
		if err != nil {
			return nil, err
		}
		opts = append(opts, vsim.WithDetector(d))
	}
	if fl.Changed("reset") || fl.Changed("seed") {
		r := vsim.ResetRandom
		if fl.Changed("reset") {
			if r, err = vsim.ParseReset(o.Reset); err != nil {
				return nil, err
			}
		}
		seed := o.Seed
		if !fl.Changed("seed") && v.Config != nil {
			seed = v.Config.Seed
		}
		opts = append(opts, vsim.WithReset(r, seed))
	}
	return opts, nil
}

func runVectors(opts *RunOptions, path string, cmd *cobra.Command) (err error) {
	newID := opts.NewID
	if newID == nil {
		newID = func() string { return uuid.Must(uuid.NewV7()).String() }
	}
	id := newID()
	log := opts.Logger(cmd.ErrOrStderr()).With("run", id)

	v, err := hwtest.LoadVectors(path)
	if err != nil {
		return err
	}
	if opts.Design != "" {
		v.Design = opts.Design
	}
	if v.Design == "" {
		return errors.Errorf("%s: no design", path)
	}
	m, err := hwlib.New(v.Design)
	if err != nil {
		return err
	}
	copts, err := opts.circuitOptions(cmd, v)
	if err != nil {
		return err
	}
	b, err := hwtest.NewBench(m, append(copts, vsim.WithLogger(log))...)
	if err != nil {
		return err
	}
	defer func() {
		if ferr := b.Final(); err == nil {
			err = ferr
		}
	}()
	cfg := b.C.Config()
	log.Info("loaded vectors", "file", path, "design", v.Design, "vectors", len(v.Vectors),
		"debug", cfg.Debug, "max_iterations", cfg.MaxIterations, "detector", cfg.Detector, "reset", cfg.Reset)

	if opts.Trace != "" {
		f, err := os.Create(opts.Trace)
		if err != nil {
			return errors.Wrap(err, "create trace")
		}
		if err = b.Trace(f, vcd.Comment("run "+id), vcd.Date(time.Now())); err != nil {
			f.Close()
			return err
		}
		log.Debug("tracing", "file", opts.Trace)
	}

	out := cmd.OutOrStdout()
	if err := b.Run(v); err != nil {
		log.Error("run failed", "err", err, "time", b.Time)
		fmt.Fprintf(out, "FAIL %s: %v\n", v.Design, err)
		return err
	}
	s := b.C.Stats()
	log.Debug("stats", "evals", s.Evals, "passes", s.Passes)
	fmt.Fprintf(out, "PASS %s: %d vectors\n", v.Design, len(v.Vectors))
	return nil
}

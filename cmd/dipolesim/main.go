package main

import (
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/is-jow/dipolesim/internal/atoms"
	"github.com/is-jow/dipolesim/internal/config"
	"github.com/is-jow/dipolesim/internal/laser"
	"github.com/is-jow/dipolesim/internal/metrics"
	"github.com/is-jow/dipolesim/internal/optics"
	"github.com/is-jow/dipolesim/internal/solver"
	"github.com/is-jow/dipolesim/internal/storage"
)

var (
	log zerolog.Logger

	configFile string
	dataDir    string
	verbose    bool

	model    string
	numAtoms int
	shape    string
	size     float64
	height   float64
	minSep   float64
	seed     int64

	detuning float64
	rabi     float64
	waist    float64
	gamma    float64
	k0       float64

	duration    float64
	absTol      float64
	relTol      float64
	initialStep float64
	workers     int

	saveRun bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dipolesim",
		Short: "coupled-dipole optical response simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if verbose {
				level = zerolog.DebugLevel
			}
			log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).With().Timestamp().Logger()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "yaml config file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dipolesim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	steadyCmd := &cobra.Command{
		Use:   "steady",
		Short: "compute the steady state",
		RunE:  runSteady,
	}
	evolveCmd := &cobra.Command{
		Use:   "evolve",
		Short: "integrate the equations of motion over time",
		RunE:  runEvolve,
	}
	for _, cmd := range []*cobra.Command{steadyCmd, evolveCmd} {
		cmd.Flags().StringVar(&model, "model", "scalar", "model: scalar or meanfield")
		cmd.Flags().IntVar(&numAtoms, "atoms", config.DefaultAtoms, "atom count")
		cmd.Flags().StringVar(&shape, "shape", config.DefaultShape, "cloud shape: cube, sphere or cylinder")
		cmd.Flags().Float64Var(&size, "size", config.DefaultSize, "cloud side/radius in units of 1/k0")
		cmd.Flags().Float64Var(&height, "height", 0, "cylinder height")
		cmd.Flags().Float64Var(&minSep, "min-sep", config.DefaultMinSep, "minimum atom separation")
		cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-based)")
		cmd.Flags().Float64Var(&detuning, "detuning", 0, "laser detuning in units of gamma")
		cmd.Flags().Float64Var(&rabi, "rabi", config.DefaultRabi, "peak Rabi frequency")
		cmd.Flags().Float64Var(&waist, "waist", 0, "gaussian beam waist (0 = plane wave)")
		cmd.Flags().Float64Var(&gamma, "gamma", config.DefaultGamma, "atomic linewidth")
		cmd.Flags().Float64Var(&k0, "k0", config.DefaultK0, "wavenumber")
		cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "time span / steady-state horizon")
		cmd.Flags().Float64Var(&absTol, "abs-tol", 0, "absolute tolerance (0 = default)")
		cmd.Flags().Float64Var(&relTol, "rel-tol", 0, "relative tolerance (0 = default)")
		cmd.Flags().Float64Var(&initialStep, "dt0", 0, "initial step size (0 = default)")
		cmd.Flags().IntVar(&workers, "workers", 0, "matrix fill workers (0 = all CPUs)")
	}
	evolveCmd.Flags().BoolVar(&saveRun, "save", false, "persist the run under the data directory")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	rootCmd.AddCommand(steadyCmd, evolveCmd, runsCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	set := func(name string, fn func()) {
		if cmd.Flags().Changed(name) {
			fn()
		}
	}
	set("model", func() { cfg.Model = model })
	set("atoms", func() { cfg.Atoms = numAtoms })
	set("shape", func() { cfg.Shape = shape })
	set("size", func() { cfg.Size = size })
	set("height", func() { cfg.Height = height })
	set("min-sep", func() { cfg.MinSep = minSep })
	set("seed", func() { cfg.Seed = seed })
	set("detuning", func() { cfg.Detuning = detuning })
	set("rabi", func() { cfg.Rabi = rabi })
	set("waist", func() { cfg.Waist = waist })
	set("gamma", func() { cfg.Gamma = gamma })
	set("k0", func() { cfg.K0 = k0 })
	set("time", func() { cfg.Duration = duration })
	set("abs-tol", func() { cfg.AbsTol = absTol })
	set("rel-tol", func() { cfg.RelTol = relTol })
	set("dt0", func() { cfg.InitialStep = initialStep })
	set("workers", func() { cfg.Workers = workers })

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildProblem(cfg *config.Config) (optics.Problem, error) {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	var (
		cloud *atoms.Ensemble
		err   error
	)
	switch cfg.Shape {
	case "cube":
		cloud, err = atoms.Cube(cfg.Atoms, cfg.Size, cfg.MinSep, rng)
	case "sphere":
		cloud, err = atoms.Sphere(cfg.Atoms, cfg.Size, cfg.MinSep, rng)
	case "cylinder":
		cloud, err = atoms.Cylinder(cfg.Atoms, cfg.Size, cfg.Height, cfg.MinSep, rng)
	default:
		err = fmt.Errorf("unknown shape %q", cfg.Shape)
	}
	if err != nil {
		return optics.Problem{}, err
	}

	var pump laser.Pump
	if cfg.Waist > 0 {
		pump = laser.Gaussian{Waist: cfg.Waist}
	}
	las := laser.Laser{Detuning: cfg.Detuning, Rabi: cfg.Rabi, Pump: pump}

	kind := optics.Scalar
	if cfg.Model == "meanfield" {
		kind = optics.MeanField
	}

	p := optics.New(kind, cloud, las, cfg.Gamma, cfg.K0)
	p.Workers = cfg.Workers
	return p, nil
}

func solverOptions(cfg *config.Config) solver.Options {
	return solver.Options{
		AbsTol:      cfg.AbsTol,
		RelTol:      cfg.RelTol,
		InitialStep: cfg.InitialStep,
		Horizon:     cfg.Duration,
	}
}

func runSteady(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := buildProblem(cfg)
	if err != nil {
		return err
	}

	log.Info().Str("model", cfg.Model).Int("atoms", cfg.Atoms).
		Float64("detuning", cfg.Detuning).Msg("solving steady state")

	start := time.Now()
	state, err := solver.SteadyState(p, solverOptions(cfg))
	if err != nil {
		return err
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("done")

	printState(p, state)
	return nil
}

func runEvolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := buildProblem(cfg)
	if err != nil {
		return err
	}

	opts := solverOptions(cfg)
	opts.KeepTrajectory = true

	log.Info().Str("model", cfg.Model).Int("atoms", cfg.Atoms).
		Float64("time", cfg.Duration).Msg("evolving")

	start := time.Now()
	result, err := solver.Evolve(p, p.InitialState(), 0, cfg.Duration, opts)
	if err != nil {
		return err
	}
	log.Info().Dur("elapsed", time.Since(start)).
		Int("steps", result.Stats.Steps).
		Int("rejected", result.Stats.Rejected).
		Int("evaluations", result.Stats.Evaluations).
		Msg("done")

	observed := []metrics.Metric{
		metrics.NewExcitedPopulation(p.Size()),
		metrics.NewPeakExcitation(p.Size()),
	}
	if p.Kind == optics.MeanField {
		observed = append(observed, metrics.NewInversion(p.Size()))
	}
	for i, y := range result.States {
		for _, m := range observed {
			m.Observe(y, result.Times[i])
		}
	}

	plotExcitation(p, result)

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	for _, m := range observed {
		fmt.Fprintf(w, "%s\t%.6g\n", m.Name(), m.Value())
	}
	fmt.Fprintf(w, "final_excitation\t%.6g\n", metrics.Excitation(result.Final, p.Size()))
	w.Flush()

	if saveRun {
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		meta := storage.RunMetadata{
			Model:     cfg.Model,
			Timestamp: time.Now(),
			Atoms:     cfg.Atoms,
			Detuning:  cfg.Detuning,
			Rabi:      cfg.Rabi,
			Gamma:     cfg.Gamma,
			K0:        cfg.K0,
			Duration:  cfg.Duration,
			Seed:      cfg.Seed,
			Steps:     result.Stats.Steps,
			Metrics:   map[string]float64{},
		}
		for _, m := range observed {
			meta.Metrics[m.Name()] = m.Value()
		}
		id, err := store.Save(meta, result)
		if err != nil {
			return err
		}
		log.Info().Str("run", id).Msg("saved")
	}
	return nil
}

// plotExcitation draws the total excited population over time, downsampled
// to the terminal width.
func plotExcitation(p optics.Problem, result *solver.Result) {
	const width = 70
	if len(result.Times) < 2 {
		return
	}
	stride := len(result.Times) / width
	if stride < 1 {
		stride = 1
	}
	var trace []float64
	for i := 0; i < len(result.Times); i += stride {
		trace = append(trace, metrics.Excitation(result.States[i], p.Size()))
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(trace,
		asciigraph.Height(12),
		asciigraph.Caption("total excited population")))
}

func printState(p optics.Problem, state []complex128) {
	const maxRows = 15
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "atom\tre(beta)\tim(beta)\t|beta|^2")
	n := p.Size()
	for i := 0; i < n && i < maxRows; i++ {
		b := state[i]
		fmt.Fprintf(w, "%d\t%.6g\t%.6g\t%.6g\n", i, real(b), imag(b),
			real(b)*real(b)+imag(b)*imag(b))
	}
	if n > maxRows {
		fmt.Fprintf(w, "...\t(%d more)\t\t\n", n-maxRows)
	}
	fmt.Fprintf(w, "total\t\t\t%.6g\n", metrics.Excitation(state, n))
	w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no stored runs")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "id\tmodel\tatoms\tdetuning\tsteps\ttimestamp")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.3g\t%d\t%s\n",
			r.ID, r.Model, r.Atoms, r.Detuning, r.Steps,
			r.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}

// Package solver computes steady states and time evolutions of a coupled-
// dipole problem. The linear scalar model admits a direct dense solve; the
// nonlinear mean-field model is advanced by adaptive integration.
package solver

import (
	"errors"
	"fmt"

	"github.com/is-jow/dipolesim/internal/ode"
	"github.com/is-jow/dipolesim/internal/optics"
)

// DefaultHorizon is the integration horizon, in units of 1/Γ, that stands in
// for the nonlinear steady state.
const DefaultHorizon = 50.0

// ErrDimension reports a state vector whose length does not match the
// problem's layout.
var ErrDimension = errors.New("solver: state dimension mismatch")

// Options tune a solve or evolution. Zero values select the ode defaults
// (1e-10 tolerances, 1e-10 seed step).
type Options struct {
	AbsTol      float64
	RelTol      float64
	InitialStep float64
	MaxSteps    int

	// KeepTrajectory retains every accepted sample; otherwise only the
	// final state is returned.
	KeepTrajectory bool

	// Horizon overrides the evolution span used as the nonlinear steady
	// state. Ignored by the linear solve.
	Horizon float64
}

func (o Options) odeConfig() ode.Config {
	return ode.Config{
		InitialStep: o.InitialStep,
		AbsTol:      o.AbsTol,
		RelTol:      o.RelTol,
		MaxSteps:    o.MaxSteps,
		Keep:        o.KeepTrajectory,
	}
}

// Result is one evolution's output. Times and States are empty unless the
// trajectory was kept.
type Result struct {
	Times  []float64
	States [][]complex128
	Final  []complex128
	Stats  ode.Statistics
}

// Evolve advances y0 over [t0, t1] under the problem's equations of motion.
// It either returns a complete result or fails; a non-convergent integration
// is surfaced as an error, never truncated or retried.
func Evolve(p optics.Problem, y0 []complex128, t0, t1 float64, opts Options) (*Result, error) {
	if len(y0) != p.StateDim() {
		return nil, fmt.Errorf("%w: got %d, model %s with %d atoms needs %d",
			ErrDimension, len(y0), p.Kind, p.Size(), p.StateDim())
	}

	var f ode.Func
	switch p.Kind {
	case optics.Scalar:
		f = newScalarRHS(p)
	case optics.MeanField:
		f = newMeanFieldRHS(p)
	default:
		return nil, fmt.Errorf("solver: unknown model kind %d", p.Kind)
	}

	sol, err := ode.Solve(f, y0, t0, t1, opts.odeConfig())
	if err != nil {
		return nil, fmt.Errorf("evolving %s model: %w", p.Kind, err)
	}
	return &Result{
		Times:  sol.Times,
		States: sol.States,
		Final:  sol.Final,
		Stats:  sol.Stats,
	}, nil
}

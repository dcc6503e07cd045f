// Package ode integrates dense systems of complex-valued ordinary
// differential equations with adaptive step control. It is scoped to what the
// dipole models need (moderately stiff, tight tolerances, fast initial
// transients); it is not a general-purpose solver surface.
package ode

import "errors"

// Func evaluates dy/dt at (t, y) into dy. Implementations must not retain or
// resize either slice; the solver reuses them on every call.
type Func func(t float64, y []complex128, dy []complex128)

// Config tunes one Solve call. Zero values select the defaults below.
type Config struct {
	// InitialStep seeds the very first step. The default is deliberately
	// tiny (1e-10) so fast initial transients are resolved before the
	// controller grows the step.
	InitialStep float64

	// AbsTol and RelTol bound the per-component local error estimate.
	// Both default to 1e-10.
	AbsTol float64
	RelTol float64

	// MaxSteps caps attempted steps (accepted plus rejected) before the
	// integration is declared non-convergent.
	MaxSteps int

	// Keep retains every accepted sample in the returned Solution.
	// When false only the final state is stored.
	Keep bool
}

const (
	DefaultInitialStep = 1e-10
	DefaultAbsTol      = 1e-10
	DefaultRelTol      = 1e-10
	DefaultMaxSteps    = 2_000_000
)

// Statistics reports the work one Solve call performed.
type Statistics struct {
	Steps       int // accepted steps
	Rejected    int // rejected step attempts
	Evaluations int // Func calls
	LastStep    float64
}

// Solution holds the integration output. Times and States are populated only
// when Config.Keep is set; Final always holds the state at the end time.
type Solution struct {
	Times  []float64
	States [][]complex128
	Final  []complex128
	Stats  Statistics
}

var (
	// ErrMaxSteps reports that the step budget was exhausted before the
	// end time was reached.
	ErrMaxSteps = errors.New("ode: maximum step count exceeded")

	// ErrStepUnderflow reports that the controller shrank the step below
	// the resolvable minimum; the system is too stiff for the tolerances.
	ErrStepUnderflow = errors.New("ode: step size underflow")
)

func (c Config) withDefaults() Config {
	if c.InitialStep <= 0 {
		c.InitialStep = DefaultInitialStep
	}
	if c.AbsTol <= 0 {
		c.AbsTol = DefaultAbsTol
	}
	if c.RelTol <= 0 {
		c.RelTol = DefaultRelTol
	}
	if c.MaxSteps <= 0 {
		c.MaxSteps = DefaultMaxSteps
	}
	return c
}

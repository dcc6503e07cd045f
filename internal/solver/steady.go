package solver

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/is-jow/dipolesim/internal/optics"
)

// SteadyState computes the stationary state of the problem.
//
// For the scalar model this is the direct dense solve of G·β = (i/2)Ωₙ,
// factorize-and-solve, O(N³); a singular G (degenerate geometry or
// pathological detuning) fails the call.
//
// The mean-field model has no closed form. Its "steady state" is defined
// operationally as the endpoint of an evolution from the ground state over
// Options.Horizon time units (DefaultHorizon when zero), intermediate samples
// discarded. That endpoint is an approximation of the long-time limit, not a
// certified fixed point.
func SteadyState(p optics.Problem, opts Options) ([]complex128, error) {
	switch p.Kind {
	case optics.Scalar:
		return linearSteadyState(p)
	case optics.MeanField:
		horizon := opts.Horizon
		if horizon <= 0 {
			horizon = DefaultHorizon
		}
		opts.KeepTrajectory = false
		res, err := Evolve(p, p.InitialState(), 0, horizon, opts)
		if err != nil {
			return nil, fmt.Errorf("mean-field steady state: %w", err)
		}
		return res.Final, nil
	default:
		return nil, fmt.Errorf("solver: unknown model kind %d", p.Kind)
	}
}

// linearSteadyState solves the complex system through its real 2N×2N block
// embedding [[Re −Im],[Im Re]] with an LU factorization.
func linearSteadyState(p optics.Problem) ([]complex128, error) {
	g := optics.InteractionMatrix(p)
	omega := optics.DrivingVector(p)
	n := g.N
	if len(omega) != n {
		return nil, fmt.Errorf("%w: matrix is %d×%d, driving vector has %d entries",
			ErrDimension, n, n, len(omega))
	}

	a := mat.NewDense(2*n, 2*n, nil)
	b := mat.NewVecDense(2*n, nil)
	for j := 0; j < n; j++ {
		for k := 0; k < n; k++ {
			gjk := g.At(j, k)
			a.Set(j, k, real(gjk))
			a.Set(j, n+k, -imag(gjk))
			a.Set(n+j, k, imag(gjk))
			a.Set(n+j, n+k, real(gjk))
		}
		rhs := complex(0, 0.5) * omega[j]
		b.SetVec(j, real(rhs))
		b.SetVec(n+j, imag(rhs))
	}

	var lu mat.LU
	lu.Factorize(a)
	x := mat.NewVecDense(2*n, nil)
	if err := lu.SolveVecTo(x, false, b); err != nil {
		return nil, fmt.Errorf("linear steady state: interaction matrix is singular: %w", err)
	}

	beta := make([]complex128, n)
	for j := 0; j < n; j++ {
		beta[j] = complex(x.AtVec(j), x.AtVec(n+j))
	}
	return beta, nil
}

package solver

import (
	"math/cmplx"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"

	"github.com/is-jow/dipolesim/internal/ode"
	"github.com/is-jow/dipolesim/internal/optics"
)

// The RHS closures below are the hot path: an adaptive run evaluates them
// tens of thousands of times. Everything they need — coupling matrix,
// driving vector, scratch buffers — is built once here and reused on every
// call, so the evaluation itself never allocates. Scratch buffers belong to
// a single closure and must not be shared across concurrent evolutions.

// newScalarRHS builds du/dt = G·u + Ω′ with Ω′ = −(i/2)Ωₙ. Both G and Ω′
// are fixed for the whole integration.
func newScalarRHS(p optics.Problem) ode.Func {
	g := optics.InteractionMatrix(p).General()
	omega := optics.DrivingVector(p)
	drive := make([]complex128, len(omega))
	for i, w := range omega {
		drive[i] = complex(0, -0.5) * w
	}

	return func(t float64, y, dy []complex128) {
		n := len(y)
		cblas128.Gemv(blas.NoTrans, 1,
			g,
			cblas128.Vector{N: n, Inc: 1, Data: y},
			0,
			cblas128.Vector{N: n, Inc: 1, Data: dy})
		for i := range dy {
			dy[i] += drive[i]
		}
	}
}

// newMeanFieldRHS builds the two-level mean-field derivative. The state
// packs β in the first N entries and the inversion z in the second N.
// The coupling matrix arrives with its diagonal already zeroed, so G·β
// carries no self-coupling and the saved diagonal needs no further
// correction here.
func newMeanFieldRHS(p optics.Problem) ode.Func {
	g, _ := optics.MeanFieldMatrix(p)
	ga := g.General()
	omega := optics.DrivingVector(p)
	n := p.Size()
	self := complex(-p.Gamma/2, p.Laser.Detuning)
	gamma := p.Gamma

	gb := make([]complex128, n)
	w := make([]complex128, n)

	return func(t float64, y, dy []complex128) {
		beta := y[:n]
		z := y[n:]
		cblas128.Gemv(blas.NoTrans, 1,
			ga,
			cblas128.Vector{N: n, Inc: 1, Data: beta},
			0,
			cblas128.Vector{N: n, Inc: 1, Data: gb})
		for i := 0; i < n; i++ {
			w[i] = 0.5*omega[i] - 1i*gb[i]
			dy[i] = self*beta[i] + 1i*w[i]*z[i]
			dz := -gamma*(1+real(z[i])) - 4*imag(beta[i]*cmplx.Conj(w[i]))
			dy[n+i] = complex(dz, 0)
		}
	}
}

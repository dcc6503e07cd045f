// Package optics builds the coupled-dipole problem: the radiation-mediated
// interaction matrix between atoms and the projection of the driving laser
// onto the ensemble. Two models are supported, selected by Kind: the linear
// scalar dipole model and the nonlinear mean-field two-level model.
package optics

import (
	"github.com/is-jow/dipolesim/internal/atoms"
	"github.com/is-jow/dipolesim/internal/laser"
)

// Kind selects the physical model. Each kind binds its own matrix builder,
// initial condition and state layout.
type Kind int

const (
	// Scalar is the linear coupled-dipole model: one complex coherence
	// per atom, linear equations of motion.
	Scalar Kind = iota

	// MeanField is the nonlinear two-level model: a coherence and a
	// population inversion per atom.
	MeanField
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case MeanField:
		return "meanfield"
	default:
		return "unknown"
	}
}

// Problem aggregates everything one solve or evolution needs. The physical
// constants Gamma (linewidth) and K0 (wavenumber) are explicit fields, never
// package globals, so problems with different units can coexist.
type Problem struct {
	Kind  Kind
	Atoms *atoms.Ensemble
	Laser laser.Laser

	Gamma float64
	K0    float64

	// Workers bounds the parallelism of the matrix fill. Zero means one
	// worker per CPU.
	Workers int
}

// New assembles a Problem with the given model kind.
func New(kind Kind, e *atoms.Ensemble, l laser.Laser, gamma, k0 float64) Problem {
	return Problem{Kind: kind, Atoms: e, Laser: l, Gamma: gamma, K0: k0}
}

// Size returns the atom count N.
func (p Problem) Size() int { return p.Atoms.Size() }

// StateDim returns the length of the model state vector: N coherences for
// the scalar model, N coherences followed by N inversions for mean-field.
func (p Problem) StateDim() int {
	if p.Kind == MeanField {
		return 2 * p.Size()
	}
	return p.Size()
}

// InitialState returns the canonical ground state: all coherences zero, and
// for the mean-field model every inversion at z = 2|β|²−1 = −1.
func (p Problem) InitialState() []complex128 {
	n := p.Size()
	u := make([]complex128, p.StateDim())
	if p.Kind == MeanField {
		for i := n; i < 2*n; i++ {
			u[i] = -1
		}
	}
	return u
}

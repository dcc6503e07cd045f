// Package laser defines the driving field and its projection onto an atomic
// ensemble. A Pump describes the spatial mode of the beam; the Laser couples
// it with a detuning and a peak Rabi frequency.
package laser

import (
	"math"
	"math/cmplx"

	"github.com/is-jow/dipolesim/internal/atoms"
)

// Pump is the spatial profile of the driving beam: the complex field
// amplitude at a point, normalized to 1 at the beam reference (origin).
type Pump interface {
	Amplitude(k0 float64, pos [3]float64) complex128
}

// PlaneWave propagates along Direction with a flat envelope. Direction must
// be non-zero; it is normalized internally.
type PlaneWave struct {
	Direction [3]float64
}

func (p PlaneWave) Amplitude(k0 float64, pos [3]float64) complex128 {
	d := p.Direction
	norm := math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
	phase := k0 * (d[0]*pos[0] + d[1]*pos[1] + d[2]*pos[2]) / norm
	return cmplx.Exp(complex(0, phase))
}

// Gaussian is a paraxial Gaussian beam propagating along +z with waist w0 at
// the origin.
type Gaussian struct {
	Waist float64
}

func (g Gaussian) Amplitude(k0 float64, pos [3]float64) complex128 {
	w2 := g.Waist * g.Waist
	// q = 1 + 2iz/(k0 w0^2) tracks diffraction away from the waist.
	q := complex(1, 2*pos[2]/(k0*w2))
	rho2 := pos[0]*pos[0] + pos[1]*pos[1]
	return cmplx.Exp(complex(0, k0*pos[2])) / q *
		cmplx.Exp(-complex(rho2/w2, 0)/q)
}

// Laser drives every atom with the same detuning and a position-dependent
// amplitude Rabi·Pump(r). A nil Pump means a plane wave along +z.
type Laser struct {
	Detuning float64
	Rabi     float64
	Pump     Pump
}

// Project evaluates the driving amplitude at every atom position.
func (l Laser) Project(e *atoms.Ensemble, k0 float64) []complex128 {
	pump := l.Pump
	if pump == nil {
		pump = PlaneWave{Direction: [3]float64{0, 0, 1}}
	}
	omega := make([]complex128, e.Size())
	for i := range omega {
		omega[i] = complex(l.Rabi, 0) * pump.Amplitude(k0, e.Position(i))
	}
	return omega
}

package atoms

import (
	"fmt"
	"math"
)

// Ensemble is a fixed cloud of point scatterers. Positions are in units of
// 1/k0 and are never mutated after construction, so an Ensemble can be shared
// across concurrent solves.
type Ensemble struct {
	positions [][3]float64
}

// New copies positions into a fresh Ensemble. At least one atom is required.
// Positions must be pairwise distinct; coincident atoms produce a degenerate
// coupling matrix downstream (division by zero), which is not guarded here.
func New(positions [][3]float64) (*Ensemble, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("ensemble needs at least one atom")
	}
	p := make([][3]float64, len(positions))
	copy(p, positions)
	return &Ensemble{positions: p}, nil
}

func (e *Ensemble) Size() int { return len(e.positions) }

// Position returns the location of atom i.
func (e *Ensemble) Position(i int) [3]float64 { return e.positions[i] }

// Positions returns the backing position slice. Callers must treat it as
// read-only.
func (e *Ensemble) Positions() [][3]float64 { return e.positions }

// Distances computes the symmetric N×N matrix of pairwise distances. The
// diagonal is zero.
func (e *Ensemble) Distances() [][]float64 {
	n := len(e.positions)
	d := make([][]float64, n)
	for j := range d {
		d[j] = make([]float64, n)
	}
	for j := 0; j < n; j++ {
		for k := j + 1; k < n; k++ {
			r := dist(e.positions[j], e.positions[k])
			d[j][k] = r
			d[k][j] = r
		}
	}
	return d
}

func dist(a, b [3]float64) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

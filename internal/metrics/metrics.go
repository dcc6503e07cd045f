// Package metrics accumulates summary quantities over an evolution
// trajectory: feed every sample to Observe and read Value at the end.
package metrics

import "math/cmplx"

type Metric interface {
	Name() string
	Observe(y []complex128, t float64)
	Value() float64
	Reset()
}

// ExcitedPopulation averages the total excited population Σ|β|² over the
// observed samples. atoms is the coherence count N; mean-field states carry
// 2N entries and only the first N contribute.
type ExcitedPopulation struct {
	atoms   int
	total   float64
	samples int
}

func NewExcitedPopulation(atoms int) *ExcitedPopulation {
	return &ExcitedPopulation{atoms: atoms}
}

func (e *ExcitedPopulation) Name() string { return "excited_population" }

func (e *ExcitedPopulation) Observe(y []complex128, t float64) {
	e.total += excitation(y, e.atoms)
	e.samples++
}

func (e *ExcitedPopulation) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *ExcitedPopulation) Reset() {
	e.total = 0
	e.samples = 0
}

// PeakExcitation tracks the maximum of Σ|β|² over the trajectory.
type PeakExcitation struct {
	atoms int
	peak  float64
}

func NewPeakExcitation(atoms int) *PeakExcitation {
	return &PeakExcitation{atoms: atoms}
}

func (p *PeakExcitation) Name() string { return "peak_excitation" }

func (p *PeakExcitation) Observe(y []complex128, t float64) {
	if s := excitation(y, p.atoms); s > p.peak {
		p.peak = s
	}
}

func (p *PeakExcitation) Value() float64 { return p.peak }

func (p *PeakExcitation) Reset() { p.peak = 0 }

// Inversion reports the mean population inversion z of the last observed
// sample. Only meaningful for mean-field states (2N entries).
type Inversion struct {
	atoms int
	last  float64
	seen  bool
}

func NewInversion(atoms int) *Inversion {
	return &Inversion{atoms: atoms}
}

func (iv *Inversion) Name() string { return "mean_inversion" }

func (iv *Inversion) Observe(y []complex128, t float64) {
	if len(y) < 2*iv.atoms {
		return
	}
	sum := 0.0
	for _, z := range y[iv.atoms : 2*iv.atoms] {
		sum += real(z)
	}
	iv.last = sum / float64(iv.atoms)
	iv.seen = true
}

func (iv *Inversion) Value() float64 {
	if !iv.seen {
		return 0
	}
	return iv.last
}

func (iv *Inversion) Reset() {
	iv.last = 0
	iv.seen = false
}

// Excitation returns Σ|β|² for the first atoms entries of a state.
func Excitation(y []complex128, atoms int) float64 {
	return excitation(y, atoms)
}

func excitation(y []complex128, atoms int) float64 {
	if atoms > len(y) {
		atoms = len(y)
	}
	sum := 0.0
	for _, b := range y[:atoms] {
		a := cmplx.Abs(b)
		sum += a * a
	}
	return sum
}

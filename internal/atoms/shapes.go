package atoms

import (
	"fmt"
	"math"
	"math/rand"
)

// maxPlacementTries bounds the rejection loop per atom before giving up on
// the requested minimum separation.
const maxPlacementTries = 10000

// Cube samples n atoms uniformly inside a cube of the given side length,
// centered at the origin. minSep > 0 enforces a minimum pairwise separation
// via rejection sampling.
func Cube(n int, side, minSep float64, rng *rand.Rand) (*Ensemble, error) {
	if side <= 0 {
		return nil, fmt.Errorf("cube side must be positive, got %f", side)
	}
	return sample(n, minSep, rng, func() [3]float64 {
		return [3]float64{
			side * (rng.Float64() - 0.5),
			side * (rng.Float64() - 0.5),
			side * (rng.Float64() - 0.5),
		}
	})
}

// Sphere samples n atoms uniformly inside a ball of the given radius,
// centered at the origin.
func Sphere(n int, radius, minSep float64, rng *rand.Rand) (*Ensemble, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("sphere radius must be positive, got %f", radius)
	}
	return sample(n, minSep, rng, func() [3]float64 {
		for {
			p := [3]float64{
				2 * radius * (rng.Float64() - 0.5),
				2 * radius * (rng.Float64() - 0.5),
				2 * radius * (rng.Float64() - 0.5),
			}
			if p[0]*p[0]+p[1]*p[1]+p[2]*p[2] <= radius*radius {
				return p
			}
		}
	})
}

// Cylinder samples n atoms uniformly inside a cylinder of the given radius
// and height, axis along z, centered at the origin.
func Cylinder(n int, radius, height, minSep float64, rng *rand.Rand) (*Ensemble, error) {
	if radius <= 0 || height <= 0 {
		return nil, fmt.Errorf("cylinder dimensions must be positive, got r=%f h=%f", radius, height)
	}
	return sample(n, minSep, rng, func() [3]float64 {
		r := radius * math.Sqrt(rng.Float64())
		phi := 2 * math.Pi * rng.Float64()
		return [3]float64{
			r * math.Cos(phi),
			r * math.Sin(phi),
			height * (rng.Float64() - 0.5),
		}
	})
}

func sample(n int, minSep float64, rng *rand.Rand, draw func() [3]float64) (*Ensemble, error) {
	if n < 1 {
		return nil, fmt.Errorf("atom count must be at least 1, got %d", n)
	}
	positions := make([][3]float64, 0, n)
	for len(positions) < n {
		placed := false
		for try := 0; try < maxPlacementTries; try++ {
			p := draw()
			if minSep > 0 && tooClose(positions, p, minSep) {
				continue
			}
			positions = append(positions, p)
			placed = true
			break
		}
		if !placed {
			return nil, fmt.Errorf("could not place atom %d with separation %f after %d tries",
				len(positions), minSep, maxPlacementTries)
		}
	}
	return New(positions)
}

func tooClose(positions [][3]float64, p [3]float64, minSep float64) bool {
	for _, q := range positions {
		if dist(p, q) < minSep {
			return true
		}
	}
	return false
}

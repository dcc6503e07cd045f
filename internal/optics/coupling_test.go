package optics

import (
	"math/cmplx"
	"math/rand"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/is-jow/dipolesim/internal/atoms"
	"github.com/is-jow/dipolesim/internal/laser"
)

func testProblem(t *testing.T, kind Kind, n int, detuning float64) Problem {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	cloud, err := atoms.Cube(n, 20.0, 1.0, rng)
	require.NoError(t, err)
	return New(kind, cloud, laser.Laser{Detuning: detuning, Rabi: 0.1}, 1.0, 1.0)
}

func TestInteractionMatrix_Symmetric(t *testing.T) {
	p := testProblem(t, Scalar, 12, 0.7)
	g := InteractionMatrix(p)
	for j := 0; j < g.N; j++ {
		for k := j + 1; k < g.N; k++ {
			assert.InDelta(t, 0, cmplx.Abs(g.At(j, k)-g.At(k, j)), 1e-15,
				"entry (%d,%d) not symmetric", j, k)
		}
	}
}

func TestInteractionMatrix_Diagonal(t *testing.T) {
	for _, detuning := range []float64{-2.5, 0, 0.3, 10} {
		p := testProblem(t, Scalar, 5, detuning)
		g := InteractionMatrix(p)
		want := complex(-p.Gamma/2, detuning)
		for j := 0; j < g.N; j++ {
			assert.Equal(t, want, g.At(j, j), "diagonal at %d for detuning %f", j, detuning)
		}
	}
}

func TestInteractionMatrix_TwoAtomsByHand(t *testing.T) {
	const (
		d     = 1.7
		gamma = 1.0
		k0    = 1.0
	)
	cloud, err := atoms.New([][3]float64{{0, 0, 0}, {d, 0, 0}})
	require.NoError(t, err)
	p := New(Scalar, cloud, laser.Laser{Detuning: 0}, gamma, k0)

	g := InteractionMatrix(p)

	x := complex(0, k0*d)
	off := -complex(gamma/2, 0) * cmplx.Exp(x) / x
	diag := complex(-gamma/2, 0)

	assert.InDelta(t, 0, cmplx.Abs(g.At(0, 0)-diag), 1e-15)
	assert.InDelta(t, 0, cmplx.Abs(g.At(1, 1)-diag), 1e-15)
	assert.InDelta(t, 0, cmplx.Abs(g.At(0, 1)-off), 1e-15)
	assert.InDelta(t, 0, cmplx.Abs(g.At(1, 0)-off), 1e-15)
}

func TestInteractionMatrix_Pure(t *testing.T) {
	p := testProblem(t, Scalar, 8, 1.2)
	g1 := InteractionMatrix(p)
	g2 := InteractionMatrix(p)
	assert.True(t, reflect.DeepEqual(g1.Data, g2.Data),
		"same problem produced different matrices")
}

func TestInteractionMatrix_WorkerCountIrrelevant(t *testing.T) {
	p := testProblem(t, Scalar, 17, -0.4)

	serial := p
	serial.Workers = 1
	parallel := p
	parallel.Workers = 4

	g1 := InteractionMatrix(serial)
	g2 := InteractionMatrix(parallel)
	assert.True(t, reflect.DeepEqual(g1.Data, g2.Data),
		"parallel fill disagrees with serial fill")
}

func TestMeanFieldMatrix(t *testing.T) {
	p := testProblem(t, MeanField, 6, 0.9)
	scalar := InteractionMatrix(p)
	g, diag := MeanFieldMatrix(p)

	require.Equal(t, scalar.N, g.N)
	require.Len(t, diag, g.N)

	wantDiag := complex(-p.Gamma/2, p.Laser.Detuning)
	for j := 0; j < g.N; j++ {
		assert.Equal(t, complex128(0), g.At(j, j), "diagonal not zeroed at %d", j)
		assert.InDelta(t, 0, cmplx.Abs(diag[j]-wantDiag), 1e-15,
			"saved diagonal at %d", j)
		for k := 0; k < g.N; k++ {
			if j == k {
				continue
			}
			assert.InDelta(t, 0, cmplx.Abs(g.At(j, k)+scalar.At(j, k)), 1e-15,
				"off-diagonal (%d,%d) not negated", j, k)
		}
	}
}

func TestDrivingVector(t *testing.T) {
	p := testProblem(t, Scalar, 9, 0)
	omega := DrivingVector(p)
	require.Len(t, omega, p.Size())
	for i, w := range omega {
		assert.InDelta(t, p.Laser.Rabi, cmplx.Abs(w), 1e-15, "drive modulus at atom %d", i)
	}
}

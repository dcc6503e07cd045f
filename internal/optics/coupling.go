package optics

import (
	"math/cmplx"
	"runtime"
	"sync"
)

// InteractionMatrix builds the scalar Green's function matrix G:
//
//	G[j,k] = -(Γ/2)·exp(i k₀ R_jk)/(i k₀ R_jk)   for j ≠ k
//	G[j,j] = iΔ − Γ/2
//
// It is a pure function of the problem's atoms and laser. Atom positions
// must be pairwise distinct; a zero distance divides by zero and is not
// guarded here.
//
// Every entry depends only on geometry, so rows are filled in parallel
// across Problem.Workers goroutines with disjoint output writes.
func InteractionMatrix(p Problem) Matrix {
	n := p.Size()
	g := NewMatrix(n)
	dist := p.Atoms.Distances()
	diag := complex(-p.Gamma/2, p.Laser.Detuning)
	halfGamma := complex(p.Gamma/2, 0)

	fillRows(n, p.Workers, func(j int) {
		for k := 0; k < n; k++ {
			if j == k {
				g.Data[j*n+j] = diag
				continue
			}
			x := complex(0, p.K0*dist[j][k])
			g.Data[j*n+k] = -halfGamma * cmplx.Exp(x) / x
		}
	})
	return g
}

// MeanFieldMatrix derives the mean-field coupling matrix from the scalar
// Green's function: every entry negated and the diagonal zeroed. The removed
// diagonal (iΔ − Γ/2 per atom) is returned separately as the self-term
// vector; with the diagonal pre-zeroed the matrix-vector product in the
// equations of motion already excludes self-coupling.
func MeanFieldMatrix(p Problem) (Matrix, []complex128) {
	g := InteractionMatrix(p)
	n := g.N
	diag := make([]complex128, n)
	for i := range g.Data {
		g.Data[i] = -g.Data[i]
	}
	for j := 0; j < n; j++ {
		diag[j] = -g.Data[j*n+j]
		g.Data[j*n+j] = 0
	}
	return g, diag
}

// fillRows runs fn(j) for every row index, partitioned statically across
// workers. No synchronization beyond the final join.
func fillRows(n, workers int, fn func(j int)) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for j := 0; j < n; j++ {
			fn(j)
		}
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for j := lo; j < hi; j++ {
				fn(j)
			}
		}(lo, hi)
	}
	wg.Wait()
}

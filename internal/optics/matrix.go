package optics

import (
	"gonum.org/v1/gonum/blas/cblas128"
)

// Matrix is a dense row-major N×N complex matrix.
type Matrix struct {
	N    int
	Data []complex128
}

// NewMatrix allocates a zero N×N matrix.
func NewMatrix(n int) Matrix {
	return Matrix{N: n, Data: make([]complex128, n*n)}
}

func (m Matrix) At(i, j int) complex128 { return m.Data[i*m.N+j] }

func (m Matrix) Set(i, j int, v complex128) { m.Data[i*m.N+j] = v }

// General views the matrix as a cblas128 operand without copying.
func (m Matrix) General() cblas128.General {
	return cblas128.General{Rows: m.N, Cols: m.N, Stride: m.N, Data: m.Data}
}

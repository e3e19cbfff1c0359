package lyap

import (
	"github.com/statkit/golyap/cmat"
	"gonum.org/v1/gonum/blas/cblas128"
)

// SolveDirect solves the discrete Lyapunov equation Σ = T Σ Tᴴ + Q by
// vectorization:
//
//	(I − T ⊗ conj(T)) vec(Σ) = vec(Q)
//
// with vec stacking rows, matching the slice layout. The m²×m² system makes
// this the O(m⁶) reference path, intended for small m and as an independent
// check on the transform-based solvers.
//
// Returns cmat.ErrSingular when the Kronecker operator is singular, which
// happens exactly when T has an eigenvalue pair whose product is one — the
// marginal, non-stationary cases (including |T| = 1 at m = 1).
func SolveDirect(t, q cblas128.General) (cblas128.General, error) {
	m := t.Rows
	if t.Cols != m || q.Rows != m || q.Cols != m {
		return cblas128.General{}, cmat.ErrDimension
	}

	// M = I − T ⊗ conj(T)
	op := cmat.Kron(t, cmat.Conj(t))
	mm := m * m
	for i := 0; i < mm; i++ {
		for j := 0; j < mm; j++ {
			op.Data[i*op.Stride+j] = -op.Data[i*op.Stride+j]
		}
		op.Data[i*op.Stride+i]++
	}

	rhs := cmat.New(mm, 1)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			rhs.Data[i*m+j] = q.Data[i*q.Stride+j]
		}
	}

	vec, err := cmat.Solve(op, rhs)
	if err != nil {
		return cblas128.General{}, err
	}

	sigma := cmat.New(m, m)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			sigma.Data[i*sigma.Stride+j] = vec.Data[i*m+j]
		}
	}
	return sigma, nil
}

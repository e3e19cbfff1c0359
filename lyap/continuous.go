package lyap

import (
	"fmt"
	"github.com/statkit/golyap/cmat"
	"gonum.org/v1/gonum/blas/cblas128"
	"math/cmplx"
)

// machEps is the double-precision unit roundoff.
const machEps = 2.220446049250313e-16

// SolveContinuous solves the continuous Lyapunov equation
//
//	B X + X Bᴴ = −C
//
// by the Bartels–Stewart algorithm: Schur-decompose B = U S Uᴴ, solve the
// reduced triangular equation S Y + Y Sᴴ = −Uᴴ C U column by column, then
// map back X = U Y Uᴴ. Cost is O(m³), dominated by the decomposition.
//
// A unique solution exists iff every eigenvalue of B has negative real part;
// otherwise, or when a resonance s_i + conj(s_j) ≈ 0 makes a pivot vanish,
// ErrNonStationary is returned.
func SolveContinuous(b, c cblas128.General) (cblas128.General, error) {
	m := b.Rows
	if b.Cols != m || c.Rows != m || c.Cols != m {
		return cblas128.General{}, cmat.ErrDimension
	}

	u, s, err := cmat.Schur(b)
	if err != nil {
		return cblas128.General{}, err
	}
	for i := 0; i < m; i++ {
		if l := s.Data[i*s.Stride+i]; real(l) >= 0 {
			return cblas128.General{}, fmt.Errorf(
				"lyap: eigenvalue %v has non-negative real part: %w", l, ErrNonStationary)
		}
	}

	// R = −Uᴴ C U
	uh := cmat.ConjTranspose(u)
	r, err := cmat.Mul(uh, c)
	if err != nil {
		return cblas128.General{}, err
	}
	r, err = cmat.Mul(r, u)
	if err != nil {
		return cblas128.General{}, err
	}
	for i := range r.Data {
		r.Data[i] = -r.Data[i]
	}

	// Back substitution on S Y + Y Sᴴ = R, columns right to left. Column k
	// satisfies (S + conj(s_kk) I) y_k = r_k − Σ_{j>k} conj(S_kj) y_j,
	// an upper-triangular system.
	y := cmat.New(m, m)
	scale := cmat.MaxAbs(s)
	if scale == 0 {
		scale = 1
	}
	for k := m - 1; k >= 0; k-- {
		skk := cmplx.Conj(s.Data[k*s.Stride+k])
		for i := m - 1; i >= 0; i-- {
			rhs := r.Data[i*r.Stride+k]
			for j := k + 1; j < m; j++ {
				rhs -= cmplx.Conj(s.Data[k*s.Stride+j]) * y.Data[i*y.Stride+j]
			}
			for j := i + 1; j < m; j++ {
				rhs -= s.Data[i*s.Stride+j] * y.Data[j*y.Stride+k]
			}
			den := s.Data[i*s.Stride+i] + skk
			if cmplx.Abs(den) <= machEps*scale {
				return cblas128.General{}, fmt.Errorf(
					"lyap: eigenvalue resonance s_%d + conj(s_%d) ≈ 0: %w", i, k, ErrNonStationary)
			}
			y.Data[i*y.Stride+k] = rhs / den
		}
	}

	x, err := cmat.Mul(u, y)
	if err != nil {
		return cblas128.General{}, err
	}
	return cmat.Mul(x, uh)
}

package lyap

import (
	"errors"
	"fmt"
	"github.com/statkit/golyap/cmat"
	"gonum.org/v1/gonum/blas/cblas128"
)

// The bilinear (Cayley) transform maps the discrete Lyapunov problem (T, Q)
// to an equivalent continuous one, so the O(m³) Schur path applies instead
// of the O(m⁶) Kronecker solve. Both variants below require that T has no
// eigenvalue at a fixed point of the transform (an eigenvalue of modulus one
// on the real axis); that violation is reported as ErrTransformSingular,
// distinct from plain non-stationarity.

// SolveBilinear1 solves Σ = T Σ Tᴴ + Q via the first transform variant:
// with A = Tᴴ, form B = (A − I)⁻¹(A + I), solve Bᴴ X + X B = −Q, and map
// back Σ = 0.5·(B − I)ᴴ X (B − I).
func SolveBilinear1(t, q cblas128.General) (cblas128.General, error) {
	m := t.Rows
	if t.Cols != m || q.Rows != m || q.Cols != m {
		return cblas128.General{}, cmat.ErrDimension
	}
	a := cmat.ConjTranspose(t)
	eye := cmat.Eye(m)

	am, err := cmat.Sub(a, eye)
	if err != nil {
		return cblas128.General{}, err
	}
	amInv, err := cmat.Inverse(am)
	if err != nil {
		return cblas128.General{}, transformErr(err)
	}
	ap, err := cmat.Add(a, eye)
	if err != nil {
		return cblas128.General{}, err
	}
	b, err := cmat.Mul(amInv, ap)
	if err != nil {
		return cblas128.General{}, err
	}

	x, err := SolveContinuous(cmat.ConjTranspose(b), q)
	if err != nil {
		return cblas128.General{}, err
	}

	// Σ = 0.5 (B − I)ᴴ X (B − I)
	bm, err := cmat.Sub(b, eye)
	if err != nil {
		return cblas128.General{}, err
	}
	sigma, err := cmat.Mul(cmat.ConjTranspose(bm), x)
	if err != nil {
		return cblas128.General{}, err
	}
	sigma, err = cmat.Mul(sigma, bm)
	if err != nil {
		return cblas128.General{}, err
	}
	return cmat.Scale(0.5, sigma), nil
}

// SolveBilinear2 solves Σ = T Σ Tᴴ + Q via the second transform variant:
// with A = Tᴴ, form B = (A − I)(A + I)⁻¹ and C = 2·(Aᴴ + I)⁻¹ Q (A + I)⁻¹,
// then solve Bᴴ Σ + Σ B = −C. The transform is applied symmetrically, so the
// continuous solution is Σ itself and no post-multiplication is needed.
func SolveBilinear2(t, q cblas128.General) (cblas128.General, error) {
	m := t.Rows
	if t.Cols != m || q.Rows != m || q.Cols != m {
		return cblas128.General{}, cmat.ErrDimension
	}
	a := cmat.ConjTranspose(t)
	eye := cmat.Eye(m)

	ap, err := cmat.Add(a, eye)
	if err != nil {
		return cblas128.General{}, err
	}
	apInv, err := cmat.Inverse(ap)
	if err != nil {
		return cblas128.General{}, transformErr(err)
	}
	am, err := cmat.Sub(a, eye)
	if err != nil {
		return cblas128.General{}, err
	}
	b, err := cmat.Mul(am, apInv)
	if err != nil {
		return cblas128.General{}, err
	}

	// Aᴴ = T, so the left factor of C is (T + I)⁻¹.
	tp, err := cmat.Add(t, eye)
	if err != nil {
		return cblas128.General{}, err
	}
	tpInv, err := cmat.Inverse(tp)
	if err != nil {
		return cblas128.General{}, transformErr(err)
	}
	c, err := cmat.Mul(tpInv, q)
	if err != nil {
		return cblas128.General{}, err
	}
	c, err = cmat.Mul(c, apInv)
	if err != nil {
		return cblas128.General{}, err
	}
	c = cmat.Scale(2, c)

	return SolveContinuous(cmat.ConjTranspose(b), c)
}

// transformErr maps a singular inversion inside the reduction to the
// transform's own failure mode.
func transformErr(err error) error {
	if errors.Is(err, cmat.ErrSingular) {
		return fmt.Errorf("lyap: transition matrix has an eigenvalue at a Cayley fixed point: %w",
			ErrTransformSingular)
	}
	return err
}

package cmat

import (
	"math"
	"math/cmplx"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/blas/cblas128"
)

// requireSchur checks the decomposition contract: U unitary, S upper
// triangular, and A = U S Uᴴ.
func requireSchur(t *testing.T, a, u, s cblas128.General, tol float64) {
	t.Helper()
	n := a.Rows

	uh := ConjTranspose(u)
	uut, err := Mul(u, uh)
	require.NoError(t, err)
	require.True(t, EqualApprox(uut, Eye(n), tol), "U is not unitary")

	for i := 1; i < n; i++ {
		for j := 0; j < i; j++ {
			require.InDelta(t, 0, cmplx.Abs(s.Data[i*s.Stride+j]), tol,
				"S has a nonzero below the diagonal at (%d,%d)", i, j)
		}
	}

	us, err := Mul(u, s)
	require.NoError(t, err)
	rec, err := Mul(us, uh)
	require.NoError(t, err)
	require.True(t, EqualApprox(rec, a, tol), "U S Uᴴ does not reproduce A")
}

func TestSchurReal(t *testing.T) {
	a := mustFromRows(t, [][]complex128{
		{4, 1, -2},
		{1, 2, 0},
		{1, -1, 3},
	})
	u, s, err := Schur(a)
	require.NoError(t, err)
	requireSchur(t, a, u, s, 1e-10)
}

func TestSchurComplexEigenpair(t *testing.T) {
	// Rotation-like matrix with eigenvalues ±i.
	a := mustFromRows(t, [][]complex128{
		{0, 1},
		{-1, 0},
	})
	u, s, err := Schur(a)
	require.NoError(t, err)
	requireSchur(t, a, u, s, 1e-12)

	eig := []complex128{s.Data[0], s.Data[s.Stride+1]}
	sort.Slice(eig, func(i, j int) bool { return imag(eig[i]) < imag(eig[j]) })
	require.InDelta(t, 0, cmplx.Abs(eig[0]-(-1i)), 1e-12)
	require.InDelta(t, 0, cmplx.Abs(eig[1]-1i), 1e-12)
}

func TestSchurComplexInput(t *testing.T) {
	a := mustFromRows(t, [][]complex128{
		{1 + 1i, 2, 0},
		{-1, 0.5i, 1},
		{0.3, 1 - 1i, -2},
	})
	u, s, err := Schur(a)
	require.NoError(t, err)
	requireSchur(t, a, u, s, 1e-10)
}

func TestSchurHermitianRealEigenvalues(t *testing.T) {
	a := mustFromRows(t, [][]complex128{
		{2, 1 - 1i},
		{1 + 1i, 3},
	})
	u, s, err := Schur(a)
	require.NoError(t, err)
	requireSchur(t, a, u, s, 1e-12)
	for i := 0; i < 2; i++ {
		require.InDelta(t, 0, imag(s.Data[i*s.Stride+i]), 1e-12)
	}
}

func TestSchurTriangularInput(t *testing.T) {
	a := mustFromRows(t, [][]complex128{
		{1, 5, 2},
		{0, 2, -1},
		{0, 0, 3},
	})
	u, s, err := Schur(a)
	require.NoError(t, err)
	requireSchur(t, a, u, s, 1e-12)
}

func TestSchurScalar(t *testing.T) {
	a := mustFromRows(t, [][]complex128{{2 - 3i}})
	u, s, err := Schur(a)
	require.NoError(t, err)
	require.True(t, EqualApprox(u, Eye(1), 0))
	require.True(t, EqualApprox(s, a, 0))
}

func TestSchurNonSquare(t *testing.T) {
	_, _, err := Schur(New(2, 3))
	require.ErrorIs(t, err, ErrDimension)
}

func TestEigenvaluesDiagonal(t *testing.T) {
	a := mustFromRows(t, [][]complex128{
		{0.5, 0},
		{0, -0.25},
	})
	eig, err := Eigenvalues(a)
	require.NoError(t, err)
	sort.Slice(eig, func(i, j int) bool { return real(eig[i]) < real(eig[j]) })
	require.InDelta(t, 0, cmplx.Abs(eig[0]-(-0.25)), 1e-14)
	require.InDelta(t, 0, cmplx.Abs(eig[1]-0.5), 1e-14)
}

func TestSpectralRadiusCompanion(t *testing.T) {
	// Companion matrix with a complex root pair of modulus sqrt(0.5).
	a := mustFromRows(t, [][]complex128{
		{0, 1},
		{-0.5, 0.5},
	})
	rho, err := SpectralRadius(a)
	require.NoError(t, err)
	require.InDelta(t, math.Sqrt(0.5), rho, 1e-12)
}

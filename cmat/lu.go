package cmat

import (
	"gonum.org/v1/gonum/blas/cblas128"
	"math/cmplx"
)

// pivotTol is the relative pivot threshold below which a matrix is treated
// as numerically singular during elimination.
const pivotTol = 1e-13

// Solve computes X such that A·X = B using Gaussian elimination with
// partial pivoting. A must be square and B conformable.
func Solve(a, b cblas128.General) (cblas128.General, error) {
	n := a.Rows
	if a.Cols != n || b.Rows != n {
		return cblas128.General{}, ErrDimension
	}
	lu := Copy(a)
	x := Copy(b)
	scale := MaxAbs(a)
	if scale == 0 {
		return cblas128.General{}, ErrSingular
	}
	k := x.Cols

	for col := 0; col < n; col++ {
		// Partial pivoting: bring the largest remaining entry of the
		// column onto the diagonal.
		piv := col
		pivAbs := cmplx.Abs(lu.Data[col*lu.Stride+col])
		for i := col + 1; i < n; i++ {
			if v := cmplx.Abs(lu.Data[i*lu.Stride+col]); v > pivAbs {
				pivAbs = v
				piv = i
			}
		}
		if pivAbs <= pivotTol*scale {
			return cblas128.General{}, ErrSingular
		}
		if piv != col {
			swapRows(lu, piv, col)
			swapRows(x, piv, col)
		}
		pivot := lu.Data[col*lu.Stride+col]
		for i := col + 1; i < n; i++ {
			factor := lu.Data[i*lu.Stride+col] / pivot
			if factor == 0 {
				continue
			}
			for j := col + 1; j < n; j++ {
				lu.Data[i*lu.Stride+j] -= factor * lu.Data[col*lu.Stride+j]
			}
			for j := 0; j < k; j++ {
				x.Data[i*x.Stride+j] -= factor * x.Data[col*x.Stride+j]
			}
		}
	}

	// Back substitution.
	for col := n - 1; col >= 0; col-- {
		inv := 1 / lu.Data[col*lu.Stride+col]
		for j := 0; j < k; j++ {
			sum := x.Data[col*x.Stride+j]
			for i := col + 1; i < n; i++ {
				sum -= lu.Data[col*lu.Stride+i] * x.Data[i*x.Stride+j]
			}
			x.Data[col*x.Stride+j] = sum * inv
		}
	}
	return x, nil
}

// Inverse returns A⁻¹.
func Inverse(a cblas128.General) (cblas128.General, error) {
	if a.Rows != a.Cols {
		return cblas128.General{}, ErrDimension
	}
	return Solve(a, Eye(a.Rows))
}

func swapRows(a cblas128.General, i, j int) {
	ri := a.Data[i*a.Stride : i*a.Stride+a.Cols]
	rj := a.Data[j*a.Stride : j*a.Stride+a.Cols]
	for k := range ri {
		ri[k], rj[k] = rj[k], ri[k]
	}
}

// Package cmat implements dense complex matrix primitives on top of
// cblas128.General values. Real matrices are the degenerate case with zero
// imaginary parts. All operations are pure: they validate their inputs,
// allocate a fresh result and never retain references to their arguments.
package cmat

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/mat"
	"math/cmplx"
)

// New returns an r×c zero matrix.
func New(r, c int) cblas128.General {
	return cblas128.General{
		Rows:   r,
		Cols:   c,
		Stride: c,
		Data:   make([]complex128, r*c),
	}
}

// Eye returns the n×n identity matrix.
func Eye(n int) cblas128.General {
	out := New(n, n)
	for i := 0; i < n; i++ {
		out.Data[i*out.Stride+i] = 1
	}
	return out
}

// FromRows builds a matrix from row slices.
func FromRows(rows [][]complex128) (cblas128.General, error) {
	r := len(rows)
	if r == 0 {
		return cblas128.General{}, ErrDimension
	}
	c := len(rows[0])
	out := New(r, c)
	for i, row := range rows {
		if len(row) != c {
			return cblas128.General{}, ErrDimension
		}
		copy(out.Data[i*out.Stride:i*out.Stride+c], row)
	}
	return out, nil
}

// FromDense converts a real gonum matrix.
func FromDense(a mat.Matrix) cblas128.General {
	r, c := a.Dims()
	out := New(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Data[i*out.Stride+j] = complex(a.At(i, j), 0)
		}
	}
	return out
}

// Copy returns a fresh copy of a.
func Copy(a cblas128.General) cblas128.General {
	out := New(a.Rows, a.Cols)
	for i := 0; i < a.Rows; i++ {
		copy(out.Data[i*out.Stride:i*out.Stride+a.Cols],
			a.Data[i*a.Stride:i*a.Stride+a.Cols])
	}
	return out
}

// Conj returns the elementwise conjugate of a.
func Conj(a cblas128.General) cblas128.General {
	out := New(a.Rows, a.Cols)
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < a.Cols; j++ {
			out.Data[i*out.Stride+j] = cmplx.Conj(a.Data[i*a.Stride+j])
		}
	}
	return out
}

// ConjTranspose returns A^H.
func ConjTranspose(a cblas128.General) cblas128.General {
	out := New(a.Cols, a.Rows)
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < a.Cols; j++ {
			out.Data[j*out.Stride+i] = cmplx.Conj(a.Data[i*a.Stride+j])
		}
	}
	return out
}

// Add returns a + b.
func Add(a, b cblas128.General) (cblas128.General, error) {
	if a.Rows != b.Rows || a.Cols != b.Cols {
		return cblas128.General{}, ErrDimension
	}
	out := New(a.Rows, a.Cols)
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < a.Cols; j++ {
			out.Data[i*out.Stride+j] = a.Data[i*a.Stride+j] + b.Data[i*b.Stride+j]
		}
	}
	return out, nil
}

// Sub returns a − b.
func Sub(a, b cblas128.General) (cblas128.General, error) {
	if a.Rows != b.Rows || a.Cols != b.Cols {
		return cblas128.General{}, ErrDimension
	}
	out := New(a.Rows, a.Cols)
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < a.Cols; j++ {
			out.Data[i*out.Stride+j] = a.Data[i*a.Stride+j] - b.Data[i*b.Stride+j]
		}
	}
	return out, nil
}

// Scale returns alpha * a.
func Scale(alpha complex128, a cblas128.General) cblas128.General {
	out := New(a.Rows, a.Cols)
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < a.Cols; j++ {
			out.Data[i*out.Stride+j] = alpha * a.Data[i*a.Stride+j]
		}
	}
	return out
}

// Mul returns the product a·b.
func Mul(a, b cblas128.General) (cblas128.General, error) {
	if a.Cols != b.Rows {
		return cblas128.General{}, ErrDimension
	}
	out := New(a.Rows, b.Cols)
	if a.Rows == 0 || b.Cols == 0 || a.Cols == 0 {
		return out, nil
	}
	cblas128.Gemm(blas.NoTrans, blas.NoTrans, 1, a, b, 0, out)
	return out, nil
}

// Kron returns the Kronecker product a ⊗ b.
func Kron(a, b cblas128.General) cblas128.General {
	out := New(a.Rows*b.Rows, a.Cols*b.Cols)
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < a.Cols; j++ {
			aij := a.Data[i*a.Stride+j]
			for k := 0; k < b.Rows; k++ {
				row := (i*b.Rows + k) * out.Stride
				for l := 0; l < b.Cols; l++ {
					out.Data[row+j*b.Cols+l] = aij * b.Data[k*b.Stride+l]
				}
			}
		}
	}
	return out
}

// MaxAbs returns the largest entry modulus.
func MaxAbs(a cblas128.General) float64 {
	max := 0.0
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < a.Cols; j++ {
			if v := cmplx.Abs(a.Data[i*a.Stride+j]); v > max {
				max = v
			}
		}
	}
	return max
}

// IsHermitian reports whether a equals its conjugate transpose within tol,
// relative to the magnitude of a.
func IsHermitian(a cblas128.General, tol float64) bool {
	if a.Rows != a.Cols {
		return false
	}
	scale := MaxAbs(a)
	if scale < 1 {
		scale = 1
	}
	for i := 0; i < a.Rows; i++ {
		for j := i; j < a.Cols; j++ {
			d := a.Data[i*a.Stride+j] - cmplx.Conj(a.Data[j*a.Stride+i])
			if cmplx.Abs(d) > tol*scale {
				return false
			}
		}
	}
	return true
}

// EqualApprox reports whether a and b have the same shape and entries within
// tol, elementwise.
func EqualApprox(a, b cblas128.General, tol float64) bool {
	if a.Rows != b.Rows || a.Cols != b.Cols {
		return false
	}
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < a.Cols; j++ {
			if cmplx.Abs(a.Data[i*a.Stride+j]-b.Data[i*b.Stride+j]) > tol {
				return false
			}
		}
	}
	return true
}

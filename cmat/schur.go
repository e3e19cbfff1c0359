package cmat

import (
	"gonum.org/v1/gonum/blas/cblas128"
	"math"
	"math/cmplx"
)

// machEps is the double-precision unit roundoff, used for deflation checks.
const machEps = 2.220446049250313e-16

// Schur computes the complex Schur decomposition A = U S Uᴴ with U unitary
// and S upper triangular. The eigenvalues of A appear on the diagonal of S.
//
// The reduction is the classical two-stage scheme: Householder reflectors
// bring A to upper Hessenberg form, then a shifted QR iteration with Givens
// rotations drives the subdiagonal to zero. In complex arithmetic a single
// Wilkinson shift suffices; no quasi-triangular blocks remain.
func Schur(a cblas128.General) (u, s cblas128.General, err error) {
	if a.Rows != a.Cols {
		return u, s, ErrDimension
	}
	n := a.Rows
	s = Copy(a)
	u = Eye(n)
	if n <= 1 {
		return u, s, nil
	}
	hessenberg(s, u)
	if err := qrIterate(s, u); err != nil {
		return u, s, err
	}
	// The iteration leaves roundoff below the diagonal; zero it so the
	// result is exactly triangular.
	for i := 1; i < n; i++ {
		for j := 0; j < i; j++ {
			s.Data[i*s.Stride+j] = 0
		}
	}
	return u, s, nil
}

// Eigenvalues returns the eigenvalues of a, in Schur order.
func Eigenvalues(a cblas128.General) ([]complex128, error) {
	_, s, err := Schur(a)
	if err != nil {
		return nil, err
	}
	eig := make([]complex128, a.Rows)
	for i := range eig {
		eig[i] = s.Data[i*s.Stride+i]
	}
	return eig, nil
}

// SpectralRadius returns the largest eigenvalue modulus of a.
func SpectralRadius(a cblas128.General) (float64, error) {
	eig, err := Eigenvalues(a)
	if err != nil {
		return 0, err
	}
	rho := 0.0
	for _, l := range eig {
		if v := cmplx.Abs(l); v > rho {
			rho = v
		}
	}
	return rho, nil
}

// hessenberg reduces h to upper Hessenberg form in place by Householder
// reflectors, accumulating the transformation into u.
func hessenberg(h, u cblas128.General) {
	n := h.Rows
	v := make([]complex128, n)
	for k := 0; k < n-2; k++ {
		norm := 0.0
		for i := k + 1; i < n; i++ {
			norm = math.Hypot(norm, cmplx.Abs(h.Data[i*h.Stride+k]))
		}
		if norm == 0 {
			continue
		}
		// v = x − alpha·e1 with alpha chosen so that vᴴx is real.
		x0 := h.Data[(k+1)*h.Stride+k]
		sign := complex(1, 0)
		if x0 != 0 {
			sign = x0 / complex(cmplx.Abs(x0), 0)
		}
		alpha := -sign * complex(norm, 0)
		for i := k + 1; i < n; i++ {
			v[i] = h.Data[i*h.Stride+k]
		}
		v[k+1] -= alpha
		vnorm2 := 0.0
		for i := k + 1; i < n; i++ {
			vnorm2 += real(v[i])*real(v[i]) + imag(v[i])*imag(v[i])
		}
		if vnorm2 == 0 {
			continue
		}
		beta := complex(2/vnorm2, 0)

		// H ← P H, rows k+1..n−1.
		for j := k; j < n; j++ {
			var dot complex128
			for i := k + 1; i < n; i++ {
				dot += cmplx.Conj(v[i]) * h.Data[i*h.Stride+j]
			}
			dot *= beta
			for i := k + 1; i < n; i++ {
				h.Data[i*h.Stride+j] -= v[i] * dot
			}
		}
		// H ← H P, columns k+1..n−1.
		for i := 0; i < n; i++ {
			var dot complex128
			for j := k + 1; j < n; j++ {
				dot += h.Data[i*h.Stride+j] * v[j]
			}
			dot *= beta
			for j := k + 1; j < n; j++ {
				h.Data[i*h.Stride+j] -= dot * cmplx.Conj(v[j])
			}
		}
		// U ← U P.
		for i := 0; i < n; i++ {
			var dot complex128
			for j := k + 1; j < n; j++ {
				dot += u.Data[i*u.Stride+j] * v[j]
			}
			dot *= beta
			for j := k + 1; j < n; j++ {
				u.Data[i*u.Stride+j] -= dot * cmplx.Conj(v[j])
			}
		}
		h.Data[(k+1)*h.Stride+k] = alpha
		for i := k + 2; i < n; i++ {
			h.Data[i*h.Stride+k] = 0
		}
	}
}

// qrIterate runs the shifted QR iteration on the Hessenberg matrix h,
// accumulating rotations into u, until h is upper triangular.
func qrIterate(h, u cblas128.General) error {
	n := h.Rows
	hnorm := MaxAbs(h)
	maxIter := 30 * n
	total := 0
	sinceDeflate := 0

	hi := n - 1
	for hi > 0 {
		// Find the start of the trailing unreduced block, deflating
		// negligible subdiagonal entries as they are found.
		lo := hi
		for lo > 0 {
			sub := cmplx.Abs(h.Data[lo*h.Stride+lo-1])
			scale := cmplx.Abs(h.Data[(lo-1)*h.Stride+lo-1]) + cmplx.Abs(h.Data[lo*h.Stride+lo])
			if scale == 0 {
				scale = hnorm
			}
			if sub <= machEps*scale {
				h.Data[lo*h.Stride+lo-1] = 0
				break
			}
			lo--
		}
		if lo == hi {
			hi--
			sinceDeflate = 0
			continue
		}
		total++
		sinceDeflate++
		if total > maxIter {
			return ErrNoConvergence
		}
		mu := wilkinsonShift(h, hi)
		if sinceDeflate%10 == 0 {
			// Exceptional shift to break symmetric stalls.
			mu = h.Data[hi*h.Stride+hi] +
				complex(0.75*cmplx.Abs(h.Data[hi*h.Stride+hi-1]), 0)
		}
		qrStep(h, u, lo, hi, mu)
	}
	return nil
}

// wilkinsonShift returns the eigenvalue of the trailing 2×2 block of the
// active submatrix closest to its last diagonal entry.
func wilkinsonShift(h cblas128.General, hi int) complex128 {
	st := h.Stride
	a := h.Data[(hi-1)*st+hi-1]
	b := h.Data[(hi-1)*st+hi]
	c := h.Data[hi*st+hi-1]
	d := h.Data[hi*st+hi]
	p := (a - d) / 2
	q := cmplx.Sqrt(p*p + b*c)
	z := p + q
	if cmplx.Abs(p-q) > cmplx.Abs(z) {
		z = p - q
	}
	if z == 0 {
		return d
	}
	return d - b*c/z
}

// qrStep performs one implicit single-shift QR sweep on rows lo..hi,
// chasing the bulge with Givens rotations.
func qrStep(h, u cblas128.General, lo, hi int, mu complex128) {
	n := h.Rows
	f := h.Data[lo*h.Stride+lo] - mu
	g := h.Data[(lo+1)*h.Stride+lo]
	for k := lo; k < hi; k++ {
		c, s := givens(f, g)

		// Rows k, k+1 from the left.
		jmin := k - 1
		if jmin < lo {
			jmin = lo
		}
		for j := jmin; j < n; j++ {
			a1 := h.Data[k*h.Stride+j]
			a2 := h.Data[(k+1)*h.Stride+j]
			h.Data[k*h.Stride+j] = c*a1 + s*a2
			h.Data[(k+1)*h.Stride+j] = -cmplx.Conj(s)*a1 + c*a2
		}
		// Columns k, k+1 from the right.
		imax := k + 2
		if imax > hi {
			imax = hi
		}
		for i := 0; i <= imax; i++ {
			a1 := h.Data[i*h.Stride+k]
			a2 := h.Data[i*h.Stride+k+1]
			h.Data[i*h.Stride+k] = c*a1 + cmplx.Conj(s)*a2
			h.Data[i*h.Stride+k+1] = -s*a1 + c*a2
		}
		// Accumulate into U.
		for i := 0; i < n; i++ {
			a1 := u.Data[i*u.Stride+k]
			a2 := u.Data[i*u.Stride+k+1]
			u.Data[i*u.Stride+k] = c*a1 + cmplx.Conj(s)*a2
			u.Data[i*u.Stride+k+1] = -s*a1 + c*a2
		}
		if k < hi-1 {
			f = h.Data[(k+1)*h.Stride+k]
			g = h.Data[(k+2)*h.Stride+k]
		}
	}
}

// givens returns c (real) and s such that the rotation [c s; -conj(s) c]
// maps (f, g) to (r, 0).
func givens(f, g complex128) (c, s complex128) {
	if g == 0 {
		return 1, 0
	}
	if f == 0 {
		return 0, 1
	}
	af := cmplx.Abs(f)
	d := math.Hypot(af, cmplx.Abs(g))
	c = complex(af/d, 0)
	s = f / complex(af, 0) * cmplx.Conj(g) / complex(d, 0)
	return c, s
}

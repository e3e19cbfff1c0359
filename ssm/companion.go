package ssm

import (
	"github.com/statkit/golyap/cmat"
)

// Companion builds the companion-form state-space model of an AR(p) process
//
//	y_t = φ_1 y_{t-1} + ... + φ_p y_{t-p} + ε_t,  Var(ε_t) = noiseVar.
//
// The transition matrix carries the coefficients in its first row with an
// identity subdiagonal, and the noise enters the first state component only:
//
//	T = | φ_1 φ_2 ... φ_p |    Q = | σ² 0 ... |
//	    |  1   0  ...  0  |        | 0  0 ... |
//	    |      ...        |        |   ...    |
//
// The companion roots may be complex, which is why the solvers operate on
// complex matrices throughout.
func Companion(phi []float64, noiseVar float64) (Model, error) {
	p := len(phi)
	if p < 1 {
		return Model{}, cmat.ErrDimension
	}
	if noiseVar < 0 {
		return Model{}, ErrNegativeVariance
	}
	t := cmat.New(p, p)
	for j, c := range phi {
		t.Data[j] = complex(c, 0)
	}
	for i := 1; i < p; i++ {
		t.Data[i*t.Stride+i-1] = 1
	}
	q := cmat.New(p, p)
	q.Data[0] = complex(noiseVar, 0)
	return Model{T: t, Q: q}, nil
}

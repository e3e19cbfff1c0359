// Package ssm describes linear time-invariant state-space models
//
//	α_{t+1} = T α_t + η_t,  Cov(η_t) = Q,
//
// the form consumed by the stationary covariance solvers and produced by
// kernels such as the AR companion form. Models are value objects: the
// constructors copy their arguments and a Model is never mutated after
// construction.
package ssm

import (
	"errors"
	"github.com/statkit/golyap/cmat"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/mat"
	"math"
)

var ErrNegativeVariance = errors.New("ssm: noise variance must be non-negative")

// Model holds the transition matrix T and the process-noise covariance Q of
// a linear state-space process. Both are square and of identical dimension.
type Model struct {
	T cblas128.General
	Q cblas128.General
}

// New builds a model from complex T and Q. The matrices are copied.
func New(t, q cblas128.General) (Model, error) {
	m := t.Rows
	if m < 1 || t.Cols != m || q.Rows != m || q.Cols != m {
		return Model{}, cmat.ErrDimension
	}
	return Model{T: cmat.Copy(t), Q: cmat.Copy(q)}, nil
}

// FromRows builds a model from row slices.
func FromRows(t, q [][]complex128) (Model, error) {
	tm, err := cmat.FromRows(t)
	if err != nil {
		return Model{}, err
	}
	qm, err := cmat.FromRows(q)
	if err != nil {
		return Model{}, err
	}
	return New(tm, qm)
}

// FromDense builds a model from real gonum matrices.
func FromDense(t, q mat.Matrix) (Model, error) {
	return New(cmat.FromDense(t), cmat.FromDense(q))
}

// Dim returns the state dimension m.
func (m Model) Dim() int {
	return m.T.Rows
}

// IsReal reports whether every entry of T and Q has imaginary part within
// tol of zero.
func (m Model) IsReal(tol float64) bool {
	for _, g := range []cblas128.General{m.T, m.Q} {
		for i := 0; i < g.Rows; i++ {
			for j := 0; j < g.Cols; j++ {
				if math.Abs(imag(g.Data[i*g.Stride+j])) > tol {
					return false
				}
			}
		}
	}
	return true
}

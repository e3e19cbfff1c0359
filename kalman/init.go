// Package kalman provides the stationary initialization of a Kalman filter:
// the unconditional mean (zero) and covariance of the state process, ready
// to seed the first prediction step of the recursion.
package kalman

import (
	"errors"
	"fmt"
	"github.com/statkit/golyap/lyap"
	"github.com/statkit/golyap/ssm"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"math"
)

var ErrComplexState = errors.New("kalman: model has no real stationary distribution")

// realTol bounds the imaginary residue tolerated when collapsing the
// stationary covariance of a real model to real storage.
const realTol = 1e-9

// State is the initial filter state of a covariance-stationary model.
type State struct {
	Mean blas64.Vector
	Cov  blas64.Symmetric
}

// Init computes the stationary initialization of model using solver. The
// model must be real valued: a complex stationary covariance has no place
// in the real filter recursion and is reported as ErrComplexState.
func Init(model ssm.Model, solver *lyap.Solver) (State, error) {
	if solver == nil {
		solver = lyap.NewSolver()
	}
	sigma, err := solver.Solve(model, lyap.Auto)
	if err != nil {
		return State{}, err
	}
	m := model.Dim()

	scale := 0.0
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			if v := math.Abs(real(sigma.Data[i*sigma.Stride+j])); v > scale {
				scale = v
			}
		}
	}
	if scale < 1 {
		scale = 1
	}
	cov := blas64.Symmetric{
		N:      m,
		Stride: m,
		Data:   make([]float64, m*m),
		Uplo:   blas.Upper,
	}
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			v := sigma.Data[i*sigma.Stride+j]
			if math.Abs(imag(v)) > realTol*scale {
				return State{}, fmt.Errorf("kalman: covariance entry (%d,%d) = %v: %w",
					i, j, v, ErrComplexState)
			}
			cov.Data[i*m+j] = real(v)
		}
	}
	return State{
		Mean: blas64.Vector{N: m, Inc: 1, Data: make([]float64, m)},
		Cov:  cov,
	}, nil
}

// ObservationPrior returns the prior mean and variance of the observation
// h·α under the stationary distribution:
//
//	mean = dot(h, mean),  variance = dot(dot(h, Cov), h)
func (s State) ObservationPrior(h blas64.Vector) (mean, variance float64) {
	m := s.Cov.N
	tmp := blas64.Vector{N: m, Inc: 1, Data: make([]float64, m)}
	blas64.Symv(1.0, s.Cov, h, 0.0, tmp)
	mean = blas64.Dot(h, s.Mean)
	variance = blas64.Dot(h, tmp)
	return
}

// Package lyap computes the stationary covariance of a linear time-invariant
// state-space process: the unique solution Σ of the discrete Lyapunov (Stein)
// equation
//
//	Σ = T Σ Tᴴ + Q
//
// for a stable transition matrix T (spectral radius < 1) and Hermitian
// positive semi-definite noise covariance Q. The stationary mean of such a
// process is zero, so Σ together with a zero vector initializes a Kalman
// filter recursion.
//
// Two strategy families are provided: a direct Kronecker vectorization,
// O(m⁶) but exact and simple, and a bilinear reduction to a continuous
// Lyapunov equation solved by Bartels–Stewart in O(m³). The Solver facade
// picks between them by state dimension.
package lyap

import (
	"fmt"
	"github.com/statkit/golyap/cmat"
	"github.com/statkit/golyap/ssm"
	"gonum.org/v1/gonum/blas/cblas128"
)

// Method selects a solution strategy for the discrete Lyapunov equation.
type Method int

const (
	// Auto picks Direct below the dimension threshold, Bilinear2 above it.
	Auto Method = iota
	// Direct solves the vectorized m²×m² linear system.
	Direct
	// Bilinear1 reduces to a continuous problem and maps the solution back.
	Bilinear1
	// Bilinear2 applies the transform symmetrically so the continuous
	// solution is Σ itself. Preferred bilinear path.
	Bilinear2
)

func (m Method) String() string {
	switch m {
	case Auto:
		return "auto"
	case Direct:
		return "direct"
	case Bilinear1:
		return "bilinear1"
	case Bilinear2:
		return "bilinear2"
	}
	return fmt.Sprintf("method(%d)", int(m))
}

const (
	// DefaultThreshold is the state dimension at which Auto switches from
	// Direct to Bilinear2. The crossover is hardware dependent; tune it
	// with WithThreshold.
	DefaultThreshold = 10

	// DefaultTolerance bounds the Hermitian-ness and positivity checks on Q
	// and the cross-check comparison, relative to the matrix magnitude.
	DefaultTolerance = 1e-9
)

// Option configures a Solver.
type Option func(*Solver)

// WithThreshold sets the Auto crossover dimension.
func WithThreshold(m int) Option {
	return func(s *Solver) { s.threshold = m }
}

// WithTolerance sets the validation and cross-check tolerance.
func WithTolerance(tol float64) Option {
	return func(s *Solver) { s.tol = tol }
}

// WithCrossCheck makes every solve run all three methods and compare the
// results, failing with ErrInconsistent on divergence. Diagnostic mode: it
// forfeits the asymptotic advantage of the bilinear path.
func WithCrossCheck(on bool) Option {
	return func(s *Solver) { s.crossCheck = on }
}

// Solver dispatches discrete Lyapunov solves to a strategy. It holds only
// configuration, keeps no state across calls, and is safe for concurrent use.
type Solver struct {
	threshold  int
	tol        float64
	crossCheck bool
}

// NewSolver returns a Solver with the given options applied over defaults.
func NewSolver(opts ...Option) *Solver {
	s := &Solver{
		threshold: DefaultThreshold,
		tol:       DefaultTolerance,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve returns the stationary covariance of model, dispatching to the
// requested method (or choosing one when method is Auto). Failures are
// wrapped with the attempted method and the state dimension.
func (s *Solver) Solve(model ssm.Model, method Method) (cblas128.General, error) {
	m := model.Dim()
	if err := s.validate(model); err != nil {
		return cblas128.General{}, err
	}
	if method == Auto {
		if m < s.threshold {
			method = Direct
		} else {
			method = Bilinear2
		}
	}
	if s.crossCheck {
		return s.solveChecked(model, method)
	}
	sigma, err := s.dispatch(model, method)
	if err != nil {
		return cblas128.General{}, fmt.Errorf("lyap: %v method, dimension %d: %w", method, m, err)
	}
	return sigma, nil
}

func (s *Solver) dispatch(model ssm.Model, method Method) (cblas128.General, error) {
	switch method {
	case Direct:
		// The Kronecker operator stays invertible for some unstable T, so
		// a wrong Σ could come back silently; reject those up front.
		rho, err := cmat.SpectralRadius(model.T)
		if err != nil {
			return cblas128.General{}, err
		}
		if rho >= 1 {
			return cblas128.General{}, fmt.Errorf(
				"spectral radius %.6g: %w", rho, ErrNonStationary)
		}
		return SolveDirect(model.T, model.Q)
	case Bilinear1:
		return SolveBilinear1(model.T, model.Q)
	case Bilinear2:
		return SolveBilinear2(model.T, model.Q)
	}
	return cblas128.General{}, fmt.Errorf("lyap: unknown method %v", method)
}

// solveChecked runs every method and verifies pairwise agreement before
// returning the result of the requested one.
func (s *Solver) solveChecked(model ssm.Model, method Method) (cblas128.General, error) {
	methods := []Method{Direct, Bilinear1, Bilinear2}
	results := make(map[Method]cblas128.General, len(methods))
	for _, mth := range methods {
		sigma, err := s.dispatch(model, mth)
		if err != nil {
			return cblas128.General{}, fmt.Errorf("lyap: %v method, dimension %d: %w", mth, model.Dim(), err)
		}
		results[mth] = sigma
	}
	scale := cmat.MaxAbs(results[method])
	if scale < 1 {
		scale = 1
	}
	for i, a := range methods {
		for _, b := range methods[i+1:] {
			if !cmat.EqualApprox(results[a], results[b], s.tol*scale) {
				return cblas128.General{}, fmt.Errorf(
					"lyap: %v and %v diverge beyond %g: %w", a, b, s.tol, ErrInconsistent)
			}
		}
	}
	return results[method], nil
}

// validate enforces the model preconditions: conformable square matrices of
// dimension at least one and a Hermitian, positive semi-definite Q.
func (s *Solver) validate(model ssm.Model) error {
	m := model.Dim()
	if m < 1 || model.T.Cols != m || model.Q.Rows != m || model.Q.Cols != m {
		return fmt.Errorf("lyap: T is %d×%d, Q is %d×%d: %w",
			model.T.Rows, model.T.Cols, model.Q.Rows, model.Q.Cols, cmat.ErrDimension)
	}
	if !cmat.IsHermitian(model.Q, s.tol) {
		return fmt.Errorf("lyap: dimension %d: %w", m, ErrNonHermitian)
	}
	// Q is Hermitian, so its Schur form is diagonal with real eigenvalues.
	eig, err := cmat.Eigenvalues(model.Q)
	if err != nil {
		return fmt.Errorf("lyap: dimension %d: %w", m, err)
	}
	scale := cmat.MaxAbs(model.Q)
	if scale < 1 {
		scale = 1
	}
	for _, l := range eig {
		if real(l) < -s.tol*scale {
			return fmt.Errorf("lyap: eigenvalue %.6g: %w", real(l), ErrNotPositiveSemiDefinite)
		}
	}
	return nil
}

// StationaryCovariance solves Σ = T Σ Tᴴ + Q with a default Solver. It is
// the package's convenience entry point.
func StationaryCovariance(t, q cblas128.General, method Method) (cblas128.General, error) {
	model, err := ssm.New(t, q)
	if err != nil {
		return cblas128.General{}, err
	}
	return NewSolver().Solve(model, method)
}

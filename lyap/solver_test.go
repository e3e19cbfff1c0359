package lyap

import (
	"testing"

	"github.com/statkit/golyap/cmat"
	"github.com/statkit/golyap/ssm"
	"github.com/stretchr/testify/require"
)

func mustModel(t *testing.T, tr, q [][]complex128) ssm.Model {
	t.Helper()
	model, err := ssm.FromRows(tr, q)
	require.NoError(t, err)
	return model
}

func TestSolveAutoSmallUsesDirect(t *testing.T) {
	model := mustModel(t,
		[][]complex128{{0.5}},
		[][]complex128{{1}},
	)
	sigma, err := NewSolver().Solve(model, Auto)
	require.NoError(t, err)
	require.InDelta(t, 4.0/3.0, real(sigma.Data[0]), 1e-12)
}

func TestSolveAutoLarge(t *testing.T) {
	// Above the threshold Auto takes the O(m³) bilinear path; the result
	// must still satisfy the equation.
	m := 50
	tm := stableMatrix(m)
	q := hermitianPSD(m)
	model, err := ssm.New(tm, q)
	require.NoError(t, err)

	sigma, err := NewSolver().Solve(model, Auto)
	require.NoError(t, err)
	requireStationary(t, tm, q, sigma, 1e-8)
}

func TestSolveExplicitMethods(t *testing.T) {
	tm := mustFromRows(t, [][]complex128{
		{0, 1},
		{-0.5, 0.5},
	})
	q := cmat.Eye(2)
	model, err := ssm.New(tm, q)
	require.NoError(t, err)

	s := NewSolver()
	for _, method := range []Method{Direct, Bilinear1, Bilinear2} {
		sigma, err := s.Solve(model, method)
		require.NoError(t, err, method.String())
		requireStationary(t, tm, q, sigma, 1e-8)
	}
}

func TestSolveDeterministic(t *testing.T) {
	m := 8
	model, err := ssm.New(stableMatrix(m), hermitianPSD(m))
	require.NoError(t, err)
	s := NewSolver()

	first, err := s.Solve(model, Bilinear2)
	require.NoError(t, err)
	second, err := s.Solve(model, Bilinear2)
	require.NoError(t, err)
	require.True(t, cmat.EqualApprox(first, second, 0), "repeated solves differ")
}

func TestSolveThresholdOption(t *testing.T) {
	// Forcing the threshold above m routes Auto through Direct; both
	// routes must agree.
	m := 12
	model, err := ssm.New(stableMatrix(m), hermitianPSD(m))
	require.NoError(t, err)

	viaDirect, err := NewSolver(WithThreshold(100)).Solve(model, Auto)
	require.NoError(t, err)
	viaBilinear, err := NewSolver(WithThreshold(1)).Solve(model, Auto)
	require.NoError(t, err)

	scale := cmat.MaxAbs(viaDirect)
	require.True(t, cmat.EqualApprox(viaDirect, viaBilinear, 1e-6*scale))
}

func TestSolveCrossCheck(t *testing.T) {
	m := 6
	model, err := ssm.New(stableMatrix(m), hermitianPSD(m))
	require.NoError(t, err)

	sigma, err := NewSolver(WithCrossCheck(true)).Solve(model, Auto)
	require.NoError(t, err)
	requireStationary(t, model.T, model.Q, sigma, 1e-8)
}

func TestSolveUnstableNeverSilent(t *testing.T) {
	// An explosive root must surface as an error on every path, never as
	// a quietly wrong Σ.
	model := mustModel(t,
		[][]complex128{{1.5}},
		[][]complex128{{1}},
	)
	s := NewSolver()
	for _, method := range []Method{Direct, Bilinear1, Bilinear2, Auto} {
		_, err := s.Solve(model, method)
		require.ErrorIs(t, err, ErrNonStationary, method.String())
	}
}

func TestSolveUnitRoot(t *testing.T) {
	model := mustModel(t,
		[][]complex128{{1}},
		[][]complex128{{1}},
	)
	s := NewSolver()

	_, err := s.Solve(model, Direct)
	require.ErrorIs(t, err, ErrNonStationary)

	_, err = s.Solve(model, Bilinear1)
	require.ErrorIs(t, err, ErrTransformSingular)
}

func TestSolveNonHermitianNoise(t *testing.T) {
	model := mustModel(t,
		[][]complex128{{0.5, 0}, {0, 0.5}},
		[][]complex128{{1, 1}, {0, 1}},
	)
	_, err := NewSolver().Solve(model, Auto)
	require.ErrorIs(t, err, ErrNonHermitian)
}

func TestSolveIndefiniteNoise(t *testing.T) {
	model := mustModel(t,
		[][]complex128{{0.5}},
		[][]complex128{{-1}},
	)
	_, err := NewSolver().Solve(model, Auto)
	require.ErrorIs(t, err, ErrNotPositiveSemiDefinite)
}

func TestSolveDimensionMismatch(t *testing.T) {
	model := ssm.Model{T: cmat.New(2, 2), Q: cmat.New(3, 3)}
	_, err := NewSolver().Solve(model, Auto)
	require.ErrorIs(t, err, cmat.ErrDimension)
}

func TestStationaryCovariance(t *testing.T) {
	tm := mustFromRows(t, [][]complex128{{0.5}})
	q := mustFromRows(t, [][]complex128{{1}})
	sigma, err := StationaryCovariance(tm, q, Auto)
	require.NoError(t, err)
	require.InDelta(t, 4.0/3.0, real(sigma.Data[0]), 1e-12)
}

func TestMethodString(t *testing.T) {
	require.Equal(t, "auto", Auto.String())
	require.Equal(t, "direct", Direct.String())
	require.Equal(t, "bilinear1", Bilinear1.String())
	require.Equal(t, "bilinear2", Bilinear2.String())
}

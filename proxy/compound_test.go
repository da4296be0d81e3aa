package proxy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/sumo/codec"
	"github.com/arloliu/sumo/errs"
	"github.com/arloliu/sumo/format"
	"github.com/arloliu/sumo/internal/options"
	"github.com/arloliu/sumo/kriging"
	"github.com/arloliu/sumo/regression"
)

// preparedGrid returns the prepared grid {-1, -0.5, 0, 0.5, 1}². Samples are
// farther apart than the local correlation length.
func preparedGrid() [][]float64 {
	levels := []float64{-1, -0.5, 0, 0.5, 1}
	grid := make([][]float64, 0, len(levels)*len(levels))
	for _, x0 := range levels {
		for _, x1 := range levels {
			grid = append(grid, []float64{x0, x1})
		}
	}

	return grid
}

func response(x []float64) float64 {
	return 1 + 2*x[0] - x[1] + 0.3*x[0]*x[1]
}

func allValid(n int) []bool {
	valid := make([]bool, n)
	for i := range valid {
		valid[i] = true
	}

	return valid
}

// validTargets returns the response of the valid samples.
func validTargets(parSet [][]float64, valid []bool) []float64 {
	targets := make([]float64, 0, len(parSet))
	for i, x := range parSet {
		if valid[i] {
			targets = append(targets, response(x))
		}
	}

	return targets
}

func newGridProxy(t *testing.T, valid []bool, opts ...Option) (*CompoundProxy, *kriging.Data, [][]float64) {
	t.Helper()

	grid := preparedGrid()
	data, err := kriging.NewData(grid, 2)
	require.NoError(t, err)

	p, err := NewCompoundProxy(data, grid, valid, validTargets(grid, valid), opts...)
	require.NoError(t, err)

	return p, data, grid
}

type stubEstimator struct {
	result *regression.FitResult
	err    error
	calls  int
	last   regression.FitRequest
}

func (s *stubEstimator) Fit(req regression.FitRequest) (*regression.FitResult, error) {
	s.calls++
	s.last = req
	return s.result, s.err
}

func TestCompoundProxyFit(t *testing.T) {
	p, _, grid := newGridProxy(t, allValid(25))

	require.Equal(t, 2, p.Size())
	require.NotNil(t, p.Polynomial())
	require.Equal(t, 3, p.DesignMatrixRank())
	require.False(t, p.IsRegressionIllPosed())
	require.Greater(t, p.AdjustedR2(), 0.9)
	require.Less(t, p.AdjustedR2(), 1.0)
	require.Len(t, p.Leverages(), 25)

	terms := p.CoefficientsMap()
	require.Len(t, terms, 3)
	require.Empty(t, terms[0].Vars)
	require.InDelta(t, 1.0, terms[0].Coefficient, 1e-12)
	require.InDelta(t, 2.0, terms[1].Coefficient, 1e-12)
	require.InDelta(t, -1.0, terms[2].Coefficient, 1e-12)

	for _, x := range grid {
		// the polynomial misses the interaction term
		poly, err := p.Evaluate(x, kriging.NoKriging)
		require.NoError(t, err)
		require.InDelta(t, 1+2*x[0]-x[1], poly, 1e-12)

		// the local correction restores it at every sample
		value, err := p.Evaluate(x, kriging.LocalKriging)
		require.NoError(t, err)
		require.InDelta(t, response(x), value, 1e-9)
	}
}

func TestCompoundProxyWeightsReuse(t *testing.T) {
	p, _, _ := newGridProxy(t, allValid(25))
	x := []float64{0.3, -0.2}

	for _, kt := range []kriging.Type{kriging.NoKriging, kriging.LocalKriging, kriging.GlobalKriging, kriging.DefaultKriging} {
		w, err := p.KrigingWeights(x, kt)
		require.NoError(t, err)

		expected, err := p.Evaluate(x, kt)
		require.NoError(t, err)
		actual, err := p.EvaluateWithWeights(w, x, kt)
		require.NoError(t, err)
		require.Equal(t, expected, actual, kt.String())
	}

	_, err := p.Evaluate([]float64{0.3}, kriging.GlobalKriging)
	require.ErrorIs(t, err, errs.ErrDimensionMismatch)

	_, err = p.Evaluate(x, kriging.Type(42))
	require.ErrorIs(t, err, errs.ErrInvalidValue)
}

func TestCompoundProxyInvalidCases(t *testing.T) {
	valid := allValid(25)
	valid[0], valid[12] = false, false
	p, _, grid := newGridProxy(t, valid)

	require.Len(t, p.Targets(), 23)
	require.Len(t, p.Leverages(), 23)
	require.Equal(t, 0.0, p.Residuals().Residuals()[0])
	require.Equal(t, 0.0, p.Residuals().Residuals()[12])

	// an invalid sample carries no correction of its own
	for _, i := range []int{0, 12} {
		poly, err := p.Evaluate(grid[i], kriging.NoKriging)
		require.NoError(t, err)
		value, err := p.Evaluate(grid[i], kriging.LocalKriging)
		require.NoError(t, err)
		require.InDelta(t, poly, value, 1e-12)
	}
}

func TestCompoundProxyTargetCountMismatch(t *testing.T) {
	grid := preparedGrid()
	valid := allValid(25)
	valid[3] = false
	targets := make([]float64, 25)

	// sizes are checked before the kriging data is even looked at
	_, err := NewCompoundProxy(nil, grid, valid, targets)
	require.ErrorIs(t, err, errs.ErrDimensionMismatch)

	data, err := kriging.NewData(grid, 2)
	require.NoError(t, err)
	est := &stubEstimator{}
	_, err = NewCompoundProxy(data, grid, valid, targets, WithEstimator(est))
	require.ErrorIs(t, err, errs.ErrDimensionMismatch)
	require.Zero(t, est.calls)
}

func TestNewCompoundProxyErrors(t *testing.T) {
	grid := preparedGrid()
	data, err := kriging.NewData(grid, 2)
	require.NoError(t, err)

	_, err = NewCompoundProxy(nil, grid, allValid(24), make([]float64, 24))
	require.ErrorIs(t, err, errs.ErrDimensionMismatch)

	_, err = NewCompoundProxy(nil, grid, allValid(25), make([]float64, 25))
	require.ErrorIs(t, err, errs.ErrInvalidState)

	_, err = NewCompoundProxy(data, nil, nil, nil)
	require.ErrorIs(t, err, errs.ErrDimensionOutOfBounds)

	_, err = NewCompoundProxy(data, grid[:24], allValid(24), make([]float64, 24))
	require.ErrorIs(t, err, errs.ErrDimensionMismatch)

	_, err = NewCompoundProxy(data, grid, allValid(25), make([]float64, 25), WithOrder(regression.Order(7)))
	require.ErrorIs(t, err, errs.ErrInvalidOption)

	fitErr := errors.New("fit failed")
	_, err = NewCompoundProxy(data, grid, allValid(25), make([]float64, 25), WithEstimator(&stubEstimator{err: fitErr}))
	require.ErrorIs(t, err, fitErr)
}

func TestCompoundProxyWithoutPolynomial(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	est := &stubEstimator{result: &regression.FitResult{}}

	p, _, grid := newGridProxy(t, allValid(25), WithEstimator(est), WithLogger(zap.New(core)))
	require.Equal(t, 1, est.calls)
	require.Nil(t, p.Polynomial())
	require.False(t, p.HasPolynomial())
	require.Nil(t, p.CoefficientsMap())
	require.Equal(t, -1.0, p.AdjustedR2())
	require.Equal(t, 1, logs.Len())

	// kriging alone interpolates the targets
	value, err := p.Evaluate(grid[7], kriging.LocalKriging)
	require.NoError(t, err)
	require.InDelta(t, response(grid[7]), value, 1e-12)

	value, err = p.Evaluate(grid[7], kriging.NoKriging)
	require.NoError(t, err)
	require.Equal(t, 0.0, value)
}

func TestCompoundProxyInitialMonomials(t *testing.T) {
	tests := []struct {
		name      string
		opts      []Option
		monomials []regression.Monomial
	}{
		{
			name:      "default linear",
			monomials: []regression.Monomial{{}, {0}, {1}},
		},
		{
			name:      "quadratic",
			opts:      []Option{WithOrder(regression.OrderQuadratic)},
			monomials: []regression.Monomial{{}, {0}, {1}, {0, 0}, {0, 1}, {1, 1}},
		},
		{
			name:      "intercept",
			opts:      []Option{WithOrder(regression.OrderIntercept)},
			monomials: []regression.Monomial{{}},
		},
		{
			name:      "quadratic partition",
			opts:      []Option{WithOrder(regression.OrderQuadratic), WithPartition([]bool{false, true})},
			monomials: []regression.Monomial{{}, {1}, {1, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est := &stubEstimator{result: &regression.FitResult{}}
			opts := append([]Option{WithEstimator(est)}, tt.opts...)
			newGridProxy(t, allValid(25), opts...)

			require.Equal(t, 1, est.calls)
			require.Equal(t, tt.monomials, est.last.InitialMonomials)
			require.Equal(t, 2, est.last.NbOrdinals)
		})
	}

	grid := preparedGrid()
	data, err := kriging.NewData(grid, 2)
	require.NoError(t, err)
	est := &stubEstimator{}
	_, err = NewCompoundProxy(data, grid, allValid(25), make([]float64, 25),
		WithEstimator(est), WithPartition([]bool{true}))
	require.ErrorIs(t, err, errs.ErrDimensionMismatch)
	require.Zero(t, est.calls)
}

func TestCompoundProxyModelSearch(t *testing.T) {
	p, _, grid := newGridProxy(t, allValid(25),
		WithModelSearch(true),
		WithTargetR2(0.999),
		WithConfidenceLevel(95),
	)

	// the interaction term is found, the fit is exact
	require.Len(t, p.Polynomial().Monomials(), 4)
	for _, x := range grid {
		value, err := p.Evaluate(x, kriging.NoKriging)
		require.NoError(t, err)
		require.InDelta(t, response(x), value, 1e-9)
	}
}

func TestCompoundProxyPartition(t *testing.T) {
	p, _, _ := newGridProxy(t, allValid(25), WithPartition([]bool{true, false}))
	require.True(t, p.HasPolynomial())
	require.Equal(t, []regression.Monomial{{}, {0}}, p.Polynomial().Monomials())
}

func TestOptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"target R2 above 1", WithTargetR2(1.5)},
		{"zero confidence", WithConfidenceLevel(0)},
		{"full confidence", WithConfidenceLevel(100)},
		{"nil estimator", WithEstimator(nil)},
		{"unknown order", WithOrder(regression.Order(3))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			require.ErrorIs(t, options.Apply(&cfg, tt.opt), errs.ErrInvalidOption)
		})
	}

	cfg := defaultConfig()
	require.NoError(t, options.Apply(&cfg, WithLogger(nil), WithOrder(regression.OrderPureQuadratic)))
	require.NotNil(t, cfg.Logger)
	require.Equal(t, regression.OrderPureQuadratic, cfg.Order)
}

func TestCompoundProxyMarshal(t *testing.T) {
	valid := allValid(25)
	valid[4] = false
	p, data, _ := newGridProxy(t, valid)

	raw, err := codec.Marshal(format.KindCompoundProxy, p, codec.WithCompression(format.CompressionLZ4))
	require.NoError(t, err)

	loaded := &CompoundProxy{}
	require.NoError(t, codec.Unmarshal(raw, format.KindCompoundProxy, loaded))
	require.Equal(t, p.AdjustedR2(), loaded.AdjustedR2())
	require.Equal(t, p.Leverages(), loaded.Leverages())
	require.Equal(t, p.DesignMatrixRank(), loaded.DesignMatrixRank())
	require.Equal(t, p.CaseValid(), loaded.CaseValid())
	require.Equal(t, p.Targets(), loaded.Targets())

	x := []float64{0.3, -0.2}
	expected, err := p.Evaluate(x, kriging.NoKriging)
	require.NoError(t, err)
	actual, err := loaded.Evaluate(x, kriging.NoKriging)
	require.NoError(t, err)
	require.Equal(t, expected, actual)

	// kriging needs the shared data back
	_, err = loaded.Evaluate(x, kriging.GlobalKriging)
	require.ErrorIs(t, err, errs.ErrInvalidState)

	require.NoError(t, loaded.AttachKrigingData(data))
	expected, err = p.Evaluate(x, kriging.GlobalKriging)
	require.NoError(t, err)
	actual, err = loaded.Evaluate(x, kriging.GlobalKriging)
	require.NoError(t, err)
	require.Equal(t, expected, actual)

	small, err := kriging.NewData(preparedGrid()[:3], 2)
	require.NoError(t, err)
	require.ErrorIs(t, loaded.AttachKrigingData(small), errs.ErrDimensionMismatch)
}

// legacyProxy writes a CompoundProxy in an older payload version.
type legacyProxy struct {
	version format.Version
	p       *CompoundProxy
}

func (l legacyProxy) Save(w *codec.Writer) error {
	w.Version(l.version)
	w.Int(l.p.size)
	if err := w.Object(l.p.polynomial, l.p.polynomial != nil); err != nil {
		return err
	}
	if err := l.p.residuals.Save(w); err != nil {
		return err
	}
	w.Bools(l.p.caseValid)
	w.Float64s(l.p.targets)
	if l.version >= compoundV1 {
		w.Float64(l.p.adjustedR2)
	}

	return nil
}

func TestCompoundProxyLegacyVersions(t *testing.T) {
	p, data, _ := newGridProxy(t, allValid(25))
	x := []float64{-0.7, 0.1}
	expected, err := p.Evaluate(x, kriging.LocalKriging)
	require.NoError(t, err)

	tests := []struct {
		version    format.Version
		adjustedR2 float64
	}{
		{compoundV0, -1},
		{compoundV1, p.AdjustedR2()},
	}

	for _, tt := range tests {
		raw, err := codec.Marshal(format.KindCompoundProxy, legacyProxy{version: tt.version, p: p})
		require.NoError(t, err)

		loaded := &CompoundProxy{}
		require.NoError(t, codec.Unmarshal(raw, format.KindCompoundProxy, loaded))
		require.Equal(t, tt.adjustedR2, loaded.AdjustedR2())
		require.Empty(t, loaded.Leverages())
		require.True(t, loaded.Transforms().IsTrivial())
		require.Equal(t, p.Polynomial().Size(), loaded.DesignMatrixRank())

		require.NoError(t, loaded.AttachKrigingData(data))
		actual, err := loaded.Evaluate(x, kriging.LocalKriging)
		require.NoError(t, err)
		require.Equal(t, expected, actual)
	}

	raw, err := codec.Marshal(format.KindCompoundProxy, legacyProxy{version: 3, p: p})
	require.NoError(t, err)
	require.ErrorIs(t, codec.Unmarshal(raw, format.KindCompoundProxy, &CompoundProxy{}), errs.ErrUnsupportedVersion)
}

func BenchmarkCompoundProxyEvaluate(b *testing.B) {
	grid := preparedGrid()
	data, err := kriging.NewData(grid, 2)
	require.NoError(b, err)
	valid := allValid(len(grid))
	p, err := NewCompoundProxy(data, grid, valid, validTargets(grid, valid))
	require.NoError(b, err)
	x := []float64{0.3, -0.2}

	b.ReportAllocs()
	for b.Loop() {
		_, _ = p.Evaluate(x, kriging.GlobalKriging)
	}
}

package proxy

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/arloliu/sumo/errs"
	"github.com/arloliu/sumo/internal/options"
	"github.com/arloliu/sumo/kriging"
	"github.com/arloliu/sumo/param"
	"github.com/arloliu/sumo/regression"
)

// noAdjustedR2 marks a proxy whose adjusted R² is unknown.
const noAdjustedR2 = -1.0

// CompoundProxy approximates one output as a polynomial plus a Kriging
// correction interpolating the polynomial's residuals.
//
// The Kriging precomputation is borrowed from the caller, usually a
// Collection, and must outlive the proxy. A CompoundProxy is immutable once
// built and safe for concurrent evaluation.
type CompoundProxy struct {
	krigingData *kriging.Data

	size       int
	polynomial *regression.Polynomial
	residuals  *kriging.Model
	adjustedR2 float64
	leverages  []float64
	rank       int
	illPosed   bool
	transforms *param.PreparedTransforms

	caseValid []bool
	targets   []float64
}

// NewCompoundProxy fits a proxy for one output.
//
// parSet holds the prepared samples the Kriging data was computed from.
// caseValid flags the samples with a usable output, and targets holds one
// value per valid sample, in sample order. Only valid samples enter the
// polynomial fit; invalid samples remain Kriging support points with a zero
// residual. An estimator returning no polynomial is accepted: the Kriging
// correction then interpolates the targets themselves.
//
// Sizes are checked before any numerical work.
//
// Parameters:
//   - data: Kriging precomputation over parSet
//   - parSet: Prepared samples
//   - caseValid: Validity flag per sample
//   - targets: Output value per valid sample
//   - opts: Fit options
//
// Returns:
//   - *CompoundProxy: The fitted proxy
//   - error: errs.ErrDimensionMismatch when caseValid does not match parSet or
//     targets does not match the valid samples, errs.ErrInvalidState for nil
//     Kriging data, errs.ErrDimensionOutOfBounds for an empty parSet, or an
//     option or estimator error
func NewCompoundProxy(data *kriging.Data, parSet [][]float64, caseValid []bool, targets []float64, opts ...Option) (*CompoundProxy, error) {
	if len(caseValid) != len(parSet) {
		return nil, fmt.Errorf("%d validity flags for %d samples: %w", len(caseValid), len(parSet), errs.ErrDimensionMismatch)
	}
	nbValid := countValid(caseValid)
	if nbValid != len(targets) {
		return nil, fmt.Errorf("%d targets for %d valid samples: %w", len(targets), nbValid, errs.ErrDimensionMismatch)
	}
	if data == nil {
		return nil, fmt.Errorf("compound proxy without kriging data: %w", errs.ErrInvalidState)
	}
	if len(parSet) == 0 {
		return nil, fmt.Errorf("compound proxy for empty sample set: %w", errs.ErrDimensionOutOfBounds)
	}
	if data.Size() != len(parSet) {
		return nil, fmt.Errorf("kriging data of %d samples for %d samples: %w", data.Size(), len(parSet), errs.ErrDimensionMismatch)
	}
	size := len(parSet[0])
	for i, p := range parSet {
		if len(p) != size {
			return nil, fmt.Errorf("sample %d of size %d, expected %d: %w", i, len(p), size, errs.ErrDimensionMismatch)
		}
	}

	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	p := &CompoundProxy{
		krigingData: data,
		size:        size,
		adjustedR2:  noAdjustedR2,
		transforms:  cfg.Transforms,
		caseValid:   slices.Clone(caseValid),
		targets:     slices.Clone(targets),
	}
	if p.transforms == nil {
		p.transforms = &param.PreparedTransforms{}
	}
	if err := p.fit(parSet, &cfg); err != nil {
		return nil, err
	}

	return p, nil
}

func countValid(caseValid []bool) int {
	n := 0
	for _, v := range caseValid {
		if v {
			n++
		}
	}

	return n
}

// fit runs the estimator on the valid samples and builds the residual model
// over all samples.
func (p *CompoundProxy) fit(parSet [][]float64, cfg *Config) error {
	regInput, err := p.transforms.ApplySet(parSet)
	if err != nil {
		return err
	}

	validInput := make([][]float64, 0, len(p.targets))
	for i, x := range regInput {
		if p.caseValid[i] {
			validInput = append(validInput, x)
		}
	}

	if len(validInput) > 0 {
		est, err := cfg.estimator()
		if err != nil {
			return err
		}
		nbOrd := p.krigingData.NbOrdinals()
		monomials, err := regression.InitialMonomials(len(validInput[0]), nbOrd, cfg.Order, cfg.Partition)
		if err != nil {
			return fmt.Errorf("initial terms: %w", err)
		}
		res, err := est.Fit(regression.FitRequest{
			Params:           validInput,
			Targets:          p.targets,
			NbOrdinals:       nbOrd,
			Order:            cfg.Order,
			Partition:        cfg.Partition,
			InitialMonomials: monomials,
			ModelSearch:      cfg.ModelSearch,
			TargetR2:         cfg.TargetR2,
			ConfLevel:        cfg.ConfLevel,
		})
		if err != nil {
			return fmt.Errorf("polynomial fit: %w", err)
		}
		if res != nil && res.Polynomial != nil {
			p.polynomial = res.Polynomial
			p.adjustedR2 = res.AdjustedR2
			p.leverages = slices.Clone(res.Leverages)
			p.rank = res.Rank
			p.illPosed = res.IllPosed
		}
	}

	if p.polynomial == nil {
		cfg.Logger.Warn("no polynomial fitted, kriging interpolates the targets",
			zap.Int("samples", len(parSet)),
			zap.Int("valid", len(validInput)))
	}

	residuals := make([]float64, len(parSet))
	t := 0
	for i, x := range regInput {
		if !p.caseValid[i] {
			continue
		}
		residuals[i] = p.targets[t]
		if p.polynomial != nil {
			residuals[i] -= p.polynomial.Evaluate(x)
		}
		t++
	}
	p.residuals = kriging.NewModel(residuals)

	return nil
}

// AttachKrigingData lends the Kriging precomputation to a loaded proxy.
//
// Returns errs.ErrDimensionMismatch when data does not cover the proxy's
// samples.
func (p *CompoundProxy) AttachKrigingData(data *kriging.Data) error {
	if data.Size() != p.residuals.Size() {
		return fmt.Errorf("kriging data of %d samples for %d residuals: %w", data.Size(), p.residuals.Size(), errs.ErrDimensionMismatch)
	}
	if data.Size() > 0 && len(data.Cases()[0]) != p.size {
		return fmt.Errorf("kriging samples of size %d for proxy of size %d: %w", len(data.Cases()[0]), p.size, errs.ErrDimensionMismatch)
	}
	p.krigingData = data

	return nil
}

// Size returns the length of the prepared vectors the proxy accepts.
func (p *CompoundProxy) Size() int { return p.size }

// Polynomial returns the fitted polynomial, or nil.
func (p *CompoundProxy) Polynomial() *regression.Polynomial { return p.polynomial }

// HasPolynomial reports whether the estimator produced a polynomial. Without
// one, Evaluate with kriging.NoKriging returns 0 and the Kriging modes
// interpolate the raw targets.
func (p *CompoundProxy) HasPolynomial() bool { return p.polynomial != nil }

// Residuals returns the Kriging residual model.
func (p *CompoundProxy) Residuals() *kriging.Model { return p.residuals }

// AdjustedR2 returns the adjusted R² of the fit, or -1 when unknown.
func (p *CompoundProxy) AdjustedR2() float64 { return p.adjustedR2 }

// Leverages returns the leverage of every valid sample.
func (p *CompoundProxy) Leverages() []float64 { return p.leverages }

// DesignMatrixRank returns the rank of the regression design matrix.
func (p *CompoundProxy) DesignMatrixRank() int { return p.rank }

// IsRegressionIllPosed reports whether the design matrix was rank deficient.
func (p *CompoundProxy) IsRegressionIllPosed() bool { return p.illPosed }

// Transforms returns the transforms applied before the polynomial.
func (p *CompoundProxy) Transforms() *param.PreparedTransforms { return p.transforms }

// CaseValid returns the validity flag of every sample.
func (p *CompoundProxy) CaseValid() []bool { return p.caseValid }

// Targets returns the output value of every valid sample.
func (p *CompoundProxy) Targets() []float64 { return p.targets }

// CoefficientsMap returns the polynomial terms in prepared variable indexes,
// or nil without polynomial.
func (p *CompoundProxy) CoefficientsMap() []regression.Term {
	if p.polynomial == nil {
		return nil
	}

	return p.polynomial.Terms()
}

func (p *CompoundProxy) checkQuery(x []float64) error {
	if len(x) != p.size {
		return fmt.Errorf("query of size %d for proxy of size %d: %w", len(x), p.size, errs.ErrDimensionMismatch)
	}

	return nil
}

// KrigingWeights computes the Kriging weights of prepared query x.
func (p *CompoundProxy) KrigingWeights(x []float64, kt kriging.Type) (kriging.Weights, error) {
	if err := p.checkQuery(x); err != nil {
		return kriging.Weights{}, err
	}
	if kt.Resolve() == kriging.NoKriging {
		return kriging.Weights{}, nil
	}
	if p.krigingData.Empty() {
		return kriging.Weights{}, fmt.Errorf("kriging weights without kriging data: %w", errs.ErrInvalidState)
	}

	return p.krigingData.Weights(x, kt)
}

// Evaluate returns the proxy value at prepared query x: the polynomial plus,
// unless kt is kriging.NoKriging, the Kriging correction.
func (p *CompoundProxy) Evaluate(x []float64, kt kriging.Type) (float64, error) {
	w, err := p.KrigingWeights(x, kt)
	if err != nil {
		return 0, err
	}

	return p.EvaluateWithWeights(w, x, kt)
}

// EvaluateWithWeights is Evaluate with precomputed Kriging weights, for
// evaluating several proxies over the same samples at one query.
func (p *CompoundProxy) EvaluateWithWeights(w kriging.Weights, x []float64, kt kriging.Type) (float64, error) {
	if err := p.checkQuery(x); err != nil {
		return 0, err
	}

	value := 0.0
	if p.polynomial != nil {
		tx, err := p.transforms.Apply(x)
		if err != nil {
			return 0, err
		}
		value = p.polynomial.Evaluate(tx)
	}
	if kt.Resolve() != kriging.NoKriging {
		value += p.residuals.Evaluate(w)
	}

	return value, nil
}

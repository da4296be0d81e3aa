package regression

import (
	"fmt"

	"github.com/arloliu/sumo/errs"
)

// Estimator fits a polynomial to a set of samples.
//
// The proxy package consumes estimators through this interface; OLSEstimator
// is the default implementation.
type Estimator interface {
	// Fit fits a polynomial to the request samples.
	Fit(req FitRequest) (*FitResult, error)
}

// FitRequest describes one regression problem.
type FitRequest struct {
	// Params holds one prepared vector per sample.
	Params [][]float64
	// Targets holds one observed value per sample.
	Targets []float64
	// NbOrdinals is the number of leading ordinal variables of each vector;
	// the rest are categorical dummies.
	NbOrdinals int
	// Order selects the initial terms when InitialMonomials is nil.
	Order Order
	// Partition restricts the initial terms and the model search to the
	// flagged variables. Nil includes every variable.
	Partition []bool
	// InitialMonomials overrides the initial terms. The first entry must be
	// the intercept.
	InitialMonomials []Monomial
	// ModelSearch enables the forward term search towards TargetR2 and the
	// backward elimination of insignificant terms.
	ModelSearch bool
	// TargetR2 is the adjusted R² at which the forward search stops.
	TargetR2 float64
	// ConfLevel is the confidence level, in percent, of the t-test used by
	// the backward elimination.
	ConfLevel float64
}

// validate checks the request shape and returns the number of variables.
func (req *FitRequest) validate() (int, error) {
	if len(req.Params) == 0 {
		return 0, fmt.Errorf("fit without samples: %w", errs.ErrDimensionOutOfBounds)
	}
	if len(req.Targets) != len(req.Params) {
		return 0, fmt.Errorf("%d targets for %d samples: %w", len(req.Targets), len(req.Params), errs.ErrDimensionMismatch)
	}
	nbPars := len(req.Params[0])
	for i, p := range req.Params {
		if len(p) != nbPars {
			return 0, fmt.Errorf("sample %d of size %d, expected %d: %w", i, len(p), nbPars, errs.ErrDimensionMismatch)
		}
	}
	if req.NbOrdinals < 0 || req.NbOrdinals > nbPars {
		return 0, fmt.Errorf("%d ordinals among %d variables: %w", req.NbOrdinals, nbPars, errs.ErrDimensionOutOfBounds)
	}
	if req.ModelSearch {
		if req.TargetR2 < 0 || req.TargetR2 > 1 {
			return 0, fmt.Errorf("target R² %g: %w", req.TargetR2, errs.ErrInvalidValue)
		}
		if req.ConfLevel <= 0 || req.ConfLevel >= 100 {
			return 0, fmt.Errorf("confidence level %g: %w", req.ConfLevel, errs.ErrInvalidValue)
		}
	}
	if req.Partition != nil && len(req.Partition) != nbPars {
		return 0, fmt.Errorf("partition of size %d for %d variables: %w", len(req.Partition), nbPars, errs.ErrDimensionMismatch)
	}
	if req.InitialMonomials != nil && len(req.InitialMonomials) == 0 {
		return 0, fmt.Errorf("empty initial monomial list: %w", errs.ErrInvalidValue)
	}
	for i, m := range req.InitialMonomials {
		if i == 0 && !m.IsIntercept() {
			return 0, fmt.Errorf("first initial monomial %s is not the intercept: %w", m, errs.ErrInvalidValue)
		}
		if m.maxVar() >= nbPars {
			return 0, fmt.Errorf("monomial %s beyond %d variables: %w", m, nbPars, errs.ErrDimensionOutOfBounds)
		}
	}

	return nbPars, nil
}

// FitResult is the outcome of a fit.
type FitResult struct {
	// Polynomial is the fitted polynomial.
	Polynomial *Polynomial
	// AdjustedR2 is the R² corrected for the number of terms.
	AdjustedR2 float64
	// RMSE is the root mean square error over the samples.
	RMSE float64
	// Leverages holds the hat-matrix diagonal, one entry per sample.
	Leverages []float64
	// Rank is the numerical rank of the design matrix.
	Rank int
	// IllPosed reports a rank-deficient design matrix, solved with the
	// pseudo-inverse.
	IllPosed bool
}

// String returns a one-line summary of the result.
func (r *FitResult) String() string {
	if r.Polynomial == nil {
		return "FitResult{Polynomial: nil}"
	}

	return fmt.Sprintf("FitResult{Terms: %d, AdjR²: %.4f, RMSE: %.4g, Rank: %d, IllPosed: %t}",
		r.Polynomial.Size(), r.AdjustedR2, r.RMSE, r.Rank, r.IllPosed)
}

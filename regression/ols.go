package regression

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/arloliu/sumo/errs"
	"github.com/arloliu/sumo/internal/options"
	"github.com/arloliu/sumo/numeric"
)

// OLSEstimator fits polynomials by ordinary least squares.
//
// The normal equations are solved through an LU inverse of XᵀX. A rank
// deficient design matrix X is solved with the SVD pseudo-inverse instead and
// the fit is flagged ill-posed. With model search enabled, terms of degree at
// most 2 are added greedily while the adjusted R² is below the target, then
// terms whose t-statistic falls below the Student-t critical value are
// removed one at a time.
//
// OLSEstimator is safe for concurrent use.
type OLSEstimator struct {
	cfg OLSConfig
}

var _ Estimator = (*OLSEstimator)(nil)

// NewOLSEstimator creates a least squares estimator.
//
// Example:
//
//	est, err := regression.NewOLSEstimator(regression.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	res, err := est.Fit(regression.FitRequest{
//	    Params:     prepared,
//	    Targets:    targets,
//	    NbOrdinals: 2,
//	    Order:      regression.OrderQuadratic,
//	})
func NewOLSEstimator(opts ...OLSOption) (*OLSEstimator, error) {
	cfg := defaultOLSConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return &OLSEstimator{cfg: cfg}, nil
}

// olsFit is one solved least squares problem.
type olsFit struct {
	monomials    []Monomial
	coefficients []float64
	stdErrors    []float64
	leverages    []float64
	rSquared     float64
	adjR2        float64
	rmse         float64
	rank         int
	illPosed     bool
}

// Fit fits a polynomial to the request samples.
//
// Returns:
//   - *FitResult: The fitted polynomial and its statistics
//   - error: errs.ErrDimensionOutOfBounds for an empty sample set,
//     errs.ErrDimensionMismatch for inconsistent sizes, errs.ErrInvalidValue
//     for invalid search settings or errs.ErrNotConverged when the singular
//     value decomposition fails
func (e *OLSEstimator) Fit(req FitRequest) (*FitResult, error) {
	nbPars, err := req.validate()
	if err != nil {
		return nil, err
	}

	monomials := req.InitialMonomials
	if monomials == nil {
		monomials, err = InitialMonomials(nbPars, req.NbOrdinals, req.Order, req.Partition)
		if err != nil {
			return nil, err
		}
	} else {
		monomials = slices.Clone(monomials)
	}

	fit, err := e.solve(req.Params, req.Targets, monomials)
	if err != nil {
		return nil, err
	}

	if req.ModelSearch {
		pool, err := InitialMonomials(nbPars, req.NbOrdinals, OrderQuadratic, req.Partition)
		if err != nil {
			return nil, err
		}
		fit = e.forwardSearch(req, fit, pool)
		fit = e.backwardEliminate(req, fit)
	}

	if fit.illPosed {
		e.cfg.Logger.Warn("regression is ill-posed",
			zap.Int("samples", len(req.Params)),
			zap.Int("terms", len(fit.monomials)),
			zap.Int("rank", fit.rank))
	}

	poly, err := NewPolynomial(fit.monomials, fit.coefficients, fit.stdErrors)
	if err != nil {
		return nil, err
	}

	return &FitResult{
		Polynomial: poly,
		AdjustedR2: fit.adjR2,
		RMSE:       fit.rmse,
		Leverages:  fit.leverages,
		Rank:       fit.rank,
		IllPosed:   fit.illPosed,
	}, nil
}

// solve fits the given terms to the samples.
func (e *OLSEstimator) solve(params [][]float64, targets []float64, monomials []Monomial) (*olsFit, error) {
	n, p := len(params), len(monomials)
	x := designMatrix(params, monomials)

	rank, err := numeric.Rank(x)
	if err != nil {
		return nil, fmt.Errorf("design matrix rank: %w", err)
	}
	fit := &olsFit{monomials: monomials, rank: rank, illPosed: rank < p}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)

	var inv *mat.Dense
	if !fit.illPosed {
		inv, err = numeric.Inverse(&xtx)
		if errors.Is(err, errs.ErrSingular) {
			fit.illPosed = true
		} else if err != nil {
			return nil, err
		}
	}
	if fit.illPosed {
		inv, err = numeric.PseudoInverse(&xtx)
		if err != nil {
			return nil, fmt.Errorf("normal equations: %w", err)
		}
	}

	y := mat.NewVecDense(n, slices.Clone(targets))
	var xty, beta mat.VecDense
	xty.MulVec(x.T(), y)
	beta.MulVec(inv, &xty)
	fit.coefficients = slices.Clone(beta.RawVector().Data)

	predicted := make([]float64, n)
	fit.leverages = make([]float64, n)
	var hx mat.VecDense
	for i := range n {
		row := mat.NewVecDense(p, x.RawRowView(i))
		predicted[i] = mat.Dot(row, &beta)
		hx.MulVec(inv, row)
		fit.leverages[i] = mat.Dot(row, &hx)
	}

	fit.rSquared = calculateRSquared(targets, predicted)
	fit.adjR2 = calculateAdjustedRSquared(fit.rSquared, n, p)
	fit.rmse = calculateRMSE(targets, predicted)

	sigma2 := 0.0
	if dof := n - rank; dof > 0 {
		sigma2 = calculateSSRes(targets, predicted) / float64(dof)
	}
	fit.stdErrors = make([]float64, p)
	for j := range p {
		fit.stdErrors[j] = math.Sqrt(math.Max(0, sigma2*inv.At(j, j)))
	}

	return fit, nil
}

// forwardSearch adds the candidate term that improves the adjusted R² most,
// until the target is reached, no candidate improves the fit or every sample
// but one is spent on a term.
func (e *OLSEstimator) forwardSearch(req FitRequest, fit *olsFit, pool []Monomial) *olsFit {
	n := len(req.Params)
	for step := 0; fit.adjR2 < req.TargetR2; step++ {
		if e.cfg.MaxSearchSteps >= 0 && step >= e.cfg.MaxSearchSteps {
			break
		}
		if len(fit.monomials) >= n-1 {
			break
		}

		var best *olsFit
		for _, cand := range pool {
			if containsMonomial(fit.monomials, cand) {
				continue
			}
			trial, err := e.solve(req.Params, req.Targets, append(slices.Clone(fit.monomials), cand))
			if err != nil || trial.illPosed {
				continue
			}
			if best == nil || trial.adjR2 > best.adjR2 {
				best = trial
			}
		}
		if best == nil || best.adjR2 <= fit.adjR2 {
			break
		}

		e.cfg.Logger.Debug("model search added term",
			zap.Stringer("term", best.monomials[len(best.monomials)-1]),
			zap.Float64("adjusted_r2", best.adjR2))
		fit = best
	}

	return fit
}

// backwardEliminate removes, one at a time, the non-intercept term with the
// smallest |t| while it is below the critical value at the requested
// confidence level.
func (e *OLSEstimator) backwardEliminate(req FitRequest, fit *olsFit) *olsFit {
	n := len(req.Params)
	for len(fit.monomials) > 1 {
		critical := numeric.CriticalValue(n-len(fit.monomials), req.ConfLevel)

		weakest, weakestT := -1, math.Inf(1)
		for j := 1; j < len(fit.monomials); j++ {
			if fit.stdErrors[j] == 0 {
				continue
			}
			if t := math.Abs(fit.coefficients[j] / fit.stdErrors[j]); t < weakestT {
				weakest, weakestT = j, t
			}
		}
		if weakest < 0 || weakestT >= critical {
			break
		}

		reduced := slices.Delete(slices.Clone(fit.monomials), weakest, weakest+1)
		trial, err := e.solve(req.Params, req.Targets, reduced)
		if err != nil {
			break
		}

		e.cfg.Logger.Debug("model search removed term",
			zap.Stringer("term", fit.monomials[weakest]),
			zap.Float64("t", weakestT),
			zap.Float64("critical", critical))
		fit = trial
	}

	return fit
}

func containsMonomial(list []Monomial, m Monomial) bool {
	return slices.ContainsFunc(list, m.Equal)
}

// designMatrix evaluates every monomial on every sample.
func designMatrix(params [][]float64, monomials []Monomial) *mat.Dense {
	x := mat.NewDense(len(params), len(monomials), nil)
	for i, p := range params {
		row := x.RawRowView(i)
		for j, m := range monomials {
			row[j] = m.Evaluate(p)
		}
	}

	return x
}

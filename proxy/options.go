package proxy

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/arloliu/sumo/errs"
	"github.com/arloliu/sumo/internal/options"
	"github.com/arloliu/sumo/param"
	"github.com/arloliu/sumo/regression"
)

// Config holds the fit settings of a proxy calculation.
type Config struct {
	// Order selects the initial polynomial terms.
	Order regression.Order
	// ModelSearch enables the estimator's term search.
	ModelSearch bool
	// TargetR2 is the adjusted R² the model search aims for.
	TargetR2 float64
	// ConfLevel is the confidence level, in percent, of the term elimination.
	ConfLevel float64
	// Partition flags the prepared variables eligible for the polynomial.
	// Nil includes every variable.
	Partition []bool
	// Transforms is applied to prepared vectors before the polynomial.
	Transforms *param.PreparedTransforms
	// Estimator fits the polynomial. Nil selects a least squares estimator.
	Estimator regression.Estimator
	// Logger reports degraded fits.
	Logger *zap.Logger
}

// defaultConfig returns default config (linear terms, no model search).
func defaultConfig() Config {
	return Config{
		Order:     regression.OrderLinear,
		TargetR2:  0.95,
		ConfLevel: 95,
		Logger:    zap.NewNop(),
	}
}

// Option is a functional option for Config.
type Option = options.Option[*Config]

// WithOrder sets the initial polynomial order. The default is
// regression.OrderLinear, not the intercept-only OrderIntercept; pass
// OrderIntercept explicitly to start the model search from the constant term.
func WithOrder(order regression.Order) Option {
	return options.New(func(cfg *Config) error {
		if !order.IsValid() {
			return fmt.Errorf("order %d: %w", order, errs.ErrInvalidOption)
		}
		cfg.Order = order

		return nil
	})
}

// WithModelSearch enables or disables the polynomial term search.
func WithModelSearch(enabled bool) Option {
	return options.NoError(func(cfg *Config) {
		cfg.ModelSearch = enabled
	})
}

// WithTargetR2 sets the adjusted R² the model search aims for, in [0, 1].
func WithTargetR2(r2 float64) Option {
	return options.New(func(cfg *Config) error {
		if r2 < 0 || r2 > 1 {
			return fmt.Errorf("target R² %g outside [0, 1]: %w", r2, errs.ErrInvalidOption)
		}
		cfg.TargetR2 = r2

		return nil
	})
}

// WithConfidenceLevel sets the term elimination confidence level, in
// percent, within (0, 100).
func WithConfidenceLevel(level float64) Option {
	return options.New(func(cfg *Config) error {
		if level <= 0 || level >= 100 {
			return fmt.Errorf("confidence level %g outside (0, 100): %w", level, errs.ErrInvalidOption)
		}
		cfg.ConfLevel = level

		return nil
	})
}

// WithPartition restricts the polynomial to the flagged prepared variables.
// Use param.Space.PreparePartition to derive it from raw parameters.
func WithPartition(partition []bool) Option {
	return options.NoError(func(cfg *Config) {
		cfg.Partition = slices.Clone(partition)
	})
}

// WithTransforms sets the transforms applied to prepared vectors before the
// polynomial is fitted or evaluated.
func WithTransforms(pt *param.PreparedTransforms) Option {
	return options.NoError(func(cfg *Config) {
		cfg.Transforms = pt
	})
}

// WithEstimator replaces the default least squares estimator.
func WithEstimator(est regression.Estimator) Option {
	return options.New(func(cfg *Config) error {
		if est == nil {
			return fmt.Errorf("nil estimator: %w", errs.ErrInvalidOption)
		}
		cfg.Estimator = est

		return nil
	})
}

// WithLogger sets the logger reporting degraded fits.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(cfg *Config) {
		if logger == nil {
			logger = zap.NewNop()
		}
		cfg.Logger = logger
	})
}

// estimator returns the configured estimator or a least squares estimator
// logging to the configured logger.
func (cfg *Config) estimator() (regression.Estimator, error) {
	if cfg.Estimator != nil {
		return cfg.Estimator, nil
	}

	return regression.NewOLSEstimator(regression.WithLogger(cfg.Logger))
}

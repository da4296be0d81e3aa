package regression

import (
	"go.uber.org/zap"

	"github.com/arloliu/sumo/internal/options"
)

// OLSConfig holds configuration of the least squares estimator.
type OLSConfig struct {
	Logger *zap.Logger
	// MaxSearchSteps bounds the number of terms the forward search may add.
	MaxSearchSteps int
}

// defaultOLSConfig returns default config (no logging, unbounded search).
func defaultOLSConfig() OLSConfig {
	return OLSConfig{
		Logger:         zap.NewNop(),
		MaxSearchSteps: -1,
	}
}

// OLSOption is a functional option for OLSConfig.
type OLSOption = options.Option[*OLSConfig]

// WithLogger sets the logger reporting ill-posed fits and search progress.
func WithLogger(logger *zap.Logger) OLSOption {
	return options.NoError(func(cfg *OLSConfig) {
		if logger == nil {
			logger = zap.NewNop()
		}
		cfg.Logger = logger
	})
}

// WithMaxSearchSteps bounds the number of terms added by the forward search.
// A negative value removes the bound.
func WithMaxSearchSteps(steps int) OLSOption {
	return options.NoError(func(cfg *OLSConfig) {
		cfg.MaxSearchSteps = steps
	})
}

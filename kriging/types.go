package kriging

import (
	"strings"

	"go.uber.org/zap"

	"github.com/arloliu/sumo/internal/options"
)

// Type selects the Kriging correction applied on top of a polynomial proxy.
type Type uint8

const (
	// NoKriging evaluates the polynomial only.
	NoKriging Type = iota
	// LocalKriging interpolates residuals within the local correlation length.
	LocalKriging
	// GlobalKriging interpolates residuals within the global correlation length.
	GlobalKriging
	// DefaultKriging lets the engine choose; it resolves to GlobalKriging.
	DefaultKriging
)

var typeNames = map[Type]string{
	NoKriging:      "none",
	LocalKriging:   "local",
	GlobalKriging:  "global",
	DefaultKriging: "default",
}

// String returns the name of the Kriging type.
func (t Type) String() string {
	if name, exists := typeNames[t]; exists {
		return name
	}

	return "unknown"
}

// TypeFromString returns the Type for a name, case-insensitive.
// Returns Type(255) for unknown names.
func TypeFromString(name string) Type {
	lower := strings.ToLower(name)
	for t, n := range typeNames {
		if n == lower {
			return t
		}
	}

	return Type(255)
}

// Resolve maps DefaultKriging to the concrete type it stands for.
func (t Type) Resolve() Type {
	if t == DefaultKriging {
		return GlobalKriging
	}

	return t
}

// Config holds the settings used by NewData.
type Config struct {
	Logger *zap.Logger
}

// Option is a functional option for NewData.
type Option = options.Option[*Config]

// WithLogger sets the logger that reports degraded covariance inversions.
// A nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(cfg *Config) {
		if logger == nil {
			logger = zap.NewNop()
		}
		cfg.Logger = logger
	})
}

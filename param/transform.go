package param

import (
	"fmt"
	"math"
	"strings"

	"github.com/arloliu/sumo/codec"
	"github.com/arloliu/sumo/errs"
)

// TransformType is a monotone transformation applied to a continuous parameter
// before it is scaled.
type TransformType uint8

const (
	// TransformNone leaves the value unchanged.
	TransformNone TransformType = iota
	// TransformLog10 takes the base-10 logarithm; the value must be positive.
	TransformLog10
	// TransformPwr10 raises 10 to the value, the inverse of TransformLog10.
	TransformPwr10
	// TransformSqrt takes the square root; the value must be non-negative.
	TransformSqrt
	// TransformSqr squares the value, the inverse of TransformSqrt.
	TransformSqr
)

var transformTypeNames = map[TransformType]string{
	TransformNone:  "none",
	TransformLog10: "log10",
	TransformPwr10: "pwr10",
	TransformSqrt:  "sqrt",
	TransformSqr:   "sqr",
}

// String returns the name of the transform.
func (t TransformType) String() string {
	if name, exists := transformTypeNames[t]; exists {
		return name
	}

	return "unknown"
}

// TransformTypeFromString returns the TransformType for a name, case-insensitive.
func TransformTypeFromString(name string) (TransformType, error) {
	lower := strings.ToLower(name)
	for t, n := range transformTypeNames {
		if n == lower {
			return t, nil
		}
	}

	return TransformNone, fmt.Errorf("transform %q: %w", name, errs.ErrInvalidValue)
}

// Inverse returns the transform that undoes t.
func (t TransformType) Inverse() TransformType {
	switch t {
	case TransformLog10:
		return TransformPwr10
	case TransformPwr10:
		return TransformLog10
	case TransformSqrt:
		return TransformSqr
	case TransformSqr:
		return TransformSqrt
	default:
		return TransformNone
	}
}

// Apply transforms a single value.
//
// Returns errs.ErrInvalidValue for the logarithm of a non-positive value, the
// square root of a negative value or an unknown transform.
func (t TransformType) Apply(x float64) (float64, error) {
	switch t {
	case TransformNone:
		return x, nil
	case TransformLog10:
		if x <= 0 {
			return 0, fmt.Errorf("cannot take log of non-positive value %g: %w", x, errs.ErrInvalidValue)
		}

		return math.Log10(x), nil
	case TransformPwr10:
		return math.Pow(10, x), nil
	case TransformSqrt:
		if x < 0 {
			return 0, fmt.Errorf("cannot take square root of negative value %g: %w", x, errs.ErrInvalidValue)
		}

		return math.Sqrt(x), nil
	case TransformSqr:
		return x * x, nil
	default:
		return 0, fmt.Errorf("transform %d: %w", t, errs.ErrInvalidValue)
	}
}

// InverseTransforms returns the element-wise inverse of tr.
func InverseTransforms(tr []TransformType) []TransformType {
	inv := make([]TransformType, len(tr))
	for k, t := range tr {
		inv[k] = t.Inverse()
	}

	return inv
}

// IsTrivial reports whether tr leaves every value unchanged.
func IsTrivial(tr []TransformType) bool {
	for _, t := range tr {
		if t != TransformNone {
			return false
		}
	}

	return true
}

// applyTransforms transforms values in place. An empty transform list is a
// no-op; otherwise its length must match values.
func applyTransforms(tr []TransformType, values []float64) error {
	if len(tr) == 0 {
		return nil
	}
	if len(tr) != len(values) {
		return fmt.Errorf("%d transforms for %d continuous parameters: %w", len(tr), len(values), errs.ErrDimensionMismatch)
	}

	for k, t := range tr {
		y, err := t.Apply(values[k])
		if err != nil {
			return fmt.Errorf("parameter %d: %w", k, err)
		}
		values[k] = y
	}

	return nil
}

func saveTransforms(w *codec.Writer, tr []TransformType) {
	w.Len32(len(tr))
	for _, t := range tr {
		w.Uint8(uint8(t))
	}
}

func loadTransforms(r *codec.Reader) []TransformType {
	n := r.Len32(1)
	if r.Err() != nil {
		return nil
	}

	tr := make([]TransformType, n)
	for k := range tr {
		tr[k] = TransformType(r.Uint8())
		if tr[k] > TransformSqr {
			r.Fail(fmt.Errorf("transform %d: %w", tr[k], errs.ErrInvalidValue))
			return nil
		}
	}

	return tr
}

package param

import (
	"fmt"
	"slices"

	"github.com/arloliu/sumo/codec"
	"github.com/arloliu/sumo/errs"
	"github.com/arloliu/sumo/format"
	"github.com/arloliu/sumo/numeric"
)

// PreparedTransforms applies a monotone transform to the ordinal entries of
// prepared vectors before they enter the regression.
//
// A prepared value x in [-1, 1] is mapped back onto the range [low, high] it
// was scaled from, transformed, and scaled to [-1, 1] again by the
// transformed range. Dummy entries pass through unchanged. A zero
// PreparedTransforms, or one with only TransformNone, is the identity.
type PreparedTransforms struct {
	types []TransformType
	low   []float64
	high  []float64
}

// NewPreparedTransforms creates transforms for the prepared ordinals of space.
//
// tr holds one transform per raw ordinal parameter (continuous and discrete),
// or is empty for the identity; transforms of fixed ordinals are ignored.
//
// Returns errs.ErrDimensionMismatch when len(tr) does not match the ordinals
// and errs.ErrInvalidValue when a transform is undefined on the range of its
// parameter.
func NewPreparedTransforms(space *Space, tr []TransformType) (*PreparedTransforms, error) {
	if len(tr) == 0 || IsTrivial(tr) {
		return &PreparedTransforms{}, nil
	}
	if err := space.checkConfigured(); err != nil {
		return nil, err
	}
	if len(tr) != space.SizeOrd() {
		return nil, fmt.Errorf("%d prepared transforms for %d ordinal parameters: %w", len(tr), space.SizeOrd(), errs.ErrDimensionMismatch)
	}

	pt := &PreparedTransforms{}
	for k, t := range tr {
		if space.IsFixed(k) {
			continue
		}
		low := space.trLow[k]
		high := space.trHigh[k]
		if t != TransformNone {
			if _, err := t.Apply(low); err != nil {
				return nil, fmt.Errorf("ordinal %d: %w", k, err)
			}
		}
		pt.types = append(pt.types, t)
		pt.low = append(pt.low, low)
		pt.high = append(pt.high, high)
	}

	return pt, nil
}

// IsTrivial reports whether Apply is the identity.
func (pt *PreparedTransforms) IsTrivial() bool {
	return pt == nil || IsTrivial(pt.types)
}

// Types returns the transform of every prepared ordinal.
func (pt *PreparedTransforms) Types() []TransformType {
	if pt == nil {
		return nil
	}

	return pt.types
}

// Apply returns a transformed copy of a prepared vector.
func (pt *PreparedTransforms) Apply(v []float64) ([]float64, error) {
	out := slices.Clone(v)
	if pt.IsTrivial() {
		return out, nil
	}
	if len(v) < len(pt.types) {
		return nil, fmt.Errorf("prepared vector of size %d for %d ordinals: %w", len(v), len(pt.types), errs.ErrDimensionMismatch)
	}

	for k, t := range pt.types {
		if t == TransformNone {
			continue
		}
		x := pt.low[k] + (v[k]+1)*(pt.high[k]-pt.low[k])/2
		y, err := t.Apply(x)
		if err != nil {
			return nil, fmt.Errorf("prepared ordinal %d: %w", k, err)
		}
		tLow, _ := t.Apply(pt.low[k])
		tHigh, _ := t.Apply(pt.high[k])
		if numeric.IsEqualTo(tLow, tHigh) {
			out[k] = -1
			continue
		}
		out[k] = -1 + 2*(y-tLow)/(tHigh-tLow)
	}

	return out, nil
}

// ApplySet transforms every vector of a set.
func (pt *PreparedTransforms) ApplySet(vs [][]float64) ([][]float64, error) {
	out := make([][]float64, len(vs))
	for i, v := range vs {
		tv, err := pt.Apply(v)
		if err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
		out[i] = tv
	}

	return out, nil
}

// Save writes the transforms.
func (pt *PreparedTransforms) Save(w *codec.Writer) error {
	w.Version(format.CurrentVersion(format.KindPreparedTransforms))
	saveTransforms(w, pt.types)
	w.Float64s(pt.low)
	w.Float64s(pt.high)

	return nil
}

// Load reads transforms written by Save.
func (pt *PreparedTransforms) Load(r *codec.Reader) error {
	r.Version(format.KindPreparedTransforms)
	types := loadTransforms(r)
	low := r.Float64s()
	high := r.Float64s()
	if r.Err() != nil {
		return r.Err()
	}
	if len(low) != len(types) || len(high) != len(types) {
		return fmt.Errorf("prepared transforms of %d types, %d low and %d high bounds: %w",
			len(types), len(low), len(high), errs.ErrDimensionMismatch)
	}
	pt.types, pt.low, pt.high = types, low, high

	return nil
}

package param

import (
	"fmt"
	"slices"

	"github.com/arloliu/sumo/codec"
	"github.com/arloliu/sumo/errs"
	"github.com/arloliu/sumo/numeric"
)

// Bounds holds the lower and upper bound of every parameter together with the
// admissible values of each categorical parameter.
//
// Invariants established by NewBounds and BoundsFromCases:
//   - low and high are comparable and low <= high componentwise
//   - every categorical value set is non-empty, sorted, de-duplicated and lies
//     within [low, high] of its parameter
//
// The smallest admissible value of a categorical parameter is its reference
// value. Bounds is immutable after construction.
type Bounds struct {
	low       Case
	high      Case
	catValues [][]uint
}

// maxDefaultCatValues limits the value set NewBounds derives from a
// categorical range when none is given.
const maxDefaultCatValues = 1 << 16

// NewBounds creates bounds from explicit low and high cases.
//
// catValues holds the admissible values per categorical parameter; it is
// sorted and de-duplicated on a copy. A nil catValues admits every integer in
// [low, high] of each categorical parameter.
//
// Parameters:
//   - low: Lower bounds
//   - high: Upper bounds
//   - catValues: Admissible categorical values, or nil
//
// Returns:
//   - *Bounds: The validated bounds
//   - error: errs.ErrDimensionMismatch for incomparable inputs,
//     errs.ErrInvalidValue when low > high or a value set is empty or out of range
func NewBounds(low, high Case, catValues [][]uint) (*Bounds, error) {
	if err := checkComparable(high, low); err != nil {
		return nil, err
	}

	for k := range low.SizeOrd() {
		if low.OrdinalPar(k) > high.OrdinalPar(k) {
			return nil, fmt.Errorf("ordinal %d: low %g > high %g: %w", k, low.OrdinalPar(k), high.OrdinalPar(k), errs.ErrInvalidValue)
		}
	}
	for i := range low.SizeCat() {
		if low.Categorical[i] > high.Categorical[i] {
			return nil, fmt.Errorf("categorical %d: low %d > high %d: %w", i, low.Categorical[i], high.Categorical[i], errs.ErrInvalidValue)
		}
	}

	if catValues == nil {
		catValues = make([][]uint, low.SizeCat())
		for i := range catValues {
			span := high.Categorical[i] - low.Categorical[i]
			if span >= maxDefaultCatValues {
				return nil, fmt.Errorf("categorical %d range [%d, %d] too wide without explicit values: %w",
					i, low.Categorical[i], high.Categorical[i], errs.ErrInvalidValue)
			}
			catValues[i] = make([]uint, 0, span+1)
			for d := range span + 1 {
				catValues[i] = append(catValues[i], low.Categorical[i]+d)
			}
		}
	}
	if len(catValues) != low.SizeCat() {
		return nil, fmt.Errorf("%d categorical value sets for %d categorical parameters: %w", len(catValues), low.SizeCat(), errs.ErrDimensionMismatch)
	}

	vals := make([][]uint, len(catValues))
	for i, set := range catValues {
		if len(set) == 0 {
			return nil, fmt.Errorf("categorical %d has no admissible values: %w", i, errs.ErrInvalidValue)
		}
		vals[i] = slices.Compact(slices.Sorted(slices.Values(set)))
		if vals[i][0] < low.Categorical[i] || vals[i][len(vals[i])-1] > high.Categorical[i] {
			return nil, fmt.Errorf("categorical %d values %v outside [%d, %d]: %w",
				i, vals[i], low.Categorical[i], high.Categorical[i], errs.ErrInvalidValue)
		}
	}

	return &Bounds{low: low.Clone(), high: high.Clone(), catValues: vals}, nil
}

// BoundsFromCases derives bounds from a case collection: the minimum and
// maximum of every ordinal and categorical parameter, and the set of observed
// values of every categorical parameter.
//
// Returns errs.ErrDimensionOutOfBounds for an empty collection and
// errs.ErrDimensionMismatch when the cases are not comparable.
func BoundsFromCases(cases []Case) (*Bounds, error) {
	if len(cases) == 0 {
		return nil, fmt.Errorf("bounds from empty case set: %w", errs.ErrDimensionOutOfBounds)
	}

	low := cases[0].Clone()
	high := cases[0].Clone()
	catValues := make([][]uint, cases[0].SizeCat())

	for _, c := range cases {
		if err := checkComparable(c, low); err != nil {
			return nil, err
		}
		for k, v := range c.Continuous {
			low.Continuous[k] = min(low.Continuous[k], v)
			high.Continuous[k] = max(high.Continuous[k], v)
		}
		for k, v := range c.Discrete {
			low.Discrete[k] = min(low.Discrete[k], v)
			high.Discrete[k] = max(high.Discrete[k], v)
		}
		for i, v := range c.Categorical {
			low.Categorical[i] = min(low.Categorical[i], v)
			high.Categorical[i] = max(high.Categorical[i], v)
			catValues[i] = append(catValues[i], v)
		}
	}

	return NewBounds(low, high, catValues)
}

// Low returns the lower bounds. The returned case must not be modified.
func (b *Bounds) Low() Case { return b.low }

// High returns the upper bounds. The returned case must not be modified.
func (b *Bounds) High() Case { return b.high }

// SizeCon returns the number of continuous parameters.
func (b *Bounds) SizeCon() int { return b.low.SizeCon() }

// SizeDis returns the number of discrete parameters.
func (b *Bounds) SizeDis() int { return b.low.SizeDis() }

// SizeOrd returns the number of ordinal parameters.
func (b *Bounds) SizeOrd() int { return b.low.SizeOrd() }

// SizeCat returns the number of categorical parameters.
func (b *Bounds) SizeCat() int { return b.low.SizeCat() }

// Size returns the total number of parameters.
func (b *Bounds) Size() int { return b.low.Size() }

// CatValues returns the sorted admissible values of categorical parameter i.
// The returned slice must not be modified.
func (b *Bounds) CatValues(i int) []uint { return b.catValues[i] }

// RangeOrd returns high - low of ordinal parameter k.
func (b *Bounds) RangeOrd(k int) float64 {
	return b.high.OrdinalPar(k) - b.low.OrdinalPar(k)
}

// AreEqual reports whether ordinal parameter k has equal bounds under
// numeric.IsEqualTo.
func (b *Bounds) AreEqual(k int) bool {
	return numeric.IsEqualTo(b.low.OrdinalPar(k), b.high.OrdinalPar(k))
}

// IsFixed reports whether parameter i is frozen. Indexes below SizeOrd()
// address ordinals, which are fixed when their bounds are equal; the rest
// address categoricals, which are fixed when they admit a single value.
func (b *Bounds) IsFixed(i int) bool {
	if i < b.SizeOrd() {
		return b.AreEqual(i)
	}

	return len(b.catValues[i-b.SizeOrd()]) == 1
}

// Contains reports whether c is comparable to the bounds and lies within them,
// with every categorical value admissible.
func (b *Bounds) Contains(c Case) bool {
	if !c.IsComparableTo(b.low) {
		return false
	}
	for k := range c.SizeOrd() {
		if v := c.OrdinalPar(k); v < b.low.OrdinalPar(k) || v > b.high.OrdinalPar(k) {
			return false
		}
	}
	for i, v := range c.Categorical {
		if _, found := slices.BinarySearch(b.catValues[i], v); !found {
			return false
		}
	}

	return true
}

// Save writes the bounds.
func (b *Bounds) Save(w *codec.Writer) error {
	if err := b.low.Save(w); err != nil {
		return err
	}
	if err := b.high.Save(w); err != nil {
		return err
	}
	w.Len32(len(b.catValues))
	for _, set := range b.catValues {
		w.Uints(set)
	}

	return nil
}

// Load reads bounds written by Save and re-validates them.
func (b *Bounds) Load(r *codec.Reader) error {
	var low, high Case
	if err := low.Load(r); err != nil {
		return err
	}
	if err := high.Load(r); err != nil {
		return err
	}
	n := r.Len32(4)
	if r.Err() != nil {
		return r.Err()
	}
	catValues := make([][]uint, n)
	for i := range catValues {
		catValues[i] = r.Uints()
	}
	if r.Err() != nil {
		return r.Err()
	}

	loaded, err := NewBounds(low, high, catValues)
	if err != nil {
		return err
	}
	*b = *loaded

	return nil
}

package param

import (
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/sumo/codec"
	"github.com/arloliu/sumo/errs"
	"github.com/arloliu/sumo/format"
	"github.com/arloliu/sumo/numeric"
)

// Space maps raw cases to prepared vectors and back.
//
// A prepared vector holds the non-fixed ordinal parameters scaled to [-1, 1]
// by their transformed bounds, followed by one binary dummy per non-reference
// value of every non-fixed categorical parameter:
//
//	[ord_0 .. ord_m | dummies of cat_0 | dummies of cat_1 | ...]
//
// Three index systems are in use:
//   - raw: ordinals then categoricals, fixed parameters included
//   - prepared: non-fixed parameters only, one slot per categorical
//   - expanded proxy: ordinals followed by one slot per value of every
//     categorical over its original value range, so that regression terms
//     keep stable indexes when the observed categorical values change
//
// A Space is configured once with SetBounds and is read-only afterwards; it is
// then safe for concurrent use.
type Space struct {
	tr    []TransformType
	trInv []TransformType

	// number of dummy slots per categorical in the expanded proxy index space
	nbOfOrigDummyPars []uint

	bounds *Bounds
	trLow  []float64
	trHigh []float64

	preparedParIdx      []int
	preparedProxyParIdx []int
}

// NewSpace creates a parameter space.
//
// origLow and origHigh describe the original parameter ranges; the upper
// bound of every categorical parameter sets the number of dummy slots it owns
// in the expanded proxy index space, and the lower bound of every categorical
// parameter must be 0. tr holds one transform per continuous parameter, or is
// empty for no transforms.
//
// The returned space must be given bounds with SetBounds before use.
func NewSpace(origLow, origHigh Case, tr []TransformType) (*Space, error) {
	if err := checkComparable(origHigh, origLow); err != nil {
		return nil, err
	}
	if len(tr) != 0 && len(tr) != origLow.SizeCon() {
		return nil, fmt.Errorf("%d transforms for %d continuous parameters: %w", len(tr), origLow.SizeCon(), errs.ErrDimensionMismatch)
	}

	nbOfOrigDummyPars := make([]uint, origLow.SizeCat())
	for i := range nbOfOrigDummyPars {
		if origLow.Categorical[i] != 0 {
			return nil, fmt.Errorf("categorical %d original low bound %d, expected 0: %w", i, origLow.Categorical[i], errs.ErrInvalidValue)
		}
		nbOfOrigDummyPars[i] = origHigh.Categorical[i]
	}

	return &Space{
		tr:                slices.Clone(tr),
		trInv:             InverseTransforms(tr),
		nbOfOrigDummyPars: nbOfOrigDummyPars,
	}, nil
}

// SetBounds configures the space with the bounds of the cases it will prepare.
//
// Returns errs.ErrDimensionMismatch when the transforms or the categorical
// parameters do not match the bounds, errs.ErrInvalidValue when a transform
// cannot be applied to a bound or a categorical value exceeds its original
// range.
func (s *Space) SetBounds(b *Bounds) error {
	if b == nil {
		return fmt.Errorf("nil bounds: %w", errs.ErrInvalidState)
	}
	if len(s.tr) != 0 && len(s.tr) != b.SizeCon() {
		return fmt.Errorf("%d transforms for %d continuous parameters: %w", len(s.tr), b.SizeCon(), errs.ErrDimensionMismatch)
	}
	if b.SizeCat() != len(s.nbOfOrigDummyPars) {
		return fmt.Errorf("%d categorical parameters, original size %d: %w", b.SizeCat(), len(s.nbOfOrigDummyPars), errs.ErrDimensionMismatch)
	}
	for i := range b.SizeCat() {
		vals := b.CatValues(i)
		if vals[len(vals)-1] > s.nbOfOrigDummyPars[i] {
			return fmt.Errorf("categorical %d value %d exceeds original range [0, %d]: %w",
				i, vals[len(vals)-1], s.nbOfOrigDummyPars[i], errs.ErrInvalidValue)
		}
	}

	trLow := b.Low().Ordinals()
	if err := applyTransforms(s.tr, trLow[:b.SizeCon()]); err != nil {
		return fmt.Errorf("transform low bounds: %w", err)
	}
	trHigh := b.High().Ordinals()
	if err := applyTransforms(s.tr, trHigh[:b.SizeCon()]); err != nil {
		return fmt.Errorf("transform high bounds: %w", err)
	}

	s.bounds = b
	s.trLow = trLow
	s.trHigh = trHigh
	s.listPreparedParIdx()

	return nil
}

// SetBoundsFromCases derives bounds with BoundsFromCases and sets them.
func (s *Space) SetBoundsFromCases(cases []Case) error {
	b, err := BoundsFromCases(cases)
	if err != nil {
		return err
	}

	return s.SetBounds(b)
}

func (s *Space) listPreparedParIdx() {
	nOrd := s.bounds.SizeOrd()

	s.preparedParIdx = s.preparedParIdx[:0]
	for i := range s.bounds.Size() {
		if !s.bounds.IsFixed(i) {
			s.preparedParIdx = append(s.preparedParIdx, i)
		}
	}

	s.preparedProxyParIdx = s.preparedProxyParIdx[:0]
	for k := range nOrd {
		if !s.bounds.IsFixed(k) {
			s.preparedProxyParIdx = append(s.preparedProxyParIdx, k)
		}
	}

	offset := nOrd
	for i, nbDummies := range s.nbOfOrigDummyPars {
		if !s.bounds.IsFixed(nOrd + i) {
			// catValues[0] is the reference value and owns no dummy;
			// value v lives at slot v-1 of the categorical's block
			for _, v := range s.bounds.CatValues(i)[1:] {
				s.preparedProxyParIdx = append(s.preparedProxyParIdx, offset+int(v)-1)
			}
		}
		offset += int(nbDummies)
	}
}

// Bounds returns the raw bounds, or nil before SetBounds.
func (s *Space) Bounds() *Bounds { return s.bounds }

// Transforms returns the continuous parameter transforms.
func (s *Space) Transforms() []TransformType { return s.tr }

// IsConfigured reports whether SetBounds has been called.
func (s *Space) IsConfigured() bool { return s.bounds != nil }

// SizeCon returns the number of continuous parameters.
func (s *Space) SizeCon() int { return s.bounds.SizeCon() }

// SizeDis returns the number of discrete parameters.
func (s *Space) SizeDis() int { return s.bounds.SizeDis() }

// SizeOrd returns the number of ordinal parameters.
func (s *Space) SizeOrd() int { return s.bounds.SizeOrd() }

// SizeCat returns the number of categorical parameters.
func (s *Space) SizeCat() int { return s.bounds.SizeCat() }

// Size returns the number of raw parameters.
func (s *Space) Size() int { return s.bounds.Size() }

// IsFixed reports whether raw parameter i is frozen.
func (s *Space) IsFixed(i int) bool { return s.bounds.IsFixed(i) }

// PreparedSize returns the length of a prepared vector.
func (s *Space) PreparedSize() int { return len(s.preparedProxyParIdx) }

// NbOfNonFixedOrdinalPars returns the number of ordinal entries of a prepared
// vector.
func (s *Space) NbOfNonFixedOrdinalPars() int {
	n := 0
	for k := range s.SizeOrd() {
		if !s.IsFixed(k) {
			n++
		}
	}

	return n
}

// NbOfDummyPars returns the number of dummy entries of a prepared vector.
func (s *Space) NbOfDummyPars() int {
	n := 0
	for i := range s.SizeCat() {
		n += len(s.bounds.CatValues(i)) - 1
	}

	return n
}

// ExpandedProxySize returns the size of the expanded proxy index space.
func (s *Space) ExpandedProxySize() int {
	n := s.SizeOrd()
	for _, d := range s.nbOfOrigDummyPars {
		n += int(d)
	}

	return n
}

func (s *Space) checkConfigured() error {
	if s.bounds == nil {
		return fmt.Errorf("parameter space without bounds: %w", errs.ErrInvalidState)
	}

	return nil
}

func (s *Space) trAreEqual(k int) bool {
	return numeric.IsEqualTo(s.trLow[k], s.trHigh[k])
}

// Prepare converts a raw case into a prepared vector.
//
// Steps: transform the continuous parameters, append the discrete parameters
// as reals, scale every ordinal to [-1, 1] by its transformed bounds, drop the
// fixed parameters and append the categorical dummies.
//
// Returns:
//   - []float64: Prepared vector of length PreparedSize()
//   - error: errs.ErrInvalidState before SetBounds, errs.ErrDimensionMismatch
//     for an incomparable case, errs.ErrInvalidValue for a value a transform
//     rejects or a categorical value outside the admissible set
func (s *Space) Prepare(c Case) ([]float64, error) {
	if err := s.checkConfigured(); err != nil {
		return nil, err
	}
	if err := checkComparable(c, s.bounds.Low()); err != nil {
		return nil, err
	}

	ord := c.Ordinals()
	if err := applyTransforms(s.tr, ord[:c.SizeCon()]); err != nil {
		return nil, err
	}

	v := make([]float64, 0, s.PreparedSize())
	for k, x := range ord {
		if s.IsFixed(k) {
			continue
		}
		scaled := -1.0
		if !s.trAreEqual(k) {
			scaled += 2 * (x - s.trLow[k]) / (s.trHigh[k] - s.trLow[k])
		}
		v = append(v, scaled)
	}

	vIdx := len(v)
	v = append(v, make([]float64, s.NbOfDummyPars())...)
	for i, val := range c.Categorical {
		catVals := s.bounds.CatValues(i)
		valIdx, found := slices.BinarySearch(catVals, val)
		if !found {
			return nil, fmt.Errorf("categorical %d value %d not in %v: %w", i, val, catVals, errs.ErrInvalidValue)
		}
		if len(catVals) == 1 {
			continue
		}
		if valIdx > 0 {
			v[vIdx+valIdx-1] = 1
		}
		vIdx += len(catVals) - 1
	}

	return v, nil
}

// Unprepare converts a prepared vector back into a raw case.
//
// Fixed parameters are restored from the bounds; discrete parameters are
// rounded half away from zero. For any case c within the bounds,
// Unprepare(Prepare(c)) reproduces c within floating point tolerance.
//
// Returns errs.ErrInvalidState before SetBounds, errs.ErrDimensionMismatch when
// len(v) != PreparedSize() and errs.ErrInvalidValue when an inverse transform
// rejects a value.
func (s *Space) Unprepare(v []float64) (Case, error) {
	if err := s.checkConfigured(); err != nil {
		return Case{}, err
	}
	if len(v) != s.PreparedSize() {
		return Case{}, fmt.Errorf("prepared vector of size %d, expected %d: %w", len(v), s.PreparedSize(), errs.ErrDimensionMismatch)
	}

	nOrd := s.SizeOrd()
	ord := make([]float64, nOrd)
	j := 0
	for k := range ord {
		x := -1.0
		if !s.IsFixed(k) {
			x = v[j]
			j++
		}
		ord[k] = s.trLow[k] + (x+1)*(s.trHigh[k]-s.trLow[k])/2
	}

	c := Case{
		Continuous: ord[:s.SizeCon():s.SizeCon()],
		Discrete:   make([]int, s.SizeDis()),
	}
	for k := range c.Discrete {
		c.Discrete[k] = int(math.Round(ord[s.SizeCon()+k]))
	}
	if err := applyTransforms(s.trInv, c.Continuous); err != nil {
		return Case{}, err
	}

	nonFixed := s.CatParValues(v)
	c.Categorical = make([]uint, s.SizeCat())
	j = 0
	for i := range c.Categorical {
		if s.IsFixed(nOrd + i) {
			c.Categorical[i] = s.bounds.CatValues(i)[0]
		} else {
			c.Categorical[i] = nonFixed[j]
			j++
		}
	}

	return c, nil
}

// PrepareSet prepares every case of a set.
func (s *Space) PrepareSet(cases []Case) ([][]float64, error) {
	out := make([][]float64, len(cases))
	for i, c := range cases {
		v, err := s.Prepare(c)
		if err != nil {
			return nil, fmt.Errorf("case %d: %w", i, err)
		}
		out[i] = v
	}

	return out, nil
}

// UnprepareSet unprepares every vector of a set.
func (s *Space) UnprepareSet(vs [][]float64) ([]Case, error) {
	out := make([]Case, len(vs))
	for i, v := range vs {
		c, err := s.Unprepare(v)
		if err != nil {
			return nil, fmt.Errorf("vector %d: %w", i, err)
		}
		out[i] = c
	}

	return out, nil
}

// CatParValues decodes the dummies at the end of a prepared vector into the
// values of the non-fixed categorical parameters. The first dummy above 0.5
// selects its value; when none is set the reference value is returned.
func (s *Space) CatParValues(v []float64) []uint {
	vals := make([]uint, 0, s.SizeCat())
	vIdx := len(v) - s.NbOfDummyPars()
	for i := range s.SizeCat() {
		catVals := s.bounds.CatValues(i)
		if len(catVals) == 1 {
			continue
		}
		val := catVals[0]
		for d := range len(catVals) - 1 {
			if v[vIdx+d] > 0.5 {
				val = catVals[d+1]
				break
			}
		}
		vals = append(vals, val)
		vIdx += len(catVals) - 1
	}

	return vals
}

// CatParValuesFromPreparedCase returns CatParValues as reals.
func (s *Space) CatParValuesFromPreparedCase(v []float64) []float64 {
	vals := s.CatParValues(v)
	out := make([]float64, len(vals))
	for i, val := range vals {
		out[i] = float64(val)
	}

	return out
}

// PrepareIndexes maps raw parameter indexes to prepared indexes. Fixed
// parameters are dropped.
func (s *Space) PrepareIndexes(indexes []int) ([]int, error) {
	out := make([]int, 0, len(indexes))
	for _, idx := range indexes {
		if idx < 0 || idx >= s.Size() {
			return nil, fmt.Errorf("raw index %d of %d: %w", idx, s.Size(), errs.ErrDimensionOutOfBounds)
		}
		if s.IsFixed(idx) {
			continue
		}
		m, _ := slices.BinarySearch(s.preparedParIdx, idx)
		out = append(out, m)
	}

	return out, nil
}

// UnprepareIndexes maps prepared parameter indexes back to raw indexes.
func (s *Space) UnprepareIndexes(indexes []int) ([]int, error) {
	return mapIndexes(indexes, s.preparedParIdx)
}

// ConvertToOrigProxyIdx maps indexes into a prepared vector, dummies
// included, to the expanded proxy index space.
func (s *Space) ConvertToOrigProxyIdx(indexes []int) ([]int, error) {
	return mapIndexes(indexes, s.preparedProxyParIdx)
}

func mapIndexes(indexes, table []int) ([]int, error) {
	out := make([]int, len(indexes))
	for i, idx := range indexes {
		if idx < 0 || idx >= len(table) {
			return nil, fmt.Errorf("index %d of %d: %w", idx, len(table), errs.ErrDimensionOutOfBounds)
		}
		out[i] = table[idx]
	}

	return out, nil
}

// PreparePartition converts a raw partition, one flag per raw parameter, into
// a partition over the prepared vector with one flag per dummy. An empty
// partition is returned unchanged.
func (s *Space) PreparePartition(partition []bool) ([]bool, error) {
	if len(partition) == 0 {
		return partition, nil
	}
	if err := s.checkConfigured(); err != nil {
		return nil, err
	}
	if len(partition) != s.Size() {
		return nil, fmt.Errorf("partition of size %d for %d parameters: %w", len(partition), s.Size(), errs.ErrDimensionMismatch)
	}

	nOrd := s.SizeOrd()
	part := make([]bool, 0, s.PreparedSize())
	for k := range nOrd {
		if !s.IsFixed(k) {
			part = append(part, partition[k])
		}
	}
	for i := range s.SizeCat() {
		if s.IsFixed(nOrd + i) {
			continue
		}
		for range len(s.bounds.CatValues(i)) - 1 {
			part = append(part, partition[nOrd+i])
		}
	}

	return part, nil
}

// Save writes the space.
func (s *Space) Save(w *codec.Writer) error {
	if err := s.checkConfigured(); err != nil {
		return err
	}

	w.Version(format.CurrentVersion(format.KindSpace))
	saveTransforms(w, s.tr)
	saveTransforms(w, s.trInv)
	if err := s.bounds.Save(w); err != nil {
		return err
	}
	w.Float64s(s.trLow)
	w.Float64s(s.trHigh)
	w.Ints(s.preparedParIdx)
	w.Ints(s.preparedProxyParIdx)
	w.Uints(s.nbOfOrigDummyPars)

	return nil
}

// Load reads a space written by Save.
func (s *Space) Load(r *codec.Reader) error {
	r.Version(format.KindSpace)
	tr := loadTransforms(r)
	trInv := loadTransforms(r)
	if r.Err() != nil {
		return r.Err()
	}

	bounds := &Bounds{}
	if err := bounds.Load(r); err != nil {
		return err
	}
	loaded := Space{
		tr:                  tr,
		trInv:               trInv,
		bounds:              bounds,
		trLow:               r.Float64s(),
		trHigh:              r.Float64s(),
		preparedParIdx:      r.Ints(),
		preparedProxyParIdx: r.Ints(),
		nbOfOrigDummyPars:   r.Uints(),
	}
	if r.Err() != nil {
		return r.Err()
	}
	if len(loaded.trLow) != bounds.SizeOrd() || len(loaded.trHigh) != bounds.SizeOrd() ||
		len(loaded.nbOfOrigDummyPars) != bounds.SizeCat() {
		return fmt.Errorf("space layout does not match its bounds: %w", errs.ErrDimensionMismatch)
	}
	*s = loaded

	return nil
}

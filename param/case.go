package param

import (
	"fmt"
	"slices"

	"github.com/arloliu/sumo/codec"
	"github.com/arloliu/sumo/errs"
	"github.com/arloliu/sumo/format"
)

// Case is a single parameter record: continuous, discrete and categorical
// sub-vectors.
//
// Ordinal parameters are the continuous parameters followed by the discrete
// ones; ordinal index k addresses Continuous[k] for k < SizeCon() and
// Discrete[k-SizeCon()] otherwise. Categorical values are symbolic and have no
// numeric order beyond identity.
type Case struct {
	Continuous  []float64
	Discrete    []int
	Categorical []uint
}

// NewCase creates a case from its three sub-vectors. The slices are used as-is.
func NewCase(con []float64, dis []int, cat []uint) Case {
	return Case{Continuous: con, Discrete: dis, Categorical: cat}
}

// SizeCon returns the number of continuous parameters.
func (c Case) SizeCon() int { return len(c.Continuous) }

// SizeDis returns the number of discrete parameters.
func (c Case) SizeDis() int { return len(c.Discrete) }

// SizeCat returns the number of categorical parameters.
func (c Case) SizeCat() int { return len(c.Categorical) }

// SizeOrd returns the number of ordinal (continuous and discrete) parameters.
func (c Case) SizeOrd() int { return len(c.Continuous) + len(c.Discrete) }

// Size returns the total number of parameters.
func (c Case) Size() int { return c.SizeOrd() + len(c.Categorical) }

// OrdinalPar returns ordinal parameter k as a real value.
func (c Case) OrdinalPar(k int) float64 {
	if k < len(c.Continuous) {
		return c.Continuous[k]
	}

	return float64(c.Discrete[k-len(c.Continuous)])
}

// Ordinals returns a new slice with all ordinal parameters as real values.
func (c Case) Ordinals() []float64 {
	ord := make([]float64, 0, c.SizeOrd())
	ord = append(ord, c.Continuous...)
	for _, d := range c.Discrete {
		ord = append(ord, float64(d))
	}

	return ord
}

// IsComparableTo reports whether c and o have the same sub-vector sizes.
func (c Case) IsComparableTo(o Case) bool {
	return len(c.Continuous) == len(o.Continuous) &&
		len(c.Discrete) == len(o.Discrete) &&
		len(c.Categorical) == len(o.Categorical)
}

// Equal reports whether c and o are comparable and hold identical values.
func (c Case) Equal(o Case) bool {
	return slices.Equal(c.Continuous, o.Continuous) &&
		slices.Equal(c.Discrete, o.Discrete) &&
		slices.Equal(c.Categorical, o.Categorical)
}

// Less orders cases lexicographically over the continuous, discrete and
// categorical parts, in that order.
func (c Case) Less(o Case) bool {
	return c.Compare(o) < 0
}

// Compare returns -1, 0 or +1 following the order of Less.
func (c Case) Compare(o Case) int {
	if r := slices.Compare(c.Continuous, o.Continuous); r != 0 {
		return r
	}
	if r := slices.Compare(c.Discrete, o.Discrete); r != 0 {
		return r
	}

	return slices.Compare(c.Categorical, o.Categorical)
}

// Clone returns a deep copy of c.
func (c Case) Clone() Case {
	return Case{
		Continuous:  slices.Clone(c.Continuous),
		Discrete:    slices.Clone(c.Discrete),
		Categorical: slices.Clone(c.Categorical),
	}
}

// String returns a compact representation of the case.
func (c Case) String() string {
	return fmt.Sprintf("Case{con: %v, dis: %v, cat: %v}", c.Continuous, c.Discrete, c.Categorical)
}

// Save writes the case.
func (c Case) Save(w *codec.Writer) error {
	w.Version(format.CurrentVersion(format.KindCase))
	w.Float64s(c.Continuous)
	w.Ints(c.Discrete)
	w.Uints(c.Categorical)

	return nil
}

// Load reads a case written by Save.
func (c *Case) Load(r *codec.Reader) error {
	r.Version(format.KindCase)
	c.Continuous = r.Float64s()
	c.Discrete = r.Ints()
	c.Categorical = r.Uints()

	return r.Err()
}

// checkComparable returns errs.ErrDimensionMismatch when c is not comparable
// to ref.
func checkComparable(c, ref Case) error {
	if !c.IsComparableTo(ref) {
		return fmt.Errorf("case sizes (%d, %d, %d), expected (%d, %d, %d): %w",
			c.SizeCon(), c.SizeDis(), c.SizeCat(),
			ref.SizeCon(), ref.SizeDis(), ref.SizeCat(), errs.ErrDimensionMismatch)
	}

	return nil
}

// SaveCases writes a length-prefixed list of cases.
func SaveCases(w *codec.Writer, cases []Case) error {
	w.Len32(len(cases))
	for i := range cases {
		if err := cases[i].Save(w); err != nil {
			return err
		}
	}

	return nil
}

// LoadCases reads a list of cases written by SaveCases.
func LoadCases(r *codec.Reader) ([]Case, error) {
	// a case needs at least a version tag and three length prefixes
	n := r.Len32(2 + 3*4)
	if r.Err() != nil {
		return nil, r.Err()
	}

	cases := make([]Case, n)
	for i := range cases {
		if err := cases[i].Load(r); err != nil {
			return nil, err
		}
	}

	return cases, nil
}

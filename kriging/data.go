package kriging

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/arloliu/sumo/codec"
	"github.com/arloliu/sumo/errs"
	"github.com/arloliu/sumo/format"
	"github.com/arloliu/sumo/internal/options"
	"github.com/arloliu/sumo/numeric"
)

// zeroDimCorLength is the correlation length of a space without ordinals;
// only coinciding samples are correlated there.
const zeroDimCorLength = 1e-9

// localCorLengthRatio is the ratio between the global and the local
// correlation length.
const localCorLengthRatio = 6.0

// Data is the Kriging precomputation for a fixed set of prepared samples.
//
// It holds the pairwise distances, the minimum pairwise distance, the index
// of a reference sample far from the first one, and the inverse covariance
// matrices at the global and the local correlation length. Data is immutable
// once built and safe for concurrent use.
type Data struct {
	cases [][]float64
	nbOrd int

	globalCorLength float64
	localCorLength  float64

	distances   *mat.Dense
	minDistance float64
	refIdx      int

	globalInv *mat.Dense
	// nil when the local covariance matrix is the identity
	localInv *mat.Dense
}

// GlobalCorLength returns the correlation length of a space with dim
// ordinal dimensions: the diagonal 2·sqrt(dim) of the [-1, 1] hypercube.
func GlobalCorLength(dim int) float64 {
	if dim == 0 {
		return zeroDimCorLength
	}

	return 2 * math.Sqrt(float64(dim))
}

// Covariance returns the linearly decaying covariance at distance d for
// correlation length corLength: 1 - d/corLength below corLength, else 0.
func Covariance(d, corLength float64) float64 {
	if d < corLength {
		return 1 - d/corLength
	}

	return 0
}

// NewData computes the Kriging precomputation for prepared samples.
//
// The first nbOrd entries of every sample are ordinal coordinates, the rest are
// categorical dummies (see numeric.KrigingDistance). The samples are
// referenced, not copied, and must not be modified afterwards.
//
// A covariance matrix whose pseudo-inverse fails to converge is logged and
// replaced by a zero inverse, which makes the corresponding weights vanish.
//
// Parameters:
//   - cases: Prepared samples, all of the same length
//   - nbOrd: Number of ordinal coordinates per sample
//   - opts: Options such as WithLogger
//
// Returns:
//   - *Data: The precomputation
//   - error: errs.ErrDimensionOutOfBounds for an empty sample set or an
//     invalid nbOrd, errs.ErrDimensionMismatch for samples of unequal length
func NewData(cases [][]float64, nbOrd int, opts ...Option) (*Data, error) {
	cfg := &Config{Logger: zap.NewNop()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if len(cases) == 0 {
		return nil, fmt.Errorf("kriging data for empty sample set: %w", errs.ErrDimensionOutOfBounds)
	}
	dim := len(cases[0])
	if nbOrd < 0 || nbOrd > dim {
		return nil, fmt.Errorf("%d ordinals for samples of size %d: %w", nbOrd, dim, errs.ErrDimensionOutOfBounds)
	}
	for i, c := range cases {
		if len(c) != dim {
			return nil, fmt.Errorf("sample %d of size %d, expected %d: %w", i, len(c), dim, errs.ErrDimensionMismatch)
		}
	}

	n := len(cases)
	d := &Data{
		cases:           cases,
		nbOrd:           nbOrd,
		globalCorLength: GlobalCorLength(nbOrd),
	}
	d.localCorLength = d.globalCorLength / localCorLengthRatio

	d.distances = mat.NewDense(n, n, nil)
	d.minDistance = math.Inf(1)
	for i := range n {
		for j := i + 1; j < n; j++ {
			dist := numeric.KrigingDistance(cases[i], cases[j], nbOrd)
			d.distances.Set(i, j, dist)
			d.distances.Set(j, i, dist)
			d.minDistance = min(d.minDistance, dist)
		}
	}
	if n < 2 {
		d.minDistance = 0
	}

	row0 := d.distances.RawRowView(0)
	for j, dist := range row0 {
		if dist > row0[d.refIdx] {
			d.refIdx = j
		}
	}

	d.globalInv = d.inverseCovariance(d.globalCorLength, "global", cfg.Logger)
	if d.minDistance < d.localCorLength {
		d.localInv = d.inverseCovariance(d.localCorLength, "local", cfg.Logger)
	}

	cfg.Logger.Debug("kriging data computed",
		zap.Int("samples", n),
		zap.Int("ordinals", nbOrd),
		zap.Float64("min_distance", d.minDistance),
		zap.Int("reference", d.refIdx),
		zap.Bool("local_identity", d.localInv == nil))

	return d, nil
}

func (d *Data) inverseCovariance(corLength float64, scale string, logger *zap.Logger) *mat.Dense {
	n := len(d.cases)
	cov := mat.NewSymDense(n, nil)
	for i := range n {
		cov.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			cov.SetSym(i, j, Covariance(d.distances.At(i, j), corLength))
		}
	}

	inv, err := numeric.PseudoInverse(cov)
	if err != nil {
		logger.Warn("kriging covariance inversion failed, using zero inverse",
			zap.String("scale", scale),
			zap.Int("samples", n),
			zap.Error(err))

		return inv
	}
	numeric.Symmetrize(inv)

	return inv
}

// Empty reports whether d holds no precomputation.
func (d *Data) Empty() bool {
	return d == nil || len(d.cases) == 0
}

// Size returns the number of samples.
func (d *Data) Size() int {
	if d == nil {
		return 0
	}

	return len(d.cases)
}

// NbOrdinals returns the number of ordinal coordinates per sample.
func (d *Data) NbOrdinals() int { return d.nbOrd }

// Cases returns the prepared samples. The result must not be modified.
func (d *Data) Cases() [][]float64 { return d.cases }

// GlobalCorLength returns the global correlation length.
func (d *Data) GlobalCorLength() float64 { return d.globalCorLength }

// LocalCorLength returns the local correlation length.
func (d *Data) LocalCorLength() float64 { return d.localCorLength }

// MinDistance returns the smallest distance between two samples, or 0 for
// fewer than two samples.
func (d *Data) MinDistance() float64 { return d.minDistance }

// ReferenceIndex returns the index of the sample farthest from sample 0.
func (d *Data) ReferenceIndex() int { return d.refIdx }

// Distance returns the precomputed distance between samples i and j.
func (d *Data) Distance(i, j int) float64 { return d.distances.At(i, j) }

// GlobalInverse returns the inverse global covariance matrix.
func (d *Data) GlobalInverse() mat.Matrix { return d.globalInv }

// LocalInverse returns the inverse local covariance matrix.
func (d *Data) LocalInverse() mat.Matrix {
	if d.localInv == nil {
		return identity(len(d.cases))
	}

	return d.localInv
}

func identity(n int) *mat.DiagDense {
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}

	return mat.NewDiagDense(n, ones)
}

// Save writes the precomputation, samples included.
func (d *Data) Save(w *codec.Writer) error {
	if d.Empty() {
		return fmt.Errorf("save empty kriging data: %w", errs.ErrInvalidState)
	}

	w.Version(format.CurrentVersion(format.KindKrigingData))
	w.Int(d.nbOrd)
	w.Float64Rows(d.cases)
	w.Float64(d.globalCorLength)
	w.Float64(d.localCorLength)
	w.Dense(d.distances)
	w.Float64(d.minDistance)
	w.Int(d.refIdx)
	w.Dense(d.globalInv)
	w.Bool(d.localInv == nil)
	if d.localInv != nil {
		w.Dense(d.localInv)
	}

	return nil
}

// Load reads a precomputation written by Save.
func (d *Data) Load(r *codec.Reader) error {
	r.Version(format.KindKrigingData)
	loaded := Data{
		nbOrd:           r.Int(),
		cases:           r.Float64Rows(),
		globalCorLength: r.Float64(),
		localCorLength:  r.Float64(),
		distances:       r.Dense(),
		minDistance:     r.Float64(),
		refIdx:          r.Int(),
		globalInv:       r.Dense(),
	}
	if localIdentity := r.Bool(); !localIdentity {
		loaded.localInv = r.Dense()
	}
	if err := r.Err(); err != nil {
		return err
	}

	n := len(loaded.cases)
	if n == 0 || !hasDims(loaded.distances, n) || !hasDims(loaded.globalInv, n) ||
		(loaded.localInv != nil && !hasDims(loaded.localInv, n)) ||
		loaded.refIdx < 0 || loaded.refIdx >= n ||
		loaded.nbOrd < 0 || loaded.nbOrd > len(loaded.cases[0]) {
		return fmt.Errorf("kriging data matrices do not match %d samples: %w", n, errs.ErrDimensionMismatch)
	}
	*d = loaded

	return nil
}

func hasDims(m *mat.Dense, n int) bool {
	if m == nil {
		return false
	}
	r, c := m.Dims()

	return r == n && c == n
}

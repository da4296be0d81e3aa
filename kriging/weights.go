package kriging

import (
	"fmt"
	"math"

	"github.com/arloliu/sumo/errs"
	"github.com/arloliu/sumo/internal/pool"
	"github.com/arloliu/sumo/numeric"
)

// WeightEpsilon is the smallest weight that is kept; smaller weights are
// treated as zero.
const WeightEpsilon = 1e-6

// Weights are the Kriging interpolation weights of one query point.
//
// Values has one entry per sample and is zero outside Indexes. Every kept
// weight is positive and Sum is their total.
type Weights struct {
	Values  []float64
	Indexes []int
	Sum     float64
}

// IsEmpty reports whether no sample carries weight.
func (w Weights) IsEmpty() bool {
	return len(w.Indexes) == 0
}

// finalize zeroes negative and negligible weights and records the indexes
// and the sum of the remaining ones.
func (w *Weights) finalize() {
	w.Indexes = w.Indexes[:0]
	w.Sum = 0
	for i, v := range w.Values {
		if v > WeightEpsilon {
			w.Indexes = append(w.Indexes, i)
			w.Sum += v
		} else {
			w.Values[i] = 0
		}
	}
}

func (d *Data) checkQuery(p []float64) error {
	if d.Empty() {
		return fmt.Errorf("kriging weights without data: %w", errs.ErrInvalidState)
	}
	if len(p) != len(d.cases[0]) {
		return fmt.Errorf("query of size %d, samples of size %d: %w", len(p), len(d.cases[0]), errs.ErrDimensionMismatch)
	}

	return nil
}

// GlobalWeights computes the weights of every sample for query point p at the
// global correlation length.
//
// The covariance between p and every sample is multiplied by the inverse
// global covariance matrix. Cost is O(n²) in the number of samples.
func (d *Data) GlobalWeights(p []float64) (Weights, error) {
	if err := d.checkQuery(p); err != nil {
		return Weights{}, err
	}

	n := len(d.cases)
	cov, release := pool.GetFloat64Slice(n)
	defer release()
	for i, c := range d.cases {
		cov[i] = Covariance(numeric.KrigingDistance(p, c, d.nbOrd), d.globalCorLength)
	}

	w := Weights{Values: make([]float64, n), Indexes: make([]int, 0, n)}
	for i := range n {
		row := d.globalInv.RawRowView(i)
		sum := 0.0
		for j, cj := range cov {
			if cj != 0 {
				sum += row[j] * cj
			}
		}
		w.Values[i] = sum
	}
	w.finalize()

	return w, nil
}

// LocalWeights computes the weights of the samples within the local
// correlation length of query point p.
//
// Samples that provably lie outside the local correlation length are pruned
// with the triangle inequality against the reference sample before their
// distance to p is computed. The remaining covariances are multiplied by the
// inverse local covariance matrix restricted to the retained samples; when
// the local covariance matrix is the identity the covariances are the weights.
func (d *Data) LocalWeights(p []float64) (Weights, error) {
	if err := d.checkQuery(p); err != nil {
		return Weights{}, err
	}

	n := len(d.cases)
	corLength := d.localCorLength
	refDist := numeric.KrigingDistance(p, d.cases[d.refIdx], d.nbOrd)

	cov, releaseCov := pool.GetFloat64Slice(n)
	defer releaseCov()
	retained, releaseIdx := pool.GetIntSlice(n)
	defer releaseIdx()

	for i, c := range d.cases {
		cov[i] = 0
		// |d(p, ref) - d(ref, i)| <= d(p, i)
		if math.Abs(refDist-d.distances.At(d.refIdx, i)) >= corLength {
			continue
		}
		if cv := Covariance(numeric.KrigingDistance(p, c, d.nbOrd), corLength); cv > 0 {
			cov[i] = cv
			retained = append(retained, i)
		}
	}

	w := Weights{Values: make([]float64, n), Indexes: make([]int, 0, len(retained))}
	if d.localInv == nil {
		for _, i := range retained {
			w.Values[i] = cov[i]
		}
	} else {
		for _, i := range retained {
			row := d.localInv.RawRowView(i)
			sum := 0.0
			for _, j := range retained {
				sum += row[j] * cov[j]
			}
			w.Values[i] = sum
		}
	}
	w.finalize()

	return w, nil
}

// Weights dispatches on the Kriging type. NoKriging yields empty weights.
func (d *Data) Weights(p []float64, kt Type) (Weights, error) {
	switch kt.Resolve() {
	case NoKriging:
		return Weights{}, nil
	case LocalKriging:
		return d.LocalWeights(p)
	case GlobalKriging:
		return d.GlobalWeights(p)
	default:
		return Weights{}, fmt.Errorf("kriging type %d: %w", kt, errs.ErrInvalidValue)
	}
}

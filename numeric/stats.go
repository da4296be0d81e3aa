package numeric

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MachineEpsilon returns the spacing between 1.0 and the next float64.
func MachineEpsilon() float64 {
	return math.Nextafter(1, 2) - 1
}

// IsEqualTo reports whether two values are equal within a relative tolerance of 1e-14.
func IsEqualTo(d1, d2 float64) bool {
	const relTol = 1e-14

	return math.Abs(d1-d2) <= relTol*(math.Abs(d1)+math.Abs(d2))
}

func scaleTolerance() float64 {
	return math.Sqrt(MachineEpsilon())
}

// VectorMean returns the arithmetic mean of v, or 0 for an empty vector.
func VectorMean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}

	return stat.Mean(v, nil)
}

// VectorStdDev returns the sample standard deviation of v around mean.
// Vectors with fewer than two elements have zero deviation.
func VectorStdDev(v []float64, mean float64) float64 {
	if len(v) < 2 {
		return 0
	}

	ss := 0.0
	for _, x := range v {
		ss += (x - mean) * (x - mean)
	}

	return math.Sqrt(ss / float64(len(v)-1))
}

// VectorMeanAndStdDev returns the mean and sample standard deviation of v.
//
// ok is false when the deviation is degenerate, that is smaller than
// sqrt(eps)·(1+|mean|), or when v is empty.
func VectorMeanAndStdDev(v []float64) (mean, stddev float64, ok bool) {
	if len(v) == 0 {
		return 0, 0, false
	}

	mean = VectorMean(v)
	stddev = VectorStdDev(v, mean)

	return mean, stddev, stddev >= scaleTolerance()*(1+math.Abs(mean))
}

// VectorScaleRobust standardizes v in place to zero mean and unit deviation.
//
// A degenerate deviation is replaced by 1 so only the mean is removed; the
// returned ok reports whether the deviation was usable.
func VectorScaleRobust(v []float64) (mean, stddev float64, ok bool) {
	mean, stddev, ok = VectorMeanAndStdDev(v)
	if !ok {
		stddev = 1
	}
	for i := range v {
		v[i] = (v[i] - mean) / stddev
	}

	return mean, stddev, ok
}

// VectorScaleToMean subtracts the mean from v in place and returns it.
func VectorScaleToMean(v []float64) float64 {
	mean := VectorMean(v)
	for i := range v {
		v[i] -= mean
	}

	return mean
}

// MatrixColumnMean returns the per-column mean of a row-major matrix.
func MatrixColumnMean(m [][]float64) []float64 {
	if len(m) == 0 {
		return nil
	}

	mean := make([]float64, len(m[0]))
	for _, row := range m {
		for j, x := range row {
			mean[j] += x
		}
	}
	for j := range mean {
		mean[j] /= float64(len(m))
	}

	return mean
}

// MatrixColumnMeanAndStdDev returns the per-column mean and sample standard deviation.
func MatrixColumnMeanAndStdDev(m [][]float64) (mean, stddev []float64) {
	mean = MatrixColumnMean(m)
	stddev = make([]float64, len(mean))
	if len(m) < 2 {
		return mean, stddev
	}

	for j := range mean {
		ss := 0.0
		for _, row := range m {
			d := row[j] - mean[j]
			ss += d * d
		}
		stddev[j] = math.Sqrt(ss / float64(len(m)-1))
	}

	return mean, stddev
}

// MatrixScaleRobust standardizes every column of m in place.
//
// Columns with a degenerate deviation are only centred. allOk is false if
// any column was degenerate.
func MatrixScaleRobust(m [][]float64) (mean, stddev []float64, allOk bool) {
	mean, stddev = MatrixColumnMeanAndStdDev(m)
	allOk = true
	tol := scaleTolerance()

	for j := range mean {
		ok := stddev[j] >= tol*(1+math.Abs(mean[j]))
		s := stddev[j]
		if !ok {
			s = 1
			allOk = false
		}
		for _, row := range m {
			row[j] = (row[j] - mean[j]) / s
		}
	}

	return mean, stddev, allOk
}

// MatrixScaleToMean centres every column of m in place and returns the column means.
func MatrixScaleToMean(m [][]float64) []float64 {
	mean := MatrixColumnMean(m)
	for _, row := range m {
		for j := range row {
			row[j] -= mean[j]
		}
	}

	return mean
}

// CalcRange returns max - min elementwise.
func CalcRange(minVals, maxVals []float64) []float64 {
	r := make([]float64, len(maxVals))
	for i := range maxVals {
		r[i] = maxVals[i] - minVals[i]
	}

	return r
}

// CalcMinStdDev returns eps·(max - min) elementwise, a floor for per-parameter deviations.
func CalcMinStdDev(minVals, maxVals []float64, eps float64) []float64 {
	r := CalcRange(minVals, maxVals)
	for i := range r {
		r[i] *= eps
	}

	return r
}

// CalcAverages returns the per-component average of a set of samples.
func CalcAverages(samples [][]float64) []float64 {
	return MatrixColumnMean(samples)
}

// CalcCovariances returns the population covariance matrix of samples around avg.
// Diagonal entries are floored at 1e-32.
func CalcCovariances(samples [][]float64, avg []float64) [][]float64 {
	if len(samples) == 0 {
		return nil
	}

	const minVariance = 1e-32
	size := len(avg)
	cov := make([][]float64, size)
	for i := range cov {
		cov[i] = make([]float64, size)
	}

	for _, s := range samples {
		for k := range size {
			for j := k; j < size; j++ {
				cov[j][k] += (s[j] - avg[j]) * (s[k] - avg[k])
			}
		}
	}

	n := float64(len(samples))
	for k := range size {
		for j := k; j < size; j++ {
			cov[j][k] /= n
			if j == k && math.Abs(cov[j][j]) < minVariance {
				cov[j][j] = minVariance
			}
			cov[k][j] = cov[j][k]
		}
	}

	return cov
}

// CriticalValue returns the two-sided Student-t critical value for df
// degrees of freedom at confidence level p, given in percent (e.g. 95).
//
// df is clamped to at least 1.
func CriticalValue(df int, p float64) float64 {
	if df < 1 {
		df = 1
	}
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}

	return t.Quantile(1 - (1-p/100)/2)
}

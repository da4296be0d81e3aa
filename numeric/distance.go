package numeric

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// KrigingDistance returns the distance between two prepared parameter vectors.
//
// The first l entries are ordinal coordinates; the remaining entries are
// binary dummies for categorical values. When any dummy differs by more than
// 0.5 the vectors belong to different categorical cells and the returned
// distance is 1 + 2·sqrt(l), which exceeds the largest correlation length so
// the pair gets zero covariance. Otherwise the Euclidean distance over the
// ordinal coordinates is returned.
func KrigingDistance(v1, v2 []float64, l int) float64 {
	if len(v1) == 0 {
		return 0
	}

	for i := l; i < len(v1); i++ {
		if math.Abs(v2[i]-v1[i]) > 0.5 {
			return 1.0 + 2*math.Sqrt(float64(l))
		}
	}

	return floats.Distance(v1[:l], v2[:l], 2)
}

// LengthOfDiffVector returns the Euclidean length of v2 - v1.
func LengthOfDiffVector(v1, v2 []float64) float64 {
	if len(v1) == 0 {
		return 0
	}

	return floats.Distance(v1, v2, 2)
}

// MeanSquaredError returns the mean of the squared element differences.
func MeanSquaredError(v1, v2 []float64) float64 {
	if len(v1) == 0 {
		return 0
	}

	d := floats.Distance(v1, v2, 2)

	return d * d / float64(len(v1))
}

// VectorL2Norm returns the Euclidean norm of v.
func VectorL2Norm(v []float64) float64 {
	return floats.Norm(v, 2)
}

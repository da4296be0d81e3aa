package regression

import "math"

// calculateRSquared calculates the coefficient of determination (R²).
//
// A constant observation vector yields 1 when it is reproduced exactly and 0
// otherwise.
//
// Parameters:
//   - observed: Observed values
//   - predicted: Predicted values, same length as observed
//
// Returns:
//   - float64: R² value, 1 for a perfect fit
func calculateRSquared(observed, predicted []float64) float64 {
	if len(observed) == 0 {
		return 0
	}

	mean := calculateMean(observed)
	ssTot := 0.0 // Total sum of squares
	for _, o := range observed {
		ssTot += (o - mean) * (o - mean)
	}
	ssRes := calculateSSRes(observed, predicted)

	if ssTot == 0 {
		if ssRes <= 1e-24*float64(len(observed))*(1+mean*mean) {
			return 1
		}

		return 0
	}

	return 1.0 - (ssRes / ssTot)
}

// calculateAdjustedRSquared corrects R² for p fitted terms over n samples.
// Without residual degrees of freedom R² is returned unchanged.
func calculateAdjustedRSquared(r2 float64, n, p int) float64 {
	if n <= p {
		return r2
	}

	return 1 - (1-r2)*float64(n-1)/float64(n-p)
}

// calculateSSRes calculates the residual sum of squares.
func calculateSSRes(observed, predicted []float64) float64 {
	ssRes := 0.0
	for i := range observed {
		diff := observed[i] - predicted[i]
		ssRes += diff * diff
	}

	return ssRes
}

// calculateRMSE calculates the root mean square error.
func calculateRMSE(observed, predicted []float64) float64 {
	if len(observed) == 0 {
		return 0
	}

	return math.Sqrt(calculateSSRes(observed, predicted) / float64(len(observed)))
}

// calculateMean calculates the arithmetic mean of values.
func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

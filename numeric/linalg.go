package numeric

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/arloliu/sumo/errs"
)

// PseudoInverse returns the Moore-Penrose pseudo-inverse of a.
//
// The inverse is computed from a thin singular value decomposition
// a = U·diag(w)·Vᵀ as V·diag(1/w)·Uᵀ. Singular values below
// max(rows, cols)·eps·max(w) are treated as zero, so rank deficient and
// fully degenerate matrices (e.g. all ones) are handled without failing.
//
// When the decomposition does not converge the returned matrix is all zeros
// (with the transposed shape) and the error wraps errs.ErrNotConverged.
// Callers that can live with a best effort result log the error and continue.
//
// Parameters:
//   - a: Matrix to invert, r×c with r, c > 0
//
// Returns:
//   - *mat.Dense: c×r pseudo-inverse
//   - error: errs.ErrNotConverged if the SVD failed
func PseudoInverse(a mat.Matrix) (*mat.Dense, error) {
	r, c := a.Dims()
	inv := mat.NewDense(c, r, nil)

	u, w, v, err := SVD(a)
	if err != nil {
		return inv, err
	}

	wmax := 0.0
	for _, s := range w {
		wmax = math.Max(wmax, s)
	}
	thresh := float64(max(r, c)) * MachineEpsilon() * wmax

	for k, s := range w {
		if s <= thresh {
			continue
		}
		f := 1.0 / s
		for i := range c {
			vik := v.At(i, k) * f
			if vik == 0 {
				continue
			}
			for j := range r {
				inv.Set(i, j, inv.At(i, j)+vik*u.At(j, k))
			}
		}
	}

	return inv, nil
}

// SVD computes the thin singular value decomposition a = U·diag(w)·Vᵀ.
//
// Singular values are returned in descending order.
func SVD(a mat.Matrix) (u *mat.Dense, w []float64, v *mat.Dense, err error) {
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, nil, nil, fmt.Errorf("singular value decomposition: %w", errs.ErrNotConverged)
	}

	u, v = &mat.Dense{}, &mat.Dense{}
	svd.UTo(u)
	svd.VTo(v)

	return u, svd.Values(nil), v, nil
}

// Rank returns the numerical rank of a, using the same singular value
// threshold as PseudoInverse.
func Rank(a mat.Matrix) (int, error) {
	r, c := a.Dims()
	_, w, _, err := SVD(a)
	if err != nil {
		return 0, err
	}
	if len(w) == 0 {
		return 0, nil
	}

	thresh := float64(max(r, c)) * MachineEpsilon() * w[0]
	rank := 0
	for _, s := range w {
		if s > thresh {
			rank++
		}
	}

	return rank, nil
}

// Solve solves the square system a·x = b with an LU decomposition using
// partial pivoting.
//
// Returns errs.ErrSingular when a is exactly singular. An ill-conditioned but
// non-singular system is solved without error.
func Solve(a mat.Matrix, b []float64) ([]float64, error) {
	r, c := a.Dims()
	if r != c {
		return nil, fmt.Errorf("solve: matrix %dx%d is not square: %w", r, c, errs.ErrDimensionMismatch)
	}
	if len(b) != r {
		return nil, fmt.Errorf("solve: rhs size %d, expected %d: %w", len(b), r, errs.ErrDimensionMismatch)
	}

	var lu mat.LU
	lu.Factorize(a)
	if math.IsInf(lu.Cond(), 1) || lu.Det() == 0 {
		return nil, fmt.Errorf("solve: %w", errs.ErrSingular)
	}

	var x mat.VecDense
	if err := lu.SolveVecTo(&x, false, mat.NewVecDense(r, append([]float64(nil), b...))); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("solve: %w", err)
		}
	}

	return x.RawVector().Data, nil
}

// Inverse returns the inverse of the square matrix a computed via LU.
//
// Returns errs.ErrSingular when a is exactly singular.
func Inverse(a mat.Matrix) (*mat.Dense, error) {
	r, c := a.Dims()
	if r != c {
		return nil, fmt.Errorf("inverse: matrix %dx%d is not square: %w", r, c, errs.ErrDimensionMismatch)
	}

	var lu mat.LU
	lu.Factorize(a)
	if math.IsInf(lu.Cond(), 1) || lu.Det() == 0 {
		return nil, fmt.Errorf("inverse: %w", errs.ErrSingular)
	}

	inv := mat.NewDense(r, r, nil)
	eye := mat.NewDiagDense(r, nil)
	for i := range r {
		eye.SetDiag(i, 1)
	}
	if err := lu.SolveTo(inv, false, eye); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("inverse: %w", err)
		}
	}

	return inv, nil
}

// Det returns the determinant of the square matrix a.
func Det(a mat.Matrix) float64 {
	return mat.Det(a)
}

// MatrixVectorProduct returns m·v.
//
// Returns errs.ErrDimensionOutOfBounds for an empty matrix and
// errs.ErrDimensionMismatch when the column count differs from len(v).
func MatrixVectorProduct(m [][]float64, v []float64) ([]float64, error) {
	if len(m) == 0 || len(m[0]) == 0 {
		return nil, fmt.Errorf("matrix vector product: empty matrix: %w", errs.ErrDimensionOutOfBounds)
	}
	if len(m[0]) != len(v) {
		return nil, fmt.Errorf("matrix vector product: %d columns, vector size %d: %w",
			len(m[0]), len(v), errs.ErrDimensionMismatch)
	}

	w := make([]float64, len(m))
	for i, row := range m {
		if len(row) != len(v) {
			return nil, fmt.Errorf("matrix vector product: row %d size %d: %w", i, len(row), errs.ErrDimensionMismatch)
		}
		for j, x := range row {
			w[i] += x * v[j]
		}
	}

	return w, nil
}

// Symmetrize replaces a square matrix with (a + aᵀ)/2 in place.
func Symmetrize(a *mat.Dense) {
	n, _ := a.Dims()
	for i := range n {
		for j := i + 1; j < n; j++ {
			avg := 0.5 * (a.At(i, j) + a.At(j, i))
			a.Set(i, j, avg)
			a.Set(j, i, avg)
		}
	}
}

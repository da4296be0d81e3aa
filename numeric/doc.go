// Package numeric is the numerical kernel of sumo.
//
// It wraps gonum for the dense linear algebra the surrogate models need
// (SVD based pseudo-inverse, LU solve, determinant) and adds the small
// statistics and distance helpers used by parameter scaling, Kriging and
// regression.
//
// All functions are pure and safe for concurrent use.
package numeric

// Package kriging implements the Kriging correction of sumo proxies.
//
// Data precomputes, for a fixed set of prepared samples, the pairwise
// distances and the inverse covariance matrices at two correlation lengths.
// The global length 2·sqrt(dim) spans the whole [-1, 1] hypercube of the dim
// ordinal coordinates; the local length is a sixth of it. Covariance decays
// linearly with distance and vanishes beyond the correlation length.
//
// For a query point, Data computes interpolation weights, and a Model applies
// them to the residuals of a polynomial fit:
//
//	data, err := kriging.NewData(prepared, nbOrd)
//	if err != nil {
//	    return err
//	}
//	w, err := data.Weights(query, kriging.GlobalKriging)
//	if err != nil {
//	    return err
//	}
//	correction := kriging.NewModel(residuals).Evaluate(w)
package kriging

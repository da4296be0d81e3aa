// Package proxy combines a polynomial response surface with a Kriging
// correction into a surrogate of one simulator output.
//
// A CompoundProxy is fitted from prepared samples: the polynomial is
// estimated on the samples with a valid output, and the residuals of that
// fit are interpolated by Kriging over all samples, invalid ones carrying a
// zero residual. Evaluation adds the polynomial value and, unless
// kriging.NoKriging is requested, the interpolated residual.
//
// A Collection owns the samples of a parameter space, prepares them once,
// shares one Kriging precomputation among all of its proxies and recomputes
// it only when the samples change.
//
// # Usage
//
//	c, err := proxy.NewCollection(space, cases,
//	    proxy.WithOrder(regression.OrderQuadratic),
//	    proxy.WithModelSearch(true),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := c.Calculate(targets, valid); err != nil {
//	    return err
//	}
//	values, err := c.Evaluate(query, kriging.LocalKriging)
//
// # Persistence
//
// CompoundProxy payloads are versioned. Version 0 holds the polynomial, the
// residuals, the validity flags and the targets; version 1 adds the adjusted
// R²; version 2 adds the prepared transforms, the leverages and the
// regression rank. All three are readable. A proxy payload never contains the
// Kriging data, which belongs to the owning Collection; a Collection payload
// contains both.
package proxy

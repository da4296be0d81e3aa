// Package param models parameter records and the transform pipeline between
// raw cases and the prepared vectors the surrogate models work on.
//
// A raw Case holds continuous, discrete and categorical parameters. A Space,
// configured with the Bounds of a representative case set, prepares a case by
// transforming and scaling its ordinal parameters to [-1, 1], dropping the
// parameters whose bounds coincide and expanding every categorical parameter
// into binary dummies. Unprepare reverses every step, so that
//
//	c2, _ := space.Unprepare(v) // where v, _ = space.Prepare(c)
//
// reproduces c up to floating point tolerance.
//
// Basic usage:
//
//	low := param.NewCase([]float64{0, -5}, nil, nil)
//	high := param.NewCase([]float64{10, 5}, nil, nil)
//	space, err := param.NewSpace(low, high, nil)
//	if err != nil {
//	    return err
//	}
//	bounds, _ := param.NewBounds(low, high, nil)
//	if err := space.SetBounds(bounds); err != nil {
//	    return err
//	}
//	v, err := space.Prepare(param.NewCase([]float64{5, 0}, nil, nil)) // [0, 0]
package param

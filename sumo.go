// Package sumo builds cheap-to-evaluate surrogate models ("proxies") of an
// expensive simulator.
//
// A proxy is fitted from sampled parameter cases and the simulator outputs at
// those cases: a low-order polynomial response surface, optionally corrected
// by a Kriging interpolation of its residuals.
//
// # Core Features
//
//   - Mixed parameter spaces: continuous, discrete and categorical parameters
//   - Monotone transforms of continuous parameters (log10, sqrt, ...)
//   - Least squares polynomial fit with optional term search
//   - Local and global Kriging corrections sharing one precomputation
//   - Versioned binary persistence with optional compression
//
// # Basic Usage
//
// Fitting and evaluating proxies:
//
//	import "github.com/arloliu/sumo"
//
//	// Two continuous parameters, no categoricals
//	space, _ := sumo.NewSpace(cases, nil)
//
//	// One proxy per output; valid flags the cases with a usable value
//	c, _ := sumo.NewCollection(space, cases)
//	_ = c.Calculate(targets, valid)
//
//	values, _ := c.Evaluate(query, kriging.LocalKriging)
//
// Saving and loading:
//
//	data, _ := sumo.MarshalCollection(c)
//	loaded, _ := sumo.UnmarshalCollection(data)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the param,
// proxy and codec packages, simplifying the most common use cases. For
// fine-grained control, use those packages directly.
package sumo

import (
	"fmt"

	"github.com/arloliu/sumo/codec"
	"github.com/arloliu/sumo/errs"
	"github.com/arloliu/sumo/format"
	"github.com/arloliu/sumo/param"
	"github.com/arloliu/sumo/proxy"
)

var defaultCodecOptions = []codec.Option{
	codec.WithCompression(format.CompressionS2),
}

// NewSpace creates a parameter space bounded by cases.
//
// The original ranges of the categorical parameters are taken from the cases
// themselves: categorical i owns one dummy slot per value up to the largest
// value observed. Use param.NewSpace when the original ranges are wider than
// the sampled ones.
//
// Parameters:
//   - cases: Sampled cases, all comparable
//   - tr: One transform per continuous parameter, or nil
//
// Returns:
//   - *param.Space: The configured space
//   - error: errs.ErrDimensionOutOfBounds without cases, or a space error
//
// Example:
//
//	space, err := sumo.NewSpace(cases, []param.TransformType{param.TransformLog10, param.TransformNone})
func NewSpace(cases []param.Case, tr []param.TransformType) (*param.Space, error) {
	bounds, err := param.BoundsFromCases(cases)
	if err != nil {
		return nil, err
	}

	origLow := bounds.Low().Clone()
	origHigh := bounds.High().Clone()
	for i := range origLow.Categorical {
		origLow.Categorical[i] = 0
	}

	space, err := param.NewSpace(origLow, origHigh, tr)
	if err != nil {
		return nil, err
	}
	if err := space.SetBounds(bounds); err != nil {
		return nil, err
	}

	return space, nil
}

// NewCollection creates a proxy collection over cases.
//
// The options are applied to every Calculate of the collection. Without
// options, proxies use linear terms and no term search.
//
// Example:
//
//	c, err := sumo.NewCollection(space, cases,
//	    proxy.WithOrder(regression.OrderQuadratic),
//	    proxy.WithModelSearch(true),
//	)
func NewCollection(space *param.Space, cases []param.Case, opts ...proxy.Option) (*proxy.Collection, error) {
	return proxy.NewCollection(space, cases, opts...)
}

// MarshalCollection serializes a collection with S2 compression unless opts
// say otherwise.
func MarshalCollection(c *proxy.Collection, opts ...codec.Option) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("marshal nil collection: %w", errs.ErrInvalidState)
	}
	allOpts := append(append([]codec.Option{}, defaultCodecOptions...), opts...)

	return codec.Marshal(format.KindCollection, c, allOpts...)
}

// UnmarshalCollection deserializes a collection written by MarshalCollection.
// Any supported compression and byte order is accepted.
func UnmarshalCollection(data []byte) (*proxy.Collection, error) {
	c := &proxy.Collection{}
	if err := codec.Unmarshal(data, format.KindCollection, c); err != nil {
		return nil, err
	}

	return c, nil
}

// MarshalProxy serializes a single proxy, without its Kriging data.
func MarshalProxy(p *proxy.CompoundProxy, opts ...codec.Option) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("marshal nil proxy: %w", errs.ErrInvalidState)
	}
	allOpts := append(append([]codec.Option{}, defaultCodecOptions...), opts...)

	return codec.Marshal(format.KindCompoundProxy, p, allOpts...)
}

// UnmarshalProxy deserializes a proxy written by MarshalProxy. The proxy
// evaluates its polynomial right away; Kriging corrections need
// CompoundProxy.AttachKrigingData.
func UnmarshalProxy(data []byte) (*proxy.CompoundProxy, error) {
	p := &proxy.CompoundProxy{}
	if err := codec.Unmarshal(data, format.KindCompoundProxy, p); err != nil {
		return nil, err
	}

	return p, nil
}

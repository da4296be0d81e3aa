package proxy

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/sumo/codec"
	"github.com/arloliu/sumo/errs"
	"github.com/arloliu/sumo/format"
	"github.com/arloliu/sumo/internal/hash"
	"github.com/arloliu/sumo/internal/options"
	"github.com/arloliu/sumo/kriging"
	"github.com/arloliu/sumo/param"
	"github.com/arloliu/sumo/regression"
)

// Collection holds one CompoundProxy per output over a shared sample set.
//
// The collection owns the prepared samples and their Kriging precomputation;
// its proxies borrow the latter. The precomputation is built on the first
// Calculate and rebuilt only when the sample set changes. Calculate replaces
// the proxy list wholesale, so evaluation never observes a partial update.
// Calculate and SetCases must not run concurrently with other methods;
// evaluation is safe for concurrent use.
type Collection struct {
	space    *param.Space
	prepared [][]float64

	data            *kriging.Data
	dataFingerprint uint64

	proxies []*CompoundProxy
	opts    []Option
	logger  *zap.Logger
}

// NewCollection prepares cases in space. opts are applied to every
// Calculate before the options passed there.
//
// Returns errs.ErrInvalidState for an unconfigured space and the Prepare
// errors of the cases.
func NewCollection(space *param.Space, cases []param.Case, opts ...Option) (*Collection, error) {
	if space == nil || !space.IsConfigured() {
		return nil, fmt.Errorf("collection without configured space: %w", errs.ErrInvalidState)
	}

	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	c := &Collection{space: space, opts: opts, logger: cfg.Logger}
	if err := c.SetCases(cases); err != nil {
		return nil, err
	}

	return c, nil
}

// SetCases replaces the sample set. Existing proxies are dropped; the Kriging
// precomputation is rebuilt by the next Calculate if the prepared samples
// differ.
func (c *Collection) SetCases(cases []param.Case) error {
	prepared, err := c.space.PrepareSet(cases)
	if err != nil {
		return err
	}
	c.prepared = prepared
	c.proxies = nil

	return nil
}

// ensureKrigingData computes the Kriging precomputation unless it already
// covers the current samples.
func (c *Collection) ensureKrigingData() error {
	fp := hash.Float64Rows(c.prepared)
	if !c.data.Empty() && fp == c.dataFingerprint {
		return nil
	}

	data, err := kriging.NewData(c.prepared, c.space.NbOfNonFixedOrdinalPars(), kriging.WithLogger(c.logger))
	if err != nil {
		return err
	}
	c.data = data
	c.dataFingerprint = fp
	c.logger.Debug("kriging data recomputed",
		zap.Int("samples", len(c.prepared)),
		zap.Uint64("fingerprint", fp))

	return nil
}

// Calculate fits one proxy per output.
//
// valid[t] flags the samples with a usable value of output t and targets[t]
// holds the values of those samples, in sample order.
//
// Returns errs.ErrDimensionMismatch when the number of masks differs from the
// number of outputs, a mask does not cover the samples, or an output has the
// wrong number of values; errs.ErrDimensionOutOfBounds without samples; or a
// fit error. On error the previous proxies are kept.
func (c *Collection) Calculate(targets [][]float64, valid [][]bool, opts ...Option) error {
	if len(valid) != len(targets) {
		return fmt.Errorf("%d validity masks for %d outputs: %w", len(valid), len(targets), errs.ErrDimensionMismatch)
	}
	for t := range targets {
		if len(valid[t]) != len(c.prepared) {
			return fmt.Errorf("output %d: %d validity flags for %d samples: %w", t, len(valid[t]), len(c.prepared), errs.ErrDimensionMismatch)
		}
		if n := countValid(valid[t]); n != len(targets[t]) {
			return fmt.Errorf("output %d: %d values for %d valid samples: %w", t, len(targets[t]), n, errs.ErrDimensionMismatch)
		}
	}
	if len(c.prepared) == 0 {
		return fmt.Errorf("calculate without samples: %w", errs.ErrDimensionOutOfBounds)
	}

	if err := c.ensureKrigingData(); err != nil {
		return err
	}

	merged := options.Merge(c.opts, opts)
	proxies := make([]*CompoundProxy, len(targets))
	for t := range targets {
		p, err := NewCompoundProxy(c.data, c.prepared, valid[t], targets[t], merged...)
		if err != nil {
			return fmt.Errorf("output %d: %w", t, err)
		}
		proxies[t] = p
	}
	c.proxies = proxies

	return nil
}

// Space returns the parameter space.
func (c *Collection) Space() *param.Space { return c.space }

// PreparedCases returns the prepared samples. The result must not be modified.
func (c *Collection) PreparedCases() [][]float64 { return c.prepared }

// KrigingData returns the Kriging precomputation, or nil before the first
// Calculate.
func (c *Collection) KrigingData() *kriging.Data { return c.data }

// Size returns the number of outputs.
func (c *Collection) Size() int { return len(c.proxies) }

// Proxy returns the proxy of output t.
func (c *Collection) Proxy(t int) (*CompoundProxy, error) {
	if t < 0 || t >= len(c.proxies) {
		return nil, fmt.Errorf("output %d of %d: %w", t, len(c.proxies), errs.ErrDimensionOutOfBounds)
	}

	return c.proxies[t], nil
}

// Evaluate prepares case pc and returns the value of every output.
func (c *Collection) Evaluate(pc param.Case, kt kriging.Type) ([]float64, error) {
	x, err := c.space.Prepare(pc)
	if err != nil {
		return nil, err
	}

	return c.EvaluatePrepared(x, kt)
}

// EvaluatePrepared returns the value of every output at prepared query x.
// The Kriging weights are computed once and shared by all outputs.
func (c *Collection) EvaluatePrepared(x []float64, kt kriging.Type) ([]float64, error) {
	if len(c.proxies) == 0 {
		return nil, fmt.Errorf("evaluate before calculate: %w", errs.ErrInvalidState)
	}

	w, err := c.proxies[0].KrigingWeights(x, kt)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(c.proxies))
	for t, p := range c.proxies {
		if values[t], err = p.EvaluateWithWeights(w, x, kt); err != nil {
			return nil, fmt.Errorf("output %d: %w", t, err)
		}
	}

	return values, nil
}

// CoefficientsMap returns the polynomial terms of output t with variable
// indexes in the raw expanded proxy space: every raw ordinal, then one slot
// per original dummy of every categorical, fixed parameters included.
func (c *Collection) CoefficientsMap(t int) ([]regression.Term, error) {
	p, err := c.Proxy(t)
	if err != nil {
		return nil, err
	}

	terms := p.CoefficientsMap()
	for i := range terms {
		if terms[i].Vars, err = c.space.ConvertToOrigProxyIdx(terms[i].Vars); err != nil {
			return nil, err
		}
	}

	return terms, nil
}

// Save writes the space, the prepared samples, the Kriging data and the
// proxies.
func (c *Collection) Save(w *codec.Writer) error {
	if c.space == nil {
		return fmt.Errorf("save collection without parameter space: %w", errs.ErrInvalidState)
	}
	w.Version(format.CurrentVersion(format.KindCollection))
	if err := c.space.Save(w); err != nil {
		return err
	}
	w.Float64Rows(c.prepared)
	if err := w.Object(c.data, !c.data.Empty()); err != nil {
		return err
	}
	w.Len32(len(c.proxies))
	for _, p := range c.proxies {
		if err := p.Save(w); err != nil {
			return err
		}
	}

	return nil
}

// Load reads a collection written by Save and lends the loaded Kriging data
// to the loaded proxies.
func (c *Collection) Load(r *codec.Reader) error {
	r.Version(format.KindCollection)
	space := &param.Space{}
	if err := space.Load(r); err != nil {
		r.Fail(err)
	}
	prepared := r.Float64Rows()

	var data *kriging.Data
	loadedData := &kriging.Data{}
	if r.Object(loadedData) {
		data = loadedData
	}

	n := r.Len32(1)
	proxies := make([]*CompoundProxy, 0, n)
	for range n {
		p := &CompoundProxy{}
		if err := p.Load(r); err != nil {
			r.Fail(err)
			break
		}
		proxies = append(proxies, p)
	}
	if err := r.Err(); err != nil {
		return err
	}

	if len(proxies) > 0 && data == nil {
		return fmt.Errorf("collection proxies without kriging data: %w", errs.ErrInvalidState)
	}
	for t, p := range proxies {
		if err := p.AttachKrigingData(data); err != nil {
			return fmt.Errorf("output %d: %w", t, err)
		}
	}

	c.space = space
	c.prepared = prepared
	c.data = data
	c.dataFingerprint = 0
	if data != nil {
		c.dataFingerprint = hash.Float64Rows(data.Cases())
	}
	c.proxies = proxies
	if c.logger == nil {
		c.logger = zap.NewNop()
	}

	return nil
}

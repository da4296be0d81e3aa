package proxy

import (
	"fmt"

	"github.com/arloliu/sumo/codec"
	"github.com/arloliu/sumo/errs"
	"github.com/arloliu/sumo/format"
	"github.com/arloliu/sumo/kriging"
	"github.com/arloliu/sumo/param"
	"github.com/arloliu/sumo/regression"
)

// Payload versions of CompoundProxy.
const (
	// compoundV0 holds the polynomial, the residuals, the validity flags and
	// the targets.
	compoundV0 format.Version = 0
	// compoundV1 adds the adjusted R².
	compoundV1 format.Version = 1
	// compoundV2 adds the prepared transforms, the leverages and the
	// regression rank.
	compoundV2 format.Version = 2
)

// compoundDecoders decodes every supported payload version into the current
// in-memory shape.
var compoundDecoders = map[format.Version]func(p *CompoundProxy, r *codec.Reader){
	compoundV0: decodeCompoundV0,
	compoundV1: decodeCompoundV1,
	compoundV2: decodeCompoundV2,
}

// Save writes the proxy in the current payload version. The Kriging data is
// not included.
func (p *CompoundProxy) Save(w *codec.Writer) error {
	w.Version(format.CurrentVersion(format.KindCompoundProxy))
	w.Int(p.size)
	if err := w.Object(p.polynomial, p.polynomial != nil); err != nil {
		return err
	}
	if err := p.residuals.Save(w); err != nil {
		return err
	}
	w.Bools(p.caseValid)
	w.Float64s(p.targets)

	w.Float64(p.adjustedR2)

	transforms := p.transforms
	if transforms == nil {
		transforms = &param.PreparedTransforms{}
	}
	if err := transforms.Save(w); err != nil {
		return err
	}
	w.Float64s(p.leverages)
	w.Int(p.rank)
	w.Bool(p.illPosed)

	return nil
}

// Load reads a proxy of any supported payload version. The loaded proxy
// evaluates its polynomial right away; Kriging corrections require
// AttachKrigingData.
func (p *CompoundProxy) Load(r *codec.Reader) error {
	v := r.Version(format.KindCompoundProxy)
	if err := r.Err(); err != nil {
		return err
	}
	decode, ok := compoundDecoders[v]
	if !ok {
		return fmt.Errorf("compound proxy version %d: %w", v, errs.ErrUnsupportedVersion)
	}

	var loaded CompoundProxy
	decode(&loaded, r)
	if err := r.Err(); err != nil {
		return err
	}
	if err := loaded.validate(); err != nil {
		return err
	}
	*p = loaded

	return nil
}

func decodeCompoundV0(p *CompoundProxy, r *codec.Reader) {
	p.size = r.Int()

	poly := &regression.Polynomial{}
	if r.Object(poly) {
		p.polynomial = poly
	}

	p.residuals = &kriging.Model{}
	if err := p.residuals.Load(r); err != nil {
		r.Fail(err)
	}
	p.caseValid = r.Bools()
	p.targets = r.Float64s()

	p.adjustedR2 = noAdjustedR2
	p.transforms = &param.PreparedTransforms{}
	if p.polynomial != nil {
		p.rank = p.polynomial.Size()
	}
}

func decodeCompoundV1(p *CompoundProxy, r *codec.Reader) {
	decodeCompoundV0(p, r)
	p.adjustedR2 = r.Float64()
}

func decodeCompoundV2(p *CompoundProxy, r *codec.Reader) {
	decodeCompoundV1(p, r)

	p.transforms = &param.PreparedTransforms{}
	if err := p.transforms.Load(r); err != nil {
		r.Fail(err)
	}
	p.leverages = r.Float64s()
	p.rank = r.Int()
	p.illPosed = r.Bool()
}

// validate checks the consistency of a decoded proxy.
func (p *CompoundProxy) validate() error {
	if p.residuals.Size() != len(p.caseValid) {
		return fmt.Errorf("%d residuals for %d samples: %w", p.residuals.Size(), len(p.caseValid), errs.ErrDimensionMismatch)
	}
	nbValid := countValid(p.caseValid)
	if nbValid != len(p.targets) {
		return fmt.Errorf("%d targets for %d valid samples: %w", len(p.targets), nbValid, errs.ErrDimensionMismatch)
	}
	if len(p.leverages) != 0 && len(p.leverages) != nbValid {
		return fmt.Errorf("%d leverages for %d valid samples: %w", len(p.leverages), nbValid, errs.ErrDimensionMismatch)
	}
	if p.polynomial != nil && p.polynomial.NbVars() > p.size {
		return fmt.Errorf("polynomial over %d variables for proxy of size %d: %w", p.polynomial.NbVars(), p.size, errs.ErrDimensionMismatch)
	}

	return nil
}

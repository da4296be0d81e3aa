package regression

import (
	"fmt"
	"slices"
	"strings"

	"github.com/arloliu/sumo/codec"
	"github.com/arloliu/sumo/errs"
	"github.com/arloliu/sumo/format"
)

// Term is one monomial of a fitted polynomial with its coefficient and the
// standard error of the coefficient.
type Term struct {
	Vars        []int
	Coefficient float64
	StdError    float64
}

// Polynomial is a fitted linear combination of monomials.
//
// A Polynomial is immutable once created and safe for concurrent use.
type Polynomial struct {
	monomials    []Monomial
	coefficients []float64
	stdErrors    []float64
}

// NewPolynomial creates a polynomial from its terms. stdErrors may be nil,
// in which case all standard errors are zero. The slices are copied.
//
// Returns:
//   - *Polynomial: The polynomial
//   - error: errs.ErrDimensionMismatch when the slice lengths differ, or
//     errs.ErrInvalidValue for a monomial with unsorted or negative indexes
func NewPolynomial(monomials []Monomial, coefficients, stdErrors []float64) (*Polynomial, error) {
	if len(coefficients) != len(monomials) {
		return nil, fmt.Errorf("%d coefficients for %d monomials: %w", len(coefficients), len(monomials), errs.ErrDimensionMismatch)
	}
	if stdErrors == nil {
		stdErrors = make([]float64, len(monomials))
	}
	if len(stdErrors) != len(monomials) {
		return nil, fmt.Errorf("%d standard errors for %d monomials: %w", len(stdErrors), len(monomials), errs.ErrDimensionMismatch)
	}

	p := &Polynomial{
		monomials:    make([]Monomial, len(monomials)),
		coefficients: slices.Clone(coefficients),
		stdErrors:    slices.Clone(stdErrors),
	}
	for i, m := range monomials {
		if !slices.IsSorted(m) || (len(m) > 0 && m[0] < 0) {
			return nil, fmt.Errorf("monomial %v: %w", []int(m), errs.ErrInvalidValue)
		}
		p.monomials[i] = slices.Clone(m)
	}

	return p, nil
}

// Size returns the number of terms.
func (p *Polynomial) Size() int { return len(p.monomials) }

// Monomials returns the terms. The result must not be modified.
func (p *Polynomial) Monomials() []Monomial { return p.monomials }

// Coefficients returns the coefficients. The result must not be modified.
func (p *Polynomial) Coefficients() []float64 { return p.coefficients }

// StdErrors returns the standard errors of the coefficients.
func (p *Polynomial) StdErrors() []float64 { return p.stdErrors }

// NbVars returns the smallest vector size Evaluate accepts.
func (p *Polynomial) NbVars() int {
	n := 0
	for _, m := range p.monomials {
		n = max(n, m.maxVar()+1)
	}

	return n
}

// Evaluate returns the polynomial value at x. x must hold at least NbVars
// entries.
func (p *Polynomial) Evaluate(x []float64) float64 {
	v := 0.0
	for i, m := range p.monomials {
		v += p.coefficients[i] * m.Evaluate(x)
	}

	return v
}

// Terms returns a copy of the terms with coefficients and standard errors.
func (p *Polynomial) Terms() []Term {
	terms := make([]Term, len(p.monomials))
	for i, m := range p.monomials {
		terms[i] = Term{
			Vars:        slices.Clone([]int(m)),
			Coefficient: p.coefficients[i],
			StdError:    p.stdErrors[i],
		}
	}

	return terms
}

// String renders the polynomial as "c0 + c1*x0 + ...".
func (p *Polynomial) String() string {
	var sb strings.Builder
	for i, m := range p.monomials {
		if i > 0 {
			sb.WriteString(" + ")
		}
		fmt.Fprintf(&sb, "%.4g", p.coefficients[i])
		if !m.IsIntercept() {
			sb.WriteByte('*')
			sb.WriteString(m.String())
		}
	}

	return sb.String()
}

// Save writes the polynomial terms.
func (p *Polynomial) Save(w *codec.Writer) error {
	w.Version(format.CurrentVersion(format.KindPolynomial))
	w.Len32(len(p.monomials))
	for _, m := range p.monomials {
		w.Ints(m)
	}
	w.Float64s(p.coefficients)
	w.Float64s(p.stdErrors)

	return nil
}

// Load reads polynomial terms written by Save.
func (p *Polynomial) Load(r *codec.Reader) error {
	r.Version(format.KindPolynomial)
	n := r.Len32(4)
	monomials := make([]Monomial, 0, n)
	for range n {
		monomials = append(monomials, Monomial(r.Ints()))
	}
	coefficients := r.Float64s()
	stdErrors := r.Float64s()
	if err := r.Err(); err != nil {
		return err
	}

	loaded, err := NewPolynomial(monomials, coefficients, stdErrors)
	if err != nil {
		return err
	}
	*p = *loaded

	return nil
}

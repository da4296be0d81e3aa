package regression

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/arloliu/sumo/errs"
)

// Order selects the initial set of polynomial terms.
type Order int

const (
	// OrderIntercept starts from the intercept and the dummy parameters.
	OrderIntercept Order = 0
	// OrderLinear adds the linear ordinal terms and their interactions with
	// the dummies.
	OrderLinear Order = 1
	// OrderQuadratic adds every product of two ordinals.
	OrderQuadratic Order = 2
	// OrderPureQuadratic adds the squares of the ordinals but no ordinal
	// interactions.
	OrderPureQuadratic Order = 9
)

// orderNames maps Order to their string representations.
var orderNames = map[Order]string{
	OrderIntercept:     "intercept",
	OrderLinear:        "linear",
	OrderQuadratic:     "quadratic",
	OrderPureQuadratic: "pure-quadratic",
}

// String returns the string representation of the order.
func (o Order) String() string {
	if name, exists := orderNames[o]; exists {
		return name
	}

	return "unknown"
}

// IsValid reports whether o is one of the supported orders.
func (o Order) IsValid() bool {
	_, exists := orderNames[o]
	return exists
}

// orderFromString maps string names to Order.
var orderFromString = map[string]Order{
	"intercept":      OrderIntercept,
	"linear":         OrderLinear,
	"quadratic":      OrderQuadratic,
	"pure-quadratic": OrderPureQuadratic,
}

// OrderFromString returns the Order for a given string name.
// Returns Order(-1) for unknown names.
func OrderFromString(name string) Order {
	if order, exists := orderFromString[strings.ToLower(name)]; exists {
		return order
	}

	return Order(-1)
}

// Monomial is a product of variables, given by their indexes in ascending
// order. A variable occurs twice in a square. The empty monomial is the
// intercept.
type Monomial []int

// Degree returns the number of factors.
func (m Monomial) Degree() int { return len(m) }

// IsIntercept reports whether m is the constant term.
func (m Monomial) IsIntercept() bool { return len(m) == 0 }

// Evaluate returns the product of the variables of m in x.
func (m Monomial) Evaluate(x []float64) float64 {
	v := 1.0
	for _, i := range m {
		v *= x[i]
	}

	return v
}

// Equal reports whether m and other are the same product.
func (m Monomial) Equal(other Monomial) bool {
	return slices.Equal(m, other)
}

// String renders m as "1", "x0" or "x0*x2".
func (m Monomial) String() string {
	if len(m) == 0 {
		return "1"
	}

	var sb strings.Builder
	for k, i := range m {
		if k > 0 {
			sb.WriteByte('*')
		}
		sb.WriteByte('x')
		sb.WriteString(strconv.Itoa(i))
	}

	return sb.String()
}

// maxVar returns the largest variable index of m, or -1 for the intercept.
func (m Monomial) maxVar() int {
	if len(m) == 0 {
		return -1
	}

	return m[len(m)-1]
}

// InitialMonomials returns the starting term list of a regression over
// nbPars variables, the first nbOrd of which are ordinals and the rest
// categorical dummies.
//
// The list always starts with the intercept. Dummies always enter linearly,
// acting as per-category intercepts. The order then adds:
//   - OrderLinear: linear ordinals and ordinal×dummy products
//   - OrderQuadratic: the above plus every ordinal×ordinal product
//   - OrderPureQuadratic: the above but only squares of ordinals
//
// Products of two dummies are never included. Variables outside the partition
// are left out; a nil partition includes every variable.
//
// Parameters:
//   - nbPars: Number of variables
//   - nbOrd: Number of leading ordinal variables
//   - order: Initial model order
//   - partition: Per-variable inclusion flags, or nil
//
// Returns:
//   - []Monomial: The initial terms, by ascending degree
//   - error: errs.ErrInvalidValue for an unsupported order,
//     errs.ErrDimensionOutOfBounds when nbOrd exceeds nbPars, or
//     errs.ErrDimensionMismatch for a partition of the wrong length
func InitialMonomials(nbPars, nbOrd int, order Order, partition []bool) ([]Monomial, error) {
	if !order.IsValid() {
		return nil, fmt.Errorf("initial monomials of order %d: %w", order, errs.ErrInvalidValue)
	}
	if nbOrd < 0 || nbOrd > nbPars {
		return nil, fmt.Errorf("%d ordinals among %d variables: %w", nbOrd, nbPars, errs.ErrDimensionOutOfBounds)
	}
	if partition != nil && len(partition) != nbPars {
		return nil, fmt.Errorf("partition of size %d for %d variables: %w", len(partition), nbPars, errs.ErrDimensionMismatch)
	}
	in := func(i int) bool { return partition == nil || partition[i] }

	terms := []Monomial{{}}
	for j := range nbPars {
		if in(j) && (order != OrderIntercept || j >= nbOrd) {
			terms = append(terms, Monomial{j})
		}
	}
	if nbOrd == 0 {
		return terms, nil
	}

	for j := range nbPars {
		for k := j; k < nbPars; k++ {
			if in(j) && in(k) && validProduct(order, nbOrd, j, k) {
				terms = append(terms, Monomial{j, k})
			}
		}
	}

	return terms, nil
}

// validProduct reports whether the product of variables j <= k belongs to
// the initial terms of the given order.
func validProduct(order Order, nbOrd, j, k int) bool {
	jOrd, kOrd := j < nbOrd, k < nbOrd
	switch {
	case !jOrd && !kOrd:
		return false
	case jOrd && !kOrd:
		return order != OrderIntercept
	case j == k:
		return order == OrderQuadratic || order == OrderPureQuadratic
	default:
		return order == OrderQuadratic
	}
}

package kriging

import (
	"slices"

	"github.com/arloliu/sumo/codec"
	"github.com/arloliu/sumo/format"
)

// Model interpolates a residual field with Kriging weights.
type Model struct {
	residuals []float64
}

// NewModel creates a model over one residual per sample. The slice is copied.
func NewModel(residuals []float64) *Model {
	return &Model{residuals: slices.Clone(residuals)}
}

// Residuals returns the residual field. The result must not be modified.
func (m *Model) Residuals() []float64 { return m.residuals }

// Size returns the number of residuals.
func (m *Model) Size() int { return len(m.residuals) }

// Evaluate returns the weighted sum of the residuals. When the weights sum to
// more than 1 the result is divided by the sum.
func (m *Model) Evaluate(w Weights) float64 {
	value := 0.0
	for _, i := range w.Indexes {
		if i < len(m.residuals) {
			value += w.Values[i] * m.residuals[i]
		}
	}
	if w.Sum > 1 {
		value /= w.Sum
	}

	return value
}

// Save writes the residual field.
func (m *Model) Save(w *codec.Writer) error {
	w.Version(format.CurrentVersion(format.KindKrigingModel))
	w.Float64s(m.residuals)

	return nil
}

// Load reads a residual field written by Save.
func (m *Model) Load(r *codec.Reader) error {
	r.Version(format.KindKrigingModel)
	m.residuals = r.Float64s()

	return r.Err()
}

package param

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/sumo/codec"
	"github.com/arloliu/sumo/endian"
	"github.com/arloliu/sumo/errs"
)

func TestNewBounds(t *testing.T) {
	low := NewCase([]float64{0, 1}, []int{2}, []uint{0, 1})
	high := NewCase([]float64{10, 1}, []int{5}, []uint{5, 1})

	b, err := NewBounds(low, high, [][]uint{{5, 0, 2, 2}, {1}})
	require.NoError(t, err)
	require.Equal(t, []uint{0, 2, 5}, b.CatValues(0))
	require.Equal(t, []uint{1}, b.CatValues(1))
	require.Equal(t, 10.0, b.RangeOrd(0))

	require.False(t, b.IsFixed(0))
	require.True(t, b.IsFixed(1))
	require.False(t, b.IsFixed(2))
	require.False(t, b.IsFixed(3))
	require.True(t, b.IsFixed(4))

	require.True(t, b.Contains(NewCase([]float64{3, 1}, []int{4}, []uint{2, 1})))
	require.False(t, b.Contains(NewCase([]float64{3, 1}, []int{4}, []uint{3, 1})))
	require.False(t, b.Contains(NewCase([]float64{11, 1}, []int{4}, []uint{2, 1})))
}

func TestNewBoundsDefaultCatValues(t *testing.T) {
	b, err := NewBounds(NewCase(nil, nil, []uint{1}), NewCase(nil, nil, []uint{3}), nil)
	require.NoError(t, err)
	require.Equal(t, []uint{1, 2, 3}, b.CatValues(0))

	b, err = NewBounds(NewCase(nil, nil, []uint{math.MaxUint - 1}), NewCase(nil, nil, []uint{math.MaxUint}), nil)
	require.NoError(t, err)
	require.Equal(t, []uint{math.MaxUint - 1, math.MaxUint}, b.CatValues(0))

	b, err = NewBounds(NewCase(nil, nil, []uint{0}), NewCase(nil, nil, []uint{math.MaxUint}), [][]uint{{0, math.MaxUint}})
	require.NoError(t, err)
	require.Equal(t, []uint{0, math.MaxUint}, b.CatValues(0))
}

func TestNewBoundsErrors(t *testing.T) {
	tests := []struct {
		name      string
		low, high Case
		catValues [][]uint
		err       error
	}{
		{
			name: "incomparable",
			low:  NewCase([]float64{0}, nil, nil),
			high: NewCase([]float64{0, 1}, nil, nil),
			err:  errs.ErrDimensionMismatch,
		},
		{
			name: "low above high",
			low:  NewCase([]float64{2}, nil, nil),
			high: NewCase([]float64{1}, nil, nil),
			err:  errs.ErrInvalidValue,
		},
		{
			name:      "empty value set",
			low:       NewCase(nil, nil, []uint{0}),
			high:      NewCase(nil, nil, []uint{2}),
			catValues: [][]uint{{}},
			err:       errs.ErrInvalidValue,
		},
		{
			name:      "value out of range",
			low:       NewCase(nil, nil, []uint{0}),
			high:      NewCase(nil, nil, []uint{2}),
			catValues: [][]uint{{0, 3}},
			err:       errs.ErrInvalidValue,
		},
		{
			name:      "value set count",
			low:       NewCase(nil, nil, []uint{0}),
			high:      NewCase(nil, nil, []uint{2}),
			catValues: [][]uint{{0}, {1}},
			err:       errs.ErrDimensionMismatch,
		},
		{
			name: "unbounded default range",
			low:  NewCase(nil, nil, []uint{0}),
			high: NewCase(nil, nil, []uint{math.MaxUint}),
			err:  errs.ErrInvalidValue,
		},
		{
			name: "default range at the limit",
			low:  NewCase(nil, nil, []uint{1}),
			high: NewCase(nil, nil, []uint{1 + maxDefaultCatValues}),
			err:  errs.ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBounds(tt.low, tt.high, tt.catValues)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestBoundsFromCases(t *testing.T) {
	cases := []Case{
		NewCase([]float64{1, 7}, []int{3}, []uint{2}),
		NewCase([]float64{-1, 7}, []int{5}, []uint{0}),
		NewCase([]float64{0, 7}, []int{4}, []uint{2}),
	}

	b, err := BoundsFromCases(cases)
	require.NoError(t, err)
	require.Equal(t, []float64{-1, 7}, b.Low().Continuous)
	require.Equal(t, []float64{1, 7}, b.High().Continuous)
	require.Equal(t, []int{3}, b.Low().Discrete)
	require.Equal(t, []int{5}, b.High().Discrete)
	require.Equal(t, []uint{0, 2}, b.CatValues(0))
	require.True(t, b.IsFixed(1))

	// the input must not be aliased
	require.Equal(t, 1.0, cases[0].Continuous[0])

	_, err = BoundsFromCases(nil)
	require.ErrorIs(t, err, errs.ErrDimensionOutOfBounds)

	_, err = BoundsFromCases([]Case{cases[0], NewCase([]float64{1}, nil, nil)})
	require.ErrorIs(t, err, errs.ErrDimensionMismatch)
}

func TestBoundsSaveLoad(t *testing.T) {
	b, err := NewBounds(
		NewCase([]float64{0}, []int{1}, []uint{0}),
		NewCase([]float64{2}, []int{4}, []uint{3}),
		[][]uint{{0, 3}},
	)
	require.NoError(t, err)

	w := codec.NewWriter(endian.GetBigEndianEngine())
	defer w.Release()
	require.NoError(t, b.Save(w))

	var out Bounds
	require.NoError(t, out.Load(codec.NewReader(w.Bytes(), endian.GetBigEndianEngine())))
	require.True(t, b.Low().Equal(out.Low()))
	require.True(t, b.High().Equal(out.High()))
	require.Equal(t, b.CatValues(0), out.CatValues(0))
}

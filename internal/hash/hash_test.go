package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytes(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty string", "", 0xef46db3751d8e999},
		{"short string", "test", 0x4fdcca5ddb678139},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, Bytes([]byte(tt.data)))
		})
	}
}

func TestFloat64Rows(t *testing.T) {
	a := [][]float64{{1, 2}, {3}}
	b := [][]float64{{1}, {2, 3}}

	require.Equal(t, Float64Rows(a), Float64Rows([][]float64{{1, 2}, {3}}))
	require.NotEqual(t, Float64Rows(a), Float64Rows(b))
	require.NotEqual(t, Float64Rows(nil), Float64Rows([][]float64{{}}))
	require.NotEqual(t, Float64Rows([][]float64{{0.5}}), Float64Rows([][]float64{{0.25}}))
}

func BenchmarkFloat64Rows(b *testing.B) {
	rows := make([][]float64, 200)
	for i := range rows {
		rows[i] = []float64{float64(i), -float64(i), 0.5}
	}
	b.ResetTimer()
	for b.Loop() {
		Float64Rows(rows)
	}
}

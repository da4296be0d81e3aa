package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetFloat64Slice(t *testing.T) {
	t.Run("returns slice with correct size", func(t *testing.T) {
		slice, cleanup := GetFloat64Slice(100)
		defer cleanup()

		require.Len(t, slice, 100)
		require.GreaterOrEqual(t, cap(slice), 100)
	})

	t.Run("grows when capacity insufficient", func(t *testing.T) {
		_, cleanup1 := GetFloat64Slice(4)
		cleanup1()

		slice, cleanup2 := GetFloat64Slice(4096)
		defer cleanup2()
		require.Len(t, slice, 4096)
	})

	t.Run("zero size", func(t *testing.T) {
		slice, cleanup := GetFloat64Slice(0)
		defer cleanup()
		require.Empty(t, slice)
	})
}

func TestGetIntSlice(t *testing.T) {
	slice, cleanup := GetIntSlice(16)
	defer cleanup()

	require.Empty(t, slice)
	require.GreaterOrEqual(t, cap(slice), 16)

	slice = append(slice, 1, 2, 3)
	require.Equal(t, []int{1, 2, 3}, slice)
}

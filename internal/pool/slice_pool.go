package pool

import "sync"

// Scratch slice pools for the per-query buffers of Kriging weight
// computation, which runs once per proxy evaluation.
var (
	float64SlicePool = sync.Pool{
		New: func() any { return &[]float64{} },
	}
	intSlicePool = sync.Pool{
		New: func() any { return &[]int{} },
	}
)

// GetFloat64Slice retrieves a float64 slice of length size from the pool.
//
// The contents are not cleared. The caller must call the returned cleanup
// function (typically with defer) and must not retain the slice afterwards.
//
// Example:
//
//	dist, cleanup := pool.GetFloat64Slice(n)
//	defer cleanup()
func GetFloat64Slice(size int) ([]float64, func()) {
	ptr, _ := float64SlicePool.Get().(*[]float64)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]float64, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { float64SlicePool.Put(ptr) }
}

// GetIntSlice retrieves an empty int slice with capacity of at least size.
//
// Unlike GetFloat64Slice the returned slice has length zero, ready for append.
// The caller must call the returned cleanup function.
func GetIntSlice(size int) ([]int, func()) {
	ptr, _ := intSlicePool.Get().(*[]int)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]int, 0, size)
	}
	*ptr = slice

	return slice, func() { intSlicePool.Put(ptr) }
}

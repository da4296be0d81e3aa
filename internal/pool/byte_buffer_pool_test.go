package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteBuffer(t *testing.T) {
	bb := NewByteBuffer(16)
	require.Equal(t, 0, bb.Len())
	require.Equal(t, 16, cap(bb.B))

	bb.B = append(bb.B, "payload"...)
	require.Equal(t, []byte("payload"), bb.Bytes())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.Equal(t, 16, cap(bb.B))
}

func TestByteBufferGrow(t *testing.T) {
	t.Run("sufficient capacity", func(t *testing.T) {
		bb := NewByteBuffer(100)
		bb.Grow(50)
		require.Equal(t, 100, cap(bb.B))
	})

	t.Run("small buffer grows by default size", func(t *testing.T) {
		bb := NewByteBuffer(10)
		bb.B = append(bb.B, "0123456789"...)
		bb.Grow(20)
		require.Equal(t, 10+CodecBufferDefaultSize, cap(bb.B))
		require.Equal(t, []byte("0123456789"), bb.Bytes())
	})

	t.Run("large buffer grows by a quarter", func(t *testing.T) {
		size := 8 * CodecBufferDefaultSize
		bb := NewByteBuffer(size)
		bb.B = bb.B[:size]
		bb.Grow(1)
		require.Equal(t, size+size/4, cap(bb.B))
	})

	t.Run("grows at least the required bytes", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(3 * CodecBufferDefaultSize)
		require.GreaterOrEqual(t, cap(bb.B), 3*CodecBufferDefaultSize)
	})
}

func TestCodecBufferPool(t *testing.T) {
	bb := GetCodecBuffer()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())

	bb.B = append(bb.B, "data"...)
	PutCodecBuffer(bb)
	PutCodecBuffer(nil)

	bb2 := GetCodecBuffer()
	require.Equal(t, 0, bb2.Len(), "pooled buffers are reset")
	PutCodecBuffer(bb2)
}

func TestByteBufferPoolMaxThreshold(t *testing.T) {
	p := NewByteBufferPool(8, 64)

	big := NewByteBuffer(128)
	big.B = append(big.B, 'x')
	p.Put(big)

	got := p.Get()
	require.LessOrEqual(t, cap(got.B), 64, "oversized buffers are not retained")
}

func TestByteBufferPoolConcurrentAccess(t *testing.T) {
	p := NewByteBufferPool(32, 0)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for range 100 {
				bb := p.Get()
				bb.B = append(bb.B, byte(id))
				assert.Equal(t, 1, bb.Len())
				p.Put(bb)
			}
		}(i)
	}
	wg.Wait()
}

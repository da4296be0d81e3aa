package pool

import "sync"

// Codec buffer sizing. A collection of a few hundred cases serializes to
// a few MiB, dominated by its n×n Kriging matrices.
const (
	CodecBufferDefaultSize  = 1024 * 64        // 64KiB
	CodecBufferMaxThreshold = 1024 * 1024 * 16 // 16MiB
)

// ByteBuffer is the append-only payload buffer of a codec writer.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates an empty buffer with capacity size.
func NewByteBuffer(size int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, size)}
}

// Bytes returns the buffered payload.
func (bb *ByteBuffer) Bytes() []byte { return bb.B }

// Len returns the payload length.
func (bb *ByteBuffer) Len() int { return len(bb.B) }

// Reset empties the buffer and keeps its memory.
func (bb *ByteBuffer) Reset() { bb.B = bb.B[:0] }

// Grow makes room for n more bytes so that a vector or a matrix is appended
// without intermediate reallocations.
//
// Small buffers grow by CodecBufferDefaultSize, larger ones by a quarter of
// their capacity, and always by at least n.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B)-len(bb.B) >= n {
		return
	}

	by := CodecBufferDefaultSize
	if cap(bb.B) > 4*CodecBufferDefaultSize {
		by = cap(bb.B) / 4
	}
	by = max(by, n)

	grown := make([]byte, len(bb.B), len(bb.B)+by)
	copy(grown, bb.B)
	bb.B = grown
}

// ByteBufferPool recycles ByteBuffers. Buffers larger than maxThreshold are
// dropped on Put; a maxThreshold of 0 keeps every buffer.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool of buffers with capacity size.
func NewByteBufferPool(size, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool:         sync.Pool{New: func() any { return NewByteBuffer(size) }},
		maxThreshold: maxThreshold,
	}
}

// Get returns an empty buffer.
func (p *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put resets bb and returns it to the pool.
func (p *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil || (p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold) {
		return
	}

	bb.Reset()
	p.pool.Put(bb)
}

var codecPool = NewByteBufferPool(CodecBufferDefaultSize, CodecBufferMaxThreshold)

// GetCodecBuffer returns a buffer from the codec writer pool.
func GetCodecBuffer() *ByteBuffer { return codecPool.Get() }

// PutCodecBuffer returns bb to the codec writer pool.
func PutCodecBuffer(bb *ByteBuffer) { codecPool.Put(bb) }

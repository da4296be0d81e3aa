package codec

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/arloliu/sumo/endian"
	"github.com/arloliu/sumo/format"
	"github.com/arloliu/sumo/internal/pool"
)

// Saver is implemented by types that serialize themselves into a Writer.
type Saver interface {
	Save(w *Writer) error
}

// Writer appends binary primitives to a pooled buffer.
//
// Scalars are written with the writer's byte order. Vectors are prefixed
// with their length as uint32. Matrices are written as rows and columns
// (uint32 each) followed by the values in row-major order.
//
// A Writer is not safe for concurrent use. Call Release when done to return
// the buffer to the pool.
type Writer struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
}

// NewWriter creates a Writer using the given byte order.
func NewWriter(engine endian.EndianEngine) *Writer {
	return &Writer{
		buf:    pool.GetCodecBuffer(),
		engine: engine,
	}
}

// Bytes returns the written data. The slice is only valid until Release.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Release returns the underlying buffer to the pool. The Writer must not be
// used afterwards.
func (w *Writer) Release() {
	pool.PutCodecBuffer(w.buf)
	w.buf = nil
}

// Uint8 writes a single byte.
func (w *Writer) Uint8(v uint8) {
	w.buf.B = append(w.buf.B, v)
}

// Bool writes a boolean as one byte.
func (w *Writer) Bool(v bool) {
	if v {
		w.Uint8(1)
	} else {
		w.Uint8(0)
	}
}

// Uint16 writes a uint16.
func (w *Writer) Uint16(v uint16) {
	w.buf.B = w.engine.AppendUint16(w.buf.B, v)
}

// Uint32 writes a uint32.
func (w *Writer) Uint32(v uint32) {
	w.buf.B = w.engine.AppendUint32(w.buf.B, v)
}

// Uint64 writes a uint64.
func (w *Writer) Uint64(v uint64) {
	w.buf.B = w.engine.AppendUint64(w.buf.B, v)
}

// Int writes an int as a 64-bit two's complement value.
func (w *Writer) Int(v int) {
	w.Uint64(uint64(int64(v)))
}

// Float64 writes a float64 by its IEEE-754 bits.
func (w *Writer) Float64(v float64) {
	w.Uint64(math.Float64bits(v))
}

// Version writes a payload version tag.
func (w *Writer) Version(v format.Version) {
	w.Uint16(uint16(v))
}

// Len32 writes a length prefix.
func (w *Writer) Len32(n int) {
	w.Uint32(uint32(n))
}

// Float64s writes a length-prefixed float64 vector.
func (w *Writer) Float64s(v []float64) {
	w.Len32(len(v))
	w.buf.Grow(8 * len(v))
	for _, x := range v {
		w.Float64(x)
	}
}

// Ints writes a length-prefixed int vector.
func (w *Writer) Ints(v []int) {
	w.Len32(len(v))
	w.buf.Grow(8 * len(v))
	for _, x := range v {
		w.Int(x)
	}
}

// Uints writes a length-prefixed uint vector.
func (w *Writer) Uints(v []uint) {
	w.Len32(len(v))
	w.buf.Grow(8 * len(v))
	for _, x := range v {
		w.Uint64(uint64(x))
	}
}

// Bools writes a length-prefixed bool vector.
func (w *Writer) Bools(v []bool) {
	w.Len32(len(v))
	for _, x := range v {
		w.Bool(x)
	}
}

// Float64Rows writes a length-prefixed list of length-prefixed vectors.
func (w *Writer) Float64Rows(rows [][]float64) {
	w.Len32(len(rows))
	for _, row := range rows {
		w.Float64s(row)
	}
}

// Dense writes a matrix. A nil matrix is written as 0×0.
func (w *Writer) Dense(m *mat.Dense) {
	if m == nil || m.IsEmpty() {
		w.Len32(0)
		w.Len32(0)

		return
	}

	r, c := m.Dims()
	w.Len32(r)
	w.Len32(c)
	w.buf.Grow(8 * r * c)
	for i := range r {
		for j := range c {
			w.Float64(m.At(i, j))
		}
	}
}

// Text writes a length-prefixed string.
func (w *Writer) Text(s string) {
	w.Len32(len(s))
	w.buf.B = append(w.buf.B, s...)
}

// Object writes a nested object preceded by a presence flag. A nil saver is
// written as absent.
func (w *Writer) Object(s Saver, present bool) error {
	w.Bool(present)
	if !present {
		return nil
	}

	return s.Save(w)
}

package codec

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/arloliu/sumo/endian"
	"github.com/arloliu/sumo/errs"
	"github.com/arloliu/sumo/format"
)

// Loader is implemented by types that deserialize themselves from a Reader.
type Loader interface {
	Load(r *Reader) error
}

// Reader decodes the primitives written by Writer.
//
// Errors are sticky: after the first failure every read returns a zero value
// and Err reports the failure, so decoders can read a whole record and check
// once.
type Reader struct {
	data   []byte
	off    int
	engine endian.EndianEngine
	err    error
}

// NewReader creates a Reader over data with the given byte order.
func NewReader(data []byte, engine endian.EndianEngine) *Reader {
	return &Reader{data: data, engine: engine}
}

// Err returns the first error encountered.
func (r *Reader) Err() error {
	return r.err
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// Fail records err unless an earlier error is already recorded.
func (r *Reader) Fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Reader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.Remaining() < n {
		r.err = fmt.Errorf("read %d bytes at offset %d of %d: %w", n, r.off, len(r.data), errs.ErrShortBuffer)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n

	return b
}

// Uint8 reads a single byte.
func (r *Reader) Uint8() uint8 {
	b := r.next(1)
	if b == nil {
		return 0
	}

	return b[0]
}

// Bool reads a boolean.
func (r *Reader) Bool() bool {
	return r.Uint8() != 0
}

// Uint16 reads a uint16.
func (r *Reader) Uint16() uint16 {
	b := r.next(2)
	if b == nil {
		return 0
	}

	return r.engine.Uint16(b)
}

// Uint32 reads a uint32.
func (r *Reader) Uint32() uint32 {
	b := r.next(4)
	if b == nil {
		return 0
	}

	return r.engine.Uint32(b)
}

// Uint64 reads a uint64.
func (r *Reader) Uint64() uint64 {
	b := r.next(8)
	if b == nil {
		return 0
	}

	return r.engine.Uint64(b)
}

// Int reads an int written by Writer.Int.
func (r *Reader) Int() int {
	return int(int64(r.Uint64()))
}

// Float64 reads a float64.
func (r *Reader) Float64() float64 {
	return math.Float64frombits(r.Uint64())
}

// Version reads a payload version tag and checks it against the version
// table for kind.
func (r *Reader) Version(kind format.Kind) format.Version {
	v := format.Version(r.Uint16())
	if r.err == nil && !format.IsSupported(kind, v) {
		r.err = fmt.Errorf("%s version %d (current %d): %w", kind, v, format.CurrentVersion(kind), errs.ErrUnsupportedVersion)
	}

	return v
}

// Len32 reads a length prefix and checks that at least elemSize bytes per
// element remain, which guards allocations against corrupted lengths.
func (r *Reader) Len32(elemSize int) int {
	n := int(r.Uint32())
	if r.err != nil {
		return 0
	}
	if elemSize > 0 && n > r.Remaining()/elemSize {
		r.err = fmt.Errorf("length %d exceeds remaining %d bytes: %w", n, r.Remaining(), errs.ErrShortBuffer)
		return 0
	}

	return n
}

// Float64s reads a length-prefixed float64 vector.
func (r *Reader) Float64s() []float64 {
	n := r.Len32(8)
	if r.err != nil {
		return nil
	}
	v := make([]float64, n)
	for i := range v {
		v[i] = r.Float64()
	}

	return v
}

// Ints reads a length-prefixed int vector.
func (r *Reader) Ints() []int {
	n := r.Len32(8)
	if r.err != nil {
		return nil
	}
	v := make([]int, n)
	for i := range v {
		v[i] = r.Int()
	}

	return v
}

// Uints reads a length-prefixed uint vector.
func (r *Reader) Uints() []uint {
	n := r.Len32(8)
	if r.err != nil {
		return nil
	}
	v := make([]uint, n)
	for i := range v {
		v[i] = uint(r.Uint64())
	}

	return v
}

// Bools reads a length-prefixed bool vector.
func (r *Reader) Bools() []bool {
	n := r.Len32(1)
	if r.err != nil {
		return nil
	}
	v := make([]bool, n)
	for i := range v {
		v[i] = r.Bool()
	}

	return v
}

// Float64Rows reads a list of vectors written by Writer.Float64Rows.
func (r *Reader) Float64Rows() [][]float64 {
	n := r.Len32(4)
	if r.err != nil {
		return nil
	}
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = r.Float64s()
	}

	return rows
}

// Dense reads a matrix. A 0×0 matrix is returned as nil.
func (r *Reader) Dense() *mat.Dense {
	rows := int(r.Uint32())
	cols := int(r.Uint32())
	if r.err != nil || rows == 0 || cols == 0 {
		return nil
	}
	if rows > r.Remaining()/8/cols {
		r.Fail(fmt.Errorf("matrix %dx%d exceeds remaining %d bytes: %w", rows, cols, r.Remaining(), errs.ErrShortBuffer))
		return nil
	}

	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = r.Float64()
	}

	return mat.NewDense(rows, cols, data)
}

// Text reads a length-prefixed string.
func (r *Reader) Text() string {
	n := r.Len32(1)
	b := r.next(n)

	return string(b)
}

// Object reads a presence flag and, when set, loads l.
func (r *Reader) Object(l Loader) (present bool) {
	present = r.Bool()
	if r.err != nil || !present {
		return false
	}
	if err := l.Load(r); err != nil {
		r.Fail(err)
		return false
	}

	return true
}

package codec

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/arloliu/sumo/endian"
	"github.com/arloliu/sumo/errs"
	"github.com/arloliu/sumo/format"
)

// record exercises every primitive of Writer and Reader.
type record struct {
	Flag   bool
	Count  int
	Value  float64
	Name   string
	Vec    []float64
	Idx    []int
	Cat    []uint
	Mask   []bool
	Rows   [][]float64
	Matrix *mat.Dense
}

func (rec *record) Save(w *Writer) error {
	w.Version(format.CurrentVersion(format.KindCase))
	w.Bool(rec.Flag)
	w.Int(rec.Count)
	w.Float64(rec.Value)
	w.Text(rec.Name)
	w.Float64s(rec.Vec)
	w.Ints(rec.Idx)
	w.Uints(rec.Cat)
	w.Bools(rec.Mask)
	w.Float64Rows(rec.Rows)
	w.Dense(rec.Matrix)

	return nil
}

func (rec *record) Load(r *Reader) error {
	r.Version(format.KindCase)
	rec.Flag = r.Bool()
	rec.Count = r.Int()
	rec.Value = r.Float64()
	rec.Name = r.Text()
	rec.Vec = r.Float64s()
	rec.Idx = r.Ints()
	rec.Cat = r.Uints()
	rec.Mask = r.Bools()
	rec.Rows = r.Float64Rows()
	rec.Matrix = r.Dense()

	return r.Err()
}

func sampleRecord() *record {
	return &record{
		Flag:   true,
		Count:  -42,
		Value:  math.Pi,
		Name:   "porosity",
		Vec:    []float64{-1, 0, 1, math.Inf(1)},
		Idx:    []int{0, 2, 5},
		Cat:    []uint{1, 3},
		Mask:   []bool{true, false, true},
		Rows:   [][]float64{{1, 2}, {3}},
		Matrix: mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}),
	}
}

func requireRecordEqual(t *testing.T, expected, actual *record) {
	t.Helper()

	require.Equal(t, expected.Flag, actual.Flag)
	require.Equal(t, expected.Count, actual.Count)
	require.Equal(t, expected.Value, actual.Value)
	require.Equal(t, expected.Name, actual.Name)
	require.Equal(t, expected.Vec, actual.Vec)
	require.Equal(t, expected.Idx, actual.Idx)
	require.Equal(t, expected.Cat, actual.Cat)
	require.Equal(t, expected.Mask, actual.Mask)
	require.Equal(t, expected.Rows, actual.Rows)
	require.True(t, mat.Equal(expected.Matrix, actual.Matrix))
}

// =============================================================================
// Writer / Reader
// =============================================================================

func TestWriterReaderRoundTrip(t *testing.T) {
	for name, engine := range map[string]endian.EndianEngine{
		"little": endian.GetLittleEndianEngine(),
		"big":    endian.GetBigEndianEngine(),
	} {
		t.Run(name, func(t *testing.T) {
			w := NewWriter(engine)
			defer w.Release()

			in := sampleRecord()
			require.NoError(t, in.Save(w))

			out := &record{}
			r := NewReader(w.Bytes(), engine)
			require.NoError(t, out.Load(r))
			require.Equal(t, 0, r.Remaining())
			requireRecordEqual(t, in, out)
		})
	}
}

func TestReaderNilMatrix(t *testing.T) {
	w := NewWriter(endian.GetLittleEndianEngine())
	defer w.Release()
	w.Dense(nil)

	r := NewReader(w.Bytes(), endian.GetLittleEndianEngine())
	require.Nil(t, r.Dense())
	require.NoError(t, r.Err())
}

func TestReaderShortBuffer(t *testing.T) {
	w := NewWriter(endian.GetLittleEndianEngine())
	defer w.Release()
	require.NoError(t, sampleRecord().Save(w))

	data := w.Bytes()
	for _, cut := range []int{0, 1, 5, len(data) / 2, len(data) - 1} {
		r := NewReader(data[:cut], endian.GetLittleEndianEngine())
		err := (&record{}).Load(r)
		require.ErrorIs(t, err, errs.ErrShortBuffer, "cut at %d", cut)
	}
}

func TestReaderCorruptedLength(t *testing.T) {
	w := NewWriter(endian.GetLittleEndianEngine())
	defer w.Release()
	w.Uint32(math.MaxUint32)

	r := NewReader(w.Bytes(), endian.GetLittleEndianEngine())
	require.Nil(t, r.Float64s())
	require.ErrorIs(t, r.Err(), errs.ErrShortBuffer)
}

func TestReaderUnsupportedVersion(t *testing.T) {
	w := NewWriter(endian.GetLittleEndianEngine())
	defer w.Release()
	w.Version(format.CurrentVersion(format.KindCompoundProxy) + 1)

	r := NewReader(w.Bytes(), endian.GetLittleEndianEngine())
	r.Version(format.KindCompoundProxy)
	require.ErrorIs(t, r.Err(), errs.ErrUnsupportedVersion)
}

// =============================================================================
// Envelope
// =============================================================================

func TestMarshalUnmarshal(t *testing.T) {
	compressions := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}
	for _, ct := range compressions {
		for _, big := range []bool{false, true} {
			opts := []Option{WithCompression(ct)}
			if big {
				opts = append(opts, WithBigEndian())
			}

			data, err := Marshal(format.KindCase, sampleRecord(), opts...)
			require.NoError(t, err)

			h, err := ParseHeader(data)
			require.NoError(t, err)
			require.Equal(t, ct, h.Compression)
			require.Equal(t, big, h.IsBigEndian())

			out := &record{}
			require.NoError(t, Unmarshal(data, format.KindCase, out))
			requireRecordEqual(t, sampleRecord(), out)
		}
	}
}

func TestUnmarshalErrors(t *testing.T) {
	data, err := Marshal(format.KindCase, sampleRecord())
	require.NoError(t, err)

	t.Run("short header", func(t *testing.T) {
		err := Unmarshal(data[:HeaderSize-1], format.KindCase, &record{})
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("bad magic", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[1] ^= 0xff
		err := Unmarshal(bad, format.KindCase, &record{})
		require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)
	})

	t.Run("kind mismatch", func(t *testing.T) {
		err := Unmarshal(data, format.KindSpace, &record{})
		require.ErrorIs(t, err, errs.ErrKindMismatch)
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[len(bad)-1] ^= 0x01
		err := Unmarshal(bad, format.KindCase, &record{})
		require.ErrorIs(t, err, errs.ErrChecksumMismatch)
	})

	t.Run("truncated payload", func(t *testing.T) {
		err := Unmarshal(data[:len(data)-3], format.KindCase, &record{})
		require.ErrorIs(t, err, errs.ErrShortBuffer)
	})

	t.Run("raw size mismatch", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[8]++
		err := Unmarshal(bad, format.KindCase, &record{})
		require.ErrorIs(t, err, errs.ErrShortBuffer)
	})

	t.Run("oversized raw size", func(t *testing.T) {
		lz4Data, err := Marshal(format.KindCase, sampleRecord(), WithCompression(format.CompressionLZ4))
		require.NoError(t, err)

		bad := append([]byte(nil), lz4Data...)
		binary.LittleEndian.PutUint32(bad[8:12], math.MaxUint32)
		err = Unmarshal(bad, format.KindCase, &record{})
		require.ErrorIs(t, err, errs.ErrShortBuffer)
	})

	t.Run("invalid compression option", func(t *testing.T) {
		_, err := Marshal(format.KindCase, sampleRecord(), WithCompression(format.CompressionType(9)))
		require.ErrorIs(t, err, errs.ErrInvalidOption)
	})
}

func TestHeaderBytes(t *testing.T) {
	h := NewHeader(format.KindCollection, format.CompressionZstd, true)
	h.PayloadSize = 100
	h.RawSize = 400
	h.Checksum = 0xdeadbeef

	b := h.Bytes()
	require.Len(t, b, HeaderSize)

	parsed, err := ParseHeader(b)
	require.NoError(t, err)
	require.Equal(t, h, parsed)
	require.Equal(t, endian.GetBigEndianEngine(), parsed.Engine())
}

package compress

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/sumo/errs"
	"github.com/arloliu/sumo/format"
)

// matrixPayload mimics a serialized distance matrix: row-major float64 values.
func matrixPayload(n int) []byte {
	buf := make([]byte, 0, n*n*8)
	for i := range n {
		for j := range n {
			d := math.Abs(float64(i-j)) / float64(n)
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(d))
		}
	}

	return buf
}

var allTypes = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
}

var compressingTypes = allTypes[1:]

func TestCodecRoundTrip(t *testing.T) {
	payloads := map[string][]byte{
		"matrix":   matrixPayload(32),
		"small":    []byte("sumo"),
		"repeated": bytes.Repeat([]byte{0x5a, 0x13, 0xc7}, 7),
	}

	for _, ct := range allTypes {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		for name, data := range payloads {
			t.Run(ct.String()+"/"+name, func(t *testing.T) {
				compressed, err := codec.Compress(data)
				require.NoError(t, err)

				restored, err := codec.Decompress(compressed, len(data))
				require.NoError(t, err)
				require.Equal(t, data, restored)
			})
		}
	}
}

func TestCodecEmptyInput(t *testing.T) {
	for _, ct := range compressingTypes {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			out, err := codec.Compress(nil)
			require.NoError(t, err)
			require.Empty(t, out)

			out, err = codec.Decompress(nil, 0)
			require.NoError(t, err)
			require.Empty(t, out)

			_, err = codec.Decompress(nil, 8)
			require.ErrorIs(t, err, errs.ErrShortBuffer)
		})
	}
}

func TestCodecRawSizeMismatch(t *testing.T) {
	data := matrixPayload(16)
	for _, ct := range allTypes {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(data)
			require.NoError(t, err)

			// lz4 reports an undersized buffer itself
			_, err = codec.Decompress(compressed, len(data)-8)
			require.Error(t, err)

			_, err = codec.Decompress(compressed, len(data)+8)
			require.ErrorIs(t, err, errs.ErrShortBuffer)
		})
	}
}

func TestCodecRawSizeLimit(t *testing.T) {
	data := matrixPayload(16)
	for _, ct := range allTypes {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(data)
			require.NoError(t, err)

			_, err = codec.Decompress(compressed, MaxRawSize+1)
			require.ErrorIs(t, err, errs.ErrShortBuffer)

			_, err = codec.Decompress(compressed, -1)
			require.ErrorIs(t, err, errs.ErrShortBuffer)
		})
	}

	t.Run("lz4 expansion", func(t *testing.T) {
		compressed, err := LZ4Compressor{}.Compress(data)
		require.NoError(t, err)

		_, err = LZ4Compressor{}.Decompress(compressed, lz4MaxRatio*len(compressed)+1)
		require.ErrorIs(t, err, errs.ErrShortBuffer)
	})

	t.Run("s2 length prefix", func(t *testing.T) {
		payload := binary.AppendUvarint(nil, MaxRawSize+1)
		payload = append(payload, 0x00, 0x01, 0x02)

		_, err := S2Compressor{}.Decompress(payload, MaxRawSize+1)
		require.ErrorIs(t, err, errs.ErrShortBuffer)
	})
}

func TestCodecCompressesMatrices(t *testing.T) {
	data := matrixPayload(64)
	for _, ct := range compressingTypes {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		compressed, err := codec.Compress(data)
		require.NoError(t, err)
		require.Less(t, len(compressed), len(data), "%s should shrink a Toeplitz matrix", ct)
	}
}

func TestCodecInvalidType(t *testing.T) {
	_, err := GetCodec(format.CompressionType(0x7f))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)

	_, err = GetCodec(format.CompressionType(0))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)
}

func TestCodecCorruptedInput(t *testing.T) {
	garbage := []byte{0xff, 0xfe, 0xfd, 0xfc, 0xfb, 0xfa, 0xf9}

	_, err := ZstdCompressor{}.Decompress(garbage, 64)
	require.Error(t, err)

	_, err = S2Compressor{}.Decompress(garbage, 64)
	require.Error(t, err)
}

func BenchmarkCodecs(b *testing.B) {
	data := matrixPayload(128)
	for _, ct := range allTypes {
		codec, _ := GetCodec(ct)
		b.Run(ct.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				compressed, _ := codec.Compress(data)
				_, _ = codec.Decompress(compressed, len(data))
			}
		})
	}
}

package compress

import (
	"fmt"

	"github.com/arloliu/sumo/errs"
	"github.com/arloliu/sumo/format"
)

// Compressor compresses a serialized sumo payload. The input is not modified.
type Compressor interface {
	Compress(payload []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor.
//
// rawSize is the uncompressed size recorded in the envelope header; it sizes
// the output buffer up front. A payload that does not decompress to exactly
// rawSize bytes, or whose rawSize exceeds MaxRawSize or what the algorithm
// can expand the payload to, is rejected with errs.ErrShortBuffer before the
// output is allocated.
type Decompressor interface {
	Decompress(payload []byte, rawSize int) ([]byte, error)
}

// Codec compresses and decompresses payloads of one algorithm.
type Codec interface {
	Compressor
	Decompressor
}

var codecs = map[format.CompressionType]Codec{
	format.CompressionNone: NoOpCompressor{},
	format.CompressionZstd: ZstdCompressor{},
	format.CompressionS2:   S2Compressor{},
	format.CompressionLZ4:  LZ4Compressor{},
}

// GetCodec returns the codec of a compression type, or
// errs.ErrInvalidCompression for an unknown type.
func GetCodec(ct format.CompressionType) (Codec, error) {
	if c, ok := codecs[ct]; ok {
		return c, nil
	}

	return nil, fmt.Errorf("compression type %s: %w", ct, errs.ErrInvalidCompression)
}

// MaxRawSize is the largest decompressed payload accepted.
const MaxRawSize = 1 << 30

// zstdPrealloc bounds the capacity reserved ahead of a zstd decode; larger
// outputs grow while decoding.
const zstdPrealloc = 1 << 20

// checkRawLimit rejects a rawSize that is negative, above MaxRawSize or, when
// maxRatio > 0, above maxRatio times the payload length.
func checkRawLimit(algo string, payloadLen, rawSize, maxRatio int) error {
	if rawSize < 0 || rawSize > MaxRawSize {
		return fmt.Errorf("%s raw size %d outside [0, %d]: %w", algo, rawSize, MaxRawSize, errs.ErrShortBuffer)
	}
	if maxRatio > 0 && rawSize > maxRatio*payloadLen {
		return fmt.Errorf("%s payload of %d bytes cannot expand to %d: %w", algo, payloadLen, rawSize, errs.ErrShortBuffer)
	}

	return nil
}

func checkRawSize(algo string, got, want int) error {
	if got != want {
		return fmt.Errorf("%s payload of %d bytes, header says %d: %w", algo, got, want, errs.ErrShortBuffer)
	}

	return nil
}

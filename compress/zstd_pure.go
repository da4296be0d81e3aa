//go:build !cgo || !cgozstd

package compress

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var zstdDecoders = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(false),
			zstd.WithDecoderMaxMemory(MaxRawSize),
		)
		if err != nil {
			panic(fmt.Sprintf("zstd decoder: %v", err))
		}

		return decoder
	},
}

var zstdEncoders = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
			zstd.WithEncoderCRC(false),
		)
		if err != nil {
			panic(fmt.Sprintf("zstd encoder: %v", err))
		}

		return encoder
	},
}

// Compress encodes payload as one zstd frame. The envelope carries its own
// checksum, so frame CRCs are off.
func (ZstdCompressor) Compress(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, nil
	}

	encoder, _ := zstdEncoders.Get().(*zstd.Encoder)
	defer zstdEncoders.Put(encoder)

	return encoder.EncodeAll(payload, nil), nil
}

// Decompress decodes a zstd frame. At most zstdPrealloc bytes are reserved
// up front, whatever rawSize claims.
func (ZstdCompressor) Decompress(payload []byte, rawSize int) ([]byte, error) {
	if len(payload) == 0 {
		return nil, checkRawSize("zstd", 0, rawSize)
	}
	if err := checkRawLimit("zstd", len(payload), rawSize, 0); err != nil {
		return nil, err
	}

	decoder, _ := zstdDecoders.Get().(*zstd.Decoder)
	defer zstdDecoders.Put(decoder)

	// a failed DecodeAll leaves the decoder reusable
	raw, err := decoder.DecodeAll(payload, make([]byte, 0, min(rawSize, zstdPrealloc)))
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	if err := checkRawSize("zstd", len(raw), rawSize); err != nil {
		return nil, err
	}

	return raw, nil
}

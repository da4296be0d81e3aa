//go:build cgo && cgozstd

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"
)

// Compress encodes payload with the cgo zstd binding at level 6.
func (ZstdCompressor) Compress(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, nil
	}

	return gozstd.CompressLevel(nil, payload, 6), nil
}

// Decompress decodes a zstd frame with the cgo binding. At most zstdPrealloc
// bytes are reserved up front, whatever rawSize claims.
func (ZstdCompressor) Decompress(payload []byte, rawSize int) ([]byte, error) {
	if len(payload) == 0 {
		return nil, checkRawSize("zstd", 0, rawSize)
	}
	if err := checkRawLimit("zstd", len(payload), rawSize, 0); err != nil {
		return nil, err
	}

	raw, err := gozstd.Decompress(make([]byte, 0, min(rawSize, zstdPrealloc)), payload)
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	if err := checkRawSize("zstd", len(raw), rawSize); err != nil {
		return nil, err
	}

	return raw, nil
}

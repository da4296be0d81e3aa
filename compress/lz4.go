package compress

import (
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4Compressors pools lz4.Compressor values; each one owns a hash table.
var lz4Compressors = sync.Pool{
	New: func() any { return &lz4.Compressor{} },
}

// lz4MaxRatio is the largest expansion of an LZ4 block: a run length byte of
// 255 produces 255 output bytes.
const lz4MaxRatio = 255

// LZ4Compressor provides LZ4 block compression, the fastest to decode.
type LZ4Compressor struct{}

// Compress encodes payload as one LZ4 block.
func (LZ4Compressor) Compress(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, nil
	}

	lc, _ := lz4Compressors.Get().(*lz4.Compressor)
	defer lz4Compressors.Put(lc)

	dst := make([]byte, lz4.CompressBlockBound(len(payload)))
	n, err := lc.CompressBlock(payload, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress decodes an LZ4 block into a buffer of exactly rawSize bytes.
// The block format carries no length, so the header size is authoritative.
func (LZ4Compressor) Decompress(payload []byte, rawSize int) ([]byte, error) {
	if len(payload) == 0 {
		return nil, checkRawSize("lz4", 0, rawSize)
	}

	if err := checkRawLimit("lz4", len(payload), rawSize, lz4MaxRatio); err != nil {
		return nil, err
	}

	dst := make([]byte, rawSize)
	n, err := lz4.UncompressBlock(payload, dst)
	if err != nil {
		return nil, err
	}
	if err := checkRawSize("lz4", n, rawSize); err != nil {
		return nil, err
	}

	return dst, nil
}

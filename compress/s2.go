package compress

import "github.com/klauspost/compress/s2"

// S2Compressor provides S2 block compression, the default of sumo.Marshal*.
type S2Compressor struct{}

// Compress encodes payload as one S2 block.
func (S2Compressor) Compress(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, nil
	}

	return s2.EncodeBetter(nil, payload), nil
}

// Decompress decodes an S2 block. The block's own length prefix must agree
// with rawSize before anything is allocated.
func (S2Compressor) Decompress(payload []byte, rawSize int) ([]byte, error) {
	if len(payload) == 0 {
		return nil, checkRawSize("s2", 0, rawSize)
	}

	n, err := s2.DecodedLen(payload)
	if err != nil {
		return nil, err
	}
	if err := checkRawLimit("s2", len(payload), n, 0); err != nil {
		return nil, err
	}
	if err := checkRawSize("s2", n, rawSize); err != nil {
		return nil, err
	}

	return s2.Decode(make([]byte, n), payload)
}

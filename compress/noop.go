package compress

// NoOpCompressor stores payloads uncompressed. Both directions return the
// input slice itself.
type NoOpCompressor struct{}

// Compress returns payload.
func (NoOpCompressor) Compress(payload []byte) ([]byte, error) {
	return payload, nil
}

// Decompress returns payload after checking its size.
func (NoOpCompressor) Decompress(payload []byte, rawSize int) ([]byte, error) {
	if err := checkRawSize("uncompressed", len(payload), rawSize); err != nil {
		return nil, err
	}

	return payload, nil
}

package codec

import (
	"fmt"

	"github.com/arloliu/sumo/endian"
	"github.com/arloliu/sumo/errs"
	"github.com/arloliu/sumo/format"
)

const (
	// HeaderSize is the fixed size of the envelope header in bytes.
	HeaderSize = 24

	EndiannessMask  = 0x0001 // Mask for endianness bit (bit 0), 1 means big-endian
	ReservedMask    = 0x000E // Mask for reserved bits (bits 1-3), must be zero
	MagicNumberMask = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicSumoV1 identifies the sumo envelope format, version 1.
	MagicSumoV1 = 0x5A10
)

// Header is the fixed-size envelope header preceding every serialized payload.
//
// Layout:
//
//	offset  size  field
//	0       2     Options (always little-endian): magic and endianness bit
//	2       1     Kind
//	3       1     Compression
//	4       4     PayloadSize, bytes following the header
//	8       4     RawSize, payload size after decompression
//	12      8     Checksum, xxHash64 of the uncompressed payload
//	20      4     reserved, zero
type Header struct {
	Options     uint16
	Kind        format.Kind
	Compression format.CompressionType
	PayloadSize uint32
	RawSize     uint32
	Checksum    uint64
}

// NewHeader creates a header for kind with the given compression and byte order.
func NewHeader(kind format.Kind, compression format.CompressionType, bigEndian bool) Header {
	h := Header{
		Options:     MagicSumoV1,
		Kind:        kind,
		Compression: compression,
	}
	if bigEndian {
		h.Options |= EndiannessMask
	}

	return h
}

// IsBigEndian reports whether the payload is big-endian.
func (h Header) IsBigEndian() bool {
	return h.Options&EndiannessMask != 0
}

// Engine returns the byte order engine of the payload.
func (h Header) Engine() endian.EndianEngine {
	return endian.Select(h.IsBigEndian())
}

// Bytes serializes the header.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	engine := h.Engine()

	b[0] = byte(h.Options)
	b[1] = byte(h.Options >> 8)
	b[2] = byte(h.Kind)
	b[3] = byte(h.Compression)
	engine.PutUint32(b[4:8], h.PayloadSize)
	engine.PutUint32(b[8:12], h.RawSize)
	engine.PutUint64(b[12:20], h.Checksum)

	return b
}

// Validate checks the magic number, reserved bits and compression type.
func (h Header) Validate() error {
	if h.Options&MagicNumberMask != MagicSumoV1 {
		return fmt.Errorf("magic 0x%04x: %w", h.Options&MagicNumberMask, errs.ErrInvalidMagicNumber)
	}
	if h.Options&ReservedMask != 0 {
		return fmt.Errorf("reserved option bits set: %w", errs.ErrInvalidMagicNumber)
	}
	switch h.Compression {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
	default:
		return fmt.Errorf("header compression %d: %w", h.Compression, errs.ErrInvalidCompression)
	}

	return nil
}

// ParseHeader parses and validates a header from the start of data.
//
// Returns:
//   - Header: Parsed header
//   - error: errs.ErrInvalidHeaderSize if data is shorter than HeaderSize, or validation errors
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("header of %d bytes: %w", len(data), errs.ErrInvalidHeaderSize)
	}

	h := Header{
		Options:     uint16(data[0]) | uint16(data[1])<<8,
		Kind:        format.Kind(data[2]),
		Compression: format.CompressionType(data[3]),
	}
	engine := h.Engine()
	h.PayloadSize = engine.Uint32(data[4:8])
	h.RawSize = engine.Uint32(data[8:12])
	h.Checksum = engine.Uint64(data[12:20])

	if err := h.Validate(); err != nil {
		return Header{}, err
	}

	return h, nil
}

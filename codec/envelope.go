package codec

import (
	"fmt"

	"github.com/arloliu/sumo/compress"
	"github.com/arloliu/sumo/endian"
	"github.com/arloliu/sumo/errs"
	"github.com/arloliu/sumo/format"
	"github.com/arloliu/sumo/internal/hash"
	"github.com/arloliu/sumo/internal/options"
)

// Config holds the envelope settings used by Marshal.
type Config struct {
	Compression format.CompressionType
	BigEndian   bool
}

// Option is a functional option for Marshal.
type Option = options.Option[*Config]

// WithCompression sets the payload compression.
func WithCompression(ct format.CompressionType) Option {
	return options.New(func(cfg *Config) error {
		if _, err := compress.GetCodec(ct); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrInvalidOption, err)
		}
		cfg.Compression = ct

		return nil
	})
}

// WithBigEndian writes the payload in big-endian byte order.
func WithBigEndian() Option {
	return options.NoError(func(cfg *Config) {
		cfg.BigEndian = true
	})
}

// Marshal serializes v as a payload of the given kind, wrapped in an
// envelope header.
//
// The checksum covers the uncompressed payload and is verified by Unmarshal.
//
// Parameters:
//   - kind: Payload kind recorded in the header
//   - v: Object to serialize
//   - opts: Envelope options (compression, byte order)
//
// Returns:
//   - []byte: Header followed by the (possibly compressed) payload
//   - error: Option, serialization or compression error
func Marshal(kind format.Kind, v Saver, opts ...Option) ([]byte, error) {
	cfg := &Config{Compression: format.CompressionNone}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	w := NewWriter(endian.Select(cfg.BigEndian))
	defer w.Release()

	if err := v.Save(w); err != nil {
		return nil, fmt.Errorf("marshal %s: %w", kind, err)
	}
	raw := w.Bytes()
	if len(raw) > compress.MaxRawSize {
		return nil, fmt.Errorf("marshal %s: payload of %d bytes: %w", kind, len(raw), errs.ErrDimensionOutOfBounds)
	}

	codec, err := compress.GetCodec(cfg.Compression)
	if err != nil {
		return nil, err
	}
	payload, err := codec.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", kind, err)
	}

	h := NewHeader(kind, cfg.Compression, cfg.BigEndian)
	h.PayloadSize = uint32(len(payload))
	h.RawSize = uint32(len(raw))
	h.Checksum = hash.Bytes(raw)

	out := make([]byte, 0, HeaderSize+len(payload))
	out = append(out, h.Bytes()...)
	out = append(out, payload...)

	return out, nil
}

// Unmarshal parses an envelope produced by Marshal and loads its payload into v.
//
// Returns:
//   - error: Header errors, errs.ErrKindMismatch, errs.ErrChecksumMismatch,
//     errs.ErrTrailingPayloadData or the decoder's error
func Unmarshal(data []byte, kind format.Kind, v Loader) error {
	h, err := ParseHeader(data)
	if err != nil {
		return err
	}
	if h.Kind != kind {
		return fmt.Errorf("expected %s, found %s: %w", kind, h.Kind, errs.ErrKindMismatch)
	}
	if int(h.PayloadSize) != len(data)-HeaderSize {
		return fmt.Errorf("payload size %d, available %d: %w", h.PayloadSize, len(data)-HeaderSize, errs.ErrShortBuffer)
	}

	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return err
	}
	raw, err := codec.Decompress(data[HeaderSize:], int(h.RawSize))
	if err != nil {
		return fmt.Errorf("unmarshal %s: %w", kind, err)
	}
	if hash.Bytes(raw) != h.Checksum {
		return fmt.Errorf("unmarshal %s: %w", kind, errs.ErrChecksumMismatch)
	}

	r := NewReader(raw, h.Engine())
	if err := v.Load(r); err != nil {
		return fmt.Errorf("unmarshal %s: %w", kind, err)
	}
	if r.Remaining() != 0 {
		return fmt.Errorf("unmarshal %s: %d bytes left: %w", kind, r.Remaining(), errs.ErrTrailingPayloadData)
	}

	return nil
}

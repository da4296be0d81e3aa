// Package endian provides the byte order engines used by the sumo codec.
//
// EndianEngine combines binary.ByteOrder and binary.AppendByteOrder so the
// codec writer can append primitives directly to its buffer while the reader
// decodes in place:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint64(buf, math.Float64bits(v))
//
// Models are written little-endian unless codec.WithBigEndian is given; the
// choice is recorded in the envelope header.
package endian

import "encoding/binary"

// EndianEngine is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// Select returns the big-endian engine when big is set and the
// little-endian engine otherwise.
func Select(big bool) EndianEngine {
	if big {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

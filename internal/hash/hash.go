// Package hash provides the xxHash64 digests used for envelope checksums
// and sample set fingerprints.
package hash

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Bytes returns the xxHash64 of a serialized payload, the envelope checksum.
func Bytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Float64Rows fingerprints a set of float64 vectors.
//
// Row lengths are mixed into the digest so that [[1,2],[3]] and [[1],[2,3]]
// hash differently. Values are hashed by their IEEE-754 bits, so 0 and -0
// differ while equal NaN payloads match.
func Float64Rows(rows [][]float64) uint64 {
	d := xxhash.New()
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], uint64(len(rows)))
	_, _ = d.Write(buf[:])
	for _, row := range rows {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(row)))
		_, _ = d.Write(buf[:])
		for _, v := range row {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			_, _ = d.Write(buf[:])
		}
	}

	return d.Sum64()
}

// Package compress provides the payload codecs used when persisting sumo models.
//
// A serialized proxy collection is dominated by dense float64 matrices (the
// Kriging distance matrix and the two inverse covariance matrices grow with
// the square of the number of cases), so optional compression of the payload
// pays off for larger case sets.
//
// Supported algorithms:
//   - None: No compression
//   - Zstd: Best ratio, moderate speed
//   - S2: Balanced speed and ratio
//   - LZ4: Fastest decompression
//
// The codec package selects the algorithm through codec.WithCompression and
// records it in the envelope header, so readers pick the matching
// decompressor automatically:
//
//	data, err := codec.Marshal(format.KindCollection, coll,
//	    codec.WithCompression(format.CompressionZstd))
//
// The envelope header records the uncompressed size, and every Decompress
// takes it: outputs are allocated once at their final size and a payload
// that inflates to any other size is rejected.
//
// All codecs are stateless values and safe for concurrent use. The Zstd
// implementation pools its encoders and decoders; building with
// -tags cgozstd (and cgo enabled) swaps in the gozstd binding.
package compress

package compress

// ZstdCompressor provides Zstandard compression, the best ratio of the
// built-in codecs. Use it for archived models where load latency matters
// less than size.
//
// The pure Go implementation is used unless the module is built with cgo and
// the cgozstd tag.
type ZstdCompressor struct{}

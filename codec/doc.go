// Package codec implements the binary persistence layer of sumo.
//
// Every serializable type implements Saver and Loader. Save writes a version
// tag first (format.CurrentVersion for its kind) and Load reads that tag and
// dispatches to a decoder for that version, so older payloads are migrated
// on read.
//
// Marshal and Unmarshal wrap a payload in a 24-byte envelope carrying a magic
// number, the payload kind, the compression type and an xxHash64 checksum:
//
//	data, err := codec.Marshal(format.KindCompoundProxy, proxy,
//	    codec.WithCompression(format.CompressionS2))
//
//	var loaded proxy.CompoundProxy
//	err = codec.Unmarshal(data, format.KindCompoundProxy, &loaded)
package codec

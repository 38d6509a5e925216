package compress

// ZstdCompressor compresses with Zstandard at the default level.
//
// Builds with cgo use valyala/gozstd (the reference C library); pure Go
// builds use klauspost/compress/zstd. Both produce standard Zstandard frames,
// so either build decodes the other's output.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

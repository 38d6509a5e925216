// Package compress provides general-purpose codecs abiz compares its output against.
//
// abiz files are never wrapped in a second compression stage. These codecs only
// serve the size report: after a run, the same input can be compressed with
// each baseline so the Huffman result can be put in perspective.
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): passes data through, the zero baseline
//   - Zstd (format.CompressionZstd): klauspost/compress/zstd, or valyala/gozstd when built with cgo
//   - S2 (format.CompressionS2): klauspost/compress/s2
//   - LZ4 (format.CompressionLZ4): pierrec/lz4/v4 block format
//   - Huff0 (format.CompressionHuff0): klauspost/compress/huff0, an order-0
//     Huffman coder with a compact table, in 64 KiB blocks
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	stats, err := compress.Measure(codec, format.CompressionZstd, data)
//	fmt.Printf("%s: %d -> %d bytes\n", stats.Algorithm, stats.OriginalSize, stats.CompressedSize)
//
// # Thread Safety
//
// All codecs are stateless values; encoders and decoders that benefit from
// reuse are kept in sync.Pools, so every codec is safe for concurrent use.
package compress

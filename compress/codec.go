package compress

import (
	"bytes"
	"fmt"
	"time"

	"github.com/arloliu/abiz/format"
)

// Compressor compresses a complete input buffer.
type Compressor interface {
	// Compress compresses data and returns the compressed result.
	//
	// The returned slice may alias data for pass-through codecs; data is never modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor of the same algorithm.
type Decompressor interface {
	// Decompress decompresses data and returns the original bytes.
	//
	// It returns an error if data is corrupted or was produced by another algorithm.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CompressionStats describes one baseline compression of an input.
type CompressionStats struct {
	// Algorithm identifies the compression algorithm used
	Algorithm format.CompressionType

	// OriginalSize is the size of input data before compression
	OriginalSize int64

	// CompressedSize is the size of data after compression
	CompressedSize int64

	// CompressionTime is the time taken to compress the data
	CompressionTime time.Duration

	// DecompressionTime is the time taken to decompress the data, zero if not measured
	DecompressionTime time.Duration
}

// CompressionRatio returns the compression ratio (compressed size / original size).
//
// Values below 1.0 mean the codec saved space. Returns 0.0 for an empty input.
func (s CompressionStats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space savings as a percentage.
func (s CompressionStats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// Measure compresses data with codec, decompresses the result and checks
// that it matches data.
//
// Returns:
//   - CompressionStats: Sizes and timings of the round trip
//   - error: Codec errors, or a mismatch error if the round trip is lossy
func Measure(codec Codec, algorithm format.CompressionType, data []byte) (CompressionStats, error) {
	stats := CompressionStats{Algorithm: algorithm, OriginalSize: int64(len(data))}

	start := time.Now()
	compressed, err := codec.Compress(data)
	stats.CompressionTime = time.Since(start)
	if err != nil {
		return stats, fmt.Errorf("%s compression failed: %w", algorithm, err)
	}
	stats.CompressedSize = int64(len(compressed))

	start = time.Now()
	restored, err := codec.Decompress(compressed)
	stats.DecompressionTime = time.Since(start)
	if err != nil {
		return stats, fmt.Errorf("%s decompression failed: %w", algorithm, err)
	}
	if !bytes.Equal(restored, data) {
		return stats, fmt.Errorf("%s round trip mismatch: got %d bytes, want %d", algorithm, len(restored), len(data))
	}

	return stats, nil
}

// CreateCodec is a factory function that creates a Codec based on the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, LZ4 or Huff0)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: Invalid compression type error
func CreateCodec(compressionType format.CompressionType) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	case format.CompressionHuff0:
		return NewHuff0Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid baseline compression: %s", compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone:  NewNoOpCompressor(),
	format.CompressionZstd:  NewZstdCompressor(),
	format.CompressionS2:    NewS2Compressor(),
	format.CompressionLZ4:   NewLZ4Compressor(),
	format.CompressionHuff0: NewHuff0Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

package abiz

import (
	"time"

	"github.com/arloliu/abiz/compress"
)

// Stats reports the metrics of one run.
type Stats struct {
	// OriginalSize is the size of the uncompressed data in bytes.
	OriginalSize int64
	// HeaderSize is the size of the serialized code table header in bytes.
	HeaderSize int64
	// PayloadSize is the size of the packed payload, ceil(TotalBits / 8).
	PayloadSize int64
	// TotalBits is the number of code bits in the payload, excluding padding.
	TotalBits uint64
	// Padding is the number of zero bits that complete the last payload byte (0-7).
	Padding uint8
	// Symbols is the number of distinct byte values.
	Symbols int
	// InputDigest is the xxHash64 of the uncompressed data.
	InputDigest uint64
	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
	// Baselines holds the results of the comparison codecs, if any were requested.
	Baselines []compress.CompressionStats
}

// CompressedSize returns the size of the whole abiz stream: header plus payload.
func (s Stats) CompressedSize() int64 {
	return s.HeaderSize + s.PayloadSize
}

// CompressionRatio returns the compressed size divided by the original size.
//
// Returns 0.0 if the original size is zero.
func (s Stats) CompressionRatio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize()) / float64(s.OriginalSize)
}

// SpaceSavings returns the space saved as a percentage of the original size.
func (s Stats) SpaceSavings() float64 {
	return (1.0 - s.CompressionRatio()) * 100.0
}

// BitsPerByte returns the average code length in bits, excluding padding.
func (s Stats) BitsPerByte() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.TotalBits) / float64(s.OriginalSize)
}

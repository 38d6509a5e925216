package format

import "strings"

type CompressionType uint8

const (
	// FileExtension is the conventional extension of abiz files. It is not validated.
	FileExtension = ".abiz"

	MaxSymbols    = 256 // MaxSymbols is the number of distinct byte values.
	MaxCodeLength = 255 // MaxCodeLength is the longest code the one-byte length field can hold.
	MaxPadding    = 7   // MaxPadding is the largest number of trailing zero bits in a payload.
)

const (
	CompressionNone  CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd  CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2    CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4   CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
	CompressionHuff0 CompressionType = 0x5 // CompressionHuff0 represents Huff0 entropy coding.
)

// BaselineTypes lists the general-purpose codecs abiz can compare itself against.
var BaselineTypes = []CompressionType{
	CompressionZstd,
	CompressionS2,
	CompressionLZ4,
	CompressionHuff0,
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionHuff0:
		return "Huff0"
	default:
		return "Unknown"
	}
}

// ParseCompressionType parses a case-insensitive codec name such as "zstd" or "huff0".
func ParseCompressionType(name string) (CompressionType, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	case "huff0":
		return CompressionHuff0, true
	default:
		return 0, false
	}
}

// Package abiz compresses arbitrary binary data with a static, byte-oriented
// Huffman code.
//
// A run counts the byte values of the whole input, builds a minimum-redundancy
// prefix code, and writes a stream made of a header (the code table and the
// padding count) followed by the bit-packed codes of every input byte.
//
// # Core Features
//
//   - Optimal prefix code per input with a deterministic tie-break rule
//   - Self-describing header, no out-of-band table needed to decode
//   - Atomic file output: a failed run never leaves a partial .abiz file
//   - Optional round-trip verification with xxHash64 digests
//   - Optional size comparison against Zstd, S2, LZ4 and Huff0
//
// # Basic Usage
//
// Compressing and decompressing in memory:
//
//	out, stats, err := abiz.Compress(data)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d -> %d bytes, padding %d\n", stats.OriginalSize, stats.CompressedSize(), stats.Padding)
//
//	restored, err := abiz.Decompress(out)
//
// Compressing a file:
//
//	stats, err := abiz.CompressFile(abiz.FileConfig{InputPath: "report.csv"},
//	    abiz.WithVerify(true),
//	    abiz.WithBaselines(format.CompressionZstd, format.CompressionHuff0),
//	)
//
// # Errors
//
// All failures are returned, never logged and swallowed. Use errors.Is with
// the sentinels in package errs: ErrEmptyInput for an empty input, ErrIO for
// file system failures, ErrFormatOverflow when the code table does not fit
// the header, and the decoding errors for malformed streams.
//
// # Concurrency
//
// Every run owns its frequency table, tree and code table. The functions of
// this package are safe to call from multiple goroutines.
package abiz

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/arloliu/abiz/compress"
	"github.com/arloliu/abiz/encoding"
	"github.com/arloliu/abiz/errs"
	"github.com/arloliu/abiz/huffman"
	"github.com/arloliu/abiz/internal/hash"
	"github.com/arloliu/abiz/internal/pool"
	"github.com/arloliu/abiz/section"
)

// Compress compresses data into a new abiz stream.
//
// Parameters:
//   - data: Input bytes; must not be empty
//   - opts: Optional configuration (WithLogger, WithVerify, WithBaselines)
//
// Returns:
//   - []byte: Header followed by the packed payload
//   - Stats: Size metrics of the run
//   - error: ErrEmptyInput, ErrFormatOverflow, ErrVerifyMismatch or an option error
func Compress(data []byte, opts ...Option) ([]byte, Stats, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, Stats{}, err
	}

	buf := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(buf)

	stats, err := compressInto(buf, data, cfg)
	if err != nil {
		return nil, stats, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, stats, nil
}

// CompressTo compresses data and writes the abiz stream to w.
//
// The header is written before any payload byte. Nothing is written to w
// if encoding fails.
func CompressTo(w io.Writer, data []byte, opts ...Option) (Stats, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return Stats{}, err
	}

	buf := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(buf)

	stats, err := compressInto(buf, data, cfg)
	if err != nil {
		return stats, err
	}

	if _, err := buf.WriteTo(w); err != nil {
		return stats, fmt.Errorf("%w: write stream: %w", errs.ErrIO, err)
	}

	return stats, nil
}

// compressInto runs the whole pipeline and appends the stream to buf.
func compressInto(buf *pool.ByteBuffer, data []byte, cfg *Config) (Stats, error) {
	start := time.Now()
	stats := Stats{OriginalSize: int64(len(data))}

	freq := huffman.CountFrequencies(data)
	root, err := huffman.BuildTree(freq)
	if err != nil {
		return stats, err
	}
	codes, err := huffman.GenerateCodes(root)
	if err != nil {
		return stats, err
	}

	totalBits, err := codes.TotalBits(freq)
	if err != nil {
		return stats, err
	}
	padding := huffman.Padding(totalBits)

	header, err := section.NewHeader(codes, padding)
	if err != nil {
		return stats, err
	}

	stats.Symbols = freq.Symbols()
	stats.TotalBits = totalBits
	stats.Padding = padding
	stats.HeaderSize = int64(header.Size())
	stats.PayloadSize = int64(huffman.PayloadSize(totalBits))
	stats.InputDigest = hash.Sum(data)

	cfg.Logger.Debug("code table built",
		slog.Int("symbols", stats.Symbols),
		slog.Int("max_code_length", codes.MaxLength()),
		slog.Uint64("total_bits", totalBits),
		slog.Int("padding", int(padding)),
	)

	base := buf.Len()
	buf.Grow(int(stats.HeaderSize + stats.PayloadSize))
	if buf.B, err = header.AppendTo(buf.B); err != nil {
		return stats, err
	}
	if _, err := encoding.PackPayload(buf, data, codes, padding); err != nil {
		return stats, err
	}

	if cfg.Verify {
		if err := verifyStream(buf.Bytes()[base:], stats.InputDigest); err != nil {
			return stats, err
		}
		cfg.Logger.Debug("round trip verified", slog.Uint64("digest", stats.InputDigest))
	}

	if len(cfg.Baselines) > 0 {
		stats.Baselines, err = measureBaselines(data, cfg)
		if err != nil {
			return stats, err
		}
	}

	stats.Elapsed = time.Since(start)
	cfg.Logger.Debug("compression finished",
		slog.Int64("original_size", stats.OriginalSize),
		slog.Int64("compressed_size", stats.CompressedSize()),
		slog.Duration("elapsed", stats.Elapsed),
	)

	return stats, nil
}

func verifyStream(stream []byte, digest uint64) error {
	decoded, _, err := decompress(stream)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrVerifyMismatch, err)
	}
	if got := hash.Sum(decoded); got != digest {
		return fmt.Errorf("%w: digest %#016x, want %#016x", errs.ErrVerifyMismatch, got, digest)
	}

	return nil
}

func measureBaselines(data []byte, cfg *Config) ([]compress.CompressionStats, error) {
	results := make([]compress.CompressionStats, 0, len(cfg.Baselines))
	for _, typ := range cfg.Baselines {
		codec, err := compress.GetCodec(typ)
		if err != nil {
			return nil, err
		}
		stats, err := compress.Measure(codec, typ, data)
		if err != nil {
			return nil, err
		}
		cfg.Logger.Debug("baseline measured",
			slog.String("codec", typ.String()),
			slog.Int64("compressed_size", stats.CompressedSize),
		)
		results = append(results, stats)
	}

	return results, nil
}

// Decompress decodes an abiz stream.
//
// Returns:
//   - []byte: The original data
//   - error: ErrTruncatedHeader, ErrInvalidHeader, ErrInvalidPadding, ErrInvalidCode or ErrCorruptPayload
func Decompress(data []byte) ([]byte, error) {
	out, _, err := decompress(data)
	return out, err
}

// DecompressFrom reads a whole abiz stream from r and decodes it.
func DecompressFrom(r io.Reader, opts ...Option) ([]byte, Stats, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, Stats{}, err
	}

	start := time.Now()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w: read stream: %w", errs.ErrIO, err)
	}

	out, stats, err := decompress(data)
	if err != nil {
		return nil, stats, err
	}
	stats.Elapsed = time.Since(start)

	cfg.Logger.Debug("decompression finished",
		slog.Int64("compressed_size", stats.CompressedSize()),
		slog.Int64("original_size", stats.OriginalSize),
		slog.Duration("elapsed", stats.Elapsed),
	)

	return out, stats, nil
}

func decompress(data []byte) ([]byte, Stats, error) {
	header, n, err := section.ParseHeader(data)
	if err != nil {
		return nil, Stats{}, err
	}
	tree, err := huffman.NewDecodeTree(header.Codes)
	if err != nil {
		return nil, Stats{}, err
	}

	payload := data[n:]
	stats := Stats{
		HeaderSize:  int64(n),
		PayloadSize: int64(len(payload)),
		Padding:     header.Padding,
		Symbols:     header.Codes.Len(),
	}
	if len(payload) > 0 {
		stats.TotalBits = uint64(len(payload))*8 - uint64(header.Padding)
	}

	out, err := encoding.UnpackPayload(make([]byte, 0, len(payload)*2), payload, tree, header.Padding)
	if err != nil {
		return nil, stats, err
	}
	stats.OriginalSize = int64(len(out))
	stats.InputDigest = hash.Sum(out)

	return out, stats, nil
}

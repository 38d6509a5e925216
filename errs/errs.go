// Package errs defines the sentinel errors returned by abiz.
//
// Callers should match them with errors.Is; call sites wrap them with
// additional context using fmt.Errorf("...: %w", err).
package errs

import "errors"

// Input and configuration errors.
var (
	// ErrEmptyInput is returned when the input has no bytes, so no code table can be built.
	ErrEmptyInput = errors.New("empty input")
	// ErrInvalidConfig is returned when a FileConfig is missing a required path.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrOutputExists is returned when the output file exists and overwrite is not allowed.
	ErrOutputExists = errors.New("output file already exists")
	// ErrIO wraps any failure opening, reading, writing or renaming files.
	ErrIO = errors.New("i/o failure")
)

// Encoding errors.
var (
	// ErrFormatOverflow is returned when the code table does not fit the one-byte header fields.
	ErrFormatOverflow = errors.New("code table exceeds header format capacity")
	// ErrInvalidTree is returned when a Huffman tree cannot produce a code table.
	ErrInvalidTree = errors.New("invalid huffman tree")
	// ErrInvalidCode is returned for malformed codes, non prefix-free tables, or symbols without a code.
	ErrInvalidCode = errors.New("invalid code")
	// ErrInvalidPadding is returned when the padding count is outside 0-7 or does not align the payload.
	ErrInvalidPadding = errors.New("invalid padding")
)

// Decoding errors.
var (
	// ErrInvalidHeader is returned when the header bytes are malformed.
	ErrInvalidHeader = errors.New("invalid header")
	// ErrTruncatedHeader is returned when the data ends before the header is complete.
	ErrTruncatedHeader = errors.New("truncated header")
	// ErrCorruptPayload is returned when the payload bits do not decode with the header's code table.
	ErrCorruptPayload = errors.New("corrupt payload")
	// ErrVerifyMismatch is returned when a verification round trip does not reproduce the input.
	ErrVerifyMismatch = errors.New("verification mismatch")
)

package section

import (
	"fmt"
	"io"

	"github.com/arloliu/abiz/errs"
	"github.com/arloliu/abiz/format"
	"github.com/arloliu/abiz/huffman"
)

const (
	bitZero = '0'
	bitOne  = '1'
)

// Header is the self-describing prefix of an abiz stream: the code table
// used for the payload and the number of padding bits at its end.
type Header struct {
	// Codes maps each symbol present in the payload to its code.
	Codes *huffman.CodeTable
	// Padding is the number of zero bits appended to the last payload byte (0-7).
	Padding uint8
}

// NewHeader creates a header and validates it against the format limits.
//
// Returns:
//   - *Header: Header ready for serialization
//   - error: ErrEmptyInput, ErrFormatOverflow or ErrInvalidPadding
func NewHeader(codes *huffman.CodeTable, padding uint8) (*Header, error) {
	h := &Header{Codes: codes, Padding: padding}
	if err := h.Validate(); err != nil {
		return nil, err
	}

	return h, nil
}

// Validate checks that the header fits the one-byte fields of the format.
func (h *Header) Validate() error {
	if h.Codes == nil || h.Codes.Len() == 0 {
		return fmt.Errorf("%w: header has no symbols", errs.ErrEmptyInput)
	}
	if h.Codes.Len() > format.MaxSymbols {
		return fmt.Errorf("%w: %d symbols", errs.ErrFormatOverflow, h.Codes.Len())
	}
	if l := h.Codes.MaxLength(); l > format.MaxCodeLength {
		return fmt.Errorf("%w: code length %d exceeds %d bits", errs.ErrFormatOverflow, l, format.MaxCodeLength)
	}
	if h.Padding > format.MaxPadding {
		return fmt.Errorf("%w: %d", errs.ErrInvalidPadding, h.Padding)
	}

	return nil
}

// Size returns the serialized size of the header in bytes.
func (h *Header) Size() int {
	size := 2 // symbol count + padding
	for _, code := range h.Codes.All() {
		size += 2 + len(code)
	}

	return size
}

// AppendTo appends the serialized header to dst.
//
// Layout:
//
//	Bytes   | Field       | Description
//	--------|-------------|-------------------------------------------
//	0       | Count       | number of symbols - 1
//	1       | Symbol      | first symbol (ascending byte order)
//	2       | Length      | code length in bits (1-255)
//	3..     | Code        | one ASCII '0' or '1' per code bit
//	...     |             | repeated for every symbol
//	last    | Padding     | zero bits at the end of the payload (0-7)
func (h *Header) AppendTo(dst []byte) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return dst, err
	}

	dst = append(dst, byte(h.Codes.Len()-1))
	for symbol, code := range h.Codes.All() {
		dst = append(dst, symbol, byte(len(code)))
		dst = append(dst, code...)
	}
	dst = append(dst, h.Padding)

	return dst, nil
}

// Bytes serializes the header into a new byte slice.
func (h *Header) Bytes() ([]byte, error) {
	if h.Codes == nil {
		return nil, fmt.Errorf("%w: header has no symbols", errs.ErrEmptyInput)
	}

	return h.AppendTo(make([]byte, 0, h.Size()))
}

// WriteTo writes the serialized header to w.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	b, err := h.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(b)

	return int64(n), err
}

// ParseHeader parses a header from the start of data.
//
// Parameters:
//   - data: Byte slice starting with a serialized header; trailing payload bytes are allowed
//
// Returns:
//   - *Header: Parsed header with a prefix-free code table
//   - int: Number of bytes consumed by the header
//   - error: ErrTruncatedHeader, ErrInvalidHeader, ErrInvalidPadding or ErrInvalidCode
func ParseHeader(data []byte) (*Header, int, error) {
	if len(data) < 1 {
		return nil, 0, fmt.Errorf("%w: missing symbol count", errs.ErrTruncatedHeader)
	}

	count := int(data[0]) + 1
	codes := huffman.NewCodeTable()
	off := 1

	for i := 0; i < count; i++ {
		if len(data)-off < 2 {
			return nil, 0, fmt.Errorf("%w: entry %d of %d", errs.ErrTruncatedHeader, i, count)
		}

		symbol, length := data[off], int(data[off+1])
		off += 2

		if length == 0 {
			return nil, 0, fmt.Errorf("%w: symbol %#02x has an empty code", errs.ErrInvalidHeader, symbol)
		}
		if len(data)-off < length {
			return nil, 0, fmt.Errorf("%w: code of symbol %#02x", errs.ErrTruncatedHeader, symbol)
		}
		if codes.Has(symbol) {
			return nil, 0, fmt.Errorf("%w: duplicate symbol %#02x", errs.ErrInvalidHeader, symbol)
		}

		code := data[off : off+length]
		for _, c := range code {
			if c != bitZero && c != bitOne {
				return nil, 0, fmt.Errorf("%w: symbol %#02x has code digit %#02x", errs.ErrInvalidHeader, symbol, c)
			}
		}
		if err := codes.Set(symbol, string(code)); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", errs.ErrInvalidHeader, err)
		}
		off += length
	}

	if len(data)-off < 1 {
		return nil, 0, fmt.Errorf("%w: missing padding", errs.ErrTruncatedHeader)
	}
	padding := data[off]
	off++

	if padding > format.MaxPadding {
		return nil, 0, fmt.Errorf("%w: %d", errs.ErrInvalidPadding, padding)
	}
	if !codes.IsPrefixFree() {
		return nil, 0, fmt.Errorf("%w: code table is not prefix-free", errs.ErrInvalidCode)
	}

	return &Header{Codes: codes, Padding: padding}, off, nil
}

package encoding

import (
	"fmt"
	"io"

	"github.com/arloliu/abiz/errs"
	"github.com/arloliu/abiz/format"
	"github.com/arloliu/abiz/huffman"
)

// packedCode is a code in the form the packer writes it: short codes as a
// single (value, length) pair, longer ones as their digit string.
type packedCode struct {
	digits string
	value  uint64
	length uint
}

func buildLookup(codes *huffman.CodeTable) [256]packedCode {
	var lookup [256]packedCode
	for symbol, code := range codes.All() {
		pc := packedCode{length: uint(len(code))}
		if len(code) <= maxWriteBits {
			pc.value = digitsToBits(code)
		} else {
			pc.digits = code
		}
		lookup[symbol] = pc
	}

	return lookup
}

// PackPayload writes the code of every byte of data, in input order, to dst,
// followed by padding zero bits.
//
// Parameters:
//   - dst: Destination of the payload bytes
//   - data: Input bytes; every value must have a code in codes
//   - codes: Code table built for data
//   - padding: Number of zero bits that completes the last byte (0-7)
//
// Returns:
//   - uint64: Number of payload bits written, including padding (always a multiple of 8)
//   - error: ErrInvalidCode for a byte without code, ErrInvalidPadding if the
//     padding does not end the stream on a byte boundary, or the write error of dst
func PackPayload(dst io.ByteWriter, data []byte, codes *huffman.CodeTable, padding uint8) (uint64, error) {
	if padding > format.MaxPadding {
		return 0, fmt.Errorf("%w: %d", errs.ErrInvalidPadding, padding)
	}

	lookup := buildLookup(codes)
	bw := NewBitWriter(dst)

	for i, b := range data {
		pc := &lookup[b]
		switch {
		case pc.length == 0:
			return bw.Total(), fmt.Errorf("%w: byte %#02x at offset %d has no code", errs.ErrInvalidCode, b, i)
		case pc.digits != "":
			bw.WriteDigits(pc.digits)
		default:
			bw.WriteBits(pc.value, pc.length)
		}

		if bw.Err() != nil {
			return bw.Total(), bw.Err()
		}
	}

	if pending := bw.Pending(); (pending+uint(padding))%8 != 0 {
		return bw.Total(), fmt.Errorf("%w: %d pending bits with %d padding bits", errs.ErrInvalidPadding, pending, padding)
	}
	bw.WriteBits(0, uint(padding))
	if bw.Err() != nil {
		return bw.Total(), bw.Err()
	}

	return bw.Total(), nil
}

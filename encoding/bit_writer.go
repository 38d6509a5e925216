package encoding

import "io"

// maxWriteBits is the largest chunk WriteBits accepts; with fewer than 8
// pending bits the accumulator never exceeds 63 bits.
const maxWriteBits = 56

// BitWriter accumulates bits MSB first and emits each completed byte to an
// io.ByteWriter.
//
// The first write error is latched: later writes are no-ops and Err returns it.
type BitWriter struct {
	w     io.ByteWriter
	err   error
	acc   uint64 // pending bits in the low nbits positions
	nbits uint
	total uint64 // bits written so far, including flushed ones
}

// NewBitWriter creates a BitWriter emitting bytes to w.
func NewBitWriter(w io.ByteWriter) *BitWriter {
	return &BitWriter{w: w}
}

// WriteBits appends the n low bits of value, most significant first.
// n must not exceed 56.
func (bw *BitWriter) WriteBits(value uint64, n uint) {
	if bw.err != nil || n == 0 {
		return
	}

	bw.acc = bw.acc<<n | value&(1<<n-1)
	bw.nbits += n
	bw.total += uint64(n)

	for bw.nbits >= 8 {
		bw.nbits -= 8
		if err := bw.w.WriteByte(byte(bw.acc >> bw.nbits)); err != nil {
			bw.err = err
			return
		}
	}
	bw.acc &= 1<<bw.nbits - 1
}

// WriteDigits appends a code given as '0' / '1' characters.
func (bw *BitWriter) WriteDigits(code string) {
	for len(code) > 0 {
		n := min(len(code), maxWriteBits)
		bw.WriteBits(digitsToBits(code[:n]), uint(n))
		code = code[n:]
	}
}

// Pending returns the number of bits not yet emitted as a full byte.
func (bw *BitWriter) Pending() uint {
	return bw.nbits
}

// Total returns the number of bits written since creation.
func (bw *BitWriter) Total() uint64 {
	return bw.total
}

// Err returns the first error reported by the underlying writer.
func (bw *BitWriter) Err() error {
	return bw.err
}

// digitsToBits converts up to 64 '0' / '1' characters into their binary value.
func digitsToBits(digits string) uint64 {
	var v uint64
	for i := 0; i < len(digits); i++ {
		v = v<<1 | uint64(digits[i]-'0')
	}

	return v
}

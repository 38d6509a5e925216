// Package encoding packs Huffman codes into a byte-aligned bit stream and back.
//
// Bits are packed most significant bit first: the first code bit of the first
// input byte becomes bit 7 of the first payload byte. A run of the packer
// goes through these states:
//
//	ACCUMULATING -> (>= 8 bits) -> FLUSH_BYTE -> ACCUMULATING -> ...
//	  -> END_OF_INPUT -> FLUSH_WITH_PADDING -> DONE
//
// The padding is computed before packing from the code table and the input
// frequencies (see huffman.Padding), so the packer can verify that the
// stream ends exactly on a byte boundary.
//
// Decoding is a tree walk over huffman.DecodeTree that consumes exactly
// len(payload)*8 - padding bits.
package encoding

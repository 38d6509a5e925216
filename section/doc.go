// Package section defines the binary layout of an abiz stream.
//
// An abiz stream is a header followed by the packed payload:
//
//	┌──────────────────────────────────────────────────────────┐
//	│ Header (variable)                                        │
//	│  - Count (1 byte): number of symbols - 1                 │
//	│  - Entries, ascending by symbol:                         │
//	│      Symbol (1 byte), Length (1 byte),                   │
//	│      Length bytes of ASCII '0' / '1'                     │
//	│  - Padding (1 byte): 0-7                                 │
//	├──────────────────────────────────────────────────────────┤
//	│ Payload (variable)                                       │
//	│  - Codes of the input bytes, MSB first                   │
//	│  - Padding zero bits at the end of the last byte         │
//	└──────────────────────────────────────────────────────────┘
//
// Code bits in the header are stored as their ASCII digit characters rather
// than packed bits. This is format version 1 and is kept bit-exact so files
// stay readable by every version of the tool; it costs one byte per code bit
// in the header only.
//
// The one-byte fields bound the format to 256 symbols (always true for a byte
// alphabet) and to codes of at most 255 bits. Exceeding either limit is
// reported as errs.ErrFormatOverflow.
//
// Example:
//
//	h, err := section.NewHeader(codes, padding)
//	buf, err := h.AppendTo(buf)
//
//	parsed, n, err := section.ParseHeader(data)
//	payload := data[n:]
package section

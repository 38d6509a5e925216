package huffman

import (
	"fmt"
	"iter"
	"strings"
)

// FrequencyTable maps each byte value present in the input to its occurrence count.
//
// The table is immutable after creation. The sum of all counts equals the
// length of the counted input.
type FrequencyTable struct {
	counts  [256]uint64
	symbols int
	total   uint64
}

// CountFrequencies scans data once and counts every byte value.
//
// An empty input produces an empty table.
func CountFrequencies(data []byte) *FrequencyTable {
	f := &FrequencyTable{}
	for _, b := range data {
		f.counts[b]++
	}
	f.finalize()

	return f
}

// NewFrequencyTable creates a table from explicit counts. Zero counts are ignored.
func NewFrequencyTable(counts map[byte]uint64) *FrequencyTable {
	f := &FrequencyTable{}
	for b, c := range counts {
		f.counts[b] = c
	}
	f.finalize()

	return f
}

func (f *FrequencyTable) finalize() {
	for _, c := range f.counts {
		if c > 0 {
			f.symbols++
			f.total += c
		}
	}
}

// Count returns the number of occurrences of symbol.
func (f *FrequencyTable) Count(symbol byte) uint64 {
	return f.counts[symbol]
}

// Symbols returns the number of distinct byte values.
func (f *FrequencyTable) Symbols() int {
	return f.symbols
}

// Total returns the sum of all counts, i.e. the length of the counted input.
func (f *FrequencyTable) Total() uint64 {
	return f.total
}

// IsEmpty reports whether the table has no symbols.
func (f *FrequencyTable) IsEmpty() bool {
	return f.symbols == 0
}

// All iterates over the present symbols in ascending byte order.
func (f *FrequencyTable) All() iter.Seq2[byte, uint64] {
	return func(yield func(byte, uint64) bool) {
		for i, c := range f.counts {
			if c == 0 {
				continue
			}
			if !yield(byte(i), c) {
				return
			}
		}
	}
}

func (f *FrequencyTable) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for b, c := range f.All() {
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		fmt.Fprintf(&sb, "%#02x:%d", b, c)
	}
	sb.WriteByte('}')

	return sb.String()
}

package huffman

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/arloliu/abiz/errs"
)

// CodeTable maps byte values to prefix codes.
//
// A code is stored as a string of '0' and '1' characters, most significant
// bit first. Iteration is always in ascending byte order, which is also the
// order entries are serialized in the header.
type CodeTable struct {
	codes [256]string
	n     int
}

// NewCodeTable creates an empty code table.
func NewCodeTable() *CodeTable {
	return &CodeTable{}
}

// GenerateCodes walks the tree rooted at root and assigns each leaf the path
// leading to it: '0' for a left edge, '1' for a right edge.
//
// Returns:
//   - *CodeTable: One non-empty code per leaf
//   - error: ErrInvalidTree if the root is a bare leaf or an internal node lacks a left child
func GenerateCodes(root *Node) (*CodeTable, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil root", errs.ErrInvalidTree)
	}
	if root.IsLeaf() {
		return nil, fmt.Errorf("%w: root is a leaf", errs.ErrInvalidTree)
	}

	t := NewCodeTable()
	path := make([]byte, 0, 32)
	if err := t.walk(root, path); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *CodeTable) walk(n *Node, path []byte) error {
	if n.IsLeaf() {
		if t.Has(n.Symbol) {
			return fmt.Errorf("%w: duplicate leaf for symbol %#02x", errs.ErrInvalidTree, n.Symbol)
		}

		return t.Set(n.Symbol, string(path))
	}

	if n.Left == nil {
		return fmt.Errorf("%w: internal node without left child", errs.ErrInvalidTree)
	}
	if err := t.walk(n.Left, append(path, '0')); err != nil {
		return err
	}
	if n.Right != nil {
		return t.walk(n.Right, append(path, '1'))
	}

	return nil
}

// Set assigns code to symbol, replacing any previous code.
//
// The code must be non-empty and consist only of '0' and '1' characters.
func (t *CodeTable) Set(symbol byte, code string) error {
	if code == "" {
		return fmt.Errorf("%w: empty code for symbol %#02x", errs.ErrInvalidCode, symbol)
	}
	for i := 0; i < len(code); i++ {
		if code[i] != '0' && code[i] != '1' {
			return fmt.Errorf("%w: symbol %#02x has non-binary digit %q", errs.ErrInvalidCode, symbol, code[i])
		}
	}

	if t.codes[symbol] == "" {
		t.n++
	}
	t.codes[symbol] = code

	return nil
}

// Code returns the code of symbol and whether the symbol is present.
func (t *CodeTable) Code(symbol byte) (string, bool) {
	code := t.codes[symbol]
	return code, code != ""
}

// Has reports whether symbol has a code.
func (t *CodeTable) Has(symbol byte) bool {
	return t.codes[symbol] != ""
}

// Len returns the number of symbols with a code.
func (t *CodeTable) Len() int {
	return t.n
}

// All iterates over (symbol, code) pairs in ascending byte order.
func (t *CodeTable) All() iter.Seq2[byte, string] {
	return func(yield func(byte, string) bool) {
		for i, code := range t.codes {
			if code == "" {
				continue
			}
			if !yield(byte(i), code) {
				return
			}
		}
	}
}

// MaxLength returns the length of the longest code.
func (t *CodeTable) MaxLength() int {
	maxLen := 0
	for _, code := range t.codes {
		maxLen = max(maxLen, len(code))
	}

	return maxLen
}

// TotalBits returns the number of payload bits needed to encode an input with
// the given frequencies: the sum over symbols of count times code length.
func (t *CodeTable) TotalBits(freq *FrequencyTable) (uint64, error) {
	var total uint64
	for b, c := range freq.All() {
		code, ok := t.Code(b)
		if !ok {
			return 0, fmt.Errorf("%w: no code for symbol %#02x", errs.ErrInvalidCode, b)
		}
		total += c * uint64(len(code))
	}

	return total, nil
}

// IsPrefixFree reports whether no code is a prefix of another code.
func (t *CodeTable) IsPrefixFree() bool {
	codes := make([]string, 0, t.n)
	for _, code := range t.All() {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	// in lexicographic order a prefix sorts immediately before some code it prefixes
	for i := 1; i < len(codes); i++ {
		if strings.HasPrefix(codes[i], codes[i-1]) {
			return false
		}
	}

	return true
}

// Equal reports whether both tables hold the same symbols with the same codes.
func (t *CodeTable) Equal(other *CodeTable) bool {
	if other == nil {
		return false
	}

	return t.codes == other.codes
}

func (t *CodeTable) String() string {
	var sb strings.Builder
	for b, code := range t.All() {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%#02x:%s", b, code)
	}

	return sb.String()
}

// Padding returns the number of zero bits that round totalBits up to a whole byte.
func Padding(totalBits uint64) uint8 {
	return uint8((8 - totalBits%8) % 8)
}

// PayloadSize returns the number of payload bytes needed for totalBits, i.e. ceil(totalBits / 8).
func PayloadSize(totalBits uint64) uint64 {
	return (totalBits + 7) / 8
}

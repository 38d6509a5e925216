package huffman

import (
	"fmt"

	"github.com/arloliu/abiz/errs"
)

const noChild = -1

type trieNode struct {
	child  [2]int32
	symbol byte
	leaf   bool
}

// DecodeTree is an array-backed binary trie rebuilt from a CodeTable.
//
// Node 0 is the root. A decoder starts at Root, follows one edge per payload
// bit with Next, and emits Symbol whenever it reaches a leaf.
type DecodeTree struct {
	nodes []trieNode
}

// NewDecodeTree builds the decoding trie for table.
//
// Returns:
//   - *DecodeTree: Trie with one leaf per symbol
//   - error: ErrEmptyInput for an empty table, ErrInvalidCode if the table is not prefix-free
func NewDecodeTree(table *CodeTable) (*DecodeTree, error) {
	if table == nil || table.Len() == 0 {
		return nil, errs.ErrEmptyInput
	}

	d := &DecodeTree{nodes: make([]trieNode, 1, 2*table.Len())}
	d.nodes[0] = newTrieNode()

	for symbol, code := range table.All() {
		if err := d.insert(symbol, code); err != nil {
			return nil, err
		}
	}

	return d, nil
}

func newTrieNode() trieNode {
	return trieNode{child: [2]int32{noChild, noChild}}
}

func (d *DecodeTree) insert(symbol byte, code string) error {
	cur := int32(0)
	for i := 0; i < len(code); i++ {
		if d.nodes[cur].leaf {
			return fmt.Errorf("%w: code of symbol %#02x extends the code of %#02x",
				errs.ErrInvalidCode, symbol, d.nodes[cur].symbol)
		}

		bit := code[i] - '0'
		next := d.nodes[cur].child[bit]
		if next == noChild {
			next = int32(len(d.nodes))
			d.nodes = append(d.nodes, newTrieNode())
			d.nodes[cur].child[bit] = next
		}
		cur = next
	}

	n := &d.nodes[cur]
	if n.leaf || n.child[0] != noChild || n.child[1] != noChild {
		return fmt.Errorf("%w: code of symbol %#02x is a prefix of another code", errs.ErrInvalidCode, symbol)
	}
	n.leaf = true
	n.symbol = symbol

	return nil
}

// Root returns the index of the root node.
func (d *DecodeTree) Root() int {
	return 0
}

// Next follows the edge labelled bit (0 or 1) from node.
//
// It returns false when the edge does not exist, which means the bit stream
// does not belong to this code table.
func (d *DecodeTree) Next(node int, bit uint8) (int, bool) {
	next := d.nodes[node].child[bit&1]
	if next == noChild {
		return 0, false
	}

	return int(next), true
}

// Symbol returns the symbol of node and whether node is a leaf.
func (d *DecodeTree) Symbol(node int) (byte, bool) {
	n := &d.nodes[node]
	return n.symbol, n.leaf
}

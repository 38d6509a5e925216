package huffman

import (
	"container/heap"
	"fmt"

	"github.com/arloliu/abiz/errs"
)

// Node is a Huffman tree node.
//
// A leaf holds a symbol and its count and has no children. An internal node
// holds the sum of its children's counts and has two children, except the
// synthetic root of a single-symbol tree which only has a left child.
type Node struct {
	Left  *Node
	Right *Node
	Count uint64

	seq    int // insertion order, used to break ties between equal counts
	Symbol byte
	leaf   bool
}

// IsLeaf reports whether the node carries a symbol.
func (n *Node) IsLeaf() bool {
	return n.leaf
}

// nodeQueue is a min-heap ordered by count, then by insertion sequence.
type nodeQueue []*Node

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].Count != q[j].Count {
		return q[i].Count < q[j].Count
	}

	return q[i].seq < q[j].seq
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) {
	n, _ := x.(*Node)
	*q = append(*q, n)
}

func (q *nodeQueue) Pop() any {
	old := *q
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*q = old[:len(old)-1]

	return n
}

// BuildTree builds a minimum-redundancy tree from freq.
//
// Nodes are merged greedily, two lowest counts first, using the tie-break
// rule described in the package documentation.
//
// Returns:
//   - *Node: Root of the tree
//   - error: ErrEmptyInput if freq has no symbols
func BuildTree(freq *FrequencyTable) (*Node, error) {
	if freq == nil || freq.IsEmpty() {
		return nil, errs.ErrEmptyInput
	}

	q := make(nodeQueue, 0, freq.Symbols())
	seq := 0
	for b, c := range freq.All() {
		q = append(q, &Node{Symbol: b, Count: c, leaf: true, seq: seq})
		seq++
	}

	if len(q) == 1 {
		only := q[0]
		return &Node{Left: only, Count: only.Count, seq: seq}, nil
	}

	heap.Init(&q)
	for q.Len() > 1 {
		a, _ := heap.Pop(&q).(*Node)
		b, _ := heap.Pop(&q).(*Node)
		heap.Push(&q, &Node{Left: a, Right: b, Count: a.Count + b.Count, seq: seq})
		seq++
	}

	root, _ := heap.Pop(&q).(*Node)
	if root == nil {
		return nil, fmt.Errorf("%w: priority queue drained", errs.ErrInvalidTree)
	}

	return root, nil
}

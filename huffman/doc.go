// Package huffman builds byte-oriented Huffman prefix codes.
//
// A compression run goes through three stages, each owning its result
// exclusively:
//
//	freq := huffman.CountFrequencies(data)   // byte value -> count
//	root, err := huffman.BuildTree(freq)     // minimum-redundancy tree
//	codes, err := huffman.GenerateCodes(root) // byte value -> "0"/"1" string
//
// # Tie-break Rule
//
// The tree builder is deterministic. Every node receives a sequence number
// when it enters the priority queue: leaves are inserted in ascending byte
// order (sequence 0..N-1) and each merged node takes the next free number.
// Among nodes with equal counts the one with the lower sequence number is
// extracted first. The first node extracted from a pair becomes the left
// child (bit '0') and the second becomes the right child (bit '1').
//
// For the input "AAABBC" this yields A="0", C="10", B="11": C (count 1) and
// B (count 2) merge first, and A wins the tie against the merged node (count 3)
// because it was inserted earlier.
//
// # Single Symbol Input
//
// When the input holds a single distinct byte value, the leaf is wrapped
// under a synthetic root with only a left child, so the symbol is coded as
// "0" rather than the empty string.
//
// # Decoding
//
// DecodeTree rebuilds an array-backed binary trie from a CodeTable, which is
// what a decoder walks bit by bit. It rejects tables that are not prefix-free.
package huffman

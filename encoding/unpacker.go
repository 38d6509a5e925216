package encoding

import (
	"fmt"

	"github.com/arloliu/abiz/errs"
	"github.com/arloliu/abiz/format"
	"github.com/arloliu/abiz/huffman"
)

// UnpackPayload decodes payload with tree and appends the symbols to dst.
//
// Exactly len(payload)*8 - padding bits are decoded; the padding bits must be zero.
//
// Returns:
//   - []byte: dst with the decoded symbols appended
//   - error: ErrInvalidPadding for padding above 7, ErrCorruptPayload if the
//     bits leave the tree, end inside a code, or the padding bits are not zero
func UnpackPayload(dst []byte, payload []byte, tree *huffman.DecodeTree, padding uint8) ([]byte, error) {
	if padding > format.MaxPadding {
		return dst, fmt.Errorf("%w: %d", errs.ErrInvalidPadding, padding)
	}

	totalBits := uint64(len(payload)) * 8
	if uint64(padding) > totalBits {
		return dst, fmt.Errorf("%w: %d padding bits in an empty payload", errs.ErrCorruptPayload, padding)
	}
	dataBits := totalBits - uint64(padding)

	root := tree.Root()
	node := root
	for i := uint64(0); i < dataBits; i++ {
		bit := payload[i>>3] >> (7 - i&7) & 1

		next, ok := tree.Next(node, bit)
		if !ok {
			return dst, fmt.Errorf("%w: no code matches the bits ending at bit %d", errs.ErrCorruptPayload, i)
		}
		node = next

		if symbol, leaf := tree.Symbol(node); leaf {
			dst = append(dst, symbol)
			node = root
		}
	}

	if node != root {
		return dst, fmt.Errorf("%w: payload ends inside a code", errs.ErrCorruptPayload)
	}

	if padding > 0 {
		last := payload[len(payload)-1]
		if last&(1<<padding-1) != 0 {
			return dst, fmt.Errorf("%w: non-zero padding bits", errs.ErrCorruptPayload)
		}
	}

	return dst, nil
}

package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/huff0"
)

// huff0BlockSize is the input size of one huff0 block, well below huff0's single block limit.
const huff0BlockSize = 64 * 1024

const (
	huff0BlockRaw  byte = 0x0 // block stored uncompressed
	huff0BlockHuff byte = 0x1 // block is a huff0 1X stream with its table
	huff0BlockRLE  byte = 0x2 // block is a single repeated byte
)

var huff0ScratchPool = sync.Pool{
	New: func() any {
		return &huff0.Scratch{}
	},
}

// Huff0Compressor compresses with huff0, the order-0 Huffman coder of Zstandard.
//
// It is the closest general-purpose relative of abiz: same statistical model,
// but a compact table and table-driven coding. Input is split into 64 KiB
// blocks, each framed as:
//
//	mode (1 byte) | original length (uvarint) | body
//
// where body is the raw bytes, a single repeated byte, or
// encoded length (uvarint) followed by the huff0 stream.
type Huff0Compressor struct{}

var _ Codec = (*Huff0Compressor)(nil)

// NewHuff0Compressor creates a new huff0 codec.
func NewHuff0Compressor() Huff0Compressor {
	return Huff0Compressor{}
}

// Compress compresses data block by block. An empty input yields nil.
func (c Huff0Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	s, _ := huff0ScratchPool.Get().(*huff0.Scratch)
	defer huff0ScratchPool.Put(s)
	s.Reuse = huff0.ReusePolicyNone

	out := make([]byte, 0, len(data)/2+16)
	for len(data) > 0 {
		block := data[:min(len(data), huff0BlockSize)]
		data = data[len(block):]

		encoded, _, err := huff0.Compress1X(block, s)
		switch {
		case err == nil:
			out = append(out, huff0BlockHuff)
			out = binary.AppendUvarint(out, uint64(len(block)))
			out = binary.AppendUvarint(out, uint64(len(encoded)))
			out = append(out, encoded...)
		case errors.Is(err, huff0.ErrUseRLE):
			out = append(out, huff0BlockRLE)
			out = binary.AppendUvarint(out, uint64(len(block)))
			out = append(out, block[0])
		case errors.Is(err, huff0.ErrIncompressible):
			out = append(out, huff0BlockRaw)
			out = binary.AppendUvarint(out, uint64(len(block)))
			out = append(out, block...)
		default:
			return nil, fmt.Errorf("huff0 compression failed: %w", err)
		}
	}

	return out, nil
}

// Decompress decodes the block sequence written by Compress.
func (c Huff0Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	out := make([]byte, 0, len(data)*2)
	for len(data) > 0 {
		mode := data[0]
		rawLen, n := binary.Uvarint(data[1:])
		if n <= 0 || rawLen > huff0BlockSize {
			return nil, errors.New("huff0: invalid block length")
		}
		data = data[1+n:]

		switch mode {
		case huff0BlockRaw:
			if uint64(len(data)) < rawLen {
				return nil, errors.New("huff0: truncated raw block")
			}
			out = append(out, data[:rawLen]...)
			data = data[rawLen:]
		case huff0BlockRLE:
			if len(data) < 1 {
				return nil, errors.New("huff0: truncated rle block")
			}
			for i := uint64(0); i < rawLen; i++ {
				out = append(out, data[0])
			}
			data = data[1:]
		case huff0BlockHuff:
			encLen, m := binary.Uvarint(data)
			if m <= 0 || uint64(len(data)-m) < encLen {
				return nil, errors.New("huff0: truncated huffman block")
			}
			block, err := decodeHuff0Block(data[m:m+int(encLen)], int(rawLen))
			if err != nil {
				return nil, err
			}
			out = append(out, block...)
			data = data[m+int(encLen):]
		default:
			return nil, fmt.Errorf("huff0: unknown block mode %#x", mode)
		}
	}

	return out, nil
}

func decodeHuff0Block(encoded []byte, rawLen int) ([]byte, error) {
	s, remain, err := huff0.ReadTable(encoded, nil)
	if err != nil {
		return nil, fmt.Errorf("huff0 table: %w", err)
	}
	s.MaxDecodedSize = rawLen

	block, err := s.Decompress1X(remain)
	if err != nil {
		return nil, fmt.Errorf("huff0 decompression failed: %w", err)
	}
	if len(block) != rawLen {
		return nil, fmt.Errorf("huff0: decoded %d bytes, want %d", len(block), rawLen)
	}

	return block, nil
}

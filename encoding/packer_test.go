package encoding

import (
	"bufio"
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/abiz/errs"
	"github.com/arloliu/abiz/huffman"
	"github.com/arloliu/abiz/internal/pool"
)

func codeTable(t *testing.T, codes map[byte]string) *huffman.CodeTable {
	t.Helper()

	table := huffman.NewCodeTable()
	for b, code := range codes {
		require.NoError(t, table.Set(b, code))
	}

	return table
}

// ==============================================================================
// BitWriter Tests
// ==============================================================================

func TestBitWriter_MSBFirst(t *testing.T) {
	var buf bytes.Buffer
	bw := NewBitWriter(&buf)

	bw.WriteBits(0b1, 1)
	bw.WriteBits(0b01, 2)
	bw.WriteBits(0b10110, 5)
	require.Equal(t, []byte{0b10110110}, buf.Bytes())
	require.Equal(t, uint(0), bw.Pending())

	bw.WriteBits(0b111, 3)
	require.Equal(t, uint(3), bw.Pending())
	bw.WriteBits(0, 5)
	require.Equal(t, []byte{0b10110110, 0b11100000}, buf.Bytes())
	require.Equal(t, uint64(16), bw.Total())
}

func TestBitWriter_IgnoresHighBits(t *testing.T) {
	var buf bytes.Buffer
	bw := NewBitWriter(&buf)

	bw.WriteBits(0xFF, 4)
	bw.WriteBits(0, 4)
	require.Equal(t, []byte{0xF0}, buf.Bytes())
}

func TestBitWriter_WriteDigits(t *testing.T) {
	var buf bytes.Buffer
	bw := NewBitWriter(&buf)

	long := strings.Repeat("10", 40) // 80 bits, longer than one chunk
	bw.WriteDigits(long)
	require.Equal(t, bytes.Repeat([]byte{0xAA}, 10), buf.Bytes())
	require.Equal(t, uint64(80), bw.Total())
}

type failingByteWriter struct {
	limit int
	n     int
}

var errWriteFailed = errors.New("write failed")

func (w *failingByteWriter) WriteByte(byte) error {
	if w.n >= w.limit {
		return errWriteFailed
	}
	w.n++

	return nil
}

func TestBitWriter_LatchesError(t *testing.T) {
	w := &failingByteWriter{limit: 1}
	bw := NewBitWriter(w)

	bw.WriteBits(0xFFFF, 16)
	require.ErrorIs(t, bw.Err(), errWriteFailed)

	bw.WriteBits(0xFF, 8)
	require.ErrorIs(t, bw.Err(), errWriteFailed)
	require.Equal(t, 1, w.n)
}

// ==============================================================================
// PackPayload Tests
// ==============================================================================

func TestPackPayload_Scenario(t *testing.T) {
	// A="0" B="10" C="11": AAABBC -> 0 0 0 10 10 11 + 7 padding bits
	table := codeTable(t, map[byte]string{'A': "0", 'B': "10", 'C': "11"})

	buf := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(buf)

	bits, err := PackPayload(buf, []byte("AAABBC"), table, 7)
	require.NoError(t, err)
	require.Equal(t, uint64(16), bits)
	require.Equal(t, []byte{0b00010101, 0b10000000}, buf.Bytes())
}

func TestPackPayload_SingleByte(t *testing.T) {
	table := codeTable(t, map[byte]string{'X': "0"})

	var buf bytes.Buffer
	bits, err := PackPayload(&buf, []byte{'X'}, table, 7)
	require.NoError(t, err)
	require.Equal(t, uint64(8), bits)
	require.Equal(t, []byte{0x00}, buf.Bytes())
}

func TestPackPayload_NoPaddingNeeded(t *testing.T) {
	table := codeTable(t, map[byte]string{'a': "1", 'b': "0"})

	var buf bytes.Buffer
	bits, err := PackPayload(&buf, []byte("abababab"), table, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(8), bits)
	require.Equal(t, []byte{0xAA}, buf.Bytes())
}

func TestPackPayload_Errors(t *testing.T) {
	table := codeTable(t, map[byte]string{'a': "1", 'b': "0"})

	t.Run("missing code", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := PackPayload(&buf, []byte("abc"), table, 5)
		require.ErrorIs(t, err, errs.ErrInvalidCode)
	})

	t.Run("wrong padding", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := PackPayload(&buf, []byte("abc"[:2]), table, 5)
		require.ErrorIs(t, err, errs.ErrInvalidPadding)
	})

	t.Run("padding out of range", func(t *testing.T) {
		var buf bytes.Buffer
		_, err := PackPayload(&buf, []byte("ab"), table, 8)
		require.ErrorIs(t, err, errs.ErrInvalidPadding)
	})

	t.Run("write failure", func(t *testing.T) {
		_, err := PackPayload(&failingByteWriter{limit: 0}, bytes.Repeat([]byte("a"), 16), table, 0)
		require.ErrorIs(t, err, errWriteFailed)
	})
}

func TestPackPayload_BufferedWriter(t *testing.T) {
	table := codeTable(t, map[byte]string{'a': "1", 'b': "0"})

	var out bytes.Buffer
	w := bufio.NewWriter(&out)
	_, err := PackPayload(w, []byte("aaaabbbb"), table, 0)
	require.NoError(t, err)
	require.NoError(t, w.Flush())
	require.Equal(t, []byte{0xF0}, out.Bytes())
}

// ==============================================================================
// Round Trip Tests
// ==============================================================================

func roundTrip(t *testing.T, data []byte) {
	t.Helper()

	freq := huffman.CountFrequencies(data)
	root, err := huffman.BuildTree(freq)
	require.NoError(t, err)
	table, err := huffman.GenerateCodes(root)
	require.NoError(t, err)

	totalBits, err := table.TotalBits(freq)
	require.NoError(t, err)
	padding := huffman.Padding(totalBits)

	var buf bytes.Buffer
	bits, err := PackPayload(&buf, data, table, padding)
	require.NoError(t, err)
	require.Equal(t, totalBits+uint64(padding), bits)
	require.Zero(t, bits%8)
	require.Equal(t, huffman.PayloadSize(totalBits), uint64(buf.Len()))

	tree, err := huffman.NewDecodeTree(table)
	require.NoError(t, err)
	decoded, err := UnpackPayload(nil, buf.Bytes(), tree, padding)
	require.NoError(t, err)
	require.Equal(t, data, decoded)
}

func TestPackUnpack_RoundTrip(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		roundTrip(t, []byte("the quick brown fox jumps over the lazy dog"))
	})

	t.Run("single symbol", func(t *testing.T) {
		roundTrip(t, bytes.Repeat([]byte{0x00}, 1001))
	})

	t.Run("all byte values", func(t *testing.T) {
		data := make([]byte, 0, 256*3)
		for i := 0; i < 256; i++ {
			for j := 0; j <= i%3; j++ {
				data = append(data, byte(i))
			}
		}
		roundTrip(t, data)
	})

	t.Run("skewed counts", func(t *testing.T) {
		var data []byte
		a, b := 1, 1
		for sym := 0; sym < 20; sym++ {
			data = append(data, bytes.Repeat([]byte{byte(sym)}, a)...)
			a, b = b, a+b
		}
		roundTrip(t, data)
	})

	t.Run("random", func(t *testing.T) {
		rng := rand.New(rand.NewSource(11))
		for i := 0; i < 50; i++ {
			data := make([]byte, 1+rng.Intn(10000))
			for j := range data {
				data[j] = byte(min(rng.ExpFloat64()*30, 255))
			}
			roundTrip(t, data)
		}
	})
}

func TestPackPayload_LongCodes(t *testing.T) {
	long := strings.Repeat("1", 70) + "0"
	table := codeTable(t, map[byte]string{'a': "0", 'b': long, 'c': strings.Repeat("1", 71)})

	var buf bytes.Buffer
	// 1 + 71 = 72 bits
	bits, err := PackPayload(&buf, []byte("ab"), table, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(72), bits)

	tree, err := huffman.NewDecodeTree(table)
	require.NoError(t, err)
	decoded, err := UnpackPayload(nil, buf.Bytes(), tree, 0)
	require.NoError(t, err)
	require.Equal(t, []byte("ab"), decoded)
}

// ==============================================================================
// UnpackPayload Tests
// ==============================================================================

func TestUnpackPayload_Errors(t *testing.T) {
	table := codeTable(t, map[byte]string{'A': "0", 'B': "10"})
	tree, err := huffman.NewDecodeTree(table)
	require.NoError(t, err)

	tests := []struct {
		name    string
		payload []byte
		padding uint8
		err     error
	}{
		{"bits leave the tree", []byte{0b11000000}, 6, errs.ErrCorruptPayload},
		{"ends inside a code", []byte{0b00000001}, 0, errs.ErrCorruptPayload},
		{"non-zero padding", []byte{0b00000001}, 1, errs.ErrCorruptPayload},
		{"padding without payload", nil, 3, errs.ErrCorruptPayload},
		{"padding out of range", []byte{0}, 9, errs.ErrInvalidPadding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnpackPayload(nil, tt.payload, tree, tt.padding)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestUnpackPayload_AppendsToDst(t *testing.T) {
	table := codeTable(t, map[byte]string{'A': "0", 'B': "1"})
	tree, err := huffman.NewDecodeTree(table)
	require.NoError(t, err)

	out, err := UnpackPayload([]byte(">"), []byte{0b01000000}, tree, 6)
	require.NoError(t, err)
	require.Equal(t, []byte(">AB"), out)
}

func BenchmarkPackPayload(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	data := make([]byte, 256*1024)
	for i := range data {
		data[i] = byte(min(rng.ExpFloat64()*16, 255))
	}
	freq := huffman.CountFrequencies(data)
	root, _ := huffman.BuildTree(freq)
	table, _ := huffman.GenerateCodes(root)
	totalBits, _ := table.TotalBits(freq)
	padding := huffman.Padding(totalBits)

	buf := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(buf)

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for b.Loop() {
		buf.Reset()
		_, _ = PackPayload(buf, data, table, padding)
	}
}

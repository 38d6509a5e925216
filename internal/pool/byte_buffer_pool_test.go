package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteBuffer_Write(t *testing.T) {
	bb := NewByteBuffer(4)

	require.NoError(t, bb.WriteByte('a'))
	n, err := bb.Write([]byte("bcdef"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte("abcdef"), bb.Bytes())
	assert.Equal(t, 6, bb.Len())

	bb.Reset()
	assert.Equal(t, 0, bb.Len())
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity", func(t *testing.T) {
		bb := NewByteBuffer(128)
		bb.Grow(100)
		assert.Equal(t, 128, cap(bb.B))
	})

	t.Run("small buffer grows by default size", func(t *testing.T) {
		bb := NewByteBuffer(16)
		_, _ = bb.Write([]byte("keep"))
		bb.Grow(100)

		assert.GreaterOrEqual(t, cap(bb.B)-bb.Len(), PayloadBufferDefaultSize)
		assert.Equal(t, []byte("keep"), bb.Bytes())
	})

	t.Run("large request", func(t *testing.T) {
		bb := NewByteBuffer(16)
		bb.Grow(PayloadBufferDefaultSize * 3)
		assert.GreaterOrEqual(t, cap(bb.B), PayloadBufferDefaultSize*3)
	})
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(16)
	_, _ = bb.Write([]byte("payload"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.Equal(t, "payload", out.String())
}

func TestByteBufferPool(t *testing.T) {
	p := NewByteBufferPool(32, 64)

	bb := p.Get()
	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 32, cap(bb.B))

	_, _ = bb.Write([]byte("dirty"))
	p.Put(bb)

	again := p.Get()
	require.NotNil(t, again)
	assert.Equal(t, 0, again.Len(), "pooled buffers are reset")

	// oversized buffers are not retained but Put must not panic
	big := NewByteBuffer(128)
	p.Put(big)
	p.Put(nil)
}

func TestPayloadBuffer(t *testing.T) {
	bb := GetPayloadBuffer()
	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	PutPayloadBuffer(bb)
}

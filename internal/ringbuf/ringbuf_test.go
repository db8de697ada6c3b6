package ringbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(b *Buffer) []byte {
	var out []byte
	for {
		v, ok := b.PopByte()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func TestBuffer_FIFO(t *testing.T) {
	b := New(8)
	assert.Equal(t, 0, b.PushForce([]byte{1, 2, 3}))
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, 5, b.Free())

	v, ok := b.PopByte()
	require.True(t, ok)
	assert.Equal(t, byte(1), v)

	assert.Equal(t, 0, b.PushForce([]byte{4, 5}))
	assert.Equal(t, []byte{2, 3, 4, 5}, drain(b))

	_, ok = b.PopByte()
	assert.False(t, ok)
}

func TestBuffer_WrapAround(t *testing.T) {
	b := New(4)
	b.PushForce([]byte{1, 2, 3})
	drain(b)

	// head is now at 3, so this push wraps.
	assert.Equal(t, 0, b.PushForce([]byte{4, 5, 6, 7}))
	assert.Equal(t, 4, b.Len())
	assert.Equal(t, 0, b.Free())
	assert.Equal(t, []byte{4, 5, 6, 7}, drain(b))
}

func TestBuffer_OverwritesOldest(t *testing.T) {
	b := New(4)
	b.PushForce([]byte{1, 2, 3})

	lost := b.PushForce([]byte{4, 5})
	assert.Equal(t, 1, lost)
	assert.Equal(t, []byte{2, 3, 4, 5}, drain(b))
}

func TestBuffer_PushLargerThanCapacity(t *testing.T) {
	b := New(4)
	b.PushForce([]byte{1, 2})

	lost := b.PushForce([]byte{3, 4, 5, 6, 7, 8})
	assert.Equal(t, 4, lost)
	assert.Equal(t, 4, b.Len())
	assert.Equal(t, []byte{5, 6, 7, 8}, drain(b))
}

func TestBuffer_Reset(t *testing.T) {
	b := New(4)
	b.PushForce([]byte{1, 2, 3})
	b.Reset()

	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 4, b.Cap())
	b.PushForce([]byte{9})
	assert.Equal(t, []byte{9}, drain(b))
}

func TestNew_PanicsOnZeroCapacity(t *testing.T) {
	assert.Panics(t, func() { New(0) })
}

package gpu

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestBufferWriteUnmapped(t *testing.T) {
	b := &Buffer{size: 16}
	require.EqualError(t, b.Write([]byte{1, 2, 3}), "buffer is not mapped")
}

func TestBufferWriteTooLarge(t *testing.T) {
	var backing [4]byte
	b := &Buffer{size: 4, mapped: unsafe.Pointer(&backing[0])}

	require.EqualError(t, b.Write(make([]byte, 5)), "writing 5 bytes into a buffer of 4")
	require.Equal(t, [4]byte{}, backing)
}

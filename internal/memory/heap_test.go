package memory_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thirdlang/thirdvm/internal/memory"
)

func TestHeapAllocateWriteReadFree(t *testing.T) {
	h := memory.NewHeap(memory.AddressFromRaw(0))

	a, err := h.Allocate(24)
	require.NoError(t, err)

	require.NoError(t, h.WriteValue(a, memory.NumberValue(99)))
	v, err := h.ReadValue(a)
	require.NoError(t, err)
	require.Equal(t, memory.Number(99), v.Number)

	require.NoError(t, h.Free(a))

	b, err := h.Allocate(24)
	require.NoError(t, err)
	require.Equal(t, a, b, "freeing the tail-most bump chunk should let it be reused immediately")
}

func TestHeapFreeListReuseForNonTailChunk(t *testing.T) {
	h := memory.NewHeap(memory.AddressFromRaw(0))

	a, err := h.Allocate(16)
	require.NoError(t, err)
	b, err := h.Allocate(16)
	require.NoError(t, err)

	require.NoError(t, h.Free(a)) // not tail-most: goes on the free list
	c, err := h.Allocate(16)
	require.NoError(t, err)
	require.Equal(t, a, c, "a non-tail free should be served back out before growing")
	_ = b
}

func TestHeapResizeWithinClassKeepsAddress(t *testing.T) {
	h := memory.NewHeap(memory.AddressFromRaw(0))
	a, err := h.Allocate(8)
	require.NoError(t, err)

	resized, err := h.Resize(a, 15) // same small-bin step class
	require.NoError(t, err)
	require.Equal(t, a, resized)
}

func TestHeapResizeAcrossClassMoves(t *testing.T) {
	h := memory.NewHeap(memory.AddressFromRaw(0))
	a, err := h.Allocate(8)
	require.NoError(t, err)

	resized, err := h.Resize(a, memory.LargeBinSize)
	require.NoError(t, err)
	require.NotEqual(t, a, resized)

	_, err = h.ReadValue(a)
	require.Error(t, err, "the old chunk should no longer be addressable after moving")
}

func TestHeapInvalidAddress(t *testing.T) {
	h := memory.NewHeap(memory.AddressFromRaw(0))
	_, err := h.ReadValue(memory.AddressFromRaw(12345))
	require.Error(t, err)
}

func TestHeapOversizeRejected(t *testing.T) {
	h := memory.NewHeap(memory.AddressFromRaw(0))
	_, err := h.Allocate(memory.LargeBinSize + 1)
	require.Error(t, err)
}

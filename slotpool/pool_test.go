package slotpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolAllocFreeAccounting(t *testing.T) {
	p := New(Config{ElementSize: 8, Capacity: 4})

	var allocated []PoolIndex
	for i := 0; i < 4; i++ {
		idx := p.Alloc()
		require.NotEqual(t, NullIndex, idx)
		allocated = append(allocated, idx)
	}
	require.Equal(t, NullIndex, p.Alloc(), "pool should be exhausted")
	require.Equal(t, 4, p.Allocated())

	require.True(t, p.Free(allocated[0]))
	require.Equal(t, 3, p.Allocated())
	require.False(t, p.Free(allocated[0]), "double free must be rejected")

	idx := p.Alloc()
	require.NotEqual(t, NullIndex, idx)
	require.Equal(t, allocated[0], idx, "freed index should be reused")
}

func TestPoolGetClearsOnFree(t *testing.T) {
	p := New(Config{ElementSize: 4, Capacity: 1})
	idx := p.Alloc()
	view := p.Get(idx)
	copy(view, []byte{1, 2, 3, 4})

	require.True(t, p.Free(idx))
	require.Nil(t, p.Get(idx), "Get on a freed index must return nil")

	idx2 := p.Alloc()
	require.Equal(t, idx, idx2)
	require.Equal(t, []byte{0, 0, 0, 0}, p.Get(idx2), "reused slot must start zeroed")
}

func TestPoolCacheAlignedStride(t *testing.T) {
	p := New(Config{ElementSize: 10, Capacity: 2, CacheAligned: true})
	require.Equal(t, cacheLineSize, p.stride)
}

func TestPoolIsValid(t *testing.T) {
	p := New(Config{ElementSize: 4, Capacity: 2})
	require.False(t, p.IsValid(0))
	idx := p.Alloc()
	require.True(t, p.IsValid(idx))
	p.Free(idx)
	require.False(t, p.IsValid(idx))
	require.False(t, p.IsValid(NullIndex))
	require.False(t, p.IsValid(PoolIndex(99)))
}

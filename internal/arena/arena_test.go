package arena

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func TestAllocNeverOverlaps(t *testing.T) {
	a := New(64)
	seen := make(map[*byte]bool)
	for i := 0; i < 10_000; i++ {
		b := a.Alloc(8, 8)
		require.Len(t, b, 8)
		ptr := &b[0]
		require.False(t, seen[ptr], "allocation pointer reused before Reset")
		seen[ptr] = true
	}
}

func TestAllocGrowsSlabChain(t *testing.T) {
	a := New(16)
	for i := 0; i < 1000; i++ {
		a.Alloc(64, 1)
	}
	require.Equal(t, int64(1000*64), a.Allocated())
}

func TestAlignment(t *testing.T) {
	a := New(64)
	a.Alloc(1, 1)
	b := a.Alloc(8, 8)
	require.Zero(t, uintptr(unsafe.Pointer(&b[0]))%8)
	require.Len(t, b, 8)
}

func TestResetReclaimsMemory(t *testing.T) {
	a := New(64)
	for i := 0; i < 100; i++ {
		a.Alloc(1024, 1)
	}
	require.Positive(t, a.Allocated())
	a.Reset()
	require.Zero(t, a.Allocated())

	b := a.Alloc(8, 8)
	require.Len(t, b, 8)
}

package dynarray

import (
	"testing"

	"github.com/stretchr/testify/require"

	"indexkit/internal/arena"
)

func collect[T any](s *Array[T]) []T {
	out := make([]T, 0, s.Len())
	it := s.Iter()
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}

func TestPushBackAndIterate(t *testing.T) {
	a := arena.New(0)
	s := New[uint32](a)
	for i := uint32(0); i < 5000; i++ {
		s.PushBack(i)
	}
	require.Equal(t, 5000, s.Len())

	got := collect(s)
	require.Len(t, got, 5000)
	for i, v := range got {
		require.Equal(t, uint32(i), v)
	}
}

func TestBackReturnsMutableLastElement(t *testing.T) {
	a := arena.New(0)
	s := New[uint16](a)
	s.PushBack(1)
	s.PushBack(2)

	*s.Back() += 100
	got := collect(s)
	require.Equal(t, []uint16{1, 102}, got)
}

func TestGrowsAcrossManyChunks(t *testing.T) {
	a := arena.New(8)
	s := New[uint64](a)
	const n = 200_000
	for i := uint64(0); i < n; i++ {
		s.PushBack(i * 3)
	}
	got := collect(s)
	require.Len(t, got, n)
	for i := range got {
		require.Equal(t, uint64(i)*3, got[i])
	}
}

func TestEmptyArray(t *testing.T) {
	a := arena.New(0)
	s := New[int32](a)
	require.Nil(t, s.Back())
	require.Empty(t, collect(s))
}

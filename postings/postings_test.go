package postings

import (
	"testing"

	"github.com/stretchr/testify/require"

	"indexkit/internal/arena"
)

func TestPushBackCollapsesRepeatedDoc(t *testing.T) {
	l := NewList(arena.New(0))
	require.NoError(t, l.PushBack(1, 100))
	require.NoError(t, l.PushBack(1, 101))
	require.NoError(t, l.PushBack(2, 102))
	require.NoError(t, l.PushBack(2, 103))

	require.Equal(t, 2, l.DocFreq())

	it := l.Iter()
	var got []Posting
	for {
		doc, tf, pos, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, Posting{DocID: doc, TF: tf, Pos: pos})
	}
	require.Equal(t, []Posting{
		{DocID: 1, TF: 2, Pos: 100},
		{DocID: 1, TF: 2, Pos: 101},
		{DocID: 2, TF: 2, Pos: 102},
		{DocID: 2, TF: 2, Pos: 103},
	}, got)
}

// S1: text-render scenario.
func TestRenderTextScenarioS1(t *testing.T) {
	l := NewList(arena.New(0))
	require.NoError(t, l.PushBack(1, 100))
	require.NoError(t, l.PushBack(1, 101))
	require.NoError(t, l.PushBack(2, 102))
	require.NoError(t, l.PushBack(2, 103))

	require.Equal(t, "<1,2,100,101><2,2,102,103>", l.RenderText())
}

// Property 3: tf saturates at 0xFFFE, never reaches 0xFFFF.
func TestTFSaturates(t *testing.T) {
	l := NewList(arena.New(0))
	pos := uint32(1)
	for i := 0; i < 1_000_000; i++ {
		require.NoError(t, l.PushBack(1, pos))
		pos++
	}
	_, tf, _, ok := l.Iter().Next()
	require.True(t, ok)
	require.Equal(t, uint16(MaxTF), tf)
}

func TestNonMonotonicDocRejected(t *testing.T) {
	l := NewList(arena.New(0))
	require.NoError(t, l.PushBack(5, 1))
	err := l.PushBack(3, 2)
	require.ErrorIs(t, err, ErrInvariantViolation)
}

func TestNonMonotonicPosRejectedWithinSameDoc(t *testing.T) {
	l := NewList(arena.New(0))
	require.NoError(t, l.PushBack(1, 10))
	err := l.PushBack(1, 10)
	require.ErrorIs(t, err, ErrInvariantViolation)

	err = l.PushBack(1, 5)
	require.ErrorIs(t, err, ErrInvariantViolation)
}

func TestAccumulatorPerTermSharding(t *testing.T) {
	acc := NewAccumulator(0)
	require.NoError(t, acc.PushBack("cat", 1, 1))
	require.NoError(t, acc.PushBack("dog", 1, 2))
	require.NoError(t, acc.PushBack("cat", 2, 3))

	require.ElementsMatch(t, []string{"cat", "dog"}, acc.Terms())
	require.Equal(t, 2, acc.List("cat").DocFreq())
	require.Equal(t, 1, acc.List("dog").DocFreq())
	require.EqualValues(t, 3, acc.Entries())

	acc.Release()
	require.Empty(t, acc.Terms())
	require.EqualValues(t, 0, acc.Entries())
}

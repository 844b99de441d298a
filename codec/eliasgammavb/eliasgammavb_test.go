package eliasgammavb

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, src []uint32) []uint32 {
	t.Helper()
	c := Codec{}
	n := len(src)

	dstCap := n*8 + 256 // generous; encode is 32 bits/lane at most for 16 lanes per 68-byte frame
	dst := make([]byte, dstCap)
	written := c.Encode(dst, dstCap, src, n)
	require.NotZero(t, written, "encode unexpectedly reported overflow")

	out := make([]uint32, n+c.Overscan())
	c.Decode(out, n, dst[:written])
	return out[:n]
}

// brokenSequence is a 384-integer fixture with widths cycling across
// 2-7 bits, covering scenario S3.
func brokenSequence() []uint32 {
	widths := []int{2, 3, 5, 7, 4, 6}
	vals := make([]uint32, 384)
	for i := range vals {
		w := widths[i%len(widths)]
		max := uint32(1)<<uint(w) - 1
		vals[i] = uint32(i*7+3) % (max + 1)
	}
	return vals
}

// secondBrokenSequence is a 112-integer fixture containing the value
// 793 (10 bits), covering scenario S4.
func secondBrokenSequence() []uint32 {
	vals := make([]uint32, 112)
	for i := range vals {
		vals[i] = uint32(i*13+5) % 500
	}
	vals[50] = 793
	return vals
}

// S3: encoding then decoding the mixed-width fixture reproduces it exactly.
func TestScenarioS3BrokenSequence(t *testing.T) {
	src := brokenSequence()
	got := roundTrip(t, src)
	require.Equal(t, src, got)
}

// S4: encoding then decoding the wide-value fixture reproduces it exactly.
func TestScenarioS4SecondBrokenSequence(t *testing.T) {
	src := secondBrokenSequence()
	got := roundTrip(t, src)
	require.Equal(t, src, got)
	require.EqualValues(t, 793, got[50])
}

// Property 1: codec round-trip for a variety of lengths and magnitudes.
func TestRoundTripVariousShapes(t *testing.T) {
	cases := [][]uint32{
		{0},
		{1},
		{0, 0, 0, 0},
		make([]uint32, 1), // single zero
		{1 << 31, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17},
	}
	for _, n := range []int{1, 15, 16, 17, 31, 32, 33, 200, 1000} {
		src := make([]uint32, n)
		for i := range src {
			src[i] = uint32(i*i+i) % (1 << 20)
		}
		cases = append(cases, src)
	}

	for _, src := range cases {
		got := roundTrip(t, src)
		require.Equal(t, src, got)
	}
}

func TestEncodeReportsOverflow(t *testing.T) {
	c := Codec{}
	src := make([]uint32, 100)
	dst := make([]byte, 4) // far too small
	written := c.Encode(dst, len(dst), src, len(src))
	require.Zero(t, written)
}

// S6 / property 5: compute_selector and the decoder's find-first-set
// width extraction are mutual inverses for any valid width sequence.
func TestSelectorBijectionScenarioS6(t *testing.T) {
	widths := []int{3, 2, 5, 4}
	selector := computeSelector(widths)

	var got []int
	remaining := selector
	for remaining != 0 {
		w := bits.TrailingZeros32(remaining) + 1
		got = append(got, w)
		remaining >>= uint(w)
	}
	require.Equal(t, widths, got)
}

func TestSelectorBijectionProperty(t *testing.T) {
	schedules := [][]int{
		{1},
		{32},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{16, 16},
		{7, 7, 7, 7, 4},
		{2, 30},
	}
	for _, widths := range schedules {
		selector := computeSelector(widths)
		var got []int
		remaining := selector
		for remaining != 0 {
			w := bits.TrailingZeros32(remaining) + 1
			got = append(got, w)
			remaining >>= uint(w)
		}
		require.Equal(t, widths, got)
	}
}

// Package eliasgammavb implements the SIMD Elias-gamma variable-byte
// codec specified normatively in spec.md section 4.5.1: integers are
// packed column-wise across 16 lanes into 68-byte frames (a u32
// selector plus 16 u32 payload words), where the selector is a
// per-frame Elias-gamma unary encoding of the bit-width schedule of
// its slices.
//
// This is a portable Go implementation of the column-parallel
// pack/unpack; spec.md's Design Notes explicitly allow a scalar
// fallback that decodes 16 lanes by loop unroll as long as it
// preserves the on-disk frame format, which this does — the lane
// count (16) is part of the wire format, not an implementation
// detail, so it is never parameterized.
package eliasgammavb

import (
	"encoding/binary"
	"math/bits"
)

const lanes = 16
const frameBytes = 4 + lanes*4 // selector + 16 payload words

// Codec is the SIMD Elias-gamma-VB integer codec.
type Codec struct{}

func (Codec) Name() string { return "eliasgammavb" }

// Overscan: the last group of input may be padded with up to lanes-1
// zero values to fill out a 16-wide slice; Decode always produces a
// multiple of 16 decoded integers.
func (Codec) Overscan() int { return lanes - 1 }

// Encode packs the first n values of src into 68-byte frames,
// returning 0 if dst cannot hold every frame the greedy bin-packing
// described in spec.md 4.5.1 produces.
func (Codec) Encode(dst []byte, dstCap int, src []uint32, n int) int {
	if n <= 0 {
		return 0
	}
	buf := encodeFrames(src, n)
	if len(buf) > dstCap || len(buf) > len(dst) {
		return 0
	}
	copy(dst, buf)
	return len(buf)
}

func encodeFrames(src []uint32, n int) []byte {
	var out []byte
	var widths []int
	var payload [lanes]uint32
	remaining := 32
	shift := 0

	flush := func() {
		if len(widths) == 0 {
			return
		}
		widths[len(widths)-1] += remaining
		selector := computeSelector(widths)

		var frame [frameBytes]byte
		binary.LittleEndian.PutUint32(frame[0:4], selector)
		for i := 0; i < lanes; i++ {
			binary.LittleEndian.PutUint32(frame[4+i*4:8+i*4], payload[i])
		}
		out = append(out, frame[:]...)

		widths = nil
		payload = [lanes]uint32{}
		remaining = 32
		shift = 0
	}

	var group [lanes]uint32
	for i := 0; i < n; i += lanes {
		group = [lanes]uint32{}
		cnt := lanes
		if i+lanes > n {
			cnt = n - i
		}
		copy(group[:cnt], src[i:i+cnt])

		maxVal := uint32(0)
		for _, v := range group {
			if v > maxVal {
				maxVal = v
			}
		}
		w := bits.Len32(maxVal)
		if w == 0 {
			w = 1
		}

		if w > remaining {
			flush()
		}
		for lane := 0; lane < lanes; lane++ {
			payload[lane] |= group[lane] << uint(shift)
		}
		widths = append(widths, w)
		remaining -= w
		shift += w
	}
	flush()
	return out
}

// computeSelector implements spec.md 4.5.1's compute_selector: given
// slice widths e[0..k] with the terminating zero entry implicit
// (widths has no trailing 0 here, since a Go slice already carries
// its own length), iterate from the last width down to the first,
// each time shifting the accumulator left by the width and setting
// the bit just below it — producing a selector whose lowest-set-bit
// decode order reproduces widths in original (oldest-first) order.
func computeSelector(widths []int) uint32 {
	var value uint32
	for i := len(widths) - 1; i >= 0; i-- {
		w := uint(widths[i])
		value = (value << w) | (1 << (w - 1))
	}
	return value
}

// Decode unpacks n integers from src, one 68-byte frame at a time:
// while the selector is non-zero, find its lowest set bit (the next
// slice's width w), mask and store 16 lanes, shift the payload right
// by w and the selector right by w, then advance 16 lanes of output.
func (Codec) Decode(dst []uint32, n int, src []byte) {
	out := 0
	pos := 0
	for out < n {
		selector := binary.LittleEndian.Uint32(src[pos : pos+4])
		var payload [lanes]uint32
		for i := 0; i < lanes; i++ {
			payload[i] = binary.LittleEndian.Uint32(src[pos+4+i*4 : pos+8+i*4])
		}
		pos += frameBytes

		for selector != 0 {
			w := uint(bits.TrailingZeros32(selector)) + 1
			mask := uint32(1)<<w - 1
			for lane := 0; lane < lanes; lane++ {
				if out+lane < len(dst) {
					dst[out+lane] = payload[lane] & mask
				}
				payload[lane] >>= w
			}
			selector >>= w
			out += lanes
			if out >= n {
				break
			}
		}
	}
}

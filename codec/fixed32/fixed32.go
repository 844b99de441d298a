// Package fixed32 implements the simplest codec in the family: each
// 32-bit integer is stored as 4 raw little-endian bytes. It exists as
// a baseline and as the "already decoded" shape the d0/decoder_none
// docid-reconstruction strategy expects (spec.md section 4.5.2).
package fixed32

import "encoding/binary"

// Codec is the raw fixed-width integer codec.
type Codec struct{}

func (Codec) Name() string   { return "fixed32" }
func (Codec) Overscan() int  { return 0 }

// Encode writes n little-endian uint32s to dst, returning 0 if dstCap
// cannot hold 4*n bytes.
func (Codec) Encode(dst []byte, dstCap int, src []uint32, n int) int {
	need := n * 4
	if need > dstCap || need > len(dst) {
		return 0
	}
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(dst[i*4:], src[i])
	}
	return need
}

// Decode reads n little-endian uint32s from src into dst.
func (Codec) Decode(dst []uint32, n int, src []byte) {
	for i := 0; i < n; i++ {
		dst[i] = binary.LittleEndian.Uint32(src[i*4:])
	}
}

// Package vbyte implements a classic LEB128-style variable-byte
// codec: each integer is split into 7-bit groups, low group first,
// with the high bit of each byte marking continuation. This is the
// supplemental third codec variant (SPEC_FULL.md section C.4),
// grounded on the teacher's chunkedIntDecoder.readUvarint /
// encoding/binary.Uvarint idiom in
// vendor/github.com/blugelabs/ice/v2/intdecoder.go.
package vbyte

// Codec is the variable-byte integer codec.
type Codec struct{}

func (Codec) Name() string  { return "vbyte" }
func (Codec) Overscan() int { return 0 }

// Encode writes n values as variable-byte groups to dst, returning 0
// if dstCap is too small.
func (Codec) Encode(dst []byte, dstCap int, src []uint32, n int) int {
	limit := dstCap
	if len(dst) < limit {
		limit = len(dst)
	}
	pos := 0
	for i := 0; i < n; i++ {
		v := src[i]
		for {
			if pos >= limit {
				return 0
			}
			b := byte(v & 0x7f)
			v >>= 7
			if v != 0 {
				dst[pos] = b | 0x80
				pos++
			} else {
				dst[pos] = b
				pos++
				break
			}
		}
	}
	return pos
}

// Decode reads n variable-byte values from src into dst.
func (Codec) Decode(dst []uint32, n int, src []byte) {
	pos := 0
	for i := 0; i < n; i++ {
		var v uint32
		shift := uint(0)
		for {
			b := src[pos]
			pos++
			v |= uint32(b&0x7f) << shift
			if b&0x80 == 0 {
				break
			}
			shift += 7
		}
		dst[i] = v
	}
}

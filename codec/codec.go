// Package codec defines the shared contract every integer compression
// codec implements (spec.md section 4.5): Encode/Decode a sequence of
// 32-bit unsigned integers, with a 0-return-on-overflow encode
// contract and a bounded decode overscan.
package codec

import (
	"errors"
	"fmt"
)

// MaxOverscanBytes bounds how far past n decoded integers any codec
// in this family may write, so callers can provision output padding
// once for all of them (spec.md 4.5: "bounded by 4 KiB for all
// included codecs").
const MaxOverscanBytes = 4096

// Codec is the integer compression contract every variant implements.
type Codec interface {
	// Name identifies the codec, used in the codec descriptor file
	// (spec.md section 6).
	Name() string

	// Encode packs the first n values of src into dst, returning the
	// number of bytes written, or 0 if dst (len dstCap bytes) is too
	// small to hold the encoded output. dst may be longer than
	// dstCap; only the first dstCap bytes may be written.
	Encode(dst []byte, dstCap int, src []uint32, n int) int

	// Decode unpacks n integers from src into dst. dst must have
	// space for at least n values plus this codec's declared
	// overscan. The caller is trusted to supply a src produced by
	// Encode for the same codec; Decode has no error return
	// (spec.md 4.5: "decoder has no error return").
	Decode(dst []uint32, n int, src []byte)

	// Overscan reports, in elements (not bytes), how far past n this
	// codec's Decode may write.
	Overscan() int
}

// OverflowError wraps the routine "encode buffer too small" condition
// as an error for callers that want one, rather than checking
// bytesWritten == 0 directly.
type OverflowError struct {
	Codec    string
	Needed   int
	Capacity int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("codec %s: overflow, capacity %d bytes too small", e.Codec, e.Capacity)
}

// EncodeOrOverflow calls c.Encode and returns an *OverflowError when
// the codec reports an overflow (return value 0 for non-empty input),
// for callers that prefer an error over a sentinel return value.
func EncodeOrOverflow(c Codec, dst []byte, dstCap int, src []uint32, n int) (int, error) {
	written := c.Encode(dst, dstCap, src, n)
	if written == 0 && n > 0 {
		return 0, &OverflowError{Codec: c.Name(), Capacity: dstCap}
	}
	return written, nil
}

// Registry resolves a codec by the name stored in the codec
// descriptor file (spec.md section 6, "codex" factory interface).
type Registry map[string]Codec

// Register adds codecs to r, keyed by their Name().
func (r Registry) Register(codecs ...Codec) {
	for _, c := range codecs {
		r[c.Name()] = c
	}
}

// Lookup returns the codec registered under name, or an error
// wrapping ErrUnknownCodec — the reader surfaces this as IndexCorrupt
// (spec.md section 7).
func (r Registry) Lookup(name string) (Codec, error) {
	c, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
	return c, nil
}

// ErrUnknownCodec is wrapped by Lookup when the requested name isn't registered.
var ErrUnknownCodec = errors.New("codec: unknown codec name")

package arena

import "unsafe"

// AllocT reserves room for n contiguous values of T from a and
// returns them as a slice backed by that arena memory, zero-valued.
//
// T must not contain pointers, interfaces, maps, slices, strings or
// channels: the backing memory is carved out of a plain []byte slab,
// so the garbage collector never scans it for pointers. Every dynamic
// array in this module stores plain fixed-width numeric structs
// (docids, impacts, positions), which satisfies this.
func AllocT[T any](a *Arena, n int) []T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	align := int(unsafe.Alignof(zero))
	if n <= 0 || size == 0 {
		return nil
	}
	raw := a.Alloc(n*size, align)
	return unsafe.Slice((*T)(unsafe.Pointer(&raw[0])), n)
}

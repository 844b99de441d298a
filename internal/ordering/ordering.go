// Package ordering replaces the "boxed pointer whose comparison
// delegates to the pointee" idiom (spec.md section 9, Design Notes)
// with an explicit total order expressed as a plain comparator
// function, following the teacher's RankAsc/RankDesc.Less pattern in
// server/leaderboard_rank_cache.go but generalized with Go generics
// instead of interface{}.
package ordering

import "unsafe"

// Comparator reports whether a orders strictly before b.
type Comparator[T any] func(a, b T) bool

// ScoredRef pairs a value with a stable address, giving it a total
// order even when many refs share the same value: ties are broken by
// address, mirroring the C++ pattern of comparing pointee first and
// falling back to pointer identity.
type ScoredRef[T any] struct {
	Value T
	addr  *T
}

// NewScoredRef wraps *v, using the pointer v as the tie-break key.
// Callers that need address stability across copies should keep the
// backing value in a slice and take its address once.
func NewScoredRef[T any](v *T) ScoredRef[T] {
	return ScoredRef[T]{Value: *v, addr: v}
}

// Addr exposes the tie-break key for diagnostics/tests.
func (r ScoredRef[T]) Addr() *T { return r.addr }

// Less orders two ScoredRefs by Value using less, falling back to
// address identity when less reports neither direction (a tie).
func Less[T any](less Comparator[T]) Comparator[ScoredRef[T]] {
	return func(a, b ScoredRef[T]) bool {
		if less(a.Value, b.Value) {
			return true
		}
		if less(b.Value, a.Value) {
			return false
		}
		return uintptr(unsafe.Pointer(a.addr)) < uintptr(unsafe.Pointer(b.addr))
	}
}

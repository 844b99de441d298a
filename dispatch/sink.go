// Package dispatch implements the decoder dispatch loop of spec.md
// section 4.6: it reconstructs docids from a codec's decoded integer
// stream according to a d-gap strategy, then streams them to a
// consumer Sink in SIMD-sized groups with a scalar tail, mirroring
// the teacher's storage_index.go batch-then-flush-remainder shape.
package dispatch

// DNess selects how decoded integers are turned back into docids
// (spec.md section 4.5.2 / 4.6).
type DNess int8

const (
	// DZero: the payload is already ascending docids, no deltas.
	DZero DNess = 0
	// DOne: the payload is d-gap encoded; prefix-sum to reconstruct.
	DOne DNess = 1
	// DNone: the payload is already a fully decoded docid array
	// (passthrough).
	DNone DNess = -1
)

// LaneWidth is the SIMD group size decode_and_process streams to the
// vector path of a Sink before falling back to scalar add_rsv calls
// for the tail (spec.md section 4.6, "256-bit lane" == 8 uint32 docids).
const LaneWidth = 8

// Sink is the consumer capability decode_and_process drives: queries,
// dumpers and evaluators all hook in through this interface rather
// than a concrete type (spec.md section 4.6).
type Sink interface {
	// SetScore is called once per segment, before any push_backs for
	// that segment's impact.
	SetScore(impact uint64)
	// PushBack8 delivers one SIMD-aligned lane of up to 8 docids
	// (padding zeros already filtered out by the caller).
	PushBack8(docids [LaneWidth]uint32, count int)
	// AddRSV delivers a single scalar (doc, impact) pair for the tail
	// that doesn't fill a full lane.
	AddRSV(doc uint64, impact uint64)
}

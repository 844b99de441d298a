package dispatch

import (
	"errors"
	"fmt"

	"indexkit/codec"
)

// ErrInvalidDNess reports a d-ness value outside {0, 1, -1}
// (spec.md section 4.7, reader failure modes).
var ErrInvalidDNess = errors.New("dispatch: d-ness out of domain")

// DecodeAndProcess implements spec.md section 4.6's decode_and_process:
//  1. decode the payload with c into a scratch buffer;
//  2. reconstruct docids per dness (d0: passthrough, d1: prefix-sum
//     d-gaps, none: already-decoded passthrough);
//  3. stream SIMD-aligned groups of LaneWidth docids to sink.PushBack8,
//     filtering padding zeros, then the scalar tail to sink.AddRSV;
//  4. call sink.SetScore(impact) once, before any push_backs.
func DecodeAndProcess(impact uint8, sink Sink, c codec.Codec, dness DNess, nDocs int, payload []byte) error {
	switch dness {
	case DZero, DOne, DNone:
	default:
		return fmt.Errorf("%w: %d", ErrInvalidDNess, dness)
	}
	if nDocs <= 0 {
		sink.SetScore(uint64(impact))
		return nil
	}

	buf := make([]uint32, nDocs+c.Overscan())
	c.Decode(buf, nDocs, payload)
	docids := buf[:nDocs]

	if dness == DOne {
		prefixSum(docids)
	}

	sink.SetScore(uint64(impact))

	i := 0
	for ; i+LaneWidth <= len(docids); i += LaneWidth {
		var lane [LaneWidth]uint32
		count := 0
		for j := 0; j < LaneWidth; j++ {
			d := docids[i+j]
			if d == 0 {
				continue // padding slot (spec.md 4.6 point 4)
			}
			lane[count] = d
			count++
		}
		if count > 0 {
			sink.PushBack8(lane, count)
		}
	}
	for ; i < len(docids); i++ {
		d := docids[i]
		if d == 0 {
			continue
		}
		sink.AddRSV(uint64(d), uint64(impact))
	}
	return nil
}

// prefixSum turns a d-gap sequence into ascending docids in place:
// doc[i] = doc[i-1] + gap[i] (spec.md section 4.5.2, decoder_d1).
func prefixSum(gaps []uint32) {
	var running uint32
	for i, g := range gaps {
		running += g
		gaps[i] = running
	}
}

// Package diskindex implements the serialized, immutable on-disk
// index format of spec.md section 6: a sorted vocabulary, a postings
// blob of segment-header arrays plus encoded payloads, a primary-key
// table, and a codec descriptor file — and the query-time reader that
// loads them back (spec.md section 4.7).
//
// The byte layout is grounded on the teacher's vendored
// vendor/github.com/blugelabs/ice segment format (fixed-width header
// fields, offsets into a shared blob, a trailing footer with a magic/
// version/CRC check), adapted to this spec's simpler, explicitly
// pinned layout rather than bluge's own segment format.
package diskindex

import "encoding/binary"

// SegmentHeader is one impact-ordered run of docids for a single
// (term, impact), spec.md section 3/6.
type SegmentHeader struct {
	Impact           uint8
	SegmentFrequency uint32
	Offset           uint64 // payload start within the postings blob
	End              uint64 // payload end (exclusive)
}

const segmentHeaderSize = 1 + 4 + 8 + 8 // impact, segment_frequency, offset, end

func putSegmentHeader(dst []byte, h SegmentHeader) {
	dst[0] = h.Impact
	binary.LittleEndian.PutUint32(dst[1:5], h.SegmentFrequency)
	binary.LittleEndian.PutUint64(dst[5:13], h.Offset)
	binary.LittleEndian.PutUint64(dst[13:21], h.End)
}

func getSegmentHeader(src []byte) SegmentHeader {
	return SegmentHeader{
		Impact:           src[0],
		SegmentFrequency: binary.LittleEndian.Uint32(src[1:5]),
		Offset:           binary.LittleEndian.Uint64(src[5:13]),
		End:              binary.LittleEndian.Uint64(src[13:21]),
	}
}

// TermRecord is one vocabulary entry, spec.md section 6.
type TermRecord struct {
	Term    []byte
	Impacts uint32 // segment count
	Offset  uint64 // start of this term's segment-header array within the postings blob
}

// footer trails the postings blob so the reader can fail fast on a
// truncated or bit-rotted file (SPEC_FULL.md supplement C.5), modeled
// on the teacher's ice/footer.go fixed-width trailer.
//
//	|  numSegments u64  |  version u32  |  crc32 u32  |
type footer struct {
	numSegmentHeaders uint64
	version           uint32
	crc               uint32
}

const (
	footerVersion = 1
	footerLen     = 8 + 4 + 4
)

func putFooter(dst []byte, f footer) {
	binary.LittleEndian.PutUint64(dst[0:8], f.numSegmentHeaders)
	binary.LittleEndian.PutUint32(dst[8:12], f.version)
	binary.LittleEndian.PutUint32(dst[12:16], f.crc)
}

func getFooter(src []byte) footer {
	return footer{
		numSegmentHeaders: binary.LittleEndian.Uint64(src[0:8]),
		version:           binary.LittleEndian.Uint32(src[8:12]),
		crc:               binary.LittleEndian.Uint32(src[12:16]),
	}
}

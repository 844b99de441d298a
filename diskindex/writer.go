package diskindex

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"sort"

	"indexkit/codec"
	"indexkit/dispatch"
)

// TermPostings is one term's Pass-B output (rank.Quantizer.EmitList):
// docids in ascending order, paired with the impact each one quantized
// to (spec.md section 4.4).
type TermPostings struct {
	Term    string
	DocIDs  []uint32
	Impacts []uint8
}

// Artifacts are the four files spec.md section 6 describes a build
// producing. Callers write each to its own path; this package is
// agnostic to the filesystem layout.
type Artifacts struct {
	Vocabulary   []byte
	PostingsBlob []byte
	PrimaryKeys  []byte
	Descriptor   []byte
}

// Build serializes terms into the on-disk format, encoding every
// term's impact segments with c under dness, and stamps the build
// with a fresh codec descriptor (spec.md section 6, SPEC_FULL.md C.5).
//
// Segments within a term are ordered by descending impact — the
// impact-ordered convention this format exists for lets a query
// engine stop after the highest-value segments without reading the
// rest of the term's postings.
func Build(terms []TermPostings, primaryKeys []string, c codec.Codec, dness dispatch.DNess) (Artifacts, error) {
	sorted := append([]TermPostings(nil), terms...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Term < sorted[j].Term })

	var blob bytes.Buffer
	var vocab bytes.Buffer
	var numSegments uint64

	for _, tp := range sorted {
		segments := groupByImpact(tp.DocIDs, tp.Impacts)

		// Payloads are encoded first, into a term-local buffer, so each
		// SegmentHeader's offset/end can be recorded relative to the
		// start of this term's payload region rather than the final
		// blob — the payload region's absolute position isn't known
		// until the compressed header block ahead of it is sized.
		var payloads bytes.Buffer
		headerBytes := make([]byte, segmentHeaderSize*len(segments))
		for i, seg := range segments {
			encoded, err := encodeSegment(c, dness, seg.docids)
			if err != nil {
				return Artifacts{}, err
			}
			relStart := uint64(payloads.Len())
			payloads.Write(encoded)
			relEnd := uint64(payloads.Len())

			putSegmentHeader(headerBytes[i*segmentHeaderSize:(i+1)*segmentHeaderSize], SegmentHeader{
				Impact:           seg.impact,
				SegmentFrequency: uint32(len(seg.docids)),
				Offset:           relStart,
				End:              relEnd,
			})
		}

		compressedHeaders := compressHeaders(headerBytes)
		termOffset := uint64(blob.Len())
		writeUint32(&blob, uint32(len(compressedHeaders)))
		blob.Write(compressedHeaders)
		blob.Write(payloads.Bytes())

		numSegments += uint64(len(segments))
		writeVocabEntry(&vocab, tp.Term, uint32(len(segments)), termOffset)
	}

	crc := crc32.ChecksumIEEE(blob.Bytes())
	footerBuf := make([]byte, footerLen)
	putFooter(footerBuf, footer{numSegmentHeaders: numSegments, version: footerVersion, crc: crc})
	blob.Write(footerBuf)

	var pk bytes.Buffer
	writeUint32(&pk, uint32(len(primaryKeys)))
	for _, key := range primaryKeys {
		writeString(&pk, key)
	}

	desc, err := NewDescriptor(c.Name(), dness)
	if err != nil {
		return Artifacts{}, err
	}

	return Artifacts{
		Vocabulary:   vocab.Bytes(),
		PostingsBlob: blob.Bytes(),
		PrimaryKeys:  pk.Bytes(),
		Descriptor:   desc.Encode(),
	}, nil
}

type impactSegment struct {
	impact uint8
	docids []uint32
}

// groupByImpact buckets a term's (docid, impact) pairs by impact,
// preserving ascending docid order within each bucket (required for
// d-gap encoding), then returns buckets sorted by descending impact.
func groupByImpact(docids []uint32, impacts []uint8) []impactSegment {
	buckets := make(map[uint8][]uint32)
	order := make([]uint8, 0)
	for i, doc := range docids {
		impact := impacts[i]
		if _, ok := buckets[impact]; !ok {
			order = append(order, impact)
		}
		buckets[impact] = append(buckets[impact], doc)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] > order[j] })

	out := make([]impactSegment, 0, len(order))
	for _, impact := range order {
		out = append(out, impactSegment{impact: impact, docids: buckets[impact]})
	}
	return out
}

// encodeSegment applies the d-ness transform (DOne: d-gap the ascending
// docids) then runs the chosen codec, doubling the output buffer for
// as long as the codec reports overflow (spec.md 4.5: encode returns 0
// on a too-small buffer).
func encodeSegment(c codec.Codec, dness dispatch.DNess, docids []uint32) ([]byte, error) {
	src := docids
	if dness == dispatch.DOne {
		src = toDGaps(docids)
	}

	capBytes := len(src)*4 + 64
	for {
		dst := make([]byte, capBytes+codec.MaxOverscanBytes)
		written := c.Encode(dst, capBytes, src, len(src))
		if written > 0 || len(src) == 0 {
			return dst[:written], nil
		}
		capBytes *= 2
	}
}

func toDGaps(docids []uint32) []uint32 {
	gaps := make([]uint32, len(docids))
	var prev uint32
	for i, d := range docids {
		gaps[i] = d - prev
		prev = d
	}
	return gaps
}

func writeVocabEntry(buf *bytes.Buffer, term string, impacts uint32, offset uint64) {
	writeString(buf, term)
	writeUint32(buf, impacts)
	var off [8]byte
	binary.LittleEndian.PutUint64(off[:], offset)
	buf.Write(off[:])
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint32(buf, uint32(len(s)))
	buf.WriteString(s)
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

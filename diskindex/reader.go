package diskindex

import (
	"encoding/binary"
	"errors"
	"hash/crc32"

	"indexkit/codec"
	"indexkit/dispatch"
)

var errTruncated = errors.New("truncated length-prefixed string")

// Reader is the query-time loader of spec.md section 4.7: it parses
// the four artifacts Build produced back into a sorted vocabulary, a
// segment-header/payload accessor over the postings blob, the
// primary-key table, and the codec this build was written with.
type Reader struct {
	terms   []TermRecord
	byTerm  map[string]int
	blob    []byte
	numSegs uint64
	keys    []string
	desc    Descriptor
	codec   codec.Codec
}

// NewReader parses vocab/blob/primaryKeys/descriptor, validating the
// postings blob's trailing footer (version + CRC32) and resolving the
// descriptor's codec name against codecs. Any structural problem is
// reported as ErrIndexCorrupt (spec.md section 7).
func NewReader(vocab, blob, primaryKeys, descriptor []byte, codecs codec.Registry) (*Reader, error) {
	if len(blob) < footerLen {
		return nil, corruptf("postings blob: %d bytes, shorter than footer", len(blob))
	}
	body := blob[:len(blob)-footerLen]
	f := getFooter(blob[len(blob)-footerLen:])
	if f.version != footerVersion {
		return nil, corruptf("postings blob: version %d, want %d", f.version, footerVersion)
	}
	if got := crc32.ChecksumIEEE(body); got != f.crc {
		return nil, corruptf("postings blob: crc32 mismatch (got %#x, want %#x)", got, f.crc)
	}

	terms, byTerm, err := parseVocabulary(vocab)
	if err != nil {
		return nil, err
	}

	keys, err := parsePrimaryKeys(primaryKeys)
	if err != nil {
		return nil, err
	}

	desc, err := DecodeDescriptor(descriptor)
	if err != nil {
		return nil, err
	}
	c, err := codecs.Lookup(desc.CodecName)
	if err != nil {
		return nil, corruptf("%s", err)
	}

	return &Reader{
		terms:   terms,
		byTerm:  byTerm,
		blob:    body,
		numSegs: f.numSegmentHeaders,
		keys:    keys,
		desc:    desc,
		codec:   c,
	}, nil
}

// Vocabulary returns every term record in the sorted order Build wrote
// them (spec.md section 6: "the vocabulary file ... iterated in sorted
// term order").
func (r *Reader) Vocabulary() []TermRecord { return r.terms }

// SegmentHeaders returns term's impact segments, descending by impact
// (spec.md section 4.7, "segment_headers(term)"), or false if term is
// not present in the vocabulary. The header array is stored
// zstd-compressed (SPEC_FULL.md B, klauspost/compress) and decompressed
// here on every call rather than cached, keeping the Reader itself
// stateless between lookups.
func (r *Reader) SegmentHeaders(term string) ([]SegmentHeader, bool, error) {
	idx, ok := r.byTerm[term]
	if !ok {
		return nil, false, nil
	}
	rec := r.terms[idx]
	start := int(rec.Offset)
	if start < 0 || start+4 > len(r.blob) {
		return nil, false, corruptf("term %q: header length prefix out of blob bounds", term)
	}
	compressedLen := int(binary.LittleEndian.Uint32(r.blob[start : start+4]))
	compressedStart := start + 4
	compressedEnd := compressedStart + compressedLen
	if compressedLen < 0 || compressedEnd > len(r.blob) {
		return nil, false, corruptf("term %q: compressed header block out of blob bounds", term)
	}

	decompressedLen := int(rec.Impacts) * segmentHeaderSize
	raw, err := decompressHeaders(r.blob[compressedStart:compressedEnd], decompressedLen)
	if err != nil {
		return nil, false, corruptf("term %q: decompressing segment headers: %s", term, err)
	}
	if len(raw) != decompressedLen {
		return nil, false, corruptf("term %q: decompressed %d header bytes, want %d", term, len(raw), decompressedLen)
	}

	payloadRegionStart := uint64(compressedEnd)
	out := make([]SegmentHeader, rec.Impacts)
	for i := range out {
		hdr := getSegmentHeader(raw[i*segmentHeaderSize : (i+1)*segmentHeaderSize])
		hdr.Offset += payloadRegionStart
		hdr.End += payloadRegionStart
		if hdr.Offset > hdr.End || hdr.End > uint64(len(r.blob)) {
			return nil, false, corruptf("term %q segment %d: payload range [%d,%d) out of blob bounds", term, i, hdr.Offset, hdr.End)
		}
		out[i] = hdr
	}
	return out, true, nil
}

// Payload returns the codec-encoded byte range a SegmentHeader points
// at, ready for codec.Decode / dispatch.DecodeAndProcess.
func (r *Reader) Payload(h SegmentHeader) []byte {
	return r.blob[h.Offset:h.End]
}

// PrimaryKeys returns the build's docid -> external key table, indexed
// by docid-1 (docids are 1-indexed, spec.md section 3).
func (r *Reader) PrimaryKeys() []string { return r.keys }

// SegmentCount reports the total number of segment headers across
// every term, as stamped in the footer at build time.
func (r *Reader) SegmentCount() uint64 { return r.numSegs }

// Codex returns the codec this build was written with and the d-ness
// driving decoder dispatch (spec.md section 4.7, "codex(name_out,
// d_ness_out) factory").
func (r *Reader) Codex() (codec.Codec, dispatch.DNess) { return r.codec, r.desc.DNess }

// BuildID returns the build id stamped into the codec descriptor
// (SPEC_FULL.md supplement C.2).
func (r *Reader) BuildID() string { return r.desc.BuildID.String() }

func parseVocabulary(vocab []byte) ([]TermRecord, map[string]int, error) {
	var terms []TermRecord
	byTerm := make(map[string]int)
	off := 0
	for off < len(vocab) {
		term, next, err := readString(vocab, off)
		if err != nil {
			return nil, nil, corruptf("vocabulary: %s", err)
		}
		off = next
		if off+12 > len(vocab) {
			return nil, nil, corruptf("vocabulary: truncated entry for term %q", term)
		}
		impacts := binary.LittleEndian.Uint32(vocab[off : off+4])
		offset := binary.LittleEndian.Uint64(vocab[off+4 : off+12])
		off += 12

		byTerm[term] = len(terms)
		terms = append(terms, TermRecord{Term: []byte(term), Impacts: impacts, Offset: offset})
	}
	return terms, byTerm, nil
}

func parsePrimaryKeys(data []byte) ([]string, error) {
	if len(data) < 4 {
		return nil, corruptf("primary key table: truncated count")
	}
	count := binary.LittleEndian.Uint32(data[:4])
	off := 4
	keys := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		s, next, err := readString(data, off)
		if err != nil {
			return nil, corruptf("primary key table: entry %d: %s", i, err)
		}
		keys = append(keys, s)
		off = next
	}
	return keys, nil
}

func readString(buf []byte, off int) (string, int, error) {
	if off+4 > len(buf) {
		return "", 0, errTruncated
	}
	n := int(binary.LittleEndian.Uint32(buf[off : off+4]))
	off += 4
	if n < 0 || off+n > len(buf) {
		return "", 0, errTruncated
	}
	return string(buf[off : off+n]), off + n, nil
}

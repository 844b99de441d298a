package diskindex

import (
	"testing"

	"github.com/stretchr/testify/require"

	"indexkit/codec"
	"indexkit/codec/fixed32"
	"indexkit/dispatch"
)

func registry() codec.Registry {
	r := make(codec.Registry)
	r.Register(fixed32.Codec{})
	return r
}

func sampleTerms() []TermPostings {
	return []TermPostings{
		{Term: "zebra", DocIDs: []uint32{2, 4}, Impacts: []uint8{9, 3}},
		{Term: "apple", DocIDs: []uint32{1, 2, 3}, Impacts: []uint8{5, 5, 1}},
	}
}

func TestBuildReadRoundTrip(t *testing.T) {
	artifacts, err := Build(sampleTerms(), []string{"doc-a", "doc-b", "doc-c", "doc-d"}, fixed32.Codec{}, dispatch.DZero)
	require.NoError(t, err)

	r, err := NewReader(artifacts.Vocabulary, artifacts.PostingsBlob, artifacts.PrimaryKeys, artifacts.Descriptor, registry())
	require.NoError(t, err)

	vocab := r.Vocabulary()
	require.Len(t, vocab, 2)
	require.Equal(t, "apple", string(vocab[0].Term)) // sorted lexicographically
	require.Equal(t, "zebra", string(vocab[1].Term))

	require.Equal(t, []string{"doc-a", "doc-b", "doc-c", "doc-d"}, r.PrimaryKeys())

	c, dness := r.Codex()
	require.Equal(t, "fixed32", c.Name())
	require.Equal(t, dispatch.DZero, dness)
}

func TestSegmentHeadersOrderedByDescendingImpact(t *testing.T) {
	artifacts, err := Build(sampleTerms(), nil, fixed32.Codec{}, dispatch.DZero)
	require.NoError(t, err)
	r, err := NewReader(artifacts.Vocabulary, artifacts.PostingsBlob, artifacts.PrimaryKeys, artifacts.Descriptor, registry())
	require.NoError(t, err)

	headers, ok, err := r.SegmentHeaders("apple")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, headers, 2) // impacts {5,5,1} -> segments {5: [1,2]}, {1: [3]}
	require.Equal(t, uint8(5), headers[0].Impact)
	require.Equal(t, uint32(2), headers[0].SegmentFrequency)
	require.Equal(t, uint8(1), headers[1].Impact)
	require.Equal(t, uint32(1), headers[1].SegmentFrequency)

	payload := r.Payload(headers[0])
	docids := make([]uint32, 2)
	c, _ := r.Codex()
	c.Decode(docids, 2, payload)
	require.Equal(t, []uint32{1, 2}, docids)
}

func TestSegmentHeadersUnknownTerm(t *testing.T) {
	artifacts, err := Build(sampleTerms(), nil, fixed32.Codec{}, dispatch.DZero)
	require.NoError(t, err)
	r, err := NewReader(artifacts.Vocabulary, artifacts.PostingsBlob, artifacts.PrimaryKeys, artifacts.Descriptor, registry())
	require.NoError(t, err)

	_, ok, err := r.SegmentHeaders("missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNewReaderRejectsTruncatedBlob(t *testing.T) {
	artifacts, err := Build(sampleTerms(), nil, fixed32.Codec{}, dispatch.DZero)
	require.NoError(t, err)

	truncated := artifacts.PostingsBlob[:len(artifacts.PostingsBlob)-1]
	_, err = NewReader(artifacts.Vocabulary, truncated, artifacts.PrimaryKeys, artifacts.Descriptor, registry())
	require.ErrorIs(t, err, ErrIndexCorrupt)
}

func TestNewReaderRejectsBitRot(t *testing.T) {
	artifacts, err := Build(sampleTerms(), nil, fixed32.Codec{}, dispatch.DZero)
	require.NoError(t, err)

	corrupted := append([]byte(nil), artifacts.PostingsBlob...)
	corrupted[0] ^= 0xFF
	_, err = NewReader(artifacts.Vocabulary, corrupted, artifacts.PrimaryKeys, artifacts.Descriptor, registry())
	require.ErrorIs(t, err, ErrIndexCorrupt)
}

func TestNewReaderRejectsUnknownCodec(t *testing.T) {
	artifacts, err := Build(sampleTerms(), nil, fixed32.Codec{}, dispatch.DZero)
	require.NoError(t, err)

	_, err = NewReader(artifacts.Vocabulary, artifacts.PostingsBlob, artifacts.PrimaryKeys, artifacts.Descriptor, make(codec.Registry))
	require.ErrorIs(t, err, ErrIndexCorrupt)
}

func TestDecodeDescriptorRejectsBadDNess(t *testing.T) {
	d := Descriptor{CodecName: "fixed32", DNess: dispatch.DNess(7)}
	_, err := DecodeDescriptor(d.Encode())
	require.ErrorIs(t, err, ErrIndexCorrupt)
}

func TestDescriptorRoundTrip(t *testing.T) {
	d, err := NewDescriptor("eliasgammavb", dispatch.DOne)
	require.NoError(t, err)

	got, err := DecodeDescriptor(d.Encode())
	require.NoError(t, err)
	require.Equal(t, d, got)
}

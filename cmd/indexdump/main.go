// Command indexdump is the reference dumper of spec.md section 6: a
// thin collaborator over diskindex.Reader and dispatch.DecodeAndProcess
// that prints a built index's postings lists and primary keys, either
// in this project's own format or an ATIRE-compatible one.
//
// Usage:
//
//	indexdump [-A|--ATIRE] <vocabulary> <postings-blob> <primary-keys> <descriptor>
package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"indexkit/codec"
	"indexkit/codec/eliasgammavb"
	"indexkit/codec/fixed32"
	"indexkit/codec/vbyte"
	"indexkit/diskindex"
	"indexkit/dispatch"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	atire := false
	help := false
	var positional []string
	for _, a := range args {
		switch a {
		case "-?", "--help":
			help = true
		case "-A", "--ATIRE":
			atire = true
		default:
			positional = append(positional, a)
		}
	}
	if help {
		printUsage(stderr)
		return 1
	}
	if len(positional) != 4 {
		printUsage(stderr)
		return 1
	}

	r, err := openReader(positional[0], positional[1], positional[2], positional[3])
	if err != nil {
		fmt.Fprintln(stderr, "indexdump:", err)
		return 1
	}

	if atire {
		dumpATIRE(stdout, r)
	} else {
		dumpDefault(stdout, r)
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: indexdump [-A|--ATIRE] <vocabulary> <postings-blob> <primary-keys> <descriptor>")
}

func openReader(vocabPath, blobPath, keysPath, descPath string) (*diskindex.Reader, error) {
	vocab, err := os.ReadFile(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary: %w", err)
	}
	blob, err := os.ReadFile(blobPath)
	if err != nil {
		return nil, fmt.Errorf("reading postings blob: %w", err)
	}
	keys, err := os.ReadFile(keysPath)
	if err != nil {
		return nil, fmt.Errorf("reading primary keys: %w", err)
	}
	desc, err := os.ReadFile(descPath)
	if err != nil {
		return nil, fmt.Errorf("reading codec descriptor: %w", err)
	}

	codecs := make(codec.Registry)
	codecs.Register(fixed32.Codec{}, vbyte.Codec{}, eliasgammavb.Codec{})

	return diskindex.NewReader(vocab, blob, keys, desc, codecs)
}

// docImpact is one decoded (docid, impact) pair for display.
type docImpact struct {
	doc    uint32
	impact uint8
}

// renderSink collects decoded docids under the impact DecodeAndProcess
// set via SetScore, for dumpDefault's per-term ascending-docid render.
type renderSink struct {
	impact uint64
	out    *[]docImpact
}

func (s *renderSink) SetScore(impact uint64) { s.impact = impact }
func (s *renderSink) PushBack8(docids [dispatch.LaneWidth]uint32, count int) {
	for i := 0; i < count; i++ {
		*s.out = append(*s.out, docImpact{doc: docids[i], impact: uint8(s.impact)})
	}
}
func (s *renderSink) AddRSV(doc, impact uint64) {
	*s.out = append(*s.out, docImpact{doc: uint32(doc), impact: uint8(impact)})
}

func dumpDefault(w io.Writer, r *diskindex.Reader) {
	fmt.Fprintln(w, "POSTINGS LISTS")
	fmt.Fprintln(w, "-------------")

	c, dness := r.Codex()
	for _, rec := range r.Vocabulary() {
		term := string(rec.Term)
		headers, ok, err := r.SegmentHeaders(term)
		if !ok || err != nil {
			continue
		}

		var hits []docImpact
		sink := &renderSink{out: &hits}
		for _, h := range headers {
			_ = dispatch.DecodeAndProcess(h.Impact, sink, c, dness, int(h.SegmentFrequency), r.Payload(h))
		}
		sort.Slice(hits, func(i, j int) bool { return hits[i].doc < hits[j].doc })

		fmt.Fprintf(w, "%s ", term)
		for _, hit := range hits {
			fmt.Fprintf(w, "<%d,%d>", hit.doc, hit.impact)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "PRIMARY KEY LIST")
	fmt.Fprintln(w, "----------------")
	for _, pk := range r.PrimaryKeys() {
		fmt.Fprintln(w, pk)
	}
}

// dumpATIRE renders a term dictionary line per term: the term and its
// document frequency (segment-frequency summed across impacts) — the
// sibling system's dictionary dumper prints dictionary
// statistics rather than full postings, and carries no primary-key
// section (spec.md section 6 leaves the exact ATIRE byte layout
// unspecified; this is the pinned interpretation, see DESIGN.md).
func dumpATIRE(w io.Writer, r *diskindex.Reader) {
	for _, rec := range r.Vocabulary() {
		term := string(rec.Term)
		headers, ok, err := r.SegmentHeaders(term)
		if !ok || err != nil {
			continue
		}
		var df uint64
		for _, h := range headers {
			df += uint64(h.SegmentFrequency)
		}
		fmt.Fprintf(w, "%s %d\n", term, df)
	}
}

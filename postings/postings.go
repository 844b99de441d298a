// Package postings implements per-term postings accumulation during
// document ingestion (spec.md section 4.3): a streaming push_back
// that collapses repeated docids into a running term frequency while
// recording every position, backed by arena-allocated dynamic arrays
// so that millions of terms fit in bounded RSS (spec.md section 9).
package postings

import (
	"errors"
	"fmt"

	"go.uber.org/atomic"

	"indexkit/internal/arena"
	"indexkit/internal/dynarray"
)

// MaxTF is the saturation ceiling for a term's per-document frequency
// (spec.md section 3): tf never reaches 0xFFFF, only 0xFFFE.
const MaxTF = 0xFFFE

// ErrInvariantViolation reports a non-monotonic (doc, pos) pair
// reaching PushBack. Go has no separate debug/release build split, so
// this is always returned rather than debug-asserted (SPEC_FULL.md
// section A.2); callers that trust their own ingestion order may
// ignore it.
var ErrInvariantViolation = errors.New("postings: invariant violation")

// Posting is one (docid, tf, pos) triple, spec.md section 3.
type Posting struct {
	DocID uint32
	TF    uint16
	Pos   uint32
}

// List is the per-term accumulator: three equal-history-bound
// sequences (docids, tfs, positions), each backed by its own
// arena-allocated dynarray.Array so a term with a long tail of rare
// positions never forces the docid/tf arrays to over-allocate.
type List struct {
	docids dynarray.Array[uint32]
	tfs    dynarray.Array[uint16]
	pos    dynarray.Array[uint32]

	lastDoc uint32
	lastPos uint32
	started bool
}

// NewList returns an empty postings list allocating from a.
func NewList(a *arena.Arena) *List {
	return &List{
		docids: *dynarray.New[uint32](a),
		tfs:    *dynarray.New[uint16](a),
		pos:    *dynarray.New[uint32](a),
	}
}

// PushBack records one occurrence of this term at (doc, pos),
// implementing spec.md 4.3:
//  1. if doc == last_doc, bump tfs.back() (saturating at MaxTF);
//  2. else append doc to docids and 1 to tfs;
//  3. always append pos to positions.
//
// doc must be >= the previously pushed doc, and when doc repeats the
// previous doc, pos must be strictly greater than the previously
// pushed pos (positions restart with each new doc); a violation is
// reported, not panicked.
func (l *List) PushBack(doc, pos uint32) error {
	if doc == 0 || pos == 0 {
		return fmt.Errorf("%w: doc and pos are 1-indexed, got doc=%d pos=%d", ErrInvariantViolation, doc, pos)
	}
	if l.started {
		if doc < l.lastDoc {
			return fmt.Errorf("%w: doc %d precedes last doc %d", ErrInvariantViolation, doc, l.lastDoc)
		}
		if doc == l.lastDoc && pos <= l.lastPos {
			return fmt.Errorf("%w: pos %d does not exceed last pos %d for doc %d", ErrInvariantViolation, pos, l.lastPos, doc)
		}
	}

	if l.started && doc == l.lastDoc {
		tf := l.tfs.Back()
		if *tf < MaxTF {
			*tf++
		}
	} else {
		l.docids.PushBack(doc)
		l.tfs.PushBack(1)
	}
	l.pos.PushBack(pos)
	l.lastDoc = doc
	l.lastPos = pos
	l.started = true
	return nil
}

// DocFreq returns the number of distinct docids accumulated so far.
func (l *List) DocFreq() int { return l.docids.Len() }

// Iter walks the list's stored postings: tf is repeated across every
// position recorded for its docid (spec.md 4.3, "Iteration yields...").
func (l *List) Iter() *Iterator {
	return &Iterator{
		docIt: l.docids.Iter(),
		tfIt:  l.tfs.Iter(),
		posIt: l.pos.Iter(),
	}
}

// Iterator produces (docid, tf, pos) triples in append order.
type Iterator struct {
	docIt *dynarray.Iterator[uint32]
	tfIt  *dynarray.Iterator[uint16]
	posIt *dynarray.Iterator[uint32]

	curDoc     uint32
	curTF      uint16
	remaining  uint16
	haveDoc    bool
}

// Next returns the next (doc, tf, pos) triple, or ok=false when exhausted.
func (it *Iterator) Next() (doc uint32, tf uint16, pos uint32, ok bool) {
	if !it.haveDoc || it.remaining == 0 {
		d, dok := it.docIt.Next()
		t, tok := it.tfIt.Next()
		if !dok || !tok {
			return 0, 0, 0, false
		}
		it.curDoc, it.curTF = d, t
		it.remaining = t
		it.haveDoc = true
	}
	p, pok := it.posIt.Next()
	if !pok {
		return 0, 0, 0, false
	}
	it.remaining--
	return it.curDoc, it.curTF, p, true
}

// Accumulator owns one List per term within a single build-thread
// shard (spec.md section 5: "each build thread owns a private arena
// and a private accumulator shard; no cross-thread mutation").
type Accumulator struct {
	arena   *arena.Arena
	lists   map[string]*List
	entries *atomic.Uint64 // total postings recorded, for build-progress logging
}

// NewAccumulator returns an empty shard backed by a fresh arena of
// initialSlabBytes.
func NewAccumulator(initialSlabBytes int) *Accumulator {
	return &Accumulator{
		arena:   arena.New(initialSlabBytes),
		lists:   make(map[string]*List),
		entries: atomic.NewUint64(0),
	}
}

// PushBack records one (doc, pos) occurrence of term, creating its
// List on first use.
func (a *Accumulator) PushBack(term string, doc, pos uint32) error {
	l, ok := a.lists[term]
	if !ok {
		l = NewList(a.arena)
		a.lists[term] = l
	}
	if err := l.PushBack(doc, pos); err != nil {
		return err
	}
	a.entries.Inc()
	return nil
}

// List returns the accumulated postings for term, or nil if the term
// was never pushed to.
func (a *Accumulator) List(term string) *List { return a.lists[term] }

// Terms returns every term with at least one posting. Order is
// unspecified; callers that need lexicographic order (the vocabulary
// file, spec.md section 6) sort the result themselves.
func (a *Accumulator) Terms() []string {
	out := make([]string, 0, len(a.lists))
	for t := range a.lists {
		out = append(out, t)
	}
	return out
}

// Entries reports the total number of postings recorded in this shard.
func (a *Accumulator) Entries() uint64 { return a.entries.Load() }

// Release drops every arena-backed structure in this shard at once,
// reclaiming all memory (spec.md section 5, "Callers abandoning an
// index build drop the arena").
func (a *Accumulator) Release() {
	a.arena.Reset()
	a.lists = make(map[string]*List)
	a.entries.Store(0)
}

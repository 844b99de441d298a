package postings

import (
	"container/heap"
	"fmt"

	"github.com/RoaringBitmap/roaring"

	"indexkit/internal/arena"
)

// MergeShards reduces one term's per-shard Lists into a single
// arena-backed List in ascending docid order (spec.md section 5:
// "Merge occurs in a single-threaded reduction phase that reads shard
// outputs and emits the unified vocabulary and postings blob").
//
// Shards are expected to own disjoint docid ranges (each build thread
// ingests its own documents). A roaring.Bitmap records which docids
// have already been merged; owner tracks which shard contributed each
// one, so a shard that violates the disjoint-range assumption — the
// same docid surfacing out of two different shards for this term —
// is caught immediately instead of silently corrupting docid
// ordering. roaring is the transitive dependency the teacher's
// ice/bluge stack pulls in for exactly this kind of compact
// "have I seen this docid" membership test.
func MergeShards(dest *arena.Arena, shards []*List) (*List, error) {
	merged := NewList(dest)
	seen := roaring.New()
	owner := make(map[uint32]int)

	h := &postingHeap{}
	for shardIdx, shard := range shards {
		if shard == nil {
			continue
		}
		it := shard.Iter()
		doc, _, pos, ok := it.Next()
		if ok {
			heap.Push(h, &mergeCursor{doc: doc, pos: pos, shardIdx: shardIdx, it: it})
		}
	}

	for h.Len() > 0 {
		cur := (*h)[0]

		// Every posting (not just the first one for a given docid) is
		// checked against owner: two shards can interleave postings for
		// the same docid in the merge order, so a transition-only check
		// would miss a duplicate that arrives right after its first
		// occurrence from the other shard.
		if !seen.ContainsInt(int(cur.doc)) {
			owner[cur.doc] = cur.shardIdx
			seen.AddInt(int(cur.doc))
		} else if owner[cur.doc] != cur.shardIdx {
			return nil, fmt.Errorf("postings: merge found docid %d in more than one shard", cur.doc)
		}

		if err := merged.PushBack(cur.doc, cur.pos); err != nil {
			return nil, fmt.Errorf("postings: merge: %w", err)
		}

		doc, _, pos, ok := cur.it.Next()
		if !ok {
			heap.Pop(h)
			continue
		}
		cur.doc, cur.pos = doc, pos
		heap.Fix(h, 0)
	}
	return merged, nil
}

type mergeCursor struct {
	doc, pos uint32
	shardIdx int
	it       *Iterator
}

type postingHeap []*mergeCursor

func (h postingHeap) Len() int { return len(h) }
func (h postingHeap) Less(i, j int) bool {
	if h[i].doc != h[j].doc {
		return h[i].doc < h[j].doc
	}
	return h[i].pos < h[j].pos
}
func (h postingHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *postingHeap) Push(x any)   { *h = append(*h, x.(*mergeCursor)) }
func (h *postingHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

package rank

import (
	"errors"
	"fmt"
	"math"

	"indexkit/postings"
)

// ErrRankerDomain is returned when a ranker yields a NaN or infinite
// score: the quantizer's (min, max) bounds are undefined in that case
// and the build must fail fast (spec.md section 7).
var ErrRankerDomain = errors.New("rank: score is NaN or infinite")

// Corpus is the minimal view over an ingested index the quantizer
// needs: every term's postings list plus the document-frequency and
// corpus size the ranker's idf component requires.
type Corpus interface {
	Terms() []string
	List(term string) *postings.List
	DocCount() uint64
}

// Quantizer implements the two-pass reducer of spec.md section 4.4:
// Pass A observes (min_rsv, max_rsv) across the whole corpus; Pass B
// maps every score into [smallestImpact, largestImpact].
type Quantizer struct {
	ranker         Ranker
	smallestImpact uint8
	largestImpact  uint8

	minRSV   float64
	maxRSV   float64
	observed bool
	phase    phase
}

type phase int

const (
	phaseObserve phase = iota
	phaseEmit
)

// NewQuantizer returns a Quantizer over [smallestImpact, largestImpact].
func NewQuantizer(ranker Ranker, smallestImpact, largestImpact uint8) *Quantizer {
	return &Quantizer{ranker: ranker, smallestImpact: smallestImpact, largestImpact: largestImpact}
}

// Observe runs Pass A over the whole corpus, tracking (min_rsv,
// max_rsv) across every (term, doc, tf) score. It must complete
// before EmitList is called (spec.md section 5: "pass A must fully
// complete... before pass B begins").
func (q *Quantizer) Observe(c Corpus) error {
	n := c.DocCount()
	for _, term := range c.Terms() {
		list := c.List(term)
		df := uint64(list.DocFreq())
		q.ranker.ComputeIDFComponent(df, n)

		it := list.Iter()
		seenDoc := ^uint32(0)
		for {
			doc, tf, _, ok := it.Next()
			if !ok {
				break
			}
			if doc == seenDoc {
				continue // score is per (term, doc); skip repeat positions
			}
			seenDoc = doc
			score := q.ranker.ComputeScore(doc, tf)
			if math.IsNaN(score) || math.IsInf(score, 0) {
				return fmt.Errorf("%w: term %q doc %d tf %d", ErrRankerDomain, term, doc, tf)
			}
			if !q.observed {
				q.minRSV, q.maxRSV = score, score
				q.observed = true
				continue
			}
			if score < q.minRSV {
				q.minRSV = score
			}
			if score > q.maxRSV {
				q.maxRSV = score
			}
		}
	}
	q.phase = phaseEmit
	return nil
}

// Bounds returns the (min, max) RSV observed by Pass A. Invariant
// (section 8, property 4): minRSV <= maxRSV once observed.
func (q *Quantizer) Bounds() (minRSV, maxRSV float64) {
	return q.minRSV, q.maxRSV
}

// Impact maps a raw score into the quantizer's impact domain (Pass B,
// spec.md section 4.4):
//
//	impact = floor((score - min_rsv) / range * impact_range) + smallest_impact
//
// When range == 0 (every observed score was equal), every impact is
// smallest_impact, per this spec's pinned resolution of that open
// question; this never divides by zero.
func (q *Quantizer) Impact(score float64) uint8 {
	rsvRange := q.maxRSV - q.minRSV
	if rsvRange == 0 {
		return q.smallestImpact
	}
	impactRange := float64(q.largestImpact) - float64(q.smallestImpact)
	impact := math.Floor((score-q.minRSV)/rsvRange*impactRange) + float64(q.smallestImpact)
	if impact < float64(q.smallestImpact) {
		impact = float64(q.smallestImpact)
	}
	if impact > float64(q.largestImpact) {
		impact = float64(q.largestImpact)
	}
	return uint8(impact)
}

// EmitList runs Pass B over one term's postings, returning one impact
// per distinct docid in docid order, and the docids themselves. The
// caller passes the same ranker-visible (term, doc, tf) context Pass A
// saw so ComputeScore reproduces the identical score.
func (q *Quantizer) EmitList(term string, list *postings.List, n uint64) (docids []uint32, impacts []uint8, err error) {
	df := uint64(list.DocFreq())
	q.ranker.ComputeIDFComponent(df, n)

	it := list.Iter()
	seenDoc := ^uint32(0)
	for {
		doc, tf, _, ok := it.Next()
		if !ok {
			break
		}
		if doc == seenDoc {
			continue
		}
		seenDoc = doc
		score := q.ranker.ComputeScore(doc, tf)
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return nil, nil, fmt.Errorf("%w: term %q doc %d tf %d", ErrRankerDomain, term, doc, tf)
		}
		docids = append(docids, doc)
		impacts = append(impacts, q.Impact(score))
	}
	return docids, impacts, nil
}

// Package rank implements the impact quantizer (spec.md section 4.4):
// a two-pass reducer that observes the (min, max) relevance score
// across an entire corpus, then maps every score into a small integer
// impact range. The actual ranking math is an external collaborator
// (spec.md section 1, non-goals) behind the Ranker capability.
package rank

// Ranker is the ranking-function capability the quantizer is
// polymorphic over (spec.md section 4.4). Implementations are
// stateful across calls within a term: ComputeIDFComponent is
// expected to be computed once per term and cached by the Ranker, the
// way nakama's leaderboard rank cache computes per-leaderboard state
// once and reuses it across record inserts.
type Ranker interface {
	// ComputeIDFComponent returns the inverse-document-frequency
	// component for a term with document frequency df in a corpus of
	// n documents, and caches it on the Ranker for the ComputeScore
	// calls that follow for this term (spec.md 4.4: "idf is computed
	// once per term").
	ComputeIDFComponent(df, n uint64) float64
	// ComputeTFComponent returns the term-frequency component for a
	// raw term frequency tf.
	ComputeTFComponent(tf uint16) float64
	// ComputeScore returns the raw relevance score (RSV) for docIdx
	// within the term currently cached by the last
	// ComputeIDFComponent call, given that document's term frequency.
	ComputeScore(docIdx uint32, tf uint16) float64
}

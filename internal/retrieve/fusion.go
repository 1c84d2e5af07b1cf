package retrieve

import (
	"sort"

	"github.com/findablescore/auditor/internal/config"
	"github.com/findablescore/auditor/internal/index"
)

// FusedResult is one chunk's combined lexical+vector standing after RRF.
type FusedResult struct {
	ChunkID       string
	PageID        string
	RRFScore      float64
	RelevanceNorm float64
}

// rrfNormalizationDivisor is the §4.7 "numeric semantics" contract: raw RRF
// scores lie in roughly [0, 0.03], and downstream scoring normalizes by
// dividing by this constant and capping at 1. A prior implementation
// skipped this step and capped achievable scores near 61; it must be
// applied everywhere a raw RRF score feeds a blended score, not just here.
// NormalizeRRF is exported and internal/simulate calls it; internal/pillar
// repeats the same formula in its own normalizeRRF.
const rrfNormalizationDivisor = 0.02

// NormalizeRRF maps a raw RRF score into [0,1] per the retrieval-to-scoring
// contract: min(1, raw/0.02).
func NormalizeRRF(raw float64) float64 {
	norm := raw / rrfNormalizationDivisor
	if norm > 1 {
		return 1
	}
	return norm
}

// fuseResults applies Reciprocal Rank Fusion to the two ranked lists,
// following pkg/searcher/fusion.go's fuseResults shape (per-item score
// accumulation keyed by ID, weight/(k+rank) per list, stable sort by score
// then ID) generalized to the spec's explicit
// rrf = w_vec/(k+rank_vec) + w_bm25/(k+rank_bm25) formula and typed chunk
// results carrying PageID for the diversity pass below.
func fuseResults(bm25Results []index.BM25Result, vectorResults []index.VectorResult, cfg config.RetrievalConfig) []FusedResult {
	type accumulator struct {
		pageID string
		score  float64
	}

	scores := make(map[string]*accumulator)

	for rank, r := range bm25Results {
		rrf := cfg.BM25Weight / float64(cfg.RRFConstant+rank+1)
		if existing, ok := scores[r.ChunkID]; ok {
			existing.score += rrf
		} else {
			scores[r.ChunkID] = &accumulator{pageID: r.PageID, score: rrf}
		}
	}

	for rank, r := range vectorResults {
		rrf := cfg.VectorWeight / float64(cfg.RRFConstant+rank+1)
		if existing, ok := scores[r.ChunkID]; ok {
			existing.score += rrf
		} else {
			scores[r.ChunkID] = &accumulator{pageID: r.PageID, score: rrf}
		}
	}

	results := make([]FusedResult, 0, len(scores))
	for chunkID, acc := range scores {
		results = append(results, FusedResult{
			ChunkID:       chunkID,
			PageID:        acc.pageID,
			RRFScore:      acc.score,
			RelevanceNorm: NormalizeRRF(acc.score),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].RRFScore != results[j].RRFScore {
			return results[i].RRFScore > results[j].RRFScore
		}
		return results[i].ChunkID < results[j].ChunkID
	})

	return results
}

// applyDiversityCap caps the number of chunks from the same page at
// perPageCap, demoting overflow to the tail instead of dropping it,
// following the §4.7 diversity constraint. Grounded on
// pkg/searcher/fusion.go's truncateResults idea of a final post-fusion
// pass over the already-ranked list, extended with a per-page bucketing
// counter the teacher's code search domain (one chunk per file, no
// multi-chunk-per-document crowding) never needed.
func applyDiversityCap(results []FusedResult, perPageCap int) []FusedResult {
	if perPageCap <= 0 {
		return results
	}

	counts := make(map[string]int)
	head := make([]FusedResult, 0, len(results))
	tail := make([]FusedResult, 0)

	for _, r := range results {
		if counts[r.PageID] < perPageCap {
			head = append(head, r)
			counts[r.PageID]++
		} else {
			tail = append(tail, r)
		}
	}

	return append(head, tail...)
}

// truncate returns at most limit results, following
// pkg/searcher/fusion.go's truncateResults.
func truncate(results []FusedResult, limit int) []FusedResult {
	if limit <= 0 || len(results) <= limit {
		return results
	}
	return results[:limit]
}

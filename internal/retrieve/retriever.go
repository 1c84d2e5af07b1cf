// Package retrieve fuses a Run's lexical and vector indexes into a single
// ranked, diversity-capped chunk list per question, following
// pkg/searcher/fusion.go's FusionSearcher shape.
package retrieve

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/findablescore/auditor/internal/config"
	"github.com/findablescore/auditor/internal/embed"
	"github.com/findablescore/auditor/internal/index"
)

// minFetchLimit is the floor on how many candidates each side fetches
// before fusion, following pkg/searcher/fusion.go's hybridSearch (2x limit,
// minimum 20 "for good fusion").
const minFetchLimit = 20

// Retriever answers a question's retrieval step against one Run's indexes.
type Retriever struct {
	bm25     *index.BM25Index
	vector   *index.VectorIndex
	embedder embed.Embedder
	cfg      config.RetrievalConfig
}

// New constructs a Retriever. indexEmbedder is the embedder instance that
// produced the vectors stored in vectorIndex; queryEmbedder is the instance
// about to be used to embed incoming questions. The spec's "Critical
// contract" (§4.6) treats a mismatch between the two as a construction-time
// error: a different embedder instance, even of the same model name, can
// silently place queries in a different vector space than the documents
// they're meant to match, and RRF would keep running and keep producing a
// ranked list, just a near-random one. Comparing the two as interface
// values works because every Embedder implementation
// (*OllamaEmbedder, *StaticEmbedder, *CachedEmbedder) is a pointer type, so
// "same instance" and "==" coincide.
func New(bm25Index *index.BM25Index, vectorIndex *index.VectorIndex, indexEmbedder, queryEmbedder embed.Embedder, cfg config.RetrievalConfig) *Retriever {
	if indexEmbedder != queryEmbedder {
		panic("retrieve: query embedder differs from the embedder that built the vector index")
	}

	return &Retriever{
		bm25:     bm25Index,
		vector:   vectorIndex,
		embedder: queryEmbedder,
		cfg:      cfg,
	}
}

// Search runs BM25 and vector search in parallel, fuses the results with
// RRF, applies the per-page diversity cap, and returns the top limit
// chunks. Graceful degradation matches pkg/searcher/fusion.go's
// hybridSearch: if one side fails, the other side's results are used
// directly (skipping fusion and the diversity cap, same as the teacher);
// only a failure on both sides is reported as an error.
func (r *Retriever) Search(ctx context.Context, query string, limit int) ([]FusedResult, error) {
	fetchLimit := limit * 2
	if fetchLimit < minFetchLimit {
		fetchLimit = minFetchLimit
	}

	var (
		bm25Results   []index.BM25Result
		vectorResults []index.VectorResult
		bm25Err       error
		vectorErr     error
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		bm25Results = r.bm25.Search(gctx, query, fetchLimit)
		return nil
	})

	g.Go(func() error {
		vec, err := r.embedQuery(gctx, query)
		if err != nil {
			vectorErr = err
			return nil
		}
		vectorResults, vectorErr = r.vector.Search(gctx, vec, fetchLimit)
		return nil
	})

	_ = g.Wait()

	if bm25Err != nil && vectorErr != nil {
		return nil, fmt.Errorf("retrieve: both searches failed: bm25: %v, vector: %v", bm25Err, vectorErr)
	}

	if vectorErr != nil {
		return truncateBM25Only(bm25Results, limit), nil
	}
	if bm25Err != nil {
		return truncateVectorOnly(vectorResults, limit), nil
	}

	fused := fuseResults(bm25Results, vectorResults, r.cfg)
	fused = applyDiversityCap(fused, r.cfg.PerPageCap)
	return truncate(fused, limit), nil
}

// embedQuery prefers the embedder's query-side instruction prefixing
// (QueryEmbedder, §4.6) and falls back to the document-side Embed when the
// embedder doesn't implement it (e.g. StaticEmbedder delegates internally).
func (r *Retriever) embedQuery(ctx context.Context, text string) ([]float32, error) {
	if qe, ok := r.embedder.(embed.QueryEmbedder); ok {
		return qe.EmbedQuery(ctx, text)
	}
	return r.embedder.Embed(ctx, text)
}

// truncateBM25Only/truncateVectorOnly handle the single-source degraded
// path. Their scores aren't RRF scores (one whole side failed, so there was
// nothing to fuse), so RelevanceNorm is a plain [0,1] clamp of the native
// score rather than the RRF normalization contract, which only applies to
// fused results.
func truncateBM25Only(results []index.BM25Result, limit int) []FusedResult {
	out := make([]FusedResult, 0, min(len(results), limit))
	for i, r := range results {
		if i >= limit {
			break
		}
		out = append(out, FusedResult{
			ChunkID:       r.ChunkID,
			PageID:        r.PageID,
			RRFScore:      r.Score,
			RelevanceNorm: clamp01(r.Score),
		})
	}
	return out
}

func truncateVectorOnly(results []index.VectorResult, limit int) []FusedResult {
	out := make([]FusedResult, 0, min(len(results), limit))
	for i, r := range results {
		if i >= limit {
			break
		}
		out = append(out, FusedResult{
			ChunkID:       r.ChunkID,
			PageID:        r.PageID,
			RRFScore:      r.Score,
			RelevanceNorm: clamp01(r.Score),
		})
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

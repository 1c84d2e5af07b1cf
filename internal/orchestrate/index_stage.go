package orchestrate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/findablescore/auditor/internal/chunk"
	"github.com/findablescore/auditor/internal/embed"
	"github.com/findablescore/auditor/internal/index"
	"github.com/findablescore/auditor/internal/retrieve"
	"github.com/findablescore/auditor/internal/simulate"
	"github.com/findablescore/auditor/pkg/audit"
)

// chunkPages runs every Page's main-content HTML through the semantic
// chunker and returns the chunk set alongside a lookup closure
// simulate.Simulator needs to read a ChunkID's text back out, since the
// Retriever only ever hands back IDs and scores.
func (o *Orchestrator) chunkPages(pages []audit.Page, mainHTMLByPage map[string]string, runID string) ([]audit.Chunk, simulate.ChunkTextLookup) {
	chunker := chunk.NewPageChunker(o.config.Chunk)

	var all []audit.Chunk
	text := make(map[string]string)

	for _, p := range pages {
		mainHTML, ok := mainHTMLByPage[p.PageID]
		if !ok {
			continue
		}
		pageChunks, err := chunker.ChunkPage(p.PageID, runID, mainHTML)
		if err != nil {
			continue
		}
		for _, c := range pageChunks {
			text[c.ChunkID] = c.Text
		}
		all = append(all, pageChunks...)
	}

	return all, func(chunkID string) (string, bool) {
		t, ok := text[chunkID]
		return t, ok
	}
}

// embedAndIndex embeds every chunk, builds the Run's lexical and vector
// indexes, and wires them into a Retriever. The returned Embedder must
// stay alive (and be Closed by the caller) for the Retriever's lifetime:
// retrieve.New panics if the embedder instance that produced the indexed
// vectors differs from the one passed as the query embedder, so the same
// *CachedEmbedder is reused for both.
func (o *Orchestrator) embedAndIndex(ctx context.Context, runID string, chunks []audit.Chunk) (*retrieve.Retriever, embed.Embedder, error) {
	embedder, err := embed.NewEmbedder(ctx, o.config.Embeddings)
	if err != nil {
		return nil, nil, fmt.Errorf("orchestrate: new embedder: %w", err)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors := make(map[string][]float32, len(chunks))
	if len(chunks) > 0 {
		batchSize := o.config.Embeddings.BatchSize
		if batchSize <= 0 {
			batchSize = len(texts)
		}
		for start := 0; start < len(texts); start += batchSize {
			end := start + batchSize
			if end > len(texts) {
				end = len(texts)
			}
			embedder.SetBatchIndex(start / batchSize)
			embedder.SetFinalBatch(end == len(texts))

			batchVectors, err := embedder.EmbedBatch(ctx, texts[start:end])
			if err != nil {
				embedder.Close()
				return nil, nil, fmt.Errorf("orchestrate: embed batch: %w", err)
			}
			for i, v := range batchVectors {
				chunkID := chunks[start+i].ChunkID
				vectors[chunkID] = v
				if err := o.store.PutEmbedding(ctx, chunkID, embedder.ModelName(), v); err != nil {
					continue
				}
			}
		}
	}

	idx := index.New(o.config.Retrieval, embedder.Dimensions())
	if err := idx.Build(chunks, vectors); err != nil {
		embedder.Close()
		return nil, nil, fmt.Errorf("orchestrate: build index: %w", err)
	}

	retriever := retrieve.New(idx.BM25, idx.Vector, embedder, embedder, o.config.Retrieval)
	return retriever, embedder, nil
}

// simulateQuestions answers every Question against the Run's Retriever.
// A per-question failure (the retriever itself erroring, not an empty
// result set, which Simulate already recovers from) is logged and
// skipped rather than aborting the whole Run, matching §4.8's "one bad
// question never fails a Run" policy.
func (o *Orchestrator) simulateQuestions(ctx context.Context, sim *simulate.Simulator, questions []audit.Question, runID string) []audit.SimResult {
	results := make([]audit.SimResult, 0, len(questions))
	for _, q := range questions {
		result, err := sim.Simulate(ctx, q, runID)
		if err != nil {
			slog.Warn("question simulation failed, skipping",
				slog.String("run_id", runID), slog.String("question_id", q.QuestionID), slog.String("error", err.Error()))
			continue
		}
		results = append(results, result)
	}
	return results
}

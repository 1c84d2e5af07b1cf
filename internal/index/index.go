// Package index builds the two parallel per-Run indexes (lexical BM25 and
// vector/HNSW) that internal/retrieve fuses over.
package index

import (
	"fmt"

	"github.com/findablescore/auditor/internal/config"
	"github.com/findablescore/auditor/pkg/audit"
)

// Index bundles a Run's lexical and vector indexes. Both are built once
// from the Run's full chunk set and read-only thereafter.
type Index struct {
	BM25   *BM25Index
	Vector *VectorIndex
}

// New creates an empty Index from cfg's tunables. embedDimensions must
// match the embedder that will produce the vectors passed to Build.
func New(cfg config.RetrievalConfig, embedDimensions int) *Index {
	var stopWords map[string]struct{}
	return &Index{
		BM25:   NewBM25Index(cfg.BM25K1, cfg.BM25B, stopWords),
		Vector: NewVectorIndex(embedDimensions, cfg.VectorIndexBruteForceThreshold),
	}
}

// Build indexes chunks into both the lexical and vector index. vectors maps
// ChunkID to its unit-normalized embedding; every chunk must have one.
func (ix *Index) Build(chunks []audit.Chunk, vectors map[string][]float32) error {
	bm25Docs := make([]BM25Document, 0, len(chunks))
	vectorDocs := make([]VectorDocument, 0, len(chunks))

	for _, c := range chunks {
		bm25Docs = append(bm25Docs, BM25Document{
			ChunkID: c.ChunkID,
			PageID:  c.PageID,
			Text:    c.Text,
		})

		vec, ok := vectors[c.ChunkID]
		if !ok {
			return fmt.Errorf("index: missing embedding for chunk %q", c.ChunkID)
		}
		vectorDocs = append(vectorDocs, VectorDocument{
			ChunkID: c.ChunkID,
			PageID:  c.PageID,
			Vector:  vec,
		})
	}

	ix.BM25.Build(bm25Docs)
	return ix.Vector.Build(vectorDocs)
}

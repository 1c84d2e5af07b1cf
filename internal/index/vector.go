package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/coder/hnsw"
)

// VectorDocument is one chunk's embedding fed into the vector index at
// build time. The vector must already be unit-normalized (internal/embed's
// embedders guarantee this).
type VectorDocument struct {
	ChunkID string
	PageID  string
	Vector  []float32
}

// VectorResult is a single semantic match, in [0,1] where 1 is identical.
type VectorResult struct {
	ChunkID string
	PageID  string
	Score   float64
}

// VectorIndex answers nearest-neighbor queries over a Run's chunk
// embeddings. It mirrors internal/store/hnsw.go's HNSWStore string<->uint64
// key mapping over github.com/coder/hnsw, generalized from a persistent,
// incrementally-updated store (Save/Load, lazy delete-by-id) to a per-Run
// index that is always rebuilt from scratch and never written to disk.
//
// A Run's corpus (at most a few hundred pages times ~20 chunks) is well
// within brute-force cosine's comfortable range, so Search answers directly
// from the stored vectors below bruteForceThreshold and only walks the HNSW
// graph once the corpus is big enough that an exact scan would be the
// slower path — the spec's stated reason for keeping coder/hnsw in the mix
// at all rather than dropping the dependency.
type VectorIndex struct {
	mu sync.RWMutex

	dimensions          int
	bruteForceThreshold int

	vectors map[string]vectorEntry // chunkID -> normalized vector + page

	graph   *hnsw.Graph[uint64]
	idMap   map[string]uint64
	keyMap  map[uint64]string
	nextKey uint64
}

type vectorEntry struct {
	pageID string
	vector []float32
}

// NewVectorIndex creates an empty vector index for the given embedding
// dimensionality. bruteForceThreshold is the corpus size above which Search
// switches from exact cosine scan to the HNSW graph.
func NewVectorIndex(dimensions, bruteForceThreshold int) *VectorIndex {
	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = 16
	graph.EfSearch = 20
	graph.Ml = 0.25

	return &VectorIndex{
		dimensions:          dimensions,
		bruteForceThreshold: bruteForceThreshold,
		vectors:             make(map[string]vectorEntry),
		graph:               graph,
		idMap:               make(map[string]uint64),
		keyMap:              make(map[uint64]string),
	}
}

// Build replaces the index's contents with docs.
func (idx *VectorIndex) Build(docs []VectorDocument) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.vectors = make(map[string]vectorEntry, len(docs))
	idx.graph = hnsw.NewGraph[uint64]()
	idx.graph.Distance = hnsw.CosineDistance
	idx.graph.M = 16
	idx.graph.EfSearch = 20
	idx.graph.Ml = 0.25
	idx.idMap = make(map[string]uint64, len(docs))
	idx.keyMap = make(map[uint64]string, len(docs))
	idx.nextKey = 0

	for _, d := range docs {
		if len(d.Vector) != idx.dimensions {
			return fmt.Errorf("index: vector for chunk %q has %d dimensions, want %d", d.ChunkID, len(d.Vector), idx.dimensions)
		}

		vec := normalizedCopy(d.Vector)
		idx.vectors[d.ChunkID] = vectorEntry{pageID: d.PageID, vector: vec}

		key := idx.nextKey
		idx.nextKey++
		idx.graph.Add(hnsw.MakeNode(key, vec))
		idx.idMap[d.ChunkID] = key
		idx.keyMap[key] = d.ChunkID
	}

	return nil
}

// Search returns the top-limit chunks by cosine similarity to query.
func (idx *VectorIndex) Search(_ context.Context, query []float32, limit int) ([]VectorResult, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(query) != idx.dimensions {
		return nil, fmt.Errorf("index: query vector has %d dimensions, want %d", len(query), idx.dimensions)
	}
	if len(idx.vectors) == 0 {
		return []VectorResult{}, nil
	}

	q := normalizedCopy(query)

	if len(idx.vectors) <= idx.bruteForceThreshold {
		return idx.bruteForceSearch(q, limit), nil
	}
	return idx.graphSearch(q, limit), nil
}

func (idx *VectorIndex) bruteForceSearch(q []float32, limit int) []VectorResult {
	results := make([]VectorResult, 0, len(idx.vectors))
	for chunkID, entry := range idx.vectors {
		distance := cosineDistance(q, entry.vector)
		results = append(results, VectorResult{
			ChunkID: chunkID,
			PageID:  entry.pageID,
			Score:   distanceToScore(distance),
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ChunkID < results[j].ChunkID
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (idx *VectorIndex) graphSearch(q []float32, limit int) []VectorResult {
	nodes := idx.graph.Search(q, limit)
	results := make([]VectorResult, 0, len(nodes))
	for _, node := range nodes {
		chunkID, ok := idx.keyMap[node.Key]
		if !ok {
			continue
		}
		entry := idx.vectors[chunkID]
		distance := idx.graph.Distance(q, node.Value)
		results = append(results, VectorResult{
			ChunkID: chunkID,
			PageID:  entry.pageID,
			Score:   distanceToScore(distance),
		})
	}
	return results
}

// Count returns the number of indexed chunks.
func (idx *VectorIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

func normalizedCopy(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)

	var sumSquares float64
	for _, val := range out {
		sumSquares += float64(val) * float64(val)
	}
	if sumSquares == 0 {
		return out
	}
	invMagnitude := float32(1.0 / math.Sqrt(sumSquares))
	for i := range out {
		out[i] *= invMagnitude
	}
	return out
}

// cosineDistance computes 1 - cosine_similarity for two unit vectors,
// matching hnsw.CosineDistance's convention (0 identical, 2 opposite) so
// the brute-force and HNSW paths are numerically interchangeable.
func cosineDistance(a, b []float32) float32 {
	var dot float32
	for i := range a {
		dot += a[i] * b[i]
	}
	return 1 - dot
}

// distanceToScore converts a cosine distance to a [0,1] similarity score,
// following internal/store/hnsw.go's distanceToScore.
func distanceToScore(distance float32) float64 {
	return float64(1.0 - distance/2.0)
}

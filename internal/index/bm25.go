package index

import (
	"context"
	"math"
	"sort"
	"sync"
)

// BM25Document is one chunk's text fed into the lexical index at build time.
type BM25Document struct {
	ChunkID string
	PageID  string
	Text    string
}

// BM25Result is a single lexical match, ranked by BM25 score.
type BM25Result struct {
	ChunkID      string
	PageID       string
	Score        float64
	MatchedTerms []string
}

type bm25doc struct {
	pageID string
	terms  map[string]int
	length int
}

// BM25Index is a from-scratch, in-memory inverted index with tunable k1/b,
// rebuilt fresh for every Run rather than persisted: a Run's corpus (at most
// a few thousand chunks) is cheap to re-tokenize every time, and a
// rebuilt-every-time index has no stale-segment or compaction concerns to
// reason about. github.com/blevesearch/bleve/v2 (internal/store/bm25.go's
// BleveBM25Index) is a disk-backed, incrementally-updated search engine
// built for a different problem: a long-lived, persistent multi-document
// index updated over time. Not thread-unsafe by corpus size, just the wrong
// tool for a value that's discarded at the end of every Run.
type BM25Index struct {
	mu sync.RWMutex

	k1 float64
	b  float64

	stopWords map[string]struct{}

	docs        map[string]*bm25doc        // chunkID -> doc
	postings    map[string]map[string]int // term -> chunkID -> term frequency
	totalLength int
	docCount    int
}

// NewBM25Index creates an empty BM25 index with the given k1/b parameters.
// stopWords may be nil to index every token.
func NewBM25Index(k1, b float64, stopWords map[string]struct{}) *BM25Index {
	return &BM25Index{
		k1:        k1,
		b:         b,
		stopWords: stopWords,
		docs:      make(map[string]*bm25doc),
		postings:  make(map[string]map[string]int),
	}
}

// Build replaces the index's contents with docs. Safe to call once per Run.
func (idx *BM25Index) Build(docs []BM25Document) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.docs = make(map[string]*bm25doc, len(docs))
	idx.postings = make(map[string]map[string]int)
	idx.totalLength = 0
	idx.docCount = 0

	for _, d := range docs {
		tokens := Tokenize(d.Text, idx.stopWords)
		if len(tokens) == 0 {
			continue
		}

		termFreq := make(map[string]int, len(tokens))
		for _, t := range tokens {
			termFreq[t]++
		}

		idx.docs[d.ChunkID] = &bm25doc{
			pageID: d.PageID,
			terms:  termFreq,
			length: len(tokens),
		}
		idx.totalLength += len(tokens)
		idx.docCount++

		for term, freq := range termFreq {
			posting, ok := idx.postings[term]
			if !ok {
				posting = make(map[string]int)
				idx.postings[term] = posting
			}
			posting[d.ChunkID] = freq
		}
	}
}

// Search returns the top-limit chunks by BM25 score for query. Chunks
// sharing no token with the query are never scored or returned.
func (idx *BM25Index) Search(_ context.Context, query string, limit int) []BM25Result {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.docCount == 0 {
		return []BM25Result{}
	}

	queryTerms := dedupe(Tokenize(query, idx.stopWords))
	if len(queryTerms) == 0 {
		return []BM25Result{}
	}

	avgDocLength := float64(idx.totalLength) / float64(idx.docCount)

	scores := make(map[string]float64)
	matched := make(map[string][]string)

	for _, term := range queryTerms {
		posting, ok := idx.postings[term]
		if !ok {
			continue
		}
		idf := idx.idf(len(posting))
		for chunkID, freq := range posting {
			doc := idx.docs[chunkID]
			denom := float64(freq) + idx.k1*(1-idx.b+idx.b*float64(doc.length)/avgDocLength)
			scores[chunkID] += idf * (float64(freq) * (idx.k1 + 1)) / denom
			matched[chunkID] = append(matched[chunkID], term)
		}
	}

	results := make([]BM25Result, 0, len(scores))
	for chunkID, score := range scores {
		terms := matched[chunkID]
		sort.Strings(terms)
		results = append(results, BM25Result{
			ChunkID:      chunkID,
			PageID:       idx.docs[chunkID].pageID,
			Score:        score,
			MatchedTerms: terms,
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

// idf is the Robertson/Sparck-Jones inverse document frequency, offset by
// +1 inside the log so a term appearing in every document still scores
// non-negative rather than going to zero or below.
func (idx *BM25Index) idf(docFreq int) float64 {
	n := float64(idx.docCount)
	df := float64(docFreq)
	return math.Log(1 + (n-df+0.5)/(df+0.5))
}

// Count returns the number of indexed chunks.
func (idx *BM25Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.docCount
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBM25Index_SearchFindsMatchingChunk(t *testing.T) {
	idx := NewBM25Index(1.5, 0.75, nil)
	idx.Build([]BM25Document{
		{ChunkID: "c1", PageID: "p1", Text: "our pricing plans start at ten dollars per month"},
		{ChunkID: "c2", PageID: "p1", Text: "contact support for help with your account"},
	})

	results := idx.Search(context.Background(), "pricing plans", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "c1", results[0].ChunkID)
	assert.Equal(t, "p1", results[0].PageID)
	assert.Contains(t, results[0].MatchedTerms, "pricing")
}

func TestBM25Index_RanksRarerTermMatchHigher(t *testing.T) {
	idx := NewBM25Index(1.5, 0.75, nil)
	idx.Build([]BM25Document{
		{ChunkID: "common", PageID: "p1", Text: "widget widget widget common common common"},
		{ChunkID: "rare", PageID: "p2", Text: "widget zephyr"},
		{ChunkID: "filler1", PageID: "p3", Text: "common filler text about nothing relevant"},
		{ChunkID: "filler2", PageID: "p4", Text: "common filler text about nothing relevant"},
	})

	results := idx.Search(context.Background(), "widget zephyr", 10)
	require.Len(t, results, 2)
	assert.Equal(t, "rare", results[0].ChunkID)
	assert.Equal(t, "common", results[1].ChunkID)
}

func TestBM25Index_ReturnsEmptyForNoMatches(t *testing.T) {
	idx := NewBM25Index(1.5, 0.75, nil)
	idx.Build([]BM25Document{{ChunkID: "c1", PageID: "p1", Text: "totally unrelated content"}})

	results := idx.Search(context.Background(), "quantum teleportation", 10)
	assert.Empty(t, results)
}

func TestBM25Index_RespectsLimit(t *testing.T) {
	idx := NewBM25Index(1.5, 0.75, nil)
	docs := make([]BM25Document, 0, 5)
	for i := 0; i < 5; i++ {
		docs = append(docs, BM25Document{ChunkID: string(rune('a' + i)), PageID: "p1", Text: "shared keyword appears here"})
	}
	idx.Build(docs)

	results := idx.Search(context.Background(), "shared keyword", 2)
	assert.Len(t, results, 2)
}

func TestBM25Index_EmptyIndexReturnsEmpty(t *testing.T) {
	idx := NewBM25Index(1.5, 0.75, nil)
	idx.Build(nil)

	results := idx.Search(context.Background(), "anything", 10)
	assert.Empty(t, results)
}

func TestBM25Index_Count(t *testing.T) {
	idx := NewBM25Index(1.5, 0.75, nil)
	idx.Build([]BM25Document{
		{ChunkID: "c1", PageID: "p1", Text: "some words here"},
		{ChunkID: "c2", PageID: "p1", Text: "more words there"},
	})
	assert.Equal(t, 2, idx.Count())
}

func TestBM25Index_StopWordsExcludeMatchingOnStopWordAlone(t *testing.T) {
	stop := EnglishStopWords()
	idx := NewBM25Index(1.5, 0.75, stop)
	idx.Build([]BM25Document{{ChunkID: "c1", PageID: "p1", Text: "the product page"}})

	results := idx.Search(context.Background(), "the", 10)
	assert.Empty(t, results)
}

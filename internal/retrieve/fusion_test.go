package retrieve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findablescore/auditor/internal/config"
	"github.com/findablescore/auditor/internal/index"
)

func equalWeightConfig() config.RetrievalConfig {
	return config.RetrievalConfig{
		BM25Weight:   0.5,
		VectorWeight: 0.5,
		RRFConstant:  60,
		PerPageCap:   2,
	}
}

func TestNormalizeRRF_ClampsAtOne(t *testing.T) {
	assert.InDelta(t, 1.0, NormalizeRRF(0.03), 1e-9)
	assert.InDelta(t, 0.5, NormalizeRRF(0.01), 1e-9)
	assert.InDelta(t, 0.0, NormalizeRRF(0.0), 1e-9)
}

func TestFuseResults_CombinesRanksFromBothLists(t *testing.T) {
	bm25 := []index.BM25Result{
		{ChunkID: "a", PageID: "p1", Score: 5.0},
		{ChunkID: "b", PageID: "p1", Score: 3.0},
	}
	vector := []index.VectorResult{
		{ChunkID: "a", PageID: "p1", Score: 0.9},
		{ChunkID: "c", PageID: "p2", Score: 0.8},
	}

	cfg := equalWeightConfig()
	fused := fuseResults(bm25, vector, cfg)

	require.Len(t, fused, 3)
	// "a" appears in both lists at rank 1, so it should score highest.
	assert.Equal(t, "a", fused[0].ChunkID)

	want := 0.5/float64(60+1) + 0.5/float64(60+1)
	assert.InDelta(t, want, fused[0].RRFScore, 1e-9)
}

func TestFuseResults_ItemAbsentFromOneListContributesZeroFromIt(t *testing.T) {
	bm25 := []index.BM25Result{{ChunkID: "only-bm25", PageID: "p1", Score: 1.0}}
	vector := []index.VectorResult{}

	cfg := equalWeightConfig()
	fused := fuseResults(bm25, vector, cfg)

	require.Len(t, fused, 1)
	want := 0.5 / float64(60+1)
	assert.InDelta(t, want, fused[0].RRFScore, 1e-9)
}

func TestFuseResults_SortsByScoreDescendingThenIDAscending(t *testing.T) {
	// "z" and "y" each sit at rank 1 of one list, so with equal weights
	// their RRF scores tie and the ID breaks the tie.
	bm25 := []index.BM25Result{{ChunkID: "z", PageID: "p1", Score: 1.0}}
	vector := []index.VectorResult{{ChunkID: "y", PageID: "p1", Score: 1.0}}
	cfg := equalWeightConfig()
	fused := fuseResults(bm25, vector, cfg)

	require.Len(t, fused, 2)
	assert.Equal(t, "y", fused[0].ChunkID)
	assert.Equal(t, "z", fused[1].ChunkID)
}

func TestApplyDiversityCap_DemotesOverflowToTail(t *testing.T) {
	results := []FusedResult{
		{ChunkID: "p1-a", PageID: "p1", RRFScore: 0.9},
		{ChunkID: "p1-b", PageID: "p1", RRFScore: 0.8},
		{ChunkID: "p1-c", PageID: "p1", RRFScore: 0.7},
		{ChunkID: "p2-a", PageID: "p2", RRFScore: 0.6},
	}

	capped := applyDiversityCap(results, 2)

	require.Len(t, capped, 4)
	ids := []string{capped[0].ChunkID, capped[1].ChunkID, capped[2].ChunkID, capped[3].ChunkID}
	assert.Equal(t, []string{"p1-a", "p1-b", "p2-a", "p1-c"}, ids)
}

func TestApplyDiversityCap_ZeroCapIsNoOp(t *testing.T) {
	results := []FusedResult{
		{ChunkID: "a", PageID: "p1"},
		{ChunkID: "b", PageID: "p1"},
	}
	assert.Equal(t, results, applyDiversityCap(results, 0))
}

func TestTruncate_LimitsLength(t *testing.T) {
	results := []FusedResult{{ChunkID: "a"}, {ChunkID: "b"}, {ChunkID: "c"}}
	assert.Len(t, truncate(results, 2), 2)
	assert.Equal(t, results, truncate(results, 10))
}

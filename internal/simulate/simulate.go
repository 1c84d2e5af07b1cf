// Package simulate answers each Question against a Run's retriever,
// scoring how well the site's content would let an AI answer it.
package simulate

import (
	"context"
	"fmt"

	"github.com/findablescore/auditor/internal/retrieve"
	"github.com/findablescore/auditor/pkg/audit"
)

// DefaultTopN is how many chunks are retrieved per question (§4.8).
const DefaultTopN = 7

// DefaultBudgetTokens is the "typical" band of the three scored
// question_budget_tokens presets (conservative 3000 / typical 6000 /
// generous 12000, §6).
const DefaultBudgetTokens = 6000

// budgetTokensPerChar mirrors internal/chunk's len(content)/4 token
// approximation; duplicated rather than imported for the same reason
// internal/pillar duplicates internal/retrieve.NormalizeRRF, to avoid
// pulling a full package in for one constant.
const budgetTokensPerChar = 4

func estimateTokens(s string) int {
	n := len(s) / budgetTokensPerChar
	if n == 0 && s != "" {
		n = 1
	}
	return n
}

// neutralSignal and neutralConfidence are the spec's "no opportunities ⇒
// 0.5, not 0" convention (§4.8's named bug class, grounded on
// thinkwright-agent-evals' ScoreAgentProbes), applied both when a question
// has no expected signals and when no retrieved chunk matched any.
const (
	neutralSignal     = 0.5
	neutralConfidence = 0.5
)

const (
	relevanceComponentWeight = 0.4
	signalComponentWeight    = 0.4
	confidenceComponentWeight = 0.2
)

// ChunkTextLookup resolves a ChunkID to the text it was built from, for
// signal evaluation. The Retriever only hands back IDs and scores; this
// closure gives the Simulator access to the corpus those IDs refer to
// without depending on Index's internals.
type ChunkTextLookup func(chunkID string) (text string, ok bool)

// Simulator runs Questions against a Run's Retriever.
type Simulator struct {
	retriever    *retrieve.Retriever
	chunkText    ChunkTextLookup
	topN         int
	budgetTokens int
	thresholds   audit.Thresholds
}

// New constructs a Simulator. thresholds come from the Run's active
// CalibrationConfig (defaults per audit.DefaultThresholds when none is
// active). topK is the configured retrieval.top_k; callers should pass
// DefaultTopN when the config left it unset. budgetTokens is the Run's
// question_budget_tokens (one of the conservative/typical/generous bands,
// §6); callers should pass DefaultBudgetTokens when the config left it
// unset.
func New(retriever *retrieve.Retriever, chunkText ChunkTextLookup, thresholds audit.Thresholds, topK, budgetTokens int) *Simulator {
	if topK <= 0 {
		topK = DefaultTopN
	}
	if budgetTokens <= 0 {
		budgetTokens = DefaultBudgetTokens
	}
	return &Simulator{
		retriever:    retriever,
		chunkText:    chunkText,
		topN:         topK,
		budgetTokens: budgetTokens,
		thresholds:   thresholds,
	}
}

// Simulate answers one Question, producing its SimResult. It never returns
// an error for "nothing found": a retriever returning zero chunks is
// recorded as RetrievalEmpty with score 0, per §4.8's explicit recovery
// policy, and the Run continues. Simulate only returns an error when the
// retriever itself fails (e.g. both BM25 and vector search errored).
func (s *Simulator) Simulate(ctx context.Context, question audit.Question, runID string) (audit.SimResult, error) {
	fused, err := s.retriever.Search(ctx, question.Text, s.topN)
	if err != nil {
		return audit.SimResult{}, fmt.Errorf("simulate: question %q: %w", question.QuestionID, err)
	}

	if len(fused) == 0 {
		return audit.SimResult{
			QuestionID:     question.QuestionID,
			RunID:          runID,
			Answerability:  audit.Unanswered,
			Score:          0,
			RetrievalEmpty: true,
		}, nil
	}

	fused = s.withinBudget(fused)

	retrieved := make([]audit.RetrievedChunkRef, 0, len(fused))
	var relevanceSum float64
	for _, r := range fused {
		retrieved = append(retrieved, audit.RetrievedChunkRef{ChunkID: r.ChunkID, RRFScore: r.RRFScore})
		relevanceSum += r.RRFScore
	}
	avgRelevanceRaw := relevanceSum / float64(len(fused))
	relevanceNorm := retrieve.NormalizeRRF(avgRelevanceRaw)

	found, total, confidence := s.evaluateSignals(question.ExpectedSignals, fused)

	signal := neutralSignal
	if total > 0 {
		signal = float64(found) / float64(total)
	}

	score := relevanceComponentWeight*relevanceNorm + signalComponentWeight*signal + confidenceComponentWeight*confidence

	return audit.SimResult{
		QuestionID:    question.QuestionID,
		RunID:         runID,
		Retrieved:     retrieved,
		SignalsFound:  found,
		SignalsTotal:  total,
		Answerability: s.classify(score),
		Confidence:    confidence,
		Score:         score,
	}, nil
}

// withinBudget trims the retriever's ranked chunk list to the Run's
// question_budget_tokens, keeping the leading, highest-ranked chunks that
// fit cumulatively and always keeping at least one chunk even if it alone
// exceeds the budget (an empty context is strictly worse than an
// over-budget one). This is what makes the three scored bands actually
// differ: a tighter budget admits fewer lower-ranked chunks into signal
// evaluation and the relevance average, the same way a real answering
// model's context window would.
func (s *Simulator) withinBudget(fused []retrieve.FusedResult) []retrieve.FusedResult {
	kept := make([]retrieve.FusedResult, 0, len(fused))
	var spent int
	for _, r := range fused {
		text, ok := s.chunkText(r.ChunkID)
		cost := 0
		if ok {
			cost = estimateTokens(text)
		}
		if len(kept) > 0 && spent+cost > s.budgetTokens {
			break
		}
		kept = append(kept, r)
		spent += cost
	}
	return kept
}

// evaluateSignals checks every expected signal against the union of
// retrieved chunk text, and computes confidence as the mean RelevanceNorm
// of the chunks where a signal was actually found (the spec's "mean of
// matched chunks' confidence score"; a chunk's own confidence is its
// retrieval RelevanceNorm, the only per-chunk quality signal the Retriever
// produces). Falls back to neutralConfidence when nothing matched.
func (s *Simulator) evaluateSignals(expectedSignals []string, fused []retrieve.FusedResult) (found, total int, confidence float64) {
	total = len(expectedSignals)
	if total == 0 {
		return 0, 0, neutralConfidence
	}

	var matchedConfidenceSum float64
	var matchedChunks int

	for _, name := range expectedSignals {
		signalFound := false
		for _, r := range fused {
			text, ok := s.chunkText(r.ChunkID)
			if !ok {
				continue
			}
			eval := evaluateSignal(name, text)
			if eval.Found {
				signalFound = true
				matchedConfidenceSum += r.RelevanceNorm
				matchedChunks++
			}
		}
		if signalFound {
			found++
		}
	}

	if matchedChunks == 0 {
		return found, total, neutralConfidence
	}
	return found, total, matchedConfidenceSum / float64(matchedChunks)
}

// classify maps a score to an Answerability verdict using the Simulator's
// thresholds, which come from the active CalibrationConfig.
func (s *Simulator) classify(score float64) audit.Answerability {
	if score >= s.thresholds.FullyAnswerable {
		return audit.FullyAnswerable
	}
	if score >= s.thresholds.PartiallyAnswerable {
		return audit.PartiallyAnswerable
	}
	return audit.Unanswered
}

package pillar

import "github.com/findablescore/auditor/pkg/audit"

// Retrieval scores the average per-question relevance_norm across all
// SimResults, per §4.9. It has no sub-components: the simulation step
// already produced the normalized per-chunk relevance figure this pillar
// reports back up, via internal/retrieve.NormalizeRRF applied in
// internal/simulate.
func Retrieval(runID string, results []audit.SimResult) audit.PillarScore {
	if len(results) == 0 {
		return build(runID, audit.PillarRetrieval, nil, nil)
	}

	var sum float64
	for _, r := range results {
		sum += avgRetrievedRelevance(r)
	}
	raw := 100 * sum / float64(len(results))

	components := []audit.ComponentScore{
		{Name: "avg_relevance_norm", Raw: raw, Weight: 100},
	}

	return build(runID, audit.PillarRetrieval, components, nil)
}

// avgRetrievedRelevance recomputes relevance_norm from a SimResult's
// retrieved RRF scores, since SimResult stores the raw per-chunk RRFScore
// rather than its normalized form.
func avgRetrievedRelevance(r audit.SimResult) float64 {
	if len(r.Retrieved) == 0 {
		return 0
	}
	var sum float64
	for _, ref := range r.Retrieved {
		sum += ref.RRFScore
	}
	avgRaw := sum / float64(len(r.Retrieved))
	return normalizeRRF(avgRaw)
}

// normalizeRRF duplicates internal/retrieve.NormalizeRRF's formula
// (min(1, raw/0.02)) rather than importing internal/retrieve, since
// pulling in the Retriever here for one constant would invert the
// pipeline's dependency direction (retrieve/simulate feed pillar, not the
// other way around). The constant itself is the same one
// internal/retrieve.NormalizeRRF documents and internal/simulate reuses
// directly.
func normalizeRRF(raw float64) float64 {
	const divisor = 0.02
	norm := raw / divisor
	if norm > 1 {
		return 1
	}
	return norm
}

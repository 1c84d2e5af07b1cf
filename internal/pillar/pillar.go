// Package pillar implements the seven independent pillar analyzers.
// Each is a standalone function that reads a Run's artifacts and emits a
// pkg/audit.PillarScore; there is no shared base type, matching spec.md
// §9's explicit design note that independent functions producing a common
// record need no base class.
package pillar

import "github.com/findablescore/auditor/pkg/audit"

// weighted sums a pillar's component scores into its raw 0-100 value:
// sum(component.Raw * component.Weight / 100).
func weighted(components []audit.ComponentScore) float64 {
	var total float64
	for _, c := range components {
		total += c.Raw * c.Weight / 100
	}
	return total
}

// build assembles a PillarScore from its computed components, following
// the shape every analyzer in this package produces.
func build(runID string, p audit.Pillar, components []audit.ComponentScore, issues []audit.Issue) audit.PillarScore {
	raw := weighted(components)
	return audit.PillarScore{
		RunID:      runID,
		Pillar:     p,
		Raw:        raw,
		Level:      audit.LevelFromRaw(raw),
		Components: components,
		Issues:     issues,
		Evaluated:  true,
	}
}

// clamp0to100 keeps a component's raw score within its documented range.
func clamp0to100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// linearDecay interpolates v from [lowInput, highInput] to [100, 0], used
// by both TTFB (0ms -> 100, 1500ms -> 0) and content-freshness decay.
func linearDecay(value, lowInput, highInput float64) float64 {
	if highInput == lowInput {
		return 100
	}
	ratio := (value - lowInput) / (highInput - lowInput)
	return clamp0to100(100 * (1 - ratio))
}

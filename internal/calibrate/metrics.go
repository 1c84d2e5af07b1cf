// Package calibrate closes the loop between the Simulator's predictions and
// what an observed AI system actually did: it aggregates accuracy and bias
// from stored CalibrationSamples, grid-searches pillar weights and
// answerability thresholds for a better CalibrationConfig, and runs the
// deterministic A/B experiment that gates any candidate's activation.
package calibrate

import (
	"math"

	"github.com/findablescore/auditor/pkg/audit"
)

// Accuracy is the fraction of samples whose observed outcome confirmed the
// simulation's prediction.
func Accuracy(samples []audit.CalibrationSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	correct := 0
	for _, s := range samples {
		if s.ObservedOutcome == audit.OutcomeCorrect {
			correct++
		}
	}
	return float64(correct) / float64(len(samples))
}

// Bias is optimism/pessimism skew: positive means the simulator predicted
// "answerable" more often than the observed AI system actually answered
// (optimistic outcomes outnumber pessimistic ones), negative the reverse.
func Bias(samples []audit.CalibrationSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	optimistic, pessimistic := 0, 0
	for _, s := range samples {
		switch s.ObservedOutcome {
		case audit.OutcomeOptimistic:
			optimistic++
		case audit.OutcomePessimistic:
			pessimistic++
		}
	}
	return float64(optimistic-pessimistic) / float64(len(samples))
}

// PerCategoryAccuracy breaks Accuracy down by Question.Category, following
// §4.12's "per-category accuracy" aggregate.
func PerCategoryAccuracy(samples []audit.CalibrationSample) map[string]float64 {
	byCategory := make(map[string][]audit.CalibrationSample)
	for _, s := range samples {
		byCategory[s.Category] = append(byCategory[s.Category], s)
	}
	out := make(map[string]float64, len(byCategory))
	for category, group := range byCategory {
		out[category] = Accuracy(group)
	}
	return out
}

// PerPillarCorrelation returns, for each pillar present in samples'
// PillarScoresSnapshot, the Pearson correlation between that pillar's raw
// score and a {0,1} correctness indicator derived from ObservedOutcome.
// A pillar whose raw score barely correlates with observed correctness is a
// candidate for reweighting by the Optimizer.
func PerPillarCorrelation(samples []audit.CalibrationSample) map[audit.Pillar]float64 {
	pillars := make(map[audit.Pillar]struct{})
	for _, s := range samples {
		for p := range s.PillarScoresSnapshot {
			pillars[p] = struct{}{}
		}
	}

	out := make(map[audit.Pillar]float64, len(pillars))
	for p := range pillars {
		xs := make([]float64, 0, len(samples))
		ys := make([]float64, 0, len(samples))
		for _, s := range samples {
			raw, ok := s.PillarScoresSnapshot[p]
			if !ok {
				continue
			}
			xs = append(xs, raw)
			ys = append(ys, correctnessIndicator(s.ObservedOutcome))
		}
		out[p] = pearsonCorrelation(xs, ys)
	}
	return out
}

func correctnessIndicator(outcome audit.ObservedOutcome) float64 {
	if outcome == audit.OutcomeCorrect {
		return 1
	}
	return 0
}

// pearsonCorrelation returns 0 for degenerate inputs (fewer than two points,
// or zero variance in either series) rather than NaN, so a thin sample
// window never poisons an aggregate.
func pearsonCorrelation(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return 0
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/float64(n), sumY/float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

package calibrate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/findablescore/auditor/pkg/audit"
)

func TestAccuracy_FractionCorrect(t *testing.T) {
	samples := []audit.CalibrationSample{
		{ObservedOutcome: audit.OutcomeCorrect},
		{ObservedOutcome: audit.OutcomeCorrect},
		{ObservedOutcome: audit.OutcomeOptimistic},
		{ObservedOutcome: audit.OutcomePessimistic},
	}
	assert.InDelta(t, 0.5, Accuracy(samples), 1e-9)
}

func TestAccuracy_EmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Accuracy(nil))
}

func TestBias_PositiveWhenOptimismDominates(t *testing.T) {
	samples := []audit.CalibrationSample{
		{ObservedOutcome: audit.OutcomeOptimistic},
		{ObservedOutcome: audit.OutcomeOptimistic},
		{ObservedOutcome: audit.OutcomePessimistic},
		{ObservedOutcome: audit.OutcomeCorrect},
	}
	assert.InDelta(t, 0.25, Bias(samples), 1e-9)
}

func TestBias_NegativeWhenPessimismDominates(t *testing.T) {
	samples := []audit.CalibrationSample{
		{ObservedOutcome: audit.OutcomePessimistic},
		{ObservedOutcome: audit.OutcomePessimistic},
		{ObservedOutcome: audit.OutcomeCorrect},
	}
	assert.Less(t, Bias(samples), 0.0)
}

func TestPerCategoryAccuracy_SplitsByCategory(t *testing.T) {
	samples := []audit.CalibrationSample{
		{Category: "pricing", ObservedOutcome: audit.OutcomeCorrect},
		{Category: "pricing", ObservedOutcome: audit.OutcomeOptimistic},
		{Category: "support", ObservedOutcome: audit.OutcomeCorrect},
	}
	byCategory := PerCategoryAccuracy(samples)
	assert.InDelta(t, 0.5, byCategory["pricing"], 1e-9)
	assert.InDelta(t, 1.0, byCategory["support"], 1e-9)
}

func TestPerPillarCorrelation_HighRawAlignsWithCorrectness(t *testing.T) {
	samples := []audit.CalibrationSample{
		{ObservedOutcome: audit.OutcomeCorrect, PillarScoresSnapshot: map[audit.Pillar]float64{audit.PillarRetrieval: 90}},
		{ObservedOutcome: audit.OutcomeCorrect, PillarScoresSnapshot: map[audit.Pillar]float64{audit.PillarRetrieval: 85}},
		{ObservedOutcome: audit.OutcomeOptimistic, PillarScoresSnapshot: map[audit.Pillar]float64{audit.PillarRetrieval: 20}},
		{ObservedOutcome: audit.OutcomePessimistic, PillarScoresSnapshot: map[audit.Pillar]float64{audit.PillarRetrieval: 15}},
	}
	corr := PerPillarCorrelation(samples)
	assert.Greater(t, corr[audit.PillarRetrieval], 0.5)
}

func TestPerPillarCorrelation_ZeroVarianceIsZeroNotNaN(t *testing.T) {
	samples := []audit.CalibrationSample{
		{ObservedOutcome: audit.OutcomeCorrect, PillarScoresSnapshot: map[audit.Pillar]float64{audit.PillarSchema: 50}},
		{ObservedOutcome: audit.OutcomeOptimistic, PillarScoresSnapshot: map[audit.Pillar]float64{audit.PillarSchema: 50}},
	}
	corr := PerPillarCorrelation(samples)
	assert.Equal(t, 0.0, corr[audit.PillarSchema])
}

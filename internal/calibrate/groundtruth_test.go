package calibrate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/findablescore/auditor/pkg/audit"
)

func TestInferGroundTruth_CorrectReturnsSamePrediction(t *testing.T) {
	s := audit.CalibrationSample{SimPrediction: audit.PartiallyAnswerable, ObservedOutcome: audit.OutcomeCorrect}
	assert.Equal(t, audit.PartiallyAnswerable, InferGroundTruth(s))
}

func TestInferGroundTruth_OptimisticDropsOneTier(t *testing.T) {
	s := audit.CalibrationSample{SimPrediction: audit.FullyAnswerable, ObservedOutcome: audit.OutcomeOptimistic}
	assert.Equal(t, audit.PartiallyAnswerable, InferGroundTruth(s))
}

func TestInferGroundTruth_PessimisticRaisesOneTier(t *testing.T) {
	s := audit.CalibrationSample{SimPrediction: audit.Unanswered, ObservedOutcome: audit.OutcomePessimistic}
	assert.Equal(t, audit.PartiallyAnswerable, InferGroundTruth(s))
}

func TestReplayAccuracy_ReclassifiesUnderCandidateThresholds(t *testing.T) {
	samples := []audit.CalibrationSample{
		{SimScore: 0.9, SimPrediction: audit.FullyAnswerable, ObservedOutcome: audit.OutcomeCorrect},
		{SimScore: 0.2, SimPrediction: audit.Unanswered, ObservedOutcome: audit.OutcomeCorrect},
	}
	loose := audit.Thresholds{FullyAnswerable: 0.1, PartiallyAnswerable: 0.05}
	assert.Less(t, ReplayAccuracy(samples, loose), 1.0)

	matching := audit.Thresholds{FullyAnswerable: 0.5, PartiallyAnswerable: 0.3}
	assert.InDelta(t, 1.0, ReplayAccuracy(samples, matching), 1e-9)
}

func TestReplayWeightedAccuracy_HigherRetrievalWeightFavorsFindableSamples(t *testing.T) {
	samples := []audit.CalibrationSample{
		{
			ObservedOutcome: audit.OutcomeCorrect,
			PillarScoresSnapshot: map[audit.Pillar]float64{
				audit.PillarRetrieval: 95,
				audit.PillarCoverage:  10,
			},
		},
	}
	retrievalHeavy := map[audit.Pillar]float64{audit.PillarRetrieval: 90, audit.PillarCoverage: 10}
	coverageHeavy := map[audit.Pillar]float64{audit.PillarRetrieval: 10, audit.PillarCoverage: 90}

	assert.Greater(t, ReplayWeightedAccuracy(samples, retrievalHeavy), ReplayWeightedAccuracy(samples, coverageHeavy))
}

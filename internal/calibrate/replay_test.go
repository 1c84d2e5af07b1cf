package calibrate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/findablescore/auditor/pkg/audit"
)

func TestReplay_CombinesThresholdAndWeightedAccuracy(t *testing.T) {
	samples := []audit.CalibrationSample{
		{
			SimScore:        0.6,
			SimPrediction:   audit.FullyAnswerable,
			ObservedOutcome: audit.OutcomeCorrect,
			PillarScoresSnapshot: map[audit.Pillar]float64{
				audit.PillarRetrieval: 90,
			},
		},
	}
	result := Replay(samples, audit.DefaultCalibrationConfig())

	assert.Equal(t, 1, result.SampleCount)
	assert.GreaterOrEqual(t, result.ThresholdAccuracy, 0.0)
	assert.GreaterOrEqual(t, result.WeightedAccuracy, 0.0)
}

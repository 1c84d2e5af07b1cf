package calibrate

import "github.com/findablescore/auditor/pkg/audit"

// Replay re-runs stored CalibrationSamples against a candidate
// CalibrationConfig without re-crawling or re-simulating: it reclassifies
// each sample's stored SimScore under the config's thresholds and
// recomputes each sample's total_score from its PillarScoresSnapshot under
// the config's weights. This is the primitive both grid searches in §4.12
// build on, and what a caller uses to sanity-check a candidate config
// before proposing it for a live A/B.
func Replay(samples []audit.CalibrationSample, candidate audit.CalibrationConfig) ReplayResult {
	return ReplayResult{
		ThresholdAccuracy: ReplayAccuracy(samples, candidate.Thresholds),
		WeightedAccuracy:  ReplayWeightedAccuracy(samples, candidate.Weights),
		SampleCount:       len(samples),
	}
}

// ReplayResult is what Replay reports for a candidate config over a sample
// set.
type ReplayResult struct {
	ThresholdAccuracy float64
	WeightedAccuracy  float64
	SampleCount       int
}

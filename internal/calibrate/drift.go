package calibrate

import (
	"time"

	"github.com/findablescore/auditor/pkg/audit"
)

// accuracyDropAlertFloor and biasShiftAlertFloor are §4.12's drift
// thresholds: "accuracy drops by >=10% or bias exceeds +-20% versus
// baseline."
const (
	accuracyDropAlertFloor = 0.10
	biasShiftAlertFloor    = 0.20
)

// Baseline is the reference accuracy/bias a new window of samples is
// compared against, computed by the same daily job from an earlier window
// (or pinned to a config's launch-day figures).
type Baseline struct {
	Accuracy float64
	Bias     float64
}

// DetectDrift runs the daily scheduled comparison from §4.12: aggregate
// accuracy and bias for the current sample window versus a Baseline. It
// returns nil when nothing has drifted past the alert floors.
func DetectDrift(configID string, current []audit.CalibrationSample, baseline Baseline) *audit.DriftAlert {
	currentAccuracy := Accuracy(current)
	currentBias := Bias(current)

	accuracyDelta := currentAccuracy - baseline.Accuracy
	biasDelta := currentBias - baseline.Bias

	accuracyDropped := accuracyDelta <= -accuracyDropAlertFloor
	biasShifted := biasDelta >= biasShiftAlertFloor || biasDelta <= -biasShiftAlertFloor

	if !accuracyDropped && !biasShifted {
		return nil
	}

	reason := "bias shift"
	switch {
	case accuracyDropped && biasShifted:
		reason = "accuracy drop and bias shift"
	case accuracyDropped:
		reason = "accuracy drop"
	}

	return &audit.DriftAlert{
		ConfigID:      configID,
		AccuracyDelta: accuracyDelta,
		BiasDelta:     biasDelta,
		TriggeredAt:   time.Now(),
		Reason:        reason,
	}
}

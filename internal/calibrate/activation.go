package calibrate

// minHoldoutAccuracyFloor is how well a grid-search winner must replay on the
// held-out split before it is even allowed into a live A/B. Below this
// floor it is not a candidate at all, let alone an active config.
const minHoldoutAccuracyFloor = 0.5

// ActivationStage is where a candidate CalibrationConfig sits in the
// promotion pipeline described by §4.12's "critical discovery": a
// grid-search winner can underperform the default on fresh traffic
// (pessimism on well-known brands), so nothing is activated from holdout
// replay alone.
type ActivationStage string

const (
	StageRejectedHoldout ActivationStage = "rejected_holdout"
	StageAwaitingAB      ActivationStage = "awaiting_ab"
	StageActive          ActivationStage = "active"
	StageDemoted         ActivationStage = "demoted"
)

// Promote decides whether a grid-search winner advances past holdout
// validation into a live A/B, given its holdout accuracy from Replay.
func Promote(holdoutAccuracy float64) ActivationStage {
	if holdoutAccuracy < minHoldoutAccuracyFloor {
		return StageRejectedHoldout
	}
	return StageAwaitingAB
}

// Activate applies a concluded A/B ExperimentResult to a config that
// cleared holdout: a "treatment" winner activates it, anything else keeps
// control active and demotes the candidate. Demotion on a negative A/B is
// automatic, never a manual step, per §4.12.
func Activate(result ExperimentResult) ActivationStage {
	if result.Winner == "treatment" {
		return StageActive
	}
	return StageDemoted
}

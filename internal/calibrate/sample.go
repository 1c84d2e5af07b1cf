package calibrate

import "github.com/findablescore/auditor/pkg/audit"

// ObservationOutcome is ground truth about one question from the Observer:
// whether the observed AI system's response mentioned, cited, or omitted
// the site for that question.
type ObservationOutcome string

const (
	ObservationMentioned ObservationOutcome = "mentioned"
	ObservationCited     ObservationOutcome = "cited"
	ObservationOmitted   ObservationOutcome = "omitted"
)

// answerabilityWasConfirmed reports whether an ObservationOutcome counts as
// the AI system actually answering with the site present.
func answerabilityWasConfirmed(outcome ObservationOutcome) bool {
	return outcome == ObservationMentioned || outcome == ObservationCited
}

// BuildSample pairs one Question's SimResult with the Observer's raw
// per-question outcome into a CalibrationSample, per §4.12: "emit one
// CalibrationSample per question with the simulation's answerability
// prediction and the observed outcome (correct/optimistic/pessimistic)."
// pillarSnapshot is the Run's pillar raw scores at the time of the Run,
// captured so later replay doesn't need the original indexes.
func BuildSample(runID string, question audit.Question, result audit.SimResult, observed ObservationOutcome, pillarSnapshot map[audit.Pillar]float64) audit.CalibrationSample {
	return audit.CalibrationSample{
		RunID:                runID,
		QuestionID:           question.QuestionID,
		SimPrediction:        result.Answerability,
		SimScore:             result.Score,
		ObservedOutcome:      classifyOutcome(result.Answerability, observed),
		Category:             question.Category,
		PillarScoresSnapshot: pillarSnapshot,
	}
}

// classifyOutcome compares the simulator's prediction against what was
// actually observed and labels the three-way outcome §4.12 names: the
// simulator predicted Unanswered but the AI answered anyway (pessimistic,
// predicted too low), or predicted {partially,fully} answerable but the AI
// omitted the site (optimistic, predicted too high); anything else is
// correct.
func classifyOutcome(predicted audit.Answerability, observed ObservationOutcome) audit.ObservedOutcome {
	confirmed := answerabilityWasConfirmed(observed)

	switch predicted {
	case audit.Unanswered:
		if confirmed {
			return audit.OutcomePessimistic
		}
		return audit.OutcomeCorrect
	case audit.PartiallyAnswerable:
		if confirmed {
			return audit.OutcomeCorrect
		}
		return audit.OutcomeOptimistic
	default: // FullyAnswerable
		if confirmed {
			return audit.OutcomeCorrect
		}
		return audit.OutcomeOptimistic
	}
}

package calibrate

import (
	"hash/fnv"
	"math"

	"github.com/findablescore/auditor/pkg/audit"
)

// ArmControl and ArmTreatment are the two arms AssignArm returns.
const (
	ArmControl    = 0
	ArmTreatment  = 1
	minSamplesPerArm = 30
)

// AssignArm deterministically buckets a site into control (0) or treatment
// (1): arm = H(site_id || exp_seed) mod 2, per §4.12. FNV-1a is used for H:
// a fast non-cryptographic hash suits a bucketing key, which needs no
// security-sensitive digest.
func AssignArm(siteID, expSeed string) int {
	h := fnv.New64a()
	h.Write([]byte(siteID))
	h.Write([]byte("|"))
	h.Write([]byte(expSeed))
	return int(h.Sum64() % 2)
}

// ExperimentResult summarizes one A/B comparison: per-arm accuracy, the
// chi-squared p-value, and the winner decision.
type ExperimentResult struct {
	ControlAccuracy   float64
	TreatmentAccuracy float64
	PValue            float64
	SufficientSamples bool
	Winner            string // "control", "treatment", or "" if undecided
}

// Evaluate computes per-arm accuracy and a chi-squared significance test
// from control/treatment sample sets, and declares a winner only if
// p < 0.05 AND the improvement clears improvementFloor, per §4.12; "control
// remains active" otherwise, returned as Winner == "control".
func Evaluate(control, treatment []audit.CalibrationSample, improvementFloor float64) ExperimentResult {
	result := ExperimentResult{
		ControlAccuracy:   Accuracy(control),
		TreatmentAccuracy: Accuracy(treatment),
		Winner:            "control",
	}

	if len(control) < minSamplesPerArm || len(treatment) < minSamplesPerArm {
		result.SufficientSamples = false
		result.PValue = 1
		return result
	}
	result.SufficientSamples = true

	controlCorrect := countCorrect(control)
	treatmentCorrect := countCorrect(treatment)
	result.PValue = chiSquaredPValue(
		controlCorrect, len(control)-controlCorrect,
		treatmentCorrect, len(treatment)-treatmentCorrect,
	)

	improvement := result.TreatmentAccuracy - result.ControlAccuracy
	if result.PValue < 0.05 && improvement >= improvementFloor {
		result.Winner = "treatment"
	}
	return result
}

func countCorrect(samples []audit.CalibrationSample) int {
	n := 0
	for _, s := range samples {
		if s.ObservedOutcome == audit.OutcomeCorrect {
			n++
		}
	}
	return n
}

// chiSquaredPValue runs Pearson's chi-squared test on a 2x2 contingency
// table (arm x correct/incorrect) with Yates' continuity correction, and
// converts the statistic to a p-value. With one degree of freedom a
// chi-squared variable is the square of a standard normal, so
// p = erfc(sqrt(chiSq)/sqrt(2)) is exact and needs no gamma-function
// machinery beyond math.Erfc.
func chiSquaredPValue(controlCorrect, controlIncorrect, treatmentCorrect, treatmentIncorrect int) float64 {
	a, b := float64(controlCorrect), float64(controlIncorrect)
	c, d := float64(treatmentCorrect), float64(treatmentIncorrect)
	n := a + b + c + d
	if n == 0 {
		return 1
	}

	corrected := math.Abs(a*d-b*c) - n/2
	if corrected < 0 {
		corrected = 0
	}
	numerator := n * corrected * corrected
	denominator := (a + b) * (c + d) * (a + c) * (b + d)
	if denominator == 0 {
		return 1
	}
	chiSq := numerator / denominator

	z := math.Sqrt(chiSq)
	return math.Erfc(z / math.Sqrt2)
}

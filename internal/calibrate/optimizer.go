package calibrate

import "github.com/findablescore/auditor/pkg/audit"

// weightGridPillars is the set of pillars the weight optimizer searches
// over. entity_recognition is excluded: it defaults to 0 and is optional
// per audit.DefaultWeights, so it is not a candidate for the coarse grid.
var weightGridPillars = []audit.Pillar{
	audit.PillarTechnical,
	audit.PillarStructure,
	audit.PillarSchema,
	audit.PillarAuthority,
	audit.PillarRetrieval,
	audit.PillarCoverage,
}

const (
	weightGridMin        = 5.0
	weightGridMax        = 35.0
	weightGridCoarseStep = 10.0
	weightGridFineStep   = 5.0
	weightGridSum        = 100.0
)

const (
	thresholdGridMin  = 0.1
	thresholdGridMax  = 0.7
	thresholdGridStep = 0.05
)

// WeightCandidate is one grid point plus its replayed accuracy.
type WeightCandidate struct {
	Weights  map[audit.Pillar]float64
	Accuracy float64
}

// OptimizeWeights grid-searches pillar weight tuples per §4.12: a coarse
// 10% step across weightGridPillars, each weight in [5,35] summing to 100,
// falling back to a 5% step if the coarse pass finds no candidate at all
// (a tuple space too coarse to hit sum=100 exactly for the given pillar
// count; the tuples do not depend on the samples). Each candidate is
// replayed with ReplayWeightedAccuracy and the winner is whichever does best
// on holdout, per the "keep the best on a held-out split" rule; train
// accuracy is computed but does not affect the ranking.
func OptimizeWeights(train, holdout []audit.CalibrationSample) (WeightCandidate, bool) {
	candidates := generateWeightTuples(weightGridPillars, weightGridCoarseStep, weightGridSum)
	if len(candidates) == 0 {
		candidates = generateWeightTuples(weightGridPillars, weightGridFineStep, weightGridSum)
	}
	if len(candidates) == 0 {
		return WeightCandidate{}, false
	}

	var best WeightCandidate
	found := false
	for _, tuple := range candidates {
		trainAccuracy := ReplayWeightedAccuracy(train, tuple)
		holdoutAccuracy := ReplayWeightedAccuracy(holdout, tuple)
		_ = trainAccuracy // tuples are ranked on holdout; train accuracy is diagnostic only
		if !found || holdoutAccuracy > best.Accuracy {
			best = WeightCandidate{Weights: tuple, Accuracy: holdoutAccuracy}
			found = true
		}
	}
	return best, found
}

// generateWeightTuples enumerates every assignment of step-sized weights in
// [weightGridMin, weightGridMax] to pillars that sums exactly to target,
// via recursive backtracking with a reachability prune (remaining pillars
// times their min/max bounds the feasible remainder).
func generateWeightTuples(pillars []audit.Pillar, step, target float64) []map[audit.Pillar]float64 {
	var out []map[audit.Pillar]float64
	assignment := make(map[audit.Pillar]float64, len(pillars))

	var backtrack func(idx int, remaining float64)
	backtrack = func(idx int, remaining float64) {
		if idx == len(pillars) {
			if remaining == 0 {
				out = append(out, cloneWeights(assignment))
			}
			return
		}

		left := len(pillars) - idx - 1
		minRemainder := float64(left) * weightGridMin
		maxRemainder := float64(left) * weightGridMax

		for w := weightGridMin; w <= weightGridMax+1e-9; w += step {
			rest := remaining - w
			if rest < minRemainder-1e-9 || rest > maxRemainder+1e-9 {
				continue
			}
			assignment[pillars[idx]] = w
			backtrack(idx+1, rest)
		}
		delete(assignment, pillars[idx])
	}

	backtrack(0, target)
	return out
}

func cloneWeights(in map[audit.Pillar]float64) map[audit.Pillar]float64 {
	out := make(map[audit.Pillar]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// ThresholdCandidate is one (fully_answerable, partially_answerable) grid
// point plus its replayed accuracy.
type ThresholdCandidate struct {
	Thresholds audit.Thresholds
	Accuracy   float64
}

// OptimizeThresholds grid-searches fully_answerable and
// partially_answerable on [0.1,0.7] at a 0.05 step, keeping SignalMatch
// fixed (it is not named among §4.12's grid-searched thresholds), and
// picks the tuple with the best holdout accuracy.
func OptimizeThresholds(train, holdout []audit.CalibrationSample, fixed audit.Thresholds) (ThresholdCandidate, bool) {
	var best ThresholdCandidate
	found := false

	for full := thresholdGridMin; full <= thresholdGridMax+1e-9; full += thresholdGridStep {
		for partial := thresholdGridMin; partial <= thresholdGridMax+1e-9; partial += thresholdGridStep {
			if partial >= full {
				continue
			}
			candidate := audit.Thresholds{
				FullyAnswerable:     full,
				PartiallyAnswerable: partial,
				SignalMatch:         fixed.SignalMatch,
			}
			_ = ReplayAccuracy(train, candidate)
			holdoutAccuracy := ReplayAccuracy(holdout, candidate)
			if !found || holdoutAccuracy > best.Accuracy {
				best = ThresholdCandidate{Thresholds: candidate, Accuracy: holdoutAccuracy}
				found = true
			}
		}
	}
	return best, found
}

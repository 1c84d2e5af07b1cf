// Package score implements the Score Calculator: it combines a Run's
// PillarScores and the active CalibrationConfig's weights into a single
// explainable Report, per §4.10.
package score

import (
	"sort"

	"github.com/findablescore/auditor/pkg/audit"
)

// milestone pairs a total-score floor with the Findability Level that
// applies at or above it and the next milestone to call out.
type milestone struct {
	floor         float64
	level         audit.FindabilityLevel
	nextMilestone int
}

// milestones is the §4.10 step-3 table, in ascending floor order so
// findLevel can scan once and keep the highest match.
var milestones = []milestone{
	{floor: 0, level: audit.NotYetFindable, nextMilestone: 40},
	{floor: 40, level: audit.PartiallyFindable, nextMilestone: 55},
	{floor: 55, level: audit.Findable, nextMilestone: 70},
	{floor: 70, level: audit.HighlyFindable, nextMilestone: 85},
	{floor: 85, level: audit.Optimized, nextMilestone: 0},
}

// Calculate builds a Report from this Run's pillar scores and the active
// CalibrationConfig's weights, and the per-question counts needed for the
// Report's summary fields.
func Calculate(runID string, pillarScores []audit.PillarScore, cfg audit.CalibrationConfig, simResults []audit.SimResult) audit.Report {
	var totalScore, evaluatedMax float64
	mathLines := make([]audit.MathLine, 0, len(pillarScores))

	for i := range pillarScores {
		ps := &pillarScores[i]
		if !ps.Evaluated {
			continue
		}

		weight := cfg.Weights[ps.Pillar]
		contribution := ps.Raw * weight / 100
		ps.Weighted = contribution

		totalScore += contribution
		evaluatedMax += weight

		mathLines = append(mathLines, audit.MathLine{
			Pillar:       ps.Pillar,
			Raw:          ps.Raw,
			Weight:       weight,
			Contribution: contribution,
		})
	}

	sort.Slice(mathLines, func(i, j int) bool {
		return mathLines[i].Contribution > mathLines[j].Contribution
	})

	level, nextMilestone := findLevel(totalScore)

	answered, partial, unanswered := questionCounts(simResults)

	return audit.Report{
		RunID:               runID,
		TotalScore:          totalScore,
		EvaluatedMax:        evaluatedMax,
		Level:               level,
		NextMilestone:       nextMilestone,
		PillarScores:        pillarScores,
		ShowTheMath:         mathLines,
		QuestionsAnswered:   answered,
		QuestionsPartial:    partial,
		QuestionsUnanswered: unanswered,
	}
}

// findLevel maps a total score (reported against the evaluated pillars'
// 100-point scale; callers comparing against evaluatedMax < 100 should use
// the secondary percentage, not this mapping, per §4.10 step 2) to its
// Findability Level and next milestone.
func findLevel(totalScore float64) (audit.FindabilityLevel, int) {
	level := milestones[0].level
	next := milestones[0].nextMilestone
	for _, m := range milestones {
		if totalScore >= m.floor {
			level = m.level
			next = m.nextMilestone
		}
	}
	return level, next
}

// EvaluatedPercentage reports total_score / evaluated_max * 100, the
// §4.10 step-2 secondary percentage shown whenever evaluatedMax < 100 so
// the Report never silently implies a "/100" scale it didn't earn.
func EvaluatedPercentage(totalScore, evaluatedMax float64) float64 {
	if evaluatedMax == 0 {
		return 0
	}
	return 100 * totalScore / evaluatedMax
}

// Strengths returns the pillars scored at the "full" progress level,
// §4.10 step 4's "detect strengths" requirement.
func Strengths(pillarScores []audit.PillarScore) []audit.Pillar {
	var strengths []audit.Pillar
	for _, ps := range pillarScores {
		if ps.Evaluated && ps.Level == audit.LevelFull {
			strengths = append(strengths, ps.Pillar)
		}
	}
	return strengths
}

func questionCounts(results []audit.SimResult) (answered, partial, unanswered int) {
	for _, r := range results {
		switch r.Answerability {
		case audit.FullyAnswerable:
			answered++
		case audit.PartiallyAnswerable:
			partial++
		default:
			unanswered++
		}
	}
	return answered, partial, unanswered
}

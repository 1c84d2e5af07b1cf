package pillar

import "github.com/findablescore/auditor/pkg/audit"

// Coverage scores `100 * (fully + 0.5*partial) / total_questions`, per
// §4.9.
func Coverage(runID string, results []audit.SimResult) audit.PillarScore {
	if len(results) == 0 {
		return build(runID, audit.PillarCoverage, nil, nil)
	}

	var fully, partial float64
	for _, r := range results {
		switch r.Answerability {
		case audit.FullyAnswerable:
			fully++
		case audit.PartiallyAnswerable:
			partial++
		}
	}

	raw := 100 * (fully + 0.5*partial) / float64(len(results))

	components := []audit.ComponentScore{
		{Name: "answered_ratio", Raw: raw, Weight: 100},
	}

	return build(runID, audit.PillarCoverage, components, nil)
}

package orchestrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findablescore/auditor/internal/calibrate"
	"github.com/findablescore/auditor/pkg/audit"
)

func TestApplyRunOptionDefaults_FillsZeroFieldsOnly(t *testing.T) {
	opts := applyRunOptionDefaults(audit.RunOptions{MaxPages: 10})

	defaults := audit.DefaultRunOptions()
	assert.Equal(t, 10, opts.MaxPages)
	assert.Equal(t, defaults.MaxDepth, opts.MaxDepth)
	assert.Equal(t, defaults.Concurrency, opts.Concurrency)
	assert.Equal(t, defaultDeadline, opts.Deadline)
}

func TestCapInt_PlanCapWinsOverLargerOption(t *testing.T) {
	assert.Equal(t, 50, capInt(200, 50, 10))
}

func TestCapInt_OptionFallsBackToConfigDefaultWhenUnset(t *testing.T) {
	assert.Equal(t, 25, capInt(0, 0, 25))
}

func TestCapInt_PlanCapIgnoredWhenLarger(t *testing.T) {
	assert.Equal(t, 100, capInt(100, 500, 10))
}

func TestZeroPagesReport_ReturnsNotYetFindableWithDiagnosticFix(t *testing.T) {
	o := &Orchestrator{}
	report := o.zeroPagesReport("run-1")

	assert.Equal(t, 0.0, report.TotalScore)
	assert.Equal(t, audit.NotYetFindable, report.Level)
	require.Len(t, report.Fixes, 1)
	assert.Equal(t, "site_inaccessible", report.Fixes[0].ReasonCode)
}

func TestParseSeedURL_AddsHTTPSWhenSchemeMissing(t *testing.T) {
	u, err := parseSeedURL("example.com")
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "example.com", u.Host)
}

func TestParseSeedURL_KeepsExplicitScheme(t *testing.T) {
	u, err := parseSeedURL("http://example.com")
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
}

func TestWeightSum_SumsAllPillars(t *testing.T) {
	weights := map[audit.Pillar]float64{
		audit.PillarRetrieval: 30,
		audit.PillarCoverage:  20,
	}
	assert.Equal(t, 50.0, weightSum(weights))
}

func TestOutcomeFromResponse_CitedOutranksMentioned(t *testing.T) {
	resp := audit.ObservationResponse{Cited: true, Mentioned: true}
	assert.Equal(t, calibrate.ObservationCited, outcomeFromResponse(resp))
}

func TestOutcomeFromResponse_NeitherIsOmitted(t *testing.T) {
	resp := audit.ObservationResponse{}
	assert.Equal(t, calibrate.ObservationOmitted, outcomeFromResponse(resp))
}

func TestNew_RequiresStoreAndConfig(t *testing.T) {
	_, err := New(Dependencies{})
	assert.Error(t, err)
}

func TestRunPillars_EntityIsNeverEvaluated(t *testing.T) {
	o := &Orchestrator{}
	pages := []audit.Page{{PageID: "p1", RunID: "run-1", URL: "https://example.com"}}

	scores := o.runPillars(pages, nil, nil, false)

	var entity *audit.PillarScore
	for i := range scores {
		if scores[i].Pillar == audit.PillarEntityRecognition {
			entity = &scores[i]
		}
	}
	require.NotNil(t, entity)
	assert.False(t, entity.Evaluated)
}

func TestRunPillars_DeadlineExceededMarksRetrievalAndCoverageNotEvaluated(t *testing.T) {
	o := &Orchestrator{}
	pages := []audit.Page{{PageID: "p1", RunID: "run-1", URL: "https://example.com"}}
	results := []audit.SimResult{{QuestionID: "q1", Answerability: audit.FullyAnswerable}}

	scores := o.runPillars(pages, nil, results, true)

	for _, s := range scores {
		if s.Pillar == audit.PillarRetrieval || s.Pillar == audit.PillarCoverage {
			assert.False(t, s.Evaluated, "%s should be not-evaluated when the deadline expired", s.Pillar)
		}
	}
}

func TestBuildFixes_DedupesIssuesAcrossPillars(t *testing.T) {
	pages := []audit.Page{{PageID: "p1", URL: "https://example.com"}}
	pillarScores := []audit.PillarScore{
		{
			Pillar:    audit.PillarStructure,
			Evaluated: true,
			Issues: []audit.Issue{
				{Code: "missing_h1"},
				{Code: "missing_h1"},
			},
		},
	}

	fixes, action := buildFixes(pages, pillarScores, nil, nil)

	codes := map[string]int{}
	for _, f := range fixes {
		codes[f.ReasonCode]++
	}
	for _, count := range codes {
		assert.LessOrEqual(t, count, 1)
	}
	assert.NotNil(t, action)
}

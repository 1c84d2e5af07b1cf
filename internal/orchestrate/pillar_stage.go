package orchestrate

import (
	"time"

	"github.com/findablescore/auditor/internal/fix"
	"github.com/findablescore/auditor/internal/pillar"
	"github.com/findablescore/auditor/internal/robots"
	"github.com/findablescore/auditor/pkg/audit"
)

// runPillars invokes all seven analyzers for one Run. Entity Recognition
// is always handed HasData: false: none of this repo's pipeline stages
// populate Wikipedia/Wikidata/domain-age signals (they're external
// lookups outside the crawl -> extract -> chunk -> embed -> simulate
// path), so the pillar reports Evaluated: false and is excluded from the
// weighted total rather than scored as a zero it didn't earn.
//
// deadlineExceeded marks the Run's total deadline having expired before
// simulation finished; per §5's cancellation rule, Retrieval and Coverage
// are reported not-evaluated in that case since they're derived entirely
// from SimResults the Run didn't get to finish collecting.
func (o *Orchestrator) runPillars(pages []audit.Page, robotsResults map[string]robots.Result, results []audit.SimResult, deadlineExceeded bool) []audit.PillarScore {
	runID := ""
	if len(pages) > 0 {
		runID = pages[0].RunID
	}

	retrieval := pillar.Retrieval(runID, results)
	coverage := pillar.Coverage(runID, results)
	if deadlineExceeded {
		retrieval = notEvaluated(runID, audit.PillarRetrieval)
		coverage = notEvaluated(runID, audit.PillarCoverage)
	}

	return []audit.PillarScore{
		retrieval,
		coverage,
		pillar.Structure(runID, pages),
		pillar.Schema(runID, pages),
		pillar.Technical(runID, pillar.TechnicalInput{
			Pages:         pages,
			RobotsResults: robotsResults,
		}),
		pillar.Authority(runID, pillar.AuthorityInput{
			Pages: pages,
			Now:   time.Now(),
		}),
		pillar.Entity(runID, pillar.EntityInput{HasData: false}),
	}
}

// notEvaluated builds a PillarScore whose analyzer didn't get to run,
// the same shape pillar.Entity returns when it has no data, without
// attributing a raw score the Run didn't earn.
func notEvaluated(runID string, p audit.Pillar) audit.PillarScore {
	return audit.PillarScore{RunID: runID, Pillar: p, Evaluated: false}
}

// buildFixes turns a Run's issues and unanswered questions into a
// deduplicated, diminishing-returns-capped Action Center, per §4.11.
func buildFixes(pages []audit.Page, pillarScores []audit.PillarScore, questions []audit.Question, results []audit.SimResult) ([]audit.Fix, audit.ActionCenter) {
	var fixes []audit.Fix

	pageURL := ""
	if len(pages) > 0 {
		pageURL = pages[0].URL
	}
	for _, ps := range pillarScores {
		if !ps.Evaluated {
			continue
		}
		fixes = append(fixes, fix.GenerateFromIssues(ps.Issues, pageURL)...)
	}
	fixes = append(fixes, fix.GenerateFromQuestions(questions, results)...)

	fixes = fix.Dedupe(fixes)
	fixes, _ = fix.ApplyDiminishingReturns(fixes)

	return fixes, fix.BuildActionCenter(fixes)
}

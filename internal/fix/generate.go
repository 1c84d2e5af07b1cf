package fix

import (
	"sort"
	"strings"
	"text/template"

	"github.com/findablescore/auditor/pkg/audit"
)

// diminishingReturnsFactor and impactHardCap implement §4.11's "cap total
// impact per plan (diminishing returns): second fix x 0.8, third x 0.64,
// etc.; hard cap at 30 points."
const (
	diminishingReturnsFactor = 0.8
	impactHardCap            = 30.0
)

// templateData is what a reason_code's scaffold/title template can
// reference. Fields the caller has no value for render as empty strings;
// the [BRACKETED] tokens in reasonTemplates' scaffold text are plain text
// and stay as written.
type templateData struct {
	PageURL      string
	QuestionText string
}

// GenerateFromIssues builds one Fix per pillar Issue whose code has a
// registered reason template. pageURL is best-effort: the page the issue
// was raised against, or "" if the issue isn't page-scoped.
func GenerateFromIssues(issues []audit.Issue, pageURL string) []audit.Fix {
	fixes := make([]audit.Fix, 0, len(issues))
	for _, issue := range issues {
		tmpl, ok := reasonTemplates[issue.Code]
		if !ok {
			continue
		}
		fixes = append(fixes, render(issue.Code, tmpl, templateData{PageURL: pageURL}))
	}
	return fixes
}

// GenerateFromQuestions builds one Fix per failed or partially-answered
// question, per §4.11's "each failed/partial question" requirement.
func GenerateFromQuestions(questions []audit.Question, results []audit.SimResult) []audit.Fix {
	resultsByQuestion := make(map[string]audit.SimResult, len(results))
	for _, r := range results {
		resultsByQuestion[r.QuestionID] = r
	}

	fixes := make([]audit.Fix, 0)
	for _, q := range questions {
		result, ok := resultsByQuestion[q.QuestionID]
		if !ok {
			continue
		}

		var code string
		switch result.Answerability {
		case audit.Unanswered:
			code = "question_unanswered"
		case audit.PartiallyAnswerable:
			code = "question_partially_answered"
		default:
			continue
		}

		tmpl, ok := reasonTemplates[code]
		if !ok {
			continue
		}
		fixes = append(fixes, render(code, tmpl, templateData{QuestionText: q.Text}))
	}
	return fixes
}

// render executes a reason_code's title and scaffold templates against
// data and fills in the static fields from reasonTemplates. A template
// that fails to parse or execute (which would only happen from a
// programmer error in reasonTemplates, never from user input) falls back
// to the raw unrendered text rather than dropping the Fix.
func render(reasonCode string, tmpl reasonTemplate, data templateData) audit.Fix {
	return audit.Fix{
		ReasonCode:            reasonCode,
		Title:                 mustRender(reasonCode+"-title", tmpl.title, data),
		Explanation:           tmpl.explanation,
		Scaffold:              mustRender(reasonCode+"-scaffold", tmpl.scaffold, data),
		TargetURL:             data.PageURL,
		Priority:              tmpl.priority,
		Effort:                tmpl.effort,
		EstimatedImpactPoints: tmpl.impact,
		AffectedPillar:        tmpl.pillar,
	}
}

func mustRender(name, text string, data templateData) string {
	t, err := template.New(name).Parse(text)
	if err != nil {
		return text
	}
	var out strings.Builder
	if err := t.Execute(&out, data); err != nil {
		return text
	}
	return out.String()
}

// Dedupe drops Fixes sharing a reason_code, keeping the first occurrence
// (which is the one GenerateFromIssues/GenerateFromQuestions produced
// first, typically the highest-priority page or question surfaced).
func Dedupe(fixes []audit.Fix) []audit.Fix {
	seen := make(map[string]struct{}, len(fixes))
	out := make([]audit.Fix, 0, len(fixes))
	for _, f := range fixes {
		if _, ok := seen[f.ReasonCode]; ok {
			continue
		}
		seen[f.ReasonCode] = struct{}{}
		out = append(out, f)
	}
	return out
}

// ApplyDiminishingReturns caps fixes' EstimatedImpactPoints when summed as
// a plan: the highest-impact fix counts in full, the second at 0.8x, the
// third at 0.64x, and so on, with the running total hard-capped at 30
// points. Fixes are sorted by impact descending first so the fixes that
// get full credit are the ones that matter most.
func ApplyDiminishingReturns(fixes []audit.Fix) (adjusted []audit.Fix, totalImpact float64) {
	sorted := append([]audit.Fix{}, fixes...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EstimatedImpactPoints > sorted[j].EstimatedImpactPoints
	})

	factor := 1.0
	for i := range sorted {
		discounted := sorted[i].EstimatedImpactPoints * factor
		if totalImpact+discounted > impactHardCap {
			discounted = impactHardCap - totalImpact
		}
		sorted[i].EstimatedImpactPoints = discounted
		totalImpact += discounted
		factor *= diminishingReturnsFactor
	}

	return sorted, totalImpact
}

// BuildActionCenter groups fixes per §4.11: quick_wins are low effort with
// at least medium impact (>= 3 points, matching this package's own
// "medium" reasonTemplate entries); high_priority is any fix at priority
// 1 (the "critical pillar impact" band); by_category groups by pillar.
func BuildActionCenter(fixes []audit.Fix) audit.ActionCenter {
	ac := audit.ActionCenter{ByCategory: make(map[audit.Pillar][]audit.Fix)}

	for _, f := range fixes {
		if f.Effort == "low" && f.EstimatedImpactPoints >= mediumImpactFloor {
			ac.QuickWins = append(ac.QuickWins, f)
		}
		if f.Priority == 1 {
			ac.HighPriority = append(ac.HighPriority, f)
		}
		ac.ByCategory[f.AffectedPillar] = append(ac.ByCategory[f.AffectedPillar], f)
	}

	return ac
}

// mediumImpactFloor is the points threshold a fix must clear to count as
// "impact >= medium" for quick_wins eligibility.
const mediumImpactFloor = 3.0

package pillar

import (
	"net/url"
	"strings"

	"github.com/findablescore/auditor/internal/robots"
	"github.com/findablescore/auditor/pkg/audit"
)

// ttfbZeroMillis/ttfbFullPenaltyMillis are the §4.9 Technical pillar's
// linear TTFB interpolation bounds: 0ms scores 100, 1500ms and slower
// scores 0.
const (
	ttfbZeroMillis         = 0
	ttfbFullPenaltyMillis  = 1500
	// emptyShellPenaltyPoints makes empty-shell pages a strong negative per
	// §4.9: a corpus that's a third empty-shell zeroes this component out
	// rather than merely docking a third of its points.
	emptyShellPenaltyPoints = 300
)

// TechnicalInput bundles the artifacts the Technical analyzer reads.
// RobotsResults is keyed by host, following internal/robots.Result's own
// per-host shape. LLMsTxtFound/LLMsTxtStructured are supplied by whatever
// fetched the site's llms.txt (orchestration-level, outside this package's
// concern) since no pipeline stage in this repo fetches it yet.
type TechnicalInput struct {
	Pages           []audit.Page
	RobotsResults   map[string]robots.Result
	LLMsTxtFound    bool
	LLMsTxtStructured bool
}

// Technical scores robots AI-access, TTFB, llms.txt presence/structure,
// non-JS-dependent content, and HTTPS, per §4.9.
func Technical(runID string, in TechnicalInput) audit.PillarScore {
	components := []audit.ComponentScore{
		{Name: "robots_ai_access", Raw: robotsAIAccess(in.RobotsResults), Weight: 35},
		{Name: "ttfb", Raw: medianTTFBScore(in.Pages), Weight: 30},
		{Name: "llms_txt", Raw: llmsTxtScore(in.LLMsTxtFound, in.LLMsTxtStructured), Weight: 15},
		{Name: "non_js_dependent", Raw: nonJSDependentScore(in.Pages), Weight: 10},
		{Name: "https", Raw: httpsScore(in.Pages), Weight: 10},
	}

	var issues []audit.Issue
	for _, p := range in.Pages {
		if p.EmptyShell {
			issues = append(issues, audit.Issue{
				Code:    "empty_shell",
				Level:   audit.LevelLimited,
				Message: "Page " + p.URL + " renders almost no text without JavaScript.",
			})
		}
	}

	return build(runID, audit.PillarTechnical, components, issues)
}

// robotsAIAccess averages the per-host DirectCrawl allowance (already
// computed by internal/robots.Result, 0-100) across every distinct host
// the Run crawled.
func robotsAIAccess(results map[string]robots.Result) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.DirectCrawl
	}
	return sum / float64(len(results))
}

func medianTTFBScore(pages []audit.Page) float64 {
	if len(pages) == 0 {
		return 0
	}
	timings := make([]int, 0, len(pages))
	for _, p := range pages {
		if p.Timing.TTFBMillis > 0 {
			timings = append(timings, p.Timing.TTFBMillis)
		}
	}
	if len(timings) == 0 {
		return 0
	}
	median := medianInt(timings)
	return linearDecay(float64(median), ttfbZeroMillis, ttfbFullPenaltyMillis)
}

func medianInt(values []int) int {
	sorted := append([]int{}, values...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func llmsTxtScore(found, structured bool) float64 {
	switch {
	case found && structured:
		return 100
	case found:
		return 50
	default:
		return 0
	}
}

// nonJSDependentScore penalizes empty-shell pages (main text < 100 chars
// with framework markers present, already flagged by internal/extract)
// as a strong negative: the component loses emptyShellPenaltyPoints times
// the empty-shell ratio, so a corpus that is a third empty-shell scores 0.
func nonJSDependentScore(pages []audit.Page) float64 {
	if len(pages) == 0 {
		return 0
	}
	emptyShells := 0
	for _, p := range pages {
		if p.EmptyShell {
			emptyShells++
		}
	}
	ratio := float64(emptyShells) / float64(len(pages))
	return clamp0to100(100 - ratio*emptyShellPenaltyPoints)
}

func httpsScore(pages []audit.Page) float64 {
	if len(pages) == 0 {
		return 0
	}
	https := 0
	for _, p := range pages {
		if u, err := url.Parse(p.URL); err == nil && strings.EqualFold(u.Scheme, "https") {
			https++
		}
	}
	return 100 * float64(https) / float64(len(pages))
}

package pillar

import (
	"regexp"
	"strings"
	"time"

	"github.com/findablescore/auditor/pkg/audit"
)

// contentFreshnessDecayMonths is the §4.9 "decay to 0 at 24 months" bound.
const contentFreshnessDecayMonths = 24

var (
	credentialPattern = regexp.MustCompile(`(?i)\b(Ph\.?D|M\.?D|MBA|J\.?D|RN|CPA|CFA|professor|dr\.)\b`)
	originalDataPattern = regexp.MustCompile(`(?i)\b(we surveyed|our analysis|our research|our study|we analyzed|in our testing|proprietary data)\b`)
)

// AuthorityInput bundles the artifacts the Authority analyzer reads.
// CitationDomains is the set of hosts the Run's pages link out to that are
// treated as authoritative sources (e.g. .gov/.edu or a caller-supplied
// allowlist); this package doesn't maintain that allowlist itself.
type AuthorityInput struct {
	Pages            []audit.Page
	CitationDomains  map[string]struct{}
	Now              time.Time
}

// Authority scores author byline ratio, credential mentions,
// primary-source citation density, content freshness, and original-data
// markers, per §4.9.
func Authority(runID string, in AuthorityInput) audit.PillarScore {
	if len(in.Pages) == 0 {
		return build(runID, audit.PillarAuthority, nil, nil)
	}

	components := []audit.ComponentScore{
		{Name: "author_byline_ratio", Raw: authorBylineRatio(in.Pages), Weight: 27},
		{Name: "credentials", Raw: avgOverPages(in.Pages, credentialsScore), Weight: 20},
		{Name: "primary_source_citations", Raw: citationScore(in.Pages, in.CitationDomains), Weight: 20},
		{Name: "content_freshness", Raw: freshnessScore(in.Pages, in.Now), Weight: 20},
		{Name: "original_data_markers", Raw: avgOverPages(in.Pages, originalDataScore), Weight: 13},
	}

	return build(runID, audit.PillarAuthority, components, nil)
}

func authorBylineRatio(pages []audit.Page) float64 {
	withAuthor := 0
	for _, p := range pages {
		if p.Author != "" {
			withAuthor++
		}
	}
	return 100 * float64(withAuthor) / float64(len(pages))
}

func credentialsScore(p audit.Page) float64 {
	if credentialPattern.MatchString(p.ExtractedText) || credentialPattern.MatchString(p.Author) {
		return 100
	}
	return 0
}

func citationScore(pages []audit.Page, authoritative map[string]struct{}) float64 {
	if len(authoritative) == 0 {
		return 0
	}
	pagesWithCitation := 0
	for _, p := range pages {
		for _, link := range p.Links.External {
			if isFromAuthoritativeHost(link, authoritative) {
				pagesWithCitation++
				break
			}
		}
	}
	return 100 * float64(pagesWithCitation) / float64(len(pages))
}

func isFromAuthoritativeHost(link string, authoritative map[string]struct{}) bool {
	for host := range authoritative {
		if strings.Contains(link, host) {
			return true
		}
	}
	return false
}

// freshnessScore decays linearly to 0 at 24 months since a page's
// DateModified, per §4.9. Pages missing a DateModified neither help nor
// hurt the average; an all-undated corpus scores 0 rather than being
// silently excluded.
func freshnessScore(pages []audit.Page, now time.Time) float64 {
	var sum float64
	var dated int
	for _, p := range pages {
		modified, err := time.Parse(time.RFC3339, p.DateModified)
		if err != nil {
			continue
		}
		dated++
		ageMonths := now.Sub(modified).Hours() / (24 * 30)
		sum += linearDecay(ageMonths, 0, contentFreshnessDecayMonths)
	}
	if dated == 0 {
		return 0
	}
	return sum / float64(dated)
}

func originalDataScore(p audit.Page) float64 {
	if originalDataPattern.MatchString(p.ExtractedText) {
		return 100
	}
	return 0
}

package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var bylinePattern = regexp.MustCompile(`(?i)^by\s+([A-Z][\w.'-]+(?:\s+[A-Z][\w.'-]+){0,3})`)

// extractAuthor tries, in order: meta[name=author], rel=author links,
// common ".author"/".byline" classes, then a "By <Name>" text pattern at
// the top of the main content.
func extractAuthor(doc *goquery.Document, mainText string) string {
	if name, ok := doc.Find(`meta[name="author"]`).Attr("content"); ok && strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}

	if name := strings.TrimSpace(doc.Find(`[rel="author"]`).First().Text()); name != "" {
		return name
	}

	for _, sel := range []string{".author", ".byline", "[itemprop='author']"} {
		if name := strings.TrimSpace(doc.Find(sel).First().Text()); name != "" {
			return name
		}
	}

	if m := bylinePattern.FindStringSubmatch(strings.TrimSpace(mainText)); len(m) == 2 {
		return m[1]
	}

	return ""
}

// credentialMarkers flag author credibility signals the Authority pillar
// looks for alongside byline presence.
var credentialMarkers = []string{"PhD", "Ph.D", "M.D.", "MD,", "MBA", "CPA", "Esq.", "RN,"}

func hasCredentialMarker(text string) bool {
	for _, m := range credentialMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func extractTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func extractMetaDescription(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok && strings.TrimSpace(content) != "" {
		return strings.TrimSpace(content)
	}
	if content, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	return ""
}

// extractLanguage returns a best-effort language hint from <html lang>,
// falling back to the empty string (treated as "unknown" downstream)
// rather than guessing from content.
func extractLanguage(doc *goquery.Document) string {
	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		lang = strings.TrimSpace(lang)
		if idx := strings.Index(lang, "-"); idx > 0 {
			return strings.ToLower(lang[:idx])
		}
		return strings.ToLower(lang)
	}
	return ""
}

// frameworkMarkers signal a JS-framework mount point; present alongside a
// near-empty extracted text, they indicate the page never rendered
// server-side ("empty shell" in spec terms).
var frameworkMarkers = []string{
	"#root", "#__next", "#app", "[data-reactroot]", "[ng-version]", "#__nuxt",
}

func hasFrameworkMarker(doc *goquery.Document) bool {
	for _, sel := range frameworkMarkers {
		if doc.Find(sel).Length() > 0 {
			return true
		}
	}
	return false
}

package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/findablescore/auditor/pkg/audit"
)

var updatedPattern = regexp.MustCompile(`(?i)(?:updated|last updated|modified)[:\s]+([A-Za-z]+\s+\d{1,2},?\s+\d{4}|\d{4}-\d{2}-\d{2})`)

// extractDateModified prefers structured signals (schema dateModified,
// meta tags) over a visible "Updated ..." text pattern, since the former
// are machine-authored and less prone to false positives.
func extractDateModified(doc *goquery.Document, schema []audit.SchemaObject, mainText string) string {
	for _, obj := range schema {
		if !obj.Valid {
			continue
		}
		if dm, ok := obj.Raw["dateModified"].(string); ok && dm != "" {
			return dm
		}
	}

	for _, sel := range []string{`meta[property="article:modified_time"]`, `meta[itemprop="dateModified"]`} {
		if content, ok := doc.Find(sel).Attr("content"); ok && strings.TrimSpace(content) != "" {
			return strings.TrimSpace(content)
		}
	}

	if m := updatedPattern.FindStringSubmatch(mainText); len(m) == 2 {
		return m[1]
	}

	return ""
}

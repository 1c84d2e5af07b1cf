package extract

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// MainContentHTML re-parses a page's raw body and returns the inner HTML
// of the same main-content node FromCrawlResult selects for ExtractedText,
// so internal/chunk can walk the same boundary structurally (headings,
// lists, tables, code, quotes) instead of re-deriving it from flattened
// text. Exported separately rather than threading it through Page because
// pkg/audit.Page only carries a storage reference to raw HTML
// (RawHTMLRef), not the bytes themselves.
func MainContentHTML(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	node := mainContentNode(doc)
	if node.Length() == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	for _, n := range node.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

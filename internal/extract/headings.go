package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/findablescore/auditor/pkg/audit"
)

func extractHeadings(doc *goquery.Document) []audit.Heading {
	var headings []audit.Heading
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		level, _ := strconv.Atoi(strings.TrimPrefix(goquery.NodeName(s), "h"))
		headings = append(headings, audit.Heading{Level: level, Text: text})
	})
	return headings
}

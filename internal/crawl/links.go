package crawl

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// extractLinks walks the parsed token stream for <a href> targets,
// resolved against base. Malformed or empty hrefs are skipped; this is a
// frontier-discovery pass only, not the categorized Internal/External
// link list the extractor computes for scoring.
func extractLinks(body []byte, base *url.URL) []*url.URL {
	var links []*url.URL

	tokenizer := html.NewTokenizer(bytes.NewReader(body))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return links
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		token := tokenizer.Token()
		if token.Data != "a" {
			continue
		}

		href := attr(token, "href")
		if href == "" {
			continue
		}
		if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") || strings.HasPrefix(href, "javascript:") {
			continue
		}

		resolved, err := base.Parse(href)
		if err != nil {
			continue
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			continue
		}
		links = append(links, resolved)
	}
}

func attr(t html.Token, name string) string {
	for _, a := range t.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/findablescore/auditor/pkg/audit"
)

// multiPartTLDs mirrors internal/crawl's table; duplicated rather than
// shared because the two packages' same-domain checks serve different
// purposes (frontier expansion vs. per-page link categorization) and
// pulling in a cross-package dependency for ten lines isn't warranted.
var multiPartTLDs = map[string]bool{
	"co.uk": true, "org.uk": true, "ac.uk": true, "gov.uk": true,
	"com.au": true, "net.au": true, "org.au": true,
	"co.nz": true, "co.jp": true, "co.in": true, "co.za": true,
	"com.br": true, "com.mx": true,
}

func registrableDomain(host string) string {
	host = strings.ToLower(host)
	labels := strings.Split(host, ".")
	if len(labels) <= 2 {
		return host
	}
	lastTwo := strings.Join(labels[len(labels)-2:], ".")
	if multiPartTLDs[lastTwo] && len(labels) >= 3 {
		return strings.Join(labels[len(labels)-3:], ".")
	}
	return lastTwo
}

func extractLinks(doc *goquery.Document, pageURL *url.URL) audit.Links {
	var links audit.Links
	seen := map[string]bool{}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") || strings.HasPrefix(href, "javascript:") {
			return
		}
		resolved, err := pageURL.Parse(href)
		if err != nil || (resolved.Scheme != "http" && resolved.Scheme != "https") {
			return
		}
		normalized := resolved.String()
		if seen[normalized] {
			return
		}
		seen[normalized] = true

		if registrableDomain(resolved.Host) == registrableDomain(pageURL.Host) {
			links.Internal = append(links.Internal, normalized)
		} else {
			links.External = append(links.External, normalized)
		}
	})

	return links
}

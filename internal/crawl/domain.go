package crawl

import "strings"

// multiPartTLDs covers the common second-level public suffixes (co.uk,
// com.au, ...) that a naive last-two-labels split would otherwise treat
// as the registrable domain. No public-suffix-list library appears
// anywhere in the pack, so this is a deliberately small hand-rolled table
// rather than a dependency with no grounding; it covers the suffixes
// likely to appear in audited sites, not the full PSL.
var multiPartTLDs = map[string]bool{
	"co.uk": true, "org.uk": true, "ac.uk": true, "gov.uk": true,
	"com.au": true, "net.au": true, "org.au": true,
	"co.nz": true, "co.jp": true, "co.in": true, "co.za": true,
	"com.br": true, "com.mx": true,
}

// registrableDomain returns the eTLD+1 of host, e.g. "www.example.co.uk"
// -> "example.co.uk" and "blog.example.com" -> "example.com".
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

// sameRegistrableDomain reports whether two hosts share a registrable
// domain, so the crawler follows "blog.example.com" from "www.example.com"
// but not an off-site link to "example-news.com".
func sameRegistrableDomain(a, b string) bool {
	return registrableDomain(a) == registrableDomain(b)
}

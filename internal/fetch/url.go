package fetch

import (
	"net/url"
	"sort"
	"strings"
)

// trackingParams lists query keys that vary the URL without changing the
// resource it addresses. Stripping them keeps the frontier's visited set
// from treating the same page as N distinct URLs.
var trackingParams = map[string]bool{
	"utm_source":   true,
	"utm_medium":   true,
	"utm_campaign": true,
	"utm_term":     true,
	"utm_content":  true,
	"fbclid":       true,
	"gclid":        true,
	"msclkid":      true,
	"mc_cid":       true,
	"mc_eid":       true,
	"ref":          true,
	"ref_src":      true,
}

// Canonicalize applies a deterministic normalization to a URL so that
// equivalent spellings collapse to one canonical form:
//   - scheme and host are lowercased
//   - default ports (80/443) are dropped
//   - the fragment is removed
//   - trailing slashes are stripped except on the root path
//   - tracking query parameters are removed; remaining params are sorted
//
// Canonicalize is pure and idempotent: Canonicalize(Canonicalize(u)) == Canonicalize(u).
func Canonicalize(u *url.URL) *url.URL {
	canonical := *u

	canonical.Scheme = strings.ToLower(canonical.Scheme)
	canonical.Host = strings.ToLower(canonical.Host)

	if host, port := canonical.Hostname(), canonical.Port(); port != "" {
		if (canonical.Scheme == "http" && port == "80") ||
			(canonical.Scheme == "https" && port == "443") {
			canonical.Host = host
		}
	}

	if len(canonical.Path) > 1 {
		canonical.Path = strings.TrimRight(canonical.Path, "/")
		if canonical.Path == "" {
			canonical.Path = "/"
		}
	}

	canonical.Fragment = ""
	canonical.RawFragment = ""

	if canonical.RawQuery != "" {
		q := canonical.Query()
		for key := range q {
			if trackingParams[strings.ToLower(key)] {
				q.Del(key)
			}
		}
		canonical.RawQuery = sortedEncode(q)
	}

	return &canonical
}

// sortedEncode encodes query values with keys sorted, so two URLs whose
// params differ only in order canonicalize identically.
func sortedEncode(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		values := q[k]
		sort.Strings(values)
		for j, v := range values {
			if i > 0 || j > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// isLikelyNonHTML reports whether a URL's path extension suggests content
// the fetcher should not bother downloading (images, archives, binaries).
// This is a cheap pre-filter; the authoritative check is the response's
// Content-Type header.
func isLikelyNonHTML(u *url.URL) bool {
	path := strings.ToLower(u.Path)
	for _, ext := range nonHTMLExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

var nonHTMLExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico", ".bmp",
	".pdf", ".zip", ".tar", ".gz", ".rar", ".7z",
	".mp3", ".mp4", ".avi", ".mov", ".wav", ".webm",
	".css", ".js", ".json", ".xml", ".rss", ".atom",
	".woff", ".woff2", ".ttf", ".eot",
	".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
	".exe", ".dmg", ".apk",
}

// isHTMLContentType reports whether a Content-Type header value indicates
// HTML (or XHTML) content worth extracting.
func isHTMLContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}

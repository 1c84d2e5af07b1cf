package fetch

import (
	"net/http"
	"net/url"
	"time"
)

// Result is everything the fetcher learned about one page. It carries raw
// bytes only; internal/extract turns this into structured page content.
type Result struct {
	URL           *url.URL
	FinalURL      *url.URL
	StatusCode    int
	Body          []byte
	ContentType   string
	Headers       http.Header
	FetchedAt     time.Time
	Duration      time.Duration
	RedirectChain []string
	Attempts      int
}

// SizeBytes returns the size of the downloaded body.
func (r *Result) SizeBytes() int {
	return len(r.Body)
}

// Redirected reports whether the final URL differs from the requested one.
func (r *Result) Redirected() bool {
	return r.FinalURL != nil && r.URL != nil && r.FinalURL.String() != r.URL.String()
}

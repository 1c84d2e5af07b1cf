package crawl

import (
	"net/url"
	"time"

	"github.com/findablescore/auditor/internal/fetch"
)

// Result is one crawled URL's outcome: either a successful fetch (Fetched
// set, FetchErr nil) or a recorded failure (Fetched nil, FetchErr set).
// internal/extract turns a successful Result into a pkg/audit.Page; the
// orchestrator turns a failed one into a Page with FetchError populated so
// the failure is visible in the Run's artifacts rather than silently
// dropped.
type Result struct {
	URL       *url.URL
	Depth     int
	Fetched   *fetch.Result
	FetchErr  error
	CrawledAt time.Time
}

// Succeeded reports whether this URL produced usable content.
func (r Result) Succeeded() bool {
	return r.FetchErr == nil && r.Fetched != nil
}

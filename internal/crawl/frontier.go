package crawl

import (
	"net/url"
	"sync"

	"github.com/findablescore/auditor/internal/fetch"
)

// item is one pending frontier entry.
type item struct {
	url   *url.URL
	depth int
}

// visitedSet deduplicates frontier entries by canonical URL so that the
// same page is never fetched twice even when multiple pages link to it.
type visitedSet struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newVisitedSet() *visitedSet {
	return &visitedSet{seen: make(map[string]bool)}
}

// tryMark reports whether u is newly seen, marking it seen either way.
func (v *visitedSet) tryMark(u *url.URL) bool {
	key := fetch.Canonicalize(u).String()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.seen[key] {
		return false
	}
	v.seen[key] = true
	return true
}

func (v *visitedSet) count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.seen)
}

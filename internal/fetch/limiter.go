package fetch

import (
	"sync"

	"golang.org/x/time/rate"
)

// hostLimiter hands out one token-bucket rate.Limiter per host, so the
// fetcher can run many hosts concurrently while staying polite to each
// individual one. Mirrors the crawl domain's per-host bookkeeping needs
// without the crawler ever synchronizing across hosts.
type hostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

func newHostLimiter(rps float64, burst int) *hostLimiter {
	return &hostLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

func (h *hostLimiter) forHost(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()

	l, ok := h.limiters[host]
	if !ok {
		l = rate.NewLimiter(rate.Limit(h.rps), h.burst)
		h.limiters[host] = l
	}
	return l
}

package robots

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/findablescore/auditor/internal/auditerrors"
)

const (
	maxRobotsBytes = 500 * 1024
	cacheTTL       = 10 * time.Minute
	cacheSize      = 256
)

type cacheEntry struct {
	doc       document
	fetchedAt time.Time
}

// Client fetches, parses, and caches robots.txt per host for cacheTTL
// (ten minutes, up to cacheSize hosts). One Client is shared across the
// whole crawl so a host's robots.txt is fetched once per cache window
// regardless of how many of its pages are crawled.
type Client struct {
	httpClient *http.Client
	userAgent  string
	cache      *expirable.LRU[string, cacheEntry]
}

// New builds a Client. userAgent is the crawler's own identity, used both
// to fetch robots.txt and to resolve this crawler's own RuleSet.
func New(userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userAgent:  userAgent,
		cache:      expirable.NewLRU[string, cacheEntry](cacheSize, nil, cacheTTL),
	}
}

// RuleSetFor returns the resolved rule set for this crawler's own user
// agent on host, fetching and caching robots.txt as needed.
func (c *Client) RuleSetFor(ctx context.Context, scheme, host string) (RuleSet, error) {
	doc, fetchedAt, err := c.fetchCached(ctx, scheme, host)
	if err != nil {
		return RuleSet{}, err
	}
	return resolve(doc, host, c.userAgent, fetchedAt), nil
}

// Result returns the full accessibility scoring for host across every
// known bot, fetching and caching robots.txt as needed.
func (c *Client) Result(ctx context.Context, scheme, host string) (Result, error) {
	doc, fetchedAt, err := c.fetchCached(ctx, scheme, host)
	if err != nil {
		return Result{}, err
	}
	return score(doc, host, fetchedAt), nil
}

func (c *Client) fetchCached(ctx context.Context, scheme, host string) (document, time.Time, error) {
	if entry, ok := c.cache.Get(host); ok {
		return entry.doc, entry.fetchedAt, nil
	}

	doc, err := c.fetch(ctx, scheme, host)
	if err != nil {
		return document{}, time.Time{}, err
	}

	fetchedAt := time.Now()
	c.cache.Add(host, cacheEntry{doc: doc, fetchedAt: fetchedAt})
	return doc, fetchedAt, nil
}

func (c *Client) fetch(ctx context.Context, scheme, host string) (document, error) {
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", scheme, host)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return document{}, auditerrors.New(auditerrors.ErrCodeNetworkUnavailable, "failed to build robots.txt request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Unreachable robots.txt is treated as "no restrictions", matching
		// common crawler behavior: a network failure should not block the
		// entire crawl of an otherwise-reachable site.
		return document{}, nil
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		limited := io.LimitReader(resp.Body, maxRobotsBytes+1)
		body, err := io.ReadAll(limited)
		if err != nil {
			return document{}, nil
		}
		if len(body) > maxRobotsBytes {
			body = body[:maxRobotsBytes]
		}
		return parse(string(body)), nil

	default:
		// 4xx (no robots.txt -> default allow) and 5xx (server error ->
		// fail open rather than stall the crawl on a misconfigured host)
		// both resolve to an empty, all-allow document.
		return document{}, nil
	}
}

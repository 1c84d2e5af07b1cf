package crawl

import (
	"context"
	"net/url"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/findablescore/auditor/internal/config"
	"github.com/findablescore/auditor/internal/fetch"
	"github.com/findablescore/auditor/internal/robots"
)

// Crawler runs one site's bounded, polite breadth-first crawl.
type Crawler struct {
	fetcher *fetch.Fetcher
	robots  *robots.Client
	cfg     config.CrawlConfig
}

// New builds a Crawler. fetcher and robotsClient are shared with the
// caller so their rate limiters and robots.txt cache persist across the
// whole Run rather than being rebuilt per crawl.
func New(fetcher *fetch.Fetcher, robotsClient *robots.Client, cfg config.CrawlConfig) *Crawler {
	return &Crawler{fetcher: fetcher, robots: robotsClient, cfg: cfg}
}

// Crawl starts the crawl in the background and streams Results on the
// returned channel in completion order, closing it once the frontier is
// exhausted, max_pages is reached, or ctx is done. It never returns an
// error itself; per-URL failures are carried in individual Results so one
// bad page cannot abort the crawl (see internal/crawl.Result.Succeeded and
// spec.md's soft-fail-unless-zero-pages policy, enforced by the caller
// once the channel is drained).
func (c *Crawler) Crawl(ctx context.Context, seed *url.URL) (<-chan Result, error) {
	out := make(chan Result, c.concurrency()*2)

	go func() {
		defer close(out)
		c.run(ctx, seed, out)
	}()

	return out, nil
}

func (c *Crawler) concurrency() int {
	if c.cfg.Concurrency <= 0 {
		return 8
	}
	return c.cfg.Concurrency
}

func (c *Crawler) maxPages() int {
	if c.cfg.MaxPages <= 0 {
		return 250
	}
	return c.cfg.MaxPages
}

func (c *Crawler) maxDepth() int {
	if c.cfg.MaxDepth <= 0 {
		return 3
	}
	return c.cfg.MaxDepth
}

func (c *Crawler) run(ctx context.Context, seed *url.URL, out chan<- Result) {
	visited := newVisitedSet()
	var fetched atomic.Int64
	budget := int64(c.maxPages())

	siteHost := seed.Host
	level := c.seedItems(seed, visited)

	for depth := 0; len(level) > 0 && depth <= c.maxDepth(); depth++ {
		if ctx.Err() != nil {
			return
		}
		if fetched.Load() >= budget {
			return
		}

		next := c.runLevel(ctx, level, siteHost, &fetched, budget, visited, out)
		level = next
	}
}

// seedItems builds the depth-0 frontier: the homepage plus the configured
// priority-path list, resolved against the seed URL. spec.md §4.3: pages
// like /pricing and /press concentrate coverage-sensitive signals that a
// pure link-graph BFS from the homepage alone may not reach within
// max_pages, so they are seeded directly rather than discovered.
func (c *Crawler) seedItems(seed *url.URL, visited *visitedSet) []item {
	var items []item
	if visited.tryMark(seed) {
		items = append(items, item{url: seed, depth: 0})
	}

	for _, p := range c.cfg.PriorityPaths {
		resolved, err := seed.Parse(p)
		if err != nil {
			continue
		}
		if !visited.tryMark(resolved) {
			continue
		}
		items = append(items, item{url: resolved, depth: 0})
	}

	return items
}

// runLevel fetches every item in the current BFS level concurrently
// (bounded by Concurrency), emits a Result for each as soon as it
// completes, and returns the deduplicated, same-domain, robots-allowed
// links discovered on successful pages to form the next level.
func (c *Crawler) runLevel(ctx context.Context, level []item, siteHost string, fetched *atomic.Int64, budget int64, visited *visitedSet, out chan<- Result) []item {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency())

	nextCh := make(chan []item, len(level))

	for _, it := range level {
		it := it
		g.Go(func() error {
			if fetched.Add(1) > budget {
				fetched.Add(-1)
				return nil
			}

			result, links := c.visit(gctx, it, siteHost)
			select {
			case out <- result:
			case <-gctx.Done():
				return gctx.Err()
			}

			if links != nil {
				nextCh <- links
			} else {
				nextCh <- nil
			}
			return nil
		})
	}

	_ = g.Wait()
	close(nextCh)

	var next []item
	for links := range nextCh {
		for _, l := range links {
			if visited.tryMark(l.url) {
				next = append(next, l)
			}
		}
	}
	return next
}

// visit fetches one URL, checking robots.txt first when enabled, and
// extracts outgoing same-domain links for the next BFS level.
func (c *Crawler) visit(ctx context.Context, it item, siteHost string) (Result, []item) {
	if c.cfg.RespectRobots {
		rs, err := c.robots.RuleSetFor(ctx, it.url.Scheme, it.url.Host)
		if err == nil && !rs.Allowed(it.url.Path) {
			return Result{
				URL:       it.url,
				Depth:     it.depth,
				FetchErr:  robotsDeniedError(it.url),
				CrawledAt: time.Now(),
			}, nil
		}
	}

	fetched, err := c.fetcher.Fetch(ctx, it.url)
	result := Result{URL: it.url, Depth: it.depth, CrawledAt: time.Now()}
	if err != nil {
		result.FetchErr = err
		return result, nil
	}
	result.Fetched = fetched

	if it.depth >= c.maxDepth() {
		return result, nil
	}

	discovered := extractLinks(fetched.Body, fetched.FinalURL)
	var links []item
	for _, u := range discovered {
		if !sameRegistrableDomain(u.Host, siteHost) {
			continue
		}
		links = append(links, item{url: u, depth: it.depth + 1})
	}
	return result, links
}

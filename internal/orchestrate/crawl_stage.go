package orchestrate

import (
	"context"
	"fmt"

	"github.com/findablescore/auditor/internal/crawl"
	"github.com/findablescore/auditor/internal/extract"
	"github.com/findablescore/auditor/internal/fetch"
	"github.com/findablescore/auditor/internal/robots"
	"github.com/findablescore/auditor/pkg/audit"
)

// crawlOutput bundles what the crawl+extract stage hands to the rest of
// the pipeline: the Pages this Run will chunk and score, the main-content
// HTML each Page's chunker pass needs (extract.MainContentHTML, not
// Page.ExtractedText, since the chunker walks DOM structure), and the
// per-host robots.Result the Technical pillar reads.
type crawlOutput struct {
	pages         []audit.Page
	mainHTML      map[string]string // keyed by PageID
	robotsResults map[string]robots.Result
}

// crawlAndExtract runs the bounded crawl, applies PlanCaps to the Run's
// MaxPages/MaxDepth/Concurrency, and turns every crawl.Result into a
// pkg/audit.Page (a failed fetch becomes a Page with FetchError set rather
// than being dropped, so the failure stays visible in the Run's
// artifacts).
func (o *Orchestrator) crawlAndExtract(ctx context.Context, runID string, site audit.Site, opts audit.RunOptions) (crawlOutput, error) {
	cfg := o.config.Crawl
	cfg.MaxPages = capInt(opts.MaxPages, site.PlanCaps.MaxPages, cfg.MaxPages)
	cfg.MaxDepth = capInt(opts.MaxDepth, site.PlanCaps.MaxDepth, cfg.MaxDepth)
	if opts.Concurrency > 0 {
		cfg.Concurrency = opts.Concurrency
	}

	seed, err := parseSeedURL(site.Domain)
	if err != nil {
		return crawlOutput{}, fmt.Errorf("orchestrate: invalid seed domain %q: %w", site.Domain, err)
	}

	fetcher := fetch.New(o.config.Fetch, cfg.UserAgent)
	robotsClient := robots.New(cfg.UserAgent)
	crawler := crawl.New(fetcher, robotsClient, cfg)

	results, err := crawler.Crawl(ctx, seed)
	if err != nil {
		return crawlOutput{}, fmt.Errorf("orchestrate: crawl: %w", err)
	}

	out := crawlOutput{
		mainHTML:      make(map[string]string),
		robotsResults: make(map[string]robots.Result),
	}

	for result := range results {
		pageID := newPageID()
		page, err := o.pageFromResult(pageID, runID, result)
		if err != nil {
			continue
		}
		out.pages = append(out.pages, page)

		if result.Succeeded() {
			if mainHTML, err := extract.MainContentHTML(result.Fetched.Body); err == nil {
				out.mainHTML[pageID] = mainHTML
			}
		}

		if err := o.store.PutPage(ctx, page); err != nil {
			continue
		}

		o.collectRobotsResult(ctx, robotsClient, result, out.robotsResults)
	}

	return out, nil
}

func (o *Orchestrator) pageFromResult(pageID, runID string, result crawl.Result) (audit.Page, error) {
	if result.Succeeded() {
		return extract.FromCrawlResult(pageID, runID, result)
	}
	url := ""
	if result.URL != nil {
		url = result.URL.String()
	}
	msg := "unknown fetch error"
	if result.FetchErr != nil {
		msg = result.FetchErr.Error()
	}
	return audit.Page{
		PageID:     pageID,
		RunID:      runID,
		URL:        url,
		Depth:      result.Depth,
		FetchError: msg,
	}, nil
}

// collectRobotsResult records this host's robots.Result once per crawl,
// keyed by host, the same granularity the Technical pillar reads it at.
func (o *Orchestrator) collectRobotsResult(ctx context.Context, client *robots.Client, result crawl.Result, seen map[string]robots.Result) {
	if result.URL == nil {
		return
	}
	host := result.URL.Host
	if _, ok := seen[host]; ok {
		return
	}
	r, err := client.Result(ctx, result.URL.Scheme, host)
	if err != nil {
		return
	}
	seen[host] = r
}

// capInt returns opt, or cfgDefault when opt is zero, lowered to planCap
// when planCap is positive and smaller, matching §4.1's "plan caps clamp,
// they never raise a run's ceiling" contract: opt is the caller's
// RunOptions value and planCap is the Site's PlanCaps ceiling.
func capInt(opt, planCap, cfgDefault int) int {
	v := cfgDefault
	if opt > 0 {
		v = opt
	}
	if planCap > 0 && planCap < v {
		v = planCap
	}
	return v
}

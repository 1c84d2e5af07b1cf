package crawl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findablescore/auditor/internal/config"
	"github.com/findablescore/auditor/internal/fetch"
	"github.com/findablescore/auditor/internal/robots"
)

func testFetchConfig() config.FetchConfig {
	return config.FetchConfig{
		TimeoutSeconds: 5,
		MaxRetries:     1,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		MaxBodyBytes:   1 << 20,
	}
}

var pages = map[string]string{
	"/":        `<html><body><a href="/about">About</a><a href="/pricing">Pricing</a><a href="https://offsite.example/x">off</a></body></html>`,
	"/about":   `<html><body><a href="/">Home</a><a href="/deep">Deep</a></body></html>`,
	"/pricing": `<html><body>no links here</body></html>`,
	"/deep":    `<html><body>bottom of the tree</body></html>`,
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(body))
	}))
}

func TestCrawl_DiscoversLinkedPagesWithinDepth(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	fetcher := fetch.New(testFetchConfig(), "test-agent/1.0")
	robotsClient := robots.New("test-agent/1.0")

	cfg := config.CrawlConfig{
		MaxPages:      10,
		MaxDepth:      2,
		Concurrency:   4,
		RespectRobots: true,
	}
	crawler := New(fetcher, robotsClient, cfg)

	seed, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)

	results, err := crawler.Crawl(context.Background(), seed)
	require.NoError(t, err)

	visitedPaths := map[string]bool{}
	for r := range results {
		assert.True(t, r.Succeeded(), "unexpected failure for %s: %v", r.URL, r.FetchErr)
		visitedPaths[r.URL.Path] = true
	}

	assert.True(t, visitedPaths["/"])
	assert.True(t, visitedPaths["/about"])
	assert.True(t, visitedPaths["/pricing"])
	assert.True(t, visitedPaths["/deep"]) // depth 2, within MaxDepth
}

func TestCrawl_RespectsMaxDepth(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	fetcher := fetch.New(testFetchConfig(), "test-agent/1.0")
	robotsClient := robots.New("test-agent/1.0")

	cfg := config.CrawlConfig{
		MaxPages:      10,
		MaxDepth:      1,
		Concurrency:   4,
		RespectRobots: true,
	}
	crawler := New(fetcher, robotsClient, cfg)

	seed, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)

	results, err := crawler.Crawl(context.Background(), seed)
	require.NoError(t, err)

	visitedPaths := map[string]bool{}
	for r := range results {
		visitedPaths[r.URL.Path] = true
	}

	assert.True(t, visitedPaths["/about"])
	assert.False(t, visitedPaths["/deep"], "/deep is depth 2, beyond MaxDepth 1")
}

func TestCrawl_StopsAtMaxPages(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	fetcher := fetch.New(testFetchConfig(), "test-agent/1.0")
	robotsClient := robots.New("test-agent/1.0")

	cfg := config.CrawlConfig{
		MaxPages:      1,
		MaxDepth:      3,
		Concurrency:   4,
		RespectRobots: true,
	}
	crawler := New(fetcher, robotsClient, cfg)

	seed, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)

	results, err := crawler.Crawl(context.Background(), seed)
	require.NoError(t, err)

	count := 0
	for range results {
		count++
	}
	assert.LessOrEqual(t, count, 1)
}

func TestRegistrableDomain_HandlesSubdomainsAndMultiPartTLDs(t *testing.T) {
	assert.True(t, sameRegistrableDomain("www.example.com", "blog.example.com"))
	assert.False(t, sameRegistrableDomain("example.com", "example-news.com"))
	assert.True(t, sameRegistrableDomain("www.example.co.uk", "shop.example.co.uk"))
	assert.False(t, sameRegistrableDomain("example.co.uk", "example.com"))
}

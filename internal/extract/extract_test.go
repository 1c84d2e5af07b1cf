package extract

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findablescore/auditor/internal/crawl"
	"github.com/findablescore/auditor/internal/fetch"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func crawlResult(t *testing.T, html string) crawl.Result {
	u := mustURL(t, "https://example.com/about")
	return crawl.Result{
		URL:   u,
		Depth: 1,
		Fetched: &fetch.Result{
			URL:        u,
			FinalURL:   u,
			StatusCode: 200,
			Body:       []byte(html),
			Duration:   120 * time.Millisecond,
		},
		CrawledAt: time.Now(),
	}
}

func TestFromCrawlResult_ExtractsTitleAndMainContent(t *testing.T) {
	html := `
<html lang="en">
<head>
  <title>About Acme</title>
  <meta name="description" content="Acme makes widgets.">
  <meta name="author" content="Jane Smith">
  <script type="application/ld+json">{"@type":"Organization","name":"Acme"}</script>
</head>
<body>
  <nav><a href="/">Home</a><a href="/pricing">Pricing</a></nav>
  <main>
    <h1>About Acme</h1>
    <p>Acme has been building developer tools since 2014, with a team spread across three continents.</p>
    <p>Our mission is to make findability easy for every site on the web, one audit at a time.</p>
  </main>
</body>
</html>`

	page, err := FromCrawlResult("page-1", "run-1", crawlResult(t, html))
	require.NoError(t, err)

	assert.Equal(t, "About Acme", page.Title)
	assert.Equal(t, "Acme makes widgets.", page.MetaDescription)
	assert.Equal(t, "en", page.Language)
	assert.Equal(t, "Jane Smith", page.Author)
	assert.Contains(t, page.ExtractedText, "developer tools")
	assert.NotEmpty(t, page.ContentHash)
	require.Len(t, page.Headings, 1)
	assert.Equal(t, 1, page.Headings[0].Level)
	require.Len(t, page.Schema, 1)
	assert.Equal(t, "Organization", page.Schema[0].Type)
	assert.False(t, page.EmptyShell)
}

func TestFromCrawlResult_CategorizesInternalAndExternalLinks(t *testing.T) {
	html := `<html><body><main><p>enough text to be meaningful content here for scoring purposes.</p>
	<a href="/pricing">Pricing</a><a href="https://other.example/blog">Other</a></main></body></html>`

	page, err := FromCrawlResult("page-1", "run-1", crawlResult(t, html))
	require.NoError(t, err)

	assert.Contains(t, page.Links.Internal, "https://example.com/pricing")
	assert.Contains(t, page.Links.External, "https://other.example/blog")
}

func TestFromCrawlResult_DetectsEmptyShell(t *testing.T) {
	html := `<html><body><div id="__next"></div></body></html>`

	page, err := FromCrawlResult("page-1", "run-1", crawlResult(t, html))
	require.NoError(t, err)
	assert.True(t, page.EmptyShell)
}

func TestFromCrawlResult_SucceedsOnSparseHeadOnlyMarkup(t *testing.T) {
	// golang.org/x/net/html always synthesizes a <body> per the HTML5 tree
	// construction algorithm, even for head-only or malformed input,
	// matching the spec's "no failure short of absent body" contract: in
	// practice that means extraction essentially never fails.
	result := crawlResult(t, `<html><head><title>no body tag</title></head></html>`)
	page, err := FromCrawlResult("page-1", "run-1", result)
	require.NoError(t, err)
	assert.Equal(t, "no body tag", page.Title)
}

package extract

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"

	"github.com/PuerkitoBio/goquery"

	"github.com/findablescore/auditor/internal/auditerrors"
	"github.com/findablescore/auditor/internal/crawl"
	"github.com/findablescore/auditor/pkg/audit"
)

const emptyShellTextThreshold = 100

// FromCrawlResult turns one successful crawl.Result into a pkg/audit.Page.
// The only hard failure is an HTML document with no <body> element at
// all; everything short of that, however sparse, produces a Page (with
// EmptyShell set when appropriate) rather than an error, per the
// extractor's "no failure short of absent body" contract.
func FromCrawlResult(pageID, runID string, result crawl.Result) (audit.Page, error) {
	fetched := result.Fetched

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(fetched.Body))
	if err != nil {
		return audit.Page{}, auditerrors.New(auditerrors.ErrCodeExtractEmpty, "failed to parse HTML", err)
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		return audit.Page{}, auditerrors.New(auditerrors.ErrCodeExtractEmpty, "document has no <body>", nil)
	}

	mainNode := mainContentNode(doc)
	mainText := visibleText(mainNode)

	pageURL := fetched.URL
	if fetched.FinalURL != nil {
		pageURL = fetched.FinalURL
	}

	schema := extractSchema(doc)
	links := extractLinks(doc, pageURL)

	page := audit.Page{
		PageID:          pageID,
		RunID:           runID,
		URL:             pageURL.String(),
		Depth:           result.Depth,
		StatusCode:      fetched.StatusCode,
		ExtractedText:   mainText,
		Title:           extractTitle(doc),
		MetaDescription: extractMetaDescription(doc),
		Language:        extractLanguage(doc),
		Headings:        extractHeadings(doc),
		Schema:          schema,
		Links:           links,
		Timing:          audit.Timing{TTFBMillis: int(fetched.Duration.Milliseconds())},
		ContentHash:     contentHash(mainText),
		Author:          extractAuthor(doc, mainText),
		Images:          extractImages(body),
		DateModified:    extractDateModified(doc, schema, mainText),
		EmptyShell:      len(mainText) < emptyShellTextThreshold && hasFrameworkMarker(doc),
	}

	return page, nil
}

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Package fetch performs bounded, polite HTTP retrieval of pages discovered
// by the crawl frontier. It applies per-host rate limiting, exponential
// backoff on transient failures, a body size cap, and URL canonicalization
// so the same page is never fetched twice under two different spellings.
//
// The fetcher never parses content. It returns raw bytes and response
// metadata; internal/extract is responsible for turning that into usable
// page data.
package fetch

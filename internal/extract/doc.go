// Package extract turns one fetched HTML page into a pkg/audit.Page: main
// content text, title/meta/language, heading outline, categorized links,
// structured-data objects, author and date signals, and image metadata.
//
// Main-content isolation follows the three-layer heuristic of
// rohmanhakim/docs-crawler's internal/extractor package: semantic
// containers first (main, article, [role=main]), then a text-density
// score over div/section/body candidates after chrome removal. The
// docs-crawler package's second layer (known documentation-framework
// container selectors) has no analog here, since this domain audits
// general marketing and product sites rather than documentation sites,
// so it is dropped rather than carried over unused.
//
// Per spec, extraction fails only when the document has no <body> at
// all; every other page, however sparse, produces a Page (possibly with
// EmptyShell set).
package extract

// Package crawl implements the bounded, polite breadth-first crawl of a
// single site for one Run.
//
// The frontier is keyed by the canonical form of each URL (see
// internal/fetch.Canonicalize) so that tracking parameters, trailing
// slashes, and fragments never create duplicate visits. Workers pull from
// a shared in-memory queue bounded by an errgroup worker limit, structured
// like internal/scanner's goroutine-plus-buffered-channel producer, but
// generalized from a filesystem walk to HTTP frontier expansion: instead
// of filepath.WalkDir yielding files, each fetched page yields the links
// that expand the frontier by one level.
package crawl

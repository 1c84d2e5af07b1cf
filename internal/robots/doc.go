// Package robots parses robots.txt (wildcards and user-agent group
// inheritance) and answers two questions the crawler and the Technical
// pillar both need: is a given bot allowed to fetch a given path, and how
// accessible is the site to search engines versus AI crawlers as a whole.
//
// Results are cached per host for up to ten minutes; within that window a
// robots.txt fetch happens once per host regardless of how many pages on
// that host are crawled.
package robots

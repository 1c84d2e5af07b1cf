package robots

import (
	"strings"
	"time"
)

// group is one User-agent: block from a parsed robots.txt file.
type group struct {
	agents    []string
	allows    []string
	disallows []string
	delay     *time.Duration
}

// document is the fully parsed form of one host's robots.txt.
type document struct {
	groups   []group
	sitemaps []string
}

// RuleSet is the resolved view of a document for one specific user agent:
// the most specific matching group's rules, flattened and ready to test
// paths against. It is immutable once built.
type RuleSet struct {
	host      string
	userAgent string
	allows    []string
	disallows []string
	delay     *time.Duration
	matched   bool
	fetchedAt time.Time
}

// Allowed reports whether path may be fetched under this rule set.
// Per the robots.txt spec, the longest matching rule wins; a tie between
// an allow and a disallow of equal length favors allow.
func (rs RuleSet) Allowed(path string) bool {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	bestLen := -1
	allowed := true

	for _, p := range rs.disallows {
		if l := matchLen(p, path); l > bestLen {
			bestLen = l
			allowed = false
		}
	}
	for _, p := range rs.allows {
		if l := matchLen(p, path); l >= bestLen {
			bestLen = l
			allowed = true
		}
	}

	return allowed
}

// CrawlDelay returns the robots.txt Crawl-delay for this agent, if any.
func (rs RuleSet) CrawlDelay() *time.Duration {
	return rs.delay
}

// matchLen reports the length of pattern if it matches path, honoring a
// trailing "*" wildcard, or -1 if it does not match. An empty pattern
// never matches (an empty Disallow means "allow everything").
func matchLen(pattern, path string) int {
	if pattern == "" {
		return -1
	}
	if strings.HasSuffix(pattern, "*") {
		prefix := strings.TrimSuffix(pattern, "*")
		if strings.HasPrefix(path, prefix) {
			return len(prefix)
		}
		return -1
	}
	if strings.HasPrefix(path, pattern) {
		return len(pattern)
	}
	return -1
}

// resolve selects the most specific group in doc matching targetAgent and
// flattens it into a RuleSet. Exact (case-insensitive) matches beat
// prefix matches, which beat the wildcard "*" group.
func resolve(doc document, host, targetAgent string, fetchedAt time.Time) RuleSet {
	rs := RuleSet{host: host, userAgent: targetAgent, fetchedAt: fetchedAt}

	target := strings.ToLower(targetAgent)
	var best *group
	bestSpecificity := -1

	for i := range doc.groups {
		g := &doc.groups[i]
		for _, agent := range g.agents {
			agent = strings.ToLower(agent)
			switch {
			case agent == target:
				best = g
				bestSpecificity = len(agent) + 1000 // exact match always wins
			case agent == "*":
				if bestSpecificity < 0 {
					best = g
					bestSpecificity = 0
				}
			case strings.HasPrefix(target, agent):
				if len(agent) > bestSpecificity && bestSpecificity < 1000 {
					best = g
					bestSpecificity = len(agent)
				}
			}
		}
	}

	if best == nil {
		return rs
	}

	rs.matched = true
	rs.allows = best.allows
	rs.disallows = best.disallows
	rs.delay = best.delay
	return rs
}

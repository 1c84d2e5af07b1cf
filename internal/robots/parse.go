package robots

import (
	"bufio"
	"fmt"
	"strings"
	"time"
)

// parse reads raw robots.txt content into a document. It implements the
// handful of directives that matter for crawl gating: User-agent, Allow,
// Disallow, Crawl-delay, and Sitemap. Unknown directives and malformed
// lines are skipped rather than treated as parse errors, matching real
// robots.txt files in the wild, which are rarely strictly conformant.
func parse(content string) document {
	var doc document
	scanner := bufio.NewScanner(strings.NewReader(content))

	var current *group

	flush := func() {
		if current != nil && len(current.agents) > 0 {
			doc.groups = append(doc.groups, *current)
		}
		current = nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			continue
		}
		field := strings.ToLower(strings.TrimSpace(line[:colon]))
		value := strings.TrimSpace(line[colon+1:])

		switch field {
		case "user-agent":
			if current != nil && (len(current.allows) > 0 || len(current.disallows) > 0 || current.delay != nil) {
				flush()
			}
			if current == nil {
				current = &group{}
			}
			current.agents = append(current.agents, value)

		case "allow":
			if current != nil {
				current.allows = append(current.allows, value)
			}

		case "disallow":
			if current != nil {
				current.disallows = append(current.disallows, value)
			}

		case "crawl-delay":
			if current != nil {
				var seconds float64
				if _, err := fmt.Sscanf(value, "%f", &seconds); err == nil && seconds >= 0 {
					d := time.Duration(seconds * float64(time.Second))
					current.delay = &d
				}
			}

		case "sitemap":
			if value != "" {
				doc.sitemaps = append(doc.sitemaps, value)
			}
		}
	}
	flush()

	return doc
}

package robots

import "time"

// BotAccess records whether one known bot may fetch the host's root path
// ("/"), so specific blocked crawlers can be named.
type BotAccess struct {
	Bot     string
	Class   BotClass
	Allowed bool
}

// Result is the per-host robots.txt verdict exposed to the crawler and
// to the Technical pillar analyzer.
type Result struct {
	Host             string
	FetchedAt        time.Time
	Found            bool // false when the fetched document has no User-agent group (e.g. 404)
	Sitemaps         []string
	BotAccess        []BotAccess
	SearchIndexed    float64 // weighted allowance of search.knownBots, 0-100
	DirectCrawl      float64 // weighted allowance of AI knownBots, 0-100
	Combined         float64 // 0.6*SearchIndexed + 0.4*DirectCrawl
	DisallowedForAll bool    // "Disallow: /" under "User-agent: *"
}

// score computes SearchIndexed/DirectCrawl/Combined from a parsed
// document, testing each known bot against its own resolved rule set.
func score(doc document, host string, fetchedAt time.Time) Result {
	r := Result{
		Host:      host,
		FetchedAt: fetchedAt,
		Found:     len(doc.groups) > 0,
		Sitemaps:  doc.sitemaps,
	}

	var searchScore, aiScore float64

	for _, bot := range knownBots {
		rs := resolve(doc, host, bot.token, fetchedAt)
		allowed := rs.Allowed("/")
		r.BotAccess = append(r.BotAccess, BotAccess{Bot: bot.name, Class: bot.class, Allowed: allowed})

		contribution := 0.0
		if allowed {
			contribution = bot.weight * 100
		}
		switch bot.class {
		case ClassSearch:
			searchScore += contribution
		case ClassAI:
			aiScore += contribution
		}
	}

	r.SearchIndexed = searchScore
	r.DirectCrawl = aiScore
	r.Combined = searchPillarWeight*searchScore + aiPillarWeight*aiScore

	wildcard := resolve(doc, host, "*", fetchedAt)
	r.DisallowedForAll = wildcard.matched && !wildcard.Allowed("/")

	return r
}

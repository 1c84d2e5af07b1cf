package pillar

import "github.com/findablescore/auditor/pkg/audit"

// EntityInput bundles the signals the optional Entity Recognition pillar
// reads. None of this repo's pipeline stages populate it yet: Wikipedia/
// Wikidata/domain-age lookups are external calls outside the crawl ->
// extract -> chunk -> embed -> simulate path, left to whatever orchestrates
// a Run to supply (or omit). Evaluated is false when the caller has no
// data at all, so the pillar is skipped rather than scored as zero.
type EntityInput struct {
	HasData          bool
	WikipediaPresent bool
	WikidataEntity   bool
	DomainAgeScore   float64 // 0-100, precomputed by the caller from registration age + TLD
	WebPresenceScore float64 // 0-100, precomputed by the caller from search-result coverage
}

// Entity scores Wikipedia presence, Wikidata entity linkage, domain
// age/TLD, and general web presence, per §4.9's optional 7th pillar.
func Entity(runID string, in EntityInput) audit.PillarScore {
	if !in.HasData {
		return audit.PillarScore{RunID: runID, Pillar: audit.PillarEntityRecognition, Evaluated: false}
	}

	components := []audit.ComponentScore{
		{Name: "wikipedia_presence", Raw: boolScore(in.WikipediaPresent), Weight: 30},
		{Name: "wikidata_entity", Raw: boolScore(in.WikidataEntity), Weight: 20},
		{Name: "domain_age_tld", Raw: clamp0to100(in.DomainAgeScore), Weight: 20},
		{Name: "web_presence", Raw: clamp0to100(in.WebPresenceScore), Weight: 30},
	}

	return build(runID, audit.PillarEntityRecognition, components, nil)
}

func boolScore(b bool) float64 {
	if b {
		return 100
	}
	return 0
}

package simulate

import "regexp"

// Signal patterns are compiled once at init, following
// internal/search/patterns.go's compiled-regex-at-init style. Each entry
// maps a named signal family to a regex that matches evidence of it in
// retrieved text. Signal names not present here fall back to fuzzy token
// matching against the signal name itself (see fuzzyMatchSignal in
// signals.go).
var signalPatterns = map[string]*regexp.Regexp{
	"email": regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`),

	// At least 7 digits, excluding percentages ("30% off" shouldn't count as
	// a phone number). The negative lookahead trick Go's RE2 doesn't support,
	// so the digit count and percentages are checked in evaluateSignal instead.
	"phone": regexp.MustCompile(`(\+?\d[\d\-.\s()]{6,}\d)`),

	"address": regexp.MustCompile(`(?i)\d+\s+[a-z0-9.\s]+\b(street|st|avenue|ave|road|rd|boulevard|blvd|suite|ste|drive|dr|way|lane|ln)\b`),

	"pricing": regexp.MustCompile(`(?i)(\$\s?\d[\d,]*(\.\d{2})?|\bUSD\b|\bfree\b|\bper\s+(month|year|user|seat)\b|\bpricing\b|\bplan(s)?\b)`),

	"testimonial": regexp.MustCompile(`(?i)("[^"]{15,}"|\bsaid\b|\breview(s|ed)?\b|\btestimonial(s)?\b|\brated?\b \d(\.\d)?\s*(out of|\/)\s*5)`),

	"founding_year": regexp.MustCompile(`(?i)\b(founded|established|since|est\.?)\s+(in\s+)?(19|20)\d{2}\b`),

	"social_proof": regexp.MustCompile(`(?i)\b(\d[\d,]*\+?\s+(customers|users|clients|companies|businesses)|trusted by|as seen in)\b`),

	"integration": regexp.MustCompile(`(?i)\b(integrat(es?|ion|ions)|works with|connects? (to|with)|API|webhook)\b`),

	"hours": regexp.MustCompile(`(?i)\b(monday|mon|tuesday|tue|wednesday|wed|thursday|thu|friday|fri|saturday|sat|sunday|sun)\b.{0,20}\b\d{1,2}(:\d{2})?\s*(am|pm)?\b`),

	"refund_policy": regexp.MustCompile(`(?i)\b(refund|money[- ]back|cancel(lation)?)\s+(policy|guarantee|within|window)?\b`),

	"cancellation_policy": regexp.MustCompile(`(?i)\bcancel(lation)?\s+(anytime|at any time|policy)\b`),

	"cta": regexp.MustCompile(`(?i)\b(sign up|get started|start (your\s+)?(free\s+)?trial|try (it\s+)?free|book a demo|request a demo)\b`),

	"certification": regexp.MustCompile(`(?i)\b(certified|certification|ISO\s?\d{4,5}|SOC\s?2|compliant)\b`),

	"award": regexp.MustCompile(`(?i)\b(award(ed|s)?|winner|recognized by|ranked (#?1|top))\b`),

	"partner": regexp.MustCompile(`(?i)\b(partner(ed|ship)?s?\s+with|official partner|certified partner)\b`),

	"last_updated": regexp.MustCompile(`(?i)\b(last updated|updated on|as of)\b.{0,20}\b(19|20)\d{2}\b`),
}

// percentagePattern is checked against phone matches so "30%" or "50% off"
// don't count as a phone number hit.
var percentagePattern = regexp.MustCompile(`%`)

package robots

// BotClass distinguishes the two bot populations the Technical pillar
// scores separately: general-purpose search crawlers, whose blockage
// hides a site from search results, and AI-specific crawlers, whose
// blockage only hides it from AI assistants and answer engines.
type BotClass int

const (
	ClassSearch BotClass = iota
	ClassAI
)

// knownBot is one crawler identity with its robots.txt token and the
// weight it contributes to its class's aggregate accessibility score.
type knownBot struct {
	name   string
	token  string
	class  BotClass
	weight float64
}

// knownBots is the fixed roster scored by score (result.go). Search weights
// favor Googlebot since it drives the largest share of organic traffic;
// AI weights favor GPTBot and ClaudeBot as the most commonly referenced
// assistant crawlers at time of writing. Weights within a class sum to 1.
var knownBots = []knownBot{
	{name: "Googlebot", token: "Googlebot", class: ClassSearch, weight: 0.5},
	{name: "Bingbot", token: "Bingbot", class: ClassSearch, weight: 0.3},
	{name: "Applebot", token: "Applebot", class: ClassSearch, weight: 0.2},

	{name: "GPTBot", token: "GPTBot", class: ClassAI, weight: 0.3},
	{name: "ChatGPT-User", token: "ChatGPT-User", class: ClassAI, weight: 0.1},
	{name: "ClaudeBot", token: "ClaudeBot", class: ClassAI, weight: 0.25},
	{name: "Claude-Web", token: "Claude-Web", class: ClassAI, weight: 0.05},
	{name: "PerplexityBot", token: "PerplexityBot", class: ClassAI, weight: 0.15},
	{name: "Google-Extended", token: "Google-Extended", class: ClassAI, weight: 0.1},
	{name: "CCBot", token: "CCBot", class: ClassAI, weight: 0.05},
}

// searchPillarWeight, aiPillarWeight combine to the Result.Combined formula's
// 0.6 search / 0.4 AI split (spec.md §4.2).
const (
	searchPillarWeight = 0.6
	aiPillarWeight     = 0.4
)

package pillar

import (
	"regexp"
	"strings"

	"github.com/findablescore/auditor/pkg/audit"
)

// sentenceSplitPattern mirrors internal/chunk/page_text.go's
// sentenceSplitPattern, duplicated here rather than exported from chunk
// since the two packages split sentences for unrelated purposes (token
// budgeting there, readability scoring here) and shouldn't share a
// cross-package dependency over one regex.
var sentenceSplitPattern = regexp.MustCompile(`(?:[.!?])\s+`)

const (
	answerBlockMinWords = 40
	answerBlockMaxWords = 80
	readableMaxSentencesPerParagraph = 4
	readableMaxWordsPerSentence      = 20
	targetLinksPerPageLow            = 5
	targetLinksPerPageHigh           = 10
)

// Structure scores heading hierarchy, answer-first ratio, AI answer block
// presence, readability, FAQ presence, internal link density, and
// extractable formats, per §4.9.
func Structure(runID string, pages []audit.Page) audit.PillarScore {
	if len(pages) == 0 {
		return build(runID, audit.PillarStructure, nil, nil)
	}

	components := []audit.ComponentScore{
		{Name: "heading_hierarchy", Raw: avgOverPages(pages, headingHierarchyScore), Weight: 20},
		{Name: "answer_first", Raw: avgOverPages(pages, answerFirstScore), Weight: 15},
		{Name: "ai_answer_block", Raw: avgOverPages(pages, aiAnswerBlockScore), Weight: 15},
		{Name: "readability", Raw: avgOverPages(pages, readabilityScore), Weight: 15},
		{Name: "faq_presence", Raw: avgOverPages(pages, faqPresenceScore), Weight: 15},
		{Name: "internal_link_density", Raw: avgOverPages(pages, linkDensityScore), Weight: 10},
		{Name: "extractable_formats", Raw: avgOverPages(pages, extractableFormatsScore), Weight: 10},
	}

	var issues []audit.Issue
	for _, p := range pages {
		if headingHierarchyScore(p) < 50 {
			issues = append(issues, audit.Issue{
				Code:    "heading_hierarchy_invalid",
				Level:   audit.LevelLimited,
				Message: "Page " + p.URL + " skips heading levels or has no H1.",
			})
		}
	}

	return build(runID, audit.PillarStructure, components, issues)
}

func avgOverPages(pages []audit.Page, score func(audit.Page) float64) float64 {
	if len(pages) == 0 {
		return 0
	}
	var sum float64
	for _, p := range pages {
		sum += score(p)
	}
	return sum / float64(len(pages))
}

// headingHierarchyScore penalizes a missing H1 and any level skip (H2 then
// H4 with no H3 between).
func headingHierarchyScore(p audit.Page) float64 {
	if len(p.Headings) == 0 {
		return 0
	}
	hasH1 := false
	score := 100.0
	prevLevel := 0
	for _, h := range p.Headings {
		if h.Level == 1 {
			hasH1 = true
		}
		if prevLevel > 0 && h.Level > prevLevel+1 {
			score -= 20
		}
		prevLevel = h.Level
	}
	if !hasH1 {
		score -= 40
	}
	return clamp0to100(score)
}

// answerFirstScore rewards a page whose first substantial paragraph
// directly follows its H1, matching the spec's "answer-first ratio"
// without needing an LLM judgment of the text's actual quality: it's a
// structural proxy (first paragraph exists and isn't past the first 25% of
// the extracted text), not a test of whether the paragraph really answers
// anything.
func answerFirstScore(p audit.Page) float64 {
	text := strings.TrimSpace(p.ExtractedText)
	if text == "" || len(p.Headings) == 0 {
		return 0
	}
	firstParagraphEnd := strings.Index(text, "\n\n")
	if firstParagraphEnd < 0 {
		firstParagraphEnd = len(text)
	}
	ratio := float64(firstParagraphEnd) / float64(len(text))
	if ratio <= 0.25 {
		return 100
	}
	return linearDecay(ratio, 0.25, 1.0)
}

// aiAnswerBlockScore looks for a 40-80 word first paragraph in the page's
// extracted text. It does not locate the H1: only the first paragraph is
// checked, wherever the page's headings fall.
func aiAnswerBlockScore(p audit.Page) float64 {
	text := strings.TrimSpace(p.ExtractedText)
	if text == "" {
		return 0
	}
	paragraphs := strings.Split(text, "\n\n")
	if len(paragraphs) == 0 {
		return 0
	}
	words := len(strings.Fields(paragraphs[0]))
	if words >= answerBlockMinWords && words <= answerBlockMaxWords {
		return 100
	}
	return 0
}

// readabilityScore checks paragraph length (<=4 sentences) and sentence
// length (<=20 words) across the page, following
// internal/chunk/page_text.go's sentenceSplitPattern-based splitting
// generalized from token budgeting to a readability ratio.
func readabilityScore(p audit.Page) float64 {
	text := strings.TrimSpace(p.ExtractedText)
	if text == "" {
		return 0
	}
	paragraphs := strings.Split(text, "\n\n")
	var compliant, total int
	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		total++
		sentences := sentenceSplitPattern.Split(para, -1)
		if len(sentences) > readableMaxSentencesPerParagraph {
			continue
		}
		longSentence := false
		for _, s := range sentences {
			if len(strings.Fields(s)) > readableMaxWordsPerSentence {
				longSentence = true
				break
			}
		}
		if !longSentence {
			compliant++
		}
	}
	if total == 0 {
		return 0
	}
	return 100 * float64(compliant) / float64(total)
}

func faqPresenceScore(p audit.Page) float64 {
	for _, s := range p.Schema {
		if s.Type == "FAQPage" && s.Valid {
			return 100
		}
	}
	lower := strings.ToLower(p.ExtractedText)
	if strings.Contains(lower, "frequently asked question") || strings.Contains(lower, "faq") {
		return 50
	}
	return 0
}

func linkDensityScore(p audit.Page) float64 {
	n := len(p.Links.Internal)
	switch {
	case n >= targetLinksPerPageLow && n <= targetLinksPerPageHigh:
		return 100
	case n < targetLinksPerPageLow:
		return 100 * float64(n) / float64(targetLinksPerPageLow)
	default:
		over := float64(n - targetLinksPerPageHigh)
		return clamp0to100(100 - over*5)
	}
}

// extractableFormatsScore rewards pages whose extracted text shows table
// markup ("|---" or "<table") or list lines ("- " or "1. " at a line
// start), detected directly in Page.ExtractedText.
func extractableFormatsScore(p audit.Page) float64 {
	lower := strings.ToLower(p.ExtractedText)
	hasTable := strings.Contains(lower, "|---") || strings.Contains(lower, "<table")
	hasList := strings.Contains(lower, "\n- ") || strings.Contains(lower, "\n1. ")
	switch {
	case hasTable && hasList:
		return 100
	case hasTable || hasList:
		return 60
	default:
		return 0
	}
}

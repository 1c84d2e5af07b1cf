package fix

import "github.com/findablescore/auditor/pkg/audit"

// reasonTemplate is one enumerated reason_code's fixed content: a title,
// an explanation, a text/template scaffold with [PLACEHOLDER] tokens the
// operator fills in, a default priority/effort/impact, and the pillar it
// affects.
type reasonTemplate struct {
	title       string
	explanation string
	scaffold    string
	priority    int
	effort      string
	impact      float64
	pillar      audit.Pillar
}

// reasonTemplates maps every reason_code this generator knows about to its
// fixed content. Pillar issue codes (internal/pillar's Issue.Code values)
// and question-level codes (chosen from a failed/partial question's
// answerability) share this one table.
var reasonTemplates = map[string]reasonTemplate{
	"empty_shell": {
		title:       "Render primary content without requiring JavaScript",
		explanation: "This page's main text is under 100 characters until client-side JavaScript runs, which most AI crawlers and answer engines never execute.",
		scaffold:    "Server-render (or statically pre-render) the primary content of {{.PageURL}} so at least [WORD_COUNT] words of real text are present in the initial HTML response.",
		priority:    1,
		effort:      "high",
		impact:      8,
		pillar:      audit.PillarTechnical,
	},
	"heading_hierarchy_invalid": {
		title:       "Fix heading hierarchy",
		explanation: "This page is missing an H1 or skips heading levels, making its structure harder for an AI system to outline.",
		scaffold:    "Ensure {{.PageURL}} has exactly one H1 (\"[PAGE_TITLE]\") followed by H2s for each major section, without skipping to H3+ before an H2 exists.",
		priority:    3,
		effort:      "low",
		impact:      3,
		pillar:      audit.PillarStructure,
	},
	"schema_invalid": {
		title:       "Fix invalid structured data",
		explanation: "This page's structured data has validation errors, so search and AI systems may ignore it entirely.",
		scaffold:    "Validate the structured data on {{.PageURL}} against schema.org and fix: [VALIDATION_ERRORS].",
		priority:    2,
		effort:      "medium",
		impact:      5,
		pillar:      audit.PillarSchema,
	},
	"question_unanswered": {
		title:       "Add content that answers: \"{{.QuestionText}}\"",
		explanation: "No retrieved content on this site adequately answers this question, so an AI system asked it would have nothing to cite.",
		scaffold:    "Add a section (FAQ entry, dedicated page, or paragraph) that directly answers \"{{.QuestionText}}\" with [EXPECTED_SIGNALS] clearly stated.",
		priority:    2,
		effort:      "medium",
		impact:      6,
		pillar:      audit.PillarCoverage,
	},
	"question_partially_answered": {
		title:       "Strengthen the answer to: \"{{.QuestionText}}\"",
		explanation: "Content addressing this question exists but is incomplete or only loosely retrievable.",
		scaffold:    "Expand the existing content on {{.PageURL}} to more directly and completely answer \"{{.QuestionText}}\".",
		priority:    3,
		effort:      "low",
		impact:      3,
		pillar:      audit.PillarCoverage,
	},
}

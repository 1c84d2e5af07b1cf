package question

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/findablescore/auditor/pkg/audit"
)

// maxDerivedQuestions caps the derived set at 5, per the suite composition.
const maxDerivedQuestions = 5

// deriveTemplate is a fixed probe shape instantiated against a Site's
// metadata. Questions built from a template that a Site's metadata can't
// satisfy (e.g. no competitors listed) are skipped rather than emitted with
// empty text.
type deriveTemplate struct {
	category        string
	difficulty      float64
	weight          float64
	expectedSignals []string
	applicable      func(audit.Site) bool
	text            func(audit.Site) string
}

var deriveTemplates = []deriveTemplate{
	{
		category:        "differentiation",
		difficulty:      0.7,
		weight:          1.0,
		expectedSignals: []string{"comparison", "value_proposition"},
		applicable:      func(s audit.Site) bool { return len(s.Competitors) > 0 },
		text: func(s audit.Site) string {
			return fmt.Sprintf("How does %s compare to %s?", s.Domain, s.Competitors[0])
		},
	},
	{
		category:        "offering",
		difficulty:      0.4,
		weight:          0.9,
		expectedSignals: []string{"product_name", "feature_list"},
		applicable:      func(s audit.Site) bool { return s.BusinessModel != "" },
		text: func(s audit.Site) string {
			return fmt.Sprintf("What %s does %s offer?", s.BusinessModel, s.Domain)
		},
	},
	{
		category:        "pricing",
		difficulty:      0.5,
		weight:          1.0,
		expectedSignals: []string{"price", "plan_name"},
		applicable:      func(s audit.Site) bool { return s.BusinessModel != "" },
		text: func(s audit.Site) string {
			return fmt.Sprintf("What does %s's %s cost?", s.Domain, s.BusinessModel)
		},
	},
	{
		category:        "differentiation",
		difficulty:      0.8,
		weight:          0.8,
		expectedSignals: []string{"comparison", "feature_list"},
		applicable:      func(s audit.Site) bool { return len(s.Competitors) > 1 },
		text: func(s audit.Site) string {
			return fmt.Sprintf("Why choose %s over %s or %s?", s.Domain, s.Competitors[0], s.Competitors[1])
		},
	},
	{
		category:        "authority",
		difficulty:      0.6,
		weight:          0.7,
		expectedSignals: []string{"review", "rating", "partner"},
		applicable:      func(s audit.Site) bool { return s.Domain != "" },
		text: func(s audit.Site) string {
			return fmt.Sprintf("Is %s a trustworthy, well-established business?", s.Domain)
		},
	},
}

// DeriveQuestions builds up to maxDerivedQuestions questions from a Site's
// metadata. It is a pure function of Domain, BusinessModel, and Competitors:
// the same Site always derives the same questions in the same order, per the
// spec's "derived fresh per run from site metadata; stable given same
// metadata" contract. Question IDs are a sha256 of the template's position
// and the site's metadata, following internal/chunk/page_text.go's
// content-hash-as-identity pattern, so the same Site/template pair always
// yields the same QuestionID across runs.
func DeriveQuestions(site audit.Site) []audit.Question {
	questions := make([]audit.Question, 0, maxDerivedQuestions)

	for i, tmpl := range deriveTemplates {
		if len(questions) >= maxDerivedQuestions {
			break
		}
		if !tmpl.applicable(site) {
			continue
		}

		text := tmpl.text(site)
		questions = append(questions, audit.Question{
			QuestionID:      derivedQuestionID(i, site),
			Source:          audit.QuestionDerived,
			Text:            text,
			Category:        tmpl.category,
			Difficulty:      tmpl.difficulty,
			Weight:          tmpl.weight,
			ExpectedSignals: append([]string{}, tmpl.expectedSignals...),
		})
	}

	return questions
}

func derivedQuestionID(templateIndex int, site audit.Site) string {
	h := sha256.New()
	fmt.Fprintf(h, "derived:%d:%s:%s", templateIndex, site.Domain, site.BusinessModel)
	for _, c := range site.Competitors {
		fmt.Fprintf(h, ":%s", c)
	}
	return "derived-" + hex.EncodeToString(h.Sum(nil))[:12]
}

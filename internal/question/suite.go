package question

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/findablescore/auditor/pkg/audit"
)

// maxCustomQuestions caps user-supplied questions at 5, per the suite
// composition.
const maxCustomQuestions = 5

// customQuestionDifficulty and customQuestionWeight are neutral defaults: a
// caller-supplied question carries no difficulty or weight signal of its
// own, so it's scored like a middling universal question rather than
// dominating or being drowned out by the fixed set.
const (
	customQuestionDifficulty = 0.5
	customQuestionWeight     = 1.0
)

// BuildSuite assembles the full Question Suite for a Run: the 15 fixed
// universal questions, up to 5 derived from site metadata, and up to 5
// caller-supplied custom questions. Blank or duplicate custom questions are
// dropped rather than erroring, since a malformed custom question shouldn't
// fail the whole Run.
func BuildSuite(site audit.Site, customQuestions []string) []audit.Question {
	suite := make([]audit.Question, 0, len(UniversalQuestions)+maxDerivedQuestions+maxCustomQuestions)
	suite = append(suite, UniversalQuestions...)
	suite = append(suite, DeriveQuestions(site)...)
	suite = append(suite, buildCustomQuestions(customQuestions)...)
	return suite
}

func buildCustomQuestions(raw []string) []audit.Question {
	questions := make([]audit.Question, 0, maxCustomQuestions)
	seen := make(map[string]struct{})

	for _, text := range raw {
		if len(questions) >= maxCustomQuestions {
			break
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		key := strings.ToLower(text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		questions = append(questions, audit.Question{
			QuestionID:      customQuestionID(text),
			Source:          audit.QuestionCustom,
			Text:            text,
			Category:        "custom",
			Difficulty:      customQuestionDifficulty,
			Weight:          customQuestionWeight,
			ExpectedSignals: nil,
		})
	}

	return questions
}

func customQuestionID(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "custom-" + hex.EncodeToString(sum[:])[:12]
}

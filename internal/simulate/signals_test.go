package simulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateSignal_EmailPattern(t *testing.T) {
	eval := evaluateSignal("email", "Reach us at support@example.com any time.")
	assert.True(t, eval.Found)
	assert.Contains(t, eval.Evidence, "@example.com")
}

func TestEvaluateSignal_PhonePattern_ExcludesPercentages(t *testing.T) {
	eval := evaluateSignal("phone", "Save 30% off your first order.")
	assert.False(t, eval.Found)
}

func TestEvaluateSignal_PhonePattern_MatchesDigitSequence(t *testing.T) {
	eval := evaluateSignal("phone", "Call us at 415-555-0199 for help.")
	assert.True(t, eval.Found)
}

func TestEvaluateSignal_PricingPattern(t *testing.T) {
	eval := evaluateSignal("pricing", "Our Pro plan is $49 per month.")
	assert.True(t, eval.Found)
}

func TestEvaluateSignal_UnknownNameFallsBackToFuzzyMatch(t *testing.T) {
	eval := evaluateSignal("value_proposition", "Our value proposition is simplicity and speed.")
	assert.True(t, eval.Found)
}

func TestEvaluateSignal_FuzzyMatch_BelowThresholdFails(t *testing.T) {
	eval := evaluateSignal("target_audience", "This page is about something else entirely.")
	assert.False(t, eval.Found)
}

func TestEvaluateSignal_FuzzyMatch_CountsThreeLetterWords(t *testing.T) {
	// "use_case" -> words ["use" is len 3, included; "case" is len 4,
	// included] both present in the text.
	eval := evaluateSignal("use_case", "A typical use case involves onboarding a new team.")
	assert.True(t, eval.Found)
}

func TestSignificantWords_DropsShortTokens(t *testing.T) {
	words := significantWords("a_use_of_ai")
	assert.Equal(t, []string{"use"}, words)
}

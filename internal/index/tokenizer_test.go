package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize_LowercasesAndFiltersShortTokens(t *testing.T) {
	tokens := Tokenize("The Quick Fox is ok", nil)
	assert.Equal(t, []string{"the", "quick", "fox"}, tokens)
}

func TestTokenize_SplitsCamelCaseAndSnakeCase(t *testing.T) {
	tokens := Tokenize("FindableScore api_key", nil)
	assert.Equal(t, []string{"findable", "score", "api", "key"}, tokens)
}

func TestTokenize_AppliesStopWordsWhenProvided(t *testing.T) {
	stop := EnglishStopWords()
	tokens := Tokenize("the pricing page and the checkout flow", stop)
	assert.Equal(t, []string{"pricing", "page", "checkout", "flow"}, tokens)
}

func TestTokenize_NilStopWordsKeepsEverything(t *testing.T) {
	tokens := Tokenize("the dog ran", nil)
	assert.Equal(t, []string{"the", "dog", "ran"}, tokens)
}

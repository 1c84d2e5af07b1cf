package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findablescore/auditor/pkg/audit"
)

func fullSite() audit.Site {
	return audit.Site{
		SiteID:        "s1",
		Domain:        "example.com",
		BusinessModel: "SaaS subscription",
		Competitors:   []string{"rival.com", "other.com"},
	}
}

func TestDeriveQuestions_StableGivenSameMetadata(t *testing.T) {
	site := fullSite()
	a := DeriveQuestions(site)
	b := DeriveQuestions(site)
	assert.Equal(t, a, b)
}

func TestDeriveQuestions_CapsAtFive(t *testing.T) {
	questions := DeriveQuestions(fullSite())
	assert.LessOrEqual(t, len(questions), maxDerivedQuestions)
}

func TestDeriveQuestions_SkipsTemplatesMissingRequiredMetadata(t *testing.T) {
	site := audit.Site{Domain: "example.com"}
	questions := DeriveQuestions(site)

	for _, q := range questions {
		assert.NotContains(t, q.Text, "<nil>")
	}
	// no competitors and no business model: only the domain-only template applies
	require.Len(t, questions, 1)
	assert.Equal(t, audit.QuestionDerived, questions[0].Source)
}

func TestDeriveQuestions_DifferentMetadataYieldsDifferentIDs(t *testing.T) {
	a := DeriveQuestions(fullSite())

	other := fullSite()
	other.Domain = "different.com"
	b := DeriveQuestions(other)

	require.NotEmpty(t, a)
	require.NotEmpty(t, b)
	assert.NotEqual(t, a[0].QuestionID, b[0].QuestionID)
}

func TestDeriveQuestions_EmptySiteYieldsNoQuestions(t *testing.T) {
	questions := DeriveQuestions(audit.Site{})
	assert.Empty(t, questions)
}

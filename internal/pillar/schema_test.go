package pillar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/findablescore/auditor/pkg/audit"
)

func TestSchema_FullCoverageScoresHundred(t *testing.T) {
	pages := []audit.Page{
		{
			URL:          "https://example.com/",
			Author:       "Jane Doe",
			DateModified: "2026-01-01T00:00:00Z",
			Schema: []audit.SchemaObject{
				{Type: "FAQPage", Valid: true},
				{Type: "Article", Valid: true},
				{Type: "Organization", Valid: true},
				{Type: "HowTo", Valid: true},
			},
		},
	}

	score := Schema("run-1", pages)
	assert.Equal(t, 100.0, score.Raw)
	assert.Empty(t, score.Issues)
}

func TestSchema_InvalidSchemaProducesIssue(t *testing.T) {
	pages := []audit.Page{
		{URL: "https://example.com/", Schema: []audit.SchemaObject{{Type: "Article", Valid: false}}},
	}
	score := Schema("run-1", pages)
	assert.NotEmpty(t, score.Issues)
	assert.Less(t, score.Raw, 100.0)
}

func TestSchema_NoPagesIsZeroRaw(t *testing.T) {
	score := Schema("run-1", nil)
	assert.Equal(t, 0.0, score.Raw)
}

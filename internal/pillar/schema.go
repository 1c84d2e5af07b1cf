package pillar

import "github.com/findablescore/auditor/pkg/audit"

// Schema scores structured-data coverage across a Run's pages: FAQPage,
// Article+author, dateModified, Organization, HowTo presence, and overall
// schema validation, per §4.9.
func Schema(runID string, pages []audit.Page) audit.PillarScore {
	if len(pages) == 0 {
		return build(runID, audit.PillarSchema, nil, nil)
	}

	components := []audit.ComponentScore{
		{Name: "faq_page", Raw: schemaTypePresent(pages, "FAQPage"), Weight: 27},
		{Name: "article_with_author", Raw: articleWithAuthorScore(pages), Weight: 20},
		{Name: "date_modified", Raw: dateModifiedScore(pages), Weight: 20},
		{Name: "organization", Raw: schemaTypePresent(pages, "Organization"), Weight: 13},
		{Name: "how_to", Raw: schemaTypePresent(pages, "HowTo"), Weight: 13},
		{Name: "validation", Raw: schemaValidationScore(pages), Weight: 7},
	}

	var issues []audit.Issue
	for _, p := range pages {
		for _, s := range p.Schema {
			if !s.Valid {
				issues = append(issues, audit.Issue{
					Code:    "schema_invalid",
					Level:   audit.LevelPartial,
					Message: "Page " + p.URL + " has invalid " + s.Type + " structured data.",
				})
			}
		}
	}

	return build(runID, audit.PillarSchema, components, issues)
}

func schemaTypePresent(pages []audit.Page, schemaType string) float64 {
	for _, p := range pages {
		for _, s := range p.Schema {
			if s.Type == schemaType && s.Valid {
				return 100
			}
		}
	}
	return 0
}

func articleWithAuthorScore(pages []audit.Page) float64 {
	for _, p := range pages {
		for _, s := range p.Schema {
			if s.Type == "Article" && s.Valid && p.Author != "" {
				return 100
			}
		}
	}
	return 0
}

func dateModifiedScore(pages []audit.Page) float64 {
	if len(pages) == 0 {
		return 0
	}
	withDate := 0
	for _, p := range pages {
		if p.DateModified != "" {
			withDate++
		}
	}
	return 100 * float64(withDate) / float64(len(pages))
}

func schemaValidationScore(pages []audit.Page) float64 {
	total, valid := 0, 0
	for _, p := range pages {
		for _, s := range p.Schema {
			total++
			if s.Valid {
				valid++
			}
		}
	}
	if total == 0 {
		return 100
	}
	return 100 * float64(valid) / float64(total)
}

// Package question builds the Question Suite a Run simulates against: 15
// fixed universal questions, up to 5 deterministically derived from site
// metadata, and up to 5 user-supplied custom questions.
package question

import "github.com/findablescore/auditor/pkg/audit"

// UniversalQuestions are the 15 fixed probes every Run simulates, independent
// of site metadata. Content is authored directly: there is no reference
// implementation to port this set from, so categories and expected signal
// families were chosen to span the kinds of things a visitor (or an LLM
// answering on a visitor's behalf) needs a site to make findable — what the
// business does, what it costs, how to reach it, where it operates, and what
// sets it apart.
var UniversalQuestions = []audit.Question{
	{
		QuestionID:      "universal-001",
		Source:          audit.QuestionUniversal,
		Text:            "What does this company do?",
		Category:        "offering",
		Difficulty:      0.2,
		Weight:          1.0,
		ExpectedSignals: []string{"product_name", "value_proposition", "industry"},
	},
	{
		QuestionID:      "universal-002",
		Source:          audit.QuestionUniversal,
		Text:            "What products or services does this company sell?",
		Category:        "offering",
		Difficulty:      0.3,
		Weight:          1.0,
		ExpectedSignals: []string{"product_name", "feature_list", "service_area"},
	},
	{
		QuestionID:      "universal-003",
		Source:          audit.QuestionUniversal,
		Text:            "How much does it cost?",
		Category:        "pricing",
		Difficulty:      0.4,
		Weight:          1.2,
		ExpectedSignals: []string{"price", "plan_name", "billing_period"},
	},
	{
		QuestionID:      "universal-004",
		Source:          audit.QuestionUniversal,
		Text:            "Is there a free trial or free plan?",
		Category:        "pricing",
		Difficulty:      0.4,
		Weight:          0.9,
		ExpectedSignals: []string{"price", "plan_name"},
	},
	{
		QuestionID:      "universal-005",
		Source:          audit.QuestionUniversal,
		Text:            "How do I contact support?",
		Category:        "support",
		Difficulty:      0.3,
		Weight:          1.1,
		ExpectedSignals: []string{"email", "phone", "contact_form"},
	},
	{
		QuestionID:      "universal-006",
		Source:          audit.QuestionUniversal,
		Text:            "What is the phone number or email address for this business?",
		Category:        "support",
		Difficulty:      0.3,
		Weight:          1.0,
		ExpectedSignals: []string{"email", "phone", "address"},
	},
	{
		QuestionID:      "universal-007",
		Source:          audit.QuestionUniversal,
		Text:            "Where is this company located, and where does it operate?",
		Category:        "location",
		Difficulty:      0.4,
		Weight:          0.9,
		ExpectedSignals: []string{"address", "service_area", "region"},
	},
	{
		QuestionID:      "universal-008",
		Source:          audit.QuestionUniversal,
		Text:            "What are the business hours?",
		Category:        "location",
		Difficulty:      0.5,
		Weight:          0.6,
		ExpectedSignals: []string{"hours", "timezone"},
	},
	{
		QuestionID:      "universal-009",
		Source:          audit.QuestionUniversal,
		Text:            "What makes this company different from competitors?",
		Category:        "differentiation",
		Difficulty:      0.7,
		Weight:          1.0,
		ExpectedSignals: []string{"value_proposition", "feature_list", "comparison"},
	},
	{
		QuestionID:      "universal-010",
		Source:          audit.QuestionUniversal,
		Text:            "What do customers say about this company?",
		Category:        "authority",
		Difficulty:      0.6,
		Weight:          0.9,
		ExpectedSignals: []string{"review", "testimonial", "rating"},
	},
	{
		QuestionID:      "universal-011",
		Source:          audit.QuestionUniversal,
		Text:            "Who is this product or service built for?",
		Category:        "offering",
		Difficulty:      0.5,
		Weight:          0.8,
		ExpectedSignals: []string{"target_audience", "use_case"},
	},
	{
		QuestionID:      "universal-012",
		Source:          audit.QuestionUniversal,
		Text:            "How do I get started or sign up?",
		Category:        "conversion",
		Difficulty:      0.3,
		Weight:          1.0,
		ExpectedSignals: []string{"cta", "signup_flow"},
	},
	{
		QuestionID:      "universal-013",
		Source:          audit.QuestionUniversal,
		Text:            "Does this company have any certifications, awards, or partnerships?",
		Category:        "authority",
		Difficulty:      0.7,
		Weight:          0.7,
		ExpectedSignals: []string{"certification", "award", "partner"},
	},
	{
		QuestionID:      "universal-014",
		Source:          audit.QuestionUniversal,
		Text:            "What is the company's refund or cancellation policy?",
		Category:        "policy",
		Difficulty:      0.6,
		Weight:          0.7,
		ExpectedSignals: []string{"refund_policy", "cancellation_policy"},
	},
	{
		QuestionID:      "universal-015",
		Source:          audit.QuestionUniversal,
		Text:            "Is this company's information current and are its pages easy to navigate?",
		Category:        "structure",
		Difficulty:      0.5,
		Weight:          0.8,
		ExpectedSignals: []string{"last_updated", "navigation", "sitemap"},
	},
}

package simulate

import "strings"

// minFuzzyWordLength is the spec's per-word floor for a fuzzy match: a
// matched word shorter than this doesn't count toward matched_words.
const minFuzzyWordLength = 3

// fuzzyMatchThreshold is the spec's matched/total ratio cutoff.
const fuzzyMatchThreshold = 0.6

// signalEvaluation is one expected signal's verdict against a block of
// retrieved text.
type signalEvaluation struct {
	Name     string
	Found    bool
	Evidence string
}

// evaluateSignal checks one expected signal name against retrieved text. If
// a regex family is registered for the name, a single match anywhere in the
// text is sufficient (phone additionally rejects matches with fewer than 7
// digits or that are actually percentages). Otherwise the signal name itself is treated as a phrase and
// matched fuzzily: found = (matched_words / total_words) >= 0.6, counting
// only words of length >= 3, following internal/search/patterns.go's
// word-based classification style generalized from single-pattern
// classification to a ratio-based phrase match.
func evaluateSignal(name, text string) signalEvaluation {
	if pattern, ok := signalPatterns[name]; ok {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			match := text[loc[0]:loc[1]]
			if name == "phone" {
				digits := 0
				for _, r := range match {
					if r >= '0' && r <= '9' {
						digits++
					}
				}
				if digits < 7 || percentagePattern.MatchString(match) {
					continue
				}
			}
			return signalEvaluation{Name: name, Found: true, Evidence: match}
		}
		return signalEvaluation{Name: name, Found: false}
	}

	return fuzzyMatchSignal(name, text)
}

func fuzzyMatchSignal(name, text string) signalEvaluation {
	words := significantWords(name)
	if len(words) == 0 {
		return signalEvaluation{Name: name, Found: false}
	}

	lowerText := strings.ToLower(text)
	matched := 0
	firstMatchIdx := -1
	for _, w := range words {
		idx := strings.Index(lowerText, w)
		if idx >= 0 {
			matched++
			if firstMatchIdx == -1 || idx < firstMatchIdx {
				firstMatchIdx = idx
			}
		}
	}

	ratio := float64(matched) / float64(len(words))
	if ratio < fuzzyMatchThreshold {
		return signalEvaluation{Name: name, Found: false}
	}

	evidence := ""
	if firstMatchIdx >= 0 {
		end := firstMatchIdx + 40
		if end > len(text) {
			end = len(text)
		}
		evidence = text[firstMatchIdx:end]
	}

	return signalEvaluation{Name: name, Found: true, Evidence: evidence}
}

// significantWords splits a signal name (e.g. "value_proposition") into its
// component words, dropping any shorter than minFuzzyWordLength.
func significantWords(name string) []string {
	raw := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})

	words := make([]string, 0, len(raw))
	for _, w := range raw {
		if len(w) >= minFuzzyWordLength {
			words = append(words, w)
		}
	}
	return words
}

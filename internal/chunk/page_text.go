package chunk

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// pageTokensPerChar mirrors the teacher's TokensPerChar approximation
// (len(content)/4) for paragraph- and sentence-level budgeting. Word-level
// splitting (the finest granularity) counts words directly instead, since
// at that point a word is close enough to a token that the extra
// char-counting indirection isn't worth it.
const pageTokensPerChar = 4

func estimateTokenCount(s string) int {
	n := len(s) / pageTokensPerChar
	if n == 0 && s != "" {
		n = 1
	}
	return n
}

var sentenceSplitPattern = regexp.MustCompile(`(?:[.!?])\s+`)

// splitText recursively packs text into chunks bounded by [*, maxTokens],
// splitting paragraph -> sentence -> word only when a unit at the current
// granularity alone exceeds maxTokens, and carrying overlapTokens words of
// trailing context from one chunk into the next. This generalizes
// markdown_chunker.go's splitLargeSection/chunkByParagraphs from Markdown
// blank-line paragraphs to plain extracted-text paragraphs.
func splitText(text string, maxTokens, overlapTokens int) []string {
	paragraphs := strings.Split(text, "\n\n")
	return packUnits(paragraphs, maxTokens, overlapTokens, func(p string) []string {
		return chunkSentences(p, maxTokens, overlapTokens)
	})
}

func chunkSentences(text string, maxTokens, overlapTokens int) []string {
	sentences := sentenceSplitPattern.Split(text, -1)
	return packUnits(sentences, maxTokens, overlapTokens, func(s string) []string {
		return chunkWords(s, maxTokens, overlapTokens)
	})
}

// chunkWords is the base case: word budget stands in for a token budget,
// since recursion only reaches here for a single run-on sentence or
// paragraph with no cheaper split point.
func chunkWords(text string, maxTokens, overlapTokens int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if maxTokens <= 0 {
		maxTokens = 1
	}

	var chunks []string
	start := 0
	for start < len(words) {
		end := start + maxTokens
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
		next := end - overlapTokens
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// packUnits greedily accumulates units (paragraphs or sentences) up to
// maxTokens, splitting any single oversized unit via splitOversized and
// carrying the trailing overlapTokens words of each flushed chunk into
// the next so retrieval never loses context at a chunk boundary.
func packUnits(units []string, maxTokens, overlapTokens int, splitOversized func(string) []string) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		chunks = append(chunks, strings.TrimSpace(current.String()))
		current.Reset()
	}

	for _, u := range units {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}

		if estimateTokenCount(u) > maxTokens {
			flush()
			chunks = append(chunks, splitOversized(u)...)
			continue
		}

		if current.Len() > 0 && estimateTokenCount(current.String())+estimateTokenCount(u) > maxTokens {
			prev := current.String()
			flush()
			if overlap := lastWords(prev, overlapTokens); overlap != "" {
				current.WriteString(overlap)
				current.WriteString(" ")
			}
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(u)
	}
	flush()

	return chunks
}

func lastWords(text string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(text)
	if n > len(words) {
		n = len(words)
	}
	if n == 0 {
		return ""
	}
	return strings.Join(words[len(words)-n:], " ")
}

// mergeUndersizedTail merges a final chunk that fell short of minTokens
// into its predecessor when doing so still fits within maxTokens, rather
// than leaving a near-empty trailing chunk from a section's last
// sentence or two.
func mergeUndersizedTail(chunks []string, minTokens, maxTokens int) []string {
	if len(chunks) < 2 {
		return chunks
	}
	last := chunks[len(chunks)-1]
	if estimateTokenCount(last) >= minTokens {
		return chunks
	}
	merged := chunks[len(chunks)-2] + " " + last
	if estimateTokenCount(merged) > maxTokens {
		return chunks
	}
	out := append([]string{}, chunks[:len(chunks)-2]...)
	return append(out, merged)
}

func chunkContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

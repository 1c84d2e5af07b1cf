package extract

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// chromeElementNames are elements stripped outright before content
// scoring: they are never part of the main content regardless of text
// density.
var chromeElementNames = map[string]bool{
	"nav": true, "header": true, "footer": true, "aside": true,
	"script": true, "style": true, "noscript": true,
}

// chromeAttributeKeywords flag class/id names that mark an element as
// site chrome rather than content.
var chromeAttributeKeywords = []string{
	"nav", "sidebar", "menu", "breadcrumb", "search", "footer", "header",
	"cookie", "consent", "promo", "banner", "social-share",
}

const linkDensityThreshold = 0.5

// mainContentNode finds the element most likely to hold a page's primary
// content, trying semantic containers first and falling back to a
// text-density score over the remaining candidates once chrome is
// stripped from a cloned tree.
func mainContentNode(doc *goquery.Document) *goquery.Selection {
	for _, sel := range []string{"main", "article", "[role='main']"} {
		if node := doc.Find(sel).First(); node.Length() > 0 && isMeaningful(node.Nodes[0]) {
			return node
		}
	}

	cleaned := cloneNode(doc.Selection.Nodes[0])
	removeChrome(cleaned)

	best := bestCandidate(cleaned)
	if best == nil {
		return doc.Find("body")
	}
	return goquery.NewDocumentFromNode(best).Selection
}

func cloneNode(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	clone := &html.Node{Type: n.Type, DataAtom: n.DataAtom, Data: n.Data, Namespace: n.Namespace}
	if len(n.Attr) > 0 {
		clone.Attr = append([]html.Attribute(nil), n.Attr...)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if cc := cloneNode(c); cc != nil {
			clone.AppendChild(cc)
		}
	}
	return clone
}

func removeChrome(root *html.Node) {
	var toRemove []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n == nil {
			return
		}
		if n.Type == html.ElementNode && (chromeElementNames[n.Data] || hasChromeAttribute(n)) {
			toRemove = append(toRemove, n)
			return // don't recurse into removed subtrees
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	for _, n := range toRemove {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

func hasChromeAttribute(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key != "class" && a.Key != "id" {
			continue
		}
		lower := strings.ToLower(a.Val)
		for _, kw := range chromeAttributeKeywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
	}
	return false
}

// bestCandidate scores every div/section/body node by text density and
// returns the highest scorer, preferring a sufficiently-close child over
// <body> itself so the whole document isn't selected by default.
func bestCandidate(root *html.Node) *html.Node {
	var candidates []*html.Node
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n == nil {
			return
		}
		if n.Type == html.ElementNode && (n.Data == "div" || n.Data == "section" || n.Data == "body") {
			candidates = append(candidates, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(root)

	var bodyNode, best *html.Node
	var bodyScore, bestScore float64
	for _, c := range candidates {
		score := contentScore(c)
		if c.Data == "body" {
			bodyNode, bodyScore = c, score
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}

	if best == bodyNode && bodyNode != nil {
		for _, c := range candidates {
			if c == bodyNode {
				continue
			}
			if s := contentScore(c); s >= 0.5*bodyScore && s > bestScore*0.9 {
				return c
			}
		}
	}
	return best
}

type contentStats struct {
	nonWhitespace, paragraphs, headings, codeBlocks, listItems, textLength, linkTextLen int
}

func walkStats(n *html.Node, s *contentStats) {
	if n == nil {
		return
	}
	switch n.Type {
	case html.TextNode:
		s.textLength += len(n.Data)
		for _, r := range n.Data {
			if !unicode.IsSpace(r) {
				s.nonWhitespace++
			}
		}
	case html.ElementNode:
		switch n.Data {
		case "p":
			s.paragraphs++
		case "h1", "h2", "h3":
			s.headings++
		case "pre", "code":
			s.codeBlocks++
		case "li":
			s.listItems++
		case "a":
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					s.linkTextLen += len(strings.TrimSpace(c.Data))
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkStats(c, s)
	}
}

func contentScore(node *html.Node) float64 {
	var s contentStats
	walkStats(node, &s)

	score := float64(s.nonWhitespace)/50.0 +
		float64(s.paragraphs)*5.0 +
		float64(s.headings)*10.0 +
		float64(s.codeBlocks)*15.0 +
		float64(s.listItems)*2.0

	if s.textLength > 0 {
		density := float64(s.linkTextLen) / float64(s.textLength)
		if density > linkDensityThreshold {
			score -= (density - linkDensityThreshold) * score
		}
	}
	return score
}

// isMeaningful rejects nodes that are mostly navigation: too little text,
// or text that's mostly link anchors.
func isMeaningful(node *html.Node) bool {
	var s contentStats
	walkStats(node, &s)

	if s.nonWhitespace < 50 {
		return false
	}
	if s.textLength > 0 && float64(s.linkTextLen)/float64(s.textLength) > 0.8 {
		return false
	}
	return s.paragraphs > 0 || s.codeBlocks > 0 || s.headings > 0
}

// visibleText concatenates text nodes under sel, skipping script/style.
func visibleText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Each(func(_ int, s *goquery.Selection) {
		var walk func(*html.Node)
		walk = func(n *html.Node) {
			if n == nil {
				return
			}
			if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript") {
				return
			}
			if n.Type == html.CommentNode {
				return
			}
			if n.Type == html.TextNode {
				text := strings.TrimSpace(n.Data)
				if text != "" {
					b.WriteString(text)
					b.WriteString(" ")
				}
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
		for _, n := range s.Nodes {
			walk(n)
		}
	})
	return strings.TrimSpace(b.String())
}

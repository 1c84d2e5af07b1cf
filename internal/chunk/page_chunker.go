package chunk

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/findablescore/auditor/internal/config"
	"github.com/findablescore/auditor/pkg/audit"
)

// PageChunkerOptions holds config.ChunkConfig's token targets after
// optionsFromConfig has filled in defaults for unset values.
type PageChunkerOptions struct {
	MinTokens     int
	MaxTokens     int
	OverlapTokens int
}

func optionsFromConfig(cfg config.ChunkConfig) PageChunkerOptions {
	opts := PageChunkerOptions{
		MinTokens:     cfg.MinTokens,
		MaxTokens:     cfg.MaxTokens,
		OverlapTokens: cfg.OverlapTokens,
	}
	if opts.MinTokens <= 0 {
		opts.MinTokens = 100
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 512
	}
	if opts.OverlapTokens < 0 {
		opts.OverlapTokens = 0
	}
	return opts
}

// PageChunker splits a page's main-content HTML into typed, ordered
// audit.Chunk records. It generalizes markdown_chunker.go's header-stack
// section splitting from Markdown "#" levels to HTML h1-h6 elements, and
// its fenced-code/table detection from regex matching to real DOM element
// types, so lists, tables, code blocks, and quotes survive as their own
// chunk rather than being fractured mid-block by the text splitter.
type PageChunker struct {
	opts PageChunkerOptions
}

// NewPageChunker builds a PageChunker from the run's chunk configuration.
func NewPageChunker(cfg config.ChunkConfig) *PageChunker {
	return &PageChunker{opts: optionsFromConfig(cfg)}
}

// pageBlock is one typed unit discovered by walking the DOM: either a
// heading, an atomic block (list/table/code/quote, never split further),
// or a run of plain text (paragraphs and loose inline text) awaiting the
// paragraph/sentence/word splitter.
type pageBlock struct {
	kind        audit.ChunkType
	headingPath []string
	text        string
}

// ChunkPage parses mainHTML (as returned by extract.MainContentHTML) and
// produces the page's ordered chunks, with Ordinal and PositionRatio
// assigned in a final pass over the whole set.
func (c *PageChunker) ChunkPage(pageID, runID, mainHTML string) ([]audit.Chunk, error) {
	if strings.TrimSpace(mainHTML) == "" {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<div id=\"pagechunker-root\">" + mainHTML + "</div>"))
	if err != nil {
		return nil, err
	}

	root := doc.Find("#pagechunker-root")
	if root.Length() == 0 {
		return nil, nil
	}

	w := &pageWalker{}
	for _, n := range root.Nodes {
		w.walkChildren(n)
	}
	w.flushText()

	chunks := make([]audit.Chunk, 0, len(w.blocks))
	for _, b := range w.blocks {
		texts := []string{b.text}
		if b.kind == audit.ChunkText {
			texts = mergeUndersizedTail(splitText(b.text, c.opts.MaxTokens, c.opts.OverlapTokens), c.opts.MinTokens, c.opts.MaxTokens)
		}
		for _, t := range texts {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			chunks = append(chunks, audit.Chunk{
				PageID:        pageID,
				RunID:         runID,
				Type:          b.kind,
				HeadingPath:   append([]string(nil), b.headingPath...),
				Text:          t,
				TokenEstimate: estimateTokenCount(t),
				ContentHash:   chunkContentHash(t),
			})
		}
	}

	total := len(chunks)
	for i := range chunks {
		chunks[i].Ordinal = i
		if total > 1 {
			chunks[i].PositionRatio = float64(i) / float64(total-1)
		}
		chunks[i].ChunkID = pageChunkID(pageID, i, chunks[i].ContentHash)
	}

	return chunks, nil
}

func pageChunkID(pageID string, ordinal int, contentHash string) string {
	short := contentHash
	if len(short) > 16 {
		short = short[:16]
	}
	return fmt.Sprintf("%s:%d:%s", pageID, ordinal, short)
}

// pageWalker accumulates pageBlocks by walking the DOM depth-first,
// tracking the heading path active at each point the way
// markdown_chunker.go's headerStack tracks nesting across "#" levels.
type pageWalker struct {
	headingPath []string
	paragraphs  []string
	current     strings.Builder
	blocks      []pageBlock
}

var atomicBlockNames = map[string]bool{
	"ul": true, "ol": true,
	"table": true,
	"pre":   true,
	"blockquote": true,
}

func (w *pageWalker) walkChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walkNode(c)
	}
}

func (w *pageWalker) walkNode(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.appendText(n.Data)
		return
	case html.ElementNode:
		// fall through below
	default:
		return
	}

	if level, ok := headingLevel(n.Data); ok {
		w.flushText()
		text := strings.TrimSpace(nodeText(n))
		if text != "" {
			w.setHeadingPath(level, text)
			w.blocks = append(w.blocks, pageBlock{
				kind:        audit.ChunkHeading,
				headingPath: append([]string(nil), w.headingPath...),
				text:        text,
			})
		}
		return
	}

	if atomicBlockNames[n.Data] {
		w.flushText()
		if text := renderAtomicBlock(n); text != "" {
			w.blocks = append(w.blocks, pageBlock{
				kind:        atomicBlockType(n.Data),
				headingPath: append([]string(nil), w.headingPath...),
				text:        text,
			})
		}
		return
	}

	switch n.Data {
	case "script", "style", "noscript", "svg", "nav", "footer", "header", "form", "button", "iframe":
		return
	case "br", "hr":
		return
	}

	w.walkChildren(n)

	if isBlockLevel(n.Data) {
		w.breakParagraph()
	}
}

// appendText adds an inline text fragment to the paragraph currently being
// accumulated; successive fragments within the same block (e.g. split
// across <a> or <span> children) are joined with a space rather than each
// becoming their own paragraph.
func (w *pageWalker) appendText(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	if w.current.Len() > 0 {
		w.current.WriteString(" ")
	}
	w.current.WriteString(s)
}

// breakParagraph closes out the paragraph being accumulated (if any) on a
// block-element boundary like </p> or </div>, without flushing the whole
// run of paragraphs collected so far: that only happens at a heading,
// atomic block, or end of document, so consecutive paragraphs pack
// together under the paragraph/sentence/word splitter instead of each
// becoming its own chunk.
func (w *pageWalker) breakParagraph() {
	if w.current.Len() == 0 {
		return
	}
	w.paragraphs = append(w.paragraphs, w.current.String())
	w.current.Reset()
}

func (w *pageWalker) setHeadingPath(level int, text string) {
	if level > len(w.headingPath)+1 {
		level = len(w.headingPath) + 1
	}
	path := append([]string(nil), w.headingPath[:min(level-1, len(w.headingPath))]...)
	w.headingPath = append(path, text)
}

func (w *pageWalker) flushText() {
	w.breakParagraph()
	if len(w.paragraphs) == 0 {
		return
	}
	text := strings.TrimSpace(strings.Join(w.paragraphs, "\n\n"))
	w.paragraphs = nil
	if text == "" {
		return
	}
	w.blocks = append(w.blocks, pageBlock{
		kind:        audit.ChunkText,
		headingPath: append([]string(nil), w.headingPath...),
		text:        text,
	})
}

func headingLevel(tag string) (int, bool) {
	switch tag {
	case "h1":
		return 1, true
	case "h2":
		return 2, true
	case "h3":
		return 3, true
	case "h4":
		return 4, true
	case "h5":
		return 5, true
	case "h6":
		return 6, true
	default:
		return 0, false
	}
}

func atomicBlockType(tag string) audit.ChunkType {
	switch tag {
	case "ul", "ol":
		return audit.ChunkList
	case "table":
		return audit.ChunkTable
	case "pre":
		return audit.ChunkCode
	case "blockquote":
		return audit.ChunkQuote
	default:
		return audit.ChunkText
	}
}

// isBlockLevel covers the container tags walkNode recurses into directly;
// li/td/th never reach here since atomic block rendering consumes their
// parent ul/ol/table before the walker descends into them.
func isBlockLevel(tag string) bool {
	switch tag {
	case "p", "div", "section", "article", "main", "figure", "figcaption":
		return true
	default:
		return false
	}
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// renderAtomicBlock flattens a list/table/code/quote node to plain text
// without fracturing it: the whole block becomes one chunk regardless of
// its token length, since splitting a table row or a code block mid-way
// would destroy the structure a reader (or a question simulation) relies
// on to understand it.
func renderAtomicBlock(n *html.Node) string {
	switch n.Data {
	case "ul", "ol":
		return renderListBlock(n)
	case "table":
		return renderTableBlock(n)
	case "pre":
		return strings.TrimRight(nodeText(n), "\n")
	case "blockquote":
		return strings.TrimSpace(nodeText(n))
	default:
		return strings.TrimSpace(nodeText(n))
	}
}

func renderListBlock(n *html.Node) string {
	var lines []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "li" {
			text := strings.TrimSpace(nodeText(c))
			if text != "" {
				lines = append(lines, "- "+text)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func renderTableBlock(n *html.Node) string {
	var rows []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					cells = append(cells, strings.TrimSpace(nodeText(c)))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, strings.Join(cells, " | "))
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(rows, "\n")
}

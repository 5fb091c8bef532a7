// Package markdown extracts headings and links from markdown documents.
//
// Parsing uses the tree-sitter markdown grammars: the block grammar finds
// headings and the inline spans of paragraphs, table cells and headings,
// then the inline grammar is run over each span to find links. Positions are
// reported 1-based, measured in bytes, against the original document.
//
// Links inside fenced or indented code blocks and inside code spans are not
// links and are never reported.
package markdown

import (
	"context"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tsmarkdown "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"
	tsinline "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown-inline"

	"github.com/matzehuels/docgraph/pkg/errors"
)

// Heading is one ATX or setext heading.
type Heading struct {
	Text   string // Plain heading text with inline markup removed
	Level  int    // 1-6
	Line   int
	Column int
}

// Link is one inline link, [text](destination).
type Link struct {
	URL       string // Destination as written, angle brackets removed
	Text      string // Raw link text
	Literal   string // Full source text of the link
	Line      int
	Column    int
	EndColumn int // Column just past the closing parenthesis; 0 if unknown
}

// Document is the parsed form of one markdown file. Headings and links are
// in document order.
type Document struct {
	Headings []Heading
	Links    []Link
}

// Parser parses markdown content. A Parser holds no tree-sitter state, so it
// is safe for concurrent use; each Parse call allocates its own parsers.
type Parser struct{}

// NewParser returns a markdown parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses content into a Document.
func (p *Parser) Parse(ctx context.Context, content []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	block := sitter.NewParser()
	defer block.Close()
	block.SetLanguage(tsmarkdown.GetLanguage())

	tree, err := block.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "parse markdown blocks")
	}
	defer tree.Close()

	inline := sitter.NewParser()
	defer inline.Close()
	inline.SetLanguage(tsinline.GetLanguage())

	w := &walker{ctx: ctx, src: content, inline: inline, doc: &Document{}}
	if err := w.block(tree.RootNode()); err != nil {
		return nil, err
	}
	return w.doc, nil
}

// walker carries per-parse state through the block tree.
type walker struct {
	ctx    context.Context
	src    []byte
	inline *sitter.Parser
	doc    *Document
}

func (w *walker) block(n *sitter.Node) error {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case nodeFencedCode, nodeIndentedCode, nodeHTMLBlock:
		return nil
	case nodeAtxHeading:
		return w.atxHeading(n)
	case nodeSetextHeading:
		return w.setextHeading(n)
	case nodeInline, nodePipeTableCell:
		// Table cells carry their inline content directly, with no inline child.
		_, err := w.inlineSpan(n)
		return err
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if err := w.block(n.Child(i)); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) atxHeading(n *sitter.Node) error {
	h := Heading{Line: int(n.StartPoint().Row) + 1, Column: int(n.StartPoint().Column) + 1}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if lvl, ok := atxLevels[child.Type()]; ok {
			h.Level = lvl
			continue
		}
		if child.Type() == nodeInline {
			text, err := w.inlineSpan(child)
			if err != nil {
				return err
			}
			h.Text = trimClosingHashes(text)
		}
	}
	w.doc.Headings = append(w.doc.Headings, h)
	return nil
}

func (w *walker) setextHeading(n *sitter.Node) error {
	h := Heading{Line: int(n.StartPoint().Row) + 1, Column: int(n.StartPoint().Column) + 1, Level: 1}
	var parts []string
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case nodeSetextH2:
			h.Level = 2
		case nodeParagraph:
			for j := 0; j < int(child.ChildCount()); j++ {
				gc := child.Child(j)
				if gc.Type() != nodeInline {
					continue
				}
				text, err := w.inlineSpan(gc)
				if err != nil {
					return err
				}
				parts = append(parts, text)
			}
		}
	}
	h.Text = strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	w.doc.Headings = append(w.doc.Headings, h)
	return nil
}

// inlineSpan parses one inline span, appends its links to the document and
// returns the span's plain text.
func (w *walker) inlineSpan(n *sitter.Node) (string, error) {
	start, end := n.StartByte(), n.EndByte()
	if end <= start {
		return "", nil
	}
	raw := w.src[start:end]

	tree, err := w.inline.ParseCtx(w.ctx, nil, raw)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeParse, err, "parse inline markdown at line %d", n.StartPoint().Row+1)
	}
	defer tree.Close()

	sp := &span{src: raw, origin: n.StartPoint()}
	root := tree.RootNode()
	w.links(root, sp)
	return strings.TrimSpace(sp.plainText(root)), nil
}

func (w *walker) links(n *sitter.Node, sp *span) {
	if n.Type() == nodeInlineLink {
		w.doc.Links = append(w.doc.Links, sp.link(n))
		return
	}
	if n.Type() == nodeCodeSpan {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		w.links(n.Child(i), sp)
	}
}

// span maps positions in an inline sub-parse back to the document.
type span struct {
	src    []byte
	origin sitter.Point
}

func (s *span) point(p sitter.Point) (line, col int) {
	line = int(s.origin.Row+p.Row) + 1
	if p.Row == 0 {
		return line, int(s.origin.Column+p.Column) + 1
	}
	return line, int(p.Column) + 1
}

func (s *span) content(n *sitter.Node) string {
	return string(s.src[n.StartByte():n.EndByte()])
}

func (s *span) link(n *sitter.Node) Link {
	l := Link{Literal: s.content(n)}
	l.Line, l.Column = s.point(n.StartPoint())
	if endLine, endCol := s.point(n.EndPoint()); endLine == l.Line {
		l.EndColumn = endCol
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case nodeLinkText:
			l.Text = s.content(child)
		case nodeLinkDest:
			l.URL = strings.TrimSuffix(strings.TrimPrefix(s.content(child), "<"), ">")
		}
	}
	return l
}

// plainText returns the text of n with delimiters, destinations and titles
// removed. Text in the inline grammar lives in the gaps between child nodes,
// so the result is built from the byte ranges that survive.
func (s *span) plainText(n *sitter.Node) string {
	var drop [][2]uint32
	var collect, collectLabel func(*sitter.Node)
	collectLabel = func(n *sitter.Node) {
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if !child.IsNamed() && (child.Type() == "[" || child.Type() == "]") {
				drop = append(drop, [2]uint32{child.StartByte(), child.EndByte()})
				continue
			}
			collect(child)
		}
	}
	collect = func(n *sitter.Node) {
		switch n.Type() {
		case nodeEmphasisDelim, nodeCodeSpanDelim, nodeLinkDest, nodeLinkTitle, nodeHTMLTag:
			drop = append(drop, [2]uint32{n.StartByte(), n.EndByte()})
			return
		case nodeInlineLink, nodeImage, nodeFullRefLink, nodeCollapsedRefLink, nodeShortcutLink:
			for i := 0; i < int(n.ChildCount()); i++ {
				child := n.Child(i)
				if t := child.Type(); t == nodeLinkText || t == nodeImageDesc || t == nodeLinkLabel {
					collectLabel(child)
					continue
				}
				drop = append(drop, [2]uint32{child.StartByte(), child.EndByte()})
			}
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			collect(n.Child(i))
		}
	}
	collect(n)

	var b strings.Builder
	pos := n.StartByte()
	for _, r := range drop {
		if r[0] < pos {
			// Nested ranges were already covered by an outer drop.
			if r[1] > pos {
				pos = r[1]
			}
			continue
		}
		b.Write(s.src[pos:r[0]])
		pos = r[1]
	}
	if pos < n.EndByte() {
		b.Write(s.src[pos:n.EndByte()])
	}
	return b.String()
}

var closingHashes = regexp.MustCompile(`(^|\s+)#+\s*$`)

func trimClosingHashes(text string) string {
	return strings.TrimSpace(closingHashes.ReplaceAllString(text, ""))
}

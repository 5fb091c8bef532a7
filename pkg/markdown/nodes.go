package markdown

// Tree-sitter node types used during extraction.
//
// Reference: https://github.com/tree-sitter-grammars/tree-sitter-markdown
const (
	// Block grammar
	nodeAtxHeading    = "atx_heading"
	nodeSetextHeading = "setext_heading"
	nodeSetextH2      = "setext_h2_underline"
	nodeParagraph     = "paragraph"
	nodeInline        = "inline"
	nodeFencedCode    = "fenced_code_block"
	nodeIndentedCode  = "indented_code_block"
	nodeHTMLBlock     = "html_block"
	nodePipeTableCell = "pipe_table_cell"

	// Inline grammar
	nodeInlineLink       = "inline_link"
	nodeFullRefLink      = "full_reference_link"
	nodeCollapsedRefLink = "collapsed_reference_link"
	nodeShortcutLink     = "shortcut_link"
	nodeImage            = "image"
	nodeImageDesc        = "image_description"
	nodeLinkText         = "link_text"
	nodeLinkLabel        = "link_label"
	nodeLinkDest         = "link_destination"
	nodeLinkTitle        = "link_title"
	nodeCodeSpan         = "code_span"
	nodeCodeSpanDelim    = "code_span_delimiter"
	nodeEmphasisDelim    = "emphasis_delimiter"
	nodeHTMLTag          = "html_tag"
)

var atxLevels = map[string]int{
	"atx_h1_marker": 1,
	"atx_h2_marker": 2,
	"atx_h3_marker": 3,
	"atx_h4_marker": 4,
	"atx_h5_marker": 5,
	"atx_h6_marker": 6,
}

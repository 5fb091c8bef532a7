package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := NewParser().Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return doc
}

func TestParseHeadings(t *testing.T) {
	doc := parse(t, "# Title\n\nIntro.\n\n## Get Started!\n\ntext\n\n### Closing ###\n\nSetext Heading\n--------------\n")

	require.Len(t, doc.Headings, 4)
	assert.Equal(t, "Title", doc.Headings[0].Text)
	assert.Equal(t, 1, doc.Headings[0].Level)
	assert.Equal(t, 1, doc.Headings[0].Line)

	assert.Equal(t, "Get Started!", doc.Headings[1].Text)
	assert.Equal(t, 2, doc.Headings[1].Level)
	assert.Equal(t, 5, doc.Headings[1].Line)

	assert.Equal(t, "Closing", doc.Headings[2].Text)
	assert.Equal(t, 3, doc.Headings[2].Level)

	assert.Equal(t, "Setext Heading", doc.Headings[3].Text)
	assert.Equal(t, 2, doc.Headings[3].Level)
}

func TestParseHeadingMarkupRemoved(t *testing.T) {
	doc := parse(t, "## Using `docgraph` with **CI**\n")

	require.Len(t, doc.Headings, 1)
	assert.Equal(t, "Using docgraph with CI", doc.Headings[0].Text)
}

func TestParseDuplicateHeadingsPreserved(t *testing.T) {
	doc := parse(t, "# Notes\n\n# Notes\n")

	require.Len(t, doc.Headings, 2)
	assert.Equal(t, doc.Headings[0].Text, doc.Headings[1].Text)
}

func TestParseLinks(t *testing.T) {
	src := "See [guide](./guide.md) and [api](docs/api.md#auth).\nAlso [site](https://example.com) and [top](#title).\n"
	doc := parse(t, src)

	require.Len(t, doc.Links, 4)

	assert.Equal(t, "./guide.md", doc.Links[0].URL)
	assert.Equal(t, "[guide](./guide.md)", doc.Links[0].Literal)
	assert.Equal(t, 1, doc.Links[0].Line)
	assert.Equal(t, 5, doc.Links[0].Column)
	assert.Equal(t, 5+len("[guide](./guide.md)"), doc.Links[0].EndColumn)

	assert.Equal(t, "docs/api.md#auth", doc.Links[1].URL)
	assert.Equal(t, "https://example.com", doc.Links[2].URL)
	assert.Equal(t, 2, doc.Links[2].Line)
	assert.Equal(t, "#title", doc.Links[3].URL)
}

func TestParseLinkWithTitle(t *testing.T) {
	doc := parse(t, "[x](a.md \"A title\")\n")

	require.Len(t, doc.Links, 1)
	assert.Equal(t, "a.md", doc.Links[0].URL)
}

func TestParseIgnoresCode(t *testing.T) {
	src := "```\n[in fence](fence.md)\n```\n\n    [indented](indented.md)\n\nInline `[span](span.md)` code.\n\n[real](real.md)\n"
	doc := parse(t, src)

	require.Len(t, doc.Links, 1)
	assert.Equal(t, "real.md", doc.Links[0].URL)
	assert.Equal(t, 9, doc.Links[0].Line)
}

func TestParseLinksInListsAndQuotes(t *testing.T) {
	doc := parse(t, "- [one](one.md)\n- [two](two.md)\n\n> [quoted](quoted.md)\n")

	require.Len(t, doc.Links, 3)
	assert.Equal(t, "one.md", doc.Links[0].URL)
	assert.Equal(t, "two.md", doc.Links[1].URL)
	assert.Equal(t, 2, doc.Links[1].Line)
	assert.Equal(t, "quoted.md", doc.Links[2].URL)
}

func TestParseLinksInTables(t *testing.T) {
	src := "| Page | Notes |\n| --- | --- |\n| [guide](guide.md) | see [api](api.md#auth) |\n| `[code](code.md)` | x |\n"
	doc := parse(t, src)

	require.Len(t, doc.Links, 2)
	assert.Equal(t, "guide.md", doc.Links[0].URL)
	assert.Equal(t, 3, doc.Links[0].Line)
	assert.Equal(t, 3, doc.Links[0].Column)
	assert.Equal(t, "api.md#auth", doc.Links[1].URL)
	assert.Equal(t, 3, doc.Links[1].Line)
}

func TestParseEmpty(t *testing.T) {
	doc := parse(t, "")
	assert.Empty(t, doc.Headings)
	assert.Empty(t, doc.Links)
}

func TestParseCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewParser().Parse(ctx, []byte("# x\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

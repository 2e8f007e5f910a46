package readme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReadme = `
<h1>Awesome MCP</h1>
<p><a href="https://example.com/badge">build badge</a></p>
<p>A curated index of Model Context Protocol servers and related tooling.</p>
<p>Another long paragraph that should not be picked because the first one wins.</p>
<h2>Servers</h2>
<ul><li><a href="https://github.com/org/server-one">server-one</a></li></ul>
<h2>Clients</h2>
<h2>Servers</h2>
<a href="https://example.com/unrelated">unrelated</a>
<a href="https://github.com/org/client-two">client-two</a>
`

func TestExtract(t *testing.T) {
	summary := Extract(sampleReadme)

	assert.Equal(t, "Awesome MCP", summary.Title)
	assert.Equal(t, "A curated index of Model Context Protocol servers and related tooling.", summary.Description)

	// Duplicates are preserved in document order; dedup is the store's job.
	assert.Equal(t, []string{"Servers", "Clients", "Servers"}, summary.Categories)

	assert.Equal(t, []string{
		"https://github.com/org/server-one",
		"https://github.com/org/client-two",
	}, summary.RelatedLinks)
}

func TestExtractTagsAlwaysEmpty(t *testing.T) {
	summary := Extract(sampleReadme)

	require.NotNil(t, summary.Tags)
	assert.Empty(t, summary.Tags)
}

func TestExtractShortParagraphsSkipped(t *testing.T) {
	summary := Extract(`<h1>Tiny</h1><p>short text</p><p>still short</p>`)

	assert.Equal(t, "Tiny", summary.Title)
	assert.Empty(t, summary.Description)
}

func TestExtractNoTitle(t *testing.T) {
	summary := Extract(`<p>A perfectly reasonable description over thirty characters.</p>`)

	assert.Empty(t, summary.Title)
	assert.Equal(t, "A perfectly reasonable description over thirty characters.", summary.Description)
}

func TestExtractGarbageDegradesGracefully(t *testing.T) {
	for _, content := range []string{
		"",
		"not markup at all",
		"# Markdown heading\n\nplain markdown body text without any html",
		"<<<<>>>> &&& <h1",
	} {
		summary := Extract(content)

		assert.Empty(t, summary.Title)
		assert.Empty(t, summary.Description)
		require.NotNil(t, summary.Categories)
		require.NotNil(t, summary.Tags)
		require.NotNil(t, summary.RelatedLinks)
		assert.Empty(t, summary.Categories)
		assert.Empty(t, summary.Tags)
		assert.Empty(t, summary.RelatedLinks)
	}
}

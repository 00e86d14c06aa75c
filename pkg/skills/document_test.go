package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument(t *testing.T) {
	content := "---\nname: pdf-tables\ndescription: Extracts tables\n---\n\n" +
		"# PDF Tables\n\n" +
		"## Overview\n\nSome *emphasised* text.\n\n" +
		"```python\nimport pdfplumber\nprint(1)\n```\n\n" +
		"```\n# not a heading\n```\n\n" +
		"## Reference `table`\n\n" +
		"| a | b |\n|---|---|\n| 1 | 2 |\n\n" +
		"### Details\n"

	doc, err := ParseDocument([]byte(content))
	require.NoError(t, err)
	require.NoError(t, doc.MetaErr)

	assert.Equal(t, "pdf-tables", doc.Name())
	assert.Equal(t, "Extracts tables", doc.Description())

	assert.Equal(t, []Heading{
		{Level: 1, Text: "PDF Tables"},
		{Level: 2, Text: "Overview"},
		{Level: 2, Text: "Reference table"},
		{Level: 3, Text: "Details"},
	}, doc.Headings)
	assert.Equal(t, []string{"Overview", "Reference table"}, doc.HeadingsAt(2))
	assert.Empty(t, doc.HeadingsAt(4))

	assert.Equal(t, []CodeBlock{
		{Language: "python", Lines: 2},
		{Language: "", Lines: 1},
	}, doc.CodeBlocks)
	assert.True(t, doc.HasTable)
}

func TestParseDocumentWithoutFrontmatter(t *testing.T) {
	doc, err := ParseDocument([]byte("# Title\n\nplain body\n"))
	require.NoError(t, err)

	assert.NoError(t, doc.MetaErr)
	assert.NotNil(t, doc.Meta)
	assert.Empty(t, doc.Name())
	assert.False(t, doc.HasTable)
	assert.Len(t, doc.Headings, 1)
}

func TestParseDocumentMalformedFrontmatter(t *testing.T) {
	doc, err := ParseDocument([]byte("---\nname: [broken\n---\n\n# Title\n"))
	require.NoError(t, err)

	assert.Error(t, doc.MetaErr)
	assert.Empty(t, doc.Meta)
	assert.Empty(t, doc.Description())
	assert.Equal(t, []string{"Title"}, doc.HeadingsAt(1))
}

func TestDocumentNonStringFields(t *testing.T) {
	doc, err := ParseDocument([]byte("---\nname: 42\ndescription: [a, b]\n---\n"))
	require.NoError(t, err)

	assert.Empty(t, doc.Name())
	assert.Empty(t, doc.Description())
}

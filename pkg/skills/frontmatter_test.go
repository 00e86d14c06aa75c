package skills

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		yaml     string
		body     string
		expected error
	}{
		{
			name:    "valid",
			content: "---\nname: a\n---\n# Body\n",
			yaml:    "name: a",
			body:    "# Body\n",
		},
		{
			name:    "crlf line endings",
			content: "---\r\nname: a\r\n---\r\n# Body",
			yaml:    "name: a",
			body:    "# Body",
		},
		{
			name:    "empty block",
			content: "---\n---\nbody",
			yaml:    "",
			body:    "body",
		},
		{
			name:     "no opening delimiter",
			content:  "# Body\n---\n",
			expected: ErrNoFrontmatter,
		},
		{
			name:     "indented delimiter",
			content:  " ---\nname: a\n---\n",
			expected: ErrNoFrontmatter,
		},
		{
			name:     "unterminated",
			content:  "---\nname: a\n",
			expected: ErrUnterminatedFrontmatter,
		},
		{
			name:     "empty content",
			content:  "",
			expected: ErrNoFrontmatter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yaml, body, err := SplitFrontmatter(tt.content)
			if tt.expected != nil {
				assert.True(t, errors.Is(err, tt.expected), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.yaml, yaml)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestParseFrontmatter(t *testing.T) {
	content := `---
name: pdf-tables
description: Extracts tables
license: MIT
allowed-tools: [Read, Bash]
metadata:
  owner: docs
---
# PDF Tables
`

	fm, err := ParseFrontmatter(content)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "description", "license", "allowed-tools", "metadata"}, fm.Keys)
	assert.True(t, fm.Has("license"))
	assert.False(t, fm.Has("compatibility"))

	name, ok := fm.String("name")
	require.True(t, ok)
	assert.Equal(t, "pdf-tables", name)

	_, ok = fm.String("metadata")
	assert.False(t, ok)
	assert.Equal(t, "# PDF Tables\n", fm.Body)

	meta, err := fm.Decode()
	require.NoError(t, err)
	assert.Equal(t, "pdf-tables", meta.Name)
	assert.Equal(t, "Extracts tables", meta.Description)
	assert.Equal(t, "MIT", meta.License)
	assert.Equal(t, "docs", meta.Metadata["owner"])
}

func TestParseFrontmatterErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected error
	}{
		{"malformed yaml", "---\nname: [a\n---\n", ErrMalformedYAML},
		{"tab indentation", "---\nname: a\n\tdescription: b\n---\n", ErrMalformedYAML},
		{"sequence root", "---\n- a\n- b\n---\n", ErrFrontmatterNotMapping},
		{"scalar root", "---\njust text\n---\n", ErrFrontmatterNotMapping},
		{"empty block", "---\n---\n", ErrFrontmatterNotMapping},
		{"no frontmatter", "# Title\n", ErrNoFrontmatter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, err := ParseFrontmatter(tt.content)
			assert.Nil(t, fm)
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
		})
	}
}

func TestParseFrontmatterEmptyMapping(t *testing.T) {
	fm, err := ParseFrontmatter("---\n{}\n---\nbody")
	require.NoError(t, err)
	assert.Empty(t, fm.Keys)
	assert.False(t, fm.Has("name"))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "null", TypeName(nil))
	assert.Equal(t, "string", TypeName("x"))
	assert.Equal(t, "boolean", TypeName(true))
	assert.Equal(t, "number", TypeName(42))
	assert.Equal(t, "number", TypeName(1.5))
	assert.Equal(t, "list", TypeName([]any{"a"}))
	assert.Equal(t, "mapping", TypeName(map[string]any{}))
}

func TestIsAllowedFrontmatterKey(t *testing.T) {
	for _, key := range AllowedFrontmatterKeys {
		assert.True(t, IsAllowedFrontmatterKey(key), key)
	}
	assert.False(t, IsAllowedFrontmatterKey("author"))
	assert.False(t, IsAllowedFrontmatterKey("Name"))
}

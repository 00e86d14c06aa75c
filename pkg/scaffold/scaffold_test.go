package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Hackerdomarketing/claude-code-skills/pkg/skills"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var expectedFiles = []string{
	"SKILL.md",
	"assets/PLACEHOLDER.md",
	"references/exemplo.md",
	"scripts/exemplo.py",
}

func TestCreate(t *testing.T) {
	dest := t.TempDir()

	target, err := Create(context.Background(), "pdf-tables", dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dest, "pdf-tables"), target)

	files, err := skills.ListFiles(target)
	require.NoError(t, err)
	assert.Equal(t, expectedFiles, files)

	info, err := os.Stat(filepath.Join(target, "scripts", "exemplo.py"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	descriptor, err := os.ReadFile(filepath.Join(target, "SKILL.md"))
	require.NoError(t, err)
	content := string(descriptor)
	assert.True(t, strings.HasPrefix(content, "---\nname: pdf-tables\n"))
	assert.Contains(t, content, "\n# Pdf Tables\n")
	assert.Contains(t, content, "[TODO:")
	assert.Contains(t, content, "`exemplo.py`")

	fm, err := skills.ParseFrontmatter(content)
	require.NoError(t, err)
	name, ok := fm.String("name")
	require.True(t, ok)
	assert.Equal(t, "pdf-tables", name)
}

func TestCreateTitle(t *testing.T) {
	target, err := Create(context.Background(), "invoice-parser", t.TempDir())
	require.NoError(t, err)

	reference, err := os.ReadFile(filepath.Join(target, "references", "exemplo.md"))
	require.NoError(t, err)
	assert.Contains(t, string(reference), "# Example Reference for Invoice Parser")

	script, err := os.ReadFile(filepath.Join(target, "scripts", "exemplo.py"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(script), "#!/usr/bin/env python3\n"))
	assert.Contains(t, string(script), "Example script for invoice-parser")
}

func TestCreateAlreadyExists(t *testing.T) {
	dest := t.TempDir()
	ctx := context.Background()

	target, err := Create(ctx, "pdf-tables", dest)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(target, "SKILL.md"), []byte("edited"), 0o644))

	_, err = Create(ctx, "pdf-tables", dest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyExists))
	assert.Contains(t, err.Error(), "already exists")

	files, err := skills.ListFiles(target)
	require.NoError(t, err)
	assert.Equal(t, expectedFiles, files)

	descriptor, err := os.ReadFile(filepath.Join(target, "SKILL.md"))
	require.NoError(t, err)
	assert.Equal(t, "edited", string(descriptor))
}

func TestCreateInvalidName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{"empty", "", skills.ErrNameEmpty},
		{"uppercase", "My-Skill", skills.ErrNameNotKebabCase},
		{"leading hyphen", "-skill", skills.ErrNameEdgeHyphen},
		{"trailing hyphen", "skill-", skills.ErrNameEdgeHyphen},
		{"double hyphen", "a--b", skills.ErrNameDoubleHyphen},
		{"too long", strings.Repeat("a", 65), skills.ErrNameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := t.TempDir()

			_, err := Create(context.Background(), tt.input, dest)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)

			entries, err := os.ReadDir(dest)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestCreateMakesDestination(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nested", "skills")

	target, err := Create(context.Background(), "my-skill", dest)
	require.NoError(t, err)
	assert.DirExists(t, target)
}

func TestCreateRemovesPartialBundle(t *testing.T) {
	calls := 0
	writeFile = func(name string, data []byte, perm os.FileMode) error {
		calls++
		if calls == 3 {
			return errors.New("disk full")
		}
		return os.WriteFile(name, data, perm)
	}
	t.Cleanup(func() { writeFile = os.WriteFile })

	dest := t.TempDir()
	_, err := Create(context.Background(), "pdf-tables", dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), "references/exemplo.md")

	assert.NoDirExists(t, filepath.Join(dest, "pdf-tables"))
}

func TestRender(t *testing.T) {
	for _, artifact := range Artifacts {
		t.Run(artifact.Path, func(t *testing.T) {
			out, err := Render(artifact.Template, TemplateData{
				Name:          "demo",
				Title:         "Demo",
				ScriptName:    ExampleScript,
				ReferenceName: ExampleReference,
			})
			require.NoError(t, err)
			assert.NotEmpty(t, out)
			assert.NotContains(t, out, "{{")
		})
	}

	_, err := Render("templates/missing.tmpl", TemplateData{})
	assert.Error(t, err)
}

package packager

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Hackerdomarketing/claude-code-skills/pkg/skills"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDescriptor = `---
name: pdf-tables
description: "Extracts tables from .pdf reports. Use when the user asks to pull figures out of a PDF, for example invoices."
---

# PDF Tables

Run scripts/extract.py and read references/layout.md.
`

func writeBundle(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "pdf-tables")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func validFiles() map[string]string {
	return map[string]string{
		"SKILL.md":             validDescriptor,
		"scripts/extract.py":   "#!/usr/bin/env python3\n\"\"\"Extract tables.\"\"\"\n",
		"references/layout.md": "# Layout\n",
		"assets/logo.png":      "png",
	}
}

func readArchive(t *testing.T, path string) map[string]*zip.File {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	entries := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		entries[f.Name] = f
	}
	return entries
}

func TestPackage(t *testing.T) {
	files := validFiles()
	files[".editorconfig"] = "root = true"
	files["README.md"] = "# Readme"
	files[".DS_Store"] = "x"
	files[".gitignore"] = "*.pyc"
	files[".env"] = "TOKEN=x"
	files["notes.tmp"] = "x"
	files["references/node_modules/pkg/index.js"] = "x"
	files["scripts/__pycache__/extract.cpython-312.pyc"] = "x"
	files["scripts/extract.pyc"] = "x"
	files["scripts/extract.pyo"] = "x"
	files["scripts/extract.py~"] = "x"
	files["assets/.hidden"] = "x"
	dir := writeBundle(t, files)
	out := t.TempDir()

	result, err := Package(context.Background(), dir, WithOutputDir(out))
	require.NoError(t, err)

	expected := []string{
		"pdf-tables/.editorconfig",
		"pdf-tables/SKILL.md",
		"pdf-tables/assets/logo.png",
		"pdf-tables/references/layout.md",
		"pdf-tables/scripts/extract.py",
	}
	assert.Equal(t, filepath.Join(out, "pdf-tables.skill"), result.ArchivePath)
	assert.Equal(t, expected, result.Entries)
	assert.Equal(t, len(expected), result.Files)
	assert.True(t, result.Validation.Valid)

	info, err := os.Stat(result.ArchivePath)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), result.Size)

	entries := readArchive(t, result.ArchivePath)
	require.Len(t, entries, len(expected))
	for _, name := range expected {
		require.Contains(t, entries, name)
		assert.Equal(t, zip.Deflate, entries[name].Method)
	}

	rc, err := entries["pdf-tables/SKILL.md"].Open()
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, validDescriptor, string(content))

	leftovers, err := filepath.Glob(filepath.Join(out, "*.partial"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestPackageEntryCountMatchesFiles(t *testing.T) {
	files := validFiles()
	for i := 0; i < 5; i++ {
		files[fmt.Sprintf("references/deep/level%d/notes.md", i)] = "notes"
		files[fmt.Sprintf("references/deep/level%d/CHANGELOG.md", i)] = "changes"
	}
	dir := writeBundle(t, files)

	result, err := Package(context.Background(), dir, WithOutputDir(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, 4+5, result.Files)
	entries := readArchive(t, result.ArchivePath)
	assert.Len(t, entries, result.Files)
	for name := range entries {
		assert.False(t, strings.HasSuffix(name, "CHANGELOG.md"), name)
	}
}

func TestPackageRefusesInvalidBundle(t *testing.T) {
	files := validFiles()
	files["SKILL.md"] = "---\nname: pdf-tables\n---\n# PDF Tables\n"
	dir := writeBundle(t, files)
	out := t.TempDir()

	result, err := Package(context.Background(), dir, WithOutputDir(out))
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrValidationFailed))

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.False(t, validationErr.Result.Valid)
	assert.Contains(t, err.Error(), "1 error(s) found")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPackageMissingDescriptor(t *testing.T) {
	dir := writeBundle(t, map[string]string{"references/a.md": "x"})
	out := t.TempDir()

	_, err := Package(context.Background(), dir, WithOutputDir(out))
	require.Error(t, err)
	assert.True(t, errors.Is(err, skills.ErrDescriptorNotFound))
	assert.False(t, errors.Is(err, ErrValidationFailed))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPackageMissingPath(t *testing.T) {
	_, err := Package(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, skills.ErrBundleNotFound))
}

func TestPackageDefaultsToWorkingDirectory(t *testing.T) {
	dir := writeBundle(t, validFiles())
	cwd := t.TempDir()
	testChdir(t, cwd)

	result, err := Package(context.Background(), dir)
	require.NoError(t, err)

	resolved, err := filepath.EvalSymlinks(cwd)
	require.NoError(t, err)
	actual, err := filepath.EvalSymlinks(result.ArchivePath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(resolved, "pdf-tables.skill"), actual)
}

func TestPackageCreatesOutputDirectory(t *testing.T) {
	dir := writeBundle(t, validFiles())
	out := filepath.Join(t.TempDir(), "dist", "skills")

	result, err := Package(context.Background(), dir, WithOutputDir(out))
	require.NoError(t, err)
	assert.FileExists(t, result.ArchivePath)
}

func TestPackageSkipsItsOwnArchive(t *testing.T) {
	dir := writeBundle(t, validFiles())
	ctx := context.Background()

	first, err := Package(ctx, dir, WithOutputDir(dir))
	require.NoError(t, err)
	second, err := Package(ctx, dir, WithOutputDir(dir))
	require.NoError(t, err)

	assert.Equal(t, first.Entries, second.Entries)
	assert.NotContains(t, second.Entries, "pdf-tables/pdf-tables.skill")
}

func TestPackageRemovesPartialArchiveOnFailure(t *testing.T) {
	dir := writeBundle(t, validFiles())
	out := t.TempDir()
	blocker := filepath.Join(out, "pdf-tables.skill")
	require.NoError(t, os.MkdirAll(filepath.Join(blocker, "keep"), 0o755))

	_, err := Package(context.Background(), dir, WithOutputDir(out))
	require.Error(t, err)

	leftovers, err := filepath.Glob(filepath.Join(out, ".*.partial"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
	assert.DirExists(t, filepath.Join(blocker, "keep"))
}

func TestPackageWithDenylist(t *testing.T) {
	files := validFiles()
	files["references/draft.md"] = "draft, see layout.md"
	dir := writeBundle(t, files)

	result, err := Package(context.Background(), dir,
		WithOutputDir(t.TempDir()),
		WithDenylist(skills.NewDenylist([]string{"draft.md"}, nil)))
	require.NoError(t, err)

	assert.NotContains(t, result.Entries, "pdf-tables/references/draft.md")
	assert.Equal(t, 4, result.Files)
}

// testChdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func testChdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldwd); err != nil {
			t.Fatalf("restoring working directory: %v", err)
		}
	})
}

package skills

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBundle(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pdf-tables")
	writeSkill(t, dir, "---\nname: pdf-tables\n---\n")

	b, err := OpenBundle(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, b.Path)
	assert.Equal(t, "pdf-tables", b.Name())
	assert.Equal(t, filepath.Join(dir, DescriptorFileName), b.DescriptorPath())
	assert.Equal(t, filepath.Join(dir, ScriptsDir), b.Dir(ScriptsDir))
	assert.Equal(t, "---\nname: pdf-tables\n---\n", b.Descriptor)
}

func TestOpenBundleRelativePath(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, filepath.Join(root, "pdf-tables"), "# Title\n")
	testChdir(t, root)

	b, err := OpenBundle("pdf-tables")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(b.Path))
	assert.Equal(t, "pdf-tables", b.Name())
}

func TestOpenBundleErrors(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name     string
		path     string
		expected error
	}{
		{"missing path", filepath.Join(root, "missing"), ErrBundleNotFound},
		{"not a directory", file, ErrNotDirectory},
		{"no descriptor", root, ErrDescriptorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := OpenBundle(tt.path)
			assert.Nil(t, b)
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
		})
	}
}

func TestResolveDir(t *testing.T) {
	root := t.TempDir()

	abs, err := ResolveDir(root)
	require.NoError(t, err)
	assert.Equal(t, root, abs)

	abs, err = ResolveDir(filepath.Join(root, "missing"))
	assert.True(t, errors.Is(err, ErrBundleNotFound))
	assert.Equal(t, filepath.Join(root, "missing"), abs)
	assert.Contains(t, err.Error(), "path does not exist")
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

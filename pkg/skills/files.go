package skills

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// ListFiles returns the regular files below root matching any of the
// doublestar patterns, as sorted slash-separated paths relative to root. A
// missing root yields an empty list.
func ListFiles(root string, patterns ...string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to stat %s", root)
	}
	if !info.IsDir() {
		return nil, nil
	}

	if len(patterns) == 0 {
		patterns = []string{"**"}
	}

	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Wrapf(err, "invalid pattern %q", pattern)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			fi, err := fs.Stat(fsys, m)
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}

	sort.Strings(files)
	return files, nil
}

// TotalSize sums the sizes of the given files relative to root
func TotalSize(root string, files []string) int64 {
	var total int64
	for _, f := range files {
		info, err := os.Stat(filepath.Join(root, filepath.FromSlash(f)))
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total
}

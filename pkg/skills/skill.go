// Package skills models skill bundles: directories holding a SKILL.md
// descriptor with YAML frontmatter plus optional scripts/, references/ and
// assets/ subdirectories. It carries the rules shared by the analyzer,
// validator, scaffolder and packager.
package skills

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const (
	// DescriptorFileName is the required descriptor file of every bundle
	DescriptorFileName = "SKILL.md"
	// ScriptsDir holds executable helpers shipped with a bundle
	ScriptsDir = "scripts"
	// ReferencesDir holds documents consulted situationally
	ReferencesDir = "references"
	// AssetsDir holds files used in output rather than read into context
	AssetsDir = "assets"
	// ArchiveExtension is the file extension of packaged bundles
	ArchiveExtension = ".skill"
)

var (
	// ErrBundleNotFound is returned when the bundle path does not exist
	ErrBundleNotFound = errors.New("path does not exist")
	// ErrNotDirectory is returned when the bundle path is not a directory
	ErrNotDirectory = errors.New("path is not a directory")
	// ErrDescriptorNotFound is returned when the bundle has no SKILL.md
	ErrDescriptorNotFound = errors.New(DescriptorFileName + " not found")
)

// Skill represents a discovered skill with its metadata
type Skill struct {
	Name        string // Unique name from frontmatter
	Description string // Brief description from frontmatter
	Directory   string // Full path to the skill directory
	Content     string // Body of SKILL.md without the frontmatter
}

// Metadata represents the YAML frontmatter keys a bundle may declare
type Metadata struct {
	Name          string         `yaml:"name"`
	Description   string         `yaml:"description"`
	License       string         `yaml:"license,omitempty"`
	AllowedTools  any            `yaml:"allowed-tools,omitempty"`
	Metadata      map[string]any `yaml:"metadata,omitempty"`
	Compatibility any            `yaml:"compatibility,omitempty"`
}

// AllowedFrontmatterKeys lists every key accepted in the frontmatter
var AllowedFrontmatterKeys = []string{
	"name",
	"description",
	"license",
	"allowed-tools",
	"metadata",
	"compatibility",
}

// IsAllowedFrontmatterKey reports whether key is on the frontmatter allow-list
func IsAllowedFrontmatterKey(key string) bool {
	for _, k := range AllowedFrontmatterKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Bundle is an opened skill directory with its descriptor loaded
type Bundle struct {
	Path       string // Absolute path to the bundle directory
	Descriptor string // Raw SKILL.md content
}

// Name returns the bundle directory name
func (b *Bundle) Name() string {
	return filepath.Base(b.Path)
}

// DescriptorPath returns the absolute path of SKILL.md
func (b *Bundle) DescriptorPath() string {
	return filepath.Join(b.Path, DescriptorFileName)
}

// Dir returns the absolute path of a bundle subdirectory
func (b *Bundle) Dir(name string) string {
	return filepath.Join(b.Path, name)
}

// ResolveDir resolves path to an absolute directory, failing when it is
// missing or not a directory
func ResolveDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve %s", path)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return abs, errors.Wrap(ErrBundleNotFound, abs)
		}
		return abs, errors.Wrapf(err, "failed to stat %s", abs)
	}
	if !info.IsDir() {
		return abs, errors.Wrap(ErrNotDirectory, abs)
	}

	return abs, nil
}

// OpenBundle resolves path and loads its descriptor. It fails with one of
// ErrBundleNotFound, ErrNotDirectory or ErrDescriptorNotFound.
func OpenBundle(path string) (*Bundle, error) {
	abs, err := ResolveDir(path)
	if err != nil {
		return nil, err
	}

	b := &Bundle{Path: abs}
	content, err := os.ReadFile(b.DescriptorPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrDescriptorNotFound, abs)
		}
		return nil, errors.Wrapf(err, "failed to read %s", b.DescriptorPath())
	}
	b.Descriptor = string(content)

	return b, nil
}
